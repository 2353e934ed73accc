package models

// SearchRequest is the query string of GET /api/v1/search.
type SearchRequest struct {
	// Query is the organization name to search for. Required.
	Query string `form:"q" binding:"required"`
}

// DetailsRequest is the query string of GET /api/v1/details.
type DetailsRequest struct {
	// URL is a detail-page URL as returned in SearchResult.URL. It must
	// carry the org query parameter. Required.
	URL string `form:"url" binding:"required,url"`

	// Format selects an optional rendering of the source page.
	// Allowed: "" (record only), "markdown".
	Format string `form:"format" binding:"omitempty,oneof=markdown"`
}

package registry

import "github.com/use-agent/corpreg/extract"

// Site describes a registry website: where to search, how to reach detail
// pages and how their markup is laid out.
type Site struct {
	Name string

	// SearchURL is the page holding the name-search form.
	SearchURL string

	// DetailBaseURL prefixes the relative links of the results table.
	DetailBaseURL string

	InputSelector   string // search text input
	ResultsSelector string // container rendered after a search
	DetailSelector  string // container of a detail page

	Search extract.SearchLayout
	Detail extract.DetailLayout
}

// WestVirginia returns the profile of the West Virginia Secretary of State
// corporations search.
func WestVirginia() Site {
	return Site{
		Name:            "West Virginia Secretary of State",
		SearchURL:       "https://apps.sos.wv.gov/business/corporations/Default.aspx",
		DetailBaseURL:   "https://apps.sos.wv.gov/business/corporations/",
		InputSelector:   "#txtOrgName",
		ResultsSelector: "#tableResults",
		DetailSelector:  "#content",
		Search:          extract.DefaultSearchLayout(),
		Detail:          extract.DefaultDetailLayout(),
	}
}

package extract

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/corpreg/models"
)

var (
	rowMatcher    = cascadia.MustCompile("tr")
	cellMatcher   = cascadia.MustCompile("td")
	headMatcher   = cascadia.MustCompile("th")
	anchorMatcher = cascadia.MustCompile("a")
)

// SearchParser turns the markup of a results table into SearchResults.
// It is stateless and safe for concurrent use.
type SearchParser struct {
	layout SearchLayout
	table  cascadia.Selector
}

// NewSearchParser compiles a SearchParser for the given layout.
func NewSearchParser(layout SearchLayout) (*SearchParser, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &SearchParser{
		layout: layout,
		table:  cascadia.MustCompile(layout.TableSelector),
	}, nil
}

var defaultSearch, _ = NewSearchParser(DefaultSearchLayout())

// ParseSearch parses html with the default West Virginia layout.
func ParseSearch(html, state, baseURL string) []models.SearchResult {
	return defaultSearch.Parse(html, state, baseURL)
}

// Parse returns one SearchResult per qualifying row, in document order.
//
// A missing table yields an empty slice. Header rows and rows whose cell
// count differs from the layout's row width (footers, pagers, malformed
// rows) are skipped without being reported.
func (p *SearchParser) Parse(html, state, baseURL string) []models.SearchResult {
	results := []models.SearchResult{}

	table := parseFragment(html).FindMatcher(p.table).First()
	if table.Length() == 0 {
		return results
	}

	table.FindMatcher(rowMatcher).Each(func(_ int, row *goquery.Selection) {
		if row.HasClass(p.layout.HeaderClass) {
			return
		}
		cells := row.FindMatcher(cellMatcher)
		if cells.Length() != p.layout.RowWidth {
			return
		}

		anchor := cells.Eq(p.layout.NameCell).FindMatcher(anchorMatcher).First()
		href, _ := anchor.Attr("href")

		results = append(results, models.SearchResult{
			State: state,
			Name:  nodeText(anchor),
			URL:   baseURL + href,
			ID:    nodeText(cells.Eq(p.layout.IDCell)),
		})
	})

	return results
}

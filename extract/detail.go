package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"github.com/use-agent/corpreg/models"
)

// DetailParser maps the positional tables of an entity detail page onto a
// DetailRecord. It is stateless and safe for concurrent use.
type DetailParser struct {
	layout     DetailLayout
	name       cascadia.Selector
	tables     cascadia.Selector
	summaryRow cascadia.Selector
}

// NewDetailParser compiles a DetailParser for the given layout.
func NewDetailParser(layout DetailLayout) (*DetailParser, error) {
	if err := layout.Validate(); err != nil {
		return nil, err
	}
	return &DetailParser{
		layout:     layout,
		name:       cascadia.MustCompile(layout.NameSelector),
		tables:     cascadia.MustCompile(layout.TableSelector),
		summaryRow: cascadia.MustCompile(layout.SummaryRowSelector),
	}, nil
}

var defaultDetail, _ = NewDetailParser(DefaultDetailLayout())

// ParseDetail parses html with the default West Virginia layout.
func ParseDetail(html, orgID, state string) models.DetailRecord {
	return defaultDetail.Parse(html, orgID, state)
}

// Parse extracts a DetailRecord. orgID is supplied by the caller because
// the page does not reliably echo it.
//
// The result is best effort: a table that is missing or too narrow leaves
// its fields nil and never fails the whole record.
func (p *DetailParser) Parse(html, orgID, state string) models.DetailRecord {
	doc := parseFragment(html)

	rec := models.DetailRecord{
		State:              state,
		Name:               nodeText(doc.FindMatcher(p.name).First()),
		RegistrationNumber: orgID,
	}

	tables := doc.FindMatcher(p.tables)
	if t, ok := tableAt(tables, p.layout.SummaryTable); ok {
		p.parseSummary(t, &rec)
	}
	if t, ok := tableAt(tables, p.layout.AddressTable); ok {
		p.parseAddresses(t, &rec)
	}
	if t, ok := tableAt(tables, p.layout.OfficerTable); ok {
		rec.Officers = parseOfficers(t)
	}

	return rec
}

func tableAt(tables *goquery.Selection, idx int) (*goquery.Selection, bool) {
	if idx < 0 || idx >= tables.Length() {
		return nil, false
	}
	return tables.Eq(idx), true
}

// parseSummary reads the cells of every summary row in document order and
// applies the layout's cell mapping when enough cells are present.
func (p *DetailParser) parseSummary(table *goquery.Selection, rec *models.DetailRecord) {
	cells := table.FindMatcher(p.summaryRow).FindMatcher(cellMatcher)
	if cells.Length() < p.layout.MinSummaryCells {
		return
	}
	for _, cf := range p.layout.SummaryFields {
		value := nodeText(cells.Eq(cf.Index))
		if cf.Transform != nil {
			value = cf.Transform(value)
		}
		setField(rec, cf.Field, value)
	}
}

func (p *DetailParser) parseAddresses(table *goquery.Selection, rec *models.DetailRecord) {
	table.FindMatcher(rowMatcher).Each(func(_ int, row *goquery.Selection) {
		th, td, ok := headerAndData(row)
		if !ok {
			return
		}
		label := nodeText(th)
		for _, lf := range p.layout.AddressLabels {
			if label == lf.Label {
				setField(rec, lf.Field, joinedText(td))
				break
			}
		}
	})
}

// parseOfficers returns one Officer per row that has both a header and a
// data cell. The first line of the data cell is the name; the remaining
// lines form the address.
func parseOfficers(table *goquery.Selection) []models.Officer {
	officers := []models.Officer{}
	table.FindMatcher(rowMatcher).Each(func(_ int, row *goquery.Selection) {
		th, td, ok := headerAndData(row)
		if !ok {
			return
		}
		o := models.Officer{Title: nodeText(th)}
		if lines := textLines(td); len(lines) > 0 {
			o.Name = lines[0]
			o.Address = strings.Join(lines[1:], " ")
		}
		officers = append(officers, o)
	})
	return officers
}

func headerAndData(row *goquery.Selection) (th, td *goquery.Selection, ok bool) {
	th = row.FindMatcher(headMatcher).First()
	td = row.FindMatcher(cellMatcher).First()
	return th, td, th.Length() > 0 && td.Length() > 0
}

package extract

import (
	"fmt"

	"github.com/andybalholm/cascadia"
	"github.com/use-agent/corpreg/models"
)

// Field names a DetailRecord attribute that a layout can populate.
type Field string

const (
	FieldEntityType       Field = "entity_type"
	FieldDateRegistered   Field = "date_registered"
	FieldStatus           Field = "status"
	FieldMailingAddress   Field = "mailing_address"
	FieldPrincipalAddress Field = "principal_address"
)

// CellField maps one positional cell of the summary table to a field.
// Transform, when set, converts the normalized cell text before it is
// stored.
type CellField struct {
	Index     int
	Field     Field
	Transform func(string) string
}

// LabelField maps an exact (case- and whitespace-sensitive) row header
// label of the address table to a field.
type LabelField struct {
	Label string
	Field Field
}

// SearchLayout describes the structure of the search-results table.
type SearchLayout struct {
	TableSelector string // table holding the results
	HeaderClass   string // class marking header rows
	RowWidth      int    // exact cell count of a result row
	NameCell      int    // cell holding the linked organization name
	IDCell        int    // cell holding the organization id
}

// DetailLayout is the positional contract of the detail page. Tables are
// all elements matching TableSelector, addressed by index in document
// order. A negative table index disables that section.
type DetailLayout struct {
	NameSelector  string
	TableSelector string

	SummaryTable       int
	SummaryRowSelector string
	MinSummaryCells    int
	SummaryFields      []CellField

	AddressTable  int
	AddressLabels []LabelField

	OfficerTable int
}

// StatusFromTerminationDate infers the entity status from the termination
// date cell: any non-empty date means the entity is no longer active.
func StatusFromTerminationDate(termination string) string {
	if termination != "" {
		return models.StatusInactive
	}
	return models.StatusActive
}

// DefaultSearchLayout returns the results-table layout of the West
// Virginia corporations search.
func DefaultSearchLayout() SearchLayout {
	return SearchLayout{
		TableSelector: "table#tableResults",
		HeaderClass:   "rowHeader",
		RowWidth:      9,
		NameCell:      0,
		IDCell:        1,
	}
}

// DefaultDetailLayout returns the West Virginia organization detail layout:
// table 0 holds the summary row, table 2 the addresses and table 3 the
// officers.
func DefaultDetailLayout() DetailLayout {
	return DetailLayout{
		NameSelector:       "#lblOrg",
		TableSelector:      "table.tableData",
		SummaryTable:       0,
		SummaryRowSelector: "tr.rowNormal",
		MinSummaryCells:    9,
		SummaryFields: []CellField{
			{Index: 1, Field: FieldEntityType},
			{Index: 2, Field: FieldDateRegistered},
			{Index: 8, Field: FieldStatus, Transform: StatusFromTerminationDate},
		},
		AddressTable: 2,
		AddressLabels: []LabelField{
			{Label: "Mailing Address", Field: FieldMailingAddress},
			{Label: "Principal Office Address", Field: FieldPrincipalAddress},
		},
		OfficerTable: 3,
	}
}

// Validate checks that the search layout is internally consistent.
func (l SearchLayout) Validate() error {
	if _, err := cascadia.Compile(l.TableSelector); err != nil {
		return fmt.Errorf("search layout: table selector %q: %w", l.TableSelector, err)
	}
	if l.RowWidth <= 0 {
		return fmt.Errorf("search layout: row width must be positive, got %d", l.RowWidth)
	}
	for name, idx := range map[string]int{"name": l.NameCell, "id": l.IDCell} {
		if idx < 0 || idx >= l.RowWidth {
			return fmt.Errorf("search layout: %s cell %d outside row width %d", name, idx, l.RowWidth)
		}
	}
	return nil
}

// Validate checks that every selector compiles, every summary cell index
// lies within MinSummaryCells and every field is known.
func (l DetailLayout) Validate() error {
	for _, s := range []string{l.NameSelector, l.TableSelector, l.SummaryRowSelector} {
		if _, err := cascadia.Compile(s); err != nil {
			return fmt.Errorf("detail layout: selector %q: %w", s, err)
		}
	}
	for _, cf := range l.SummaryFields {
		if cf.Index < 0 || cf.Index >= l.MinSummaryCells {
			return fmt.Errorf("detail layout: cell %d for %s outside minimum width %d",
				cf.Index, cf.Field, l.MinSummaryCells)
		}
		if !knownField(cf.Field) {
			return fmt.Errorf("detail layout: unknown field %q", cf.Field)
		}
	}
	for _, lf := range l.AddressLabels {
		if lf.Field != FieldMailingAddress && lf.Field != FieldPrincipalAddress {
			return fmt.Errorf("detail layout: label %q maps to non-address field %q", lf.Label, lf.Field)
		}
	}
	return nil
}

func knownField(f Field) bool {
	switch f {
	case FieldEntityType, FieldDateRegistered, FieldStatus, FieldMailingAddress, FieldPrincipalAddress:
		return true
	}
	return false
}

// setField stores value on the record field named by f.
func setField(rec *models.DetailRecord, f Field, value string) {
	v := value
	switch f {
	case FieldEntityType:
		rec.EntityType = &v
	case FieldDateRegistered:
		rec.DateRegistered = &v
	case FieldStatus:
		rec.Status = &v
	case FieldMailingAddress:
		rec.MailingAddress = &v
	case FieldPrincipalAddress:
		rec.PrincipalAddress = &v
	}
}

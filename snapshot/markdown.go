package snapshot

import (
	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
)

// Converter renders registry containers as Markdown. The underlying
// converter is created once and is goroutine-safe.
type Converter struct {
	md *converter.Converter
}

// NewConverter creates a Converter with the base, commonmark and table
// plugins. Tables keep minimal cell padding: the detail page is almost
// entirely tables.
func NewConverter() *Converter {
	return &Converter{
		md: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(
					table.WithCellPaddingBehavior(table.CellPaddingBehaviorMinimal),
				),
			),
		),
	}
}

// ToMarkdown converts container HTML to Markdown. domain resolves relative
// links such as ViewOrg.aspx?org=... into absolute URLs.
func (c *Converter) ToMarkdown(html, domain string) (string, error) {
	return c.md.ConvertString(html, converter.WithDomain(domain))
}

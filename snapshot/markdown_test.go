package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToMarkdown(t *testing.T) {
	c := NewConverter()

	html := `<div id="content"><span id="lblOrg">ACME WIDGETS, LLC</span>
<script>var x = 1;</script>
<table class="tableData"><tr><th>Type</th><th>Effective Date</th></tr>
<tr><td>LLC</td><td>01/02/2003</td></tr></table>
<a href="ViewOrg.aspx?org=12345">self</a></div>`

	md, err := c.ToMarkdown(html, "https://apps.sos.wv.gov/business/corporations/")
	require.NoError(t, err)

	assert.Contains(t, md, "ACME WIDGETS, LLC")
	assert.Contains(t, md, "| Type")
	assert.Contains(t, md, "01/02/2003")
	assert.Contains(t, md, "https://apps.sos.wv.gov/")
	assert.NotContains(t, md, "var x")
}

package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *ExtractionReport {
	return &ExtractionReport{Pages: []Page{
		{
			Number: 1,
			Regions: []Region{
				{Label: "header", Text: "Annual Report"},
				{Label: "paragraph", Text: "First paragraph."},
				{Label: "table", Text: "Q1 | 100"},
			},
		},
		{
			Number: 2,
			Regions: []Region{
				{Label: "paragraph", Text: "Second paragraph."},
				{Label: "header", Text: "Appendix"},
			},
		},
	}}
}

func TestTextByLabelGroupsInFirstAppearanceOrder(t *testing.T) {
	groups := sampleReport().TextByLabel()

	require.Len(t, groups, 3)
	assert.Equal(t, "header", groups[0].Label)
	assert.Equal(t, "paragraph", groups[1].Label)
	assert.Equal(t, "table", groups[2].Label)

	// Regions of one label keep document order across pages.
	assert.Equal(t, "Annual Report\nAppendix", groups[0].Text)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", groups[1].Text)
	assert.Equal(t, "Q1 | 100", groups[2].Text)
}

func TestTextByLabelSkipsEmptyRegions(t *testing.T) {
	report := &ExtractionReport{Pages: []Page{{
		Number:  1,
		Regions: []Region{{Label: "paragraph", Text: ""}, {Label: "paragraph", Text: "kept"}},
	}}}

	groups := report.TextByLabel()

	require.Len(t, groups, 1)
	assert.Equal(t, "kept", groups[0].Text)
}

func TestPlainTextJoinsAllRegions(t *testing.T) {
	text := sampleReport().PlainText()

	assert.Contains(t, text, "Annual Report")
	assert.Contains(t, text, "Second paragraph.")
}

func TestExtractionReportParsesServiceOutput(t *testing.T) {
	raw := []byte(`{
		"pages": [
			{
				"number": 1,
				"width": 612.0,
				"height": 792.0,
				"regions": [
					{"text": "Hello", "label": "paragraph", "x_top_left": 10.5, "y_top_left": 20.0, "width": 100.0, "height": 12.0}
				]
			}
		]
	}`)

	var report ExtractionReport
	require.NoError(t, json.Unmarshal(raw, &report))
	require.Len(t, report.Pages, 1)
	require.Len(t, report.Pages[0].Regions, 1)
	assert.Equal(t, "Hello", report.Pages[0].Regions[0].Text)
	assert.Equal(t, "paragraph", report.Pages[0].Regions[0].Label)
	assert.Equal(t, 10.5, report.Pages[0].Regions[0].XTopLeft)
}

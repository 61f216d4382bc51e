package models

import "strings"

// ExtractionReport is the layout-analysis output for one document: ordered
// pages, each with ordered text regions. Geometry fields are carried through
// for the artifact but ignored by the pipeline.
type ExtractionReport struct {
	Pages []Page `json:"pages"`
}

type Page struct {
	Number  int      `json:"number"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Regions []Region `json:"regions"`
}

type Region struct {
	Text     string  `json:"text"`
	Label    string  `json:"label"`
	XTopLeft float64 `json:"x_top_left"`
	YTopLeft float64 `json:"y_top_left"`
	WidthPx  float64 `json:"width"`
	HeightPx float64 `json:"height"`
}

// LabeledText is the concatenation of all region text sharing one label,
// in document order.
type LabeledText struct {
	Label string
	Text  string
}

// PlainText joins every region's text in document order, one region per line.
func (r *ExtractionReport) PlainText() string {
	var b strings.Builder
	for _, p := range r.Pages {
		for _, reg := range p.Regions {
			if reg.Text == "" {
				continue
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(reg.Text)
		}
	}
	return b.String()
}

// TextByLabel groups region text by label, preserving first-appearance order
// of labels and document order within each group. Chunks derived from a group
// inherit its label, which is what the label filter on search matches against.
func (r *ExtractionReport) TextByLabel() []LabeledText {
	var order []string
	byLabel := make(map[string]*strings.Builder)
	for _, p := range r.Pages {
		for _, reg := range p.Regions {
			if reg.Text == "" {
				continue
			}
			b, ok := byLabel[reg.Label]
			if !ok {
				b = &strings.Builder{}
				byLabel[reg.Label] = b
				order = append(order, reg.Label)
			}
			if b.Len() > 0 {
				b.WriteString("\n")
			}
			b.WriteString(reg.Text)
		}
	}
	out := make([]LabeledText, 0, len(order))
	for _, label := range order {
		out = append(out, LabeledText{Label: label, Text: byLabel[label].String()})
	}
	return out
}

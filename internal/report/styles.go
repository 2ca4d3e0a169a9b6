// File: internal/report/styles.go
package report

import (
	"github.com/quellen-sec/scanforge/api/schemas"
	"github.com/quellen-sec/scanforge/internal/report/docmodel"
)

// severityColors is the fixed display-color table used for inline severity
// labels and the summary bar. Severities outside the table (which the total
// ordinal mapping should never produce) fall back to the info color.
var severityColors = map[schemas.Severity]string{
	schemas.SeverityCritical: "#B71C1C",
	schemas.SeverityHigh:     "#E65100",
	schemas.SeverityMedium:   "#F9A825",
	schemas.SeverityLow:      "#2E7D32",
	schemas.SeverityInfo:     "#1565C0",
}

// colorFor returns the display color for a severity.
func colorFor(s schemas.Severity) string {
	if c, ok := severityColors[s]; ok {
		return c
	}
	return severityColors[schemas.SeverityInfo]
}

// styleSet bundles the template-dependent styling knobs. Template selection
// only ever changes these values, never the document structure.
type styleSet struct {
	accent         string
	coverTitleSize int
	bodySize       int
	styles         map[string]*docmodel.Style
}

func stylesFor(t schemas.Template) styleSet {
	var accent string
	var coverTitleSize, bodySize int

	switch t {
	case schemas.TemplateProfessional:
		accent = "#1F3864"
		coverTitleSize = 28
		bodySize = 10
	case schemas.TemplateExecutive:
		accent = "#7C2230"
		coverTitleSize = 30
		bodySize = 11
	default: // simple
		accent = "#333333"
		coverTitleSize = 24
		bodySize = 10
	}

	return styleSet{
		accent:         accent,
		coverTitleSize: coverTitleSize,
		bodySize:       bodySize,
		styles: map[string]*docmodel.Style{
			"coverTitle": {
				FontSize:  coverTitleSize,
				Bold:      true,
				Color:     accent,
				Alignment: "center",
				Margin:    []int{0, 160, 0, 8},
			},
			"coverSubtitle": {
				FontSize:  14,
				Color:     "#555555",
				Alignment: "center",
				Margin:    []int{0, 0, 0, 4},
			},
			"sectionHeading": {
				FontSize: bodySize + 6,
				Bold:     true,
				Color:    accent,
				Margin:   []int{0, 18, 0, 8},
			},
			"findingTitle": {
				FontSize: bodySize + 2,
				Bold:     true,
				Margin:   []int{0, 12, 0, 4},
			},
			"body": {
				FontSize: bodySize,
				Margin:   []int{0, 0, 0, 6},
			},
			"tocEntry": {
				FontSize: bodySize,
				Margin:   []int{0, 2, 0, 2},
			},
			"fieldLabel": {
				FontSize: bodySize,
				Bold:     true,
			},
			"tableHeader": {
				FontSize: bodySize,
				Bold:     true,
				Color:    "#FFFFFF",
				Fill:     accent,
			},
		},
	}
}

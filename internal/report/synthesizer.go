// File: internal/report/synthesizer.go
// Description: Renders the aggregated host list, severity totals, and report
// metadata into a structured document definition. The synthesizer owns the
// section layout and numbering; the styling tables come from the selected
// template variant.

package report

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/quellen-sec/scanforge/api/schemas"
	"github.com/quellen-sec/scanforge/internal/report/docmodel"
)

// Fixed generic impact bullets attached to every rendered finding.
var impactBullets = []string{
	"Potential unauthorized access to systems or data.",
	"Exposure of sensitive information to untrusted parties.",
	"Degradation of service availability or integrity.",
}

const scopeBoilerplate = "This assessment consolidates the results of automated vulnerability " +
	"scanning across the in-scope hosts listed in this document. Findings were " +
	"normalized, de-duplicated per host, and ranked by severity. Verification of " +
	"individual findings and exploitation attempts are outside the scope of this report."

// Synthesizer builds document definitions from aggregated scan data.
type Synthesizer struct {
	logger *zap.Logger
	styles styleSet
}

// NewSynthesizer creates a Synthesizer for the given template variant.
func NewSynthesizer(tmpl schemas.Template, logger *zap.Logger) *Synthesizer {
	return &Synthesizer{
		logger: logger.Named("synthesizer"),
		styles: stylesFor(tmpl),
	}
}

// section is one numbered entry of the document body and its TOC.
type section struct {
	number   int
	title    string
	severity schemas.Severity
	hasSev   bool
}

// planSections assigns section numbers. Severity sections exist only for
// severities with at least one finding, and every later number shifts
// accordingly.
func planSections(totals schemas.Totals) []section {
	sections := []section{
		{number: 1, title: "Executive Summary"},
		{number: 2, title: "Scope and Methodology"},
	}
	next := 3
	for _, sev := range schemas.SeverityOrder {
		if totals.Get(sev) == 0 {
			continue
		}
		sections = append(sections, section{
			number:   next,
			title:    fmt.Sprintf("%s Severity Findings", sev.Label()),
			severity: sev,
			hasSev:   true,
		})
		next++
	}
	sections = append(sections, section{number: next, title: "Appendix: Risk Rating Legend"})
	return sections
}

// overallRisk derives the executive-summary risk rating from the highest
// non-empty severity, in fixed priority critical > high > medium > low.
func overallRisk(totals schemas.Totals) schemas.Severity {
	for _, sev := range []schemas.Severity{
		schemas.SeverityCritical,
		schemas.SeverityHigh,
		schemas.SeverityMedium,
		schemas.SeverityLow,
	} {
		if totals.Get(sev) > 0 {
			return sev
		}
	}
	return schemas.SeverityLow
}

// Build assembles the full document definition. Findings are numbered with a
// single document-global sequence starting at 1, in severity order and, within
// a severity, in the aggregated bucket order host by host.
func (s *Synthesizer) Build(hosts []schemas.Host, totals schemas.Totals, meta schemas.Metadata) *docmodel.Document {
	sections := planSections(totals)

	doc := &docmodel.Document{
		Info: &docmodel.Info{
			Title:   fmt.Sprintf("%s Security Assessment Report", meta.Organization),
			Author:  meta.Preparer,
			Subject: "Vulnerability Assessment",
		},
		PageSize:     "A4",
		PageMargins:  []int{48, 56, 48, 56},
		DefaultStyle: &docmodel.Style{FontSize: s.styles.bodySize},
		Styles:       s.styles.styles,
		Footer: &docmodel.Node{
			Columns: []*docmodel.Node{
				{Text: meta.Organization, FontSize: 8, Color: "#888888", Margin: []int{48, 0, 0, 0}},
				{Text: meta.Date.Format("January 2, 2006"), FontSize: 8, Color: "#888888", Alignment: "right", Margin: []int{0, 0, 48, 0}},
			},
		},
	}

	doc.Content = append(doc.Content, s.cover(meta)...)
	doc.Content = append(doc.Content, s.tableOfContents(sections)...)

	seq := 1
	for _, sec := range sections {
		switch {
		case sec.number == 1:
			doc.Content = append(doc.Content, s.executiveSummary(sec, totals)...)
		case sec.number == 2:
			doc.Content = append(doc.Content, s.scopeSection(sec)...)
		case sec.hasSev:
			doc.Content = append(doc.Content, s.severitySection(sec, hosts, &seq)...)
		default:
			doc.Content = append(doc.Content, s.legendAppendix(sec)...)
		}
	}

	s.logger.Debug("Built document definition",
		zap.Int("sections", len(sections)),
		zap.Int("findings", seq-1),
		zap.Int("hosts", len(hosts)),
	)
	return doc
}

func (s *Synthesizer) cover(meta schemas.Metadata) []*docmodel.Node {
	nodes := []*docmodel.Node{}
	if meta.LogoRef != "" {
		nodes = append(nodes, &docmodel.Node{
			Image:     meta.LogoRef,
			Width:     "160",
			Alignment: "center",
			Margin:    []int{0, 60, 0, 0},
		})
	}
	nodes = append(nodes,
		docmodel.Styled(meta.Organization, "coverTitle"),
		docmodel.Styled("Security Assessment Report", "coverSubtitle"),
		docmodel.Styled(meta.Date.Format("January 2, 2006"), "coverSubtitle"),
		docmodel.Styled(fmt.Sprintf("Prepared by %s", meta.Preparer), "coverSubtitle"),
	)
	return nodes
}

func (s *Synthesizer) tableOfContents(sections []section) []*docmodel.Node {
	nodes := []*docmodel.Node{
		{Text: "Table of Contents", Style: "sectionHeading", PageBreak: "before"},
	}
	for _, sec := range sections {
		nodes = append(nodes, docmodel.Styled(
			fmt.Sprintf("%d. %s", sec.number, sec.title), "tocEntry"))
	}
	return nodes
}

func (s *Synthesizer) executiveSummary(sec section, totals schemas.Totals) []*docmodel.Node {
	risk := overallRisk(totals)

	summaryBar := &docmodel.Node{Columns: []*docmodel.Node{}, Margin: []int{0, 8, 0, 8}}
	for _, sev := range schemas.SeverityOrder {
		summaryBar.Columns = append(summaryBar.Columns, &docmodel.Node{
			Stack: []*docmodel.Node{
				{Text: fmt.Sprintf("%d", totals.Get(sev)), Bold: true, FontSize: 16, Color: "#FFFFFF", Alignment: "center"},
				{Text: sev.Label(), FontSize: 9, Color: "#FFFFFF", Alignment: "center"},
			},
			Fill:   colorFor(sev),
			Margin: []int{2, 4, 2, 4},
		})
	}

	return []*docmodel.Node{
		{Text: fmt.Sprintf("%d. %s", sec.number, sec.title), Style: "sectionHeading", PageBreak: "before"},
		docmodel.Styled(fmt.Sprintf(
			"The assessment identified %d findings across the in-scope hosts.", totals.Sum()), "body"),
		{
			Columns: []*docmodel.Node{
				docmodel.Styled("Overall Risk Rating: ", "fieldLabel"),
				{Text: risk.Label(), Bold: true, Color: colorFor(risk)},
			},
			Margin: []int{0, 4, 0, 4},
		},
		summaryBar,
	}
}

func (s *Synthesizer) scopeSection(sec section) []*docmodel.Node {
	return []*docmodel.Node{
		{Text: fmt.Sprintf("%d. %s", sec.number, sec.title), Style: "sectionHeading"},
		docmodel.Styled(scopeBoilerplate, "body"),
	}
}

// severitySection renders one per-severity section, listing every finding at
// that severity across all hosts and advancing the document-global sequence.
func (s *Synthesizer) severitySection(sec section, hosts []schemas.Host, seq *int) []*docmodel.Node {
	nodes := []*docmodel.Node{
		{
			Text:      fmt.Sprintf("%d. %s", sec.number, sec.title),
			Style:     "sectionHeading",
			Color:     colorFor(sec.severity),
			PageBreak: "before",
		},
	}
	for _, host := range hosts {
		for _, f := range host.Findings[sec.severity] {
			nodes = append(nodes, s.findingBlock(*seq, host, f)...)
			*seq++
		}
	}
	return nodes
}

func (s *Synthesizer) findingBlock(seq int, host schemas.Host, f schemas.Finding) []*docmodel.Node {
	detail := []*docmodel.Node{
		{Columns: []*docmodel.Node{
			docmodel.Styled("Severity: ", "fieldLabel"),
			{Text: f.Severity.Label(), Bold: true, Color: colorFor(f.Severity)},
			docmodel.Styled("  Score: ", "fieldLabel"),
			docmodel.Txt(f.Score),
			docmodel.Styled("  ID: ", "fieldLabel"),
			docmodel.Txt(f.ID),
		}},
		{Columns: []*docmodel.Node{
			docmodel.Styled("Affected Host: ", "fieldLabel"),
			docmodel.Txt(host.Address),
		}},
	}
	if f.Occurrences > 1 {
		detail = append(detail, &docmodel.Node{Columns: []*docmodel.Node{
			docmodel.Styled("Occurrences: ", "fieldLabel"),
			docmodel.Txt(fmt.Sprintf("%d", f.Occurrences)),
		}})
	}

	nodes := []*docmodel.Node{
		docmodel.Styled(fmt.Sprintf("%d. %s", seq, f.Title), "findingTitle"),
		{Stack: detail, Margin: []int{0, 0, 0, 6}},
	}
	nodes = append(nodes, formatText(f.Description, noDescription)...)

	impact := &docmodel.Node{Items: []*docmodel.Node{}, Margin: []int{0, 2, 0, 6}}
	for _, bullet := range impactBullets {
		impact.Items = append(impact.Items, docmodel.Styled(bullet, "body"))
	}
	nodes = append(nodes,
		docmodel.Styled("Potential Impact", "fieldLabel"),
		impact,
		docmodel.Styled("Remediation", "fieldLabel"),
	)
	nodes = append(nodes, formatText(f.Remediation, noRemediation)...)
	return nodes
}

func (s *Synthesizer) legendAppendix(sec section) []*docmodel.Node {
	legend := map[schemas.Severity]string{
		schemas.SeverityCritical: "Exploitation is trivial or imminent and leads to full compromise. Remediate immediately.",
		schemas.SeverityHigh:     "Exploitation is likely and leads to significant compromise. Remediate as a priority.",
		schemas.SeverityMedium:   "Exploitation requires effort or preconditions. Remediate in the normal patch cycle.",
		schemas.SeverityLow:      "Limited direct impact. Address opportunistically.",
		schemas.SeverityInfo:     "Informational observation with no direct security impact.",
	}

	body := [][]*docmodel.Node{{
		docmodel.Styled("Rating", "tableHeader"),
		docmodel.Styled("Description", "tableHeader"),
	}}
	for _, sev := range schemas.SeverityOrder {
		body = append(body, []*docmodel.Node{
			{Text: sev.Label(), Bold: true, Color: colorFor(sev)},
			docmodel.Txt(legend[sev]),
		})
	}

	return []*docmodel.Node{
		{Text: fmt.Sprintf("%d. %s", sec.number, sec.title), Style: "sectionHeading", PageBreak: "before"},
		{Table: &docmodel.Table{
			Widths:     []string{"auto", "*"},
			HeaderRows: 1,
			Body:       body,
		}},
	}
}

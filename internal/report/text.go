// File: internal/report/text.go
package report

import (
	"regexp"
	"strings"

	"github.com/quellen-sec/scanforge/internal/report/docmodel"
)

// Placeholder text shown when a finding carries no usable body text.
const (
	noDescription = "No description available"
	noRemediation = "No remediation steps available"
)

// paragraphBreak matches two or more consecutive line breaks, which separate
// paragraph blocks. Single line breaks stay inline within a paragraph and are
// the renderer's to honor.
var paragraphBreak = regexp.MustCompile(`\n{2,}`)

// formatText converts free text into paragraph nodes. Empty or
// whitespace-only input yields a single paragraph with the placeholder.
func formatText(text, placeholder string) []*docmodel.Node {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))
	if text == "" {
		return []*docmodel.Node{docmodel.Styled(placeholder, "body")}
	}

	blocks := paragraphBreak.Split(text, -1)
	nodes := make([]*docmodel.Node, 0, len(blocks))
	for _, block := range blocks {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		nodes = append(nodes, docmodel.Styled(block, "body"))
	}
	if len(nodes) == 0 {
		return []*docmodel.Node{docmodel.Styled(placeholder, "body")}
	}
	return nodes
}

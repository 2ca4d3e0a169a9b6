// File: internal/normalize/normalize.go
// Description: Converts one scanner export's raw XML into canonical per-host
// records with categorized findings. This is the only stage that touches the
// scanner's wire dialect; everything downstream works on schemas types.

package normalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/quellen-sec/scanforge/api/schemas"
)

// Placeholder text used when the scanner export omits a field. Downstream
// code can rely on these fields never being empty.
const (
	PlaceholderTitle       = "Unknown Vulnerability"
	PlaceholderDescription = "No description provided"
	PlaceholderRemediation = "No remediation provided"
	PlaceholderScore       = "0.0"
)

// ParseError reports that a single export file could not be interpreted as
// the expected XML dialect. It is scoped to that file: the caller may keep
// processing the rest of the batch.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse scan file %q: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// newFindingID generates an opaque identity for findings the scanner did not
// assign one to. It is a package variable so tests can pin it deterministic.
var newFindingID = uuid.NewString

// File parses one export file's content into a list of Host records.
// Any structural problem is wrapped in a *ParseError carrying the filename.
func File(name string, content []byte, logger *zap.Logger) ([]schemas.Host, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(content); err != nil {
		return nil, &ParseError{File: name, Err: err}
	}

	// The report node is addressed by path rather than assuming a fixed
	// root element name, since exports sometimes nest it differently.
	reportNode := doc.FindElement("//Report")
	if reportNode == nil {
		return nil, &ParseError{File: name, Err: fmt.Errorf("no Report element found")}
	}

	// SelectElements yields zero, one, or many ReportHost children, so the
	// single-host and multi-host document shapes come out as one list.
	hostNodes := reportNode.SelectElements("ReportHost")

	hosts := make([]schemas.Host, 0, len(hostNodes))
	for _, hostNode := range hostNodes {
		hosts = append(hosts, normalizeHost(hostNode))
	}

	logger.Debug("Normalized scan file",
		zap.String("file", name),
		zap.Int("hosts", len(hosts)),
	)
	return hosts, nil
}

// normalizeHost converts one ReportHost element into a Host record.
func normalizeHost(node *etree.Element) schemas.Host {
	displayName := node.SelectAttrValue("name", "")

	host := schemas.Host{
		Address:     hostAddress(node, displayName),
		DisplayName: displayName,
		Findings:    make(map[schemas.Severity][]schemas.Finding, len(schemas.SeverityOrder)),
	}
	for _, sev := range schemas.SeverityOrder {
		host.Findings[sev] = []schemas.Finding{}
	}

	for _, item := range node.SelectElements("ReportItem") {
		f := normalizeFinding(item)
		host.Findings[f.Severity] = append(host.Findings[f.Severity], f)
	}
	return host
}

// hostAddress scans the host's property tags for the literal "host-ip" entry
// and returns its text. When the property list carries no such tag, the
// host's declared name stands in as the address.
func hostAddress(node *etree.Element, displayName string) string {
	for _, tag := range node.FindElements("HostProperties/tag") {
		if tag.SelectAttrValue("name", "") == "host-ip" {
			if ip := strings.TrimSpace(tag.Text()); ip != "" {
				return ip
			}
		}
	}
	return displayName
}

// normalizeFinding converts one ReportItem element into a Finding.
func normalizeFinding(item *etree.Element) schemas.Finding {
	ordinal := 0
	if raw := item.SelectAttrValue("severity", ""); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			ordinal = v
		}
	}

	id := item.SelectAttrValue("pluginID", "")
	if id == "" {
		id = newFindingID()
	}

	title := item.SelectAttrValue("pluginName", "")
	if title == "" {
		title = PlaceholderTitle
	}

	return schemas.Finding{
		ID:          id,
		Title:       title,
		Severity:    schemas.SeverityFromOrdinal(ordinal),
		Description: childTextOr(item, "description", PlaceholderDescription),
		Remediation: childTextOr(item, "solution", PlaceholderRemediation),
		Score:       findingScore(item),
		Occurrences: 1,
	}
}

// findingScore prefers the base score, falls back to the vector string, and
// defaults to "0.0". The value stays free-form text.
func findingScore(item *etree.Element) string {
	if s := childText(item, "cvss_base_score"); s != "" {
		return s
	}
	if s := childText(item, "cvss_vector"); s != "" {
		return s
	}
	return PlaceholderScore
}

func childText(parent *etree.Element, name string) string {
	if el := parent.SelectElement(name); el != nil {
		return strings.TrimSpace(el.Text())
	}
	return ""
}

func childTextOr(parent *etree.Element, name, fallback string) string {
	if s := childText(parent, name); s != "" {
		return s
	}
	return fallback
}

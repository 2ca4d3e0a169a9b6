// File: api/schemas/report.go
package schemas

import (
	"strconv"
	"time"
)

// Severity represents the severity level of a scanner finding. The values are
// lowercase to keep them stable as wire/report identifiers.
type Severity string

// Constants defining the standard severity levels for findings.
const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// SeverityOrder lists all severities from most to least severe. Iteration over
// finding buckets must use this slice so output ordering stays deterministic.
var SeverityOrder = []Severity{
	SeverityCritical,
	SeverityHigh,
	SeverityMedium,
	SeverityLow,
	SeverityInfo,
}

// SeverityFromOrdinal maps a scanner-native severity ordinal to a Severity.
// The mapping is total: 4 is critical down through 1 for low, and anything
// else (0, out-of-range, or the zero value from an unparseable attribute)
// is informational.
func SeverityFromOrdinal(ordinal int) Severity {
	switch ordinal {
	case 4:
		return SeverityCritical
	case 3:
		return SeverityHigh
	case 2:
		return SeverityMedium
	case 1:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// Label returns the human-readable form used in rendered documents.
func (s Severity) Label() string {
	switch s {
	case SeverityCritical:
		return "Critical"
	case SeverityHigh:
		return "High"
	case SeverityMedium:
		return "Medium"
	case SeverityLow:
		return "Low"
	default:
		return "Info"
	}
}

// Finding is one vulnerability instance reported on a host by a scan.
type Finding struct {
	// ID is the stable scanner-assigned identifier (plugin/check ID). It is
	// the de-duplication key within a single host's bucket.
	ID string `json:"id"`
	// Title is the human-readable name of the vulnerability.
	Title string `json:"title"`
	// Severity is the categorized severity derived from the scanner ordinal.
	Severity Severity `json:"severity"`
	// Description and Remediation are free text; the normalizer guarantees
	// they are never empty.
	Description string `json:"description"`
	Remediation string `json:"remediation"`
	// Score is the numeric severity score as free-form text. It may be a
	// single number or a vector string; it is only interpreted numerically
	// when used as a sort key.
	Score string `json:"score"`
	// Occurrences counts how many times the same identity was observed for
	// this host across all aggregated files. Always >= 1.
	Occurrences int `json:"occurrences"`
}

// ScoreValue interprets the free-form score as a float for sorting.
// Unparseable scores (vector strings and the like) sort as 0.
func (f Finding) ScoreValue() float64 {
	v, err := strconv.ParseFloat(f.Score, 64)
	if err != nil {
		return 0
	}
	return v
}

// Host is one scanned endpoint with its findings partitioned by severity.
type Host struct {
	// Address is the canonical merge key. It comes from the scanner's
	// host-ip property, falling back to the declared name.
	Address string `json:"address"`
	// DisplayName is the scanner's declared name, kept for display only.
	DisplayName string `json:"display_name"`
	// Findings partitions the host's findings into the five severity
	// buckets. Every finding lives in exactly one bucket matching its
	// Severity field.
	Findings map[Severity][]Finding `json:"findings"`
}

// FindingCount returns the total number of distinct findings on the host.
func (h Host) FindingCount() int {
	n := 0
	for _, sev := range SeverityOrder {
		n += len(h.Findings[sev])
	}
	return n
}

// Clone returns a deep copy of the host, so callers can snapshot or rework a
// record without touching the normalizer's output.
func (h Host) Clone() Host {
	out := Host{
		Address:     h.Address,
		DisplayName: h.DisplayName,
		Findings:    make(map[Severity][]Finding, len(SeverityOrder)),
	}
	for _, sev := range SeverityOrder {
		out.Findings[sev] = append([]Finding(nil), h.Findings[sev]...)
	}
	return out
}

// Totals holds the per-severity finding counts for an aggregated host list.
type Totals struct {
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
	Info     int `json:"info"`
}

// Get returns the count for a single severity.
func (t Totals) Get(s Severity) int {
	switch s {
	case SeverityCritical:
		return t.Critical
	case SeverityHigh:
		return t.High
	case SeverityMedium:
		return t.Medium
	case SeverityLow:
		return t.Low
	default:
		return t.Info
	}
}

// Sum returns the count of all findings across every severity.
func (t Totals) Sum() int {
	return t.Critical + t.High + t.Medium + t.Low + t.Info
}

// Template selects the document styling variant. It only ever influences the
// synthesizer's style tables, never normalization or aggregation.
type Template string

const (
	TemplateSimple       Template = "simple"
	TemplateProfessional Template = "professional"
	TemplateExecutive    Template = "executive"
)

// Metadata carries the caller-supplied report details rendered into the
// document's cover, summary, and footer.
type Metadata struct {
	Organization string    `json:"organization"`
	Date         time.Time `json:"date"`
	Preparer     string    `json:"preparer"`
	Template     Template  `json:"template,omitempty"`
	// LogoRef is an optional opaque image reference (data URI or renderer
	// asset name) placed on the cover.
	LogoRef string `json:"logo_ref,omitempty"`
}

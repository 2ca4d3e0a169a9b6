// File: internal/aggregate/aggregate.go
// Description: Folds per-file host lists into one canonical, sorted host list,
// de-duplicating findings by identity and counting repeat occurrences.

package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/quellen-sec/scanforge/api/schemas"
)

// Merge combines the host lists produced from each input file into one
// canonical list. Hosts sharing an address are merged; findings sharing an
// identity within a host's bucket collapse into one entry whose occurrence
// count advances. Text fields of a repeated finding keep the first-seen
// values, so batch order is significant and must match file-list order.
// Inputs are never mutated; every returned record is an owned copy.
func Merge(batches [][]schemas.Host) []schemas.Host {
	byAddress := make(map[string]*schemas.Host)
	order := make([]string, 0)

	for _, batch := range batches {
		for _, host := range batch {
			existing, ok := byAddress[host.Address]
			if !ok {
				existing = &schemas.Host{
					Address:     host.Address,
					DisplayName: host.DisplayName,
					Findings:    make(map[schemas.Severity][]schemas.Finding, len(host.Findings)),
				}
				byAddress[host.Address] = existing
				order = append(order, host.Address)
			}
			for _, sev := range schemas.SeverityOrder {
				if incoming := host.Findings[sev]; len(incoming) > 0 {
					existing.Findings[sev] = mergeAndCount(existing.Findings[sev], incoming)
				}
			}
		}
	}

	merged := make([]schemas.Host, 0, len(order))
	for _, addr := range order {
		host := *byAddress[addr]
		for _, sev := range schemas.SeverityOrder {
			sortBucket(host.Findings[sev])
		}
		merged = append(merged, host)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return addressLess(merged[i].Address, merged[j].Address)
	})
	return merged
}

// mergeAndCount folds incoming findings into a bucket keyed by identity.
// A known identity increments the existing entry's occurrence count and keeps
// its text fields; a new identity is inserted with a count of 1. Repeats of an
// identity inside incoming itself collapse the same way, so a scanner that
// reports one plugin against several ports of a host yields a single entry.
func mergeAndCount(existing, incoming []schemas.Finding) []schemas.Finding {
	index := make(map[string]int, len(existing))
	out := append([]schemas.Finding(nil), existing...)
	for i, f := range out {
		index[f.ID] = i
	}

	for _, f := range incoming {
		if i, ok := index[f.ID]; ok {
			out[i].Occurrences++
			continue
		}
		f.Occurrences = 1
		index[f.ID] = len(out)
		out = append(out, f)
	}
	return out
}

// sortBucket orders a bucket by descending occurrence count, ties broken by
// descending numeric score.
func sortBucket(bucket []schemas.Finding) {
	sort.SliceStable(bucket, func(i, j int) bool {
		if bucket[i].Occurrences != bucket[j].Occurrences {
			return bucket[i].Occurrences > bucket[j].Occurrences
		}
		return bucket[i].ScoreValue() > bucket[j].ScoreValue()
	})
}

// addressLess compares two host addresses segment-wise as dotted numeric
// strings, so "10.0.0.10" sorts after "10.0.0.2". A segment that is not a
// number compares as 0; this keeps the ordering deterministic for hostnames
// that stood in for missing IPs.
func addressLess(a, b string) bool {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	n := len(as)
	if len(bs) < n {
		n = len(bs)
	}
	for i := 0; i < n; i++ {
		av, bv := segmentValue(as[i]), segmentValue(bs[i])
		if av != bv {
			return av < bv
		}
	}
	if len(as) != len(bs) {
		return len(as) < len(bs)
	}
	// Equal numerically; fall back to the raw strings for a stable order.
	return a < b
}

func segmentValue(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return v
}

// Totals reduces an aggregated host list to its per-severity counts.
func Totals(hosts []schemas.Host) schemas.Totals {
	var t schemas.Totals
	for _, h := range hosts {
		t.Critical += len(h.Findings[schemas.SeverityCritical])
		t.High += len(h.Findings[schemas.SeverityHigh])
		t.Medium += len(h.Findings[schemas.SeverityMedium])
		t.Low += len(h.Findings[schemas.SeverityLow])
		t.Info += len(h.Findings[schemas.SeverityInfo])
	}
	return t
}

package model

import (
	"sort"
)

// Category is a server-held spending category. Categories are free-text on
// transactions; the server auto-creates unseen names.
type Category struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// Person is a server-held household member label.
type Person struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	IsDefault bool   `json:"is_default"`
}

// MergeDistinctLabels combines reference-data names with labels observed in
// transaction data into a single sorted, deduplicated option list. Blank
// labels are dropped.
func MergeDistinctLabels(serverList, derived []string) []string {
	seen := make(map[string]struct{}, len(serverList)+len(derived))
	merged := make([]string, 0, len(serverList)+len(derived))
	for _, labels := range [][]string{serverList, derived} {
		for _, label := range labels {
			if label == "" {
				continue
			}
			if _, ok := seen[label]; ok {
				continue
			}
			seen[label] = struct{}{}
			merged = append(merged, label)
		}
	}
	sort.Strings(merged)
	return merged
}

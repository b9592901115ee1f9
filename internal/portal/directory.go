// Package portal maps city names to government grievance-portal URLs.
package portal

import (
	"sort"
	"strings"
)

// DefaultURL is the central grievance portal used when no city matches.
const DefaultURL = "https://pgportal.gov.in/"

var defaultEntries = map[string]string{
	"mumbai":    "https://portal.mcgm.gov.in/",
	"pune":      "https://pmc.gov.in/",
	"nashik":    "https://nashikcorp.in/",
	"delhi":     "https://mcdonline.nic.in/",
	"bangalore": "https://www.bengaluru.cityportal.in/",
	"hyderabad": "https://www.greaterhyd.gov.in/",
	"chennai":   "https://chennaicorporation.gov.in/",
	"kolkata":   "https://www.kmcgov.in/",
	"ahmedabad": "https://ahmedabadcity.gov.in/",
}

// Directory resolves free-form city text to a portal URL. The table is built
// once and read-only afterwards, so it is safe for concurrent readers.
type Directory struct {
	entries     map[string]string
	orderedKeys []string
	defaultURL  string
}

// New builds a directory over the built-in city table.
func New() *Directory {
	return NewWithEntries(defaultEntries, DefaultURL)
}

// NewWithEntries builds a directory over a caller-supplied table.
func NewWithEntries(entries map[string]string, defaultURL string) *Directory {
	d := &Directory{
		entries:    make(map[string]string, len(entries)),
		defaultURL: defaultURL,
	}
	for key, url := range entries {
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "" {
			continue
		}
		d.entries[key] = url
		d.orderedKeys = append(d.orderedKeys, key)
	}
	// Longest key first so that the substring fallback has a deterministic
	// tie-break when one key contains another.
	sort.Slice(d.orderedKeys, func(i, j int) bool {
		if len(d.orderedKeys[i]) != len(d.orderedKeys[j]) {
			return len(d.orderedKeys[i]) > len(d.orderedKeys[j])
		}
		return d.orderedKeys[i] < d.orderedKeys[j]
	})
	return d
}

// Resolve returns the portal URL for a city. The input is trimmed and
// lowercased; an exact key match wins, then the first table key contained in
// the input as a substring, then the default portal. This is a best-effort
// heuristic, not a geocoder.
func (d *Directory) Resolve(cityText string) string {
	key := strings.ToLower(strings.TrimSpace(cityText))
	if key == "" {
		return d.defaultURL
	}
	if url, ok := d.entries[key]; ok {
		return url
	}
	for _, candidate := range d.orderedKeys {
		if strings.Contains(key, candidate) {
			return d.entries[candidate]
		}
	}
	return d.defaultURL
}

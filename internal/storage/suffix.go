package storage

import (
	"net/url"
	"path"
	"strings"
)

// suffixTable maps URL keyword tokens to destination file suffixes.
// Evaluated in order; the first matching token wins.
var suffixTable = []struct {
	token  string
	suffix string
}{
	{"rent_contracts", "rent_contracts"},
	{"transactions", "transactions"},
	{"projects", "projects"},
	{"units", "units"},
	{"developers", "developers"},
	{"buildings", "buildings"},
}

const defaultSuffix = "data"

// ResolveSuffix picks the destination file name for a source URL by
// case-insensitive substring match against the token table, falling back
// to the URL path basename and then to a fixed default. Pure: same URL
// always yields the same suffix.
func ResolveSuffix(rawURL string) string {
	lower := strings.ToLower(rawURL)
	for _, entry := range suffixTable {
		if strings.Contains(lower, entry.token) {
			return entry.suffix
		}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return defaultSuffix
	}
	base := path.Base(parsed.Path)
	if base == "." || base == "/" {
		return defaultSuffix
	}
	if trimmed := strings.TrimSuffix(base, path.Ext(base)); trimmed != "" {
		return trimmed
	}
	return defaultSuffix
}

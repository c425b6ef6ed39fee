package util

import "strings"

// SanitizeGraphText strips NUL bytes and invalid UTF-8 sequences from a value
// before it is written as a Neo4j string property.
func SanitizeGraphText(value string) string {
	if value == "" {
		return value
	}

	sanitized := strings.ToValidUTF8(value, "")
	return strings.ReplaceAll(sanitized, "\x00", "")
}

package common

import "strconv"

// AtoiDefault converts the provided string to an integer falling back to the default when parsing fails.
func AtoiDefault(value string, def int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

// ParseID parses a numeric entity identifier. Ids arriving over the wire are
// normalised to int64 so lookups never rely on loosely typed comparison.
func ParseID(value string) (int64, error) {
	return strconv.ParseInt(value, 10, 64)
}

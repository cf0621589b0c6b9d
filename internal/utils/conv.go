package utils

import (
	"strconv"
	"strings"
)

// StringToInt converts string to int, returns 0 if error
func StringToInt(s string) int {
	i, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return i
}

// ParseID parses a positive resource id taken from a route parameter.
func ParseID(s string) (int, bool) {
	id := StringToInt(s)
	return id, id > 0
}

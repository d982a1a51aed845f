package utils

import (
	"sort"
)

// GetKeys returns the keys of a map sorted alphabetically.
func GetKeys[T any](m map[string]T) []string {
	keys := []string{}
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

package utils

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
)

// ParseID parses a positive decimal entity id such as a listing key.
func ParseID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", s, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be positive", s)
	}
	return id, nil
}

// PadID formats id as a zero-padded decimal of at least width digits.
func PadID(id, width int) string {
	return fmt.Sprintf("%0*d", width, id)
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

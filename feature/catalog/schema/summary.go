package schema

import (
	"strconv"

	"bandori-index/core/utils"
	"bandori-index/feature/catalog/models"

	"github.com/goccy/go-json"
)

// Summary is a parsed listing: the eligible ids and their raw listing entries.
type Summary struct {
	Kind    models.Kind
	IDs     []int
	entries map[int]json.RawMessage
}

// Len returns the number of eligible ids.
func (s Summary) Len() int {
	return len(s.IDs)
}

// Entry returns the raw listing entry of an eligible id.
func (s Summary) Entry(id int) ([]byte, bool) {
	raw, ok := s.entries[id]
	return raw, ok
}

// Listing re-encodes the eligible entries in listing shape.
func (s Summary) Listing() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(s.entries))
	for id, raw := range s.entries {
		out[strconv.Itoa(id)] = raw
	}
	return json.Marshal(out)
}

func parseSummary[T any](kind models.Kind, data []byte, eligible func(T) bool) (Summary, error) {
	var listing map[string]json.RawMessage
	if err := json.Unmarshal(data, &listing); err != nil {
		return Summary{}, &ValidationError{Kind: kind, Field: "listing", Reason: err.Error()}
	}

	s := Summary{Kind: kind, entries: make(map[int]json.RawMessage, len(listing))}
	for _, key := range utils.SortedKeys(listing) {
		id, err := utils.ParseID(key)
		if err != nil {
			return Summary{}, &ValidationError{Kind: kind, Field: "id", Reason: err.Error()}
		}

		var entry T
		if err := decodeAndValidate(kind, id, listing[key], &entry); err != nil {
			return Summary{}, err
		}
		if eligible(entry) {
			s.entries[id] = listing[key]
		}
	}
	s.IDs = utils.SortedKeys(s.entries)
	return s, nil
}

package collection

import (
	"iter"
	"slices"
	"sort"

	"bandori-index/core/utils"
	"bandori-index/feature/catalog/models"
)

// Collection is an immutable set of records keyed by id.
type Collection[T any] struct {
	byID map[int]T
	ids  []int
}

type cloner[T any] interface {
	Clone() T
}

// detach deep-copies records that know how to clone themselves.
func detach[T any](rec T) T {
	if c, ok := any(rec).(cloner[T]); ok {
		return c.Clone()
	}
	return rec
}

// New freezes records into a Collection. The map and its records are copied.
func New[T any](records map[int]T) Collection[T] {
	byID := make(map[int]T, len(records))
	for id, rec := range records {
		byID[id] = detach(rec)
	}
	return Collection[T]{byID: byID, ids: utils.SortedKeys(byID)}
}

// Get returns a copy of the record with id.
func (c Collection[T]) Get(id int) (T, bool) {
	rec, ok := c.byID[id]
	if !ok {
		return rec, false
	}
	return detach(rec), true
}

// Has reports whether id is present.
func (c Collection[T]) Has(id int) bool {
	_, ok := c.byID[id]
	return ok
}

// IDs returns the ids in ascending order.
func (c Collection[T]) IDs() []int {
	return slices.Clone(c.ids)
}

// Len returns the number of records.
func (c Collection[T]) Len() int {
	return len(c.ids)
}

// All iterates over the records in ascending id order.
func (c Collection[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for _, id := range c.ids {
			if !yield(id, detach(c.byID[id])) {
				return
			}
		}
	}
}

// Set holds the collections of one pipeline run.
type Set struct {
	Bands      Collection[models.Band]
	Cards      Collection[models.Card]
	Characters Collection[models.Character]
	Events     Collection[models.Event]
	Gachas     Collection[models.Gacha]
	Songs      Collection[models.Song]
	VoiceBanks VoiceBanks
}

// Len returns the number of records of kind.
func (s *Set) Len(kind models.Kind) int {
	switch kind {
	case models.KindBands:
		return s.Bands.Len()
	case models.KindCards:
		return s.Cards.Len()
	case models.KindCharacters:
		return s.Characters.Len()
	case models.KindEvents:
		return s.Events.Len()
	case models.KindGachas:
		return s.Gachas.Len()
	case models.KindSongs:
		return s.Songs.Len()
	default:
		return 0
	}
}

// VoiceBanks indexes the gacha voice bank directories by file name.
type VoiceBanks struct {
	banks []string
	files map[string]map[string]struct{}
}

// NewVoiceBanks indexes bank name -> file names.
func NewVoiceBanks(banks map[string][]string) VoiceBanks {
	v := VoiceBanks{files: make(map[string]map[string]struct{}, len(banks))}
	for bank, names := range banks {
		set := make(map[string]struct{}, len(names))
		for _, name := range names {
			set[name] = struct{}{}
		}
		v.files[bank] = set
		v.banks = append(v.banks, bank)
	}
	sort.Strings(v.banks)
	return v
}

// Banks returns the bank names in ascending order.
func (v VoiceBanks) Banks() []string {
	return slices.Clone(v.banks)
}

// Find returns the first bank, in name order, that lists file.
func (v VoiceBanks) Find(file string) (string, bool) {
	for _, bank := range v.banks {
		if _, ok := v.files[bank][file]; ok {
			return bank, true
		}
	}
	return "", false
}

package collection

import (
	"slices"

	"bandori-index/feature/catalog/models"
)

type droppedRefs struct {
	characterBands int
	songBands      int
	cards          int
	eventMembers   int
	gachaCards     int
}

func (d droppedRefs) any() bool {
	return d != droppedRefs{}
}

// closeReferences removes references to ids missing from their target kind. Records are
// replaced, never modified in place.
func closeReferences(
	bands map[int]models.Band,
	cards map[int]models.Card,
	characters map[int]models.Character,
	events map[int]models.Event,
	gachas map[int]models.Gacha,
	songs map[int]models.Song,
) droppedRefs {
	var d droppedRefs

	for id, c := range characters {
		if c.BandID != nil && !has(bands, *c.BandID) {
			c.BandID = nil
			characters[id] = c
			d.characterBands++
		}
	}

	for id, s := range songs {
		if s.BandID != nil && !has(bands, *s.BandID) {
			s.BandID = nil
			songs[id] = s
			d.songBands++
		}
	}

	// Cards go first: events and gachas are filtered against the surviving cards.
	for id, c := range cards {
		if !has(characters, c.CharacterID) {
			delete(cards, id)
			d.cards++
		}
	}

	for id, e := range events {
		chars := keep(e.CharacterIDs, characters)
		members := keep(e.CardIDs, cards)
		n := len(e.CharacterIDs) - len(chars) + len(e.CardIDs) - len(members)
		if n > 0 {
			e.CharacterIDs = chars
			e.CardIDs = members
			events[id] = e
			d.eventMembers += n
		}
	}

	for id, g := range gachas {
		newCards := keep(g.NewCardIDs, cards)
		jp, jpDropped := keepRates(g.Rates.JP, cards)
		en, enDropped := keepRates(g.Rates.EN, cards)
		n := len(g.NewCardIDs) - len(newCards) + jpDropped + enDropped
		if n > 0 {
			g.NewCardIDs = newCards
			g.Rates = models.Regional[[]models.PickupRate]{JP: jp, EN: en}
			gachas[id] = g
			d.gachaCards += n
		}
	}

	return d
}

func has[T any](m map[int]T, id int) bool {
	_, ok := m[id]
	return ok
}

func keep[T any](ids []int, target map[int]T) []int {
	out := make([]int, 0, len(ids))
	for _, id := range ids {
		if has(target, id) {
			out = append(out, id)
		}
	}
	return out
}

func keepRates(rates *[]models.PickupRate, cards map[int]models.Card) (*[]models.PickupRate, int) {
	if rates == nil {
		return nil, 0
	}
	out := slices.DeleteFunc(slices.Clone(*rates), func(r models.PickupRate) bool {
		return !has(cards, r.CardID)
	})
	return &out, len(*rates) - len(out)
}

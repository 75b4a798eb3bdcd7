package graph

import (
	"fmt"

	"bandori-index/feature/catalog/artifact"
	"bandori-index/feature/catalog/collection"
	"bandori-index/feature/catalog/models"
)

// DanglingReferenceError reports a foreign key without a target record.
type DanglingReferenceError struct {
	Kind     models.Kind
	ID       int
	Field    string
	Target   models.Kind
	TargetID int
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%s %d: %s references missing %s %d", e.Kind, e.ID, e.Field, e.Target, e.TargetID)
}

// Graph is the resolved, read-only view over a collection.Set.
type Graph struct {
	set *collection.Set
}

// Resolve checks the referential closure of set and returns its graph.
func Resolve(set *collection.Set) (*Graph, error) {
	if err := checkReferences(set); err != nil {
		return nil, err
	}
	return &Graph{set: set}, nil
}

func checkReferences(set *collection.Set) error {
	dangling := func(kind models.Kind, id int, field string, target models.Kind, targetID int) error {
		return &DanglingReferenceError{Kind: kind, ID: id, Field: field, Target: target, TargetID: targetID}
	}

	for id, c := range set.Characters.All() {
		if c.BandID != nil && !set.Bands.Has(*c.BandID) {
			return dangling(models.KindCharacters, id, "bandId", models.KindBands, *c.BandID)
		}
	}
	for id, c := range set.Cards.All() {
		if !set.Characters.Has(c.CharacterID) {
			return dangling(models.KindCards, id, "characterId", models.KindCharacters, c.CharacterID)
		}
	}
	for id, e := range set.Events.All() {
		for _, ref := range e.CharacterIDs {
			if !set.Characters.Has(ref) {
				return dangling(models.KindEvents, id, "characterIds", models.KindCharacters, ref)
			}
		}
		for _, ref := range e.CardIDs {
			if !set.Cards.Has(ref) {
				return dangling(models.KindEvents, id, "cardIds", models.KindCards, ref)
			}
		}
	}
	for id, g := range set.Gachas.All() {
		for _, ref := range g.NewCardIDs {
			if !set.Cards.Has(ref) {
				return dangling(models.KindGachas, id, "newCardIds", models.KindCards, ref)
			}
		}
		for _, r := range rateEntries(g.Rates) {
			if !set.Cards.Has(r.CardID) {
				return dangling(models.KindGachas, id, "rates."+r.region, models.KindCards, r.CardID)
			}
		}
	}
	for id, s := range set.Songs.All() {
		if s.BandID != nil && !set.Bands.Has(*s.BandID) {
			return dangling(models.KindSongs, id, "bandId", models.KindBands, *s.BandID)
		}
	}
	return nil
}

type regionRate struct {
	models.PickupRate
	region string
}

func rateEntries(rates models.Regional[[]models.PickupRate]) []regionRate {
	var out []regionRate
	if rates.JP != nil {
		for _, r := range *rates.JP {
			out = append(out, regionRate{PickupRate: r, region: "jp"})
		}
	}
	if rates.EN != nil {
		for _, r := range *rates.EN {
			out = append(out, regionRate{PickupRate: r, region: "en"})
		}
	}
	return out
}

// Band returns the band node with id.
func (g *Graph) Band(id int) (BandNode, bool) {
	b, ok := g.set.Bands.Get(id)
	return BandNode{Band: b, g: g}, ok
}

// Character returns the character node with id.
func (g *Graph) Character(id int) (CharacterNode, bool) {
	c, ok := g.set.Characters.Get(id)
	return CharacterNode{Character: c, g: g}, ok
}

// Card returns the card node with id.
func (g *Graph) Card(id int) (CardNode, bool) {
	c, ok := g.set.Cards.Get(id)
	return CardNode{Card: c, g: g}, ok
}

// Event returns the event node with id.
func (g *Graph) Event(id int) (EventNode, bool) {
	e, ok := g.set.Events.Get(id)
	return EventNode{Event: e, g: g}, ok
}

// Gacha returns the gacha node with id.
func (g *Graph) Gacha(id int) (GachaNode, bool) {
	c, ok := g.set.Gachas.Get(id)
	return GachaNode{Gacha: c, g: g}, ok
}

// Song returns the song node with id.
func (g *Graph) Song(id int) (SongNode, bool) {
	s, ok := g.set.Songs.Get(id)
	return SongNode{Song: s, g: g}, ok
}

// Node returns the node of kind with id.
func (g *Graph) Node(kind models.Kind, id int) (artifact.Node, bool) {
	var (
		n  artifact.Node
		ok bool
	)
	switch kind {
	case models.KindBands:
		n, ok = g.Band(id)
	case models.KindCards:
		n, ok = g.Card(id)
	case models.KindCharacters:
		n, ok = g.Character(id)
	case models.KindEvents:
		n, ok = g.Event(id)
	case models.KindGachas:
		n, ok = g.Gacha(id)
	case models.KindSongs:
		n, ok = g.Song(id)
	}
	if !ok {
		return nil, false
	}
	return n, true
}

// IDs returns the ids of kind in ascending order.
func (g *Graph) IDs(kind models.Kind) []int {
	switch kind {
	case models.KindBands:
		return g.set.Bands.IDs()
	case models.KindCards:
		return g.set.Cards.IDs()
	case models.KindCharacters:
		return g.set.Characters.IDs()
	case models.KindEvents:
		return g.set.Events.IDs()
	case models.KindGachas:
		return g.set.Gachas.IDs()
	case models.KindSongs:
		return g.set.Songs.IDs()
	default:
		return nil
	}
}

// Sections returns the six collections as artifact sections, in artifact order.
func (g *Graph) Sections() []artifact.Section {
	sections := make([]artifact.Section, 0, len(models.Kinds))
	for _, kind := range models.Kinds {
		ids := g.IDs(kind)
		items := make(map[int]any, len(ids))
		for _, id := range ids {
			items[id], _ = g.Node(kind, id)
		}
		sections = append(sections, artifact.Section{Name: string(kind), Items: items})
	}
	return sections
}

func (g *Graph) mustCharacter(id int) CharacterNode {
	n, ok := g.Character(id)
	if !ok {
		panic(fmt.Sprintf("graph: character %d missing after resolve", id))
	}
	return n
}

func (g *Graph) mustCard(id int) CardNode {
	n, ok := g.Card(id)
	if !ok {
		panic(fmt.Sprintf("graph: card %d missing after resolve", id))
	}
	return n
}

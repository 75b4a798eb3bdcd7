package models

import (
	"maps"
	"slices"
	"time"
)

// Kind names an entity kind. The values double as artifact collection names.
type Kind string

const (
	KindBands      Kind = "bands"
	KindCards      Kind = "cards"
	KindCharacters Kind = "characters"
	KindEvents     Kind = "events"
	KindGachas     Kind = "gachas"
	KindSongs      Kind = "songs"
)

// Kinds lists every entity kind in artifact order.
var Kinds = []Kind{KindBands, KindCards, KindCharacters, KindEvents, KindGachas, KindSongs}

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindBands, KindCards, KindCharacters, KindEvents, KindGachas, KindSongs:
		return true
	default:
		return false
	}
}

// Regional holds a value for the primary (jp) and secondary (en) regions.
type Regional[T any] struct {
	JP *T `json:"jp"`
	EN *T `json:"en"`
}

// Primary returns the jp value.
func (r Regional[T]) Primary() (T, bool) {
	if r.JP == nil {
		var zero T
		return zero, false
	}
	return *r.JP, true
}

// Any returns the jp value, or the en value when jp is missing.
func (r Regional[T]) Any() (T, bool) {
	if r.JP != nil {
		return *r.JP, true
	}
	if r.EN != nil {
		return *r.EN, true
	}
	var zero T
	return zero, false
}

// Clone returns a copy whose pointers do not alias r.
func (r Regional[T]) Clone() Regional[T] {
	var out Regional[T]
	if r.JP != nil {
		out.JP = Ptr(*r.JP)
	}
	if r.EN != nil {
		out.EN = Ptr(*r.EN)
	}
	return out
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}

// Attribute is a card or event attribute. It is an enumeration, not a stored entity.
type Attribute string

const (
	AttributePowerful Attribute = "powerful"
	AttributeCool     Attribute = "cool"
	AttributeHappy    Attribute = "happy"
	AttributePure     Attribute = "pure"
)

// Attributes lists every attribute.
var Attributes = []Attribute{AttributePowerful, AttributeCool, AttributeHappy, AttributePure}

// Band is a music unit.
type Band struct {
	ID   int              `json:"id"`
	Name Regional[string] `json:"name"`
}

func (b Band) Clone() Band {
	b.Name = b.Name.Clone()
	return b
}

// Character is a playable character. BandID is nil when the character's band
// is not part of the band collection.
type Character struct {
	ID        int              `json:"id"`
	Name      Regional[string] `json:"name"`
	Nickname  Regional[string] `json:"nickname"`
	BandID    *int             `json:"bandId"`
	ColorCode string           `json:"colorCode"`
}

func (c Character) Clone() Character {
	c.Name = c.Name.Clone()
	c.Nickname = c.Nickname.Clone()
	if c.BandID != nil {
		c.BandID = Ptr(*c.BandID)
	}
	return c
}

// Card is a collectible member card.
type Card struct {
	ID              int                 `json:"id"`
	CharacterID     int                 `json:"characterId"`
	Rarity          int                 `json:"rarity"`
	Attribute       Attribute           `json:"attribute"`
	Type            string              `json:"type"`
	ResourceSetName string              `json:"resourceSetName"`
	Name            Regional[string]    `json:"name"`
	ReleasedAt      Regional[time.Time] `json:"releasedAt"`
}

func (c Card) Clone() Card {
	c.Name = c.Name.Clone()
	c.ReleasedAt = c.ReleasedAt.Clone()
	return c
}

// Event is an in-game event.
type Event struct {
	ID                    int                 `json:"id"`
	Name                  Regional[string]    `json:"name"`
	Type                  string              `json:"type"`
	Attribute             Attribute           `json:"attribute"`
	CharacterIDs          []int               `json:"characterIds"`
	CardIDs               []int               `json:"cardIds"`
	AssetBundleName       string              `json:"assetBundleName"`
	BannerAssetBundleName string              `json:"bannerAssetBundleName"`
	StartAt               Regional[time.Time] `json:"startAt"`
	EndAt                 Regional[time.Time] `json:"endAt"`
}

func (e Event) Clone() Event {
	e.Name = e.Name.Clone()
	e.CharacterIDs = slices.Clone(e.CharacterIDs)
	e.CardIDs = slices.Clone(e.CardIDs)
	e.StartAt = e.StartAt.Clone()
	e.EndAt = e.EndAt.Clone()
	return e
}

// PickupRate is the draw probability of one pickup card in one region.
type PickupRate struct {
	CardID int     `json:"cardId"`
	Pickup bool    `json:"pickup"`
	Rarity int     `json:"rarity"`
	Rate   float64 `json:"rate"`
}

// Gacha is a card draw banner. A nil regional rate table means the region has no table.
type Gacha struct {
	ID                    int                    `json:"id"`
	Name                  Regional[string]       `json:"name"`
	Type                  string                 `json:"type"`
	ResourceName          string                 `json:"resourceName"`
	BannerAssetBundleName *string                `json:"bannerAssetBundleName"`
	PublishedAt           Regional[time.Time]    `json:"publishedAt"`
	ClosedAt              Regional[time.Time]    `json:"closedAt"`
	NewCardIDs            []int                  `json:"newCardIds"`
	Rates                 Regional[[]PickupRate] `json:"rates"`
}

func (g Gacha) Clone() Gacha {
	g.Name = g.Name.Clone()
	if g.BannerAssetBundleName != nil {
		g.BannerAssetBundleName = Ptr(*g.BannerAssetBundleName)
	}
	g.PublishedAt = g.PublishedAt.Clone()
	g.ClosedAt = g.ClosedAt.Clone()
	g.NewCardIDs = slices.Clone(g.NewCardIDs)
	g.Rates = g.Rates.Clone()
	if g.Rates.JP != nil {
		*g.Rates.JP = slices.Clone(*g.Rates.JP)
	}
	if g.Rates.EN != nil {
		*g.Rates.EN = slices.Clone(*g.Rates.EN)
	}
	return g
}

// Difficulty is a song chart difficulty.
type Difficulty string

const (
	DifficultyEasy    Difficulty = "easy"
	DifficultyNormal  Difficulty = "normal"
	DifficultyHard    Difficulty = "hard"
	DifficultyExpert  Difficulty = "expert"
	DifficultySpecial Difficulty = "special"
)

// Difficulties lists difficulties in upstream index order.
var Difficulties = []Difficulty{DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyExpert, DifficultySpecial}

// Song is a playable song. BandID is nil when the band is not in the band collection.
type Song struct {
	ID           int                 `json:"id"`
	Title        Regional[string]    `json:"title"`
	Tag          string              `json:"tag"`
	BandID       *int                `json:"bandId"`
	JacketImages []string            `json:"jacketImages"`
	PublishedAt  Regional[time.Time] `json:"publishedAt"`
	Difficulty   map[Difficulty]int  `json:"difficulty"`
}

func (s Song) Clone() Song {
	s.Title = s.Title.Clone()
	if s.BandID != nil {
		s.BandID = Ptr(*s.BandID)
	}
	s.JacketImages = slices.Clone(s.JacketImages)
	s.PublishedAt = s.PublishedAt.Clone()
	s.Difficulty = maps.Clone(s.Difficulty)
	return s
}

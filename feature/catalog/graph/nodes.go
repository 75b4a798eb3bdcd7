package graph

import (
	"strconv"

	"bandori-index/feature/catalog/models"
)

func nodeKey(kind models.Kind, id int) string {
	return string(kind) + "/" + strconv.Itoa(id)
}

// AttributeNode is a resolved card or event attribute.
type AttributeNode struct {
	Name models.Attribute
}

// Attributes returns every attribute node.
func (g *Graph) Attributes() []AttributeNode {
	out := make([]AttributeNode, 0, len(models.Attributes))
	for _, a := range models.Attributes {
		out = append(out, AttributeNode{Name: a})
	}
	return out
}

func (n AttributeNode) NodeKey() string {
	return "attributes/" + string(n.Name)
}

func (n AttributeNode) View() map[string]any {
	return map[string]any{
		"name":   n.Name,
		"assets": n.Assets(),
	}
}

// BandNode is a resolved band.
type BandNode struct {
	models.Band
	g *Graph
}

// Characters returns the characters of the band in id order.
func (n BandNode) Characters() []CharacterNode {
	var out []CharacterNode
	for _, c := range n.g.set.Characters.All() {
		if c.BandID != nil && *c.BandID == n.ID {
			out = append(out, CharacterNode{Character: c, g: n.g})
		}
	}
	return out
}

// Songs returns the songs of the band in id order.
func (n BandNode) Songs() []SongNode {
	var out []SongNode
	for _, s := range n.g.set.Songs.All() {
		if s.BandID != nil && *s.BandID == n.ID {
			out = append(out, SongNode{Song: s, g: n.g})
		}
	}
	return out
}

func (n BandNode) NodeKey() string {
	return nodeKey(models.KindBands, n.ID)
}

// View leaves out the reverse lookups.
func (n BandNode) View() map[string]any {
	return map[string]any{
		"id":     n.ID,
		"name":   n.Name,
		"assets": n.Assets(),
	}
}

// CharacterNode is a resolved character.
type CharacterNode struct {
	models.Character
	g *Graph
}

// Band returns the character's band. ok is false for characters without a band.
func (n CharacterNode) Band() (BandNode, bool) {
	if n.BandID == nil {
		return BandNode{}, false
	}
	return n.g.Band(*n.BandID)
}

func (n CharacterNode) NodeKey() string {
	return nodeKey(models.KindCharacters, n.ID)
}

func (n CharacterNode) View() map[string]any {
	v := map[string]any{
		"id":        n.ID,
		"name":      n.Name,
		"nickname":  n.Nickname,
		"colorCode": n.ColorCode,
		"band":      nil,
		"assets":    n.Assets(),
	}
	if band, ok := n.Band(); ok {
		v["band"] = band
	}
	return v
}

// CardNode is a resolved card.
type CardNode struct {
	models.Card
	g *Graph
}

// Character returns the card's character.
func (n CardNode) Character() CharacterNode {
	return n.g.mustCharacter(n.CharacterID)
}

// AttributeInfo returns the card's attribute node.
func (n CardNode) AttributeInfo() AttributeNode {
	return AttributeNode{Name: n.Attribute}
}

func (n CardNode) NodeKey() string {
	return nodeKey(models.KindCards, n.ID)
}

func (n CardNode) View() map[string]any {
	return map[string]any{
		"id":              n.ID,
		"name":            n.Name,
		"rarity":          n.Rarity,
		"type":            n.Type,
		"resourceSetName": n.ResourceSetName,
		"releasedAt":      n.ReleasedAt,
		"attribute":       n.AttributeInfo(),
		"character":       n.Character(),
		"assets":          n.Assets(),
	}
}

// EventNode is a resolved event.
type EventNode struct {
	models.Event
	g *Graph
}

// Characters returns the event characters in source order.
func (n EventNode) Characters() []CharacterNode {
	out := make([]CharacterNode, 0, len(n.CharacterIDs))
	for _, id := range n.CharacterIDs {
		out = append(out, n.g.mustCharacter(id))
	}
	return out
}

// Cards returns the event cards in source order.
func (n EventNode) Cards() []CardNode {
	out := make([]CardNode, 0, len(n.CardIDs))
	for _, id := range n.CardIDs {
		out = append(out, n.g.mustCard(id))
	}
	return out
}

// AttributeInfo returns the event's bonus attribute node.
func (n EventNode) AttributeInfo() AttributeNode {
	return AttributeNode{Name: n.Attribute}
}

func (n EventNode) NodeKey() string {
	return nodeKey(models.KindEvents, n.ID)
}

func (n EventNode) View() map[string]any {
	return map[string]any{
		"id":                    n.ID,
		"name":                  n.Name,
		"type":                  n.Type,
		"assetBundleName":       n.AssetBundleName,
		"bannerAssetBundleName": n.BannerAssetBundleName,
		"startAt":               n.StartAt,
		"endAt":                 n.EndAt,
		"attribute":             n.AttributeInfo(),
		"characters":            n.Characters(),
		"cards":                 n.Cards(),
		"assets":                n.Assets(),
	}
}

// Rate is a pickup rate with its card resolved.
type Rate struct {
	Card   CardNode `json:"card"`
	Pickup bool     `json:"pickup"`
	Rarity int      `json:"rarity"`
	Rate   float64  `json:"rate"`
}

// GachaNode is a resolved gacha.
type GachaNode struct {
	models.Gacha
	g *Graph
}

// NewCards returns the cards introduced by the gacha in source order.
func (n GachaNode) NewCards() []CardNode {
	out := make([]CardNode, 0, len(n.NewCardIDs))
	for _, id := range n.NewCardIDs {
		out = append(out, n.g.mustCard(id))
	}
	return out
}

// PickupRates returns the per-region rate tables with cards resolved. A region without a
// table stays nil.
func (n GachaNode) PickupRates() models.Regional[[]Rate] {
	return models.Regional[[]Rate]{JP: n.resolveRates(n.Rates.JP), EN: n.resolveRates(n.Rates.EN)}
}

func (n GachaNode) resolveRates(rates *[]models.PickupRate) *[]Rate {
	if rates == nil {
		return nil
	}
	out := make([]Rate, 0, len(*rates))
	for _, r := range *rates {
		out = append(out, Rate{Card: n.g.mustCard(r.CardID), Pickup: r.Pickup, Rarity: r.Rarity, Rate: r.Rate})
	}
	return &out
}

func (n GachaNode) NodeKey() string {
	return nodeKey(models.KindGachas, n.ID)
}

func (n GachaNode) View() map[string]any {
	return map[string]any{
		"id":                    n.ID,
		"name":                  n.Name,
		"type":                  n.Type,
		"resourceName":          n.ResourceName,
		"bannerAssetBundleName": n.BannerAssetBundleName,
		"publishedAt":           n.PublishedAt,
		"closedAt":              n.ClosedAt,
		"newCards":              n.NewCards(),
		"rates":                 n.PickupRates(),
		"assets":                n.Assets(),
	}
}

// SongNode is a resolved song.
type SongNode struct {
	models.Song
	g *Graph
}

// Band returns the song's band. ok is false for songs without a band.
func (n SongNode) Band() (BandNode, bool) {
	if n.BandID == nil {
		return BandNode{}, false
	}
	return n.g.Band(*n.BandID)
}

func (n SongNode) NodeKey() string {
	return nodeKey(models.KindSongs, n.ID)
}

func (n SongNode) View() map[string]any {
	v := map[string]any{
		"id":           n.ID,
		"title":        n.Title,
		"tag":          n.Tag,
		"jacketImages": n.JacketImages,
		"publishedAt":  n.PublishedAt,
		"difficulty":   n.Difficulty,
		"band":         nil,
		"assets":       n.Assets(),
	}
	if band, ok := n.Band(); ok {
		v["band"] = band
	}
	return v
}

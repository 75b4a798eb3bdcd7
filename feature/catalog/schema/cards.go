package schema

import (
	"bandori-index/feature/catalog/models"
)

type rawCardSummary struct {
	Prefix regionTuple[string] `json:"prefix" validate:"len=5"`
}

type rawCard struct {
	CharacterID     int                      `json:"characterId" validate:"gt=0"`
	Rarity          int                      `json:"rarity" validate:"min=1,max=5"`
	Attribute       models.Attribute         `json:"attribute" validate:"oneof=powerful cool happy pure"`
	Type            string                   `json:"type" validate:"required"`
	ResourceSetName string                   `json:"resourceSetName" validate:"required"`
	Prefix          regionTuple[string]      `json:"prefix" validate:"len=5"`
	ReleasedAt      regionTuple[epochMillis] `json:"releasedAt" validate:"len=5"`
}

// ParseCardSummary parses /api/cards/all.5.json.
func ParseCardSummary(data []byte) (Summary, error) {
	return parseSummary(models.KindCards, data, func(c rawCardSummary) bool {
		return nonEmpty(c.Prefix.jp())
	})
}

// ParseCardDetail parses /api/cards/<id>.json.
func ParseCardDetail(data []byte, id int) (models.Card, error) {
	var raw rawCard
	if err := decodeAndValidate(models.KindCards, id, data, &raw); err != nil {
		return models.Card{}, err
	}
	if !nonEmpty(raw.Prefix.jp()) {
		return models.Card{}, missingPrimary(models.KindCards, id, "prefix")
	}
	return models.Card{
		ID:              id,
		CharacterID:     raw.CharacterID,
		Rarity:          raw.Rarity,
		Attribute:       raw.Attribute,
		Type:            raw.Type,
		ResourceSetName: raw.ResourceSetName,
		Name:            raw.Prefix.regional(),
		ReleasedAt:      dates(raw.ReleasedAt),
	}, nil
}

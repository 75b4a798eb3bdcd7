package schema

import (
	"bandori-index/feature/catalog/models"
)

// /api/characters/main.3.json entries double as character detail documents.
type rawCharacter struct {
	CharacterName regionTuple[string] `json:"characterName" validate:"len=5"`
	Nickname      regionTuple[string] `json:"nickname" validate:"omitempty,len=5"`
	BandID        *int                `json:"bandId" validate:"omitempty,gt=0"`
	ColorCode     string              `json:"colorCode"`
}

// ParseCharacterSummary parses the character listing.
func ParseCharacterSummary(data []byte) (Summary, error) {
	return parseSummary(models.KindCharacters, data, func(c rawCharacter) bool {
		return nonEmpty(c.CharacterName.jp())
	})
}

// ParseCharacterDetail parses one character listing entry.
func ParseCharacterDetail(data []byte, id int) (models.Character, error) {
	var raw rawCharacter
	if err := decodeAndValidate(models.KindCharacters, id, data, &raw); err != nil {
		return models.Character{}, err
	}
	if !nonEmpty(raw.CharacterName.jp()) {
		return models.Character{}, missingPrimary(models.KindCharacters, id, "characterName")
	}
	return models.Character{
		ID:        id,
		Name:      raw.CharacterName.regional(),
		Nickname:  raw.Nickname.regional(),
		BandID:    raw.BandID,
		ColorCode: raw.ColorCode,
	}, nil
}

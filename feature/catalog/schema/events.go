package schema

import (
	"bandori-index/feature/catalog/models"
)

type rawEventSummary struct {
	EventName regionTuple[string] `json:"eventName" validate:"len=5"`
}

type rawEventAttribute struct {
	Attribute models.Attribute `json:"attribute" validate:"oneof=powerful cool happy pure"`
}

type rawEventCharacter struct {
	CharacterID int `json:"characterId" validate:"gt=0"`
}

type rawEventMember struct {
	SituationID int `json:"situationId" validate:"gt=0"`
}

type rawEvent struct {
	EventType             string                   `json:"eventType" validate:"oneof=story challenge live_try versus mission_live festival medley"`
	EventName             regionTuple[string]      `json:"eventName" validate:"len=5"`
	AssetBundleName       string                   `json:"assetBundleName" validate:"required"`
	BannerAssetBundleName string                   `json:"bannerAssetBundleName"`
	StartAt               regionTuple[epochMillis] `json:"startAt" validate:"len=5"`
	EndAt                 regionTuple[epochMillis] `json:"endAt" validate:"len=5"`
	Attributes            []rawEventAttribute      `json:"attributes" validate:"len=1,dive"`
	Characters            []rawEventCharacter      `json:"characters" validate:"required,dive"`
	Members               []rawEventMember         `json:"members" validate:"required,dive"`
}

// ParseEventSummary parses /api/events/all.5.json.
func ParseEventSummary(data []byte) (Summary, error) {
	return parseSummary(models.KindEvents, data, func(e rawEventSummary) bool {
		return nonEmpty(e.EventName.jp())
	})
}

// ParseEventDetail parses /api/events/<id>.json.
func ParseEventDetail(data []byte, id int) (models.Event, error) {
	var raw rawEvent
	if err := decodeAndValidate(models.KindEvents, id, data, &raw); err != nil {
		return models.Event{}, err
	}
	if !nonEmpty(raw.EventName.jp()) {
		return models.Event{}, missingPrimary(models.KindEvents, id, "eventName")
	}

	characters := make([]int, 0, len(raw.Characters))
	for _, c := range raw.Characters {
		characters = append(characters, c.CharacterID)
	}
	cards := make([]int, 0, len(raw.Members))
	for _, m := range raw.Members {
		cards = append(cards, m.SituationID)
	}

	return models.Event{
		ID:                    id,
		Name:                  raw.EventName.regional(),
		Type:                  raw.EventType,
		Attribute:             raw.Attributes[0].Attribute,
		CharacterIDs:          characters,
		CardIDs:               cards,
		AssetBundleName:       raw.AssetBundleName,
		BannerAssetBundleName: raw.BannerAssetBundleName,
		StartAt:               dates(raw.StartAt),
		EndAt:                 dates(raw.EndAt),
	}, nil
}

package schema

import (
	"strconv"

	"bandori-index/feature/catalog/models"
)

const (
	// VoiceBankIndexPath lists the gacha voice bank directories.
	VoiceBankIndexPath = "/api/explorer/jp/assets/sound/voice/gacha.json"
)

// ListingPath returns the summary listing of kind.
func ListingPath(kind models.Kind) string {
	switch kind {
	case models.KindBands:
		return "/api/bands/all.1.json"
	case models.KindCards:
		return "/api/cards/all.5.json"
	case models.KindCharacters:
		return "/api/characters/main.3.json"
	case models.KindEvents:
		return "/api/events/all.5.json"
	case models.KindGachas:
		return "/api/gacha/all.5.json"
	case models.KindSongs:
		return "/api/songs/all.5.json"
	default:
		return ""
	}
}

// DetailPath returns the per-id document of kind. Bands and characters have
// none: their listing entries are complete.
func DetailPath(kind models.Kind, id int) (string, bool) {
	switch kind {
	case models.KindCards:
		return "/api/cards/" + strconv.Itoa(id) + ".json", true
	case models.KindEvents:
		return "/api/events/" + strconv.Itoa(id) + ".json", true
	case models.KindGachas:
		return "/api/gacha/" + strconv.Itoa(id) + ".json", true
	case models.KindSongs:
		return "/api/songs/" + strconv.Itoa(id) + ".json", true
	default:
		return "", false
	}
}

// VoiceBankPath lists the files of one voice bank directory.
func VoiceBankPath(bank string) string {
	return "/api/explorer/jp/assets/sound/voice/gacha/" + bank + ".json"
}

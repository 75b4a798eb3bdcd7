package schema

import (
	"strconv"

	"bandori-index/feature/catalog/models"
)

type rawSongSummary struct {
	MusicTitle regionTuple[string] `json:"musicTitle" validate:"len=5"`
}

type rawPlayLevel struct {
	PlayLevel int `json:"playLevel" validate:"gt=0"`
}

type rawSong struct {
	Tag         string                   `json:"tag" validate:"oneof=normal anime tie_up"`
	BandID      int                      `json:"bandId" validate:"gt=0"`
	JacketImage []string                 `json:"jacketImage" validate:"required"`
	MusicTitle  regionTuple[string]      `json:"musicTitle" validate:"len=5"`
	PublishedAt regionTuple[epochMillis] `json:"publishedAt" validate:"len=5"`
	Difficulty  map[string]rawPlayLevel  `json:"difficulty" validate:"required,dive,keys,oneof=0 1 2 3 4,endkeys"`
}

func songEligible(title regionTuple[string]) bool {
	return nonEmpty(title.jp()) || nonEmpty(title.en())
}

// ParseSongSummary parses /api/songs/all.5.json.
func ParseSongSummary(data []byte) (Summary, error) {
	return parseSummary(models.KindSongs, data, func(s rawSongSummary) bool {
		return songEligible(s.MusicTitle)
	})
}

// ParseSongDetail parses /api/songs/<id>.json.
func ParseSongDetail(data []byte, id int) (models.Song, error) {
	var raw rawSong
	if err := decodeAndValidate(models.KindSongs, id, data, &raw); err != nil {
		return models.Song{}, err
	}
	if !songEligible(raw.MusicTitle) {
		return models.Song{}, missingPrimary(models.KindSongs, id, "musicTitle")
	}

	difficulty := make(map[models.Difficulty]int, len(raw.Difficulty))
	for key, level := range raw.Difficulty {
		idx, _ := strconv.Atoi(key)
		difficulty[models.Difficulties[idx]] = level.PlayLevel
	}

	return models.Song{
		ID:           id,
		Title:        raw.MusicTitle.regional(),
		Tag:          raw.Tag,
		BandID:       models.Ptr(raw.BandID),
		JacketImages: raw.JacketImage,
		PublishedAt:  dates(raw.PublishedAt),
		Difficulty:   difficulty,
	}, nil
}

package schema

import (
	"bandori-index/feature/catalog/models"
)

// /api/bands/all.1.json entries double as band detail documents.
type rawBand struct {
	BandName regionTuple[string] `json:"bandName" validate:"len=5"`
}

// ParseBandSummary parses the band listing.
func ParseBandSummary(data []byte) (Summary, error) {
	return parseSummary(models.KindBands, data, func(b rawBand) bool {
		return nonEmpty(b.BandName.jp())
	})
}

// ParseBandDetail parses one band listing entry.
func ParseBandDetail(data []byte, id int) (models.Band, error) {
	var raw rawBand
	if err := decodeAndValidate(models.KindBands, id, data, &raw); err != nil {
		return models.Band{}, err
	}
	if !nonEmpty(raw.BandName.jp()) {
		return models.Band{}, missingPrimary(models.KindBands, id, "bandName")
	}
	return models.Band{ID: id, Name: raw.BandName.regional()}, nil
}

package schema

import (
	"fmt"
	"math"
	"strconv"

	"bandori-index/core/utils"
	"bandori-index/feature/catalog/models"
)

// AllowedGachaTypes are the gacha types kept in the collection.
var AllowedGachaTypes = map[string]bool{
	"permanent": true,
	"limited":   true,
	"dreamfes":  true,
	"birthday":  true,
	"kirafes":   true,
}

type rawGachaSummary struct {
	GachaName regionTuple[string] `json:"gachaName" validate:"len=5"`
	Type      string              `json:"type" validate:"required"`
}

type rawGachaDetail struct {
	RarityIndex int     `json:"rarityIndex" validate:"min=1,max=5"`
	Weight      float64 `json:"weight" validate:"gte=0"`
	Pickup      bool    `json:"pickup"`
}

type rawGachaRate struct {
	Rate        float64 `json:"rate" validate:"gte=0"`
	WeightTotal float64 `json:"weightTotal" validate:"gte=0"`
}

type rawGacha struct {
	Type                  string                                 `json:"type" validate:"required"`
	GachaName             regionTuple[string]                    `json:"gachaName" validate:"len=5"`
	ResourceName          string                                 `json:"resourceName"`
	BannerAssetBundleName *string                                `json:"bannerAssetBundleName"`
	PublishedAt           regionTuple[epochMillis]               `json:"publishedAt" validate:"len=5"`
	ClosedAt              regionTuple[epochMillis]               `json:"closedAt" validate:"len=5"`
	NewCards              []int                                  `json:"newCards" validate:"required,dive,gt=0"`
	Details               regionTuple[map[string]rawGachaDetail] `json:"details" validate:"len=5"`
	Rates                 regionTuple[map[string]rawGachaRate]   `json:"rates" validate:"len=5"`
}

func (g rawGacha) check() (string, string) {
	for slot, table := range g.Details {
		if table == nil {
			continue
		}
		for key, detail := range *table {
			if _, err := utils.ParseID(key); err != nil {
				return fmt.Sprintf("details[%d]", slot), err.Error()
			}
			if err := validate.Struct(detail); err != nil {
				return fmt.Sprintf("details[%d][%s]", slot, key), err.Error()
			}
		}
	}
	for slot, table := range g.Rates {
		if table == nil {
			continue
		}
		for key, rate := range *table {
			rarity, err := strconv.Atoi(key)
			if err != nil || rarity < 1 || rarity > 5 {
				return fmt.Sprintf("rates[%d]", slot), fmt.Sprintf("invalid rarity %q", key)
			}
			if err := validate.Struct(rate); err != nil {
				return fmt.Sprintf("rates[%d][%s]", slot, key), err.Error()
			}
		}
	}
	return "", ""
}

// rateEpsilon is the gap between 1 and the next float64.
const rateEpsilon = 0x1p-52

// WeightedRate is the draw probability of a card with weight out of weightTotal
// in a rarity band drawn with probability rate.
func WeightedRate(weight, weightTotal, rate float64) float64 {
	return (weight / weightTotal) * rate
}

// RoundRate rounds a weighted rate to two decimals, half away from zero. The
// epsilon nudge keeps values such as 20.005 from truncating downwards.
func RoundRate(weighted float64) float64 {
	return math.Round((weighted+rateEpsilon)*100) / 100
}

// pickupRates builds the rate table of one region. A region without a detail or
// weight table has no rate table at all.
func pickupRates(details *map[string]rawGachaDetail, rates *map[string]rawGachaRate) (*[]models.PickupRate, error) {
	if details == nil || rates == nil {
		return nil, nil
	}

	ids := make(map[int]rawGachaDetail, len(*details))
	for key, detail := range *details {
		id, err := utils.ParseID(key)
		if err != nil {
			return nil, err
		}
		ids[id] = detail
	}

	table := make([]models.PickupRate, 0)
	for _, id := range utils.SortedKeys(ids) {
		detail := ids[id]
		if !detail.Pickup {
			continue
		}
		weights, ok := (*rates)[strconv.Itoa(detail.RarityIndex)]
		if !ok {
			return nil, fmt.Errorf("card %d: no rate for rarity %d", id, detail.RarityIndex)
		}
		if weights.WeightTotal == 0 {
			return nil, fmt.Errorf("card %d: zero weight total for rarity %d", id, detail.RarityIndex)
		}
		table = append(table, models.PickupRate{
			CardID: id,
			Pickup: detail.Pickup,
			Rarity: detail.RarityIndex,
			Rate:   RoundRate(WeightedRate(detail.Weight, weights.WeightTotal, weights.Rate)),
		})
	}
	return &table, nil
}

// ParseGachaSummary parses /api/gacha/all.5.json.
func ParseGachaSummary(data []byte) (Summary, error) {
	return parseSummary(models.KindGachas, data, func(g rawGachaSummary) bool {
		return nonEmpty(g.GachaName.jp()) && AllowedGachaTypes[g.Type]
	})
}

// ParseGachaDetail parses /api/gacha/<id>.json.
func ParseGachaDetail(data []byte, id int) (models.Gacha, error) {
	var raw rawGacha
	if err := decodeAndValidate(models.KindGachas, id, data, &raw); err != nil {
		return models.Gacha{}, err
	}
	if !nonEmpty(raw.GachaName.jp()) {
		return models.Gacha{}, missingPrimary(models.KindGachas, id, "gachaName")
	}

	jp, err := pickupRates(raw.Details.jp(), raw.Rates.jp())
	if err != nil {
		return models.Gacha{}, &ValidationError{Kind: models.KindGachas, ID: id, Field: "rates.jp", Reason: err.Error()}
	}
	en, err := pickupRates(raw.Details.en(), raw.Rates.en())
	if err != nil {
		return models.Gacha{}, &ValidationError{Kind: models.KindGachas, ID: id, Field: "rates.en", Reason: err.Error()}
	}

	return models.Gacha{
		ID:                    id,
		Name:                  raw.GachaName.regional(),
		Type:                  raw.Type,
		ResourceName:          raw.ResourceName,
		BannerAssetBundleName: raw.BannerAssetBundleName,
		PublishedAt:           dates(raw.PublishedAt),
		ClosedAt:              dates(raw.ClosedAt),
		NewCardIDs:            raw.NewCards,
		Rates:                 models.Regional[[]models.PickupRate]{JP: jp, EN: en},
	}, nil
}

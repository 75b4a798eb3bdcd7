package schema

import (
	"testing"
	"time"

	"bandori-index/feature/catalog/models"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bandListing = `{
	"1": {"bandName": ["Poppin'Party", "Poppin'Party", null, null, null]},
	"2": {"bandName": ["Afterglow", null, null, null, null]},
	"3": {"bandName": [null, "Global Only", null, null, null]},
	"4": {"bandName": ["", "Empty JP", null, null, null]}
}`

func TestParseBandSummary_Eligibility(t *testing.T) {
	s, err := ParseBandSummary([]byte(bandListing))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, s.IDs)
	assert.Equal(t, models.KindBands, s.Kind)

	_, ok := s.Entry(3)
	assert.False(t, ok)
}

func TestSummary_FilterIsIdempotent(t *testing.T) {
	listings := map[string]struct {
		data  string
		parse func([]byte) (Summary, error)
	}{
		"bands":  {bandListing, ParseBandSummary},
		"songs":  {songListing, ParseSongSummary},
		"gachas": {gachaListing, ParseGachaSummary},
	}

	for name, tt := range listings {
		t.Run(name, func(t *testing.T) {
			first, err := tt.parse([]byte(tt.data))
			require.NoError(t, err)

			filtered, err := first.Listing()
			require.NoError(t, err)

			second, err := tt.parse(filtered)
			require.NoError(t, err)
			assert.Equal(t, first.IDs, second.IDs)
		})
	}
}

func TestParseSummary_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"NotAnObject", `[]`},
		{"BadID", `{"x": {"bandName": ["a", null, null, null, null]}}`},
		{"ShortTuple", `{"1": {"bandName": ["a", null]}}`},
		{"MissingTuple", `{"1": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBandSummary([]byte(tt.data))
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, models.KindBands, vErr.Kind)
		})
	}
}

func TestParseCharacterDetail(t *testing.T) {
	c, err := ParseCharacterDetail([]byte(`{
		"characterName": ["戸山 香澄", "Kasumi Toyama", null, null, null],
		"nickname": [null, null, null, null, null],
		"bandId": 1,
		"colorCode": "#FF5522"
	}`), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, c.ID)
	assert.Equal(t, "戸山 香澄", *c.Name.JP)
	assert.Equal(t, "Kasumi Toyama", *c.Name.EN)
	assert.Nil(t, c.Nickname.JP)
	require.NotNil(t, c.BandID)
	assert.Equal(t, 1, *c.BandID)
}

const cardDetail = `{
	"characterId": 5,
	"rarity": 4,
	"attribute": "pure",
	"type": "permanent",
	"resourceSetName": "res005004",
	"prefix": ["ハッピー", "Happy", null, "快乐", null],
	"releasedAt": ["1489471200000", 1520920800000, null, null, null]
}`

func TestParseCardDetail(t *testing.T) {
	c, err := ParseCardDetail([]byte(cardDetail), 123)
	require.NoError(t, err)

	assert.Equal(t, 123, c.ID)
	assert.Equal(t, 5, c.CharacterID)
	assert.Equal(t, 4, c.Rarity)
	assert.Equal(t, models.AttributePure, c.Attribute)
	assert.Equal(t, "ハッピー", *c.Name.JP)
	assert.Equal(t, "Happy", *c.Name.EN)
	assert.Equal(t, time.UnixMilli(1489471200000).UTC(), *c.ReleasedAt.JP)
	assert.Equal(t, time.UnixMilli(1520920800000).UTC(), *c.ReleasedAt.EN)
}

func TestParseCardDetail_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"BadRarity", `{"characterId":5,"rarity":9,"attribute":"pure","type":"x","resourceSetName":"r","prefix":["a",null,null,null,null],"releasedAt":[null,null,null,null,null]}`, "rarity"},
		{"BadAttribute", `{"characterId":5,"rarity":1,"attribute":"cute","type":"x","resourceSetName":"r","prefix":["a",null,null,null,null],"releasedAt":[null,null,null,null,null]}`, "attribute"},
		{"MissingCharacter", `{"rarity":1,"attribute":"pure","type":"x","resourceSetName":"r","prefix":["a",null,null,null,null],"releasedAt":[null,null,null,null,null]}`, "characterId"},
		{"MissingPrimaryName", `{"characterId":5,"rarity":1,"attribute":"pure","type":"x","resourceSetName":"r","prefix":[null,"a",null,null,null],"releasedAt":[null,null,null,null,null]}`, "prefix"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCardDetail([]byte(tt.doc), 7)
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, 7, vErr.ID)
			assert.Contains(t, vErr.Field, tt.field)
			assert.Contains(t, err.Error(), "cards record 7")
		})
	}
}

func TestParseEventDetail(t *testing.T) {
	e, err := ParseEventDetail([]byte(`{
		"eventType": "story",
		"eventName": ["夢みる", "Dreaming", null, null, null],
		"assetBundleName": "dream_event",
		"bannerAssetBundleName": "banner_event1",
		"startAt": ["1489471200000", null, null, null, null],
		"endAt": ["1490000000000", null, null, null, null],
		"attributes": [{"attribute": "happy", "percent": 20}],
		"characters": [{"characterId": 3}, {"characterId": 1}],
		"members": [{"situationId": 20}, {"situationId": 10}]
	}`), 1)
	require.NoError(t, err)

	assert.Equal(t, models.AttributeHappy, e.Attribute)
	assert.Equal(t, []int{3, 1}, e.CharacterIDs)
	assert.Equal(t, []int{20, 10}, e.CardIDs)
	assert.Equal(t, "dream_event", e.AssetBundleName)
	assert.Nil(t, e.EndAt.EN)
}

func TestParseEventDetail_TwoAttributes(t *testing.T) {
	_, err := ParseEventDetail([]byte(`{
		"eventType": "story",
		"eventName": ["a", null, null, null, null],
		"assetBundleName": "x",
		"startAt": [null, null, null, null, null],
		"endAt": [null, null, null, null, null],
		"attributes": [{"attribute": "happy"}, {"attribute": "cool"}],
		"characters": [],
		"members": []
	}`), 2)
	assert.Error(t, err)
}

const gachaListing = `{
	"1": {"gachaName": ["限定", "Limited", null, null, null], "type": "limited"},
	"2": {"gachaName": ["チケット", null, null, null, null], "type": "special"},
	"3": {"gachaName": [null, "EN only", null, null, null], "type": "permanent"},
	"4": {"gachaName": ["ドリフェス", null, null, null, null], "type": "dreamfes"}
}`

func TestParseGachaSummary_AllowList(t *testing.T) {
	s, err := ParseGachaSummary([]byte(gachaListing))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 4}, s.IDs)
}

const gachaDetail = `{
	"type": "limited",
	"gachaName": ["限定", "Limited", null, null, null],
	"resourceName": "gacha_limited_1",
	"bannerAssetBundleName": "banner_gacha1",
	"publishedAt": ["1489471200000", null, null, null, null],
	"closedAt": ["1490000000000", null, null, null, null],
	"newCards": [10, 11],
	"details": [
		{"10": {"rarityIndex": 4, "weight": 50, "pickup": true},
		 "11": {"rarityIndex": 4, "weight": 40.02, "pickup": true},
		 "12": {"rarityIndex": 3, "weight": 10, "pickup": false}},
		null, null, null, null
	],
	"rates": [
		{"4": {"rate": 80, "weightTotal": 200}, "3": {"rate": 8.5, "weightTotal": 100}},
		{"4": {"rate": 3, "weightTotal": 100}},
		null, null, null
	]
}`

func TestParseGachaDetail_Rates(t *testing.T) {
	g, err := ParseGachaDetail([]byte(gachaDetail), 1)
	require.NoError(t, err)

	require.NotNil(t, g.Rates.JP)
	rates := *g.Rates.JP
	require.Len(t, rates, 2)
	assert.Equal(t, models.PickupRate{CardID: 10, Pickup: true, Rarity: 4, Rate: 20}, rates[0])
	assert.Equal(t, 11, rates[1].CardID)
	assert.Equal(t, 16.01, rates[1].Rate)

	// en has weights but no detail table.
	assert.Nil(t, g.Rates.EN)
	assert.Equal(t, []int{10, 11}, g.NewCardIDs)
	assert.Equal(t, "banner_gacha1", *g.BannerAssetBundleName)
}

func TestParseGachaDetail_NoPickupsIsEmptyNotNull(t *testing.T) {
	g, err := ParseGachaDetail([]byte(`{
		"type": "permanent",
		"gachaName": ["恒常", null, null, null, null],
		"resourceName": "r",
		"publishedAt": [null, null, null, null, null],
		"closedAt": [null, null, null, null, null],
		"newCards": [],
		"details": [{"5": {"rarityIndex": 2, "weight": 1, "pickup": false}}, null, null, null, null],
		"rates": [{"2": {"rate": 10, "weightTotal": 1}}, null, null, null, null]
	}`), 3)
	require.NoError(t, err)
	require.NotNil(t, g.Rates.JP)
	assert.Empty(t, *g.Rates.JP)
	assert.Nil(t, g.BannerAssetBundleName)
}

func TestParseGachaDetail_MissingRarityRate(t *testing.T) {
	_, err := ParseGachaDetail([]byte(`{
		"type": "permanent",
		"gachaName": ["恒常", null, null, null, null],
		"resourceName": "r",
		"publishedAt": [null, null, null, null, null],
		"closedAt": [null, null, null, null, null],
		"newCards": [],
		"details": [{"5": {"rarityIndex": 4, "weight": 1, "pickup": true}}, null, null, null, null],
		"rates": [{"2": {"rate": 10, "weightTotal": 1}}, null, null, null, null]
	}`), 3)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "rates.jp", vErr.Field)
}

func TestRoundRate(t *testing.T) {
	tests := []struct {
		weighted float64
		want     float64
	}{
		{WeightedRate(50, 200, 80), 20.00},
		{20.005, 20.01},
		{1.005, 1.01},
		{0.004, 0},
		{0.125, 0.13},
		{3.14159, 3.14},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RoundRate(tt.weighted), "weighted=%v", tt.weighted)
	}
}

const songListing = `{
	"1": {"musicTitle": ["ときめきエクスペリエンス！", "Tokimeki Experience!", null, null, null]},
	"2": {"musicTitle": [null, "EN Cover", null, null, null]},
	"3": {"musicTitle": [null, null, null, "CN only", null]}
}`

func TestParseSongSummary_AcceptsSecondaryRegion(t *testing.T) {
	s, err := ParseSongSummary([]byte(songListing))
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, s.IDs)
}

func TestParseSongDetail(t *testing.T) {
	s, err := ParseSongDetail([]byte(`{
		"tag": "normal",
		"bandId": 1,
		"jacketImage": ["yes_bang_dream"],
		"musicTitle": [null, "EN Cover", null, null, null],
		"publishedAt": [null, "1520920800000", null, null, null],
		"difficulty": {"0": {"playLevel": 5}, "3": {"playLevel": 24}, "4": {"playLevel": 26}}
	}`), 23)
	require.NoError(t, err)

	assert.Nil(t, s.Title.JP)
	assert.Equal(t, "EN Cover", *s.Title.EN)
	assert.Equal(t, map[models.Difficulty]int{
		models.DifficultyEasy:    5,
		models.DifficultyExpert:  24,
		models.DifficultySpecial: 26,
	}, s.Difficulty)
	assert.Equal(t, 1, *s.BandID)
}

func TestParseSongDetail_JacketImages(t *testing.T) {
	doc := func(jackets string) []byte {
		return []byte(`{
		"tag": "anime",
		"bandId": 1,
		"jacketImage": ` + jackets + `,
		"musicTitle": ["a", null, null, null, null],
		"publishedAt": [null, null, null, null, null],
		"difficulty": {"0": {"playLevel": 5}}
	}`)
	}

	s, err := ParseSongDetail(doc(`["", "cover_2"]`), 4)
	require.NoError(t, err)
	assert.Equal(t, []string{"", "cover_2"}, s.JacketImages)

	_, err = ParseSongDetail(doc(`null`), 4)
	assert.Error(t, err)
}

func TestParseSongDetail_BadDifficultyKey(t *testing.T) {
	_, err := ParseSongDetail([]byte(`{
		"tag": "normal",
		"bandId": 1,
		"jacketImage": ["x"],
		"musicTitle": ["a", null, null, null, null],
		"publishedAt": [null, null, null, null, null],
		"difficulty": {"9": {"playLevel": 5}}
	}`), 1)
	assert.Error(t, err)
}

func TestDetailPolicy(t *testing.T) {
	now := time.Now
	assert.Equal(t, "predicate", DetailPolicy(models.KindEvents, now).String())
	assert.Equal(t, "predicate", DetailPolicy(models.KindGachas, now).String())
	assert.Equal(t, "skip-if-cached", DetailPolicy(models.KindCards, now).String())
	assert.Equal(t, "skip-if-cached", DetailPolicy(models.KindSongs, now).String())
}

func TestEnded(t *testing.T) {
	now := time.UnixMilli(1_500_000_000_000)

	tests := []struct {
		name string
		doc  string
		want bool
	}{
		{"PrimaryPast", `{"endAt": ["1490000000000", null, null, null, null]}`, true},
		{"BothPast", `{"endAt": [1490000000000, 1499000000000, null, null, null]}`, true},
		{"SecondaryRunning", `{"endAt": ["1490000000000", "1600000000000", null, null, null]}`, false},
		{"NoDates", `{"endAt": [null, null, null, null, null]}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w rawEventWindow
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &w))
			assert.Equal(t, tt.want, ended(w.EndAt, now))
		})
	}
}

func TestParseVoiceBank(t *testing.T) {
	names, err := ParseVoiceBankIndex([]byte(`["birthday_rip", "limited_rip"]`))
	require.NoError(t, err)
	assert.Equal(t, []string{"birthday_rip", "limited_rip"}, names)

	_, err = ParseVoiceBank([]byte(`{"a": 1}`))
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	for _, kind := range models.Kinds {
		assert.NotEmpty(t, ListingPath(kind), kind)
	}
	p, ok := DetailPath(models.KindGachas, 12)
	assert.True(t, ok)
	assert.Equal(t, "/api/gacha/12.json", p)

	_, ok = DetailPath(models.KindBands, 1)
	assert.False(t, ok)
}

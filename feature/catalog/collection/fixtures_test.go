package collection

import (
	"context"
	"maps"
	"sync"

	"bandori-index/core/fetch"
)

// catalogDocs is a small upstream catalog with filtered records that other kinds still
// reference: band 2, character 3 and card 13 have no jp name.
var catalogDocs = map[string]string{
	"/api/bands/all.1.json": `{
		"1": {"bandName": ["Poppin'Party", "Poppin'Party", null, null, null]},
		"2": {"bandName": [null, "Unreleased", null, null, null]}
	}`,
	"/api/characters/main.3.json": `{
		"1": {"characterName": ["戸山 香澄", "Kasumi Toyama", null, null, null], "nickname": [null, null, null, null, null], "bandId": 1, "colorCode": "#FF5522"},
		"2": {"characterName": ["湊 友希那", "Yukina Minato", null, null, null], "nickname": [null, null, null, null, null], "bandId": 2, "colorCode": "#881188"},
		"3": {"characterName": [null, "Hidden", null, null, null], "nickname": [null, null, null, null, null], "bandId": 1, "colorCode": "#000000"}
	}`,
	"/api/cards/all.5.json": `{
		"10": {"prefix": ["ときめき", "Heart", null, null, null]},
		"11": {"prefix": ["秘密", null, null, null, null]},
		"12": {"prefix": ["孤高", null, null, null, null]},
		"13": {"prefix": [null, "EN only", null, null, null]}
	}`,
	"/api/cards/10.json": `{"characterId": 1, "rarity": 4, "attribute": "happy", "type": "permanent", "resourceSetName": "res001010", "prefix": ["ときめき", "Heart", null, null, null], "releasedAt": ["1489471200000", null, null, null, null]}`,
	"/api/cards/11.json": `{"characterId": 3, "rarity": 2, "attribute": "cool", "type": "permanent", "resourceSetName": "res003011", "prefix": ["秘密", null, null, null, null], "releasedAt": ["1489471200000", null, null, null, null]}`,
	"/api/cards/12.json": `{"characterId": 2, "rarity": 5, "attribute": "cool", "type": "birthday", "resourceSetName": "res002012", "prefix": ["孤高", null, null, null, null], "releasedAt": [null, null, null, null, null]}`,
	"/api/events/all.5.json": `{
		"1": {"eventName": ["夢みる", "Dreaming", null, null, null]}
	}`,
	"/api/events/1.json": `{
		"eventType": "story",
		"eventName": ["夢みる", "Dreaming", null, null, null],
		"assetBundleName": "dream_event",
		"bannerAssetBundleName": "banner_event1",
		"startAt": ["1489471200000", null, null, null, null],
		"endAt": ["1490000000000", null, null, null, null],
		"attributes": [{"attribute": "happy"}],
		"characters": [{"characterId": 1}, {"characterId": 3}],
		"members": [{"situationId": 10}, {"situationId": 11}]
	}`,
	"/api/gacha/all.5.json": `{
		"1": {"gachaName": ["限定", "Limited", null, null, null], "type": "limited"},
		"2": {"gachaName": ["特別", null, null, null, null], "type": "special"}
	}`,
	"/api/gacha/1.json": `{
		"type": "limited",
		"gachaName": ["限定", "Limited", null, null, null],
		"resourceName": "gacha_limited_1",
		"publishedAt": ["1489471200000", null, null, null, null],
		"closedAt": ["1490000000000", null, null, null, null],
		"newCards": [10, 11],
		"details": [{"10": {"rarityIndex": 4, "weight": 50, "pickup": true}, "11": {"rarityIndex": 2, "weight": 10, "pickup": true}}, null, null, null, null],
		"rates": [{"4": {"rate": 80, "weightTotal": 200}, "2": {"rate": 10, "weightTotal": 100}}, null, null, null, null]
	}`,
	"/api/songs/all.5.json": `{
		"1": {"musicTitle": ["ときめきエクスペリエンス！", "Tokimeki Experience!", null, null, null]},
		"2": {"musicTitle": [null, "Cover", null, null, null]}
	}`,
	"/api/songs/1.json": `{"tag": "normal", "bandId": 1, "jacketImage": ["yes_bang_dream"], "musicTitle": ["ときめきエクスペリエンス！", "Tokimeki Experience!", null, null, null], "publishedAt": ["1489471200000", null, null, null, null], "difficulty": {"0": {"playLevel": 5}, "3": {"playLevel": 24}}}`,
	"/api/songs/2.json": `{"tag": "anime", "bandId": 2, "jacketImage": ["cover"], "musicTitle": [null, "Cover", null, null, null], "publishedAt": [null, null, null, null, null], "difficulty": {"2": {"playLevel": 15}}}`,

	"/api/explorer/jp/assets/sound/voice/gacha.json":              `["limited_rip", "birthday_rip"]`,
	"/api/explorer/jp/assets/sound/voice/gacha/limited_rip.json":  `["res001010.mp3"]`,
	"/api/explorer/jp/assets/sound/voice/gacha/birthday_rip.json": `["res001010.mp3", "res002012.mp3"]`,
}

func cloneDocs() map[string]string {
	return maps.Clone(catalogDocs)
}

// fakeUpstream serves docs and records the policy of every request.
type fakeUpstream struct {
	mu       sync.Mutex
	docs     map[string]string
	policies map[string]string
}

func newFakeUpstream(docs map[string]string) *fakeUpstream {
	return &fakeUpstream{docs: docs, policies: make(map[string]string)}
}

func (f *fakeUpstream) Fetch(_ context.Context, pathname string, policy fetch.Policy) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.policies[pathname] = policy.String()
	doc, ok := f.docs[pathname]
	if !ok {
		return nil, &fetch.ResponseError{URL: pathname, StatusCode: 404, ContentType: "text/html"}
	}
	return []byte(doc), nil
}

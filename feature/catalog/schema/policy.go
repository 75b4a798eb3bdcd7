package schema

import (
	"time"

	"bandori-index/core/fetch"
	"bandori-index/feature/catalog/models"
)

type rawEventWindow struct {
	EndAt regionTuple[epochMillis] `json:"endAt"`
}

type rawGachaWindow struct {
	ClosedAt regionTuple[epochMillis] `json:"closedAt"`
}

// DetailPolicy returns the cache policy for detail documents of kind. Finished
// events and gachas no longer change, so their cached copies stay fresh.
func DetailPolicy(kind models.Kind, now func() time.Time) fetch.Policy {
	switch kind {
	case models.KindEvents:
		return fetch.FreshWhenJSON(func(e rawEventWindow) bool {
			return ended(e.EndAt, now())
		})
	case models.KindGachas:
		return fetch.FreshWhenJSON(func(g rawGachaWindow) bool {
			return ended(g.ClosedAt, now())
		})
	default:
		return fetch.SkipIfCached
	}
}

// ended reports whether every region with a value is in the past.
func ended(window regionTuple[epochMillis], now time.Time) bool {
	seen := false
	for _, t := range window {
		if t == nil {
			continue
		}
		seen = true
		if time.Time(*t).After(now) {
			return false
		}
	}
	return seen
}

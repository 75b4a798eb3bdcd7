package fetch

import (
	"github.com/goccy/go-json"
)

type policyMode uint8

const (
	modeSkipIfCached policyMode = iota
	modeRefetch
	modePredicate
)

// Policy decides whether a cached copy may be used instead of a request.
type Policy struct {
	mode  policyMode
	fresh func(cached []byte) bool
}

var (
	// SkipIfCached uses any cached copy.
	SkipIfCached = Policy{mode: modeSkipIfCached}
	// AlwaysRefetch ignores the cache on read.
	AlwaysRefetch = Policy{mode: modeRefetch}
)

// FreshWhen uses the cached copy only when fresh reports true for it.
func FreshWhen(fresh func(cached []byte) bool) Policy {
	return Policy{mode: modePredicate, fresh: fresh}
}

// FreshWhenJSON decodes the cached copy into T before asking fresh.
// A copy that does not decode is stale.
func FreshWhenJSON[T any](fresh func(cached T) bool) Policy {
	return FreshWhen(func(data []byte) bool {
		var v T
		if err := json.Unmarshal(data, &v); err != nil {
			return false
		}
		return fresh(v)
	})
}

func (p Policy) readsCache() bool {
	return p.mode != modeRefetch
}

func (p Policy) accepts(cached []byte) bool {
	switch p.mode {
	case modeSkipIfCached:
		return true
	case modePredicate:
		return p.fresh != nil && p.fresh(cached)
	default:
		return false
	}
}

func (p Policy) String() string {
	switch p.mode {
	case modeSkipIfCached:
		return "skip-if-cached"
	case modeRefetch:
		return "always-refetch"
	default:
		return "predicate"
	}
}

// Package collection builds the six immutable entity collections of one pipeline run.
//
// The Builder runs the per-kind pipelines concurrently: fetch the listing, keep the eligible
// ids, fetch and parse every detail document. Detail requests all go through the shared fetch
// Limiter, so the number of goroutines does not change how many requests are in flight.
// The voice bank manifests used for card voice paths are loaded alongside the six kinds.
//
// Any error fails the whole build. Nothing is returned for the kinds that did succeed.
//
// # Closure
//
// Kinds are fetched independently, so a record may reference an id that the target kind
// filtered out (an unreleased band, a card without a jp name). Before the collections are
// frozen, such references are removed:
//
//   - Character.BandID and Song.BandID become nil.
//   - Cards of a missing character are dropped.
//   - Missing characters and cards are removed from event and gacha id lists and rate tables.
//
// After that pass every foreign key of the Set resolves.
package collection

// Package schema validates and normalizes the upstream catalog documents.
//
// Each entity kind has a schema pair:
//
//   - a summary parser (ParseBandSummary, ParseCardSummary, ...) that validates the bulk
//     listing and returns the eligible ids together with their raw entries, and
//   - a detail parser (ParseBandDetail, ParseCardDetail, ...) that validates one per-id
//     document and returns the normalized record from the models package.
//
// Structural rules are declared as go-playground/validator tags on the raw document types;
// nested tables that tags cannot express (gacha details and rates) are checked by hand.
// Any violation is returned as a *ValidationError and is meant to abort the run: it signals
// that the upstream contract changed.
//
// # Eligibility
//
// A listing entry is eligible when its jp name is non-empty. Songs also accept an en-only
// title. Gachas must additionally have one of the types in AllowedGachaTypes.
//
// # Region tuples
//
// Localized upstream values are five-slot arrays (one slot per upstream region, most of them
// null). Only the first two slots (jp, en) are kept.
package schema

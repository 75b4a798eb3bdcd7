// Package models defines the normalized catalog records produced by the schema stage.
//
// Records are flat: foreign keys are plain integer ids (CharacterID, CardIDs, ...) and are
// resolved later by the graph package. Localized values are Regional pairs holding the
// primary (jp) and secondary (en) region values, either of which may be nil.
//
// Records are treated as immutable once a collection is built. Slices and maps inside a
// record must not be modified by consumers.
package models

// Package graph resolves the cross references of a collection.Set.
//
// Resolve checks that every foreign key of the set has a target and returns a Graph. The
// Graph hands out nodes (BandNode, CardNode, ...) that embed the base record and replace
// each foreign key by an accessor: CardNode.Character looks the character up in the base
// collection when called. Nothing is copied into the records and no resolution order is
// needed, since an accessor only reads another kind's complete base collection.
//
// Every node also computes its asset paths (Assets) from its own id and naming fields.
// Manifest enumerates those paths for the downstream asset build.
//
// Nodes implement artifact.Node. Their views contain nested nodes rather than ids, so the
// artifact package writes a character reached from two cards once and references it.
package graph

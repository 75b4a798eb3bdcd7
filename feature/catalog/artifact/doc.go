// Package artifact serializes the resolved catalog graph into a single JSON document and
// reads it back.
//
// Serialization runs in two phases. Materialize evaluates every node view and every
// computed accessor exactly once and snapshots the result into a plain value tree. Encode
// then writes that tree deterministically: collections are keyed by decimal id in numeric
// order and object fields are sorted by name.
//
// # Shared objects
//
// Graph nodes implement Node. Two nodes with the same NodeKey are the same object: the view
// is evaluated once, and when the object is reached more than once it is written a single
// time under "$shared" and referenced as {"$ref": n} everywhere else. Decode replaces the
// references with the shared value, so every reference site decodes to the same map.
//
// # Format
//
//	{
//	  "$shared": [ {...}, ... ],
//	  "bands":   { "1": {...}, "2": {"$ref": 0} },
//	  ...
//	}
//
// Dates are written as {"$date": "<RFC 3339, UTC>"}. Keys starting with "$" are reserved.
//
// A value the encoder cannot represent (channels, functions, complex numbers, NaN or
// infinite floats, unsupported map keys, reference cycles) fails the whole serialization
// with an *UnsupportedValueError.
package artifact

// Package utils provides small helpers shared across the catalog packages:
// entity id parsing, zero padding and deterministic key ordering.
package utils

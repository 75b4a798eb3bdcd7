// Package reconcile compares one expected source of keys against any number of
// target sources.
//
// Publishing uses it to compare the asset manifest (expected) with the storage
// mirror and, optionally, the exported catalog_assets table. Every source is
// loaded once, in bulk and concurrently, and the comparison runs over in-memory
// maps, so a check costs one listing per source no matter how many assets exist.
//
// # Architecture
//
//  1. Source: loads the keys one side holds, mapped to a readable locator. A
//     Purger can additionally delete keys.
//
//  2. Engine: builds the union of keys and records, per key, whether the
//     expected source lists it and which targets hold it.
//
//  3. Plan: turns results into actions. An expected key missing from a target
//     plans an upload; a target key the expected source does not list is stale
//     and, with DoPurge, plans a delete on purgeable targets.
//
// ApplyPlan only executes deletes, and only when Options.Confirmed is set and
// DryRun is not. Uploads are reported for the caller to perform.
//
// # Usage Example
//
//	spec := &reconcile.Spec{Expected: manifest, Targets: []reconcile.Source{mirror, db}}
//	plan, err := reconcile.ReconcileWithPlan(ctx, spec, reconcile.Options{DoPurge: true})
//	deleted, err := reconcile.ApplyPlan(ctx, spec, plan, reconcile.Options{DoPurge: true, Confirmed: true})
package reconcile

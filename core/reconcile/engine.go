package reconcile

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"
)

// Reconcile loads every source concurrently and returns one result per key in the
// union of all sources, sorted by key.
func Reconcile(ctx context.Context, spec *Spec) ([]Result, error) {
	expected, targets, err := loadAll(ctx, spec)
	if err != nil {
		return nil, err
	}

	union := buildUnion(expected, targets)

	results := make([]Result, 0, len(union))
	for key, name := range union {
		results = append(results, buildResult(key, name, expected, spec.Targets, targets))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Key < results[j].Key
	})
	return results, nil
}

// loadAll loads the expected source and every target in parallel.
func loadAll(ctx context.Context, spec *Spec) (map[string]string, []map[string]string, error) {
	if spec.Expected == nil {
		return nil, nil, fmt.Errorf("reconcile spec has no expected source")
	}

	var expected map[string]string
	targets := make([]map[string]string, len(spec.Targets))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		index, err := spec.Expected.Load(gctx)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", spec.Expected.Name(), err)
		}
		expected = index
		return nil
	})
	for i, target := range spec.Targets {
		g.Go(func() error {
			index, err := target.Load(gctx)
			if err != nil {
				return fmt.Errorf("failed to load %s: %w", target.Name(), err)
			}
			targets[i] = index
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return expected, targets, nil
}

// buildUnion maps every key of every source to its best locator: the expected
// source's when listed, otherwise the first target's.
func buildUnion(expected map[string]string, targets []map[string]string) map[string]string {
	union := make(map[string]string, len(expected))
	for i := len(targets) - 1; i >= 0; i-- {
		for key, name := range targets[i] {
			union[key] = name
		}
	}
	for key, name := range expected {
		union[key] = name
	}
	return union
}

func buildResult(key, name string, expected map[string]string, sources []Source, targets []map[string]string) Result {
	_, isExpected := expected[key]
	result := Result{
		Key:      key,
		Name:     name,
		Expected: isExpected,
		Present:  make(map[string]bool, len(targets)),
	}
	for i, index := range targets {
		_, ok := index[key]
		result.Present[sources[i].Name()] = ok
	}
	return result
}

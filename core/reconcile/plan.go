package reconcile

import (
	"context"
	"fmt"
	"sort"
)

// ReconcileWithPlan performs reconciliation and returns a plan with results and actions.
// It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec, opts Options) (*Plan, error) {
	results, err := Reconcile(ctx, spec)
	if err != nil {
		return nil, err
	}
	return buildPlan(results, spec, opts), nil
}

func buildPlan(results []Result, spec *Spec, opts Options) *Plan {
	summary := Summary{
		TotalItems: len(results),
		Missing:    make(map[string]int, len(spec.Targets)),
		Stale:      make(map[string]int, len(spec.Targets)),
	}
	actions := []Action{}

	for _, target := range spec.Targets {
		name := target.Name()
		summary.Missing[name] = 0
		summary.Stale[name] = 0
		_, purgeable := target.(Purger)

		for _, r := range results {
			switch {
			case r.Expected && !r.Present[name]:
				summary.Missing[name]++
				actions = append(actions, Action{
					Type:   ActionUpload,
					Target: name,
					Key:    r.Key,
					Reason: fmt.Sprintf("missing from %s", name),
				})
			case !r.Expected && r.Present[name]:
				summary.Stale[name]++
				if opts.DoPurge && purgeable {
					summary.PurgeActions++
					actions = append(actions, Action{
						Type:   ActionDelete,
						Target: name,
						Key:    r.Key,
						Reason: fmt.Sprintf("not listed by %s", spec.Expected.Name()),
					})
				}
			}
		}
	}

	for _, r := range results {
		if r.Expected {
			summary.Expected++
		}
	}

	sort.SliceStable(actions, func(i, j int) bool {
		if actions[i].Target != actions[j].Target {
			return actions[i].Target < actions[j].Target
		}
		return actions[i].Key < actions[j].Key
	})

	return &Plan{Results: results, Actions: actions, Summary: summary}
}

// ApplyPlan executes the delete actions of plan against the purgeable targets and
// returns how many keys were deleted. Upload actions are left to the caller.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan(ctx context.Context, spec *Spec, plan *Plan, opts Options) (int, error) {
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	byTarget := make(map[string][]string)
	for _, action := range plan.Actions {
		if action.Type == ActionDelete {
			byTarget[action.Target] = append(byTarget[action.Target], action.Key)
		}
	}

	executed := 0
	for _, target := range spec.Targets {
		keys := byTarget[target.Name()]
		if len(keys) == 0 {
			continue
		}
		purger, ok := target.(Purger)
		if !ok {
			return executed, fmt.Errorf("source %s does not support purging", target.Name())
		}
		if err := purger.Purge(ctx, keys); err != nil {
			return executed, fmt.Errorf("failed to purge %s: %w", target.Name(), err)
		}
		executed += len(keys)
	}
	return executed, nil
}

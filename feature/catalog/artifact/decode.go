package artifact

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Decode parses an artifact document. References are replaced by their shared value, so
// all sites referencing one shared object hold the same map. Dates decode to time.Time and
// numbers to float64. The result has one entry per section.
func Decode(data []byte) (map[string]any, error) {
	var root map[string]any
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("failed to parse artifact: %w", err)
	}

	raw, _ := root[SharedKey].([]any)
	d := &decoder{raw: raw, done: make([]any, len(raw)), state: make([]uint8, len(raw))}

	out := make(map[string]any, len(root))
	for key, v := range root {
		if key == SharedKey {
			continue
		}
		resolved, err := d.resolve(v)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", key, err)
		}
		out[key] = resolved
	}
	return out, nil
}

const (
	pending uint8 = iota
	resolving
	resolved
)

type decoder struct {
	raw   []any
	done  []any
	state []uint8
}

func (d *decoder) resolve(v any) (any, error) {
	switch v := v.(type) {
	case map[string]any:
		if len(v) == 1 {
			if ref, ok := v["$ref"]; ok {
				return d.shared(ref)
			}
			if s, ok := v["$date"].(string); ok {
				t, err := time.Parse(time.RFC3339Nano, s)
				if err != nil {
					return nil, fmt.Errorf("invalid date %q: %w", s, err)
				}
				return t, nil
			}
		}
		out := make(map[string]any, len(v))
		for key, child := range v {
			r, err := d.resolve(child)
			if err != nil {
				return nil, err
			}
			out[key] = r
		}
		return out, nil

	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			r, err := d.resolve(child)
			if err != nil {
				return nil, err
			}
			out[i] = r
		}
		return out, nil

	default:
		return v, nil
	}
}

func (d *decoder) shared(ref any) (any, error) {
	f, ok := ref.(float64)
	idx := int(f)
	if !ok || float64(idx) != f || idx < 0 || idx >= len(d.raw) {
		return nil, fmt.Errorf("invalid reference %v", ref)
	}

	switch d.state[idx] {
	case resolved:
		return d.done[idx], nil
	case resolving:
		return nil, fmt.Errorf("reference cycle through %d", idx)
	}

	d.state[idx] = resolving
	v, err := d.resolve(d.raw[idx])
	if err != nil {
		return nil, err
	}
	d.done[idx] = v
	d.state[idx] = resolved
	return v, nil
}

package artifact

import (
	"math"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testNode is a graph node whose view is counted.
type testNode struct {
	key   string
	view  func() map[string]any
	calls *int
}

func (n testNode) NodeKey() string { return n.key }

func (n testNode) View() map[string]any {
	if n.calls != nil {
		*n.calls++
	}
	return n.view()
}

type region struct {
	JP *string `json:"jp"`
	EN *string `json:"en"`
}

func ptr[T any](v T) *T { return &v }

func sharedCharacterSections(calls *int) []Section {
	character := testNode{
		key:   "characters/1",
		calls: calls,
		view: func() map[string]any {
			return map[string]any{
				"id":   1,
				"name": region{JP: ptr("戸山 香澄"), EN: ptr("Kasumi Toyama")},
			}
		},
	}
	card := func(id int) testNode {
		return testNode{
			key: "cards/" + string(rune('0'+id)),
			view: func() map[string]any {
				return map[string]any{
					"id":         id,
					"character":  character,
					"releasedAt": time.UnixMilli(1489471200000).UTC(),
					"rates":      []float64{20, 0.5},
				}
			},
		}
	}

	return []Section{
		{Name: "cards", Items: map[int]any{2: card(2), 1: card(1)}},
		{Name: "characters", Items: map[int]any{1: character}},
	}
}

func TestMarshal_SharedIdentityRoundTrip(t *testing.T) {
	calls := 0
	data, err := Marshal(sharedCharacterSections(&calls))
	require.NoError(t, err)
	assert.Equal(t, 1, calls, "view is evaluated once")

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw[SharedKey], 1)

	doc, err := Decode(data)
	require.NoError(t, err)

	cards := doc["cards"].(map[string]any)
	first := cards["1"].(map[string]any)["character"].(map[string]any)
	second := cards["2"].(map[string]any)["character"].(map[string]any)
	listed := doc["characters"].(map[string]any)["1"].(map[string]any)

	assert.Equal(t, float64(1), first["id"])
	assert.Equal(t, map[string]any{"jp": "戸山 香澄", "en": "Kasumi Toyama"}, first["name"])
	assert.Equal(t, first, second)
	assert.Equal(t, first, listed)

	// Same map, not a copy.
	assert.Equal(t, reflect.ValueOf(first).Pointer(), reflect.ValueOf(second).Pointer())
	assert.Equal(t, reflect.ValueOf(first).Pointer(), reflect.ValueOf(listed).Pointer())

	released := cards["1"].(map[string]any)["releasedAt"].(time.Time)
	assert.True(t, released.Equal(time.UnixMilli(1489471200000)))
}

func TestMarshal_Deterministic(t *testing.T) {
	first, err := Marshal(sharedCharacterSections(nil))
	require.NoError(t, err)

	for range 5 {
		again, err := Marshal(sharedCharacterSections(nil))
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}
}

func TestMarshal_Order(t *testing.T) {
	data, err := Marshal([]Section{
		{Name: "bands", Items: map[int]any{
			10: map[string]any{"name": "b", "id": 10},
			9:  map[string]any{"name": "a", "id": 9},
		}},
		{Name: "songs", Items: map[int]any{}},
	})
	require.NoError(t, err)
	s := string(data)

	assert.Less(t, strings.Index(s, `"$shared"`), strings.Index(s, `"bands"`))
	assert.Less(t, strings.Index(s, `"bands"`), strings.Index(s, `"songs"`))
	assert.Less(t, strings.Index(s, `"9"`), strings.Index(s, `"10"`), "ids sort numerically")
	assert.Less(t, strings.Index(s, `"id": 9`), strings.Index(s, `"name": "a"`), "fields sort by name")
}

func TestMarshal_Values(t *testing.T) {
	type Base struct {
		Inner string `json:"inner"`
	}
	type record struct {
		Base
		Name    string         `json:"name"`
		Skipped string         `json:"-"`
		Missing *int           `json:"missing"`
		Empty   []int          `json:"empty"`
		Levels  map[string]int `json:"levels"`
		ByID    map[int]bool   `json:"byId"`
		hidden  int
	}

	data, err := Marshal([]Section{{Name: "records", Items: map[int]any{
		1: record{
			Base:    Base{Inner: "x"},
			Name:    "r",
			Skipped: "nope",
			Levels:  map[string]int{"hard": 15, "easy": 5},
			ByID:    map[int]bool{10: true, 2: false},
			hidden:  1,
		},
	}}})
	require.NoError(t, err)

	doc, err := Decode(data)
	require.NoError(t, err)
	rec := doc["records"].(map[string]any)["1"].(map[string]any)

	assert.Equal(t, map[string]any{
		"inner":   "x",
		"name":    "r",
		"missing": nil,
		"empty":   []any{},
		"levels":  map[string]any{"easy": float64(5), "hard": float64(15)},
		"byId":    map[string]any{"2": false, "10": true},
	}, rec)
}

func TestMarshal_Unsupported(t *testing.T) {
	loop := testNode{key: "loop"}
	loop.view = func() map[string]any { return map[string]any{"self": loop} }

	tests := []struct {
		name   string
		value  any
		reason string
	}{
		{"Channel", map[string]any{"c": make(chan int)}, "unsupported kind chan"},
		{"Func", map[string]any{"f": func() {}}, "unsupported kind func"},
		{"NaN", map[string]any{"rate": math.NaN()}, "not a finite number"},
		{"Inf", []float64{math.Inf(1)}, "not a finite number"},
		{"MapKey", map[float64]int{1.5: 1}, "unsupported map key"},
		{"ReservedKey", map[string]any{"$ref": 1}, "reserved key"},
		{"Cycle", loop, "reference cycle"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Marshal([]Section{{Name: "bad", Items: map[int]any{1: tt.value}}})
			var uErr *UnsupportedValueError
			require.ErrorAs(t, err, &uErr)
			assert.Contains(t, uErr.Reason, tt.reason)
			assert.True(t, strings.HasPrefix(uErr.Path, "bad.1"), uErr.Path)
		})
	}
}

func TestDecode_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"NotJSON", `{`},
		{"DanglingRef", `{"$shared": [], "bands": {"1": {"$ref": 0}}}`},
		{"FractionalRef", `{"$shared": [{}], "bands": {"1": {"$ref": 0.5}}}`},
		{"SelfRef", `{"$shared": [{"me": {"$ref": 0}}], "bands": {"1": {"$ref": 0}}}`},
		{"BadDate", `{"$shared": [], "bands": {"1": {"at": {"$date": "yesterday"}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

package artifact

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// Node is a graph node serialized through its View. NodeKey identifies the node across
// the whole graph.
type Node interface {
	NodeKey() string
	View() map[string]any
}

// Section is one top-level collection of the artifact.
type Section struct {
	Name  string
	Items map[int]any
}

// UnsupportedValueError reports a value that has no artifact representation.
type UnsupportedValueError struct {
	Path   string
	Type   string
	Reason string
}

func (e *UnsupportedValueError) Error() string {
	return fmt.Sprintf("cannot serialize %s (%s): %s", e.Path, e.Type, e.Reason)
}

var timeType = reflect.TypeOf(time.Time{})

// value is a materialized value: scalar, array or *object.
type value any

// scalar is an encoded JSON literal.
type scalar []byte

type array []value

type object struct {
	keys  []string
	vals  []value
	refs  int
	index int
}

func newObject(size int) *object {
	return &object{keys: make([]string, 0, size), vals: make([]value, 0, size), refs: 1, index: -1}
}

func (o *object) set(key string, v value) {
	o.keys = append(o.keys, key)
	o.vals = append(o.vals, v)
}

// sortKeys orders fields by name. Duplicate keys cannot occur.
func (o *object) sortKeys() {
	sort.Sort(byKey{o})
}

type byKey struct{ *object }

func (b byKey) Len() int           { return len(b.keys) }
func (b byKey) Less(i, j int) bool { return b.keys[i] < b.keys[j] }
func (b byKey) Swap(i, j int) {
	b.keys[i], b.keys[j] = b.keys[j], b.keys[i]
	b.vals[i], b.vals[j] = b.vals[j], b.vals[i]
}

var null = scalar("null")

type materializer struct {
	nodes    map[string]*object
	visiting map[string]bool
}

func newMaterializer() *materializer {
	return &materializer{nodes: make(map[string]*object), visiting: make(map[string]bool)}
}

func (m *materializer) section(s Section) (*object, error) {
	ids := make([]int, 0, len(s.Items))
	for id := range s.Items {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	obj := newObject(len(ids))
	for _, id := range ids {
		key := strconv.Itoa(id)
		v, err := m.value(s.Name+"."+key, s.Items[id])
		if err != nil {
			return nil, err
		}
		obj.set(key, v)
	}
	return obj, nil
}

func (m *materializer) value(path string, v any) (value, error) {
	switch v := v.(type) {
	case nil:
		return null, nil
	case Node:
		return m.node(path, v)
	case time.Time:
		return date(v), nil
	case map[string]any:
		return m.fields(path, v)
	}
	return m.reflected(path, reflect.ValueOf(v))
}

func (m *materializer) node(path string, n Node) (value, error) {
	key := n.NodeKey()
	if m.visiting[key] {
		return nil, &UnsupportedValueError{Path: path, Type: fmt.Sprintf("%T", n), Reason: "reference cycle through " + key}
	}
	if obj, ok := m.nodes[key]; ok {
		obj.refs++
		return obj, nil
	}

	m.visiting[key] = true
	obj, err := m.fields(path, n.View())
	delete(m.visiting, key)
	if err != nil {
		return nil, err
	}

	m.nodes[key] = obj
	return obj, nil
}

func (m *materializer) fields(path string, fields map[string]any) (*object, error) {
	obj := newObject(len(fields))
	for key, fv := range fields {
		if strings.HasPrefix(key, "$") {
			return nil, &UnsupportedValueError{Path: path + "." + key, Type: "key", Reason: "reserved key"}
		}
		v, err := m.value(path+"."+key, fv)
		if err != nil {
			return nil, err
		}
		obj.set(key, v)
	}
	obj.sortKeys()
	return obj, nil
}

func (m *materializer) reflected(path string, rv reflect.Value) (value, error) {
	unsupported := func(reason string) error {
		return &UnsupportedValueError{Path: path, Type: rv.Type().String(), Reason: reason}
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return null, nil
		}
		return m.value(path, rv.Elem().Interface())

	case reflect.Bool:
		return scalar(strconv.FormatBool(rv.Bool())), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return scalar(strconv.FormatInt(rv.Int(), 10)), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return scalar(strconv.FormatUint(rv.Uint(), 10)), nil

	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, unsupported("not a finite number")
		}
		b, err := json.Marshal(f)
		if err != nil {
			return nil, unsupported(err.Error())
		}
		return scalar(b), nil

	case reflect.String:
		b, err := json.Marshal(rv.String())
		if err != nil {
			return nil, unsupported(err.Error())
		}
		return scalar(b), nil

	case reflect.Slice, reflect.Array:
		// Nil slices are written as empty arrays.
		out := make(array, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			v, err := m.value(path+"["+strconv.Itoa(i)+"]", rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil

	case reflect.Map:
		return m.mapValue(path, rv)

	case reflect.Struct:
		return m.structValue(path, rv)

	default:
		return nil, unsupported("unsupported kind " + rv.Kind().String())
	}
}

func (m *materializer) mapValue(path string, rv reflect.Value) (value, error) {
	type entry struct {
		key string
		num int64
		val reflect.Value
	}

	numeric := false
	switch rv.Type().Key().Kind() {
	case reflect.String:
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		numeric = true
	default:
		return nil, &UnsupportedValueError{Path: path, Type: rv.Type().String(), Reason: "unsupported map key"}
	}

	entries := make([]entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		e := entry{val: iter.Value()}
		if numeric {
			e.num = iter.Key().Int()
			e.key = strconv.FormatInt(e.num, 10)
		} else {
			e.key = iter.Key().String()
		}
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if numeric {
			return entries[i].num < entries[j].num
		}
		return entries[i].key < entries[j].key
	})

	obj := newObject(len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.key, "$") {
			return nil, &UnsupportedValueError{Path: path + "." + e.key, Type: "key", Reason: "reserved key"}
		}
		v, err := m.value(path+"."+e.key, e.val.Interface())
		if err != nil {
			return nil, err
		}
		obj.set(e.key, v)
	}
	return obj, nil
}

func (m *materializer) structValue(path string, rv reflect.Value) (value, error) {
	if rv.Type() == timeType {
		return date(rv.Interface().(time.Time)), nil
	}

	obj := newObject(rv.NumField())
	if err := m.structFields(path, rv, obj); err != nil {
		return nil, err
	}
	obj.sortKeys()
	return obj, nil
}

// structFields adds the exported fields of rv to obj, flattening untagged embedded structs
// and honouring json tag names.
func (m *materializer) structFields(path string, rv reflect.Value, obj *object) error {
	t := rv.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		tag := field.Tag.Get("json")
		name, _, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		if field.Anonymous && name == "" && field.Type.Kind() == reflect.Struct {
			if err := m.structFields(path, rv.Field(i), obj); err != nil {
				return err
			}
			continue
		}
		if name == "" {
			name = field.Name
		}

		v, err := m.value(path+"."+name, rv.Field(i).Interface())
		if err != nil {
			return err
		}
		obj.set(name, v)
	}
	return nil
}

func date(t time.Time) *object {
	b, _ := json.Marshal(t.UTC().Format(time.RFC3339Nano))
	obj := newObject(1)
	obj.set("$date", scalar(b))
	return obj
}

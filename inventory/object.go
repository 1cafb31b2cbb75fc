package inventory

import (
	"fmt"
	"maps"

	"github.com/crmarques/srvinv/faults"
)

// NameAttribute identifies an object within its collection.
const NameAttribute = "name"

// Object is one inventory entity: a server, a network or an environment.
type Object map[string]Value

// ObjectFromValue accepts only mapping values.
func ObjectFromValue(value Value) (Object, bool) {
	fields, ok := value.AsMapping()
	if !ok {
		return nil, false
	}
	return Object(fields), true
}

func (o Object) Name() string {
	name, _ := o[NameAttribute].AsString()
	return name
}

func (o Object) Attribute(name string) (Value, bool) {
	value, ok := o[name]
	return value, ok
}

func (o Object) Value() Value {
	return Mapping(o)
}

// Snapshot is the ordered content of one collection as last fetched.
type Snapshot []Object

// SnapshotFromValue converts a list-all payload. Every element must be a mapping.
func SnapshotFromValue(value Value) (Snapshot, error) {
	items, ok := value.AsList()
	if !ok {
		return nil, faults.NewTypedError(
			faults.DecodeError,
			fmt.Sprintf("collection payload must be a list, got %s", value.Kind()),
			nil,
		)
	}

	snapshot := make(Snapshot, 0, len(items))
	for idx, item := range items {
		object, ok := ObjectFromValue(item)
		if !ok {
			return nil, faults.NewTypedError(
				faults.DecodeError,
				fmt.Sprintf("collection item %d must be a mapping, got %s", idx, item.Kind()),
				nil,
			)
		}
		snapshot = append(snapshot, object)
	}
	return snapshot, nil
}

func (s Snapshot) Value() Value {
	items := make([]Value, len(s))
	for idx, object := range s {
		items[idx] = object.Value()
	}
	return List(items...)
}

func (s Snapshot) Equal(other Snapshot) bool {
	if len(s) != len(other) {
		return false
	}
	for idx := range s {
		if !s[idx].Value().Equal(other[idx].Value()) {
			return false
		}
	}
	return true
}

// Clone copies the snapshot and each of its objects, so edits to the result
// never reach the original.
func (s Snapshot) Clone() Snapshot {
	if s == nil {
		return nil
	}
	cloned := make(Snapshot, len(s))
	for idx, object := range s {
		cloned[idx] = maps.Clone(object)
	}
	return cloned
}

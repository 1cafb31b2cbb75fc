package translator

import (
	"encoding/json"
	"time"

	"github.com/crmarques/srvinv/faults"
	"github.com/crmarques/srvinv/inventory"
)

// SniffValue interprets a caller-supplied value. Text that decodes as a single
// JSON document becomes that structured value, so "4", "true" and "[1,2]" are
// written as a number, a boolean and a list. Anything else is kept as an
// opaque string. This is a deliberate heuristic: to store the literal string
// "4", pass "\"4\"".
func SniffValue(raw string) inventory.Value {
	parsed, err := inventory.Parse([]byte(raw))
	if err != nil {
		return inventory.String(raw)
	}
	return parsed
}

// PatchBody wraps value in the {"value": ...} envelope. The service only
// accepts mappings inside a list, so a bare mapping is wrapped in a
// single-element list first.
func PatchBody(value inventory.Value) ([]byte, error) {
	if value.Kind() == inventory.KindMapping {
		value = inventory.List(value)
	}

	encoded, err := json.Marshal(map[string]inventory.Value{"value": value})
	if err != nil {
		return nil, faults.NewTypedError(faults.ValidationError, "failed to encode patch body", err)
	}
	return encoded, nil
}

type registration struct {
	Name      string `json:"name"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// RegisterBody builds the creation payload stamped with now in UTC.
func RegisterBody(id string, now time.Time) ([]byte, error) {
	stamp := now.UTC().Format(time.RFC3339Nano)

	encoded, err := json.Marshal(registration{Name: id, CreatedAt: stamp, UpdatedAt: stamp})
	if err != nil {
		return nil, faults.NewTypedError(faults.ValidationError, "failed to encode registration body", err)
	}
	return encoded, nil
}

package inventory

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/crmarques/srvinv/faults"
)

// Kind tags the variant held by a Value.
type Kind uint8

const (
	KindNull Kind = iota
	KindString
	KindNumber
	KindBool
	KindList
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is an attribute value as stored by the inventory service. Numbers keep
// their wire literal so integers and decimals survive a read-write cycle
// unchanged. The zero Value is null.
type Value struct {
	kind   Kind
	text   string
	flag   bool
	items  []Value
	fields map[string]Value
}

func Null() Value {
	return Value{}
}

func String(value string) Value {
	return Value{kind: KindString, text: value}
}

func Bool(value bool) Value {
	return Value{kind: KindBool, flag: value}
}

func Int(value int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(value, 10)}
}

// Float returns a number value. Non-finite inputs have no wire form and
// become null.
func Float(value float64) Value {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Null()
	}
	return Value{kind: KindNumber, text: strconv.FormatFloat(value, 'g', -1, 64)}
}

// Number wraps a JSON number literal.
func Number(value json.Number) (Value, error) {
	decoder := json.NewDecoder(strings.NewReader(value.String()))
	decoder.UseNumber()

	var probe any
	if err := decoder.Decode(&probe); err != nil {
		return Value{}, faults.NewTypedError(faults.ValidationError, fmt.Sprintf("invalid number literal %q", value), err)
	}
	if _, ok := probe.(json.Number); !ok || decoder.More() {
		return Value{}, faults.NewTypedError(faults.ValidationError, fmt.Sprintf("invalid number literal %q", value), nil)
	}
	return Value{kind: KindNumber, text: strings.TrimSpace(value.String())}, nil
}

func List(items ...Value) Value {
	return Value{kind: KindList, items: append([]Value{}, items...)}
}

func Mapping(fields map[string]Value) Value {
	copied := make(map[string]Value, len(fields))
	for key, value := range fields {
		copied[key] = value
	}
	return Value{kind: KindMapping, fields: copied}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

func (v Value) AsNumber() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return json.Number(v.text), true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.flag, true
}

// AsList returns a copy of the list items.
func (v Value) AsList() ([]Value, bool) {
	if v.kind != KindList {
		return nil, false
	}
	return append([]Value{}, v.items...), true
}

// AsMapping returns a copy of the mapping fields.
func (v Value) AsMapping() (map[string]Value, bool) {
	if v.kind != KindMapping {
		return nil, false
	}
	copied := make(map[string]Value, len(v.fields))
	for key, value := range v.fields {
		copied[key] = value
	}
	return copied, true
}

// Equal reports structural equality. Numbers compare by numeric value.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}

	switch v.kind {
	case KindNull:
		return true
	case KindString:
		return v.text == other.text
	case KindBool:
		return v.flag == other.flag
	case KindNumber:
		return numbersEqual(v.text, other.text)
	case KindList:
		if len(v.items) != len(other.items) {
			return false
		}
		for idx := range v.items {
			if !v.items[idx].Equal(other.items[idx]) {
				return false
			}
		}
		return true
	case KindMapping:
		if len(v.fields) != len(other.fields) {
			return false
		}
		for key, value := range v.fields {
			otherValue, ok := other.fields[key]
			if !ok || !value.Equal(otherValue) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func numbersEqual(left string, right string) bool {
	if left == right {
		return true
	}
	leftFloat, _, leftErr := big.ParseFloat(left, 10, 256, big.ToNearestEven)
	rightFloat, _, rightErr := big.ParseFloat(right, 10, 256, big.ToNearestEven)
	if leftErr != nil || rightErr != nil {
		return false
	}
	return leftFloat.Cmp(rightFloat) == 0
}

// Text is the value's native string form: strings verbatim, numbers as their
// literal, booleans as true/false, null as the empty string, and lists and
// mappings as canonical JSON.
func (v Value) Text() string {
	switch v.kind {
	case KindNull:
		return ""
	case KindString, KindNumber:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.flag)
	default:
		encoded, err := encodeJSON(v.Interface())
		if err != nil {
			return ""
		}
		return string(encoded)
	}
}

func (v Value) String() string {
	return v.Text()
}

// Interface converts the value to plain Go data: nil, string, json.Number,
// bool, []any and map[string]any.
func (v Value) Interface() any {
	switch v.kind {
	case KindString:
		return v.text
	case KindNumber:
		return json.Number(v.text)
	case KindBool:
		return v.flag
	case KindList:
		items := make([]any, len(v.items))
		for idx, item := range v.items {
			items[idx] = item.Interface()
		}
		return items
	case KindMapping:
		fields := make(map[string]any, len(v.fields))
		for key, value := range v.fields {
			fields[key] = value.Interface()
		}
		return fields
	default:
		return nil
	}
}

func (v Value) MarshalJSON() ([]byte, error) {
	return encodeJSON(v.Interface())
}

// encodeJSON leaves &, < and > unescaped so text forms stay matchable.
func encodeJSON(value any) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	if err := encoder.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buffer.Bytes(), []byte("\n")), nil
}

func (v *Value) UnmarshalJSON(data []byte) error {
	parsed, err := Parse(data)
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

// MarshalYAML renders numbers as native YAML integers or floats.
func (v Value) MarshalYAML() (any, error) {
	return v.plain(), nil
}

func (v Value) plain() any {
	switch v.kind {
	case KindNumber:
		if asInt, err := strconv.ParseInt(v.text, 10, 64); err == nil {
			return asInt
		}
		if asFloat, err := strconv.ParseFloat(v.text, 64); err == nil {
			return asFloat
		}
		return v.text
	case KindList:
		items := make([]any, len(v.items))
		for idx, item := range v.items {
			items[idx] = item.plain()
		}
		return items
	case KindMapping:
		fields := make(map[string]any, len(v.fields))
		for key, value := range v.fields {
			fields[key] = value.plain()
		}
		return fields
	default:
		return v.Interface()
	}
}

// Parse decodes exactly one JSON document.
func Parse(data []byte) (Value, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var decoded any
	if err := decoder.Decode(&decoded); err != nil {
		return Value{}, faults.NewTypedError(faults.DecodeError, "payload is not valid JSON", err)
	}
	if _, err := decoder.Token(); err != io.EOF {
		return Value{}, faults.NewTypedError(faults.DecodeError, "payload has trailing data after JSON document", err)
	}

	return FromAny(decoded)
}

// FromAny converts decoded JSON or YAML data, or plain Go values, into a Value.
func FromAny(value any) (Value, error) {
	switch typed := value.(type) {
	case nil:
		return Null(), nil
	case Value:
		return typed, nil
	case string:
		return String(typed), nil
	case bool:
		return Bool(typed), nil
	case float32:
		return fromFloat(float64(typed))
	case float64:
		return fromFloat(typed)
	case int:
		return Int(int64(typed)), nil
	case int8:
		return Int(int64(typed)), nil
	case int16:
		return Int(int64(typed)), nil
	case int32:
		return Int(int64(typed)), nil
	case int64:
		return Int(typed), nil
	case uint:
		return fromUint(uint64(typed))
	case uint8:
		return fromUint(uint64(typed))
	case uint16:
		return fromUint(uint64(typed))
	case uint32:
		return fromUint(uint64(typed))
	case uint64:
		return fromUint(typed)
	case json.Number:
		return Number(typed)
	case []any:
		return fromSlice(typed)
	case map[string]any:
		return fromStringMap(typed)
	}

	return fromReflectValue(value)
}

func fromFloat(value float64) (Value, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return Value{}, faults.NewTypedError(faults.ValidationError, "value contains non-finite float", nil)
	}
	return Float(value), nil
}

func fromUint(value uint64) (Value, error) {
	return Value{kind: KindNumber, text: strconv.FormatUint(value, 10)}, nil
}

func fromSlice(values []any) (Value, error) {
	items := make([]Value, len(values))
	for idx, item := range values {
		converted, err := FromAny(item)
		if err != nil {
			return Value{}, err
		}
		items[idx] = converted
	}
	return Value{kind: KindList, items: items}, nil
}

func fromStringMap(values map[string]any) (Value, error) {
	fields := make(map[string]Value, len(values))
	for key, item := range values {
		converted, err := FromAny(item)
		if err != nil {
			return Value{}, err
		}
		fields[key] = converted
	}
	return Value{kind: KindMapping, fields: fields}, nil
}

func fromReflectValue(value any) (Value, error) {
	reflectValue := reflect.ValueOf(value)
	switch reflectValue.Kind() {
	case reflect.Map:
		if reflectValue.Type().Key().Kind() != reflect.String {
			return Value{}, faults.NewTypedError(faults.ValidationError, "mapping keys must be strings", nil)
		}

		keys := reflectValue.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

		fields := make(map[string]Value, len(keys))
		for _, key := range keys {
			converted, err := FromAny(reflectValue.MapIndex(key).Interface())
			if err != nil {
				return Value{}, err
			}
			fields[key.String()] = converted
		}
		return Value{kind: KindMapping, fields: fields}, nil
	case reflect.Slice, reflect.Array:
		length := reflectValue.Len()
		items := make([]Value, length)
		for idx := range length {
			converted, err := FromAny(reflectValue.Index(idx).Interface())
			if err != nil {
				return Value{}, err
			}
			items[idx] = converted
		}
		return Value{kind: KindList, items: items}, nil
	default:
		return Value{}, faults.NewTypedError(
			faults.ValidationError,
			fmt.Sprintf("unsupported value type %T", value),
			nil,
		)
	}
}

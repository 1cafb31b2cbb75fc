package common

import (
	"context"
	"encoding/json"
	"math/big"
	"strings"
	"sync"

	"github.com/crmarques/srvinv/inventory"
	"github.com/itchyny/gojq"
)

var queryCodeCache sync.Map

// ApplyQuery runs a jq expression over value and returns every result.
func ApplyQuery(ctx context.Context, expression string, value inventory.Value) ([]inventory.Value, error) {
	code, err := cachedQueryCode(strings.TrimSpace(expression))
	if err != nil {
		return nil, ValidationError("invalid --query expression", err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	iterator := code.RunWithContext(ctx, toQueryInput(value.Interface()))
	results := make([]inventory.Value, 0, 1)
	for {
		item, ok := iterator.Next()
		if !ok {
			break
		}
		if itemErr, isErr := item.(error); isErr {
			return nil, ValidationError("failed to evaluate --query expression", itemErr)
		}
		converted, err := inventory.FromAny(fromQueryOutput(item))
		if err != nil {
			return nil, ValidationError("--query produced an unsupported value", err)
		}
		results = append(results, converted)
	}
	return results, nil
}

func cachedQueryCode(expression string) (*gojq.Code, error) {
	if cached, ok := queryCodeCache.Load(expression); ok {
		if typed, ok := cached.(*gojq.Code); ok && typed != nil {
			return typed, nil
		}
	}

	query, err := gojq.Parse(expression)
	if err != nil {
		return nil, err
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return nil, err
	}
	queryCodeCache.Store(expression, code)
	return code, nil
}

// toQueryInput replaces json.Number, which gojq does not accept, with int,
// *big.Int or float64.
func toQueryInput(value any) any {
	switch typed := value.(type) {
	case json.Number:
		if asInt, err := typed.Int64(); err == nil {
			return int(asInt)
		}
		if asBig, ok := new(big.Int).SetString(typed.String(), 10); ok {
			return asBig
		}
		if asFloat, err := typed.Float64(); err == nil {
			return asFloat
		}
		return typed.String()
	case []any:
		items := make([]any, len(typed))
		for idx, item := range typed {
			items[idx] = toQueryInput(item)
		}
		return items
	case map[string]any:
		fields := make(map[string]any, len(typed))
		for key, item := range typed {
			fields[key] = toQueryInput(item)
		}
		return fields
	default:
		return value
	}
}

func fromQueryOutput(value any) any {
	switch typed := value.(type) {
	case *big.Int:
		return json.Number(typed.String())
	case []any:
		items := make([]any, len(typed))
		for idx, item := range typed {
			items[idx] = fromQueryOutput(item)
		}
		return items
	case map[string]any:
		fields := make(map[string]any, len(typed))
		for key, item := range typed {
			fields[key] = fromQueryOutput(item)
		}
		return fields
	default:
		return value
	}
}

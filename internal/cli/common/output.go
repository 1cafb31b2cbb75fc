package common

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/crmarques/srvinv/inventory"
	"github.com/crmarques/srvinv/yamlutil"
	"github.com/spf13/cobra"
)

const (
	OutputAuto = "auto"
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

func ValidateOutputFormat(format string) error {
	switch format {
	case OutputAuto, OutputText, OutputJSON, OutputYAML:
		return nil
	default:
		return ValidationError("invalid output format: use auto, text, json, or yaml", nil)
	}
}

// WriteOutput renders value in format. Auto renders as JSON, the format the
// inventory service speaks.
func WriteOutput[T any](command *cobra.Command, format string, value T, renderText func(io.Writer, T) error) error {
	if isNilOutputValue(value) {
		return nil
	}

	switch format {
	case OutputText:
		if renderText != nil {
			return renderText(command.OutOrStdout(), value)
		}
		_, err := fmt.Fprintln(command.OutOrStdout(), value)
		return err
	case OutputAuto, OutputJSON:
		encoded, err := json.MarshalIndent(value, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(command.OutOrStdout(), string(encoded))
		return err
	case OutputYAML:
		encoded, err := yamlutil.Marshal(value)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(command.OutOrStdout(), string(encoded))
		return err
	default:
		return ValidationError("invalid output format: use auto, text, json, or yaml", nil)
	}
}

// WriteValue renders an attribute value or object, first passing it through
// the --query expression when one is set.
func WriteValue(command *cobra.Command, flags *GlobalFlags, value inventory.Value) error {
	format, expression := OutputAuto, ""
	if flags != nil {
		format, expression = flags.Output, flags.Query
	}

	values := []inventory.Value{value}
	if strings.TrimSpace(expression) != "" {
		queried, err := ApplyQuery(command.Context(), expression, value)
		if err != nil {
			return err
		}
		values = queried
	}

	for _, item := range values {
		if err := WriteOutput(command, format, item, renderValueText); err != nil {
			return err
		}
	}
	return nil
}

// WriteSnapshot renders a collection snapshot. The text form lists one object
// name per line.
func WriteSnapshot(command *cobra.Command, flags *GlobalFlags, snapshot inventory.Snapshot) error {
	if flags != nil && flags.Output == OutputText && strings.TrimSpace(flags.Query) == "" {
		for _, object := range snapshot {
			if _, err := fmt.Fprintln(command.OutOrStdout(), object.Name()); err != nil {
				return err
			}
		}
		return nil
	}
	return WriteValue(command, flags, snapshot.Value())
}

func WriteText(command *cobra.Command, format string, text string) error {
	return WriteOutput(command, format, text, func(w io.Writer, value string) error {
		_, err := fmt.Fprintln(w, value)
		return err
	})
}

func renderValueText(w io.Writer, value inventory.Value) error {
	_, err := fmt.Fprintln(w, value.Text())
	return err
}

func isNilOutputValue[T any](value T) bool {
	anyValue := any(value)
	if anyValue == nil {
		return true
	}

	reflected := reflect.ValueOf(anyValue)
	switch reflected.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return reflected.IsNil()
	default:
		return false
	}
}

package common

import (
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type GlobalFlags struct {
	ConfigPath  string
	Debug       bool
	Output      string
	Query       string
	MetricsFile string
	Yes         bool
}

// AttributeFlags holds the flag spellings of the positional attribute and
// value arguments. They are kept for older scripts.
type AttributeFlags struct {
	Attribute string
	Value     string
}

func BindGlobalFlags(command *cobra.Command, flags *GlobalFlags) {
	command.PersistentFlags().StringVarP(&flags.ConfigPath, "config", "c", "", "configuration file (default: search standard locations)")
	command.PersistentFlags().BoolVarP(&flags.Debug, "debug", "d", false, "enable debug output")
	flags.Output = OutputAuto
	command.PersistentFlags().VarP(outputFormatValue{target: &flags.Output}, "output", "o", "output format: auto|text|json|yaml")
	command.PersistentFlags().StringVarP(&flags.Query, "query", "q", "", "jq expression applied to each result")
	command.PersistentFlags().StringVar(&flags.MetricsFile, "metrics-file", "", "write Prometheus metrics to this file on exit")
	command.PersistentFlags().BoolVarP(&flags.Yes, "yes", "y", false, "skip confirmation prompts")
	RegisterOutputFlagCompletion(command)
}

// outputFormatValue rejects unknown formats while flags are parsed.
type outputFormatValue struct {
	target *string
}

var _ pflag.Value = outputFormatValue{}

func (v outputFormatValue) String() string {
	if v.target == nil {
		return ""
	}
	return *v.target
}

func (v outputFormatValue) Set(raw string) error {
	format := strings.ToLower(strings.TrimSpace(raw))
	if err := ValidateOutputFormat(format); err != nil {
		return err
	}
	*v.target = format
	return nil
}

func (v outputFormatValue) Type() string {
	return "format"
}

func BindAttributeFlag(command *cobra.Command, flags *AttributeFlags) {
	command.Flags().StringVar(&flags.Attribute, "attribute", "", "attribute to access")
	_ = command.Flags().MarkDeprecated("attribute", "pass the attribute as a positional argument")
}

func BindValueFlag(command *cobra.Command, flags *AttributeFlags) {
	command.Flags().StringVar(&flags.Value, "value", "", "value to write")
	_ = command.Flags().MarkDeprecated("value", "pass the value as a positional argument")
}

func RegisterOutputFlagCompletion(command *cobra.Command) {
	_ = command.RegisterFlagCompletionFunc("output", cobra.FixedCompletions(
		[]string{OutputAuto, OutputText, OutputJSON, OutputYAML},
		cobra.ShellCompDirectiveNoFileComp,
	))
}

// ResolveAttributeArgs merges the optional positional attribute and value
// with their deprecated flag forms. Positional arguments win.
func ResolveAttributeArgs(command *cobra.Command, flags AttributeFlags, positional []string) (attribute string, value string, hasValue bool, err error) {
	attribute = flags.Attribute
	if len(positional) > 0 {
		if command.Flags().Changed("attribute") && flags.Attribute != positional[0] {
			return "", "", false, ValidationError("attribute given both as argument and --attribute", nil)
		}
		attribute = positional[0]
	}

	hasValue = command.Flags().Changed("value")
	value = flags.Value
	if len(positional) > 1 {
		if hasValue && flags.Value != positional[1] {
			return "", "", false, ValidationError("value given both as argument and --value", nil)
		}
		value = positional[1]
		hasValue = true
	}
	return attribute, value, hasValue, nil
}

package object

import (
	"context"

	"github.com/crmarques/srvinv/internal/cli/common"
	"github.com/spf13/cobra"
)

func newSetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags common.AttributeFlags

	command := &cobra.Command{
		Use:   "set <collection> <ids> <attribute> <value>",
		Short: "Write one attribute",
		Long: `Write one attribute of existing objects. The value is read as JSON when it
parses as JSON and as a plain string otherwise.`,
		Example: `  srvinv set srv srv003007 is_provisioned true
  srvinv set srv self roles '["web","cache"]'`,
		Args:              cobra.RangeArgs(2, 4),
		ValidArgsFunction: common.CompleteCollection,
		RunE: func(command *cobra.Command, args []string) error {
			t, err := parseTarget(args)
			if err != nil {
				return err
			}
			attribute, value, err := requireAttributeAndValue(command, flags, args[2:])
			if err != nil {
				return err
			}

			return run(command, deps, globalFlags, t, func(ctx context.Context, session *common.Session, id string) common.Outcome {
				code := session.Inventory.Client.Set(ctx, t.collection, id, attribute, value)
				if !code.OK() {
					return common.Outcome{Message: code.Message(), Err: code.Err()}
				}
				return common.Outcome{}
			})
		},
	}

	common.BindAttributeFlag(command, &flags)
	common.BindValueFlag(command, &flags)
	return command
}

func requireAttributeAndValue(command *cobra.Command, flags common.AttributeFlags, positional []string) (string, string, error) {
	attribute, value, hasValue, err := common.ResolveAttributeArgs(command, flags, positional)
	if err != nil {
		return "", "", err
	}
	if attribute == "" {
		return "", "", common.ValidationError("missing attribute", nil)
	}
	if !hasValue {
		return "", "", common.ValidationError("missing value", nil)
	}
	return attribute, value, nil
}

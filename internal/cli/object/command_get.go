package object

import (
	"context"

	"github.com/crmarques/srvinv/internal/cli/common"
	"github.com/spf13/cobra"
)

func newGetCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var flags common.AttributeFlags

	command := &cobra.Command{
		Use:   "get <collection> <ids> [attribute]",
		Short: "Read objects or one of their attributes",
		Example: `  srvinv get srv srv003007
  srvinv get srv self interfaces
  srvinv get net lan,dmz netmask --output text`,
		Args:              cobra.RangeArgs(2, 3),
		ValidArgsFunction: common.CompleteCollection,
		RunE: func(command *cobra.Command, args []string) error {
			t, err := parseTarget(args)
			if err != nil {
				return err
			}
			attribute, _, hasValue, err := common.ResolveAttributeArgs(command, flags, args[2:])
			if err != nil {
				return err
			}
			if hasValue {
				return common.ValidationError("value set in get operation", nil)
			}

			return run(command, deps, globalFlags, t, func(ctx context.Context, session *common.Session, id string) common.Outcome {
				code, value := session.Inventory.Client.Get(ctx, t.collection, id, attribute)
				if !code.OK() {
					return common.Outcome{Message: code.Message(), Err: code.Err()}
				}
				return common.Outcome{Value: &value}
			})
		},
	}

	common.BindAttributeFlag(command, &flags)
	common.BindValueFlag(command, &flags)
	return command
}

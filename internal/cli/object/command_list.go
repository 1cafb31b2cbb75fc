package object

import (
	"context"

	"github.com/crmarques/srvinv/client"
	"github.com/crmarques/srvinv/internal/cli/common"
	"github.com/crmarques/srvinv/inventory"
	"github.com/spf13/cobra"
)

// listEdit describes one of the two list item commands.
type listEdit struct {
	use       string
	short     string
	example   string
	noopText  string
	operation func(c *client.Client, ctx context.Context, collection string, id string, attribute string, item string) inventory.ListCode
}

var addItem = listEdit{
	use:       "add <collection> <ids> <attribute> <item>",
	short:     "Append an item to a list attribute",
	example:   `  srvinv add srv self roles web`,
	noopText:  "item exists",
	operation: (*client.Client).AddItem,
}

var removeItem = listEdit{
	use:       "remove <collection> <ids> <attribute> <item>",
	short:     "Remove an item from a list attribute",
	example:   `  srvinv remove srv srv003007,srv003008 roles web`,
	noopText:  "item does not exist",
	operation: (*client.Client).RemoveItem,
}

func newListItemCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags, edit listEdit) *cobra.Command {
	var flags common.AttributeFlags

	command := &cobra.Command{
		Use:               edit.use,
		Short:             edit.short,
		Example:           edit.example,
		Args:              cobra.RangeArgs(2, 4),
		ValidArgsFunction: common.CompleteCollection,
		RunE: func(command *cobra.Command, args []string) error {
			t, err := parseTarget(args)
			if err != nil {
				return err
			}
			attribute, item, err := requireAttributeAndValue(command, flags, args[2:])
			if err != nil {
				return err
			}

			return run(command, deps, globalFlags, t, func(ctx context.Context, session *common.Session, id string) common.Outcome {
				code := edit.operation(session.Inventory.Client, ctx, t.collection, id, attribute, item)
				switch {
				case code.OK():
					return common.Outcome{}
				case code == inventory.ListNoop:
					return common.Outcome{Message: edit.noopText, Err: code.Err()}
				default:
					return common.Outcome{Message: code.Message(), Err: code.Err()}
				}
			})
		},
	}

	common.BindAttributeFlag(command, &flags)
	common.BindValueFlag(command, &flags)
	return command
}

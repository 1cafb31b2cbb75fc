// Package object holds the per-object commands: reads, attribute writes,
// list edits, registration and deletion. Every command accepts a comma
// separated id list and processes the ids independently.
package object

import (
	"context"

	"github.com/crmarques/srvinv/internal/cli/common"
	"github.com/spf13/cobra"
)

// NewCommands returns the object commands in help order.
func NewCommands(deps common.CommandDependencies, globalFlags *common.GlobalFlags) []*cobra.Command {
	return []*cobra.Command{
		newGetCommand(deps, globalFlags),
		newSetCommand(deps, globalFlags),
		newListItemCommand(deps, globalFlags, addItem),
		newListItemCommand(deps, globalFlags, removeItem),
		newRegisterCommand(deps, globalFlags),
		newDeleteCommand(deps, globalFlags),
	}
}

// target is the parsed collection and id list shared by all object commands.
type target struct {
	collection string
	ids        []string
}

func parseTarget(args []string) (target, error) {
	if err := common.ValidateCollection(args[0]); err != nil {
		return target{}, err
	}
	ids, err := common.SplitIDs(args[1])
	if err != nil {
		return target{}, err
	}
	return target{collection: args[0], ids: ids}, nil
}

// run opens a session and applies operation to every id of t.
func run(
	command *cobra.Command,
	deps common.CommandDependencies,
	globalFlags *common.GlobalFlags,
	t target,
	operation func(ctx context.Context, session *common.Session, id string) common.Outcome,
) error {
	return common.WithSession(command, deps, globalFlags, func(session *common.Session) error {
		outcomes := common.FanOut(command.Context(), t.ids, func(ctx context.Context, id string) common.Outcome {
			return operation(ctx, session, id)
		})
		return common.Report(command, globalFlags, outcomes)
	})
}

package object

import (
	"context"
	"fmt"
	"strings"

	"github.com/crmarques/srvinv/internal/cli/common"
	"github.com/spf13/cobra"
)

func newRegisterCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "register <collection> <ids>",
		Short:             "Create new objects",
		Example:           `  srvinv register srv self`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: common.CompleteCollection,
		RunE: func(command *cobra.Command, args []string) error {
			t, err := parseTarget(args)
			if err != nil {
				return err
			}

			return run(command, deps, globalFlags, t, func(ctx context.Context, session *common.Session, id string) common.Outcome {
				code := session.Inventory.Client.Register(ctx, t.collection, id)
				if !code.OK() {
					return common.Outcome{Message: code.Message(), Err: code.Err()}
				}
				return common.Outcome{}
			})
		},
	}
}

func newDeleteCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "delete <collection> <ids>",
		Short:             "Remove objects",
		Long:              "Remove objects. Interactive runs ask for confirmation unless --yes is set.",
		Example:           `  srvinv delete srv srv003007 --yes`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: common.CompleteCollection,
		RunE: func(command *cobra.Command, args []string) error {
			t, err := parseTarget(args)
			if err != nil {
				return err
			}

			prompt := fmt.Sprintf("Delete %s %s?", t.collection, strings.Join(t.ids, ", "))
			confirmed, err := common.Confirm(command, deps, globalFlags, prompt)
			if err != nil {
				return err
			}
			if !confirmed {
				return common.ValidationError("delete cancelled", nil)
			}

			return run(command, deps, globalFlags, t, func(ctx context.Context, session *common.Session, id string) common.Outcome {
				code := session.Inventory.Client.Delete(ctx, t.collection, id)
				if !code.OK() {
					return common.Outcome{Message: code.Message(), Err: code.Err()}
				}
				return common.Outcome{}
			})
		},
	}
}

package cache

import (
	"fmt"
	"io"

	"github.com/crmarques/srvinv/internal/cli/common"
	"github.com/crmarques/srvinv/inventory"
	"github.com/spf13/cobra"
)

type refreshSummary struct {
	Collection string `json:"collection" yaml:"collection"`
	Objects    int    `json:"objects" yaml:"objects"`
}

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	command := &cobra.Command{
		Use:   "cache",
		Short: "Manage the local collection cache",
		Args:  cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return command.Help()
		},
	}

	command.AddCommand(newRefreshCommand(deps, globalFlags))
	return command
}

func newRefreshCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:               "refresh <collection>",
		Short:             "Refetch a collection into the cache",
		Example:           `  srvinv cache refresh net`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: common.CompleteCollection,
		RunE: func(command *cobra.Command, args []string) error {
			collection := args[0]
			if err := common.ValidateCollection(collection); err != nil {
				return err
			}

			return common.WithSession(command, deps, globalFlags, func(session *common.Session) error {
				snapshot, ok := session.Inventory.Cache.Refresh(command.Context(), collection)
				if !ok {
					code := inventory.FetchFailed
					return common.Report(command, globalFlags, []common.Outcome{{Message: code.Message(), Err: code.Err()}})
				}

				summary := refreshSummary{Collection: collection, Objects: len(snapshot)}
				return common.WriteOutput(command, globalFlags.Output, summary, func(w io.Writer, value refreshSummary) error {
					_, err := fmt.Fprintf(w, "refreshed %s: %d objects\n", value.Collection, value.Objects)
					return err
				})
			})
		},
	}
}

package search

import (
	"github.com/crmarques/srvinv/internal/cli/common"
	"github.com/crmarques/srvinv/inventory"
	searchdomain "github.com/crmarques/srvinv/search"
	"github.com/spf13/cobra"
)

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	var refresh bool

	command := &cobra.Command{
		Use:   "search <collection> <attribute> <pattern>",
		Short: "Find objects whose attribute matches a glob pattern",
		Long: `Find objects whose attribute matches a shell glob pattern (*, ?, [set]).
Results come from the local cache, which is refreshed when stale or when
--refresh is set.`,
		Example: `  srvinv search srv environment 'prod-*'
  srvinv search net name '*' --refresh --output text`,
		Args:              cobra.ExactArgs(3),
		ValidArgsFunction: common.CompleteCollection,
		RunE: func(command *cobra.Command, args []string) error {
			if err := common.ValidateCollection(args[0]); err != nil {
				return err
			}
			query := searchdomain.Query{
				Collection: args[0],
				Attribute:  args[1],
				Pattern:    args[2],
				Refresh:    refresh,
			}

			return common.WithSession(command, deps, globalFlags, func(session *common.Session) error {
				matches, ok, err := session.Inventory.Search.Search(command.Context(), query)
				if err != nil {
					return err
				}
				if !ok {
					return common.Report(command, globalFlags, []common.Outcome{unavailable()})
				}
				return common.WriteSnapshot(command, globalFlags, matches)
			})
		},
	}

	command.Flags().BoolVar(&refresh, "refresh", false, "refetch the collection before searching")
	return command
}

func unavailable() common.Outcome {
	code := inventory.FetchFailed
	return common.Outcome{Message: code.Message(), Err: code.Err()}
}

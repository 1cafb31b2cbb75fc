package self

import (
	"fmt"
	"io"
	"strings"

	"github.com/crmarques/srvinv/internal/cli/common"
	"github.com/crmarques/srvinv/inventory"
	"github.com/spf13/cobra"
)

type selfInfo struct {
	ID        string `json:"id" yaml:"id"`
	Address   string `json:"address,omitempty" yaml:"address,omitempty"`
	Interface string `json:"interface,omitempty" yaml:"interface,omitempty"`
	Network   string `json:"network,omitempty" yaml:"network,omitempty"`
}

func NewCommand(deps common.CommandDependencies, globalFlags *common.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "self",
		Short: "Show the server id derived for this host",
		Long: `Show the server id used in place of "self" on the srv collection, with the
private address and the inventory network it was derived from.`,
		Args: cobra.NoArgs,
		RunE: func(command *cobra.Command, _ []string) error {
			return common.WithSession(command, deps, globalFlags, func(session *common.Session) error {
				id, ok := session.Inventory.Identity.ResolveSelf(command.Context())
				if !ok {
					code := inventory.FetchIdentityUnresolved
					return common.Report(command, globalFlags, []common.Outcome{{Message: code.Message(), Err: code.Err()}})
				}

				value := selfInfo{ID: id}
				if pinned := strings.TrimSpace(session.Inventory.Config.Identity.PrivateIP); pinned != "" {
					value.Address = pinned
				} else if info, ok := session.Inventory.Identity.PrivateInfo(command.Context()); ok {
					value.Address = info.Addr.String()
					value.Interface = info.Interface
					value.Network = info.Network
				}
				return common.WriteOutput(command, globalFlags.Output, value, func(w io.Writer, item selfInfo) error {
					_, err := fmt.Fprintln(w, item.ID)
					return err
				})
			})
		},
	}
}

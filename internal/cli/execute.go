package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/crmarques/srvinv/faults"
	"github.com/crmarques/srvinv/internal/cli/common"
	"github.com/crmarques/srvinv/inventory"
)

// Exit statuses for failures that carry no inventory result code. They follow
// sysexits so they never collide with result codes 0 to 9.
const (
	exitFailure     = 1
	exitUsage       = 64
	exitDataErr     = 65
	exitUnavailable = 69
)

type Dependencies struct {
	Bootstrap common.BootstrapFunc
	Prompter  common.Prompter
}

func (d Dependencies) commandDependencies() common.CommandDependencies {
	return common.CommandDependencies{
		Bootstrap: d.Bootstrap,
		Prompter:  d.Prompter,
	}
}

// Execute runs the command line and writes any unreported error to stderr.
func Execute(deps Dependencies, args []string) error {
	root := NewRootCommand(deps)
	root.SetArgs(args)

	_, err := root.ExecuteC()
	if err != nil {
		writeExecutionError(root.ErrOrStderr(), err)
	}
	return err
}

// ExitCodeForError maps err to the process exit status. An inventory result
// code is used as is; the last failed id decides when several ids were given.
func ExitCodeForError(err error) int {
	if err == nil {
		return 0
	}

	var codeErr *inventory.CodeError
	if errors.As(err, &codeErr) && codeErr.Code != 0 {
		return codeErr.Code
	}

	category, ok := faults.CategoryOf(err)
	if !ok {
		return exitFailure
	}

	switch category {
	case faults.ValidationError:
		return exitUsage
	case faults.DecodeError:
		return exitDataErr
	case faults.TransportError:
		return exitUnavailable
	default:
		return exitFailure
	}
}

func writeExecutionError(w io.Writer, err error) {
	if err == nil || common.IsReported(err) {
		return
	}
	_, _ = fmt.Fprintf(w, "error: %s\n", strings.TrimSpace(err.Error()))
}

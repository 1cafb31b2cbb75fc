package common

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/crmarques/srvinv/inventory"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentIDs bounds the requests in flight for one comma separated id
// argument. The transport's rate limiter still applies.
const maxConcurrentIDs = 4

// Outcome is the result of one operation on one id.
type Outcome struct {
	ID string
	// Value is rendered on stdout when the operation succeeded and produced
	// data.
	Value *inventory.Value
	// Message is written to stderr when not empty.
	Message string
	// Err carries the domain result code of a failed operation.
	Err error
}

func ValidateCollection(collection string) error {
	if slices.Contains(inventory.Collections(), collection) {
		return nil
	}
	return ValidationError(
		fmt.Sprintf("invalid collection %q: use %s", collection, strings.Join(inventory.Collections(), ", ")),
		nil,
	)
}

// SplitIDs splits a comma separated id argument. Empty ids are rejected.
func SplitIDs(raw string) ([]string, error) {
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, part := range parts {
		id := strings.TrimSpace(part)
		if id == "" {
			return nil, ValidationError(fmt.Sprintf("invalid id list %q: empty id", raw), nil)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// FanOut runs operation for every id concurrently and returns the outcomes in
// id order.
func FanOut(ctx context.Context, ids []string, operation func(ctx context.Context, id string) Outcome) []Outcome {
	outcomes := make([]Outcome, len(ids))

	var group errgroup.Group
	group.SetLimit(maxConcurrentIDs)
	for idx, id := range ids {
		group.Go(func() error {
			outcome := operation(ctx, id)
			outcome.ID = id
			outcomes[idx] = outcome
			return nil
		})
	}
	_ = group.Wait()

	return outcomes
}

// Report writes every outcome in order and returns the error of the last
// failed id, so the exit status is the last non-zero result code.
func Report(command *cobra.Command, flags *GlobalFlags, outcomes []Outcome) error {
	var last error
	for _, outcome := range outcomes {
		if outcome.Value != nil && outcome.Err == nil {
			if err := WriteValue(command, flags, *outcome.Value); err != nil {
				return err
			}
		}
		if outcome.Message != "" {
			_, _ = fmt.Fprintln(command.ErrOrStderr(), outcome.Message)
		}
		if outcome.Err != nil {
			last = outcome.Err
		}
	}

	if last == nil {
		return nil
	}
	return &ReportedError{Err: last}
}

// CompleteCollection completes the collection argument of object commands.
func CompleteCollection(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) != 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return inventory.Collections(), cobra.ShellCompDirectiveNoFileComp
}

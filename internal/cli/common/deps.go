package common

import (
	"context"
	"errors"
	"strings"

	"github.com/crmarques/srvinv/core"
	"github.com/crmarques/srvinv/telemetry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

// BootstrapFunc builds the inventory components for one command run.
type BootstrapFunc func(ctx context.Context, opts core.BootstrapConfig) (core.Inventory, error)

type CommandDependencies struct {
	Bootstrap BootstrapFunc
	Prompter  Prompter
}

// Confirm asks before a destructive operation. --yes skips the question.
// Without an injected prompter, non-interactive runs proceed unasked so
// existing scripts keep working.
func Confirm(command *cobra.Command, deps CommandDependencies, flags *GlobalFlags, prompt string) (bool, error) {
	if flags != nil && flags.Yes {
		return true, nil
	}
	if deps.Prompter != nil {
		return deps.Prompter.Confirm(command, prompt)
	}
	if !IsInteractiveTerminal(command) {
		return true, nil
	}
	return HuhPrompter{}.Confirm(command, prompt)
}

// Session is one bootstrapped inventory plus the telemetry sinks that must be
// flushed when the command ends.
type Session struct {
	Inventory core.Inventory

	registry    *prometheus.Registry
	metricsFile string
}

func OpenSession(command *cobra.Command, deps CommandDependencies, flags *GlobalFlags) (*Session, error) {
	if deps.Bootstrap == nil {
		return nil, ValidationError("inventory bootstrap is not configured", nil)
	}

	opts := core.BootstrapConfig{}
	session := &Session{}
	if flags != nil {
		opts.ConfigPath = strings.TrimSpace(flags.ConfigPath)
		session.metricsFile = strings.TrimSpace(flags.MetricsFile)
	}
	if session.metricsFile != "" {
		session.registry = prometheus.NewRegistry()
		opts.Registerer = session.registry
	}

	inventory, err := deps.Bootstrap(command.Context(), opts)
	if err != nil {
		return nil, err
	}
	session.Inventory = inventory
	return session, nil
}

// Close writes the metrics file, when requested, and flushes tracing.
func (s *Session) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	var errs []error
	if s.registry != nil {
		if err := telemetry.WriteTextfile(s.metricsFile, s.registry); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.Inventory.Shutdown(ctx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// WithSession runs fn against a freshly opened session and closes it
// afterwards. A close failure never hides the command's own error.
func WithSession(command *cobra.Command, deps CommandDependencies, flags *GlobalFlags, fn func(*Session) error) error {
	session, err := OpenSession(command, deps, flags)
	if err != nil {
		return err
	}

	runErr := fn(session)
	closeErr := session.Close(context.WithoutCancel(command.Context()))
	if runErr != nil {
		return runErr
	}
	return closeErr
}

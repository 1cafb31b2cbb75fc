package common

import (
	"errors"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// Prompter asks the operator a yes or no question.
type Prompter interface {
	Confirm(command *cobra.Command, prompt string) (bool, error)
}

// HuhPrompter renders prompts on the command's terminal.
type HuhPrompter struct{}

func (HuhPrompter) Confirm(command *cobra.Command, prompt string) (bool, error) {
	if !IsInteractiveTerminal(command) {
		return false, ValidationError("interactive terminal is required; pass --yes to confirm", nil)
	}

	value := false
	field := huh.NewConfirm().
		Title(normalizePrompt(prompt)).
		Affirmative("Yes").
		Negative("No").
		Value(&value)

	form := huh.NewForm(huh.NewGroup(field)).
		WithInput(command.InOrStdin()).
		WithOutput(command.ErrOrStderr()).
		WithShowHelp(false)

	err := form.Run()
	if errors.Is(err, huh.ErrUserAborted) {
		return false, ValidationError("interactive prompt interrupted", nil)
	}
	if err != nil {
		return false, err
	}
	return value, nil
}

func normalizePrompt(prompt string) string {
	title := strings.TrimSpace(prompt)
	title = strings.TrimSuffix(title, ":")
	if title == "" {
		return "Continue?"
	}
	return title
}

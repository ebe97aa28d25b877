package cli

import (
	"fmt"

	"github.com/mveach/rollo/internal/validation"
)

type ValidateCmd struct{}

func (cmd *ValidateCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Service.Close()

	projects, err := ctx.Service.Projects()
	if err != nil {
		return fmt.Errorf("failed to load projects: %w", err)
	}
	tasks, err := ctx.Service.Tasks()
	if err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}

	fmt.Println("Validating stored state...")
	validator := validation.New()
	result := validator.ValidateState(projects, tasks)

	fmt.Println()
	fmt.Println(result.FormatReport())

	// Conflicts are reported, not treated as a command failure
	return nil
}

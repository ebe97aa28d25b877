package cli

import (
	"encoding/json"
	"fmt"

	"github.com/mveach/rollo/internal/models"
	"github.com/mveach/rollo/internal/storage"
)

type DebugCmd struct {
	DBPath    *DebugDBPathCmd    `cmd:"" help:"Show store path."`
	DumpState *DebugDumpStateCmd `cmd:"" help:"Dump the full persisted state as JSON."`
	DumpTask  *DebugDumpTaskCmd  `cmd:"" help:"Dump task data as JSON."`
}

type DebugDBPathCmd struct{}

func (cmd *DebugDBPathCmd) Run(ctx *Context) error {
	// Output in machine-readable format
	output := map[string]string{
		"path": ctx.Service.ConfigPath(),
	}

	jsonBytes, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpStateCmd struct{}

func (cmd *DebugDumpStateCmd) Run(ctx *Context) error {
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
	rolloverState, err := ctx.Service.LastRollover()
	if err != nil {
		return fmt.Errorf("failed to load rollover state: %w", err)
	}

	dump := struct {
		Projects      []models.Project      `json:"projects"`
		Tasks         []models.Task         `json:"tasks"`
		RolloverState storage.RolloverState `json:"rollover_state"`
	}{
		Projects:      projects,
		Tasks:         tasks,
		RolloverState: rolloverState,
	}

	jsonBytes, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

type DebugDumpTaskCmd struct {
	ID string `arg:"" help:"ID of the task to dump."`
}

func (cmd *DebugDumpTaskCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return fmt.Errorf("failed to load storage: %w", err)
	}
	defer ctx.Service.Close()

	task, err := findTask(ctx, cmd.ID)
	if err != nil {
		return err
	}

	jsonBytes, err := json.MarshalIndent(task, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal task: %w", err)
	}

	fmt.Println(string(jsonBytes))
	return nil
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mveach/rollo/internal/cli"
	"github.com/mveach/rollo/internal/storage"
	"github.com/mveach/rollo/internal/todo"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Store file path." type:"path" default:"~/.config/rollo/rollo.db"`

	Init     cli.InitCmd     `cmd:"" help:"Initialize rollo storage."`
	Tui      cli.TuiCmd      `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Day      cli.DayCmd      `cmd:"" help:"Show tasks for a day."`
	Rollover cli.RolloverCmd `cmd:"" help:"Carry yesterday's unfinished tasks forward to today."`
	Project  struct {
		Add       cli.ProjectAddCmd       `cmd:"" help:"Add a new project."`
		Archive   cli.ProjectArchiveCmd   `cmd:"" help:"Archive a project."`
		Unarchive cli.ProjectUnarchiveCmd `cmd:"" help:"Restore an archived project."`
		Delete    cli.ProjectDeleteCmd    `cmd:"" help:"Delete a project and all of its tasks."`
		List      cli.ProjectListCmd      `cmd:"" help:"List projects."`
	} `cmd:"" help:"Manage projects."`
	Task struct {
		Add    cli.TaskAddCmd    `cmd:"" help:"Add a new task."`
		Done   cli.TaskDoneCmd   `cmd:"" help:"Toggle a task's completion."`
		Move   cli.TaskMoveCmd   `cmd:"" help:"Move a task to another project."`
		Delete cli.TaskDeleteCmd `cmd:"" help:"Delete a task."`
		List   cli.TaskListCmd   `cmd:"" help:"List tasks."`
	} `cmd:"" help:"Manage tasks."`
	Backup struct {
		Create  cli.BackupCreateCmd  `cmd:"" help:"Create a backup of the store."`
		List    cli.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore cli.BackupRestoreCmd `cmd:"" help:"Restore the store from a backup."`
	} `cmd:"" help:"Manage backups."`
	Validate cli.ValidateCmd `cmd:"" help:"Check stored state for integrity problems."`
	Doctor   cli.DoctorCmd   `cmd:"" help:"Run diagnostics."`
	Debug    cli.DebugCmd    `cmd:"" help:"Debugging helpers."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("rollo"),
		kong.Description("Day-to-day to-do list that rolls unfinished tasks forward"),
		kong.UsageOnError(),
		kong.Vars{"version": "v0.1.0"},
	)

	// Determine storage type based on extension
	var store storage.Provider
	if strings.HasSuffix(CLI.Config, ".json") {
		store = storage.NewJSONStore(CLI.Config)
	} else {
		store = storage.NewSQLiteStore(CLI.Config)
	}

	appCtx := &cli.Context{
		Service: todo.New(store),
	}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

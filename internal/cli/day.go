package cli

import (
	"fmt"

	"github.com/mveach/rollo/internal/models"
)

type DayCmd struct {
	Date string `arg:"" help:"Date to show (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *DayCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	// Catch up on the day change before showing anything, the same check
	// the TUI runs on a timer.
	if advanced, ran, err := ctx.Service.CheckRollover(); err != nil {
		return fmt.Errorf("rollover check failed: %w", err)
	} else if ran && advanced > 0 {
		fmt.Printf("✓ Rolled %d task(s) forward to today\n\n", advanced)
	}

	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}

	open, err := ctx.Service.TasksByDate(date)
	if err != nil {
		return err
	}
	completed, err := ctx.Service.CompletedTasksByDate(date)
	if err != nil {
		return err
	}

	fmt.Printf("Tasks for %s:\n\n", date)

	if len(open) == 0 {
		fmt.Println("  No open tasks")
	} else if err := printGroupedByProject(ctx, open); err != nil {
		return err
	}

	if len(completed) > 0 {
		fmt.Printf("\nCompleted (%d):\n", len(completed))
		for _, task := range completed {
			fmt.Printf("    ✓ %s\n", formatTask(task))
		}
	}

	if state, err := ctx.Service.LastRollover(); err == nil && state.LastRolloverTime != "" {
		fmt.Printf("\nLast rollover: %s\n", state.LastRolloverTime)
	}

	return nil
}

// printGroupedByProject lists tasks under their project headings, projects
// in creation order.
func printGroupedByProject(ctx *Context, tasks []models.Task) error {
	projects, err := ctx.Service.Projects()
	if err != nil {
		return err
	}

	byProject := make(map[string][]models.Task)
	for _, task := range tasks {
		byProject[task.ProjectID] = append(byProject[task.ProjectID], task)
	}

	printGroup := func(name string, group []models.Task) {
		fmt.Printf("  %s\n", name)
		for _, task := range group {
			fmt.Printf("    %s\n", formatTask(task))
			if task.Description != "" {
				fmt.Printf("        %s\n", task.Description)
			}
		}
	}

	for _, project := range projects {
		group, ok := byProject[project.ID]
		if !ok {
			continue
		}
		printGroup(project.Name, group)
		delete(byProject, project.ID)
	}

	// Anything left references a project that no longer exists
	for _, group := range byProject {
		printGroup("(unknown project)", group)
	}

	return nil
}

package cli

import (
	"fmt"
	"strings"
)

type TaskAddCmd struct {
	Title       string `arg:"" help:"Task title."`
	Project     string `short:"p" help:"Project id or name." required:""`
	Description string `short:"d" help:"Optional description."`
	Date        string `short:"D" help:"Assigned date (YYYY-MM-DD or 'today')." default:"today"`
}

func (c *TaskAddCmd) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("task title must not be empty")
	}
	return nil
}

func (c *TaskAddCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	project, err := findProject(ctx, c.Project)
	if err != nil {
		return err
	}

	date, err := resolveDate(c.Date)
	if err != nil {
		return err
	}

	task, err := ctx.Service.AddTask(project.ID, c.Title, c.Description, date)
	if err != nil {
		return err
	}

	fmt.Printf("Added task: %s (ID: %s) on %s in %s\n", task.Title, task.ID, task.AssignedDate, project.Name)
	return nil
}

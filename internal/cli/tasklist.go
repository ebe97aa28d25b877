package cli

import (
	"fmt"

	"github.com/mveach/rollo/internal/models"
)

type TaskListCmd struct {
	Project string `short:"p" help:"Only tasks in this project (id or name)."`
	Date    string `short:"D" help:"Only incomplete tasks on this date (YYYY-MM-DD or 'today')."`
	All     bool   `short:"a" help:"Include completed tasks."`
}

func (c *TaskListCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	var tasks []models.Task
	var err error

	switch {
	case c.Project != "" && c.Date != "":
		var project models.Project
		if project, err = findProject(ctx, c.Project); err != nil {
			return err
		}
		var date string
		if date, err = resolveDate(c.Date); err != nil {
			return err
		}
		tasks, err = ctx.Service.TasksByProject(project.ID, date)
	case c.Project != "":
		var project models.Project
		if project, err = findProject(ctx, c.Project); err != nil {
			return err
		}
		tasks, err = ctx.Service.IncompleteTasksByProject(project.ID)
	case c.Date != "":
		var date string
		if date, err = resolveDate(c.Date); err != nil {
			return err
		}
		tasks, err = ctx.Service.TasksByDate(date)
	default:
		tasks, err = ctx.Service.Tasks()
	}
	if err != nil {
		return err
	}

	if !c.All {
		open := tasks[:0]
		for _, task := range tasks {
			if !task.Completed {
				open = append(open, task)
			}
		}
		tasks = open
	}

	if len(tasks) == 0 {
		fmt.Println("No tasks found")
		return nil
	}

	fmt.Println("Tasks:")
	for _, task := range tasks {
		status := " "
		if task.Completed {
			status = "✓"
		}
		fmt.Printf("  %s %s  (%s)\n", status, formatTask(task), task.AssignedDate)
	}

	return nil
}

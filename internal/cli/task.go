package cli

import "fmt"

type TaskDoneCmd struct {
	Task string `arg:"" help:"Task id (or unique id prefix)."`
}

// Run toggles completion, so marking a finished task "done" again reopens it.
func (c *TaskDoneCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	task, err := findTask(ctx, c.Task)
	if err != nil {
		return err
	}

	if err := ctx.Service.ToggleTaskComplete(task.ID); err != nil {
		return err
	}

	if task.Completed {
		fmt.Printf("Reopened task: %s\n", task.Title)
	} else {
		fmt.Printf("✓ Completed task: %s\n", task.Title)
	}
	return nil
}

type TaskDeleteCmd struct {
	Task string `arg:"" help:"Task id (or unique id prefix)."`
}

func (c *TaskDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	task, err := findTask(ctx, c.Task)
	if err != nil {
		return err
	}

	if err := ctx.Service.DeleteTask(task.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted task: %s\n", task.Title)
	return nil
}

type TaskMoveCmd struct {
	Task    string `arg:"" help:"Task id (or unique id prefix)."`
	Project string `arg:"" help:"Target project id or name."`
}

func (c *TaskMoveCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	task, err := findTask(ctx, c.Task)
	if err != nil {
		return err
	}

	project, err := findProject(ctx, c.Project)
	if err != nil {
		return err
	}

	if err := ctx.Service.MoveTask(task.ID, project.ID); err != nil {
		return err
	}

	fmt.Printf("Moved task %q to %s\n", task.Title, project.Name)
	return nil
}

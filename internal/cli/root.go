package cli

import (
	"fmt"
	"time"

	"github.com/mveach/rollo/internal/constants"
	"github.com/mveach/rollo/internal/models"
	"github.com/mveach/rollo/internal/todo"
)

type Context struct {
	Service *todo.Service
}

// resolveDate turns a user-supplied date argument into YYYY-MM-DD form.
// Accepts "today", "tomorrow", "yesterday", or an explicit date.
func resolveDate(arg string) (string, error) {
	switch arg {
	case "", "today":
		return time.Now().Format(constants.DateLayout), nil
	case "tomorrow":
		return time.Now().AddDate(0, 0, 1).Format(constants.DateLayout), nil
	case "yesterday":
		return time.Now().AddDate(0, 0, -1).Format(constants.DateLayout), nil
	}

	t, err := time.Parse(constants.DateLayout, arg)
	if err != nil {
		return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD or 'today': %w", arg, err)
	}
	return t.Format(constants.DateLayout), nil
}

// findProject resolves a project reference that may be an id or a name.
// Name matches must be unique; ids always win over names.
func findProject(ctx *Context, ref string) (models.Project, error) {
	if project, err := ctx.Service.ProjectByID(ref); err == nil {
		return project, nil
	}

	projects, err := ctx.Service.Projects()
	if err != nil {
		return models.Project{}, err
	}

	var matches []models.Project
	for _, p := range projects {
		if p.Name == ref {
			matches = append(matches, p)
		}
	}

	switch len(matches) {
	case 0:
		return models.Project{}, fmt.Errorf("no project matching %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Project{}, fmt.Errorf("%d projects named %q, use the project id", len(matches), ref)
	}
}

// formatTask renders a one-line task summary with its rollover badge.
func formatTask(task models.Task) string {
	line := fmt.Sprintf("[%s] %s", shortID(task.ID), task.Title)
	if task.RolloverCount > 0 {
		line += fmt.Sprintf("  ↻ %d", task.RolloverCount)
	}
	return line
}

// findTask resolves a task reference that may be a full id or a unique id
// prefix (the short form the list output shows).
func findTask(ctx *Context, ref string) (models.Task, error) {
	if task, err := ctx.Service.TaskByID(ref); err == nil {
		return task, nil
	}

	tasks, err := ctx.Service.Tasks()
	if err != nil {
		return models.Task{}, err
	}

	var matches []models.Task
	for _, t := range tasks {
		if len(ref) >= 4 && len(t.ID) >= len(ref) && t.ID[:len(ref)] == ref {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return models.Task{}, fmt.Errorf("no task matching %q", ref)
	case 1:
		return matches[0], nil
	default:
		return models.Task{}, fmt.Errorf("%d tasks match prefix %q, use more characters", len(matches), ref)
	}
}

// shortID trims a uuid down to its leading segment for display.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

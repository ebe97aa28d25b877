package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

type ProjectAddCmd struct {
	Name string `arg:"" help:"Project name."`
}

func (c *ProjectAddCmd) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("project name must not be empty")
	}
	return nil
}

func (c *ProjectAddCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	project, err := ctx.Service.AddProject(c.Name)
	if err != nil {
		return err
	}

	fmt.Printf("Added project: %s (ID: %s)\n", project.Name, project.ID)
	return nil
}

type ProjectArchiveCmd struct {
	Project string `arg:"" help:"Project id or name."`
}

func (c *ProjectArchiveCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	project, err := findProject(ctx, c.Project)
	if err != nil {
		return err
	}

	if err := ctx.Service.ArchiveProject(project.ID); err != nil {
		return err
	}

	fmt.Printf("Archived project: %s\n", project.Name)
	return nil
}

type ProjectUnarchiveCmd struct {
	Project string `arg:"" help:"Project id or name."`
}

func (c *ProjectUnarchiveCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	project, err := findProject(ctx, c.Project)
	if err != nil {
		return err
	}

	if err := ctx.Service.UnarchiveProject(project.ID); err != nil {
		return err
	}

	fmt.Printf("Restored project: %s\n", project.Name)
	return nil
}

type ProjectDeleteCmd struct {
	Project string `arg:"" help:"Project id or name."`
	Force   bool   `short:"f" help:"Skip the confirmation prompt."`
}

func (c *ProjectDeleteCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	project, err := findProject(ctx, c.Project)
	if err != nil {
		return err
	}

	tasks, err := ctx.Service.IncompleteTasksByProject(project.ID)
	if err != nil {
		return err
	}

	if !c.Force {
		fmt.Printf("⚠️  Deleting %q removes the project and ALL of its tasks (%d incomplete).\n", project.Name, len(tasks))
		fmt.Print("Continue? [y/N]: ")

		reader := bufio.NewReader(os.Stdin)
		response, err := reader.ReadString('\n')
		if err != nil {
			return err
		}
		response = strings.TrimSpace(strings.ToLower(response))
		if response != "y" && response != "yes" {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	if err := ctx.Service.DeleteProject(project.ID); err != nil {
		return err
	}

	fmt.Printf("Deleted project: %s\n", project.Name)
	return nil
}

type ProjectListCmd struct {
	Archived bool `help:"Show archived projects instead of active ones."`
}

func (c *ProjectListCmd) Run(ctx *Context) error {
	if err := ctx.Service.Load(); err != nil {
		return err
	}
	defer ctx.Service.Close()

	projects, err := ctx.Service.ActiveProjects()
	if c.Archived {
		projects, err = ctx.Service.ArchivedProjects()
	}
	if err != nil {
		return err
	}

	if len(projects) == 0 {
		fmt.Println("No projects found")
		return nil
	}

	fmt.Println("Projects:")
	for _, project := range projects {
		remaining, err := ctx.Service.IncompleteTasksByProject(project.ID)
		if err != nil {
			return err
		}
		fmt.Printf("  [%s] %s - %d open task(s)\n", shortID(project.ID), project.Name, len(remaining))
	}

	return nil
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mveach/rollo/internal/constants"
	"github.com/mveach/rollo/internal/models"
	"github.com/mveach/rollo/internal/todo"
	"github.com/mveach/rollo/internal/validation"
)

type SessionState int

const (
	StateToday SessionState = iota
	StateProjects
	StateArchived
	StateAddTask
	StateAddProject
	StateConfirmDeleteTask
	StateConfirmDeleteProject
)

// tabCount covers the browsable tabs; modal states sit past it.
const tabCount = 3

type TaskFormModel struct {
	Title       string
	Description string
	ProjectID   string
	Date        string
}

type ProjectFormModel struct {
	Name string
}

type taskItem struct {
	task        models.Task
	projectName string
}

func (i taskItem) Title() string {
	title := i.task.Title
	if i.task.Completed {
		title = "✓ " + title
	}
	if i.task.RolloverCount > 0 {
		title = fmt.Sprintf("%s ↻ %d", title, i.task.RolloverCount)
	}
	return title
}

func (i taskItem) Description() string {
	if i.task.Description == "" {
		return i.projectName
	}
	return fmt.Sprintf("%s · %s", i.projectName, i.task.Description)
}

func (i taskItem) FilterValue() string { return i.task.Title }

type projectItem struct {
	project models.Project
	open    int
}

func (i projectItem) Title() string { return i.project.Name }

func (i projectItem) Description() string {
	if i.project.Archived {
		return "archived"
	}
	return fmt.Sprintf("%d open task(s)", i.open)
}

func (i projectItem) FilterValue() string { return i.project.Name }

type Model struct {
	service             *todo.Service
	state               SessionState
	previousState       SessionState
	keys                KeyMap
	help                help.Model
	taskList            list.Model
	projectList         list.Model
	archivedList        list.Model
	form                *huh.Form
	taskForm            *TaskFormModel
	projectForm         *ProjectFormModel
	taskToDeleteID      string
	projectToDeleteID   string
	statusMsg           string
	lastRolloverTime    string
	validationWarning   string
	validationConflicts []validation.Conflict
	quitting            bool
	width               int
	height              int
}

func NewModel(service *todo.Service) Model {
	taskList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	taskList.Title = "Today"
	taskList.SetShowHelp(false)
	taskList.SetShowStatusBar(false)

	projectList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	projectList.Title = "Projects"
	projectList.SetShowHelp(false)
	projectList.SetShowStatusBar(false)

	archivedList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	archivedList.Title = "Archived"
	archivedList.SetShowHelp(false)
	archivedList.SetShowStatusBar(false)

	m := Model{
		service:      service,
		state:        StateToday,
		keys:         DefaultKeyMap(),
		help:         help.New(),
		taskList:     taskList,
		projectList:  projectList,
		archivedList: archivedList,
	}

	m.refresh()
	m.updateValidationStatus()

	return m
}

// refresh reloads every tab's items from the service.
func (m *Model) refresh() {
	today := m.service.Today()
	m.taskList.Title = fmt.Sprintf("Today · %s", today)

	tasks, err := m.service.TasksByDate(today)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	done, err := m.service.CompletedTasksByDate(today)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}

	names := map[string]string{}
	projects, err := m.service.Projects()
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	for _, p := range projects {
		names[p.ID] = p.Name
	}
	projectName := func(id string) string {
		if name, ok := names[id]; ok {
			return name
		}
		return "(unknown project)"
	}

	taskItems := make([]list.Item, 0, len(tasks)+len(done))
	for _, t := range tasks {
		taskItems = append(taskItems, taskItem{task: t, projectName: projectName(t.ProjectID)})
	}
	for _, t := range done {
		taskItems = append(taskItems, taskItem{task: t, projectName: projectName(t.ProjectID)})
	}
	m.taskList.SetItems(taskItems)

	open := map[string]int{}
	allTasks, err := m.service.Tasks()
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	for _, t := range allTasks {
		if !t.Completed {
			open[t.ProjectID]++
		}
	}

	var active, archived []list.Item
	for _, p := range projects {
		if p.Archived {
			archived = append(archived, projectItem{project: p})
		} else {
			active = append(active, projectItem{project: p, open: open[p.ID]})
		}
	}
	m.projectList.SetItems(active)
	m.archivedList.SetItems(archived)

	if state, err := m.service.LastRollover(); err == nil {
		m.lastRolloverTime = state.LastRolloverTime
	}
}

func (m *Model) updateValidationStatus() {
	projects, err := m.service.Projects()
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		m.validationConflicts = nil
		return
	}
	tasks, err := m.service.Tasks()
	if err != nil {
		m.validationWarning = "⚠ Validation unavailable"
		m.validationConflicts = nil
		return
	}

	result := validation.New().ValidateState(projects, tasks)
	m.validationConflicts = result.Conflicts

	if len(result.Conflicts) > 0 {
		m.validationWarning = fmt.Sprintf("⚠ %d validation warning(s)", len(result.Conflicts))
	} else {
		m.validationWarning = ""
	}
}

func (m *Model) newTaskForm() *huh.Form {
	m.taskForm = &TaskFormModel{Date: m.service.Today()}

	projects, err := m.service.ActiveProjects()
	if err != nil || len(projects) == 0 {
		projects = nil
	}
	options := make([]huh.Option[string], 0, len(projects))
	for _, p := range projects {
		options = append(options, huh.NewOption(p.Name, p.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&m.taskForm.Title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("title cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Description").
				Value(&m.taskForm.Description),
			huh.NewSelect[string]().
				Title("Project").
				Options(options...).
				Value(&m.taskForm.ProjectID),
			huh.NewInput().
				Title("Assigned date").
				Placeholder(constants.DateLayout).
				Value(&m.taskForm.Date).
				Validate(func(s string) error {
					if _, err := time.Parse(constants.DateLayout, s); err != nil {
						return fmt.Errorf("expected %s", constants.DateLayout)
					}
					return nil
				}),
		),
	)
}

func (m *Model) newProjectForm() *huh.Form {
	m.projectForm = &ProjectFormModel{}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Project name").
				Value(&m.projectForm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name cannot be empty")
					}
					return nil
				}),
		),
	)
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Tab, m.keys.Quit, m.keys.Help}
	switch m.state {
	case StateToday:
		keys = append(keys, m.keys.Enter, m.keys.Add, m.keys.Delete, m.keys.Rollover)
	case StateProjects:
		keys = append(keys, m.keys.Add, m.keys.Archive, m.keys.Delete)
	case StateArchived:
		keys = append(keys, m.keys.Archive)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Tab, m.keys.ShiftTab, m.keys.Quit, m.keys.Help}
	navigation := []key.Binding{m.keys.Up, m.keys.Down}

	var actions []key.Binding
	switch m.state {
	case StateToday:
		actions = []key.Binding{m.keys.Enter, m.keys.Add, m.keys.Delete, m.keys.Rollover}
	case StateProjects:
		actions = []key.Binding{m.keys.Add, m.keys.Archive, m.keys.Delete}
	case StateArchived:
		actions = []key.Binding{m.keys.Archive}
	}

	return [][]key.Binding{global, navigation, actions}
}

func (m Model) Init() tea.Cmd {
	return tickCmd()
}

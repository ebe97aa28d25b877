package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/mveach/rollo/internal/constants"
)

type tickMsg time.Time

func tickCmd() tea.Cmd {
	return tea.Tick(constants.RolloverCheckInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		h, v := docStyle.GetFrameSize()
		listHeight := msg.Height - v - 4
		m.taskList.SetSize(msg.Width-h, listHeight)
		m.projectList.SetSize(msg.Width-h, listHeight)
		m.archivedList.SetSize(msg.Width-h, listHeight)
		return m, nil

	case tickMsg:
		advanced, ran, err := m.service.CheckRollover()
		if err != nil {
			m.statusMsg = fmt.Sprintf("Rollover check failed: %v", err)
		} else if ran && advanced > 0 {
			m.statusMsg = fmt.Sprintf("Rolled %d task(s) forward", advanced)
		}
		m.refresh()
		return m, tickCmd()

	case tea.KeyMsg:
		switch m.state {
		case StateAddTask, StateAddProject:
			return m.updateForm(msg)
		case StateConfirmDeleteTask:
			return m.updateConfirmDeleteTask(msg)
		case StateConfirmDeleteProject:
			return m.updateConfirmDeleteProject(msg)
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = (m.state + 1) % tabCount
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = (m.state - 1 + tabCount) % tabCount
			return m, nil
		}

		switch m.state {
		case StateToday:
			return m.updateToday(msg)
		case StateProjects:
			return m.updateProjects(msg)
		case StateArchived:
			return m.updateArchived(msg)
		}
	}

	// Forms consume their own non-key messages (cursor blinks and the like)
	if m.state == StateAddTask || m.state == StateAddProject {
		return m.updateForm(msg)
	}

	return m.updateActiveList(msg)
}

func (m Model) updateToday(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		if item, ok := m.taskList.SelectedItem().(taskItem); ok {
			if err := m.service.ToggleTaskComplete(item.task.ID); err != nil {
				m.statusMsg = err.Error()
			}
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.Add):
		m.previousState = m.state
		m.state = StateAddTask
		m.form = m.newTaskForm()
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.taskList.SelectedItem().(taskItem); ok {
			m.taskToDeleteID = item.task.ID
			m.previousState = m.state
			m.state = StateConfirmDeleteTask
		}
		return m, nil
	case key.Matches(msg, m.keys.Rollover):
		advanced, err := m.service.Rollover()
		if err != nil {
			m.statusMsg = fmt.Sprintf("Rollover failed: %v", err)
		} else {
			m.statusMsg = fmt.Sprintf("Rolled %d task(s) forward", advanced)
		}
		m.refresh()
		return m, nil
	}
	return m.updateActiveList(msg)
}

func (m Model) updateProjects(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Add):
		m.previousState = m.state
		m.state = StateAddProject
		m.form = m.newProjectForm()
		return m, m.form.Init()
	case key.Matches(msg, m.keys.Archive):
		if item, ok := m.projectList.SelectedItem().(projectItem); ok {
			if err := m.service.ArchiveProject(item.project.ID); err != nil {
				m.statusMsg = err.Error()
			}
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.Delete):
		if item, ok := m.projectList.SelectedItem().(projectItem); ok {
			m.projectToDeleteID = item.project.ID
			m.previousState = m.state
			m.state = StateConfirmDeleteProject
		}
		return m, nil
	}
	return m.updateActiveList(msg)
}

func (m Model) updateArchived(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Archive) {
		if item, ok := m.archivedList.SelectedItem().(projectItem); ok {
			if err := m.service.UnarchiveProject(item.project.ID); err != nil {
				m.statusMsg = err.Error()
			}
			m.refresh()
		}
		return m, nil
	}
	return m.updateActiveList(msg)
}

func (m Model) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.state == StateAddTask {
			_, err := m.service.AddTask(m.taskForm.ProjectID, m.taskForm.Title, m.taskForm.Description, m.taskForm.Date)
			if err != nil {
				m.statusMsg = err.Error()
			} else {
				m.statusMsg = fmt.Sprintf("Added %q", m.taskForm.Title)
			}
		} else {
			_, err := m.service.AddProject(m.projectForm.Name)
			if err != nil {
				m.statusMsg = err.Error()
			} else {
				m.statusMsg = fmt.Sprintf("Created project %q", m.projectForm.Name)
			}
		}
		m.state = m.previousState
		m.form = nil
		m.refresh()
		m.updateValidationStatus()
		return m, nil
	case huh.StateAborted:
		m.state = m.previousState
		m.form = nil
		return m, nil
	}

	return m, cmd
}

func (m Model) updateConfirmDeleteTask(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.service.DeleteTask(m.taskToDeleteID); err != nil {
			m.statusMsg = err.Error()
		} else {
			m.statusMsg = "Task deleted"
		}
		m.taskToDeleteID = ""
		m.state = m.previousState
		m.refresh()
	case "n", "N", "esc":
		m.taskToDeleteID = ""
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) updateConfirmDeleteProject(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if err := m.service.DeleteProject(m.projectToDeleteID); err != nil {
			m.statusMsg = err.Error()
		} else {
			m.statusMsg = "Project deleted"
		}
		m.projectToDeleteID = ""
		m.state = m.previousState
		m.refresh()
		m.updateValidationStatus()
	case "n", "N", "esc":
		m.projectToDeleteID = ""
		m.state = m.previousState
	}
	return m, nil
}

func (m Model) updateActiveList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.state {
	case StateToday:
		m.taskList, cmd = m.taskList.Update(msg)
	case StateProjects:
		m.projectList, cmd = m.projectList.Update(msg)
	case StateArchived:
		m.archivedList, cmd = m.archivedList.Update(msg)
	}
	return m, cmd
}

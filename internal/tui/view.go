package tui

import (
	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case StateToday:
		content = docStyle.Render(m.taskList.View())
	case StateProjects:
		content = docStyle.Render(m.projectList.View())
	case StateArchived:
		content = docStyle.Render(m.archivedList.View())
	case StateAddTask, StateAddProject:
		content = docStyle.Render(m.form.View())
	case StateConfirmDeleteTask:
		content = m.viewConfirm("Are you sure you want to delete this task?")
	case StateConfirmDeleteProject:
		content = m.viewConfirm("Delete this project and all of its tasks?")
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	for i, title := range []string{"Today", "Projects", "Archived"} {
		if m.state == SessionState(i) || (m.state >= tabCount && m.previousState == SessionState(i)) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewStatus() string {
	status := "Last rollover: never"
	if m.lastRolloverTime != "" {
		status = "Last rollover: " + m.lastRolloverTime
	}
	if m.validationWarning != "" {
		status += "  " + dangerStyle.Render(m.validationWarning)
	}
	if m.statusMsg != "" {
		status += "  " + m.statusMsg
	}
	return statusStyle.Render(status)
}

func (m Model) viewConfirm(prompt string) string {
	return lipgloss.Place(m.width, m.height-4,
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(prompt),
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}

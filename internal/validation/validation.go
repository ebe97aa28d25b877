// Package validation checks the persisted state for integrity problems the
// normal mutation path should never produce: dangling project references,
// completion bookkeeping mismatches, malformed dates. It reports, it never
// repairs.
package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/mveach/rollo/internal/constants"
	"github.com/mveach/rollo/internal/models"
)

type ConflictType string

const (
	ConflictDuplicateID        ConflictType = "duplicate_id"
	ConflictEmptyName          ConflictType = "empty_name"
	ConflictDanglingProjectRef ConflictType = "dangling_project_ref"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictCompletionMismatch ConflictType = "completion_mismatch"
	ConflictNegativeRollover   ConflictType = "negative_rollover"
)

type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // ids of the entities involved
}

type ValidationResult struct {
	Conflicts []Conflict
}

func (r ValidationResult) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

func (r ValidationResult) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d conflict(s):\n", len(r.Conflicts))
	for _, c := range r.Conflicts {
		fmt.Fprintf(&b, "  [%s] %s\n", c.Type, c.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

// ValidateProjects checks projects for duplicate ids and empty names.
func (v *Validator) ValidateProjects(projects []models.Project) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[string]bool)
	for _, p := range projects {
		if seen[p.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("duplicate project id %q", p.ID),
				Items:       []string{p.ID},
			})
		}
		seen[p.ID] = true

		if strings.TrimSpace(p.Name) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyName,
				Description: fmt.Sprintf("project %q has an empty name", p.ID),
				Items:       []string{p.ID},
			})
		}
	}

	return result
}

// ValidateTasks checks tasks against the invariants of the data model:
// every project reference resolves, assigned dates parse, CompletedAt is
// present exactly when Completed is true, rollover counts never go
// negative.
func (v *Validator) ValidateTasks(projects []models.Project, tasks []models.Task) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	projectIDs := make(map[string]bool, len(projects))
	for _, p := range projects {
		projectIDs[p.ID] = true
	}

	seen := make(map[string]bool)
	for _, t := range tasks {
		if seen[t.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateID,
				Description: fmt.Sprintf("duplicate task id %q", t.ID),
				Items:       []string{t.ID},
			})
		}
		seen[t.ID] = true

		if strings.TrimSpace(t.Title) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyName,
				Description: fmt.Sprintf("task %q has an empty title", t.ID),
				Items:       []string{t.ID},
			})
		}

		if !projectIDs[t.ProjectID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDanglingProjectRef,
				Description: fmt.Sprintf("task %q references missing project %q", t.ID, t.ProjectID),
				Items:       []string{t.ID, t.ProjectID},
			})
		}

		if !isValidDate(t.AssignedDate) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("task %q has invalid assigned date %q", t.ID, t.AssignedDate),
				Items:       []string{t.ID},
			})
		}
		if t.LastRolledOverDate != "" && !isValidDate(t.LastRolledOverDate) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidDate,
				Description: fmt.Sprintf("task %q has invalid last rolled over date %q", t.ID, t.LastRolledOverDate),
				Items:       []string{t.ID},
			})
		}

		if t.Completed != (t.CompletedAt != nil) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictCompletionMismatch,
				Description: fmt.Sprintf("task %q: completed=%t but completed_at set=%t", t.ID, t.Completed, t.CompletedAt != nil),
				Items:       []string{t.ID},
			})
		}

		if t.RolloverCount < 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictNegativeRollover,
				Description: fmt.Sprintf("task %q has negative rollover count %d", t.ID, t.RolloverCount),
				Items:       []string{t.ID},
			})
		}
	}

	return result
}

// ValidateState runs both entity checks and combines the results.
func (v *Validator) ValidateState(projects []models.Project, tasks []models.Task) ValidationResult {
	projectResult := v.ValidateProjects(projects)
	taskResult := v.ValidateTasks(projects, tasks)
	return ValidationResult{
		Conflicts: append(projectResult.Conflicts, taskResult.Conflicts...),
	}
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse(constants.DateLayout, dateStr)
	return err == nil
}

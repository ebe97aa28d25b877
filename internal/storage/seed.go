package storage

import (
	"time"

	"github.com/google/uuid"

	"github.com/mveach/rollo/internal/constants"
	"github.com/mveach/rollo/internal/models"
)

// defaultProject is the single project seeded into a fresh or recovered
// store so the app is usable without an explicit setup step.
func defaultProject(now time.Time) models.Project {
	return models.Project{
		ID:        uuid.New().String(),
		Name:      constants.DefaultProjectName,
		Archived:  false,
		CreatedAt: now,
	}
}

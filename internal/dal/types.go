package dal

import (
	"errors"

	"github.com/Billy-Davies-2/bracket-champs/internal/models"
)

// ErrNotFound is returned when an indexed lookup is out of range
var ErrNotFound = errors.New("not found")

// CatalogDAL defines the interface for the static catalog store
type CatalogDAL interface {
	GetCatalog() (*models.Catalog, error)
	ListMatchups() ([]models.Matchup, error)
	GetMatchup(idx int) (*models.Matchup, error)
	GetScheduleDay(idx int) (*models.BracketGameDay, error)
	Reset() error
	Close() error
}

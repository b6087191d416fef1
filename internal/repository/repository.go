package repository

import (
	"database/sql"

	"soil_monitor/internal/models"
)

// Authorization persists observer accounts for the API's token auth.
// Readings and event history are deliberately not persisted: they are
// in-memory state owned by the stores and reset on restart.
type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type Repository struct {
	Auth Authorization
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth: NewUserRepository(db),
	}
}

package db

import (
	"fmt"

	"github.com/AI2HU/geolens/internal/db/mongodb"
	"github.com/AI2HU/geolens/internal/db/sqlite"
	"github.com/AI2HU/geolens/internal/models"
)

// New creates an unconnected store for the configured provider
func New(config *models.Config) (ResultStore, error) {
	if config == nil {
		return nil, fmt.Errorf("database config is required")
	}

	switch config.Provider {
	case "sqlite":
		return sqlite.New(config)
	case "mongodb":
		return mongodb.New(config)
	default:
		return nil, fmt.Errorf("unsupported database provider: %s", config.Provider)
	}
}

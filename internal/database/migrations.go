package database

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"medialib/internal/models"
)

// MigrationManager manages database migrations
type MigrationManager struct {
	db     *gorm.DB
	logger *zerolog.Logger
}

// NewMigrationManager creates a new migration manager
func NewMigrationManager(db *gorm.DB, logger *zerolog.Logger) *MigrationManager {
	return &MigrationManager{
		db:     db,
		logger: logger,
	}
}

// Migrate runs database migrations
func (m *MigrationManager) Migrate() error {
	if err := m.migrateTables(); err != nil {
		return fmt.Errorf("failed to migrate tables: %w", err)
	}
	if err := m.createIndexes(); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	if m.logger != nil {
		m.logger.Info().Msg("Database migrations completed successfully")
	}
	return nil
}

// migrateTables handles migration of all tables via GORM
func (m *MigrationManager) migrateTables() error {
	if err := m.db.AutoMigrate(
		&models.Media{},
		&models.MediaFile{},
		&models.MediaTrack{},
		&models.Movie{},
		&models.ShowEpisode{},
		&models.AlbumTrack{},
		&models.Album{},
		&models.Artist{},
		&models.Show{},
		&models.Genre{},
		&models.Playlist{},
		&models.PlaylistItem{},
		&models.Label{},
		&models.MediaLabel{},
		&models.Entrypoint{},
		&models.PlaybackPreference{},
	); err != nil {
		return fmt.Errorf("auto-migration failed: %w", err)
	}
	return nil
}

// createIndexes creates composite unique constraints that the model tags do
// not express.
func (m *MigrationManager) createIndexes() error {
	statements := []string{
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_playlist_items_unique_pos ON playlist_items (playlist_id, position)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_media_labels_unique ON media_labels (media_id, label_id)`,
	}
	for _, stmt := range statements {
		if err := m.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("index creation failed: %w", err)
		}
	}
	return nil
}

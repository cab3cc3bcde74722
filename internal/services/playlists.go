package services

import (
	"gorm.io/gorm"

	"medialib/internal/models"
)

// Playlist management. Positions within a playlist are dense, starting at
// zero; every removal compacts the sequence in the same transaction.

// GetPlaylist returns a playlist by id.
func (r *Repository) GetPlaylist(id int64) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := r.db.First(&playlist, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &playlist, nil
}

// CreatePlaylist creates an empty named playlist.
func (r *Repository) CreatePlaylist(name string) (*models.Playlist, error) {
	if name == "" {
		return nil, models.ErrInvalidArgument
	}
	playlist := models.Playlist{
		Name:     name,
		NameSort: normalizeSort(name),
	}
	if err := r.db.Create(&playlist).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &playlist, nil
}

// DeletePlaylist removes a playlist and its entries. The media the entries
// pointed at are untouched.
func (r *Repository) DeletePlaylist(id int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRowTx(tx, &models.Playlist{}, id); err != nil {
			return err
		}
		if err := tx.Where("playlist_id = ?", id).Delete(&models.PlaylistItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Playlist{}, id).Error
	})
	return wrapErr(err)
}

// AppendToPlaylist adds a media entry at the end of a playlist. The same
// media may appear at several positions.
func (r *Repository) AppendToPlaylist(playlistID, mediaID int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRowTx(tx, &models.Playlist{}, playlistID); err != nil {
			return err
		}
		if err := requireRowTx(tx, &models.Media{}, mediaID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.PlaylistItem{}).
			Where("playlist_id = ?", playlistID).Count(&count).Error; err != nil {
			return err
		}
		item := models.PlaylistItem{
			PlaylistID: playlistID,
			MediaID:    mediaID,
			Position:   int32(count),
		}
		return tx.Create(&item).Error
	})
	return wrapErr(err)
}

// InsertIntoPlaylist adds a media entry at a given position, shifting later
// entries up by one. A position past the end behaves like an append.
func (r *Repository) InsertIntoPlaylist(playlistID, mediaID int64, position int32) error {
	if position < 0 {
		return models.ErrInvalidArgument
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRowTx(tx, &models.Playlist{}, playlistID); err != nil {
			return err
		}
		if err := requireRowTx(tx, &models.Media{}, mediaID); err != nil {
			return err
		}
		var count int64
		if err := tx.Model(&models.PlaylistItem{}).
			Where("playlist_id = ?", playlistID).Count(&count).Error; err != nil {
			return err
		}
		if int64(position) > count {
			position = int32(count)
		}
		// Shift out of the way before inserting so the unique
		// (playlist, position) constraint never trips mid-update.
		err := tx.Model(&models.PlaylistItem{}).
			Where("playlist_id = ? AND position >= ?", playlistID, position).
			Update("position", gorm.Expr("position + 1000000")).Error
		if err != nil {
			return err
		}
		err = tx.Model(&models.PlaylistItem{}).
			Where("playlist_id = ? AND position >= ?", playlistID, 1000000).
			Update("position", gorm.Expr("position - 999999")).Error
		if err != nil {
			return err
		}
		item := models.PlaylistItem{
			PlaylistID: playlistID,
			MediaID:    mediaID,
			Position:   position,
		}
		return tx.Create(&item).Error
	})
	return wrapErr(err)
}

// RemoveFromPlaylist removes the entry at a position and compacts the
// sequence.
func (r *Repository) RemoveFromPlaylist(playlistID int64, position int32) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRowTx(tx, &models.Playlist{}, playlistID); err != nil {
			return err
		}
		result := tx.Where("playlist_id = ? AND position = ?", playlistID, position).
			Delete(&models.PlaylistItem{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return models.ErrNotFound
		}
		return compactPlaylistTx(tx, playlistID)
	})
	return wrapErr(err)
}

// compactPlaylistTx renumbers a playlist's entries to a dense zero-based
// sequence, preserving the current order.
func compactPlaylistTx(tx *gorm.DB, playlistID int64) error {
	var items []models.PlaylistItem
	err := tx.Where("playlist_id = ?", playlistID).
		Order("position ASC").
		Find(&items).Error
	if err != nil {
		return err
	}
	for i, item := range items {
		if item.Position == int32(i) {
			continue
		}
		err := tx.Model(&models.PlaylistItem{}).
			Where("id = ?", item.ID).
			Update("position", int32(i)+1000000).Error
		if err != nil {
			return err
		}
	}
	return tx.Model(&models.PlaylistItem{}).
		Where("playlist_id = ? AND position >= ?", playlistID, 1000000).
		Update("position", gorm.Expr("position - 1000000")).Error
}

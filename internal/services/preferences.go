package services

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"medialib/internal/models"
)

// Playback preferences and playback history. Preferences are one row per
// (media, key) pair; setting an existing key overwrites its value.

// GetPlaybackPref returns the stored value for a media preference key. The
// second return is false when the key has never been set.
func (r *Repository) GetPlaybackPref(mediaID int64, key models.PrefKey) (string, bool, error) {
	if !key.Valid() {
		return "", false, models.ErrInvalidArgument
	}
	if err := r.requireRow(&models.Media{}, mediaID); err != nil {
		return "", false, err
	}
	var pref models.PlaybackPreference
	err := r.db.Where("media_id = ? AND key = ?", mediaID, key).First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, wrapErr(err)
	}
	return pref.Value, true, nil
}

// SetPlaybackPref stores a preference value, replacing any previous one.
func (r *Repository) SetPlaybackPref(mediaID int64, key models.PrefKey, value string) error {
	if !key.Valid() {
		return models.ErrInvalidArgument
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRowTx(tx, &models.Media{}, mediaID); err != nil {
			return err
		}
		var pref models.PlaybackPreference
		err := tx.Where("media_id = ? AND key = ?", mediaID, key).First(&pref).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			pref = models.PlaybackPreference{
				MediaID: mediaID,
				Key:     key,
				Value:   value,
			}
			return tx.Create(&pref).Error
		}
		if err != nil {
			return err
		}
		pref.Value = value
		return tx.Save(&pref).Error
	})
	return wrapErr(err)
}

// UnsetPlaybackPref removes a preference row. Removing a key that was never
// set is a no-op.
func (r *Repository) UnsetPlaybackPref(mediaID int64, key models.PrefKey) error {
	if !key.Valid() {
		return models.ErrInvalidArgument
	}
	if err := r.requireRow(&models.Media{}, mediaID); err != nil {
		return err
	}
	err := r.db.Where("media_id = ? AND key = ?", mediaID, key).
		Delete(&models.PlaybackPreference{}).Error
	return wrapErr(err)
}

// IncreasePlayCount bumps a media entry's play count and stamps it as the
// most recently played.
func (r *Repository) IncreasePlayCount(mediaID int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRowTx(tx, &models.Media{}, mediaID); err != nil {
			return err
		}
		return tx.Model(&models.Media{}).Where("id = ?", mediaID).
			Updates(map[string]interface{}{
				"play_count":     gorm.Expr("play_count + 1"),
				"last_played_at": time.Now().UTC(),
			}).Error
	})
	return wrapErr(err)
}

// ClearHistory resets play counts and last-played stamps across the whole
// catalog.
func (r *Repository) ClearHistory() error {
	err := r.db.Model(&models.Media{}).
		Where("last_played_at IS NOT NULL OR play_count > 0").
		Updates(map[string]interface{}{
			"play_count":     0,
			"last_played_at": nil,
		}).Error
	return wrapErr(err)
}

// SetMediaFavorite flags or unflags a media entry as a favorite.
func (r *Repository) SetMediaFavorite(mediaID int64, favorite bool) error {
	if err := r.requireRow(&models.Media{}, mediaID); err != nil {
		return err
	}
	err := r.db.Model(&models.Media{}).Where("id = ?", mediaID).
		Update("is_favorite", favorite).Error
	return wrapErr(err)
}

// SetMediaThumbnail records the artwork location for a media entry.
func (r *Repository) SetMediaThumbnail(mediaID int64, mrl string) error {
	if err := r.requireRow(&models.Media{}, mediaID); err != nil {
		return err
	}
	err := r.db.Model(&models.Media{}).Where("id = ?", mediaID).
		Update("artwork_mrl", mrl).Error
	return wrapErr(err)
}

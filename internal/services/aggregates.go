package services

import (
	"gorm.io/gorm"

	"medialib/internal/models"
)

// Aggregate maintenance. Album, artist, genre and show rows carry cached
// member counts and durations; every write that changes membership runs the
// relevant recompute in the same transaction, and parents left with zero
// members are deleted.

// recomputeAudioAggregates refreshes the album, artist and genre referenced
// by an album track. Nil ids are skipped.
func recomputeAudioAggregates(tx *gorm.DB, albumID, artistID, genreID *int64) error {
	if albumID != nil {
		if err := recomputeAlbumAggregates(tx, *albumID); err != nil {
			return err
		}
	}
	if artistID != nil {
		if err := recomputeArtistAggregates(tx, *artistID); err != nil {
			return err
		}
	}
	if genreID != nil {
		if err := recomputeGenreAggregates(tx, *genreID); err != nil {
			return err
		}
	}
	return nil
}

// recomputeAlbumAggregates refreshes the cached track count and total
// duration of an album. Unknown durations count as zero. An album left with
// no tracks is deleted.
func recomputeAlbumAggregates(tx *gorm.DB, albumID int64) error {
	var stats struct {
		TrackCount int32
		Duration   int64
	}
	err := tx.Model(&models.AlbumTrack{}).
		Select("COUNT(*) AS track_count, "+
			"COALESCE(SUM(CASE WHEN media.duration > 0 THEN media.duration ELSE 0 END), 0) AS duration").
		Joins("JOIN media ON media.id = album_tracks.media_id").
		Where("album_tracks.album_id = ?", albumID).
		Scan(&stats).Error
	if err != nil {
		return err
	}
	if stats.TrackCount == 0 {
		return tx.Delete(&models.Album{}, albumID).Error
	}
	return tx.Model(&models.Album{}).Where("id = ?", albumID).
		Updates(map[string]interface{}{
			"track_count": stats.TrackCount,
			"duration":    stats.Duration,
		}).Error
}

// recomputeArtistAggregates refreshes an artist's album and track counts.
// An artist with neither albums nor tracks is deleted.
func recomputeArtistAggregates(tx *gorm.DB, artistID int64) error {
	var trackCount int64
	err := tx.Model(&models.AlbumTrack{}).
		Where("artist_id = ?", artistID).
		Count(&trackCount).Error
	if err != nil {
		return err
	}
	var albumCount int64
	err = tx.Model(&models.Album{}).
		Where("artist_id = ?", artistID).
		Count(&albumCount).Error
	if err != nil {
		return err
	}
	if trackCount == 0 && albumCount == 0 {
		return tx.Delete(&models.Artist{}, artistID).Error
	}
	return tx.Model(&models.Artist{}).Where("id = ?", artistID).
		Updates(map[string]interface{}{
			"album_count": albumCount,
			"track_count": trackCount,
		}).Error
}

// recomputeGenreAggregates refreshes a genre's track count, deleting the
// genre when it reaches zero.
func recomputeGenreAggregates(tx *gorm.DB, genreID int64) error {
	var trackCount int64
	err := tx.Model(&models.AlbumTrack{}).
		Where("genre_id = ?", genreID).
		Count(&trackCount).Error
	if err != nil {
		return err
	}
	if trackCount == 0 {
		return tx.Delete(&models.Genre{}, genreID).Error
	}
	return tx.Model(&models.Genre{}).Where("id = ?", genreID).
		Update("track_count", trackCount).Error
}

// recomputeShowAggregates refreshes a show's episode and season counts,
// deleting the show when no episodes remain.
func recomputeShowAggregates(tx *gorm.DB, showID int64) error {
	var stats struct {
		EpisodeCount int32
		SeasonCount  int32
	}
	err := tx.Model(&models.ShowEpisode{}).
		Select("COUNT(*) AS episode_count, COUNT(DISTINCT season_number) AS season_count").
		Where("show_id = ?", showID).
		Scan(&stats).Error
	if err != nil {
		return err
	}
	if stats.EpisodeCount == 0 {
		return tx.Delete(&models.Show{}, showID).Error
	}
	return tx.Model(&models.Show{}).Where("id = ?", showID).
		Updates(map[string]interface{}{
			"episode_count": stats.EpisodeCount,
			"season_count":  stats.SeasonCount,
		}).Error
}

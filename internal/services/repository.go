package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"medialib/internal/models"
)

// Repository handles database operations for catalog entities. All writes
// that touch more than one row run inside a single transaction so readers
// never observe a partially applied cascade.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository instance
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// DB exposes the underlying handle for transaction composition.
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// wrapErr maps driver errors onto the catalog taxonomy.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	if errors.Is(err, models.ErrNotFound) ||
		errors.Is(err, models.ErrInvalidArgument) ||
		errors.Is(err, models.ErrDanglingReference) {
		return err
	}
	return fmt.Errorf("%w: %v", models.ErrStorage, err)
}

// normalizeSort lowercases a display name for the *_sort columns that back
// case-insensitive matching and alphabetical ordering.
func normalizeSort(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Media operations

// GetMedia returns a media entry with its files, tracks and extra payload.
func (r *Repository) GetMedia(id int64) (*models.Media, error) {
	var media models.Media
	err := r.db.
		Preload("Files").
		Preload("Tracks").
		Preload("Movie").
		Preload("ShowEpisode").
		Preload("AlbumTrack").
		First(&media, id).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return &media, nil
}

// CreateMedia inserts a media entry together with its files, tracks and
// extra payload after validating type/subtype consistency and referential
// integrity.
func (r *Repository) CreateMedia(media *models.Media) error {
	if !media.Subtype.ConsistentWith(media.Type) {
		return fmt.Errorf("%w: subtype %s is not valid for type %s",
			models.ErrInvalidArgument, media.Subtype, media.Type)
	}
	media.TitleSort = normalizeSort(media.Title)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkMediaReferences(tx, media); err != nil {
			return err
		}
		return tx.Create(media).Error
	})
	return wrapErr(err)
}

// SaveMedia persists changes to an existing media entry under the same
// validation as CreateMedia.
func (r *Repository) SaveMedia(media *models.Media) error {
	if media.ID == 0 {
		return models.ErrInvalidArgument
	}
	if !media.Subtype.ConsistentWith(media.Type) {
		return fmt.Errorf("%w: subtype %s is not valid for type %s",
			models.ErrInvalidArgument, media.Subtype, media.Type)
	}
	media.TitleSort = normalizeSort(media.Title)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := checkMediaReferences(tx, media); err != nil {
			return err
		}
		return tx.Save(media).Error
	})
	return wrapErr(err)
}

// checkMediaReferences enforces that every id referenced by the extra
// payload exists. A violation is a DanglingReference, detected before any
// row is written.
func checkMediaReferences(tx *gorm.DB, media *models.Media) error {
	if at := media.AlbumTrack; at != nil {
		if at.ArtistID != nil {
			if err := ensureExists(tx, &models.Artist{}, *at.ArtistID, "artist"); err != nil {
				return err
			}
		}
		if at.AlbumID != nil {
			if err := ensureExists(tx, &models.Album{}, *at.AlbumID, "album"); err != nil {
				return err
			}
		}
		if at.GenreID != nil {
			if err := ensureExists(tx, &models.Genre{}, *at.GenreID, "genre"); err != nil {
				return err
			}
		}
	}
	if se := media.ShowEpisode; se != nil && se.ShowID != 0 {
		if err := ensureExists(tx, &models.Show{}, se.ShowID, "show"); err != nil {
			return err
		}
	}
	return nil
}

// requireRowTx fails with ErrNotFound when an operand row is missing, as
// opposed to ensureExists which flags a dangling reference inside a payload.
func requireRowTx(tx *gorm.DB, model interface{}, id int64) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return models.ErrNotFound
	}
	return nil
}

func ensureExists(tx *gorm.DB, model interface{}, id int64, kind string) error {
	var count int64
	if err := tx.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s %d", models.ErrDanglingReference, kind, id)
	}
	return nil
}

// DeleteMedia removes a media entry and everything that hangs off it: files,
// tracks, label associations, playlist entries and playback preferences.
// Aggregates on the referenced album, artist, genre and show are recomputed
// and zero-member parents are deleted, all in one transaction.
func (r *Repository) DeleteMedia(id int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		return deleteMediaTx(tx, id)
	})
	return wrapErr(err)
}

func deleteMediaTx(tx *gorm.DB, id int64) error {
	var media models.Media
	if err := tx.Preload("AlbumTrack").Preload("ShowEpisode").First(&media, id).Error; err != nil {
		return err
	}

	if err := tx.Where("media_id = ?", id).Delete(&models.MediaFile{}).Error; err != nil {
		return err
	}
	if err := tx.Where("media_id = ?", id).Delete(&models.MediaTrack{}).Error; err != nil {
		return err
	}
	if err := tx.Where("media_id = ?", id).Delete(&models.MediaLabel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("media_id = ?", id).Delete(&models.PlaybackPreference{}).Error; err != nil {
		return err
	}
	if err := removePlaylistEntriesTx(tx, id); err != nil {
		return err
	}
	if err := tx.Where("media_id = ?", id).Delete(&models.Movie{}).Error; err != nil {
		return err
	}
	if err := tx.Where("media_id = ?", id).Delete(&models.ShowEpisode{}).Error; err != nil {
		return err
	}
	if err := tx.Where("media_id = ?", id).Delete(&models.AlbumTrack{}).Error; err != nil {
		return err
	}
	if err := tx.Delete(&models.Media{}, id).Error; err != nil {
		return err
	}

	if at := media.AlbumTrack; at != nil {
		if err := recomputeAudioAggregates(tx, at.AlbumID, at.ArtistID, at.GenreID); err != nil {
			return err
		}
	}
	if se := media.ShowEpisode; se != nil {
		if err := recomputeShowAggregates(tx, se.ShowID); err != nil {
			return err
		}
	}
	return nil
}

// removePlaylistEntriesTx drops every playlist entry for a media id and
// compacts the position sequence of each affected playlist.
func removePlaylistEntriesTx(tx *gorm.DB, mediaID int64) error {
	var entries []models.PlaylistItem
	if err := tx.Where("media_id = ?", mediaID).Find(&entries).Error; err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	if err := tx.Where("media_id = ?", mediaID).Delete(&models.PlaylistItem{}).Error; err != nil {
		return err
	}
	seen := make(map[int64]bool)
	for _, entry := range entries {
		if seen[entry.PlaylistID] {
			continue
		}
		seen[entry.PlaylistID] = true
		if err := compactPlaylistTx(tx, entry.PlaylistID); err != nil {
			return err
		}
	}
	return nil
}

// DeleteMediaUnder removes every media entry that has a file whose MRL is a
// descendant of root, cascading each one. Used by folder removal and bans.
func (r *Repository) DeleteMediaUnder(root string) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		ids, err := mediaIDsUnderTx(tx, root)
		if err != nil {
			return err
		}
		for _, id := range ids {
			if err := deleteMediaTx(tx, id); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapErr(err)
}

func mediaIDsUnderTx(tx *gorm.DB, root string) ([]int64, error) {
	var ids []int64
	pattern := strings.TrimSuffix(root, "/") + "/%"
	err := tx.Model(&models.MediaFile{}).
		Distinct("media_id").
		Where("mrl LIKE ?", pattern).
		Pluck("media_id", &ids).Error
	return ids, err
}

// Album operations

func (r *Repository) GetAlbum(id int64) (*models.Album, error) {
	var album models.Album
	if err := r.db.First(&album, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &album, nil
}

func (r *Repository) CreateAlbum(album *models.Album) error {
	album.TitleSort = normalizeSort(album.Title)
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if album.ArtistID != nil {
			if err := ensureExists(tx, &models.Artist{}, *album.ArtistID, "artist"); err != nil {
				return err
			}
		}
		return tx.Create(album).Error
	})
	return wrapErr(err)
}

// Artist operations

func (r *Repository) GetArtist(id int64) (*models.Artist, error) {
	var artist models.Artist
	if err := r.db.First(&artist, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &artist, nil
}

func (r *Repository) CreateArtist(artist *models.Artist) error {
	artist.NameSort = normalizeSort(artist.Name)
	return wrapErr(r.db.Create(artist).Error)
}

// Genre operations

func (r *Repository) GetGenre(id int64) (*models.Genre, error) {
	var genre models.Genre
	if err := r.db.First(&genre, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &genre, nil
}

func (r *Repository) CreateGenre(genre *models.Genre) error {
	genre.NameSort = normalizeSort(genre.Name)
	return wrapErr(r.db.Create(genre).Error)
}

// Show operations

func (r *Repository) GetShow(id int64) (*models.Show, error) {
	var show models.Show
	if err := r.db.First(&show, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &show, nil
}

func (r *Repository) CreateShow(show *models.Show) error {
	show.NameSort = normalizeSort(show.Name)
	return wrapErr(r.db.Create(show).Error)
}

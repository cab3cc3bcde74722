package services

import (
	"errors"
	"net/url"
	"path"

	"gorm.io/gorm"

	"medialib/internal/models"
)

// Ingest merges one probed file into the catalog. Each file is a single
// transaction: the media row, its file, its tracks, the extra payload and
// any aggregate updates land together or not at all.

// IngestProbedFile upserts the media entry backing a probed file. It
// returns nil media when the file sits under a root that was banned after
// the crawl picked it up.
func (r *Repository) IngestProbedFile(info *models.ProbedMediaInfo) (*models.Media, error) {
	if info == nil || info.MRL == "" {
		return nil, models.ErrInvalidArgument
	}
	var media *models.Media
	err := r.db.Transaction(func(tx *gorm.DB) error {
		banned, err := IsUnderBannedRoot(tx, info.MRL)
		if err != nil {
			return err
		}
		if banned {
			return nil
		}

		var file models.MediaFile
		err = tx.Where("mrl = ?", info.MRL).First(&file).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			media, err = createProbedMediaTx(tx, info)
			return err
		case err != nil:
			return err
		default:
			media, err = refreshProbedMediaTx(tx, file.MediaID, info)
			return err
		}
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return media, nil
}

func createProbedMediaTx(tx *gorm.DB, info *models.ProbedMediaInfo) (*models.Media, error) {
	title := info.Title
	if title == "" {
		title = mrlFilename(info.MRL)
	}
	media := models.Media{
		Type:      mediaTypeFor(info),
		Title:     title,
		TitleSort: normalizeSort(title),
		Year:      info.Year,
		Duration:  info.Duration,
		Filename:  mrlFilename(info.MRL),
		FileSize:  info.FileSize,
	}
	if media.Duration == 0 {
		media.Duration = models.DurationUnknown
	}
	if err := tx.Create(&media).Error; err != nil {
		return nil, err
	}

	file := models.MediaFile{
		MediaID: media.ID,
		MRL:     info.MRL,
		Type:    models.FileTypeMain,
		Size:    info.FileSize,
	}
	if err := tx.Create(&file).Error; err != nil {
		return nil, err
	}
	if err := replaceTracksTx(tx, media.ID, info.Tracks); err != nil {
		return nil, err
	}
	if err := classifyTx(tx, &media, info); err != nil {
		return nil, err
	}
	return &media, nil
}

func refreshProbedMediaTx(tx *gorm.DB, mediaID int64, info *models.ProbedMediaInfo) (*models.Media, error) {
	var media models.Media
	if err := tx.Preload("AlbumTrack").Preload("ShowEpisode").First(&media, mediaID).Error; err != nil {
		return nil, err
	}
	if info.Title != "" {
		media.Title = info.Title
		media.TitleSort = normalizeSort(info.Title)
	}
	if info.Duration != 0 {
		media.Duration = info.Duration
	}
	if info.FileSize > 0 {
		media.FileSize = info.FileSize
	}
	if info.Year != 0 {
		media.Year = info.Year
	}
	if media.Type == models.MediaTypeUnknown {
		media.Type = mediaTypeFor(info)
	}
	if err := tx.Save(&media).Error; err != nil {
		return nil, err
	}
	if err := replaceTracksTx(tx, media.ID, info.Tracks); err != nil {
		return nil, err
	}
	if media.Subtype == models.MediaSubtypeUnknown {
		if err := classifyTx(tx, &media, info); err != nil {
			return nil, err
		}
	}
	return &media, nil
}

func replaceTracksTx(tx *gorm.DB, mediaID int64, tracks []models.ProbedTrack) error {
	if err := tx.Where("media_id = ?", mediaID).Delete(&models.MediaTrack{}).Error; err != nil {
		return err
	}
	for _, t := range tracks {
		row := models.MediaTrack{
			MediaID:     mediaID,
			Type:        t.Type,
			Codec:       t.Codec,
			Language:    t.Language,
			Description: t.Description,
			Bitrate:     t.Bitrate,
			Channels:    t.Channels,
			SampleRate:  t.SampleRate,
			Width:       t.Width,
			Height:      t.Height,
			SarNum:      t.SarNum,
			SarDen:      t.SarDen,
			FpsNum:      t.FpsNum,
			FpsDen:      t.FpsDen,
		}
		if err := tx.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}

// classifyTx attaches the extra payload implied by the probed metadata:
// audio files with album or artist tags become album tracks, video files
// with a show name become episodes. Everything else stays subtype unknown.
func classifyTx(tx *gorm.DB, media *models.Media, info *models.ProbedMediaInfo) error {
	if info.ProbeFailed {
		return nil
	}
	switch {
	case media.Type == models.MediaTypeAudio && (info.AlbumTitle != "" || info.ArtistName != ""):
		return classifyAlbumTrackTx(tx, media, info)
	case media.Type == models.MediaTypeVideo && info.ShowName != "":
		return classifyEpisodeTx(tx, media, info)
	}
	return nil
}

func classifyAlbumTrackTx(tx *gorm.DB, media *models.Media, info *models.ProbedMediaInfo) error {
	track := models.AlbumTrack{
		MediaID:     media.ID,
		TrackNumber: info.TrackNumber,
		DiscNumber:  info.DiscNumber,
	}
	var artist *models.Artist
	if info.ArtistName != "" {
		var err error
		artist, err = resolveArtistTx(tx, info.ArtistName)
		if err != nil {
			return err
		}
		track.ArtistID = &artist.ID
	}
	if info.AlbumTitle != "" {
		album, err := resolveAlbumTx(tx, info.AlbumTitle, artist, info.Year)
		if err != nil {
			return err
		}
		track.AlbumID = &album.ID
	}
	if info.GenreName != "" {
		genre, err := resolveGenreTx(tx, info.GenreName)
		if err != nil {
			return err
		}
		track.GenreID = &genre.ID
	}
	if err := tx.Create(&track).Error; err != nil {
		return err
	}
	media.AlbumTrack = &track
	media.Subtype = models.MediaSubtypeAlbumTrack
	if err := tx.Model(&models.Media{}).Where("id = ?", media.ID).
		Update("subtype", media.Subtype).Error; err != nil {
		return err
	}
	return recomputeAudioAggregates(tx, track.AlbumID, track.ArtistID, track.GenreID)
}

func classifyEpisodeTx(tx *gorm.DB, media *models.Media, info *models.ProbedMediaInfo) error {
	show, err := resolveShowTx(tx, info.ShowName, info.Year)
	if err != nil {
		return err
	}
	episode := models.ShowEpisode{
		MediaID:       media.ID,
		ShowID:        show.ID,
		SeasonNumber:  info.SeasonNumber,
		EpisodeNumber: info.EpisodeNumber,
	}
	if err := tx.Create(&episode).Error; err != nil {
		return err
	}
	media.ShowEpisode = &episode
	media.Subtype = models.MediaSubtypeShowEpisode
	if err := tx.Model(&models.Media{}).Where("id = ?", media.ID).
		Update("subtype", media.Subtype).Error; err != nil {
		return err
	}
	return recomputeShowAggregates(tx, show.ID)
}

// Name resolution is case-insensitive on the sort columns so "radiohead"
// and "Radiohead" collapse into one row.

func resolveArtistTx(tx *gorm.DB, name string) (*models.Artist, error) {
	var artist models.Artist
	err := tx.Where("name_sort = ?", normalizeSort(name)).First(&artist).Error
	if err == nil {
		return &artist, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	artist = models.Artist{Name: name, NameSort: normalizeSort(name)}
	if err := tx.Create(&artist).Error; err != nil {
		return nil, err
	}
	return &artist, nil
}

func resolveAlbumTx(tx *gorm.DB, title string, artist *models.Artist, year int32) (*models.Album, error) {
	db := tx.Where("title_sort = ?", normalizeSort(title))
	if artist != nil {
		db = db.Where("artist_id = ?", artist.ID)
	} else {
		db = db.Where("artist_id IS NULL")
	}
	var album models.Album
	err := db.First(&album).Error
	if err == nil {
		return &album, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	album = models.Album{
		Title:     title,
		TitleSort: normalizeSort(title),
		Year:      year,
	}
	if artist != nil {
		album.ArtistID = &artist.ID
		album.ArtistName = artist.Name
	}
	if err := tx.Create(&album).Error; err != nil {
		return nil, err
	}
	return &album, nil
}

func resolveGenreTx(tx *gorm.DB, name string) (*models.Genre, error) {
	var genre models.Genre
	err := tx.Where("name_sort = ?", normalizeSort(name)).First(&genre).Error
	if err == nil {
		return &genre, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	genre = models.Genre{Name: name, NameSort: normalizeSort(name)}
	if err := tx.Create(&genre).Error; err != nil {
		return nil, err
	}
	return &genre, nil
}

func resolveShowTx(tx *gorm.DB, name string, year int32) (*models.Show, error) {
	var show models.Show
	err := tx.Where("name_sort = ?", normalizeSort(name)).First(&show).Error
	if err == nil {
		return &show, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	show = models.Show{Name: name, NameSort: normalizeSort(name), ReleaseYear: year}
	if err := tx.Create(&show).Error; err != nil {
		return nil, err
	}
	return &show, nil
}

// mediaTypeFor derives a media type from the probe result, falling back to
// the stream composition when the prober did not commit to one.
func mediaTypeFor(info *models.ProbedMediaInfo) models.MediaType {
	if info.Type != models.MediaTypeUnknown {
		return info.Type
	}
	hasAudio := false
	for _, t := range info.Tracks {
		switch t.Type {
		case models.TrackTypeVideo:
			return models.MediaTypeVideo
		case models.TrackTypeAudio:
			hasAudio = true
		}
	}
	if hasAudio {
		return models.MediaTypeAudio
	}
	return models.MediaTypeUnknown
}

// mrlFilename extracts the final path element of an MRL for display and
// filename sorting.
func mrlFilename(mrl string) string {
	if u, err := url.Parse(mrl); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(mrl)
}

// External and stream media are created on demand rather than discovered.

// AddExternalMedia registers a media entry for a location outside every
// discovery root. It is invisible to video/audio listings until it gains a
// known type.
func (r *Repository) AddExternalMedia(mrl, title string) (*models.Media, error) {
	return r.addOutOfTreeMedia(mrl, title, models.MediaTypeExternal)
}

// AddStream registers a network stream so its playback history and
// preferences persist.
func (r *Repository) AddStream(mrl string) (*models.Media, error) {
	return r.addOutOfTreeMedia(mrl, mrlFilename(mrl), models.MediaTypeStream)
}

func (r *Repository) addOutOfTreeMedia(mrl, title string, t models.MediaType) (*models.Media, error) {
	if mrl == "" {
		return nil, models.ErrInvalidArgument
	}
	if title == "" {
		title = mrlFilename(mrl)
	}
	var media models.Media
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var existing models.MediaFile
		err := tx.Where("mrl = ?", mrl).First(&existing).Error
		if err == nil {
			return tx.First(&media, existing.MediaID).Error
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		media = models.Media{
			Type:      t,
			Title:     title,
			TitleSort: normalizeSort(title),
			Duration:  models.DurationUnknown,
			Filename:  mrlFilename(mrl),
		}
		if err := tx.Create(&media).Error; err != nil {
			return err
		}
		file := models.MediaFile{
			MediaID:    media.ID,
			MRL:        mrl,
			Type:       models.FileTypeMain,
			IsExternal: true,
		}
		return tx.Create(&file).Error
	})
	if err != nil {
		return nil, wrapErr(err)
	}
	return &media, nil
}

// AttachExternalFile links an additional out-of-tree file, such as a
// subtitle or soundtrack, to an existing media entry.
func (r *Repository) AttachExternalFile(mediaID int64, mrl string, fileType models.FileType) error {
	if mrl == "" {
		return models.ErrInvalidArgument
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRowTx(tx, &models.Media{}, mediaID); err != nil {
			return err
		}
		var existing models.MediaFile
		err := tx.Where("mrl = ?", mrl).First(&existing).Error
		if err == nil {
			if existing.MediaID != mediaID {
				return models.ErrInvalidArgument
			}
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		file := models.MediaFile{
			MediaID:    mediaID,
			MRL:        mrl,
			Type:       fileType,
			IsExternal: true,
		}
		return tx.Create(&file).Error
	})
	return wrapErr(err)
}

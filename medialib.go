// Package medialib is an embeddable media cataloging engine. It watches
// registered folders, extracts metadata from the files it finds and exposes
// the result as a queryable catalog of media, albums, artists, shows,
// genres and playlists backed by SQLite or PostgreSQL.
package medialib

import (
	"context"
	"io"
	"os"

	"medialib/internal/config"
	"medialib/internal/database"
	"medialib/internal/discovery"
	"medialib/internal/logging"
	"medialib/internal/mediafs"
	"medialib/internal/models"
	"medialib/internal/query"
	"medialib/internal/services"
)

// Catalog entity and query types, surfaced from the internal packages.
type (
	Media           = models.Media
	MediaFile       = models.MediaFile
	MediaTrack      = models.MediaTrack
	MediaExtra      = models.MediaExtra
	Movie           = models.Movie
	ShowEpisode     = models.ShowEpisode
	AlbumTrack      = models.AlbumTrack
	Album           = models.Album
	Artist          = models.Artist
	Genre           = models.Genre
	Show            = models.Show
	Playlist        = models.Playlist
	Label           = models.Label
	MediaType       = models.MediaType
	MediaSubtype    = models.MediaSubtype
	FileType        = models.FileType
	TrackType       = models.TrackType
	PrefKey         = models.PrefKey
	ProbedMediaInfo = models.ProbedMediaInfo
	ProbedTrack     = models.ProbedTrack
	QueryParams     = query.Params
	Sort            = query.Sort
	Crawler         = mediafs.Crawler
	Prober          = mediafs.Prober
	Entry           = mediafs.Entry
	Config          = config.AppConfig
)

const (
	MediaTypeUnknown  = models.MediaTypeUnknown
	MediaTypeVideo    = models.MediaTypeVideo
	MediaTypeAudio    = models.MediaTypeAudio
	MediaTypeExternal = models.MediaTypeExternal
	MediaTypeStream   = models.MediaTypeStream

	TrackTypeUnknown = models.TrackTypeUnknown
	TrackTypeVideo   = models.TrackTypeVideo
	TrackTypeAudio   = models.TrackTypeAudio

	FileTypeMain       = models.FileTypeMain
	FileTypeSoundtrack = models.FileTypeSoundtrack
	FileTypeSubtitle   = models.FileTypeSubtitle

	SortDefault              = query.SortDefault
	SortAlpha                = query.SortAlpha
	SortDuration             = query.SortDuration
	SortInsertionDate        = query.SortInsertionDate
	SortLastModificationDate = query.SortLastModificationDate
	SortReleaseDate          = query.SortReleaseDate
	SortFileSize             = query.SortFileSize
	SortArtist               = query.SortArtist
	SortPlayCount            = query.SortPlayCount
	SortAlbum                = query.SortAlbum
	SortFilename             = query.SortFilename
	SortTrackNumber          = query.SortTrackNumber

	PrefRating        = models.PrefRating
	PrefProgress      = models.PrefProgress
	PrefSpeed         = models.PrefSpeed
	PrefTitle         = models.PrefTitle
	PrefChapter       = models.PrefChapter
	PrefProgram       = models.PrefProgram
	PrefSeen          = models.PrefSeen
	PrefVideoTrack    = models.PrefVideoTrack
	PrefAspectRatio   = models.PrefAspectRatio
	PrefZoom          = models.PrefZoom
	PrefCrop          = models.PrefCrop
	PrefDeinterlace   = models.PrefDeinterlace
	PrefVideoFilter   = models.PrefVideoFilter
	PrefAudioTrack    = models.PrefAudioTrack
	PrefGain          = models.PrefGain
	PrefAudioDelay    = models.PrefAudioDelay
	PrefSubtitleTrack = models.PrefSubtitleTrack
	PrefSubtitleDelay = models.PrefSubtitleDelay
	PrefAppSpecific   = models.PrefAppSpecific
)

// Error taxonomy. Callers branch with errors.Is.
var (
	ErrNotFound          = models.ErrNotFound
	ErrInvalidArgument   = models.ErrInvalidArgument
	ErrDanglingReference = models.ErrDanglingReference
	ErrStorage           = models.ErrStorage
)

// Options configures an engine instance. Zero values fall back to the
// loaded configuration file, the local filesystem crawler and the tag
// prober.
type Options struct {
	Config    *config.AppConfig
	Crawler   mediafs.Crawler
	Prober    mediafs.Prober
	LogOutput io.Writer
}

// MediaLibrary is one engine instance bound to one database.
type MediaLibrary struct {
	cfg    *config.AppConfig
	db     *database.DatabaseManager
	repo   *services.Repository
	disc   *discovery.Service
	logger *logging.Logger
}

// New opens the database, runs migrations and wires the discovery service.
// Background work does not start until Start is called.
func New(opts Options) (*MediaLibrary, error) {
	cfg := opts.Config
	if cfg == nil {
		loaded, err := config.LoadConfig()
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	output := opts.LogOutput
	if output == nil {
		output = os.Stderr
	}
	logger := logging.NewLogger(logging.LogLevel(cfg.Logging.Level), output)

	db, err := database.NewDatabaseManager(&cfg.Database, logger.Zerolog())
	if err != nil {
		return nil, err
	}
	if err := database.NewMigrationManager(db.GetGormDB(), logger.Zerolog()).Migrate(); err != nil {
		db.Close()
		return nil, err
	}

	repo := services.NewRepository(db.GetGormDB())

	crawler := opts.Crawler
	if crawler == nil {
		crawler = mediafs.NewFSCrawler()
	}
	prober := opts.Prober
	if prober == nil {
		prober = mediafs.NewTagProber()
	}

	return &MediaLibrary{
		cfg:    cfg,
		db:     db,
		repo:   repo,
		disc:   discovery.NewService(repo, crawler, prober, cfg.Discovery, logger),
		logger: logger,
	}, nil
}

// Start launches background discovery.
func (ml *MediaLibrary) Start(ctx context.Context) error {
	return ml.disc.Start(ctx)
}

// Stop drains background work and closes the database.
func (ml *MediaLibrary) Stop() error {
	ml.disc.Stop()
	return ml.db.Close()
}

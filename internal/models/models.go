package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaType distinguishes how a media entry entered the catalog and what it
// broadly contains.
type MediaType int16

const (
	MediaTypeUnknown MediaType = iota
	MediaTypeVideo
	MediaTypeAudio
	MediaTypeExternal
	MediaTypeStream
)

func (t MediaType) String() string {
	switch t {
	case MediaTypeVideo:
		return "video"
	case MediaTypeAudio:
		return "audio"
	case MediaTypeExternal:
		return "external"
	case MediaTypeStream:
		return "stream"
	default:
		return "unknown"
	}
}

// MediaSubtype selects which extra payload a media entry carries.
type MediaSubtype int16

const (
	MediaSubtypeUnknown MediaSubtype = iota
	MediaSubtypeShowEpisode
	MediaSubtypeMovie
	MediaSubtypeAlbumTrack
)

func (s MediaSubtype) String() string {
	switch s {
	case MediaSubtypeShowEpisode:
		return "show_episode"
	case MediaSubtypeMovie:
		return "movie"
	case MediaSubtypeAlbumTrack:
		return "album_track"
	default:
		return "unknown"
	}
}

// ConsistentWith reports whether the subtype is legal for the given type:
// album tracks must be audio, episodes and movies must be video.
func (s MediaSubtype) ConsistentWith(t MediaType) bool {
	switch s {
	case MediaSubtypeAlbumTrack:
		return t == MediaTypeAudio
	case MediaSubtypeShowEpisode, MediaSubtypeMovie:
		return t == MediaTypeVideo
	default:
		return true
	}
}

// FileType is the role a file plays for its media entry.
type FileType int16

const (
	FileTypeUnknown FileType = iota
	FileTypeMain
	FileTypePart
	FileTypeSoundtrack
	FileTypeSubtitle
	FileTypePlaylist
)

// TrackType distinguishes elementary stream kinds.
type TrackType int16

const (
	TrackTypeUnknown TrackType = iota
	TrackTypeVideo
	TrackTypeAudio
)

// DurationUnknown is the duration sentinel for media that has not been
// probed yet.
const DurationUnknown int64 = -1

// Media represents the media table. Filename and FileSize are denormalized
// from the main file so they are sortable without a join.
type Media struct {
	ID           int64        `gorm:"primaryKey;autoIncrement" json:"id"`
	APIKey       uuid.UUID    `gorm:"type:uuid;uniqueIndex" json:"api_key"`
	Type         MediaType    `gorm:"not null;index:idx_media_type" json:"type"`
	Subtype      MediaSubtype `gorm:"not null;default:0" json:"subtype"`
	Title        string       `gorm:"size:512;not null" json:"title"`
	TitleSort    string       `gorm:"size:512;not null;index:idx_media_title_sort" json:"title_sort"` // lowercased, for matching and ordering
	Year         int32        `gorm:"default:0" json:"year"`
	Duration     int64        `gorm:"default:-1" json:"duration"` // milliseconds, -1 = unknown
	PlayCount    int64        `gorm:"default:0;index:idx_media_play_count" json:"play_count"`
	LastPlayedAt *time.Time   `gorm:"index:idx_media_last_played" json:"last_played_at"`
	ArtworkMRL   string       `gorm:"size:2048" json:"artwork_mrl"`
	IsFavorite   bool         `gorm:"default:false" json:"is_favorite"`
	Filename     string       `gorm:"size:512;index:idx_media_filename" json:"filename"`
	FileSize     int64        `gorm:"default:0" json:"file_size"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`

	// Relationships
	Files  []MediaFile  `gorm:"foreignKey:MediaID" json:"files"`
	Tracks []MediaTrack `gorm:"foreignKey:MediaID" json:"tracks"`

	// Extra payload rows; at most one is non-nil, selected by Subtype.
	Movie       *Movie       `gorm:"foreignKey:MediaID" json:"movie,omitempty"`
	ShowEpisode *ShowEpisode `gorm:"foreignKey:MediaID" json:"show_episode,omitempty"`
	AlbumTrack  *AlbumTrack  `gorm:"foreignKey:MediaID" json:"album_track,omitempty"`
}

func (Media) TableName() string {
	return "media"
}

// BeforeCreate sets the API key before creating a media entry
func (m *Media) BeforeCreate(tx *gorm.DB) error {
	if m.APIKey == uuid.Nil {
		m.APIKey = uuid.New()
	}
	return nil
}

// MediaFile represents the media_files table. A media entry has at most one
// main file unless it is a multi-part entity.
type MediaFile struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MediaID    int64     `gorm:"not null;index:idx_media_files_media_id" json:"media_id"`
	MRL        string    `gorm:"size:2048;not null;uniqueIndex:idx_media_files_mrl" json:"mrl"`
	Type       FileType  `gorm:"not null;default:0" json:"type"`
	IsExternal bool      `gorm:"default:false" json:"is_external"` // added manually, outside discovery
	Size       int64     `gorm:"default:0" json:"size"`
	CreatedAt  time.Time `json:"created_at"`
}

func (MediaFile) TableName() string {
	return "media_files"
}

// MediaTrack represents the media_tracks table. Audio and video payload
// columns coexist; TrackType selects which half is meaningful. Aspect ratio
// and frame rate are stored as rational pairs to avoid floating-point drift.
type MediaTrack struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MediaID     int64     `gorm:"not null;index:idx_media_tracks_media_id" json:"media_id"`
	Type        TrackType `gorm:"not null" json:"type"`
	Codec       string    `gorm:"size:64" json:"codec"`
	Language    string    `gorm:"size:64" json:"language"`
	Description string    `gorm:"size:512" json:"description"`
	Bitrate     uint32    `gorm:"default:0" json:"bitrate"`

	// Audio payload
	Channels   uint32 `gorm:"default:0" json:"channels"`
	SampleRate uint32 `gorm:"default:0" json:"sample_rate"`

	// Video payload
	Width  uint32 `gorm:"default:0" json:"width"`
	Height uint32 `gorm:"default:0" json:"height"`
	SarNum uint32 `gorm:"default:0" json:"sar_num"`
	SarDen uint32 `gorm:"default:0" json:"sar_den"`
	FpsNum uint32 `gorm:"default:0" json:"fps_num"`
	FpsDen uint32 `gorm:"default:0" json:"fps_den"`
}

func (MediaTrack) TableName() string {
	return "media_tracks"
}

// Movie is the extra payload for subtype movie.
type Movie struct {
	MediaID int64  `gorm:"primaryKey" json:"media_id"`
	Summary string `json:"summary"`
	IMDBID  string `gorm:"size:32" json:"imdb_id"`
}

func (Movie) TableName() string {
	return "movies"
}

// ShowEpisode is the extra payload for subtype show episode.
type ShowEpisode struct {
	MediaID       int64  `gorm:"primaryKey" json:"media_id"`
	ShowID        int64  `gorm:"not null;index:idx_show_episodes_show_id" json:"show_id"`
	Summary       string `json:"summary"`
	TVDBID        string `gorm:"size:32" json:"tvdb_id"`
	EpisodeNumber uint32 `gorm:"default:0" json:"episode_number"`
	SeasonNumber  uint32 `gorm:"default:0" json:"season_number"`
}

func (ShowEpisode) TableName() string {
	return "show_episodes"
}

// AlbumTrack is the extra payload for subtype album track. Artist, album and
// genre references are each optional.
type AlbumTrack struct {
	MediaID     int64  `gorm:"primaryKey" json:"media_id"`
	ArtistID    *int64 `gorm:"index:idx_album_tracks_artist_id" json:"artist_id"`
	AlbumID     *int64 `gorm:"index:idx_album_tracks_album_id" json:"album_id"`
	GenreID     *int64 `gorm:"index:idx_album_tracks_genre_id" json:"genre_id"`
	TrackNumber int32  `gorm:"default:0" json:"track_number"`
	DiscNumber  int32  `gorm:"default:0" json:"disc_number"`
}

func (AlbumTrack) TableName() string {
	return "album_tracks"
}

// Album represents the albums table. ArtistName is denormalized for display;
// TrackCount and Duration are aggregates recomputed when membership changes.
type Album struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	APIKey     uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"api_key"`
	Title      string    `gorm:"size:512;not null" json:"title"`
	TitleSort  string    `gorm:"size:512;not null;index:idx_albums_title_sort" json:"title_sort"`
	Summary    string    `json:"summary"`
	ArtworkMRL string    `gorm:"size:2048" json:"artwork_mrl"`
	ArtistName string    `gorm:"size:512" json:"artist_name"`
	ArtistID   *int64    `gorm:"index:idx_albums_artist_id" json:"artist_id"`
	TrackCount int64     `gorm:"default:0" json:"track_count"`
	Duration   int64     `gorm:"default:0" json:"duration"` // milliseconds
	Year       int32     `gorm:"default:0;index:idx_albums_year" json:"year"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Album) TableName() string {
	return "albums"
}

// BeforeCreate sets the API key before creating an album
func (a *Album) BeforeCreate(tx *gorm.DB) error {
	if a.APIKey == uuid.Nil {
		a.APIKey = uuid.New()
	}
	return nil
}

// Artist represents the artists table. AlbumCount and TrackCount are
// aggregates recomputed when membership changes.
type Artist struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	APIKey        uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"api_key"`
	Name          string    `gorm:"size:512;not null" json:"name"`
	NameSort      string    `gorm:"size:512;not null;index:idx_artists_name_sort" json:"name_sort"`
	ShortBio      string    `json:"short_bio"`
	ArtworkMRL    string    `gorm:"size:2048" json:"artwork_mrl"`
	MusicBrainzID string    `gorm:"size:64" json:"musicbrainz_id"`
	AlbumCount    int64     `gorm:"default:0" json:"album_count"`
	TrackCount    int64     `gorm:"default:0" json:"track_count"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Artist) TableName() string {
	return "artists"
}

// BeforeCreate sets the API key before creating an artist
func (a *Artist) BeforeCreate(tx *gorm.DB) error {
	if a.APIKey == uuid.Nil {
		a.APIKey = uuid.New()
	}
	return nil
}

// Show represents the shows table. EpisodeCount and SeasonCount are
// aggregates recomputed when membership changes.
type Show struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	APIKey       uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"api_key"`
	Name         string    `gorm:"size:512;not null" json:"name"`
	NameSort     string    `gorm:"size:512;not null;index:idx_shows_name_sort" json:"name_sort"`
	Summary      string    `json:"summary"`
	ArtworkMRL   string    `gorm:"size:2048" json:"artwork_mrl"`
	TVDBID       string    `gorm:"size:32" json:"tvdb_id"`
	ReleaseYear  int32     `gorm:"default:0" json:"release_year"`
	EpisodeCount int64     `gorm:"default:0" json:"episode_count"`
	SeasonCount  int64     `gorm:"default:0" json:"season_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Show) TableName() string {
	return "shows"
}

// BeforeCreate sets the API key before creating a show
func (s *Show) BeforeCreate(tx *gorm.DB) error {
	if s.APIKey == uuid.Nil {
		s.APIKey = uuid.New()
	}
	return nil
}

// Genre represents the genres table. TrackCount is an aggregate recomputed
// when membership changes.
type Genre struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name       string    `gorm:"size:255;not null;uniqueIndex:idx_genres_name" json:"name"`
	NameSort   string    `gorm:"size:255;not null;index:idx_genres_name_sort" json:"name_sort"`
	TrackCount int64     `gorm:"default:0" json:"track_count"`
	CreatedAt  time.Time `json:"created_at"`
}

func (Genre) TableName() string {
	return "genres"
}

// Playlist represents the playlists table. Item order is significant and
// kept dense in PlaylistItem.Position.
type Playlist struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	APIKey     uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"api_key"`
	Name       string    `gorm:"size:512;not null" json:"name"`
	NameSort   string    `gorm:"size:512;not null;index:idx_playlists_name_sort" json:"name_sort"`
	ArtworkMRL string    `gorm:"size:2048" json:"artwork_mrl"`
	CreatedAt  time.Time `json:"created_at"`

	// Relationships
	Items []PlaylistItem `gorm:"foreignKey:PlaylistID" json:"-"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// BeforeCreate sets the API key before creating a playlist
func (p *Playlist) BeforeCreate(tx *gorm.DB) error {
	if p.APIKey == uuid.Nil {
		p.APIKey = uuid.New()
	}
	return nil
}

// PlaylistItem represents the playlist_items junction table.
type PlaylistItem struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	PlaylistID int64     `gorm:"not null;index:idx_playlist_items_playlist_pos" json:"playlist_id"`
	MediaID    int64     `gorm:"not null;index:idx_playlist_items_media_id" json:"media_id"`
	Position   int32     `gorm:"not null" json:"position"`
	CreatedAt  time.Time `json:"created_at"`

	// Constraints: UNIQUE(playlist_id, position)
}

func (PlaylistItem) TableName() string {
	return "playlist_items"
}

// Label represents the labels table.
type Label struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:255;not null;uniqueIndex:idx_labels_name" json:"name"`
}

func (Label) TableName() string {
	return "labels"
}

// MediaLabel represents the media_labels junction table.
type MediaLabel struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	MediaID int64 `gorm:"not null;index:idx_media_labels_media_id" json:"media_id"`
	LabelID int64 `gorm:"not null;index:idx_media_labels_label_id" json:"label_id"`

	// Constraints: UNIQUE(media_id, label_id)
}

func (MediaLabel) TableName() string {
	return "media_labels"
}

// Entrypoint represents the entrypoints table: a discovery root offered to
// the crawler. A row with Present=false is a removed root retained so its
// banned flag survives; its MRL is not exposed to callers in that state.
type Entrypoint struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MRL       string    `gorm:"size:2048;not null;uniqueIndex:idx_entrypoints_mrl" json:"mrl"`
	Present   bool      `gorm:"default:true" json:"present"`
	Banned    bool      `gorm:"default:false" json:"banned"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Entrypoint) TableName() string {
	return "entrypoints"
}

// PlaybackPreference represents the playback_preferences table: per-media,
// per-key opaque string settings. Values are never parsed by the engine.
type PlaybackPreference struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	MediaID   int64     `gorm:"not null;uniqueIndex:idx_playback_prefs_media_key" json:"media_id"`
	Key       PrefKey   `gorm:"not null;uniqueIndex:idx_playback_prefs_media_key" json:"key"`
	Value     string    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PlaybackPreference) TableName() string {
	return "playback_preferences"
}

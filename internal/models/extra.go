package models

// MediaExtra is the payload variant carried by a media entry. Exactly one of
// the concrete types Movie, ShowEpisode and AlbumTrack implements it; a
// media entry with subtype unknown has no extra.
type MediaExtra interface {
	mediaExtra()
}

func (Movie) mediaExtra()       {}
func (ShowEpisode) mediaExtra() {}
func (AlbumTrack) mediaExtra()  {}

// Extra returns the payload matching the media subtype, or nil when the
// subtype is unknown or the payload row has not been loaded. Callers must
// switch on the concrete type rather than assume one.
func (m *Media) Extra() MediaExtra {
	switch m.Subtype {
	case MediaSubtypeMovie:
		if m.Movie != nil {
			return *m.Movie
		}
	case MediaSubtypeShowEpisode:
		if m.ShowEpisode != nil {
			return *m.ShowEpisode
		}
	case MediaSubtypeAlbumTrack:
		if m.AlbumTrack != nil {
			return *m.AlbumTrack
		}
	}
	return nil
}

// PrefKey identifies a playback preference. Values are opaque strings scoped
// per consuming application; the engine stores and returns them untouched.
type PrefKey int16

const (
	PrefRating PrefKey = iota
	PrefProgress
	PrefSpeed
	PrefTitle
	PrefChapter
	PrefProgram
	PrefSeen
	PrefVideoTrack
	PrefAspectRatio
	PrefZoom
	PrefCrop
	PrefDeinterlace
	PrefVideoFilter
	PrefAudioTrack
	PrefGain
	PrefAudioDelay
	PrefSubtitleTrack
	PrefSubtitleDelay
	PrefAppSpecific
)

var prefKeyNames = map[PrefKey]string{
	PrefRating:        "rating",
	PrefProgress:      "progress",
	PrefSpeed:         "speed",
	PrefTitle:         "title",
	PrefChapter:       "chapter",
	PrefProgram:       "program",
	PrefSeen:          "seen",
	PrefVideoTrack:    "video_track",
	PrefAspectRatio:   "aspect_ratio",
	PrefZoom:          "zoom",
	PrefCrop:          "crop",
	PrefDeinterlace:   "deinterlace",
	PrefVideoFilter:   "video_filter",
	PrefAudioTrack:    "audio_track",
	PrefGain:          "gain",
	PrefAudioDelay:    "audio_delay",
	PrefSubtitleTrack: "subtitle_track",
	PrefSubtitleDelay: "subtitle_delay",
	PrefAppSpecific:   "app_specific",
}

func (k PrefKey) String() string {
	if name, ok := prefKeyNames[k]; ok {
		return name
	}
	return "unknown"
}

// Valid reports whether the key is one of the recognized preferences.
func (k PrefKey) Valid() bool {
	_, ok := prefKeyNames[k]
	return ok
}

package models

// ProbedTrack is one elementary stream reported by a prober.
type ProbedTrack struct {
	Type        TrackType
	Codec       string
	Language    string
	Description string
	Bitrate     uint32

	// Audio
	Channels   uint32
	SampleRate uint32

	// Video
	Width  uint32
	Height uint32
	SarNum uint32
	SarDen uint32
	FpsNum uint32
	FpsDen uint32
}

// ProbedMediaInfo is the result of analyzing one discovered file. The
// discovery pipeline merges it into the catalog; an empty Tracks slice with
// ProbeFailed set records the file as present but track-less so a later pass
// can retry.
type ProbedMediaInfo struct {
	MRL      string
	Title    string
	Type     MediaType
	Duration int64 // milliseconds, -1 = unknown
	FileSize int64
	Year     int32

	// Audio classification; empty strings mean unknown
	ArtistName  string
	AlbumTitle  string
	GenreName   string
	TrackNumber int32
	DiscNumber  int32

	// Video classification
	ShowName      string
	SeasonNumber  uint32
	EpisodeNumber uint32

	Tracks      []ProbedTrack
	ProbeFailed bool
}

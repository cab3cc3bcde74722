package mediafs

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dhowden/tag"

	"medialib/internal/models"
)

// Prober analyzes one discovered file and reports its metadata. A failed
// probe is not an error: the result comes back with ProbeFailed set so the
// file is still recorded and can be retried later.
type Prober interface {
	Probe(ctx context.Context, entry Entry) (*models.ProbedMediaInfo, error)
}

// TagProber reads embedded metadata from audio containers and classifies
// video files by extension and filename.
type TagProber struct{}

// NewTagProber creates the default prober.
func NewTagProber() *TagProber {
	return &TagProber{}
}

var audioExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".oga":  true,
	".m4a":  true,
	".aac":  true,
	".opus": true,
	".wav":  true,
	".wma":  true,
}

// Recognizes "Show Name S01E04" style episode markers.
var episodePattern = regexp.MustCompile(`(?i)^(.+?)[ ._-]+S(\d{1,2})[ ._-]?E(\d{1,3})`)

// Probe extracts metadata from a local file. Audio files are parsed with
// the tag reader; video files are classified from their name since no
// container demuxer is involved.
func (p *TagProber) Probe(ctx context.Context, entry Entry) (*models.ProbedMediaInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	info := &models.ProbedMediaInfo{
		MRL:      entry.MRL,
		Duration: models.DurationUnknown,
		FileSize: entry.Size,
	}
	path := MRLToPath(entry.MRL)
	if path == "" {
		info.ProbeFailed = true
		return info, nil
	}
	ext := strings.ToLower(filepath.Ext(path))
	if audioExtensions[ext] {
		p.probeAudio(path, ext, info)
	} else {
		p.probeVideo(path, info)
	}
	return info, nil
}

func (p *TagProber) probeAudio(path, ext string, info *models.ProbedMediaInfo) {
	info.Type = models.MediaTypeAudio
	f, err := os.Open(path)
	if err != nil {
		info.ProbeFailed = true
		return
	}
	defer f.Close()

	meta, err := tag.ReadFrom(f)
	if err != nil {
		// No readable tags; still an audio file with one stream.
		info.Tracks = []models.ProbedTrack{{
			Type:  models.TrackTypeAudio,
			Codec: strings.TrimPrefix(ext, "."),
		}}
		return
	}
	info.Title = meta.Title()
	info.ArtistName = meta.Artist()
	info.AlbumTitle = meta.Album()
	info.GenreName = meta.Genre()
	info.Year = int32(meta.Year())
	track, _ := meta.Track()
	disc, _ := meta.Disc()
	info.TrackNumber = int32(track)
	info.DiscNumber = int32(disc)
	info.Tracks = []models.ProbedTrack{{
		Type:  models.TrackTypeAudio,
		Codec: strings.ToLower(string(meta.FileType())),
	}}
}

func (p *TagProber) probeVideo(path string, info *models.ProbedMediaInfo) {
	info.Type = models.MediaTypeVideo
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if m := episodePattern.FindStringSubmatch(base); m != nil {
		info.ShowName = cleanTitle(m[1])
		if season, err := strconv.ParseUint(m[2], 10, 32); err == nil {
			info.SeasonNumber = uint32(season)
		}
		if episode, err := strconv.ParseUint(m[3], 10, 32); err == nil {
			info.EpisodeNumber = uint32(episode)
		}
	}
	info.Tracks = []models.ProbedTrack{{
		Type: models.TrackTypeVideo,
	}}
}

// cleanTitle turns dot- and underscore-separated release names into plain
// words.
func cleanTitle(s string) string {
	s = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

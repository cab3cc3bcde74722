package mediafs

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medialib/internal/models"
)

func TestTagProberAudioWithoutTags(t *testing.T) {
	root := t.TempDir()
	p := writeFile(t, root, "raw.mp3", 128)

	prober := NewTagProber()
	info, err := prober.Probe(context.Background(), Entry{MRL: PathToMRL(p), Size: 128})
	require.NoError(t, err)

	assert.Equal(t, models.MediaTypeAudio, info.Type)
	assert.False(t, info.ProbeFailed)
	assert.Equal(t, int64(128), info.FileSize)
	assert.Equal(t, models.DurationUnknown, info.Duration)
	require.Len(t, info.Tracks, 1)
	assert.Equal(t, models.TrackTypeAudio, info.Tracks[0].Type)
	assert.Equal(t, "mp3", info.Tracks[0].Codec)
}

func TestTagProberMissingFile(t *testing.T) {
	prober := NewTagProber()
	mrl := PathToMRL(filepath.Join(t.TempDir(), "gone.flac"))
	info, err := prober.Probe(context.Background(), Entry{MRL: mrl})
	require.NoError(t, err)
	assert.True(t, info.ProbeFailed)
}

func TestTagProberVideoEpisodeDetection(t *testing.T) {
	root := t.TempDir()
	prober := NewTagProber()

	for _, tc := range []struct {
		name    string
		show    string
		season  uint32
		episode uint32
	}{
		{"The.Long.Show.S02E05.1080p.mkv", "The Long Show", 2, 5},
		{"other show s1e12.mp4", "other show", 1, 12},
		{"Plain Movie.mkv", "", 0, 0},
	} {
		p := writeFile(t, root, tc.name, 1)
		info, err := prober.Probe(context.Background(), Entry{MRL: PathToMRL(p), Size: 1})
		require.NoError(t, err)

		assert.Equal(t, models.MediaTypeVideo, info.Type, tc.name)
		assert.Equal(t, tc.show, info.ShowName, tc.name)
		assert.Equal(t, tc.season, info.SeasonNumber, tc.name)
		assert.Equal(t, tc.episode, info.EpisodeNumber, tc.name)
		require.Len(t, info.Tracks, 1)
		assert.Equal(t, models.TrackTypeVideo, info.Tracks[0].Type)
	}
}

func TestTagProberHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewTagProber().Probe(ctx, Entry{MRL: "file:///x.mp3"})
	assert.ErrorIs(t, err, context.Canceled)
}

package medialib_test

import (
	"context"
	"io"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medialib"
	"medialib/internal/config"
)

// scriptedCrawler serves a fixed file set per root.
type scriptedCrawler struct {
	entries map[string][]medialib.Entry
}

func (c *scriptedCrawler) Crawl(_ context.Context, root string, banned func(string) bool) ([]medialib.Entry, error) {
	var out []medialib.Entry
	for _, e := range c.entries[root] {
		dir := e.MRL[:strings.LastIndex(e.MRL, "/")]
		if banned != nil && banned(dir) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

// scriptedProber derives tags from the file path: /music/<artist>/<album>/<title>.mp3
type scriptedProber struct{}

func (p *scriptedProber) Probe(_ context.Context, entry medialib.Entry) (*medialib.ProbedMediaInfo, error) {
	parts := strings.Split(strings.TrimPrefix(entry.MRL, "file:///music/"), "/")
	info := &medialib.ProbedMediaInfo{
		MRL:      entry.MRL,
		Type:     medialib.MediaTypeAudio,
		Duration: 180000,
		FileSize: entry.Size,
		Tracks:   []medialib.ProbedTrack{{Type: medialib.TrackTypeAudio, Codec: "mp3"}},
	}
	if len(parts) == 3 {
		info.ArtistName = parts[0]
		info.AlbumTitle = parts[1]
		info.Title = strings.TrimSuffix(parts[2], path.Ext(parts[2]))
	} else {
		info.Title = strings.TrimSuffix(path.Base(entry.MRL), path.Ext(entry.MRL))
	}
	return info, nil
}

func newTestLibrary(t *testing.T, crawler medialib.Crawler) *medialib.MediaLibrary {
	t.Helper()
	cfg := &config.AppConfig{
		Database: config.DatabaseConfig{
			Driver: "sqlite",
			Path:   filepath.Join(t.TempDir(), "catalog.db"),
		},
		Discovery: config.DiscoveryConfig{
			Workers:             2,
			ProbeRetryLimit:     3,
			ConsistencySchedule: "@every 1h",
		},
		Logging: config.LoggingConfig{Level: "error"},
	}
	ml, err := medialib.New(medialib.Options{
		Config:    cfg,
		Crawler:   crawler,
		Prober:    &scriptedProber{},
		LogOutput: io.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, ml.Start(context.Background()))
	t.Cleanup(func() { ml.Stop() })
	return ml
}

func TestLibraryEndToEnd(t *testing.T) {
	crawler := &scriptedCrawler{entries: map[string][]medialib.Entry{
		"file:///music": {
			{MRL: "file:///music/Asteroid/Debut/Intro.mp3", Size: 100},
			{MRL: "file:///music/Asteroid/Debut/Outro.mp3", Size: 120},
			{MRL: "file:///music/Belt/Second/Single.mp3", Size: 140},
		},
	}}
	ml := newTestLibrary(t, crawler)

	ml.AddFolder("file:///music")
	require.Eventually(t, func() bool {
		n, err := ml.CountAudios(medialib.QueryParams{})
		return err == nil && n == 3
	}, 5*time.Second, 10*time.Millisecond)

	t.Run("Catalog structure", func(t *testing.T) {
		albums, err := ml.Albums(medialib.QueryParams{Sort: medialib.SortAlpha})
		require.NoError(t, err)
		require.Len(t, albums, 2)
		assert.Equal(t, "Debut", albums[0].Title)
		assert.Equal(t, int64(2), albums[0].TrackCount)
		assert.Equal(t, int64(360000), albums[0].Duration)

		artists, err := ml.Artists(medialib.QueryParams{}, false)
		require.NoError(t, err)
		assert.Len(t, artists, 2)

		tracks, err := ml.AlbumTracks(albums[0].ID, medialib.QueryParams{})
		require.NoError(t, err)
		require.Len(t, tracks, 2)

		n, err := ml.CountAlbumArtists(albums[0].ID, medialib.QueryParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = ml.CountArtistTracks(artists[0].ID, medialib.QueryParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(2), n)
	})

	t.Run("Pattern search", func(t *testing.T) {
		audios, err := ml.Audios(medialib.QueryParams{Pattern: "intro"})
		require.NoError(t, err)
		require.Len(t, audios, 1)
		assert.Equal(t, "Intro", audios[0].Title)
	})

	t.Run("Playback flow", func(t *testing.T) {
		audios, err := ml.Audios(medialib.QueryParams{Sort: medialib.SortAlpha})
		require.NoError(t, err)
		target := audios[0]

		require.NoError(t, ml.IncreasePlayCount(target.ID))
		require.NoError(t, ml.SetPlaybackPref(target.ID, medialib.PrefProgress, "0.4"))

		history, err := ml.History(medialib.QueryParams{})
		require.NoError(t, err)
		require.Len(t, history, 1)
		assert.Equal(t, target.ID, history[0].ID)

		value, ok, err := ml.PlaybackPref(target.ID, medialib.PrefProgress)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "0.4", value)

		ml.ClearHistory()
		history, err = ml.History(medialib.QueryParams{})
		require.NoError(t, err)
		assert.Empty(t, history)
	})

	t.Run("Playlists", func(t *testing.T) {
		audios, err := ml.Audios(medialib.QueryParams{Sort: medialib.SortAlpha})
		require.NoError(t, err)

		playlist, err := ml.CreatePlaylist("road trip")
		require.NoError(t, err)
		for _, m := range audios {
			require.NoError(t, ml.PlaylistAppend(playlist.ID, m.ID))
		}
		listed, err := ml.PlaylistMedia(playlist.ID, medialib.QueryParams{})
		require.NoError(t, err)
		assert.Len(t, listed, 3)

		n, err := ml.CountPlaylistMedia(playlist.ID, medialib.QueryParams{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), n)
	})

	t.Run("Folders view", func(t *testing.T) {
		folders, err := ml.Folders()
		require.NoError(t, err)
		require.Len(t, folders, 1)
		assert.Equal(t, "file:///music", folders[0].MRL)
		assert.False(t, folders[0].Banned)
	})

	t.Run("Ban clears the subtree", func(t *testing.T) {
		ml.BanFolder("file:///music")
		n, err := ml.CountAudios(medialib.QueryParams{})
		require.NoError(t, err)
		assert.Zero(t, n)

		folders, err := ml.Folders()
		require.NoError(t, err)
		require.Len(t, folders, 1)
		assert.True(t, folders[0].Banned)
	})

	t.Run("Removed banned root stays listed without its location", func(t *testing.T) {
		ml.RemoveFolder("file:///music")

		folders, err := ml.Folders()
		require.NoError(t, err)
		require.Len(t, folders, 1)
		assert.Empty(t, folders[0].MRL)
		assert.True(t, folders[0].Banned)
	})
}

func TestLibraryErrorTaxonomy(t *testing.T) {
	ml := newTestLibrary(t, &scriptedCrawler{entries: map[string][]medialib.Entry{}})

	_, err := ml.Media(12345)
	assert.ErrorIs(t, err, medialib.ErrNotFound)

	_, err = ml.CreatePlaylist("")
	assert.ErrorIs(t, err, medialib.ErrInvalidArgument)

	err = ml.SetPlaybackPref(1, medialib.PrefKey(200), "x")
	assert.ErrorIs(t, err, medialib.ErrInvalidArgument)
}

package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medialib/internal/models"
)

func TestIngestProbedFile(t *testing.T) {
	repo, tearDown := newTestRepository(t)
	defer tearDown()

	t.Run("Audio file with tags becomes an album track", func(t *testing.T) {
		media, err := repo.IngestProbedFile(&models.ProbedMediaInfo{
			MRL:         "file:///music/song.flac",
			Title:       "Song",
			Type:        models.MediaTypeAudio,
			Duration:    240000,
			FileSize:    1 << 20,
			Year:        1997,
			ArtistName:  "Tagged Artist",
			AlbumTitle:  "Tagged Album",
			GenreName:   "Electronic",
			TrackNumber: 3,
			Tracks: []models.ProbedTrack{
				{Type: models.TrackTypeAudio, Codec: "flac", Channels: 2, SampleRate: 44100},
			},
		})
		require.NoError(t, err)
		require.NotNil(t, media)
		assert.Equal(t, models.MediaSubtypeAlbumTrack, media.Subtype)

		full, err := repo.GetMedia(media.ID)
		require.NoError(t, err)
		require.Len(t, full.Files, 1)
		assert.Equal(t, "file:///music/song.flac", full.Files[0].MRL)
		assert.Equal(t, models.FileTypeMain, full.Files[0].Type)
		require.Len(t, full.Tracks, 1)
		assert.Equal(t, uint32(44100), full.Tracks[0].SampleRate)
		require.NotNil(t, full.AlbumTrack)
		assert.Equal(t, int32(3), full.AlbumTrack.TrackNumber)

		extra := full.Extra()
		track, ok := extra.(models.AlbumTrack)
		require.True(t, ok)
		assert.Equal(t, full.ID, track.MediaID)
	})

	t.Run("Re-ingesting the same MRL updates in place", func(t *testing.T) {
		first, err := repo.IngestProbedFile(&models.ProbedMediaInfo{
			MRL:      "file:///music/twice.mp3",
			Title:    "First Pass",
			Type:     models.MediaTypeAudio,
			Duration: 1000,
		})
		require.NoError(t, err)

		second, err := repo.IngestProbedFile(&models.ProbedMediaInfo{
			MRL:      "file:///music/twice.mp3",
			Title:    "Second Pass",
			Type:     models.MediaTypeAudio,
			Duration: 2000,
			Tracks:   []models.ProbedTrack{{Type: models.TrackTypeAudio}},
		})
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)

		full, err := repo.GetMedia(first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Second Pass", full.Title)
		assert.Equal(t, int64(2000), full.Duration)
		assert.Len(t, full.Files, 1)
		assert.Len(t, full.Tracks, 1)
	})

	t.Run("Failed probe is recorded track-less", func(t *testing.T) {
		media, err := repo.IngestProbedFile(&models.ProbedMediaInfo{
			MRL:         "file:///music/broken.ogg",
			Duration:    models.DurationUnknown,
			ProbeFailed: true,
		})
		require.NoError(t, err)
		require.NotNil(t, media)
		assert.Equal(t, models.DurationUnknown, media.Duration)
		assert.Equal(t, models.MediaSubtypeUnknown, media.Subtype)

		full, err := repo.GetMedia(media.ID)
		require.NoError(t, err)
		assert.Empty(t, full.Tracks)
		assert.Equal(t, "broken.ogg", full.Title)
	})

	t.Run("Type inferred from streams when prober does not commit", func(t *testing.T) {
		media, err := repo.IngestProbedFile(&models.ProbedMediaInfo{
			MRL: "file:///mixed/clip.mkv",
			Tracks: []models.ProbedTrack{
				{Type: models.TrackTypeAudio},
				{Type: models.TrackTypeVideo, Width: 1920, Height: 1080},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, models.MediaTypeVideo, media.Type)
	})

	t.Run("Files under a banned root are skipped", func(t *testing.T) {
		_, _, err := repo.AddEntrypoint("file:///banned")
		require.NoError(t, err)
		_, err = repo.SetEntrypointBanned("file:///banned", true)
		require.NoError(t, err)

		media, err := repo.IngestProbedFile(&models.ProbedMediaInfo{
			MRL:   "file:///banned/sneaky.mp3",
			Title: "Sneaky",
			Type:  models.MediaTypeAudio,
		})
		require.NoError(t, err)
		assert.Nil(t, media)
	})

	t.Run("Empty MRL is invalid", func(t *testing.T) {
		_, err := repo.IngestProbedFile(&models.ProbedMediaInfo{})
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

func TestArtistAndAlbumResolution(t *testing.T) {
	repo, tearDown := newTestRepository(t)
	defer tearDown()

	// Differently-cased names collapse into one artist and one album.
	seedAlbumTrack(t, repo, "Lower", "some band", "the record", "", 1000)
	seedAlbumTrack(t, repo, "Upper", "Some Band", "The Record", "", 1000)

	artists, err := repo.ListArtists(queryAll(), true)
	require.NoError(t, err)
	require.Len(t, artists, 1)
	assert.Equal(t, "some band", artists[0].Name)

	albums, err := repo.ListAlbums(queryAll())
	require.NoError(t, err)
	require.Len(t, albums, 1)
	assert.Equal(t, int64(2), albums[0].TrackCount)

	// The same album title under a different artist is a different album.
	seedAlbumTrack(t, repo, "Other", "Another Band", "The Record", "", 1000)
	albums, err = repo.ListAlbums(queryAll())
	require.NoError(t, err)
	assert.Len(t, albums, 2)
}

func TestExternalAndStreamMedia(t *testing.T) {
	repo, tearDown := newTestRepository(t)
	defer tearDown()

	external, err := repo.AddExternalMedia("https://example.com/clip.mp4", "A Clip")
	require.NoError(t, err)
	assert.Equal(t, models.MediaTypeExternal, external.Type)

	// External media never shows up in the typed listings.
	videos, err := repo.ListVideos(queryAll())
	require.NoError(t, err)
	assert.Empty(t, videos)

	// Registering the same MRL again returns the existing entry.
	again, err := repo.AddExternalMedia("https://example.com/clip.mp4", "Renamed")
	require.NoError(t, err)
	assert.Equal(t, external.ID, again.ID)

	t.Run("Attach subtitle file", func(t *testing.T) {
		err := repo.AttachExternalFile(external.ID, "https://example.com/clip.srt", models.FileTypeSubtitle)
		require.NoError(t, err)

		full, err := repo.GetMedia(external.ID)
		require.NoError(t, err)
		require.Len(t, full.Files, 2)

		// The same file cannot be claimed by another media entry.
		other, err := repo.AddStream("rtsp://example.com/radio")
		require.NoError(t, err)
		err = repo.AttachExternalFile(other.ID, "https://example.com/clip.srt", models.FileTypeSubtitle)
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})
}

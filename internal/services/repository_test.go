package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medialib/internal/models"
	"medialib/internal/test"
)

func newTestRepository(t *testing.T) (*Repository, func()) {
	db, tearDown := test.SetupTestDB(t)
	return NewRepository(db), tearDown
}

// seedAlbumTrack creates an audio media entry classified as an album track,
// wiring artist, album and genre through the ingest path.
func seedAlbumTrack(t *testing.T, repo *Repository, title, artist, album, genre string, duration int64) *models.Media {
	t.Helper()
	media, err := repo.IngestProbedFile(&models.ProbedMediaInfo{
		MRL:        "file:///music/" + title + ".flac",
		Title:      title,
		Type:       models.MediaTypeAudio,
		Duration:   duration,
		ArtistName: artist,
		AlbumTitle: album,
		GenreName:  genre,
		Tracks:     []models.ProbedTrack{{Type: models.TrackTypeAudio, Codec: "flac"}},
	})
	require.NoError(t, err)
	require.NotNil(t, media)
	return media
}

func TestDBBackedRepository(t *testing.T) {
	repo, tearDown := newTestRepository(t)
	defer tearDown()

	t.Run("Media operations", func(t *testing.T) {
		media := &models.Media{
			Type:  models.MediaTypeVideo,
			Title: "Test Video",
		}
		err := repo.CreateMedia(media)
		assert.NoError(t, err)
		assert.NotZero(t, media.ID)
		assert.Equal(t, "test video", media.TitleSort)

		retrieved, err := repo.GetMedia(media.ID)
		assert.NoError(t, err)
		assert.Equal(t, media.Title, retrieved.Title)

		retrieved.Title = "Renamed Video"
		err = repo.SaveMedia(retrieved)
		assert.NoError(t, err)

		updated, err := repo.GetMedia(media.ID)
		assert.NoError(t, err)
		assert.Equal(t, "Renamed Video", updated.Title)
		assert.Equal(t, "renamed video", updated.TitleSort)

		err = repo.DeleteMedia(media.ID)
		assert.NoError(t, err)

		_, err = repo.GetMedia(media.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Unknown media id maps to ErrNotFound", func(t *testing.T) {
		_, err := repo.GetMedia(999999)
		assert.ErrorIs(t, err, models.ErrNotFound)

		err = repo.DeleteMedia(999999)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("Subtype must match type", func(t *testing.T) {
		media := &models.Media{
			Type:    models.MediaTypeAudio,
			Subtype: models.MediaSubtypeMovie,
			Title:   "Bad Combination",
		}
		err := repo.CreateMedia(media)
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})

	t.Run("Dangling references are rejected", func(t *testing.T) {
		missing := int64(424242)
		media := &models.Media{
			Type:       models.MediaTypeAudio,
			Subtype:    models.MediaSubtypeAlbumTrack,
			Title:      "Orphan Track",
			AlbumTrack: &models.AlbumTrack{ArtistID: &missing},
		}
		err := repo.CreateMedia(media)
		assert.ErrorIs(t, err, models.ErrDanglingReference)

		// Nothing must have been written.
		var count int64
		require.NoError(t, repo.DB().Model(&models.Media{}).
			Where("title = ?", "Orphan Track").Count(&count).Error)
		assert.Zero(t, count)
	})
}

func TestDeleteMediaCascade(t *testing.T) {
	repo, tearDown := newTestRepository(t)
	defer tearDown()

	first := seedAlbumTrack(t, repo, "Track One", "The Band", "The Album", "Rock", 120000)
	second := seedAlbumTrack(t, repo, "Track Two", "The Band", "The Album", "Rock", 180000)

	require.NotNil(t, first.AlbumTrack)
	albumID := *first.AlbumTrack.AlbumID
	artistID := *first.AlbumTrack.ArtistID
	genreID := *first.AlbumTrack.GenreID

	album, err := repo.GetAlbum(albumID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), album.TrackCount)
	assert.Equal(t, int64(300000), album.Duration)

	// Attach a preference, a label and a playlist entry so the cascade has
	// something to clean up.
	require.NoError(t, repo.SetPlaybackPref(first.ID, models.PrefProgress, "0.5"))
	label, err := repo.GetOrCreateLabel("keeper")
	require.NoError(t, err)
	require.NoError(t, repo.AttachLabel(first.ID, label.ID))
	playlist, err := repo.CreatePlaylist("mix")
	require.NoError(t, err)
	require.NoError(t, repo.AppendToPlaylist(playlist.ID, first.ID))
	require.NoError(t, repo.AppendToPlaylist(playlist.ID, second.ID))

	require.NoError(t, repo.DeleteMedia(first.ID))

	// Aggregates reflect the remaining track.
	album, err = repo.GetAlbum(albumID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), album.TrackCount)
	assert.Equal(t, int64(180000), album.Duration)

	artist, err := repo.GetArtist(artistID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), artist.TrackCount)

	// Dependent rows are gone.
	var count int64
	require.NoError(t, repo.DB().Model(&models.PlaybackPreference{}).
		Where("media_id = ?", first.ID).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, repo.DB().Model(&models.MediaLabel{}).
		Where("media_id = ?", first.ID).Count(&count).Error)
	assert.Zero(t, count)

	// The playlist compacted down to the surviving entry at position 0.
	items, err := repo.ListMediaOfPlaylist(playlist.ID, queryAll())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)

	// Deleting the last track reaps the whole audio hierarchy.
	require.NoError(t, repo.DeleteMedia(second.ID))
	_, err = repo.GetAlbum(albumID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.GetArtist(artistID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.GetGenre(genreID)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestDeleteMediaUnder(t *testing.T) {
	repo, tearDown := newTestRepository(t)
	defer tearDown()

	inside, err := repo.IngestProbedFile(&models.ProbedMediaInfo{
		MRL:   "file:///music/inside.mp3",
		Title: "Inside",
		Type:  models.MediaTypeAudio,
	})
	require.NoError(t, err)
	outside, err := repo.IngestProbedFile(&models.ProbedMediaInfo{
		MRL:   "file:///other/outside.mp3",
		Title: "Outside",
		Type:  models.MediaTypeAudio,
	})
	require.NoError(t, err)

	require.NoError(t, repo.DeleteMediaUnder("file:///music"))

	_, err = repo.GetMedia(inside.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)
	_, err = repo.GetMedia(outside.ID)
	assert.NoError(t, err)

	// A root that is a prefix of a sibling folder name must not match it.
	sibling, err := repo.IngestProbedFile(&models.ProbedMediaInfo{
		MRL:   "file:///music2/song.mp3",
		Title: "Sibling",
		Type:  models.MediaTypeAudio,
	})
	require.NoError(t, err)
	require.NoError(t, repo.DeleteMediaUnder("file:///music"))
	_, err = repo.GetMedia(sibling.ID)
	assert.NoError(t, err)
}

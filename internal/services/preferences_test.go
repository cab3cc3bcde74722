package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"medialib/internal/models"
)

func TestPlaybackPreferences(t *testing.T) {
	repo, tearDown := newTestRepository(t)
	defer tearDown()

	media := seedVideos(t, repo, "Prefs Target")[0]

	t.Run("Unset key reads as absent", func(t *testing.T) {
		_, ok, err := repo.GetPlaybackPref(media.ID, models.PrefProgress)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("Set then get", func(t *testing.T) {
		require.NoError(t, repo.SetPlaybackPref(media.ID, models.PrefProgress, "0.25"))
		value, ok, err := repo.GetPlaybackPref(media.ID, models.PrefProgress)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "0.25", value)
	})

	t.Run("Set overwrites", func(t *testing.T) {
		require.NoError(t, repo.SetPlaybackPref(media.ID, models.PrefProgress, "0.75"))
		value, _, err := repo.GetPlaybackPref(media.ID, models.PrefProgress)
		require.NoError(t, err)
		assert.Equal(t, "0.75", value)

		var count int64
		require.NoError(t, repo.DB().Model(&models.PlaybackPreference{}).
			Where("media_id = ?", media.ID).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("Keys are independent", func(t *testing.T) {
		require.NoError(t, repo.SetPlaybackPref(media.ID, models.PrefSpeed, "1.5"))
		progress, _, err := repo.GetPlaybackPref(media.ID, models.PrefProgress)
		require.NoError(t, err)
		assert.Equal(t, "0.75", progress)
	})

	t.Run("Unset removes, unsetting again is a no-op", func(t *testing.T) {
		require.NoError(t, repo.UnsetPlaybackPref(media.ID, models.PrefProgress))
		_, ok, err := repo.GetPlaybackPref(media.ID, models.PrefProgress)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, repo.UnsetPlaybackPref(media.ID, models.PrefProgress))
	})

	t.Run("Invalid key is rejected", func(t *testing.T) {
		err := repo.SetPlaybackPref(media.ID, models.PrefKey(99), "x")
		assert.ErrorIs(t, err, models.ErrInvalidArgument)
	})

	t.Run("Missing media is not found", func(t *testing.T) {
		err := repo.SetPlaybackPref(999999, models.PrefSeen, "1")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestPlayCountAndFavorites(t *testing.T) {
	repo, tearDown := newTestRepository(t)
	defer tearDown()

	media := seedVideos(t, repo, "Counted")[0]

	require.NoError(t, repo.IncreasePlayCount(media.ID))
	require.NoError(t, repo.IncreasePlayCount(media.ID))

	refreshed, err := repo.GetMedia(media.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), refreshed.PlayCount)
	assert.NotNil(t, refreshed.LastPlayedAt)

	require.NoError(t, repo.SetMediaFavorite(media.ID, true))
	refreshed, err = repo.GetMedia(media.ID)
	require.NoError(t, err)
	assert.True(t, refreshed.IsFavorite)

	require.NoError(t, repo.SetMediaThumbnail(media.ID, "file:///art/cover.jpg"))
	refreshed, err = repo.GetMedia(media.ID)
	require.NoError(t, err)
	assert.Equal(t, "file:///art/cover.jpg", refreshed.ArtworkMRL)

	err = repo.IncreasePlayCount(999999)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestLabels(t *testing.T) {
	repo, tearDown := newTestRepository(t)
	defer tearDown()

	media := seedVideos(t, repo, "Labeled", "Unlabeled")
	label, err := repo.GetOrCreateLabel("favorites")
	require.NoError(t, err)

	// Creating again returns the same row.
	again, err := repo.GetOrCreateLabel("favorites")
	require.NoError(t, err)
	assert.Equal(t, label.ID, again.ID)

	require.NoError(t, repo.AttachLabel(media[0].ID, label.ID))
	require.NoError(t, repo.AttachLabel(media[0].ID, label.ID)) // idempotent

	labels, err := repo.ListLabelsOfMedia(media[0].ID)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "favorites", labels[0].Name)

	tagged, err := repo.ListMediaOfLabel(label.ID, queryAll())
	require.NoError(t, err)
	require.Len(t, tagged, 1)
	assert.Equal(t, media[0].ID, tagged[0].ID)

	require.NoError(t, repo.DetachLabel(media[0].ID, label.ID))
	labels, err = repo.ListLabelsOfMedia(media[0].ID)
	require.NoError(t, err)
	assert.Empty(t, labels)

	// Detaching everywhere does not delete the label itself.
	_, err = repo.ListMediaOfLabel(label.ID, queryAll())
	assert.NoError(t, err)

	require.NoError(t, repo.DeleteLabel(label.ID))
	_, err = repo.ListMediaOfLabel(label.ID, queryAll())
	assert.ErrorIs(t, err, models.ErrNotFound)
}

package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubtypeConsistency(t *testing.T) {
	assert.True(t, MediaSubtypeAlbumTrack.ConsistentWith(MediaTypeAudio))
	assert.False(t, MediaSubtypeAlbumTrack.ConsistentWith(MediaTypeVideo))
	assert.True(t, MediaSubtypeMovie.ConsistentWith(MediaTypeVideo))
	assert.True(t, MediaSubtypeShowEpisode.ConsistentWith(MediaTypeVideo))
	assert.False(t, MediaSubtypeShowEpisode.ConsistentWith(MediaTypeStream))
	// Unknown subtype fits any type.
	assert.True(t, MediaSubtypeUnknown.ConsistentWith(MediaTypeExternal))
}

func TestMediaExtra(t *testing.T) {
	media := &Media{Subtype: MediaSubtypeAlbumTrack, AlbumTrack: &AlbumTrack{MediaID: 7}}
	extra := media.Extra()
	track, ok := extra.(AlbumTrack)
	assert.True(t, ok)
	assert.Equal(t, int64(7), track.MediaID)

	// Payload row not loaded.
	assert.Nil(t, (&Media{Subtype: MediaSubtypeMovie}).Extra())
	assert.Nil(t, (&Media{}).Extra())

	// Mismatched payloads are not surfaced.
	mismatched := &Media{Subtype: MediaSubtypeMovie, AlbumTrack: &AlbumTrack{}}
	assert.Nil(t, mismatched.Extra())
}

func TestPrefKey(t *testing.T) {
	assert.True(t, PrefRating.Valid())
	assert.True(t, PrefAppSpecific.Valid())
	assert.False(t, PrefKey(-1).Valid())
	assert.False(t, PrefKey(100).Valid())

	assert.Equal(t, "progress", PrefProgress.String())
	assert.Equal(t, "subtitle_delay", PrefSubtitleDelay.String())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "audio", MediaTypeAudio.String())
	assert.Equal(t, "stream", MediaTypeStream.String())
	assert.Equal(t, "unknown", MediaType(42).String())
	assert.Equal(t, "album_track", MediaSubtypeAlbumTrack.String())
}

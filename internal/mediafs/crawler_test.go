package mediafs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, make([]byte, size), 0o644))
	return p
}

func TestFSCrawler(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "song.mp3", 10)
	writeFile(t, root, "notes.txt", 5)
	writeFile(t, root, filepath.Join("sub", "clip.mkv"), 20)
	writeFile(t, root, filepath.Join("skipme", "hidden.mp3"), 30)

	crawler := NewFSCrawler()
	bannedDir := PathToMRL(filepath.Join(root, "skipme"))
	entries, err := crawler.Crawl(context.Background(), PathToMRL(root), func(mrl string) bool {
		return mrl == bannedDir
	})
	require.NoError(t, err)

	mrls := make(map[string]int64)
	for _, e := range entries {
		mrls[e.MRL] = e.Size
	}
	assert.Len(t, mrls, 2)
	assert.Equal(t, int64(10), mrls[PathToMRL(filepath.Join(root, "song.mp3"))])
	assert.Equal(t, int64(20), mrls[PathToMRL(filepath.Join(root, "sub", "clip.mkv"))])
}

func TestFSCrawlerRejectsNonFileMRL(t *testing.T) {
	crawler := NewFSCrawler()
	_, err := crawler.Crawl(context.Background(), "smb://server/share", nil)
	assert.Error(t, err)
}

func TestFSCrawlerHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "song.mp3", 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFSCrawler().Crawl(ctx, PathToMRL(root), nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMRLConversion(t *testing.T) {
	p := filepath.Join(string(filepath.Separator), "media", "library")
	mrl := PathToMRL(p)
	assert.Equal(t, "file:///media/library", mrl)
	assert.Equal(t, p, MRLToPath(mrl))

	assert.Empty(t, MRLToPath("https://example.com/x"))
	assert.Empty(t, MRLToPath("::bad::"))
}

func TestIsMediaFile(t *testing.T) {
	assert.True(t, isMediaFile("a.MP3"))
	assert.True(t, isMediaFile("b.mkv"))
	assert.False(t, isMediaFile("c.txt"))
	assert.False(t, isMediaFile("noext"))
}

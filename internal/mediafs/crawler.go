package mediafs

import (
	"context"
	"io/fs"
	"net/url"
	"path/filepath"
	"strings"
)

// Entry is one file found under a discovery root.
type Entry struct {
	MRL  string
	Size int64
}

// Crawler walks a discovery root and returns the media files beneath it.
// The banned callback is consulted per directory so a subtree banned while
// the walk runs is skipped.
type Crawler interface {
	Crawl(ctx context.Context, rootMRL string, banned func(mrl string) bool) ([]Entry, error)
}

// Media file extensions recognized by the default crawler.
var mediaExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
	".ogg":  true,
	".oga":  true,
	".m4a":  true,
	".aac":  true,
	".opus": true,
	".wav":  true,
	".wma":  true,
	".mp4":  true,
	".m4v":  true,
	".mkv":  true,
	".avi":  true,
	".mov":  true,
	".webm": true,
	".wmv":  true,
	".flv":  true,
	".mpg":  true,
	".mpeg": true,
	".ts":   true,
}

func isMediaFile(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}

// PathToMRL converts a local filesystem path to a file:// MRL.
func PathToMRL(p string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(p)}
	return u.String()
}

// MRLToPath converts a file:// MRL back to a local path. Non-file schemes
// return an empty string.
func MRLToPath(mrl string) string {
	u, err := url.Parse(mrl)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return filepath.FromSlash(u.Path)
}

// FSCrawler walks local directories addressed by file:// MRLs.
type FSCrawler struct{}

// NewFSCrawler creates a crawler over the local filesystem.
func NewFSCrawler() *FSCrawler {
	return &FSCrawler{}
}

// Crawl walks the root depth-first, skipping banned subtrees and collecting
// files with a recognized media extension.
func (c *FSCrawler) Crawl(ctx context.Context, rootMRL string, banned func(mrl string) bool) ([]Entry, error) {
	root := MRLToPath(rootMRL)
	if root == "" {
		return nil, &fs.PathError{Op: "crawl", Path: rootMRL, Err: fs.ErrInvalid}
	}
	var entries []Entry
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped, not fatal.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if banned != nil && banned(PathToMRL(p)) {
				return fs.SkipDir
			}
			return nil
		}
		if !isMediaFile(d.Name()) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		entries = append(entries, Entry{MRL: PathToMRL(p), Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

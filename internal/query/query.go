// Package query compiles list/count parameters into GORM clauses. Every
// compiled ordering is total: the requested criterion is always followed by
// an ascending id tie-break so pagination windows are stable across calls.
package query

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Sort is the requested sorting criterion.
type Sort int

const (
	// SortDefault depends on the listing: track number and disc number
	// ascending for album tracks, alphabetical for everything else.
	SortDefault Sort = iota
	SortAlpha
	SortDuration
	SortInsertionDate
	SortLastModificationDate
	SortReleaseDate
	SortFileSize
	SortArtist
	SortPlayCount
	SortAlbum
	SortFilename
	SortTrackNumber
)

func (s Sort) String() string {
	switch s {
	case SortAlpha:
		return "alpha"
	case SortDuration:
		return "duration"
	case SortInsertionDate:
		return "insertion_date"
	case SortLastModificationDate:
		return "last_modification_date"
	case SortReleaseDate:
		return "release_date"
	case SortFileSize:
		return "file_size"
	case SortArtist:
		return "artist"
	case SortPlayCount:
		return "play_count"
	case SortAlbum:
		return "album"
	case SortFilename:
		return "filename"
	case SortTrackNumber:
		return "track_number"
	default:
		return "default"
	}
}

// Params carries the caller-supplied listing parameters. A zero value means
// no pattern filter, no pagination, default ascending sort.
type Params struct {
	Pattern string // case-insensitive substring match on the display name
	Limit   uint32 // 0 = unlimited
	Offset  uint32
	Sort    Sort
	Desc    bool
}

// Columns maps each supported criterion to the ORDER BY expression for one
// listing. Criteria absent from the map fall back to the default expression.
type Columns map[Sort]string

// PatternClause applies the case-insensitive substring filter against the
// given lowercased column. An empty pattern filters nothing.
func (p Params) PatternClause(db *gorm.DB, sortColumn string) *gorm.DB {
	if p.Pattern == "" {
		return db
	}
	like := "%" + strings.ToLower(p.Pattern) + "%"
	return db.Where(fmt.Sprintf("%s LIKE ?", sortColumn), like)
}

// OrderClause builds the total ORDER BY for the listing. tieBreak is the
// qualified id column appended ascending; it keeps equal-keyed rows in a
// reproducible order.
func (p Params) OrderClause(cols Columns, fallback, tieBreak string) string {
	expr, ok := cols[p.Sort]
	if !ok || expr == "" {
		expr = fallback
	}
	dir := "ASC"
	if p.Desc {
		dir = "DESC"
	}
	var b strings.Builder
	for i, part := range strings.Split(expr, ",") {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(strings.TrimSpace(part))
		b.WriteByte(' ')
		b.WriteString(dir)
	}
	b.WriteString(", ")
	b.WriteString(tieBreak)
	b.WriteString(" ASC")
	return b.String()
}

// Window applies the offset/limit pagination window. Offset without limit is
// honored; limit 0 means unlimited.
func (p Params) Window(db *gorm.DB) *gorm.DB {
	if p.Offset > 0 {
		db = db.Offset(int(p.Offset))
	}
	if p.Limit > 0 {
		db = db.Limit(int(p.Limit))
	}
	return db
}

// Apply compiles the full parameter set against a base statement: pattern
// filter on patternColumn, total ordering per cols/fallback, then the
// pagination window.
func (p Params) Apply(db *gorm.DB, patternColumn string, cols Columns, fallback, tieBreak string) *gorm.DB {
	db = p.PatternClause(db, patternColumn)
	db = db.Order(p.OrderClause(cols, fallback, tieBreak))
	return p.Window(db)
}

// Counted applies only the clauses that affect cardinality: the pattern
// filter. Counts ignore limit/offset and ordering.
func (p Params) Counted(db *gorm.DB, patternColumn string) *gorm.DB {
	return p.PatternClause(db, patternColumn)
}

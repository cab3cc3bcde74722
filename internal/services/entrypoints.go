package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"medialib/internal/models"
)

// Entrypoint persistence. A root is one of: absent (no row), present,
// present and banned, or removed (row kept with Present=false so the banned
// flag survives a remove/re-add cycle).

// normalizeMRL strips a trailing slash so the same folder always maps to
// the same row.
func normalizeMRL(mrl string) string {
	return strings.TrimSuffix(strings.TrimSpace(mrl), "/")
}

// FindEntrypoint returns the row for an MRL, or ErrNotFound.
func (r *Repository) FindEntrypoint(mrl string) (*models.Entrypoint, error) {
	var ep models.Entrypoint
	err := r.db.Where("mrl = ?", normalizeMRL(mrl)).First(&ep).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return &ep, nil
}

// ListPresentEntrypoints returns the roots currently offered for discovery,
// banned ones included.
func (r *Repository) ListPresentEntrypoints() ([]models.Entrypoint, error) {
	var eps []models.Entrypoint
	err := r.db.Where("present = ?", true).Order("mrl ASC").Find(&eps).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return eps, nil
}

// ListEntrypoints returns every discovery root row, removed ones included.
func (r *Repository) ListEntrypoints() ([]models.Entrypoint, error) {
	var eps []models.Entrypoint
	if err := r.db.Order("mrl ASC").Find(&eps).Error; err != nil {
		return nil, wrapErr(err)
	}
	return eps, nil
}

// AddEntrypoint registers a discovery root. Re-adding a removed root
// restores it with its banned flag intact; adding a root that is already
// present is a no-op. Returns the row and whether discovery should run.
func (r *Repository) AddEntrypoint(mrl string) (*models.Entrypoint, bool, error) {
	mrl = normalizeMRL(mrl)
	if mrl == "" {
		return nil, false, models.ErrInvalidArgument
	}
	var ep models.Entrypoint
	var crawl bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.Where("mrl = ?", mrl).First(&ep).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ep = models.Entrypoint{MRL: mrl, Present: true}
			crawl = true
			return tx.Create(&ep).Error
		}
		if err != nil {
			return err
		}
		if ep.Present {
			return nil
		}
		ep.Present = true
		crawl = !ep.Banned
		return tx.Save(&ep).Error
	})
	if err != nil {
		return nil, false, wrapErr(err)
	}
	return &ep, crawl && !ep.Banned, nil
}

// MarkEntrypointRemoved flips a root to the removed state. Unknown MRLs are
// a no-op; the ok return says whether a present root was actually removed.
func (r *Repository) MarkEntrypointRemoved(mrl string) (bool, error) {
	mrl = normalizeMRL(mrl)
	var removed bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ep models.Entrypoint
		err := tx.Where("mrl = ?", mrl).First(&ep).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if !ep.Present {
			return nil
		}
		ep.Present = false
		removed = true
		return tx.Save(&ep).Error
	})
	return removed, wrapErr(err)
}

// SetEntrypointBanned flips the banned flag on a present root. The ok
// return says whether the flag actually changed.
func (r *Repository) SetEntrypointBanned(mrl string, banned bool) (bool, error) {
	mrl = normalizeMRL(mrl)
	var changed bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var ep models.Entrypoint
		err := tx.Where("mrl = ?", mrl).First(&ep).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if ep.Banned == banned {
			return nil
		}
		ep.Banned = banned
		changed = true
		return tx.Save(&ep).Error
	})
	return changed, wrapErr(err)
}

// BannedRoots returns the MRLs of every banned root, present or removed.
// The crawler and the consistency pass both prune against this set.
func (r *Repository) BannedRoots() ([]string, error) {
	var mrls []string
	err := r.db.Model(&models.Entrypoint{}).
		Where("banned = ?", true).
		Order("mrl ASC").
		Pluck("mrl", &mrls).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return mrls, nil
}

// RemovedRoots returns the MRLs of roots in the removed state. Kept rows
// whose media should be gone; the consistency pass sweeps them again in
// case a removal was interrupted.
func (r *Repository) RemovedRoots() ([]string, error) {
	var mrls []string
	err := r.db.Model(&models.Entrypoint{}).
		Where("present = ?", false).
		Order("mrl ASC").
		Pluck("mrl", &mrls).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return mrls, nil
}

// IsUnderBannedRoot reports whether an MRL falls inside any banned root.
// Rechecked inside ingest transactions so a ban landing mid-crawl wins.
func IsUnderBannedRoot(tx *gorm.DB, mrl string) (bool, error) {
	var count int64
	err := tx.Model(&models.Entrypoint{}).
		Where("banned = ?", true).
		Where("? LIKE mrl || '/%'", mrl).
		Count(&count).Error
	return count > 0, err
}

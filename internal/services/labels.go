package services

import (
	"errors"

	"gorm.io/gorm"

	"medialib/internal/models"
)

// Labels are free-form tags attached to media. A label row is created on
// first use and lives until explicitly deleted; detaching it from every
// media entry does not remove it.

// GetOrCreateLabel returns the label with the given name, creating it when
// it does not exist yet.
func (r *Repository) GetOrCreateLabel(name string) (*models.Label, error) {
	if name == "" {
		return nil, models.ErrInvalidArgument
	}
	var label models.Label
	err := r.db.Where("name = ?", name).First(&label).Error
	if err == nil {
		return &label, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, wrapErr(err)
	}
	label = models.Label{Name: name}
	if err := r.db.Create(&label).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &label, nil
}

// AttachLabel links a label to a media entry. Attaching an already attached
// label is a no-op.
func (r *Repository) AttachLabel(mediaID, labelID int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRowTx(tx, &models.Media{}, mediaID); err != nil {
			return err
		}
		if err := requireRowTx(tx, &models.Label{}, labelID); err != nil {
			return err
		}
		var count int64
		err := tx.Model(&models.MediaLabel{}).
			Where("media_id = ? AND label_id = ?", mediaID, labelID).
			Count(&count).Error
		if err != nil {
			return err
		}
		if count > 0 {
			return nil
		}
		return tx.Create(&models.MediaLabel{MediaID: mediaID, LabelID: labelID}).Error
	})
	return wrapErr(err)
}

// DetachLabel unlinks a label from a media entry.
func (r *Repository) DetachLabel(mediaID, labelID int64) error {
	if err := r.requireRow(&models.Media{}, mediaID); err != nil {
		return err
	}
	if err := r.requireRow(&models.Label{}, labelID); err != nil {
		return err
	}
	err := r.db.Where("media_id = ? AND label_id = ?", mediaID, labelID).
		Delete(&models.MediaLabel{}).Error
	return wrapErr(err)
}

// DeleteLabel removes a label and all of its media associations.
func (r *Repository) DeleteLabel(labelID int64) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := requireRowTx(tx, &models.Label{}, labelID); err != nil {
			return err
		}
		if err := tx.Where("label_id = ?", labelID).Delete(&models.MediaLabel{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Label{}, labelID).Error
	})
	return wrapErr(err)
}

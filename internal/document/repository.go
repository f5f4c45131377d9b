package document

import (
	"errors"

	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/database"
)

type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// Upsert writes a document row keyed by the case's code_id: one row per
// (type, code_id), updated in place on resubmission. The check-then-write
// runs inside one transaction with the existing row locked, so concurrent
// uploads for the same case cannot produce duplicates.
func (r *Repository) Upsert(dt DocType, codeID, fileName, displayName, status string) (UpsertResult, error) {
	meta := Meta(dt)
	if status == "" {
		status = StatusPending
	}

	var res UpsertResult
	err := r.DB.Transaction(func(tx *gorm.DB) error {
		var existing Document
		err := database.LockForUpdate(tx).Table(meta.Table).
			Where("code_id = ?", codeID).
			Limit(1).
			Take(&existing).Error

		switch {
		case err == nil:
			if err := tx.Table(meta.Table).
				Where("code_id = ?", codeID).
				Updates(map[string]interface{}{
					"file_name":    fileName,
					"display_name": displayName,
					"status":       status,
				}).Error; err != nil {
				return err
			}
			res = UpsertResult{Action: "updated", ID: existing.ID}
			return nil

		case errors.Is(err, gorm.ErrRecordNotFound):
			doc := Document{
				CodeID:      codeID,
				FileName:    fileName,
				DisplayName: displayName,
				Status:      status,
			}
			if err := tx.Table(meta.Table).Create(&doc).Error; err != nil {
				return err
			}
			res = UpsertResult{Action: "inserted", ID: doc.ID}
			return nil

		default:
			return err
		}
	})

	return res, err
}

// Latest returns the most recent document row of the given type for a case,
// or nil when nothing has been submitted.
func (r *Repository) Latest(dt DocType, codeID string) (*Document, error) {
	var doc Document
	err := r.DB.Table(Meta(dt).Table).
		Where("code_id = ?", codeID).
		Order("uploaded_at DESC").
		Limit(1).
		Take(&doc).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpdateStatus sets the approval state (and rejection reason) of a case's
// document of the given type.
func (r *Repository) UpdateStatus(dt DocType, codeID, status string, rejectionReason *string) error {
	return r.DB.Table(Meta(dt).Table).
		Where("code_id = ?", codeID).
		Updates(map[string]interface{}{
			"status":           status,
			"rejection_reason": rejectionReason,
		}).Error
}

// ApproveAll marks every submitted document of every type Approved for a
// case. Used when an admin accepts an application wholesale.
func (r *Repository) ApproveAll(codeID string) error {
	for _, dt := range AllTypes() {
		if err := r.DB.Table(Meta(dt).Table).
			Where("code_id = ?", codeID).
			Update("status", StatusApproved).Error; err != nil {
			return err
		}
	}
	return nil
}

// Delete removes a case's document of the given type. Reports whether a row
// was actually deleted.
func (r *Repository) Delete(dt DocType, codeID string) (bool, error) {
	res := r.DB.Table(Meta(dt).Table).Where("code_id = ?", codeID).Delete(&Document{})
	return res.RowsAffected > 0, res.Error
}

// Checklist assembles the submission state of every registered document type
// for one case.
func (r *Repository) Checklist(codeID string) ([]StatusReport, error) {
	var out []StatusReport
	for _, dt := range AllTypes() {
		doc, err := r.Latest(dt, codeID)
		if err != nil {
			return nil, err
		}
		out = append(out, StatusReport{
			Type:        dt,
			DisplayName: Meta(dt).DisplayName,
			Submitted:   doc != nil,
			Document:    doc,
		})
	}
	return out, nil
}

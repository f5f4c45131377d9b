package workflow

import (
	"context"
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/database"
	"github.com/mswdo/soloparent-backend/internal/applicant"
	"github.com/mswdo/soloparent-backend/internal/document"
)

// RecomputeOutcome is the verdict of one document-completeness pass.
type RecomputeOutcome struct {
	Status  Status             `json:"status"`
	Changed bool               `json:"changed"`
	Missing []document.DocType `json:"missing,omitempty"`
}

// recomputable are the statuses the document pass may move. A case under
// investigation, terminated, or mid-renewal keeps its status regardless of
// its paperwork.
var recomputable = map[Status]bool{
	StatusPending:    true,
	StatusIncomplete: true,
	StatusVerified:   true,
}

// Recompute re-derives a case's status from its required documents: Verified
// when every required document is submitted and Approved, Incomplete
// otherwise. The same pass runs inline when an admin approves a single
// document; both paths share recomputeLocked.
func (s *Service) Recompute(ctx context.Context, codeID string, opt Options) (*RecomputeOutcome, error) {
	var (
		outcome *RecomputeOutcome
		user    *applicant.User
	)
	err := database.WithTxRetry(s.db, txAttempts, txDelay, func(tx *gorm.DB) error {
		u, err := s.users.GetByCodeIDForUpdate(tx, codeID)
		if err != nil {
			return err
		}
		user = u
		outcome, err = s.recomputeLocked(tx, u)
		return err
	})
	if err != nil {
		return nil, err
	}
	if outcome.Changed {
		s.logTransition(ctx, user, eventFor(outcome), Result{To: outcome.Status}, opt)
	}
	return outcome, nil
}

func eventFor(o *RecomputeOutcome) Event {
	if o.Status == StatusVerified {
		return EventDocumentsComplete
	}
	return EventDocumentsIncomplete
}

// recomputeLocked runs inside a transaction holding the user row lock. A
// document that is missing, Pending, or Rejected all count as not ready;
// the three are deliberately not distinguished here.
func (s *Service) recomputeLocked(tx *gorm.DB, u *applicant.User) (*RecomputeOutcome, error) {
	current, err := ParseStatus(u.Status)
	if err != nil {
		return nil, err
	}
	if !recomputable[current] {
		return &RecomputeOutcome{Status: current}, nil
	}

	users := &applicant.Repository{DB: tx}
	docs := &document.Repository{DB: tx}

	civilStatus, err := users.CivilStatus(u.CodeID)
	if err != nil {
		return nil, err
	}

	var missing []document.DocType
	for _, dt := range document.RequiredFor(civilStatus) {
		doc, err := docs.Latest(dt, u.CodeID)
		if err != nil {
			return nil, err
		}
		if doc == nil || doc.Status != document.StatusApproved {
			missing = append(missing, dt)
		}
	}

	event := EventDocumentsComplete
	if len(missing) > 0 {
		event = EventDocumentsIncomplete
	}

	tr, err := Next(current, event)
	if err != nil {
		// Verified with complete documents has no edge: nothing to do.
		if _, illegal := err.(*ErrIllegalTransition); illegal {
			return &RecomputeOutcome{Status: current, Missing: missing}, nil
		}
		return nil, err
	}
	if tr.To == current {
		return &RecomputeOutcome{Status: current, Missing: missing}, nil
	}

	if err := users.UpdateStatus(tx, u.ID, string(tr.To)); err != nil {
		return nil, err
	}
	for _, effect := range tr.Effects {
		if err := s.runEffect(tx, effect, u, event, Options{}, new([]pendingEmail)); err != nil {
			return nil, err
		}
	}

	log.Printf("🔄 Case %s recomputed: %s → %s (missing: %d)", u.CodeID, current, tr.To, len(missing))
	return &RecomputeOutcome{Status: tr.To, Changed: true, Missing: missing}, nil
}

// DecideDocument applies an admin's approve/reject decision to one document
// and, on approval, re-runs the completeness pass in the same transaction.
func (s *Service) DecideDocument(ctx context.Context, dt document.DocType, codeID string, approve bool, reason string, opt Options) (*RecomputeOutcome, error) {
	meta := document.Meta(dt)
	var outcome *RecomputeOutcome

	err := database.WithTxRetry(s.db, txAttempts, txDelay, func(tx *gorm.DB) error {
		u, err := s.users.GetByCodeIDForUpdate(tx, codeID)
		if err != nil {
			return err
		}
		outcome = nil

		docs := &document.Repository{DB: tx}
		existing, err := docs.Latest(dt, codeID)
		if err != nil {
			return err
		}
		if existing == nil {
			return gorm.ErrRecordNotFound
		}

		status := document.StatusApproved
		var rejection *string
		msg := fmt.Sprintf("Your %s has been approved.", meta.DisplayName)
		if !approve {
			status = document.StatusRejected
			rejection = &reason
			msg = fmt.Sprintf("Your %s has been rejected. Reason: %s. Please re-upload.", meta.DisplayName, reason)
		}

		if err := docs.UpdateStatus(dt, codeID, status, rejection); err != nil {
			return err
		}
		if err := s.notifs.InsertFollowUp(tx, u.ID, msg); err != nil {
			return err
		}

		// Approval may complete the set; rejection may demote a Verified
		// case. Either way the verdict comes from the same pass.
		outcome, err = s.recomputeLocked(tx, u)
		return err
	})
	if err != nil {
		return nil, err
	}

	action := "document.reject"
	if approve {
		action = "document.approve"
	}
	_ = s.audit.LogAction(ctx, actorTypeOf(opt), actorIDOf(opt), action, codeID, map[string]interface{}{
		"document": string(dt),
		"outcome":  string(outcome.Status),
	}, opt.IP, "success")
	return outcome, nil
}

func actorTypeOf(opt Options) string {
	switch {
	case opt.ActorType != "":
		return opt.ActorType
	case opt.AdminID != nil:
		return "admin"
	case opt.SuperadminID != nil:
		return "superadmin"
	default:
		return "system"
	}
}

func actorIDOf(opt Options) *uint {
	if opt.AdminID != nil {
		return opt.AdminID
	}
	return opt.SuperadminID
}

package workflow

import (
	"context"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/database"
	"github.com/mswdo/soloparent-backend/internal/applicant"
	"github.com/mswdo/soloparent-backend/internal/auditlog"
	"github.com/mswdo/soloparent-backend/internal/document"
	"github.com/mswdo/soloparent-backend/internal/notification"
)

const (
	txAttempts = 3
	txDelay    = time.Second
)

type Service struct {
	db     *gorm.DB
	users  *applicant.Repository
	notifs *notification.Repository
	mail   *notification.EmailQueue
	audit  auditlog.Service
}

func NewService(db *gorm.DB, users *applicant.Repository, notifs *notification.Repository, mail *notification.EmailQueue, audit auditlog.Service) *Service {
	return &Service{db: db, users: users, notifs: notifs, mail: mail, audit: audit}
}

// Options carries per-transition context: who acted and any remarks text.
// Extra, when set, runs inside the transition's transaction after the status
// update and its effects, so caller-specific writes commit atomically with
// the transition.
type Options struct {
	Remarks      string
	AdminID      *uint
	SuperadminID *uint
	ActorType    string
	IP           string
	Extra        func(tx *gorm.DB) error
}

// Result reports what a transition did. EmailFailed means the status change
// committed but the outbound mail could not be queued or sent.
type Result struct {
	From Status
	To   Status
}

type pendingEmail struct {
	kind notification.EmailKind
	to   string
	data map[string]string
}

// Apply runs one workflow event against a case. The user row is locked FOR
// UPDATE, the transition and its notification effects commit atomically, and
// lock conflicts retry up to three times. Emails go out only after commit.
func (s *Service) Apply(ctx context.Context, userID uint, event Event, opt Options) (*Result, error) {
	var (
		res    Result
		emails []pendingEmail
		user   *applicant.User
	)

	err := database.WithTxRetry(s.db, txAttempts, txDelay, func(tx *gorm.DB) error {
		emails = emails[:0] // a retried attempt starts clean

		u, err := s.users.GetByIDForUpdate(tx, userID)
		if err != nil {
			return err
		}
		user = u

		from, err := ParseStatus(u.Status)
		if err != nil {
			return err
		}
		tr, err := Next(from, event)
		if err != nil {
			return err
		}

		if err := s.users.UpdateStatus(tx, userID, string(tr.To)); err != nil {
			return err
		}

		for _, effect := range tr.Effects {
			if err := s.runEffect(tx, effect, u, event, opt, &emails); err != nil {
				return err
			}
		}
		if opt.Extra != nil {
			if err := opt.Extra(tx); err != nil {
				return err
			}
		}

		res = Result{From: from, To: tr.To}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range emails {
		s.mail.Enqueue(e.kind, e.to, e.data)
	}
	s.logTransition(ctx, user, event, res, opt)
	return &res, nil
}

func (s *Service) runEffect(tx *gorm.DB, effect Effect, u *applicant.User, event Event, opt Options, emails *[]pendingEmail) error {
	docs := &document.Repository{DB: tx}

	switch effect {
	case EffectNotifyAccepted:
		return s.notifs.InsertAcceptedUnlessUnread(tx, u.ID, acceptedMessage(event))
	case EffectNotifyDeclined:
		remarks := opt.Remarks
		if remarks == "" {
			remarks = "Your solo parent application has been declined."
		}
		return s.notifs.InsertDeclinedUnlessUnread(tx, u.ID, remarks)
	case EffectNotifyTerminated:
		msg := "Your solo parent status has been terminated."
		if opt.Remarks != "" {
			msg = fmt.Sprintf("Your solo parent status has been terminated. Reason: %s", opt.Remarks)
		}
		return s.notifs.InsertTerminatedUnlessUnread(tx, u.ID, msg)

	case EffectNotifyAdminNewVerified:
		return s.notifs.NotifyAdminNewVerified(tx, u.ID, u.Name, u.Barangay)
	case EffectNotifyAdminTerminated:
		return s.notifs.InsertAdminNotification(tx, &notification.AdminNotification{
			UserID:    u.ID,
			NotifType: "terminated",
			Message:   fmt.Sprintf("%s's solo parent status has been terminated", u.Name),
			Barangay:  u.Barangay,
		})
	case EffectNotifyAdminReinstated:
		return s.notifs.InsertAdminNotification(tx, &notification.AdminNotification{
			UserID:    u.ID,
			NotifType: "reinstated",
			Message:   fmt.Sprintf("%s's solo parent status has been restored", u.Name),
			Barangay:  u.Barangay,
		})

	case EffectRecordRemark:
		if err := s.notifs.InsertRemark(tx, &notification.UserRemark{
			CodeID:       u.CodeID,
			UserID:       u.ID,
			AdminID:      opt.AdminID,
			SuperadminID: opt.SuperadminID,
			Remarks:      opt.Remarks,
		}); err != nil {
			return err
		}
		return s.notifs.NotifySuperadmin(tx, u.ID, "remarks",
			fmt.Sprintf("%s (%s) has been flagged for investigation", u.Name, u.Barangay),
			map[string]any{"code_id": u.CodeID, "barangay": u.Barangay, "remarks": opt.Remarks})

	case EffectNotifyChildRequest:
		return s.notifs.InsertChildRequestNotice(tx, u.ID, childRequestMessage(event))
	case EffectNotifySuperadminChildRequest:
		return s.notifs.NotifySuperadmin(tx, u.ID, "child_request",
			fmt.Sprintf("%s (%s) has a pending child information request", u.Name, u.Barangay),
			map[string]any{"code_id": u.CodeID, "barangay": u.Barangay})

	case EffectApproveAllDocuments:
		return docs.ApproveAll(u.CodeID)
	case EffectApproveBarangayCert:
		return docs.UpdateStatus(document.TypeBarangayCert, u.CodeID, document.StatusApproved, nil)
	case EffectDeleteBarangayCert:
		_, err := docs.Delete(document.TypeBarangayCert, u.CodeID)
		return err

	case EffectEmailStatus:
		*emails = append(*emails, pendingEmail{notification.EmailStatusUpdate, u.Email, map[string]string{"name": u.Name, "status": statusWord(event)}})
	case EffectEmailRenewal:
		*emails = append(*emails, pendingEmail{notification.EmailRenewal, u.Email, map[string]string{"name": u.Name}})
	case EffectEmailRevoke:
		*emails = append(*emails, pendingEmail{notification.EmailRevoke, u.Email, map[string]string{"name": u.Name, "remarks": opt.Remarks}})
	case EffectEmailTermination:
		*emails = append(*emails, pendingEmail{notification.EmailTermination, u.Email, map[string]string{"name": u.Name, "remarks": opt.Remarks}})
	case EffectEmailReverification:
		*emails = append(*emails, pendingEmail{notification.EmailReverification, u.Email, map[string]string{"name": u.Name}})
	case EffectEmailChildRequest:
		*emails = append(*emails, pendingEmail{notification.EmailChildRequest, u.Email, map[string]string{"name": u.Name, "message": childRequestMessage(event)}})

	default:
		return fmt.Errorf("unhandled effect %d", effect)
	}
	return nil
}

func acceptedMessage(event Event) string {
	switch event {
	case EventAccept:
		return "Congratulations! Your solo parent application has been accepted."
	case EventRenew:
		return "Your solo parent ID is up for renewal. Please submit your renewal requirements."
	case EventRenewalApproved:
		return "Your solo parent ID renewal has been approved."
	case EventReinstate:
		return "Your solo parent status has been restored after re-verification."
	case EventClearRemarks:
		return "The remarks on your case have been cleared. Your solo parent status remains active."
	default:
		return "Your solo parent application has been updated."
	}
}

func childRequestMessage(event Event) string {
	switch event {
	case EventChildRequestFiled:
		return "Your child information request has been forwarded to the MSWDO for review."
	case EventChildRequestApproved:
		return "Your child information request has been approved."
	case EventChildRequestDeclined:
		return "Your child information request has been declined."
	default:
		return "Your child information request has been updated."
	}
}

func statusWord(event Event) string {
	switch event {
	case EventAccept:
		return "Verified"
	case EventDecline, EventRenewalDeclined:
		return "Declined"
	default:
		return "Updated"
	}
}

func (s *Service) logTransition(ctx context.Context, u *applicant.User, event Event, res Result, opt Options) {
	actorType := opt.ActorType
	var actorID *uint
	switch {
	case opt.AdminID != nil:
		actorID = opt.AdminID
		if actorType == "" {
			actorType = "admin"
		}
	case opt.SuperadminID != nil:
		actorID = opt.SuperadminID
		if actorType == "" {
			actorType = "superadmin"
		}
	default:
		if actorType == "" {
			actorType = "system"
		}
	}
	_ = s.audit.LogAction(ctx, actorType, actorID, "status."+string(event), u.CodeID, map[string]interface{}{
		"from": string(res.From),
		"to":   string(res.To),
	}, opt.IP, "success")
	log.Printf("✅ Case %s: %s → %s (%s)", u.CodeID, res.From, res.To, event)
}

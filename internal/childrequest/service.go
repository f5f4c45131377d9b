package childrequest

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/internal/applicant"
	"github.com/mswdo/soloparent-backend/internal/workflow"
)

// ErrNotEndorsed means the MSWDO was asked to decide a request that never
// passed barangay screening.
var ErrNotEndorsed = errors.New("request has not been endorsed by the barangay")

type Service struct {
	repo     *Repository
	users    *applicant.Repository
	workflow *workflow.Service
}

func NewService(repo *Repository, users *applicant.Repository, wf *workflow.Service) *Service {
	return &Service{repo: repo, users: users, workflow: wf}
}

// File opens a request; it waits for the barangay first.
func (s *Service) File(userID uint, childName string, age int, birthdate, educ string) (*ChildRequest, error) {
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	req := &ChildRequest{
		CodeID:         user.CodeID,
		UserID:         user.ID,
		ChildName:      childName,
		Age:            age,
		Birthdate:      birthdate,
		EducAttainment: educ,
		Status:         StatusPendingBarangay,
	}
	if err := s.repo.Create(req); err != nil {
		return nil, err
	}
	return req, nil
}

// Endorse is the barangay admin forwarding a request to the MSWDO. The case
// moves to Pending Request and the request itself to pending_mswdo in one
// transaction.
func (s *Service) Endorse(ctx context.Context, requestID uint, opt workflow.Options) error {
	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return err
	}

	opt.Extra = func(tx *gorm.DB) error {
		return s.repo.UpdateStatus(tx, req.ID, StatusPendingMSWDO)
	}
	_, err = s.workflow.Apply(ctx, req.UserID, workflow.EventChildRequestFiled, opt)
	return err
}

// Approve is the MSWDO's final acceptance: the child joins the family record
// and the case returns to Verified. The step-2 insert, the request removal,
// and the transition commit together.
func (s *Service) Approve(ctx context.Context, requestID uint, opt workflow.Options) error {
	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return err
	}
	if req.Status != StatusPendingMSWDO {
		return ErrNotEndorsed
	}

	var birthdate *time.Time
	if req.Birthdate != "" {
		if parsed, perr := time.Parse("2006-01-02", req.Birthdate); perr == nil {
			birthdate = &parsed
		}
	}

	opt.Extra = func(tx *gorm.DB) error {
		member := &applicant.FamilyMember{
			CodeID:           req.CodeID,
			FamilyMemberName: req.ChildName,
			Age:              req.Age,
			Birthdate:        birthdate,
			EducAttainment:   req.EducAttainment,
		}
		if err := s.users.AddFamilyMember(tx, member); err != nil {
			return err
		}
		return s.repo.Delete(tx, req.ID)
	}
	_, err = s.workflow.Apply(ctx, req.UserID, workflow.EventChildRequestApproved, opt)
	return err
}

// Decline returns the case to Verified without touching the family record.
func (s *Service) Decline(ctx context.Context, requestID uint, opt workflow.Options) error {
	req, err := s.repo.GetByID(requestID)
	if err != nil {
		return err
	}
	if req.Status != StatusPendingMSWDO {
		return ErrNotEndorsed
	}

	opt.Extra = func(tx *gorm.DB) error {
		return s.repo.Delete(tx, req.ID)
	}
	_, err = s.workflow.Apply(ctx, req.UserID, workflow.EventChildRequestDeclined, opt)
	return err
}

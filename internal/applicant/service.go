package applicant

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/internal/storage"
)

var ErrProfileIncomplete = errors.New("first name, last name and barangay are required")

type Service struct {
	db       *gorm.DB
	repo     *Repository
	uploader *storage.Uploader
}

func NewService(db *gorm.DB, repo *Repository, uploader *storage.Uploader) *Service {
	return &Service{db: db, repo: repo, uploader: uploader}
}

// FamilyMemberInput is one step-2 row as submitted by the application form.
type FamilyMemberInput struct {
	Name           string `json:"family_member_name" binding:"required"`
	Age            int    `json:"age"`
	EducAttainment string `json:"educational_attainment"`
	Birthdate      string `json:"birthdate"`
}

// ProfileInput carries the five application steps in one submission.
type ProfileInput struct {
	Identifying    IdentifyingInformation `json:"identifying_information"`
	FamilyMembers  []FamilyMemberInput    `json:"family_members"`
	Classification *Classification        `json:"classification,omitempty"`
	NeedsProblems  *NeedsProblems         `json:"needs_problems,omitempty"`
	Emergency      *EmergencyContact      `json:"emergency_contact,omitempty"`
}

// SubmitProfile writes all five application steps for a case in one
// transaction. Resubmission replaces what is already there. The case's
// barangay column is kept in sync with the step-1 barangay so admin scoping
// keeps working after a move.
func (s *Service) SubmitProfile(userID uint, in ProfileInput) (*CaseDetails, error) {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if in.Identifying.FirstName == "" || in.Identifying.LastName == "" || in.Identifying.Barangay == "" {
		return nil, ErrProfileIncomplete
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		txRepo := &Repository{DB: tx}

		in.Identifying.CodeID = u.CodeID
		if err := txRepo.SaveIdentifying(&in.Identifying); err != nil {
			return err
		}

		members := make([]FamilyMember, 0, len(in.FamilyMembers))
		for _, m := range in.FamilyMembers {
			member := FamilyMember{
				CodeID:           u.CodeID,
				FamilyMemberName: m.Name,
				Age:              m.Age,
				EducAttainment:   m.EducAttainment,
			}
			if m.Birthdate != "" {
				bd, err := time.Parse("2006-01-02", m.Birthdate)
				if err != nil {
					return fmt.Errorf("family member %q: birthdate must be YYYY-MM-DD", m.Name)
				}
				member.Birthdate = &bd
			}
			members = append(members, member)
		}
		if err := txRepo.ReplaceFamilyMembers(u.CodeID, members); err != nil {
			return err
		}

		if in.Classification != nil {
			in.Classification.CodeID = u.CodeID
			if err := txRepo.SaveClassification(in.Classification); err != nil {
				return err
			}
		}
		if in.NeedsProblems != nil {
			in.NeedsProblems.CodeID = u.CodeID
			if err := txRepo.SaveNeedsProblems(in.NeedsProblems); err != nil {
				return err
			}
		}
		if in.Emergency != nil {
			in.Emergency.CodeID = u.CodeID
			if err := txRepo.SaveEmergencyContact(in.Emergency); err != nil {
				return err
			}
		}

		if in.Identifying.Barangay != u.Barangay {
			return tx.Model(&User{}).Where("id = ?", u.ID).
				Update("barangay", in.Identifying.Barangay).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Application profile saved for case %s", u.CodeID)
	return s.repo.Details(userID)
}

// UpdateProfilePhotos stores the applicant's profile picture and face photo.
// Base64 payloads go to blob storage first; plain URLs are stored as-is.
func (s *Service) UpdateProfilePhotos(ctx context.Context, userID uint, profilePic, facePhoto string) error {
	u, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}

	profileURL, err := s.resolvePhoto(ctx, profilePic, "profiles", u.CodeID)
	if err != nil {
		return err
	}
	faceURL, err := s.resolvePhoto(ctx, facePhoto, "faces", u.CodeID)
	if err != nil {
		return err
	}
	return s.repo.UpdateProfilePhotos(userID, profileURL, faceURL)
}

func (s *Service) resolvePhoto(ctx context.Context, value, folder, codeID string) (string, error) {
	if value == "" || !strings.HasPrefix(value, "data:") {
		return value, nil
	}
	if s.uploader == nil {
		return "", storage.ErrNotConfigured
	}
	url, err := s.uploader.Upload(ctx, value, folder, codeID)
	if err != nil {
		return "", fmt.Errorf("photo upload: %w", err)
	}
	return url, nil
}

package event

import (
	"context"
	"fmt"
	"log"

	"github.com/mswdo/soloparent-backend/internal/storage"
)

// ConflictError carries the event that blocked a create or update.
type ConflictError struct {
	Conflicting *Event
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("time conflicts with %q (%s-%s), events need a one hour gap",
		e.Conflicting.Title, e.Conflicting.StartTime, e.Conflicting.EndTime)
}

type Service struct {
	repo     *Repository
	uploader *storage.Uploader
}

func NewService(repo *Repository, uploader *storage.Uploader) *Service {
	return &Service{repo: repo, uploader: uploader}
}

// Input is the create/update payload.
type Input struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	StartDate   string `json:"startDate" binding:"required"`
	StartTime   string `json:"startTime" binding:"required"`
	EndTime     string `json:"endTime" binding:"required"`
	Location    string `json:"location"`
	Visibility  string `json:"visibility"`
	Barangay    string `json:"barangay"`
	// Image is an optional base64 payload; stored out of band.
	Image string `json:"image"`
}

func (s *Service) checkSchedule(in Input, excludeID uint) error {
	if err := ValidateTimes(in.StartTime, in.EndTime); err != nil {
		return err
	}
	sameDay, err := s.repo.ListOnDate(in.StartDate)
	if err != nil {
		return err
	}
	hit, err := FindConflict(in.StartTime, in.EndTime, sameDay, excludeID)
	if err != nil {
		return err
	}
	if hit != nil {
		return &ConflictError{Conflicting: hit}
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in Input) (*Event, error) {
	if err := s.checkSchedule(in, 0); err != nil {
		return nil, err
	}

	e := &Event{
		Title:       in.Title,
		Description: in.Description,
		StartDate:   in.StartDate,
		StartTime:   in.StartTime,
		EndTime:     in.EndTime,
		Location:    in.Location,
		Status:      StatusActive,
		Visibility:  in.Visibility,
		Barangay:    in.Barangay,
	}
	if e.Visibility == "" {
		e.Visibility = "everyone"
	}
	if err := s.repo.Create(e); err != nil {
		return nil, err
	}

	if in.Image != "" {
		url, err := s.uploader.Upload(ctx, in.Image, "events", fmt.Sprint(e.ID))
		if err != nil {
			log.Printf("⚠️ Event %d image upload failed: %v", e.ID, err)
		} else {
			e.Image = url
			if err := s.repo.Update(e); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

func (s *Service) Update(ctx context.Context, id uint, in Input) (*Event, error) {
	e, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkSchedule(in, id); err != nil {
		return nil, err
	}

	e.Title = in.Title
	e.Description = in.Description
	e.StartDate = in.StartDate
	e.StartTime = in.StartTime
	e.EndTime = in.EndTime
	e.Location = in.Location
	if in.Visibility != "" {
		e.Visibility = in.Visibility
	}
	e.Barangay = in.Barangay

	if in.Image != "" {
		url, err := s.uploader.Upload(ctx, in.Image, "events", fmt.Sprint(e.ID))
		if err != nil {
			log.Printf("⚠️ Event %d image upload failed: %v", e.ID, err)
		} else {
			e.Image = url
		}
	}
	if err := s.repo.Update(e); err != nil {
		return nil, err
	}
	return e, nil
}

package auditlog

import (
	"context"
	"encoding/json"
	"log"
	"math"

	"gorm.io/datatypes"
)

type Service interface {
	LogAction(ctx context.Context, actorType string, actorID *uint, action, caseCode string, details map[string]interface{}, ip, status string) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LogAction creates a new audit log entry. Audit failures are logged and
// swallowed, a missing trail row must not fail the action it records.
func (s *service) LogAction(ctx context.Context, actorType string, actorID *uint, action, caseCode string, details map[string]interface{}, ip, status string) error {
	if details == nil {
		details = make(map[string]interface{})
	}
	detailsJSON, err := json.Marshal(details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	entry := &AuditLog{
		ActorType: actorType,
		ActorID:   actorID,
		Action:    action,
		CaseCode:  caseCode,
		Details:   datatypes.JSON(detailsJSON),
		IPAddress: ip,
		Status:    status,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		log.Printf("⚠️ Failed to write audit log (%s): %v", action, err)
		return err
	}
	return nil
}

func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	if filter.Limit == 0 {
		totalPages = 0
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

package service

import (
	"context"
	"encoding/json"
	"log"

	"gorm.io/datatypes"

	"commission-backend/internal/model"
	"commission-backend/internal/repository"
)

// AuditEntry describes one change to record.
type AuditEntry struct {
	Actor       *model.Actor
	Action      string
	EntityType  string
	EntityID    string
	Changes     []model.FieldDiff
	Description string
}

// AuditSink records audit entries. Recording is best-effort: a failure is
// logged and never fails the calling operation.
type AuditSink interface {
	Record(ctx context.Context, entry AuditEntry)
}

type AuditLogResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"user_id"`
	UserName    string            `json:"user_name"`
	Action      string            `json:"action"`
	EntityType  string            `json:"entity_type"`
	EntityID    string            `json:"entity_id"`
	Changes     []model.FieldDiff `json:"changes"`
	Description string            `json:"description"`
	CreatedAt   string            `json:"created_at"`
}

type AuditLogFilter struct {
	EntityType string
	EntityID   string
	Page       int
	Limit      int
}

type AuditService interface {
	AuditSink
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

func (s *auditService) Record(ctx context.Context, entry AuditEntry) {
	row := model.AuditLog{
		Action:      entry.Action,
		EntityType:  entry.EntityType,
		EntityID:    entry.EntityID,
		Description: entry.Description,
	}
	if entry.Actor != nil {
		id := entry.Actor.ID
		row.UserID = &id
	}
	if len(entry.Changes) > 0 {
		raw, err := json.Marshal(entry.Changes)
		if err != nil {
			log.Printf("audit: encoding changes of %s %s: %v", entry.EntityType, entry.EntityID, err)
		} else {
			row.Changes = datatypes.JSON(raw)
		}
	}
	if err := s.repo.Log(ctx, &row); err != nil {
		log.Printf("audit: failed to record %s %s %s: %v", entry.Action, entry.EntityType, entry.EntityID, err)
	}
}

// GetAuditLogs retrieves paginated records with the acting user attached
func (s *auditService) GetAuditLogs(ctx context.Context, filter AuditLogFilter) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.repo.List(ctx, repository.AuditFilter{
		EntityType: filter.EntityType,
		EntityID:   filter.EntityID,
		Page:       filter.Page,
		Limit:      filter.Limit,
	})
	if err != nil {
		return nil, 0, err
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		userName := "System"
		userID := ""
		if l.User != nil {
			userName = l.User.Name
		}
		if l.UserID != nil {
			userID = l.UserID.String()
		}
		var changes []model.FieldDiff
		if len(l.Changes) > 0 {
			if err := json.Unmarshal(l.Changes, &changes); err != nil {
				log.Printf("audit: unreadable changes on entry %s: %v", l.ID, err)
			}
		}
		res = append(res, AuditLogResponse{
			ID:          l.ID.String(),
			UserID:      userID,
			UserName:    userName,
			Action:      l.Action,
			EntityType:  l.EntityType,
			EntityID:    l.EntityID,
			Changes:     changes,
			Description: l.Description,
			CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}
	return res, total, nil
}

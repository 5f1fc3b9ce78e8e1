package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/friendconnect/auth-service/internal/core/ports"
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService persisting auth events through the
// given repository. Events arrive via the queue dispatcher, already ordered
// per username.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

func (s *auditService) Process(ctx context.Context, event ports.AuthEventInput) error {
	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("audit event: %w", err)
	}
	s.log.Debug().
		Str("username", event.Username).
		Str("action", event.Action).
		Str("outcome", event.Outcome).
		Msg("auth event recorded")
	return nil
}

package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/cchamangwana/platforms/internal/audit/domain"
	"github.com/cchamangwana/platforms/internal/auditcontext"
	"github.com/cchamangwana/platforms/internal/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  auditdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  auditdomain.Repository
}

func NewService(p Params) auditdomain.Service {
	return &Service{
		log:   p.Log.Named("audit.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) AuditLog(ctx context.Context, tenantID snowflake.ID, action, targetType string, targetID *string, metadata map[string]any) error {
	record := auditdomain.AuditLog{
		ID:         s.genID.Generate(),
		ActorType:  string(auditdomain.ActorTypeSystem),
		Action:     action,
		TargetType: targetType,
		TargetID:   targetID,
		Metadata:   datatypes.JSONMap{},
		CreatedAt:  s.clock.Now(),
	}
	if tenantID != 0 {
		record.TenantID = &tenantID
	}
	if metadata != nil {
		record.Metadata = datatypes.JSONMap(metadata)
	}

	if actorType, actorID := auditcontext.ActorFromContext(ctx); actorType != "" {
		record.ActorType = actorType
		if actorID != "" {
			record.ActorID = &actorID
		}
	}
	if ip := auditcontext.IPAddressFromContext(ctx); ip != "" {
		record.IPAddress = &ip
	}
	if agent := auditcontext.UserAgentFromContext(ctx); agent != "" {
		record.UserAgent = &agent
	}
	if requestID := auditcontext.RequestIDFromContext(ctx); requestID != "" {
		record.Metadata["request_id"] = requestID
	}

	return s.repo.Insert(ctx, &record)
}

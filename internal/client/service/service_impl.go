package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/cchamangwana/platforms/internal/audit/domain"
	clientdomain "github.com/cchamangwana/platforms/internal/client/domain"
	"github.com/cchamangwana/platforms/internal/events"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/cchamangwana/platforms/pkg/db/option"
	"github.com/cchamangwana/platforms/pkg/db/pagination"
	"github.com/cchamangwana/platforms/pkg/db/repository"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	AuditSvc auditdomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	auditSvc auditdomain.Service
}

func NewService(p Params) clientdomain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("client.service"),
		genID:    p.GenID,
		auditSvc: p.AuditSvc,
	}
}

func (s *Service) store(ctx context.Context) (repository.Store[clientdomain.Client], error) {
	tenantID, err := tenantcontext.TenantID(ctx)
	if err != nil {
		return repository.Store[clientdomain.Client]{}, err
	}
	return repository.ForTenant[clientdomain.Client](s.db, tenantID), nil
}

func (s *Service) Create(ctx context.Context, req clientdomain.CreateClientRequest) (*clientdomain.Client, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, clientdomain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email != "" && !strings.Contains(email, "@") {
		return nil, clientdomain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	client := clientdomain.Client{
		ID:        s.genID.Generate(),
		TenantID:  store.TenantID(),
		Name:      name,
		Email:     strings.ToLower(email),
		Phone:     strings.TrimSpace(req.Phone),
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.Create(ctx, &client); err != nil {
		return nil, err
	}

	if s.auditSvc != nil {
		targetID := client.ID.String()
		err := s.auditSvc.AuditLog(ctx, store.TenantID(), events.EventClientCreated, "client", &targetID, map[string]any{
			"name": client.Name,
		})
		if err != nil {
			s.log.Warn("audit log write failed", zap.Error(err))
		}
	}
	return &client, nil
}

func (s *Service) GetByID(ctx context.Context, id snowflake.ID) (*clientdomain.Client, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}

	client, err := store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, clientdomain.ErrClientNotFound
	}
	return client, nil
}

func (s *Service) List(ctx context.Context, req clientdomain.ListClientRequest) (clientdomain.ListClientResponse, error) {
	store, err := s.store(ctx)
	if err != nil {
		return clientdomain.ListClientResponse{}, err
	}

	var filters []option.Option
	if name := strings.TrimSpace(req.Name); name != "" {
		filters = append(filters, option.Where("name LIKE ?", "%"+name+"%"))
	}

	total, err := store.Count(ctx, filters...)
	if err != nil {
		return clientdomain.ListClientResponse{}, err
	}

	pageSize := pagination.Normalize(req.PageSize)
	offset := pagination.DecodeToken(req.PageToken)
	opts := append(filters,
		option.Order("name ASC"),
		option.Offset(offset),
		option.Limit(pageSize),
	)
	clients, err := store.List(ctx, opts...)
	if err != nil {
		return clientdomain.ListClientResponse{}, err
	}

	return clientdomain.ListClientResponse{
		PageInfo: pagination.PageInfo{
			NextPageToken: pagination.NextToken(offset, pageSize, total),
			TotalCount:    total,
		},
		Clients: clients,
	}, nil
}

func (s *Service) Update(ctx context.Context, id snowflake.ID, req clientdomain.UpdateClientRequest) (*clientdomain.Client, error) {
	store, err := s.store(ctx)
	if err != nil {
		return nil, err
	}

	client, err := store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, clientdomain.ErrClientNotFound
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, clientdomain.ErrInvalidName
		}
		client.Name = name
	}
	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email != "" && !strings.Contains(email, "@") {
			return nil, clientdomain.ErrInvalidEmail
		}
		client.Email = strings.ToLower(email)
	}
	if req.Phone != nil {
		client.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Address != nil {
		client.Address = strings.TrimSpace(*req.Address)
	}
	client.UpdatedAt = time.Now().UTC()

	if err := store.Save(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *Service) Delete(ctx context.Context, id snowflake.ID) error {
	store, err := s.store(ctx)
	if err != nil {
		return err
	}

	client, err := store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if client == nil {
		return clientdomain.ErrClientNotFound
	}
	return store.Delete(ctx, id)
}

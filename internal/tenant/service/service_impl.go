package service

import (
	"context"
	"errors"
	"net"
	"regexp"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/cchamangwana/platforms/internal/cache"
	"github.com/cchamangwana/platforms/internal/config"
	tenantdomain "github.com/cchamangwana/platforms/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resolverCacheTTL = 30 * time.Second

var slugPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9-]{0,61}[a-z0-9])?$`)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Cfg   config.Config
	Cache *cache.TTLCache[string, tenantdomain.Tenant]
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	rootDomain string
	cache      *cache.TTLCache[string, tenantdomain.Tenant]
}

func NewService(p Params) tenantdomain.Service {
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("tenant.service"),
		genID:      p.GenID,
		rootDomain: strings.ToLower(strings.TrimSpace(p.Cfg.RootDomain)),
		cache:      p.Cache,
	}
}

func (s *Service) ResolveHost(ctx context.Context, host string) (*tenantdomain.Tenant, error) {
	slug := s.subdomain(host)
	if slug == "" {
		return nil, tenantdomain.ErrTenantNotFound
	}

	if cached, ok := s.cache.Get(slug); ok {
		return &cached, nil
	}

	tenant, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.cache.Set(slug, *tenant, resolverCacheTTL)
	return tenant, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*tenantdomain.Tenant, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	if slug == "" {
		return nil, tenantdomain.ErrInvalidSlug
	}

	var tenant tenantdomain.Tenant
	err := s.db.WithContext(ctx).Where("slug = ?", slug).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, tenantdomain.ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

func (s *Service) Create(ctx context.Context, req tenantdomain.CreateTenantRequest) (*tenantdomain.Tenant, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	if !slugPattern.MatchString(slug) {
		return nil, tenantdomain.ErrInvalidSlug
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, tenantdomain.ErrInvalidName
	}

	existing, err := s.GetBySlug(ctx, slug)
	if err != nil && !errors.Is(err, tenantdomain.ErrTenantNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, tenantdomain.ErrSlugAlreadyUsed
	}

	now := time.Now().UTC()
	tenant := tenantdomain.Tenant{
		ID:        s.genID.Generate(),
		Slug:      slug,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Create(&tenant).Error; err != nil {
		return nil, err
	}

	s.log.Info("tenant provisioned", zap.String("slug", slug), zap.String("tenant_id", tenant.ID.String()))
	return &tenant, nil
}

// subdomain extracts the tenant slug from a request host. Ports are
// stripped; only hosts one label below the root domain resolve.
func (s *Service) subdomain(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if host == "" || s.rootDomain == "" {
		return ""
	}
	if stripped, _, err := net.SplitHostPort(host); err == nil {
		host = stripped
	}
	if host == s.rootDomain {
		return ""
	}
	suffix := "." + s.rootDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	slug := strings.TrimSuffix(host, suffix)
	if strings.Contains(slug, ".") || !slugPattern.MatchString(slug) {
		return ""
	}
	return slug
}

package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/cchamangwana/platforms/internal/audit/domain"
	auditrepository "github.com/cchamangwana/platforms/internal/audit/repository"
	auditservice "github.com/cchamangwana/platforms/internal/audit/service"
	clientdomain "github.com/cchamangwana/platforms/internal/client/domain"
	"github.com/cchamangwana/platforms/internal/clock"
	"github.com/cchamangwana/platforms/internal/events"
	"github.com/cchamangwana/platforms/internal/tenantcontext"
	"github.com/cchamangwana/platforms/pkg/db/pagination"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)

func setupClientTest(t *testing.T) (*Service, context.Context, snowflake.ID) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(
		fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
	), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&clientdomain.Client{}, &auditdomain.AuditLog{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}
	auditSvc := auditservice.NewService(auditservice.Params{
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.FixedClock{Instant: testNow},
		Repo:  auditrepository.Provide(db),
	})
	svc := &Service{db: db, log: zap.NewNop(), genID: node, auditSvc: auditSvc}
	tenantID := node.Generate()
	return svc, tenantcontext.WithTenantID(context.Background(), tenantID), tenantID
}

func TestCreateClient(t *testing.T) {
	svc, ctx, tenantID := setupClientTest(t)

	client, err := svc.Create(ctx, clientdomain.CreateClientRequest{
		Name:  "  Acme Ltd  ",
		Email: "Billing@Acme.test",
		Phone: "+260 97 1234567",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if client.TenantID != tenantID {
		t.Fatalf("expected tenant %s, got %s", tenantID, client.TenantID)
	}
	if client.Name != "Acme Ltd" {
		t.Fatalf("expected trimmed name, got %q", client.Name)
	}
	if client.Email != "billing@acme.test" {
		t.Fatalf("expected lowercased email, got %q", client.Email)
	}
}

func TestCreateClientWritesAuditEvent(t *testing.T) {
	svc, ctx, _ := setupClientTest(t)

	created, err := svc.Create(ctx, clientdomain.CreateClientRequest{Name: "Acme Ltd"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	var logs []auditdomain.AuditLog
	if err := svc.db.Where("action = ?", events.EventClientCreated).Find(&logs).Error; err != nil {
		t.Fatalf("load audit logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected 1 audit row, got %d", len(logs))
	}
	if logs[0].TargetType != "client" || logs[0].TargetID == nil || *logs[0].TargetID != created.ID.String() {
		t.Fatalf("unexpected audit target: %+v", logs[0])
	}
	if logs[0].Metadata["name"] != "Acme Ltd" {
		t.Fatalf("expected client name in metadata, got %v", logs[0].Metadata)
	}
}

func TestCreateClientValidation(t *testing.T) {
	svc, ctx, _ := setupClientTest(t)

	if _, err := svc.Create(ctx, clientdomain.CreateClientRequest{Name: "   "}); !errors.Is(err, clientdomain.ErrInvalidName) {
		t.Fatalf("expected invalid_name, got %v", err)
	}
	if _, err := svc.Create(ctx, clientdomain.CreateClientRequest{Name: "Acme", Email: "not-an-email"}); !errors.Is(err, clientdomain.ErrInvalidEmail) {
		t.Fatalf("expected invalid_email, got %v", err)
	}
	if _, err := svc.Create(context.Background(), clientdomain.CreateClientRequest{Name: "Acme"}); err == nil {
		t.Fatal("expected error without tenant in context")
	}
}

func TestListClientsFiltersByName(t *testing.T) {
	svc, ctx, _ := setupClientTest(t)

	for _, name := range []string{"Acme Ltd", "Beta Corp", "Acme Studios"} {
		if _, err := svc.Create(ctx, clientdomain.CreateClientRequest{Name: name}); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}

	resp, err := svc.List(ctx, clientdomain.ListClientRequest{Name: "acme"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(resp.Clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(resp.Clients))
	}
	if resp.PageInfo.TotalCount != 2 {
		t.Fatalf("expected total 2, got %d", resp.PageInfo.TotalCount)
	}
	if resp.Clients[0].Name != "Acme Ltd" || resp.Clients[1].Name != "Acme Studios" {
		t.Fatalf("expected name order, got %s then %s", resp.Clients[0].Name, resp.Clients[1].Name)
	}
}

func TestListClientsPaginates(t *testing.T) {
	svc, ctx, _ := setupClientTest(t)

	for i := 0; i < 3; i++ {
		if _, err := svc.Create(ctx, clientdomain.CreateClientRequest{Name: fmt.Sprintf("Client %d", i)}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	first, err := svc.List(ctx, clientdomain.ListClientRequest{
		Pagination: pagination.Pagination{PageSize: 2},
	})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if len(first.Clients) != 2 || first.PageInfo.NextPageToken == "" {
		t.Fatalf("expected 2 clients and a next token, got %d %q", len(first.Clients), first.PageInfo.NextPageToken)
	}

	second, err := svc.List(ctx, clientdomain.ListClientRequest{
		Pagination: pagination.Pagination{PageSize: 2, PageToken: first.PageInfo.NextPageToken},
	})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(second.Clients) != 1 || second.PageInfo.NextPageToken != "" {
		t.Fatalf("expected final page of 1, got %d %q", len(second.Clients), second.PageInfo.NextPageToken)
	}
}

func TestUpdateClient(t *testing.T) {
	svc, ctx, _ := setupClientTest(t)

	created, err := svc.Create(ctx, clientdomain.CreateClientRequest{Name: "Acme Ltd", Email: "old@acme.test"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Acme Holdings"
	email := "new@acme.test"
	updated, err := svc.Update(ctx, created.ID, clientdomain.UpdateClientRequest{Name: &name, Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Acme Holdings" || updated.Email != "new@acme.test" {
		t.Fatalf("unexpected update result: %s %s", updated.Name, updated.Email)
	}

	blank := " "
	if _, err := svc.Update(ctx, created.ID, clientdomain.UpdateClientRequest{Name: &blank}); !errors.Is(err, clientdomain.ErrInvalidName) {
		t.Fatalf("expected invalid_name, got %v", err)
	}
}

func TestClientTenantIsolation(t *testing.T) {
	svc, ctx, _ := setupClientTest(t)

	created, err := svc.Create(ctx, clientdomain.CreateClientRequest{Name: "Acme Ltd"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	other := tenantcontext.WithTenantID(context.Background(), svc.genID.Generate())
	if _, err := svc.GetByID(other, created.ID); !errors.Is(err, clientdomain.ErrClientNotFound) {
		t.Fatalf("expected client_not_found for foreign tenant, got %v", err)
	}
	if err := svc.Delete(other, created.ID); !errors.Is(err, clientdomain.ErrClientNotFound) {
		t.Fatalf("expected client_not_found on delete, got %v", err)
	}

	if err := svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetByID(ctx, created.ID); !errors.Is(err, clientdomain.ErrClientNotFound) {
		t.Fatalf("expected client_not_found after delete, got %v", err)
	}
}

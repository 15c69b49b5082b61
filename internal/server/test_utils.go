package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

type testCleanupRequest struct {
	Prefix string `json:"prefix"`
}

// TestCleanup deletes tenants whose slug starts with the given prefix plus
// all their data. Registered outside production only; test suites use it to
// reset state between runs.
func (s *Server) TestCleanup(c *gin.Context) {
	var req testCleanupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	prefix := strings.TrimSpace(req.Prefix)
	if prefix == "" {
		AbortWithError(c, newValidationError("prefix_required"))
		return
	}

	ctx := c.Request.Context()
	tenantIDs, err := s.loadTenantIDsByPrefix(ctx, prefix)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if err := s.deleteTenantData(ctx, tenantIDs); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok", "tenants_removed": len(tenantIDs)})
}

func (s *Server) loadTenantIDsByPrefix(ctx context.Context, prefix string) ([]int64, error) {
	like := prefix + "%"
	var tenantIDs []int64
	if err := s.db.WithContext(ctx).
		Table("tenants").
		Select("id").
		Where("slug LIKE ?", like).
		Scan(&tenantIDs).Error; err != nil {
		return nil, err
	}
	return tenantIDs, nil
}

func (s *Server) deleteTenantData(ctx context.Context, tenantIDs []int64) error {
	if len(tenantIDs) == 0 {
		return nil
	}
	queries := []string{
		`DELETE FROM payments WHERE tenant_id IN ?`,
		`DELETE FROM invoice_line_items WHERE tenant_id IN ?`,
		`DELETE FROM invoices WHERE tenant_id IN ?`,
		`DELETE FROM invoice_sequences WHERE tenant_id IN ?`,
		`DELETE FROM expenses WHERE tenant_id IN ?`,
		`DELETE FROM projects WHERE tenant_id IN ?`,
		`DELETE FROM clients WHERE tenant_id IN ?`,
		`DELETE FROM companies WHERE tenant_id IN ?`,
		`DELETE FROM users WHERE tenant_id IN ?`,
		`DELETE FROM audit_logs WHERE tenant_id IN ?`,
		`DELETE FROM tenants WHERE id IN ?`,
	}
	for _, query := range queries {
		if err := s.db.WithContext(ctx).Exec(query, tenantIDs).Error; err != nil {
			return err
		}
	}
	return nil
}

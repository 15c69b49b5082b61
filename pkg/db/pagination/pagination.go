// Package pagination implements token-based paging for list endpoints.
package pagination

import (
	"encoding/base64"
	"strconv"
	"strings"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// Pagination carries paging inputs bound from query strings.
type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size"`
}

// PageInfo carries paging outputs on list responses.
type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	TotalCount    int64  `json:"total_count"`
}

// Normalize clamps the page size into the allowed range.
func Normalize(pageSize int) int {
	if pageSize <= 0 {
		return defaultPageSize
	}
	if pageSize > maxPageSize {
		return maxPageSize
	}
	return pageSize
}

// DecodeToken converts an opaque page token back into an offset.
func DecodeToken(token string) int {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return 0
	}
	offset, err := strconv.Atoi(string(raw))
	if err != nil || offset < 0 {
		return 0
	}
	return offset
}

// EncodeToken converts an offset into an opaque page token.
func EncodeToken(offset int) string {
	if offset <= 0 {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString([]byte(strconv.Itoa(offset)))
}

// NextToken returns the token for the following page, or empty when exhausted.
func NextToken(offset, pageSize int, total int64) string {
	next := offset + pageSize
	if int64(next) >= total {
		return ""
	}
	return EncodeToken(next)
}

package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/cchamangwana/platforms/pkg/db/pagination"
)

type CreateClientRequest struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

type UpdateClientRequest struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

type ListClientRequest struct {
	pagination.Pagination
	Name string
}

type ListClientResponse struct {
	pagination.PageInfo
	Clients []Client `json:"clients"`
}

// Service is the tenant-scoped client CRUD surface.
type Service interface {
	Create(ctx context.Context, req CreateClientRequest) (*Client, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Client, error)
	List(ctx context.Context, req ListClientRequest) (ListClientResponse, error)
	Update(ctx context.Context, id snowflake.ID, req UpdateClientRequest) (*Client, error)
	Delete(ctx context.Context, id snowflake.ID) error
}

var (
	ErrClientNotFound = errors.New("client_not_found")
	ErrInvalidName    = errors.New("invalid_name")
	ErrInvalidEmail   = errors.New("invalid_email")
)

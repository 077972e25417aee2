package catalog

import (
	"time"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateItemRequest represents a request to create a catalog item
type CreateItemRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=500"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
}

// UpdateItemRequest represents a request to update a catalog item
type UpdateItemRequest struct {
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Description string          `json:"description" binding:"max=500"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
}

// ItemResponse represents a catalog item in API responses
type ItemResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitRate    decimal.Decimal `json:"unit_rate"`
	TaxPercent  decimal.Decimal `json:"tax_percent"`
	Active      bool            `json:"active"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// ItemListFilter represents filter options for item lists
type ItemListFilter struct {
	Search   string `form:"search"`
	Active   *bool  `form:"active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=created_at name unit_rate"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToItemResponse converts a domain item to a response DTO
func ToItemResponse(i *catalog.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		UnitRate:    i.UnitRate,
		TaxPercent:  i.TaxPercent,
		Active:      i.Active,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
		Version:     i.Version,
	}
}

package catalog

import (
	"github.com/backoffice/backend/internal/domain/shared"
)

// ItemRepository persists catalog items
type ItemRepository interface {
	shared.Repository[Item]
}

package partner

import (
	"context"

	"github.com/backoffice/backend/internal/domain/shared"
)

// ContactRepository persists contacts
type ContactRepository interface {
	shared.Repository[Contact]

	// FindByEmail returns the contact with the given email, or a not
	// found error
	FindByEmail(ctx context.Context, email string) (*Contact, error)
}

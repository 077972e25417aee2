package partner

import (
	"context"
	"testing"

	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockContactRepository is a mock implementation of partner.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByEmail(ctx context.Context, email string) (*partner.Contact, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Contact), args.Error(1)
}

func (m *MockContactRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Contact, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Contact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *partner.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockContactRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestContactServiceCreate(t *testing.T) {
	t.Run("creates a contact", func(t *testing.T) {
		repo := new(MockContactRepository)
		repo.On("FindByEmail", mock.Anything, "sales@acme.example").Return(nil, shared.ErrNotFound).Once()
		repo.On("Save", mock.Anything, mock.AnythingOfType("*partner.Contact")).Return(nil).Once()

		svc := NewContactService(repo)
		resp, err := svc.Create(context.Background(), CreateContactRequest{
			Name:  "Acme Traders",
			Type:  "CUSTOMER",
			Email: "sales@acme.example",
		})
		require.NoError(t, err)
		assert.Equal(t, "Acme Traders", resp.Name)
		assert.True(t, resp.Active)
		repo.AssertExpectations(t)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		repo := new(MockContactRepository)
		existing, err := partner.NewContact("Other", partner.ContactTypeLead, "sales@acme.example")
		require.NoError(t, err)
		repo.On("FindByEmail", mock.Anything, "sales@acme.example").Return(existing, nil).Once()

		svc := NewContactService(repo)
		_, err = svc.Create(context.Background(), CreateContactRequest{
			Name:  "Acme",
			Type:  "CUSTOMER",
			Email: "sales@acme.example",
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestContactServicePromote(t *testing.T) {
	repo := new(MockContactRepository)
	lead, err := partner.NewContact("Lead Co", partner.ContactTypeLead, "")
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, lead.ID).Return(lead, nil).Once()
	repo.On("Save", mock.Anything, lead).Return(nil).Once()

	svc := NewContactService(repo)
	resp, err := svc.Promote(context.Background(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "CUSTOMER", resp.Type)
}

func TestContactServiceDelete(t *testing.T) {
	t.Run("deletes an existing contact", func(t *testing.T) {
		repo := new(MockContactRepository)
		contact, err := partner.NewContact("Acme", partner.ContactTypeCustomer, "")
		require.NoError(t, err)

		repo.On("FindByID", mock.Anything, contact.ID).Return(contact, nil).Once()
		repo.On("Delete", mock.Anything, contact.ID).Return(nil).Once()

		svc := NewContactService(repo)
		require.NoError(t, svc.Delete(context.Background(), contact.ID))
		repo.AssertExpectations(t)
	})

	t.Run("missing contact", func(t *testing.T) {
		repo := new(MockContactRepository)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

		svc := NewContactService(repo)
		assert.Error(t, svc.Delete(context.Background(), id))
	})
}

package catalog

import (
	"context"
	"testing"

	"github.com/backoffice/backend/internal/domain/catalog"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockItemRepository is a mock implementation of catalog.ItemRepository
type MockItemRepository struct {
	mock.Mock
}

func (m *MockItemRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Item), args.Error(1)
}

func (m *MockItemRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Item, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]catalog.Item), args.Error(1)
}

func (m *MockItemRepository) Save(ctx context.Context, item *catalog.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockItemRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func TestItemServiceCreate(t *testing.T) {
	t.Run("creates an item", func(t *testing.T) {
		repo := new(MockItemRepository)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.Item")).Return(nil).Once()

		svc := NewItemService(repo)
		resp, err := svc.Create(context.Background(), CreateItemRequest{
			Name:       "Consulting hour",
			UnitRate:   decimal.NewFromInt(150),
			TaxPercent: decimal.NewFromInt(18),
		})
		require.NoError(t, err)
		assert.Equal(t, "Consulting hour", resp.Name)
		repo.AssertExpectations(t)
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		repo := new(MockItemRepository)
		svc := NewItemService(repo)
		_, err := svc.Create(context.Background(), CreateItemRequest{
			Name:     "X",
			UnitRate: decimal.NewFromInt(-1),
		})
		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestItemServiceUpdate(t *testing.T) {
	repo := new(MockItemRepository)
	item, err := catalog.NewItem("Hosting", "", decimal.NewFromInt(25), decimal.Zero)
	require.NoError(t, err)

	repo.On("FindByID", mock.Anything, item.ID).Return(item, nil).Once()
	repo.On("Save", mock.Anything, item).Return(nil).Once()

	svc := NewItemService(repo)
	resp, err := svc.Update(context.Background(), item.ID, UpdateItemRequest{
		Name:     "Hosting (monthly)",
		UnitRate: decimal.NewFromInt(30),
	})
	require.NoError(t, err)
	assert.Equal(t, "Hosting (monthly)", resp.Name)
}

func TestItemServiceDelete(t *testing.T) {
	repo := new(MockItemRepository)
	id := uuid.New()
	repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound).Once()

	svc := NewItemService(repo)
	assert.Error(t, svc.Delete(context.Background(), id))
}

package billing

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/billing"
	"github.com/backoffice/backend/internal/domain/partner"
	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockDocumentRepository is a mock implementation of billing.DocumentRepository
type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindByNumber(ctx context.Context, series billing.DocumentSeries, number string) (*billing.Document, error) {
	args := m.Called(ctx, series, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) FindAll(ctx context.Context, series billing.DocumentSeries, filter shared.Filter) ([]billing.Document, error) {
	args := m.Called(ctx, series, filter)
	return args.Get(0).([]billing.Document), args.Error(1)
}

func (m *MockDocumentRepository) Count(ctx context.Context, series billing.DocumentSeries, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, series, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *billing.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Update(ctx context.Context, doc *billing.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) UpdateStatus(ctx context.Context, doc *billing.Document) error {
	args := m.Called(ctx, doc)
	return args.Error(0)
}

func (m *MockDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockDocumentRepository) Convert(ctx context.Context, estimate, invoice *billing.Document) error {
	args := m.Called(ctx, estimate, invoice)
	return args.Error(0)
}

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

// memoryIdempotencyStore is a test double backed by a map
type memoryIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemoryIdempotencyStore() *memoryIdempotencyStore {
	return &memoryIdempotencyStore{seen: make(map[string]bool)}
}

func (s *memoryIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *memoryIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[key], nil
}

func (s *memoryIdempotencyStore) Close() error { return nil }

// =============================================================================
// Helpers
// =============================================================================

func dec(value string) decimal.Decimal {
	d, err := decimal.NewFromString(value)
	if err != nil {
		panic(err)
	}
	return d
}

func validCreateRequest() CreateDocumentRequest {
	return CreateDocumentRequest{
		TaxRate:        dec("18"),
		DiscountPolicy: "none",
		Items: []LineItemRequest{
			{Description: "Consulting", Quantity: dec("2"), UnitRate: dec("100")},
		},
	}
}

func newService(docs billing.DocumentRepository, contacts partner.ContactRepository) *DocumentService {
	return NewDocumentService(docs, contacts, nil, shared.DefaultIdempotencyConfig())
}

// =============================================================================
// Create
// =============================================================================

func TestDocumentServiceCreate(t *testing.T) {
	t.Run("computes totals and returns the assigned number", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		docs.On("Create", mock.Anything, mock.AnythingOfType("*billing.Document")).
			Run(func(args mock.Arguments) {
				doc := args.Get(1).(*billing.Document)
				require.NoError(t, doc.AssignNumber("INV-000001"))
				assert.True(t, doc.SubTotal.Equal(dec("200")))
				assert.True(t, doc.TaxTotal.Equal(dec("36")))
				assert.True(t, doc.GrandTotal.Equal(dec("236")))
			}).
			Return(nil).Once()

		svc := newService(docs, contacts)
		resp, err := svc.Create(context.Background(), billing.SeriesInvoice, validCreateRequest(), "")
		require.NoError(t, err)
		assert.Equal(t, "INV-000001", resp.Number)
		docs.AssertExpectations(t)
	})

	t.Run("empty items never reach the repository", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		req := validCreateRequest()
		req.Items = nil

		svc := newService(docs, contacts)
		_, err := svc.Create(context.Background(), billing.SeriesInvoice, req, "")
		require.Error(t, err)
		docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("missing contact rejected", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		contactID := uuid.New()
		contacts.On("FindByID", mock.Anything, contactID).Return(nil, shared.ErrNotFound).Once()

		req := validCreateRequest()
		req.ContactID = &contactID

		svc := newService(docs, contacts)
		_, err := svc.Create(context.Background(), billing.SeriesInvoice, req, "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "contact")
		docs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("snapshots the contact name", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		contact, err := partner.NewContact("Acme Traders", partner.ContactTypeCustomer, "")
		require.NoError(t, err)
		contacts.On("FindByID", mock.Anything, contact.ID).Return(contact, nil).Once()

		docs.On("Create", mock.Anything, mock.AnythingOfType("*billing.Document")).
			Run(func(args mock.Arguments) {
				doc := args.Get(1).(*billing.Document)
				assert.Equal(t, "Acme Traders", doc.ContactName)
				require.NoError(t, doc.AssignNumber("INV-000002"))
			}).
			Return(nil).Once()

		req := validCreateRequest()
		req.ContactID = &contact.ID

		svc := newService(docs, contacts)
		_, err = svc.Create(context.Background(), billing.SeriesInvoice, req, "")
		require.NoError(t, err)
	})

	t.Run("sequence conflict is retried once", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		docs.On("Create", mock.Anything, mock.AnythingOfType("*billing.Document")).
			Return(shared.ErrSequenceConflict).Once()
		docs.On("Create", mock.Anything, mock.AnythingOfType("*billing.Document")).
			Run(func(args mock.Arguments) {
				doc := args.Get(1).(*billing.Document)
				require.NoError(t, doc.AssignNumber("INV-000003"))
			}).
			Return(nil).Once()

		svc := newService(docs, contacts)
		resp, err := svc.Create(context.Background(), billing.SeriesInvoice, validCreateRequest(), "")
		require.NoError(t, err)
		assert.Equal(t, "INV-000003", resp.Number)
		docs.AssertExpectations(t)
	})

	t.Run("second sequence conflict surfaces", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		docs.On("Create", mock.Anything, mock.AnythingOfType("*billing.Document")).
			Return(shared.ErrSequenceConflict).Twice()

		svc := newService(docs, contacts)
		_, err := svc.Create(context.Background(), billing.SeriesInvoice, validCreateRequest(), "")
		require.Error(t, err)
		docs.AssertExpectations(t)
	})

	t.Run("duplicate idempotency key rejected", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		docs.On("Create", mock.Anything, mock.AnythingOfType("*billing.Document")).
			Run(func(args mock.Arguments) {
				doc := args.Get(1).(*billing.Document)
				require.NoError(t, doc.AssignNumber("INV-000004"))
			}).
			Return(nil).Once()

		store := newMemoryIdempotencyStore()
		svc := NewDocumentService(docs, contacts, store, shared.DefaultIdempotencyConfig())

		_, err := svc.Create(context.Background(), billing.SeriesInvoice, validCreateRequest(), "req-1")
		require.NoError(t, err)

		_, err = svc.Create(context.Background(), billing.SeriesInvoice, validCreateRequest(), "req-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already processed")
		docs.AssertNumberOfCalls(t, "Create", 1)
	})
}

// =============================================================================
// Status / Convert / Delete
// =============================================================================

func acceptedEstimate(t *testing.T) *billing.Document {
	t.Helper()
	est, err := billing.NewDocument(billing.SeriesEstimate, nil, "Acme", time.Now(), "INR")
	require.NoError(t, err)
	item, err := billing.NewLineItem(est.ID, 0, "Consulting", dec("2"), dec("100"), nil)
	require.NoError(t, err)
	require.NoError(t, est.ReplaceItems([]billing.LineItem{*item}))
	require.NoError(t, est.Recalculate())
	require.NoError(t, est.AssignNumber("EST-000001"))
	require.NoError(t, est.SetStatus(billing.StatusSent))
	require.NoError(t, est.SetStatus(billing.StatusAccepted))
	return est
}

func TestDocumentServiceSetStatus(t *testing.T) {
	t.Run("valid transition persists", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		doc, err := billing.NewDocument(billing.SeriesInvoice, nil, "Acme", time.Now(), "INR")
		require.NoError(t, err)
		require.NoError(t, doc.AssignNumber("INV-000009"))

		docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil).Once()
		docs.On("UpdateStatus", mock.Anything, doc).Return(nil).Once()

		svc := newService(docs, contacts)
		resp, err := svc.SetStatus(context.Background(), billing.SeriesInvoice, doc.ID.String(), SetStatusRequest{Status: "SENT"})
		require.NoError(t, err)
		assert.Equal(t, "SENT", resp.Status)
	})

	t.Run("invalid transition never persists", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		doc, err := billing.NewDocument(billing.SeriesInvoice, nil, "Acme", time.Now(), "INR")
		require.NoError(t, err)

		docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil).Once()

		svc := newService(docs, contacts)
		_, err = svc.SetStatus(context.Background(), billing.SeriesInvoice, doc.ID.String(), SetStatusRequest{Status: "PAID"})
		require.Error(t, err)
		docs.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything)
	})
}

func TestDocumentServiceConvert(t *testing.T) {
	t.Run("converts an accepted estimate", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		est := acceptedEstimate(t)
		docs.On("FindByID", mock.Anything, est.ID).Return(est, nil).Once()
		docs.On("Convert", mock.Anything, est, mock.AnythingOfType("*billing.Document")).
			Run(func(args mock.Arguments) {
				invoice := args.Get(2).(*billing.Document)
				assert.Equal(t, billing.SeriesInvoice, invoice.Series)
				assert.True(t, invoice.GrandTotal.Equal(est.GrandTotal))
				require.NoError(t, invoice.AssignNumber("INV-000010"))
			}).
			Return(nil).Once()

		svc := newService(docs, contacts)
		resp, err := svc.Convert(context.Background(), est.ID.String())
		require.NoError(t, err)
		assert.Equal(t, "INV-000010", resp.InvoiceNumber)
		assert.Equal(t, billing.StatusConverted, est.Status)
	})

	t.Run("rejects a draft estimate", func(t *testing.T) {
		docs := new(MockDocumentRepository)
		contacts := new(MockContactRepository)

		est, err := billing.NewDocument(billing.SeriesEstimate, nil, "Acme", time.Now(), "INR")
		require.NoError(t, err)
		docs.On("FindByID", mock.Anything, est.ID).Return(est, nil).Once()

		svc := newService(docs, contacts)
		_, err = svc.Convert(context.Background(), est.ID.String())
		require.Error(t, err)
		docs.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestDocumentServiceDelete(t *testing.T) {
	docs := new(MockDocumentRepository)
	contacts := new(MockContactRepository)

	doc, err := billing.NewDocument(billing.SeriesProposal, nil, "Acme", time.Now(), "INR")
	require.NoError(t, err)

	docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil).Once()
	docs.On("Delete", mock.Anything, doc.ID).Return(nil).Once()

	svc := newService(docs, contacts)
	require.NoError(t, svc.Delete(context.Background(), billing.SeriesProposal, doc.ID.String()))
	docs.AssertExpectations(t)
}

func TestDocumentServiceGetWrongSeries(t *testing.T) {
	docs := new(MockDocumentRepository)
	contacts := new(MockContactRepository)

	doc, err := billing.NewDocument(billing.SeriesEstimate, nil, "Acme", time.Now(), "INR")
	require.NoError(t, err)
	docs.On("FindByID", mock.Anything, doc.ID).Return(doc, nil).Once()

	svc := newService(docs, contacts)
	_, err = svc.Get(context.Background(), billing.SeriesInvoice, doc.ID.String())
	assert.Error(t, err)
}

// =============================================================================
// Concurrency property: N concurrent creates allocate N distinct,
// gap-free numbers
// =============================================================================

type memorySequenceRepository struct {
	mu       sync.Mutex
	counters map[billing.DocumentSeries]int64
}

func (r *memorySequenceRepository) Next(_ context.Context, series billing.DocumentSeries) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.counters[series]++
	return r.counters[series], nil
}

func (r *memorySequenceRepository) Current(_ context.Context, series billing.DocumentSeries) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.counters[series], nil
}

// memoryDocumentRepository allocates numbers through a real
// SequenceGenerator on create, mirroring the persistence contract
type memoryDocumentRepository struct {
	mu   sync.Mutex
	docs map[uuid.UUID]*billing.Document
	gen  *billing.SequenceGenerator
}

func newMemoryDocumentRepository() *memoryDocumentRepository {
	return &memoryDocumentRepository{
		docs: make(map[uuid.UUID]*billing.Document),
		gen:  billing.NewSequenceGenerator(&memorySequenceRepository{counters: make(map[billing.DocumentSeries]int64)}),
	}
}

func (r *memoryDocumentRepository) FindByID(_ context.Context, id uuid.UUID) (*billing.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	doc, ok := r.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return doc, nil
}

func (r *memoryDocumentRepository) FindByNumber(_ context.Context, series billing.DocumentSeries, number string) (*billing.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, doc := range r.docs {
		if doc.Series == series && doc.Number == number {
			return doc, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memoryDocumentRepository) FindAll(_ context.Context, series billing.DocumentSeries, _ shared.Filter) ([]billing.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var result []billing.Document
	for _, doc := range r.docs {
		if doc.Series == series {
			result = append(result, *doc)
		}
	}
	return result, nil
}

func (r *memoryDocumentRepository) Count(_ context.Context, series billing.DocumentSeries, _ shared.Filter) (int64, error) {
	docs, _ := r.FindAll(context.Background(), series, shared.Filter{})
	return int64(len(docs)), nil
}

func (r *memoryDocumentRepository) Create(ctx context.Context, doc *billing.Document) error {
	number, _, err := r.gen.Next(ctx, doc.Series)
	if err != nil {
		return err
	}
	if err := doc.AssignNumber(number); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *memoryDocumentRepository) Update(_ context.Context, doc *billing.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.ID] = doc
	return nil
}

func (r *memoryDocumentRepository) UpdateStatus(ctx context.Context, doc *billing.Document) error {
	return r.Update(ctx, doc)
}

func (r *memoryDocumentRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.docs, id)
	return nil
}

func (r *memoryDocumentRepository) Convert(ctx context.Context, estimate, invoice *billing.Document) error {
	if err := r.Create(ctx, invoice); err != nil {
		return err
	}
	return r.Update(ctx, estimate)
}

func TestConcurrentCreatesAllocateDistinctNumbers(t *testing.T) {
	const workers = 50

	repo := newMemoryDocumentRepository()
	svc := newService(repo, new(MockContactRepository))

	numbers := make([]string, workers)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			resp, err := svc.Create(context.Background(), billing.SeriesInvoice, validCreateRequest(), "")
			if err != nil {
				errs[idx] = err
				return
			}
			numbers[idx] = resp.Number
		}(i)
	}
	wg.Wait()

	for idx, err := range errs {
		require.NoError(t, err, "worker %d", idx)
	}

	sort.Strings(numbers)
	for i := 0; i < workers; i++ {
		expected := billing.SeriesInvoice.FormatNumber(int64(i + 1))
		assert.Equal(t, expected, numbers[i], "numbers must be distinct and gap-free")
	}
}

func TestDeleteDoesNotRollBackTheCounter(t *testing.T) {
	repo := newMemoryDocumentRepository()
	svc := newService(repo, new(MockContactRepository))

	first, err := svc.Create(context.Background(), billing.SeriesInvoice, validCreateRequest(), "")
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), billing.SeriesInvoice, first.ID.String()))

	second, err := svc.Create(context.Background(), billing.SeriesInvoice, validCreateRequest(), "")
	require.NoError(t, err)

	assert.NotEqual(t, first.Number, second.Number)
	assert.Equal(t, billing.SeriesInvoice.FormatNumber(2), second.Number)
}

// Package mocks provides in-memory test doubles for the usecase interfaces.
// Every method can be overridden through its corresponding Func field; without
// an override the mocks behave like a small write-through store.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prestapp/prestamos/internal/domain"
	"github.com/prestapp/prestamos/internal/usecase"
)

// MockTx records transaction outcomes.
type MockTx struct {
	Committed  bool
	RolledBack bool

	CommitFunc func(ctx context.Context) error
}

func (t *MockTx) Commit(ctx context.Context) error {
	if t.CommitFunc != nil {
		return t.CommitFunc(ctx)
	}
	t.Committed = true
	return nil
}

func (t *MockTx) Rollback(ctx context.Context) error {
	if !t.Committed {
		t.RolledBack = true
	}
	return nil
}

// MockTxManager hands out MockTx instances and remembers the last one.
type MockTxManager struct {
	LastTx    *MockTx
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTxManager() *MockTxManager { return &MockTxManager{} }

func (m *MockTxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.LastTx = &MockTx{}
	return m.LastTx, nil
}

// MockIDGenerator yields id-1, id-2, ... unless overridden.
type MockIDGenerator struct {
	n            int
	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator { return &MockIDGenerator{} }

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.n++
	return fmt.Sprintf("id-%d", m.n)
}

// MockClientRepository keeps clients keyed by name.
type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.Client

	GetByNameFunc    func(ctx context.Context, tx usecase.Transaction, name string) (*domain.Client, error)
	CreateFunc       func(ctx context.Context, tx usecase.Transaction, client *domain.Client) error
	UpdatePhotosFunc func(ctx context.Context, tx usecase.Transaction, id, photoURL, idPhotoURL string, updatedAt time.Time) error
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{clients: make(map[string]*domain.Client)}
}

func (m *MockClientRepository) GetByName(ctx context.Context, tx usecase.Transaction, name string) (*domain.Client, error) {
	if m.GetByNameFunc != nil {
		return m.GetByNameFunc(ctx, tx, name)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if c, ok := m.clients[name]; ok {
		return c, nil
	}
	return nil, domain.ErrClientNotFound
}

func (m *MockClientRepository) Create(ctx context.Context, tx usecase.Transaction, client *domain.Client) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, client)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.Name] = client
	return nil
}

func (m *MockClientRepository) UpdatePhotos(ctx context.Context, tx usecase.Transaction, id, photoURL, idPhotoURL string, updatedAt time.Time) error {
	if m.UpdatePhotosFunc != nil {
		return m.UpdatePhotosFunc(ctx, tx, id, photoURL, idPhotoURL, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.clients {
		if c.ID == id {
			c.PhotoURL = photoURL
			c.IDPhotoURL = idPhotoURL
			c.UpdatedAt = updatedAt
			return nil
		}
	}
	return domain.ErrClientNotFound
}

// Seed adds a client directly.
func (m *MockClientRepository) Seed(client *domain.Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.clients[client.Name] = client
}

// MockLoanRepository keeps loans (with optional client identity) in memory.
type MockLoanRepository struct {
	mu    sync.RWMutex
	loans map[string]*domain.LoanWithClient

	CreateFunc             func(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error
	GetByIDFunc            func(ctx context.Context, id string) (*domain.LoanWithClient, error)
	GetByIDForUpdateFunc   func(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error)
	UpdateAfterPaymentFunc func(ctx context.Context, tx usecase.Transaction, id string, remaining decimal.Decimal, status string, paid bool) error
	DeleteFunc             func(ctx context.Context, id string) error
	ListWithClientsFunc    func(ctx context.Context) ([]*domain.LoanWithClient, error)
	ListOwingDueAfterFunc  func(ctx context.Context, asOf domain.Date) ([]*domain.LoanWithClient, error)
	PaidClientNamesFunc    func(ctx context.Context) ([]string, error)
	TotalsFunc             func(ctx context.Context, from, to domain.Date) (decimal.Decimal, decimal.Decimal, error)
}

func NewMockLoanRepository() *MockLoanRepository {
	return &MockLoanRepository{loans: make(map[string]*domain.LoanWithClient)}
}

func (m *MockLoanRepository) Create(ctx context.Context, tx usecase.Transaction, loan *domain.Loan) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, loan)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = &domain.LoanWithClient{Loan: *loan}
	return nil
}

func (m *MockLoanRepository) GetByID(ctx context.Context, id string) (*domain.LoanWithClient, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.loans[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.Loan, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if l, ok := m.loans[id]; ok {
		copied := l.Loan
		return &copied, nil
	}
	return nil, domain.ErrLoanNotFound
}

func (m *MockLoanRepository) UpdateAfterPayment(ctx context.Context, tx usecase.Transaction, id string, remaining decimal.Decimal, status string, paid bool) error {
	if m.UpdateAfterPaymentFunc != nil {
		return m.UpdateAfterPaymentFunc(ctx, tx, id, remaining, status, paid)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.loans[id]
	if !ok {
		return domain.ErrLoanNotFound
	}
	l.RemainingBalance = remaining
	l.Status = status
	l.Paid = paid
	return nil
}

func (m *MockLoanRepository) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.loans[id]; !ok {
		return domain.ErrLoanNotFound
	}
	delete(m.loans, id)
	return nil
}

func (m *MockLoanRepository) ListWithClients(ctx context.Context) ([]*domain.LoanWithClient, error) {
	if m.ListWithClientsFunc != nil {
		return m.ListWithClientsFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LoanWithClient, 0, len(m.loans))
	for _, l := range m.loans {
		copied := *l
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.After(out[j].StartDate) })
	return out, nil
}

func (m *MockLoanRepository) ListOwingDueAfter(ctx context.Context, asOf domain.Date) ([]*domain.LoanWithClient, error) {
	if m.ListOwingDueAfterFunc != nil {
		return m.ListOwingDueAfterFunc(ctx, asOf)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.LoanWithClient, 0)
	for _, l := range m.loans {
		if l.Status == domain.StatusOwing && !l.DueDate.Before(asOf) {
			copied := *l
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MockLoanRepository) PaidClientNames(ctx context.Context) ([]string, error) {
	if m.PaidClientNamesFunc != nil {
		return m.PaidClientNamesFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]bool)
	var names []string
	for _, l := range m.loans {
		if l.Status == domain.StatusPaid && !seen[l.ClientName] {
			seen[l.ClientName] = true
			names = append(names, l.ClientName)
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *MockLoanRepository) Totals(ctx context.Context, from, to domain.Date) (decimal.Decimal, decimal.Decimal, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	lent, earned := decimal.Zero, decimal.Zero
	for _, l := range m.loans {
		if !from.IsZero() && l.StartDate.Before(from) {
			continue
		}
		if !to.IsZero() && l.StartDate.After(to) {
			continue
		}
		lent = lent.Add(l.Principal)
		if l.Status == domain.StatusPaid {
			earned = earned.Add(l.TotalDue.Sub(l.Principal))
		}
	}
	return lent, earned, nil
}

// Seed adds a loan directly.
func (m *MockLoanRepository) Seed(loan *domain.LoanWithClient) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loans[loan.ID] = loan
}

// MockPaymentRepository keeps payments in insertion order.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments []*domain.Payment

	CreateFunc      func(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error
	ListByLoanFunc  func(ctx context.Context, loanID string) ([]*domain.Payment, error)
	ListByLoansFunc func(ctx context.Context, loanIDs []string) (map[string][]*domain.Payment, error)
	ListOnDateFunc  func(ctx context.Context, date domain.Date) ([]*domain.PaymentReportRow, error)
}

func NewMockPaymentRepository() *MockPaymentRepository { return &MockPaymentRepository{} }

func (m *MockPaymentRepository) Create(ctx context.Context, tx usecase.Transaction, payment *domain.Payment) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, payment)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, payment)
	return nil
}

func (m *MockPaymentRepository) ListByLoan(ctx context.Context, loanID string) ([]*domain.Payment, error) {
	if m.ListByLoanFunc != nil {
		return m.ListByLoanFunc(ctx, loanID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.Payment, 0)
	for _, p := range m.payments {
		if p.LoanID == loanID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PaidOn.Before(out[j].PaidOn) })
	return out, nil
}

func (m *MockPaymentRepository) ListByLoans(ctx context.Context, loanIDs []string) (map[string][]*domain.Payment, error) {
	if m.ListByLoansFunc != nil {
		return m.ListByLoansFunc(ctx, loanIDs)
	}
	out := make(map[string][]*domain.Payment, len(loanIDs))
	for _, id := range loanIDs {
		payments, _ := m.ListByLoan(ctx, id)
		if len(payments) > 0 {
			out[id] = payments
		}
	}
	return out, nil
}

func (m *MockPaymentRepository) ListOnDate(ctx context.Context, date domain.Date) ([]*domain.PaymentReportRow, error) {
	if m.ListOnDateFunc != nil {
		return m.ListOnDateFunc(ctx, date)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.PaymentReportRow, 0)
	for _, p := range m.payments {
		if p.PaidOn.Equal(date) {
			out = append(out, &domain.PaymentReportRow{Payment: *p})
		}
	}
	return out, nil
}

// All returns every recorded payment.
func (m *MockPaymentRepository) All() []*domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]*domain.Payment(nil), m.payments...)
}

// MockCapitalRepository keeps balance rows and history in memory.
type MockCapitalRepository struct {
	mu      sync.RWMutex
	amounts map[string]decimal.Decimal
	history []*domain.CapitalHistoryEntry

	BalancesFunc      func(ctx context.Context) ([]*domain.CapitalBalance, error)
	ReplaceFunc       func(ctx context.Context, tx usecase.Transaction, source string, amount decimal.Decimal) error
	AddFunc           func(ctx context.Context, tx usecase.Transaction, source string, delta decimal.Decimal) error
	AppendHistoryFunc func(ctx context.Context, tx usecase.Transaction, entry *domain.CapitalHistoryEntry) error
	HistoryFunc       func(ctx context.Context, from, to domain.Date) ([]*domain.CapitalHistoryEntry, error)
}

func NewMockCapitalRepository() *MockCapitalRepository {
	return &MockCapitalRepository{amounts: make(map[string]decimal.Decimal)}
}

func (m *MockCapitalRepository) Balances(ctx context.Context) ([]*domain.CapitalBalance, error) {
	if m.BalancesFunc != nil {
		return m.BalancesFunc(ctx)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.CapitalBalance, 0, len(m.amounts))
	for source, amount := range m.amounts {
		out = append(out, &domain.CapitalBalance{Source: source, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })
	return out, nil
}

func (m *MockCapitalRepository) Replace(ctx context.Context, tx usecase.Transaction, source string, amount decimal.Decimal) error {
	if m.ReplaceFunc != nil {
		return m.ReplaceFunc(ctx, tx, source, amount)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.amounts[source] = amount
	return nil
}

func (m *MockCapitalRepository) Add(ctx context.Context, tx usecase.Transaction, source string, delta decimal.Decimal) error {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, tx, source, delta)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.amounts[source] = m.amounts[source].Add(delta)
	return nil
}

func (m *MockCapitalRepository) AppendHistory(ctx context.Context, tx usecase.Transaction, entry *domain.CapitalHistoryEntry) error {
	if m.AppendHistoryFunc != nil {
		return m.AppendHistoryFunc(ctx, tx, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.history = append(m.history, entry)
	return nil
}

func (m *MockCapitalRepository) History(ctx context.Context, from, to domain.Date) ([]*domain.CapitalHistoryEntry, error) {
	if m.HistoryFunc != nil {
		return m.HistoryFunc(ctx, from, to)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*domain.CapitalHistoryEntry, 0)
	for _, e := range m.history {
		if !from.IsZero() && e.RecordedOn.Before(from) {
			continue
		}
		if !to.IsZero() && e.RecordedOn.After(to) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedOn.After(out[j].RecordedOn) })
	return out, nil
}

// Amount returns the current amount for a source.
func (m *MockCapitalRepository) Amount(source string) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.amounts[source]
}

// HistoryLen returns the number of history entries.
func (m *MockCapitalRepository) HistoryLen() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.history)
}

// MockCache is an in-memory usecase.Cache.
type MockCache struct {
	mu      sync.RWMutex
	entries map[string]string

	Deletes int
}

func NewMockCache() *MockCache { return &MockCache{entries: make(map[string]string)} }

func (c *MockCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if v, ok := c.entries[key]; ok {
		return v, nil
	}
	return "", fmt.Errorf("cache miss: %s", key)
}

func (c *MockCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	return nil
}

func (c *MockCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	c.Deletes++
	return nil
}

package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/dukahub-api/internal/domain/entity"
	"github.com/sangkips/dukahub-api/internal/domain/repository"
	infraRepo "github.com/sangkips/dukahub-api/internal/infrastructure/repository"
	"github.com/sangkips/dukahub-api/internal/infrastructure/session"
	"github.com/shopspring/decimal"
)

var errBoom = errors.New("database unavailable")

func scoped(ctx context.Context, businessID uuid.UUID) bool {
	id, ok := infraRepo.GetBusinessID(ctx)
	return ok && id == businessID
}

// fakeStore backs every fake repository with one set of maps so that
// deletes and stock updates are visible across them
type fakeStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*entity.User
	settings   map[uuid.UUID]*entity.UserSettings
	businesses map[uuid.UUID]*entity.Business
	branches   map[uuid.UUID]*entity.Branch
	products   map[uuid.UUID]*entity.Product
	customers  map[uuid.UUID]*entity.Customer
	sales      []entity.Sale

	saleListErr   error
	productGetErr error
	writes        int

	productLookups [][]uuid.UUID

	// beforeProductUpdate runs inside fakeProductRepo.Update before the
	// write, standing in for a request that commits first
	beforeProductUpdate func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:      map[uuid.UUID]*entity.User{},
		settings:   map[uuid.UUID]*entity.UserSettings{},
		businesses: map[uuid.UUID]*entity.Business{},
		branches:   map[uuid.UUID]*entity.Branch{},
		products:   map[uuid.UUID]*entity.Product{},
		customers:  map[uuid.UUID]*entity.Customer{},
	}
}

// --- users ---

type fakeUserRepo struct{ s *fakeStore }

func (r fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) GetByProvider(_ context.Context, provider, providerID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, u := range r.s.users {
		if u.Provider == provider && u.ProviderID != nil && *u.ProviderID == providerID {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
}

func (r fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

// --- settings ---

type fakeSettingsRepo struct{ s *fakeStore }

func (r fakeSettingsRepo) GetByUserID(_ context.Context, userID uuid.UUID) (*entity.UserSettings, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st, ok := r.s.settings[userID]; ok {
		c := *st
		return &c, nil
	}
	return nil, nil
}

func (r fakeSettingsRepo) Create(_ context.Context, st *entity.UserSettings) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	c := *st
	r.s.settings[st.UserID] = &c
	return nil
}

func (r fakeSettingsRepo) Update(ctx context.Context, st *entity.UserSettings) error {
	return r.Create(ctx, st)
}

func (r fakeSettingsRepo) SetCurrentBusiness(ctx context.Context, userID uuid.UUID, businessID *uuid.UUID) error {
	st, _ := r.GetByUserID(ctx, userID)
	if st == nil {
		st = entity.DefaultUserSettings(userID)
	}
	st.CurrentBusinessID = businessID
	return r.Create(ctx, st)
}

// --- businesses ---

type fakeBusinessRepo struct{ s *fakeStore }

func (r fakeBusinessRepo) Create(_ context.Context, b *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now().Add(time.Duration(len(r.s.businesses)) * time.Millisecond)
	c := *b
	r.s.businesses[b.ID] = &c
	return nil
}

func (r fakeBusinessRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.businesses[id]; ok {
		c := *b
		return &c, nil
	}
	return nil, nil
}

func (r fakeBusinessRepo) Update(_ context.Context, b *entity.Business) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *b
	r.s.businesses[b.ID] = &c
	return nil
}

func (r fakeBusinessRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.businesses, id)
	return nil
}

func (r fakeBusinessRepo) ListByOwner(_ context.Context, ownerID uuid.UUID) ([]entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Business
	for _, b := range r.s.businesses {
		if b.OwnerID == ownerID {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r fakeBusinessRepo) ListAll(_ context.Context) ([]entity.Business, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Business
	for _, b := range r.s.businesses {
		out = append(out, *b)
	}
	return out, nil
}

func (r fakeBusinessRepo) IsOwner(_ context.Context, businessID, userID uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[businessID]
	return ok && b.OwnerID == userID, nil
}

func (r fakeBusinessRepo) RaiseMilestone(_ context.Context, id uuid.UUID, value decimal.Decimal) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.businesses[id]
	if !ok || !b.HighestMilestone.LessThan(value) {
		return false, nil
	}
	b.HighestMilestone = value
	return true, nil
}

// --- branches ---

type fakeBranchRepo struct{ s *fakeStore }

func (r fakeBranchRepo) Create(_ context.Context, b *entity.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	b.CreatedAt = time.Now().Add(time.Duration(len(r.s.branches)) * time.Millisecond)
	c := *b
	r.s.branches[b.ID] = &c
	return nil
}

func (r fakeBranchRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if b, ok := r.s.branches[id]; ok && scoped(ctx, b.BusinessID) {
		c := *b
		return &c, nil
	}
	return nil, nil
}

func (r fakeBranchRepo) Update(_ context.Context, b *entity.Branch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := *b
	r.s.branches[b.ID] = &c
	return nil
}

func (r fakeBranchRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.branches, id)
	return nil
}

func (r fakeBranchRepo) List(ctx context.Context, _ string) ([]entity.Branch, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Branch
	for _, b := range r.s.branches {
		if scoped(ctx, b.BusinessID) {
			out = append(out, *b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

// --- products ---

type fakeProductRepo struct{ s *fakeStore }

func (r fakeProductRepo) Create(_ context.Context, p *entity.Product) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	c := *p
	r.s.products[p.ID] = &c
	r.s.writes++
	return nil
}

func (r fakeProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.productGetErr != nil {
		return nil, r.s.productGetErr
	}
	if p, ok := r.s.products[id]; ok && scoped(ctx, p.BusinessID) {
		c := *p
		return &c, nil
	}
	return nil, nil
}

func (r fakeProductRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	r.s.mu.Lock()
	r.s.productLookups = append(r.s.productLookups, append([]uuid.UUID(nil), ids...))
	r.s.mu.Unlock()
	var out []entity.Product
	for _, id := range ids {
		if p, _ := r.GetByID(ctx, id); p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r fakeProductRepo) Update(_ context.Context, p *entity.Product, update repository.ProductUpdate) error {
	if hook := r.s.beforeProductUpdate; hook != nil {
		r.s.beforeProductUpdate = nil
		hook()
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.products[p.ID]
	if !ok {
		return nil
	}
	if update.ExpectedQuantity != nil && stored.Quantity != *update.ExpectedQuantity {
		return repository.ErrStockConflict
	}
	for _, col := range update.Columns {
		switch col {
		case "name":
			stored.Name = p.Name
		case "brand":
			stored.Brand = p.Brand
		case "price":
			stored.Price = p.Price
		case "cost_price":
			stored.CostPrice = p.CostPrice
		case "quantity":
			stored.Quantity = p.Quantity
		case "available_quantity":
			stored.AvailableQuantity = p.AvailableQuantity
		case "sold":
			stored.Sold = p.Sold
		}
	}
	r.s.writes++
	return nil
}

func (r fakeProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.products, id)
	return nil
}

func (r fakeProductRepo) List(ctx context.Context, _ *repository.ProductFilterParams) ([]entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Product
	for _, p := range r.s.products {
		if scoped(ctx, p.BusinessID) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r fakeProductRepo) GetLowStock(ctx context.Context, threshold int) ([]entity.Product, error) {
	all, _ := r.List(ctx, nil)
	var out []entity.Product
	for _, p := range all {
		if p.Quantity < threshold {
			out = append(out, p)
		}
	}
	return out, nil
}

// --- customers ---

type fakeCustomerRepo struct{ s *fakeStore }

func (r fakeCustomerRepo) Create(_ context.Context, c *entity.Customer) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	cp := *c
	r.s.customers[c.ID] = &cp
	return nil
}

func (r fakeCustomerRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if c, ok := r.s.customers[id]; ok && scoped(ctx, c.BusinessID) {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r fakeCustomerRepo) Update(ctx context.Context, c *entity.Customer) error {
	return r.Create(ctx, c)
}

func (r fakeCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.customers, id)
	return nil
}

func (r fakeCustomerRepo) List(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []entity.Customer
	for _, c := range r.s.customers {
		if scoped(ctx, c.BusinessID) && (params.Type == "" || c.Type == params.Type) {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r fakeCustomerRepo) EnsureDefaults(ctx context.Context, businessID uuid.UUID) error {
	r.s.mu.Lock()
	var have []entity.Customer
	for _, c := range r.s.customers {
		if c.BusinessID == businessID && c.IsDefault {
			have = append(have, *c)
		}
	}
	r.s.mu.Unlock()

	for _, def := range entity.DefaultCustomers(businessID) {
		found := false
		for _, c := range have {
			if c.Type == def.Type {
				found = true
			}
		}
		if !found {
			d := def
			if err := r.Create(ctx, &d); err != nil {
				return err
			}
		}
	}
	return nil
}

// --- sales ---

type fakeSaleRepo struct{ s *fakeStore }

func (r fakeSaleRepo) CreateWithStockDecrement(ctx context.Context, sale *entity.Sale, expected int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.products[sale.ProductID]
	if !ok || !scoped(ctx, p.BusinessID) || p.Quantity != expected || expected < sale.Quantity {
		return repository.ErrStockConflict
	}
	p.Quantity = expected - sale.Quantity
	p.Sold = p.Quantity == 0
	p.SaleDate = &sale.Date
	if sale.ID == uuid.Nil {
		sale.ID = uuid.New()
	}
	r.s.sales = append(r.s.sales, *sale)
	r.s.writes++
	return nil
}

func (r fakeSaleRepo) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, s := range r.s.sales {
		if s.ID == id && scoped(ctx, s.BusinessID) {
			c := s
			return &c, nil
		}
	}
	return nil, nil
}

func (r fakeSaleRepo) List(ctx context.Context, params *repository.SaleFilterParams) ([]entity.Sale, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.saleListErr != nil {
		return nil, r.s.saleListErr
	}
	var out []entity.Sale
	for _, s := range r.s.sales {
		if !scoped(ctx, s.BusinessID) {
			continue
		}
		if params.Start != nil && s.Date.Before(*params.Start) {
			continue
		}
		if params.End != nil && s.Date.After(*params.End) {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

// --- session ---

type recordingBus struct {
	mu     sync.Mutex
	events map[uuid.UUID][]session.Event
}

func newRecordingBus() *recordingBus {
	return &recordingBus{events: map[uuid.UUID][]session.Event{}}
}

func (b *recordingBus) Publish(_ context.Context, userID uuid.UUID, event session.Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events[userID] = append(b.events[userID], event)
	return nil
}

func (b *recordingBus) Subscribe(context.Context, uuid.UUID) (<-chan session.Event, func(), error) {
	ch := make(chan session.Event)
	close(ch)
	return ch, func() {}, nil
}

func (b *recordingBus) For(userID uuid.UUID) []session.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]session.Event(nil), b.events[userID]...)
}

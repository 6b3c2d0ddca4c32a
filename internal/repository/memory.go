package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"commission-backend/internal/model"
)

const memTxKey contextKey = "memory_tx"

// memoryDB backs the in-memory Store used for demos and tests. Writes are
// serialized; a failed transaction restores the state captured when it began.
type memoryDB struct {
	mu   sync.RWMutex
	txMu sync.Mutex

	sales       map[uuid.UUID]model.Sale
	commissions map[uuid.UUID]model.Commission
	packages    map[uuid.UUID]model.MarketingPackage
	users       map[uuid.UUID]model.User
	audit       []model.AuditLog
}

type memorySnapshot struct {
	sales       map[uuid.UUID]model.Sale
	commissions map[uuid.UUID]model.Commission
	packages    map[uuid.UUID]model.MarketingPackage
	users       map[uuid.UUID]model.User
	audit       []model.AuditLog
}

func cloneMap[K comparable, V any](in map[K]V) map[K]V {
	out := make(map[K]V, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func (m *memoryDB) snapshot() memorySnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return memorySnapshot{
		sales:       cloneMap(m.sales),
		commissions: cloneMap(m.commissions),
		packages:    cloneMap(m.packages),
		users:       cloneMap(m.users),
		audit:       append([]model.AuditLog(nil), m.audit...),
	}
}

func (m *memoryDB) restore(s memorySnapshot) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sales, m.commissions, m.packages, m.users, m.audit = s.sales, s.commissions, s.packages, s.users, s.audit
}

// write runs fn under the write lock. Outside a transaction it also takes the
// transaction lock, so single writes never interleave with a running unit of work.
func (m *memoryDB) write(ctx context.Context, fn func() error) error {
	if ctx.Value(memTxKey) == nil {
		m.txMu.Lock()
		defer m.txMu.Unlock()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn()
}

func (m *memoryDB) read(fn func()) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	fn()
}

type memoryTxManager struct{ db *memoryDB }

func (t *memoryTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if ctx.Value(memTxKey) != nil {
		return fn(ctx)
	}
	t.db.txMu.Lock()
	defer t.db.txMu.Unlock()

	snap := t.db.snapshot()
	if err := fn(context.WithValue(ctx, memTxKey, true)); err != nil {
		t.db.restore(snap)
		return err
	}
	return nil
}

// NewMemoryStore returns a Store kept entirely in process memory.
func NewMemoryStore() *Store {
	db := &memoryDB{
		sales:       make(map[uuid.UUID]model.Sale),
		commissions: make(map[uuid.UUID]model.Commission),
		packages:    make(map[uuid.UUID]model.MarketingPackage),
		users:       make(map[uuid.UUID]model.User),
	}
	return &Store{
		Sales:       &memorySales{db: db},
		Commissions: &memoryCommissions{db: db},
		Marketing:   &memoryMarketing{db: db},
		Users:       &memoryUsers{db: db},
		Audit:       &memoryAudit{db: db},
		Tx:          &memoryTxManager{db: db},
	}
}

func stamp(id *uuid.UUID, created, updated *time.Time) {
	now := time.Now()
	if *id == uuid.Nil {
		*id = uuid.New()
	}
	if created.IsZero() {
		*created = now
	}
	*updated = now
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func (m *memoryDB) userRef(id uuid.UUID) *model.User {
	if u, ok := m.users[id]; ok {
		return &u
	}
	return nil
}

// sales

type memorySales struct{ db *memoryDB }

func (r *memorySales) Create(ctx context.Context, sale *model.Sale) error {
	return r.db.write(ctx, func() error {
		stamp(&sale.ID, &sale.CreatedAt, &sale.UpdatedAt)
		if _, exists := r.db.sales[sale.ID]; exists {
			return fmt.Errorf("%w: duplicate sale id %s", ErrConstraint, sale.ID)
		}
		stored := *sale
		stored.Salesperson = nil
		r.db.sales[sale.ID] = stored
		return nil
	})
}

func (r *memorySales) FindByID(_ context.Context, id uuid.UUID) (*model.Sale, error) {
	var out *model.Sale
	r.db.read(func() {
		if s, ok := r.db.sales[id]; ok {
			out = &s
		}
	})
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (r *memorySales) matching(f SaleFilter) []model.Sale {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	var out []model.Sale
	for _, s := range r.db.sales {
		if f.SalespersonID != nil && s.SalespersonID != *f.SalespersonID {
			continue
		}
		if f.Status != "" && s.Status != f.Status {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(s.ClientName), search) &&
			!strings.Contains(strings.ToLower(s.ClientEmail), search) {
			continue
		}
		if !inRange(s.SaleDate, f.From, f.To) {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if !a.SaleDate.Equal(b.SaleDate) {
			return a.SaleDate.After(b.SaleDate)
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return out
}

func (r *memorySales) List(_ context.Context, f SaleFilter) ([]model.Sale, int64, error) {
	var page []model.Sale
	var total int64
	r.db.read(func() {
		all := r.matching(f)
		total = int64(len(all))
		page = pageOf(all, f.Page, f.Limit)
		for i := range page {
			page[i].Salesperson = r.db.userRef(page[i].SalespersonID)
		}
	})
	return page, total, nil
}

func (r *memorySales) FindAll(_ context.Context, f SaleFilter) ([]model.Sale, error) {
	var out []model.Sale
	r.db.read(func() { out = r.matching(f) })
	return out, nil
}

func (r *memorySales) Update(ctx context.Context, sale *model.Sale) error {
	return r.db.write(ctx, func() error {
		if _, ok := r.db.sales[sale.ID]; !ok {
			return ErrNotFound
		}
		sale.UpdatedAt = time.Now()
		stored := *sale
		stored.Salesperson = nil
		r.db.sales[sale.ID] = stored
		return nil
	})
}

func (r *memorySales) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.write(ctx, func() error {
		if _, ok := r.db.sales[id]; !ok {
			return ErrNotFound
		}
		delete(r.db.sales, id)
		for cid, c := range r.db.commissions {
			if c.SaleID == id {
				delete(r.db.commissions, cid)
			}
		}
		return nil
	})
}

// commissions

type memoryCommissions struct{ db *memoryDB }

func (r *memoryCommissions) Create(ctx context.Context, c *model.Commission) error {
	return r.db.write(ctx, func() error {
		if _, ok := r.db.sales[c.SaleID]; !ok {
			return fmt.Errorf("%w: sale %s does not exist", ErrConstraint, c.SaleID)
		}
		for _, existing := range r.db.commissions {
			if existing.SaleID == c.SaleID {
				return fmt.Errorf("%w: sale %s already has a commission", ErrConstraint, c.SaleID)
			}
		}
		stamp(&c.ID, &c.CreatedAt, &c.UpdatedAt)
		stored := *c
		stored.Sale = nil
		r.db.commissions[c.ID] = stored
		return nil
	})
}

func (r *memoryCommissions) withSale(c model.Commission) model.Commission {
	if s, ok := r.db.sales[c.SaleID]; ok {
		c.Sale = &s
	}
	return c
}

func (r *memoryCommissions) FindByID(_ context.Context, id uuid.UUID) (*model.Commission, error) {
	var out *model.Commission
	r.db.read(func() {
		if c, ok := r.db.commissions[id]; ok {
			c = r.withSale(c)
			out = &c
		}
	})
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (r *memoryCommissions) FindBySaleID(_ context.Context, saleID uuid.UUID) (*model.Commission, error) {
	var out *model.Commission
	r.db.read(func() {
		for _, c := range r.db.commissions {
			if c.SaleID == saleID {
				c := c
				out = &c
				return
			}
		}
	})
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (r *memoryCommissions) FindByIDs(_ context.Context, ids []uuid.UUID) ([]model.Commission, error) {
	var out []model.Commission
	r.db.read(func() {
		for _, id := range ids {
			if c, ok := r.db.commissions[id]; ok {
				out = append(out, c)
			}
		}
	})
	return out, nil
}

func (r *memoryCommissions) matching(f CommissionFilter) []model.Commission {
	var out []model.Commission
	for _, c := range r.db.commissions {
		if f.SalespersonID != nil && c.SalespersonID != *f.SalespersonID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		if !inRange(c.CreatedAt, f.From, f.To) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (r *memoryCommissions) List(_ context.Context, f CommissionFilter) ([]model.Commission, int64, error) {
	var page []model.Commission
	var total int64
	r.db.read(func() {
		all := r.matching(f)
		total = int64(len(all))
		page = pageOf(all, f.Page, f.Limit)
		for i := range page {
			page[i] = r.withSale(page[i])
		}
	})
	return page, total, nil
}

func (r *memoryCommissions) FindAll(_ context.Context, f CommissionFilter) ([]model.Commission, error) {
	var out []model.Commission
	r.db.read(func() { out = r.matching(f) })
	return out, nil
}

func (r *memoryCommissions) Update(ctx context.Context, c *model.Commission) error {
	return r.db.write(ctx, func() error {
		if _, ok := r.db.commissions[c.ID]; !ok {
			return ErrNotFound
		}
		c.UpdatedAt = time.Now()
		stored := *c
		stored.Sale = nil
		r.db.commissions[c.ID] = stored
		return nil
	})
}

func (r *memoryCommissions) DeleteBySaleID(ctx context.Context, saleID uuid.UUID) error {
	return r.db.write(ctx, func() error {
		for id, c := range r.db.commissions {
			if c.SaleID == saleID {
				delete(r.db.commissions, id)
			}
		}
		return nil
	})
}

// marketing packages

type memoryMarketing struct{ db *memoryDB }

func (r *memoryMarketing) Create(ctx context.Context, pkg *model.MarketingPackage) error {
	return r.db.write(ctx, func() error {
		stamp(&pkg.ID, &pkg.CreatedAt, &pkg.UpdatedAt)
		if _, exists := r.db.packages[pkg.ID]; exists {
			return fmt.Errorf("%w: duplicate package id %s", ErrConstraint, pkg.ID)
		}
		r.db.packages[pkg.ID] = *pkg
		return nil
	})
}

func (r *memoryMarketing) FindByID(_ context.Context, id uuid.UUID) (*model.MarketingPackage, error) {
	var out *model.MarketingPackage
	r.db.read(func() {
		if p, ok := r.db.packages[id]; ok {
			out = &p
		}
	})
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (r *memoryMarketing) matching(f MarketingFilter) []model.MarketingPackage {
	var out []model.MarketingPackage
	for _, p := range r.db.packages {
		if f.SalespersonID != nil && p.SalespersonID != *f.SalespersonID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.Tier != "" && p.Tier != f.Tier {
			continue
		}
		if f.ReferenceMonth != "" && p.ReferenceMonth != f.ReferenceMonth {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ReferenceMonth != b.ReferenceMonth {
			return a.ReferenceMonth > b.ReferenceMonth
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID.String() < b.ID.String()
	})
	return out
}

func (r *memoryMarketing) List(_ context.Context, f MarketingFilter) ([]model.MarketingPackage, int64, error) {
	var page []model.MarketingPackage
	var total int64
	r.db.read(func() {
		all := r.matching(f)
		total = int64(len(all))
		page = pageOf(all, f.Page, f.Limit)
	})
	return page, total, nil
}

func (r *memoryMarketing) FindAll(_ context.Context, f MarketingFilter) ([]model.MarketingPackage, error) {
	var out []model.MarketingPackage
	r.db.read(func() { out = r.matching(f) })
	return out, nil
}

func (r *memoryMarketing) Update(ctx context.Context, pkg *model.MarketingPackage) error {
	return r.db.write(ctx, func() error {
		if _, ok := r.db.packages[pkg.ID]; !ok {
			return ErrNotFound
		}
		pkg.UpdatedAt = time.Now()
		r.db.packages[pkg.ID] = *pkg
		return nil
	})
}

// users

type memoryUsers struct{ db *memoryDB }

func (r *memoryUsers) Create(ctx context.Context, user *model.User) error {
	return r.db.write(ctx, func() error {
		for _, u := range r.db.users {
			if u.Email == user.Email {
				return fmt.Errorf("%w: email %s already registered", ErrConstraint, user.Email)
			}
		}
		stamp(&user.ID, &user.CreatedAt, &user.UpdatedAt)
		r.db.users[user.ID] = *user
		return nil
	})
}

func (r *memoryUsers) GetByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	var out *model.User
	r.db.read(func() { out = r.db.userRef(id) })
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (r *memoryUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	var out *model.User
	r.db.read(func() {
		for _, u := range r.db.users {
			if u.Email == email {
				u := u
				out = &u
				return
			}
		}
	})
	if out == nil {
		return nil, ErrNotFound
	}
	return out, nil
}

func (r *memoryUsers) sorted() []model.User {
	out := make([]model.User, 0, len(r.db.users))
	for _, u := range r.db.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

func (r *memoryUsers) List(_ context.Context, page, limit int) ([]model.User, int64, error) {
	var out []model.User
	var total int64
	r.db.read(func() {
		all := r.sorted()
		total = int64(len(all))
		out = pageOf(all, page, limit)
	})
	return out, total, nil
}

func (r *memoryUsers) FindAll(_ context.Context) ([]model.User, error) {
	var out []model.User
	r.db.read(func() { out = r.sorted() })
	return out, nil
}

func (r *memoryUsers) Update(ctx context.Context, user *model.User) error {
	return r.db.write(ctx, func() error {
		if _, ok := r.db.users[user.ID]; !ok {
			return ErrNotFound
		}
		for id, u := range r.db.users {
			if id != user.ID && u.Email == user.Email {
				return fmt.Errorf("%w: email %s already registered", ErrConstraint, user.Email)
			}
		}
		user.UpdatedAt = time.Now()
		r.db.users[user.ID] = *user
		return nil
	})
}

// audit

type memoryAudit struct{ db *memoryDB }

func (r *memoryAudit) Log(ctx context.Context, entry *model.AuditLog) error {
	return r.db.write(ctx, func() error {
		if entry.ID == uuid.Nil {
			entry.ID = uuid.New()
		}
		if entry.CreatedAt.IsZero() {
			entry.CreatedAt = time.Now()
		}
		stored := *entry
		stored.User = nil
		r.db.audit = append(r.db.audit, stored)
		return nil
	})
}

func (r *memoryAudit) List(_ context.Context, f AuditFilter) ([]model.AuditLog, int64, error) {
	var page []model.AuditLog
	var total int64
	r.db.read(func() {
		var all []model.AuditLog
		for i := len(r.db.audit) - 1; i >= 0; i-- {
			e := r.db.audit[i]
			if f.EntityType != "" && e.EntityType != f.EntityType {
				continue
			}
			if f.EntityID != "" && e.EntityID != f.EntityID {
				continue
			}
			if e.UserID != nil {
				e.User = r.db.userRef(*e.UserID)
			}
			all = append(all, e)
		}
		total = int64(len(all))
		page = pageOf(all, f.Page, f.Limit)
	})
	return page, total, nil
}

func (r *memoryAudit) FindAll(_ context.Context) ([]model.AuditLog, error) {
	var out []model.AuditLog
	r.db.read(func() { out = append([]model.AuditLog(nil), r.db.audit...) })
	return out, nil
}

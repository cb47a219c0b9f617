package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gymcore/gym-api/internal/core/domain"
	"github.com/gymcore/gym-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

func strPtr(s string) *string { return &s }

// stubUserRepo guards every access with a mutex so SwapCurrentCenter behaves
// like the conditional UPDATE of the real store.
type stubUserRepo struct {
	mu        sync.Mutex
	byID      map[string]*domain.User
	swaps     int
	swapHook  func() // runs before the compare, under no lock
	createErr error
}

func newStubUserRepo(users ...*domain.User) *stubUserRepo {
	r := &stubUserRepo{byID: make(map[string]*domain.User)}
	for _, u := range users {
		r.byID[u.ID] = cloneUser(u)
	}
	return r
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

func sameCenter(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, u := range r.byID {
		if u.Email == user.Email {
			return domain.ErrUserExists
		}
	}
	r.byID[user.ID] = cloneUser(user)
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *stubUserRepo) List(_ context.Context, f ports.UserFilter) ([]domain.User, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.byID {
		if f.CenterID != "" && !sameCenter(u.AssignedCenterID, &f.CenterID) && !sameCenter(u.CurrentCenterID, &f.CenterID) {
			continue
		}
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *stubUserRepo) ListPresent(_ context.Context, centerID string) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.byID {
		if u.PresentAt(centerID) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byID[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	clone := cloneUser(user)
	clone.CurrentCenterID = stored.CurrentCenterID
	r.byID[user.ID] = clone
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	return nil
}

func (r *stubUserRepo) SwapCurrentCenter(_ context.Context, userID string, from, to *string) (bool, error) {
	if r.swapHook != nil {
		r.swapHook()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.swaps++
	u, ok := r.byID[userID]
	if !ok || !sameCenter(u.CurrentCenterID, from) {
		return false, nil
	}
	if to == nil {
		u.CurrentCenterID = nil
	} else {
		u.CurrentCenterID = strPtr(*to)
	}
	return true, nil
}

func (r *stubUserRepo) current(id string) *string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id].CurrentCenterID
}

type stubCenterRepo struct {
	byID map[string]*domain.Center
}

func newStubCenterRepo(ids ...string) *stubCenterRepo {
	r := &stubCenterRepo{byID: make(map[string]*domain.Center)}
	for _, id := range ids {
		r.byID[id] = &domain.Center{ID: id, Name: "Center " + id}
	}
	return r
}

func (r *stubCenterRepo) Create(_ context.Context, c *domain.Center) error {
	for _, existing := range r.byID {
		if existing.Name == c.Name {
			return domain.ErrCenterExists
		}
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCenterRepo) FindByID(_ context.Context, id string) (*domain.Center, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrCenterNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *stubCenterRepo) List(_ context.Context) ([]domain.Center, error) {
	var out []domain.Center
	for _, c := range r.byID {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCenterRepo) Update(_ context.Context, c *domain.Center) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrCenterNotFound
	}
	clone := *c
	r.byID[c.ID] = &clone
	return nil
}

func (r *stubCenterRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrCenterNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubEventRepo struct {
	lastFilter ports.AccessHistoryFilter
	events     []domain.AccessEvent
}

func (r *stubEventRepo) Insert(_ context.Context, e *domain.AccessEvent) error {
	r.events = append(r.events, *e)
	return nil
}

func (r *stubEventRepo) List(_ context.Context, f ports.AccessHistoryFilter) ([]domain.AccessEvent, error) {
	r.lastFilter = f
	return r.events, nil
}

type stubRecorder struct {
	mu     sync.Mutex
	events []domain.AccessEvent
}

func (r *stubRecorder) Record(e domain.AccessEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *stubRecorder) recorded() []domain.AccessEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AccessEvent(nil), r.events...)
}

type stubReplayGuard struct {
	seen map[string]bool
	err  error
}

func (g *stubReplayGuard) Claim(_ context.Context, t domain.ScanToken) (bool, error) {
	if g.err != nil {
		return false, g.err
	}
	key := t.SubjectID + "|" + t.IssuedAt.String()
	if g.seen[key] {
		return false, nil
	}
	g.seen[key] = true
	return true, nil
}

// stubRepository is a generic in-memory ports.Repository keyed through P.
type stubRepository[T any, P domain.Record[T]] struct {
	byID    map[string]T
	updated int
}

func newStubRepository[T any, P domain.Record[T]]() *stubRepository[T, P] {
	return &stubRepository[T, P]{byID: make(map[string]T)}
}

func (r *stubRepository[T, P]) Create(_ context.Context, item *T) error {
	r.byID[P(item).GetID()] = *item
	return nil
}

func (r *stubRepository[T, P]) FindByID(_ context.Context, id string) (*T, error) {
	item, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrResourceNotFound
	}
	return &item, nil
}

func (r *stubRepository[T, P]) List(_ context.Context, _ ports.ListFilter) ([]T, int64, error) {
	out := make([]T, 0, len(r.byID))
	for _, item := range r.byID {
		out = append(out, item)
	}
	return out, int64(len(out)), nil
}

func (r *stubRepository[T, P]) Update(_ context.Context, item *T) error {
	id := P(item).GetID()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrResourceNotFound
	}
	r.updated++
	r.byID[id] = *item
	return nil
}

func (r *stubRepository[T, P]) Delete(_ context.Context, id string) error {
	delete(r.byID, id)
	return nil
}

// ---------------------------------------------------------------------------
// Identities
// ---------------------------------------------------------------------------

func adminIdentity() domain.Identity {
	return domain.Identity{UserID: "admin-1", Email: "admin@gym.test", Role: domain.RoleAdmin}
}

func centerAdminIdentity(centerID string) domain.Identity {
	return domain.Identity{UserID: "ca-" + centerID, Email: "ca@gym.test", Role: domain.RoleCenterAdmin, CenterID: centerID}
}

func memberIdentity(id string) domain.Identity {
	return domain.Identity{UserID: id, Email: id + "@gym.test", Role: domain.RoleMember}
}

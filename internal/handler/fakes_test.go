package handler

// In-memory store fakes backing the handler tests.  They implement the
// store interfaces with the same sentinel errors and ordering rules as the
// MySQL repositories, so handlers can be exercised without a database.

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"time"

	"github.com/crbservicos/field-api/internal/repository"
)

type fakeUserStore struct {
	users  map[uint64]repository.User
	nextID uint64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: map[uint64]repository.User{}}
}

func (f *fakeUserStore) List(ctx context.Context) ([]repository.User, error) {
	out := make([]repository.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uint64) (repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserStore) GetByEmail(ctx context.Context, email string) (repository.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return repository.User{}, repository.ErrUserNotFound
}

func (f *fakeUserStore) Create(ctx context.Context, u *repository.User) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	for _, existing := range f.users {
		if existing.Email == u.Email {
			return repository.ErrEmailExists
		}
	}
	f.nextID++
	u.ID = f.nextID
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserStore) Update(ctx context.Context, u *repository.User) error {
	existing, ok := f.users[u.ID]
	if !ok {
		return repository.ErrUserNotFound
	}
	if u.PasswordHash == "" {
		u.PasswordHash = existing.PasswordHash
	}
	f.users[u.ID] = *u
	return nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

// fakeRecordStore also serves as the AuditLogStore: entries written by
// DeleteWithAudit land in audits, mirroring the shared database.
type fakeRecordStore struct {
	records map[uint64]repository.Record
	audits  []repository.AuditLog
	nextID  uint64
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: map[uint64]repository.Record{}}
}

func (f *fakeRecordStore) List(ctx context.Context, operatorID uint64) ([]repository.Record, error) {
	out := []repository.Record{}
	for _, r := range f.records {
		if operatorID != 0 && r.OperatorID != operatorID {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (f *fakeRecordStore) GetByID(ctx context.Context, id uint64) (repository.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return repository.Record{}, repository.ErrRecordNotFound
	}
	return r, nil
}

func (f *fakeRecordStore) Create(ctx context.Context, rec *repository.Record) error {
	f.nextID++
	rec.ID = f.nextID
	rec.BeforePhotos = []string{}
	rec.AfterPhotos = []string{}
	f.records[rec.ID] = *rec
	return nil
}

func (f *fakeRecordStore) SetEndTime(ctx context.Context, id uint64, end *time.Time) (repository.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return repository.Record{}, repository.ErrRecordNotFound
	}
	r.EndTime = end
	f.records[id] = r
	return r, nil
}

func (f *fakeRecordStore) AppendPhotos(ctx context.Context, id uint64, phase string, urls []string) (repository.Record, error) {
	r, ok := f.records[id]
	if !ok {
		return repository.Record{}, repository.ErrRecordNotFound
	}
	switch phase {
	case repository.PhaseBefore:
		r.BeforePhotos = append(r.BeforePhotos, urls...)
	case repository.PhaseAfter:
		r.AfterPhotos = append(r.AfterPhotos, urls...)
	default:
		return repository.Record{}, repository.ErrInvalidPhase
	}
	f.records[id] = r
	return r, nil
}

func (f *fakeRecordStore) DeleteWithAudit(ctx context.Context, id uint64, entry *repository.AuditLog) error {
	if _, ok := f.records[id]; !ok {
		return repository.ErrRecordNotFound
	}
	delete(f.records, id)
	e := *entry
	e.ID = uint64(len(f.audits) + 1)
	e.Timestamp = time.Now().UTC()
	f.audits = append(f.audits, e)
	return nil
}

func (f *fakeRecordStore) ListAudits(ctx context.Context) ([]repository.AuditLog, error) {
	out := make([]repository.AuditLog, len(f.audits))
	copy(out, f.audits)
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	return out, nil
}

// auditView adapts fakeRecordStore to the AuditLogStore interface.
type auditView struct{ *fakeRecordStore }

func (v auditView) List(ctx context.Context) ([]repository.AuditLog, error) {
	return v.ListAudits(ctx)
}

type fakeLocationStore struct {
	locations map[uint64]repository.Location
	nextID    uint64
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{locations: map[uint64]repository.Location{}}
}

func (f *fakeLocationStore) List(ctx context.Context) ([]repository.Location, error) {
	out := make([]repository.Location, 0, len(f.locations))
	for _, l := range f.locations {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeLocationStore) Create(ctx context.Context, l *repository.Location) error {
	f.nextID++
	l.ID = f.nextID
	f.locations[l.ID] = *l
	return nil
}

func (f *fakeLocationStore) Update(ctx context.Context, l *repository.Location) error {
	if _, ok := f.locations[l.ID]; !ok {
		return repository.ErrLocationNotFound
	}
	f.locations[l.ID] = *l
	return nil
}

func (f *fakeLocationStore) Delete(ctx context.Context, id uint64) error {
	if _, ok := f.locations[id]; !ok {
		return repository.ErrLocationNotFound
	}
	delete(f.locations, id)
	return nil
}

type fakeTokenStore struct {
	tokens map[string]fakeToken // keyed by hash
}

type fakeToken struct {
	userID  uint64
	exp     time.Time
	revoked bool
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]fakeToken{}}
}

func (f *fakeTokenStore) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	f.tokens[tokenHash] = fakeToken{userID: userID, exp: exp}
	return nil
}

func (f *fakeTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	t, ok := f.tokens[tokenHash]
	if !ok || t.revoked || time.Now().UTC().After(t.exp) {
		return 0, sql.ErrNoRows
	}
	return t.userID, nil
}

func (f *fakeTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	if t, ok := f.tokens[tokenHash]; ok {
		t.revoked = true
		f.tokens[tokenHash] = t
	}
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(ctx context.Context, userID uint64) error {
	for hash, t := range f.tokens {
		if t.userID == userID {
			t.revoked = true
			f.tokens[hash] = t
		}
	}
	return nil
}

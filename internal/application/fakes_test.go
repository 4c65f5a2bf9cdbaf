package application

import (
	"context"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/portofolio/internal/domain/entity"
	repo "github.com/oksasatya/portofolio/internal/domain/repository"
	"github.com/oksasatya/portofolio/internal/infrastructure/search"
)

var errStore = errors.New("store down")

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// memRows is an owner-scoped in-memory table.
type memRows[T any] struct {
	mu    sync.Mutex
	rows  map[string]T
	id    func(*T) *string
	owner func(*T) string
	fail  error
}

func newMemRows[T any](id func(*T) *string, owner func(*T) string) *memRows[T] {
	return &memRows[T]{rows: map[string]T{}, id: id, owner: owner}
}

func (m *memRows[T]) create(v *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	*m.id(v) = uuid.NewString()
	m.rows[*m.id(v)] = *v
	return nil
}

func (m *memRows[T]) get(ownerID, id string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	v, ok := m.rows[id]
	if !ok || m.owner(&v) != ownerID {
		return nil, repo.ErrNotFound
	}
	return &v, nil
}

func (m *memRows[T]) update(v *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	cur, ok := m.rows[*m.id(v)]
	if !ok || m.owner(&cur) != m.owner(v) {
		return repo.ErrNotFound
	}
	m.rows[*m.id(v)] = *v
	return nil
}

func (m *memRows[T]) delete(ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	v, ok := m.rows[id]
	if !ok || m.owner(&v) != ownerID {
		return repo.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memRows[T]) list(ownerID string) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	keys := make([]string, 0, len(m.rows))
	for k := range m.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0)
	for _, k := range keys {
		v := m.rows[k]
		if m.owner(&v) == ownerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (m *memRows[T]) count(ownerID string) (int, error) {
	items, err := m.list(ownerID)
	return len(items), err
}

// ---- projects ----

type memProjects struct {
	*memRows[entity.Project]
	lastFilter repo.ProjectFilter
}

func newMemProjects() *memProjects {
	return &memProjects{memRows: newMemRows(
		func(p *entity.Project) *string { return &p.ID },
		func(p *entity.Project) string { return p.OwnerID },
	)}
}

func (m *memProjects) List(_ context.Context, ownerID string, f repo.ProjectFilter) ([]entity.Project, int, error) {
	m.lastFilter = f
	items, err := m.list(ownerID)
	if err != nil {
		return nil, 0, err
	}
	out := make([]entity.Project, 0, len(items))
	for _, p := range items {
		if f.Featured && !p.Featured {
			continue
		}
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		out = append(out, p)
	}
	total := len(out)
	if f.Limit > 0 {
		if f.Offset > len(out) {
			f.Offset = len(out)
		}
		end := f.Offset + f.Limit
		if end > len(out) {
			end = len(out)
		}
		out = out[f.Offset:end]
	}
	return out, total, nil
}

func (m *memProjects) Get(_ context.Context, ownerID, id string) (*entity.Project, error) {
	return m.get(ownerID, id)
}

func (m *memProjects) GetMany(_ context.Context, ownerID string, ids []string) ([]entity.Project, error) {
	out := make([]entity.Project, 0, len(ids))
	for _, id := range ids {
		if p, err := m.get(ownerID, id); err == nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (m *memProjects) Create(_ context.Context, p *entity.Project) error { return m.create(p) }
func (m *memProjects) Update(_ context.Context, p *entity.Project) error { return m.update(p) }
func (m *memProjects) Delete(_ context.Context, ownerID, id string) error {
	return m.delete(ownerID, id)
}
func (m *memProjects) Count(_ context.Context, ownerID string) (int, error) { return m.count(ownerID) }

// ---- certificates ----

type memCertificates struct{ *memRows[entity.Certificate] }

func newMemCertificates() *memCertificates {
	return &memCertificates{newMemRows(
		func(c *entity.Certificate) *string { return &c.ID },
		func(c *entity.Certificate) string { return c.OwnerID },
	)}
}

func (m *memCertificates) List(_ context.Context, ownerID string) ([]entity.Certificate, error) {
	return m.list(ownerID)
}
func (m *memCertificates) Get(_ context.Context, ownerID, id string) (*entity.Certificate, error) {
	return m.get(ownerID, id)
}
func (m *memCertificates) Create(_ context.Context, c *entity.Certificate) error { return m.create(c) }
func (m *memCertificates) Update(_ context.Context, c *entity.Certificate) error { return m.update(c) }
func (m *memCertificates) Delete(_ context.Context, ownerID, id string) error {
	return m.delete(ownerID, id)
}
func (m *memCertificates) Count(_ context.Context, ownerID string) (int, error) {
	return m.count(ownerID)
}

// ---- education ----

type memEducations struct{ *memRows[entity.Education] }

func newMemEducations() *memEducations {
	return &memEducations{newMemRows(
		func(e *entity.Education) *string { return &e.ID },
		func(e *entity.Education) string { return e.OwnerID },
	)}
}

func (m *memEducations) List(_ context.Context, ownerID string) ([]entity.Education, error) {
	return m.list(ownerID)
}
func (m *memEducations) Get(_ context.Context, ownerID, id string) (*entity.Education, error) {
	return m.get(ownerID, id)
}
func (m *memEducations) Create(_ context.Context, e *entity.Education) error { return m.create(e) }
func (m *memEducations) Update(_ context.Context, e *entity.Education) error { return m.update(e) }
func (m *memEducations) Delete(_ context.Context, ownerID, id string) error {
	return m.delete(ownerID, id)
}
func (m *memEducations) Count(_ context.Context, ownerID string) (int, error) {
	return m.count(ownerID)
}

// ---- experience ----

type memExperiences struct{ *memRows[entity.Experience] }

func newMemExperiences() *memExperiences {
	return &memExperiences{newMemRows(
		func(e *entity.Experience) *string { return &e.ID },
		func(e *entity.Experience) string { return e.OwnerID },
	)}
}

func (m *memExperiences) List(_ context.Context, ownerID string) ([]entity.Experience, error) {
	return m.list(ownerID)
}
func (m *memExperiences) Get(_ context.Context, ownerID, id string) (*entity.Experience, error) {
	return m.get(ownerID, id)
}
func (m *memExperiences) Create(_ context.Context, e *entity.Experience) error { return m.create(e) }
func (m *memExperiences) Update(_ context.Context, e *entity.Experience) error { return m.update(e) }
func (m *memExperiences) Delete(_ context.Context, ownerID, id string) error {
	return m.delete(ownerID, id)
}
func (m *memExperiences) Count(_ context.Context, ownerID string) (int, error) {
	return m.count(ownerID)
}

// ---- contact messages ----

type memContacts struct {
	*memRows[entity.ContactMessage]
}

func newMemContacts() *memContacts {
	return &memContacts{newMemRows(
		func(m *entity.ContactMessage) *string { return &m.ID },
		func(m *entity.ContactMessage) string { return m.OwnerID },
	)}
}

func (m *memContacts) Create(_ context.Context, c *entity.ContactMessage) error {
	c.CreatedAt = time.Now()
	return m.create(c)
}
func (m *memContacts) List(_ context.Context, ownerID string) ([]entity.ContactMessage, error) {
	return m.list(ownerID)
}
func (m *memContacts) Get(_ context.Context, ownerID, id string) (*entity.ContactMessage, error) {
	return m.get(ownerID, id)
}
func (m *memContacts) MarkRead(_ context.Context, ownerID, id string) error {
	c, err := m.get(ownerID, id)
	if err != nil {
		return err
	}
	c.Read = true
	return m.update(c)
}
func (m *memContacts) Delete(_ context.Context, ownerID, id string) error {
	return m.delete(ownerID, id)
}
func (m *memContacts) CountUnread(_ context.Context, ownerID string) (int, error) {
	items, err := m.list(ownerID)
	n := 0
	for _, c := range items {
		if !c.Read {
			n++
		}
	}
	return n, err
}

// ---- profiles / users / sessions ----

type memProfiles struct {
	mu       sync.Mutex
	rows     map[string]entity.Profile
	lookups  int
	lookupFn func(userID string) (string, error)
}

func newMemProfiles(ps ...entity.Profile) *memProfiles {
	m := &memProfiles{rows: map[string]entity.Profile{}}
	for _, p := range ps {
		m.rows[p.UserID] = p
	}
	return m
}

func (m *memProfiles) LookupRole(_ context.Context, userID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	if m.lookupFn != nil {
		return m.lookupFn(userID)
	}
	p, ok := m.rows[userID]
	if !ok {
		return "", repo.ErrNotFound
	}
	return p.Role, nil
}

func (m *memProfiles) Get(_ context.Context, userID string) (*entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.rows[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &p, nil
}

// Upsert mirrors the SQL: the stored role survives updates.
func (m *memProfiles) Upsert(_ context.Context, p *entity.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *p
	if cur, ok := m.rows[p.UserID]; ok {
		cp.Role = cur.Role
	} else if cp.Role == "" {
		cp.Role = entity.RoleUser
	}
	p.Role = cp.Role
	m.rows[p.UserID] = cp
	return nil
}

func (m *memProfiles) FirstAdmin(_ context.Context) (*entity.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lookups++
	var first *entity.Profile
	for _, p := range m.rows {
		p := p
		if p.Role != entity.RoleAdmin {
			continue
		}
		if first == nil || p.CreatedAt.Before(first.CreatedAt) {
			first = &p
		}
	}
	if first == nil {
		return nil, repo.ErrNotFound
	}
	return first, nil
}

type memUsers struct {
	byEmail map[string]*entity.User
	fail    error
}

func (m *memUsers) Create(_ context.Context, u *entity.User) error {
	m.byEmail[u.Email] = u
	return nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	u, ok := m.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return u, nil
}

type memSessions struct {
	mu      sync.Mutex
	rows    map[string]entity.Session
	fail    error
	rotated int
	grace   time.Duration
	// racer, when set, is stored as if another request rotated first
	racer string
}

func newMemSessions() *memSessions { return &memSessions{rows: map[string]entity.Session{}} }

func (m *memSessions) Save(_ context.Context, s *entity.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.rows[s.UserID] = *s
	return nil
}

func (m *memSessions) Get(_ context.Context, userID string) (*entity.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, m.fail
	}
	s, ok := m.rows[userID]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &s, nil
}

func (m *memSessions) Rotate(_ context.Context, userID, fromSID, toSID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[userID]
	if !ok {
		return repo.ErrNotFound
	}
	if m.racer != "" {
		s.PrevID, s.ID, s.PrevUntil = s.ID, m.racer, time.Now().Add(m.graceWindow())
		m.rows[userID] = s
		m.racer = ""
		m.rotated++
	}
	if s.ID != fromSID {
		return repo.ErrSessionRotated
	}
	s.PrevID, s.ID, s.PrevUntil = fromSID, toSID, time.Now().Add(m.graceWindow())
	m.rows[userID] = s
	m.rotated++
	return nil
}

func (m *memSessions) graceWindow() time.Duration {
	if m.grace <= 0 {
		return 30 * time.Second
	}
	return m.grace
}

func (m *memSessions) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, userID)
	return nil
}

// ---- side effects ----

type fakeAudit struct {
	mu      sync.Mutex
	entries []entity.AuditEntry
}

func (f *fakeAudit) Insert(_ context.Context, e entity.AuditEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, e)
	return nil
}

func (f *fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

type write struct {
	entity, op string
	failed     bool
}

type fakeRecorder struct {
	mu     sync.Mutex
	writes []write
}

func (f *fakeRecorder) RecordWrite(ent, op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, write{ent, op, err != nil})
}

type fakeObjects struct {
	mu      sync.Mutex
	puts    map[string]string // key -> content type
	deleted []string
	putErr  error
	delErr  error
}

func newFakeObjects() *fakeObjects { return &fakeObjects{puts: map[string]string{}} }

func (f *fakeObjects) Put(_ context.Context, key, contentType string, r io.Reader) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.putErr != nil {
		return "", f.putErr
	}
	_, _ = io.Copy(io.Discard, r)
	f.puts[key] = contentType
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeObjects) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return f.delErr
}

type fakeIndex struct {
	enabled bool
	indexed []string
	deleted []string
	search  func(q search.Query) ([]string, int, error)
	lastQ   search.Query
}

func (f *fakeIndex) Enabled() bool { return f.enabled }

func (f *fakeIndex) Index(_ context.Context, p *entity.Project) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, q search.Query) ([]string, int, error) {
	f.lastQ = q
	if f.search == nil {
		return nil, 0, nil
	}
	return f.search(q)
}

type fakePublisher struct {
	jobs []any
	err  error
}

func (f *fakePublisher) PublishJSON(_ context.Context, body any) error {
	f.jobs = append(f.jobs, body)
	return f.err
}

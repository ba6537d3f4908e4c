package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	filesDomain "github.com/allisson/filevault/internal/files/domain"
	userDomain "github.com/allisson/filevault/internal/user/domain"
)

// txJournal collects undo actions registered while a fake transaction is open.
type txJournal struct {
	mu   sync.Mutex
	undo []func()
}

type txJournalKey struct{}

func (j *txJournal) add(fn func()) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.undo = append(j.undo, fn)
}

func recordUndo(ctx context.Context, fn func()) {
	if j, ok := ctx.Value(txJournalKey{}).(*txJournal); ok {
		j.add(fn)
	}
}

// memTxManager runs fn and replays undo actions in reverse order when it fails.
type memTxManager struct{}

func (memTxManager) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txJournalKey{}).(*txJournal); ok {
		return fn(ctx)
	}
	j := &txJournal{}
	if err := fn(context.WithValue(ctx, txJournalKey{}, j)); err != nil {
		for i := len(j.undo) - 1; i >= 0; i-- {
			j.undo[i]()
		}
		return err
	}
	return nil
}

// memFileRepository is an in-memory FileRepository with the same conditional update semantics
// as the SQL implementations.
type memFileRepository struct {
	mu        sync.Mutex
	files     map[uuid.UUID]*filesDomain.File
	grants    *memGrantRepository
	users     *memUserDirectory
	createErr error
}

func newMemFileRepository(grants *memGrantRepository, users *memUserDirectory) *memFileRepository {
	return &memFileRepository{files: make(map[uuid.UUID]*filesDomain.File), grants: grants, users: users}
}

func copyFile(f *filesDomain.File) *filesDomain.File {
	c := *f
	c.Ciphertext = nil
	if f.PublicToken != nil {
		token := *f.PublicToken
		c.PublicToken = &token
	}
	if f.PublicTokenExpiresAt != nil {
		expires := *f.PublicTokenExpiresAt
		c.PublicTokenExpiresAt = &expires
	}
	return &c
}

func (r *memFileRepository) Create(_ context.Context, file *filesDomain.File) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, f := range r.files {
		if string(f.Salt) == string(file.Salt) {
			return filesDomain.ErrSaltInUse
		}
	}
	r.files[file.ID] = copyFile(file)
	return nil
}

func (r *memFileRepository) Get(_ context.Context, id uuid.UUID) (*filesDomain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return nil, filesDomain.ErrFileNotFound
	}
	return copyFile(f), nil
}

func (r *memFileRepository) GetByPublicToken(_ context.Context, token string) (*filesDomain.File, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.files {
		if f.PublicToken != nil && *f.PublicToken == token {
			return copyFile(f), nil
		}
	}
	return nil, filesDomain.ErrPublicLinkNotFound
}

func (r *memFileRepository) SetPublicLink(
	_ context.Context,
	id uuid.UUID,
	token string,
	expiresAt, now time.Time,
) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok {
		return false, nil
	}
	if f.PublicToken != nil && !now.After(*f.PublicTokenExpiresAt) {
		return false, nil
	}
	f.PublicToken = &token
	f.PublicTokenExpiresAt = &expiresAt
	return true, nil
}

func (r *memFileRepository) ClearPublicLink(ctx context.Context, id uuid.UUID, token string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.files[id]
	if !ok || f.PublicToken == nil || *f.PublicToken != token {
		return false, nil
	}
	prevToken, prevExpires := f.PublicToken, f.PublicTokenExpiresAt
	f.PublicToken = nil
	f.PublicTokenExpiresAt = nil
	recordUndo(ctx, func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		f.PublicToken, f.PublicTokenExpiresAt = prevToken, prevExpires
	})
	return true, nil
}

func (r *memFileRepository) ListForUser(
	_ context.Context,
	userID uuid.UUID,
	offset, limit int,
) ([]*filesDomain.FileSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []*filesDomain.FileSummary
	for _, f := range r.files {
		level := filesDomain.AccessNone
		if f.OwnerID == userID {
			level = filesDomain.AccessOwner
		} else if g, err := r.grants.Get(context.Background(), f.ID, userID); err == nil {
			level = g.AccessLevel
		}
		if level == filesDomain.AccessNone {
			continue
		}
		c := copyFile(f)
		out = append(out, &filesDomain.FileSummary{
			ID:                   c.ID,
			OwnerID:              c.OwnerID,
			OwnerUsername:        r.users.usernameOf(c.OwnerID),
			FileName:             c.FileName,
			UploadedAt:           c.UploadedAt,
			AccessLevel:          level,
			PublicToken:          c.PublicToken,
			PublicTokenExpiresAt: c.PublicTokenExpiresAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() > out[j].ID.String() })

	if offset >= len(out) {
		return []*filesDomain.FileSummary{}, nil
	}
	end := min(offset+limit, len(out))
	return out[offset:end], nil
}

func (r *memFileRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.files[id]; !ok {
		return filesDomain.ErrFileNotFound
	}
	delete(r.files, id)
	r.grants.deleteFile(id)
	return nil
}

type grantKey struct {
	fileID uuid.UUID
	userID uuid.UUID
}

type memGrantRepository struct {
	mu     sync.Mutex
	grants map[grantKey]*filesDomain.ShareGrant
}

func newMemGrantRepository() *memGrantRepository {
	return &memGrantRepository{grants: make(map[grantKey]*filesDomain.ShareGrant)}
}

func (r *memGrantRepository) Upsert(_ context.Context, grant *filesDomain.ShareGrant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	g := *grant
	r.grants[grantKey{grant.FileID, grant.UserID}] = &g
	return nil
}

func (r *memGrantRepository) Get(_ context.Context, fileID, userID uuid.UUID) (*filesDomain.ShareGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	g, ok := r.grants[grantKey{fileID, userID}]
	if !ok {
		return nil, filesDomain.ErrGrantNotFound
	}
	c := *g
	return &c, nil
}

func (r *memGrantRepository) Delete(_ context.Context, fileID, userID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := grantKey{fileID, userID}
	if _, ok := r.grants[key]; !ok {
		return filesDomain.ErrGrantNotFound
	}
	delete(r.grants, key)
	return nil
}

func (r *memGrantRepository) ListByFile(_ context.Context, fileID uuid.UUID) ([]*filesDomain.ShareGrant, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*filesDomain.ShareGrant{}
	for k, g := range r.grants {
		if k.fileID == fileID {
			c := *g
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Username < out[j].Username })
	return out, nil
}

func (r *memGrantRepository) deleteFile(fileID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.grants {
		if k.fileID == fileID {
			delete(r.grants, k)
		}
	}
}

func (r *memGrantRepository) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.grants)
}

type memUserDirectory struct {
	mu    sync.Mutex
	users map[string]*userDomain.User
}

func newMemUserDirectory() *memUserDirectory {
	return &memUserDirectory{users: make(map[string]*userDomain.User)}
}

func (d *memUserDirectory) add(username string) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()
	u := &userDomain.User{ID: uuid.Must(uuid.NewV7()), Username: username}
	d.users[username] = u
	return u.ID
}

func (d *memUserDirectory) FindByUsername(_ context.Context, username string) (*userDomain.User, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[username]
	if !ok {
		return nil, userDomain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (d *memUserDirectory) usernameOf(id uuid.UUID) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, u := range d.users {
		if u.ID == id {
			return u.Username
		}
	}
	return ""
}

// fakeClock is an adjustable clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// sequenceTokens returns predictable tokens.
type sequenceTokens struct {
	mu sync.Mutex
	n  int
}

func (s *sequenceTokens) GenerateToken() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return "token-" + string(rune('a'+s.n-1)), nil
}

package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"time"

	"github.com/hkondo/secretbase/internal/common"
	"github.com/hkondo/secretbase/internal/logging"
	"github.com/hkondo/secretbase/internal/server/categories"
	"github.com/hkondo/secretbase/internal/server/events"
	"github.com/hkondo/secretbase/internal/server/todos"
	"github.com/hkondo/secretbase/internal/server/transactions"
	"github.com/hkondo/secretbase/internal/server/users"
)

const testSecret = "test-secret"

// fakeUserRepo mirrors the unique-username semantics of the real table and
// counts liveness touches.
type fakeUserRepo struct {
	mu       sync.Mutex
	nextID   int64
	byName   map[string]*users.User
	touched  map[int64]int
	touchErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, byName: map[string]*users.User{}, touched: map[int64]int{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *users.User) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byName[user.Username]; ok {
		return nil, common.ErrorConflict
	}
	u := *user
	u.ID = f.nextID
	f.nextID++
	f.byName[u.Username] = &u
	out := u
	return &out, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.byName[username]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (f *fakeUserRepo) TouchLastAccess(ctx context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.touchErr != nil {
		return f.touchErr
	}
	f.touched[userID]++
	return nil
}

func (f *fakeUserRepo) touches(userID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.touched[userID]
}

// fakeTodoRepo keeps an ordered in-memory todo list with the same reorder
// semantics as the SQL: absolute ownership-scoped position sets, all or
// nothing.
type fakeTodoRepo struct {
	mu         sync.Mutex
	nextID     int64
	items      map[int64]*todos.Todo
	failAt     int // 1-based index of the reorder assignment that fails; 0 = never
	categories map[int64]*todos.Category
}

func newFakeTodoRepo() *fakeTodoRepo {
	return &fakeTodoRepo{nextID: 1, items: map[int64]*todos.Todo{}, categories: map[int64]*todos.Category{}}
}

func (f *fakeTodoRepo) Create(ctx context.Context, todo *todos.Todo) (*todos.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := *todo
	t.ID = f.nextID
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.nextID++
	f.items[t.ID] = &t
	out := t
	return &out, nil
}

func (f *fakeTodoRepo) ListForOwner(ctx context.Context, userID int64) ([]*todos.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*todos.Todo{}
	for _, t := range f.items {
		if t.UserID == userID {
			c := *t
			out = append(out, &c)
		}
	}
	// position ASC nulls last, then created_at DESC
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if todoLess(out[j], out[i]) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func todoLess(a, b *todos.Todo) bool {
	switch {
	case a.Position != nil && b.Position != nil:
		return *a.Position < *b.Position
	case a.Position != nil:
		return true
	case b.Position != nil:
		return false
	default:
		return a.CreatedAt.After(b.CreatedAt)
	}
}

func (f *fakeTodoRepo) ListPriority(ctx context.Context, userID int64) ([]*todos.Todo, error) {
	return f.ListForOwner(ctx, userID)
}

func (f *fakeTodoRepo) GetByIDAndOwner(ctx context.Context, id, userID int64) (*todos.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeTodoRepo) Update(ctx context.Context, todo *todos.Todo) (*todos.Todo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[todo.ID]
	if !ok || t.UserID != todo.UserID {
		return nil, common.ErrorNotFound
	}
	todo.Position = t.Position
	todo.CreatedAt = t.CreatedAt
	todo.UpdatedAt = time.Now()
	c := *todo
	f.items[todo.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeTodoRepo) Delete(ctx context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[id]
	if !ok || t.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeTodoRepo) Reorder(ctx context.Context, userID int64, ids []int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	// Stage the assignments so a forced failure leaves prior state intact.
	staged := map[int64]int{}
	for i, id := range ids {
		if f.failAt > 0 && i+1 == f.failAt {
			return common.ErrorInternal
		}
		if t, ok := f.items[id]; ok && t.UserID == userID {
			staged[id] = i
		}
	}
	for id, pos := range staged {
		p := pos
		f.items[id].Position = &p
	}
	return nil
}

func (f *fakeTodoRepo) ListCategories(ctx context.Context, userID int64) ([]*todos.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*todos.Category{}
	for _, c := range f.categories {
		if c.UserID == userID {
			cc := *c
			out = append(out, &cc)
		}
	}
	return out, nil
}

func (f *fakeTodoRepo) CreateCategory(ctx context.Context, category *todos.Category) (*todos.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.categories {
		if c.UserID == category.UserID && c.Name == category.Name {
			return nil, common.ErrorConflict
		}
	}
	c := *category
	c.ID = f.nextID
	f.nextID++
	f.categories[c.ID] = &c
	out := c
	return &out, nil
}

func (f *fakeTodoRepo) DeleteCategory(ctx context.Context, id, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.categories[id]
	if !ok || c.UserID != userID {
		return common.ErrorNotFound
	}
	delete(f.categories, id)
	return nil
}

type testEnv struct {
	srv      *httptest.Server
	userRepo *fakeUserRepo
	todoRepo *fakeTodoRepo
}

func newTestEnv() *testEnv {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))

	userRepo := newFakeUserRepo()
	todoRepo := newFakeTodoRepo()

	us := users.NewService(userRepo, []byte(testSecret), time.Hour)
	ts := todos.NewService(todoRepo)
	es := events.NewService(nil)
	trs := transactions.NewService(nil)
	cs := categories.NewService(nil)

	s := NewServer(":0", logger, us, ts, es, trs, cs, testSecret)
	return &testEnv{
		srv:      httptest.NewServer(s.Handler()),
		userRepo: userRepo,
		todoRepo: todoRepo,
	}
}

func (e *testEnv) close() {
	e.srv.Close()
}

func doJSON(method, url, token, body string) (*http.Response, error) {
	req, err := http.NewRequest(method, url, stringsReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}
	return http.DefaultClient.Do(req)
}

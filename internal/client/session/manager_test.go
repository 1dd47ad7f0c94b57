package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	delErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: make(map[string][]byte)}
}

func (s *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[key], nil
}

func (s *fakeStore) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delErr != nil {
		return s.delErr
	}
	delete(s.data, key)
	return nil
}

func (s *fakeStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string][]byte)
	return nil
}

func makeToken(t *testing.T, userID int64, username string, ttl time.Duration) string {
	t.Helper()

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UserID: userID,
	})

	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestRestoreEmptyStore(t *testing.T) {
	m := NewManager(newFakeStore())

	require.NoError(t, m.Restore(context.Background()))

	assert.Empty(t, m.Token())
	assert.Nil(t, m.Current())
}

func TestRestoreValidToken(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	token := makeToken(t, 42, "guest", time.Hour)
	require.NoError(t, store.Set(ctx, tokenKey, []byte(token)))

	m := NewManager(store)
	require.NoError(t, m.Restore(ctx))

	assert.Equal(t, token, m.Token())
	identity := m.Current()
	require.NotNil(t, identity)
	assert.Equal(t, int64(42), identity.ID)
	assert.Equal(t, "guest", identity.Username)
}

func TestRestoreExpiredTokenClearsStore(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	token := makeToken(t, 42, "guest", -time.Minute)
	require.NoError(t, store.Set(ctx, tokenKey, []byte(token)))

	m := NewManager(store)
	require.NoError(t, m.Restore(ctx))

	assert.Empty(t, m.Token())
	assert.Nil(t, m.Current())

	saved, err := store.Get(ctx, tokenKey)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestRestoreGarbageTokenClearsStore(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	require.NoError(t, store.Set(ctx, tokenKey, []byte("not.a.token")))

	m := NewManager(store)
	require.NoError(t, m.Restore(ctx))

	assert.Empty(t, m.Token())

	saved, err := store.Get(ctx, tokenKey)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestSetTokenPersists(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	token := makeToken(t, 7, "alice", time.Hour)

	m := NewManager(store)
	require.NoError(t, m.SetToken(ctx, token))

	// a second manager over the same store sees the session
	m2 := NewManager(store)
	require.NoError(t, m2.Restore(ctx))
	assert.Equal(t, token, m2.Token())
}

func TestSetTokenRejectsGarbage(t *testing.T) {
	m := NewManager(newFakeStore())

	err := m.SetToken(context.Background(), "garbage")
	require.Error(t, err)
	assert.Empty(t, m.Token())
}

func TestSetTokenRejectsExpired(t *testing.T) {
	m := NewManager(newFakeStore())

	err := m.SetToken(context.Background(), makeToken(t, 7, "alice", -time.Minute))
	require.Error(t, err)
	assert.Empty(t, m.Token())
}

func TestLogoutClearsDurableCopy(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	m := NewManager(store)
	require.NoError(t, m.SetToken(ctx, makeToken(t, 7, "alice", time.Hour)))

	sub := m.Subscribe()
	require.NoError(t, m.Logout(ctx))

	assert.Empty(t, m.Token())
	assert.Nil(t, m.Current())

	saved, err := store.Get(ctx, tokenKey)
	require.NoError(t, err)
	assert.Nil(t, saved)

	// explicit logout does not notify subscribers
	select {
	case <-sub:
		t.Fatal("unexpected notification on logout")
	default:
	}
}

func TestInvalidateBroadcastsOnce(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	m := NewManager(store)
	require.NoError(t, m.SetToken(ctx, makeToken(t, 7, "alice", time.Hour)))

	sub1 := m.Subscribe()
	sub2 := m.Subscribe()

	require.NoError(t, m.Invalidate(ctx))
	require.NoError(t, m.Invalidate(ctx))

	assert.Empty(t, m.Token())
	assert.Len(t, sub1, 1)
	assert.Len(t, sub2, 1)

	saved, err := store.Get(ctx, tokenKey)
	require.NoError(t, err)
	assert.Nil(t, saved)
}

func TestInvalidateBroadcastsDespiteStoreFailure(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()

	m := NewManager(store)
	require.NoError(t, m.SetToken(ctx, makeToken(t, 7, "alice", time.Hour)))

	sub := m.Subscribe()
	store.delErr = errors.New("disk full")

	err := m.Invalidate(ctx)
	require.Error(t, err)

	// in-memory state is gone and subscribers heard about it
	assert.Empty(t, m.Token())
	assert.Nil(t, m.Current())
	assert.Len(t, sub, 1)
}

func TestInvalidateWhenLoggedOutIsNoop(t *testing.T) {
	m := NewManager(newFakeStore())
	sub := m.Subscribe()

	require.NoError(t, m.Invalidate(context.Background()))

	assert.Len(t, sub, 0)
}

package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type countingStore struct {
	Store
	loads int
	err   error
}

func (c *countingStore) Load(ctx context.Context) (User, error) {
	c.loads++
	if c.err != nil {
		return User{}, c.err
	}
	return c.Store.Load(ctx)
}

func mustSave(t *testing.T, s Store, u User) {
	t.Helper()
	if err := s.Save(context.Background(), u); err != nil {
		t.Fatalf("Save() unexpected error = %v", err)
	}
}

func TestSession_UserIsLoadedOnce(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	mustSave(t, mem, User{AccountID: "a-1", Username: "alice"})
	store := &countingStore{Store: mem}

	s := New(store)

	for i := 0; i < 3; i++ {
		u, ok, err := s.User(ctx)
		if err != nil {
			t.Fatalf("User() unexpected error = %v", err)
		}
		if !ok || u.Username != "alice" {
			t.Errorf("User() = %+v, %v, want alice", u, ok)
		}
	}
	if store.loads != 1 {
		t.Errorf("store loaded %d times, want 1", store.loads)
	}
}

func TestSession_NoUser(t *testing.T) {
	_, ok, err := New(NewMemoryStore()).User(context.Background())
	if err != nil {
		t.Fatalf("User() unexpected error = %v", err)
	}
	if ok {
		t.Error("User() ok = true with an empty store")
	}
}

func TestSession_InvalidStoredUserIsIgnored(t *testing.T) {
	mem := NewMemoryStore()
	mustSave(t, mem, User{Username: "alice"})

	_, ok, err := New(mem).User(context.Background())
	if err != nil {
		t.Fatalf("User() unexpected error = %v", err)
	}
	if ok {
		t.Error("User() ok = true for a user without account id")
	}
}

func TestSession_StoreErrorIsReturnedAndRetried(t *testing.T) {
	ctx := context.Background()
	store := &countingStore{Store: NewMemoryStore(), err: errors.New("disk on fire")}
	s := New(store)

	if _, _, err := s.User(ctx); err == nil {
		t.Fatal("User() expected store error, got nil")
	}

	store.err = nil
	_, ok, err := s.User(ctx)
	if err != nil {
		t.Fatalf("User() unexpected error = %v", err)
	}
	if ok {
		t.Error("User() ok = true with an empty store")
	}
	if store.loads != 2 {
		t.Errorf("store loaded %d times, want 2", store.loads)
	}
}

func TestSession_LoginLogout(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	s := New(mem)

	if err := s.Login(ctx, User{Username: "nobody"}); err == nil {
		t.Error("Login() without account id expected error, got nil")
	}

	alice := User{AccountID: "a-1", Username: "alice"}
	if err := s.Login(ctx, alice); err != nil {
		t.Fatalf("Login() unexpected error = %v", err)
	}
	u, ok, err := s.User(ctx)
	if err != nil || !ok || u != alice {
		t.Errorf("User() = %+v, %v, %v, want %+v", u, ok, err, alice)
	}

	stored, err := mem.Load(ctx)
	if err != nil || stored.AccountID != "a-1" {
		t.Errorf("stored user = %+v, %v", stored, err)
	}

	if err := s.Logout(ctx); err != nil {
		t.Fatalf("Logout() unexpected error = %v", err)
	}
	if _, ok, err := s.User(ctx); err != nil || ok {
		t.Errorf("User() after Logout = ok %v, err %v", ok, err)
	}
	if _, err := mem.Load(ctx); !errors.Is(err, ErrNoUser) {
		t.Errorf("store Load() after Logout error = %v, want ErrNoUser", err)
	}
}

func TestContext(t *testing.T) {
	if _, ok := FromContext(context.Background()); ok {
		t.Error("FromContext() ok = true on a bare context")
	}

	s := New(NewMemoryStore())
	got, ok := FromContext(WithSession(context.Background(), s))
	if !ok || got != s {
		t.Errorf("FromContext() = %p, %v, want %p", got, ok, s)
	}
}

func TestFileStore(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "session.json")
	store := NewFileStore(path)

	if _, err := store.Load(ctx); !errors.Is(err, ErrNoUser) {
		t.Errorf("Load() on missing file error = %v, want ErrNoUser", err)
	}

	mustSave(t, store, User{AccountID: "a-1", Username: "alice"})

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() unexpected error = %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("file mode = %o, want 600", perm)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() unexpected error = %v", err)
	}
	var onDisk map[string]string
	if err := json.Unmarshal(raw, &onDisk); err != nil {
		t.Fatalf("session file is not JSON: %v", err)
	}
	if onDisk["account_id"] != "a-1" || onDisk["username"] != "alice" || len(onDisk) != 2 {
		t.Errorf("session file = %s", raw)
	}

	u, err := store.Load(ctx)
	if err != nil || u.Username != "alice" {
		t.Errorf("Load() = %+v, %v", u, err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear() unexpected error = %v", err)
	}
	if err := store.Clear(ctx); err != nil {
		t.Errorf("second Clear() error = %v, want nil", err)
	}
	if _, err := store.Load(ctx); !errors.Is(err, ErrNoUser) {
		t.Errorf("Load() after Clear error = %v, want ErrNoUser", err)
	}
}

func TestFileStore_NullAndCorrupt(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		name       string
		content    string
		wantNoUser bool
	}{
		{name: "null", content: "null", wantNoUser: true},
		{name: "corrupt", content: "{"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".json")
			if err := os.WriteFile(path, []byte(tt.content), 0o600); err != nil {
				t.Fatalf("WriteFile() unexpected error = %v", err)
			}

			_, err := NewFileStore(path).Load(ctx)
			if err == nil {
				t.Fatal("Load() expected error, got nil")
			}
			if errors.Is(err, ErrNoUser) != tt.wantNoUser {
				t.Errorf("Load() error = %v, ErrNoUser match = %v, want %v", err, !tt.wantNoUser, tt.wantNoUser)
			}
		})
	}
}

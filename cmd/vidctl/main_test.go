package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"
)

type fakeBackend struct {
	mu    sync.Mutex
	views []string
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/video/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]any{
			{"video_id": "v1", "title": "First", "views": 1500, "upload_at": time.Now().Add(-49 * time.Hour), "Account": map[string]string{"username": "alice"}},
			{"video_id": "v2", "title": "Second", "views": 7, "upload_at": time.Now(), "Account": map[string]string{"username": "bob"}},
		})
	})
	mux.HandleFunc("GET /api/video", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"data": []map[string]any{{
				"video_id":    "v1",
				"title":       "First",
				"views":       1500,
				"upload_at":   time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
				"description": "hello\nworld",
				"video":       "http://media.example.com/v1.mp4",
				"Account":     map[string]string{"username": "alice"},
			}},
		})
	})
	mux.HandleFunc("POST /api/video/views", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.views = append(f.views, r.URL.Query().Get("id"))
		f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})
	mux.HandleFunc("GET /api/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("username") != "alice" {
			writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "message": "User Doesn't Exist"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"success": true,
			"profile": map[string]any{
				"username":     "alice",
				"time_created": time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC),
				"Video":        []map[string]string{{"video_id": "v1"}},
				"Blogs":        []map[string]string{},
			},
		})
	})
	return mux
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func setup(t *testing.T) *fakeBackend {
	t.Helper()
	backend := &fakeBackend{}
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	t.Setenv("VIDCTL_API_URL", srv.URL)
	t.Setenv("VIDCTL_SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("VIDCTL_LOG_LEVEL", "error")
	return backend
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%v: unexpected error = %v", args, err)
	}
	return out
}

func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestFeed(t *testing.T) {
	setup(t)

	out := mustExecute(t, "feed")
	assertContains(t, out, "TITLE", "First", "1.5K", "2 days ago", "/video?id=v2")
}

func TestWatch(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantPlayer string
	}{
		{name: "default volume", args: []string{"watch", "v1"}, wantPlayer: "player: [loading] vol 100%"},
		{name: "half volume", args: []string{"watch", "v1", "--volume", "0.5"}, wantPlayer: "player: [loading] vol 50%"},
		{name: "silent", args: []string{"watch", "v1", "--volume", "0"}, wantPlayer: "player: [loading] muted"},
		{name: "clamped", args: []string{"watch", "v1", "--volume", "3"}, wantPlayer: "player: [loading] vol 100%"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := setup(t)

			out := mustExecute(t, tt.args...)
			assertContains(t, out,
				"First\n",
				"alice · March 9, 2024 · 1.5K views",
				"hello\nworld",
				tt.wantPlayer,
			)

			backend.mu.Lock()
			defer backend.mu.Unlock()
			if !slices.Equal(backend.views, []string{"v1"}) {
				t.Errorf("views = %v, want [v1]", backend.views)
			}
		})
	}
}

func TestWatch_ReturnsPromptly(t *testing.T) {
	setup(t)

	start := time.Now()
	mustExecute(t, "watch", "v1")
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("watch took %v, want it to return once queued player events are applied", elapsed)
	}
}

func TestWatch_UnknownVideo(t *testing.T) {
	backend := setup(t)

	if out := mustExecute(t, "watch", "missing"); out != "No video available\n" {
		t.Errorf("output = %q, want %q", out, "No video available\n")
	}
	backend.mu.Lock()
	defer backend.mu.Unlock()
	if len(backend.views) != 0 {
		t.Errorf("views = %v, want none", backend.views)
	}
}

func TestProfile(t *testing.T) {
	setup(t)

	out := mustExecute(t, "profile", "alice")
	assertContains(t, out, "joined January 2, 2023 · 1 videos · 0 blogs", "First")
	if strings.Contains(out, "Second") {
		t.Errorf("output lists a video the profile does not own:\n%s", out)
	}
}

func TestProfile_NotFound(t *testing.T) {
	setup(t)

	_, err := execute(t, "profile", "ghost")
	if err == nil {
		t.Fatal("profile ghost expected error, got nil")
	}
	if !strings.Contains(err.Error(), "User Doesn't Exist") {
		t.Errorf("error = %v, want the server message", err)
	}
}

func TestLoginWhoamiLogout(t *testing.T) {
	setup(t)

	steps := []struct {
		args []string
		want string
	}{
		{args: []string{"whoami"}, want: "not signed in\n"},
		{args: []string{"login", "alice", "--account-id", "acc-1"}, want: "signed in as alice\n"},
		{args: []string{"whoami"}, want: "alice (acc-1)\n"},
		{args: []string{"logout"}},
		{args: []string{"whoami"}, want: "not signed in\n"},
	}

	for _, step := range steps {
		out := mustExecute(t, step.args...)
		if step.want != "" && out != step.want {
			t.Errorf("%v output = %q, want %q", step.args, out, step.want)
		}
	}
}

func TestInvalidAPIURL(t *testing.T) {
	setup(t)
	t.Setenv("VIDCTL_API_URL", "ftp://example.com")

	if _, err := execute(t, "feed"); err == nil {
		t.Error("feed with an ftp API URL expected error, got nil")
	}
}

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"

	"github.com/hszk-dev/vidshare/internal/domain/repository"
)

var videoRowColumns = []string{
	"video_id", "title", "description", "views", "upload_at",
	"thumbnail", "video", "username", "avatar",
}

func ptr[T any](v T) *T {
	return &v
}

func TestVideoRepository_List(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		mockFn    func(mock pgxmock.PgxPoolIface)
		wantCount int
		wantErr   bool
	}{
		{
			name: "returns catalog",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(videoRowColumns).
					AddRow("v1", "First", ptr("desc"), ptr(int64(10)), now, ptr("thumbs/v1.jpg"), ptr("videos/v1.mp4"), ptr("alice"), ptr("avatars/alice.png")).
					AddRow("v2", "Second", nil, nil, now.Add(-time.Hour), nil, ptr("https://cdn.example.com/v2.mp4"), nil, nil)
				mock.ExpectQuery(`SELECT .* FROM "Video" v LEFT JOIN "Account" a .* ORDER BY v.upload_at DESC`).
					WillReturnRows(rows)
			},
			wantCount: 2,
		},
		{
			name: "returns empty slice when catalog is empty",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM "Video" v`).
					WillReturnRows(pgxmock.NewRows(videoRowColumns))
			},
			wantCount: 0,
		},
		{
			name: "query error",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM "Video" v`).
					WillReturnError(errors.New("connection refused"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewVideoRepository(mock)
			got, err := repo.List(context.Background())

			if (err != nil) != tt.wantErr {
				t.Fatalf("List() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			if got == nil {
				t.Fatal("List() returned nil slice, want non-nil")
			}
			if len(got) != tt.wantCount {
				t.Errorf("List() returned %d videos, want %d", len(got), tt.wantCount)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestVideoRepository_List_NullColumns(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create mock: %v", err)
	}
	defer mock.Close()

	now := time.Now()
	rows := pgxmock.NewRows(videoRowColumns).
		AddRow("v2", "Second", nil, nil, now, nil, nil, nil, nil)
	mock.ExpectQuery(`SELECT .* FROM "Video" v`).WillReturnRows(rows)

	got, err := NewVideoRepository(mock).List(context.Background())
	if err != nil {
		t.Fatalf("List() unexpected error = %v", err)
	}

	v := got[0]
	if v.Description != "" || v.Thumbnail != "" || v.MediaURL != "" || v.Uploader.Username != "" {
		t.Errorf("NULL columns should map to empty strings, got %+v", v)
	}
	if v.Views != 0 {
		t.Errorf("NULL views should map to 0, got %d", v.Views)
	}
}

func TestVideoRepository_GetByID(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name    string
		id      string
		mockFn  func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "successful retrieval",
			id:   "v1",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				rows := pgxmock.NewRows(videoRowColumns).
					AddRow("v1", "First", ptr("line1\nline2"), ptr(int64(1500)), now, ptr("thumbs/v1.jpg"), ptr("videos/v1.mp4"), ptr("alice"), nil)
				mock.ExpectQuery(`SELECT .* FROM "Video" v .* WHERE v.video_id::text = \$1`).
					WithArgs("v1").
					WillReturnRows(rows)
			},
		},
		{
			name: "video not found",
			id:   "missing",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectQuery(`SELECT .* FROM "Video" v`).
					WithArgs("missing").
					WillReturnError(pgx.ErrNoRows)
			},
			wantErr: repository.ErrVideoNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewVideoRepository(mock)
			got, err := repo.GetByID(context.Background(), tt.id)

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("GetByID() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("GetByID() unexpected error = %v", err)
			}

			if got.ID != tt.id || got.Views != 1500 || got.Uploader.Username != "alice" {
				t.Errorf("GetByID() = %+v", got)
			}
			if got.Description != "line1\nline2" {
				t.Errorf("Description = %q, want multi-line text preserved", got.Description)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

func TestVideoRepository_IncrementViews(t *testing.T) {
	tests := []struct {
		name    string
		mockFn  func(mock pgxmock.PgxPoolIface)
		wantErr error
	}{
		{
			name: "successful increment",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE "Video" SET views = COALESCE\(views, 0\) \+ \$2`).
					WithArgs("v1", int64(1)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 1))
			},
		},
		{
			name: "video not found",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE "Video"`).
					WithArgs("v1", int64(1)).
					WillReturnResult(pgxmock.NewResult("UPDATE", 0))
			},
			wantErr: repository.ErrVideoNotFound,
		},
		{
			name: "database error",
			mockFn: func(mock pgxmock.PgxPoolIface) {
				mock.ExpectExec(`UPDATE "Video"`).
					WithArgs("v1", int64(1)).
					WillReturnError(errors.New("deadlock detected"))
			},
			wantErr: errors.New("failed to increment views"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock, err := pgxmock.NewPool()
			if err != nil {
				t.Fatalf("failed to create mock: %v", err)
			}
			defer mock.Close()

			tt.mockFn(mock)

			repo := NewVideoRepository(mock)
			err = repo.IncrementViews(context.Background(), "v1", 1)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("IncrementViews() expected error, got nil")
				}
				if !errors.Is(err, tt.wantErr) && !hasPrefix(err, tt.wantErr) {
					t.Errorf("IncrementViews() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Errorf("IncrementViews() unexpected error = %v", err)
			}

			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("unfulfilled expectations: %v", err)
			}
		})
	}
}

// hasPrefix checks if err's message starts with the expected error's message.
func hasPrefix(err, expected error) bool {
	if err == nil || expected == nil {
		return false
	}
	msg, want := err.Error(), expected.Error()
	return len(msg) >= len(want) && msg[:len(want)] == want
}

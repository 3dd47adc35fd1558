package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hszk-dev/vidshare/internal/domain/model"
	"github.com/hszk-dev/vidshare/internal/domain/repository"
	"github.com/hszk-dev/vidshare/internal/infrastructure/metrics"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// videoColumns selects a video joined with its uploader. The column order
// must match scanVideo.
const videoColumns = `
		v.video_id::text, v.title, v.description, v.views, v.upload_at,
		v.thumbnail, v.video, a.username, a.avatar
	FROM "Video" v
	LEFT JOIN "Account" a ON a.account_id = v.account_id
`

// VideoRepository implements repository.VideoRepository using PostgreSQL.
type VideoRepository struct {
	db DBTX
}

// NewVideoRepository creates a new VideoRepository instance.
func NewVideoRepository(db DBTX) *VideoRepository {
	return &VideoRepository{db: db}
}

// List retrieves the whole catalog, newest upload first.
func (r *VideoRepository) List(ctx context.Context) ([]*model.Video, error) {
	query := `SELECT` + videoColumns + `ORDER BY v.upload_at DESC`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideo).Inc()

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	videos := make([]*model.Video, 0)
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan video: %w", err)
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating videos: %w", err)
	}

	return videos, nil
}

// GetByID retrieves a video by its identifier.
func (r *VideoRepository) GetByID(ctx context.Context, id string) (*model.Video, error) {
	query := `SELECT` + videoColumns + `WHERE v.video_id::text = $1`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableVideo).Inc()

	video, err := scanVideo(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrVideoNotFound
		}
		return nil, fmt.Errorf("failed to get video by ID: %w", err)
	}

	return video, nil
}

// IncrementViews adds delta to the view counter in a single statement so
// concurrent workers never lose an update.
func (r *VideoRepository) IncrementViews(ctx context.Context, id string, delta int64) error {
	const query = `
		UPDATE "Video"
		SET views = COALESCE(views, 0) + $2
		WHERE video_id::text = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQueryUpdate, metrics.TableVideo).Inc()

	tag, err := r.db.Exec(ctx, query, id, delta)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return repository.ErrVideoNotFound
	}

	return nil
}

// scanVideo scans a single joined row into a Video model.
// pgx.Rows satisfies pgx.Row, so this serves both QueryRow and Query.
func scanVideo(row pgx.Row) (*model.Video, error) {
	var (
		video       model.Video
		description *string
		views       *int64
		thumbnail   *string
		mediaURL    *string
		username    *string
		avatar      *string
	)

	err := row.Scan(
		&video.ID,
		&video.Title,
		&description,
		&views,
		&video.UploadAt,
		&thumbnail,
		&mediaURL,
		&username,
		&avatar,
	)
	if err != nil {
		return nil, err
	}

	video.Description = deref(description)
	video.Thumbnail = deref(thumbnail)
	video.MediaURL = deref(mediaURL)
	video.Uploader.Username = deref(username)
	video.UploaderAvatar = deref(avatar)
	if views != nil {
		video.Views = *views
	}

	return &video, nil
}

// deref returns the empty string for NULL columns.
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Compile-time verification that VideoRepository implements repository.VideoRepository.
var _ repository.VideoRepository = (*VideoRepository)(nil)

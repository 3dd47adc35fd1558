package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/hszk-dev/vidshare/internal/domain/model"
	"github.com/hszk-dev/vidshare/internal/domain/repository"
	"github.com/hszk-dev/vidshare/internal/infrastructure/metrics"
)

// AccountRepository implements repository.AccountRepository using PostgreSQL.
type AccountRepository struct {
	db DBTX
}

// NewAccountRepository creates a new AccountRepository instance.
func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

// GetProfile retrieves an account together with the IDs of its videos and blogs.
func (r *AccountRepository) GetProfile(ctx context.Context, username string) (*model.Profile, error) {
	const query = `
		SELECT a.username, a.time_created,
			COALESCE((
				SELECT array_agg(v.video_id::text ORDER BY v.upload_at DESC)
				FROM "Video" v WHERE v.account_id = a.account_id
			), '{}'),
			COALESCE((
				SELECT array_agg(b.blog_id::text)
				FROM "Blogs" b WHERE b.account_id = a.account_id
			), '{}')
		FROM "Account" a
		WHERE a.username = $1
	`

	metrics.DBQueriesTotal.WithLabelValues(metrics.DBQuerySelect, metrics.TableAccount).Inc()

	var profile model.Profile
	err := r.db.QueryRow(ctx, query, username).Scan(
		&profile.Username,
		&profile.TimeCreated,
		&profile.VideoIDs,
		&profile.BlogIDs,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// Compile-time verification that AccountRepository implements repository.AccountRepository.
var _ repository.AccountRepository = (*AccountRepository)(nil)

package repository

import (
	"context"
	"encoding/json"
	"time"

	"event-radar/internal/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type NotificationRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewNotificationRepository(pool PgxPool, tracer trace.Tracer) *NotificationRepository {
	return &NotificationRepository{pool: pool, tracer: tracer}
}

func (r *NotificationRepository) RunMigrations(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS notifications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL,
			message TEXT NOT NULL,
			related_id TEXT NOT NULL DEFAULT '',
			related_type TEXT NOT NULL,
			metadata TEXT NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_notifications_user_created
			ON notifications (user_id, created_at DESC);
	`)
	return err
}

// InsertNotification persists one record, assigning an id and creation time
// when absent, and returns the stored record.
func (r *NotificationRepository) InsertNotification(ctx context.Context, rec domain.NotificationRecord) (domain.NotificationRecord, error) {
	_, span := r.tracer.Start(ctx, "notification-repo.insert")
	defer span.End()

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	metadata, err := json.Marshal(rec.Metadata)
	if err != nil {
		metadata = []byte("{}")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO notifications (id, user_id, title, message, related_id, related_type, metadata, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID,
		rec.UserID,
		rec.Title,
		rec.Message,
		rec.RelatedID,
		string(rec.RelatedType),
		string(metadata),
		rec.CreatedAt.UTC(),
	)
	if err != nil {
		return domain.NotificationRecord{}, err
	}
	return rec, nil
}

// PruneHistory deletes a user's notifications beyond the keep newest rows.
// Scoped strictly to one user; other users' rows are never touched.
func (r *NotificationRepository) PruneHistory(ctx context.Context, userID string, keep int) (int64, error) {
	_, span := r.tracer.Start(ctx, "notification-repo.prune-history")
	defer span.End()

	if keep <= 0 {
		keep = 20
	}

	tag, err := r.pool.Exec(ctx, `
		DELETE FROM notifications
		WHERE user_id = $1
		  AND id NOT IN (
			SELECT id FROM notifications
			WHERE user_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		  )`,
		userID, keep,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]domain.NotificationRecord, error) {
	_, span := r.tracer.Start(ctx, "notification-repo.list-by-user")
	defer span.End()

	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, user_id, title, message, related_id, related_type, metadata, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.NotificationRecord, 0, limit)
	for rows.Next() {
		var rec domain.NotificationRecord
		var relatedType, metadata string
		var createdAt time.Time
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.Title, &rec.Message, &rec.RelatedID, &relatedType, &metadata, &createdAt); err != nil {
			return nil, err
		}
		rec.RelatedType = domain.RelatedType(relatedType)
		rec.CreatedAt = createdAt.UTC()
		if err := json.Unmarshal([]byte(metadata), &rec.Metadata); err != nil {
			rec.Metadata = nil
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

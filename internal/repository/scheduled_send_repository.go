package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/phishsim/internal/domain"
)

// ScheduledSendRepository manages pending simulated-phishing sends.
type ScheduledSendRepository interface {
	Create(ctx context.Context, send *domain.ScheduledSend) error
	Update(ctx context.Context, send *domain.ScheduledSend) error
	Delete(ctx context.Context, id string) error
	// ListPending returns unsent rows ordered by ascending send time.
	ListPending(ctx context.Context, limit int) ([]domain.ScheduledSend, error)
	// CountPendingForStaff backs the one-pending-send-per-staff precondition.
	CountPendingForStaff(ctx context.Context, staffID string) (int, error)
}

type scheduledSendRepository struct {
	pool *pgxpool.Pool
}

// NewScheduledSendRepository instantiates the repository.
func NewScheduledSendRepository(pool *pgxpool.Pool) ScheduledSendRepository {
	return &scheduledSendRepository{pool: pool}
}

func (r *scheduledSendRepository) Create(ctx context.Context, send *domain.ScheduledSend) error {
	const query = `
        INSERT INTO scheduled_sends (staff_id, staff_email, template, send_time, sent)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		send.StaffID,
		send.StaffEmail,
		send.Template,
		send.SendTime,
		send.Sent,
	).Scan(&send.ID, &send.CreatedAt)
}

func (r *scheduledSendRepository) Update(ctx context.Context, send *domain.ScheduledSend) error {
	const query = `
        UPDATE scheduled_sends
        SET staff_email=$1, template=$2, send_time=$3, sent=$4
        WHERE id=$5`
	cmd, err := r.pool.Exec(ctx, query,
		send.StaffEmail,
		send.Template,
		send.SendTime,
		send.Sent,
		send.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *scheduledSendRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM scheduled_sends WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *scheduledSendRepository) ListPending(ctx context.Context, limit int) ([]domain.ScheduledSend, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
        SELECT id, staff_id, staff_email, template, send_time, sent, created_at
        FROM scheduled_sends
        ORDER BY send_time ASC
        LIMIT $1`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ScheduledSend
	for rows.Next() {
		var send domain.ScheduledSend
		if err := rows.Scan(
			&send.ID,
			&send.StaffID,
			&send.StaffEmail,
			&send.Template,
			&send.SendTime,
			&send.Sent,
			&send.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, send)
	}
	return result, rows.Err()
}

func (r *scheduledSendRepository) CountPendingForStaff(ctx context.Context, staffID string) (int, error) {
	const query = `
        SELECT COUNT(*) FROM scheduled_sends WHERE staff_id=$1 AND sent=FALSE`
	var count int
	if err := r.pool.QueryRow(ctx, query, staffID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

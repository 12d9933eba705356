package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/findosh/myrecipes/internal/models"
)

var _ SubscriptionRepository = (*SQLiteSubscriptionRepository)(nil)

// SQLiteSubscriptionRepository provides user subscription data access
type SQLiteSubscriptionRepository struct {
	db *DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *DB) *SQLiteSubscriptionRepository {
	return &SQLiteSubscriptionRepository{db: db}
}

const subscriptionColumns = `id, user_id, plan_id, status, start_date, end_date, cancel_at_period_end`

// Create inserts a new subscription
func (r *SQLiteSubscriptionRepository) Create(ctx context.Context, s models.UserSubscription) error {
	query := `INSERT INTO subscriptions (` + subscriptionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.PlanID,
		string(s.Status),
		s.StartDate,
		s.EndDate,
		s.CancelAtPeriodEnd,
	)
	if err != nil {
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return nil
}

// GetByID retrieves a subscription by ID
func (r *SQLiteSubscriptionRepository) GetByID(ctx context.Context, id string) (models.UserSubscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = ?`
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("subscription %q: %w", id, ErrNotFound)
	}
	return s, err
}

// GetByUserID returns the first subscription recorded for userID
func (r *SQLiteSubscriptionRepository) GetByUserID(ctx context.Context, userID string) (models.UserSubscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE user_id = ? ORDER BY seq LIMIT 1`
	s, err := scanSubscription(r.db.QueryRowContext(ctx, query, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return s, fmt.Errorf("subscription for user %q: %w", userID, ErrNotFound)
	}
	return s, err
}

// Update modifies an existing subscription
func (r *SQLiteSubscriptionRepository) Update(ctx context.Context, s models.UserSubscription) error {
	query := `
		UPDATE subscriptions SET plan_id = ?, status = ?, start_date = ?, end_date = ?, cancel_at_period_end = ?
		WHERE id = ?
	`
	res, err := r.db.ExecContext(ctx, query,
		s.PlanID,
		string(s.Status),
		s.StartDate,
		s.EndDate,
		s.CancelAtPeriodEnd,
		s.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update subscription: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("subscription %q: %w", s.ID, ErrNotFound)
	}
	return nil
}

func scanSubscription(row scanner) (models.UserSubscription, error) {
	var s models.UserSubscription
	var status string

	err := row.Scan(&s.ID, &s.UserID, &s.PlanID, &status, &s.StartDate, &s.EndDate, &s.CancelAtPeriodEnd)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return s, err
		}
		return s, fmt.Errorf("failed to scan subscription: %w", err)
	}
	s.Status = models.SubscriptionStatus(status)
	return s, nil
}

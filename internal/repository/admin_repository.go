package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/iliyamo/venue-booking-api/internal/database"
	"github.com/iliyamo/venue-booking-api/internal/model"
)

// AdminRepo reads and creates rows in `superadmins`. Emails are stored
// trimmed and lower-cased.
type AdminRepo struct{ gw *database.Gateway }

func NewAdminRepo(gw *database.Gateway) *AdminRepo { return &AdminRepo{gw: gw} }

// Create inserts an administrator with an already hashed password.
func (r *AdminRepo) Create(ctx context.Context, email, passwordHash string) (model.Admin, error) {
	admin := model.Admin{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	err := r.gw.Run(ctx, func(q database.Querier) error {
		query, args, err := r.gw.Builder().Insert("superadmins").Rows(goqu.Record{
			"id":            admin.ID,
			"email":         admin.Email,
			"password_hash": admin.PasswordHash,
			"created_at":    admin.CreatedAt,
		}).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		_, err = q.ExecContext(ctx, query, args...)
		return database.Classify(err)
	})
	var ce *database.ConstraintError
	if errors.As(err, &ce) && ce.Violation == database.Unique {
		return model.Admin{}, ErrEmailExists
	}
	if err != nil {
		return model.Admin{}, err
	}
	return admin, nil
}

// GetByEmail fetches an administrator by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (model.Admin, error) {
	return r.getBy(ctx, goqu.Ex{"email": normalizeEmail(email)})
}

// GetByID fetches an administrator by id.
func (r *AdminRepo) GetByID(ctx context.Context, id string) (model.Admin, error) {
	return r.getBy(ctx, goqu.Ex{"id": id})
}

func (r *AdminRepo) getBy(ctx context.Context, where goqu.Ex) (model.Admin, error) {
	var a model.Admin
	err := r.gw.Run(ctx, func(q database.Querier) error {
		query, args, err := r.gw.Builder().From("superadmins").
			Select("id", "email", "password_hash", "created_at").
			Where(where).Limit(1).Prepared(true).ToSQL()
		if err != nil {
			return err
		}
		return database.Classify(q.GetContext(ctx, &a, query, args...))
	})
	return a, err
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

package postgres

import (
	"context"
	"database/sql"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository"
)

type staffRepository struct {
	db *sql.DB
}

func NewStaffRepository(db *sql.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

const staffColumns = `id, user_id, email, COALESCE(name, ''), role, invited_by, created_on, joined_on`

func scanStaff(row rowScanner) (*domain.Staff, error) {
	s := &domain.Staff{}
	var userID sql.NullString
	var joined sql.NullTime
	if err := row.Scan(&s.ID, &userID, &s.Email, &s.Name, &s.Role, &s.InvitedBy, &s.CreatedOn, &joined); err != nil {
		return nil, err
	}
	if userID.Valid {
		s.UserID = &userID.String
	}
	if joined.Valid {
		s.JoinedOn = &joined.Time
	}
	return s, nil
}

func (r *staffRepository) Create(ctx context.Context, s *domain.Staff) error {
	now := time.Now()
	query := `INSERT INTO staff (email, name, role, invited_by, created_on) VALUES ($1, $2, $3, $4, $5) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, s.Email, s.Name, s.Role, s.InvitedBy, now).Scan(&s.ID); err != nil {
		return err
	}
	s.CreatedOn = now
	return nil
}

func (r *staffRepository) GetByEmail(ctx context.Context, email string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE lower(email) = lower($1)`
	return scanStaff(r.db.QueryRowContext(ctx, query, email))
}

func (r *staffRepository) GetByUserID(ctx context.Context, userID string) (*domain.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE user_id = $1`
	return scanStaff(r.db.QueryRowContext(ctx, query, userID))
}

// LinkUser attaches the identity-provider user to a pending invitation
func (r *staffRepository) LinkUser(ctx context.Context, id int32, userID string) error {
	query := `UPDATE staff SET user_id = $1, joined_on = $2 WHERE id = $3 AND user_id IS NULL`
	res, err := r.db.ExecContext(ctx, query, userID, time.Now(), id)
	if err != nil {
		return err
	}
	return expectAffected(res)
}

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"carrental-backend/internal/domain"
	"carrental-backend/internal/repository/postgres"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaffRepository_GetByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewStaffRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM staff WHERE lower\\(email\\) = lower\\(\\$1\\)").
		WithArgs("Agent@Example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "email", "name", "role", "invited_by", "created_on", "joined_on"}).
			AddRow(2, nil, "agent@example.com", "Agent", "AGENT", "admin_1", time.Now(), nil))

	s, err := repo.GetByEmail(context.Background(), "Agent@Example.com")
	require.NoError(t, err)
	assert.Nil(t, s.UserID)
	assert.Equal(t, domain.StaffRoleAgent, s.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStaffRepository_LinkUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	defer db.Close()

	repo := postgres.NewStaffRepository(db)

	mock.ExpectExec("UPDATE staff SET user_id = \\$1").
		WithArgs("user_9", sqlmock.AnyArg(), int32(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE staff SET user_id = \\$1").
		WithArgs("user_9", sqlmock.AnyArg(), int32(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.LinkUser(context.Background(), 2, "user_9"))
	assert.ErrorIs(t, repo.LinkUser(context.Background(), 2, "user_9"), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

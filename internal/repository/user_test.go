package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/debojyoti/finance-tracker-v2-backend/internal/models"
	"github.com/lib/pq"
)

func setupUserMock(t *testing.T) (*PostgresUserRepository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock database: %v", err)
	}
	repo := NewPostgresUserRepository(db)
	cleanup := func() { db.Close() }
	return repo, mock, cleanup
}

func userRow(id, subjectID string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{"id", "subject_id", "name", "email", "login_medium", "created_at", "updated_at"}).
		AddRow(id, subjectID, "Bob", "bob@example.com", "google", now, now)
}

func TestFindBySubject_Found(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, subject_id, name, email, login_medium, created_at, updated_at FROM users WHERE subject_id = $1`)).
		WithArgs("sub-1").
		WillReturnRows(userRow("u1", "sub-1"))

	user, err := repo.FindBySubject(context.Background(), "sub-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" || user.LoginMedium != models.LoginMediumGoogle {
		t.Errorf("user = %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestFindBySubject_NotFound(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE subject_id = $1`)).
		WithArgs("absent").
		WillReturnRows(sqlmock.NewRows([]string{"id", "subject_id", "name", "email", "login_medium", "created_at", "updated_at"}))

	_, err := repo.FindBySubject(context.Background(), "absent")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v; want ErrNotFound", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser_ReturnsTimestamps(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (id, subject_id, name, email, login_medium)`)).
		WithArgs("u1", "sub-1", "Bob", "bob@example.com", "google").
		WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

	u := &models.User{ID: "u1", SubjectID: "sub-1", Name: "Bob", Email: "bob@example.com", LoginMedium: models.LoginMediumGoogle}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if u.CreatedAt.IsZero() || u.UpdatedAt.IsZero() {
		t.Error("expected timestamps populated from RETURNING")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateUser_DuplicateEmail(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505"})

	u := &models.User{ID: "u1", SubjectID: "sub-1", Email: "taken@example.com"}
	err := repo.Create(context.Background(), u)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("error = %v; want ErrDuplicate", err)
	}
}

func TestTouch_BumpsUpdatedAt(t *testing.T) {
	repo, mock, cleanup := setupUserMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE users SET updated_at = now() WHERE id = $1`)).
		WithArgs("u1").
		WillReturnRows(userRow("u1", "sub-1"))

	user, err := repo.Touch(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("user = %+v", user)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

// internal/consultation/repository_test.go
//
// Repository tests against sqlmock.
//
// Run: go test ./internal/consultation -v

package consultation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var recordColumns = []string{
	"id", "name", "phone", "national_id", "province", "city",
	"consultation_type", "consultation_topic", "problem_description",
	"documents", "message", "preferred_date", "preferred_time", "status",
	"created_at", "updated_at",
}

func newMockRepo(t *testing.T) (*Repository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewRepository(sqlx.NewDb(db, "mysql")), mock
}

func TestRepository_Insert(t *testing.T) {
	repo, mock := newMockRepo(t)
	p := validPayload()
	p.City = Opt("تهران")

	mock.ExpectExec(`INSERT INTO consultations`).
		WithArgs(p.Name, p.Phone, nil, nil, "تهران", "phone",
			nil, nil, nil, nil, p.PreferredDate, p.PreferredTime,
			"pending", fixedNow, fixedNow).
		WillReturnResult(sqlmock.NewResult(7, 1))

	id, err := repo.Insert(context.Background(), p, fixedNow)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Get(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM consultations WHERE id = \?`).
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows(recordColumns).AddRow(
			7, "علی رضایی", "09121234567", nil, nil, "تهران",
			"video", nil, nil, nil, nil, "2026-03-12", "10:00", "pending",
			fixedNow, fixedNow,
		))

	rec, err := repo.Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), rec.ID)
	assert.Equal(t, TypeVideo, rec.ConsultationType)
	assert.Equal(t, StatusPending, rec.Status)
	assert.Nil(t, rec.NationalID)
	assert.Equal(t, "تهران", Deref(rec.City))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_GetNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(`SELECT (.+) FROM consultations WHERE id = \?`).
		WithArgs(int64(99)).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	_, err := repo.Get(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListNewestFirst(t *testing.T) {
	repo, mock := newMockRepo(t)
	older := fixedNow.Add(-time.Hour)

	mock.ExpectQuery(`SELECT (.+) FROM consultations ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(recordColumns).
			AddRow(2, "مریم", "09120000000", nil, nil, nil, "phone", nil, nil, nil, nil,
				"2026-03-12", "12:00", "confirmed", fixedNow, fixedNow).
			AddRow(1, "علی", "09121111111", nil, nil, nil, "phone", nil, nil, nil, nil,
				"2026-03-11", "08:00", "pending", older, older))

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(2), rows[0].ID)
	assert.Equal(t, StatusConfirmed, rows[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_ListEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	mock.ExpectQuery(`SELECT (.+) FROM consultations ORDER BY`).
		WillReturnRows(sqlmock.NewRows(recordColumns))

	rows, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestRepository_UpdateStatusOnly(t *testing.T) {
	repo, mock := newMockRepo(t)
	st := StatusConfirmed

	mock.ExpectExec(`UPDATE consultations SET status = \?, updated_at = \? WHERE id = \?`).
		WithArgs("confirmed", fixedNow, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Update(context.Background(), 3, Patch{Status: &st}, fixedNow))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateBoth(t *testing.T) {
	repo, mock := newMockRepo(t)
	st := StatusCancelled
	msg := "به درخواست موکل لغو شد"

	mock.ExpectExec(`UPDATE consultations SET status = \?, message = \?, updated_at = \? WHERE id = \?`).
		WithArgs("cancelled", msg, fixedNow, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Update(context.Background(), 3, Patch{Status: &st, Message: &msg}, fixedNow))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_UpdateEmpty(t *testing.T) {
	repo, mock := newMockRepo(t)
	err := repo.Update(context.Background(), 3, Patch{}, fixedNow)
	assert.ErrorIs(t, err, ErrEmptyPatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_Delete(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(`DELETE FROM consultations WHERE id = \?`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM consultations WHERE id = \?`).
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), 5))
	assert.ErrorIs(t, repo.Delete(context.Background(), 5), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_DriverErrorWrapped(t *testing.T) {
	repo, mock := newMockRepo(t)
	boom := errors.New("connection reset")
	mock.ExpectExec(`INSERT INTO consultations`).WillReturnError(boom)

	_, err := repo.Insert(context.Background(), validPayload(), fixedNow)
	assert.ErrorIs(t, err, boom)
}

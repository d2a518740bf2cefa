package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReactionRepo_Add(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	likes := NewReactionRepo(db, Likes)

	mock.ExpectExec("INSERT INTO likes").
		WithArgs(uint64(1), uint64(10), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO likes").
		WithArgs(uint64(1), uint64(10), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1062})
	mock.ExpectExec("INSERT INTO likes").
		WithArgs(uint64(1), uint64(404), sqlmock.AnyArg()).
		WillReturnError(&mysql.MySQLError{Number: 1452})

	rc, err := likes.Add(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), rc.ComboID)

	_, err = likes.Add(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = likes.Add(context.Background(), 1, 404)
	assert.ErrorIs(t, err, ErrComboNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReactionRepo_RemoveMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM favorites WHERE user_id").
		WithArgs(uint64(1), uint64(10)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err = NewReactionRepo(db, Favorites).Remove(context.Background(), 1, 10)
	assert.ErrorIs(t, err, ErrReactionNotFound)
}

func TestReactionRepo_Count(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COUNT.* FROM likes WHERE combo_id").
		WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(int64(6)))

	n, err := NewReactionRepo(db, Likes).CountByCombo(context.Background(), 10)
	require.NoError(t, err)
	assert.EqualValues(t, 6, n)
}

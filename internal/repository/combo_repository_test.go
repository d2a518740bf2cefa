package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combosss/combo-api/internal/model"
)

var (
	comboCols     = []string{"id", "character_id", "user_id", "name", "created_at", "like_count"}
	slotCols      = []string{"combo_id", "ordinal", "position_id", "position_name"}
	slotInputCols = []string{"combo_id", "slot_ordinal", "input_id", "input_name", "input_src"}
)

func TestComboRepo_ResolvePositionTx(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	r := NewComboRepo(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO positions .* ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID").
		WithArgs("Standing").
		WillReturnResult(sqlmock.NewResult(3, 0))
	mock.ExpectCommit()

	tx, err := db.Begin()
	require.NoError(t, err)
	id, err := r.ResolvePositionTx(context.Background(), tx, "Standing")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	assert.Equal(t, uint64(3), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComboRepo_CreateTxUnknownCharacter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO combos ").
		WillReturnError(&mysql.MySQLError{Number: 1452, Message: "foreign key"})
	mock.ExpectRollback()

	tx, err := db.Begin()
	require.NoError(t, err)
	c := model.Combo{CharacterID: 2, UserID: 1, Name: "Electric"}
	err = NewComboRepo(db).CreateTx(context.Background(), tx, &c)
	assert.ErrorIs(t, err, ErrCharacterNotFound)
	require.NoError(t, tx.Rollback())
}

func TestComboRepo_LockOwnerTxMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT user_id FROM combos WHERE id = . FOR UPDATE").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))

	tx, err := db.Begin()
	require.NoError(t, err)
	defer tx.Rollback()
	_, err = NewComboRepo(db).LockOwnerTx(context.Background(), tx, 99)
	assert.ErrorIs(t, err, ErrComboNotFound)
}

func TestComboRepo_ListByCharacterWithViewer(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	viewer := uint64(8)
	mock.ExpectQuery("SELECT c.id, c.character_id.* FROM combos c WHERE c.character_id").
		WithArgs(viewer, viewer, uint64(2)).
		WillReturnRows(sqlmock.NewRows(append(comboCols, "is_favorite", "is_liked")).
			AddRow(uint64(10), uint64(2), uint64(1), "Electric", now, int64(3), true, false).
			AddRow(uint64(11), uint64(2), uint64(8), "Wavedash", now, int64(0), false, false))
	mock.ExpectQuery("FROM combo_slots s JOIN positions p").
		WithArgs(uint64(10), uint64(11)).
		WillReturnRows(sqlmock.NewRows(slotCols).
			AddRow(uint64(10), 0, uint64(1), "Standing").
			AddRow(uint64(10), 1, uint64(2), "Crouching").
			AddRow(uint64(11), 0, uint64(2), "Crouching"))
	mock.ExpectQuery("FROM combo_slot_inputs si JOIN inputs i").
		WithArgs(uint64(10), uint64(11)).
		WillReturnRows(sqlmock.NewRows(slotInputCols).
			AddRow(uint64(10), 0, uint64(5), "f", "https://cdn.example.com/f.png").
			AddRow(uint64(10), 0, uint64(6), "2", "https://cdn.example.com/2.png").
			AddRow(uint64(10), 1, uint64(7), "RP", "https://cdn.example.com/rp.png"))

	combos, err := NewComboRepo(db).ListByCharacter(context.Background(), 2, &viewer)
	require.NoError(t, err)
	require.Len(t, combos, 2)

	first := combos[0]
	assert.EqualValues(t, 3, first.LikeCount)
	require.NotNil(t, first.IsFavorite)
	assert.True(t, *first.IsFavorite)
	assert.False(t, *first.IsLiked)
	require.Len(t, first.Slots, 2)
	assert.Equal(t, "Standing", first.Slots[0].PositionName)
	require.Len(t, first.Slots[0].Inputs, 2)
	assert.Equal(t, "f", first.Slots[0].Inputs[0].Name)
	assert.Equal(t, "2", first.Slots[0].Inputs[1].Name)
	assert.Equal(t, "RP", first.Slots[1].Inputs[0].Name)

	second := combos[1]
	require.Len(t, second.Slots, 1)
	assert.NotNil(t, second.Slots[0].Inputs)
	assert.Empty(t, second.Slots[0].Inputs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComboRepo_ListAllEmptySkipsSlotQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM combos c ORDER BY c.id").WillReturnRows(sqlmock.NewRows(comboCols))

	combos, err := NewComboRepo(db).ListAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, combos)
	assert.Empty(t, combos)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestComboRepo_GetByIDMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("FROM combos c WHERE c.id").WithArgs(uint64(4)).WillReturnRows(sqlmock.NewRows(comboCols))

	_, err = NewComboRepo(db).GetByID(context.Background(), 4)
	assert.ErrorIs(t, err, ErrComboNotFound)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "", placeholders(0))
	assert.Equal(t, "?", placeholders(1))
	assert.Equal(t, "?,?,?", placeholders(3))
}

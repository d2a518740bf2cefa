package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/queue"
	"github.com/combosss/combo-api/internal/repository"
	"github.com/combosss/combo-api/internal/validation"
)

type chanPublisher chan queue.ComboEvent

func (p chanPublisher) Publish(_ context.Context, ev queue.ComboEvent) error {
	p <- ev
	return nil
}

func (p chanPublisher) next(t *testing.T) queue.ComboEvent {
	t.Helper()
	select {
	case ev := <-p:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
		return queue.ComboEvent{}
	}
}

func newService(t *testing.T) (*ComboService, sqlmock.Sqlmock, chanPublisher) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	pub := make(chanPublisher, 4)
	return NewComboService(repository.NewComboRepo(db), pub), mock, pub
}

func electric() model.ComboSubmission {
	return model.ComboSubmission{
		Combo:     model.ComboFields{CharacterID: 2, ComboName: "Electric"},
		Positions: []model.PositionFields{{PositionName: "Standing"}, {PositionName: "Crouching"}},
		Inputs: [][]model.InputFields{
			{{InputName: "f", InputSrc: "https://cdn.example.com/f.png"}, {InputName: "2", InputSrc: "https://cdn.example.com/2.png"}},
			{{InputName: "RP", InputSrc: "https://cdn.example.com/rp.png"}},
		},
	}
}

func expectCharacter(mock sqlmock.Sqlmock, id uint64, exists bool) {
	rows := sqlmock.NewRows([]string{"id"})
	if exists {
		rows.AddRow(id)
	}
	mock.ExpectQuery("SELECT id FROM characters WHERE id").WithArgs(id).WillReturnRows(rows)
}

func TestAddCombo_StoresWholeAggregate(t *testing.T) {
	svc, mock, pub := newService(t)
	const owner = uint64(7)
	now := time.Now().UTC()

	mock.ExpectBegin()
	expectCharacter(mock, 2, true)
	mock.ExpectExec("INSERT INTO combos ").
		WithArgs(uint64(2), owner, "Electric", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(10, 1))

	mock.ExpectExec("INSERT INTO positions").WithArgs("Standing").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO combo_slots ").WithArgs(uint64(10), 0, uint64(3)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO inputs").WithArgs("f", "https://cdn.example.com/f.png").WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO combo_slot_inputs").WithArgs(uint64(10), 0, 0, uint64(5)).WillReturnResult(sqlmock.NewResult(0, 1))
	// "2" already exists: the upsert reports its id and leaves src alone.
	mock.ExpectExec("INSERT INTO inputs").WithArgs("2", "https://cdn.example.com/2.png").WillReturnResult(sqlmock.NewResult(6, 0))
	mock.ExpectExec("INSERT INTO combo_slot_inputs").WithArgs(uint64(10), 0, 1, uint64(6)).WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec("INSERT INTO positions").WithArgs("Crouching").WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec("INSERT INTO combo_slots ").WithArgs(uint64(10), 1, uint64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO inputs").WithArgs("RP", "https://cdn.example.com/rp.png").WillReturnResult(sqlmock.NewResult(7, 1))
	mock.ExpectExec("INSERT INTO combo_slot_inputs").WithArgs(uint64(10), 1, 0, uint64(7)).WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectQuery("FROM combos c WHERE c.id").WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "character_id", "user_id", "name", "created_at", "like_count"}).
			AddRow(uint64(10), uint64(2), owner, "Electric", now, int64(0)))
	mock.ExpectQuery("FROM combo_slots s JOIN positions p").WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"combo_id", "ordinal", "position_id", "position_name"}).
			AddRow(uint64(10), 0, uint64(3), "Standing").
			AddRow(uint64(10), 1, uint64(4), "Crouching"))
	mock.ExpectQuery("FROM combo_slot_inputs si JOIN inputs i").WithArgs(uint64(10)).
		WillReturnRows(sqlmock.NewRows([]string{"combo_id", "slot_ordinal", "input_id", "input_name", "input_src"}).
			AddRow(uint64(10), 0, uint64(5), "f", "https://cdn.example.com/f.png").
			AddRow(uint64(10), 0, uint64(6), "2", "https://cdn.example.com/old-2.png").
			AddRow(uint64(10), 1, uint64(7), "RP", "https://cdn.example.com/rp.png"))
	mock.ExpectCommit()

	c, err := svc.CreateCombo(context.Background(), owner, electric())
	require.NoError(t, err)
	assert.Equal(t, uint64(10), c.ID)
	assert.Equal(t, owner, c.UserID)
	require.Len(t, c.Slots, 2)
	require.Len(t, c.Slots[0].Inputs, 2)
	assert.Equal(t, "https://cdn.example.com/old-2.png", c.Slots[0].Inputs[1].Src)
	assert.Equal(t, "RP", c.Slots[1].Inputs[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())

	ev := pub.next(t)
	assert.Equal(t, queue.ComboCreated, ev.Type)
	assert.Equal(t, uint64(10), ev.ComboID)
	assert.Equal(t, 2, ev.Slots)
}

func TestAddCombo_InvalidWritesNothing(t *testing.T) {
	svc, mock, pub := newService(t)
	sub := electric()
	sub.Inputs = sub.Inputs[:1]

	_, err := svc.CreateCombo(context.Background(), 7, sub)
	var verr validation.Errors
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "inputs", verr[0].Field)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, pub)
}

func TestAddCombo_UnknownCharacter(t *testing.T) {
	svc, mock, _ := newService(t)
	mock.ExpectBegin()
	expectCharacter(mock, 2, false)
	mock.ExpectRollback()

	_, err := svc.AddCombo(context.Background(), 7, electric())
	assert.ErrorIs(t, err, repository.ErrCharacterNotFound)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAddCombo_FailureRollsBack(t *testing.T) {
	svc, mock, pub := newService(t)
	mock.ExpectBegin()
	expectCharacter(mock, 2, true)
	mock.ExpectExec("INSERT INTO combos ").WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectExec("INSERT INTO positions").WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("INSERT INTO combo_slots ").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	_, err := svc.CreateCombo(context.Background(), 7, electric())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, pub)
}

func expectLock(mock sqlmock.Sqlmock, comboID, owner uint64) {
	mock.ExpectQuery("SELECT user_id FROM combos WHERE id = . FOR UPDATE").WithArgs(comboID).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(owner))
}

func expectCascade(mock sqlmock.Sqlmock, comboID uint64) {
	for _, q := range []string{
		"DELETE FROM combo_slot_inputs WHERE combo_id",
		"DELETE FROM combo_slots WHERE combo_id",
		"DELETE FROM favorites WHERE combo_id",
		"DELETE FROM likes WHERE combo_id",
		"DELETE FROM combos WHERE id",
	} {
		mock.ExpectExec(q).WithArgs(comboID).WillReturnResult(sqlmock.NewResult(0, 1))
	}
}

func TestDeleteCombo(t *testing.T) {
	t.Run("owner", func(t *testing.T) {
		svc, mock, pub := newService(t)
		mock.ExpectBegin()
		expectLock(mock, 10, 7)
		expectCascade(mock, 10)
		mock.ExpectCommit()

		require.NoError(t, svc.DeleteCombo(context.Background(), 10, 7, model.RoleVisitor))
		assert.NoError(t, mock.ExpectationsWereMet())
		ev := pub.next(t)
		assert.Equal(t, queue.ComboDeleted, ev.Type)
		assert.Equal(t, uint64(7), ev.OwnerID)
	})

	t.Run("admin on someone else's combo", func(t *testing.T) {
		svc, mock, pub := newService(t)
		mock.ExpectBegin()
		expectLock(mock, 10, 7)
		expectCascade(mock, 10)
		mock.ExpectCommit()

		require.NoError(t, svc.DeleteCombo(context.Background(), 10, 1, model.RoleAdmin))
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Equal(t, uint64(1), pub.next(t).ActorID)
	})

	t.Run("other visitor is forbidden", func(t *testing.T) {
		svc, mock, pub := newService(t)
		mock.ExpectBegin()
		expectLock(mock, 10, 7)
		mock.ExpectRollback()

		err := svc.DeleteCombo(context.Background(), 10, 8, model.RoleVisitor)
		assert.ErrorIs(t, err, repository.ErrForbidden)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Empty(t, pub)
	})

	t.Run("missing", func(t *testing.T) {
		svc, mock, _ := newService(t)
		mock.ExpectBegin()
		mock.ExpectQuery("SELECT user_id FROM combos").WithArgs(uint64(99)).
			WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
		mock.ExpectRollback()

		err := svc.DeleteCombo(context.Background(), 99, 7, model.RoleAdmin)
		assert.ErrorIs(t, err, repository.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("cascade failure rolls back", func(t *testing.T) {
		svc, mock, _ := newService(t)
		mock.ExpectBegin()
		expectLock(mock, 10, 7)
		mock.ExpectExec("DELETE FROM combo_slot_inputs").WillReturnError(errors.New("lock wait timeout"))
		mock.ExpectRollback()

		require.Error(t, svc.DeleteCombo(context.Background(), 10, 7, model.RoleVisitor))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

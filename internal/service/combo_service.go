// Package service holds the operations that span several repositories in
// one transaction.
package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/combosss/combo-api/internal/metrics"
	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/queue"
	"github.com/combosss/combo-api/internal/repository"
	"github.com/combosss/combo-api/internal/validation"
)

// EventPublisher receives combo events after a successful commit. It is
// expected to log its own failures.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.ComboEvent) error
}

// ComboService owns combo aggregates: a combo, its ordered slots and the
// inputs of each slot are written and deleted as one unit.
type ComboService struct {
	combos    *repository.ComboRepo
	publisher EventPublisher // nil disables events
}

func NewComboService(combos *repository.ComboRepo, publisher EventPublisher) *ComboService {
	return &ComboService{combos: combos, publisher: publisher}
}

var txOptions = &sql.TxOptions{Isolation: sql.LevelReadCommitted}

const publishTimeout = 10 * time.Second

// AddCombo validates sub and stores it for ownerID. Positions and inputs
// are matched to catalog rows by exact name and created when missing.
// Nothing is written when validation fails, and any later failure rolls
// the whole submission back.
func (s *ComboService) AddCombo(ctx context.Context, ownerID uint64, sub model.ComboSubmission) (out model.Combo, err error) {
	if err := validation.Struct(sub); err != nil {
		return model.Combo{}, err
	}

	tx, err := s.combos.DB().BeginTx(ctx, txOptions)
	if err != nil {
		return model.Combo{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	characterID := uint64(sub.Combo.CharacterID)
	ok, err := s.combos.CharacterExistsTx(ctx, tx, characterID)
	if err != nil {
		return model.Combo{}, err
	}
	if !ok {
		return model.Combo{}, repository.ErrCharacterNotFound
	}

	c := model.Combo{CharacterID: characterID, UserID: ownerID, Name: sub.Combo.ComboName}
	if err = s.combos.CreateTx(ctx, tx, &c); err != nil {
		return model.Combo{}, err
	}

	for i, p := range sub.Positions {
		positionID, err := s.combos.ResolvePositionTx(ctx, tx, p.PositionName)
		if err != nil {
			return model.Combo{}, err
		}
		if err := s.combos.CreateSlotTx(ctx, tx, c.ID, i, positionID); err != nil {
			return model.Combo{}, err
		}
		for j, in := range sub.Inputs[i] {
			inputID, err := s.combos.ResolveInputTx(ctx, tx, in.InputName, in.InputSrc)
			if err != nil {
				return model.Combo{}, err
			}
			if err := s.combos.CreateSlotInputTx(ctx, tx, c.ID, i, j, inputID); err != nil {
				return model.Combo{}, err
			}
		}
	}

	return s.combos.GetTx(ctx, tx, c.ID)
}

// CreateCombo runs AddCombo and then reports the result: it bumps the
// created counter and publishes combo.created. Event delivery never
// affects the outcome.
func (s *ComboService) CreateCombo(ctx context.Context, ownerID uint64, sub model.ComboSubmission) (model.Combo, error) {
	c, err := s.AddCombo(ctx, ownerID, sub)
	if err != nil {
		return model.Combo{}, err
	}
	metrics.RecordComboCreated()
	ev := queue.NewComboEvent(queue.ComboCreated, c.ID, c.UserID, ownerID)
	ev.ComboName = c.Name
	ev.CharacterID = c.CharacterID
	ev.Slots = len(c.Slots)
	s.publish(ctx, ev)
	return c, nil
}

// DeleteCombo removes comboID and everything that hangs off it. Only the
// owner or an admin may delete; anyone else gets repository.ErrForbidden
// and the combo is left untouched.
func (s *ComboService) DeleteCombo(ctx context.Context, comboID, requesterID uint64, role model.Role) error {
	owner, err := s.deleteCombo(ctx, comboID, requesterID, role)
	if err != nil {
		return err
	}
	metrics.RecordComboDeleted()
	s.publish(ctx, queue.NewComboEvent(queue.ComboDeleted, comboID, owner, requesterID))
	return nil
}

func (s *ComboService) deleteCombo(ctx context.Context, comboID, requesterID uint64, role model.Role) (owner uint64, err error) {
	tx, err := s.combos.DB().BeginTx(ctx, txOptions)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	owner, err = s.combos.LockOwnerTx(ctx, tx, comboID)
	if err != nil {
		return 0, err
	}
	if owner != requesterID && role != model.RoleAdmin {
		return 0, repository.ErrForbidden
	}
	if err = s.combos.DeleteTx(ctx, tx, comboID); err != nil {
		return 0, err
	}
	return owner, nil
}

func (s *ComboService) ListByCharacter(ctx context.Context, characterID uint64, viewer *uint64) ([]model.Combo, error) {
	return s.combos.ListByCharacter(ctx, characterID, viewer)
}

func (s *ComboService) Get(ctx context.Context, comboID uint64) (model.Combo, error) {
	return s.combos.GetByID(ctx, comboID)
}

func (s *ComboService) ListAll(ctx context.Context) ([]model.Combo, error) {
	return s.combos.ListAll(ctx)
}

func (s *ComboService) ListByUser(ctx context.Context, userID uint64) ([]model.Combo, error) {
	return s.combos.ListByUser(ctx, userID)
}

func (s *ComboService) ListFavorites(ctx context.Context, userID uint64) ([]model.Combo, error) {
	return s.combos.ListFavoritedBy(ctx, userID)
}

// publish hands ev to the publisher off the request path.
func (s *ComboService) publish(ctx context.Context, ev queue.ComboEvent) {
	if s.publisher == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		metrics.RecordEventPublished(ev.Type, s.publisher.Publish(ctx, ev))
	}()
}

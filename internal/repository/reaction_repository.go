package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/combosss/combo-api/internal/model"
)

// ReactionKind selects the table a ReactionRepo operates on.
type ReactionKind string

const (
	Likes     ReactionKind = "likes"
	Favorites ReactionKind = "favorites"
)

// ReactionRepo stores (user, combo) pairs for one ReactionKind. A user
// reacts to a combo at most once per kind.
type ReactionRepo struct {
	db    *sql.DB
	table string
}

func NewReactionRepo(db *sql.DB, kind ReactionKind) *ReactionRepo {
	return &ReactionRepo{db: db, table: string(kind)}
}

func (r *ReactionRepo) Kind() ReactionKind { return ReactionKind(r.table) }

// Add records the reaction. A repeat yields ErrConflict and an unknown
// combo ErrComboNotFound.
func (r *ReactionRepo) Add(ctx context.Context, userID, comboID uint64) (model.Reaction, error) {
	rc := model.Reaction{UserID: userID, ComboID: comboID, CreatedAt: time.Now().UTC()}
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO "+r.table+" (user_id, combo_id, created_at) VALUES (?,?,?)",
		userID, comboID, rc.CreatedAt)
	switch {
	case err == nil:
		return rc, nil
	case isMySQLError(err, mysqlDuplicateEntry):
		return model.Reaction{}, ErrConflict
	case isMySQLError(err, mysqlNoReferencedRow):
		return model.Reaction{}, ErrComboNotFound
	default:
		return model.Reaction{}, err
	}
}

// Remove deletes the reaction, or returns ErrReactionNotFound.
func (r *ReactionRepo) Remove(ctx context.Context, userID, comboID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM "+r.table+" WHERE user_id = ? AND combo_id = ?", userID, comboID)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, ErrReactionNotFound)
}

func (r *ReactionRepo) CountByCombo(ctx context.Context, comboID uint64) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM "+r.table+" WHERE combo_id = ?", comboID).Scan(&n)
	return n, err
}

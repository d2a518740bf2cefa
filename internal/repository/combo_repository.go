package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/combosss/combo-api/internal/model"
)

// ComboRepo stores combos and their ordered slots. Write methods take a
// caller-owned *sql.Tx so a whole submission commits or rolls back as one.
type ComboRepo struct{ db *sql.DB }

func NewComboRepo(db *sql.DB) *ComboRepo { return &ComboRepo{db: db} }

// DB exposes the underlying handle so services can open transactions.
func (r *ComboRepo) DB() *sql.DB { return r.db }

// CharacterExistsTx reports whether characterID refers to a stored character.
func (r *ComboRepo) CharacterExistsTx(ctx context.Context, tx *sql.Tx, characterID uint64) (bool, error) {
	var id uint64
	err := tx.QueryRowContext(ctx, "SELECT id FROM characters WHERE id = ? LIMIT 1", characterID).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return err == nil, err
}

// CreateTx inserts the combo header row and sets c.ID and c.CreatedAt.
func (r *ComboRepo) CreateTx(ctx context.Context, tx *sql.Tx, c *model.Combo) error {
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	res, err := tx.ExecContext(ctx,
		"INSERT INTO combos (character_id, user_id, name, created_at) VALUES (?,?,?,?)",
		c.CharacterID, c.UserID, c.Name, c.CreatedAt)
	if err != nil {
		if isMySQLError(err, mysqlNoReferencedRow) {
			return ErrCharacterNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// ResolvePositionTx returns the id of the position called name, creating
// it when absent. The unique index on positions.name makes concurrent
// resolutions of the same name converge on one row.
func (r *ComboRepo) ResolvePositionTx(ctx context.Context, tx *sql.Tx, name string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO positions (name) VALUES (?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)",
		name)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

// ResolveInputTx returns the id of the input called name, creating it with
// src when absent. An existing input keeps its stored src.
func (r *ComboRepo) ResolveInputTx(ctx context.Context, tx *sql.Tx, name, src string) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO inputs (name, src) VALUES (?,?) ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)",
		name, src)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	return uint64(id), err
}

func (r *ComboRepo) CreateSlotTx(ctx context.Context, tx *sql.Tx, comboID uint64, ordinal int, positionID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO combo_slots (combo_id, ordinal, position_id) VALUES (?,?,?)",
		comboID, ordinal, positionID)
	return err
}

func (r *ComboRepo) CreateSlotInputTx(ctx context.Context, tx *sql.Tx, comboID uint64, slot, ordinal int, inputID uint64) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO combo_slot_inputs (combo_id, slot_ordinal, input_ordinal, input_id) VALUES (?,?,?,?)",
		comboID, slot, ordinal, inputID)
	return err
}

// LockOwnerTx returns the owner of comboID and holds a row lock on it
// until tx ends.
func (r *ComboRepo) LockOwnerTx(ctx context.Context, tx *sql.Tx, comboID uint64) (uint64, error) {
	var owner uint64
	err := tx.QueryRowContext(ctx, "SELECT user_id FROM combos WHERE id = ? FOR UPDATE", comboID).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrComboNotFound
	}
	return owner, err
}

// DeleteTx removes the combo and every row that depends on it.
func (r *ComboRepo) DeleteTx(ctx context.Context, tx *sql.Tx, comboID uint64) error {
	return deleteComboRows(ctx, tx, comboID)
}

func deleteComboRows(ctx context.Context, tx execer, comboID uint64) error {
	for _, q := range []string{
		"DELETE FROM combo_slot_inputs WHERE combo_id = ?",
		"DELETE FROM combo_slots WHERE combo_id = ?",
		"DELETE FROM favorites WHERE combo_id = ?",
		"DELETE FROM likes WHERE combo_id = ?",
		"DELETE FROM combos WHERE id = ?",
	} {
		if _, err := tx.ExecContext(ctx, q, comboID); err != nil {
			return err
		}
	}
	return nil
}

// GetTx loads the fully materialized combo through tx.
func (r *ComboRepo) GetTx(ctx context.Context, tx *sql.Tx, comboID uint64) (model.Combo, error) {
	return r.get(ctx, tx, comboID)
}

func (r *ComboRepo) GetByID(ctx context.Context, comboID uint64) (model.Combo, error) {
	return r.get(ctx, r.db, comboID)
}

func (r *ComboRepo) get(ctx context.Context, q queryer, comboID uint64) (model.Combo, error) {
	combos, err := r.list(ctx, q, listQuery{where: "c.id = ?", args: []any{comboID}})
	if err != nil {
		return model.Combo{}, err
	}
	if len(combos) == 0 {
		return model.Combo{}, ErrComboNotFound
	}
	return combos[0], nil
}

func (r *ComboRepo) ListAll(ctx context.Context) ([]model.Combo, error) {
	return r.list(ctx, r.db, listQuery{})
}

func (r *ComboRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Combo, error) {
	return r.list(ctx, r.db, listQuery{where: "c.user_id = ?", args: []any{userID}})
}

// ListByCharacter returns the character's combos. When viewer is non-nil
// each combo also carries whether the viewer favorited or liked it.
func (r *ComboRepo) ListByCharacter(ctx context.Context, characterID uint64, viewer *uint64) ([]model.Combo, error) {
	return r.list(ctx, r.db, listQuery{where: "c.character_id = ?", args: []any{characterID}, viewer: viewer})
}

// ListFavoritedBy returns the combos userID has marked as favorite.
func (r *ComboRepo) ListFavoritedBy(ctx context.Context, userID uint64) ([]model.Combo, error) {
	return r.list(ctx, r.db, listQuery{
		where: "c.id IN (SELECT f.combo_id FROM favorites f WHERE f.user_id = ?)",
		args:  []any{userID},
	})
}

type listQuery struct {
	where  string
	args   []any
	viewer *uint64
}

func (r *ComboRepo) list(ctx context.Context, q queryer, lq listQuery) ([]model.Combo, error) {
	var (
		sb   strings.Builder
		args []any
	)
	sb.WriteString(`SELECT c.id, c.character_id, c.user_id, c.name, c.created_at,
		(SELECT COUNT(*) FROM likes l WHERE l.combo_id = c.id)`)
	if lq.viewer != nil {
		sb.WriteString(`,
		EXISTS(SELECT 1 FROM favorites f WHERE f.combo_id = c.id AND f.user_id = ?),
		EXISTS(SELECT 1 FROM likes lv WHERE lv.combo_id = c.id AND lv.user_id = ?)`)
		args = append(args, *lq.viewer, *lq.viewer)
	}
	sb.WriteString(" FROM combos c")
	if lq.where != "" {
		sb.WriteString(" WHERE " + lq.where)
		args = append(args, lq.args...)
	}
	sb.WriteString(" ORDER BY c.id")

	rows, err := q.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Combo{}
	for rows.Next() {
		c := model.Combo{Slots: []model.Slot{}}
		dest := []any{&c.ID, &c.CharacterID, &c.UserID, &c.Name, &c.CreatedAt, &c.LikeCount}
		var fav, liked bool
		if lq.viewer != nil {
			dest = append(dest, &fav, &liked)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		if lq.viewer != nil {
			c.IsFavorite, c.IsLiked = &fav, &liked
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}
	if err := attachSlots(ctx, q, out); err != nil {
		return nil, err
	}
	return out, nil
}

// attachSlots fills Slots for every combo with two batched queries.
func attachSlots(ctx context.Context, q queryer, combos []model.Combo) error {
	index := make(map[uint64]int, len(combos))
	ids := make([]any, len(combos))
	for i, c := range combos {
		index[c.ID] = i
		ids[i] = c.ID
	}
	in := placeholders(len(ids))

	rows, err := q.QueryContext(ctx,
		`SELECT s.combo_id, s.ordinal, p.id, p.name
		 FROM combo_slots s JOIN positions p ON p.id = s.position_id
		 WHERE s.combo_id IN (`+in+`) ORDER BY s.combo_id, s.ordinal`, ids...)
	if err != nil {
		return err
	}
	for rows.Next() {
		var (
			comboID uint64
			s       = model.Slot{Inputs: []model.Input{}}
		)
		if err := rows.Scan(&comboID, &s.Ordinal, &s.PositionID, &s.PositionName); err != nil {
			rows.Close()
			return err
		}
		i := index[comboID]
		combos[i].Slots = append(combos[i].Slots, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = q.QueryContext(ctx,
		`SELECT si.combo_id, si.slot_ordinal, i.id, i.name, i.src
		 FROM combo_slot_inputs si JOIN inputs i ON i.id = si.input_id
		 WHERE si.combo_id IN (`+in+`) ORDER BY si.combo_id, si.slot_ordinal, si.input_ordinal`, ids...)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			comboID uint64
			slot    int
			in      model.Input
		)
		if err := rows.Scan(&comboID, &slot, &in.ID, &in.Name, &in.Src); err != nil {
			return err
		}
		c := &combos[index[comboID]]
		for j := range c.Slots {
			if c.Slots[j].Ordinal == slot {
				c.Slots[j].Inputs = append(c.Slots[j].Inputs, in)
				break
			}
		}
	}
	return rows.Err()
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

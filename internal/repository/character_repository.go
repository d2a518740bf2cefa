package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/combosss/combo-api/internal/model"
)

const characterColumns = `id, name, vitality, height, weight, story, type, effective_range,
	ease_of_use, avatar, thumbnail, number_of_combos, number_of_likes, number_of_lovers`

type CharacterRepo struct{ db *sql.DB }

func NewCharacterRepo(db *sql.DB) *CharacterRepo { return &CharacterRepo{db: db} }

func scanCharacter(row rowScanner) (model.Character, error) {
	var c model.Character
	err := row.Scan(&c.ID, &c.Name, &c.Vitality, &c.Height, &c.Weight, &c.Story, &c.Type,
		&c.EffectiveRange, &c.EaseOfUse, &c.Avatar, &c.Thumbnail,
		&c.NumberOfCombos, &c.NumberOfLikes, &c.NumberOfLovers)
	return c, err
}

func (r *CharacterRepo) List(ctx context.Context) ([]model.Character, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+characterColumns+" FROM characters ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Character{}
	for rows.Next() {
		c, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *CharacterRepo) GetByID(ctx context.Context, id uint64) (model.Character, error) {
	c, err := scanCharacter(r.db.QueryRowContext(ctx,
		"SELECT "+characterColumns+" FROM characters WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Character{}, ErrCharacterNotFound
	}
	return c, err
}

// Create inserts c and sets its ID.
func (r *CharacterRepo) Create(ctx context.Context, c *model.Character) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO characters (name, vitality, height, weight, story, type, effective_range,
			ease_of_use, avatar, thumbnail, number_of_combos, number_of_likes, number_of_lovers)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		c.Name, c.Vitality, c.Height, c.Weight, c.Story, c.Type, c.EffectiveRange,
		c.EaseOfUse, c.Avatar, c.Thumbnail, c.NumberOfCombos, c.NumberOfLikes, c.NumberOfLovers)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// Update overwrites every column of the character identified by c.ID.
func (r *CharacterRepo) Update(ctx context.Context, c model.Character) error {
	if _, err := r.GetByID(ctx, c.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE characters SET name = ?, vitality = ?, height = ?, weight = ?, story = ?, type = ?,
			effective_range = ?, ease_of_use = ?, avatar = ?, thumbnail = ?,
			number_of_combos = ?, number_of_likes = ?, number_of_lovers = ?
		 WHERE id = ?`,
		c.Name, c.Vitality, c.Height, c.Weight, c.Story, c.Type, c.EffectiveRange,
		c.EaseOfUse, c.Avatar, c.Thumbnail, c.NumberOfCombos, c.NumberOfLikes, c.NumberOfLovers, c.ID)
	return err
}

// Delete removes the character. Characters still referenced by combos
// cannot be deleted and yield ErrConflict.
func (r *CharacterRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM characters WHERE id = ?", id)
	if err != nil {
		if isMySQLError(err, mysqlRowIsReferenced) {
			return ErrConflict
		}
		return err
	}
	return affectedOrNotFound(res, ErrCharacterNotFound)
}

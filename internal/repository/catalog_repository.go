package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/combosss/combo-api/internal/model"
)

// PositionRepo administers the position catalog outside of combo
// submission, which resolves positions through ComboRepo.
type PositionRepo struct{ db *sql.DB }

func NewPositionRepo(db *sql.DB) *PositionRepo { return &PositionRepo{db: db} }

func (r *PositionRepo) List(ctx context.Context) ([]model.Position, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name FROM positions ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Position{}
	for rows.Next() {
		var p model.Position
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PositionRepo) GetByID(ctx context.Context, id uint64) (model.Position, error) {
	var p model.Position
	err := r.db.QueryRowContext(ctx, "SELECT id, name FROM positions WHERE id = ? LIMIT 1", id).Scan(&p.ID, &p.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Position{}, ErrPositionNotFound
	}
	return p, err
}

// Create inserts a position; a duplicate name yields ErrConflict.
func (r *PositionRepo) Create(ctx context.Context, name string) (model.Position, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO positions (name) VALUES (?)", name)
	if err != nil {
		if isMySQLError(err, mysqlDuplicateEntry) {
			return model.Position{}, ErrConflict
		}
		return model.Position{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Position{}, err
	}
	return model.Position{ID: uint64(id), Name: name}, nil
}

func (r *PositionRepo) Rename(ctx context.Context, id uint64, name string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "UPDATE positions SET name = ? WHERE id = ?", name, id)
	if isMySQLError(err, mysqlDuplicateEntry) {
		return ErrConflict
	}
	return err
}

func (r *PositionRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM positions WHERE id = ?", id)
	if err != nil {
		if isMySQLError(err, mysqlRowIsReferenced) {
			return ErrConflict
		}
		return err
	}
	return affectedOrNotFound(res, ErrPositionNotFound)
}

// InputRepo administers the input catalog.
type InputRepo struct{ db *sql.DB }

func NewInputRepo(db *sql.DB) *InputRepo { return &InputRepo{db: db} }

func (r *InputRepo) List(ctx context.Context) ([]model.Input, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT id, name, src FROM inputs ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Input{}
	for rows.Next() {
		var in model.Input
		if err := rows.Scan(&in.ID, &in.Name, &in.Src); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	return out, rows.Err()
}

func (r *InputRepo) GetByID(ctx context.Context, id uint64) (model.Input, error) {
	var in model.Input
	err := r.db.QueryRowContext(ctx, "SELECT id, name, src FROM inputs WHERE id = ? LIMIT 1", id).
		Scan(&in.ID, &in.Name, &in.Src)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Input{}, ErrInputNotFound
	}
	return in, err
}

func (r *InputRepo) Create(ctx context.Context, name, src string) (model.Input, error) {
	res, err := r.db.ExecContext(ctx, "INSERT INTO inputs (name, src) VALUES (?,?)", name, src)
	if err != nil {
		if isMySQLError(err, mysqlDuplicateEntry) {
			return model.Input{}, ErrConflict
		}
		return model.Input{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Input{}, err
	}
	return model.Input{ID: uint64(id), Name: name, Src: src}, nil
}

func (r *InputRepo) Update(ctx context.Context, in model.Input) error {
	if _, err := r.GetByID(ctx, in.ID); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx, "UPDATE inputs SET name = ?, src = ? WHERE id = ?", in.Name, in.Src, in.ID)
	if isMySQLError(err, mysqlDuplicateEntry) {
		return ErrConflict
	}
	return err
}

func (r *InputRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM inputs WHERE id = ?", id)
	if err != nil {
		if isMySQLError(err, mysqlRowIsReferenced) {
			return ErrConflict
		}
		return err
	}
	return affectedOrNotFound(res, ErrInputNotFound)
}

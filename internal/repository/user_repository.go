package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/utils"
)

const userColumns = "id, email, pseudo, password_hash, role, avatar_url, created_at"

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

type rowScanner interface{ Scan(dest ...any) error }

func scanUser(row rowScanner) (model.User, error) {
	var (
		u      model.User
		role   string
		avatar sql.NullString
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Pseudo, &u.PasswordHash, &role, &avatar, &u.CreatedAt); err != nil {
		return model.User{}, err
	}
	u.Role = model.ParseRole(role)
	if avatar.Valid {
		u.AvatarURL = &avatar.String
	}
	return u, nil
}

// Create hashes password and inserts the user, returning the stored row.
func (r *UserRepo) Create(ctx context.Context, email, pseudo, password string, role model.Role) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password)
	if err != nil {
		return model.User{}, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, pseudo, password_hash, role) VALUES (?,?,?,?)",
		email, pseudo, hash, string(role))
	if err != nil {
		if isMySQLError(err, mysqlDuplicateEntry) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}
	return r.GetByID(ctx, uint64(id))
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = ? LIMIT 1", email))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	u, err := scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = ? LIMIT 1", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrUserNotFound
	}
	return u, err
}

func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// UpdatePasswordHash replaces the stored hash. Used both for password
// changes and for upgrading legacy hashes after a successful login.
func (r *UserRepo) UpdatePasswordHash(ctx context.Context, id uint64, hash string) error {
	res, err := r.DB.ExecContext(ctx, "UPDATE users SET password_hash = ? WHERE id = ?", hash, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res, ErrUserNotFound)
}

func (r *UserRepo) UpdateAvatar(ctx context.Context, id uint64, url string) error {
	if _, err := r.GetByID(ctx, id); err != nil {
		return err
	}
	_, err := r.DB.ExecContext(ctx, "UPDATE users SET avatar_url = ? WHERE id = ?", url, id)
	return err
}

// EnsureAdmin creates an admin with the given credentials unless the email
// is already registered. It reports whether a row was inserted.
func (r *UserRepo) EnsureAdmin(ctx context.Context, email, pseudo, password string) (bool, error) {
	_, err := r.GetByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return false, err
	}
	if _, err := r.Create(ctx, email, pseudo, password, model.RoleAdmin); err != nil {
		if errors.Is(err, ErrEmailExists) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Delete removes a user together with their combos, reactions and
// sessions in one transaction.
func (r *UserRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()

	var locked uint64
	if err = tx.QueryRowContext(ctx, "SELECT id FROM users WHERE id = ? FOR UPDATE", id).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrUserNotFound
		}
		return err
	}

	comboIDs, err := selectIDs(ctx, tx, "SELECT id FROM combos WHERE user_id = ? FOR UPDATE", id)
	if err != nil {
		return err
	}
	for _, cid := range comboIDs {
		if err = deleteComboRows(ctx, tx, cid); err != nil {
			return err
		}
	}
	for _, q := range []string{
		"DELETE FROM favorites WHERE user_id = ?",
		"DELETE FROM likes WHERE user_id = ?",
		"DELETE FROM sessions WHERE user_id = ?",
		"DELETE FROM users WHERE id = ?",
	} {
		if _, err = tx.ExecContext(ctx, q, id); err != nil {
			return err
		}
	}
	return nil
}

func selectIDs(ctx context.Context, q queryer, query string, args ...any) ([]uint64, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []uint64
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

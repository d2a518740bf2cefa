package repository

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"time"

	"github.com/combosss/combo-api/internal/model"
	"github.com/combosss/combo-api/internal/utils"
)

// SessionRepo owns the session token lifecycle. Only a SHA-256 digest of
// each token is stored; the raw token exists in the client's cookie and in
// the Session returned by Create.
type SessionRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// HashToken returns the hex SHA-256 digest stored for a raw token.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// Create issues a new token for userID, valid for model.SessionTTL.
func (r *SessionRepo) Create(ctx context.Context, userID uint64) (model.Session, error) {
	raw, err := utils.NewSessionToken()
	if err != nil {
		return model.Session{}, err
	}
	now := r.now()
	s := model.Session{
		Token:     raw,
		UserID:    userID,
		ExpiresAt: now.Add(model.SessionTTL),
		CreatedAt: now,
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO sessions (token_hash, user_id, expiration_time, created_at) VALUES (?,?,?,?)",
		HashToken(raw), userID, s.ExpiresAt, s.CreatedAt)
	if err != nil {
		return model.Session{}, err
	}
	return s, nil
}

// Resolve returns the session for token. Unknown tokens, sessions whose
// user no longer exists and sessions at or past their expiration all
// yield ErrSessionNotFound.
func (r *SessionRepo) Resolve(ctx context.Context, token string) (model.Session, error) {
	if token == "" {
		return model.Session{}, ErrSessionNotFound
	}
	var s model.Session
	err := r.db.QueryRowContext(ctx,
		`SELECT s.user_id, s.expiration_time, s.created_at
		 FROM sessions s JOIN users u ON u.id = s.user_id
		 WHERE s.token_hash = ? LIMIT 1`,
		HashToken(token)).Scan(&s.UserID, &s.ExpiresAt, &s.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Session{}, ErrSessionNotFound
	}
	if err != nil {
		return model.Session{}, err
	}
	if s.Expired(r.now()) {
		return model.Session{}, ErrSessionNotFound
	}
	s.Token = token
	return s, nil
}

// RevokeByToken deletes the session; unknown tokens are a no-op.
func (r *SessionRepo) RevokeByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE token_hash = ?", HashToken(token))
	return err
}

// RevokeByUser deletes every session of userID.
func (r *SessionRepo) RevokeByUser(ctx context.Context, userID uint64) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE user_id = ?", userID)
	return err
}

// RevokeOthers deletes every session of userID except the one for keepToken.
func (r *SessionRepo) RevokeOthers(ctx context.Context, userID uint64, keepToken string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM sessions WHERE user_id = ? AND token_hash <> ?",
		userID, HashToken(keepToken))
	return err
}

// List returns all live sessions, newest first. Tokens are never returned.
func (r *SessionRepo) List(ctx context.Context) ([]model.Session, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, expiration_time, created_at FROM sessions
		 WHERE expiration_time > ? ORDER BY created_at DESC`, r.now())
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Session{}
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.UserID, &s.ExpiresAt, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteExpired purges sessions past their expiration and returns how
// many were removed.
func (r *SessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expiration_time <= ?", r.now())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/huddleup/gameplan/pkg/gameplan"
	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials is returned when a username/password pair does not match.
var ErrBadCredentials = errors.New("invalid credentials")

const minPasswordLen = 6

func (d *DB) CreateUser(ctx context.Context, username, password string) (gameplan.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || len(password) < minPasswordLen {
		return gameplan.User{}, fmt.Errorf("username required and password must be at least %d characters: %w", minPasswordLen, gameplan.ErrInvalid)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return gameplan.User{}, err
	}
	u := gameplan.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	var taken int
	if err := d.sql.QueryRowContext(ctx, d.rebind("SELECT COUNT(*) FROM users WHERE username = ?"), strings.ToLower(username)).Scan(&taken); err != nil {
		return gameplan.User{}, err
	}
	if taken > 0 {
		return gameplan.User{}, fmt.Errorf("username %s already exists: %w", username, gameplan.ErrConflict)
	}
	_, err = d.sql.ExecContext(ctx, d.rebind("INSERT INTO users(id, username, password_hash, created_at) VALUES(?,?,?,?)"),
		u.ID, strings.ToLower(u.Username), u.PasswordHash, formatTime(u.CreatedAt))
	if err != nil {
		return gameplan.User{}, err
	}
	return u, nil
}

// Authenticate checks a username and password and returns the user.
func (d *DB) Authenticate(ctx context.Context, username, password string) (gameplan.User, error) {
	var (
		u         gameplan.User
		createdAt string
	)
	err := d.sql.QueryRowContext(ctx, d.rebind("SELECT id, username, password_hash, created_at FROM users WHERE username = ?"), strings.ToLower(strings.TrimSpace(username))).
		Scan(&u.ID, &u.Username, &u.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return gameplan.User{}, ErrBadCredentials
	}
	if err != nil {
		return gameplan.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return gameplan.User{}, ErrBadCredentials
	}
	u.CreatedAt = parseTime(createdAt)
	return u, nil
}

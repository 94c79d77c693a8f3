package repository

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"notes-server/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgUniqueViolation = "23505"

var pgMigrations = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id SERIAL PRIMARY KEY,
		username VARCHAR(100) UNIQUE NOT NULL,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_idx ON users (lower(username))`,
	`CREATE TABLE IF NOT EXISTS notes (
		id SERIAL PRIMARY KEY,
		user_id INT REFERENCES users(id) ON DELETE CASCADE,
		date DATE,
		type VARCHAR(20) NOT NULL DEFAULT 'note',
		content TEXT,
		status VARCHAR(20),
		share_token VARCHAR(100) UNIQUE,
		created_at TIMESTAMP DEFAULT now(),
		updated_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS note_collaborators (
		id SERIAL PRIMARY KEY,
		note_id INT REFERENCES notes(id) ON DELETE CASCADE,
		user_id INT REFERENCES users(id) ON DELETE CASCADE,
		can_edit BOOLEAN DEFAULT TRUE,
		UNIQUE(note_id, user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS workspace_titles (
		user_id INT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
		title TEXT NOT NULL,
		updated_at TIMESTAMP DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS logs (
		id SERIAL PRIMARY KEY,
		datetime TIMESTAMP NOT NULL,
		method TEXT,
		endpoint TEXT,
		request_headers JSONB,
		payload TEXT,
		response_body TEXT,
		status_code INT
	)`,
}

// MigratePostgres creates the tables if they do not exist yet.
func MigratePostgres(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range pgMigrations {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// pgID converts a string ID to its SERIAL form. Non-numeric IDs can never match a row.
func pgID(id string) (int, bool) {
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

type PgUserRepository struct {
	pool *pgxpool.Pool
}

func NewPgUserRepository(pool *pgxpool.Pool) *PgUserRepository {
	return &PgUserRepository{pool: pool}
}

func (r *PgUserRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	var id int
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (username, password_hash) VALUES ($1, $2) RETURNING id, created_at`,
		user.Username, user.PasswordHash,
	).Scan(&id, &user.CreatedAt)
	if isUniqueViolation(err) {
		return models.User{}, ErrDuplicate
	}
	if err != nil {
		return models.User{}, err
	}
	user.ID = strconv.Itoa(id)
	return user, nil
}

func (r *PgUserRepository) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	var (
		user models.User
		id   int
	)
	err := r.pool.QueryRow(ctx,
		`SELECT id, username, password_hash, created_at FROM users WHERE lower(username) = lower($1)`,
		username,
	).Scan(&id, &user.Username, &user.PasswordHash, &user.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, ErrNotFound
	}
	if err != nil {
		return models.User{}, err
	}
	user.ID = strconv.Itoa(id)
	return user, nil
}

type PgTitleRepository struct {
	pool *pgxpool.Pool
}

func NewPgTitleRepository(pool *pgxpool.Pool) *PgTitleRepository {
	return &PgTitleRepository{pool: pool}
}

func (r *PgTitleRepository) FindTitle(ctx context.Context, userID string) (string, error) {
	uid, ok := pgID(userID)
	if !ok {
		return "", ErrNotFound
	}
	var title string
	err := r.pool.QueryRow(ctx, `SELECT title FROM workspace_titles WHERE user_id = $1`, uid).Scan(&title)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return title, err
}

func (r *PgTitleRepository) SaveTitle(ctx context.Context, userID, title string) error {
	uid, ok := pgID(userID)
	if !ok {
		return ErrNotFound
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO workspace_titles (user_id, title, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (user_id) DO UPDATE SET title = EXCLUDED.title, updated_at = now()
	`, uid, title)
	return err
}

type PgRequestLogRepository struct {
	pool *pgxpool.Pool
}

func NewPgRequestLogRepository(pool *pgxpool.Pool) *PgRequestLogRepository {
	return &PgRequestLogRepository{pool: pool}
}

func (r *PgRequestLogRepository) SaveRequestLog(ctx context.Context, entry models.RequestLog) error {
	headers, err := json.Marshal(entry.RequestHeaders)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO logs (datetime, method, endpoint, request_headers, payload, response_body, status_code)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, entry.Datetime, entry.Method, entry.Endpoint, headers,
		strings.ToValidUTF8(string(entry.Payload), ""),
		strings.ToValidUTF8(string(entry.ResponseBody), ""),
		entry.StatusCode)
	return err
}

func formatPgDate(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := d.Format(models.DateLayout)
	return &s
}

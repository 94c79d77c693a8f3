package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"notes-server/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const pgNoteColumns = `n.id, n.user_id, n.date, n.type, COALESCE(n.content, ''), n.status, n.share_token,
	n.created_at, n.updated_at,
	COALESCE((SELECT array_agg(c.user_id::text ORDER BY c.id) FROM note_collaborators c
		WHERE c.note_id = n.id AND c.user_id <> n.user_id), '{}')`

type PgNoteRepository struct {
	pool *pgxpool.Pool
}

func NewPgNoteRepository(pool *pgxpool.Pool) *PgNoteRepository {
	return &PgNoteRepository{pool: pool}
}

func scanPgNote(row pgx.Row) (models.Note, error) {
	var (
		note    models.Note
		id      int
		ownerID int
		date    *time.Time
		typ     string
		status  *string
	)
	err := row.Scan(&id, &ownerID, &date, &typ, &note.Content, &status, &note.ShareToken,
		&note.CreatedAt, &note.UpdatedAt, &note.Collaborators)
	if err != nil {
		return models.Note{}, err
	}
	note.ID = strconv.Itoa(id)
	note.UserID = strconv.Itoa(ownerID)
	note.Date = formatPgDate(date)
	note.Type = models.NoteType(typ)
	if status != nil {
		s := models.NoteStatus(*status)
		note.Status = &s
	}
	return note, nil
}

func parsePgDate(d *string) (*time.Time, error) {
	if d == nil {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, *d)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *PgNoteRepository) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	ownerID, ok := pgID(note.UserID)
	if !ok {
		return models.Note{}, ErrNotFound
	}
	date, err := parsePgDate(note.Date)
	if err != nil {
		return models.Note{}, err
	}
	var status *string
	if note.Status != nil {
		s := string(*note.Status)
		status = &s
	}

	var id int
	err = r.pool.QueryRow(ctx,
		`INSERT INTO notes (user_id, date, type, content, status) VALUES ($1, $2, $3, $4, $5) RETURNING id`,
		ownerID, date, string(note.Type), note.Content, status,
	).Scan(&id)
	if err != nil {
		return models.Note{}, err
	}
	return r.FindNoteByID(ctx, strconv.Itoa(id))
}

func (r *PgNoteRepository) FindNoteByID(ctx context.Context, id string) (models.Note, error) {
	nid, ok := pgID(id)
	if !ok {
		return models.Note{}, ErrNotFound
	}
	note, err := scanPgNote(r.pool.QueryRow(ctx, `SELECT `+pgNoteColumns+` FROM notes n WHERE n.id = $1`, nid))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Note{}, ErrNotFound
	}
	return note, err
}

func (r *PgNoteRepository) FindNotesForUser(ctx context.Context, userID string) ([]models.Note, error) {
	uid, ok := pgID(userID)
	if !ok {
		return []models.Note{}, nil
	}
	rows, err := r.pool.Query(ctx, `
		SELECT `+pgNoteColumns+`
		FROM notes n
		WHERE n.user_id = $1
		   OR EXISTS (SELECT 1 FROM note_collaborators c WHERE c.note_id = n.id AND c.user_id = $1)
		ORDER BY n.created_at DESC, n.id DESC
	`, uid)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.Note{}
	for rows.Next() {
		note, err := scanPgNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, note)
	}
	return notes, rows.Err()
}

func (r *PgNoteRepository) FindNoteByShareToken(ctx context.Context, token string) (models.Note, error) {
	note, err := scanPgNote(r.pool.QueryRow(ctx, `SELECT `+pgNoteColumns+` FROM notes n WHERE n.share_token = $1`, token))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Note{}, ErrNotFound
	}
	return note, err
}

func (r *PgNoteRepository) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (models.Note, error) {
	nid, ok := pgID(id)
	if !ok {
		return models.Note{}, ErrNotFound
	}

	setParts := []string{}
	args := []interface{}{}
	add := func(column string, value interface{}) {
		args = append(args, value)
		setParts = append(setParts, column+" = $"+strconv.Itoa(len(args)))
	}

	if patch.Content != nil {
		add("content", *patch.Content)
	}
	if patch.Type != nil {
		add("type", string(*patch.Type))
	}
	if patch.Date != nil {
		date, err := parsePgDate(patch.Date)
		if err != nil {
			return models.Note{}, err
		}
		add("date", date)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.ClearStatus {
		setParts = append(setParts, "status = NULL")
	}
	add("updated_at", time.Now())

	args = append(args, nid)
	query := "UPDATE notes SET " + strings.Join(setParts, ", ") + " WHERE id = $" + strconv.Itoa(len(args))

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return models.Note{}, err
	}
	if tag.RowsAffected() == 0 {
		return models.Note{}, ErrNotFound
	}
	return r.FindNoteByID(ctx, id)
}

func (r *PgNoteRepository) DeleteNoteByID(ctx context.Context, id string) error {
	nid, ok := pgID(id)
	if !ok {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM notes WHERE id = $1`, nid)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgNoteRepository) SetShareToken(ctx context.Context, id, token string) error {
	nid, ok := pgID(id)
	if !ok {
		return ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `UPDATE notes SET share_token = $1, updated_at = now() WHERE id = $2`, token, nid)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PgNoteRepository) AddCollaborator(ctx context.Context, id, userID string) error {
	nid, ok := pgID(id)
	if !ok {
		return ErrNotFound
	}
	uid, ok := pgID(userID)
	if !ok {
		return ErrNotFound
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO note_collaborators (note_id, user_id, can_edit)
		SELECT n.id, $2::int, TRUE FROM notes n WHERE n.id = $1 AND n.user_id <> $2::int
		ON CONFLICT DO NOTHING
	`, nid, uid)
	if err != nil {
		return err
	}
	_, err = r.FindNoteByID(ctx, id)
	return err
}

package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"notes-server/models"
	"notes-server/utils"
)

// MemoryStore keeps every collection in process memory. It backs STORE_DRIVER=memory
// and the handler tests.
type MemoryStore struct {
	mu       sync.RWMutex
	noteIDs  *utils.IDGenerator
	userIDs  *utils.IDGenerator
	notes    map[string]models.Note
	users    map[string]models.User
	titles   map[string]string
	revoked  map[string]time.Time
	requests []models.RequestLog
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		noteIDs: utils.NewIDGenerator(),
		userIDs: utils.NewIDGenerator(),
		notes:   make(map[string]models.Note),
		users:   make(map[string]models.User),
		titles:  make(map[string]string),
		revoked: make(map[string]time.Time),
		now:     time.Now,
	}
}

func cloneNote(n models.Note) models.Note {
	n.Collaborators = append([]string(nil), n.Collaborators...)
	return n
}

func (m *MemoryStore) CreateNote(ctx context.Context, note models.Note) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	note.ID = m.noteIDs.Next()
	note.CreatedAt = m.now()
	note.UpdatedAt = note.CreatedAt
	m.notes[note.ID] = cloneNote(note)
	return note, nil
}

func (m *MemoryStore) FindNoteByID(ctx context.Context, id string) (models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	note, ok := m.notes[id]
	if !ok {
		return models.Note{}, ErrNotFound
	}
	return cloneNote(note), nil
}

func (m *MemoryStore) FindNotesForUser(ctx context.Context, userID string) ([]models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	notes := []models.Note{}
	for _, note := range m.notes {
		if note.HasAccess(userID) {
			notes = append(notes, cloneNote(note))
		}
	}
	sort.Slice(notes, func(i, j int) bool {
		if notes[i].CreatedAt.Equal(notes[j].CreatedAt) {
			return len(notes[i].ID) > len(notes[j].ID) ||
				(len(notes[i].ID) == len(notes[j].ID) && notes[i].ID > notes[j].ID)
		}
		return notes[i].CreatedAt.After(notes[j].CreatedAt)
	})
	return notes, nil
}

func (m *MemoryStore) FindNoteByShareToken(ctx context.Context, token string) (models.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, note := range m.notes {
		if note.ShareToken != nil && *note.ShareToken == token {
			return cloneNote(note), nil
		}
	}
	return models.Note{}, ErrNotFound
}

func (m *MemoryStore) UpdateNote(ctx context.Context, id string, patch models.NotePatch) (models.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	note, ok := m.notes[id]
	if !ok {
		return models.Note{}, ErrNotFound
	}
	if patch.Content != nil {
		note.Content = *patch.Content
	}
	if patch.Type != nil {
		note.Type = *patch.Type
	}
	if patch.Date != nil {
		d := *patch.Date
		note.Date = &d
	}
	if patch.Status != nil {
		s := *patch.Status
		note.Status = &s
	}
	if patch.ClearStatus {
		note.Status = nil
	}
	note.UpdatedAt = m.now()
	m.notes[id] = note
	return cloneNote(note), nil
}

func (m *MemoryStore) DeleteNoteByID(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.notes[id]; !ok {
		return ErrNotFound
	}
	delete(m.notes, id)
	return nil
}

func (m *MemoryStore) SetShareToken(ctx context.Context, id, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	note, ok := m.notes[id]
	if !ok {
		return ErrNotFound
	}
	for otherID, other := range m.notes {
		if otherID != id && other.ShareToken != nil && *other.ShareToken == token {
			return ErrDuplicate
		}
	}
	note.ShareToken = &token
	m.notes[id] = note
	return nil
}

func (m *MemoryStore) AddCollaborator(ctx context.Context, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	note, ok := m.notes[id]
	if !ok {
		return ErrNotFound
	}
	if note.HasAccess(userID) {
		return nil
	}
	note.Collaborators = append(append([]string(nil), note.Collaborators...), userID)
	m.notes[id] = note
	return nil
}

func (m *MemoryStore) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(user.Username)
	if _, exists := m.users[key]; exists {
		return models.User{}, ErrDuplicate
	}
	user.ID = m.userIDs.Next()
	user.CreatedAt = m.now()
	m.users[key] = user
	return user, nil
}

func (m *MemoryStore) FindUserByUsername(ctx context.Context, username string) (models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	user, ok := m.users[strings.ToLower(username)]
	if !ok {
		return models.User{}, ErrNotFound
	}
	return user, nil
}

func (m *MemoryStore) FindTitle(ctx context.Context, userID string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	title, ok := m.titles[userID]
	if !ok {
		return "", ErrNotFound
	}
	return title, nil
}

func (m *MemoryStore) SaveTitle(ctx context.Context, userID, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.titles[userID] = title
	return nil
}

func (m *MemoryStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.revoked[tokenID] = m.now().Add(ttl)
	return nil
}

func (m *MemoryStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	until, ok := m.revoked[tokenID]
	if !ok {
		return false, nil
	}
	if !m.now().Before(until) {
		delete(m.revoked, tokenID)
		return false, nil
	}
	return true, nil
}

func (m *MemoryStore) SaveRequestLog(ctx context.Context, entry models.RequestLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, entry)
	return nil
}

// RequestLogs returns a copy of every stored request log entry.
func (m *MemoryStore) RequestLogs() []models.RequestLog {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return append([]models.RequestLog(nil), m.requests...)
}

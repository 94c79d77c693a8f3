package models

import "time"

type NoteType string

const (
	NoteTypeNote NoteType = "note"
	NoteTypeTodo NoteType = "todo"
)

type NoteStatus string

const (
	StatusOnProgress NoteStatus = "on_progress"
	StatusCompleted  NoteStatus = "completed"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

type Note struct {
	ID            string      `json:"id"`
	UserID        string      `json:"user_id"`
	Date          *string     `json:"date"`
	Type          NoteType    `json:"type"`
	Content       string      `json:"content"`
	Status        *NoteStatus `json:"status"`
	ShareToken    *string     `json:"share_token,omitempty"`
	Collaborators []string    `json:"-"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	CanEdit       bool        `json:"can_edit"`
	IsOwner       bool        `json:"is_owner"`
}

// HasAccess reports whether userID owns the note or has joined it.
func (n Note) HasAccess(userID string) bool {
	if n.UserID == userID {
		return true
	}
	for _, id := range n.Collaborators {
		if id == userID {
			return true
		}
	}
	return false
}

// Audience returns the owner followed by every collaborator.
func (n Note) Audience() []string {
	ids := make([]string, 0, len(n.Collaborators)+1)
	ids = append(ids, n.UserID)
	for _, id := range n.Collaborators {
		if id != n.UserID {
			ids = append(ids, id)
		}
	}
	return ids
}

// ViewFor fills the per-caller fields. The share token is only shown to the owner.
func (n Note) ViewFor(userID string) Note {
	n.IsOwner = n.UserID == userID
	n.CanEdit = n.HasAccess(userID)
	if !n.IsOwner {
		n.ShareToken = nil
	}
	return n
}

type CreateNoteRequest struct {
	Date    string `json:"date"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

type UpdateNoteRequest struct {
	Date    string `json:"date"`
	Type    string `json:"type"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

// NotePatch is a validated partial update. Nil fields are left unchanged.
type NotePatch struct {
	Content     *string
	Type        *NoteType
	Date        *string
	Status      *NoteStatus
	ClearStatus bool
}

type JoinRequest struct {
	Token string `json:"token"`
}

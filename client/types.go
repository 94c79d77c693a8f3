package client

import "time"

type NoteType string

const (
	TypeNote NoteType = "note"
	TypeTodo NoteType = "todo"
)

type Status string

const (
	StatusOnProgress Status = "on_progress"
	StatusCompleted  Status = "completed"
)

// Note is a note as the server reports it to the current user.
type Note struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	Date       *string   `json:"date"`
	Type       NoteType  `json:"type"`
	Content    string    `json:"content"`
	Status     *Status   `json:"status"`
	ShareToken *string   `json:"share_token,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
	CanEdit    bool      `json:"can_edit"`
	IsOwner    bool      `json:"is_owner"`
}

// NewNote is the payload for creating a note. Date is YYYY-MM-DD or empty.
type NewNote struct {
	Type    NoteType `json:"type"`
	Content string   `json:"content"`
	Date    string   `json:"date,omitempty"`
	Status  *Status  `json:"status"`
}

// withDefaults applies the status rule: todo notes start on_progress, plain notes
// never carry a status.
func (n NewNote) withDefaults() NewNote {
	if n.Type != TypeTodo {
		n.Type = TypeNote
		n.Status = nil
		return n
	}
	if n.Status == nil {
		s := StatusOnProgress
		n.Status = &s
	}
	return n
}

// NoteUpdate is a partial update; nil fields are left unchanged on the server.
type NoteUpdate struct {
	Content *string `json:"content,omitempty"`
	Status  *Status `json:"status,omitempty"`
}

func StatusPtr(s Status) *Status {
	return &s
}

func StringPtr(s string) *string {
	return &s
}

func cloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	copy(out, notes)
	return out
}

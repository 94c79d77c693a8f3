package client

import (
	"context"
	"sync"
)

// Workspace is the caller's view of the notes service: a cached note list and title.
// Every mutation is sent to the server and then followed by a full refresh of the
// list, whether or not the mutation succeeded. The cache is never patched locally.
//
// Concurrent mutations are not coordinated. Whichever refresh completes last decides
// what Notes returns.
type Workspace struct {
	client *Client

	mu     sync.RWMutex
	notes  []Note
	title  string
	loaded bool
}

func NewWorkspace(c *Client) *Workspace {
	return &Workspace{client: c, notes: []Note{}}
}

func (w *Workspace) Client() *Client {
	return w.client
}

// Notes returns a copy of the last list fetched from the server.
func (w *Workspace) Notes() []Note {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return cloneNotes(w.notes)
}

func (w *Workspace) Title() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.title
}

// Loaded reports whether at least one refresh has succeeded.
func (w *Workspace) Loaded() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.loaded
}

// Note looks up a cached note by ID.
func (w *Workspace) Note(id string) (Note, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	for _, n := range w.notes {
		if n.ID == id {
			return n, true
		}
	}
	return Note{}, false
}

// Refresh replaces the cached list with the server's. On error the cache is kept.
func (w *Workspace) Refresh(ctx context.Context) error {
	notes, err := w.client.ListNotes(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.notes = notes
	w.loaded = true
	w.mu.Unlock()
	return nil
}

func (w *Workspace) RefreshTitle(ctx context.Context) error {
	title, err := w.client.GetTitle(ctx)
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.title = title
	w.mu.Unlock()
	return nil
}

// Load fetches both the note list and the title.
func (w *Workspace) Load(ctx context.Context) error {
	if err := w.Refresh(ctx); err != nil {
		return err
	}
	return w.RefreshTitle(ctx)
}

// mutate runs call and then refreshes. The call's error wins over the refresh's.
func (w *Workspace) mutate(ctx context.Context, call func(context.Context) error) error {
	callErr := call(ctx)
	refreshErr := w.Refresh(ctx)
	if callErr != nil {
		if refreshErr != nil {
			w.client.logger.Debug().Err(refreshErr).Msg("refresh after failed mutation")
		}
		return callErr
	}
	return refreshErr
}

func (w *Workspace) Login(ctx context.Context, username, password string) error {
	if _, err := w.client.Login(ctx, username, password); err != nil {
		return err
	}
	return w.Load(ctx)
}

// Logout forgets the token and clears the cache.
func (w *Workspace) Logout(ctx context.Context) error {
	err := w.client.Logout(ctx)

	w.mu.Lock()
	w.notes = []Note{}
	w.title = ""
	w.loaded = false
	w.mu.Unlock()
	return err
}

func (w *Workspace) CreateNote(ctx context.Context, note NewNote) error {
	return w.mutate(ctx, func(ctx context.Context) error {
		_, err := w.client.CreateNote(ctx, note)
		return err
	})
}

func (w *Workspace) UpdateNote(ctx context.Context, id string, update NoteUpdate) error {
	return w.mutate(ctx, func(ctx context.Context) error {
		_, err := w.client.UpdateNote(ctx, id, update)
		return err
	})
}

func (w *Workspace) SetStatus(ctx context.Context, id string, status Status) error {
	return w.UpdateNote(ctx, id, NoteUpdate{Status: &status})
}

func (w *Workspace) DeleteNote(ctx context.Context, id string) error {
	return w.mutate(ctx, func(ctx context.Context) error {
		return w.client.DeleteNote(ctx, id)
	})
}

// ShareNote issues a fresh share token for the note and returns it.
func (w *Workspace) ShareNote(ctx context.Context, id string) (string, error) {
	var token string
	err := w.mutate(ctx, func(ctx context.Context) error {
		var err error
		token, err = w.client.GenerateShareToken(ctx, id)
		return err
	})
	if token == "" {
		return "", err
	}
	return token, err
}

func (w *Workspace) JoinByToken(ctx context.Context, shareToken string) error {
	return w.mutate(ctx, func(ctx context.Context) error {
		return w.client.JoinByToken(ctx, shareToken)
	})
}

// SetTitle stores a new title and reloads title and list.
func (w *Workspace) SetTitle(ctx context.Context, title string) error {
	err := w.mutate(ctx, func(ctx context.Context) error {
		return w.client.SetTitle(ctx, title)
	})
	if titleErr := w.RefreshTitle(ctx); err == nil {
		err = titleErr
	}
	return err
}

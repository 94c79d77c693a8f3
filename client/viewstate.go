package client

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrInvalidTransition = errors.New("invalid view transition")

// AddState is the state of the "add" dialog. It is exactly one of AddIdle,
// AddChoosing, AddComposingNew, AddComposingJoin or AddSubmitted.
type AddState interface {
	addState()
}

type AddIdle struct{}

// AddChoosing asks whether to write a new note or join a shared one.
type AddChoosing struct{}

type AddComposingNew struct {
	Draft NewNote
	// Err is the failure of the last submit, if any.
	Err error
}

type AddComposingJoin struct {
	Token string
	Err   error
}

// AddSubmitted means the request is in flight. Previous is the composing state
// that was submitted; the flow returns to it if the request fails.
type AddSubmitted struct {
	Previous AddState
}

func (AddIdle) addState()          {}
func (AddChoosing) addState()      {}
func (AddComposingNew) addState()  {}
func (AddComposingJoin) addState() {}
func (AddSubmitted) addState()     {}

func transitionError(from interface{}, action string) error {
	return fmt.Errorf("%w: %s from %T", ErrInvalidTransition, action, from)
}

// AddFlow drives the add dialog: idle -> choosing -> composing(new|join) ->
// submitted -> idle. Cancel returns to idle from any state.
type AddFlow struct {
	ws *Workspace

	mu    sync.Mutex
	state AddState
	epoch uint64
}

func NewAddFlow(ws *Workspace) *AddFlow {
	return &AddFlow{ws: ws, state: AddIdle{}}
}

func (f *AddFlow) State() AddState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *AddFlow) Open() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.state.(AddIdle); !ok {
		return transitionError(f.state, "open")
	}
	f.state = AddChoosing{}
	return nil
}

func (f *AddFlow) ChooseNew() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.state.(AddChoosing); !ok {
		return transitionError(f.state, "choose new")
	}
	f.state = AddComposingNew{Draft: NewNote{Type: TypeNote}}
	return nil
}

func (f *AddFlow) ChooseJoin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.state.(AddChoosing); !ok {
		return transitionError(f.state, "choose join")
	}
	f.state = AddComposingJoin{}
	return nil
}

// SetDraft replaces the note being composed.
func (f *AddFlow) SetDraft(draft NewNote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.state.(AddComposingNew)
	if !ok {
		return transitionError(f.state, "edit draft")
	}
	s.Draft = draft
	f.state = s
	return nil
}

func (f *AddFlow) SetJoinToken(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.state.(AddComposingJoin)
	if !ok {
		return transitionError(f.state, "edit token")
	}
	s.Token = token
	f.state = s
	return nil
}

// Submit sends the composed note or join request. On success the flow is idle; on
// failure it goes back to the composing state with Err set. If Cancel was called
// while the request was in flight the request still completes but the flow stays idle.
func (f *AddFlow) Submit(ctx context.Context) error {
	f.mu.Lock()
	var run func(context.Context) error
	switch s := f.state.(type) {
	case AddComposingNew:
		run = func(ctx context.Context) error { return f.ws.CreateNote(ctx, s.Draft) }
	case AddComposingJoin:
		run = func(ctx context.Context) error { return f.ws.JoinByToken(ctx, s.Token) }
	default:
		f.mu.Unlock()
		return transitionError(f.state, "submit")
	}
	previous := f.state
	f.state = AddSubmitted{Previous: previous}
	epoch := f.epoch
	f.mu.Unlock()

	err := run(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch != epoch {
		return err
	}
	if err == nil {
		f.state = AddIdle{}
		return nil
	}
	switch s := previous.(type) {
	case AddComposingNew:
		s.Err = err
		f.state = s
	case AddComposingJoin:
		s.Err = err
		f.state = s
	}
	return err
}

func (f *AddFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.state.(AddIdle); ok {
		return
	}
	f.state = AddIdle{}
	f.epoch++
}

// ConfirmState is the state of an edit or delete confirmation. It is exactly one of
// ConfirmIdle, Confirming, ConfirmSubmitting, ConfirmApplied or ConfirmCancelled.
// Applied and cancelled are terminal outcomes reported by Last; the flow itself
// returns to idle.
type ConfirmState interface {
	confirmState()
}

type ConfirmIdle struct{}

type Confirming struct {
	Note   Note
	Update NoteUpdate
	Err    error
}

// ConfirmSubmitting means the edit or delete is in flight.
type ConfirmSubmitting struct {
	Previous Confirming
}

type ConfirmApplied struct {
	NoteID string
}

type ConfirmCancelled struct {
	NoteID string
}

func (ConfirmIdle) confirmState()       {}
func (Confirming) confirmState()        {}
func (ConfirmSubmitting) confirmState() {}
func (ConfirmApplied) confirmState()    {}
func (ConfirmCancelled) confirmState()  {}

type ConfirmAction int

const (
	ConfirmEdit ConfirmAction = iota
	ConfirmDelete
)

func (a ConfirmAction) String() string {
	if a == ConfirmDelete {
		return "delete"
	}
	return "edit"
}

// ConfirmFlow drives idle -> confirming -> submitting -> (applied | cancelled) ->
// idle for a single note.
type ConfirmFlow struct {
	ws     *Workspace
	action ConfirmAction

	mu    sync.Mutex
	state ConfirmState
	last  ConfirmState
	epoch uint64
}

func NewEditFlow(ws *Workspace) *ConfirmFlow {
	return &ConfirmFlow{ws: ws, action: ConfirmEdit, state: ConfirmIdle{}}
}

func NewDeleteFlow(ws *Workspace) *ConfirmFlow {
	return &ConfirmFlow{ws: ws, action: ConfirmDelete, state: ConfirmIdle{}}
}

func (f *ConfirmFlow) Action() ConfirmAction {
	return f.action
}

func (f *ConfirmFlow) State() ConfirmState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Last returns the outcome of the most recent confirmation, or nil.
func (f *ConfirmFlow) Last() ConfirmState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.last
}

// Begin opens the confirmation for note. Edits start from the note's content.
func (f *ConfirmFlow) Begin(note Note) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.state.(ConfirmIdle); !ok {
		return transitionError(f.state, "begin "+f.action.String())
	}
	c := Confirming{Note: note}
	if f.action == ConfirmEdit {
		c.Update.Content = StringPtr(note.Content)
	}
	f.state = c
	return nil
}

// SetUpdate replaces the pending edit.
func (f *ConfirmFlow) SetUpdate(update NoteUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.state.(Confirming)
	if !ok || f.action != ConfirmEdit {
		return transitionError(f.state, "set update")
	}
	c.Update = update
	f.state = c
	return nil
}

// Confirm applies the edit or delete. A failure keeps the confirmation open with
// Err set so the user can retry or cancel. Only one Confirm runs at a time; if
// Cancel is called while it is in flight the result is ignored.
func (f *ConfirmFlow) Confirm(ctx context.Context) error {
	f.mu.Lock()
	c, ok := f.state.(Confirming)
	if !ok {
		defer f.mu.Unlock()
		return transitionError(f.state, "confirm")
	}
	f.state = ConfirmSubmitting{Previous: c}
	epoch := f.epoch
	f.mu.Unlock()

	var err error
	if f.action == ConfirmDelete {
		err = f.ws.DeleteNote(ctx, c.Note.ID)
	} else {
		err = f.ws.UpdateNote(ctx, c.Note.ID, c.Update)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.epoch != epoch {
		return err
	}
	if err != nil {
		c.Err = err
		f.state = c
		return err
	}
	f.last = ConfirmApplied{NoteID: c.Note.ID}
	f.state = ConfirmIdle{}
	return nil
}

func (f *ConfirmFlow) Cancel() {
	f.mu.Lock()
	defer f.mu.Unlock()
	var noteID string
	switch s := f.state.(type) {
	case Confirming:
		noteID = s.Note.ID
	case ConfirmSubmitting:
		noteID = s.Previous.Note.ID
	default:
		return
	}
	f.last = ConfirmCancelled{NoteID: noteID}
	f.state = ConfirmIdle{}
	f.epoch++
}

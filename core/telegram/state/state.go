// Package state keeps per-chat dialog state in memory and serializes work
// per chat with keyed locks.
package state

import "sync"

// State names a dialog step. The zero value and StateIdle both mean no
// dialog is running.
type State string

const StateIdle State = "idle"

// Manager stores the dialog state of each chat.
type Manager interface {
	SetState(chatID int64, st State)
	GetState(chatID int64) State
	HasState(chatID int64) bool
	ClearState(chatID int64)
	InProgress(chatID int64) bool
}

// memory only stores non-idle states, so its size is the number of chats
// with an open dialog. Contents are lost on restart.
type memory struct {
	states sync.Map // int64 -> State
}

func NewMemoryManager() Manager {
	return &memory{}
}

func (m *memory) SetState(chatID int64, st State) {
	if st == "" || st == StateIdle {
		m.states.Delete(chatID)
		return
	}
	m.states.Store(chatID, st)
}

func (m *memory) GetState(chatID int64) State {
	if v, ok := m.states.Load(chatID); ok {
		return v.(State)
	}
	return StateIdle
}

func (m *memory) HasState(chatID int64) bool {
	_, ok := m.states.Load(chatID)
	return ok
}

func (m *memory) ClearState(chatID int64) { m.states.Delete(chatID) }

func (m *memory) InProgress(chatID int64) bool { return m.HasState(chatID) }

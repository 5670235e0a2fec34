// Package session keeps the per-conversation question/answer history.
package session

import "sync"

// Role marks who produced a turn.
type Role string

const (
	Question Role = "Q"
	Answer   Role = "A"
)

// Turn is one entry in a conversation history.
type Turn struct {
	Role Role
	Text string
}

// Table maps a conversation id to its turns. Turns always alternate
// Question, Answer, starting with a Question, because they are only ever
// appended in pairs. Nothing survives a restart.
type Table struct {
	mu    sync.RWMutex
	turns map[int64][]Turn
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{turns: make(map[int64][]Turn)}
}

// AppendExchange records a completed question and its answer.
func (t *Table) AppendExchange(id int64, question, answer string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns[id] = append(t.turns[id],
		Turn{Role: Question, Text: question},
		Turn{Role: Answer, Text: answer},
	)
}

// Turns returns a copy of the history of id.
func (t *Table) Turns(id int64) []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()
	src := t.turns[id]
	if len(src) == 0 {
		return nil
	}
	out := make([]Turn, len(src))
	copy(out, src)
	return out
}

// Len returns the number of turns stored for id.
func (t *Table) Len(id int64) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns[id])
}

// Clear drops the history of id.
func (t *Table) Clear(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.turns, id)
}

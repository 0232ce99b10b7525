// Package stack implements the LIFO stack and priority-pass state machine
// from spec §4 component 6, grounded on the teacher's rules.StackManager
// and rules.ResolutionContext but operating on the typed object.StackItem
// instead of string ids and a Resolve closure.
package stack

import (
	"sync"

	"github.com/cardforge/rulesforge/internal/kernel/ids"
	"github.com/cardforge/rulesforge/internal/kernel/object"
	"github.com/cardforge/rulesforge/internal/kernel/targeting"
)

// Manager is the LIFO stack of pending spells and abilities.
type Manager struct {
	mu    sync.Mutex
	items []*object.StackItem
}

// NewManager returns an empty stack.
func NewManager() *Manager {
	return &Manager{items: make([]*object.StackItem, 0, 16)}
}

// Push adds an item to the top of the stack.
func (m *Manager) Push(item *object.StackItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, item)
}

// Pop removes and returns the top item, ok is false if the stack is empty.
func (m *Manager) Pop() (*object.StackItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return nil, false
	}
	idx := len(m.items) - 1
	item := m.items[idx]
	m.items = m.items[:idx]
	return item, true
}

// Peek returns the top item without removing it.
func (m *Manager) Peek() (*object.StackItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.items) == 0 {
		return nil, false
	}
	return m.items[len(m.items)-1], true
}

// Remove deletes an item from anywhere in the stack by id (e.g. a
// countered spell), ok is false if no such item was found.
func (m *Manager) Remove(id ids.ObjectId) (*object.StackItem, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for idx := len(m.items) - 1; idx >= 0; idx-- {
		if m.items[idx].ID == id {
			item := m.items[idx]
			m.items = append(m.items[:idx], m.items[idx+1:]...)
			return item, true
		}
	}
	return nil, false
}

// List returns a copy of every item on the stack, topmost last.
func (m *Manager) List() []*object.StackItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*object.StackItem, len(m.items))
	copy(out, m.items)
	return out
}

// IsEmpty reports whether the stack holds no items. Spec invariant (ii):
// the stack is always empty whenever the turn/phase engine advances
// between steps.
func (m *Manager) IsEmpty() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items) == 0
}

// RemoveIllegalItems re-validates every stack item against checker and
// removes those that fail, returning their ids (spec §4.3 step 1, run
// whenever state changes that could invalidate a pending item's targets
// or controller).
func (m *Manager) RemoveIllegalItems(checker *targeting.Checker) []ids.ObjectId {
	if checker == nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var removed []ids.ObjectId
	kept := make([]*object.StackItem, 0, len(m.items))
	for _, item := range m.items {
		if result := checker.CheckStackItemLegality(item); !result.Legal {
			removed = append(removed, item.ID)
			continue
		}
		kept = append(kept, item)
	}
	m.items = kept
	return removed
}

// ResolutionContext tracks nested resolution depth (e.g. a resolving
// spell that creates a copy which is itself cast during resolution),
// grounded on the teacher's rules.ResolutionContext.
type ResolutionContext struct {
	mu       sync.Mutex
	stack    []ids.ObjectId
	maxDepth int
}

// NewResolutionContext returns a resolution context bounded to maxDepth
// nested resolutions (the teacher's constant was 10; there is no rules
// basis for a different number so it is kept).
func NewResolutionContext() *ResolutionContext {
	return &ResolutionContext{maxDepth: 10}
}

// Begin records that itemID has started resolving. It returns false if the
// maximum nesting depth would be exceeded.
func (rc *ResolutionContext) Begin(itemID ids.ObjectId) bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.stack) >= rc.maxDepth {
		return false
	}
	rc.stack = append(rc.stack, itemID)
	return true
}

// End records that itemID finished resolving.
func (rc *ResolutionContext) End(itemID ids.ObjectId) {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	if len(rc.stack) == 0 {
		return
	}
	if rc.stack[len(rc.stack)-1] == itemID {
		rc.stack = rc.stack[:len(rc.stack)-1]
	}
}

// IsResolving reports whether any item is currently resolving.
func (rc *ResolutionContext) IsResolving() bool {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.stack) > 0
}

// Depth returns the current nesting depth.
func (rc *ResolutionContext) Depth() int {
	rc.mu.Lock()
	defer rc.mu.Unlock()
	return len(rc.stack)
}

package model

import (
	"time"
)

// SessionModel tracks edits made since the mask was last loaded or saved.
// It is decoupled from the UI; presenters should poll Values() and update views.
// The zero value is ready to use.
type SessionModel struct {
	added     int
	removed   int
	lastSaved time.Time
	saves     int
}

// NewSessionModel returns a pointer to a ready-to-use SessionModel.
func NewSessionModel() *SessionModel { return &SessionModel{} }

// OnCreated counts an added dot.
func (m *SessionModel) OnCreated() {
	if m == nil {
		return
	}
	m.added++
}

// OnDeleted counts a removed dot.
func (m *SessionModel) OnDeleted() {
	if m == nil {
		return
	}
	m.removed++
}

// OnReset clears the counters without recording a save, e.g. after a reload.
func (m *SessionModel) OnReset() {
	if m == nil {
		return
	}
	m.added, m.removed = 0, 0
}

// OnSaved resets the edit counters and records the save time.
func (m *SessionModel) OnSaved(now time.Time) {
	if m == nil {
		return
	}
	m.added, m.removed = 0, 0
	m.lastSaved = now
	m.saves++
}

// Values returns the edits since the last save and the time of that save.
// lastSaved is zero when nothing has been saved this session.
func (m *SessionModel) Values() (added, removed int, lastSaved time.Time) {
	if m == nil {
		return 0, 0, time.Time{}
	}
	return m.added, m.removed, m.lastSaved
}

// Saves returns how many times the mask was saved this session.
func (m *SessionModel) Saves() int {
	if m == nil {
		return 0
	}
	return m.saves
}

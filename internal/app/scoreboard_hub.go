package app

import (
	"sync"

	"quizhost-service/internal/domain"
)

// ScoreboardHub fans scoreboard snapshots out to in-process subscribers, one
// group per session code. Slow consumers never block a publish: when a
// subscriber's buffer is full the stale snapshot is dropped in favor of the
// fresh one.
type ScoreboardHub struct {
	mu   sync.Mutex
	subs map[string]map[chan domain.Scoreboard]struct{}
}

func NewScoreboardHub() *ScoreboardHub {
	return &ScoreboardHub{subs: make(map[string]map[chan domain.Scoreboard]struct{})}
}

// Subscribe registers a listener for one session's scoreboard updates. The
// caller must invoke the returned cancel function to avoid leaks.
func (h *ScoreboardHub) Subscribe(sessionCode string) (<-chan domain.Scoreboard, func()) {
	ch := make(chan domain.Scoreboard, 8)

	h.mu.Lock()
	group, ok := h.subs[sessionCode]
	if !ok {
		group = make(map[chan domain.Scoreboard]struct{})
		h.subs[sessionCode] = group
	}
	group[ch] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		group, ok := h.subs[sessionCode]
		if !ok {
			return
		}
		if _, ok := group[ch]; ok {
			delete(group, ch)
			close(ch)
		}
		if len(group) == 0 {
			delete(h.subs, sessionCode)
		}
	}
	return ch, cancel
}

// Publish delivers a snapshot to every subscriber of the session.
func (h *ScoreboardHub) Publish(sessionCode string, board domain.Scoreboard) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs[sessionCode] {
		select {
		case ch <- board:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- board
		}
	}
}

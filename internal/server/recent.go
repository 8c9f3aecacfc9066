package server

import (
	"sync"
	"time"

	"github.com/eapache/queue"
)

// ReceivedEntry is one observed command for the admin plane.
type ReceivedEntry struct {
	Endpoint string    `json:"endpoint"`
	Command  string    `json:"command"`
	At       time.Time `json:"at"`
}

// RecentLog keeps a bounded FIFO of the most recently received
// commands. It is fed through OnReceived and read by the admin plane,
// so all access is under the lock.
type RecentLog struct {
	mu  sync.Mutex
	q   *queue.Queue
	cap int
}

func NewRecentLog(capacity int) *RecentLog {
	if capacity <= 0 {
		capacity = 64
	}
	return &RecentLog{q: queue.New(), cap: capacity}
}

// Listener adapts the log to the server's ReceivedListener shape.
func (r *RecentLog) Listener() ReceivedListener {
	return func(endpoint, command string) {
		r.Add(endpoint, command)
	}
}

func (r *RecentLog) Add(endpoint, command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.q.Add(ReceivedEntry{Endpoint: endpoint, Command: command, At: time.Now()})
	for r.q.Length() > r.cap {
		r.q.Remove()
	}
}

// Entries returns the retained commands, oldest first.
func (r *RecentLog) Entries() []ReceivedEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ReceivedEntry, 0, r.q.Length())
	for i := 0; i < r.q.Length(); i++ {
		out = append(out, r.q.Get(i).(ReceivedEntry))
	}
	return out
}

package handlers

import (
	"sync"
	"time"
)

const maxNotifications = 50

type Notification struct {
	Level   string    `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
}

// Notifications buffers dashboard outcomes until the front-end polls for
// them. The oldest entries are dropped once the buffer is full.
type Notifications struct {
	items []Notification
	mu    sync.Mutex
}

func NewNotifications() *Notifications {
	return &Notifications{}
}

func (n *Notifications) Success(msg string) { n.push("success", msg) }
func (n *Notifications) Warn(msg string)    { n.push("warning", msg) }
func (n *Notifications) Error(msg string)   { n.push("error", msg) }

func (n *Notifications) push(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.items = append(n.items, Notification{Level: level, Message: msg, Time: time.Now()})
	if len(n.items) > maxNotifications {
		n.items = n.items[len(n.items)-maxNotifications:]
	}
}

// Drain returns and forgets everything buffered so far
func (n *Notifications) Drain() []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	items := n.items
	n.items = nil
	if items == nil {
		items = []Notification{}
	}
	return items
}

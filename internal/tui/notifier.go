package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// notifyMsg tells the model that alerts are waiting
type notifyMsg struct{}

// Notifier queues controller messages until the model drains them.
// Alerts raised outside Update wake the program up.
type Notifier struct {
	mu      sync.Mutex
	alerts  []string
	loading bool
	program *tea.Program
}

// NewNotifier creates a notifier without a program attached
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Attach sets the program to wake up on new alerts
func (n *Notifier) Attach(p *tea.Program) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.program = p
}

// Alert implements session.Notifier
func (n *Notifier) Alert(message string) {
	n.mu.Lock()
	n.alerts = append(n.alerts, message)
	p := n.program
	n.mu.Unlock()

	// Send blocks until the event loop reads it, which may be us
	if p != nil {
		go p.Send(notifyMsg{})
	}
}

// SetLoading implements session.Notifier
func (n *Notifier) SetLoading(loading bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loading = loading
}

// drain returns and clears the queued alerts
func (n *Notifier) drain() (alerts []string, loading bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	alerts, n.alerts = n.alerts, nil
	return alerts, n.loading
}

package testutil

import (
	"context"
	"os"
	"sync"
	"time"
)

// MockAudioData is a minimal MP3 frame header written by MockProvider
var MockAudioData = []byte{0xFF, 0xFB, 0x90, 0x00}

// MockProvider is a speech provider that writes MockAudioData to the output file
type MockProvider struct {
	mu sync.Mutex

	ProviderName string
	Unavailable  error
	Err          error
	Calls        []string
}

// GenerateAudio records the text and writes a fake audio file
func (m *MockProvider) GenerateAudio(ctx context.Context, text, outputFile string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	m.mu.Unlock()

	if m.Err != nil {
		return m.Err
	}
	return os.WriteFile(outputFile, MockAudioData, 0644)
}

// Name returns the configured name or "mock"
func (m *MockProvider) Name() string {
	if m.ProviderName == "" {
		return "mock"
	}
	return m.ProviderName
}

// IsAvailable returns the configured availability error
func (m *MockProvider) IsAvailable() error {
	return m.Unavailable
}

// Texts returns a copy of the recorded texts
func (m *MockProvider) Texts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

// MockPlayer records played files instead of starting a process. With
// Async set, Play returns at once and the file is read in the background
// after PlayDelay, like a real player process would.
type MockPlayer struct {
	mu      sync.Mutex
	running sync.WaitGroup

	Unavailable error
	Err         error
	Async       bool
	PlayDelay   time.Duration
	Played      []string
	ReadErrors  []error
}

// Play records the file
func (m *MockPlayer) Play(file string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Played = append(m.Played, file)

	if m.Async {
		m.running.Add(1)
		go func() {
			defer m.running.Done()
			time.Sleep(m.PlayDelay)
			if _, err := os.ReadFile(file); err != nil {
				m.mu.Lock()
				m.ReadErrors = append(m.ReadErrors, err)
				m.mu.Unlock()
			}
		}()
	}
	return nil
}

// Wait blocks until background reads have finished
func (m *MockPlayer) Wait() {
	m.running.Wait()
}

// Errors returns the read failures of background playbacks
func (m *MockPlayer) Errors() []error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]error(nil), m.ReadErrors...)
}

// Available returns the configured availability error
func (m *MockPlayer) Available() error {
	return m.Unavailable
}

// Files returns a copy of the played files
func (m *MockPlayer) Files() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Played...)
}

// RecordingNotifier collects user notices and loading transitions
type RecordingNotifier struct {
	mu sync.Mutex

	Alerts  []string
	Loading []bool
}

// Alert records a user-facing message
func (n *RecordingNotifier) Alert(message string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Alerts = append(n.Alerts, message)
}

// SetLoading records a loading indicator change
func (n *RecordingNotifier) SetLoading(loading bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Loading = append(n.Loading, loading)
}

// Messages returns a copy of the recorded alerts
func (n *RecordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.Alerts...)
}

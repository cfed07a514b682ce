package audio

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"go.uber.org/zap"

	"codeberg.org/snonux/flipgrid/internal/logging"
)

// Player plays an audio file
type Player interface {
	// Play starts playback and returns without waiting for it to finish
	Play(file string) error

	// Available reports whether playback is possible on this system
	Available() error

	// Wait blocks until every playback started so far has finished
	Wait()
}

// CommandPlayer plays files through the platform's command line players.
// Every Play starts a new process; earlier playbacks are neither queued
// nor stopped.
type CommandPlayer struct {
	goos     string
	lookPath func(string) (string, error)
	logger   *zap.Logger

	running sync.WaitGroup
}

// NewPlayer creates a player for the current platform
func NewPlayer(logger *zap.Logger) *CommandPlayer {
	return &CommandPlayer{
		goos:     runtime.GOOS,
		lookPath: exec.LookPath,
		logger:   logging.OrNop(logger).Named("player"),
	}
}

// Play starts playback in the background
func (p *CommandPlayer) Play(file string) error {
	cmd, err := p.command(file)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", filepath.Base(cmd.Path), err)
	}

	p.running.Add(1)
	go func() {
		defer p.running.Done()
		if err := cmd.Wait(); err != nil {
			p.logger.Warn("Playback failed", zap.String("file", file), zap.Error(err))
		}
	}()
	return nil
}

// Wait blocks until all started player processes have exited
func (p *CommandPlayer) Wait() {
	p.running.Wait()
}

// Available reports whether a supported player command exists
func (p *CommandPlayer) Available() error {
	_, err := p.command("probe.wav")
	return err
}

// command picks a player: mpg123 only handles MP3, the others also play WAV
func (p *CommandPlayer) command(file string) (*exec.Cmd, error) {
	switch p.goos {
	case "darwin":
		return exec.Command("afplay", file), nil
	case "windows":
		return exec.Command("cmd", "/c", "start", "/min", file), nil
	case "linux", "freebsd", "openbsd", "netbsd":
	default:
		return nil, fmt.Errorf("unsupported platform: %s", p.goos)
	}

	isMP3 := strings.EqualFold(filepath.Ext(file), ".mp3")

	candidates := [][]string{
		{"mpg123", "-q"},
		{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet"},
		{"play", "-q"},
		{"paplay"},
		{"aplay", "-q"},
	}
	for _, c := range candidates {
		if c[0] == "mpg123" && !isMP3 {
			continue
		}
		if c[0] == "aplay" && isMP3 {
			continue
		}
		if _, err := p.lookPath(c[0]); err == nil {
			args := append(append([]string{}, c[1:]...), file)
			return exec.Command(c[0], args...), nil
		}
	}

	return nil, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
}

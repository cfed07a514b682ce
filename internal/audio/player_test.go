package audio

import (
	"errors"
	"reflect"
	"testing"
)

func fakeLookPath(installed ...string) func(string) (string, error) {
	return func(name string) (string, error) {
		for _, n := range installed {
			if n == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", errors.New("not found")
	}
}

func TestCommandPlayerCommand(t *testing.T) {
	tests := []struct {
		name      string
		goos      string
		installed []string
		file      string
		wantArgs  []string
		wantErr   bool
	}{
		{name: "macOS", goos: "darwin", file: "a.wav", wantArgs: []string{"afplay", "a.wav"}},
		{name: "mpg123 for mp3", goos: "linux", installed: []string{"mpg123", "aplay"}, file: "a.mp3", wantArgs: []string{"mpg123", "-q", "a.mp3"}},
		{name: "mpg123 skipped for wav", goos: "linux", installed: []string{"mpg123", "aplay"}, file: "a.wav", wantArgs: []string{"aplay", "-q", "a.wav"}},
		{name: "ffplay", goos: "linux", installed: []string{"ffplay"}, file: "a.wav", wantArgs: []string{"ffplay", "-nodisp", "-autoexit", "-loglevel", "quiet", "a.wav"}},
		{name: "paplay", goos: "linux", installed: []string{"paplay"}, file: "a.mp3", wantArgs: []string{"paplay", "a.mp3"}},
		{name: "nothing installed", goos: "linux", file: "a.wav", wantErr: true},
		{name: "unsupported platform", goos: "plan9", file: "a.wav", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer(nil)
			p.goos = tt.goos
			p.lookPath = fakeLookPath(tt.installed...)

			cmd, err := p.command(tt.file)
			if (err != nil) != tt.wantErr {
				t.Fatalf("command() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if p.Available() == nil {
					t.Error("Available() expected error")
				}
				return
			}
			if !reflect.DeepEqual(cmd.Args, tt.wantArgs) {
				t.Errorf("command() args = %v, want %v", cmd.Args, tt.wantArgs)
			}
		})
	}
}

package audio

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteWAV(t *testing.T) {
	pcm := []byte{1, 2, 3, 4, 5, 6}
	var buf bytes.Buffer
	if err := writeWAV(&buf, pcm, 24000); err != nil {
		t.Fatalf("writeWAV() error = %v", err)
	}

	data := buf.Bytes()
	if len(data) != 44+len(pcm) {
		t.Fatalf("Expected %d bytes, got %d", 44+len(pcm), len(data))
	}
	if string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" || string(data[36:40]) != "data" {
		t.Errorf("Malformed WAV header: %q", data[:44])
	}
	if rate := binary.LittleEndian.Uint32(data[24:28]); rate != 24000 {
		t.Errorf("Sample rate = %d, want 24000", rate)
	}
	if size := binary.LittleEndian.Uint32(data[40:44]); size != uint32(len(pcm)) {
		t.Errorf("Data size = %d, want %d", size, len(pcm))
	}
	if !bytes.Equal(data[44:], pcm) {
		t.Error("PCM payload mismatch")
	}
}

func TestSampleRateOf(t *testing.T) {
	tests := map[string]int{
		"audio/L16;codec=pcm;rate=16000": 16000,
		"audio/L16; rate=48000":          48000,
		"audio/L16":                      geminiSampleRate,
		"audio/L16;rate=abc":             geminiSampleRate,
	}
	for mime, want := range tests {
		if got := sampleRateOf(mime); got != want {
			t.Errorf("sampleRateOf(%q) = %d, want %d", mime, got, want)
		}
	}
}

func TestGeminiProviderPrompt(t *testing.T) {
	slow := &GeminiProvider{config: &Config{Rate: 0.9}}
	if got := slow.prompt("cane"); got != "Say slowly and clearly: cane" {
		t.Errorf("prompt() = %q", got)
	}
	normal := &GeminiProvider{config: &Config{Rate: 1}}
	if got := normal.prompt("cane"); got != "cane" {
		t.Errorf("prompt() = %q", got)
	}
}

func TestGeminiProviderGenerateAudio(t *testing.T) {
	pcm := []byte{0, 1, 0, 2}
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := new(bytes.Buffer)
		buf.ReadFrom(r.Body)
		body = buf.String()

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"candidates":[{"content":{"role":"model","parts":[{"inlineData":{"mimeType":"audio/L16;codec=pcm;rate=24000","data":%q}}]}}]}`,
			base64.StdEncoding.EncodeToString(pcm))
	}))
	defer srv.Close()

	config := DefaultProviderConfig()
	config.GeminiKey = "test-key"
	config.GeminiBaseURL = srv.URL

	p, err := NewGeminiProvider(context.Background(), config)
	if err != nil {
		t.Fatalf("NewGeminiProvider() error = %v", err)
	}

	out := filepath.Join(t.TempDir(), "cane.wav")
	if err := p.GenerateAudio(context.Background(), "cane", out); err != nil {
		t.Fatalf("GenerateAudio() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("Failed to read output: %v", err)
	}
	if len(data) != 44+len(pcm) || !bytes.Equal(data[44:], pcm) {
		t.Errorf("Unexpected WAV output: %v", data)
	}

	for _, want := range []string{"it-IT", "Kore", "AUDIO", "cane"} {
		if !strings.Contains(body, want) {
			t.Errorf("Request body missing %q: %s", want, body)
		}
	}
}

package stt

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
)

// WhisperLocal implements Provider using the whisper.cpp CLI. The ggml model
// is downloaded on first Setup.
type WhisperLocal struct {
	modelSize string // "tiny", "base", "small", "medium", "large"
	modelPath string
	binPath   string
	language  string

	mu            sync.RWMutex
	setupProgress int
	progress      func(string)
}

// WhisperLocalConfig holds configuration for WhisperLocal.
type WhisperLocalConfig struct {
	ModelSize string // defaults to "base"
	ModelDir  string // defaults to ~/.scrib/models
	BinPath   string // optional explicit whisper-cli path
	Language  string // source language, empty for auto-detect
}

var whisperModels = map[string]struct {
	URL  string
	Size int64 // approximate download size in bytes
}{
	"tiny":   {"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-tiny.bin", 75 * 1024 * 1024},
	"base":   {"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-base.bin", 150 * 1024 * 1024},
	"small":  {"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-small.bin", 500 * 1024 * 1024},
	"medium": {"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-medium.bin", 1500 * 1024 * 1024},
	"large":  {"https://huggingface.co/ggerganov/whisper.cpp/resolve/main/ggml-large-v3.bin", 3000 * 1024 * 1024},
}

// NewWhisperLocal creates a new local whisper.cpp provider.
func NewWhisperLocal(cfg WhisperLocalConfig) (*WhisperLocal, error) {
	if cfg.ModelSize == "" {
		cfg.ModelSize = "base"
	}
	if _, ok := whisperModels[cfg.ModelSize]; !ok {
		return nil, fmt.Errorf("invalid model size: %s", cfg.ModelSize)
	}

	if cfg.ModelDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		cfg.ModelDir = filepath.Join(homeDir, ".scrib", "models")
	}

	w := &WhisperLocal{
		modelSize:     cfg.ModelSize,
		modelPath:     filepath.Join(cfg.ModelDir, fmt.Sprintf("ggml-%s.bin", cfg.ModelSize)),
		binPath:       cfg.BinPath,
		language:      cfg.Language,
		setupProgress: -1,
	}

	if w.binPath == "" {
		w.binPath = findWhisperBinary()
	}
	if w.modelDownloaded() {
		w.setupProgress = 100
	}
	return w, nil
}

func (w *WhisperLocal) Identifier() string { return "whisper-local" }
func (w *WhisperLocal) Name() string {
	return fmt.Sprintf("Whisper Local (%s)", w.modelSize)
}
func (w *WhisperLocal) RequiresCredential() bool { return false }
func (w *WhisperLocal) ReloadPreferences()       {}
func (w *WhisperLocal) Close() error             { return nil }

func (w *WhisperLocal) IsAvailable(context.Context) bool {
	return w.binPath != "" && w.modelDownloaded()
}

func (w *WhisperLocal) ValidateConfig() error {
	if w.binPath == "" {
		return fmt.Errorf("whisper.cpp binary not found, install with: brew install whisper-cpp")
	}
	if !w.modelDownloaded() {
		return fmt.Errorf("whisper local: %w", ErrModelNotDownloaded)
	}
	return nil
}

func (w *WhisperLocal) SetProgressHandler(fn func(progress string)) {
	w.mu.Lock()
	w.progress = fn
	w.mu.Unlock()
}

func (w *WhisperLocal) SetupProgress() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.setupProgress
}

func (w *WhisperLocal) modelDownloaded() bool {
	_, err := os.Stat(w.modelPath)
	return err == nil
}

// Setup downloads the ggml model if needed, reporting percentage progress.
func (w *WhisperLocal) Setup(progress func(percent int)) error {
	if w.modelDownloaded() {
		w.setProgressPercent(100)
		return nil
	}

	info := whisperModels[w.modelSize]

	if err := os.MkdirAll(filepath.Dir(w.modelPath), 0755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	w.setProgressPercent(0)
	if err := w.downloadModel(info.URL, info.Size, progress); err != nil {
		return fmt.Errorf("download model: %w", err)
	}

	w.setProgressPercent(100)
	if progress != nil {
		progress(100)
	}
	return nil
}

func (w *WhisperLocal) setProgressPercent(pct int) {
	w.mu.Lock()
	w.setupProgress = pct
	w.mu.Unlock()
}

func (w *WhisperLocal) downloadModel(url string, expectedSize int64, progress func(percent int)) error {
	resp, err := http.Get(url)
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("http status: %d", resp.StatusCode)
	}

	tmpPath := w.modelPath + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // no-op after successful rename
	}()

	var downloaded int64
	buf := make([]byte, 32*1024)
	lastPct := 0

	for {
		n, err := resp.Body.Read(buf)
		if n > 0 {
			if _, werr := f.Write(buf[:n]); werr != nil {
				return fmt.Errorf("write file: %w", werr)
			}
			downloaded += int64(n)

			if expectedSize > 0 {
				pct := int(downloaded * 100 / expectedSize)
				if pct > lastPct {
					lastPct = pct
					w.setProgressPercent(pct)
					if progress != nil {
						progress(pct)
					}
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("read response: %w", err)
		}
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close file: %w", err)
	}
	if err := os.Rename(tmpPath, w.modelPath); err != nil {
		return fmt.Errorf("rename file: %w", err)
	}
	return nil
}

// Transcribe runs whisper.cpp against the recorded file. A missing model
// triggers a lazy download, surfaced through the progress handler.
func (w *WhisperLocal) Transcribe(ctx context.Context, audioPath string) (string, error) {
	if w.binPath == "" {
		return "", fmt.Errorf("whisper.cpp binary not found, install with: brew install whisper-cpp")
	}

	if !w.modelDownloaded() {
		w.emitProgress("Downloading model…")
		if err := w.Setup(nil); err != nil {
			return "", fmt.Errorf("%w: %v", ErrModelNotDownloaded, err)
		}
	}

	w.emitProgress("Transcribing…")

	args := []string{
		"-m", w.modelPath,
		"-f", audioPath,
		"-oj", // JSON on stdout
		"--no-prints",
	}
	if w.language != "" && w.language != "auto" {
		args = append(args, "-l", w.language)
	}

	cmd := exec.CommandContext(ctx, w.binPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("whisper-cpp failed: %w, stderr: %s", err, stderr.String())
	}

	text, err := parseWhisperOutput(stdout.Bytes())
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyRecording
	}
	return text, nil
}

func (w *WhisperLocal) emitProgress(label string) {
	w.mu.RLock()
	fn := w.progress
	w.mu.RUnlock()
	if fn != nil {
		fn(label)
	}
}

// whisperCppOutput represents the JSON output from whisper.cpp.
type whisperCppOutput struct {
	Transcription []struct {
		Text string `json:"text"`
	} `json:"transcription"`
}

func parseWhisperOutput(out []byte) (string, error) {
	var parsed whisperCppOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		// Older builds print plain text without -oj support.
		return strings.TrimSpace(string(out)), nil
	}

	var b strings.Builder
	for _, seg := range parsed.Transcription {
		b.WriteString(seg.Text)
	}
	return strings.TrimSpace(b.String()), nil
}

func findWhisperBinary() string {
	// whisper-cli is the Homebrew name.
	names := []string{"whisper-cli", "whisper-cpp", "whisper", "main"}

	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	homeDir, _ := os.UserHomeDir()
	locations := []string{
		"/opt/homebrew/bin",
		"/usr/local/bin",
		filepath.Join(homeDir, ".local", "bin"),
		filepath.Join(homeDir, "whisper.cpp"),
	}

	for _, loc := range locations {
		for _, name := range names {
			path := filepath.Join(loc, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	if runtime.GOOS == "darwin" {
		execPath, _ := os.Executable()
		bundlePath := filepath.Join(filepath.Dir(execPath), "..", "Resources", "whisper-cli")
		if _, err := os.Stat(bundlePath); err == nil {
			return bundlePath
		}
	}

	return ""
}

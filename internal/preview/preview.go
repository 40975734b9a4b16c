// Package preview loads file content and turns it into styled lines for
// the preview pane. Rendering failures never fail a request; they degrade
// to plain text so navigation is never blocked.
package preview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/lumipallolabs/peektree/internal/config"
	"github.com/lumipallolabs/peektree/internal/loader"
	"github.com/lumipallolabs/peektree/internal/logging"
)

// Kind classifies a preview result.
type Kind int

const (
	KindText Kind = iota
	KindDirectory
	KindBinary
	KindEmpty
	KindError
)

// TruncationMarker is appended when content exceeded the configured
// ceilings.
const TruncationMarker = "… preview truncated …"

// Fingerprint is a cheap proxy for "has this file possibly changed since
// it was rendered".
type Fingerprint struct {
	Size    int64
	ModTime time.Time
}

// FingerprintFor stats path and returns its current fingerprint.
func FingerprintFor(path string) (Fingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Fingerprint{}, err
	}
	return Fingerprint{Size: info.Size(), ModTime: info.ModTime()}, nil
}

// Result is a rendered preview. Lines may carry ANSI styling from the
// highlighting or markdown engines.
type Result struct {
	Path        string
	Kind        Kind
	Lines       []string
	Truncated   bool
	Fingerprint Fingerprint
}

// Build runs the full pipeline for path: stat, read, classify, render.
// It takes a slot from the shared pool while doing I/O and rendering.
// Build never fails; unreadable files produce an inline error result.
func Build(ctx context.Context, pool *loader.Pool, cfg config.Config, path string, width int) Result {
	if err := pool.Acquire(ctx); err != nil {
		return errorResult(path, err)
	}
	defer pool.Release()

	info, err := os.Stat(path)
	if err != nil {
		return errorResult(path, err)
	}
	fp := Fingerprint{Size: info.Size(), ModTime: info.ModTime()}

	if info.IsDir() {
		return directoryResult(path, fp)
	}

	if info.Size() == 0 {
		return Result{Path: path, Kind: KindEmpty, Lines: []string{"(empty file)"}, Fingerprint: fp}
	}

	f, err := os.Open(path)
	if err != nil {
		return errorResult(path, err)
	}
	defer f.Close()

	buf := make([]byte, cfg.MaxPreviewBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return errorResult(path, err)
	}
	buf = buf[:n]
	truncated := info.Size() > cfg.MaxPreviewBytes

	if isBinary(buf) {
		mtype := mimetype.Detect(buf)
		return Result{
			Path: path,
			Kind: KindBinary,
			Lines: []string{
				fmt.Sprintf("Binary file (%s)", mtype.String()),
				fmt.Sprintf("Size: %s", FormatSize(info.Size())),
				"preview unavailable",
			},
			Fingerprint: fp,
		}
	}

	text := string(buf)
	lines := render(path, text, width)
	if len(lines) > cfg.MaxPreviewLines {
		lines = lines[:cfg.MaxPreviewLines]
		truncated = true
	}
	if truncated {
		lines = append(lines, "", TruncationMarker)
	}

	return Result{
		Path:        path,
		Kind:        KindText,
		Lines:       lines,
		Truncated:   truncated,
		Fingerprint: fp,
	}
}

// render dispatches to the markdown renderer or the highlighting engine
// and falls back to plain lines when either declines or fails.
func render(path, text string, width int) []string {
	if isMarkdown(path) {
		if lines, ok := renderMarkdown(text, width); ok {
			return lines
		}
		logging.Debug.Printf("preview: markdown render failed for %s, using plain text", path)
	} else if styled := highlight(path, text); styled != "" {
		return splitLines(styled)
	}
	return splitLines(text)
}

func directoryResult(path string, fp Fingerprint) Result {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return errorResult(path, err)
	}
	dirs := 0
	for _, d := range dirents {
		if d.IsDir() {
			dirs++
		}
	}
	files := len(dirents) - dirs
	return Result{
		Path: path,
		Kind: KindDirectory,
		Lines: []string{
			fmt.Sprintf("Directory: %d items (%d dirs, %d files)", len(dirents), dirs, files),
		},
		Fingerprint: fp,
	}
}

func errorResult(path string, err error) Result {
	return Result{
		Path:  path,
		Kind:  KindError,
		Lines: []string{fmt.Sprintf("Error: %v", err)},
	}
}

// isBinary scans a content prefix for NUL bytes.
func isBinary(data []byte) bool {
	limit := len(data)
	if limit > 8192 {
		limit = 8192
	}
	return bytes.IndexByte(data[:limit], 0) >= 0
}

func isMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown", ".mdx":
		return true
	}
	return false
}

func splitLines(text string) []string {
	text = strings.TrimRight(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// FormatSize formats bytes to a human readable string.
func FormatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1fTB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1fGB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1fMB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1fKB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%dB", bytes)
	}
}

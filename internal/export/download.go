package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Downloader delivers an exported file.
type Downloader interface {
	Download(name string, content []byte, mimeType string) error
}

// DirDownloader writes downloads into Dir, replacing files of the same name.
type DirDownloader struct {
	Dir string
}

func (d DirDownloader) Download(name string, content []byte, _ string) error {
	if err := os.MkdirAll(d.Dir, 0750); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(d.Dir, filepath.Base(name))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0640); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// ReadResult is the outcome of reading an import file.
type ReadResult struct {
	Path string
	Text []byte
	Err  error
}

// ReadFile reads an import file, giving up when ctx is done first.
func ReadFile(ctx context.Context, path string) ReadResult {
	done := make(chan ReadResult, 1)
	go func() {
		text, err := os.ReadFile(path)
		done <- ReadResult{Path: path, Text: text, Err: err}
	}()
	select {
	case r := <-done:
		return r
	case <-ctx.Done():
		return ReadResult{Path: path, Err: ctx.Err()}
	}
}

package analysis

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sectoolkit/pkg/domain"
	"sectoolkit/pkg/logger"
	"sectoolkit/pkg/serrors"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// tail reads complete lines appended to a file.
type tail struct {
	path    string
	file    *os.File
	reader  *bufio.Reader
	partial strings.Builder
}

func openTail(path string, fromEnd bool) (*tail, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err //nolint: wrapcheck
	}

	if fromEnd {
		if _, err := f.Seek(0, io.SeekEnd); err != nil {
			_ = f.Close()

			return nil, fmt.Errorf("could not seek %s: %w", path, err)
		}
	}

	return &tail{path: path, file: f, reader: bufio.NewReader(f)}, nil
}

// lines returns the complete lines available now. A trailing line without a
// newline is kept until the rest arrives.
func (t *tail) lines() ([]string, error) {
	var out []string
	for {
		chunk, err := t.reader.ReadString('\n')
		t.partial.WriteString(chunk)
		if errors.Is(err, io.EOF) {
			return out, nil
		}

		if err != nil {
			return out, fmt.Errorf("could not read %s: %w", t.path, err)
		}

		out = append(out, t.partial.String())
		t.partial.Reset()
	}
}

// truncated reports whether the file shrank below the read offset.
func (t *tail) truncated() bool {
	pos, err := t.file.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}

	info, err := t.file.Stat()

	return err == nil && info.Size() < pos-int64(t.reader.Buffered())
}

func (t *tail) close() {
	_ = t.file.Close()
}

// Follow tails path like tail -F: only lines appended after the call are
// parsed and passed to fn. Truncation and re-creation by log rotation are
// handled by reading the new file from the start. Follow returns nil when ctx
// is done and the error of fn when fn fails.
func (p *LogParser) Follow(ctx context.Context, path string, fn func(domain.LogEntry) error) error {
	path = filepath.Clean(path)

	t, err := openTail(path, true)
	if errors.Is(err, fs.ErrNotExist) {
		return serrors.Wrap(serrors.ErrNotFound, err, "log file %s not found", path)
	}

	if err != nil {
		return fmt.Errorf("could not open log file: %w", err)
	}
	defer func() { t.close() }()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create file watcher: %w", err)
	}
	defer watcher.Close()

	// the directory is watched so a rotated file is picked up when re-created
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("could not watch %s: %w", filepath.Dir(path), err)
	}

	ctx = logger.WithFields(ctx, zap.String("path", path))
	emit := func() error {
		lines, err := t.lines()
		for _, line := range lines {
			if strings.TrimSpace(line) == "" {
				continue
			}

			entry, _ := p.ParseLine(line)
			if err := fn(entry); err != nil {
				return err
			}
		}

		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != path {
				continue
			}

			switch {
			case event.Has(fsnotify.Create):
				logger.Debug(ctx, "log file re-created, reopening")
				next, err := openTail(path, false)
				if err != nil {
					return fmt.Errorf("could not reopen log file: %w", err)
				}

				t.close()
				t = next
			case event.Has(fsnotify.Write):
				if t.truncated() {
					logger.Debug(ctx, "log file truncated, reading from start")

					if _, err := t.file.Seek(0, io.SeekStart); err != nil {
						return fmt.Errorf("could not rewind %s: %w", path, err)
					}

					t.reader.Reset(t.file)
				}
			default:
				continue
			}

			if err := emit(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			logger.Warn(ctx, "file watcher error", zap.Error(err))
		}
	}
}

// Package follow reads a file that keeps growing, like tail -f.
package follow

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ErrTruncated is returned when the followed file shrinks below the read
// position.
var ErrTruncated = errors.New("followed file was truncated")

// DefaultPollInterval bounds how long a Read waits without a change
// notification before checking the file again.
const DefaultPollInterval = 250 * time.Millisecond

// Reader is an io.Reader over a growing file. At end of file Read blocks
// until more data is written, the file is removed or renamed, or the
// context is done; the latter cases end the stream with io.EOF.
type Reader struct {
	ctx     context.Context
	f       *os.File
	watcher *fsnotify.Watcher
	poll    time.Duration
	offset  int64
}

// Open opens path for following.
func Open(ctx context.Context, path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	w, err := fsnotify.NewWatcher()
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := w.Add(path); err != nil {
		w.Close()
		f.Close()
		return nil, fmt.Errorf("watching %s: %w", path, err)
	}
	return &Reader{
		ctx:     ctx,
		f:       f,
		watcher: w,
		poll:    DefaultPollInterval,
	}, nil
}

// SetPollInterval changes the fallback poll interval.
func (r *Reader) SetPollInterval(d time.Duration) {
	if d > 0 {
		r.poll = d
	}
}

// Read implements io.Reader.
func (r *Reader) Read(p []byte) (int, error) {
	for {
		n, err := r.f.Read(p)
		r.offset += int64(n)
		if n > 0 {
			return n, nil
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if err := r.wait(); err != nil {
			return 0, err
		}
	}
}

// wait blocks until the file may have grown.
func (r *Reader) wait() error {
	timer := time.NewTimer(r.poll)
	defer timer.Stop()

	select {
	case <-r.ctx.Done():
		return io.EOF
	case ev, ok := <-r.watcher.Events:
		if !ok || ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
			return io.EOF
		}
	case err, ok := <-r.watcher.Errors:
		if !ok {
			return io.EOF
		}
		return err
	case <-timer.C:
	}
	return r.checkTruncated()
}

func (r *Reader) checkTruncated() error {
	info, err := r.f.Stat()
	if err != nil {
		return err
	}
	if info.Size() < r.offset {
		return fmt.Errorf("%w: size %d, read %d bytes", ErrTruncated, info.Size(), r.offset)
	}
	return nil
}

// Close stops watching and closes the file.
func (r *Reader) Close() error {
	return errors.Join(r.watcher.Close(), r.f.Close())
}

package logs

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

const (
	pollInterval  = 250 * time.Millisecond
	maxLineLength = 1024 * 1024
)

// TailOptions control one Tail call. A negative Offset asks for the last
// Limit lines of the file; a non-negative Offset resumes from that byte
// position. With Follow set, Tail polls for new lines for up to Wait
// before returning empty.
type TailOptions struct {
	Offset int64
	Limit  int
	Follow bool
	Wait   time.Duration
}

// TailResult carries the lines read and the offset to resume from.
type TailResult struct {
	Lines  []string
	Offset int64
}

// Tail reads log lines from path per opts. A missing file is not an error:
// the result is empty with offset zero so a later call starts from the top.
func Tail(ctx context.Context, path string, opts TailOptions) (TailResult, error) {
	res := TailResult{Offset: opts.Offset}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			res.Offset = 0
			return res, nil
		}
		return res, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return res, fmt.Errorf("log path %s is a directory", path)
	}
	if opts.Wait < 0 {
		opts.Wait = 0
	}

	if opts.Offset < 0 {
		res.Lines, res.Offset, err = tailEnd(path, opts.Limit)
	} else {
		start := opts.Offset
		if start > info.Size() {
			start = info.Size()
		}
		res.Lines, res.Offset, err = scanFrom(path, start)
	}
	if err != nil {
		return TailResult{Offset: opts.Offset}, err
	}

	if opts.Follow && opts.Wait > 0 && len(res.Lines) == 0 {
		return poll(ctx, path, res.Offset, opts.Wait)
	}
	return res, nil
}

// tailEnd returns up to limit trailing lines and the end-of-file offset.
func tailEnd(path string, limit int) ([]string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, 0, fmt.Errorf("stat %s: %w", path, err)
	}
	end := info.Size()
	if limit <= 0 {
		return nil, end, nil
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	var kept []string
	for sc.Scan() {
		kept = append(kept, sc.Text())
		// Bound memory to roughly twice the requested window.
		if len(kept) > limit*2 {
			kept = append(kept[:0], kept[len(kept)-limit:]...)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}
	if len(kept) > limit {
		kept = kept[len(kept)-limit:]
	}
	return kept, end, nil
}

// scanFrom reads complete lines starting at offset and returns the offset
// just past the last line consumed.
func scanFrom(path string, offset int64) ([]string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, 0, fmt.Errorf("seek %s: %w", path, err)
	}

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	var lines []string
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, 0, fmt.Errorf("read %s: %w", path, err)
	}

	next, err := f.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, 0, fmt.Errorf("offset of %s: %w", path, err)
	}
	return lines, next, nil
}

// poll rescans from offset until lines appear, the deadline passes, or the
// context ends. The context error is returned so callers can stop a follow
// loop cleanly.
func poll(ctx context.Context, path string, offset int64, wait time.Duration) (TailResult, error) {
	deadline := time.Now().Add(wait)
	tick := time.NewTicker(pollInterval)
	defer tick.Stop()

	res := TailResult{Offset: offset}
	for {
		lines, next, err := scanFrom(path, res.Offset)
		if err != nil {
			return res, err
		}
		res.Offset = next
		if len(lines) > 0 {
			res.Lines = lines
			return res, nil
		}
		if time.Now().After(deadline) {
			return res, nil
		}
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		case <-tick.C:
		}
	}
}

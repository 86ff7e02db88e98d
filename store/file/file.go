/*
Package file provides the attendance file store.

PURPOSE:
  The attendance file is the durable, append-only log of punches. This
  package loads it into memory at startup and appends new lines to it,
  using the LineSet as the single de-duplication authority.

APPEND-ONLY CONTRACT:
  - Lines are never rewritten or deleted on disk.
  - A candidate line is written iff it is absent from the LineSet.
  - A written line is added to the LineSet before the next candidate is
    checked, so one batch never writes the same line twice.

DURABILITY:
  Append flushes the buffer and fsyncs the file before returning. A crash
  after a reported success cannot lose that batch. There is no rollback:
  a failure mid-batch leaves the lines before it written, synced and in
  the set. If the file does not end in a newline, one is written before
  the first new line.

READ TOLERANCE:
  Lines that are not exactly 23 characters are skipped silently on load.
  The number skipped is logged so bad data does not go unnoticed.

USAGE:
  reg, lines, stats, err := file.Load("moviment.txt", logger)
  store := file.NewStore("moviment.txt", lines, logger)
  res, err := store.Append(ctx, candidates)
  // res.Count lines are durable, even when err != nil

SEE ALSO:
  - punch/codec.go: Line layout
  - reconcile/service.go: Produces candidate lines
*/
package file

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/timeclock/punch"
)

// LoadStats describes what Load found in the file.
type LoadStats struct {
	Lines    int // lines read
	Accepted int // 23-character lines decoded into ledgers
	Skipped  int // lines of any other length
}

// =============================================================================
// LOAD
// =============================================================================

// Load reads the attendance file into ledgers and a line set. A missing
// file is a fresh start and yields empty structures with no error.
func Load(path string, logger *zap.Logger) (*punch.Registry, punch.LineSet, LoadStats, error) {
	registry := punch.NewRegistry()
	lines := punch.NewLineSet()
	var stats LoadStats

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.Info("attendance file not found, starting empty", zap.String("path", path))
		return registry, lines, stats, nil
	}
	if err != nil {
		return nil, nil, stats, fmt.Errorf("failed to open attendance file: %w", err)
	}
	defer f.Close()

	// No line length limit: an oversized line is noise like any other.
	r := bufio.NewReader(f)
	for {
		text, readErr := r.ReadString('\n')
		if text != "" {
			stats.Lines++
			raw := strings.TrimSpace(text)
			if rec, err := punch.Decode(raw); err != nil {
				stats.Skipped++
			} else {
				lines.Add(raw)
				registry.GetOrCreate(rec.Badge).AddPunch(rec.Date, rec.Time)
				stats.Accepted++
			}
		}
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, nil, stats, fmt.Errorf("failed to read attendance file: %w", readErr)
		}
	}

	logger.Info("attendance file loaded",
		zap.String("path", path),
		zap.Int("lines", stats.Lines),
		zap.Int("accepted", stats.Accepted),
		zap.Int("skipped", stats.Skipped),
		zap.Int("badges", registry.Len()),
	)
	if stats.Skipped > 0 {
		logger.Warn("skipped malformed lines", zap.Int("count", stats.Skipped))
	}
	return registry, lines, stats, nil
}

// =============================================================================
// STORE - append side
// =============================================================================

// Store appends lines to the attendance file.
type Store struct {
	path   string
	lines  punch.LineSet
	logger *zap.Logger
}

// NewStore creates a store over path using lines as the de-dup set.
// The set is shared, not copied: it is the same one Load returned.
func NewStore(path string, lines punch.LineSet, logger *zap.Logger) *Store {
	if lines == nil {
		lines = punch.NewLineSet()
	}
	return &Store{path: path, lines: lines, logger: logger}
}

// Path returns the attendance file path.
func (s *Store) Path() string { return s.path }

// Lines returns the de-dup set.
func (s *Store) Lines() punch.LineSet { return s.lines }

// AppendResult lists what an append actually wrote.
type AppendResult struct {
	Count   int
	Written []string
}

// Append writes every candidate not yet in the line set, then syncs.
// On failure the result still reports the lines written before it, and
// the error is an *punch.AppendError.
func (s *Store) Append(ctx context.Context, candidates []string) (AppendResult, error) {
	var res AppendResult
	if len(candidates) == 0 {
		return res, nil
	}

	var f appendFile
	fail := func(err error) (AppendResult, error) {
		if f != nil && res.Count > 0 {
			if syncErr := f.Sync(); syncErr != nil {
				err = errors.Join(err, syncErr)
			}
		}
		s.logger.Error("append to attendance file failed",
			zap.String("path", s.path),
			zap.Int("written", res.Count),
			zap.Error(err),
		)
		return res, &punch.AppendError{Path: s.path, Written: res.Count, Err: err}
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fail(err)
	}
	opened, err := openAppend(s.path)
	if err != nil {
		return fail(err)
	}
	f = opened
	defer f.Close()

	// A last record without its newline would otherwise merge with ours.
	unterminated, err := missingTrailingNewline(f)
	if err != nil {
		return fail(err)
	}

	// Lines are flushed one by one so Count never includes a line that
	// is still sitting in the buffer when a later write fails.
	w := bufio.NewWriter(f)
	for _, line := range candidates {
		if len(line) != punch.LineWidth {
			s.logger.Warn("refusing to write malformed line", zap.String("line", line))
			continue
		}
		if s.lines.Has(line) {
			continue
		}
		if unterminated {
			if err := w.WriteByte('\n'); err != nil {
				return fail(err)
			}
			unterminated = false
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return fail(err)
		}
		if err := w.Flush(); err != nil {
			return fail(err)
		}
		s.lines.Add(line)
		res.Count++
		res.Written = append(res.Written, line)
	}
	if err := f.Sync(); err != nil {
		return fail(err)
	}

	s.logger.Debug("appended lines",
		zap.String("path", s.path),
		zap.Int("candidates", len(candidates)),
		zap.Int("written", res.Count),
	)
	return res, nil
}

// appendFile is the part of *os.File that Append uses.
type appendFile interface {
	io.Writer
	io.ReaderAt
	Stat() (fs.FileInfo, error)
	Sync() error
	Close() error
}

var openAppend = func(path string) (appendFile, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_RDWR, 0o644)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// missingTrailingNewline reports whether a non-empty file lacks a final '\n'.
func missingTrailingNewline(f appendFile) (bool, error) {
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.Size() == 0 {
		return false, nil
	}
	var last [1]byte
	if _, err := f.ReadAt(last[:], info.Size()-1); err != nil {
		return false, err
	}
	return last[0] != '\n', nil
}

// =============================================================================
// CONTENTS - raw view for the file viewer
// =============================================================================

// Contents returns every raw line of the file, as stored.
func (s *Store) Contents() ([]string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", punch.ErrFileNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read attendance file: %w", err)
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return []string{}, nil
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, "\r")
	}
	return lines, nil
}

// Package logging writes the decoded record listing to a daily file and
// gzips the files of previous days.
package logging

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultPrefix names the listing files: asterix_YYYY-MM-DD.log
const DefaultPrefix = "asterix"

const dateLayout = "2006-01-02"

// ErrClosed is returned when writing to a closed rotator
var ErrClosed = errors.New("rotator closed")

// Rotator is an io.Writer over a file that changes every day. The file of
// the previous day is compressed when the date rolls over.
type Rotator struct {
	dir    string
	prefix string
	useUTC bool
	logger *logrus.Logger
	now    func() time.Time

	mutex       sync.Mutex
	currentFile *os.File
	currentDate string
	compressing sync.WaitGroup
}

// NewRotator opens today's file under dir, creating dir when needed
func NewRotator(dir, prefix string, useUTC bool, logger *logrus.Logger) (*Rotator, error) {
	return newRotator(dir, prefix, useUTC, logger, time.Now)
}

func newRotator(dir, prefix string, useUTC bool, logger *logrus.Logger, now func() time.Time) (*Rotator, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	if prefix == "" {
		prefix = DefaultPrefix
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}

	r := &Rotator{
		dir:    dir,
		prefix: prefix,
		useUTC: useUTC,
		logger: logger,
		now:    now,
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()
	if err := r.openLocked(r.date()); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Rotator) date() string {
	t := r.now()
	if r.useUTC {
		t = t.UTC()
	}
	return t.Format(dateLayout)
}

func (r *Rotator) fileName(date string) string {
	return filepath.Join(r.dir, fmt.Sprintf("%s_%s.log", r.prefix, date))
}

// Write appends p to the current file, rotating first if the date changed
func (r *Rotator) Write(p []byte) (int, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentFile == nil {
		return 0, ErrClosed
	}
	if date := r.date(); date != r.currentDate {
		if err := r.rotateLocked(date); err != nil {
			return 0, err
		}
	}
	return r.currentFile.Write(p)
}

// Start checks for a date change every minute until ctx is done, so that a
// quiet stream still rolls its file over
func (r *Rotator) Start(ctx context.Context) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Rotate(); err != nil {
				r.logger.WithError(err).Error("Failed to rotate listing file")
			}
		}
	}
}

// Rotate switches to a new file if the date has changed since the current
// file was opened
func (r *Rotator) Rotate() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentFile == nil {
		return ErrClosed
	}
	if date := r.date(); date != r.currentDate {
		return r.rotateLocked(date)
	}
	return nil
}

func (r *Rotator) rotateLocked(date string) error {
	r.logger.WithFields(logrus.Fields{
		"old_date": r.currentDate,
		"new_date": date,
	}).Info("Rotating listing file")

	old := r.currentDate
	if err := r.currentFile.Close(); err != nil {
		r.logger.WithError(err).Error("Failed to close old listing file")
	}
	r.currentFile = nil

	r.compressing.Add(1)
	go func() {
		defer r.compressing.Done()
		if err := r.compress(old); err != nil {
			r.logger.WithError(err).WithField("date", old).Error("Failed to compress listing file")
		}
	}()

	return r.openLocked(date)
}

func (r *Rotator) openLocked(date string) error {
	path := r.fileName(date)
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open listing file %s: %w", path, err)
	}
	r.currentFile = file
	r.currentDate = date
	r.logger.WithField("file", path).Debug("Opened listing file")
	return nil
}

// compress gzips the file of date and removes the original
func (r *Rotator) compress(date string) error {
	source := r.fileName(date)
	target := source + ".gz"

	src, err := os.Open(source)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(target)
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	gz.Name = filepath.Base(source)
	gz.ModTime = r.now()

	if _, err := io.Copy(gz, src); err != nil {
		return err
	}
	if err := gz.Close(); err != nil {
		return err
	}
	if err := dst.Close(); err != nil {
		return err
	}
	if err := os.Remove(source); err != nil {
		return err
	}

	r.logger.WithField("file", target).Debug("Listing file compressed")
	return nil
}

// Path returns the file currently written to, or "" once closed
func (r *Rotator) Path() string {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.currentFile == nil {
		return ""
	}
	return r.fileName(r.currentDate)
}

// Files lists every listing file in the directory, compressed ones included
func (r *Rotator) Files() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(r.dir, r.prefix+"_*.log*"))
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return files, nil
}

// Cleanup removes listing files not modified within maxDays days and
// returns how many were removed
func (r *Rotator) Cleanup(maxDays int) (int, error) {
	if maxDays <= 0 {
		return 0, fmt.Errorf("maxDays must be positive, got %d", maxDays)
	}

	files, err := r.Files()
	if err != nil {
		return 0, err
	}
	current := r.Path()
	cutoff := r.now().AddDate(0, 0, -maxDays)

	removed := 0
	for _, file := range files {
		if file == current {
			continue
		}
		info, err := os.Stat(file)
		if err != nil {
			r.logger.WithError(err).WithField("file", file).Warn("Failed to stat listing file")
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(file); err != nil {
				r.logger.WithError(err).WithField("file", file).Error("Failed to remove old listing file")
				continue
			}
			removed++
		}
	}

	r.logger.WithField("count", removed).Debug("Cleaned up old listing files")
	return removed, nil
}

// Close closes the current file and waits for pending compressions
func (r *Rotator) Close() error {
	r.mutex.Lock()
	var err error
	if r.currentFile != nil {
		err = r.currentFile.Close()
		r.currentFile = nil
	}
	r.mutex.Unlock()

	r.compressing.Wait()
	return err
}

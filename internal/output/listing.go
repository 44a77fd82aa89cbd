// Package output formats decoded data blocks as one text line each.
package output

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"goasterix/internal/asterix"
	"goasterix/internal/stream"
)

// Field is one item of a listing line
type Field struct {
	ID  string
	Hex string
}

// Line is the listing form of one data block
type Line struct {
	Logged   time.Time
	Session  string
	Category uint8
	Length   int
	Source   string // SAC/SIC, empty when the record carries none
	Fields   []Field
	Err      string
	Raw      string // hex of the whole block, set only for failed blocks
}

// String renders the line as comma separated values
func (l Line) String() string {
	fields := []string{
		l.Logged.Format("2006/01/02"),
		l.Logged.Format("15:04:05.000"),
		l.Session,
		fmt.Sprintf("CAT%03d", l.Category),
		strconv.Itoa(l.Length),
		l.Source,
	}
	for _, f := range l.Fields {
		fields = append(fields, f.ID+"="+f.Hex)
	}
	if l.Err != "" {
		fields = append(fields, "ERR="+l.Err, "RAW="+l.Raw)
	}
	return strings.Join(fields, ",")
}

// Writer writes listing lines to an io.Writer, one per block
type Writer struct {
	out      io.Writer
	registry *stream.Registry
	session  string
	logger   *logrus.Logger
	now      func() time.Time
	mutex    sync.Mutex
}

// NewWriter creates a listing writer. session is stamped on every line.
func NewWriter(out io.Writer, registry *stream.Registry, session string, logger *logrus.Logger) *Writer {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Writer{
		out:      out,
		registry: registry,
		session:  session,
		logger:   logger,
		now:      time.Now,
	}
}

// Format converts a block into its listing line
func (w *Writer) Format(b *stream.Block) (Line, error) {
	if b == nil {
		return Line{}, fmt.Errorf("block cannot be nil")
	}
	line := Line{
		Logged:   w.now().UTC(),
		Session:  w.session,
		Category: b.Category,
		Length:   len(b.Raw),
	}

	if b.Err != nil {
		line.Err = b.Err.Error()
		line.Raw = strings.ToUpper(hex.EncodeToString(b.Raw))
		return line, nil
	}

	codec, ok := w.registry.Codec(b.Category)
	if !ok {
		return Line{}, fmt.Errorf("no codec for CAT%03d", b.Category)
	}
	uap := codec.UAP()
	if src, ok := asterix.SourceOf(uap, b.Record); ok {
		line.Source = src.String()
	}

	for _, o := range uap.Ordinals(b.Record.Fspec) {
		item, ok := b.Record.Get(o)
		if !ok {
			continue
		}
		entry, err := uap.Entry(o)
		if err != nil {
			return Line{}, err
		}
		line.Fields = append(line.Fields, Field{ID: entry.ID, Hex: item.String()})
	}
	return line, nil
}

// WriteBlock formats b and writes it as one line
func (w *Writer) WriteBlock(b *stream.Block) error {
	line, err := w.Format(b)
	if err != nil {
		return err
	}

	w.mutex.Lock()
	defer w.mutex.Unlock()
	if _, err := io.WriteString(w.out, line.String()+"\n"); err != nil {
		return fmt.Errorf("failed to write listing: %w", err)
	}

	w.logger.WithFields(logrus.Fields{
		"category": line.Category,
		"items":    len(line.Fields),
	}).Trace("Listed block")
	return nil
}

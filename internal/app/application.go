package app

import (
	"bufio"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"goasterix/internal/asterix"
	"goasterix/internal/cat021"
	"goasterix/internal/cat034"
	"goasterix/internal/logging"
	"goasterix/internal/output"
	"goasterix/internal/station"
	"goasterix/internal/stream"
)

// shutdownTimeout bounds the wait for background goroutines
const shutdownTimeout = 5 * time.Second

// Application decodes ASTERIX input into a listing and encodes YAML
// documents into data blocks
type Application struct {
	config   Config
	logger   *logrus.Logger
	session  ksuid.KSUID
	registry *stream.Registry
	decoder  *stream.Decoder
	stations *station.Tracker
	stdout   io.Writer
	wg       sync.WaitGroup
}

// NewApplication creates an application with codecs for every supported
// category. Listing lines go to stdout.
func NewApplication(config Config, logger *logrus.Logger, stdout io.Writer) (*Application, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	config.normalize()

	opts := []asterix.Option{asterix.WithLengthCheck(config.StrictLength)}
	registry, err := stream.NewRegistry(
		cat021.NewCodec(logger, opts...),
		cat034.NewCodec(logger, opts...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to register codecs: %w", err)
	}

	return &Application{
		config:   config,
		logger:   logger,
		session:  ksuid.New(),
		registry: registry,
		decoder:  stream.NewDecoder(registry, logger),
		stations: station.NewTracker(config.StationTTL, logger),
		stdout:   stdout,
	}, nil
}

// Session returns the id stamped on listing lines of this run
func (app *Application) Session() string {
	return app.session.String()
}

// Registry returns the category codecs
func (app *Application) Registry() *stream.Registry {
	return app.registry
}

// Stations lists the data sources seen so far
func (app *Application) Stations() []station.Station {
	return app.stations.Stations()
}

// Stats returns the stream decoder counters
func (app *Application) Stats() stream.Stats {
	return app.decoder.Stats()
}

// Decode reads r until EOF or ctx is done and lists every block. Binary
// input is a concatenation of data blocks; with Config.Hex every non-empty
// line holds one block in hex.
func (app *Application) Decode(ctx context.Context, r io.Reader) error {
	app.logger.WithFields(logrus.Fields{
		"version":    Version,
		"session":    app.Session(),
		"categories": app.registry.Categories(),
		"hex":        app.config.Hex,
	}).Info("Starting ASTERIX decoder")

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	out := app.stdout
	var rotator *logging.Rotator
	if app.config.OutputDir != "" {
		var err error
		rotator, err = logging.NewRotator(app.config.OutputDir, logging.DefaultPrefix, app.config.RotateUTC, app.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize listing file: %w", err)
		}
		out = io.MultiWriter(app.stdout, rotator)

		app.wg.Add(1)
		go func() {
			defer app.wg.Done()
			rotator.Start(ctx)
		}()
	}
	listing := output.NewWriter(out, app.registry, app.Session(), app.logger)

	app.wg.Add(1)
	go func() {
		defer app.wg.Done()
		app.reportStatistics(ctx)
	}()

	handle := func(b *stream.Block) error {
		return app.handleBlock(listing, b)
	}

	var err error
	if app.config.Hex {
		err = app.decodeHex(ctx, r, handle)
	} else {
		err = app.decoder.Run(ctx, r, handle)
	}
	if errors.Is(err, context.Canceled) {
		err = nil
	}

	app.shutdown(cancel)
	if rotator != nil {
		if cerr := rotator.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close listing file: %w", cerr)
		}
	}
	app.logStatistics("Decoding finished")
	return err
}

// handleBlock lists one block and tracks its data source
func (app *Application) handleBlock(listing *output.Writer, b *stream.Block) error {
	if err := listing.WriteBlock(b); err != nil {
		return err
	}
	if b.Record == nil {
		return nil
	}
	codec, ok := app.registry.Codec(b.Category)
	if !ok {
		return nil
	}
	if src, ok := asterix.SourceOf(codec.UAP(), b.Record); ok {
		app.stations.Observe(b.Category, src, time.Now())
	}
	return nil
}

// decodeHex feeds one hex encoded block per line to the stream decoder.
// Blank lines and lines starting with '#' are skipped. Octets left over
// after a line are dropped so that one bad line cannot shift the next.
func (app *Application) decodeHex(ctx context.Context, r io.Reader, fn func(*stream.Block) error) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*0xFFFF)

	lineNo := 0
	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		lineNo++

		data, err := ParseHex(scanner.Text())
		if err != nil {
			app.logger.WithError(err).WithField("line", lineNo).Warn("Skipping invalid hex line")
			continue
		}
		if len(data) == 0 {
			continue
		}

		blocks, err := app.decoder.Decode(data)
		if err != nil {
			return err
		}
		for _, b := range blocks {
			if err := fn(b); err != nil {
				return err
			}
		}
		if left := app.decoder.Reset(); left > 0 {
			app.logger.WithFields(logrus.Fields{
				"line":   lineNo,
				"octets": left,
			}).Warn("Line ended inside a block")
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	return nil
}

// ParseHex decodes a hex line. Whitespace between octets is allowed and a
// line starting with '#' is a comment.
func ParseHex(line string) ([]byte, error) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return nil, nil
	}
	line = strings.Join(strings.Fields(line), "")
	data, err := hex.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("invalid hex: %w", err)
	}
	return data, nil
}

// reportStatistics logs decoder counters periodically
func (app *Application) reportStatistics(ctx context.Context) {
	ticker := time.NewTicker(app.config.StatsInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.logStatistics("Decoding statistics")
		}
	}
}

func (app *Application) logStatistics(msg string) {
	stats := app.decoder.Stats()
	rate := "n/a"
	if stats.Blocks > 0 {
		rate = fmt.Sprintf("%.2f%%", float64(stats.Decoded)/float64(stats.Blocks)*100)
	}
	app.logger.WithFields(logrus.Fields{
		"session":        app.Session(),
		"octets":         stats.Received,
		"blocks":         stats.Blocks,
		"decoded":        stats.Decoded,
		"failed":         stats.Failed,
		"unknown":        stats.Unknown,
		"skipped_octets": stats.Skipped,
		"stations":       app.stations.Len(),
		"success_rate":   rate,
	}).Info(msg)
}

// shutdown stops background goroutines, giving up after shutdownTimeout
func (app *Application) shutdown(cancel context.CancelFunc) {
	cancel()

	done := make(chan struct{})
	go func() {
		app.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		app.logger.Debug("All goroutines finished")
	case <-time.After(shutdownTimeout):
		app.logger.Warn("Shutdown timeout, continuing")
	}
}

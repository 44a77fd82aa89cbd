package app

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Document is one record to encode: a category and its items keyed by data
// item id, each given as hex octets
type Document struct {
	Category uint8             `yaml:"category"`
	Items    map[string]string `yaml:"items"`
}

// EncodeDocument encodes doc into one data block
func (app *Application) EncodeDocument(doc Document) ([]byte, error) {
	codec, ok := app.registry.Codec(doc.Category)
	if !ok {
		return nil, fmt.Errorf("unsupported category %d", doc.Category)
	}
	if len(doc.Items) == 0 {
		return nil, fmt.Errorf("CAT%03d document has no items", doc.Category)
	}
	uap := codec.UAP()
	rec := uap.NewRecord()

	ids := make([]string, 0, len(doc.Items))
	for id := range doc.Items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		o, err := uap.Lookup(id)
		if err != nil {
			return nil, err
		}
		data, err := ParseHex(doc.Items[id])
		if err != nil {
			return nil, fmt.Errorf("item %s: %w", id, err)
		}
		rec.Set(o, data)
	}

	block, err := codec.Encode(rec)
	if err != nil {
		return nil, err
	}
	app.logger.WithFields(logrus.Fields{
		"category": doc.Category,
		"items":    rec.Len(),
		"length":   len(block),
	}).Debug("Encoded document")
	return block, nil
}

// Encode reads a stream of YAML documents from r and writes each encoded
// block to w as one upper case hex line
func (app *Application) Encode(r io.Reader, w io.Writer) (int, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	count := 0
	for {
		var doc Document
		err := dec.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, fmt.Errorf("failed to parse document %d: %w", count+1, err)
		}

		block, err := app.EncodeDocument(doc)
		if err != nil {
			return count, fmt.Errorf("document %d: %w", count+1, err)
		}
		if _, err := fmt.Fprintf(w, "%X\n", block); err != nil {
			return count, fmt.Errorf("failed to write block: %w", err)
		}
		count++
	}
}

package record

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/text/unicode/norm"
)

// ErrMalformed marks a record source that could be read but not decoded.
var ErrMalformed = errors.New("malformed record source")

// Default field names of the accident-report export.
const (
	DefaultIDField   = "cm_mkey"
	DefaultTextField = "cm_probableCause"
)

// SourceOptions names the fields that carry the identifier and the text.
type SourceOptions struct {
	IDField   string
	TextField string
}

func (o SourceOptions) withDefaults() SourceOptions {
	if o.IDField == "" {
		o.IDField = DefaultIDField
	}
	if o.TextField == "" {
		o.TextField = DefaultTextField
	}
	return o
}

// Load reads a JSON array of objects, each supplying an integer id field and
// a free-text field. Text is NFC-normalized so offsets and operator spans
// compare consistently. Any unreadable or malformed item fails the whole load.
func Load(path string, opts SourceOptions) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read record source: %w", err)
	}
	return Decode(data, opts)
}

// Decode parses record source bytes. See Load.
func Decode(data []byte, opts SourceOptions) (*Store, error) {
	opts = opts.withDefaults()

	var items []map[string]json.RawMessage
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	records := make([]Record, 0, len(items))
	for i, item := range items {
		var id int64
		if err := decodeField(item, opts.IDField, &id); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformed, i, err)
		}
		var text string
		if err := decodeField(item, opts.TextField, &text); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", ErrMalformed, i, err)
		}

		records = append(records, Record{ID: id, Text: norm.NFC.String(text)})
	}

	return &Store{records: records}, nil
}

// decodeField unmarshals item[name] into v. Missing and null fields are errors.
func decodeField(item map[string]json.RawMessage, name string, v any) error {
	raw, ok := item[name]
	if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return fmt.Errorf("missing field %q", name)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("field %q: %v", name, err)
	}
	return nil
}

// LoadOrEmpty is Load for process start: a failure is reported to logger and
// an empty store is returned, so the session declines to start instead of
// running against partial data.
func LoadOrEmpty(path string, opts SourceOptions, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	store, err := Load(path, opts)
	if err != nil {
		logger.Error("failed to load records", "path", path, "error", err)
		return NewStore()
	}
	logger.Info("records loaded", "path", path, "count", store.Len())
	return store
}

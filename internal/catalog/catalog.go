// Package catalog imports scraped event listings into the event catalog.
//
// The input is a JSON array of listings in the shape produced by common event
// search scrapers:
//
//	[{"title": "...", "description": "...", "link": "...",
//	  "address": ["Venue Name, 123 Main St", "Chicago, IL"],
//	  "venue": {"name": "Venue Name"}}]
//
// Fields of the wrong type are treated as missing. Listings that cannot be
// decoded at all are skipped.
package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"github.com/kcruz3/bubbl/internal/models"
)

// Column limits of the event catalog.
const (
	MaxNameLength  = 100
	MaxVenueLength = 100
	MaxLinkLength  = 4096
)

const (
	unknownVenue    = "Unknown Venue"
	unknownLocation = "Unknown"
	untitledEvent   = "Untitled Event"
)

// ErrNotArray is returned when the input's root is not a JSON array.
var ErrNotArray = errors.New("catalog root must be a JSON array of events")

// Sink receives imported events.
type Sink interface {
	CreateEvent(ctx context.Context, event *models.Event) error
}

// Result summarizes an import.
type Result struct {
	Inserted int
	Skipped  int
}

// Loader imports listings into a Sink.
type Loader struct {
	sink   Sink
	logger *slog.Logger
}

// NewLoader creates a Loader.
func NewLoader(sink Sink, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{sink: sink, logger: logger}
}

// listing is one scraped entry. Loosely typed fields are decoded lazily.
type listing struct {
	Title       json.RawMessage `json:"title"`
	Description json.RawMessage `json:"description"`
	Link        json.RawMessage `json:"link"`
	Address     json.RawMessage `json:"address"`
	Venue       json.RawMessage `json:"venue"`
}

// Load reads a JSON array from r and inserts one event per listing.
// Insert failures abort the import; the Result counts what was done so far.
func (l *Loader) Load(ctx context.Context, r io.Reader) (Result, error) {
	var raw json.RawMessage
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return Result{}, fmt.Errorf("failed to read catalog: %w", err)
	}

	var items []json.RawMessage
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("[")) || json.Unmarshal(raw, &items) != nil {
		return Result{}, ErrNotArray
	}

	var result Result
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		event, err := Parse(item)
		if err != nil {
			l.logger.Debug("Skipping listing", "index", i, "error", err)
			result.Skipped++
			continue
		}

		if err := l.sink.CreateEvent(ctx, event); err != nil {
			return result, fmt.Errorf("failed to insert listing %d: %w", i, err)
		}
		result.Inserted++
	}

	l.logger.Info("Catalog import complete", "inserted", result.Inserted, "skipped", result.Skipped)
	return result, nil
}

// Parse converts one listing into an event.
func Parse(data []byte) (*models.Event, error) {
	if !bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		return nil, errors.New("listing is not a JSON object")
	}

	var item listing
	if err := json.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	address := stringList(item.Address)

	name := normalize(stringValue(item.Title))
	if name == "" {
		name = untitledEvent
	}

	return &models.Event{
		Name:         clip(name, MaxNameLength),
		Description:  strings.TrimSpace(stringValue(item.Description)),
		VenueAddress: clip(venueAddress(item.Venue, address), MaxVenueLength),
		Location:     location(address),
		Link:         clip(normalize(stringValue(item.Link)), MaxLinkLength),
	}, nil
}

// venueAddress prefers venue.name, then the part of the first address line
// before its first comma.
func venueAddress(venue json.RawMessage, address []string) string {
	var v struct {
		Name json.RawMessage `json:"name"`
	}
	if json.Unmarshal(venue, &v) == nil {
		if name := normalize(stringValue(v.Name)); name != "" {
			return name
		}
	}

	if len(address) > 0 {
		first, _, _ := strings.Cut(address[0], ",")
		if first = normalize(first); first != "" {
			return first
		}
	}
	return unknownVenue
}

// location derives a "City, ST" location from the last address line, or from
// the first line when it is the only one.
func location(address []string) string {
	var line string
	switch {
	case len(address) == 0:
		return unknownLocation
	case len(address) > 1:
		line = address[len(address)-1]
	default:
		_, rest, found := strings.Cut(address[0], ",")
		if !found {
			return unknownLocation
		}
		line = rest
	}

	line = normalize(line)
	idx := strings.LastIndex(line, ",")
	if idx < 0 {
		if line == "" {
			return unknownLocation
		}
		return clip(line, MaxVenueLength)
	}

	city := line[:idx]
	if i := strings.LastIndex(city, ","); i >= 0 {
		city = city[i+1:]
	}
	// "IL 60601" keeps only the state code
	state, _, _ := strings.Cut(strings.TrimSpace(line[idx+1:]), " ")

	if loc := models.NormalizeLocation(city, state); loc != "" {
		return loc
	}
	return clip(line, MaxVenueLength)
}

var spaces = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	return spaces.ReplaceAllString(strings.TrimSpace(s), " ")
}

func clip(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

// stringValue returns the JSON string in raw, or "" for any other type.
func stringValue(raw json.RawMessage) string {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// stringList returns the non-blank strings of a JSON array, skipping other types.
func stringList(raw json.RawMessage) []string {
	var values []json.RawMessage
	if json.Unmarshal(raw, &values) != nil {
		return nil
	}

	var out []string
	for _, v := range values {
		if s := stringValue(v); strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

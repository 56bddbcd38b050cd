// Package catalog reads the card catalog XML into collection cards.
package catalog

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
)

// ErrCatalogUnavailable means the catalog source could not be opened or parsed.
var ErrCatalogUnavailable = errors.New("catalog unavailable")

type rawField struct {
	XMLName  xml.Name
	Text     string     `xml:",chardata"`
	Children []rawField `xml:",any"`
}

type rawCard struct {
	Fields []rawField `xml:",any"`
}

// record gives typed access to the tags inside a card element. Tags are
// found at any depth and the first in document order wins.
type record map[string]string

func newRecord(rc rawCard) record {
	r := make(record)
	var walk func(fields []rawField)
	walk = func(fields []rawField) {
		for _, f := range fields {
			if _, seen := r[f.XMLName.Local]; !seen {
				r[f.XMLName.Local] = strings.TrimSpace(f.text())
			}
			walk(f.Children)
		}
	}
	walk(rc.Fields)
	return r
}

// text is the element's own text followed by its descendants' text.
func (f rawField) text() string {
	if len(f.Children) == 0 {
		return f.Text
	}
	var b strings.Builder
	b.WriteString(f.Text)
	for _, c := range f.Children {
		b.WriteString(c.text())
	}
	return b.String()
}

// str returns the tag's value. Missing tags and the sentinels "-" and "nan"
// (any case) read as empty.
func (r record) str(tag string) string {
	v, ok := r[tag]
	if !ok || v == "-" || strings.EqualFold(v, "nan") {
		return ""
	}
	return v
}

func (r record) number(tag string) int {
	n, err := strconv.Atoi(r.str(tag))
	if err != nil {
		return 0
	}
	return n
}

func (r record) flag(tag string) bool {
	return strings.EqualFold(r.str(tag), "true")
}

func (r record) card() *collection.Card {
	return &collection.Card{
		ID:           r.str("id"),
		Name:         r.str("name"),
		Rarity:       r.str("rarity"),
		Type:         r.str("type"),
		Attribute:    r.str("attribute"),
		Power:        r.number("power"),
		Counter:      r.number("counter"),
		Color:        r.str("color"),
		CardType:     r.str("cardtype"),
		Effect:       r.str("effect"),
		ImageURL:     r.str("imageurl"),
		AlternateArt: r.flag("alternateart"),
		SeriesID:     r.str("seriesid"),
		SeriesName:   r.str("seriesname"),
	}
}

// Options configures catalog loading.
type Options struct {
	Logger *slog.Logger
}

// Load opens the catalog file at path and parses it.
func Load(path string, opts Options) ([]*collection.Card, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrCatalogUnavailable, path, err)
	}
	defer func() { _ = f.Close() }()

	cards, err := Parse(f, opts)
	if err != nil {
		return nil, err
	}
	logger(opts).Info("catalog loaded", "path", path, "cards", len(cards))
	return cards, nil
}

// Parse reads every card element from r, wherever it sits in the document.
// Records are never rejected for bad fields; only a record whose non-empty id
// was already seen is skipped. Any XML error fails the whole parse.
func Parse(r io.Reader, opts Options) ([]*collection.Card, error) {
	log := logger(opts)
	dec := xml.NewDecoder(r)

	var cards []*collection.Card
	seen := make(map[string]struct{})
	sawRoot := false

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		sawRoot = true
		if start.Name.Local != "card" {
			continue
		}

		var rc rawCard
		if err := dec.DecodeElement(&rc, &start); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
		}

		card := newRecord(rc).card()
		if card.ID != "" {
			if _, dup := seen[card.ID]; dup {
				log.Warn("skipping duplicate card id", "id", card.ID, "name", card.Name)
				continue
			}
			seen[card.ID] = struct{}{}
		}
		cards = append(cards, card)
	}

	if !sawRoot {
		return nil, fmt.Errorf("%w: document has no elements", ErrCatalogUnavailable)
	}
	return cards, nil
}

func logger(opts Options) *slog.Logger {
	if opts.Logger == nil {
		return slog.Default()
	}
	return opts.Logger
}

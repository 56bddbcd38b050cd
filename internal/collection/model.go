package collection

import (
	"errors"
	"slices"
	"sort"
)

// AllSeries is the selector value that stands for every series.
const AllSeries = "All Sets"

// ErrResetAll is returned when a reset is requested without a specific series.
var ErrResetAll = errors.New("reset requires a specific series")

// Predicate selects cards for a view.
type Predicate func(*Card) bool

// Model is the canonical, ordered set of cards for a session.
// It is not safe for concurrent use; callers serialize access.
type Model struct {
	cards []*Card
	byID  map[string]*Card
}

// NewModel builds a model over cards in catalog order. Later cards with an id
// already present are ignored. Cards without an id are kept but cannot be
// looked up or persisted.
func NewModel(cards []*Card) *Model {
	m := &Model{
		cards: make([]*Card, 0, len(cards)),
		byID:  make(map[string]*Card, len(cards)),
	}
	for _, c := range cards {
		if c == nil {
			continue
		}
		if c.ID == "" {
			m.cards = append(m.cards, c)
			continue
		}
		if _, dup := m.byID[c.ID]; dup {
			continue
		}
		m.cards = append(m.cards, c)
		m.byID[c.ID] = c
	}
	return m
}

// Cards returns every card in catalog order.
func (m *Model) Cards() []*Card {
	out := make([]*Card, len(m.cards))
	copy(out, m.cards)
	return out
}

// Len returns the number of cards in the model.
func (m *Model) Len() int { return len(m.cards) }

// Lookup finds a card by id.
func (m *Model) Lookup(id string) (*Card, bool) {
	c, ok := m.byID[id]
	return c, ok
}

// BySeries matches cards whose series name equals name. AllSeries or an
// empty name match everything.
func BySeries(name string) Predicate {
	if name == "" || name == AllSeries {
		return func(*Card) bool { return true }
	}
	return func(c *Card) bool { return c.SeriesName == name }
}

// Missing narrows base to cards the user does not own when onlyMissing is set.
func Missing(base Predicate, onlyMissing bool) Predicate {
	if !onlyMissing {
		return base
	}
	return func(c *Card) bool { return base(c) && c.owned == 0 }
}

// Filter returns the cards matching p, in catalog order.
func (m *Model) Filter(p Predicate) []*Card {
	var out []*Card
	for _, c := range m.cards {
		if p(c) {
			out = append(out, c)
		}
	}
	return out
}

// IncrementOwned adds one copy of card. Cards that are not part of the model
// are ignored.
func (m *Model) IncrementOwned(card *Card) {
	if card == nil {
		return
	}
	if card.ID == "" {
		if slices.Contains(m.cards, card) {
			card.owned++
		}
		return
	}
	if c, ok := m.byID[card.ID]; ok {
		c.owned++
	}
}

// ResetSeries sets the owned quantity of every card in the named series to
// zero and reports how many cards changed.
func (m *Model) ResetSeries(name string) (int, error) {
	if name == "" || name == AllSeries {
		return 0, ErrResetAll
	}
	changed := 0
	for _, c := range m.cards {
		if c.SeriesName == name && c.owned != 0 {
			c.owned = 0
			changed++
		}
	}
	return changed, nil
}

// Progress returns the sparse id -> quantity mapping of owned cards.
func (m *Model) Progress() map[string]int {
	progress := make(map[string]int)
	for _, c := range m.cards {
		if c.owned > 0 && c.ID != "" {
			progress[c.ID] = c.owned
		}
	}
	return progress
}

// ApplyProgress sets quantities from a persisted mapping. Unknown ids and
// non-positive quantities are skipped. It returns the number of cards updated.
func (m *Model) ApplyProgress(progress map[string]int) int {
	applied := 0
	for id, qty := range progress {
		if qty <= 0 {
			continue
		}
		if c, ok := m.byID[id]; ok {
			c.owned = qty
			applied++
		}
	}
	return applied
}

// SeriesNames returns the distinct series names in sorted order, with
// AllSeries first.
func (m *Model) SeriesNames() []string {
	seen := make(map[string]struct{})
	for _, c := range m.cards {
		seen[c.SeriesName] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return append([]string{AllSeries}, names...)
}

// PackInfo describes an openable product for the pack chooser.
type PackInfo struct {
	Code       string
	Title      string
	SeriesName string
}

// Packs lists one entry per series code, sorted by code. When several series
// names share a code the first one in catalog order wins.
func (m *Model) Packs() []PackInfo {
	byCode := make(map[string]PackInfo)
	for _, c := range m.cards {
		code := SeriesCode(c.SeriesName)
		if _, ok := byCode[code]; ok {
			continue
		}
		byCode[code] = PackInfo{
			Code:       code,
			Title:      SeriesTitle(c.SeriesName),
			SeriesName: c.SeriesName,
		}
	}
	packs := make([]PackInfo, 0, len(byCode))
	for _, p := range byCode {
		packs = append(packs, p)
	}
	sort.Slice(packs, func(i, j int) bool { return packs[i].Code < packs[j].Code })
	return packs
}

// SeriesStats summarises completion for one series.
type SeriesStats struct {
	SeriesName string
	Code       string
	Total      int // distinct cards in the series
	Owned      int // distinct cards with at least one copy
	Copies     int // total copies owned
}

// Percent returns the share of distinct cards owned, from 0 to 100.
func (s SeriesStats) Percent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Owned) * 100 / float64(s.Total)
}

// Completion returns per-series statistics sorted by series name.
func (m *Model) Completion() []SeriesStats {
	byName := make(map[string]*SeriesStats)
	for _, c := range m.cards {
		s, ok := byName[c.SeriesName]
		if !ok {
			s = &SeriesStats{SeriesName: c.SeriesName, Code: SeriesCode(c.SeriesName)}
			byName[c.SeriesName] = s
		}
		s.Total++
		if c.owned > 0 {
			s.Owned++
			s.Copies += c.owned
		}
	}
	stats := make([]SeriesStats, 0, len(byName))
	for _, s := range byName {
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].SeriesName < stats[j].SeriesName })
	return stats
}

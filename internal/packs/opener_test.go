package packs

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
)

func testCards() []*collection.Card {
	return []*collection.Card{
		{ID: "A1", SeriesName: "ROMANCE DAWN- [OP-01]"},
		{ID: "A2", SeriesName: "ROMANCE DAWN- [OP-01]"},
		{ID: "A3", SeriesName: "ROMANCE DAWN - [OP - 01]"},
		{ID: "S1", SeriesName: "Starter Deck: Straw Hat Crew- [ST-01]"},
		{ID: "S2", SeriesName: "Starter Deck: Straw Hat Crew- [ST-01]"},
		{ID: "S3", SeriesName: "Starter Deck: Straw Hat Crew- [ST-01]"},
		{ID: "E1", SeriesName: "Memorial Collection- [EB-01]"},
	}
}

func seededOpener(t *testing.T, opts Options) *Opener {
	t.Helper()
	if opts.Source == nil {
		opts.Source = rand.New(rand.NewPCG(1, 2))
	}
	o, err := NewOpener(opts)
	if err != nil {
		t.Fatalf("NewOpener() error = %v", err)
	}
	return o
}

func ids(cards []*collection.Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.ID
	}
	return out
}

func TestNewOpener_Validation(t *testing.T) {
	if _, err := NewOpener(Options{PackSize: -1}); err == nil {
		t.Fatal("expected error for negative pack size")
	}
	o, err := NewOpener(Options{})
	if err != nil {
		t.Fatalf("NewOpener() error = %v", err)
	}
	if o.size != DefaultPackSize {
		t.Errorf("expected default size %d, got %d", DefaultPackSize, o.size)
	}
	if !o.IsFixed("ST-10") || o.IsFixed("OP-01") {
		t.Error("expected ST- to be the default fixed prefix")
	}
}

func TestPool_NormalizesWhitespace(t *testing.T) {
	got := ids(Pool("OP-01", testCards()))
	want := []string{"A1", "A2", "A3"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestOpen_FixedContents(t *testing.T) {
	o := seededOpener(t, Options{})

	pack, err := o.Open("ST-01", testCards())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if pack.Kind != KindFixed {
		t.Fatalf("expected fixed pack, got %s", pack.Kind)
	}
	got := ids(pack.Cards)
	want := []string{"S1", "S2", "S3"}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestOpen_RandomDrawsFromPool(t *testing.T) {
	o := seededOpener(t, Options{})
	members := map[string]bool{"A1": true, "A2": true, "A3": true}

	pack, err := o.Open("OP-01", testCards())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if pack.Kind != KindRandom {
		t.Fatalf("expected random pack, got %s", pack.Kind)
	}
	if len(pack.Cards) != 12 {
		t.Fatalf("expected 12 cards, got %d", len(pack.Cards))
	}
	for _, c := range pack.Cards {
		if !members[c.ID] {
			t.Errorf("drew %s from outside the pool", c.ID)
		}
	}
}

func TestOpen_SmallPoolUsesReplacement(t *testing.T) {
	o := seededOpener(t, Options{})

	pack, err := o.Open("EB-01", testCards())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(pack.Cards) != 12 {
		t.Fatalf("expected 12 cards, got %d", len(pack.Cards))
	}
	for _, c := range pack.Cards {
		if c.ID != "E1" {
			t.Errorf("expected only E1, got %s", c.ID)
		}
	}
}

func TestOpen_ConfiguredFixedPrefix(t *testing.T) {
	o := seededOpener(t, Options{FixedPrefixes: []string{"ST-", "EB-"}})

	pack, err := o.Open("EB-01", testCards())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if pack.Kind != KindFixed || len(pack.Cards) != 1 {
		t.Errorf("expected fixed single-card pack, got %s with %d cards", pack.Kind, len(pack.Cards))
	}
}

func TestOpen_EmptyPool(t *testing.T) {
	o := seededOpener(t, Options{})

	pack, err := o.Open("OP-99", testCards())
	if !errors.Is(err, ErrEmptyPool) {
		t.Fatalf("expected ErrEmptyPool, got %v", err)
	}
	if pack != nil {
		t.Errorf("expected no pack, got %+v", pack)
	}
}

func TestOpen_CustomSize(t *testing.T) {
	o := seededOpener(t, Options{PackSize: 5})

	pack, err := o.Open("OP-01", testCards())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if len(pack.Cards) != 5 {
		t.Errorf("expected 5 cards, got %d", len(pack.Cards))
	}
}

// TestOpen_Uniform opens 1000 packs from a three-card pool and checks each
// card lands near a third of the 12,000 draws.
func TestOpen_Uniform(t *testing.T) {
	o := seededOpener(t, Options{})
	cards := testCards()[:2]
	cards = append(cards, &collection.Card{ID: "A3", SeriesName: "ROMANCE DAWN- [OP-01]"})

	counts := make(map[string]int)
	const opens = 1000
	for i := 0; i < opens; i++ {
		pack, err := o.Open("OP-01", cards)
		if err != nil {
			t.Fatalf("Open() error = %v", err)
		}
		for _, c := range pack.Cards {
			counts[c.ID]++
		}
	}

	total := opens * DefaultPackSize
	expected := float64(total) / 3
	// Binomial standard deviation is about 52 here; allow six of them.
	tolerance := 6 * math.Sqrt(float64(total)*(1.0/3)*(2.0/3))

	if len(counts) != 3 {
		t.Fatalf("expected exactly 3 distinct ids, got %v", counts)
	}
	sum := 0
	for id, n := range counts {
		sum += n
		if math.Abs(float64(n)-expected) > tolerance {
			t.Errorf("%s drawn %d times, expected about %.0f", id, n, expected)
		}
	}
	if sum != total {
		t.Errorf("expected %d draws, got %d", total, sum)
	}
}

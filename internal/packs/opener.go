// Package packs selects card pools and opens packs from them.
package packs

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/ramonehamilton/OPTCG-Pack-Simulator/internal/collection"
)

// DefaultPackSize is the number of cards drawn from a randomized pack.
const DefaultPackSize = 12

// ErrEmptyPool means no catalog card belongs to the requested series code.
var ErrEmptyPool = errors.New("no cards found for set")

// Kind distinguishes fixed-contents products from randomized boosters.
type Kind int

const (
	KindRandom Kind = iota
	KindFixed
)

func (k Kind) String() string {
	if k == KindFixed {
		return "fixed"
	}
	return "random"
}

// Source yields uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// Pack is the result of opening a product.
type Pack struct {
	Code  string
	Kind  Kind
	Cards []*collection.Card
}

// Options configures an Opener.
type Options struct {
	// PackSize is the number of draws for randomized packs. Default: 12
	PackSize int

	// FixedPrefixes lists series-code prefixes of fixed-contents products
	// such as starter decks. Default: ["ST-"]
	FixedPrefixes []string

	// Source provides randomness. Default: a randomly seeded PCG.
	Source Source
}

// DefaultOptions returns the standard pack rules.
func DefaultOptions() Options {
	return Options{
		PackSize:      DefaultPackSize,
		FixedPrefixes: []string{"ST-"},
	}
}

// Opener applies the pack rules to a card pool.
type Opener struct {
	size     int
	prefixes []string
	src      Source
}

// NewOpener creates an opener. Zero-valued options fall back to defaults.
func NewOpener(opts Options) (*Opener, error) {
	if opts.PackSize < 0 {
		return nil, fmt.Errorf("pack size cannot be negative: %d", opts.PackSize)
	}
	if opts.PackSize == 0 {
		opts.PackSize = DefaultPackSize
	}
	if opts.FixedPrefixes == nil {
		opts.FixedPrefixes = DefaultOptions().FixedPrefixes
	}
	if opts.Source == nil {
		opts.Source = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Opener{
		size:     opts.PackSize,
		prefixes: opts.FixedPrefixes,
		src:      opts.Source,
	}, nil
}

// IsFixed reports whether code names a fixed-contents product.
func (o *Opener) IsFixed(code string) bool {
	for _, p := range o.prefixes {
		if p != "" && strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// Pool returns every card whose series name, ignoring spaces, contains
// "[code]". Catalog order is preserved.
func Pool(code string, cards []*collection.Card) []*collection.Card {
	token := "[" + code + "]"
	var pool []*collection.Card
	for _, c := range cards {
		if strings.Contains(strings.ReplaceAll(c.SeriesName, " ", ""), token) {
			pool = append(pool, c)
		}
	}
	return pool
}

// Open builds a pack for code from cards. Fixed products contain the whole
// pool once each, in order. Randomized packs draw PackSize cards uniformly
// with replacement, so duplicates are expected.
func (o *Opener) Open(code string, cards []*collection.Card) (*Pack, error) {
	code = strings.TrimSpace(code)
	pool := Pool(code, cards)
	if len(pool) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyPool, code)
	}

	if o.IsFixed(code) {
		return &Pack{Code: code, Kind: KindFixed, Cards: pool}, nil
	}

	pulled := make([]*collection.Card, o.size)
	for i := range pulled {
		pulled[i] = pool[o.src.IntN(len(pool))]
	}
	return &Pack{Code: code, Kind: KindRandom, Cards: pulled}, nil
}

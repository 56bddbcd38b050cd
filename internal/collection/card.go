// Package collection holds the card entities and the in-memory collection model.
package collection

import (
	"fmt"
	"regexp"
	"strings"
)

// Card is a single catalog entry plus the number of copies the user owns.
// Everything except the owned quantity is fixed once the catalog is loaded.
type Card struct {
	ID           string
	Name         string
	Rarity       string
	Type         string
	Attribute    string
	Power        int
	Counter      int
	Color        string
	CardType     string
	Effect       string
	ImageURL     string
	AlternateArt bool
	SeriesID     string
	SeriesName   string // e.g. "ROMANCE DAWN- [OP-01]"

	owned int
}

// Owned returns how many copies of the card the user has.
func (c *Card) Owned() int { return c.owned }

// Code returns the series code embedded in the card's series name.
func (c *Card) Code() string { return SeriesCode(c.SeriesName) }

func (c *Card) String() string {
	return fmt.Sprintf("%s (%s, %s)", c.Name, c.ID, c.Rarity)
}

var (
	bracketToken = regexp.MustCompile(`\[([^\]]*)\]`)
	bracketTail  = regexp.MustCompile(`-?\s*\[.*\]`)
)

// SeriesCode extracts the set code from a series display name, using the last
// bracketed token. "ROMANCE DAWN- [OP-01]" yields "OP-01". Names without a
// bracketed token are returned trimmed.
func SeriesCode(seriesName string) string {
	matches := bracketToken.FindAllStringSubmatch(seriesName, -1)
	if len(matches) == 0 {
		return strings.TrimSpace(seriesName)
	}
	return strings.TrimSpace(matches[len(matches)-1][1])
}

// SeriesTitle strips the bracketed code from a series display name.
func SeriesTitle(seriesName string) string {
	return strings.TrimSpace(bracketTail.ReplaceAllString(seriesName, ""))
}

// Package view holds presentation models shared by the HTML templates and the
// terminal UI.
package view

import (
	"fmt"
	"unicode/utf8"

	"github.com/simp-lee/advocates/internal/domain"
)

const (
	// VisibleTags is how many specialties a collapsed card shows.
	VisibleTags = 3
	// MaxTagLength is the longest tag shown in full.
	MaxTagLength = 30
	// truncatedTagLength is how many runes of a long tag are kept before "...".
	truncatedTagLength = 27
)

// Tag is one specialty as displayed. Full is the untruncated text.
type Tag struct {
	Display string
	Full    string
}

// Card is the display model of one advocate.
type Card struct {
	ID         uint
	Initials   string
	FullName   string
	City       string
	Degree     string
	Experience string
	Phone      string
	Visible    []Tag
	Hidden     []Tag
}

// NewCard builds the display model of a.
func NewCard(a domain.Advocate) Card {
	c := Card{
		ID:         a.ID,
		Initials:   Initials(a.FirstName, a.LastName),
		FullName:   a.FirstName + " " + a.LastName,
		City:       a.City,
		Degree:     a.Degree,
		Experience: fmt.Sprintf("%d years", a.YearsOfExperience),
		Phone:      a.PhoneNumber,
		Visible:    []Tag{},
		Hidden:     []Tag{},
	}
	for i, s := range a.Specialties {
		t := Tag{Display: TruncateTag(s), Full: s}
		if i < VisibleTags {
			c.Visible = append(c.Visible, t)
		} else {
			c.Hidden = append(c.Hidden, t)
		}
	}
	return c
}

// NewCards builds display models for a page of records.
func NewCards(list []domain.Advocate) []Card {
	cards := make([]Card, 0, len(list))
	for _, a := range list {
		cards = append(cards, NewCard(a))
	}
	return cards
}

// MoreCount is the number of specialties hidden while the card is collapsed.
func (c Card) MoreCount() int {
	return len(c.Hidden)
}

// MoreLabel is the text of the reveal control, e.g. "+2 more". Empty when
// nothing is hidden.
func (c Card) MoreLabel() string {
	if len(c.Hidden) == 0 {
		return ""
	}
	return fmt.Sprintf("+%d more", len(c.Hidden))
}

// Tags returns the tags to show. Once expanded a card stays expanded; there is
// no collapse control.
func (c Card) Tags(expanded bool) []Tag {
	if !expanded || len(c.Hidden) == 0 {
		return c.Visible
	}
	all := make([]Tag, 0, len(c.Visible)+len(c.Hidden))
	all = append(all, c.Visible...)
	return append(all, c.Hidden...)
}

// Initials returns the first letter of each name.
func Initials(first, last string) string {
	return firstRune(first) + firstRune(last)
}

func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

// TruncateTag shortens tags longer than MaxTagLength runes to their first 27
// runes followed by "...".
func TruncateTag(s string) string {
	if utf8.RuneCountInString(s) <= MaxTagLength {
		return s
	}
	runes := []rune(s)
	return string(runes[:truncatedTagLength]) + "..."
}

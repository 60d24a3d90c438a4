package sanitizer

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// NameStripperer cleans upstream team and player names before they are
// embedded in stored question text.
type NameStripperer interface {
	StripName(s string) string
}

type NameStripper struct {
	bm *bluemonday.Policy
}

// NewNameStripper returns a stripper backed by the bluemonday strict policy.
func NewNameStripper() *NameStripper {
	return &NameStripper{
		bm: bluemonday.StrictPolicy(),
	}
}

// StripName removes any markup from an upstream name and collapses the
// surrounding whitespace. Provider payloads are not trusted: names flow
// straight into rows served to clients. The entity escaping bluemonday
// applies is undone afterwards: stripped names are later exact-matched
// against raw feed names, so "De'Aaron Fox" must stay "De'Aaron Fox".
func (ns *NameStripper) StripName(s string) string {
	stripped := html.UnescapeString(ns.bm.Sanitize(s))
	return strings.Join(strings.Fields(stripped), " ")
}

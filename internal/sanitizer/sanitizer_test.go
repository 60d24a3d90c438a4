package sanitizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripName(t *testing.T) {
	ns := NewNameStripper()

	assert.Equal(t, "Los Angeles Lakers", ns.StripName("Los Angeles Lakers"))
	assert.Equal(t, "Lakers", ns.StripName("<b>Lakers</b>"))
	assert.Equal(t, "LeBron James", ns.StripName("  LeBron   James \n"))
	assert.Equal(t, "", ns.StripName("<script>alert(1)</script>"))
}

// Names with apostrophes or ampersands must come back byte-identical:
// they are exact-match keys against the raw feed later.
func TestStripNamePreservesPunctuation(t *testing.T) {
	ns := NewNameStripper()

	assert.Equal(t, "De'Aaron Fox", ns.StripName("De'Aaron Fox"))
	assert.Equal(t, "Texas A&M Aggies", ns.StripName("Texas A&M Aggies"))
	assert.Equal(t, "Shaquille O'Neal", ns.StripName("<i>Shaquille O'Neal</i>"))
}

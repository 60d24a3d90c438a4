package resolve

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/propline/propline/models"
)

// Older rows carry no resolution descriptor, so their question text is the
// only record of which side YES is. These patterns are the exact inverse of
// the render templates; a wording change there breaks grading here.
var (
	spreadPattern    = regexp.MustCompile(`^Will (.+) cover ([+-]?\d+(?:\.\d+)?) vs (.+)\?$`)
	totalPattern     = regexp.MustCompile(`^Will (.+) vs (.+) go OVER (\d+(?:\.\d+)?) points\?$`)
	propPattern      = regexp.MustCompile(`^Will (.+) get OVER (\d+(?:\.\d+)?) (.+)\?$`)
	moneylinePattern = regexp.MustCompile(`^Will (.+) win against (.+)\?$`)
)

// parseQuestion recovers the resolution descriptor from rendered question
// text. The order matters: the spread, total and prop phrasings each carry a
// distinctive marker, while the moneyline pattern is the loosest and goes last.
func parseQuestion(question string) (*models.Resolution, error) {
	if m := spreadPattern.FindStringSubmatch(question); m != nil {
		line, err := decimal.NewFromString(m[2])
		if err != nil {
			return nil, fmt.Errorf("parse spread line %q: %w", m[2], err)
		}
		return &models.Resolution{
			Kind:     models.ResolutionSpread,
			Team:     m[1],
			Opponent: m[3],
			Line:     line,
		}, nil
	}

	if m := totalPattern.FindStringSubmatch(question); m != nil {
		line, err := decimal.NewFromString(m[3])
		if err != nil {
			return nil, fmt.Errorf("parse total line %q: %w", m[3], err)
		}
		return &models.Resolution{
			Kind:      models.ResolutionTotal,
			Team:      m[1],
			Opponent:  m[2],
			Line:      line,
			Direction: models.DirectionOver,
		}, nil
	}

	if m := propPattern.FindStringSubmatch(question); m != nil {
		line, err := decimal.NewFromString(m[2])
		if err != nil {
			return nil, fmt.Errorf("parse prop line %q: %w", m[2], err)
		}
		return &models.Resolution{
			Kind:      models.ResolutionPlayerProp,
			Subject:   m[1],
			Stat:      strings.ReplaceAll(m[3], " ", "_"),
			Line:      line,
			Direction: models.DirectionOver,
		}, nil
	}

	if m := moneylinePattern.FindStringSubmatch(question); m != nil {
		return &models.Resolution{
			Kind:     models.ResolutionMoneyline,
			Team:     m[1],
			Opponent: m[2],
		}, nil
	}

	return nil, fmt.Errorf("question matches no known template: %q", question)
}

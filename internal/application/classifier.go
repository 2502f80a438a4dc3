package application

import (
	"strings"

	"voice-servo/internal/domain"
)

type turn struct {
	distance string
	right    domain.Command
	left     domain.Command
}

// Distances are checked in this order; the first band present wins.
var turns = []turn{
	{"180", domain.Command180Right, domain.Command180Left},
	{"90", domain.Command90Right, domain.Command90Left},
	{"30", domain.Command30Right, domain.Command30Left},
}

// Classify maps a lowercased transcript to a command using substring
// containment, first match wins. It returns domain.CommandNone when nothing
// matches.
func Classify(text string) domain.Command {
	if strings.Contains(text, "open") {
		return domain.CommandOpen
	}
	if strings.Contains(text, "close") {
		return domain.CommandClose
	}

	for _, t := range turns {
		if !strings.Contains(text, t.distance) {
			continue
		}
		if strings.Contains(text, "right") {
			return t.right
		}
		if strings.Contains(text, "left") {
			return t.left
		}
	}

	if strings.Contains(text, "dance") {
		return domain.CommandDance
	}

	return domain.CommandNone
}

// Package damagetype parses free-text aspect descriptions into
// structured damage-interaction grants, and resolves a character's
// aggregate defenses from them.
//
// Pattern precedence: the "chosen from the following list" form is
// matched before plain resistance, because its lead-in ("resistant to
// three damage types") would otherwise match the fixed-resistance
// pattern with the count word captured as a type name.
package damagetype

import (
	"regexp"
	"strconv"
	"strings"
)

// Category classifies how an aspect interacts with a damage type.
type Category string

const (
	CategoryDealing    Category = "dealing"
	CategoryResistance Category = "resistance"
	CategoryImmunity   Category = "immunity"
	CategoryWeakness   Category = "weakness"
)

// Selection distinguishes grants whose types apply inherently from
// grants where the player picks from a candidate list.
type Selection string

const (
	SelectionFixed  Selection = "fixed"
	SelectionChoose Selection = "choose"
)

// Range is the attack range of a dealing grant.
type Range string

const (
	RangeCQ Range = "CQ"
	RangeLR Range = "LR"
	RangeUR Range = "UR"
)

// Grant is one structured damage-interaction fact parsed from an aspect
// description.
type Grant struct {
	Category    Category  `json:"category"`
	Selection   Selection `json:"selectionType"`
	Options     []string  `json:"options"`
	ChooseCount int       `json:"chooseCount,omitempty"`
	Range       Range     `json:"range,omitempty"`
}

const defaultChooseCount = 3

var (
	dealingRe = regexp.MustCompile(`(?i)\bdeals?\s+(CQ|LR|UR)\s+([\w\s,]+?)\s+damage`)
	chooseRe  = regexp.MustCompile(`(?i)\bresistant\s+to\s+(\w+)\s+damage\s+types?[,\s]*chosen\s+from\s+the\s+following\s+list[:\s]*([\w\s,]+)`)
	resistRe  = regexp.MustCompile(`(?i)\bresistant\s+to\s+([\w\s,]+?)\s+damage`)
	immuneRe  = regexp.MustCompile(`(?i)\bimmun(?:e|ity)\s+to\s+([\w\s,]+?)\s+damage`)
	weakRe    = regexp.MustCompile(`(?i)\bweak(?:ness)?\s+to\s+([\w\s,]+?)\s+damage`)

	// "and"/"or" are equivalent separators for fixed grants.
	typeSplitRe = regexp.MustCompile(`(?i)\s*(?:,|\band\b|\bor\b)\s*`)
)

var wordNumbers = map[string]int{
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
}

// Parse extracts damage-interaction grants from a free-text ability
// description. It is pure and deterministic. It returns nil when the
// text contains no recognizable grant, never an empty slice.
func Parse(description string) []Grant {
	if description == "" {
		return nil
	}

	var grants []Grant

	for _, m := range dealingRe.FindAllStringSubmatch(description, -1) {
		options := splitTypes(m[2])
		if len(options) == 0 {
			continue
		}
		grants = append(grants, Grant{
			Category:  CategoryDealing,
			Selection: SelectionFixed,
			Options:   options,
			Range:     Range(strings.ToUpper(m[1])),
		})
	}

	if m := chooseRe.FindStringSubmatch(description); m != nil {
		options := splitTypes(m[2])
		if len(options) > 0 {
			grants = append(grants, Grant{
				Category:    CategoryResistance,
				Selection:   SelectionChoose,
				Options:     options,
				ChooseCount: parseCount(m[1]),
			})
		}
	} else if m := resistRe.FindStringSubmatch(description); m != nil {
		options := splitTypes(m[1])
		if len(options) > 0 {
			grants = append(grants, Grant{
				Category:  CategoryResistance,
				Selection: SelectionFixed,
				Options:   options,
			})
		}
	}

	if m := immuneRe.FindStringSubmatch(description); m != nil {
		options := splitTypes(m[1])
		if len(options) > 0 {
			grants = append(grants, Grant{
				Category:  CategoryImmunity,
				Selection: SelectionFixed,
				Options:   options,
			})
		}
	}

	if m := weakRe.FindStringSubmatch(description); m != nil {
		options := splitTypes(m[1])
		if len(options) > 0 {
			grants = append(grants, Grant{
				Category:  CategoryWeakness,
				Selection: SelectionFixed,
				Options:   options,
			})
		}
	}

	if len(grants) == 0 {
		return nil
	}
	return grants
}

// parseCount resolves the count in "resistant to <N> damage types" from
// a word number or literal digit, defaulting when unparseable.
func parseCount(word string) int {
	if n, ok := wordNumbers[strings.ToLower(word)]; ok {
		return n
	}
	if n, err := strconv.Atoi(word); err == nil && n > 0 {
		return n
	}
	return defaultChooseCount
}

// splitTypes breaks a comma/and/or-joined list of type names into
// normalized entries.
func splitTypes(list string) []string {
	parts := typeSplitRe.Split(strings.TrimSpace(list), -1)
	types := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		types = append(types, NormalizeType(p))
	}
	if len(types) == 0 {
		return nil
	}
	return types
}

// NormalizeType re-capitalizes a damage-type name to TitleCase and
// applies known aliases ("cold" is the legacy name for Frost).
func NormalizeType(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return name
	}
	if strings.EqualFold(name, "cold") {
		return "Frost"
	}
	runes := []rune(strings.ToLower(name))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return string(runes)
}

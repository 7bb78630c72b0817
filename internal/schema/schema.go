// Package schema is the per-field rule table for the release wizard. It is
// pure and deterministic: no I/O, no model calls. Reasons are user-facing
// and surfaced verbatim by the dialogue controller.
package schema

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/releasewizard/api/internal/model"
)

// Result is the outcome of validating one raw value against one field.
type Result struct {
	OK         bool
	Normalized string
	Reason     string
}

func ok(normalized string) Result {
	return Result{OK: true, Normalized: normalized}
}

func fail(reason string) Result {
	return Result{OK: false, Reason: reason}
}

// Punctuation forbidden in free-text fields. Parentheses and brackets are
// handled separately because title-like fields allow them.
const forbiddenPunct = `!@#$%^&*+=<>/\|~{}";:`

// Tokens that may not appear in a custom version label. DSPs reject these
// because they belong in other fields or are implied.
var reservedVersionTokens = []string{"original", "album", "explicit", "official", "feat"}

var (
	upcPattern  = regexp.MustCompile(`^\d{12,13}$`)
	isrcPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}\d{2}\d{5}$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearPattern = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)
	spaceRuns   = regexp.MustCompile(`\s+`)
)

type fieldRule struct {
	required      bool
	minWords      int
	allowBrackets bool
	forbidden     []string
	check         func(normalized string) Result
}

var rules = map[model.FieldID]fieldRule{
	model.FieldTitle: {
		required:      true,
		allowBrackets: true,
		forbidden:     []string{"http://", "https://", "www."},
	},
	model.FieldVersionCustom: {
		required: true,
		check:    checkVersionCustom,
	},
	model.FieldGenre: {
		required: true,
		check:    checkGenre,
	},
	model.FieldReleaseDate: {
		required: true,
		check:    checkReleaseDate,
	},
	model.FieldLabel: {
		forbidden: []string{"http://", "https://", "www."},
	},
	model.FieldUPC: {
		check: checkUPC,
	},
	model.FieldISRC: {
		check: checkISRC,
	},
	model.FieldComposerName:  legalNameRule,
	model.FieldPerformerName: legalNameRule,
	model.FieldProducerName:  legalNameRule,
	model.FieldLyricistName:  legalNameRule,
	model.FieldLyricsLanguage: {
		required: true,
		check:    checkLanguage,
	},
}

var legalNameRule = fieldRule{
	required: true,
	minWords: 2,
}

// Validate checks a raw value against the rule table for one field.
// Validating an already-normalized accepted value is a no-op.
func Validate(field model.FieldID, raw string) Result {
	rule, known := rules[field]
	if !known {
		return fail(fmt.Sprintf("Unknown field %q.", field))
	}

	normalized := Normalize(raw)

	if normalized == "" {
		if rule.required {
			return fail("This field is required — please give me a value.")
		}
		return ok("")
	}

	lower := strings.ToLower(normalized)
	for _, sub := range rule.forbidden {
		if strings.Contains(lower, sub) {
			return fail(fmt.Sprintf("That value can't contain %q.", sub))
		}
	}

	punct := forbiddenPunct
	if !rule.allowBrackets {
		punct += `()[]`
	}
	if i := strings.IndexAny(normalized, punct); i >= 0 {
		return fail(fmt.Sprintf("The character %q isn't allowed here.", normalized[i:i+1]))
	}

	if rule.minWords > 0 && len(strings.Fields(normalized)) < rule.minWords {
		return fail("Please use a full legal name (first and last name), not a stage alias.")
	}

	if rule.check != nil {
		return rule.check(normalized)
	}

	return ok(normalized)
}

// Normalize trims the value and collapses internal whitespace runs.
func Normalize(raw string) string {
	return spaceRuns.ReplaceAllString(strings.TrimSpace(raw), " ")
}

// IsRequired reports whether the field must have a value.
func IsRequired(field model.FieldID) bool {
	return rules[field].required
}

func checkVersionCustom(v string) Result {
	lower := strings.ToLower(v)
	for _, token := range reservedVersionTokens {
		for _, word := range strings.FieldsFunc(lower, func(r rune) bool {
			return r == ' ' || r == '.' || r == ',' || r == '(' || r == ')'
		}) {
			if word == token {
				return fail(fmt.Sprintf("%q is a reserved word and can't be used in a custom version.", token))
			}
		}
	}
	if m := yearPattern.FindString(v); m != "" {
		year, _ := strconv.Atoi(m)
		if year < 1900 || year > time.Now().Year() {
			return fail(fmt.Sprintf("The year %d looks wrong — it should be between 1900 and %d.", year, time.Now().Year()))
		}
	}
	return ok(v)
}

func checkGenre(v string) Result {
	for _, g := range model.ValidGenres {
		if strings.EqualFold(g, v) {
			return ok(g)
		}
	}
	return fail(fmt.Sprintf("%q isn't a genre the stores accept. Try one of: %s.", v, strings.Join(model.ValidGenres, ", ")))
}

func checkReleaseDate(v string) Result {
	if !datePattern.MatchString(v) {
		return fail("Please give the date as YYYY-MM-DD.")
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return fail("That's not a real calendar date — please use YYYY-MM-DD.")
	}
	if t.Before(time.Now().Truncate(24 * time.Hour)) {
		return fail("The release date can't be in the past.")
	}
	return ok(v)
}

func checkUPC(v string) Result {
	cleaned := strings.NewReplacer(" ", "", "-", "").Replace(v)
	if !upcPattern.MatchString(cleaned) {
		return fail("A UPC is 12 or 13 digits. Double-check and try again, or skip it.")
	}
	return ok(cleaned)
}

func checkISRC(v string) Result {
	cleaned := strings.ToUpper(strings.NewReplacer(" ", "", "-", "").Replace(v))
	if !isrcPattern.MatchString(cleaned) {
		return fail("An ISRC looks like CC-XXX-YY-NNNNN (e.g. USRC17607839). You can also skip it.")
	}
	return ok(cleaned)
}

func checkLanguage(v string) Result {
	// Title-case the language so "english" and "English" normalize the same.
	runes := []rune(strings.ToLower(v))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	return ok(string(runes))
}

// Package extract maps raw utterances and button selections onto field
// values for the current dialogue step. It is deterministic; anything it
// cannot read is left for the step's validator to reject.
package extract

import (
	"regexp"
	"strings"

	"github.com/releasewizard/api/internal/model"
)

// featPattern matches feature-artist markers in a title, optionally inside
// parentheses or brackets: "feat. Drake", "(ft Drake)", "featuring Drake".
// The marker must start a word, so titles like "Soft Whisper" or "Left
// Behind" that merely contain those letters are left alone.
var featPattern = regexp.MustCompile(`(?i)(?:^|[\s(\[])(?:feat\.?|ft\.?|featuring)\s+([^)\]]+?)\s*[\)\]]?\s*$`)

// CleanTitle strips a feature-artist marker from a title. DSPs require
// featured artists in their own field, so the wizard auto-corrects instead
// of rejecting. Returns the cleaned title, the extracted featured artist
// names, and whether anything was removed.
func CleanTitle(raw string) (string, []string, bool) {
	m := featPattern.FindStringSubmatch(raw)
	if m == nil {
		return strings.TrimSpace(raw), nil, false
	}

	cleaned := strings.TrimSpace(featPattern.ReplaceAllString(raw, ""))
	var featured []string
	for _, name := range regexp.MustCompile(`(?i)\s*(?:,|&|and)\s*`).Split(m[1], -1) {
		name = strings.TrimSpace(name)
		if name != "" {
			featured = append(featured, name)
		}
	}
	return cleaned, featured, true
}

// OpeningUpdates is the set of fields readable from a free-form opening
// message like "I want to release a Hip Hop single called 'Empire' ASAP".
type OpeningUpdates struct {
	Title          string
	Genre          string
	DateMode       model.ReleaseDateMode
	ExplicitRating model.ExplicitRating
}

var (
	quotedTitle = regexp.MustCompile(`['"“”‘’]([^'"“”‘’]+)['"“”‘’]`)
	calledTitle = regexp.MustCompile(`(?i)(?:called|titled|named)\s+(\S.*?)(?:\s+(?:by|dropping|releasing|out)\b|[.,!]|$)`)
)

// ParseOpening scans an opening message for whatever release fields it
// happens to mention. Unmentioned fields stay zero-valued and get asked
// about one step at a time.
func ParseOpening(utterance string) OpeningUpdates {
	var u OpeningUpdates
	lower := strings.ToLower(utterance)

	if m := quotedTitle.FindStringSubmatch(utterance); m != nil {
		u.Title = strings.TrimSpace(m[1])
	} else if m := calledTitle.FindStringSubmatch(utterance); m != nil {
		u.Title = strings.TrimSpace(m[1])
	}

	// Longest match wins so "hip hop" is not shadowed by "pop".
	for _, g := range model.ValidGenres {
		if strings.Contains(lower, strings.ToLower(g)) && len(g) > len(u.Genre) {
			u.Genre = g
		}
	}

	if strings.Contains(lower, "asap") || strings.Contains(lower, "as soon as possible") {
		u.DateMode = model.ReleaseDateASAP
	}

	switch {
	case strings.Contains(lower, "instrumental"):
		u.ExplicitRating = model.RatingInstrumental
	case strings.Contains(lower, "explicit"):
		u.ExplicitRating = model.RatingExplicit
	case strings.Contains(lower, "clean"):
		u.ExplicitRating = model.RatingClean
	}

	return u
}

// ParseYesNo reads an affirmative or negative button/text answer.
// ok is false when the answer is neither.
func ParseYesNo(raw string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "!"))) {
	case "yes", "y", "yeah", "yep", "yes, it's me", "yes it's me", "it's me", "sure", "correct":
		return true, true
	case "no", "n", "nope", "no, someone else", "someone else", "not me":
		return false, true
	}
	return false, false
}

// ParseDone reads the terminator of a list-accumulation loop. Anything that
// is not an explicit done signal re-enters capture.
func ParseDone(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "done", "no", "nope", "that's all", "thats all", "no more", "finished", "that's everyone", "all done":
		return true
	}
	return false
}

// ParseVersionType maps a selection to a version type.
func ParseVersionType(raw string) (model.VersionType, bool) {
	v := model.VersionType(strings.ToLower(strings.TrimSpace(raw)))
	for _, valid := range model.ValidVersionTypes {
		if v == valid {
			return valid, true
		}
	}
	return "", false
}

// ParseReleaseDateMode maps a selection to a date mode.
func ParseReleaseDateMode(raw string) (model.ReleaseDateMode, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asap", "as soon as possible", "now":
		return model.ReleaseDateASAP, true
	case "specific", "specific date", "pick a date", "later":
		return model.ReleaseDateSpecific, true
	}
	return "", false
}

// ParseExplicitRating maps a selection to an explicit rating.
func ParseExplicitRating(raw string) (model.ExplicitRating, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "clean":
		return model.RatingClean, true
	case "explicit":
		return model.RatingExplicit, true
	case "instrumental":
		return model.RatingInstrumental, true
	}
	return "", false
}

// Separators must be surrounded by whitespace so hyphenated names like
// "Mary-Jane Smith" survive intact.
var creditSeparators = regexp.MustCompile(`\s*,\s*|\s+[-–—]\s+|\s*:\s*|\s+on\s+|\s+plays\s+|\s+playing\s+`)

// ParseCredit splits "Jane Smith - guitar" style input into a name and an
// optional role. Input with no separator is all name.
func ParseCredit(raw string) (name, role string) {
	parts := creditSeparators.Split(strings.TrimSpace(raw), 2)
	name = strings.TrimSpace(parts[0])
	if len(parts) == 2 {
		role = strings.TrimSpace(parts[1])
	}
	return name, role
}

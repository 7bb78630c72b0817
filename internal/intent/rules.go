package intent

import (
	"context"
	"regexp"
	"strings"

	"github.com/releasewizard/api/internal/model"
)

// RuleClassifier is the deterministic keyword/pattern matcher.
type RuleClassifier struct{}

func NewRuleClassifier() *RuleClassifier {
	return &RuleClassifier{}
}

var skipTokens = map[string]bool{
	"skip":    true,
	"none":    true,
	"no":      true,
	"n/a":     true,
	"na":      true,
	"nothing": true,
}

var questionPrefixes = []string{
	"what is", "what's", "what are", "why", "how", "when is", "when does",
	"where", "who", "can i", "do i", "does", "is it", "are there", "should i",
}

var (
	changePattern = regexp.MustCompile(`(?i)^(?:change|update|set)\s+(?:the\s+)?([a-z ]+?)\s+to\s+(.+)$`)
	editPattern   = regexp.MustCompile(`(?i)^edit\s+(?:the\s+)?([a-z ]+?)\s*$`)
	removePattern = regexp.MustCompile(`(?i)^(?:remove|delete)\s+(.+)$`)
	actuallyEdit  = regexp.MustCompile(`(?i)^actually,?\s+(?:the\s+)?([a-z ]+?)\s+(?:is|should be)\s+(.+)$`)
)

// Field keywords recognized in edit requests
var editTargets = map[string]model.FieldID{
	"title":        model.FieldTitle,
	"version":      model.FieldVersionCustom,
	"genre":        model.FieldGenre,
	"date":         model.FieldReleaseDate,
	"release date": model.FieldReleaseDate,
	"label":        model.FieldLabel,
	"upc":          model.FieldUPC,
	"isrc":         model.FieldISRC,
	"language":     model.FieldLyricsLanguage,
	"composer":     model.FieldComposerName,
	"performer":    model.FieldPerformerName,
	"producer":     model.FieldProducerName,
	"lyricist":     model.FieldLyricistName,
}

// Steps where an answer is a button-style choice and "no"/"none" are
// legitimate answers rather than skip requests.
var selectionSteps = map[model.DialogueStep]bool{
	model.StepVersionType:    true,
	model.StepReleaseDate:    true,
	model.StepComposerStart:  true,
	model.StepComposerMore:   true,
	model.StepPerformerStart: true,
	model.StepPerformerMore:  true,
	model.StepProducerStart:  true,
	model.StepProducerMore:   true,
	model.StepLyricistMore:   true,
	model.StepExplicit:       true,
}

// Steps that accept edit phrasing. Everywhere else a correction pattern is
// treated as a plain answer so unrelated fields are never touched.
var reentrantSteps = map[model.DialogueStep]bool{
	model.StepReview:        true,
	model.StepComposerMore:  true,
	model.StepPerformerMore: true,
	model.StepProducerMore:  true,
	model.StepLyricistMore:  true,
}

// Classify applies the rule table. The fallback is always ANSWER.
func (rc *RuleClassifier) Classify(_ context.Context, utterance string, step model.DialogueStep) Intent {
	trimmed := strings.TrimSpace(utterance)
	lower := strings.ToLower(trimmed)

	if reentrantSteps[step] {
		if m := changePattern.FindStringSubmatch(trimmed); m != nil {
			return editIntent(m[1], m[2], false)
		}
		if m := actuallyEdit.FindStringSubmatch(trimmed); m != nil {
			return editIntent(m[1], m[2], false)
		}
		if m := editPattern.FindStringSubmatch(trimmed); m != nil {
			return editIntent(m[1], "", false)
		}
		if m := removePattern.FindStringSubmatch(trimmed); m != nil {
			return Intent{Type: model.IntentEdit, EditValue: strings.TrimSpace(m[1]), Remove: true}
		}
	}

	if isQuestion(lower) {
		return Intent{Type: model.IntentQuestion}
	}

	if skipTokens[lower] && !selectionSteps[step] {
		return Intent{Type: model.IntentSkip}
	}

	return Intent{Type: model.IntentAnswer}
}

func editIntent(target, value string, remove bool) Intent {
	field, ok := editTargets[strings.ToLower(strings.TrimSpace(target))]
	if !ok {
		// Unrecognized target: safer to treat as an answer than to guess.
		return Intent{Type: model.IntentAnswer}
	}
	return Intent{
		Type:      model.IntentEdit,
		EditField: field,
		EditValue: strings.TrimSpace(value),
		Remove:    remove,
	}
}

func isQuestion(lower string) bool {
	if strings.HasSuffix(lower, "?") {
		return true
	}
	for _, prefix := range questionPrefixes {
		if strings.HasPrefix(lower, prefix+" ") || lower == prefix {
			return true
		}
	}
	return false
}

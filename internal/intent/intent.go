// Package intent decides what an incoming utterance is: a direct answer to
// the current question, a tangential question, an edit of an earlier field,
// or a skip request. The rule-based classifier is the default; an LLM-backed
// one can be swapped in behind the same interface.
package intent

import (
	"context"

	"github.com/releasewizard/api/internal/model"
)

// Intent is the classification of one utterance.
type Intent struct {
	Type model.IntentType

	// EditField is the resolved target for EDIT intents, empty if the
	// utterance named no recognizable field.
	EditField model.FieldID

	// EditValue carries an inline replacement value ("change title to X").
	EditValue string

	// Remove is set for "remove X" style edits against credit lists.
	Remove bool
}

// Classifier routes an utterance given the current dialogue step.
// Implementations must never mutate state; a classification that cannot be
// made confidently defaults to ANSWER.
type Classifier interface {
	Classify(ctx context.Context, utterance string, step model.DialogueStep) Intent
}

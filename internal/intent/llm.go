package intent

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/releasewizard/api/internal/model"
	"github.com/releasewizard/api/internal/provider"
)

const classifySystemPrompt = `You are a router for a music release wizard.
Classify the user message into exactly one intent:
- "answer": the message answers the current question
- "question": the message asks something tangential
- "edit": the message corrects a previously captured field
- "skip": the message declines to provide a value
Respond with JSON only: {"intent": "...", "field": "", "value": ""}.
"field" is one of title, version, genre, date, label, upc, isrc, language,
composer, performer, producer, lyricist, or empty. When unsure, use "answer".`

// LLMClassifier asks the provider chain to classify and falls back to the
// rule classifier on any failure or malformed reply. It never mutates state
// and a classification it cannot parse degrades to the rules' verdict.
type LLMClassifier struct {
	chain *provider.Chain
	rules *RuleClassifier
}

func NewLLMClassifier(chain *provider.Chain) *LLMClassifier {
	return &LLMClassifier{
		chain: chain,
		rules: NewRuleClassifier(),
	}
}

type classifyReply struct {
	Intent string `json:"intent"`
	Field  string `json:"field"`
	Value  string `json:"value"`
}

func (lc *LLMClassifier) Classify(ctx context.Context, utterance string, step model.DialogueStep) Intent {
	text, _, err := lc.chain.Complete(ctx, provider.CompletionRequest{
		System:      classifySystemPrompt,
		User:        "Current step: " + string(step) + "\nMessage: " + utterance,
		Temperature: 0,
		MaxTokens:   128,
	})
	if err != nil {
		return lc.rules.Classify(ctx, utterance, step)
	}

	var reply classifyReply
	if err := json.Unmarshal([]byte(extractJSON(text)), &reply); err != nil {
		return lc.rules.Classify(ctx, utterance, step)
	}

	switch model.IntentType(reply.Intent) {
	case model.IntentQuestion:
		return Intent{Type: model.IntentQuestion}
	case model.IntentSkip:
		return Intent{Type: model.IntentSkip}
	case model.IntentEdit:
		if !reentrantSteps[step] {
			// An edit outside a re-entrant step must not jump the wizard
			// around; treat it as an answer to the current question.
			return Intent{Type: model.IntentAnswer}
		}
		if field, okField := editTargets[strings.ToLower(reply.Field)]; okField {
			return Intent{Type: model.IntentEdit, EditField: field, EditValue: strings.TrimSpace(reply.Value)}
		}
		return Intent{Type: model.IntentAnswer}
	case model.IntentAnswer:
		return Intent{Type: model.IntentAnswer}
	default:
		return lc.rules.Classify(ctx, utterance, step)
	}
}

// extractJSON pulls the first {...} block out of a model reply that may be
// wrapped in prose or code fences.
func extractJSON(text string) string {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return text
	}
	return text[start : end+1]
}

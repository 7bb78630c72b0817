package intent

import (
	"context"
	"testing"

	"github.com/releasewizard/api/internal/model"
)

func TestRuleClassifier_Questions(t *testing.T) {
	rc := NewRuleClassifier()

	questions := []string{
		"What is a UPC?",
		"what's an ISRC",
		"why do you need my legal name",
		"Can I use a stage name?",
		"how long does review take",
	}
	for _, q := range questions {
		got := rc.Classify(context.Background(), q, model.StepUPC)
		if got.Type != model.IntentQuestion {
			t.Errorf("Classify(%q) = %s, want question", q, got.Type)
		}
	}
}

func TestRuleClassifier_Skip(t *testing.T) {
	rc := NewRuleClassifier()

	for _, raw := range []string{"skip", "none", "N/A", "nothing"} {
		got := rc.Classify(context.Background(), raw, model.StepLabel)
		if got.Type != model.IntentSkip {
			t.Errorf("Classify(%q) at label = %s, want skip", raw, got.Type)
		}
	}
}

// At selection steps "no" is a legitimate choice, not a skip request.
func TestRuleClassifier_NoAtSelectionStep(t *testing.T) {
	rc := NewRuleClassifier()

	got := rc.Classify(context.Background(), "no", model.StepComposerMore)
	if got.Type != model.IntentAnswer {
		t.Errorf("Classify(no) at composerMore = %s, want answer", got.Type)
	}

	got = rc.Classify(context.Background(), "no", model.StepLabel)
	if got.Type != model.IntentSkip {
		t.Errorf("Classify(no) at label = %s, want skip", got.Type)
	}
}

func TestRuleClassifier_EditAtReview(t *testing.T) {
	rc := NewRuleClassifier()

	tests := []struct {
		utterance string
		wantField model.FieldID
		wantValue string
	}{
		{"change the title to Empire Deluxe", model.FieldTitle, "Empire Deluxe"},
		{"set genre to Rock", model.FieldGenre, "Rock"},
		{"actually, the genre is Pop", model.FieldGenre, "Pop"},
		{"edit the release date", model.FieldReleaseDate, ""},
		{"update the label to Night Records", model.FieldLabel, "Night Records"},
	}

	for _, tt := range tests {
		got := rc.Classify(context.Background(), tt.utterance, model.StepReview)
		if got.Type != model.IntentEdit {
			t.Errorf("Classify(%q) = %s, want edit", tt.utterance, got.Type)
			continue
		}
		if got.EditField != tt.wantField {
			t.Errorf("Classify(%q) field = %s, want %s", tt.utterance, got.EditField, tt.wantField)
		}
		if got.EditValue != tt.wantValue {
			t.Errorf("Classify(%q) value = %q, want %q", tt.utterance, got.EditValue, tt.wantValue)
		}
	}
}

func TestRuleClassifier_RemoveAtReview(t *testing.T) {
	rc := NewRuleClassifier()

	got := rc.Classify(context.Background(), "remove John Smith", model.StepReview)
	if got.Type != model.IntentEdit || !got.Remove {
		t.Fatalf("Classify(remove) = %+v, want remove edit", got)
	}
	if got.EditValue != "John Smith" {
		t.Errorf("remove target = %q, want John Smith", got.EditValue)
	}
}

// Edit phrasing outside re-entrant steps must be a plain answer so typing
// "change the title to X" as a song title doesn't touch another field.
func TestRuleClassifier_EditIgnoredMidFlow(t *testing.T) {
	rc := NewRuleClassifier()

	got := rc.Classify(context.Background(), "change the genre to Rock", model.StepTitle)
	if got.Type != model.IntentAnswer {
		t.Errorf("edit phrasing at title step = %s, want answer", got.Type)
	}
}

func TestRuleClassifier_UnknownEditTarget(t *testing.T) {
	rc := NewRuleClassifier()

	got := rc.Classify(context.Background(), "change the mood to happy", model.StepReview)
	if got.Type != model.IntentAnswer {
		t.Errorf("unknown edit target = %s, want answer fallback", got.Type)
	}
}

func TestRuleClassifier_DefaultAnswer(t *testing.T) {
	rc := NewRuleClassifier()

	got := rc.Classify(context.Background(), "Empire", model.StepTitle)
	if got.Type != model.IntentAnswer {
		t.Errorf("Classify(Empire) = %s, want answer", got.Type)
	}
}

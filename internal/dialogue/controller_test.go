package dialogue

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/releasewizard/api/internal/intent"
	"github.com/releasewizard/api/internal/knowledge"
	"github.com/releasewizard/api/internal/model"
	"github.com/releasewizard/api/internal/session"
)

func newTestController() *Controller {
	return New(intent.NewRuleClassifier(), knowledge.NewResponder(nil), 20)
}

func newTestSession(t *testing.T, artist string, payout bool) *session.Session {
	t.Helper()
	return session.NewStore().Create("user-1", artist, payout)
}

func say(t *testing.T, c *Controller, s *session.Session, input string) Reply {
	t.Helper()
	return c.Handle(context.Background(), s, input)
}

func wantStep(t *testing.T, s *session.Session, step model.DialogueStep) {
	t.Helper()
	if s.Step != step {
		t.Fatalf("step = %s, want %s", s.Step, step)
	}
}

func futureDate() string {
	return time.Now().AddDate(0, 2, 0).Format("2006-01-02")
}

func TestPayoutGateBlocksEverything(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", false)

	reply := say(t, c, s, "I want to release a single called 'Empire'")
	if reply.Text != PayoutGateMessage {
		t.Errorf("reply = %q, want the payout gate message", reply.Text)
	}
	wantStep(t, s, model.StepPayoutGate)
	if s.Draft.Title != "" {
		t.Error("no field may be captured behind the payout gate")
	}
}

func TestOpeningMessageExtractsMentionedFields(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)

	reply := say(t, c, s, "I want to release my new hip hop single called 'Empire' ASAP, and it's explicit")

	if s.Draft.Title != "Empire" {
		t.Errorf("title = %q, want Empire", s.Draft.Title)
	}
	if s.Draft.Genre != "Hip Hop" {
		t.Errorf("genre = %q, want Hip Hop", s.Draft.Genre)
	}
	if s.Draft.ReleaseDateMode != model.ReleaseDateASAP {
		t.Errorf("date mode = %q, want asap", s.Draft.ReleaseDateMode)
	}
	if s.Draft.ExplicitRating != model.RatingExplicit {
		t.Errorf("rating = %q, want explicit", s.Draft.ExplicitRating)
	}
	// Everything mentioned is filled, so the next question is the first gap.
	wantStep(t, s, model.StepVersionType)
	if !strings.Contains(reply.Text, "Empire") {
		t.Errorf("reply should confirm the extracted title, got %q", reply.Text)
	}
}

func TestOpeningMessageBareGreeting(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)

	say(t, c, s, "hi there")
	wantStep(t, s, model.StepTitle)
}

// Prefilled fields are skipped, never re-asked.
func TestBranchSkippingAfterOpening(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)

	say(t, c, s, "I want to release my new hip hop single called 'Empire' ASAP, and it's explicit")
	wantStep(t, s, model.StepVersionType)

	say(t, c, s, "Original")
	// Genre, date mode and rating are known; custom version only exists for
	// the Other type. Label is the first real gap.
	wantStep(t, s, model.StepLabel)
}

func TestTitleFeatAutoCorrection(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepTitle

	reply := say(t, c, s, "Road Home feat. Drake")

	if s.Draft.Title != "Road Home" {
		t.Errorf("title = %q, want Road Home", s.Draft.Title)
	}
	if len(s.Draft.FeaturedArtists) != 1 || s.Draft.FeaturedArtists[0] != "Drake" {
		t.Errorf("featured = %v, want [Drake]", s.Draft.FeaturedArtists)
	}
	if !strings.Contains(reply.Text, "featured artists") {
		t.Errorf("reply must explain the correction, got %q", reply.Text)
	}
	wantStep(t, s, model.StepVersionType)
}

func TestValidationFailureKeepsStep(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepGenre

	reply := say(t, c, s, "Vaporcore")
	wantStep(t, s, model.StepGenre)
	if s.Draft.Genre != "" {
		t.Error("rejected value must not be stored")
	}
	if !strings.Contains(reply.Text, "Vaporcore") {
		t.Errorf("reply should carry the rejection reason, got %q", reply.Text)
	}

	// No retry limit: a second bad answer re-prompts again.
	say(t, c, s, "Chillhop")
	wantStep(t, s, model.StepGenre)

	say(t, c, s, "Rock")
	if s.Draft.Genre != "Rock" {
		t.Errorf("genre = %q, want Rock", s.Draft.Genre)
	}
}

func TestQuestionDoesNotMoveStep(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepUPC

	reply := say(t, c, s, "What is a UPC?")
	wantStep(t, s, model.StepUPC)
	if !strings.Contains(reply.Text, "barcode") {
		t.Errorf("reply should answer the question, got %q", reply.Text)
	}
	if !strings.Contains(reply.Text, "UPC barcode for this release") {
		t.Errorf("reply should re-surface the pending question, got %q", reply.Text)
	}
	if reply.SourceLabel != knowledge.SourceStatic {
		t.Errorf("source = %q, want static", reply.SourceLabel)
	}
}

func TestSkipRequiredField(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepTitle

	reply := say(t, c, s, "skip")
	wantStep(t, s, model.StepTitle)
	if !strings.Contains(reply.Text, "required") {
		t.Errorf("reply = %q, want a required-field explanation", reply.Text)
	}
}

func TestSkipOptionalField(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepLabel

	say(t, c, s, "skip")
	wantStep(t, s, model.StepUPC)
	if s.Draft.Label != "" {
		t.Error("skipped field must stay empty")
	}
}

// The "yes, it's me" shortcut appends the session artist verbatim even when
// the name would fail free-text validation. The free-text path still rejects it.
func TestComposerShortcutExemption(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "xboggdan", true)
	s.Step = model.StepComposerStart

	say(t, c, s, "Yes, it's me")
	if len(s.Draft.Composers) != 1 || s.Draft.Composers[0].Name != "xboggdan" {
		t.Fatalf("composers = %v, want the session artist", s.Draft.Composers)
	}
	wantStep(t, s, model.StepComposerMore)

	// Re-enter capture and try the same alias as free text.
	say(t, c, s, "add another one")
	wantStep(t, s, model.StepComposerAdd)

	reply := say(t, c, s, "xboggdan")
	wantStep(t, s, model.StepComposerAdd)
	if len(s.Draft.Composers) != 1 {
		t.Error("free-text alias must be rejected by the legal-name rule")
	}
	if !strings.Contains(reply.Text, "legal name") {
		t.Errorf("reply = %q, want the legal-name reason", reply.Text)
	}
}

func TestCreditLoopCaptureAndDone(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepComposerStart

	say(t, c, s, "no")
	wantStep(t, s, model.StepComposerAdd)

	say(t, c, s, "Jane Smith")
	wantStep(t, s, model.StepComposerMore)

	say(t, c, s, "one more")
	wantStep(t, s, model.StepComposerAdd)

	say(t, c, s, "John Doe")
	wantStep(t, s, model.StepComposerMore)

	say(t, c, s, "done")
	wantStep(t, s, model.StepPerformerStart)

	if len(s.Draft.Composers) != 2 {
		t.Errorf("composers = %v, want 2 entries", s.Draft.Composers)
	}
}

func TestPerformerRoleCapture(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepPerformerAdd

	say(t, c, s, "Jane Smith - guitar")
	if len(s.Draft.Performers) != 1 {
		t.Fatalf("performers = %v", s.Draft.Performers)
	}
	got := s.Draft.Performers[0]
	if got.Name != "Jane Smith" || got.Role != "guitar" {
		t.Errorf("credit = %+v, want Jane Smith / guitar", got)
	}
}

func TestVersionCustomReservedToken(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepVersionType

	say(t, c, s, "Other")
	wantStep(t, s, model.StepVersionCustom)

	reply := say(t, c, s, "Original")
	wantStep(t, s, model.StepVersionCustom)
	if !strings.Contains(reply.Text, "reserved") {
		t.Errorf("reply = %q, want the reserved-word reason", reply.Text)
	}

	say(t, c, s, "Sped Up")
	if s.Draft.VersionCustom != "Sped Up" {
		t.Errorf("versionCustom = %q, want Sped Up", s.Draft.VersionCustom)
	}
	wantStep(t, s, model.StepGenre)
}

func reviewReadySession(t *testing.T) *session.Session {
	t.Helper()
	s := session.NewStore().Create("user-1", "Nova", true)
	d := s.Draft
	d.Title = "Empire"
	d.VersionType = model.VersionOriginal
	d.Genre = "Hip Hop"
	d.ReleaseDateMode = model.ReleaseDateASAP
	d.ExplicitRating = model.RatingClean
	d.LyricsLanguage = "English"
	d.Composers = []model.Credit{{Name: "Jane Smith"}}
	d.Performers = []model.Credit{{Name: "Nova", Role: "Primary Artist"}}
	d.Production = []model.Credit{{Name: "John Doe", Role: "Producer"}}
	d.Lyricists = []model.Credit{{Name: "Jane Smith"}}
	d.CoverArtRef = "asset-cover"
	d.AudioRef = "asset-audio"
	s.Step = model.StepReview
	return s
}

func TestInlineEditAtReview(t *testing.T) {
	c := newTestController()
	s := reviewReadySession(t)

	reply := say(t, c, s, "change the genre to Rock")
	if s.Draft.Genre != "Rock" {
		t.Errorf("genre = %q, want Rock", s.Draft.Genre)
	}
	wantStep(t, s, model.StepReview)
	if !strings.Contains(reply.Text, "Rock") {
		t.Errorf("reply should confirm the new value, got %q", reply.Text)
	}
	if s.Draft.Title != "Empire" {
		t.Error("an edit must not touch other fields")
	}
}

func TestInlineEditRejectsInvalidValue(t *testing.T) {
	c := newTestController()
	s := reviewReadySession(t)

	say(t, c, s, "change the genre to Vaporcore")
	if s.Draft.Genre != "Hip Hop" {
		t.Errorf("genre = %q, previous value must survive a rejected edit", s.Draft.Genre)
	}
	wantStep(t, s, model.StepReview)
}

// An edit jump re-captures one field and returns to review exactly once.
func TestEditJumpRoundTrip(t *testing.T) {
	c := newTestController()
	s := reviewReadySession(t)

	say(t, c, s, "edit the release date")
	wantStep(t, s, model.StepReleaseDateSpecific)
	if !s.ReturnToReview {
		t.Fatal("edit jump must set the return flag")
	}

	date := futureDate()
	say(t, c, s, date)
	wantStep(t, s, model.StepReview)
	if s.Draft.ReleaseDate != date {
		t.Errorf("releaseDate = %q, want %s", s.Draft.ReleaseDate, date)
	}
	if s.ReturnToReview {
		t.Error("the return flag is one-shot and must be cleared")
	}
}

func TestEditJumpRevalidates(t *testing.T) {
	c := newTestController()
	s := reviewReadySession(t)

	say(t, c, s, "edit the release date")
	say(t, c, s, "2020-01-01")
	wantStep(t, s, model.StepReleaseDateSpecific)
	if s.Draft.ReleaseDate != "" {
		t.Error("a past date must be rejected during an edit re-capture")
	}
}

func TestRemoveCreditAtReview(t *testing.T) {
	c := newTestController()
	s := reviewReadySession(t)

	reply := say(t, c, s, "remove John Doe")
	if len(s.Draft.Production) != 0 {
		t.Errorf("production = %v, want John Doe removed", s.Draft.Production)
	}
	if !strings.Contains(reply.Text, "Removed John Doe") {
		t.Errorf("reply = %q", reply.Text)
	}

	reply = say(t, c, s, "remove Nobody Here")
	if !strings.Contains(reply.Text, "couldn't find") {
		t.Errorf("reply = %q, want a not-found message", reply.Text)
	}
}

// Edit phrasing mid-flow is a plain answer, so a song literally titled
// "Change The Genre To Rock" is capturable and the genre stays untouched.
func TestEditPhrasingMidFlowIsAnswer(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepTitle
	s.Draft.Genre = "Hip Hop"

	say(t, c, s, "Change The Genre To Rock")
	if s.Draft.Title != "Change The Genre To Rock" {
		t.Errorf("title = %q, utterance must be captured as the answer", s.Draft.Title)
	}
	if s.Draft.Genre != "Hip Hop" {
		t.Error("genre must not change outside review")
	}
}

func TestInstrumentalLanguageSkipsLyricists(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepLyricsLanguage

	say(t, c, s, "Instrumental")
	if s.Draft.LyricsLanguage != model.LyricsLanguageInstrumental {
		t.Errorf("language = %q, want Instrumental", s.Draft.LyricsLanguage)
	}
	wantStep(t, s, model.StepExplicit)
}

func TestInstrumentalRatingClearsLyricists(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepExplicit
	s.Draft.LyricsLanguage = "English"
	s.Draft.Lyricists = []model.Credit{{Name: "Jane Smith"}}

	reply := say(t, c, s, "Instrumental")
	if s.Draft.ExplicitRating != model.RatingInstrumental {
		t.Errorf("rating = %q, want instrumental", s.Draft.ExplicitRating)
	}
	if len(s.Draft.Lyricists) != 0 {
		t.Error("instrumental releases must not carry lyricist credits")
	}
	if s.Draft.LyricsLanguage != model.LyricsLanguageInstrumental {
		t.Errorf("language = %q, want the instrumental sentinel", s.Draft.LyricsLanguage)
	}
	if !strings.Contains(reply.Text, "cleared") {
		t.Errorf("reply = %q, want an explanation for the cleared credits", reply.Text)
	}
}

func TestSubmitFromReview(t *testing.T) {
	c := newTestController()
	s := reviewReadySession(t)

	say(t, c, s, "submit")
	wantStep(t, s, model.StepSubmitted)

	// Submitted sessions accept no further input.
	say(t, c, s, "change the genre to Rock")
	wantStep(t, s, model.StepSubmitted)
	if s.Draft.Genre != "Hip Hop" {
		t.Error("a submitted draft must be immutable")
	}
}

func TestSubmitBlockedWhenIncomplete(t *testing.T) {
	c := newTestController()
	s := reviewReadySession(t)
	s.Draft.Title = ""

	reply := say(t, c, s, "submit")
	wantStep(t, s, model.StepReview)
	if !strings.Contains(reply.Text, "title") {
		t.Errorf("reply = %q, want the missing-title reason", reply.Text)
	}
}

func TestSubmitMethod(t *testing.T) {
	c := newTestController()
	s := reviewReadySession(t)

	if _, err := c.Submit(s); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	wantStep(t, s, model.StepSubmitted)

	mid := newTestSession(t, "Nova", true)
	mid.Step = model.StepGenre
	if _, err := c.Submit(mid); err == nil {
		t.Error("Submit outside review must fail")
	}
}

func TestRecordUploadAdvances(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepCoverArt

	c.RecordUpload(s, model.AssetCoverArt, "ref-1")
	if s.Draft.CoverArtRef != "ref-1" {
		t.Errorf("coverArtRef = %q", s.Draft.CoverArtRef)
	}
	wantStep(t, s, model.StepAudio)

	c.RecordUpload(s, model.AssetAudio, "ref-2")
	if s.Draft.AudioRef != "ref-2" {
		t.Errorf("audioRef = %q", s.Draft.AudioRef)
	}
	wantStep(t, s, model.StepReview)
}

func TestChatCannotUploadFiles(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	s.Step = model.StepCoverArt

	reply := say(t, c, s, "here is my cover art")
	wantStep(t, s, model.StepCoverArt)
	if !strings.Contains(reply.Text, "upload button") {
		t.Errorf("reply = %q", reply.Text)
	}
}

// Full walk from greeting to submission; the spine only ever moves forward.
func TestHappyPathEndToEnd(t *testing.T) {
	c := newTestController()
	s := newTestSession(t, "Nova", true)
	date := futureDate()

	script := []struct {
		input string
		want  model.DialogueStep
	}{
		{"hi", model.StepTitle},
		{"Empire", model.StepVersionType},
		{"Original", model.StepGenre},
		{"Hip Hop", model.StepReleaseDate},
		{"specific date", model.StepReleaseDateSpecific},
		{date, model.StepLabel},
		{"Night Records", model.StepUPC},
		{"skip", model.StepComposerStart},
		{"yes", model.StepComposerMore},
		{"done", model.StepPerformerStart},
		{"yes", model.StepPerformerMore},
		{"done", model.StepProducerStart},
		{"no", model.StepProducerAdd},
		{"John Doe - mixing", model.StepProducerMore},
		{"done", model.StepLyricsLanguage},
		{"English", model.StepLyricistAdd},
		{"Jane Smith", model.StepLyricistMore},
		{"done", model.StepExplicit},
		{"Clean", model.StepISRC},
		{"skip", model.StepCoverArt},
	}

	for i, turn := range script {
		say(t, c, s, turn.input)
		if s.Step != turn.want {
			t.Fatalf("turn %d (%q): step = %s, want %s", i, turn.input, s.Step, turn.want)
		}
	}

	c.RecordUpload(s, model.AssetCoverArt, "ref-cover")
	wantStep(t, s, model.StepAudio)
	c.RecordUpload(s, model.AssetAudio, "ref-audio")
	wantStep(t, s, model.StepReview)

	reply := say(t, c, s, "submit")
	wantStep(t, s, model.StepSubmitted)
	if !strings.Contains(reply.Text, "submitted") {
		t.Errorf("reply = %q", reply.Text)
	}

	d := s.Draft
	if d.Title != "Empire" || d.Genre != "Hip Hop" || d.ReleaseDate != date ||
		d.Label != "Night Records" || d.LyricsLanguage != "English" {
		t.Errorf("draft incomplete after full walk: %+v", d)
	}
	if len(d.Composers) != 1 || len(d.Performers) != 1 || len(d.Production) != 1 || len(d.Lyricists) != 1 {
		t.Errorf("credit lists wrong after full walk: %+v", d)
	}
}

func TestReviewSummaryContents(t *testing.T) {
	s := reviewReadySession(t)

	text := Prompt(s)
	for _, want := range []string{"Empire", "Hip Hop", "ASAP", "Jane Smith", "John Doe (Producer)", "uploaded"} {
		if !strings.Contains(text, want) {
			t.Errorf("review summary missing %q:\n%s", want, text)
		}
	}
}

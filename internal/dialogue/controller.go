// Package dialogue is the wizard's step machine. It owns the transition
// rules, routes classified intents, applies field updates through the
// schema, and never lets state and prompt desynchronize: a validation
// failure always re-prompts the same step.
package dialogue

import (
	"context"
	"fmt"
	"strings"

	"github.com/releasewizard/api/internal/extract"
	"github.com/releasewizard/api/internal/intent"
	"github.com/releasewizard/api/internal/knowledge"
	"github.com/releasewizard/api/internal/model"
	"github.com/releasewizard/api/internal/schema"
	"github.com/releasewizard/api/internal/session"
)

// SourceRules labels replies produced without any model call.
const SourceRules = "rules"

// Reply is what the controller hands back for one submitted input.
type Reply struct {
	Text        string
	SourceLabel string
}

// Controller drives one session at a time. It holds no session state of its
// own and is safe to share across sessions.
type Controller struct {
	classifier   intent.Classifier
	knowledge    *knowledge.Responder
	historyLimit int
}

func New(classifier intent.Classifier, responder *knowledge.Responder, historyLimit int) *Controller {
	return &Controller{
		classifier:   classifier,
		knowledge:    responder,
		historyLimit: historyLimit,
	}
}

func rulesReply(text string) Reply {
	return Reply{Text: text, SourceLabel: SourceRules}
}

// Handle processes one utterance: classify, extract/validate, mutate,
// advance. The caller holds the session lock.
func (c *Controller) Handle(ctx context.Context, s *session.Session, input string) Reply {
	switch s.Step {
	case model.StepPayoutGate:
		// Hard gate: no field capture until a payout method exists.
		return rulesReply(PayoutGateMessage)
	case model.StepSubmitted:
		return rulesReply(Prompt(s))
	}

	in := c.classifier.Classify(ctx, input, s.Step)

	switch in.Type {
	case model.IntentQuestion:
		answer, source := c.knowledge.Answer(ctx, input, s.History(c.historyLimit))
		// Tangent answered; the step pointer stays put and the question
		// is re-surfaced.
		return Reply{Text: answer + "\n\n" + Prompt(s), SourceLabel: source}

	case model.IntentSkip:
		return c.handleSkip(s)

	case model.IntentEdit:
		return c.handleEdit(s, in, input)

	default:
		return c.handleAnswer(s, input)
	}
}

func (c *Controller) handleSkip(s *session.Session) Reply {
	field, capturing := stepField[s.Step]
	if !capturing {
		return rulesReply("Let's keep going.\n\n" + Prompt(s))
	}
	if schema.IsRequired(field) {
		return rulesReply("I can't skip this one — it's required for every release.\n\n" + Prompt(s))
	}
	// Optional field explicitly left empty.
	return c.completeStep(s, "No problem, we'll leave that out.")
}

func (c *Controller) handleEdit(s *session.Session, in intent.Intent, input string) Reply {
	if in.Remove {
		if name := c.removeCredit(s, in.EditValue); name != "" {
			return rulesReply(fmt.Sprintf("Removed %s from the credits.\n\n", name) + Prompt(s))
		}
		return rulesReply(fmt.Sprintf("I couldn't find %q in the credits.\n\n", in.EditValue) + Prompt(s))
	}

	if in.EditValue != "" && isScalarField(in.EditField) {
		return c.applyScalarEdit(s, in.EditField, in.EditValue)
	}

	if s.Step != model.StepReview {
		// Jump-style edits are only honored from review; elsewhere the
		// utterance is treated as an answer to the current question.
		return c.handleAnswer(s, input)
	}

	target, ok := editEntry[in.EditField]
	if !ok {
		return rulesReply("I'm not sure which field you mean.\n\n" + Prompt(s))
	}

	s.ReturnToReview = true
	s.EditTarget = in.EditField
	s.Step = target
	if in.EditField == model.FieldVersionCustom {
		s.Draft.VersionType = model.VersionOther
	}
	return rulesReply("Sure, let's update that.\n\n" + Prompt(s))
}

func (c *Controller) applyScalarEdit(s *session.Session, field model.FieldID, value string) Reply {
	note := ""
	if field == model.FieldTitle {
		cleaned, featured, stripped := extract.CleanTitle(value)
		if stripped {
			value = cleaned
			s.Draft.FeaturedArtists = appendMissing(s.Draft.FeaturedArtists, featured)
			note = featNote(featured)
		}
	}

	res := schema.Validate(field, value)
	if !res.OK {
		return rulesReply(res.Reason + "\n\n" + Prompt(s))
	}

	c.setScalar(s, field, res.Normalized)
	confirmation := fmt.Sprintf("Done — %s is now %q.", editTargetLabel(field), res.Normalized)
	if note != "" {
		confirmation = note + " " + confirmation
	}
	return rulesReply(confirmation + "\n\n" + Prompt(s))
}

// handleAnswer maps the utterance onto the current step's field(s).
func (c *Controller) handleAnswer(s *session.Session, input string) Reply {
	switch s.Step {

	case model.StepIntro:
		return c.handleOpening(s, input)

	case model.StepTitle:
		return c.captureTitle(s, input)

	case model.StepVersionType:
		vt, ok := extract.ParseVersionType(input)
		if !ok {
			return rulesReply("Please pick one of: Original, Live, Remix, Acoustic, Other.\n\n" + Prompt(s))
		}
		s.Draft.VersionType = vt
		if vt == model.VersionOther {
			s.Step = model.StepVersionCustom
			return rulesReply(Prompt(s))
		}
		return c.completeStep(s, "Noted.")

	case model.StepVersionCustom:
		return c.captureScalar(s, model.FieldVersionCustom, input)

	case model.StepGenre:
		return c.captureScalar(s, model.FieldGenre, input)

	case model.StepReleaseDate:
		mode, ok := extract.ParseReleaseDateMode(input)
		if !ok {
			return rulesReply("ASAP or a specific date — which would you like?\n\n" + Prompt(s))
		}
		s.Draft.ReleaseDateMode = mode
		if mode == model.ReleaseDateSpecific {
			s.Step = model.StepReleaseDateSpecific
			return rulesReply(Prompt(s))
		}
		return c.completeStep(s, "ASAP it is — usually live within a few business days.")

	case model.StepReleaseDateSpecific:
		return c.captureScalar(s, model.FieldReleaseDate, input)

	case model.StepLabel:
		return c.captureScalar(s, model.FieldLabel, input)

	case model.StepUPC:
		return c.captureScalar(s, model.FieldUPC, input)

	case model.StepISRC:
		return c.captureScalar(s, model.FieldISRC, input)

	case model.StepComposerStart:
		return c.handleCreditStart(s, input, &s.Draft.Composers, "", model.StepComposerAdd, model.StepComposerMore)

	case model.StepPerformerStart:
		return c.handleCreditStart(s, input, &s.Draft.Performers, "Primary Artist", model.StepPerformerAdd, model.StepPerformerMore)

	case model.StepProducerStart:
		return c.handleCreditStart(s, input, &s.Draft.Production, "Producer", model.StepProducerAdd, model.StepProducerMore)

	case model.StepComposerAdd:
		return c.handleCreditAdd(s, input, model.FieldComposerName, &s.Draft.Composers, "", model.StepComposerMore)

	case model.StepPerformerAdd:
		return c.handleCreditAdd(s, input, model.FieldPerformerName, &s.Draft.Performers, "Performer", model.StepPerformerMore)

	case model.StepProducerAdd:
		return c.handleCreditAdd(s, input, model.FieldProducerName, &s.Draft.Production, "Producer", model.StepProducerMore)

	case model.StepLyricistAdd:
		return c.handleCreditAdd(s, input, model.FieldLyricistName, &s.Draft.Lyricists, "", model.StepLyricistMore)

	case model.StepComposerMore, model.StepPerformerMore, model.StepProducerMore, model.StepLyricistMore:
		return c.handleCreditMore(s, input)

	case model.StepLyricsLanguage:
		return c.captureLanguage(s, input)

	case model.StepExplicit:
		return c.captureExplicit(s, input)

	case model.StepCoverArt, model.StepAudio:
		return rulesReply("Use the upload button for that — I can't read files from chat.\n\n" + Prompt(s))

	case model.StepReview:
		return c.handleReviewAnswer(s, input)
	}

	return rulesReply(Prompt(s))
}

// handleOpening reads whatever release fields a free-form opening message
// mentions, then asks about the first thing still missing.
func (c *Controller) handleOpening(s *session.Session, input string) Reply {
	u := extract.ParseOpening(input)
	var notes []string

	if u.Title != "" {
		cleaned, featured, stripped := extract.CleanTitle(u.Title)
		if res := schema.Validate(model.FieldTitle, cleaned); res.OK {
			s.Draft.Title = res.Normalized
			notes = append(notes, fmt.Sprintf("Title: %q", res.Normalized))
			if stripped {
				s.Draft.FeaturedArtists = appendMissing(s.Draft.FeaturedArtists, featured)
				notes = append(notes, featNote(featured))
			}
		}
	}
	if u.Genre != "" {
		if res := schema.Validate(model.FieldGenre, u.Genre); res.OK {
			s.Draft.Genre = res.Normalized
			notes = append(notes, "Genre: "+res.Normalized)
		}
	}
	if u.DateMode != "" {
		s.Draft.ReleaseDateMode = u.DateMode
		notes = append(notes, "Release: ASAP")
	}
	if u.ExplicitRating != "" {
		s.Draft.ExplicitRating = u.ExplicitRating
		notes = append(notes, "Rating: "+string(u.ExplicitRating))
		if u.ExplicitRating == model.RatingInstrumental {
			s.Draft.LyricsLanguage = model.LyricsLanguageInstrumental
		}
	}

	s.Step = advanceFrom(s, model.StepIntro)

	if len(notes) == 0 {
		return rulesReply("Great, let's set up your release step by step.\n\n" + Prompt(s))
	}
	return rulesReply("Nice — here's what I caught: " + strings.Join(notes, " · ") + ".\n\n" + Prompt(s))
}

func (c *Controller) captureTitle(s *session.Session, input string) Reply {
	cleaned, featured, stripped := extract.CleanTitle(input)
	res := schema.Validate(model.FieldTitle, cleaned)
	if !res.OK {
		return rulesReply(res.Reason + "\n\n" + Prompt(s))
	}
	s.Draft.Title = res.Normalized
	confirmation := fmt.Sprintf("Title set to %q.", res.Normalized)
	if stripped {
		s.Draft.FeaturedArtists = appendMissing(s.Draft.FeaturedArtists, featured)
		confirmation = featNote(featured) + " " + confirmation
	}
	return c.completeStep(s, confirmation)
}

func (c *Controller) captureScalar(s *session.Session, field model.FieldID, input string) Reply {
	res := schema.Validate(field, input)
	if !res.OK {
		// Same step, re-prompted with the reason. No retry limit.
		return rulesReply(res.Reason + "\n\n" + Prompt(s))
	}
	c.setScalar(s, field, res.Normalized)
	return c.completeStep(s, fmt.Sprintf("Got it: %s.", res.Normalized))
}

func (c *Controller) captureLanguage(s *session.Session, input string) Reply {
	if strings.EqualFold(strings.TrimSpace(input), model.LyricsLanguageInstrumental) {
		s.Draft.LyricsLanguage = model.LyricsLanguageInstrumental
		// No lyrics means no lyricist capture at all.
		return c.completeStep(s, "Instrumental — I'll skip the lyricist credits.")
	}
	return c.captureScalar(s, model.FieldLyricsLanguage, input)
}

func (c *Controller) captureExplicit(s *session.Session, input string) Reply {
	rating, ok := extract.ParseExplicitRating(input)
	if !ok {
		return rulesReply("Please pick Clean, Explicit, or Instrumental.\n\n" + Prompt(s))
	}
	s.Draft.ExplicitRating = rating
	confirmation := "Rating saved."
	if rating == model.RatingInstrumental {
		s.Draft.LyricsLanguage = model.LyricsLanguageInstrumental
		if len(s.Draft.Lyricists) > 0 {
			s.Draft.Lyricists = nil
			confirmation = "Instrumental tracks can't carry lyricist credits, so I cleared those. Rating saved."
		}
	}
	return c.completeStep(s, confirmation)
}

// handleCreditStart covers the "is this you?" shortcut. The affirmative
// path appends the session artist verbatim — it is the one deliberate
// exemption from the legal-name check, because the shortcut is trusted
// input. The negative path drops into free-text capture, which is not
// exempt.
func (c *Controller) handleCreditStart(s *session.Session, input string, list *[]model.Credit, role string, addStep, moreStep model.DialogueStep) Reply {
	yes, ok := extract.ParseYesNo(input)
	if !ok {
		return rulesReply("A simple yes or no works here.\n\n" + Prompt(s))
	}
	if yes {
		*list = append(*list, model.Credit{Name: s.Artist, Role: role})
		s.Step = moreStep
		return rulesReply(fmt.Sprintf("Added %s.\n\n", s.Artist) + Prompt(s))
	}
	s.Step = addStep
	return rulesReply(Prompt(s))
}

func (c *Controller) handleCreditAdd(s *session.Session, input string, field model.FieldID, list *[]model.Credit, defaultRole string, moreStep model.DialogueStep) Reply {
	name := input
	role := defaultRole
	if defaultRole != "" {
		// Roles only exist on performer/production lists.
		if n, r := extract.ParseCredit(input); r != "" {
			name, role = n, r
		}
	}

	res := schema.Validate(field, name)
	if !res.OK {
		return rulesReply(res.Reason + "\n\n" + Prompt(s))
	}

	*list = append(*list, model.Credit{Name: res.Normalized, Role: role})

	if s.ReturnToReview {
		return c.completeStep(s, fmt.Sprintf("Added %s.", res.Normalized))
	}
	s.Step = moreStep
	return rulesReply(fmt.Sprintf("Added %s.\n\n", res.Normalized) + Prompt(s))
}

// handleCreditMore is the CONTINUE half of the capture loop: it terminates
// only on an explicit done signal and otherwise re-enters capture.
func (c *Controller) handleCreditMore(s *session.Session, input string) Reply {
	done := extract.ParseDone(input)

	switch s.Step {
	case model.StepComposerMore:
		if done {
			return c.advanceLoop(s, model.StepComposerStart)
		}
		s.Step = model.StepComposerAdd
	case model.StepPerformerMore:
		if done {
			return c.advanceLoop(s, model.StepPerformerStart)
		}
		s.Step = model.StepPerformerAdd
	case model.StepProducerMore:
		if done {
			return c.advanceLoop(s, model.StepProducerStart)
		}
		s.Step = model.StepProducerAdd
	case model.StepLyricistMore:
		if done {
			return c.advanceLoop(s, model.StepLyricistAdd)
		}
		s.Step = model.StepLyricistAdd
	}
	return rulesReply(Prompt(s))
}

func (c *Controller) advanceLoop(s *session.Session, spineStep model.DialogueStep) Reply {
	s.Step = advanceFrom(s, spineStep)
	return rulesReply("Credits saved.\n\n" + Prompt(s))
}

func (c *Controller) handleReviewAnswer(s *session.Session, input string) Reply {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "submit", "confirm", "looks good", "send it", "yes", "ship it":
		if reason := c.submitBlocker(s); reason != "" {
			return rulesReply(reason + "\n\n" + Prompt(s))
		}
		s.Step = model.StepSubmitted
		return rulesReply(Prompt(s))
	}
	return rulesReply("Tell me what to change (e.g. \"change genre to Pop\" or \"remove John Doe\"), or say submit.\n\n" + Prompt(s))
}

// Submit moves review to submitted; used by the explicit submit endpoint.
func (c *Controller) Submit(s *session.Session) (Reply, error) {
	if s.Step != model.StepReview {
		return Reply{}, fmt.Errorf("session is at step %s, not review", s.Step)
	}
	if reason := c.submitBlocker(s); reason != "" {
		return Reply{}, fmt.Errorf("%s", reason)
	}
	s.Step = model.StepSubmitted
	return rulesReply(Prompt(s)), nil
}

func (c *Controller) submitBlocker(s *session.Session) string {
	d := s.Draft
	if d.Title == "" {
		return "We still need a title before this can go out."
	}
	if d.Genre == "" {
		return "We still need a genre before this can go out."
	}
	if d.ExplicitRating == model.RatingInstrumental && len(d.Lyricists) > 0 {
		// Guarded at capture time; reaching this means a programming error.
		return "An instrumental release can't carry lyricist credits."
	}
	return ""
}

// RecordUpload registers an asset ref on the draft and advances past the
// matching upload step. The asset content is never inspected here.
func (c *Controller) RecordUpload(s *session.Session, kind model.AssetKind, ref string) Reply {
	switch kind {
	case model.AssetCoverArt:
		s.Draft.CoverArtRef = ref
		if s.Step == model.StepCoverArt {
			return c.completeStep(s, "Cover art received — I'm running the artwork check in the background.")
		}
		return rulesReply("Cover art updated — running the artwork check.\n\n" + Prompt(s))
	default:
		s.Draft.AudioRef = ref
		if s.Step == model.StepAudio {
			return c.completeStep(s, "Audio received — scanning it in the background.")
		}
		return rulesReply("Audio updated — scanning it in the background.\n\n" + Prompt(s))
	}
}

// completeStep finishes a successful capture: either the one-shot jump back
// to review after an edit, or the normal advance along the spine.
func (c *Controller) completeStep(s *session.Session, confirmation string) Reply {
	if s.ReturnToReview {
		s.ReturnToReview = false
		s.EditTarget = ""
		s.Step = model.StepReview
		return rulesReply(confirmation + "\n\n" + Prompt(s))
	}
	s.Step = advanceFrom(s, s.Step)
	return rulesReply(confirmation + "\n\n" + Prompt(s))
}

func (c *Controller) setScalar(s *session.Session, field model.FieldID, value string) {
	d := s.Draft
	switch field {
	case model.FieldTitle:
		d.Title = value
	case model.FieldVersionCustom:
		d.VersionType = model.VersionOther
		d.VersionCustom = value
	case model.FieldGenre:
		d.Genre = value
	case model.FieldReleaseDate:
		d.ReleaseDateMode = model.ReleaseDateSpecific
		d.ReleaseDate = value
	case model.FieldLabel:
		d.Label = value
	case model.FieldUPC:
		d.UPC = value
	case model.FieldISRC:
		d.ISRC = value
	case model.FieldLyricsLanguage:
		d.LyricsLanguage = value
	}
}

func (c *Controller) removeCredit(s *session.Session, name string) string {
	lists := []*[]model.Credit{
		&s.Draft.Composers, &s.Draft.Performers, &s.Draft.Production, &s.Draft.Lyricists,
	}
	for _, list := range lists {
		for i, credit := range *list {
			if strings.EqualFold(credit.Name, name) {
				removed := credit.Name
				*list = append((*list)[:i], (*list)[i+1:]...)
				return removed
			}
		}
	}
	return ""
}

func isScalarField(field model.FieldID) bool {
	switch field {
	case model.FieldComposerName, model.FieldPerformerName, model.FieldProducerName, model.FieldLyricistName:
		return false
	}
	return true
}

func editTargetLabel(field model.FieldID) string {
	switch field {
	case model.FieldTitle:
		return "the title"
	case model.FieldVersionCustom:
		return "the version"
	case model.FieldGenre:
		return "the genre"
	case model.FieldReleaseDate:
		return "the release date"
	case model.FieldLabel:
		return "the label"
	case model.FieldUPC:
		return "the UPC"
	case model.FieldISRC:
		return "the ISRC"
	case model.FieldLyricsLanguage:
		return "the lyrics language"
	}
	return "that field"
}

func appendMissing(existing []string, names []string) []string {
	for _, name := range names {
		found := false
		for _, have := range existing {
			if strings.EqualFold(have, name) {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, name)
		}
	}
	return existing
}

func featNote(featured []string) string {
	if len(featured) == 0 {
		return ""
	}
	return fmt.Sprintf("I moved %s to the featured artists field to match DSP rules.", strings.Join(featured, ", "))
}

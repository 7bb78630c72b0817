package dialogue

import (
	"fmt"
	"strings"

	"github.com/releasewizard/api/internal/model"
	"github.com/releasewizard/api/internal/session"
)

// stepOrder is the happy-path spine of the wizard. Capture/continue loop
// steps (ComposerAdd/ComposerMore and friends) hang off their Start entry
// and are not part of the spine.
var stepOrder = []model.DialogueStep{
	model.StepTitle,
	model.StepVersionType,
	model.StepVersionCustom,
	model.StepGenre,
	model.StepReleaseDate,
	model.StepReleaseDateSpecific,
	model.StepLabel,
	model.StepUPC,
	model.StepComposerStart,
	model.StepPerformerStart,
	model.StepProducerStart,
	model.StepLyricsLanguage,
	model.StepLyricistAdd,
	model.StepExplicit,
	model.StepISRC,
	model.StepCoverArt,
	model.StepAudio,
	model.StepReview,
}

// stepField maps value-capturing steps to the schema field they fill.
var stepField = map[model.DialogueStep]model.FieldID{
	model.StepTitle:               model.FieldTitle,
	model.StepVersionCustom:       model.FieldVersionCustom,
	model.StepGenre:               model.FieldGenre,
	model.StepReleaseDateSpecific: model.FieldReleaseDate,
	model.StepLabel:               model.FieldLabel,
	model.StepUPC:                 model.FieldUPC,
	model.StepISRC:                model.FieldISRC,
	model.StepComposerAdd:         model.FieldComposerName,
	model.StepPerformerAdd:        model.FieldPerformerName,
	model.StepProducerAdd:         model.FieldProducerName,
	model.StepLyricistAdd:         model.FieldLyricistName,
	model.StepLyricsLanguage:      model.FieldLyricsLanguage,
}

// editEntry maps an edited field to the step that re-captures it.
var editEntry = map[model.FieldID]model.DialogueStep{
	model.FieldTitle:          model.StepTitle,
	model.FieldVersionCustom:  model.StepVersionCustom,
	model.FieldGenre:          model.StepGenre,
	model.FieldReleaseDate:    model.StepReleaseDateSpecific,
	model.FieldLabel:          model.StepLabel,
	model.FieldUPC:            model.StepUPC,
	model.FieldISRC:           model.StepISRC,
	model.FieldComposerName:   model.StepComposerAdd,
	model.FieldPerformerName:  model.StepPerformerAdd,
	model.FieldProducerName:   model.StepProducerAdd,
	model.FieldLyricistName:   model.StepLyricistAdd,
	model.FieldLyricsLanguage: model.StepLyricsLanguage,
}

// advanceFrom returns the next spine step after current, skipping steps
// whose value is already collected or whose branch condition rules them out.
func advanceFrom(s *session.Session, current model.DialogueStep) model.DialogueStep {
	idx := -1
	for i, step := range stepOrder {
		if step == current {
			idx = i
			break
		}
	}
	for i := idx + 1; i < len(stepOrder); i++ {
		if !shouldSkip(s, stepOrder[i]) {
			return stepOrder[i]
		}
	}
	return model.StepReview
}

// shouldSkip rules a spine step out, either because an earlier free-text
// message already filled it or because a branch condition excludes it.
func shouldSkip(s *session.Session, step model.DialogueStep) bool {
	d := s.Draft
	switch step {
	case model.StepTitle:
		return d.Title != ""
	case model.StepVersionType:
		return d.VersionType != ""
	case model.StepVersionCustom:
		// Only the "Other" version type has a custom label to capture.
		return d.VersionType != model.VersionOther || d.VersionCustom != ""
	case model.StepGenre:
		return d.Genre != ""
	case model.StepReleaseDate:
		return d.ReleaseDateMode != ""
	case model.StepReleaseDateSpecific:
		return d.ReleaseDateMode != model.ReleaseDateSpecific || d.ReleaseDate != ""
	case model.StepLyricsLanguage:
		if d.ExplicitRating == model.RatingInstrumental {
			return true
		}
		return d.LyricsLanguage != ""
	case model.StepLyricistAdd:
		// Instrumental tracks cannot have lyricists.
		return d.ExplicitRating == model.RatingInstrumental ||
			d.LyricsLanguage == model.LyricsLanguageInstrumental
	case model.StepExplicit:
		return d.ExplicitRating != ""
	case model.StepCoverArt:
		return d.CoverArtRef != ""
	case model.StepAudio:
		return d.AudioRef != ""
	}
	return false
}

// PayoutGateMessage blocks the wizard until a payout method exists.
const PayoutGateMessage = "I see you don't have a payout method connected. You must connect Stripe or PayPal before we can set up your release."

// Prompt returns the question text for the session's current step.
func Prompt(s *session.Session) string {
	d := s.Draft
	switch s.Step {
	case model.StepPayoutGate:
		return PayoutGateMessage
	case model.StepIntro:
		return fmt.Sprintf("Hey %s! I'm your release assistant. Tell me about the track you want to put out — or just say hi and we'll go step by step.", s.Artist)
	case model.StepTitle:
		return "What's the title of your release? (No \"feat.\" in the title — featured artists get their own field.)"
	case model.StepVersionType:
		return "Is this the original version, or something else? Options: Original, Live, Remix, Acoustic, Other."
	case model.StepVersionCustom:
		return "What should the custom version label say? (Words like Original, Album, Explicit, Official and feat are reserved.)"
	case model.StepGenre:
		return "What genre fits best? For example: " + strings.Join(model.ValidGenres[:6], ", ") + "..."
	case model.StepReleaseDate:
		return "When should it go live — ASAP, or a specific date?"
	case model.StepReleaseDateSpecific:
		return "What date? Please use YYYY-MM-DD."
	case model.StepLabel:
		return "Do you release under a label name? If not, just say skip."
	case model.StepUPC:
		return "Do you already have a UPC barcode for this release? If not, say skip and we'll assign one."
	case model.StepComposerStart:
		return fmt.Sprintf("Now the credits. Did you write the music yourself, %s?", s.Artist)
	case model.StepComposerAdd:
		return "What's the composer's full legal name (first and last)?"
	case model.StepComposerMore:
		return "Got it. Any more composers? Say done when the list is complete."
	case model.StepPerformerStart:
		return "Are you the performer on this track?"
	case model.StepPerformerAdd:
		return "Who performs on the track? Give me a full legal name, and optionally what they play, like \"Jane Smith - guitar\"."
	case model.StepPerformerMore:
		return "Anyone else performing? Say done when the list is complete."
	case model.StepProducerStart:
		return "Did you produce the track yourself?"
	case model.StepProducerAdd:
		return "Who produced it? Full legal name, optionally with a role like \"John Doe - mixing\"."
	case model.StepProducerMore:
		return "Any more production credits? Say done when the list is complete."
	case model.StepLyricsLanguage:
		return "What language are the lyrics in? If the track has no lyrics, say Instrumental."
	case model.StepLyricistAdd:
		return "Who wrote the lyrics? Full legal name, please."
	case model.StepLyricistMore:
		return "Any more lyricists? Say done when the list is complete."
	case model.StepExplicit:
		return "How should stores rate it — Clean, Explicit, or Instrumental?"
	case model.StepISRC:
		return "Do you have an ISRC for the recording? If not, say skip."
	case model.StepCoverArt:
		return "Almost there — upload your cover art. Square, at least 3000x3000, and please confirm it has no text, URLs or brand logos."
	case model.StepAudio:
		return "Now upload the audio file. WAV or FLAC preferred."
	case model.StepReview:
		return reviewSummary(d)
	case model.StepSubmitted:
		return "Your release has been submitted to the stores. Nothing more to do here — start a new session for your next drop!"
	}
	return "Let's continue with your release."
}

func reviewSummary(d *model.ReleaseDraft) string {
	var b strings.Builder
	b.WriteString("Here's everything I have. Say submit to send it to the stores, or tell me what to change (e.g. \"change title to ...\").\n")
	fmt.Fprintf(&b, "• Title: %s\n", d.DisplayTitle())
	fmt.Fprintf(&b, "• Artist: %s\n", d.Artist)
	if len(d.FeaturedArtists) > 0 {
		fmt.Fprintf(&b, "• Featuring: %s\n", strings.Join(d.FeaturedArtists, ", "))
	}
	fmt.Fprintf(&b, "• Genre: %s\n", d.Genre)
	if d.ReleaseDateMode == model.ReleaseDateASAP {
		b.WriteString("• Release date: ASAP\n")
	} else if d.ReleaseDate != "" {
		fmt.Fprintf(&b, "• Release date: %s\n", d.ReleaseDate)
	}
	if d.Label != "" {
		fmt.Fprintf(&b, "• Label: %s\n", d.Label)
	}
	if d.UPC != "" {
		fmt.Fprintf(&b, "• UPC: %s\n", d.UPC)
	}
	if d.ISRC != "" {
		fmt.Fprintf(&b, "• ISRC: %s\n", d.ISRC)
	}
	fmt.Fprintf(&b, "• Composers: %s\n", creditNames(d.Composers))
	fmt.Fprintf(&b, "• Performers: %s\n", creditNames(d.Performers))
	fmt.Fprintf(&b, "• Production: %s\n", creditNames(d.Production))
	if len(d.Lyricists) > 0 {
		fmt.Fprintf(&b, "• Lyricists: %s\n", creditNames(d.Lyricists))
	}
	fmt.Fprintf(&b, "• Rating: %s\n", d.ExplicitRating)
	fmt.Fprintf(&b, "• Lyrics language: %s\n", d.LyricsLanguage)
	fmt.Fprintf(&b, "• Cover art: %s\n", orMissing(d.CoverArtRef))
	fmt.Fprintf(&b, "• Audio: %s", orMissing(d.AudioRef))
	return b.String()
}

func creditNames(credits []model.Credit) string {
	if len(credits) == 0 {
		return "—"
	}
	parts := make([]string, len(credits))
	for i, c := range credits {
		parts[i] = c.Name
		if c.Role != "" {
			parts[i] += " (" + c.Role + ")"
		}
	}
	return strings.Join(parts, ", ")
}

func orMissing(ref string) string {
	if ref == "" {
		return "not uploaded yet"
	}
	return "uploaded"
}

// Package knowledge answers tangential questions without touching the
// draft or the dialogue step. A static keyword lookup is the guaranteed
// floor; the provider chain only ever rephrases the same fact and degrades
// silently back to the static text on any failure.
package knowledge

import (
	"context"
	"strings"

	"github.com/releasewizard/api/internal/model"
	"github.com/releasewizard/api/internal/provider"
)

// SourceStatic labels answers that came from the built-in lookup.
const SourceStatic = "static"

// OfflineMessage is surfaced only when neither the static lookup nor any
// provider can produce an answer.
const OfflineMessage = "I'm currently offline and can't look that up, but I can still walk you through the release details."

type entry struct {
	keywords []string
	answer   string
}

var entries = []entry{
	{
		keywords: []string{"upc", "barcode"},
		answer:   "A UPC (Universal Product Code) is the barcode that identifies your release as a product. If you don't have one, you can skip it and the distributor will assign one for free.",
	},
	{
		keywords: []string{"isrc"},
		answer:   "An ISRC (International Standard Recording Code) uniquely identifies one recording. Stores use it to track plays and royalties. You can skip it and one will be generated for you.",
	},
	{
		keywords: []string{"legal name", "real name", "full name", "stage name", "alias"},
		answer:   "Composer and lyricist credits need full legal names (first and last) because publishing royalties are paid against them. Stage aliases can't collect publishing royalties.",
	},
	{
		keywords: []string{"explicit", "parental advisory", "swear", "profanity"},
		answer:   "A track is Explicit if the lyrics contain profanity or adult themes. Stores show the E badge for it. Clean means radio-safe lyrics, and Instrumental means no lyrics at all.",
	},
	{
		keywords: []string{"cover art", "artwork", "cover image", "album art"},
		answer:   "Cover art must be a square image, at least 3000x3000 pixels, with no URLs, social handles, logos or blurry text. Stores reject art that breaks these rules.",
	},
	{
		keywords: []string{"audio format", "wav", "file format", "bitrate", "sample rate"},
		answer:   "Upload lossless audio: WAV or FLAC, 16-bit or 24-bit, 44.1 kHz or higher. MP3s are accepted but lossless masters sound better on streaming.",
	},
	{
		keywords: []string{"payout", "royalties", "get paid", "stripe", "paypal"},
		answer:   "Royalties are paid to your connected payout method — Stripe or PayPal. You need one connected before a release can go out.",
	},
	{
		keywords: []string{"dsp", "stores", "spotify", "apple music", "streaming platforms"},
		answer:   "DSPs (Digital Service Providers) are the streaming stores — Spotify, Apple Music and the rest. Your release metadata is what they display, so it has to follow their rules.",
	},
	{
		keywords: []string{"release date", "how long", "how fast", "when will"},
		answer:   "ASAP releases typically go live in 2-5 business days. For a specific date, give the stores at least two weeks so editorial playlists can consider the release.",
	},
}

const rephraseSystemPrompt = `You are a friendly music distribution assistant.
Rephrase the provided fact as a natural, concise answer to the user's
question. Do not add claims that are not in the fact. Keep it under 80 words.`

const answerSystemPrompt = `You are a friendly music distribution assistant.
Answer the user's question about releasing music to streaming stores,
concisely and accurately. Keep it under 80 words.`

// Responder answers QUESTION-classified utterances.
type Responder struct {
	chain *provider.Chain
}

// NewResponder builds a responder. chain may be nil for a static-only one.
func NewResponder(chain *provider.Chain) *Responder {
	return &Responder{chain: chain}
}

// Answer produces an explanation and the label of its source. The dialogue
// step and draft are never touched.
func (r *Responder) Answer(ctx context.Context, question string, history []model.ConversationTurn) (string, string) {
	fact := lookup(question)

	if r.chain != nil {
		system := rephraseSystemPrompt
		user := "Question: " + question
		if fact != "" {
			user += "\nFact: " + fact
		} else {
			system = answerSystemPrompt
		}
		text, source, err := r.chain.Complete(ctx, provider.CompletionRequest{
			System:      system,
			History:     history,
			User:        user,
			Temperature: 0.3,
			MaxTokens:   256,
		})
		if err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text), source
		}
	}

	if fact != "" {
		return fact, SourceStatic
	}
	return OfflineMessage, SourceStatic
}

func lookup(question string) string {
	lower := strings.ToLower(question)
	for _, e := range entries {
		for _, kw := range e.keywords {
			if strings.Contains(lower, kw) {
				return e.answer
			}
		}
	}
	return ""
}

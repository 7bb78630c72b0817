package model

// Dialogue steps
type DialogueStep string

const (
	StepPayoutGate          DialogueStep = "payout_gate"
	StepIntro               DialogueStep = "intro"
	StepTitle               DialogueStep = "title"
	StepVersionType         DialogueStep = "version_type"
	StepVersionCustom       DialogueStep = "version_custom"
	StepGenre               DialogueStep = "genre"
	StepReleaseDate         DialogueStep = "release_date"
	StepReleaseDateSpecific DialogueStep = "release_date_specific"
	StepLabel               DialogueStep = "label"
	StepUPC                 DialogueStep = "upc"
	StepComposerStart       DialogueStep = "composer_start"
	StepComposerAdd         DialogueStep = "composer_add"
	StepComposerMore        DialogueStep = "composer_more"
	StepPerformerStart      DialogueStep = "performer_start"
	StepPerformerAdd        DialogueStep = "performer_add"
	StepPerformerMore       DialogueStep = "performer_more"
	StepProducerStart       DialogueStep = "producer_start"
	StepProducerAdd         DialogueStep = "producer_add"
	StepProducerMore        DialogueStep = "producer_more"
	StepLyricsLanguage      DialogueStep = "lyrics_language"
	StepLyricistAdd         DialogueStep = "lyricist_add"
	StepLyricistMore        DialogueStep = "lyricist_more"
	StepExplicit            DialogueStep = "explicit"
	StepISRC                DialogueStep = "isrc"
	StepCoverArt            DialogueStep = "cover_art"
	StepAudio               DialogueStep = "audio"
	StepReview              DialogueStep = "review"
	StepSubmitted           DialogueStep = "submitted"
)

// Intent types
type IntentType string

const (
	IntentAnswer   IntentType = "answer"
	IntentQuestion IntentType = "question"
	IntentEdit     IntentType = "edit"
	IntentSkip     IntentType = "skip"
)

// Release date modes
type ReleaseDateMode string

const (
	ReleaseDateASAP     ReleaseDateMode = "asap"
	ReleaseDateSpecific ReleaseDateMode = "specific"
)

// Explicit ratings
type ExplicitRating string

const (
	RatingClean        ExplicitRating = "clean"
	RatingExplicit     ExplicitRating = "explicit"
	RatingInstrumental ExplicitRating = "instrumental"
)

// LyricsLanguageInstrumental is the sentinel language stored when a track
// has no lyrics at all.
const LyricsLanguageInstrumental = "Instrumental"

// Version types
type VersionType string

const (
	VersionOriginal VersionType = "original"
	VersionLive     VersionType = "live"
	VersionRemix    VersionType = "remix"
	VersionAcoustic VersionType = "acoustic"
	VersionOther    VersionType = "other"
)

var ValidVersionTypes = []VersionType{
	VersionOriginal, VersionLive, VersionRemix, VersionAcoustic, VersionOther,
}

// Field identifiers used by the field schema and edit routing
type FieldID string

const (
	FieldTitle          FieldID = "title"
	FieldVersionCustom  FieldID = "versionCustom"
	FieldGenre          FieldID = "genre"
	FieldReleaseDate    FieldID = "releaseDate"
	FieldLabel          FieldID = "label"
	FieldUPC            FieldID = "upc"
	FieldISRC           FieldID = "isrc"
	FieldComposerName   FieldID = "composerName"
	FieldPerformerName  FieldID = "performerName"
	FieldProducerName   FieldID = "producerName"
	FieldLyricistName   FieldID = "lyricistName"
	FieldLyricsLanguage FieldID = "lyricsLanguage"
)

// DSP genres accepted by the wizard
var ValidGenres = []string{
	"Pop", "Rock", "Hip Hop", "R&B", "Electronic", "Jazz",
	"Country", "Folk", "Classical", "Latin", "Reggae", "Blues",
	"Alternative", "Metal", "Soundtrack",
}

// Analysis job status
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Analysis job types
type JobType string

const (
	JobTypeCoverArt JobType = "cover_art"
	JobTypeAudio    JobType = "audio"
)

// Asset kinds accepted by the upload endpoint
type AssetKind string

const (
	AssetCoverArt AssetKind = "cover"
	AssetAudio    AssetKind = "audio"
)

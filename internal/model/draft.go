package model

// Credit is one entry in a credit list. Role is empty for lists that only
// carry names (composers, lyricists).
type Credit struct {
	Name string `json:"name"`
	Role string `json:"role,omitempty"`
}

// ReleaseDraft is the record the wizard assembles field by field. It is
// created empty apart from Artist, which is seeded from the session
// identity, and is never deleted; a reset discards the whole session.
type ReleaseDraft struct {
	Title           string          `json:"title"`
	VersionType     VersionType     `json:"versionType,omitempty"`
	VersionCustom   string          `json:"versionCustom,omitempty"`
	Artist          string          `json:"artist"`
	FeaturedArtists []string        `json:"featuredArtists,omitempty"`
	Genre           string          `json:"genre"`
	ReleaseDateMode ReleaseDateMode `json:"releaseDateMode,omitempty"`
	ReleaseDate     string          `json:"releaseDate,omitempty"`
	Label           string          `json:"label,omitempty"`
	UPC             string          `json:"upc,omitempty"`
	ISRC            string          `json:"isrc,omitempty"`
	ExplicitRating  ExplicitRating  `json:"explicitRating,omitempty"`
	LyricsLanguage  string          `json:"lyricsLanguage,omitempty"`

	Composers  []Credit `json:"composers,omitempty"`
	Performers []Credit `json:"performers,omitempty"`
	Production []Credit `json:"production,omitempty"`
	Lyricists  []Credit `json:"lyricists,omitempty"`

	CoverArtRef string `json:"coverArtRef,omitempty"`
	AudioRef    string `json:"audioRef,omitempty"`
}

// NewReleaseDraft creates an empty draft seeded with the session artist.
func NewReleaseDraft(artist string) *ReleaseDraft {
	return &ReleaseDraft{Artist: artist}
}

// DisplayTitle renders the title with its version suffix the way it would
// appear on a DSP.
func (d *ReleaseDraft) DisplayTitle() string {
	title := d.Title
	switch d.VersionType {
	case VersionLive:
		title += " (Live)"
	case VersionRemix:
		title += " (Remix)"
	case VersionAcoustic:
		title += " (Acoustic)"
	case VersionOther:
		if d.VersionCustom != "" {
			title += " (" + d.VersionCustom + ")"
		}
	}
	return title
}

package data

// ArtistRecord is one artist loaded from the input folder. Records are
// immutable once loaded: the batch dedupes them by MBID and then only ever
// reads them.
type ArtistRecord struct {
	// like "5b11f4ce-a62d-471e-81fc-a69a8278c7da"
	MBID string

	Name string

	// like "US"; may be empty
	CountryCode string

	// like "United States of America"; derived from CountryCode
	CountryName string
}

// EnrichedRecord is an ArtistRecord for which a usable YouTube channel was
// found. Artists without a channel never become one; they are dropped, not
// modeled.
type EnrichedRecord struct {
	ArtistRecord

	// The relation URL the channel id was extracted from.
	YouTubeURL string

	// like "UC27nr9wCiLTErKHK94VG3UA"
	ChannelID string
}

// Package extract pulls YouTube channel ids out of free-form relation URLs.
package extract

import (
	"net/url"
	"regexp"
	"strings"
)

// channelIDPattern is the classic YouTube channel id: "UC" followed by at
// least 20 characters of base64-url alphabet. Real ids are 24 characters
// total, but we only rely on the prefix and a minimum length.
var channelIDPattern = regexp.MustCompile(`^UC[0-9A-Za-z_-]{20,}$`)

// ChannelID extracts a YouTube channel id from rawURL, accepting only the
// canonical /channel/UC... path form. Alias forms (/user/name, /@handle,
// /c/name) carry no channel id, so they return "", as does anything
// malformed or empty. ChannelID never fails; the worst outcome is "".
func ChannelID(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	if len(parts) < 2 || !strings.EqualFold(parts[0], "channel") {
		return ""
	}

	candidate := parts[1]
	if !channelIDPattern.MatchString(candidate) {
		return ""
	}
	return candidate
}

package domain

import (
	"strconv"
	"strings"
)

// DefaultVideoQuality is used when no quality label is given
const DefaultVideoQuality = "best"

var videoQualityOrder = []string{"best", "1080p", "720p", "480p", "360p", "worst"}

var formatExpressions = map[string]string{
	"best":  "best[ext=mp4]/best",
	"1080p": heightCapped(1080),
	"720p":  heightCapped(720),
	"480p":  heightCapped(480),
	"360p":  heightCapped(360),
	"worst": "worst[ext=mp4]/worst",
}

// heightCapped prefers an mp4 at or below height and falls back to any container
func heightCapped(height int) string {
	h := strconv.Itoa(height)
	return "best[height<=" + h + "][ext=mp4]/best[height<=" + h + "]"
}

// SelectFormatExpression maps a quality label to a yt-dlp format selector.
// Unknown labels fall back to "best".
func SelectFormatExpression(label string) string {
	if expr, ok := formatExpressions[strings.ToLower(strings.TrimSpace(label))]; ok {
		return expr
	}
	return formatExpressions[DefaultVideoQuality]
}

// IsKnownVideoQuality reports whether label has its own format expression
func IsKnownVideoQuality(label string) bool {
	_, ok := formatExpressions[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// VideoQualities returns the recognized quality labels, best first
func VideoQualities() []string {
	out := make([]string, len(videoQualityOrder))
	copy(out, videoQualityOrder)
	return out
}

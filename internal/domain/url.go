package domain

import (
	"fmt"
	"regexp"
)

// Accepted URL shapes. Matching is anchored at the start only, so trailing
// fragments after the query are tolerated.
var youtubeURLPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/watch\?v=[\w-]+(?:&.*)?`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtu\.be/[\w-]+(?:&.*)?`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/embed/[\w-]+(?:&.*)?`),
}

// IsValidURL reports whether url has one of the accepted YouTube shapes
func IsValidURL(url string) bool {
	for _, pattern := range youtubeURLPatterns {
		if pattern.MatchString(url) {
			return true
		}
	}
	return false
}

// ValidateURL returns ErrInvalidURL when url is not an accepted YouTube URL
func ValidateURL(url string) error {
	if !IsValidURL(url) {
		return fmt.Errorf("%w: %q", ErrInvalidURL, url)
	}
	return nil
}

package domain

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalNumber limits ParseFloat to plain decimal notation; hex floats,
// underscores and inf/nan spellings are rejected.
var decimalNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

// VolumeExpression is a normalized ffmpeg volume filter, e.g. "volume=1.5"
// or "volume=6.0dB". Only ParseVolume produces non-empty values.
type VolumeExpression string

// String returns the filter text
func (v VolumeExpression) String() string {
	return string(v)
}

// ParseVolume turns a user supplied gain into an ffmpeg volume filter.
//
// Accepted forms (suffixes are case-insensitive):
//
//	+6dB / -3.5db  -> volume=6.0dB
//	150%           -> volume=1.5
//	0.8x           -> volume=0.8
//	2              -> volume=2.0
func ParseVolume(raw string) (VolumeExpression, error) {
	value := strings.TrimSpace(raw)
	lower := strings.ToLower(value)

	switch {
	case strings.HasSuffix(lower, "db"):
		n, err := parseVolumeNumber(raw, value[:len(value)-2])
		if err != nil {
			return "", err
		}
		return VolumeExpression("volume=" + formatDecimal(n) + "dB"), nil
	case strings.HasSuffix(lower, "%"):
		n, err := parseVolumeNumber(raw, value[:len(value)-1])
		if err != nil {
			return "", err
		}
		return VolumeExpression("volume=" + formatDecimal(n/100)), nil
	case strings.HasSuffix(lower, "x"):
		n, err := parseVolumeNumber(raw, value[:len(value)-1])
		if err != nil {
			return "", err
		}
		return VolumeExpression("volume=" + formatDecimal(n)), nil
	default:
		n, err := parseVolumeNumber(raw, value)
		if err != nil {
			return "", err
		}
		return VolumeExpression("volume=" + formatDecimal(n)), nil
	}
}

func parseVolumeNumber(raw, number string) (float64, error) {
	number = strings.TrimSpace(number)
	if !decimalNumber.MatchString(number) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVolume, raw)
	}
	n, err := strconv.ParseFloat(number, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidVolume, raw)
	}
	return n, nil
}

// formatDecimal renders n in its shortest form but always with a fractional
// part, so 6 becomes "6.0" and 1.5 stays "1.5".
func formatDecimal(n float64) string {
	s := strconv.FormatFloat(n, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

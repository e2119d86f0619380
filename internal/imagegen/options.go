package imagegen

import "strings"

// Size is the requested image frame
type Size string

const (
	SizeSquare    Size = "square"
	SizePortrait  Size = "portrait"
	SizeLandscape Size = "landscape"
	SizeWide      Size = "wide"
)

// Quality is the requested quality tier
type Quality string

const (
	QualityStandard Quality = "standard"
	QualityHigh     Quality = "high"
)

const mimeTypePNG = "image/png"

// ParseSize maps a client value to a Size. Empty or unknown values fall back to square.
func ParseSize(s string) Size {
	switch Size(strings.ToLower(strings.TrimSpace(s))) {
	case SizePortrait:
		return SizePortrait
	case SizeLandscape:
		return SizeLandscape
	case SizeWide:
		return SizeWide
	default:
		return SizeSquare
	}
}

// ParseQuality maps a client value to a Quality. "hd" is accepted as an alias of high.
func ParseQuality(s string) Quality {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "hd":
		return QualityHigh
	default:
		return QualityStandard
	}
}

// Dimensions returns the fixed pixel dimensions for a size
func Dimensions(size Size) string {
	switch size {
	case SizePortrait:
		return "1024x1792"
	case SizeLandscape, SizeWide:
		return "1792x1024"
	default:
		return "1024x1024"
	}
}

// AspectRatio returns the aspect ratio used by vendors that take ratios instead of pixels
func AspectRatio(size Size) string {
	switch size {
	case SizePortrait:
		return "9:16"
	case SizeLandscape, SizeWide:
		return "16:9"
	default:
		return "1:1"
	}
}

// VendorQuality maps a quality tier to the OpenAI images quality value
func VendorQuality(q Quality) string {
	if q == QualityHigh {
		return "hd"
	}
	return "standard"
}

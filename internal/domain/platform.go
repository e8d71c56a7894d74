package domain

import "errors"

// Platform identifies the social network a variant is composed for. The
// set is closed: requests naming a platform outside it fail validation
// instead of silently receiving generic content.
type Platform string

// Platforms the engine composes for.
const (
	PlatformInstagram Platform = "instagram"
	PlatformFacebook  Platform = "facebook"
	PlatformLinkedIn  Platform = "linkedin"
	PlatformTwitter   Platform = "twitter"
)

// KnownPlatform reports whether the given platform is one the engine has
// composition rules for.
func KnownPlatform(p Platform) bool {
	switch p {
	case PlatformInstagram, PlatformFacebook, PlatformLinkedIn, PlatformTwitter:
		return true
	default:
		return false
	}
}

// AspectRatio is the rendering shape requested for a variant's creative,
// expressed as "width:height".
type AspectRatio string

// Aspect ratios the image providers accept.
const (
	AspectSquare    AspectRatio = "1:1"
	AspectPortrait  AspectRatio = "4:5"
	AspectLandscape AspectRatio = "16:9"
	AspectStory     AspectRatio = "9:16"
)

// Common validation errors for PlatformVariant.
var (
	ErrUnknownPlatform    = errors.New("unknown platform")
	ErrUnknownAspectRatio = errors.New("unknown aspect ratio")
)

// DefaultAspectRatio returns the ratio a platform's feed renders best at,
// used when a request names a platform without a ratio.
func DefaultAspectRatio(p Platform) AspectRatio {
	switch p {
	case PlatformInstagram:
		return AspectSquare
	case PlatformFacebook:
		return AspectLandscape
	case PlatformLinkedIn:
		return AspectLandscape
	case PlatformTwitter:
		return AspectLandscape
	default:
		return AspectSquare
	}
}

// PlatformVariant names one deliverable of a generation request: a single
// platform plus the aspect ratio its creative should be rendered at.
type PlatformVariant struct {
	Platform    Platform    `json:"platform"`
	AspectRatio AspectRatio `json:"aspect_ratio"`
}

// Validate checks if the PlatformVariant has valid data.
func (v PlatformVariant) Validate() error {
	if !KnownPlatform(v.Platform) {
		return ErrUnknownPlatform
	}

	if !isValidAspectRatio(v.AspectRatio) {
		return ErrUnknownAspectRatio
	}

	return nil
}

// isValidAspectRatio checks if the given ratio is a valid AspectRatio.
func isValidAspectRatio(r AspectRatio) bool {
	switch r {
	case AspectSquare, AspectPortrait, AspectLandscape, AspectStory:
		return true
	default:
		return false
	}
}

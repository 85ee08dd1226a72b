package domain

import "strings"

const (
	SourceAds     = "ads"
	SourceOrganic = "organic"

	MediumTikTok    = "tiktok"
	MediumInstagram = "instagram"
	MediumOther     = "other"
)

// ClassifyMedium buckets the ad medium. Only meaningful for ads
// traffic; everything unrecognized is other.
func ClassifyMedium(medium string) string {
	m := strings.ToLower(strings.TrimSpace(medium))
	switch {
	case strings.Contains(m, "tiktok"):
		return MediumTikTok
	case strings.Contains(m, "instagram"), m == "ig":
		return MediumInstagram
	default:
		return MediumOther
	}
}

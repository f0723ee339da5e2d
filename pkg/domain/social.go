package domain

// Platform identifies a social network a link belongs to.
type Platform string

const (
	PlatformFacebook  Platform = "Facebook"
	PlatformLinkedIn  Platform = "LinkedIn"
	PlatformInstagram Platform = "Instagram"
	// PlatformTwitter covers both twitter.com and x.com links.
	PlatformTwitter Platform = "Twitter/X"
)

// PlatformPriority lists platforms from most to least preferred when a single
// social link has to be picked for a business.
func PlatformPriority() []Platform {
	return []Platform{PlatformFacebook, PlatformLinkedIn, PlatformInstagram, PlatformTwitter}
}

// SocialLink is a social-media profile URL tagged with its platform.
type SocialLink struct {
	Platform Platform
	URL      string
}

package contact_test

import (
	"extractor/internal/contact"
	"extractor/pkg/domain"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelect(t *testing.T) {
	fb := domain.SocialLink{Platform: domain.PlatformFacebook, URL: "https://facebook.com/acmecorp"}
	fb2 := domain.SocialLink{Platform: domain.PlatformFacebook, URL: "https://facebook.com/acmecorp.eu"}
	li := domain.SocialLink{Platform: domain.PlatformLinkedIn, URL: "https://linkedin.com/company/acme"}
	ig := domain.SocialLink{Platform: domain.PlatformInstagram, URL: "https://instagram.com/acme"}
	tw := domain.SocialLink{Platform: domain.PlatformTwitter, URL: "https://x.com/acme"}

	cases := []struct {
		name  string
		links []domain.SocialLink
		want  domain.SocialLink
		found bool
	}{
		{name: "none", links: nil, found: false},
		{name: "facebook wins regardless of position", links: []domain.SocialLink{tw, ig, li, fb}, want: fb, found: true},
		{name: "first facebook link wins", links: []domain.SocialLink{fb2, tw, fb}, want: fb2, found: true},
		{name: "linkedin over instagram and twitter", links: []domain.SocialLink{tw, ig, li}, want: li, found: true},
		{name: "instagram over twitter", links: []domain.SocialLink{tw, ig}, want: ig, found: true},
		{name: "twitter alone", links: []domain.SocialLink{tw}, want: tw, found: true},
		{
			name:  "unknown platform and empty URL are ignored",
			links: []domain.SocialLink{{Platform: "MySpace", URL: "https://myspace.com/acme"}, {Platform: domain.PlatformFacebook}},
			found: false,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := contact.Select(tc.links)
			require.Equal(t, tc.found, ok)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSelect_NeverSkipsFacebook(t *testing.T) {
	others := []domain.SocialLink{
		{Platform: domain.PlatformTwitter, URL: "https://twitter.com/a"},
		{Platform: domain.PlatformLinkedIn, URL: "https://linkedin.com/in/a"},
		{Platform: domain.PlatformInstagram, URL: "https://instagram.com/a"},
	}
	fb := domain.SocialLink{Platform: domain.PlatformFacebook, URL: "https://facebook.com/a"}

	for i := 0; i <= len(others); i++ {
		links := append(append(append([]domain.SocialLink{}, others[:i]...), fb), others[i:]...)
		got, ok := contact.Select(links)
		require.True(t, ok)
		require.Equal(t, domain.PlatformFacebook, got.Platform)
	}
}

// Package scanner turns website input into things the extractor can work
// with: NormalizeURL canonicalizes the website of a business and Scan pulls
// candidate emails and social-media links out of fetched pages.
package scanner

import (
	"extractor/pkg/domain"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	emailPattern      = regexp.MustCompile(`(?i)\b[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}\b`)
	exactEmailPattern = regexp.MustCompile(`(?i)^[a-z0-9._%+-]+@[a-z0-9.-]+\.[a-z]{2,}$`)
)

type socialPattern struct {
	platform domain.Platform
	re       *regexp.Regexp
}

// socialPatterns are matched in platform priority order.
var socialPatterns = []socialPattern{ //nolint: gochecknoglobals
	{domain.PlatformFacebook, regexp.MustCompile(`(?i)https?://(?:www\.)?facebook\.com/[^"'\s<>]+`)},
	{domain.PlatformLinkedIn, regexp.MustCompile(`(?i)https?://(?:www\.)?linkedin\.com/[^"'\s<>]+`)},
	{domain.PlatformInstagram, regexp.MustCompile(`(?i)https?://(?:www\.)?instagram\.com/[^"'\s<>]+`)},
	{domain.PlatformTwitter, regexp.MustCompile(`(?i)https?://(?:www\.)?(?:twitter|x)\.com/[^"'\s<>]+`)},
}

// Result holds the candidates found in one page. Nothing in it is validated yet.
type Result struct {
	// Emails are email-like tokens in document order, followed by addresses
	// only found in mailto: links.
	Emails []string
	// Socials are social-media links tagged with their platform, grouped by
	// platform in priority order and deduplicated.
	Socials []domain.SocialLink
}

// Scan extracts candidate emails and social-media links from a page body.
// Matching is case-insensitive.
func Scan(body string) Result {
	res := Result{
		Emails: bodyEmails(body),
	}
	res.Emails = append(res.Emails, mailtoAddresses(body)...)

	seen := make(map[string]struct{})
	for _, p := range socialPatterns {
		for _, match := range p.re.FindAllString(body, -1) {
			link := strings.TrimRight(match, ".,;:!?)]}")
			if _, ok := seen[link]; ok {
				continue
			}
			seen[link] = struct{}{}
			res.Socials = append(res.Socials, domain.SocialLink{Platform: p.platform, URL: link})
		}
	}

	return res
}

// IsEmail reports whether s, as a whole, has the shape of an email address.
func IsEmail(s string) bool {
	return exactEmailPattern.MatchString(s)
}

// bodyEmails returns the email-like tokens of body. A token that starts
// inside a percent-escape, such as "20info@acme.com" in "mailto:%20info@acme.com",
// loses the escape remnants.
func bodyEmails(body string) []string {
	locs := emailPattern.FindAllStringIndex(body, -1)
	if len(locs) == 0 {
		return nil
	}

	out := make([]string, 0, len(locs))
	for _, loc := range locs {
		email := body[loc[0]:loc[1]]
		if loc[0] > 0 && body[loc[0]-1] == '%' && len(email) > 2 && isHex(email[0]) && isHex(email[1]) {
			email = email[2:]
			for len(email) > 3 && email[0] == '%' && isHex(email[1]) && isHex(email[2]) {
				email = email[3:]
			}
		}
		out = append(out, email)
	}

	return out
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// mailtoAddresses returns addresses from mailto: anchors that the plain text
// pattern cannot see, such as percent-encoded ones.
func mailtoAddresses(body string) []string {
	if !strings.Contains(strings.ToLower(body), "mailto:") {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil
	}

	var out []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		href = strings.TrimSpace(href)
		if len(href) < len("mailto:") || !strings.EqualFold(href[:len("mailto:")], "mailto:") {
			return
		}

		addrs, _, _ := strings.Cut(href[len("mailto:"):], "?")
		if !strings.Contains(addrs, "%") {
			// already visible to the text pattern
			return
		}
		decoded, err := url.PathUnescape(addrs)
		if err != nil {
			return
		}
		for _, addr := range strings.Split(decoded, ",") {
			if addr = strings.TrimSpace(addr); addr != "" {
				out = append(out, addr)
			}
		}
	})

	return out
}

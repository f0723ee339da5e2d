package contact

import "extractor/pkg/domain"

// Select returns the first link of the highest-priority platform present in
// links, following domain.PlatformPriority. The boolean is false when links
// holds no link of a known platform.
func Select(links []domain.SocialLink) (domain.SocialLink, bool) {
	for _, platform := range domain.PlatformPriority() {
		for _, link := range links {
			if link.Platform == platform && link.URL != "" {
				return link, true
			}
		}
	}

	return domain.SocialLink{}, false
}

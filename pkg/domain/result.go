package domain

// ExtractionResult is the outcome of processing one Business. It is built
// once by the processor and not modified afterwards.
type ExtractionResult struct {
	// BusinessName and Website are copied verbatim from the input row.
	BusinessName string
	Website      string

	// Emails holds the cleaned, deduplicated addresses in first-seen order.
	Emails []string
	// Social is the selected social link, nil when none was found.
	Social *SocialLink

	// SkipReason is set when the website could not be normalized and no page was requested.
	SkipReason string
	// PagesFetched counts the pages that were fetched successfully.
	PagesFetched int
}

// PrimaryEmail returns the first cleaned email or "".
func (r ExtractionResult) PrimaryEmail() string {
	if len(r.Emails) > 0 {
		return r.Emails[0]
	}

	return ""
}

// SecondaryEmail returns the second cleaned email or "".
func (r ExtractionResult) SecondaryEmail() string {
	if len(r.Emails) > 1 {
		return r.Emails[1]
	}

	return ""
}

// SocialURL returns the selected social link URL or "".
func (r ExtractionResult) SocialURL() string {
	if r.Social == nil {
		return ""
	}

	return r.Social.URL
}

// EmailsFound is the number of valid emails retained for the business.
func (r ExtractionResult) EmailsFound() int {
	return len(r.Emails)
}

// HasContact reports whether at least one email or a social link was found.
func (r ExtractionResult) HasContact() bool {
	return r.EmailsFound() > 0 || r.Social != nil
}

// Skipped reports whether the business was skipped before any page was fetched.
func (r ExtractionResult) Skipped() bool {
	return r.SkipReason != ""
}

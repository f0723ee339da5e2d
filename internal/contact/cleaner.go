// Package contact decides which of the candidates found on a website are
// kept: Cleaner filters candidate emails and Select picks the social link.
package contact

import (
	"extractor/internal/scanner"
	"fmt"
	"regexp"
	"strings"
)

// Rules configure what the Cleaner drops.
type Rules struct {
	// Extensions are file extensions, without the dot, that mark a candidate
	// as a file name rather than an email (e.g. "logo@2x.png").
	Extensions []string
	// PlaceholderPatterns are regular expressions matched against the
	// lower-cased candidate; a match marks a placeholder or test address.
	// Domain patterns start at "@" or "." so that longer domains ending the
	// same way are kept.
	PlaceholderPatterns []string
}

// DefaultRules returns the built-in exclusion rules.
func DefaultRules() Rules {
	return Rules{
		Extensions: []string{
			"png", "jpg", "jpeg", "gif", "svg", "webp", "bmp", "ico",
			"pdf", "html", "htm", "css", "js", "json", "xml",
			"mp4", "mp3", "avi", "mov",
			"zip", "rar", "gz", "tar",
			"doc", "docx", "xls", "xlsx", "ppt", "pptx",
		},
		PlaceholderPatterns: []string{
			`[@.]example\.(com|org|net)$`,
			`^example@`,
			`^test@`,
			`[@.]test\.com$`,
			`^xxx@`,
			`[@.]xxx\.com$`,
			`^your@email\.com$`,
			`^(email|name|user|username)@(email|domain|company)\.com$`,
			`no-?reply`,
			`do-?not-?reply`,
			`@domain\.com$`,
			`yourdomain`,
			`youremail`,
			`[@.]sentry\.io$`,
			`[@.]wixpress\.com$`,
		},
	}
}

// Cleaner filters candidate emails. It is safe for concurrent use.
type Cleaner struct {
	extensions   []string
	placeholders []*regexp.Regexp
}

// NewCleaner compiles the given rules. Empty rule lists fall back to the
// matching list of DefaultRules.
func NewCleaner(rules Rules) (*Cleaner, error) {
	defaults := DefaultRules()
	if len(rules.Extensions) == 0 {
		rules.Extensions = defaults.Extensions
	}
	if len(rules.PlaceholderPatterns) == 0 {
		rules.PlaceholderPatterns = defaults.PlaceholderPatterns
	}

	c := &Cleaner{}
	for _, ext := range rules.Extensions {
		ext = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
		if ext != "" {
			c.extensions = append(c.extensions, "."+ext)
		}
	}
	for _, p := range rules.PlaceholderPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("could not compile placeholder pattern %q: %w", p, err)
		}
		c.placeholders = append(c.placeholders, re)
	}

	return c, nil
}

// Clean lower-cases and trims every candidate and keeps the valid ones,
// without duplicates, in first-seen order. Cleaning its own output returns
// the same list.
func (c *Cleaner) Clean(candidates []string) []string {
	clean := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))

	for _, email := range candidates {
		email = strings.ToLower(strings.TrimSpace(email))
		if !c.Valid(email) {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		clean = append(clean, email)
	}

	return clean
}

// Valid reports whether an already lower-cased, trimmed candidate passes
// every exclusion rule.
func (c *Cleaner) Valid(email string) bool {
	if email == "" {
		return false
	}
	for _, ext := range c.extensions {
		if strings.HasSuffix(email, ext) {
			return false
		}
	}
	for _, re := range c.placeholders {
		if re.MatchString(email) {
			return false
		}
	}

	return scanner.IsEmail(email)
}

package registry

import (
	"fmt"
	"regexp"
	"strings"
)

// Identifier and credential policy. The identifier grammar matches the CLI's:
// publisher/namespace/dataset, where the publisher slug may contain dots for
// domain-based publishers (e.g. norge.no/population/census).
var (
	identifierPattern = regexp.MustCompile(
		`^[a-z0-9]([a-z0-9.-]*[a-z0-9])?/[a-z0-9]([a-z0-9-]*[a-z0-9])?/[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)
	checksumPattern = regexp.MustCompile(`^[a-z0-9]+:[a-f0-9]+$`)
	usernamePattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]{1,29}$`)
)

// MinPasswordLength is the minimum accepted password length.
const MinPasswordLength = 8

// ValidateIdentifier checks a package identifier against the slug grammar.
func ValidateIdentifier(id string) error {
	if !identifierPattern.MatchString(id) {
		return Validationf("invalid package id %q: expected publisher/namespace/dataset "+
			"(slash-separated lowercase slugs, publisher may contain dots)", id)
	}
	return nil
}

// PublisherSegment returns the leading segment of a package identifier.
func PublisherSegment(id string) string {
	if i := strings.IndexByte(id, '/'); i >= 0 {
		return id[:i]
	}
	return id
}

// ValidateUsername checks the registration username policy: 2-30 lowercase
// letters, digits, hyphens or underscores, starting alphanumeric.
func ValidateUsername(username string) error {
	if !usernamePattern.MatchString(username) {
		return Validationf("username must be 2-30 lowercase letters, digits, hyphens, or underscores")
	}
	return nil
}

// ValidatePassword checks the registration password policy.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return Validationf("password must be at least %d characters", MinPasswordLength)
	}
	return nil
}

// ValidatePackage checks a publish payload before any store mutation.
func ValidatePackage(pkg *Package) error {
	if err := ValidateIdentifier(pkg.ID); err != nil {
		return err
	}
	if pkg.Version == "" {
		return Validationf("version is required")
	}
	if pkg.Title == "" {
		return Validationf("title is required")
	}
	if pkg.Publisher.Name == "" {
		return Validationf("publisher.name is required")
	}
	if len(pkg.Sources) == 0 {
		return Validationf("sources must not be empty")
	}
	for i, src := range pkg.Sources {
		if src.URL == "" {
			return Validationf("sources[%d].url is required", i)
		}
		if src.Format == "" {
			return Validationf("sources[%d].format is required", i)
		}
		if src.Checksum != "" && !checksumPattern.MatchString(src.Checksum) {
			return Validationf("sources[%d].checksum must be in the form %s", i, "'algorithm:hexdigest'")
		}
	}
	return nil
}

// joinPrefix builds a LIKE pattern for identifier prefix matching.
func joinPrefix(segments ...string) string {
	return fmt.Sprintf("%s/%%", strings.Join(segments, "/"))
}

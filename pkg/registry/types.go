package registry

import "time"

// Source describes one downloadable artifact of a dataset.
type Source struct {
	URL      string `json:"url"`
	Format   string `json:"format"`
	Size     *int64 `json:"size,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

// Publisher is the display metadata for the publishing organization.
type Publisher struct {
	Name string `json:"name"`
	URL  string `json:"url,omitempty"`
}

// Package is the payload a publisher submits. ID is the three-segment
// publisher/namespace/dataset identifier.
type Package struct {
	ID          string    `json:"id"`
	Version     string    `json:"version"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	License     string    `json:"license,omitempty"`
	Publisher   Publisher `json:"publisher"`
	Tags        []string  `json:"tags,omitempty"`
	Sources     []Source  `json:"sources"`
}

// PackageVersion is a stored package enriched with registry-owned fields.
type PackageVersion struct {
	Package
	Owner       string    `json:"owner"`
	PublishedAt time.Time `json:"published_at"`
}

// VersionList is every published version of one package, newest first.
type VersionList struct {
	ID       string           `json:"id"`
	Versions []PackageVersion `json:"versions"`
	Total    int              `json:"total"`
}

// Stats aggregates site-wide counts for the catalog.
type Stats struct {
	Datasets   int `json:"datasets"`
	Publishers int `json:"publishers"`
	Sources    int `json:"sources"`
}

package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/datumhub/datumhub/pkg/observability"
)

// Identity is an authenticated principal as resolved by the auth layer.
type Identity struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
}

// Store is the authoritative table of published package versions plus its
// derived search index. Every mutation updates both inside one transaction.
type Store struct {
	db     *sql.DB
	fts    bool
	logger *observability.Logger
}

// NewStore creates a package store over an opened database. fts reports
// whether the packages_fts index exists (see storage.Open).
func NewStore(db *sql.DB, fts bool, logger *observability.Logger) *Store {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Store{db: db, fts: fts, logger: logger}
}

// FTSEnabled reports whether the structured search index is available.
func (s *Store) FTSEnabled() bool {
	return s.fts
}

// Publish stores a new package version. When (id, version) already exists it
// fails with ErrConflict unless force is set; force requires the caller to be
// the current owner and replaces the record atomically (delete then insert,
// index document included). The identifier's publisher segment must equal the
// caller's username.
func (s *Store) Publish(ctx context.Context, pkg *Package, caller Identity, force bool) (*PackageVersion, error) {
	if err := ValidatePackage(pkg); err != nil {
		return nil, err
	}
	if publisher := PublisherSegment(pkg.ID); publisher != caller.Username {
		return nil, fmt.Errorf("publisher slug %q does not match username %q: %w",
			publisher, caller.Username, ErrForbidden)
	}

	data, err := json.Marshal(pkg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode package payload: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var existingRow, existingOwner int64
	err = tx.QueryRowContext(ctx, `
		SELECT id, owner_id FROM packages WHERE package_id = ? AND version = ?
	`, pkg.ID, pkg.Version).Scan(&existingRow, &existingOwner)
	switch {
	case err == sql.ErrNoRows:
		// First publish of this (id, version).
	case err != nil:
		return nil, fmt.Errorf("failed to check existing version: %w", err)
	default:
		if !force {
			return nil, fmt.Errorf("%s:%s %w; republish with force to overwrite",
				pkg.ID, pkg.Version, ErrConflict)
		}
		if existingOwner != caller.UserID {
			return nil, fmt.Errorf("cannot overwrite %s:%s: %w", pkg.ID, pkg.Version, ErrForbidden)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM packages WHERE id = ?`, existingRow); err != nil {
			return nil, fmt.Errorf("failed to remove previous version: %w", err)
		}
		if err := s.indexDelete(ctx, tx, existingRow); err != nil {
			return nil, err
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO packages (package_id, version, owner_id, data) VALUES (?, ?, ?, ?)
	`, pkg.ID, pkg.Version, caller.UserID, string(data))
	if err != nil {
		return nil, fmt.Errorf("failed to insert package: %w", err)
	}
	rowID, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve inserted row: %w", err)
	}
	if err := s.indexInsert(ctx, tx, rowID, pkg); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit publish: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"package_id": pkg.ID,
		"version":    pkg.Version,
		"owner":      caller.Username,
		"force":      force,
	}).Info("published package version")

	return s.GetVersion(ctx, pkg.ID, pkg.Version)
}

// GetVersion returns one specific published version.
func (s *Store) GetVersion(ctx context.Context, packageID, version string) (*PackageVersion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.data, p.published_at, u.username
		FROM packages p
		JOIN users u ON u.id = p.owner_id
		WHERE p.package_id = ? AND p.version = ?
	`, packageID, version)
	pv, err := scanPackageVersion(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("package %s:%s %w", packageID, version, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load package %s:%s: %w", packageID, version, err)
	}
	return pv, nil
}

// GetLatest returns the most recently published version of a package,
// tie-broken by insertion order.
func (s *Store) GetLatest(ctx context.Context, packageID string) (*PackageVersion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT p.data, p.published_at, u.username
		FROM packages p
		JOIN users u ON u.id = p.owner_id
		WHERE p.package_id = ?
		ORDER BY p.published_at DESC, p.id DESC
		LIMIT 1
	`, packageID)
	pv, err := scanPackageVersion(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("package %q %w", packageID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load latest %q: %w", packageID, err)
	}
	return pv, nil
}

// ListVersions returns every published version of a package, newest first.
func (s *Store) ListVersions(ctx context.Context, packageID string) (*VersionList, error) {
	versions, err := s.queryVersions(ctx, `
		SELECT p.data, p.published_at, u.username
		FROM packages p
		JOIN users u ON u.id = p.owner_id
		WHERE p.package_id = ?
		ORDER BY p.published_at DESC, p.id DESC
	`, packageID)
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("package %q %w", packageID, ErrNotFound)
	}
	return &VersionList{ID: packageID, Versions: versions, Total: len(versions)}, nil
}

// Unpublish removes one published version and its search document. Only the
// owner may unpublish.
func (s *Store) Unpublish(ctx context.Context, packageID, version string, caller Identity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var rowID, ownerID int64
	err = tx.QueryRowContext(ctx, `
		SELECT id, owner_id FROM packages WHERE package_id = ? AND version = ?
	`, packageID, version).Scan(&rowID, &ownerID)
	if err == sql.ErrNoRows {
		return fmt.Errorf("package %s:%s %w", packageID, version, ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to look up %s:%s: %w", packageID, version, err)
	}
	if ownerID != caller.UserID {
		return fmt.Errorf("cannot unpublish %s:%s: %w", packageID, version, ErrForbidden)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM packages WHERE id = ?`, rowID); err != nil {
		return fmt.Errorf("failed to delete package: %w", err)
	}
	if err := s.indexDelete(ctx, tx, rowID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit unpublish: %w", err)
	}

	s.logger.WithFields(map[string]interface{}{
		"package_id": packageID,
		"version":    version,
		"owner":      caller.Username,
	}).Info("unpublished package version")
	return nil
}

// ListByOwner returns every version owned by a user, newest first. An empty
// result is a valid success.
func (s *Store) ListByOwner(ctx context.Context, username string) ([]PackageVersion, error) {
	return s.queryVersions(ctx, `
		SELECT p.data, p.published_at, u.username
		FROM packages p
		JOIN users u ON u.id = p.owner_id
		WHERE u.username = ?
		ORDER BY p.published_at DESC, p.id DESC
	`, username)
}

// ListByPublisher returns every version under a publisher slug, newest first.
func (s *Store) ListByPublisher(ctx context.Context, publisher string) ([]PackageVersion, error) {
	versions, err := s.queryVersions(ctx, `
		SELECT p.data, p.published_at, u.username
		FROM packages p
		JOIN users u ON u.id = p.owner_id
		WHERE p.package_id LIKE ?
		ORDER BY p.published_at DESC, p.id DESC
	`, joinPrefix(publisher))
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("publisher %q %w", publisher, ErrNotFound)
	}
	return versions, nil
}

// ListByNamespace returns every version in a publisher/namespace, newest first.
func (s *Store) ListByNamespace(ctx context.Context, publisher, namespace string) ([]PackageVersion, error) {
	versions, err := s.queryVersions(ctx, `
		SELECT p.data, p.published_at, u.username
		FROM packages p
		JOIN users u ON u.id = p.owner_id
		WHERE p.package_id LIKE ?
		ORDER BY p.published_at DESC, p.id DESC
	`, joinPrefix(publisher, namespace))
	if err != nil {
		return nil, err
	}
	if len(versions) == 0 {
		return nil, fmt.Errorf("namespace %q %w", publisher+"/"+namespace, ErrNotFound)
	}
	return versions, nil
}

// DistinctIdentifiers returns the set of currently-published package ids.
func (s *Store) DistinctIdentifiers(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT package_id FROM packages`)
	if err != nil {
		return nil, fmt.Errorf("failed to list identifiers: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan identifier: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate identifiers: %w", err)
	}
	return ids, nil
}

// Stats returns aggregate counts for the catalog homepage.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM packages`).Scan(&st.Datasets); err != nil {
		return nil, fmt.Errorf("failed to count datasets: %w", err)
	}
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(DISTINCT substr(package_id, 1, instr(package_id, '/') - 1)) FROM packages
	`).Scan(&st.Publishers)
	if err != nil {
		return nil, fmt.Errorf("failed to count publishers: %w", err)
	}
	err = s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(json_array_length(json_extract(data, '$.sources'))), 0) FROM packages
	`).Scan(&st.Sources)
	if err != nil {
		return nil, fmt.Errorf("failed to count sources: %w", err)
	}
	return &st, nil
}

// queryVersions runs a query whose columns are (data, published_at, username)
// and decodes each row into a PackageVersion.
func (s *Store) queryVersions(ctx context.Context, query string, args ...interface{}) ([]PackageVersion, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query packages: %w", err)
	}
	defer rows.Close()

	versions := make([]PackageVersion, 0)
	for rows.Next() {
		pv, err := scanPackageVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		versions = append(versions, *pv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate packages: %w", err)
	}
	return versions, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPackageVersion(row rowScanner) (*PackageVersion, error) {
	var (
		data        []byte
		publishedAt time.Time
		owner       string
	)
	if err := row.Scan(&data, &publishedAt, &owner); err != nil {
		return nil, err
	}
	var pv PackageVersion
	if err := json.Unmarshal(data, &pv.Package); err != nil {
		return nil, fmt.Errorf("failed to decode package payload: %w", err)
	}
	pv.Owner = owner
	pv.PublishedAt = publishedAt
	return &pv, nil
}

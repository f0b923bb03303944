package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// The search index is a derived representation: one FTS5 document per
// packages row, keyed by rowid. All index maintenance rides the transaction
// of the record mutation that caused it, so readers never observe a package
// without its document or a document without its package.

// indexDocument holds the searchable fields extracted from a payload.
type indexDocument struct {
	PackageID     string
	Title         string
	Description   string
	Tags          string
	PublisherName string
}

// buildDocument extracts the indexed fields from a package payload.
func buildDocument(pkg *Package) indexDocument {
	return indexDocument{
		PackageID:     pkg.ID,
		Title:         pkg.Title,
		Description:   pkg.Description,
		Tags:          strings.Join(pkg.Tags, " "),
		PublisherName: pkg.Publisher.Name,
	}
}

// indexInsert adds the document for a package row inside tx. No-op when the
// FTS index is unavailable.
func (s *Store) indexInsert(ctx context.Context, tx *sql.Tx, rowID int64, pkg *Package) error {
	if !s.fts {
		return nil
	}
	doc := buildDocument(pkg)
	_, err := tx.ExecContext(ctx, `
		INSERT INTO packages_fts (rowid, package_id, title, description, tags, publisher_name)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rowID, doc.PackageID, doc.Title, doc.Description, doc.Tags, doc.PublisherName)
	if err != nil {
		return fmt.Errorf("failed to index package %s: %w", pkg.ID, err)
	}
	return nil
}

// indexDelete removes the document for a package row inside tx. On overwrite
// this runs before the replacement insert, so a concurrent query never sees
// old and new text for the same record.
func (s *Store) indexDelete(ctx context.Context, tx *sql.Tx, rowID int64) error {
	if !s.fts {
		return nil
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM packages_fts WHERE rowid = ?`, rowID); err != nil {
		return fmt.Errorf("failed to remove index document: %w", err)
	}
	return nil
}

// Backfill indexes any package rows that have no search document yet. It is
// idempotent and safe to interrupt: each document is committed separately and
// re-running skips rows already present.
func (s *Store) Backfill(ctx context.Context) (int, error) {
	if !s.fts {
		return 0, nil
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, data FROM packages
		WHERE id NOT IN (SELECT rowid FROM packages_fts)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to list unindexed packages: %w", err)
	}

	type pending struct {
		rowID int64
		data  []byte
	}
	var missing []pending
	for rows.Next() {
		var p pending
		if err := rows.Scan(&p.rowID, &p.data); err != nil {
			rows.Close()
			return 0, fmt.Errorf("failed to scan unindexed package: %w", err)
		}
		missing = append(missing, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("failed to iterate unindexed packages: %w", err)
	}

	indexed := 0
	for _, p := range missing {
		if err := ctx.Err(); err != nil {
			return indexed, err
		}

		var pkg Package
		if err := json.Unmarshal(p.data, &pkg); err != nil {
			s.logger.WithError(err).WithField("row_id", p.rowID).Warn("skipping unparseable package payload")
			continue
		}

		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return indexed, fmt.Errorf("failed to begin backfill transaction: %w", err)
		}
		if err := s.indexInsert(ctx, tx, p.rowID, &pkg); err != nil {
			tx.Rollback()
			return indexed, err
		}
		if err := tx.Commit(); err != nil {
			return indexed, fmt.Errorf("failed to commit backfill transaction: %w", err)
		}
		indexed++
	}

	if indexed > 0 {
		s.logger.WithField("count", indexed).Info("backfilled search index")
	}
	return indexed, nil
}

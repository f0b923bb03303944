package search

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/datumhub/datumhub/pkg/observability"
	"github.com/datumhub/datumhub/pkg/registry"
)

// Default pagination bounds. MaxLimit can be raised via SetLimits.
const (
	DefaultLimit = 20
	MaxLimit     = 500
)

// Service is the query engine over the package store. It prefers the FTS5
// index and degrades to a case-insensitive substring scan over the serialized
// payload when the index is unavailable or rejects an expression. Both paths
// produce identical filtering decisions; only ranking differs.
type Service struct {
	db           *sql.DB
	fts          bool
	defaultLimit int
	maxLimit     int
	logger       *observability.Logger
	metrics      *observability.Metrics
}

// NewService creates a query engine. fts reports whether the packages_fts
// index exists. metrics may be nil.
func NewService(db *sql.DB, fts bool, logger *observability.Logger, metrics *observability.Metrics) *Service {
	if logger == nil {
		logger = observability.NewLogger(observability.InfoLevel, nil)
	}
	return &Service{
		db:           db,
		fts:          fts,
		defaultLimit: DefaultLimit,
		maxLimit:     MaxLimit,
		logger:       logger,
		metrics:      metrics,
	}
}

// SetLimits overrides the default and maximum page sizes.
func (s *Service) SetLimits(defaultLimit, maxLimit int) {
	if defaultLimit > 0 {
		s.defaultLimit = defaultLimit
	}
	if maxLimit > 0 {
		s.maxLimit = maxLimit
	}
}

// Request is one catalog listing/search request. Empty Query and Tag mean
// "no filter".
type Request struct {
	Query  string
	Tag    string
	Limit  int
	Offset int
}

// Response is a filtered, ranked, paginated catalog page.
type Response struct {
	Items   []registry.PackageVersion `json:"items"`
	Total   int                       `json:"total"`
	Limit   int                       `json:"limit"`
	Offset  int                       `json:"offset"`
	HasNext bool                      `json:"has_next"`
	HasPrev bool                      `json:"has_prev"`
}

// Search lists packages matching the request. Text and tag predicates are
// AND-combined; with no filters all records are returned newest first.
func (s *Service) Search(ctx context.Context, req Request) (*Response, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > s.maxLimit {
		limit = s.maxLimit
	}
	offset := req.Offset
	if offset < 0 {
		offset = 0
	}

	joins := []string{"JOIN users u ON u.id = p.owner_id"}
	conditions := []string{}
	args := []interface{}{}
	orderBy := "p.published_at DESC, p.id DESC"
	mode := "browse"

	if req.Query != "" {
		mode = "fts"
		indexed := false
		if s.fts {
			expr := BuildMatchExpression(req.Query)
			// Smoke-test the expression; FTS5 rejects some inputs at
			// query time rather than parse time.
			var probe int
			err := s.db.QueryRowContext(ctx,
				`SELECT COUNT(*) FROM packages_fts WHERE packages_fts MATCH ?`, expr,
			).Scan(&probe)
			if err == nil {
				joins = append(joins, "JOIN packages_fts ON packages_fts.rowid = p.id")
				conditions = append(conditions, "packages_fts MATCH ?")
				args = append(args, expr)
				orderBy = "packages_fts.rank"
				indexed = true
			} else {
				s.logger.WithError(err).Debug("match expression rejected, using substring scan")
			}
		}
		if !indexed {
			mode = "scan"
			conditions = append(conditions, "lower(p.data) LIKE ?")
			args = append(args, "%"+strings.ToLower(req.Query)+"%")
			if s.metrics != nil {
				s.metrics.SearchFallbacks.Inc()
			}
		}
	}

	if req.Tag != "" {
		// Exact tag match: JSON array elements are quoted, so matching the
		// quoted lowercase value never matches a tag substring.
		conditions = append(conditions, "lower(p.data) LIKE ?")
		args = append(args, `%"`+strings.ToLower(req.Tag)+`"%`)
	}

	joinsSQL := strings.Join(joins, " ")
	whereSQL := ""
	if len(conditions) > 0 {
		whereSQL = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`
		SELECT p.data, p.published_at, u.username
		FROM packages p %s %s
		ORDER BY %s
		LIMIT ? OFFSET ?`, joinsSQL, whereSQL, orderBy)
	rows, err := s.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute search: %w", err)
	}
	items, err := collectItems(rows)
	if err != nil {
		return nil, err
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM packages p %s %s`, joinsSQL, whereSQL)
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count results: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SearchesTotal.WithLabelValues(mode).Inc()
	}

	return &Response{
		Items:   items,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasNext: offset+limit < total,
		HasPrev: offset > 0,
	}, nil
}

func collectItems(rows *sql.Rows) ([]registry.PackageVersion, error) {
	defer rows.Close()

	items := make([]registry.PackageVersion, 0)
	for rows.Next() {
		var (
			data        []byte
			publishedAt time.Time
			owner       string
		)
		if err := rows.Scan(&data, &publishedAt, &owner); err != nil {
			return nil, fmt.Errorf("failed to scan search result: %w", err)
		}
		var pv registry.PackageVersion
		if err := json.Unmarshal(data, &pv.Package); err != nil {
			return nil, fmt.Errorf("failed to decode search result: %w", err)
		}
		pv.Owner = owner
		pv.PublishedAt = publishedAt
		items = append(items, pv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate search results: %w", err)
	}
	return items, nil
}

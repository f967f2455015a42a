// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/civiclens/civiclens/pkg/types"
)

// CountsByKind returns the current row count per canonical record kind.
func (s *Store) CountsByKind(ctx context.Context) (map[types.RecordKind]int, error) {
	counts := make(map[types.RecordKind]int, len(kindTables))
	for _, kind := range types.Kinds {
		query, args, err := s.sb.Select("count(*)").From(kindTables[kind]).ToSql()
		if err != nil {
			return nil, fmt.Errorf("building count query: %w", err)
		}
		var n int
		if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
			return nil, fmt.Errorf("counting %s: %w", kindTables[kind], err)
		}
		counts[kind] = n
	}
	return counts, nil
}

// ArticleQuery filters article listings.
type ArticleQuery struct {
	Source string
	Since  time.Time
	Limit  int
}

var articleCols = []string{
	"id", "url", "title", "summary", "body", "source_name",
	"published", "credibility", "bias",
}

// Articles lists stored articles, newest first.
func (s *Store) Articles(ctx context.Context, q ArticleQuery) ([]types.Article, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = 500
	}

	b := s.sb.Select(articleCols...).
		From("articles").
		OrderBy("published DESC").
		Limit(uint64(limit))
	if q.Source != "" {
		b = b.Where(sq.Eq{"source_name": q.Source})
	}
	if !q.Since.IsZero() {
		b = b.Where(sq.GtOrEq{"published": q.Since.UTC().Format(time.RFC3339)})
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("building articles query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing articles: %w", err)
	}
	defer rows.Close()

	var articles []types.Article
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

// ArticleByID returns one article or ErrNotFound.
func (s *Store) ArticleByID(ctx context.Context, id int64) (types.Article, error) {
	query, args, err := s.sb.Select(articleCols...).
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return types.Article{}, fmt.Errorf("building article query: %w", err)
	}

	row := s.db.QueryRowContext(ctx, query, args...)
	a, err := scanArticle(row)
	if err == sql.ErrNoRows {
		return types.Article{}, ErrNotFound
	}
	if err != nil {
		return types.Article{}, err
	}
	return a, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (types.Article, error) {
	var a types.Article
	var published, bias string
	err := row.Scan(&a.ID, &a.URL, &a.Title, &a.Summary, &a.Body,
		&a.SourceName, &published, &a.Credibility, &bias)
	if err != nil {
		return types.Article{}, err
	}
	if published != "" {
		if t, perr := time.Parse(time.RFC3339, published); perr == nil {
			a.Published = t
		}
	}
	a.Bias = types.Bias(bias)
	return a, nil
}

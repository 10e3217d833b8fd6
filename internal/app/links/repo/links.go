package repo

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"tinylink.local/internal/app/links"
	"tinylink.local/internal/platform/metrics"
)

// pgUniqueViolation 是 Postgres 唯一约束冲突的 SQLSTATE。
const pgUniqueViolation = "23505"

const linkColumns = "code, target, clicks, last_clicked, created_at"

// LinksRepo 持有 links 表的全部 SQL。
//
// 约束放在数据库而不是应用层：
// - 未删除短码的唯一性由部分唯一索引（WHERE NOT deleted）保证，
//   并发插入同码时恰好一个成功，另一个拿到 23505
// - 点击计数是单条 UPDATE ... RETURNING，不存在读改写丢更新
type LinksRepo struct {
	db *pgxpool.Pool
}

func NewLinksRepo(db *pgxpool.Pool) *LinksRepo {
	return &LinksRepo{db: db}
}

var _ links.Store = (*LinksRepo)(nil)

func (r *LinksRepo) Insert(ctx context.Context, code, target string) (links.Link, error) {
	dbctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var link links.Link
	err := r.db.
		QueryRow(dbctx, "INSERT INTO links (code, target) VALUES ($1, $2) RETURNING "+linkColumns, code, target).
		Scan(&link.Code, &link.Target, &link.Clicks, &link.LastClicked, &link.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			metrics.LinkCodeCollisionsTotal.Inc()
			return links.Link{}, links.ErrCodeTaken
		}
		slog.Error("links insert failed", "err", err)
		return links.Link{}, err
	}
	return link, nil
}

func (r *LinksRepo) List(ctx context.Context, search string) ([]links.Link, error) {
	dbctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	var rows pgx.Rows
	var err error
	if search != "" {
		like := "%" + search + "%"
		rows, err = r.db.Query(dbctx,
			"SELECT "+linkColumns+" FROM links WHERE NOT deleted AND (code ILIKE $1 OR target ILIKE $1) ORDER BY created_at DESC",
			like)
	} else {
		rows, err = r.db.Query(dbctx,
			"SELECT "+linkColumns+" FROM links WHERE NOT deleted ORDER BY created_at DESC")
	}
	if err != nil {
		slog.Error("links list failed", "err", err)
		return nil, err
	}
	defer rows.Close()

	var result []links.Link
	for rows.Next() {
		var link links.Link
		if err := rows.Scan(&link.Code, &link.Target, &link.Clicks, &link.LastClicked, &link.CreatedAt); err != nil {
			slog.Error("links scan failed", "err", err)
			return nil, err
		}
		result = append(result, link)
	}
	if err := rows.Err(); err != nil {
		slog.Error("links rows failed", "err", err)
		return nil, err
	}
	return result, nil
}

func (r *LinksRepo) Find(ctx context.Context, code string) (links.Link, error) {
	dbctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	var link links.Link
	err := r.db.
		QueryRow(dbctx, "SELECT "+linkColumns+" FROM links WHERE code=$1 AND NOT deleted", code).
		Scan(&link.Code, &link.Target, &link.Clicks, &link.LastClicked, &link.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return links.Link{}, links.ErrNotFound
		}
		slog.Error("links find failed", "err", err)
		return links.Link{}, err
	}
	return link, nil
}

// SoftDelete 用条件更新保证并发删除只有一个成功；
// 已删除的行不再匹配，等同于不存在。
func (r *LinksRepo) SoftDelete(ctx context.Context, code string) error {
	dbctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	var ok int
	err := r.db.
		QueryRow(dbctx, "UPDATE links SET deleted=true WHERE code=$1 AND NOT deleted RETURNING 1", code).
		Scan(&ok)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return links.ErrNotFound
		}
		slog.Error("links soft delete failed", "err", err)
		return err
	}
	return nil
}

// ResolveAndCount 把“计数 + 取 target”合成一条原子 UPDATE，
// N 个并发跳转恰好加 N，这是整个服务的并发正确性核心。
func (r *LinksRepo) ResolveAndCount(ctx context.Context, code string) (string, error) {
	dbctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	var target string
	err := r.db.
		QueryRow(dbctx, "UPDATE links SET clicks=clicks+1, last_clicked=now() WHERE code=$1 AND NOT deleted RETURNING target", code).
		Scan(&target)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", links.ErrNotFound
		}
		slog.Error("links resolve failed", "err", err)
		return "", err
	}
	return target, nil
}

package migrate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Options struct {
	// Dir 指定迁移目录；为空时依次尝试 CWD/migrations 和可执行文件旁的 migrations。
	Dir string
}

type Result struct {
	Dir          string
	AppliedFiles []string
	SkippedFiles []string
}

// Up 按文件名顺序执行未应用的 .sql 迁移，每个文件一个事务，
// 应用记录写入 schema_migrations。重复执行是安全的。
func Up(ctx context.Context, db *pgxpool.Pool, opts Options) (*Result, error) {
	dir, err := resolveDir(opts.Dir)
	if err != nil {
		return nil, err
	}

	if err := ensureTable(ctx, db); err != nil {
		return nil, err
	}

	names, err := listSQLFiles(dir)
	if err != nil {
		return nil, err
	}

	res := &Result{Dir: dir}
	for _, name := range names {
		applied, err := isApplied(ctx, db, name)
		if err != nil {
			return nil, err
		}
		if applied {
			res.SkippedFiles = append(res.SkippedFiles, name)
			continue
		}
		if err := applyFile(ctx, db, dir, name); err != nil {
			return nil, err
		}
		res.AppliedFiles = append(res.AppliedFiles, name)
	}
	return res, nil
}

func ensureTable(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, `
CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
`)
	return err
}

func listSQLFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if strings.HasSuffix(strings.ToLower(e.Name()), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func isApplied(ctx context.Context, db *pgxpool.Pool, version string) (bool, error) {
	var exists bool
	err := db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=$1)`, version).Scan(&exists)
	return exists, err
}

func applyFile(ctx context.Context, db *pgxpool.Pool, dir string, filename string) error {
	sqlBytes, err := os.ReadFile(filepath.Join(dir, filename))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", filename, err)
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(sqlBytes)); err != nil {
		return fmt.Errorf("apply migration %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version, applied_at) VALUES ($1,$2)`, filename, time.Now()); err != nil {
		return fmt.Errorf("record migration %s: %w", filename, err)
	}
	return tx.Commit(ctx)
}

func resolveDir(opt string) (string, error) {
	if strings.TrimSpace(opt) != "" {
		return filepath.Clean(opt), nil
	}

	if dir, err := filepath.Abs("migrations"); err == nil {
		if st, err := os.Stat(dir); err == nil && st.IsDir() {
			return dir, nil
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("resolve migrations dir: %w", err)
	}
	dir := filepath.Join(filepath.Dir(exe), "migrations")
	st, err := os.Stat(dir)
	if err != nil || !st.IsDir() {
		return "", fmt.Errorf("migrations dir not found (tried %s)", dir)
	}
	return dir, nil
}

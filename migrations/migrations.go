package migrations

import (
	"context"
	"embed"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

//go:embed *.sql
var files embed.FS

// Apply - выполнить все *.sql по порядку имен. Скрипты идемпотентны (IF NOT EXISTS)
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	names, err := fs.Glob(files, "*.sql")
	if err != nil {
		return err
	}
	sort.Strings(names)

	for _, name := range names {
		script, err := files.ReadFile(name)
		if err != nil {
			return errors.Wrapf(err, "read %s", name)
		}
		if _, err = pool.Exec(ctx, string(script)); err != nil {
			return errors.Wrapf(err, "apply %s", name)
		}
	}

	return nil
}

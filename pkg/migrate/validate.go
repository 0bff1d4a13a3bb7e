package migrate

import (
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// Validate revisa nombres de archivo y encabezados goose de las migraciones embebidas.
func Validate() error {
	return ValidateFS(FS, Dir)
}

// ValidateFS revisa nombres YYYYMMDDHHMMSS_nombre.sql, versiones duplicadas y las marcas Up/Down.
func ValidateFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("nombre de migración inválido %q (se espera YYYYMMDDHHMMSS_nombre.sql)", name)
		}
		if prev, ok := seen[m[1]]; ok {
			return fmt.Errorf("versión duplicada %s en %q y %q", m[1], prev, name)
		}
		seen[m[1]] = name

		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("read file %q: %w", name, err)
		}
		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return fmt.Errorf("migración %q sin \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return fmt.Errorf("migración %q sin \"-- +goose Down\"", name)
		}
	}
	return nil
}

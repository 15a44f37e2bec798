package migrate

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/multierr"
)

const versionLayout = "20060102150405"

const (
	markerUp        = "-- +goose Up"
	markerDown      = "-- +goose Down"
	markerStmtBegin = "-- +goose StatementBegin"
	markerStmtEnd   = "-- +goose StatementEnd"
)

const migrationTemplate = `-- +goose Up
-- +goose StatementBegin
-- %[1]s
-- +goose StatementEnd

-- +goose Down
-- +goose StatementBegin
-- revert %[1]s
-- +goose StatementEnd
`

var (
	migrationNameRe = regexp.MustCompile(`^(\d{14})_([a-z0-9_]+)\.sql$`)
	slugUnsafeRe    = regexp.MustCompile(`[^a-z0-9]+`)
)

// migrationFile is one SQL migration found on disk.
type migrationFile struct {
	Version int64
	Name    string
	Path    string
}

// CreateSQLMigration writes an empty goose migration <version>_<slug>.sql into
// dir and returns its path. The version is the current UTC time.
func CreateSQLMigration(dir, name string) (string, error) {
	return createMigration(dir, name, time.Now().UTC())
}

func createMigration(dir, name string, at time.Time) (path string, err error) {
	if dir == "" {
		return "", fmt.Errorf("migration dir is required")
	}
	slug := slugify(name)
	if slug == "" {
		return "", fmt.Errorf("migration name %q has no usable characters", name)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create migration dir %q: %w", dir, err)
	}

	path = filepath.Join(dir, fmt.Sprintf("%s_%s.sql", at.Format(versionLayout), slug))
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("migration %s already exists", path)
		}
		return "", fmt.Errorf("create migration %q: %w", path, err)
	}
	defer func() { err = multierr.Append(err, f.Close()) }()

	if _, err := fmt.Fprintf(f, migrationTemplate, slug); err != nil {
		return "", fmt.Errorf("write migration %q: %w", path, err)
	}
	return path, nil
}

func slugify(name string) string {
	return strings.Trim(slugUnsafeRe.ReplaceAllString(strings.ToLower(name), "_"), "_")
}

// ValidateDir checks every .sql file in dir: a unique 14-digit version in the
// filename, an Up section followed by a Down section, and balanced statement blocks.
func ValidateDir(dir string) error {
	files, err := listMigrations(dir)
	if err != nil {
		return err
	}
	for _, file := range files {
		if err := checkMigration(file); err != nil {
			return err
		}
	}
	return nil
}

// listMigrations returns the migrations in dir ordered by version.
func listMigrations(dir string) ([]migrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("migration dir is required")
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read migration dir %q: %w", dir, err)
	}

	var files []migrationFile
	byVersion := map[int64]string{}
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".sql" {
			continue
		}
		m := migrationNameRe.FindStringSubmatch(entry.Name())
		if m == nil {
			return nil, fmt.Errorf("migration %q: want YYYYMMDDHHMMSS_name.sql", entry.Name())
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("migration %q: %w", entry.Name(), err)
		}
		if other, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("migrations %q and %q share version %d", other, entry.Name(), version)
		}
		byVersion[version] = entry.Name()
		files = append(files, migrationFile{Version: version, Name: m[2], Path: filepath.Join(dir, entry.Name())})
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

func checkMigration(file migrationFile) error {
	raw, err := os.ReadFile(file.Path)
	if err != nil {
		return fmt.Errorf("read migration %q: %w", file.Path, err)
	}
	text := string(raw)

	up := strings.Index(text, markerUp)
	down := strings.Index(text, markerDown)
	switch {
	case up < 0:
		return fmt.Errorf("migration %s has no %q section", file.Name, markerUp)
	case down < 0:
		return fmt.Errorf("migration %s has no %q section", file.Name, markerDown)
	case down < up:
		return fmt.Errorf("migration %s declares Down before Up", file.Name)
	}

	if begins, ends := strings.Count(text, markerStmtBegin), strings.Count(text, markerStmtEnd); begins != ends {
		return fmt.Errorf("migration %s has %d StatementBegin and %d StatementEnd markers", file.Name, begins, ends)
	}
	return nil
}

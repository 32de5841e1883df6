// assets/embed.go
//
// Files compiled into the dev backend binary.
//   - catalog.json: seed game catalog (search corpus and daily candidates).
//   - sql/*.sql:    SQLite migrations, applied in lexical order.

package assets

import (
	"embed"
	"io/fs"
	"sort"
)

//go:embed catalog.json sql/*.sql
var FS embed.FS

// Catalog returns the embedded seed catalog.
func Catalog() ([]byte, error) {
	return FS.ReadFile("catalog.json")
}

// Migrations returns the embedded migration names in apply order.
func Migrations() ([]string, error) {
	names, err := fs.Glob(FS, "sql/*.sql")
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

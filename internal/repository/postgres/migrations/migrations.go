// Package migrations holds the Postgres schema for the record store.
// Table names carry the environment prefix, so files are templates
// rendered before being handed to golang-migrate.
package migrations

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"testing/fstest"
	"text/template"
)

//go:embed *.sql
var files embed.FS

var validPrefix = regexp.MustCompile(`^[a-z0-9_]*$`)

// Render returns the migration files with {{.Prefix}} replaced.
func Render(prefix string) (fs.FS, error) {
	if !validPrefix.MatchString(prefix) {
		return nil, fmt.Errorf("invalid table prefix %q", prefix)
	}

	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		return nil, err
	}

	out := fstest.MapFS{}
	for _, e := range entries {
		raw, err := fs.ReadFile(files, e.Name())
		if err != nil {
			return nil, err
		}
		tmpl, err := template.New(e.Name()).Option("missingkey=error").Parse(string(raw))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", e.Name(), err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, struct{ Prefix string }{prefix}); err != nil {
			return nil, fmt.Errorf("render %s: %w", e.Name(), err)
		}
		out[e.Name()] = &fstest.MapFile{Data: buf.Bytes(), Mode: 0o444}
	}
	return out, nil
}

package testutil

import (
	"embed"
	"testing"

	"github.com/isoforge/archconf/internal/conf"
)

//go:embed fixtures/*.conf
var fixtures embed.FS

// Fixture returns the contents of a named configuration fixture.
func Fixture(t *testing.T, name string) string {
	t.Helper()
	data, err := fixtures.ReadFile("fixtures/" + name)
	if err != nil {
		t.Fatalf("fixture %s: %v", name, err)
	}
	return string(data)
}

// Document parses a named fixture into a document.
func Document(t *testing.T, name string) *conf.Document {
	t.Helper()
	doc, err := conf.Parse(Fixture(t, name))
	if err != nil {
		t.Fatalf("fixture %s does not parse: %v", name, err)
	}
	return doc
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/isoforge/archconf/internal/app"
	"github.com/isoforge/archconf/internal/conf"
	"github.com/isoforge/archconf/internal/errors"
	"github.com/isoforge/archconf/internal/history"
	"github.com/isoforge/archconf/internal/logging"
	"github.com/isoforge/archconf/internal/system"
)

// configFileArg returns the config file path from the optional
// positional argument at idx, falling back to the app default.
func configFileArg(args []string, idx int) string {
	if len(args) > idx {
		return args[idx]
	}
	return app.Default.Paths.ConfigFile
}

// loadDocument reads and parses a configuration file.
func loadDocument(path string) (*conf.Document, error) {
	data, err := system.DefaultFS().ReadFile(path)
	if err != nil {
		return nil, errors.ConfigError(fmt.Sprintf("failed to read %s", path), err)
	}
	doc, err := conf.Parse(string(data))
	if err != nil {
		return nil, errors.ParseFailed(path, err)
	}
	return doc, nil
}

// resolveConfig resolves a document against the key catalog, mapping
// interpreter errors onto exit-code errors.
func resolveConfig(doc *conf.Document, path string, strict bool) (*conf.Config, error) {
	var (
		cfg *conf.Config
		err error
	)
	if strict {
		cfg, err = conf.ResolveStrict(doc, app.Default.Catalog)
	} else {
		cfg, err = conf.Resolve(doc, app.Default.Catalog)
	}
	if err != nil {
		return nil, wrapConfError(path, err)
	}
	return cfg, nil
}

func wrapConfError(path string, err error) error {
	var card *conf.CardinalityError
	if errors.As(err, &card) {
		return errors.CardinalityConflict(err)
	}
	var unbound *conf.UnboundReferenceError
	if errors.As(err, &unbound) {
		return errors.UnboundReference(err)
	}
	return errors.ParseFailed(path, err)
}

// writeDocument writes the document back atomically.
func writeDocument(path string, doc *conf.Document) error {
	if err := system.DefaultFS().WriteFileAtomic(path, []byte(doc.String()), 0644); err != nil {
		return errors.ConfigError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

// journal returns the change journal at the configured path.
func journal() *history.Journal {
	return history.NewJournal(app.Default.Paths.HistoryFile)
}

// recordChange journals a mutation. A journal failure never fails the
// command.
func recordChange(op history.Op, file, key, old, new string) {
	if err := journal().Record(op, file, key, old, new); err != nil {
		logging.Warn("failed to record history", "error", err)
	}
}

// keyState summarizes a key's enabled values for the journal.
func keyState(doc *conf.Document, key string) string {
	e, ok := doc.Get(key)
	if !ok {
		return ""
	}
	cands, err := e.Candidates()
	if err != nil {
		return ""
	}
	var enabled []string
	for _, c := range cands {
		if c.Enabled {
			enabled = append(enabled, c.Value)
		}
	}
	return strings.Join(enabled, " ")
}

// checkKeyArg rejects malformed key names before they reach the
// document layer.
func checkKeyArg(key string) error {
	if !conf.ValidKey(key) {
		return errors.UsageError(fmt.Sprintf("invalid key name: %q", key))
	}
	return nil
}

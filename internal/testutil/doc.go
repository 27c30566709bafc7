// Package testutil provides test fixtures and environment helpers.
//
// This package contains embedded configuration fixtures and helpers for
// setting up isolated test environments.
//
// # Fixtures
//
// Configuration files are embedded using go:embed:
//
//	fixtures/valid.conf        well-formed configuration covering every key kind
//	fixtures/cardinality.conf  single-choice key with two enabled candidates
//	fixtures/unbound.conf      reference to a key declared later in the file
//	fixtures/quoting.conf      quoting and escape edge cases
//
// Fixture returns the raw text and Document returns it parsed:
//
//	text := testutil.Fixture(t, "valid.conf")
//	doc := testutil.Document(t, "quoting.conf")
//
// # Test Environments
//
// NewEnv builds a temp directory with a configuration file and change
// journal, points the default app at it, and restores everything on
// cleanup:
//
//	env := testutil.NewEnv(t)
//	env := testutil.NewEnv(t, testutil.WithConfig(custom))
//	env := testutil.NewEnv(t, testutil.WithoutConfig())
//
// InstallMockFS and InstallMockExecutor swap the process-wide system
// defaults for mocks, restoring the previous values on cleanup.
package testutil

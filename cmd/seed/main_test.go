package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_DefaultDataIsIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "store.db")
	args := []string{"-b", "sqlite", "-s", dsn, "-v", "error"}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), args, &out))
	assert.Equal(t, "users: 1 created, 0 skipped\nproducts: 3 created, 0 skipped\n", out.String())

	out.Reset()
	require.NoError(t, run(context.Background(), args, &out))
	assert.Equal(t, "users: 0 created, 1 skipped\nproducts: 0 created, 3 skipped\n", out.String())
}

func TestRun_FromFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
users:
  - username: bob12
    password: secret1
  - username: carol
    password: secret2
products:
  - id: 10
    name: Lamp
    price: 19.99
`), 0o600))

	var out bytes.Buffer
	err := run(context.Background(), []string{"-f", file, "-v", "error"}, &out)
	require.NoError(t, err)
	assert.Equal(t, "users: 2 created, 0 skipped\nproducts: 1 created, 0 skipped\n", out.String())
}

func TestRun_InvalidUserStops(t *testing.T) {
	file := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(file, []byte("users:\n  - username: bob\n    password: secret1\n"), 0o600))

	err := run(context.Background(), []string{"-f", file, "-v", "error"}, &bytes.Buffer{})
	assert.ErrorContains(t, err, "seed user bob")
}

func TestRun_MissingFile(t *testing.T) {
	err := run(context.Background(), []string{"-f", filepath.Join(t.TempDir(), "nope.yaml")}, &bytes.Buffer{})
	assert.Error(t, err)
}

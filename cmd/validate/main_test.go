package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRun_DefaultTablesAndFixturesPass(t *testing.T) {
	var buf bytes.Buffer
	code := run("", "../../data/fixtures", &buf)

	assert.Equal(t, 0, code, buf.String())
	assert.Contains(t, buf.String(), "Aggregation and tiers")
	assert.NotContains(t, buf.String(), "FAIL")
}

func TestRun_ExampleWeightsPass(t *testing.T) {
	var buf bytes.Buffer
	code := run("../../data/weights.example.yaml", "", &buf)

	assert.Equal(t, 0, code, buf.String())
}

func TestRun_InvalidWeightsFail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weights.yaml")
	data := []byte("origin_destination:\n  enroute: {origin: 0.7, destination: 0.7}\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	code := run(path, "../../data/fixtures", &buf)

	assert.Equal(t, 1, code)
	assert.Contains(t, buf.String(), "Weight tables")
	assert.Contains(t, buf.String(), "sum 1.4000, want 1")
}

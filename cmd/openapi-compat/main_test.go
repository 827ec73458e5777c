package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"promptvault/docs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
paths:
  /prompts:
    get:
      responses:
        "200": {description: OK}
    post:
      responses:
        "201": {description: Created}
        "400": {description: Bad Request}
    parameters: []
  /legacy:
    get:
      responses:
        "200": {description: OK}
`

func TestParseSurface(t *testing.T) {
	s, err := parseSurface([]byte(baseYAML))
	require.NoError(t, err)
	assert.Len(t, s, 3)
	assert.True(t, s["POST /prompts"]["400"])

	_, err = parseSurface([]byte("swagger: '2.0'\n"))
	assert.Error(t, err)
}

func TestBreakingChanges(t *testing.T) {
	base, err := parseSurface([]byte(baseYAML))
	require.NoError(t, err)
	rev, err := parseSurface([]byte(`{"paths": {"/prompts": {"get": {"responses": {"200": {}}}, "post": {"responses": {"201": {}}}}}}`))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"removed operation: GET /legacy",
		"removed response code: POST /prompts -> 400",
	}, breakingChanges(base, rev))
	assert.Empty(t, breakingChanges(rev, base))
}

func TestRun_AgainstCompiledDocs(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.json")
	require.NoError(t, os.WriteFile(basePath, []byte(docs.SwaggerInfo.ReadDoc()), 0o600))

	var stdout, stderr bytes.Buffer
	assert.Equal(t, 0, run(basePath, "", &stdout, &stderr), stderr.String())
	assert.Contains(t, stdout.String(), "passed")

	legacy := filepath.Join(dir, "legacy.yaml")
	require.NoError(t, os.WriteFile(legacy, []byte(baseYAML), 0o600))
	stdout.Reset()
	stderr.Reset()
	assert.Equal(t, 1, run(legacy, "", &stdout, &stderr))
	assert.Contains(t, stderr.String(), "removed operation: GET /legacy")
}

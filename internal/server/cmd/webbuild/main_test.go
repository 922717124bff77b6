package main

import (
	"path/filepath"
	"testing"

	"github.com/evanw/esbuild/pkg/api"
	"github.com/stretchr/testify/assert"
)

func TestBuildOptions(t *testing.T) {
	dev := buildOptions("/srv", false)
	assert.Equal(t, []string{filepath.Join("/srv", "web", "src", "main.ts")}, dev.EntryPoints)
	assert.Equal(t, filepath.Join("/srv", "web", "client.js"), dev.Outfile)
	assert.Equal(t, api.SourceMapInline, dev.Sourcemap)
	assert.False(t, dev.MinifyWhitespace)

	prod := buildOptions("/srv", true)
	assert.Equal(t, api.SourceMapNone, prod.Sourcemap)
	assert.True(t, prod.MinifyWhitespace)
	assert.True(t, prod.MinifyIdentifiers)
	assert.True(t, prod.MinifySyntax)
}

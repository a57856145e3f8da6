package render

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lapimposteur/internal/lerr"
	"lapimposteur/internal/spec"
)

func TestPayload_InlineEmpty(t *testing.T) {
	out, err := Payload(spec.InlineTemplate(""), spec.Variables{"k": spec.StrLit("v")})
	require.NoError(t, err)
	assert.Equal(t, "", out)
}

func TestPayload_InlineInterpolatesKinds(t *testing.T) {
	vars := spec.Variables{
		"name":  spec.StrLit("ana"),
		"count": spec.IntLit(3),
		"ratio": spec.RealLit(1.5),
	}
	out, err := Payload(spec.InlineTemplate("{{name}}:{{count}}:{{ratio}}"), vars)
	require.NoError(t, err)
	assert.Equal(t, "ana:3:1.5", out)
}

func TestPayload_File_ReadsFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tmpl.mustache")
	require.NoError(t, os.WriteFile(path, []byte("id={{k}}"), 0o644))

	out, err := Payload(spec.FileTemplate(path), spec.Variables{"k": spec.StrLit("abc")})
	require.NoError(t, err)
	assert.Equal(t, "id=abc", out)
}

func TestPayload_File_MissingFails(t *testing.T) {
	_, err := Payload(spec.FileTemplate("/nonexistent/path/tmpl.mustache"), spec.Variables{})
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindFileRead))
}

func TestPayload_CompileFailure(t *testing.T) {
	_, err := Payload(spec.InlineTemplate("{{#unclosed"), spec.Variables{})
	require.Error(t, err)
	assert.True(t, lerr.Is(err, lerr.KindTemplateCompile))
}

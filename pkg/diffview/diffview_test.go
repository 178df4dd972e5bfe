package diffview

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"recast/pkg/virtualdocs"
)

func TestGetDiffIdenticalTextsIsEmpty(t *testing.T) {
	assert.Empty(t, GetDiff("a.py", "same\ncontent\n", "same\ncontent\n"))
}

func TestGetDiffShowsAdditionsAndDeletions(t *testing.T) {
	original := "def old():\n    return 1\n"
	updated := "def new():\n    return 2\n"
	diff := GetDiff("a.py", original, updated)

	require.NotEmpty(t, diff)
	assert.Contains(t, diff, "a.py", "header should carry the title")
	assert.Contains(t, diff, "+++", "header should report additions")
	assert.Contains(t, diff, "---", "header should report deletions")
	plain := stripAllColor(diff)
	assert.Contains(t, plain, "new")
	assert.Contains(t, plain, "old")
}

func TestNormalizeDiffTextClosesColorsPerLine(t *testing.T) {
	input := RedColor + "one\ntwo" + ResetColor
	normalized := normalizeDiffText(input)
	lines := strings.Split(normalized, "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, RedColor), "each line should restate the active color")
		assert.True(t, strings.HasSuffix(line, ResetColor), "each line should reset the color")
	}
}

func TestTerminalRendererComparesDiskAndVirtual(t *testing.T) {
	root := t.TempDir()
	originalPath := filepath.Join(root, "a.py")
	require.NoError(t, os.WriteFile(originalPath, []byte("x = 1\n"), 0644))

	store := virtualdocs.NewStore()
	store.Put("a.py", "x = 2\n")

	var out bytes.Buffer
	renderer := NewTerminalRenderer(store, &out)
	require.NoError(t, renderer.RenderDiff(originalPath, "a.py", "a.py (proposed)"))
	assert.Contains(t, out.String(), "a.py (proposed)")
}

func TestTerminalRendererMissingOriginalRendersAdditions(t *testing.T) {
	store := virtualdocs.NewStore()
	store.Put("new.py", "print('hello')\n")

	var out bytes.Buffer
	renderer := NewTerminalRenderer(store, &out)
	require.NoError(t, renderer.RenderDiff(filepath.Join(t.TempDir(), "new.py"), "new.py", "new.py"))
	assert.Contains(t, stripAllColor(out.String()), "hello")
}

func TestTerminalRendererUnknownKeyRendersPlaceholder(t *testing.T) {
	var out bytes.Buffer
	renderer := NewTerminalRenderer(virtualdocs.NewStore(), &out)
	require.NoError(t, renderer.RenderDiff(filepath.Join(t.TempDir(), "gone.py"), "gone.py", "gone.py"))
	assert.Contains(t, stripAllColor(out.String()), "no content available")
}

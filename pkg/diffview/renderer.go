package diffview

import (
	"fmt"
	"io"
	"os"

	"recast/pkg/virtualdocs"
)

// TerminalRenderer renders the diff between an on-disk original and a
// virtual document to a terminal writer.
type TerminalRenderer struct {
	provider virtualdocs.ContentProvider
	out      io.Writer
}

func NewTerminalRenderer(provider virtualdocs.ContentProvider, out io.Writer) *TerminalRenderer {
	return &TerminalRenderer{provider: provider, out: out}
}

// RenderDiff compares the file at originalPath with the virtual document
// stored under virtualKey. A missing original renders as an empty file so
// newly generated content still shows as additions.
func (r *TerminalRenderer) RenderDiff(originalPath, virtualKey, title string) error {
	var original string
	if data, err := os.ReadFile(originalPath); err == nil {
		original = string(data)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to read original %s: %w", originalPath, err)
	}

	updated := r.provider.Resolve(virtualKey)
	diff := GetDiff(title, original, updated)
	if diff == "" {
		_, err := fmt.Fprintln(r.out, "No changes detected.")
		return err
	}
	_, err := fmt.Fprint(r.out, diff)
	return err
}

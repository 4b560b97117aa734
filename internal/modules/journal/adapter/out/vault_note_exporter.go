package out

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"stillpoint/internal/modules/journal/domain"
	journalout "stillpoint/internal/modules/journal/port/out"
	"stillpoint/internal/platform/markdown"
)

var entryBlock = markdown.Block{
	Start: "<!-- stillpoint:entry:start -->",
	End:   "<!-- stillpoint:entry:end -->",
}

// VaultNoteExporter writes one Markdown note per entry under
// <dir>/<year>/day-<nnn>.md. Text a user adds outside the entry block
// survives re-export.
type VaultNoteExporter struct {
	dir string
}

func NewVaultNoteExporter(dir string) journalout.NoteExporter {
	return &VaultNoteExporter{dir: dir}
}

func NotePath(dir string, e domain.Entry) string {
	return filepath.Join(dir, strconv.Itoa(e.Year), fmt.Sprintf("day-%03d.md", e.Day))
}

func (x *VaultNoteExporter) Export(ctx context.Context, entries []domain.Entry) ([]string, error) {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		path, err := x.write(e)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (x *VaultNoteExporter) write(e domain.Entry) (string, error) {
	path := NotePath(x.dir, e)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create journal directory: %w", err)
	}

	body := fmt.Sprintf("# Day %d, %d\n", e.Day, e.Year)
	if existing, err := os.ReadFile(path); err == nil {
		if note, parseErr := markdown.Parse(string(existing)); parseErr == nil {
			body = note.Body
		}
	}
	body = entryBlock.Replace(body, e.Content)

	rendered, err := markdown.Note{Meta: frontmatter(e), Body: body}.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal note: %w", err)
	}
	return path, nil
}

func frontmatter(e domain.Entry) map[string]any {
	return map[string]any{
		"type":       "journal",
		"day":        e.Day,
		"year":       e.Year,
		"date":       e.Date.String(),
		"updated_at": e.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

package stages

import (
	"bytes"
	"log/slog"
	pathpkg "path"
	"strings"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/pipeline"
	"git.home.luguber.info/inful/sitepipe/internal/store"
)

// Markdown returns a stage that renders markdown bodies to HTML and
// rekeys them from .md/.markdown to .html. Metadata is carried over
// unchanged; non-markdown files pass through untouched. A file whose
// body fails to render keeps its original record.
func Markdown() pipeline.Stage {
	md := goldmark.New()
	return func(ir pipeline.IR) pipeline.IR {
		updates := store.New()
		var rendered []string

		ir.Files.Range(func(path string, f store.File) bool {
			ext := strings.ToLower(pathpkg.Ext(path))
			if ext != ".md" && ext != ".markdown" {
				return true
			}
			var buf bytes.Buffer
			if err := md.Convert(f.Content, &buf); err != nil {
				slog.Error("Markdown render failed", logfields.Path(path), logfields.Error(err))
				return true
			}
			htmlPath := strings.TrimSuffix(path, pathpkg.Ext(path)) + ".html"
			updates = updates.Set(htmlPath, store.File{Meta: f.Meta, Content: buf.Bytes()})
			rendered = append(rendered, path)
			return true
		})

		files := ir.Files.Merge(updates)
		for _, path := range rendered {
			files = files.Delete(path)
		}
		ir.Files = files
		return ir
	}
}

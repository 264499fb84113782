package stages

import (
	"bytes"
	"log/slog"

	"git.home.luguber.info/inful/sitepipe/internal/frontmatter"
	"git.home.luguber.info/inful/sitepipe/internal/logfields"
	"git.home.luguber.info/inful/sitepipe/internal/pipeline"
	"git.home.luguber.info/inful/sitepipe/internal/store"
)

// Serialize returns a stage that re-embeds each file's metadata into its
// content as a fenced YAML block, so the written output carries the
// front matter accumulated by earlier stages. Files without metadata
// pass through untouched. Typically registered last.
func Serialize() pipeline.Stage {
	return func(ir pipeline.IR) pipeline.IR {
		updates := store.New()
		ir.Files.Range(func(path string, f store.File) bool {
			if len(f.Meta) == 0 {
				return true
			}
			meta, err := frontmatter.Format(f.Meta)
			if err != nil {
				slog.Error("Front matter serialization failed", logfields.Path(path), logfields.Error(err))
				return true
			}
			var buf bytes.Buffer
			buf.Grow(len(meta) + len(f.Content) + 8)
			buf.WriteString("---\n")
			buf.Write(meta)
			buf.WriteString("---\n")
			buf.Write(f.Content)
			updates = updates.Set(path, store.File{Meta: f.Meta, Content: buf.Bytes()})
			return true
		})
		ir.Files = ir.Files.Merge(updates)
		return ir
	}
}

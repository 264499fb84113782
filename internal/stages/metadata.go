package stages

import (
	pathpkg "path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/sitepipe/internal/pipeline"
	"git.home.luguber.info/inful/sitepipe/internal/store"
)

// Metadata returns a stage that fills base front matter fields on every
// file: a title derived from the file name and an RFC3339 date. Fields
// already present are left alone. Files without any metadata document
// get one.
func Metadata() pipeline.Stage {
	return MetadataAt(time.Now)
}

// MetadataAt is Metadata with an injectable clock.
func MetadataAt(now func() time.Time) pipeline.Stage {
	titler := cases.Title(language.English)
	return func(ir pipeline.IR) pipeline.IR {
		updates := store.New()
		ir.Files.Range(func(path string, f store.File) bool {
			docs := cloneDocs(f.Meta)
			doc := docs[0]
			if _, ok := doc["title"]; !ok {
				doc["title"] = titleFromPath(titler, path)
			}
			if _, ok := doc["date"]; !ok {
				doc["date"] = now().Format(time.RFC3339)
			}
			updates = updates.Set(path, withMeta(f, docs))
			return true
		})
		ir.Files = ir.Files.Merge(updates)
		return ir
	}
}

// titleFromPath derives a human title from a file name: extension
// stripped, separators replaced with spaces, words title-cased.
func titleFromPath(titler cases.Caser, path string) string {
	name := pathpkg.Base(path)
	name = strings.TrimSuffix(name, pathpkg.Ext(name))
	name = strings.NewReplacer("-", " ", "_", " ").Replace(name)
	return titler.String(name)
}

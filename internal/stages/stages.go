// Package stages ships reference transformation stages for the build
// pipeline. The engine core treats all stages as opaque IR → IR
// functions; nothing here is required for a build, and user code can
// register its own stages alongside or instead of these.
package stages

import "git.home.luguber.info/inful/sitepipe/internal/store"

// cloneDocs returns a copy of docs whose first document can be extended
// without mutating the original slice or maps. Stages must not modify
// records they received from the incoming store in place.
func cloneDocs(docs []map[string]any) []map[string]any {
	out := make([]map[string]any, len(docs))
	for i, doc := range docs {
		m := make(map[string]any, len(doc)+4)
		for k, v := range doc {
			m[k] = v
		}
		out[i] = m
	}
	if len(out) == 0 {
		out = append(out, map[string]any{})
	}
	return out
}

// withMeta returns f with its metadata replaced.
func withMeta(f store.File, docs []map[string]any) store.File {
	return store.File{Meta: docs, Content: f.Content}
}

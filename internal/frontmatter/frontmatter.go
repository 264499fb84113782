// Package frontmatter splits a leading fenced metadata block from file
// content and converts it to and from YAML documents.
//
// Extraction is deliberately decoupled from parsing: Extract is a pure
// text splitter with no failure modes, and a malformed metadata block is
// handed to the YAML parser unchanged so its error surfaces to the caller.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

var fence = []byte("---")

// Extract separates a leading front matter block from body content.
//
// A fence is a full line consisting solely of `---`. The opening fence
// must be the very first line; the block is everything strictly between
// the opening and closing fences, minus the block's final line
// terminator. The body is everything after the closing fence line,
// byte-for-byte.
//
// If there is no opening fence, or an opening fence is never closed,
// the block is empty and the body is the entire input unchanged. There
// is no partial match: an unclosed fence stays part of the body.
func Extract(content []byte) (meta, body []byte) {
	line, next := readLine(content, 0)
	if next < 0 || !isFence(line) {
		return nil, content
	}

	metaStart := next
	for off := next; off < len(content); {
		line, n := readLine(content, off)
		if isFence(line) {
			m := trimLineEnding(content[metaStart:off])
			if n < 0 {
				// Closing fence is the final, unterminated line.
				return m, nil
			}
			return m, content[n:]
		}
		if n < 0 {
			break
		}
		off = n
	}

	return nil, content
}

// Parse decodes a front matter block into its YAML documents, in order.
// A block normally holds zero or one document; multi-document streams
// are preserved as-is. Parse errors are returned, never swallowed.
func Parse(meta []byte) ([]map[string]any, error) {
	if len(bytes.TrimSpace(meta)) == 0 {
		return nil, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(meta))
	var docs []map[string]any
	for {
		var doc map[string]any
		if err := dec.Decode(&doc); err != nil {
			if errors.Is(err, io.EOF) {
				return docs, nil
			}
			return nil, fmt.Errorf("parse front matter: %w", err)
		}
		if doc != nil {
			docs = append(docs, doc)
		}
	}
}

// readLine returns the line starting at off without its terminator and
// the offset of the following line, or -1 when the line ends the input
// without a newline.
func readLine(content []byte, off int) ([]byte, int) {
	i := bytes.IndexByte(content[off:], '\n')
	if i < 0 {
		return content[off:], -1
	}
	return content[off : off+i], off + i + 1
}

func isFence(line []byte) bool {
	return bytes.Equal(bytes.TrimSuffix(line, []byte("\r")), fence)
}

func trimLineEnding(b []byte) []byte {
	b = bytes.TrimSuffix(b, []byte("\n"))
	return bytes.TrimSuffix(b, []byte("\r"))
}

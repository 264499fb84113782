package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtract_NoFence_ReturnsBodyOnly(t *testing.T) {
	input := []byte("# Title\n\nHello\n")

	meta, body := Extract(input)
	require.Empty(t, meta)
	require.Equal(t, input, body)
}

func TestExtract_FencedBlock_SplitsMetaAndBody(t *testing.T) {
	input := []byte("---\ntitle: A\n---\nbody text")

	meta, body := Extract(input)
	require.Equal(t, []byte("title: A"), meta)
	require.Equal(t, []byte("body text"), body)
}

func TestExtract_SingleLineMetaAndBody_ByteForByte(t *testing.T) {
	input := []byte("---\nMETA\n---\nBODY")

	meta, body := Extract(input)
	require.Equal(t, []byte("META"), meta)
	require.Equal(t, []byte("BODY"), body)
}

func TestExtract_UnclosedFence_WholeInputIsBody(t *testing.T) {
	input := []byte("---\ntitle: A\nno closing fence here\n")

	meta, body := Extract(input)
	require.Empty(t, meta)
	require.Equal(t, input, body)
}

func TestExtract_FenceOnlyInput_WholeInputIsBody(t *testing.T) {
	for _, input := range [][]byte{[]byte("---"), []byte("---\n")} {
		meta, body := Extract(input)
		require.Empty(t, meta)
		require.Equal(t, input, body)
	}
}

func TestExtract_EmptyBlock_ReturnsEmptyMeta(t *testing.T) {
	input := []byte("---\n---\n# Title\n")

	meta, body := Extract(input)
	require.Empty(t, meta)
	require.Equal(t, []byte("# Title\n"), body)
}

func TestExtract_ClosingFenceAtEOFWithoutNewline(t *testing.T) {
	input := []byte("---\ntitle: A\n---")

	meta, body := Extract(input)
	require.Equal(t, []byte("title: A"), meta)
	require.Empty(t, body)
}

func TestExtract_CRLF_SplitsMetaAndBody(t *testing.T) {
	input := []byte("---\r\ntitle: A\r\n---\r\n# Title\r\n")

	meta, body := Extract(input)
	require.Equal(t, []byte("title: A"), meta)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestExtract_FenceNotAtStart_IsBody(t *testing.T) {
	input := []byte("intro\n---\ntitle: A\n---\nbody")

	meta, body := Extract(input)
	require.Empty(t, meta)
	require.Equal(t, input, body)
}

func TestExtract_IndentedFence_DoesNotMatch(t *testing.T) {
	input := []byte(" ---\ntitle: A\n---\nbody")

	meta, body := Extract(input)
	require.Empty(t, meta)
	require.Equal(t, input, body)
}

func TestParse_SingleDocument(t *testing.T) {
	docs, err := Parse([]byte("title: A\ntags:\n  - one\n"))
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "A", docs[0]["title"])
	require.Equal(t, []any{"one"}, docs[0]["tags"])
}

func TestParse_EmptyBlock_ReturnsNoDocuments(t *testing.T) {
	for _, meta := range [][]byte{nil, []byte(""), []byte("  \n")} {
		docs, err := Parse(meta)
		require.NoError(t, err)
		require.Empty(t, docs)
	}
}

func TestParse_MultipleDocuments_PreservesOrder(t *testing.T) {
	docs, err := Parse([]byte("a: 1\n---\nb: 2\n"))
	require.NoError(t, err)
	require.Len(t, docs, 2)
	require.Equal(t, 1, docs[0]["a"])
	require.Equal(t, 2, docs[1]["b"])
}

func TestParse_MalformedYAML_SurfacesError(t *testing.T) {
	_, err := Parse([]byte("title: [unterminated\n"))
	require.Error(t, err)
}

func TestFormat_SortsKeysDeterministically(t *testing.T) {
	out, err := Format([]map[string]any{{"b": 2, "a": "x"}})
	require.NoError(t, err)
	require.Equal(t, "a: x\nb: 2\n", string(out))
}

func TestFormat_Empty_ReturnsEmpty(t *testing.T) {
	out, err := Format(nil)
	require.NoError(t, err)
	require.Empty(t, out)
}

func TestFormat_RoundTripsThroughParse(t *testing.T) {
	in := []map[string]any{{"title": "A", "draft": true, "tags": []any{"x", "y"}}}

	out, err := Format(in)
	require.NoError(t, err)

	docs, err := Parse(out)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	require.Equal(t, "A", docs[0]["title"])
	require.Equal(t, true, docs[0]["draft"])
	require.Equal(t, []any{"x", "y"}, docs[0]["tags"])
}

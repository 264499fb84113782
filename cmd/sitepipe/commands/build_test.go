package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitepipe/internal/config"
	"git.home.luguber.info/inful/sitepipe/internal/metrics"
)

func TestBuildCmd_EndToEnd(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "hello.txt"), []byte("hello"), 0o644))

	cfgPath := filepath.Join(t.TempDir(), "sitepipe.yaml")
	require.NoError(t, os.WriteFile(cfgPath, fmt.Appendf(nil, "source: %s\ndestination: %s\n", src, dst), 0o644))

	cmd := &BuildCmd{}
	require.NoError(t, cmd.Run(&CLI{Config: cfgPath}))

	out, err := os.ReadFile(filepath.Join(dst, "hello.txt"))
	require.NoError(t, err)
	require.Equal(t, "hello", string(out))
}

func TestBuildCmd_FlagOverridesWin(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "a.txt"), []byte("a"), 0o644))

	cmd := &BuildCmd{Source: src, Output: dst}
	require.NoError(t, cmd.Run(&CLI{Config: filepath.Join(t.TempDir(), "absent.yaml")}))

	_, err := os.Stat(filepath.Join(dst, "a.txt"))
	require.NoError(t, err)
}

func TestNewEngine_RegistersConfiguredStages(t *testing.T) {
	src, dst := t.TempDir(), t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(src, "page.md"), []byte("# Heading\n"), 0o644))

	enabled := true
	cfg := &config.Config{
		Source:      src,
		Destination: dst,
		Frontmatter: &enabled,
		Stages:      config.StagesConfig{Markdown: true, Serialize: true, Metadata: true},
	}

	eng, err := NewEngine(cfg, metrics.NoopRecorder{})
	require.NoError(t, err)

	ir, err := eng.Build()
	require.NoError(t, err)

	// Markdown rekeyed the page, metadata got a title, serialize embedded it.
	f, ok := ir.Files.Get("page.html")
	require.True(t, ok)
	require.Contains(t, string(f.Content), "---\n")
	require.Contains(t, string(f.Content), "title: Page")
	require.Contains(t, string(f.Content), "<h1>Heading</h1>")

	out, err := os.ReadFile(filepath.Join(dst, "page.html"))
	require.NoError(t, err)
	require.Equal(t, f.Content, out)
}

func TestNewEngine_GitMetaWithoutRepository_Fails(t *testing.T) {
	enabled := true
	cfg := &config.Config{
		Source:      t.TempDir(),
		Destination: t.TempDir(),
		Frontmatter: &enabled,
		Stages:      config.StagesConfig{GitMeta: true},
	}

	_, err := NewEngine(cfg, metrics.NoopRecorder{})
	require.Error(t, err)
}

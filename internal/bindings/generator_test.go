package bindings

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/ffbuild/internal/cache"
	"git.home.luguber.info/inful/ffbuild/internal/config"
	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/process"
	"git.home.luguber.info/inful/ffbuild/internal/process/processtest"
)

// fakeBindgen writes a deterministic artifact derived from the wrapper header.
func fakeBindgen(t *testing.T) *processtest.FakeRunner {
	t.Helper()
	return &processtest.FakeRunner{Handler: func(_ int, cmd process.Command) process.Result {
		wrapper, err := os.ReadFile(cmd.Args[0])
		if err != nil {
			return processtest.Failed(1, "", err.Error())
		}
		out := "// bindings for:\n" + string(wrapper) + "// args: " + strings.Join(cmd.Args[3:], " ") + "\n"
		if err := os.WriteFile(cmd.Args[2], []byte(out), 0o600); err != nil {
			return processtest.Failed(1, "", err.Error())
		}
		return process.Result{Success: true}
	}}
}

func setup(t *testing.T, headers string, present ...string) (config.BuildConfig, *config.Manifest) {
	t.Helper()
	crate := t.TempDir()
	out := t.TempDir()
	cfg := config.BuildConfig{
		OutDir:      out,
		HeadersFile: filepath.Join(crate, "headers"),
	}
	require.NoError(t, os.WriteFile(cfg.HeadersFile, []byte(headers), 0o600))
	for _, rel := range present {
		writeHeader(t, cfg.StagedRoot(), rel)
	}
	m, err := config.DefaultManifest()
	require.NoError(t, err)
	return cfg, m
}

func TestArgs(t *testing.T) {
	g := NewGenerator(&processtest.FakeRunner{})
	opts := DefaultOptions()
	opts.IgnoredMacros = []string{"FP_NAN", "FP_ZERO"}
	opts.IncludeDirs = []string{"/root"}

	assert.Equal(t, []string{
		"w.h", "-o", "out.tmp",
		"--no-layout-tests",
		"--blocklist-item", "FP_NAN",
		"--blocklist-item", "FP_ZERO",
		"--", "-I/root",
	}, g.Args("w.h", "out.tmp", opts))

	opts.Comments = false
	opts.DetectIncludePaths = false
	opts.LayoutTests = true
	args := g.Args("w.h", "out.tmp", opts)
	assert.Contains(t, args, "--no-doc-comments")
	assert.Contains(t, args, "--no-include-path-detection")
	assert.NotContains(t, args, "--no-layout-tests")
}

func TestRun_MissingHeaderWritesNothing(t *testing.T) {
	cfg, m := setup(t, "codec/decode.h\nutil/common.h\n", "codec/decode.h")
	fake := fakeBindgen(t)

	_, err := NewGenerator(fake).Run(context.Background(), cfg, m)
	require.Error(t, err)

	be, ok := ferrors.AsBuildError(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryConfiguration, be.Category)
	assert.Equal(t, []string{filepath.Join(cfg.StagedRoot(), "util/common.h")}, be.Context["missing"])
	assert.Empty(t, fake.Calls)
	assert.NoFileExists(t, cfg.BindingsPath())
}

func TestRun_GeneratesAndIsIdempotent(t *testing.T) {
	cfg, m := setup(t, "codec/decode.h\nutil/common.h\n", "codec/decode.h", "util/common.h")
	fake := fakeBindgen(t)
	g := NewGenerator(fake)

	res, err := g.Run(context.Background(), cfg, m)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	assert.Equal(t, 2, res.Headers)
	first, err := os.ReadFile(cfg.BindingsPath())
	require.NoError(t, err)
	assert.Contains(t, string(first), "--blocklist-item IPPORT_RESERVED")
	assert.Contains(t, string(first), "-I"+cfg.StagedRoot())
	assert.NoFileExists(t, cfg.BindingsPath()+".tmp")

	// Cached second run leaves the artifact untouched.
	res, err = g.Run(context.Background(), cfg, m)
	require.NoError(t, err)
	assert.True(t, res.Skipped)
	assert.Equal(t, cache.ReasonBindingsCached, res.Reason)
	assert.Len(t, fake.Calls, 1)

	// Forced regeneration produces the same bytes.
	cfg.ForceRegenerate = true
	res, err = g.Run(context.Background(), cfg, m)
	require.NoError(t, err)
	assert.False(t, res.Skipped)
	second, err := os.ReadFile(cfg.BindingsPath())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRun_BlankEntryFailsEvenWhenCached(t *testing.T) {
	cfg, m := setup(t, "codec/decode.h\n\n", "codec/decode.h")
	require.NoError(t, os.WriteFile(cfg.BindingsPath(), []byte("old"), 0o600))

	_, err := NewGenerator(&processtest.FakeRunner{}).Run(context.Background(), cfg, m)
	require.Error(t, err)
	assert.True(t, ferrors.IsCategory(err, ferrors.CategoryConfiguration))
}

func TestRun_ToolFailureLeavesNoArtifact(t *testing.T) {
	cfg, m := setup(t, "codec/decode.h\n", "codec/decode.h")
	fake := &processtest.FakeRunner{Handler: func(_ int, cmd process.Command) process.Result {
		_ = os.WriteFile(cmd.Args[2], []byte("partial"), 0o600)
		return processtest.Failed(101, "", "fatal error: 'stdint.h' file not found")
	}}

	_, err := NewGenerator(fake).Run(context.Background(), cfg, m)
	require.Error(t, err)
	be, ok := ferrors.AsBuildError(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryExternalTool, be.Category)
	assert.Contains(t, be.Output, "stdint.h")
	assert.NoFileExists(t, cfg.BindingsPath())
	assert.NoFileExists(t, cfg.BindingsPath()+".tmp")
}

package shim

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/ffbuild/internal/config"
	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/link"
	"git.home.luguber.info/inful/ffbuild/internal/process"
	"git.home.luguber.info/inful/ffbuild/internal/process/processtest"
)

var cbits = config.ShimConfig{Name: "cbits", Sources: []string{"cbits/defs.c", "cbits/img_utils.c"}}

func TestCompile_CommandSequence(t *testing.T) {
	fake := &processtest.FakeRunner{}
	out := t.TempDir()
	c := NewCompiler(fake, config.BuildConfig{CC: "clang", AR: "llvm-ar"})

	res, err := c.Compile(context.Background(), "/crate", "/out/ffmpeg-src", out, cbits)
	require.NoError(t, err)

	assert.Equal(t, []string{"clang", "clang", "llvm-ar"}, fake.Programs())
	assert.Equal(t, []string{"-c", "-fPIC", "-I/out/ffmpeg-src", "/crate/cbits/defs.c", "-o", filepath.Join(out, "shim", "cbits_defs.o")}, fake.Calls[0].Args)
	assert.Equal(t, []string{"crs", filepath.Join(out, "libcbits.a"), filepath.Join(out, "shim", "cbits_defs.o"), filepath.Join(out, "shim", "cbits_img_utils.o")}, fake.Calls[2].Args)

	assert.Equal(t, filepath.Join(out, "libcbits.a"), res.Archive)
	assert.Equal(t, []link.Directive{link.SearchNative(out), link.StaticLib("cbits")}, res.Directives)
}

func TestCompile_SameBasenameGetsDistinctObjects(t *testing.T) {
	fake := &processtest.FakeRunner{}
	out := t.TempDir()
	sc := config.ShimConfig{Name: "cbits", Sources: []string{"cbits/a/util.c", "cbits/b/util.c"}}

	res, err := NewCompiler(fake, config.BuildConfig{CC: "cc", AR: "ar"}).
		Compile(context.Background(), "/crate", "/inc", out, sc)
	require.NoError(t, err)

	want := []string{
		filepath.Join(out, "shim", "cbits_a_util.o"),
		filepath.Join(out, "shim", "cbits_b_util.o"),
	}
	assert.Equal(t, want, res.Objects)
	assert.Equal(t, append([]string{"crs", filepath.Join(out, "libcbits.a")}, want...), fake.Calls[2].Args)
}

func TestCompile_CompilerFailureStops(t *testing.T) {
	fake := &processtest.FakeRunner{Handler: func(n int, _ process.Command) process.Result {
		if n == 1 {
			return processtest.Failed(1, "", "img_utils.c:3: error: unknown type name 'AVFrame'")
		}
		return process.Result{Success: true}
	}}
	c := NewCompiler(fake, config.BuildConfig{CC: "cc", AR: "ar"})

	_, err := c.Compile(context.Background(), "/crate", "/inc", t.TempDir(), cbits)
	require.Error(t, err)
	assert.Len(t, fake.Calls, 2, "archiver must not run after a compile failure")

	be, ok := ferrors.AsBuildError(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryExternalTool, be.Category)
	assert.Equal(t, "cbits/img_utils.c", be.Context["source"])
	assert.Contains(t, be.Output, "AVFrame")
}

func TestCompile_ArchiverFailure(t *testing.T) {
	fake := &processtest.FakeRunner{Handler: func(n int, _ process.Command) process.Result {
		if n == 2 {
			return processtest.Failed(1, "", "ar: command not found")
		}
		return process.Result{Success: true}
	}}
	_, err := NewCompiler(fake, config.BuildConfig{CC: "cc", AR: "ar"}).
		Compile(context.Background(), "/crate", "/inc", t.TempDir(), cbits)
	require.Error(t, err)
	assert.True(t, ferrors.IsCategory(err, ferrors.CategoryExternalTool))
}

func TestCompile_NoSources(t *testing.T) {
	fake := &processtest.FakeRunner{}
	res, err := NewCompiler(fake, config.BuildConfig{}).Compile(context.Background(), "/crate", "/inc", t.TempDir(), config.ShimConfig{})
	require.NoError(t, err)
	assert.Empty(t, res.Archive)
	assert.Empty(t, fake.Calls)
}

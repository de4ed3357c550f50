package staging

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
	"git.home.luguber.info/inful/ffbuild/internal/process"
	"git.home.luguber.info/inful/ffbuild/internal/process/processtest"
)

func pristine(t *testing.T) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "ffmpeg-src")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "libavutil"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(src, "configure"), []byte("#!/bin/sh\n"), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(src, "libavutil", "avutil.h"), []byte("int x;\n"), 0o600))
	return src
}

func TestStage_CopiesWhenRootAbsent(t *testing.T) {
	src := pristine(t)
	root := filepath.Join(t.TempDir(), "out", "ffmpeg-src")
	s := New(src, root, process.NewExecRunner(os.Environ(), os.Getenv("PATH")))

	copied, err := s.Stage(context.Background(), true)
	require.NoError(t, err)
	assert.True(t, copied)
	assert.FileExists(t, filepath.Join(root, "configure"))
	assert.FileExists(t, filepath.Join(root, "libavutil", "avutil.h"))
	assert.NoDirExists(t, filepath.Join(root, "ffmpeg-src"), "source must not be nested inside the root")
}

func TestStage_OverwritesWhenNotSkipping(t *testing.T) {
	src := pristine(t)
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "configure"), []byte("stale"), 0o600))
	s := New(src, root, process.NewExecRunner(os.Environ(), os.Getenv("PATH")))

	copied, err := s.Stage(context.Background(), false)
	require.NoError(t, err)
	assert.True(t, copied)
	data, err := os.ReadFile(filepath.Join(root, "configure"))
	require.NoError(t, err)
	assert.Equal(t, "#!/bin/sh\n", string(data))
}

func TestStage_ReusesWhenSkipping(t *testing.T) {
	root := t.TempDir()
	runner := &processtest.FakeRunner{}
	s := New("/does/not/matter", root, runner)

	copied, err := s.Stage(context.Background(), true)
	require.NoError(t, err)
	assert.False(t, copied)
	assert.Empty(t, runner.Calls)
}

func TestStage_MissingPristineTree(t *testing.T) {
	runner := &processtest.FakeRunner{}
	s := New(filepath.Join(t.TempDir(), "nope"), filepath.Join(t.TempDir(), "root"), runner)

	_, err := s.Stage(context.Background(), false)
	require.Error(t, err)
	assert.True(t, ferrors.IsCategory(err, ferrors.CategoryConfiguration))
	assert.Empty(t, runner.Calls)
}

func TestStage_CopyFailureIsFatal(t *testing.T) {
	runner := &processtest.FakeRunner{Handler: func(int, process.Command) process.Result {
		return processtest.Failed(1, "", "cp: cannot stat")
	}}
	s := New(pristine(t), filepath.Join(t.TempDir(), "root"), runner)

	_, err := s.Stage(context.Background(), false)
	require.Error(t, err)
	be, ok := ferrors.AsBuildError(err)
	require.True(t, ok)
	assert.Equal(t, ferrors.CategoryExternalTool, be.Category)
	assert.Contains(t, be.Output, "cp: cannot stat")
	require.Len(t, runner.Calls, 1)
	assert.Equal(t, "cp", runner.Calls[0].Program)
}

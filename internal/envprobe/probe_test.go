package envprobe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
)

func TestEquals_CaseInsensitive(t *testing.T) {
	p := FromMap(map[string]string{"PROFILE": "Release"})
	assert.True(t, p.Equals("PROFILE", "release"))
	assert.True(t, p.IsProfile("RELEASE"))
	assert.False(t, p.IsProfile("debug"))
}

func TestAbsentIsNegative(t *testing.T) {
	p := FromMap(nil)
	assert.False(t, p.IsProfile("release"))
	assert.False(t, p.IsProfile(""))
	assert.False(t, p.OptLevelIs(0))
	assert.False(t, p.Equals("FFDEV1", "1"))
	assert.False(t, p.Has("CARGO_FEATURE_GPL"))
}

func TestOptLevelIs_Exact(t *testing.T) {
	p := FromMap(map[string]string{"OPT_LEVEL": "0"})
	assert.True(t, p.OptLevelIs(0))
	assert.False(t, p.OptLevelIs(1))

	p = FromMap(map[string]string{"OPT_LEVEL": "s"})
	assert.False(t, p.OptLevelIs(0))
}

func TestHas_EmptyValue(t *testing.T) {
	p := FromMap(map[string]string{"CARGO_FEATURE_GPL": ""})
	assert.True(t, p.Has("CARGO_FEATURE_GPL"))
}

func TestRequire(t *testing.T) {
	p := FromMap(map[string]string{"OUT_DIR": "/tmp/out"})

	v, err := p.Require("OUT_DIR")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", v)

	_, err = p.Require("PATH")
	require.Error(t, err)
	assert.True(t, ferrors.IsCategory(err, ferrors.CategoryEnvironment))
}

func TestGetOr(t *testing.T) {
	p := FromMap(map[string]string{"CC": "", "AR": "llvm-ar"})
	assert.Equal(t, "cc", p.GetOr("CC", "cc"))
	assert.Equal(t, "llvm-ar", p.GetOr("AR", "ar"))
	assert.Equal(t, "x", p.GetOr("MISSING", "x"))
}

func TestZeroProbe(t *testing.T) {
	var p Probe
	assert.False(t, p.Has("PATH"))
}

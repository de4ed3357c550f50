package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ferrors "git.home.luguber.info/inful/ffbuild/internal/errors"
)

func TestDefaultManifest(t *testing.T) {
	m, err := DefaultManifest()
	require.NoError(t, err)

	names := make([]string, 0, len(m.StaticLibs))
	for _, lib := range m.StaticLibs {
		names = append(names, lib.Name)
	}
	assert.Equal(t, []string{"avcodec", "avdevice", "avfilter", "avformat", "avutil", "swresample", "swscale"}, names)
	assert.Equal(t, "libavcodec/libavcodec.a", m.StaticLibs[0].Path)
	assert.Len(t, m.SearchPaths, 9)
	assert.Equal(t, "libavresample", m.SearchPaths[4])
	assert.Equal(t, []string{"FP_INFINITE", "FP_NAN", "FP_NORMAL", "FP_SUBNORMAL", "FP_ZERO", "IPPORT_RESERVED"}, m.IgnoredMacros)
	assert.Equal(t, "cbits", m.Shim.Name)
	assert.Equal(t, []string{"cbits/defs.c", "cbits/img_utils.c"}, m.Shim.Sources)

	set := m.IgnoredMacroSet()
	assert.Contains(t, set, "FP_NAN")
	assert.NotContains(t, set, "AV_NOPTS_VALUE")
}

func TestParseManifest_Invalid(t *testing.T) {
	cases := map[string]string{
		"no libs":        "search_paths: [a]\n",
		"empty name":     "static_libs:\n  - name: ''\n    path: x.a\n",
		"duplicate":      "static_libs:\n  - {name: a, path: a.a}\n  - {name: a, path: b.a}\n",
		"blank search":   "static_libs:\n  - {name: a, path: a.a}\nsearch_paths: ['  ']\n",
		"shim unnamed":   "static_libs:\n  - {name: a, path: a.a}\nshim:\n  sources: [x.c]\n",
		"shim twice":     "static_libs:\n  - {name: a, path: a.a}\nshim:\n  name: s\n  sources: [cbits/x.c, cbits/x.c]\n",
		"shim clash":     "static_libs:\n  - {name: a, path: a.a}\nshim:\n  name: s\n  sources: [cbits/util.c, cbits_util.c]\n",
		"shim blank":     "static_libs:\n  - {name: a, path: a.a}\nshim:\n  name: s\n  sources: ['  ']\n",
		"malformed yaml": "static_libs: [",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseManifest([]byte(doc))
			require.Error(t, err)
			assert.True(t, ferrors.IsCategory(err, ferrors.CategoryConfiguration))
		})
	}
}

func TestShimConfig_ObjectName(t *testing.T) {
	sc := ShimConfig{Name: "cbits"}
	assert.Equal(t, "cbits_defs.o", sc.ObjectName("cbits/defs.c"))
	assert.Equal(t, "cbits_a_util.o", sc.ObjectName("cbits/a/util.c"))
	assert.Equal(t, "cbits_a_util.o", sc.ObjectName("./cbits//a/util.c"))
	assert.NotEqual(t, sc.ObjectName("cbits/a/util.c"), sc.ObjectName("cbits/b/util.c"))
}

func TestParseManifest_ShimSameBasenameDifferentDirs(t *testing.T) {
	doc := "static_libs:\n  - {name: a, path: a.a}\nshim:\n  name: s\n  sources: [cbits/a/util.c, cbits/b/util.c]\n"
	m, err := ParseManifest([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, []string{"cbits/a/util.c", "cbits/b/util.c"}, m.Shim.Sources)
}

func TestLoadManifest_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte("static_libs:\n  - {name: avutil, path: libavutil/libavutil.a}\n"), 0o600))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.StaticLibs, 1)
	assert.Equal(t, "avutil", m.StaticLibs[0].Name)
	assert.Empty(t, m.Shim.Sources)

	_, err = LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.True(t, ferrors.IsCategory(err, ferrors.CategoryConfiguration))
}

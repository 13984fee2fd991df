package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathPrecedence(t *testing.T) {
	explicit := "/tmp/custom.jsonc"
	resolved, err := ResolvePath(explicit)
	require.NoError(t, err)
	require.Equal(t, explicit, resolved)

	fromEnv := filepath.Join(t.TempDir(), "env.jsonc")
	t.Setenv(PathEnv, fromEnv)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, fromEnv, resolved)

	resolved, err = ResolvePath(explicit)
	require.NoError(t, err)
	require.Equal(t, explicit, resolved)

	t.Setenv(PathEnv, "")
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdg, "natfmt", "config.jsonc"), resolved)

	t.Setenv("XDG_CONFIG_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "natfmt", "config.jsonc"), resolved)
}

func TestLoadMissingConfigUsesDefaultsWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.jsonc")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, loaded.Path)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.NotEmpty(t, loaded.Warnings)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
}

func TestLoadExistingJSONCParsesAndValidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.jsonc")
	contents := `
{
  "format": {
    "two_spaces_after_period": true
  },
  "wordinfo": {
    "source": "grpc",
    "grpc": "192.168.1.20:7070"
  }
}
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Equal(t, path, loaded.Path)
	require.True(t, loaded.Config.Format.TwoSpacesAfterPeriod)
	require.Equal(t, "192.168.1.20:7070", loaded.Config.WordInfo.GRPC)
}

func TestLoadResolvesRelativeTablePathAgainstConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"wordinfo": {"source": "table", "table": "words.json"}}`), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "words.json"), loaded.Config.WordInfo.TablePath)

	require.NoError(t, os.WriteFile(path, []byte(`{"wordinfo": {"source": "table", "table": "/srv/words.json"}}`), 0o600))
	loaded, err = Load(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/words.json", loaded.Config.WordInfo.TablePath)
}

func TestRelativeTo(t *testing.T) {
	t.Parallel()

	require.Equal(t, "", relativeTo("/etc/natfmt", ""))
	require.Equal(t, "/srv/words.json", relativeTo("/etc/natfmt", "/srv/words.json"))
	require.Equal(t, "/etc/natfmt/tables/words.json", relativeTo("/etc/natfmt", "tables/words.json"))
}

func TestLoadParseErrorIncludesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.jsonc")
	require.NoError(t, os.WriteFile(path, []byte("{ not-json }"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "parse config")
	require.Contains(t, err.Error(), path)
}

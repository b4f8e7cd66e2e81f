package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolvePathPrecedence(t *testing.T) {
	explicit := "/tmp/custom.toml"
	resolved, err := ResolvePath(explicit)
	require.NoError(t, err)
	require.Equal(t, explicit, resolved)

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(xdg, "notifyctl", "config.toml"), resolved)

	t.Setenv("XDG_CONFIG_HOME", "")
	home := t.TempDir()
	t.Setenv("HOME", home)
	resolved, err = ResolvePath("")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(home, ".config", "notifyctl", "config.toml"), resolved)
}

func TestResolvePathWithoutHomeNamesRemedy(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "")

	_, err := ResolvePath("")
	require.Error(t, err)
	require.Contains(t, err.Error(), "resolve notifyctl config path")
	require.Contains(t, err.Error(), "--config")
}

func TestLoadMissingConfigUsesDefaultsWithWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, loaded.Path)
	require.False(t, loaded.Exists)
	require.Equal(t, Default(), loaded.Config)
	require.NotEmpty(t, loaded.Warnings)
	require.Contains(t, loaded.Warnings[0].Message, "not found")
}

func TestLoadExistingTOMLOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := `
[bridge]
host = "192.168.122.1"
port = 9999

[log]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Empty(t, loaded.Warnings)
	require.Equal(t, "192.168.122.1", loaded.Config.Bridge.Host)
	require.Equal(t, 9999, loaded.Config.Bridge.Port)
	require.Equal(t, Default().Bridge.TimeoutMS, loaded.Config.Bridge.TimeoutMS)
	require.Equal(t, "debug", loaded.Config.Log.Level)
}

func TestLoadUnknownKeyIsWarning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	contents := "[bridge]\nport = 9877\nsound = \"Glass\"\n"
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 9877, loaded.Config.Bridge.Port)
	require.Len(t, loaded.Warnings, 1)
	require.Equal(t, 3, loaded.Warnings[0].Line)
	require.Contains(t, loaded.Warnings[0].Message, `"bridge.sound"`)
}

func TestLoadSyntaxErrorReportsPosition(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[bridge\nport = 1\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	require.Contains(t, err.Error(), "line 1")
}

func TestCreateSampleRoundTripsThroughLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, CreateSample(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.True(t, loaded.Exists)
	require.Empty(t, loaded.Warnings)
	require.Equal(t, Default(), loaded.Config)
}

func TestRenderIncludesBridgeTable(t *testing.T) {
	rendered, err := Render(Default())
	require.NoError(t, err)
	require.Contains(t, rendered, "[bridge]")
	require.Contains(t, rendered, "port = 9876")
	require.Contains(t, rendered, "host = 'localhost'")
}

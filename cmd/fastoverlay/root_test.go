package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"charm.land/log/v2"
	"github.com/stretchr/testify/assert"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/yeeaiclub/fastoverlay"
	"github.com/yeeaiclub/fastoverlay/internal/config"
	"github.com/yeeaiclub/fastoverlay/internal/trace"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		configPath = ""
		logLevel = "info"
		conf = config.Default()
		rootCmd.SetArgs(nil)
		for _, c := range append(rootCmd.Commands(), rootCmd) {
			resetFlags(c.Flags())
			resetFlags(c.PersistentFlags())
		}
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestTraceList(t *testing.T) {
	out, err := execute(t, "trace", "--list", "--config", writeConfig(t, ""))
	require.NoError(t, err)
	for _, name := range trace.Names() {
		assert.Contains(t, out, name)
	}
}

func TestTraceRendersScenario(t *testing.T) {
	out, err := execute(t, "trace", "rapid", "--config", writeConfig(t, ""))
	require.NoError(t, err)
	assert.Contains(t, out, "rapid")
	assert.Contains(t, out, "entering")
	assert.Contains(t, out, "500ms")
}

func TestTraceUnknownScenario(t *testing.T) {
	_, err := execute(t, "trace", "bogus", "--config", writeConfig(t, ""))
	assert.ErrorIs(t, err, trace.ErrUnknownScenario)
}

func TestConfigAndLogLevel(t *testing.T) {
	path := writeConfig(t, "[log]\nlevel = \"warn\"\n[modal]\nbackdrop = \"static\"\n")

	_, err := execute(t, "trace", "--list", "--config", path)
	require.NoError(t, err)
	assert.Equal(t, log.WarnLevel, logger.GetLevel())
	assert.Equal(t, fastoverlay.BackdropStatic, conf.Modal.Backdrop)

	_, err = execute(t, "trace", "--list", "--config", path, "--log_level", "debug")
	require.NoError(t, err)
	assert.Equal(t, log.DebugLevel, logger.GetLevel())
}

func TestBadLogLevel(t *testing.T) {
	_, err := execute(t, "trace", "--list", "--config", writeConfig(t, ""), "--log-level", "loud")
	assert.Error(t, err)
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

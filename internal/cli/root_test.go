package cli

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resizecards/internal/config"
	"resizecards/internal/log"
)

// parse builds the root command and parses args without running it.
func parse(t *testing.T, args ...string) (*cobra.Command, *RootArgs) {
	t.Helper()
	cmd := NewRootCmd()
	require.NoError(t, cmd.ParseFlags(args))

	ra := NewRootArgs()
	ra.LogLevel, _ = cmd.Flags().GetString("log-level")
	ra.LogFormat, _ = cmd.Flags().GetString("log-format")
	ra.ConfigPath, _ = cmd.Flags().GetString("config")
	ra.MinWidth, _ = cmd.Flags().GetInt("min-width")
	ra.MaxWidth, _ = cmd.Flags().GetInt("max-width")
	return cmd, ra
}

func TestFlagToEnvName(t *testing.T) {
	assert.Equal(t, "RESIZECARDS_LOG_LEVEL", flagToEnvName("log-level"))
	assert.Equal(t, "RESIZECARDS_MIN_WIDTH", flagToEnvName("min-width"))
}

func TestBindEnvVars(t *testing.T) {
	tcs := map[string]struct {
		env          map[string]string
		args         []string
		wantLogLevel string
		wantMinWidth int
	}{
		"env applies without args": {
			env:          map[string]string{"RESIZECARDS_LOG_LEVEL": "debug", "RESIZECARDS_MIN_WIDTH": "150"},
			wantLogLevel: "debug",
			wantMinWidth: 150,
		},
		"args take precedence": {
			env:          map[string]string{"RESIZECARDS_LOG_LEVEL": "debug", "RESIZECARDS_MIN_WIDTH": "150"},
			args:         []string{"--log-level", "error", "--min-width", "120"},
			wantLogLevel: "error",
			wantMinWidth: 120,
		},
		"invalid env keeps default": {
			env:          map[string]string{"RESIZECARDS_MIN_WIDTH": "wide"},
			wantLogLevel: "info",
			wantMinWidth: 0,
		},
		"defaults": {
			wantLogLevel: "info",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, ra := parse(t, tc.args...)
			assert.Equal(t, tc.wantLogLevel, ra.LogLevel)
			assert.Equal(t, tc.wantMinWidth, ra.MinWidth)
		})
	}
}

func TestUsageMentionsEnv(t *testing.T) {
	cmd := NewRootCmd()
	f := cmd.Flags().Lookup("max-width")
	require.NotNil(t, f)
	assert.Contains(t, f.Usage, "$RESIZECARDS_MAX_WIDTH")
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	tests := map[string]struct {
		file    string
		args    RootArgs
		wantMin int
		wantMax int
		wantErr error
	}{
		"defaults when no file": {
			wantMin: 200, wantMax: 1400,
		},
		"file values": {
			file:    "min-panel-width: 150\nmax-container-width: 1000\n",
			wantMin: 150, wantMax: 1000,
		},
		"flags override file": {
			file:    "min-panel-width: 150\n",
			args:    RootArgs{MinWidth: 100, MaxWidth: 900},
			wantMin: 100, wantMax: 900,
		},
		"flags must keep room for two cards": {
			args:    RootArgs{MinWidth: 800},
			wantErr: config.ErrInvalidConfig,
		},
		"negative flag": {
			args:    RootArgs{MaxWidth: -1},
			wantErr: ErrInvalidFlag,
		},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			ra := tc.args
			if tc.file != "" {
				ra.ConfigPath = filepath.Join(t.TempDir(), "config.yaml")
				require.NoError(t, os.WriteFile(ra.ConfigPath, []byte(tc.file), 0o600))
			}

			cfg, err := ra.LoadConfig()
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantMin, cfg.MinPanelWidth)
			assert.Equal(t, tc.wantMax, cfg.MaxContainerWidth)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ra := RootArgs{ConfigPath: filepath.Join(t.TempDir(), "absent.yaml")}
	_, err := ra.LoadConfig()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestSetupLogging(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resizecards.log")
	ra := &RootArgs{LogLevel: "debug", LogFormat: "logfmt", LogFile: path}
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	require.NoError(t, setupLogging(ra)(nil, nil))
	require.NotNil(t, ra.logOut)
	require.NoError(t, closeLogging(ra)(nil, nil))
	assert.FileExists(t, path)

	bad := &RootArgs{LogLevel: "loud", LogFormat: "text"}
	err := setupLogging(bad)(nil, nil)
	require.ErrorIs(t, err, log.ErrUnknownLogLevel)
}

func TestRootCmd_RejectsArgs(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"extra"})
	cmd.SetOut(new(nopWriter))
	cmd.SetErr(new(nopWriter))
	require.Error(t, cmd.Execute())
}

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gatewise/go-fetchgate/config"
)

func TestConfig(t *testing.T) {
	t.Run("read values from yaml", func(t *testing.T) {
		cfgData := bytes.NewBufferString(`
log:
  level: warn
  format: text
  output: file
  nocolor: true
  file:
    path: /var/log/app.log
    rotation:
      compress: true
      maxSizeMB: 100
      maxBackups: 5
      maxAgeDays: 7
`)
		cfg := NewConfig()
		err := config.NewDefaultLoader("").LoadFromReader(cfgData, config.DataTypeYAML, cfg)
		require.NoError(t, err)

		require.Equal(t, LevelWarn, cfg.Level)
		require.Equal(t, FormatText, cfg.Format)
		require.Equal(t, OutputFile, cfg.Output)
		require.True(t, cfg.NoColor)
		require.Equal(t, "/var/log/app.log", cfg.File.Path)
		require.True(t, cfg.File.Rotation.Compress)
		require.Equal(t, 100, cfg.File.Rotation.MaxSizeMB)
		require.Equal(t, 5, cfg.File.Rotation.MaxBackups)
		require.Equal(t, 7, cfg.File.Rotation.MaxAgeDays)
	})

	t.Run("default values are used when keys are missing", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("").LoadFromReader(bytes.NewBufferString("{}"), config.DataTypeYAML, cfg)
		require.NoError(t, err)

		require.Equal(t, LevelInfo, cfg.Level)
		require.Equal(t, FormatJSON, cfg.Format)
		require.Equal(t, OutputStdout, cfg.Output)
		require.Equal(t, DefaultFileRotationMaxSizeMB, cfg.File.Rotation.MaxSizeMB)
		require.Equal(t, DefaultFileRotationMaxBackups, cfg.File.Rotation.MaxBackups)
	})

	t.Run("invalid level", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("").LoadFromReader(
			bytes.NewBufferString("log:\n  level: verbose\n"), config.DataTypeYAML, cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "log.level")
	})

	t.Run("file output requires path", func(t *testing.T) {
		cfg := NewConfig()
		err := config.NewDefaultLoader("").LoadFromReader(
			bytes.NewBufferString("log:\n  output: file\n"), config.DataTypeYAML, cfg)
		require.Error(t, err)
		require.Contains(t, err.Error(), "log.file.path")
	})
}

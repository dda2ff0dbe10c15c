package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/jrsteele09/bloghub-admin/internal/logger"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_JSON(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "warn", "json")

	log.Info().Msg("dropped")
	log.Warn().Str("path", "/admin").Msg("kept")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	require.Equal(t, "kept", entry["message"])
	require.Equal(t, "/admin", entry["path"])
	require.Equal(t, "warn", entry["level"])
}

func TestInitWithWriter_UnknownLevelDefaultsToInfo(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	var buf bytes.Buffer
	logger.InitWithWriter(&buf, "chatty", "console")
	require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())

	log.Debug().Msg("hidden")
	require.Empty(t, buf.String())
}

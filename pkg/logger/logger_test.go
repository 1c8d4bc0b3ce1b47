package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Almacen-api/pkg/logger"
)

func TestFromWriter_EscribeJSONConCampos(t *testing.T) {
	var buf bytes.Buffer
	log := logger.FromWriter(&buf, "info")

	log.Info().Int64("movement_id", 7).Str("state", "APPROVED").Msg("movimiento aprobado")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "info", line["level"])
	assert.Equal(t, "movimiento aprobado", line["message"])
	assert.EqualValues(t, 7, line["movement_id"])
	assert.Equal(t, "APPROVED", line["state"])
}

func TestFromWriter_RespetaNivel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.FromWriter(&buf, "warn")

	log.Debug().Msg("no debe salir")
	log.Info().Msg("tampoco")
	assert.Empty(t, buf.String())

	log.Warn().Msg("visible")
	assert.Contains(t, buf.String(), `"visible"`)
}

func TestNop_NoFalla(t *testing.T) {
	assert.NotPanics(t, func() {
		logger.Nop().Error().Str("k", "v").Msg("descartado")
	})
}

package apperr

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		kind    Kind
		message string
	}{
		{EventNotFound, "Evento não encontrado!"},
		{EventIDMissing, "Id do evento não fornecido!"},
		{SumulaNotFound, "Súmula não encontrada!"},
		{SumulaIDMissing, "É necessário fornecer o id da súmula!"},
		{InvalidPayload, "Dados inválidos!"},
		{PlayerNotFound, "Jogador não encontrado!"},
		{PlayerScoreNotFound, "Pontuação não encontrada!"},
		{StaffNotFound, "Usuário não é um monitor do evento!"},
		{NotSumulaReferee, "Usuário não é um árbitro desta súmula!"},
		{NoActiveSumula, "Jogador não possui nenhuma sumula associada!"},
		{RefereeConflict, "Súmula já possui um ou mais árbitros!"},
		{SumulaClosed, "Súmula já encerrada só pode ser editada por um gerente ou administrador!"},
		{PermissionDenied, "Usuário não possui permissão!"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			assert.Equal(t, tt.message, New(tt.kind).Error())
		})
	}
}

func TestStatus(t *testing.T) {
	assert.Equal(t, fiber.StatusForbidden, New(PermissionDenied).Status())
	assert.Equal(t, fiber.StatusBadRequest, New(SumulaNotFound).Status())
	assert.Equal(t, fiber.StatusBadRequest, New(InvalidPayload).Status())
}

func TestIsAndWrap(t *testing.T) {
	cause := fmt.Errorf("driver: connection reset")
	err := Wrap(SumulaNotFound, cause)

	assert.True(t, Is(err, SumulaNotFound))
	assert.False(t, Is(err, PlayerNotFound))
	assert.True(t, errors.Is(err, New(SumulaNotFound)))
	assert.Equal(t, cause, errors.Unwrap(err))

	assert.False(t, Is(cause, SumulaNotFound))
	assert.False(t, Is(nil, SumulaNotFound))
}

func TestRespondBody(t *testing.T) {
	app := fiber.New()
	app.Get("/boom", func(c *fiber.Ctx) error {
		return Respond(c, New(PermissionDenied))
	})
	app.Get("/plain", func(c *fiber.Ctx) error {
		return Respond(c, errors.New("algo falhou"))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors": "Usuário não possui permissão!"}`, string(body))

	resp, err = app.Test(httptest.NewRequest("GET", "/plain", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	body, err = io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"errors": "algo falhou"}`, string(body))
}

// Package apperr defines the closed set of domain failure kinds and their
// user-facing messages. Handlers never pass free-form strings around;
// every rule violation maps to one of these kinds.
package apperr

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Kind int

const (
	Unknown Kind = iota
	EventNotFound
	EventIDMissing
	SumulaNotFound
	SumulaIDMissing
	InvalidPayload
	PlayerNotFound
	PlayerScoreNotFound
	StaffNotFound
	NotSumulaReferee
	NoActiveSumula
	RefereeConflict
	SumulaClosed
	PermissionDenied
)

// Message text is part of the API contract, consumers match on it.
var messages = map[Kind]string{
	EventNotFound:       "Evento não encontrado!",
	EventIDMissing:      "Id do evento não fornecido!",
	SumulaNotFound:      "Súmula não encontrada!",
	SumulaIDMissing:     "É necessário fornecer o id da súmula!",
	InvalidPayload:      "Dados inválidos!",
	PlayerNotFound:      "Jogador não encontrado!",
	PlayerScoreNotFound: "Pontuação não encontrada!",
	StaffNotFound:       "Usuário não é um monitor do evento!",
	NotSumulaReferee:    "Usuário não é um árbitro desta súmula!",
	NoActiveSumula:      "Jogador não possui nenhuma sumula associada!",
	RefereeConflict:     "Súmula já possui um ou mais árbitros!",
	SumulaClosed:        "Súmula já encerrada só pode ser editada por um gerente ou administrador!",
	PermissionDenied:    "Usuário não possui permissão!",
}

type Error struct {
	Kind  Kind
	cause error
}

func New(k Kind) *Error {
	return &Error{Kind: k}
}

func Wrap(k Kind, cause error) *Error {
	return &Error{Kind: k, cause: cause}
}

func (e *Error) Error() string {
	if msg, ok := messages[e.Kind]; ok {
		return msg
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return "Dados inválidos!"
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Status maps the kind to its HTTP status. Everything except permission
// denial collapses to 400 with a distinguishing message.
func (e *Error) Status() int {
	if e.Kind == PermissionDenied {
		return fiber.StatusForbidden
	}
	return fiber.StatusBadRequest
}

// Is reports whether err carries the kind k.
func Is(err error, k Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == k
}

// Is lets errors.Is match two apperr values by kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// Respond writes the structured failure body for err. Unclassified errors
// fall through to a generic 400 carrying the underlying message; that is a
// safety net, explicit validation should have produced a kind already.
func Respond(c *fiber.Ctx, err error) error {
	var ae *Error
	if errors.As(err, &ae) {
		return c.Status(ae.Status()).JSON(fiber.Map{"errors": ae.Error()})
	}
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": err.Error()})
}

// Package apierror provides standardized error response structures for the API.
// All errors returned to clients go through this package to ensure consistency
// and to prevent leaking internal details (stack traces, DB errors, etc.).
package apierror

import "errors"

// APIError is the canonical error envelope for all 4xx/5xx HTTP responses.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// Validation wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// Kind classifies domain errors so handlers can map them to HTTP statuses
// without inspecting message strings.
type Kind string

const (
	KindValidation            Kind = "validation"
	KindNotFound              Kind = "not_found"
	KindDuplicateKey          Kind = "duplicate_key"
	KindInvalidTransition     Kind = "invalid_state_transition"
	KindContratoCerrado       Kind = "contract_closed"
	KindContratoNoPagado      Kind = "contract_not_paid"
	KindNadaPorLiquidar       Kind = "nothing_to_settle"
	KindComisionYaPagada      Kind = "commission_already_paid"
	KindMotivoRequerido       Kind = "reason_required"
	KindYaAnulada             Kind = "already_void"
	KindReferenciadoLiquidado Kind = "referenced_by_liquidated_contract"
	KindUnauthorized          Kind = "unauthorized"
	KindForbidden             Kind = "forbidden"
)

// Error is a domain error carrying a Kind and a client-safe message.
type Error struct {
	Kind   Kind
	Detail string
}

func (e *Error) Error() string { return e.Detail }

func NewKind(kind Kind, detail string) *Error {
	return &Error{Kind: kind, Detail: detail}
}

func NotFound(detail string) *Error  { return NewKind(KindNotFound, detail) }
func Invalid(detail string) *Error   { return NewKind(KindValidation, detail) }
func Duplicate(detail string) *Error { return NewKind(KindDuplicateKey, detail) }

func TransicionInvalida(detail string) *Error {
	return NewKind(KindInvalidTransition, detail)
}

// KindOf extracts the Kind from an error chain; "" when the error is not a
// domain error.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

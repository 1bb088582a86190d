// Package apierror defines the typed failure taxonomy the simulation core
// surfaces to its callers, plus the standardized envelope the transport layer
// renders. Every user-visible error carries the offending id or name so it can
// be shown directly without another lookup.
package apierror

import (
	"errors"
	"fmt"
)

// APIError is the canonical error envelope for the calling layer.
type APIError struct {
	Detail string `json:"detail"`
}

func New(msg string) *APIError {
	return &APIError{Detail: msg}
}

// NotFoundError indica que un recurso (normalmente un escenario) no existe.
type NotFoundError struct {
	Recurso string
	ID      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s no encontrado", e.Recurso, e.ID)
}

func NewEscenarioNotFound(id string) *NotFoundError {
	return &NotFoundError{Recurso: "escenario", ID: id}
}

// ConflictError indica una violación de unicidad (nombre de escenario duplicado).
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string { return e.Detail }

func NewDuplicateName(nombre string) *ConflictError {
	return &ConflictError{Detail: fmt.Sprintf("ya existe un escenario con el nombre %q", nombre)}
}

// DataUnavailableError indica que el dataset maestro no pudo cargarse.
// Fatal para la petición en curso; la política de reintento pertenece al caller.
type DataUnavailableError struct {
	Fuente string
	Err    error
}

func (e *DataUnavailableError) Error() string {
	return fmt.Sprintf("dataset maestro no disponible (%s): %v", e.Fuente, e.Err)
}

func (e *DataUnavailableError) Unwrap() error { return e.Err }

// ValidationError wraps multiple field errors.
type ValidationError struct {
	Detail string            `json:"detail"`
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string { return e.Detail }

func NewValidation(fields map[string]string) *ValidationError {
	return &ValidationError{Detail: "Error de validacion", Fields: fields}
}

// From normalizes any error into the API envelope without leaking internals.
func From(err error) *APIError {
	var nf *NotFoundError
	var cf *ConflictError
	var du *DataUnavailableError
	var ve *ValidationError
	switch {
	case errors.As(err, &nf):
		return New(nf.Error())
	case errors.As(err, &cf):
		return New(cf.Error())
	case errors.As(err, &du):
		return New(du.Error())
	case errors.As(err, &ve):
		return New(ve.Error())
	default:
		return New("error interno")
	}
}

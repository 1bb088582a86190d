// Package dataset implements the master-dataset provider: it loads the
// item-center master table and exposes it as a sequence of raw rows with named
// fields. The engine treats the loaded rows as read-only and shared; callers
// must not mutate them.
package dataset

import "context"

// RawRow is one source row keyed by column header, values still unparsed.
type RawRow map[string]string

// Provider carga el dataset maestro. Una carga fallida devuelve
// *apierror.DataUnavailableError y es fatal para la petición en curso.
type Provider interface {
	Load(ctx context.Context) ([]RawRow, error)
}

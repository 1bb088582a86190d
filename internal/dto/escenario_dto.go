package dto

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GuardarEscenarioRequest sirve tanto para crear como para reemplazar: el
// replace sustituye nombre, parámetros y set de overrides al completo, nunca
// mezcla con lo anterior. Cero en dias_laborales u horas_turno_global
// significa usar el default global; tras aplicar defaults ambos deben ser
// positivos.
type GuardarEscenarioRequest struct {
	Nombre           string                         `json:"nombre" validate:"required"`
	Descripcion      string                         `json:"descripcion"`
	DiasLaborales    int                            `json:"dias_laborales" validate:"gt=0"`
	HorasTurnoGlobal float64                        `json:"horas_turno_global" validate:"gt=0"`
	CenterConfigs    map[string]CenterConfigRequest `json:"center_configs"`
	Overrides        []OverrideRequest              `json:"overrides" validate:"dive"`
}

type EscenarioResponse struct {
	ID               uuid.UUID                      `json:"id"`
	Nombre           string                         `json:"nombre"`
	Descripcion      string                         `json:"descripcion"`
	DiasLaborales    int                            `json:"dias_laborales"`
	HorasTurnoGlobal float64                        `json:"horas_turno_global"`
	CenterConfigs    map[string]CenterConfigRequest `json:"center_configs"`
	Overrides        []OverrideRequest              `json:"overrides,omitempty"`
	CreatedAt        time.Time                      `json:"created_at"`
	UpdatedAt        time.Time                      `json:"updated_at"`
}

type HistorialResponse struct {
	ID               uuid.UUID       `json:"id"`
	EscenarioID      uuid.UUID       `json:"escenario_id"`
	Timestamp        time.Time       `json:"timestamp"`
	Nombre           string          `json:"nombre"`
	ChangesCount     int             `json:"changes_count"`
	DetallesSnapshot json.RawMessage `json:"detalles_snapshot"`
}

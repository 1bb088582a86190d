package dto

import (
	"github.com/google/uuid"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/sim"
)

// SimulacionParams son los overrides escalares que el caller puede pasar en
// cualquier modo. nil = usar el valor del escenario o el default global.
type SimulacionParams struct {
	DiasLaborales *int     `json:"dias_laborales"`
	HorasTurno    *float64 `json:"horas_turno"`
}

// OverrideRequest es la forma normalizada de un override en la frontera:
// todas las fuentes (preview ad-hoc, escenario persistido) se convierten a
// esta estructura tipada antes de entrar al resolver.
type OverrideRequest struct {
	Articulo               string   `json:"articulo" validate:"required"`
	Centro                 string   `json:"centro" validate:"required"`
	OEEOverride            *float64 `json:"oee_override"`
	PPMOverride            *float64 `json:"ppm_override"`
	DemandaOverride        *float64 `json:"demanda_override"`
	NuevoCentro            *string  `json:"new_centro"`
	HorasTurnoOverride     *float64 `json:"horas_turno_override"`
	PersonnelRatioOverride *float64 `json:"personnel_ratio_override"`
	SetupTimeOverride      *float64 `json:"setup_time_override"`
}

// CenterConfigRequest configura un centro completo: shifts se aplica como
// horas de turno de sus filas, personnel_ratio como su Ratio MOD.
type CenterConfigRequest struct {
	Shifts         *float64 `json:"shifts"`
	PersonnelRatio *float64 `json:"personnel_ratio"`
}

// PreviewRequest es una simulación ad-hoc sin persistencia: el caller aporta
// overrides y configuración directamente para explorar cambios antes de
// guardarlos como escenario.
type PreviewRequest struct {
	DiasLaborales *int                           `json:"dias_laborales"`
	HorasTurno    *float64                       `json:"horas_turno"`
	CenterConfigs map[string]CenterConfigRequest `json:"center_configs"`
	Overrides     []OverrideRequest              `json:"overrides" validate:"dive"`
}

// SimulacionMeta es la pista de auditoría de una pasada: qué parámetros y
// overrides estaban en efecto. Cada campo de override está siempre presente
// (null si no se fijó).
type SimulacionMeta struct {
	RunID            uuid.UUID                      `json:"run_id"`
	DiasLaborales    int                            `json:"dias_laborales"`
	HorasTurnoGlobal float64                        `json:"horas_turno_global"`
	CenterConfigs    map[string]CenterConfigRequest `json:"center_configs"`
	AppliedOverrides []OverrideRequest              `json:"applied_overrides"`
}

// SimulacionResponse es el resultado completo: filas anotadas, agregación por
// centro y metadatos de la pasada.
type SimulacionResponse struct {
	Detail  []sim.Row           `json:"detail"`
	Summary []sim.CenterSummary `json:"summary"`
	Meta    SimulacionMeta      `json:"meta"`
}

package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Escenario es una configuración what-if persistida: parámetros globales de
// simulación más un conjunto ordenado de overrides por (articulo, centro).
type Escenario struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre           string    `gorm:"uniqueIndex;not null"`
	Descripcion      string
	DiasLaborales    int            `gorm:"not null;default:238"`
	HorasTurnoGlobal float64        `gorm:"not null;default:16"`
	CenterConfigs    datatypes.JSON `gorm:"type:jsonb"` // map centro → {shifts, personnel_ratio}
	CreatedAt        time.Time
	UpdatedAt        time.Time

	Overrides []EscenarioOverride `gorm:"foreignKey:EscenarioID"`
}

// EscenarioOverride es una desviación solicitada para un par (articulo, centro).
// Posicion preserva el orden de la lista: un override posterior para el mismo
// par gana sobre uno anterior.
type EscenarioOverride struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EscenarioID uuid.UUID `gorm:"type:uuid;not null;index"`
	Posicion    int       `gorm:"not null"`
	Articulo    string    `gorm:"not null"`
	Centro      string    `gorm:"not null"`

	OEEOverride            *float64
	PPMOverride            *float64
	DemandaOverride        *float64
	NuevoCentro            *string
	HorasTurnoOverride     *float64
	PersonnelRatioOverride *float64
	SetupTimeOverride      *float64
}

// EscenarioHistorial es un registro de auditoría append-only: una entrada por
// cada create / replace, con una copia serializada del set de overrides de ese
// momento. Nunca se edita; solo se borra en cascada con su escenario.
type EscenarioHistorial struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EscenarioID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Timestamp        time.Time `gorm:"not null;index"`
	Nombre           string
	ChangesCount     int
	DetallesSnapshot datatypes.JSON `gorm:"type:jsonb"`
}

// TableName overrides GORM's default pluralization (escenario_historials → escenario_historial).
func (EscenarioHistorial) TableName() string { return "escenario_historial" }

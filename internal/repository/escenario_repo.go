package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/apierror"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/model"
)

// EscenarioRepository is the persistence contract for scenarios, their
// override sets and the append-only change history.
type EscenarioRepository interface {
	// Crear persiste el escenario con esc.Overrides y una entrada de
	// historial. Nombre duplicado → *apierror.ConflictError.
	Crear(ctx context.Context, esc *model.Escenario) error
	// Reemplazar sustituye nombre, parámetros y overrides al completo y añade
	// una entrada de historial. id inexistente → *apierror.NotFoundError;
	// rename que colisiona con otro escenario → *apierror.ConflictError.
	Reemplazar(ctx context.Context, esc *model.Escenario) error
	// Eliminar borra overrides, historial y escenario en una transacción.
	Eliminar(ctx context.Context, id uuid.UUID) error
	// BuscarPorID devuelve el escenario con sus overrides en orden de lista.
	BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Escenario, error)
	// Listar devuelve todos los escenarios, solo campos de resumen.
	Listar(ctx context.Context) ([]model.Escenario, error)
	// Historial devuelve las entradas ordenadas por timestamp descendente.
	Historial(ctx context.Context, id uuid.UUID) ([]model.EscenarioHistorial, error)
}

type escenarioRepo struct{ db *gorm.DB }

func NewEscenarioRepository(db *gorm.DB) EscenarioRepository { return &escenarioRepo{db: db} }

func (r *escenarioRepo) Crear(ctx context.Context, esc *model.Escenario) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Pre-check por nombre para dar un error legible; el índice único es
		// la garantía real frente a creates concurrentes.
		var count int64
		if err := tx.Model(&model.Escenario{}).Where("nombre = ?", esc.Nombre).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apierror.NewDuplicateName(esc.Nombre)
		}

		for i := range esc.Overrides {
			esc.Overrides[i].Posicion = i
		}
		if err := tx.Create(esc).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierror.NewDuplicateName(esc.Nombre)
			}
			return err
		}
		return appendHistorial(tx, esc)
	})
}

func (r *escenarioRepo) Reemplazar(ctx context.Context, esc *model.Escenario) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Escenario
		if err := tx.First(&existing, "id = ?", esc.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NewEscenarioNotFound(esc.ID.String())
			}
			return err
		}

		var count int64
		if err := tx.Model(&model.Escenario{}).
			Where("nombre = ? AND id <> ?", esc.Nombre, esc.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return apierror.NewDuplicateName(esc.Nombre)
		}

		// Reemplazo total: fuera los overrides anteriores, dentro el set
		// nuevo. El historial no se toca, es append-only.
		if err := tx.Where("escenario_id = ?", esc.ID).
			Delete(&model.EscenarioOverride{}).Error; err != nil {
			return err
		}

		updates := map[string]any{
			"nombre":             esc.Nombre,
			"descripcion":        esc.Descripcion,
			"dias_laborales":     esc.DiasLaborales,
			"horas_turno_global": esc.HorasTurnoGlobal,
			"center_configs":     esc.CenterConfigs,
		}
		if err := tx.Model(&model.Escenario{}).Where("id = ?", esc.ID).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apierror.NewDuplicateName(esc.Nombre)
			}
			return err
		}

		for i := range esc.Overrides {
			esc.Overrides[i].ID = uuid.Nil
			esc.Overrides[i].EscenarioID = esc.ID
			esc.Overrides[i].Posicion = i
		}
		if len(esc.Overrides) > 0 {
			if err := tx.Create(&esc.Overrides).Error; err != nil {
				return err
			}
		}
		return appendHistorial(tx, esc)
	})
}

func (r *escenarioRepo) Eliminar(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.Escenario
		if err := tx.First(&existing, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apierror.NewEscenarioNotFound(id.String())
			}
			return err
		}

		// Cascada explícita en dos fases: hijos primero, padre después.
		if err := tx.Where("escenario_id = ?", id).Delete(&model.EscenarioOverride{}).Error; err != nil {
			return err
		}
		if err := tx.Where("escenario_id = ?", id).Delete(&model.EscenarioHistorial{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Escenario{}, "id = ?", id).Error
	})
}

func (r *escenarioRepo) BuscarPorID(ctx context.Context, id uuid.UUID) (*model.Escenario, error) {
	var esc model.Escenario
	err := r.db.WithContext(ctx).
		Preload("Overrides", func(db *gorm.DB) *gorm.DB { return db.Order("posicion ASC") }).
		First(&esc, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierror.NewEscenarioNotFound(id.String())
		}
		return nil, err
	}
	return &esc, nil
}

func (r *escenarioRepo) Listar(ctx context.Context) ([]model.Escenario, error) {
	var escenarios []model.Escenario
	err := r.db.WithContext(ctx).Order("created_at ASC").Find(&escenarios).Error
	return escenarios, err
}

func (r *escenarioRepo) Historial(ctx context.Context, id uuid.UUID) ([]model.EscenarioHistorial, error) {
	var entradas []model.EscenarioHistorial
	err := r.db.WithContext(ctx).
		Where("escenario_id = ?", id).
		Order("timestamp DESC").
		Find(&entradas).Error
	return entradas, err
}

// appendHistorial writes one audit entry with a serialized copy of the
// override set at this moment.
func appendHistorial(tx *gorm.DB, esc *model.Escenario) error {
	snapshot, err := json.Marshal(esc.Overrides)
	if err != nil {
		return err
	}
	return tx.Create(&model.EscenarioHistorial{
		EscenarioID:      esc.ID,
		Timestamp:        time.Now().UTC(),
		Nombre:           esc.Nombre,
		ChangesCount:     len(esc.Overrides),
		DetallesSnapshot: datatypes.JSON(snapshot),
	}).Error
}

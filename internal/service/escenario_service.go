package service

import (
	"context"
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/apierror"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/dto"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/model"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/repository"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/sim"
)

var validate = validator.New()

// EscenarioService is the management surface over persisted scenarios:
// validation, dto ↔ entity mapping, and delegation to the repository.
type EscenarioService interface {
	Crear(ctx context.Context, req dto.GuardarEscenarioRequest) (*dto.EscenarioResponse, error)
	Obtener(ctx context.Context, id uuid.UUID) (*dto.EscenarioResponse, error)
	Reemplazar(ctx context.Context, id uuid.UUID, req dto.GuardarEscenarioRequest) (*dto.EscenarioResponse, error)
	Eliminar(ctx context.Context, id uuid.UUID) error
	Listar(ctx context.Context) ([]dto.EscenarioResponse, error)
	Historial(ctx context.Context, id uuid.UUID) ([]dto.HistorialResponse, error)
}

type escenarioService struct {
	repo repository.EscenarioRepository
}

func NewEscenarioService(repo repository.EscenarioRepository) EscenarioService {
	return &escenarioService{repo: repo}
}

func (s *escenarioService) Crear(ctx context.Context, req dto.GuardarEscenarioRequest) (*dto.EscenarioResponse, error) {
	esc, err := s.buildEntity(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Crear(ctx, esc); err != nil {
		return nil, err
	}
	log.Info().Str("escenario", esc.Nombre).Int("overrides", len(esc.Overrides)).Msg("escenario creado")
	return escenarioToResponse(esc, true), nil
}

func (s *escenarioService) Obtener(ctx context.Context, id uuid.UUID) (*dto.EscenarioResponse, error) {
	esc, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}
	return escenarioToResponse(esc, true), nil
}

func (s *escenarioService) Reemplazar(ctx context.Context, id uuid.UUID, req dto.GuardarEscenarioRequest) (*dto.EscenarioResponse, error) {
	esc, err := s.buildEntity(req)
	if err != nil {
		return nil, err
	}
	esc.ID = id
	if err := s.repo.Reemplazar(ctx, esc); err != nil {
		return nil, err
	}
	log.Info().Str("escenario", esc.Nombre).Int("overrides", len(esc.Overrides)).Msg("escenario reemplazado")
	return s.Obtener(ctx, id)
}

func (s *escenarioService) Eliminar(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Eliminar(ctx, id); err != nil {
		return err
	}
	log.Info().Str("escenario_id", id.String()).Msg("escenario eliminado")
	return nil
}

func (s *escenarioService) Listar(ctx context.Context) ([]dto.EscenarioResponse, error) {
	escenarios, err := s.repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EscenarioResponse, 0, len(escenarios))
	for i := range escenarios {
		out = append(out, *escenarioToResponse(&escenarios[i], false))
	}
	return out, nil
}

func (s *escenarioService) Historial(ctx context.Context, id uuid.UUID) ([]dto.HistorialResponse, error) {
	entradas, err := s.repo.Historial(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistorialResponse, 0, len(entradas))
	for _, h := range entradas {
		out = append(out, dto.HistorialResponse{
			ID:               h.ID,
			EscenarioID:      h.EscenarioID,
			Timestamp:        h.Timestamp,
			Nombre:           h.Nombre,
			ChangesCount:     h.ChangesCount,
			DetallesSnapshot: json.RawMessage(h.DetallesSnapshot),
		})
	}
	return out, nil
}

// buildEntity applies defaults, validates the request and maps it to the
// gorm entity. Override list order is preserved (Posicion lo fija el repo).
func (s *escenarioService) buildEntity(req dto.GuardarEscenarioRequest) (*model.Escenario, error) {
	if req.DiasLaborales == 0 {
		req.DiasLaborales = sim.DefaultDiasLaborales
	}
	if req.HorasTurnoGlobal == 0 {
		req.HorasTurnoGlobal = sim.DefaultHorasTurno
	}

	if err := validate.Struct(req); err != nil {
		fields := make(map[string]string)
		for _, fe := range err.(validator.ValidationErrors) {
			fields[fe.Field()] = fe.Tag()
		}
		return nil, apierror.NewValidation(fields)
	}

	configs, err := encodeCenterConfigs(req.CenterConfigs)
	if err != nil {
		return nil, err
	}

	overrides := make([]model.EscenarioOverride, 0, len(req.Overrides))
	for _, ov := range req.Overrides {
		overrides = append(overrides, overrideReqToModel(ov))
	}

	return &model.Escenario{
		Nombre:           req.Nombre,
		Descripcion:      req.Descripcion,
		DiasLaborales:    req.DiasLaborales,
		HorasTurnoGlobal: req.HorasTurnoGlobal,
		CenterConfigs:    configs,
		Overrides:        overrides,
	}, nil
}

func escenarioToResponse(esc *model.Escenario, conOverrides bool) *dto.EscenarioResponse {
	resp := &dto.EscenarioResponse{
		ID:               esc.ID,
		Nombre:           esc.Nombre,
		Descripcion:      esc.Descripcion,
		DiasLaborales:    esc.DiasLaborales,
		HorasTurnoGlobal: esc.HorasTurnoGlobal,
		CreatedAt:        esc.CreatedAt,
		UpdatedAt:        esc.UpdatedAt,
	}
	if len(esc.CenterConfigs) > 0 {
		// La columna es jsonb propio, el unmarshal no debería fallar; si lo
		// hace dejamos el mapa vacío antes que romper la respuesta.
		var configs map[string]dto.CenterConfigRequest
		if err := json.Unmarshal(esc.CenterConfigs, &configs); err == nil {
			resp.CenterConfigs = configs
		}
	}
	if conOverrides {
		resp.Overrides = make([]dto.OverrideRequest, 0, len(esc.Overrides))
		for _, ov := range esc.Overrides {
			resp.Overrides = append(resp.Overrides, overrideModelToDTO(ov))
		}
	}
	return resp
}

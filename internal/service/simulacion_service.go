package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/dataset"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/dto"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/repository"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/sim"
)

// SimulacionService orquesta la pipeline completa: carga del dataset maestro,
// resolución de overrides, cálculo de saturación y agregación por centro.
// Tres modos de entrada, todos desembocan en la misma pipeline:
//
//   - SimularBase: sin overrides, solo parámetros escalares opcionales.
//   - SimularEscenario: carga un escenario persistido; los parámetros del
//     caller tienen precedencia sobre los guardados.
//   - SimularPreview: overrides ad-hoc sin persistencia.
type SimulacionService interface {
	SimularBase(ctx context.Context, params dto.SimulacionParams) (*dto.SimulacionResponse, error)
	SimularEscenario(ctx context.Context, id uuid.UUID, params dto.SimulacionParams) (*dto.SimulacionResponse, error)
	SimularPreview(ctx context.Context, req dto.PreviewRequest) (*dto.SimulacionResponse, error)
}

type simulacionService struct {
	provider dataset.Provider
	repo     repository.EscenarioRepository
}

func NewSimulacionService(provider dataset.Provider, repo repository.EscenarioRepository) SimulacionService {
	return &simulacionService{provider: provider, repo: repo}
}

func (s *simulacionService) SimularBase(ctx context.Context, params dto.SimulacionParams) (*dto.SimulacionResponse, error) {
	return s.run(ctx, sim.Params{
		DiasLaborales: params.DiasLaborales,
		HorasTurno:    params.HorasTurno,
	})
}

func (s *simulacionService) SimularEscenario(ctx context.Context, id uuid.UUID, params dto.SimulacionParams) (*dto.SimulacionResponse, error) {
	esc, err := s.repo.BuscarPorID(ctx, id)
	if err != nil {
		return nil, err
	}

	configs, err := decodeCenterConfigs(esc.CenterConfigs)
	if err != nil {
		return nil, err
	}

	// Precedencia de escalares: parámetro del caller > valor del escenario.
	dias := esc.DiasLaborales
	if params.DiasLaborales != nil {
		dias = *params.DiasLaborales
	}
	horas := esc.HorasTurnoGlobal
	if params.HorasTurno != nil {
		horas = *params.HorasTurno
	}

	overrides := make([]sim.Override, 0, len(esc.Overrides))
	for _, ov := range esc.Overrides {
		overrides = append(overrides, overrideModelToSim(ov))
	}

	return s.run(ctx, sim.Params{
		DiasLaborales: &dias,
		HorasTurno:    &horas,
		CenterConfigs: configs,
		Overrides:     overrides,
	})
}

func (s *simulacionService) SimularPreview(ctx context.Context, req dto.PreviewRequest) (*dto.SimulacionResponse, error) {
	overrides := make([]sim.Override, 0, len(req.Overrides))
	for _, ov := range req.Overrides {
		overrides = append(overrides, overrideReqToSim(ov))
	}
	return s.run(ctx, sim.Params{
		DiasLaborales: req.DiasLaborales,
		HorasTurno:    req.HorasTurno,
		CenterConfigs: configsReqToSim(req.CenterConfigs),
		Overrides:     overrides,
	})
}

func (s *simulacionService) run(ctx context.Context, p sim.Params) (*dto.SimulacionResponse, error) {
	start := time.Now()

	raw, err := s.provider.Load(ctx)
	if err != nil {
		return nil, err
	}

	base := sim.NormalizeRows(raw)

	horasDefault := sim.DefaultHorasTurno
	if p.HorasTurno != nil {
		horasDefault = *p.HorasTurno
	}

	resolved := sim.Resolve(base, p)
	detail := sim.Calculate(resolved, p.DiasLaborales, horasDefault)
	summary := sim.Summarize(detail)
	meta := buildMeta(p)

	log.Debug().
		Str("run_id", meta.RunID.String()).
		Int("filas", len(detail)).
		Int("overrides", len(p.Overrides)).
		Dur("elapsed", time.Since(start)).
		Msg("simulación completada")

	return &dto.SimulacionResponse{Detail: detail, Summary: summary, Meta: meta}, nil
}

// buildMeta echoes exactly the parameters and overrides in effect for this
// run, with every override field explicitly present (null when unset).
func buildMeta(p sim.Params) dto.SimulacionMeta {
	dias := sim.DefaultDiasLaborales
	if p.DiasLaborales != nil {
		dias = *p.DiasLaborales
	}
	horas := sim.DefaultHorasTurno
	if p.HorasTurno != nil {
		horas = *p.HorasTurno
	}

	applied := make([]dto.OverrideRequest, 0, len(p.Overrides))
	for _, ov := range p.Overrides {
		applied = append(applied, overrideSimToDTO(ov))
	}

	return dto.SimulacionMeta{
		RunID:            uuid.New(),
		DiasLaborales:    dias,
		HorasTurnoGlobal: horas,
		CenterConfigs:    configsSimToDTO(p.CenterConfigs),
		AppliedOverrides: applied,
	}
}

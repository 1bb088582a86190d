package service

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/dto"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/model"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/sim"
)

// Conversions between the three override representations: request DTOs at the
// boundary, gorm entities in the store, and the resolver's typed struct.

func overrideReqToSim(o dto.OverrideRequest) sim.Override {
	return sim.Override{
		Articulo:       o.Articulo,
		Centro:         o.Centro,
		OEE:            o.OEEOverride,
		PPM:            o.PPMOverride,
		Demanda:        o.DemandaOverride,
		NuevoCentro:    o.NuevoCentro,
		HorasTurno:     o.HorasTurnoOverride,
		PersonnelRatio: o.PersonnelRatioOverride,
		SetupTime:      o.SetupTimeOverride,
	}
}

func overrideModelToSim(o model.EscenarioOverride) sim.Override {
	return sim.Override{
		Articulo:       o.Articulo,
		Centro:         o.Centro,
		OEE:            o.OEEOverride,
		PPM:            o.PPMOverride,
		Demanda:        o.DemandaOverride,
		NuevoCentro:    o.NuevoCentro,
		HorasTurno:     o.HorasTurnoOverride,
		PersonnelRatio: o.PersonnelRatioOverride,
		SetupTime:      o.SetupTimeOverride,
	}
}

func overrideSimToDTO(o sim.Override) dto.OverrideRequest {
	return dto.OverrideRequest{
		Articulo:               o.Articulo,
		Centro:                 o.Centro,
		OEEOverride:            o.OEE,
		PPMOverride:            o.PPM,
		DemandaOverride:        o.Demanda,
		NuevoCentro:            o.NuevoCentro,
		HorasTurnoOverride:     o.HorasTurno,
		PersonnelRatioOverride: o.PersonnelRatio,
		SetupTimeOverride:      o.SetupTime,
	}
}

func overrideReqToModel(o dto.OverrideRequest) model.EscenarioOverride {
	return model.EscenarioOverride{
		Articulo:               o.Articulo,
		Centro:                 o.Centro,
		OEEOverride:            o.OEEOverride,
		PPMOverride:            o.PPMOverride,
		DemandaOverride:        o.DemandaOverride,
		NuevoCentro:            o.NuevoCentro,
		HorasTurnoOverride:     o.HorasTurnoOverride,
		PersonnelRatioOverride: o.PersonnelRatioOverride,
		SetupTimeOverride:      o.SetupTimeOverride,
	}
}

func overrideModelToDTO(o model.EscenarioOverride) dto.OverrideRequest {
	return dto.OverrideRequest{
		Articulo:               o.Articulo,
		Centro:                 o.Centro,
		OEEOverride:            o.OEEOverride,
		PPMOverride:            o.PPMOverride,
		DemandaOverride:        o.DemandaOverride,
		NuevoCentro:            o.NuevoCentro,
		HorasTurnoOverride:     o.HorasTurnoOverride,
		PersonnelRatioOverride: o.PersonnelRatioOverride,
		SetupTimeOverride:      o.SetupTimeOverride,
	}
}

func configsReqToSim(configs map[string]dto.CenterConfigRequest) map[string]sim.CenterConfig {
	if len(configs) == 0 {
		return nil
	}
	out := make(map[string]sim.CenterConfig, len(configs))
	for centro, c := range configs {
		out[centro] = sim.CenterConfig{Shifts: c.Shifts, PersonnelRatio: c.PersonnelRatio}
	}
	return out
}

func configsSimToDTO(configs map[string]sim.CenterConfig) map[string]dto.CenterConfigRequest {
	out := make(map[string]dto.CenterConfigRequest, len(configs))
	for centro, c := range configs {
		out[centro] = dto.CenterConfigRequest{Shifts: c.Shifts, PersonnelRatio: c.PersonnelRatio}
	}
	return out
}

// decodeCenterConfigs tolera una columna vacía o nula.
func decodeCenterConfigs(raw datatypes.JSON) (map[string]sim.CenterConfig, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var configs map[string]sim.CenterConfig
	if err := json.Unmarshal(raw, &configs); err != nil {
		return nil, err
	}
	return configs, nil
}

func encodeCenterConfigs(configs map[string]dto.CenterConfigRequest) (datatypes.JSON, error) {
	if len(configs) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(configs)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

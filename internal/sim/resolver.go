package sim

// CenterConfig es una configuración a nivel de centro: afecta a todas las
// filas de ese centro, sea cual sea el artículo. Shifts se aplica como horas
// de turno de la fila; PersonnelRatio como su Ratio MOD.
type CenterConfig struct {
	Shifts         *float64 `json:"shifts"`
	PersonnelRatio *float64 `json:"personnel_ratio"`
}

// Override es una desviación para un par (articulo, centro). Solo los campos
// presentes (no nil) sustituyen el valor de las filas que casan; el resto
// queda intacto.
type Override struct {
	Articulo       string   `json:"articulo"`
	Centro         string   `json:"centro"`
	OEE            *float64 `json:"oee_override"`
	PPM            *float64 `json:"ppm_override"`
	Demanda        *float64 `json:"demanda_override"`
	NuevoCentro    *string  `json:"new_centro"`
	HorasTurno     *float64 `json:"horas_turno_override"`
	PersonnelRatio *float64 `json:"personnel_ratio_override"`
	SetupTime      *float64 `json:"setup_time_override"`
}

// Params son los parámetros escalares y overrides de una pasada de resolución.
type Params struct {
	DiasLaborales *int
	HorasTurno    *float64
	CenterConfigs map[string]CenterConfig
	Overrides     []Override
}

// Resolve produce una copia de las filas base con los overrides aplicados.
// Nunca muta base: el dataset cargado se comparte entre evaluaciones
// concurrentes.
//
// Precedencia, de menor a mayor:
//  1. defaults globales (dias laborales, horas de turno)
//  2. CenterConfig, casando por centro antes de cualquier reasignación
//  3. Overrides en orden de lista: el último para un mismo par gana
//
// Los overrides casan por (articulo, centro *original*); un new_centro
// reasigna la fila para la agregación posterior pero no cambia contra qué
// centro casan los overrides restantes.
func Resolve(base []Row, p Params) []Row {
	rows := make([]Row, len(base))
	copy(rows, base)

	horas := DefaultHorasTurno
	if p.HorasTurno != nil {
		horas = *p.HorasTurno
	}
	for i := range rows {
		rows[i].HorasTurno = horas
		if p.DiasLaborales != nil {
			rows[i].DiasLaborales = float64(*p.DiasLaborales)
		}
	}

	for i := range rows {
		cfg, ok := p.CenterConfigs[rows[i].Centro]
		if !ok {
			continue
		}
		if cfg.Shifts != nil {
			rows[i].HorasTurno = *cfg.Shifts
		}
		if cfg.PersonnelRatio != nil {
			rows[i].RatioMOD = *cfg.PersonnelRatio
		}
	}

	for _, ov := range p.Overrides {
		for i := range rows {
			if rows[i].Articulo != ov.Articulo || rows[i].CentroOriginal != ov.Centro {
				continue
			}
			applyOverride(&rows[i], ov)
		}
	}
	return rows
}

func applyOverride(r *Row, ov Override) {
	if ov.OEE != nil {
		r.OEE = *ov.OEE
	}
	if ov.PPM != nil {
		r.PiezasPorMinuto = *ov.PPM
	}
	if ov.Demanda != nil {
		r.VolumenAnual = *ov.Demanda
	}
	if ov.NuevoCentro != nil {
		r.Centro = *ov.NuevoCentro
	}
	if ov.HorasTurno != nil {
		r.HorasTurno = *ov.HorasTurno
	}
	if ov.PersonnelRatio != nil {
		r.RatioMOD = *ov.PersonnelRatio
	}
	if ov.SetupTime != nil {
		r.SetupHoras = *ov.SetupTime
	}
}

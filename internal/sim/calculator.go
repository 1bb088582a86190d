package sim

import (
	"math"
	"sort"
)

// Calculate añade los campos derivados de capacidad y saturación. Pura y
// determinista: no toca rows, devuelve una copia anotada.
//
// diasLaborales, si no es nil, fuerza los días laborales de todas las filas;
// horasTurnoDefault solo rellena filas sin horas de turno propias.
//
// Política numérica: datos sucios nunca rompen el cálculo. Toda división por
// cero, Inf o NaN se sustituye por 0: una fila sin datos de throughput
// aporta carga cero en vez de tumbar la simulación entera.
func Calculate(rows []Row, diasLaborales *int, horasTurnoDefault float64) []Row {
	out := make([]Row, len(rows))
	copy(out, rows)

	for i := range out {
		r := &out[i]
		if diasLaborales != nil {
			r.DiasLaborales = float64(*diasLaborales)
		} else if r.DiasLaborales <= 0 {
			r.DiasLaborales = DefaultDiasLaborales
		}
		if r.HorasTurno <= 0 {
			r.HorasTurno = horasTurnoDefault
		}

		r.PiezasPorHora = r.PiezasPorMinuto * 60
		oee := normalizeOEE(r.OEE)
		r.HorasProduccion = safeDiv(r.VolumenAnual, r.PiezasPorHora*oee)
		r.HorasTotales = r.HorasProduccion + r.SetupHoras
		r.HorasHombre = r.HorasProduccion*r.RatioMOD + r.SetupHoras
		r.CapacidadAnualH = r.DiasLaborales * r.HorasTurno
		r.Saturacion = safeDiv(r.HorasTotales, r.CapacidadAnualH)
	}

	var totalHoras float64
	for i := range out {
		totalHoras += out[i].HorasTotales
	}
	for i := range out {
		if totalHoras > 0 {
			out[i].Impacto = out[i].HorasTotales / totalHoras
		} else {
			out[i].Impacto = 0
		}
	}
	return out
}

// normalizeOEE unifica las dos representaciones que mezcla la fuente: 0.85 y
// 85. El umbral es 1.1 y no 1.0 para no reclasificar una línea legítimamente
// por encima del 100% registrada como 1.05.
func normalizeOEE(v float64) float64 {
	if v > 1.1 {
		return v / 100.0
	}
	return v
}

func safeDiv(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	v := num / den
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// CenterSummary es la agregación por centro de trabajo.
type CenterSummary struct {
	Centro       string  `json:"centro"`
	Saturacion   float64 `json:"saturacion"`
	VolumenAnual float64 `json:"volumen_anual"`
	HorasTotales float64 `json:"horas_totales"`
	HorasHombre  float64 `json:"horas_hombre"`
	NumArticulos int     `json:"num_articulos"`
}

// Summarize agrupa por el centro efectivo de cada fila (el reasignado, si un
// new_centro la movió) y ordena por centro para salida determinista.
// NumArticulos cuenta artículos distintos, no filas.
func Summarize(rows []Row) []CenterSummary {
	agg := make(map[string]*CenterSummary)
	articulos := make(map[string]map[string]struct{})

	for i := range rows {
		r := &rows[i]
		s, ok := agg[r.Centro]
		if !ok {
			s = &CenterSummary{Centro: r.Centro}
			agg[r.Centro] = s
			articulos[r.Centro] = make(map[string]struct{})
		}
		s.Saturacion += r.Saturacion
		s.VolumenAnual += r.VolumenAnual
		s.HorasTotales += r.HorasTotales
		s.HorasHombre += r.HorasHombre
		articulos[r.Centro][r.Articulo] = struct{}{}
	}

	out := make([]CenterSummary, 0, len(agg))
	for centro, s := range agg {
		s.NumArticulos = len(articulos[centro])
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Centro < out[j].Centro })
	return out
}

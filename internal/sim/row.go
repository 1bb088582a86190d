// Package sim contains the saturation engine: row normalization, override
// resolution and the capacity/saturation calculator. Everything here is pure
// computation over in-memory rows; persistence and I/O live elsewhere.
package sim

import (
	"math"
	"strconv"
	"strings"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/dataset"
)

// Global simulation defaults.
const (
	DefaultDiasLaborales = 238
	DefaultHorasTurno    = 16.0
)

// Row es un artículo fabricado en un centro de trabajo, con sus campos base y
// los derivados que añade el calculador. CentroOriginal conserva el centro de
// carga: los overrides casan contra él aunque un new_centro reasigne la fila.
type Row struct {
	Articulo        string  `json:"articulo"`
	Centro          string  `json:"centro"`
	CentroOriginal  string  `json:"centro_original"`
	VolumenAnual    float64 `json:"volumen_anual"`
	PiezasPorMinuto float64 `json:"piezas_por_minuto"`
	OEE             float64 `json:"oee"`
	SetupHoras      float64 `json:"setup_h"`
	RatioMOD        float64 `json:"ratio_mod"`
	HorasTurno      float64 `json:"horas_turno"`
	DiasLaborales   float64 `json:"dias_laborales"`

	// Derived by Calculate, never stored.
	PiezasPorHora   float64 `json:"piezas_por_hora"`
	HorasProduccion float64 `json:"horas_produccion"`
	HorasTotales    float64 `json:"horas_totales"`
	HorasHombre     float64 `json:"horas_hombre"`
	CapacidadAnualH float64 `json:"capacidad_anual_h"`
	Saturacion      float64 `json:"saturacion"`
	Impacto         float64 `json:"impacto"`
}

// Column names of the master table. Setup and MOD-ratio have historical
// alternates in the source workbook; the first present column wins.
const (
	colArticulo      = "Articulo"
	colCentro        = "Centro"
	colVolumenAnual  = "Volumen anual"
	colPiezasPorMin  = "Piezas por minuto"
	colOEE           = "%OEE"
	colDiasLaborales = "dias laborales 2026"
)

var (
	setupCols = []string{"Setup (h)", "Setup", "Preparacion", "Tiempo Preparacion"}
	ratioCols = []string{"Ratio_MOD", "Ratio MOD", "Ratio Persona Maquina", "Ratio Persona Articulo", "MOD"}
)

// NormalizeRows coerces raw provider rows into the canonical shape. Numeric
// garbage never falla: cada campo cae a su default. Filas sin centro real
// ("nan", "none", vacío) se descartan antes de cualquier cálculo.
func NormalizeRows(raw []dataset.RawRow) []Row {
	rows := make([]Row, 0, len(raw))
	for _, r := range raw {
		centro := cleanID(r[colCentro])
		if isPlaceholder(centro) {
			continue
		}
		rows = append(rows, Row{
			Articulo:        cleanID(r[colArticulo]),
			Centro:          centro,
			CentroOriginal:  centro,
			VolumenAnual:    parseNum(r[colVolumenAnual], 0),
			PiezasPorMinuto: parseNum(r[colPiezasPorMin], 0),
			OEE:             parseNum(r[colOEE], 0),
			SetupHoras:      firstPresent(r, setupCols, 0),
			RatioMOD:        firstPresent(r, ratioCols, 1.0),
			DiasLaborales:   parseNum(r[colDiasLaborales], DefaultDiasLaborales),
		})
	}
	return rows
}

// firstPresent scans the alternate column names in priority order and parses
// the first one present; if none exists the default stands.
func firstPresent(r dataset.RawRow, cols []string, def float64) float64 {
	for _, col := range cols {
		if v, ok := r[col]; ok {
			return parseNum(v, def)
		}
	}
	return def
}

// parseNum tolerates dirty source data: empty, non-numeric, NaN and Inf all
// fall back to def. Comma decimal separators are accepted.
func parseNum(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

// cleanID normaliza un identificador: trim y sin el ".0" final que dejan los
// ids numéricos de la fuente.
func cleanID(s string) string {
	return strings.TrimSuffix(strings.TrimSpace(s), ".0")
}

func isPlaceholder(centro string) bool {
	switch strings.ToLower(centro) {
	case "", "nan", "none":
		return true
	}
	return false
}

package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/sim"
)

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func basePar() []sim.Row {
	a := filaBase()
	b := filaBase()
	b.Articulo = "B2"
	return []sim.Row{a, b}
}

func TestResolveNoMutaLaBase(t *testing.T) {
	base := basePar()
	_ = sim.Resolve(base, sim.Params{
		HorasTurno: fptr(8),
		Overrides:  []sim.Override{{Articulo: "A1", Centro: "100", Demanda: fptr(1)}},
	})
	assert.Equal(t, 120000.0, base[0].VolumenAnual)
	assert.Equal(t, 0.0, base[0].HorasTurno)
}

func TestResolveHorasTurnoGlobal(t *testing.T) {
	out := sim.Resolve(basePar(), sim.Params{})
	for _, r := range out {
		assert.Equal(t, sim.DefaultHorasTurno, r.HorasTurno)
	}
}

func TestResolvePrecedenciaCenterConfigVsOverride(t *testing.T) {
	out := sim.Resolve(basePar(), sim.Params{
		CenterConfigs: map[string]sim.CenterConfig{
			"100": {Shifts: fptr(8)},
		},
		Overrides: []sim.Override{
			{Articulo: "A1", Centro: "100", HorasTurno: fptr(12)},
		},
	})
	require.Len(t, out, 2)
	// El override por par gana en A1; el resto del centro conserva el config.
	assert.Equal(t, 12.0, out[0].HorasTurno)
	assert.Equal(t, 8.0, out[1].HorasTurno)
}

func TestResolveCenterConfigPersonnelRatio(t *testing.T) {
	out := sim.Resolve(basePar(), sim.Params{
		CenterConfigs: map[string]sim.CenterConfig{
			"100": {PersonnelRatio: fptr(2.5)},
		},
	})
	for _, r := range out {
		assert.Equal(t, 2.5, r.RatioMOD)
	}
}

func TestResolveUltimoOverrideGana(t *testing.T) {
	out := sim.Resolve(basePar(), sim.Params{
		Overrides: []sim.Override{
			{Articulo: "A1", Centro: "100", OEE: fptr(0.5)},
			{Articulo: "A1", Centro: "100", OEE: fptr(0.9)},
		},
	})
	assert.Equal(t, 0.9, out[0].OEE)
}

func TestResolveCamposAusentesIntactos(t *testing.T) {
	out := sim.Resolve(basePar(), sim.Params{
		Overrides: []sim.Override{
			{Articulo: "A1", Centro: "100", PPM: fptr(20)},
		},
	})
	assert.Equal(t, 20.0, out[0].PiezasPorMinuto)
	assert.Equal(t, 0.8, out[0].OEE)
	assert.Equal(t, 120000.0, out[0].VolumenAnual)
}

func TestResolveAfectaTodasLasFilasDelPar(t *testing.T) {
	// Un artículo repartido en dos filas del mismo centro: el override aplica
	// a ambas.
	base := []sim.Row{filaBase(), filaBase()}
	out := sim.Resolve(base, sim.Params{
		Overrides: []sim.Override{{Articulo: "A1", Centro: "100", Demanda: fptr(50)}},
	})
	assert.Equal(t, 50.0, out[0].VolumenAnual)
	assert.Equal(t, 50.0, out[1].VolumenAnual)
}

func TestResolveNuevoCentroReasigna(t *testing.T) {
	out := sim.Resolve(basePar(), sim.Params{
		Overrides: []sim.Override{
			{Articulo: "A1", Centro: "100", NuevoCentro: sptr("200")},
		},
	})
	assert.Equal(t, "200", out[0].Centro)
	assert.Equal(t, "100", out[0].CentroOriginal)

	// La agregación posterior agrupa bajo el centro nuevo.
	summary := sim.Summarize(sim.Calculate(out, nil, sim.DefaultHorasTurno))
	require.Len(t, summary, 2)
	assert.Equal(t, "100", summary[0].Centro)
	assert.Equal(t, "200", summary[1].Centro)
	assert.Equal(t, 1, summary[1].NumArticulos)
}

func TestResolveReasignacionEncadenadaNoCasa(t *testing.T) {
	// Los overrides casan por centro *original*: mover A1 de 100 a 200 no
	// hace que un override posterior con clave (A1, 200) alcance la fila.
	out := sim.Resolve(basePar(), sim.Params{
		Overrides: []sim.Override{
			{Articulo: "A1", Centro: "100", NuevoCentro: sptr("200")},
			{Articulo: "A1", Centro: "200", OEE: fptr(0.1)},
		},
	})
	assert.Equal(t, "200", out[0].Centro)
	assert.Equal(t, 0.8, out[0].OEE)
}

func TestResolveCenterConfigAntesDeReasignacion(t *testing.T) {
	// El config del centro destino no alcanza a una fila reasignada: los
	// CenterConfigs se aplican antes que cualquier new_centro.
	out := sim.Resolve(basePar(), sim.Params{
		CenterConfigs: map[string]sim.CenterConfig{
			"200": {Shifts: fptr(4)},
		},
		Overrides: []sim.Override{
			{Articulo: "A1", Centro: "100", NuevoCentro: sptr("200")},
		},
	})
	assert.Equal(t, "200", out[0].Centro)
	assert.Equal(t, sim.DefaultHorasTurno, out[0].HorasTurno)
}

func TestResolveSinOverridesEsIdentidadParaElCalculo(t *testing.T) {
	base := basePar()
	directo := sim.Calculate(base, nil, sim.DefaultHorasTurno)
	viaResolver := sim.Calculate(sim.Resolve(base, sim.Params{}), nil, sim.DefaultHorasTurno)
	assert.Equal(t, directo, viaResolver)
}

func TestResolveDemandaDuplicaHoras(t *testing.T) {
	out := sim.Calculate(sim.Resolve(basePar(), sim.Params{
		Overrides: []sim.Override{
			{Articulo: "A1", Centro: "100", Demanda: fptr(240000)},
		},
	}), nil, sim.DefaultHorasTurno)

	assert.InDelta(t, 500.0, out[0].HorasProduccion, 1e-9)
	assert.InDelta(t, 0.1326, out[0].Saturacion, 1e-3)
	// La otra fila no se toca.
	assert.InDelta(t, 250.0, out[1].HorasProduccion, 1e-9)
}

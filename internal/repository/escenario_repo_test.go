//go:build integration

package repository_test

// Integration tests for the scenario repository against a real Postgres via
// testcontainers. Run with: go test -tags integration ./internal/repository/... -v

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/apierror"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/infra"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/model"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/repository"
)

func setupDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		tcPostgres.WithDatabase("nexus_test"),
		tcPostgres.WithUsername("nexus"),
		tcPostgres.WithPassword("nexus"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).WithStartupTimeout(2*time.Minute)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, infra.RunMigrations(db))
	return db
}

func f64ptr(v float64) *float64 { return &v }

func escenarioDePrueba(nombre string) *model.Escenario {
	return &model.Escenario{
		Nombre:           nombre,
		Descripcion:      "integración",
		DiasLaborales:    238,
		HorasTurnoGlobal: 16,
		Overrides: []model.EscenarioOverride{
			{Articulo: "A1", Centro: "100", OEEOverride: f64ptr(0.9)},
			{Articulo: "B2", Centro: "200", DemandaOverride: f64ptr(50000)},
		},
	}
}

func TestEscenarioRepoCicloCompleto(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEscenarioRepository(db)
	ctx := context.Background()

	esc := escenarioDePrueba("Integración 1")
	require.NoError(t, repo.Crear(ctx, esc))
	require.NotEqual(t, uuid.Nil, esc.ID)

	// Lectura con overrides en orden de lista.
	leido, err := repo.BuscarPorID(ctx, esc.ID)
	require.NoError(t, err)
	require.Len(t, leido.Overrides, 2)
	assert.Equal(t, "A1", leido.Overrides[0].Articulo)
	assert.Equal(t, 0, leido.Overrides[0].Posicion)
	assert.Equal(t, "B2", leido.Overrides[1].Articulo)

	// El create dejó una entrada de historial.
	historial, err := repo.Historial(ctx, esc.ID)
	require.NoError(t, err)
	require.Len(t, historial, 1)
	assert.Equal(t, 2, historial[0].ChangesCount)
	assert.NotEmpty(t, historial[0].DetallesSnapshot)
}

func TestEscenarioRepoNombreDuplicado(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEscenarioRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Crear(ctx, escenarioDePrueba("Duplicado")))

	err := repo.Crear(ctx, escenarioDePrueba("Duplicado"))
	var cf *apierror.ConflictError
	require.True(t, errors.As(err, &cf))
	assert.Contains(t, cf.Error(), "Duplicado")
}

func TestEscenarioRepoReemplazar(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEscenarioRepository(db)
	ctx := context.Background()

	esc := escenarioDePrueba("Antes")
	require.NoError(t, repo.Crear(ctx, esc))

	nuevo := &model.Escenario{
		ID:               esc.ID,
		Nombre:           "Después",
		DiasLaborales:    200,
		HorasTurnoGlobal: 8,
		Overrides: []model.EscenarioOverride{
			{Articulo: "C3", Centro: "300", PPMOverride: f64ptr(12)},
		},
	}
	require.NoError(t, repo.Reemplazar(ctx, nuevo))

	leido, err := repo.BuscarPorID(ctx, esc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Después", leido.Nombre)
	assert.Equal(t, 200, leido.DiasLaborales)
	require.Len(t, leido.Overrides, 1)
	assert.Equal(t, "C3", leido.Overrides[0].Articulo)

	// Historial append-only: create + replace, más reciente primero.
	historial, err := repo.Historial(ctx, esc.ID)
	require.NoError(t, err)
	require.Len(t, historial, 2)
	assert.Equal(t, "Después", historial[0].Nombre)
	assert.Equal(t, 1, historial[0].ChangesCount)
	assert.Equal(t, "Antes", historial[1].Nombre)
}

func TestEscenarioRepoReemplazarRenameColisiona(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEscenarioRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Crear(ctx, escenarioDePrueba("A")))
	b := escenarioDePrueba("B")
	require.NoError(t, repo.Crear(ctx, b))

	b.Nombre = "A"
	err := repo.Reemplazar(ctx, b)
	var cf *apierror.ConflictError
	require.True(t, errors.As(err, &cf))
}

func TestEscenarioRepoEliminarCascada(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEscenarioRepository(db)
	ctx := context.Background()

	esc := escenarioDePrueba("Borrable")
	require.NoError(t, repo.Crear(ctx, esc))
	require.NoError(t, repo.Eliminar(ctx, esc.ID))

	_, err := repo.BuscarPorID(ctx, esc.ID)
	var nf *apierror.NotFoundError
	require.True(t, errors.As(err, &nf))

	// Sin huérfanos: ni overrides ni historial.
	var nOverrides, nHistorial int64
	require.NoError(t, db.Model(&model.EscenarioOverride{}).
		Where("escenario_id = ?", esc.ID).Count(&nOverrides).Error)
	require.NoError(t, db.Model(&model.EscenarioHistorial{}).
		Where("escenario_id = ?", esc.ID).Count(&nHistorial).Error)
	assert.Zero(t, nOverrides)
	assert.Zero(t, nHistorial)

	err = repo.Eliminar(ctx, esc.ID)
	require.True(t, errors.As(err, &nf))
}

func TestEscenarioRepoHistorialOrdenDescendente(t *testing.T) {
	db := setupDB(t)
	repo := repository.NewEscenarioRepository(db)
	ctx := context.Background()

	esc := escenarioDePrueba("Historico")
	require.NoError(t, repo.Crear(ctx, esc))

	esc.Nombre = "Historico v2"
	require.NoError(t, repo.Reemplazar(ctx, esc))
	esc.Nombre = "Historico v3"
	require.NoError(t, repo.Reemplazar(ctx, esc))

	historial, err := repo.Historial(ctx, esc.ID)
	require.NoError(t, err)
	require.Len(t, historial, 3)
	for i := 1; i < len(historial); i++ {
		assert.False(t, historial[i].Timestamp.After(historial[i-1].Timestamp))
	}
	assert.Equal(t, "Historico v3", historial[0].Nombre)
}

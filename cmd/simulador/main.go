package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/apierror"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/config"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/dataset"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/dto"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/infra"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/repository"
	"github.com/keepertrading90/RPK-NEXUS-Plan-Maestro/internal/service"
)

// simulador ejecuta una pasada de simulación (base o de un escenario
// guardado) y escribe el resultado JSON en stdout. La capa de transporte
// propiamente dicha vive fuera de este repositorio.
func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	escenarioID := flag.String("escenario", "", "id del escenario a simular (vacío = escenario base)")
	dias := flag.Int("dias", 0, "override de días laborales (0 = sin override)")
	horas := flag.Float64("horas", 0, "override de horas de turno (0 = sin override)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	// Provider chain: CSV → caché en memoria con chequeo de mtime → capa
	// read-through en redis si hay redis disponible.
	var provider dataset.Provider = dataset.NewCachedProvider(
		dataset.NewCSVProvider(cfg.MaestroCSVPath), cfg.MaestroCSVPath)
	if cfg.RedisURL != "" {
		rdb, err := infra.NewRedis(cfg.RedisURL)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, se sigue sin caché compartida")
		} else {
			ttl := time.Duration(cfg.DatasetCacheTTLMin) * time.Minute
			provider = dataset.NewRedisProvider(provider, rdb, ttl)
		}
	}

	repo := repository.NewEscenarioRepository(db)
	simulacion := service.NewSimulacionService(provider, repo)

	params := dto.SimulacionParams{}
	if *dias > 0 {
		params.DiasLaborales = dias
	}
	if *horas > 0 {
		params.HorasTurno = horas
	}

	ctx := context.Background()
	var resp *dto.SimulacionResponse
	if *escenarioID != "" {
		id, err := uuid.Parse(*escenarioID)
		if err != nil {
			log.Fatal().Err(err).Msg("id de escenario inválido")
		}
		resp, err = simulacion.SimularEscenario(ctx, id, params)
		if err != nil {
			salir(err, "simulación de escenario fallida")
		}
	} else {
		resp, err = simulacion.SimularBase(ctx, params)
		if err != nil {
			salir(err, "simulación base fallida")
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		log.Fatal().Err(err).Msg("no se pudo serializar el resultado")
	}
}

// salir registra el error y emite el envelope canónico por stderr antes de
// terminar con código de error. Errores no tipados salen como "error interno"
// sin filtrar detalles.
func salir(err error, msg string) {
	log.Error().Err(err).Msg(msg)
	_ = json.NewEncoder(os.Stderr).Encode(apierror.From(err))
	os.Exit(1)
}

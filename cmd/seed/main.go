// seed carga registros (sedes, personas, materiales) y lotes iniciales en PostgreSQL
// desde un archivo JSON de fixtures, en una sola transacción.
//
// Uso: go run ./cmd/seed [ruta/fixtures.json] [charset]
// Por defecto busca fixtures.json en el directorio actual. charset admite "latin1" para
// archivos exportados en ISO-8859-1; si no se indica se asume UTF-8.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jhoicas/Almacen-api/internal/application/inventory"
	"github.com/jhoicas/Almacen-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Almacen-api/pkg/config"
	"github.com/jhoicas/Almacen-api/pkg/logger"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	path := "fixtures.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	charset := ""
	if len(os.Args) > 2 {
		charset = os.Args[2]
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("abrir fixtures")
	}
	defer f.Close()

	fixtures, err := inventory.DecodeFixtures(decoder(f, charset))
	if err != nil {
		log.Fatal().Err(err).Msg("decodificar fixtures")
	}

	if err := postgres.Migrate(cfg.DB.ConnectionString(), log); err != nil {
		log.Fatal().Err(err).Msg("migraciones")
	}
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if err := inventory.LoadFixtures(ctx, postgres.NewTxRunner(pool), fixtures); err != nil {
		log.Fatal().Err(err).Msg("cargar fixtures")
	}
	log.Info().
		Int("sites", len(fixtures.Sites)).
		Int("persons", len(fixtures.Persons)).
		Int("materials", len(fixtures.Materials)).
		Int("lots", len(fixtures.Lots)).
		Msg("fixtures cargados")
}

func decoder(r io.Reader, charset string) io.Reader {
	switch strings.ToLower(charset) {
	case "latin1", "iso-8859-1", "iso8859-1":
		return transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	return r
}

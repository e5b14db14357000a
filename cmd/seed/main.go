package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database/postgres"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database/sqlite"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/repository"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/seeding"
	"github.com/vfg2006/ads-report-dispatcher/pkg/log"
	"github.com/vfg2006/ads-report-dispatcher/pkg/secret"
)

// Carrega credenciais e relatórios a partir de um arquivo JSON:
//
//	go run ./cmd/seed -file seed.json
func main() {
	file := flag.String("file", "seed.json", "arquivo JSON com credenciais e relatórios")
	flag.Parse()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}
	log.Configure(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	ctx, _ = log.WithCorrelationID(ctx)

	f, err := os.Open(*file)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao abrir arquivo de carga")
	}
	defer f.Close()

	fixture, err := seeding.Load(f)
	if err != nil {
		logrus.Fatal(err)
	}

	var conn database.Conn
	switch cfg.Database.Driver {
	case config.DatabaseDriverSQLite:
		conn, err = sqlite.NewConnection(ctx, cfg.Database)
	default:
		conn, err = postgres.NewConnection(ctx, cfg.Database)
	}
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao banco de dados")
	}
	defer conn.Close()

	if err := conn.Migrate(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migrações")
	}

	service := seeding.NewService(
		repository.NewCredentialRepository(conn, secret.NewSealer(cfg.SecretKey)),
		repository.NewReportRepository(conn),
	)

	summary, err := service.Apply(ctx, fixture)
	for _, rejected := range summary.Rejected {
		logrus.Warn(rejected)
	}
	if err != nil {
		logrus.WithError(err).Fatal("Carga interrompida")
	}
}

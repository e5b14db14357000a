package main

import (
	"context"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database/postgres"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/database/sqlite"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/googleads"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/googleads/adsclient"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/meta"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/integrator/meta/metaclient"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/messenger"
	"github.com/vfg2006/ads-report-dispatcher/infrastructure/repository"
	"github.com/vfg2006/ads-report-dispatcher/internal/api"
	"github.com/vfg2006/ads-report-dispatcher/internal/config"
	"github.com/vfg2006/ads-report-dispatcher/internal/scheduler"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/connecting"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/refreshing"
	"github.com/vfg2006/ads-report-dispatcher/internal/usecases/reporting"
	"github.com/vfg2006/ads-report-dispatcher/pkg/log"
	"github.com/vfg2006/ads-report-dispatcher/pkg/secret"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	log.Configure(cfg.App.LogLevel, cfg.App.LogFormat)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	conn := dbconn(ctx, cfg.Database)
	defer conn.Close()

	sealer := secret.NewSealer(cfg.SecretKey)
	if cfg.SecretKey == "" {
		logrus.Warn("SECRET_KEY não configurada, tokens serão gravados sem criptografia")
	}

	credentialRepo := repository.NewCredentialRepository(conn, sealer)
	reportRepo := repository.NewReportRepository(conn)
	sendLogRepo := repository.NewSendLogRepository(conn)

	httpClient := &http.Client{Timeout: cfg.ReportDispatch.CallTimeout}

	metaIntegrator := meta.New(metaclient.NewClient(cfg.Meta, httpClient))
	googleAdsIntegrator := googleads.New(
		adsclient.NewClient(cfg.GoogleAds, httpClient),
		adsclient.NewTokenRefresher(cfg.GoogleAds, httpClient),
	)

	guard := refreshing.NewService(credentialRepo, cfg.ReportDispatch.CallTimeout, metaIntegrator, googleAdsIntegrator)

	sender, closeSender, err := messenger.NewFromConfig(ctx, cfg.Delivery, httpClient)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao configurar o envio de mensagens")
	}
	defer closeSender()

	reportService := reporting.NewService(guard, sender, cfg.ReportDispatch, metaIntegrator, googleAdsIntegrator)
	connector := connecting.NewService(credentialRepo, guard, cfg.ReportDispatch.CallTimeout, metaIntegrator, googleAdsIntegrator)

	dispatchService := scheduler.NewReportDispatchService(reportRepo, sendLogRepo, reportService, cfg.ReportDispatch)
	if err := dispatchService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de despacho de relatórios")
	} else {
		logrus.Info("Agendador de despacho de relatórios iniciado com sucesso")
	}
	defer dispatchService.Stop()

	server, err := api.New(cfg, api.Dependencies{
		Database:   conn,
		Dispatcher: dispatchService,
		Connector:  connector,
		SendLog:    sendLogRepo,
	})
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// dbconn abre o banco configurado e aplica as migrações
func dbconn(ctx context.Context, dbConfig config.Database) database.Conn {
	var (
		conn database.Conn
		err  error
	)

	switch dbConfig.Driver {
	case config.DatabaseDriverSQLite:
		conn, err = sqlite.NewConnection(ctx, dbConfig)
	default:
		conn, err = postgres.NewConnection(ctx, dbConfig)
	}
	if err != nil {
		logrus.WithError(err).WithField("driver", dbConfig.Driver).Fatal("Erro ao conectar ao banco de dados")
	}

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := conn.Migrate(migrateCtx); err != nil {
		logrus.WithError(err).Fatal("Erro ao aplicar migrações")
	}

	logrus.WithField("driver", dbConfig.Driver).Info("Conexão com o banco estabelecida com sucesso")
	return conn
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/smartlib/library-service/config"
	"github.com/smartlib/library-service/internal/handler"
	"github.com/smartlib/library-service/internal/repository"
	"github.com/smartlib/library-service/internal/server"
	"github.com/smartlib/library-service/internal/service"
	"github.com/smartlib/library-service/internal/session"
	"github.com/smartlib/library-service/migrations"
	"github.com/smartlib/library-service/pkg/kafka"
	"github.com/smartlib/library-service/pkg/logger"
	"github.com/smartlib/library-service/pkg/postgres"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "library")
	db, err := postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		return fmt.Errorf("db init %w", err)
	}
	defer db.Close()
	repo, err := repository.NewRepository(db, log)
	if err != nil {
		return fmt.Errorf("repo init %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()
	g, ctx := errgroup.WithContext(ctx)

	logsSvc := service.NewLogs(repo, log)

	// the audit sink goes through kafka when brokers are configured,
	// otherwise straight to the system_logs table
	var sink service.Sink = service.NewStoreSink(repo)
	if cfg.Kafka.Enabled {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka.NewProducer %w", err)
		}
		defer producer.Close() //nolint:errcheck
		sink = service.NewKafkaSink(producer)

		consumer, err := kafka.NewConsumer(cfg.Kafka, kafka.AuditConsumerGroup)
		if err != nil {
			return fmt.Errorf("kafka.NewConsumer %w", err)
		}
		defer consumer.Close() //nolint:errcheck
		g.Go(func() error {
			if err := kafka.Consume(ctx, consumer, handler.NewConsumer(logsSvc.Persist, log), kafka.AuditTopic); err != nil && ctx.Err() == nil {
				return fmt.Errorf("kafka consume %w", err)
			}
			return nil
		})
	}

	settingsSvc := service.NewSettings(repo, sink, log)
	borrowingSvc := service.NewBorrowing(repo, repo, settingsSvc, sink, log)
	catalogSvc := service.NewCatalog(repo, sink, log)
	sessions := session.NewMemoryStore(cfg.SessionTTL)

	h := handler.New(borrowingSvc, catalogSvc, logsSvc, settingsSvc, sessions, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	g.Go(func() error {
		if err := srv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server run %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		log.Debug("Graceful shutdown")

		closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
		defer cancel()
		return srv.Stop(closeCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("Graceful shutdown finished")
	return nil
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/uniforum/uniforum/internal/api"
	"github.com/uniforum/uniforum/internal/app"
	iauth "github.com/uniforum/uniforum/internal/auth"
	"github.com/uniforum/uniforum/internal/database"
	"github.com/uniforum/uniforum/internal/services"
	"github.com/uniforum/uniforum/pkg/logger"
	"github.com/uniforum/uniforum/pkg/mail"
)

const (
	defaultRateLimit  = 100
	defaultRateWindow = time.Minute
	shutdownTimeout   = 10 * time.Second
)

func main() {
	configPath := flag.String("config", "", "additional directory to search for config.yaml")
	flag.Parse()

	var paths []string
	if *configPath != "" {
		paths = append(paths, *configPath)
	}

	cfg, err := app.LoadConfig(paths...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Server.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()
	log := logger.WithModule("server")

	if err := run(cfg, log); err != nil {
		log.Fatal("server exited", zap.Error(err))
	}
}

func run(cfg *app.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hostCfg := cfg.Database.Postgres
	if strings.EqualFold(cfg.Database.Driver, "mysql") {
		hostCfg = cfg.Database.MySQL
	}

	db, err := database.Open(database.Config{
		Driver:   cfg.Database.Driver,
		Path:     cfg.Database.Path,
		DSN:      cfg.Database.DSN,
		Host:     hostCfg.Host,
		Port:     hostCfg.Port,
		Name:     hostCfg.Database,
		User:     hostCfg.Username,
		Password: hostCfg.Password,
	})
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:   cfg.Auth.JWT.Secret,
		Issuer:   cfg.Auth.JWT.Issuer,
		TokenTTL: cfg.Auth.JWT.TTL,
	})
	if err != nil {
		return fmt.Errorf("init jwt service: %w", err)
	}

	mailer, err := mail.NewSMTPMailer(cfg.SMTPSettings())
	if err != nil {
		return fmt.Errorf("init mailer: %w", err)
	}

	accounts, err := services.NewAccountService(db, jwtSvc, mailer, services.AccountConfig{
		EmailDomain: cfg.Auth.Registration.EmailDomain,
		OTPExpiry:   cfg.Auth.OTP.TTL,
		OTPDigits:   cfg.Auth.OTP.Digits,
	})
	if err != nil {
		return fmt.Errorf("init account service: %w", err)
	}

	gin.SetMode(gin.ReleaseMode)
	router := api.NewRouter(api.Dependencies{
		DB:        db,
		JWT:       jwtSvc,
		Accounts:  accounts,
		Questions: services.NewQuestionService(db),
		Answers:   services.NewAnswerService(db),
		Users:     services.NewUserService(db),
	}, api.Options{
		Prometheus:     cfg.Monitoring.Prometheus.Enabled,
		PrometheusPath: cfg.Monitoring.Prometheus.Endpoint,
		RateLimit:      defaultRateLimit,
		RateWindow:     defaultRateWindow,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", srv.Addr), zap.String("driver", cfg.Database.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	return nil
}

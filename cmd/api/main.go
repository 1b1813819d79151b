package main

import (
	"database/sql"
	"net/http"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"jend_services/internal/adapters/codestore"
	server "jend_services/internal/adapters/http_server"
	"jend_services/internal/adapters/mailer"
	"jend_services/internal/adapters/observability"
	"jend_services/internal/app"
	"jend_services/internal/auth"
	"jend_services/internal/domain"
	"jend_services/internal/shared"
	mysqlrepo "jend_services/internal/storage/mysql"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	// deps
	accountsRepo := mysqlrepo.NewAccountRepo(db)
	proposalsRepo := mysqlrepo.NewProposalRepo(db)
	reviewsRepo := mysqlrepo.NewReviewRepo(db)

	hasher := auth.Argon2Hasher{}
	tokens := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	var codes domain.ResetCodeStore
	if cfg.ResetStore == "redis" {
		codes = codestore.NewRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB, app.ResetCodeTTL)
		log.Info().Str("addr", cfg.RedisAddr).Msg("reset codes backed by redis")
	} else {
		codes = codestore.NewMemory()
	}

	var codeMailer domain.CodeMailer
	if cfg.SMTPHost != "" {
		codeMailer = mailer.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.SMTPFrom)
	} else {
		log.Warn().Msg("SMTP_HOST not set; reset codes are not mailed")
	}

	accounts := app.NewAccountService(accountsRepo, hasher)
	proposals := app.NewProposalService(proposalsRepo)
	reviews := app.NewReviewService(reviewsRepo, proposalsRepo, accountsRepo)
	reset := app.NewPasswordResetService(codes, accountsRepo, hasher, codeMailer)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Accounts:  accounts,
		Proposals: proposals,
		Reviews:   reviews,
		Reset:     reset,
		Tokens:    tokens,
		DevMode:   cfg.AppEnv == "dev",
		AuthRPS:   cfg.AuthRPS,
		AuthBurst: cfg.AuthBurst,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

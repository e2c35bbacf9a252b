package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/soruforum/soruforum/internal/auth"
	"github.com/soruforum/soruforum/internal/avatar"
	"github.com/soruforum/soruforum/internal/cleanup"
	"github.com/soruforum/soruforum/internal/config"
	"github.com/soruforum/soruforum/internal/db"
	"github.com/soruforum/soruforum/internal/handlers"
	"github.com/soruforum/soruforum/internal/mail"
	"github.com/soruforum/soruforum/internal/middleware"
	"github.com/soruforum/soruforum/internal/repo"
)

func main() {
	cfg := config.Load()

	if cfg.LogFormat == "json" {
		slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))
	}

	if cfg.Env == "prod" && cfg.SecretKey == "dev-secret-key" {
		log.Fatal("SECRET_KEY must be set when ENV=prod")
	}

	database, err := db.Connect(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	database.SetMaxOpenConns(cfg.DBMaxOpenConns)
	database.SetMaxIdleConns(cfg.DBMaxIdleConns)

	if err := db.Run(db.URL(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("connected to database", "host", cfg.DBHost, "name", cfg.DBName)

	userRepo := repo.NewUserRepo(database)
	postRepo := repo.NewPostRepo(database)
	signer := auth.NewTokenSigner([]byte(cfg.SecretKey))
	avatars := avatar.NewStore(cfg.UploadDir)

	var mailer mail.Mailer = mail.LogMailer{}
	if cfg.SMTPHost != "" {
		smtp, err := mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.MailFrom)
		if err != nil {
			log.Fatalf("Failed to configure SMTP: %v", err)
		}
		mailer = smtp
	}

	authH := &handlers.AuthHandler{
		Users:         userRepo,
		Signer:        signer,
		SessionTTL:    cfg.SessionLifetime,
		RememberTTL:   cfg.RememberLifetime,
		SecureCookies: cfg.Env == "prod",
	}
	feedH := &handlers.FeedHandler{Posts: postRepo, Users: userRepo}
	postH := &handlers.PostHandler{Posts: postRepo}
	profileH := &handlers.ProfileHandler{Users: userRepo, Avatars: avatars}
	resetH := &handlers.ResetHandler{Users: userRepo, Signer: signer, Mailer: mailer, BaseURL: cfg.BaseURL}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer(handlers.ServerError))
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.Env == "prod"))
	r.Use(middleware.MaxBytes(middleware.DefaultMaxBodyBytes))
	r.Use(middleware.Session(signer, userRepo))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.Dir("static"))))

	// Public pages
	r.Get("/", feedH.Home)
	r.Get("/anasayfa", feedH.Home)
	r.Get("/cikis", authH.Logout)
	r.Get("/soru/{id}", postH.Show)
	r.Get("/kullanici/{username}", feedH.UserPosts)

	// Credential pages get a per-IP rate limit
	limiter := middleware.AuthRateLimiter()
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Get("/giris", authH.LoginPage)
		r.Post("/giris", authH.Login)
		r.Get("/kayitol", authH.RegisterPage)
		r.Post("/kayitol", authH.Register)
		r.Get("/sifre_yenileme", resetH.RequestForm)
		r.Post("/sifre_yenileme", resetH.Request)
		r.Get("/sifre_yenileme/{token}", resetH.ConfirmForm)
		r.Post("/sifre_yenileme/{token}", resetH.Confirm)
	})

	// Pages requiring a login
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Get("/profil", profileH.Show)
		r.Post("/profil", profileH.Update)
		r.Get("/soru/yeni", postH.NewForm)
		r.Post("/soru/yeni", postH.Create)
		r.Get("/soru/{id}/duzenle", postH.EditForm)
		r.Post("/soru/{id}/duzenle", postH.Edit)
		r.Post("/soru/{id}/sil", postH.Delete)
	})

	r.NotFound(handlers.NotFound)

	sweeper := (&cleanup.Avatars{Dir: cfg.UploadDir, Users: userRepo}).Start()
	defer sweeper.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "err", err)
	}
}

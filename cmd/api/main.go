package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/Diego200509/asotema-sub000/configs"
	"github.com/Diego200509/asotema-sub000/internal/handler"
	"github.com/Diego200509/asotema-sub000/internal/middleware"
	"github.com/Diego200509/asotema-sub000/internal/repository"
	"github.com/Diego200509/asotema-sub000/internal/service"
	"github.com/Diego200509/asotema-sub000/pkg/scheduler"
)

func main() {
	// Initialize logger
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)
	log.SetLevel(logrus.InfoLevel)

	// Load configuration
	cfg, err := configs.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := initDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize repositories
	repos := repository.NewRepository(db)

	// Initialize services
	services := service.NewService(service.Dependencies{
		Repos:  repos,
		Logger: log,
		Config: cfg,
	})

	// Initialize handlers
	handlers := handler.NewHandler(handler.Dependencies{
		Services: services,
		Logger:   log,
		Config:   cfg,
	})

	// Initialize router
	router := mux.NewRouter()

	// Public routes
	router.HandleFunc("/register", handlers.User.Register).Methods(http.MethodPost)
	router.HandleFunc("/login", handlers.User.Login).Methods(http.MethodPost)

	// Protected routes with middleware
	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg.JWT.Secret))
	api.Use(middleware.LogMiddleware(log))

	// User endpoints
	api.HandleFunc("/me", handlers.User.Me).Methods(http.MethodGet)

	// Member endpoints
	api.HandleFunc("/members", handlers.Member.Create).Methods(http.MethodPost)
	api.HandleFunc("/members", handlers.Member.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/members/{id}", handlers.Member.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/members/{id}", handlers.Member.Update).Methods(http.MethodPut)
	api.HandleFunc("/members/{id}", handlers.Member.Deactivate).Methods(http.MethodDelete)
	api.HandleFunc("/members/{id}/loans", handlers.Loan.GetByMember).Methods(http.MethodGet)
	api.HandleFunc("/members/{id}/savings", handlers.Saving.GetHistory).Methods(http.MethodGet)
	api.HandleFunc("/members/{id}/savings/balance", handlers.Saving.GetBalance).Methods(http.MethodGet)

	// Loan endpoints
	api.HandleFunc("/loans", handlers.Loan.Create).Methods(http.MethodPost)
	api.HandleFunc("/loans", handlers.Loan.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/loans/preview", handlers.Loan.Preview).Methods(http.MethodPost)
	api.HandleFunc("/loans/{id}", handlers.Loan.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}/schedule", handlers.Loan.GetSchedule).Methods(http.MethodGet)
	api.HandleFunc("/loans/{id}/installments/{seq}/payments", handlers.Loan.ApplyPayment).Methods(http.MethodPost)

	// Savings endpoints
	api.HandleFunc("/savings/deposits", handlers.Saving.Deposit).Methods(http.MethodPost)
	api.HandleFunc("/savings/deposits/batch", handlers.Saving.BatchDeposit).Methods(http.MethodPost)

	// Event endpoints
	api.HandleFunc("/events", handlers.Event.Create).Methods(http.MethodPost)
	api.HandleFunc("/events", handlers.Event.GetAll).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}", handlers.Event.GetByID).Methods(http.MethodGet)
	api.HandleFunc("/events/{id}/attendance", handlers.Event.RegisterAttendance).Methods(http.MethodPost)
	api.HandleFunc("/events/{id}/summary", handlers.Event.GetSummary).Methods(http.MethodGet)

	// Report endpoints
	api.HandleFunc("/reports/summary", handlers.Report.GetSummary).Methods(http.MethodGet)
	api.HandleFunc("/reports/summary/export", handlers.Report.ExportXML).Methods(http.MethodGet)

	// Start the daily overdue sweep
	overdueScheduler := scheduler.NewScheduler(services.Loan, log)
	if err := overdueScheduler.Start("0 6 * * *"); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer overdueScheduler.Stop()

	// Configure and start server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Second * 15,
		WriteTimeout: time.Second * 15,
		IdleTimeout:  time.Second * 60,
	}

	// Start the server in a goroutine
	go func() {
		log.Infof("Starting server on port %d", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}

	log.Info("Server gracefully stopped")
}

func initDB(cfg *configs.Config) (*sql.DB, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.DBName)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}

	if err = db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

package main

import (
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var servePort int

func buildRouter(api *apiServer) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", api.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/snapshots", api.handleListSnapshots)
		r.Route("/snapshots/{id}", func(r chi.Router) {
			r.Get("/", api.handleGetSnapshot)
			r.Delete("/", api.handleDeleteSnapshot)
			r.Get("/graph.geojson", api.handleGraphGeoJSON)
			r.Get("/agglomerations.geojson", api.handleAgglomerationsGeoJSON)
			r.Get("/indicators", api.handleIndicators)
			r.Get("/evaluations", api.handleListEvaluations)
			r.Post("/evaluate", api.handleEvaluate)
		})
	})
	return r
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the framework HTTP API",
	Long:  "Serves snapshots, GeoJSON layers, indicator reports, and territory evaluation over HTTP.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("serve"); err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		r := buildRouter(newAPIServer(st))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

package main

import (
	"bytes"
	"encoding/json"
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

	"github.com/sells-group/rta2map/internal/mapdoc"
	"github.com/sells-group/rta2map/internal/pipeline"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve [config]",
	Short: "Build the map in memory and serve it over HTTP",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := loadConfig(args); err != nil {
			return err
		}

		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}
		doc, summary, err := p.Build(ctx)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:              serveAddr,
			Handler:           buildMux(doc),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			_ = srv.Close()
		}()

		zap.L().Info("starting server",
			zap.String("addr", serveAddr),
			zap.String("run_id", summary.RunID),
			zap.Int("markers", summary.Rendered),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	rootCmd.AddCommand(serveCmd)
}

// buildMux routes the map page, its marker layer and a health check.
func buildMux(doc *mapdoc.Document) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := doc.Render(&buf); err != nil {
			zap.L().Error("render map", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
			http.Error(w, "render failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})

	r.Get("/markers.geojson", func(w http.ResponseWriter, r *http.Request) {
		data, err := doc.GeoJSON()
		if err != nil {
			zap.L().Error("encode markers", zap.String("request_id", middleware.GetReqID(r.Context())), zap.Error(err))
			http.Error(w, "encode failed", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/geo+json")
		_, _ = w.Write(data)
	})

	return r
}

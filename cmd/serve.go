package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/ingest"
	"github.com/archeryrangescanada-gif/archery-ranges-canada/internal/model"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin webhook server for imports and previews",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		st, err := initStore(ctx)
		if err != nil {
			return eris.Wrap(err, "init store")
		}
		defer st.Close() //nolint:errcheck

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		mux := http.NewServeMux()

		mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		// Both endpoints take the raw CSV body; the uploading admin
		// tool supplies options as query parameters.
		mux.HandleFunc("POST /import", func(w http.ResponseWriter, r *http.Request) {
			parsed, ok := parseUpload(w, r)
			if !ok {
				return
			}

			opts := ingest.ImportOptions{
				UpdateExisting: r.URL.Query().Get("update") == "1",
				SkipInvalid:    r.URL.Query().Get("no_skip") != "1",
			}
			result := ingest.NewImporter(st).Import(r.Context(), parsed.Data, opts)

			writeJSON(w, http.StatusOK, map[string]any{
				"parse":  parsed,
				"import": result,
			})
		})

		mux.HandleFunc("POST /preview", func(w http.ResponseWriter, r *http.Request) {
			parsed, ok := parseUpload(w, r)
			if !ok {
				return
			}

			result, err := ingest.NewPreviewer(st).Preview(r.Context(), parsed.Data)
			if err != nil {
				zap.L().Error("preview failed", zap.Error(err))
				http.Error(w, `{"error":"preview failed"}`, http.StatusInternalServerError)
				return
			}

			writeJSON(w, http.StatusOK, map[string]any{
				"parse":   parsed,
				"preview": result,
			})
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err != nil {
			return eris.Wrap(err, "server listen")
		}

		zap.L().Info("starting server", zap.Int("port", port))
		return serveUntilShutdown(ctx, &http.Server{Handler: mux}, ln, drainTimeout)
	},
}

const drainTimeout = 10 * time.Second

// serveUntilShutdown serves on ln until ctx is cancelled, then drains
// in-flight requests for up to timeout. The drain runs on a fresh
// context: the signal context is already cancelled at that point and
// would abort the drain immediately.
func serveUntilShutdown(ctx context.Context, srv *http.Server, ln net.Listener, timeout time.Duration) error {
	go func() {
		<-ctx.Done()
		zap.L().Info("shutting down server")
		drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = srv.Shutdown(drainCtx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		return eris.Wrap(err, "server serve")
	}
	return nil
}

func parseUpload(w http.ResponseWriter, r *http.Request) (*model.ParseResult, bool) {
	rows, err := ingest.ReadCSV(r.Body)
	if err != nil {
		http.Error(w, `{"error":"invalid CSV body"}`, http.StatusBadRequest)
		return nil, false
	}

	parsed := ingest.ParseRows(rows, ingest.ParseOptions{
		Strict: r.URL.Query().Get("strict") == "1" || cfg.Import.Strict,
	})

	if r.URL.Query().Get("validate") == "1" {
		if v := ingest.ValidateAll(parsed.Data); !v.Valid {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"parse":      parsed,
				"validation": v,
			})
			return nil, false
		}
	}
	return parsed, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

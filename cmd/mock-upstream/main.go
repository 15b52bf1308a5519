// Command mock-upstream runs a deterministic upstream server for
// developing and testing the gate. It echoes the identity headers the
// gate injected, so claim mapping and guard behavior can be verified
// end to end.
//
// Configuration:
//
//	MOCK_PORT - Listen port (default: 9090)
package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	port := os.Getenv("MOCK_PORT")
	if port == "" {
		port = "9090"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", handleEcho)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok\n"))
	})

	srv := &http.Server{Addr: ":" + port, Handler: mux}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("mock upstream starting", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("mock upstream failed", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("mock upstream shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(shutdownCtx)
}

// echoResponse reports what the upstream received from the gate.
type echoResponse struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	CompanyID   string `json:"companyId"`
	UserID      string `json:"userId"`
	Role        string `json:"role"`
	Permissions string `json:"permissions"`
}

func handleEcho(w http.ResponseWriter, r *http.Request) {
	resp := echoResponse{
		Method:      r.Method,
		Path:        r.URL.Path,
		CompanyID:   r.Header.Get("X-Auth-Company-Id"),
		UserID:      r.Header.Get("X-Auth-User-Id"),
		Role:        r.Header.Get("X-Auth-Role"),
		Permissions: r.Header.Get("X-Auth-Permissions"),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

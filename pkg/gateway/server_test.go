package gateway

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestServerServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := NewServer(handler, WithShutdownTimeout(2*time.Second))

	done := make(chan error, 1)
	go func() {
		done <- srv.ServeOn(ln)
	}()

	// Wait for the server to answer.
	addr := "http://" + ln.Addr().String()
	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(addr + "/")
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never became ready: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ServeOn returned error: %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("server did not stop after shutdown")
	}
}

func TestServerOptions(t *testing.T) {
	srv := NewServer(http.NotFoundHandler(),
		WithAddr(":9999"),
		WithTimeouts(1*time.Second, 2*time.Second),
		WithShutdownTimeout(3*time.Second),
	)

	if srv.config.Addr != ":9999" {
		t.Errorf("Addr = %q, want :9999", srv.config.Addr)
	}
	if srv.httpServer.ReadTimeout != 1*time.Second || srv.httpServer.WriteTimeout != 2*time.Second {
		t.Errorf("timeouts = %v/%v", srv.httpServer.ReadTimeout, srv.httpServer.WriteTimeout)
	}
	if srv.config.ShutdownTimeout != 3*time.Second {
		t.Errorf("ShutdownTimeout = %v", srv.config.ShutdownTimeout)
	}
}

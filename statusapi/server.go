package statusapi

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hubertat/swblink/blink"
)

const httpTimeout = 3 * time.Second
const shutdownTimeout = 2 * time.Second

type StatusSource interface {
	Status() blink.Status
}

// Server serves the controller status as JSON and the Prometheus registry.
type Server struct {
	Address string

	source   StatusSource
	gatherer prometheus.Gatherer
	handler  *httprouter.Router
}

func New(address string, source StatusSource, gatherer prometheus.Gatherer) *Server {
	s := &Server{
		Address:  address,
		source:   source,
		gatherer: gatherer,
	}

	s.handler = httprouter.New()
	s.handler.GET("/status", s.handleStatus)
	if gatherer != nil {
		s.handler.Handler(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	w.Header().Set("Content-Type", "application/json")
	err := json.NewEncoder(w).Encode(s.source.Status())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// ListenAndServe blocks until ctx is done or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.Address,
		Handler:           s.handler,
		ReadTimeout:       httpTimeout,
		ReadHeaderTimeout: httpTimeout,
		WriteTimeout:      httpTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serverErr:
		return errors.Wrapf(err, "status server on %s failed", s.Address)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

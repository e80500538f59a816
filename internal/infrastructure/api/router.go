package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

// GatewayPaths are the documented paths of the try-on gateway. Any other path
// not claimed by an ops endpoint is served by the gateway too.
var GatewayPaths = []string{"/", "/virtual-try-on"}

var gatewayMethods = []string{http.MethodPost, http.MethodOptions}

// NewRouter wires the gateway, health and (optionally) metrics endpoints.
func NewRouter(handler *GatewayHandler, metricsHandler http.Handler, logger zerolog.Logger) *mux.Router {
	r := mux.NewRouter()
	// パスの正規化リダイレクトはCORSヘッダを持たないため無効にする
	r.SkipClean(true)
	r.Use(RequestID(logger), AccessLog, Recover)

	for _, path := range GatewayPaths {
		r.Handle(path, handler).Methods(gatewayMethods...)
	}
	r.HandleFunc("/healthz", handler.HandleHealth).Methods(http.MethodGet)
	if metricsHandler != nil {
		r.Handle("/metrics", metricsHandler).Methods(http.MethodGet)
	}

	// catch-all; must stay last
	r.PathPrefix("/").Handler(handler).Methods(gatewayMethods...)

	r.MethodNotAllowedHandler = MethodNotAllowed()
	r.NotFoundHandler = NotFound()

	return r
}

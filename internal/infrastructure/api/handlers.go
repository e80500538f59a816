package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"tryon-gateway/internal/application/usecases"
	"tryon-gateway/internal/domain/entities"
)

// Request bodies carry two base64 images; anything larger is rejected as invalid.
const maxBodySize = 32 << 20

type GatewayHandler struct {
	tryOnUseCase *usecases.TryOnUseCase
}

func NewGatewayHandler(tryOnUseCase *usecases.TryOnUseCase) *GatewayHandler {
	return &GatewayHandler{
		tryOnUseCase: tryOnUseCase,
	}
}

func (h *GatewayHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body := http.MaxBytesReader(w, r.Body, maxBodySize)
	defer body.Close()

	// 呼び出し元の切断で上流呼び出しを中断しない
	ctx := context.WithoutCancel(r.Context())

	resp := h.tryOnUseCase.Execute(ctx, usecases.GatewayRequest{
		Method: r.Method,
		Body:   body,
	})

	writeResponse(ctx, w, resp)
}

func (h *GatewayHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// MethodNotAllowed keeps the JSON error contract for methods the gateway does not serve.
func MethodNotAllowed() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Allow", "POST, OPTIONS")
		writeResponse(r.Context(), w, usecases.Response{
			Status:  http.StatusMethodNotAllowed,
			Payload: usecases.ErrorPayload{Error: "Method not allowed"},
		})
	})
}

// NotFound answers requests no route claims, e.g. a request target that is not a path.
func NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeResponse(r.Context(), w, usecases.Response{
			Status:  http.StatusNotFound,
			Payload: usecases.ErrorPayload{Error: "Not found"},
		})
	})
}

// writeResponse is the single place gateway responses are written.
func writeResponse(ctx context.Context, w http.ResponseWriter, resp usecases.Response) {
	applyCORS(w.Header())

	if resp.Payload == nil {
		w.WriteHeader(resp.Status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if resp.Status == http.StatusOK {
		w.Header().Set("Cache-Control", "no-store")
	}
	w.WriteHeader(resp.Status)

	if err := json.NewEncoder(w).Encode(resp.Payload); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("failed to write response")
	}
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	writeResponse(ctx, w, usecases.ErrorResponse(entities.NewUpstreamFailureError("", nil)))
}

package session

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"

	"roulette_sentinel/internal/api"
	dto "roulette_sentinel/internal/api/dto/session"
	"roulette_sentinel/internal/converter"
	"roulette_sentinel/internal/service"
	"roulette_sentinel/pkg/req"
	"roulette_sentinel/pkg/resp"
)

type HandlerDeps struct {
	Serv service.SessionService
}

type Handler struct {
	serv service.SessionService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

// Start начинает новую сессию. Пустое тело - значения из конфигурации
func (h *Handler) Start(w http.ResponseWriter, r *http.Request) {
	var payload dto.StartRequest
	if r.ContentLength != 0 {
		var err error
		payload, err = req.Decode[dto.StartRequest](r.Body)
		if err != nil {
			resp.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	sess, err := h.serv.Start(r.Context(), converter.ToStartSession(payload))
	if err != nil {
		api.WriteServiceError(w, "start session", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToSessionResponse(*sess))
}

// Spin принимает выпавшее число и играет раунд
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	payload, err := req.Decode[dto.SpinRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.serv.Spin(r.Context(), *payload.Number)
	if err != nil {
		api.WriteServiceError(w, "spin", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(res))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.serv.Stats(r.Context())
	if err != nil {
		api.WriteServiceError(w, "stats", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatsResponse(stats))
}

func (h *Handler) Stop(w http.ResponseWriter, r *http.Request) {
	sess, err := h.serv.Stop(r.Context())
	if err != nil {
		api.WriteServiceError(w, "stop session", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSessionResponse(*sess))
}

// Export отдает CSV со спинами сессии
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	// Буфер, чтобы при ошибке не отдать половину файла
	var buf bytes.Buffer
	if err := h.serv.Export(r.Context(), &buf); err != nil {
		api.WriteServiceError(w, "export", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "session.csv"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// Analytics распределение по зонам, ?last_n=N ограничивает окно
func (h *Handler) Analytics(w http.ResponseWriter, r *http.Request) {
	lastN := 0
	if raw := r.URL.Query().Get("last_n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			resp.WriteError(w, http.StatusBadRequest, "last_n must be a non-negative integer")
			return
		}
		lastN = n
	}

	a, err := h.serv.Analytics(r.Context(), lastN)
	if err != nil {
		api.WriteServiceError(w, "analytics", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToAnalyticsResponse(a))
}

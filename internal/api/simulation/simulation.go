package simulation

import (
	"net/http"

	"roulette_sentinel/internal/api"
	dto "roulette_sentinel/internal/api/dto/simulation"
	"roulette_sentinel/internal/converter"
	"roulette_sentinel/internal/service"
	"roulette_sentinel/pkg/req"
	"roulette_sentinel/pkg/resp"
)

type HandlerDeps struct {
	Serv service.SimulationService
}

type Handler struct {
	serv service.SimulationService
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv}
}

// Simulate прогоняет стратегию на случайных числах
func (h *Handler) Simulate(w http.ResponseWriter, r *http.Request) {
	var payload dto.SimulateRequest
	if r.ContentLength != 0 {
		var err error
		payload, err = req.Decode[dto.SimulateRequest](r.Body)
		if err != nil {
			resp.WriteError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	res, err := h.serv.Run(r.Context(), converter.ToSimulationRequest(payload))
	if err != nil {
		api.WriteServiceError(w, "simulate", err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSimulateResponse(res))
}

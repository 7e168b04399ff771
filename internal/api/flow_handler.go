package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/nutri-api/internal/api/shared"
	"github.com/phrazzld/nutri-api/internal/nutrition"
	"github.com/phrazzld/nutri-api/internal/platform/logger"
	"github.com/phrazzld/nutri-api/internal/schema"
)

// FlowHandler serves the flow catalogue and flow invocations.
type FlowHandler struct {
	service *nutrition.Service
	logger  *slog.Logger
}

// NewFlowHandler creates a FlowHandler.
func NewFlowHandler(service *nutrition.Service, logger *slog.Logger) *FlowHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &FlowHandler{
		service: service,
		logger:  logger.With("component", "flow_handler"),
	}
}

// Routes registers the handler on r.
func (h *FlowHandler) Routes(r chi.Router) {
	r.Get("/flows", h.ListFlows)
	r.Get("/flows/{"+flowNameParam+"}/schema", h.GetFlowSchema)
	r.Post("/flows/{"+flowNameParam+"}", h.InvokeFlow)
	r.Post("/meals/analyze", h.AnalyzeMeal)
}

// ListFlows handles GET /api/flows requests
func (h *FlowHandler) ListFlows(w http.ResponseWriter, r *http.Request) {
	flows := h.service.Registry().Flows()
	out := make([]FlowSummary, len(flows))
	for i, f := range flows {
		out[i] = FlowSummary{Name: f.Name(), Description: f.Description()}
	}
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// GetFlowSchema handles GET /api/flows/{name}/schema requests
func (h *FlowHandler) GetFlowSchema(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.Registry().Get(getFlowName(r))
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FlowSchemaResponse{
		Name:   f.Name(),
		Input:  schema.JSONSchema(f.InputSchema()),
		Output: schema.JSONSchema(f.OutputSchema()),
	})
}

// InvokeFlow handles POST /api/flows/{name} requests. The body is passed to
// the flow as-is; the flow validates it against its input schema.
func (h *FlowHandler) InvokeFlow(w http.ResponseWriter, r *http.Request) {
	f, err := h.service.Registry().Get(getFlowName(r))
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	var body any
	if !decodeBody(w, r, &body) {
		return
	}

	out, err := f.Invoke(r.Context(), body)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("flow invoked", "flow", f.Name())
	shared.RespondWithJSON(w, r, http.StatusOK, out)
}

// AnalyzeMeal handles POST /api/meals/analyze requests
func (h *FlowHandler) AnalyzeMeal(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeMealRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	analysis, err := h.service.AnalyzeMeal(r.Context(), req.PhotoDataURI, req.Description)
	if err != nil {
		handleAPIError(w, r, err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, analysis)
}

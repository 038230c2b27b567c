package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"vspheremap/internal/adapter"
	"vspheremap/internal/domain"
	"vspheremap/internal/query"
	"vspheremap/internal/report"

	"github.com/go-logr/logr"
	"github.com/go-playground/validator/v10"
)

const (
	maxBodyBytes        = 1 << 20
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Inventory is the service behind the API
type Inventory interface {
	Status() domain.CollectionStatus
	TriggerRefresh(ctx context.Context, trigger string) error
	BuildGraph(ctx context.Context, policy domain.Policy) (*domain.Graph, error)
	Report(ctx context.Context, identifier string) (*report.VMReport, error)
	GetVM(ctx context.Context, identifier string) (*domain.VM, error)
	List(ctx context.Context, kind domain.Kind, params query.Params) ([]map[string]any, error)
	Collections(ctx context.Context, limit int) ([]domain.CollectionRun, error)
	Snapshots(ctx context.Context, limit int) ([]domain.SnapshotInfo, error)
}

// InventoryHandler handles inventory API requests
type InventoryHandler struct {
	svc Inventory
	log logr.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(svc Inventory, log logr.Logger) *InventoryHandler {
	return &InventoryHandler{svc: svc, log: log.WithName("api")}
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// MessageResponse is the body of accepted asynchronous requests
type MessageResponse struct {
	Message string `json:"message"`
}

// ReportRequest selects the VM of a technical document
type ReportRequest struct {
	VMIdentifier string `json:"vm_identifier" validate:"required"`
}

// Register mounts the API routes on mux
func (h *InventoryHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/status", h.GetStatus)
	mux.HandleFunc("POST /api/v1/vsphere/refresh", h.Refresh)
	mux.HandleFunc("POST /api/v1/visualization/scene-graph", h.SceneGraph)
	mux.HandleFunc("POST /api/v1/dat/generate/vm", h.GenerateVMReport)

	mux.HandleFunc("GET /api/v1/vms", h.list(domain.KindVM))
	mux.HandleFunc("GET /api/v1/vms/{identifier}", h.GetVM)
	mux.HandleFunc("GET /api/v1/hosts", h.list(domain.KindHost))
	mux.HandleFunc("GET /api/v1/clusters", h.list(domain.KindCluster))
	mux.HandleFunc("GET /api/v1/datastores", h.list(domain.KindDatastore))
	mux.HandleFunc("GET /api/v1/networks", h.list(domain.KindNetwork))

	mux.HandleFunc("GET /api/v1/collections", h.ListCollections)
	mux.HandleFunc("GET /api/v1/snapshots", h.ListSnapshots)
}

// GetStatus returns the collection status record
func (h *InventoryHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.svc.Status(), http.StatusOK)
}

// Refresh starts a background collection
func (h *InventoryHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.TriggerRefresh(r.Context(), adapter.TriggerAPI); err != nil {
		h.writeServiceError(r.Context(), w, "Failed to start data collection", err)
		return
	}
	writeJSON(w, MessageResponse{
		Message: "vSphere data collection process initiated in the background.",
	}, http.StatusAccepted)
}

// SceneGraph builds the dependency graph described by the request policy.
// Omitted policy fields keep their defaults.
func (h *InventoryHandler) SceneGraph(w http.ResponseWriter, r *http.Request) {
	policy := domain.DefaultPolicy()
	if err := decodeBody(w, r, &policy); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.BuildGraph(r.Context(), policy)
	if err != nil {
		h.writeServiceError(r.Context(), w, "Failed to build graph", err)
		return
	}
	writeJSON(w, g, http.StatusOK)
}

// GenerateVMReport returns the technical document of one VM
func (h *InventoryHandler) GenerateVMReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	req.VMIdentifier = strings.TrimSpace(req.VMIdentifier)
	if err := validate.Struct(req); err != nil {
		writeError(w, "Invalid request", "vm_identifier is required", http.StatusUnprocessableEntity)
		return
	}

	doc, err := h.svc.Report(r.Context(), req.VMIdentifier)
	if err != nil {
		h.writeServiceError(r.Context(), w, "Failed to generate report", err)
		return
	}
	writeJSON(w, doc, http.StatusOK)
}

// GetVM returns one VM, optionally projected with ?fields=
func (h *InventoryHandler) GetVM(w http.ResponseWriter, r *http.Request) {
	vm, err := h.svc.GetVM(r.Context(), r.PathValue("identifier"))
	if err != nil {
		h.writeServiceError(r.Context(), w, "Failed to get VM", err)
		return
	}

	params, err := query.ParseParams(r.URL.Query())
	if err != nil {
		writeError(w, "Invalid query parameters", err.Error(), http.StatusBadRequest)
		return
	}
	if len(params.Fields) == 0 {
		writeJSON(w, vm, http.StatusOK)
		return
	}
	record, err := query.ToRecord(vm)
	if err != nil {
		h.writeServiceError(r.Context(), w, "Failed to get VM", err)
		return
	}
	writeJSON(w, query.Project(record, params.Fields), http.StatusOK)
}

func (h *InventoryHandler) list(kind domain.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := query.ParseParams(r.URL.Query())
		if err != nil {
			writeError(w, "Invalid query parameters", err.Error(), http.StatusBadRequest)
			return
		}

		records, err := h.svc.List(r.Context(), kind, params)
		if err != nil {
			h.writeServiceError(r.Context(), w, "Failed to list "+strings.ToLower(string(kind))+"s", err)
			return
		}
		writeJSON(w, records, http.StatusOK)
	}
}

// ListCollections returns recent collection runs
func (h *InventoryHandler) ListCollections(w http.ResponseWriter, r *http.Request) {
	limit, err := historyLimit(r)
	if err != nil {
		writeError(w, "Invalid query parameters", err.Error(), http.StatusBadRequest)
		return
	}
	runs, err := h.svc.Collections(r.Context(), limit)
	if err != nil {
		h.writeServiceError(r.Context(), w, "Failed to list collections", err)
		return
	}
	writeJSON(w, runs, http.StatusOK)
}

// ListSnapshots returns summaries of persisted snapshots
func (h *InventoryHandler) ListSnapshots(w http.ResponseWriter, r *http.Request) {
	limit, err := historyLimit(r)
	if err != nil {
		writeError(w, "Invalid query parameters", err.Error(), http.StatusBadRequest)
		return
	}
	infos, err := h.svc.Snapshots(r.Context(), limit)
	if err != nil {
		h.writeServiceError(r.Context(), w, "Failed to list snapshots", err)
		return
	}
	writeJSON(w, infos, http.StatusOK)
}

// Helper methods

// writeServiceError maps service errors onto status codes. Unexpected errors
// are logged with the request logger.
func (h *InventoryHandler) writeServiceError(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log := h.log
		if reqLog, lerr := logr.FromContext(ctx); lerr == nil {
			log = reqLog
		}
		log.Error(err, msg)
	}
	writeError(w, msg, err.Error(), status)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrUnsupported):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidPolicy):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrRefreshInProgress):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func historyLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return defaultHistoryLimit, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 1 || limit > maxHistoryLimit {
		return 0, errors.New("limit must be an integer between 1 and " + strconv.Itoa(maxHistoryLimit))
	}
	return limit, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, message, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: message, Details: details}, statusCode)
}

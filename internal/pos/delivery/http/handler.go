package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/pushsport/pos/internal/pos/domain"
	"github.com/pushsport/pos/internal/pos/usecase/command"
	"github.com/pushsport/pos/internal/pos/usecase/query"
	"github.com/pushsport/pos/pkg/logger"
)

// POSHandler handles HTTP requests for terminal sessions using CQRS.
type POSHandler struct {
	// Command handlers
	openHandler     *command.OpenSessionHandler
	closeHandler    *command.CloseSessionHandler
	branchHandler   *command.SelectBranchHandler
	refreshHandler  *command.RefreshStockHandler
	addHandler      *command.AddItemHandler
	adjustHandler   *command.AdjustQuantityHandler
	removeHandler   *command.RemoveItemHandler
	clearHandler    *command.ClearCartHandler
	checkoutHandler *command.CheckoutHandler

	// Query handlers
	getHandler   *query.GetSessionHandler
	stockHandler *query.ListStockHandler
}

// NewPOSHandler creates a new POS handler with all use case handlers.
func NewPOSHandler(
	openHandler *command.OpenSessionHandler,
	closeHandler *command.CloseSessionHandler,
	branchHandler *command.SelectBranchHandler,
	refreshHandler *command.RefreshStockHandler,
	addHandler *command.AddItemHandler,
	adjustHandler *command.AdjustQuantityHandler,
	removeHandler *command.RemoveItemHandler,
	clearHandler *command.ClearCartHandler,
	checkoutHandler *command.CheckoutHandler,
	getHandler *query.GetSessionHandler,
	stockHandler *query.ListStockHandler,
) *POSHandler {
	return &POSHandler{
		openHandler:     openHandler,
		closeHandler:    closeHandler,
		branchHandler:   branchHandler,
		refreshHandler:  refreshHandler,
		addHandler:      addHandler,
		adjustHandler:   adjustHandler,
		removeHandler:   removeHandler,
		clearHandler:    clearHandler,
		checkoutHandler: checkoutHandler,
		getHandler:      getHandler,
		stockHandler:    stockHandler,
	}
}

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// RegisterRoutes registers all POS routes.
func (h *POSHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/api/pos/sessions", h.OpenSession).Methods("POST")
	router.HandleFunc("/api/pos/sessions/{id}", h.GetSession).Methods("GET")
	router.HandleFunc("/api/pos/sessions/{id}", h.CloseSession).Methods("DELETE")
	router.HandleFunc("/api/pos/sessions/{id}/branch", h.SelectBranch).Methods("POST")
	router.HandleFunc("/api/pos/sessions/{id}/stock", h.ListStock).Methods("GET")
	router.HandleFunc("/api/pos/sessions/{id}/stock/refresh", h.RefreshStock).Methods("POST")
	router.HandleFunc("/api/pos/sessions/{id}/cart/items", h.AddItem).Methods("POST")
	router.HandleFunc("/api/pos/sessions/{id}/cart/items/{inventoryID}", h.AdjustQuantity).Methods("PATCH")
	router.HandleFunc("/api/pos/sessions/{id}/cart/items/{inventoryID}", h.RemoveItem).Methods("DELETE")
	router.HandleFunc("/api/pos/sessions/{id}/cart", h.ClearCart).Methods("DELETE")
	router.HandleFunc("/api/pos/sessions/{id}/checkout", h.Checkout).Methods("POST")
}

// RegisterHealthCheck registers the health endpoint.
func (h *POSHandler) RegisterHealthCheck(router *mux.Router) {
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, Response{
			Success: true,
			Message: "pos service is healthy",
		})
	}).Methods("GET")
}

// OpenSession handles POST /api/pos/sessions
func (h *POSHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	operatorID, role, branchID := operatorIdentity(r)

	var req struct {
		BranchID uint `json:"branch_id"`
	}
	// Body is optional; single-branch operators inherit their branch.
	_ = json.NewDecoder(r.Body).Decode(&req)

	cmd := command.OpenSessionCommand{
		OperatorID:  operatorID,
		MultiBranch: role == "admin",
		BranchID:    branchID,
	}
	if cmd.BranchID == 0 {
		cmd.BranchID = req.BranchID
	}

	result, err := h.openHandler.Handle(r.Context(), cmd)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, Response{
		Success: true,
		Message: result.StockWarning,
		Data:    result.Session,
	})
}

// GetSession handles GET /api/pos/sessions/{id}
func (h *POSHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	view, err := h.getHandler.Handle(r.Context(), query.GetSessionQuery{
		SessionID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    view,
	})
}

// CloseSession handles DELETE /api/pos/sessions/{id}
func (h *POSHandler) CloseSession(w http.ResponseWriter, r *http.Request) {
	err := h.closeHandler.Handle(r.Context(), command.CloseSessionCommand{
		SessionID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Session closed",
	})
}

// SelectBranch handles POST /api/pos/sessions/{id}/branch
func (h *POSHandler) SelectBranch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		BranchID uint `json:"branch_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	session, err := h.branchHandler.Handle(r.Context(), command.SelectBranchCommand{
		SessionID: mux.Vars(r)["id"],
		BranchID:  req.BranchID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Branch selected",
		Data:    session,
	})
}

// ListStock handles GET /api/pos/sessions/{id}/stock
func (h *POSHandler) ListStock(w http.ResponseWriter, r *http.Request) {
	records, err := h.stockHandler.Handle(r.Context(), query.ListStockQuery{
		SessionID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    records,
	})
}

// RefreshStock handles POST /api/pos/sessions/{id}/stock/refresh
func (h *POSHandler) RefreshStock(w http.ResponseWriter, r *http.Request) {
	session, err := h.refreshHandler.Handle(r.Context(), command.RefreshStockCommand{
		SessionID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Stock refreshed",
		Data:    session.Stock,
	})
}

// AddItem handles POST /api/pos/sessions/{id}/cart/items
func (h *POSHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		InventoryID uint `json:"inventory_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	session, err := h.addHandler.Handle(r.Context(), command.AddItemCommand{
		SessionID:   mux.Vars(r)["id"],
		InventoryID: req.InventoryID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    query.NewSessionView(session),
	})
}

// AdjustQuantity handles PATCH /api/pos/sessions/{id}/cart/items/{inventoryID}
func (h *POSHandler) AdjustQuantity(w http.ResponseWriter, r *http.Request) {
	inventoryID, ok := pathUint(w, r, "inventoryID")
	if !ok {
		return
	}

	var req struct {
		Delta int `json:"delta"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	session, err := h.adjustHandler.Handle(r.Context(), command.AdjustQuantityCommand{
		SessionID:   mux.Vars(r)["id"],
		InventoryID: inventoryID,
		Delta:       req.Delta,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    query.NewSessionView(session),
	})
}

// RemoveItem handles DELETE /api/pos/sessions/{id}/cart/items/{inventoryID}
func (h *POSHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	inventoryID, ok := pathUint(w, r, "inventoryID")
	if !ok {
		return
	}

	session, err := h.removeHandler.Handle(r.Context(), command.RemoveItemCommand{
		SessionID:   mux.Vars(r)["id"],
		InventoryID: inventoryID,
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Data:    query.NewSessionView(session),
	})
}

// ClearCart handles DELETE /api/pos/sessions/{id}/cart
func (h *POSHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	session, err := h.clearHandler.Handle(r.Context(), command.ClearCartCommand{
		SessionID: mux.Vars(r)["id"],
	})
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: "Cart cleared",
		Data:    query.NewSessionView(session),
	})
}

// Checkout handles POST /api/pos/sessions/{id}/checkout
func (h *POSHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PaymentMethod string `json:"payment_method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid request body",
		})
		return
	}

	result, err := h.checkoutHandler.Handle(r.Context(), command.CheckoutCommand{
		SessionID:     mux.Vars(r)["id"],
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEmptyCart), errors.Is(err, domain.ErrCheckoutInFlight):
			RecordCheckout("rejected")
		default:
			RecordCheckout("failed")
		}
		respondDomainError(w, err)
		return
	}
	RecordCheckout("completed")

	respondJSON(w, http.StatusOK, Response{
		Success: true,
		Message: result.StockWarning,
		Data: map[string]interface{}{
			"receipt": result.Receipt,
			"session": query.NewSessionView(result.Session),
		},
	})
}

// operatorIdentity reads the identity headers the gateway injects.
func operatorIdentity(r *http.Request) (operatorID uint, role string, branchID uint) {
	if v, err := strconv.ParseUint(r.Header.Get("X-User-ID"), 10, 32); err == nil {
		operatorID = uint(v)
	}
	role = r.Header.Get("X-User-Role")
	if v, err := strconv.ParseUint(r.Header.Get("X-Branch-ID"), 10, 32); err == nil {
		branchID = uint(v)
	}
	return operatorID, role, branchID
}

func pathUint(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	v, err := strconv.ParseUint(mux.Vars(r)[name], 10, 32)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, Response{
			Success: false,
			Error:   "Invalid " + name,
		})
		return 0, false
	}
	return uint(v), true
}

// respondDomainError maps domain failures to status codes. Cart rule
// violations come back as 409 warnings; backend trouble as 502. Nothing
// in this service is allowed to escape as an uncaught fault.
func respondDomainError(w http.ResponseWriter, err error) {
	var fetchErr *domain.StockFetchError
	var saleErr *domain.SaleSubmissionError

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrLineNotFound),
		errors.Is(err, domain.ErrStockNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrOutOfStock),
		errors.Is(err, domain.ErrStockCeiling),
		errors.Is(err, domain.ErrCheckoutInFlight),
		errors.Is(err, domain.ErrStaleStockFetch):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrNoBranchSelected),
		errors.Is(err, domain.ErrInvalidPayment):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrBranchNotAllowed):
		status = http.StatusForbidden
	case errors.As(err, &fetchErr), errors.As(err, &saleErr):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		logger.Logger.Error().Err(err).Msg("Unexpected POS error")
		respondJSON(w, status, Response{
			Success: false,
			Error:   "Internal error",
		})
		return
	}

	respondJSON(w, status, Response{
		Success: false,
		Error:   err.Error(),
	})
}

func respondJSON(w http.ResponseWriter, status int, response Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Logger.Error().Err(err).Msg("Failed to encode response")
	}
}

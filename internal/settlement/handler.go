package settlement

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/divvyup/divvy/internal/group"
	"github.com/divvyup/divvy/internal/ledger"
	"github.com/divvyup/divvy/pkg/middleware"
	"github.com/divvyup/divvy/pkg/response"
)

// Handler handles HTTP requests for payments, balances and settlement plans
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/payments", h.RecordPayment)
	r.Get("/payments/{id}", h.GetPayment)
	r.Post("/payments/{id}/complete", h.CompletePayment)
	r.Post("/payments/{id}/cancel", h.CancelPayment)

	// Group-level views
	r.Get("/group/{groupId}/payments", h.ListPayments)
	r.Get("/group/{groupId}/balances", h.GroupBalances)
	r.Get("/group/{groupId}/plan", h.SettlementPlan)

	return r
}

// RecordPayment handles POST /settlements/payments
// @Summary      Record a payment
// @Description  Record a pending payment from the authenticated user; validated against the sender's outstanding debt in the settlement plan
// @Tags         settlements
// @Accept       json
// @Produce      json
// @Param        request body RecordPaymentRequest true "Payment request"
// @Success      201 {object} response.APIResponse{data=PaymentResponse}
// @Failure      400 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/payments [post]
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	fromUserID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	payment, err := h.service.RecordPayment(r.Context(), fromUserID, &req)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusCreated, payment.ToResponse())
}

// GetPayment handles GET /settlements/payments/{id}
// @Summary      Get payment by ID
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Payment ID"
// @Success      200 {object} response.APIResponse{data=PaymentResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/payments/{id} [get]
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	payment, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, payment.ToResponse())
}

// CompletePayment handles POST /settlements/payments/{id}/complete
// @Summary      Complete a payment
// @Description  Receiver confirms the money arrived; the payment becomes COMPLETED and starts counting toward balances
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Payment ID"
// @Success      200 {object} response.APIResponse{data=PaymentResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/payments/{id}/complete [post]
func (h *Handler) CompletePayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	payment, err := h.service.CompletePayment(r.Context(), id, userID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, payment.ToResponse())
}

// CancelPayment handles POST /settlements/payments/{id}/cancel
// @Summary      Cancel a payment
// @Description  Either side cancels a pending payment; cancelled payments never affect balances
// @Tags         settlements
// @Produce      json
// @Param        id path int true "Payment ID"
// @Success      200 {object} response.APIResponse{data=PaymentResponse}
// @Failure      403 {object} response.APIResponse
// @Failure      404 {object} response.APIResponse
// @Failure      409 {object} response.APIResponse
// @Router       /settlements/payments/{id}/cancel [post]
func (h *Handler) CancelPayment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Authentication required")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid payment ID")
		return
	}

	payment, err := h.service.CancelPayment(r.Context(), id, userID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, payment.ToResponse())
}

// ListPayments handles GET /settlements/group/{groupId}/payments
// @Summary      List group payments
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Param        page query int false "Page number"
// @Param        per_page query int false "Items per page"
// @Success      200 {object} response.APIResponse{data=[]PaymentResponse}
// @Router       /settlements/group/{groupId}/payments [get]
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	perPage, _ := strconv.Atoi(r.URL.Query().Get("per_page"))

	payments, total, err := h.service.ListByGroupID(r.Context(), groupID, page, perPage)
	if err != nil {
		response.InternalError(w, "Failed to list payments")
		return
	}

	responses := make([]*PaymentResponse, len(payments))
	for i, p := range payments {
		responses[i] = p.ToResponse()
	}

	if page < 1 {
		page = 1
	}
	if perPage < 1 || perPage > 100 {
		perPage = 20
	}
	response.JSONWithMeta(w, http.StatusOK, responses, &response.Meta{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: (total + perPage - 1) / perPage,
	})
}

// GroupBalances handles GET /settlements/group/{groupId}/balances
// @Summary      Get group balances
// @Description  Each member's net position, recomputed from the full ledger on every call; positive = owed money, negative = owes
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]BalanceResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/balances [get]
func (h *Handler) GroupBalances(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	balances, err := h.service.GroupBalances(r.Context(), groupID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, balances)
}

// SettlementPlan handles GET /settlements/group/{groupId}/plan
// @Summary      Get settlement plan
// @Description  Greedy largest-first matching of debtors to creditors; deterministic but not guaranteed minimal
// @Tags         settlements
// @Produce      json
// @Param        groupId path int true "Group ID"
// @Success      200 {object} response.APIResponse{data=[]DebtResponse}
// @Failure      404 {object} response.APIResponse
// @Router       /settlements/group/{groupId}/plan [get]
func (h *Handler) SettlementPlan(w http.ResponseWriter, r *http.Request) {
	groupID, err := strconv.ParseInt(chi.URLParam(r, "groupId"), 10, 64)
	if err != nil {
		response.BadRequest(w, "Invalid group ID")
		return
	}

	plan, err := h.service.SettlementPlan(r.Context(), groupID)
	if err != nil {
		writeSettlementError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, plan)
}

// writeSettlementError maps service errors onto the response envelope.
// Over-payment is a conflict with the current ledger state; integrity
// violations are server-side bugs by contract.
func writeSettlementError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrPaymentNotFound), errors.Is(err, group.ErrGroupNotFound):
		response.NotFound(w, err.Error())
	case errors.Is(err, ErrNotReceiver), errors.Is(err, ErrNotParticipant), errors.Is(err, ErrNotGroupMember):
		response.Forbidden(w, err.Error())
	case errors.Is(err, ErrNonPositiveAmount), errors.Is(err, ErrSelfPayment), errors.Is(err, ErrCurrencyMismatch):
		response.BadRequest(w, err.Error())
	case errors.Is(err, ErrNoDebtOwed),
		errors.Is(err, ErrNoCreditDue),
		errors.Is(err, ErrPaymentExceedsDebt),
		errors.Is(err, ErrInvalidStatusChange):
		response.Conflict(w, err.Error())
	case errors.Is(err, ledger.ErrIntegrityViolation), errors.Is(err, ErrUnbalancedLedger):
		response.InternalError(w, err.Error())
	default:
		response.InternalError(w, "Failed to process settlement request")
	}
}

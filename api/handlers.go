/*
handlers.go - HTTP handlers for the roastery engine

PURPOSE:
  Exposes the snapshot engine over REST. Every mutating endpoint follows the
  same read-then-write cycle the engine's concurrency model requires:

    1. decode + validate the request
    2. load the current snapshot
    3. Apply(snapshot, event, now)
    4. save the returned snapshot
    5. respond with the refreshed view

  A mutex serializes the cycle: the engine is single-writer by design, and
  the lock is the HTTP-layer rendering of "one event in flight at a time".

ERROR HANDLING:
  - 400: validation errors (malformed payload or engine ValidationError)
  - 404: record not found
  - 409: insufficient stock / business rule violations
  - 500: persistence failures

SEE ALSO:
  - dto.go:    request/response shapes
  - server.go: router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/blackhorse/roastery/engine"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    engine.SnapshotStore
	Log      *logrus.Logger
	Validate *validator.Validate

	// Now is injectable for tests; defaults to time.Now.
	Now func() time.Time

	// Serializes the load-apply-save cycle. The engine has no isolation of
	// its own; this lock is what makes concurrent HTTP requests safe.
	mu sync.Mutex
}

// NewHandler creates a handler around the given snapshot store.
func NewHandler(store engine.SnapshotStore, log *logrus.Logger) *Handler {
	if log == nil {
		log = logrus.New()
	}
	return &Handler{
		Store:    store,
		Log:      log,
		Validate: validator.New(),
		Now:      time.Now,
	}
}

// =============================================================================
// READ ENDPOINTS
// =============================================================================

// GetData returns the refreshed view: snapshot plus derived balances and ids.
func (h *Handler) GetData(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Load(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap.Refresh(h.Now()))
}

// GetBalanceSheet returns the derived statement of financial position.
func (h *Handler) GetBalanceSheet(w http.ResponseWriter, r *http.Request) {
	snap, err := h.Store.Load(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, snap.ComputeBalanceSheet(h.Now()))
}

// =============================================================================
// MUTATION ENDPOINTS
// =============================================================================

func (h *Handler) CreatePurchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, ok := h.parseDate(w, req.Date)
	if !ok {
		return
	}
	h.runEvent(w, r, engine.CreatePurchase{
		Number:           req.Number,
		Supplier:         req.Supplier,
		Date:             date,
		Items:            toLineItems(req.Items),
		PaymentAccountID: req.PaymentAccountID,
	})
}

func (h *Handler) UpdatePurchase(w http.ResponseWriter, r *http.Request) {
	var req PurchaseRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, ok := h.parseDate(w, req.Date)
	if !ok {
		return
	}
	h.runEvent(w, r, engine.UpdatePurchase{
		InvoiceID:        chi.URLParam(r, "id"),
		Number:           req.Number,
		Supplier:         req.Supplier,
		Date:             date,
		Items:            toLineItems(req.Items),
		PaymentAccountID: req.PaymentAccountID,
	})
}

func (h *Handler) DeletePurchase(w http.ResponseWriter, r *http.Request) {
	h.runEvent(w, r, engine.DeletePurchase{InvoiceID: chi.URLParam(r, "id")})
}

func (h *Handler) CreateRoast(w http.ResponseWriter, r *http.Request) {
	var req RoastRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, ok := h.parseDate(w, req.Date)
	if !ok {
		return
	}
	h.runEvent(w, r, engine.CreateRoastingBatch{
		BatchID:      req.BatchID,
		Date:         date,
		GreenBeans:   req.GreenBeans,
		InputKg:      decimal.NewFromFloat(req.InputKg),
		YieldPercent: decimal.NewFromFloat(req.YieldPercent),
		Profile:      req.Profile,
	})
}

func (h *Handler) TransferToStore(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runEvent(w, r, engine.TransferToStore{ItemIDs: req.ItemIDs})
}

func (h *Handler) CreateBlend(w http.ResponseWriter, r *http.Request) {
	var req BlendRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runEvent(w, r, engine.CreateBlend{
		Name:       req.Name,
		TotalQty:   decimal.NewFromFloat(req.TotalQty),
		Components: toBlendComponents(req.Components),
	})
}

func (h *Handler) CreateSale(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, ok := h.parseDate(w, req.Date)
	if !ok {
		return
	}
	dueDate, ok := h.parseDate(w, req.DueDate)
	if !ok {
		return
	}
	h.runEvent(w, r, engine.CreateSale{
		Number:        req.Number,
		Customer:      req.Customer,
		Date:          date,
		DueDate:       dueDate,
		PaymentStatus: engine.PaymentStatus(req.PaymentStatus),
		Items:         toLineItems(req.Items),
	})
}

func (h *Handler) CreateAsset(w http.ResponseWriter, r *http.Request) {
	var req AssetRequest
	if !h.decode(w, r, &req) {
		return
	}
	acquiredOn, ok := h.parseDate(w, req.AcquiredOn)
	if !ok {
		return
	}
	h.runEvent(w, r, engine.CreateAsset{
		Name:               req.Name,
		Category:           engine.AssetCategory(req.Category),
		AcquiredOn:         acquiredOn,
		Value:              decimal.NewFromFloat(req.Value),
		AnnualDepreciation: decimal.NewFromFloat(req.AnnualDepreciation),
	})
}

func (h *Handler) CreateBankAccount(w http.ResponseWriter, r *http.Request) {
	var req BankAccountRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runEvent(w, r, engine.CreateBankAccount{
		AccountName:    req.AccountName,
		AccountNumber:  req.AccountNumber,
		BankName:       req.BankName,
		OpeningBalance: decimal.NewFromFloat(req.OpeningBalance),
	})
}

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
	var req ExpenseRequest
	if !h.decode(w, r, &req) {
		return
	}
	date, ok := h.parseDate(w, req.Date)
	if !ok {
		return
	}
	h.runEvent(w, r, engine.CreateExpense{
		Date:        date,
		Description: req.Description,
		Amount:      decimal.NewFromFloat(req.Amount),
		AccountID:   req.AccountID,
	})
}

func (h *Handler) SetManualStock(w http.ResponseWriter, r *http.Request) {
	var req ManualStockRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runEvent(w, r, engine.SetManualStock{
		Name:      req.Name,
		Category:  req.Category,
		StockKg:   decimal.NewFromFloat(req.StockKg),
		UnitCost:  decimal.NewFromFloat(req.UnitCost),
		SellPrice: decimal.NewFromFloat(req.SellPrice),
	})
}

func (h *Handler) UpdateStoreItem(w http.ResponseWriter, r *http.Request) {
	var req StoreItemRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runEvent(w, r, engine.UpdateStoreItem{
		ItemID:    chi.URLParam(r, "id"),
		Name:      req.Name,
		Category:  req.Category,
		SellPrice: decimal.NewFromFloat(req.SellPrice),
	})
}

func (h *Handler) DeleteStoreItem(w http.ResponseWriter, r *http.Request) {
	h.runEvent(w, r, engine.DeleteStoreItem{ItemID: chi.URLParam(r, "id")})
}

func (h *Handler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var req SettingsRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.runEvent(w, r, engine.SaveSettings{
		CompanyName:       req.CompanyName,
		CompanyAddress:    req.CompanyAddress,
		CompanyLogo:       req.CompanyLogo,
		InvoiceNotes:      req.InvoiceNotes,
		LowStockThreshold: decimal.NewFromFloat(req.LowStockThreshold),
		InitialCapital:    decimal.NewFromFloat(req.InitialCapital),
	})
}

// =============================================================================
// REQUEST CYCLE
// =============================================================================

// runEvent is the single mutation path: load, apply, save, respond.
func (h *Handler) runEvent(w http.ResponseWriter, r *http.Request, ev engine.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ctx := r.Context()
	snap, err := h.Store.Load(ctx)
	if err != nil {
		h.Log.WithError(err).Error("failed to load snapshot")
		h.writeError(w, err)
		return
	}

	next, message, err := engine.Apply(snap, ev, h.Now())
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := h.Store.Save(ctx, next); err != nil {
		// Save failed: the snapshot in storage is still the previous one,
		// so the caller may simply retry.
		h.Log.WithError(err).Error("failed to save snapshot")
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ResultResponse{
		Message: message,
		Data:    next.Refresh(h.Now()),
	})
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := json.NewDecoder(r.Body).Decode(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid JSON: " + err.Error()})
		return false
	}
	if err := h.Validate.Struct(req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return false
	}
	return true
}

// parseDate parses an optional ISO day string; empty means "let the engine
// default to today".
func (h *Handler) parseDate(w http.ResponseWriter, s string) (engine.Date, bool) {
	if s == "" {
		return engine.Date{}, true
	}
	d, err := engine.ParseDate(s)
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid date: " + s})
		return engine.Date{}, false
	}
	return d, true
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrValidation):
		status = http.StatusBadRequest
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrInsufficientStock), errors.Is(err, engine.ErrBusinessRule):
		status = http.StatusConflict
	}
	h.writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.Log.WithError(err).Error("failed to encode response")
	}
}

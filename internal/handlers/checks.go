package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/forkline-pos/forkline/internal/middleware"
	"github.com/forkline-pos/forkline/internal/models"
	"github.com/forkline-pos/forkline/internal/orders"
	"github.com/forkline-pos/forkline/internal/receipt"
	"github.com/gorilla/mux"
)

func pathID(req *http.Request, key string) uint {
	id, _ := strconv.ParseUint(mux.Vars(req)[key], 10, 32)
	return uint(id)
}

// CreateCheckRequest opens a new check
type CreateCheckRequest struct {
	RvcID      uint   `json:"rvc_id" validate:"required"`
	OrderType  string `json:"order_type" validate:"omitempty,oneof=dine_in takeout delivery"`
	TableLabel string `json:"table_label"`
	GuestCount int    `json:"guest_count" validate:"omitempty,min=1,max=99"`
}

func (r *Router) createCheck(w http.ResponseWriter, req *http.Request) {
	var body CreateCheckRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	check, err := r.svc.CreateCheck(orders.CreateCheckParams{
		RvcID:      body.RvcID,
		EmployeeID: middleware.EmployeeID(req),
		OrderType:  models.OrderType(body.OrderType),
		TableLabel: body.TableLabel,
		GuestCount: body.GuestCount,
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, check)
}

func (r *Router) listChecks(w http.ResponseWriter, req *http.Request) {
	rvcID, err := strconv.ParseUint(req.URL.Query().Get("rvc"), 10, 32)
	if err != nil {
		respondError(w, http.StatusBadRequest, "rvc query parameter required")
		return
	}
	checks, err := r.store.ListOpenChecks(uint(rvcID))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, checks)
}

func (r *Router) getCheck(w http.ResponseWriter, req *http.Request) {
	check, err := r.store.GetCheckDetail(pathID(req, "id"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, check)
}

// AddItemRequest puts one menu item on a check
type AddItemRequest struct {
	MenuItemID  uint   `json:"menu_item_id" validate:"required"`
	Quantity    int    `json:"quantity" validate:"omitempty,min=1,max=99"`
	ModifierIDs []uint `json:"modifier_ids"`
}

func (r *Router) addItem(w http.ResponseWriter, req *http.Request) {
	var body AddItemRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	item, err := r.svc.AddItem(orders.AddItemParams{
		CheckID:     pathID(req, "id"),
		EmployeeID:  middleware.EmployeeID(req),
		MenuItemID:  body.MenuItemID,
		Quantity:    body.Quantity,
		ModifierIDs: body.ModifierIDs,
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, item)
}

// EditModifiersRequest replaces an item's modifier selection
type EditModifiersRequest struct {
	ModifierIDs []uint `json:"modifier_ids"`
}

func (r *Router) editModifiers(w http.ResponseWriter, req *http.Request) {
	var body EditModifiersRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	item, err := r.svc.EditModifiers(pathID(req, "id"), pathID(req, "itemId"), middleware.EmployeeID(req), body.ModifierIDs)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// VoidItemRequest voids one item, optionally under manager approval
type VoidItemRequest struct {
	Reason     string `json:"reason" validate:"required"`
	ManagerPin string `json:"manager_pin"`
}

func (r *Router) voidItem(w http.ResponseWriter, req *http.Request) {
	var body VoidItemRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(&body); err != nil {
		respondError(w, http.StatusBadRequest, "reason is required")
		return
	}

	item, err := r.svc.VoidItem(pathID(req, "id"), pathID(req, "itemId"), middleware.EmployeeID(req), body.Reason, body.ManagerPin)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, item)
}

// SendRequest triggers an explicit send; the workstation id scopes the
// routing allow-list filter.
type SendRequest struct {
	WorkstationID *uint `json:"workstation_id,omitempty"`
}

func (r *Router) sendCheck(w http.ResponseWriter, req *http.Request) {
	var body SendRequest
	if req.Body != nil {
		_ = json.NewDecoder(req.Body).Decode(&body)
	}

	res, err := r.svc.Send(pathID(req, "id"), middleware.EmployeeID(req), body.WorkstationID)
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// PaymentRequest applies one payment to a check
type PaymentRequest struct {
	TenderID      uint    `json:"tender_id" validate:"required"`
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	Tip           float64 `json:"tip" validate:"omitempty,gte=0"`
	WorkstationID *uint   `json:"workstation_id,omitempty"`
}

func (r *Router) submitPayment(w http.ResponseWriter, req *http.Request) {
	var body PaymentRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid payload")
		return
	}
	if err := r.validate.Struct(&body); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := r.svc.SubmitPayment(orders.PaymentParams{
		CheckID:       pathID(req, "id"),
		EmployeeID:    middleware.EmployeeID(req),
		TenderID:      body.TenderID,
		Amount:        body.Amount,
		Tip:           body.Tip,
		WorkstationID: body.WorkstationID,
	})
	if err != nil {
		respondEngineError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

// receiptPDF renders the guest receipt for a closed check
func (r *Router) receiptPDF(w http.ResponseWriter, req *http.Request) {
	check, err := r.store.GetCheckDetail(pathID(req, "id"))
	if err != nil {
		respondEngineError(w, err)
		return
	}
	if check.Status != models.CheckStatusClosed {
		respondError(w, http.StatusConflict, "receipt is only available for closed checks")
		return
	}

	pdf, err := receipt.Generate(check, r.cfg.BaseURL)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to render receipt")
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Write(pdf)
}

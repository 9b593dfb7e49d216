package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/forkline-pos/forkline/internal/utils"
)

// PinLoginRequest is the workstation sign-in payload
type PinLoginRequest struct {
	Pin string `json:"pin" validate:"required,numeric,min=4,max=8"`
}

// pinLogin matches a PIN against the property's active employees and
// issues a workstation session token.
func (r *Router) pinLogin(w http.ResponseWriter, req *http.Request) {
	var loginReq PinLoginRequest
	if err := json.NewDecoder(req.Body).Decode(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := r.validate.Struct(&loginReq); err != nil {
		respondError(w, http.StatusBadRequest, "PIN must be 4-8 digits")
		return
	}

	employees, err := r.store.ActiveEmployees(r.cfg.PropertyID)
	if err != nil {
		respondEngineError(w, err)
		return
	}

	for i := range employees {
		if !utils.CheckPIN(loginReq.Pin, employees[i].PinHash) {
			continue
		}
		emp := &employees[i]
		token, err := utils.GenerateToken(emp, r.cfg.JWTSecret)
		if err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"token":    token,
			"employee": emp,
		})
		return
	}

	respondError(w, http.StatusUnauthorized, "Invalid PIN")
}

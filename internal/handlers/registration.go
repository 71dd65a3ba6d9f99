package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/trainhub/trainhub-backend/internal/services"
)

type RegistrationHandler struct {
	registrationService services.RegistrationService
}

func NewRegistrationHandler(registrationService services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

func (rh *RegistrationHandler) Enroll(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "sessionId")
	if !ok {
		return
	}
	reg, err := rh.registrationService.Enroll(c.Request.Context(), sessionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"registration": reg})
}

func (rh *RegistrationHandler) Eligibility(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "sessionId")
	if !ok {
		return
	}
	result, err := rh.registrationService.CheckEligibility(c.Request.Context(), sessionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{
		"allowed":        result.Allowed,
		"reason":         result.Reason,
		"current_status": result.CurrentStatus,
	})
}

func (rh *RegistrationHandler) Approve(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reg, err := rh.registrationService.Approve(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"registration": reg})
}

func (rh *RegistrationHandler) Reject(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reg, err := rh.registrationService.Reject(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"registration": reg})
}

func (rh *RegistrationHandler) Withdraw(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reg, err := rh.registrationService.Withdraw(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"registration": reg})
}

func (rh *RegistrationHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	reg, err := rh.registrationService.Cancel(c.Request.Context(), id)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"registration": reg})
}

func (rh *RegistrationHandler) ListMine(c *gin.Context) {
	regs, err := rh.registrationService.ListMine(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"registrations": regs})
}

func (rh *RegistrationHandler) ListPending(c *gin.Context) {
	regs, err := rh.registrationService.ListPending(c.Request.Context())
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"registrations": regs})
}

func (rh *RegistrationHandler) ListBySession(c *gin.Context) {
	sessionID, ok := parseIDParam(c, "sessionId")
	if !ok {
		return
	}
	regs, err := rh.registrationService.ListBySession(c.Request.Context(), sessionID)
	if err != nil {
		RespondError(c, err)
		return
	}
	RespondOK(c, gin.H{"registrations": regs})
}

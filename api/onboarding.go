package api

import (
	"net/http"
	"time"

	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/auth"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/domain"
	"github.com/Blank-Slate-Dev/drivlet-sub007/internal/service/onboarding"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OnboardingHandler struct {
	service onboarding.OnboardingUseCase
}

type signContractsRequest struct {
	EmploymentAccepted bool `json:"employment_accepted"`
	ConductAccepted    bool `json:"conduct_accepted"`
	DeductionsAccepted bool `json:"deductions_accepted"`
	PrivacyAccepted    bool `json:"privacy_accepted"`
}

type driverResponse struct {
	ID                string  `json:"id"`
	Status            string  `json:"status"`
	OnboardingStatus  string  `json:"onboarding_status"`
	EmploymentType    string  `json:"employment_type"`
	CanAcceptJobs     bool    `json:"can_accept_jobs"`
	InsuranceEligible bool    `json:"insurance_eligible"`
	EmployeeStartDate *string `json:"employee_start_date,omitempty"`
}

func NewOnboardingHandler(service onboarding.OnboardingUseCase) *OnboardingHandler {
	return &OnboardingHandler{service: service}
}

func (h *OnboardingHandler) Register(router *gin.RouterGroup, admin *gin.RouterGroup) {
	router.GET("/onboarding", h.status)
	router.POST("/onboarding/contracts", h.signContracts)
	admin.POST("/drivers/:id/approve", h.approve)
	admin.POST("/drivers/:id/reject", h.reject)
}

func (h *OnboardingHandler) status(c *gin.Context) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	driver, err := h.service.Status(c.Request.Context(), claims.UID())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverResponse(driver))
}

func (h *OnboardingHandler) signContracts(c *gin.Context) {
	claims := auth.FromContext(c)
	if claims == nil {
		respondError(c, domain.ErrUnauthenticated)
		return
	}

	var req signContractsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	driver, err := h.service.SignContracts(c.Request.Context(), claims.UID(), domain.ContractAcceptance{
		EmploymentAccepted: req.EmploymentAccepted,
		ConductAccepted:    req.ConductAccepted,
		DeductionsAccepted: req.DeductionsAccepted,
		PrivacyAccepted:    req.PrivacyAccepted,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverResponse(driver))
}

func (h *OnboardingHandler) approve(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver id"})
		return
	}
	driver, err := h.service.Approve(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverResponse(driver))
}

func (h *OnboardingHandler) reject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid driver id"})
		return
	}
	driver, err := h.service.Reject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDriverResponse(driver))
}

func toDriverResponse(d *domain.Driver) driverResponse {
	resp := driverResponse{
		ID:                d.ID.String(),
		Status:            string(d.Status),
		OnboardingStatus:  string(d.OnboardingStatus),
		EmploymentType:    string(d.EmploymentType),
		CanAcceptJobs:     d.CanAcceptJobs,
		InsuranceEligible: d.InsuranceEligible(),
	}
	if d.EmployeeStartDate != nil {
		start := d.EmployeeStartDate.Format(time.RFC3339)
		resp.EmployeeStartDate = &start
	}
	return resp
}

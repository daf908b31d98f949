package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/internal/dto"
	"github.com/plarivier/corebank/internal/middleware"
)

// beneficiaryHandler handles HTTP requests related to saved transfer targets.
type beneficiaryHandler struct {
	beneficiaryService portssvc.BeneficiarySvcFacade
}

func newBeneficiaryHandler(bs portssvc.BeneficiarySvcFacade) *beneficiaryHandler {
	return &beneficiaryHandler{beneficiaryService: bs}
}

// registerBeneficiaryRoutes registers all beneficiary-related routes.
func registerBeneficiaryRoutes(rg *gin.RouterGroup, beneficiaryService portssvc.BeneficiarySvcFacade) {
	h := newBeneficiaryHandler(beneficiaryService)

	beneficiaries := rg.Group("/beneficiaries")
	{
		beneficiaries.POST("", h.addBeneficiary)
		beneficiaries.GET("", h.listBeneficiaries)
	}
}

// addBeneficiary godoc
// @Summary Save a beneficiary
// @Description Saves another user's account under an alias for future transfers.
// @Tags beneficiaries
// @Accept json
// @Produce json
// @Param beneficiary body dto.CreateBeneficiaryRequest true "Beneficiary details"
// @Success 201 {object} dto.BeneficiaryResponse
// @Failure 400 {object} ErrorResponse "Own account or invalid input"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown IBAN"
// @Failure 409 {object} ErrorResponse "Already saved"
// @Security BearerAuth
// @Router /beneficiaries [post]
func (h *beneficiaryHandler) addBeneficiary(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateBeneficiaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	beneficiary, err := h.beneficiaryService.AddBeneficiary(c.Request.Context(), req, userID)
	if err != nil {
		respondWithServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToBeneficiaryResponse(beneficiary))
}

// listBeneficiaries godoc
// @Summary List beneficiaries
// @Description Lists the caller's saved beneficiaries.
// @Tags beneficiaries
// @Produce json
// @Success 200 {array} dto.BeneficiaryResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /beneficiaries [get]
func (h *beneficiaryHandler) listBeneficiaries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	beneficiaries, err := h.beneficiaryService.ListBeneficiaries(c.Request.Context(), userID)
	if err != nil {
		respondWithServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListBeneficiaryResponse(beneficiaries))
}

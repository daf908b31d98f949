package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/plarivier/corebank/internal/core/ports/services"
	"github.com/plarivier/corebank/internal/dto"
	"github.com/plarivier/corebank/internal/middleware"
)

// depositHandler handles HTTP requests related to deposits.
type depositHandler struct {
	depositService portssvc.DepositSvcFacade
}

func newDepositHandler(ds portssvc.DepositSvcFacade) *depositHandler {
	return &depositHandler{depositService: ds}
}

// registerDepositRoutes registers deposit routes under the accounts group.
func registerDepositRoutes(accounts *gin.RouterGroup, depositService portssvc.DepositSvcFacade) {
	h := newDepositHandler(depositService)

	accounts.POST("/:accountID/deposits", h.createDeposit)
	accounts.GET("/:accountID/deposits", h.listDeposits)
}

// createDeposit godoc
// @Summary Deposit into an account
// @Description Credits the account. Overflow past the balance ceiling on non-primary accounts is deposited into the owner's primary account instead.
// @Tags deposits
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param deposit body dto.CreateDepositRequest true "Deposit details"
// @Success 201 {object} dto.DepositResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/deposits [post]
func (h *depositHandler) createDeposit(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	deposit, err := h.depositService.Deposit(c.Request.Context(), c.Param("accountID"), req.Amount, req.Description, userID)
	if err != nil {
		respondWithServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, dto.ToDepositResponse(deposit))
}

// listDeposits godoc
// @Summary List deposits
// @Description Lists the account's deposits, newest first.
// @Tags deposits
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {array} dto.DepositResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /accounts/{accountID}/deposits [get]
func (h *depositHandler) listDeposits(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	deposits, err := h.depositService.ListDeposits(c.Request.Context(), c.Param("accountID"), userID)
	if err != nil {
		respondWithServiceError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.ToListDepositResponse(deposits))
}

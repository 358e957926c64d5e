package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1/request"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1/response"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/repository"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/service"
)

type SignupService interface {
	Submit(ctx context.Context, signup domain.Signup) (domain.Signup, error)
	List(ctx context.Context, filter repository.SignupFilter) ([]domain.Signup, error)
	Approve(ctx context.Context, id uint) (domain.Signup, error)
	Reject(ctx context.Context, id uint, reason string) (domain.Signup, error)
}

type SignupHandler struct {
	svc SignupService
}

func NewSignupHandler(svc SignupService) *SignupHandler {
	return &SignupHandler{
		svc: svc,
	}
}

// HandleSubmitSignup godoc
// @Summary      Sign up for a market day
// @Description  Musicians, volunteers and non-profits request a spot on a market day. Every signup starts pending.
// @Tags         signups
// @Accept       json
// @Produce      json
// @Param        input  body      request.SubmitSignupRequest  true  "Signup"
// @Success      201    {object}  domain.Signup
// @Failure      400    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /signups [post]
func (h *SignupHandler) HandleSubmitSignup(ctx *gin.Context) {
	var req request.SubmitSignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	date, _ := domain.ParseDay(req.Date)

	signup, err := h.svc.Submit(ctx.Request.Context(), domain.Signup{
		Role:         domain.SignupRole(req.Role),
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		Organization: req.Organization,
		MarketDate:   date,
		Notes:        req.Notes,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateSignup) {
			response.RenderErr(ctx, response.ErrConflict(err))
			return
		}

		err = fmt.Errorf("HandleSubmitSignup -> h.svc.Submit -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, signup)
}

// HandleListSignups godoc
// @Summary      List signups
// @Tags         signups
// @Produce      json
// @Param        status  query     string  false  "Pending, Approved or Rejected"
// @Param        role    query     string  false  "musician, volunteer or nonprofit"
// @Success      200     {array}   domain.Signup
// @Failure      400     {object}  response.Err
// @Failure      500     {object}  response.Err
// @Router       /signups [get]
func (h *SignupHandler) HandleListSignups(ctx *gin.Context) {
	var query request.ListSignupsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := query.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	signups, err := h.svc.List(ctx.Request.Context(), repository.SignupFilter{
		Status: domain.SignupStatus(query.Status),
		Role:   domain.SignupRole(query.Role),
	})
	if err != nil {
		err = fmt.Errorf("HandleListSignups -> h.svc.List -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, signups)
}

// HandleApproveSignup godoc
// @Summary      Approve a pending signup
// @Tags         signups
// @Produce      json
// @Param        signupID  path      int  true  "Signup ID"
// @Success      200       {object}  domain.Signup
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /signups/{signupID}/approve [post]
func (h *SignupHandler) HandleApproveSignup(ctx *gin.Context) {
	signupID, ok := parseSignupID(ctx)
	if !ok {
		return
	}

	signup, err := h.svc.Approve(ctx.Request.Context(), signupID)
	if err != nil {
		renderReviewErr(ctx, signupID, fmt.Errorf("HandleApproveSignup -> h.svc.Approve -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, signup)
}

// HandleRejectSignup godoc
// @Summary      Reject a pending signup
// @Tags         signups
// @Accept       json
// @Produce      json
// @Param        signupID  path      int                          true  "Signup ID"
// @Param        input     body      request.RejectSignupRequest  true  "Reason"
// @Success      200       {object}  domain.Signup
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Failure      409       {object}  response.Err
// @Failure      500       {object}  response.Err
// @Router       /signups/{signupID}/reject [post]
func (h *SignupHandler) HandleRejectSignup(ctx *gin.Context) {
	signupID, ok := parseSignupID(ctx)
	if !ok {
		return
	}

	var req request.RejectSignupRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	signup, err := h.svc.Reject(ctx.Request.Context(), signupID, req.Reason)
	if err != nil {
		renderReviewErr(ctx, signupID, fmt.Errorf("HandleRejectSignup -> h.svc.Reject -> %w", err))
		return
	}

	ctx.JSON(http.StatusOK, signup)
}

func parseSignupID(ctx *gin.Context) (uint, bool) {
	signupID, err := strconv.ParseUint(ctx.Param("signupID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid signup ID: %w", err)))
		return 0, false
	}

	return uint(signupID), true
}

func renderReviewErr(ctx *gin.Context, signupID uint, err error) {
	switch {
	case errors.Is(err, service.ErrSignupNotFound):
		response.RenderErr(ctx, response.ErrNotFound("signup", "id", signupID))
	case errors.Is(err, service.ErrSignupNotPending):
		response.RenderErr(ctx, response.ErrConflict(service.ErrSignupNotPending))
	default:
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1/request"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1/response"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/service"
)

type MarketService interface {
	ListVendors(ctx context.Context) ([]domain.Vendor, error)
	CreateVendor(ctx context.Context, vendor domain.Vendor) (domain.Vendor, error)
	ListAttendance(ctx context.Context, date time.Time) ([]domain.AttendanceRecord, error)
	AssignStall(ctx context.Context, vendorID uint, date time.Time, stallID string) (domain.AttendanceRecord, error)
	RemoveAssignment(ctx context.Context, id uint) error
}

type MarketHandler struct {
	svc MarketService
}

func NewMarketHandler(svc MarketService) *MarketHandler {
	return &MarketHandler{
		svc: svc,
	}
}

// HandleListVendors godoc
// @Summary      List vendors
// @Tags         vendors
// @Produce      json
// @Success      200  {array}   domain.Vendor
// @Failure      500  {object}  response.Err
// @Router       /vendors [get]
func (h *MarketHandler) HandleListVendors(ctx *gin.Context) {
	vendors, err := h.svc.ListVendors(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListVendors -> h.svc.ListVendors -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, vendors)
}

// HandleCreateVendor godoc
// @Summary      Add a vendor
// @Tags         vendors
// @Accept       json
// @Produce      json
// @Param        input  body      request.CreateVendorRequest  true  "Vendor details"
// @Success      201    {object}  domain.Vendor
// @Failure      400    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /vendors [post]
func (h *MarketHandler) HandleCreateVendor(ctx *gin.Context) {
	var req request.CreateVendorRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	vendor, err := h.svc.CreateVendor(ctx.Request.Context(), domain.Vendor{
		Name:         req.Name,
		VendorType:   req.VendorType,
		Description:  req.Description,
		Website:      req.Website,
		Tags:         req.Tags,
		DefaultStall: req.DefaultStall,
	})
	if err != nil {
		err = fmt.Errorf("HandleCreateVendor -> h.svc.CreateVendor -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, vendor)
}

// HandleListAttendance godoc
// @Summary      List stall assignments for a market day
// @Tags         attendance
// @Produce      json
// @Param        date  query     string  true  "Market day (YYYY-MM-DD)"
// @Success      200   {array}   domain.AttendanceRecord
// @Failure      400   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /attendance [get]
func (h *MarketHandler) HandleListAttendance(ctx *gin.Context) {
	var query request.DateQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := query.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	date, err := domain.ParseDay(query.Date)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("date: %w", err)))
		return
	}

	records, err := h.svc.ListAttendance(ctx.Request.Context(), date)
	if err != nil {
		err = fmt.Errorf("HandleListAttendance -> h.svc.ListAttendance -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, records)
}

// HandleAssignStall godoc
// @Summary      Assign a vendor to a stall
// @Description  Books a stall for a vendor on a market day. Without a stall id the vendor's default stall is used.
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        input  body      request.AssignStallRequest  true  "Assignment"
// @Success      201    {object}  domain.AttendanceRecord
// @Failure      400    {object}  response.Err
// @Failure      404    {object}  response.Err
// @Failure      409    {object}  response.Err
// @Failure      500    {object}  response.Err
// @Router       /attendance [post]
func (h *MarketHandler) HandleAssignStall(ctx *gin.Context) {
	var req request.AssignStallRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	date, _ := domain.ParseDay(req.Date)

	record, err := h.svc.AssignStall(ctx.Request.Context(), req.VendorID, date, req.StallID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVendorNotFound):
			response.RenderErr(ctx, response.ErrNotFound("vendor", "id", req.VendorID))
		case errors.Is(err, service.ErrDuplicateAttendance):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrInvalidStallID):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		default:
			err = fmt.Errorf("HandleAssignStall -> h.svc.AssignStall -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusCreated, record)
}

// HandleRemoveAssignment godoc
// @Summary      Remove a stall assignment
// @Tags         attendance
// @Param        attendanceID  path  int  true  "Attendance ID"
// @Success      204
// @Failure      400  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /attendance/{attendanceID} [delete]
func (h *MarketHandler) HandleRemoveAssignment(ctx *gin.Context) {
	attendanceID, err := strconv.ParseUint(ctx.Param("attendanceID"), 10, 64)
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(fmt.Errorf("invalid attendance ID: %w", err)))
		return
	}

	err = h.svc.RemoveAssignment(ctx.Request.Context(), uint(attendanceID))
	if err != nil {
		if errors.Is(err, service.ErrAttendanceNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("attendance", "id", attendanceID))
			return
		}

		err = fmt.Errorf("HandleRemoveAssignment -> h.svc.RemoveAssignment -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.Status(http.StatusNoContent)
}

package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1/request"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1/response"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

type MapService interface {
	AnchorDate(ctx context.Context) (*time.Time, error)
	MapData(ctx context.Context, date *time.Time) (domain.MapData, error)
	DateOptions(ctx context.Context) ([]domain.DateOption, error)
}

type MapHandler struct {
	svc MapService
}

func NewMapHandler(svc MapService) *MapHandler {
	return &MapHandler{
		svc: svc,
	}
}

// HandleListMarketDates godoc
// @Summary      List market dates
// @Description  Returns every market day as an option for the date selector.
// @Tags         map
// @Produce      json
// @Success      200  {array}   domain.DateOption
// @Failure      500  {object}  response.Err
// @Router       /market-dates [get]
func (h *MapHandler) HandleListMarketDates(ctx *gin.Context) {
	options, err := h.svc.DateOptions(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleListMarketDates -> h.svc.DateOptions -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, options)
}

// HandleGetAnchorDate godoc
// @Summary      Get the default market date
// @Description  Resolves the market day the map opens on. The date is empty when there is none.
// @Tags         map
// @Produce      json
// @Success      200  {object}  response.AnchorDate
// @Failure      500  {object}  response.Err
// @Router       /market-dates/anchor [get]
func (h *MapHandler) HandleGetAnchorDate(ctx *gin.Context) {
	anchor, err := h.svc.AnchorDate(ctx.Request.Context())
	if err != nil {
		err = fmt.Errorf("HandleGetAnchorDate -> h.svc.AnchorDate -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	resp := response.AnchorDate{}
	if anchor != nil {
		resp.Date = domain.FormatDay(*anchor)
	}

	ctx.JSON(http.StatusOK, resp)
}

// HandleGetMapData godoc
// @Summary      Get map data for a market day
// @Description  Vendors with their stalls on the given day plus all stall layouts and points of interest. Without a date the default market day is used.
// @Tags         map
// @Produce      json
// @Param        date  query     string  false  "Market day (YYYY-MM-DD)"
// @Success      200   {object}  domain.MapData
// @Failure      400   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /map/data [get]
func (h *MapHandler) HandleGetMapData(ctx *gin.Context) {
	var query request.DateQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := query.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	var date *time.Time
	if query.Date != "" {
		day, _ := domain.ParseDay(query.Date)
		date = &day
	} else {
		anchor, err := h.svc.AnchorDate(ctx.Request.Context())
		if err != nil {
			err = fmt.Errorf("HandleGetMapData -> h.svc.AnchorDate -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
			return
		}
		date = anchor
	}

	data, err := h.svc.MapData(ctx.Request.Context(), date)
	if err != nil {
		err = fmt.Errorf("HandleGetMapData -> h.svc.MapData -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, data)
}

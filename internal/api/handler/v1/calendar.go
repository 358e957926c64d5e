package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1/request"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/api/handler/v1/response"
	"github.com/DubuqueMainStreet/DFM-V2-sub000/internal/domain"
)

// Calendar requests are capped at about one season.
const maxCalendarSpan = 366 * 24 * time.Hour

var errCalendarRange = errors.New("to must not be before from and the range must be at most one year")

type CalendarService interface {
	Coverage(ctx context.Context, from, to time.Time) ([]domain.DayCoverage, error)
}

type CalendarHandler struct {
	svc CalendarService
}

func NewCalendarHandler(svc CalendarService) *CalendarHandler {
	return &CalendarHandler{
		svc: svc,
	}
}

// HandleGetCalendar godoc
// @Summary      Market calendar coverage
// @Description  For each market day between from and to (inclusive): distinct vendors, occupied stalls, total stalls and approved musicians, volunteers and non-profits.
// @Tags         calendar
// @Produce      json
// @Param        from  query     string  true  "First day (YYYY-MM-DD)"
// @Param        to    query     string  true  "Last day (YYYY-MM-DD)"
// @Success      200   {object}  response.Calendar
// @Failure      400   {object}  response.Err
// @Failure      500   {object}  response.Err
// @Router       /calendar [get]
func (h *CalendarHandler) HandleGetCalendar(ctx *gin.Context) {
	var query request.CalendarQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := query.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	from, _ := domain.ParseDay(query.From)
	to, _ := domain.ParseDay(query.To)
	if to.Before(from) || to.Sub(from) > maxCalendarSpan {
		response.RenderErr(ctx, response.ErrBadRequest(errCalendarRange))
		return
	}

	days, err := h.svc.Coverage(ctx.Request.Context(), from, to)
	if err != nil {
		err = fmt.Errorf("HandleGetCalendar -> h.svc.Coverage -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.Calendar{
		From: domain.FormatDay(from),
		To:   domain.FormatDay(to),
		Days: days,
	})
}

package http

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/comitanigiacomo/kanso-health/internal/adapters/handler/http/middleware"
	"github.com/comitanigiacomo/kanso-health/internal/core/domain"
	"github.com/comitanigiacomo/kanso-health/internal/core/services"
	"github.com/comitanigiacomo/kanso-health/internal/core/weekly"
)

var errInvalidDatetime = fmt.Errorf("%w: unparsable datetime", domain.ErrInvalidRecord)

// Clock resolves "now" and the zone used for timestamps that carry none.
// SummaryService satisfies it.
type Clock interface {
	Now() time.Time
	Location() *time.Location
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRecord),
		errors.Is(err, domain.ErrInvalidIntensity),
		errors.Is(err, domain.ErrNoteTooLong),
		errors.Is(err, domain.ErrUnknownMetric),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrPasswordTooShort),
		errors.Is(err, domain.ErrInvalidProfile),
		errors.Is(err, domain.ErrInvalidCategoryName):
		c.JSON(http.StatusBadRequest, middleware.ErrorBody(err.Error()))

	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, middleware.ErrorBody("invalid credentials"))

	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, middleware.ErrorBody("unauthorized access"))

	case errors.Is(err, domain.ErrRecordNotFound),
		errors.Is(err, domain.ErrUserNotFound),
		errors.Is(err, domain.ErrCategoryNotFound):
		c.JSON(http.StatusNotFound, middleware.ErrorBody("resource not found"))

	case errors.Is(err, domain.ErrUsernameTaken):
		c.JSON(http.StatusConflict, middleware.ErrorBody("username already taken"))

	case errors.Is(err, domain.ErrCategoryExists):
		c.JSON(http.StatusConflict, middleware.ErrorBody("category already exists"))

	case errors.Is(err, domain.ErrProfileIncomplete):
		c.JSON(http.StatusUnprocessableEntity, middleware.ErrorBody(err.Error()))

	default:
		_ = c.Error(err)
		zerolog.Ctx(c.Request.Context()).Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Msg("request failed")

		c.JSON(http.StatusInternalServerError, middleware.ErrorBody("internal server error"))
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, middleware.ErrorBody(err.Error()))
}

func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, middleware.ErrorBody("unauthorized"))
	}
	return userID, ok
}

// resolveTime parses a request timestamp; empty means now.
func resolveTime(raw string, clock Clock) (time.Time, error) {
	if raw == "" {
		return clock.Now(), nil
	}
	t, ok := weekly.ParseTimestamp(raw, clock.Location())
	if !ok {
		return time.Time{}, errInvalidDatetime
	}
	return t, nil
}

// optionalTime is resolveTime for PATCH bodies, where nil leaves the value alone.
func optionalTime(raw *string, clock Clock) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	if *raw == "" {
		return nil, errInvalidDatetime
	}
	t, err := resolveTime(*raw, clock)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

var errIncompleteRange = fmt.Errorf("%w: from and to must be given together", domain.ErrInvalidRecord)

// listRecords answers a record list request. With ?from=&to= only records
// inside [from, to) are returned.
func listRecords[R domain.Record](c *gin.Context, svc *services.RecordService[R], clock Clock, order func(a, b R) int) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	rawFrom, rawTo := c.Query("from"), c.Query("to")

	var (
		list []R
		err  error
	)
	switch {
	case rawFrom == "" && rawTo == "":
		list, err = svc.List(c.Request.Context(), userID, order)
	case rawFrom == "" || rawTo == "":
		badRequest(c, errIncompleteRange)
		return
	default:
		from, fromErr := resolveTime(rawFrom, clock)
		to, toErr := resolveTime(rawTo, clock)
		if fromErr != nil || toErr != nil {
			badRequest(c, errInvalidDatetime)
			return
		}
		list, err = svc.ListInRange(c.Request.Context(), userID, from, to, order)
	}
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, orEmpty(list))
}

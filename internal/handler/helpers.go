package handler

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/kado/internal/middleware"
	"github.com/xxxsen/kado/internal/pkg/errcode"
	appErr "github.com/xxxsen/kado/internal/pkg/errors"
	"github.com/xxxsen/kado/internal/pkg/response"
)

func getStaffID(c *gin.Context) int64 {
	value, _ := c.Get(middleware.ContextStaffIDKey)
	staffID, _ := value.(int64)
	return staffID
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID, _ := c.Get(middleware.ContextRequestIDKey)
	logutil.GetLogger(c.Request.Context()).Error("request failed",
		zap.Any("request_id", requestID),
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Int64("staff_id", getStaffID(c)),
		zap.Error(err),
	)
	switch {
	case errors.Is(err, appErr.ErrUnauthorized):
		response.Error(c, errcode.ErrUnauthorized, err.Error())
	case errors.Is(err, appErr.ErrForbidden):
		response.Error(c, errcode.ErrForbidden, err.Error())
	case errors.Is(err, appErr.ErrNotFound):
		response.Error(c, errcode.ErrNotFound, err.Error())
	case errors.Is(err, appErr.ErrInvalid):
		response.Error(c, errcode.ErrInvalid, err.Error())
	case errors.Is(err, appErr.ErrConflict):
		response.Error(c, errcode.ErrConflict, err.Error())
	default:
		response.Error(c, errcode.ErrInternal, "internal error")
	}
}

func parseID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// collectIDs gathers ids from repeated or comma separated "id" query values
// and from a json "remove" list. Values that are not positive integers are
// dropped.
func collectIDs(queryValues []string, bodyValues []interface{}) []int64 {
	ids := make([]int64, 0, len(queryValues)+len(bodyValues))
	for _, value := range queryValues {
		for _, part := range strings.Split(value, ",") {
			if id, ok := parseID(part); ok {
				ids = append(ids, id)
			}
		}
	}
	for _, value := range bodyValues {
		switch v := value.(type) {
		case float64:
			if v > 0 && v < math.MaxInt64 && v == math.Trunc(v) {
				ids = append(ids, int64(v))
			}
		case string:
			if id, ok := parseID(v); ok {
				ids = append(ids, id)
			}
		}
	}
	return ids
}

type removeRequest struct {
	Remove []interface{} `json:"remove"`
}

// bindRemoveIDs reads ids for delete endpoints. An empty or absent body is
// allowed; a body that is not valid json is not.
func bindRemoveIDs(c *gin.Context) ([]int64, error) {
	var req removeRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			return nil, appErr.Invalid("invalid request body")
		}
	}
	return collectIDs(c.QueryArray("id"), req.Remove), nil
}

func titleKind(kind string) string {
	if kind == "" {
		return kind
	}
	return strings.ToUpper(kind[:1]) + kind[1:]
}

package helper_util

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPageParams reads 1-indexed page/limit query parameters, matching the
// pagination contract of the admin dashboards.
func GetPageParams(c *gin.Context) (page int, limit int, err error) {
	page, err = strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		return 0, 0, err
	}
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil {
		return 0, 0, err
	}
	return page, limit, nil
}

// GetPaginationParams reads limit/offset query parameters for the policy
// listing endpoints.
func GetPaginationParams(c *gin.Context) (limit int, offset int, err error) {
	limit, err = strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		return 0, 0, err
	}
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil {
		return 0, 0, err
	}
	return limit, offset, nil
}

package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/resto-pos/services"
	"github.com/yeremiapane/resto-pos/utils"
)

// respondServiceError maps the service error taxonomy onto HTTP statuses:
// not-found 404, validation 400, business-rule conflict 409, anything else
// is a storage or transport failure and reports 500.
func respondServiceError(c *gin.Context, err error) {
	switch {
	case services.IsNotFound(err):
		utils.RespondError(c, http.StatusNotFound, err)
	case services.IsValidation(err):
		utils.RespondError(c, http.StatusBadRequest, err)
	case services.IsConflict(err):
		utils.RespondError(c, http.StatusConflict, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

package controllers

import (
	"log"
	"net/http"

	"github.com/eidbazar/eidbazar-api/services"
	"github.com/gin-gonic/gin"
)

func sendJSONResponse(ctx *gin.Context, status int, data gin.H) {
	ctx.JSON(status, data)
}

func sendErrorResponse(ctx *gin.Context, status int, message string) {
	sendJSONResponse(ctx, status, gin.H{"message": message})
}

// sendServiceError maps a typed service error to its HTTP status. Expected
// outcomes (validation, not-found, conflict) are returned without logging;
// internal errors are logged as system failures.
func sendServiceError(ctx *gin.Context, svcErr *services.Error) {
	status := http.StatusInternalServerError
	switch svcErr.Kind {
	case services.KindValidation:
		status = http.StatusBadRequest
	case services.KindNotFound:
		status = http.StatusNotFound
	case services.KindConflict:
		status = http.StatusConflict
	case services.KindInternal:
		log.Printf("internal error: %v", svcErr)
	}

	body := gin.H{
		"error":   string(svcErr.Kind),
		"message": svcErr.Message,
	}
	if len(svcErr.Fields) > 0 {
		body["errors"] = svcErr.Fields
	}
	ctx.JSON(status, body)
}

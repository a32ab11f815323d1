package httpapi

import (
	"errors"
	"net/http"

	"github.com/andrewchen30/at-demo-pages-sub000/internal/sheetdb"
	"github.com/gin-gonic/gin"
)

// All endpoints answer with the same envelope: {"success": true,
// "data": ...} or {"success": false, "error": "..."}.

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

// respondStoreError maps store errors onto HTTP statuses: missing rows
// are 404, unusable models are 400, everything else is 500 with the
// message passed through verbatim.
func respondStoreError(c *gin.Context, err error) {
	var notFound *sheetdb.NotFoundError
	if errors.As(err, &notFound) {
		respondError(c, http.StatusNotFound, err.Error())
		return
	}
	var config *sheetdb.ConfigurationError
	if errors.As(err, &config) {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respondError(c, http.StatusInternalServerError, err.Error())
}

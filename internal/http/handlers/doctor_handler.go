// Doctor directory HTTP handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListDoctors handles GET /api/doctors.
func (h *Handlers) ListDoctors(c *gin.Context) {
	docs, err := h.docSvc.ListDoctors(c.Request.Context())
	if err != nil {
		fail(c, http.StatusServiceUnavailable, ErrCodeStoreUnavailable, "service temporarily unavailable")
		return
	}
	ok(c, http.StatusOK, docs)
}

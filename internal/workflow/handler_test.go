package workflow

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mswdo/soloparent-backend/database"
)

func writeErrorStatus(t *testing.T, err error) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	h := &Handler{}
	h.writeError(c, err)
	return w.Code
}

func TestWriteErrorStatusCodes(t *testing.T) {
	illegal := &ErrIllegalTransition{From: StatusVerified, Event: EventAccept}
	if got := writeErrorStatus(t, illegal); got != http.StatusConflict {
		t.Fatalf("illegal transition: code = %d, want 409", got)
	}
	if got := writeErrorStatus(t, gorm.ErrRecordNotFound); got != http.StatusNotFound {
		t.Fatalf("missing user: code = %d, want 404", got)
	}
	// Exhausted lock retries surface as a plain retryable 500.
	wrapped := fmt.Errorf("update status: %w", database.ErrRetriesExhausted)
	if got := writeErrorStatus(t, wrapped); got != http.StatusInternalServerError {
		t.Fatalf("retry exhaustion: code = %d, want 500", got)
	}
}

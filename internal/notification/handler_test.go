package notification

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func inboxRequest(t *testing.T, h *Handler, userID string, actorID uint, role string) int {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "userId", Value: userID}}
	c.Set("actor_id", actorID)
	c.Set("role", role)
	h.GetInbox(c)
	return w.Code
}

func TestGetInboxOwnership(t *testing.T) {
	repo := newTestRepo(t)
	h := NewHandler(repo)

	if err := repo.InsertAcceptedUnlessUnread(nil, 2, "Your application has been verified"); err != nil {
		t.Fatalf("seed: %v", err)
	}

	// An applicant cannot read another applicant's inbox.
	if got := inboxRequest(t, h, "2", 1, "user"); got != http.StatusForbidden {
		t.Fatalf("foreign inbox: code = %d, want 403", got)
	}
	// Their own inbox is fine.
	if got := inboxRequest(t, h, "2", 2, "user"); got != http.StatusOK {
		t.Fatalf("own inbox: code = %d, want 200", got)
	}
	// Staff may read any inbox.
	if got := inboxRequest(t, h, "2", 9, "admin"); got != http.StatusOK {
		t.Fatalf("admin read: code = %d, want 200", got)
	}
	if got := inboxRequest(t, h, "2", 1, "superadmin"); got != http.StatusOK {
		t.Fatalf("superadmin read: code = %d, want 200", got)
	}
}

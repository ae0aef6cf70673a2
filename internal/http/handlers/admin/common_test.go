package admin

import (
	"errors"
	"net/http"
	"testing"

	"github.com/devgjhbj-wq/admin-nexus/internal/mutation"
	"github.com/devgjhbj-wq/admin-nexus/internal/rbslot"
	"github.com/devgjhbj-wq/admin-nexus/internal/shared/apperr"
)

func TestHref(t *testing.T) {
	if got := href("/users", "page", "", "open", ""); got != "/users" {
		t.Fatalf("empty params: %q", got)
	}
	if got := href("/deposits", "page", "2", "user_id", "u 1"); got != "/deposits?page=2&user_id=u+1" {
		t.Fatalf("got %q", got)
	}
	if got := actionURL("deposits", "DP/1", mutation.Reject, "page", "3"); got != "/deposits/DP%2F1/reject?page=3" {
		t.Fatalf("actionURL = %q", got)
	}
}

func TestParsePage(t *testing.T) {
	for in, want := range map[string]int{"": 1, "0": 1, "-2": 1, "x": 1, "4": 4, " 7 ": 7} {
		if got := parsePage(in); got != want {
			t.Errorf("parsePage(%q) = %d, want %d", in, got, want)
		}
	}
	if pageParam(1) != "" || pageParam(3) != "3" {
		t.Fatal("pageParam must drop the first page")
	}
}

func TestUpstream(t *testing.T) {
	expired := &rbslot.RequestError{Op: "users", Status: http.StatusUnauthorized, Message: "Unauthorized"}
	if got := upstream(expired); !errors.Is(got, rbslot.ErrSessionExpired) {
		t.Fatalf("401 must stay a session expiry, got %v", got)
	}

	conflict := upstream(&rbslot.RequestError{Op: "tx", Status: http.StatusConflict, Message: "already processed"})
	if apperr.HTTPStatus(conflict) != http.StatusConflict || apperr.PublicMessage(conflict) != "already processed" {
		t.Fatalf("conflict mapped to %v", conflict)
	}

	down := upstream(&rbslot.TransportError{Op: "tx", Err: errors.New("dial tcp: refused")})
	if apperr.HTTPStatus(down) != http.StatusBadGateway {
		t.Fatalf("transport error mapped to %d", apperr.HTTPStatus(down))
	}
}

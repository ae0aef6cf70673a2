package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{InvalidErr("bad", nil), http.StatusBadRequest},
		{UnauthorizedErr("x"), http.StatusUnauthorized},
		{ForbiddenErr("x"), http.StatusForbidden},
		{NotFoundErr("x"), http.StatusNotFound},
		{ConflictErr("x"), http.StatusConflict},
		{UpstreamErr("x", errors.New("down")), http.StatusBadGateway},
		{Wrap(errors.New("boom")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
		{fmt.Errorf("wrapped: %w", NotFoundErr("x")), http.StatusNotFound},
	}
	for _, tc := range cases {
		if got := HTTPStatus(tc.err); got != tc.want {
			t.Errorf("HTTPStatus(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestFromStatus(t *testing.T) {
	cases := map[int]Kind{
		400: Invalid,
		401: Unauthorized,
		403: Forbidden,
		404: NotFound,
		409: Conflict,
		500: Upstream,
		503: Upstream,
	}
	for status, want := range cases {
		if got := FromStatus(status, "m", nil).Kind; got != want {
			t.Errorf("FromStatus(%d) = %s, want %s", status, got, want)
		}
	}
}

func TestPublicMessage(t *testing.T) {
	if got := PublicMessage(ConflictErr("Already decided")); got != "Already decided" {
		t.Fatalf("got %q", got)
	}
	if got := PublicMessage(errors.New("secret detail")); got != defaultMessage {
		t.Fatalf("internal error leaked: %q", got)
	}
	cause := errors.New("cause")
	if !errors.Is(Wrap(cause), cause) {
		t.Fatal("Wrap must keep the cause")
	}
}

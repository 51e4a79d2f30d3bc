package net

import (
	"errors"
	"net/http"
	"testing"

	perr "pestwatch/internal/platform/errors"
)

func TestSuccess(t *testing.T) {
	status, w := Success(http.StatusCreated, map[string]string{"id": "D1"}, "req-1")
	if status != http.StatusCreated || w.StatusCode != 201 || w.Status != "Created" || w.RequestID != "req-1" {
		t.Fatalf("wire = %+v", w)
	}
	if w.Code != 0 || w.Error != "" {
		t.Fatalf("success should carry no error: %+v", w)
	}
	if status, _ := OK(nil, ""); status != http.StatusOK {
		t.Fatalf("OK status = %d", status)
	}
}

func TestError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   perr.ErrorCode
	}{
		{perr.NotFoundf("detection %q not found", "D1"), http.StatusNotFound, perr.ErrorCodeNotFound},
		{perr.Conflictf("already verified"), http.StatusConflict, perr.ErrorCodeConflict},
		{perr.Unauthorizedf("missing bearer token"), http.StatusUnauthorized, perr.ErrorCodeUnauthorized},
		{errors.New("plain"), http.StatusInternalServerError, perr.ErrorCodeUnknown},
	}
	for _, c := range cases {
		status, w := Error(c.err, "req-2")
		if status != c.status || w.StatusCode != c.status || w.Code != c.code || w.RequestID != "req-2" {
			t.Errorf("%v: status=%d wire=%+v", c.err, status, w)
		}
		if w.Data != nil {
			t.Errorf("error wire carries data: %+v", w)
		}
	}
	if status, _ := Error(nil, ""); status != http.StatusOK {
		t.Fatalf("nil error status = %d", status)
	}
}

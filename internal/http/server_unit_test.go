package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/souravhub/employee-login-backend/internal/apperr"
	"github.com/souravhub/employee-login-backend/internal/model"
)

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"bearer abc":   "abc",
		"Bearer  abc ": "abc",
		"abc":          "",
		"Basic abc":    "",
		"":             "",
		"Bearer":       "",
	}
	for header, expect := range cases {
		if got := bearerToken(header); got != expect {
			t.Fatalf("header %q: expected %q, got %q", header, expect, got)
		}
	}
}

func TestParsePagination(t *testing.T) {
	query := url.Values{}
	page, limit := parsePagination(query, 2)
	if page != 1 || limit != 2 {
		t.Fatalf("expected defaults 1/2, got %d/%d", page, limit)
	}

	query.Set("page", "3")
	query.Set("limit", "25")
	page, limit = parsePagination(query, 2)
	if page != 3 || limit != 25 {
		t.Fatalf("expected 3/25, got %d/%d", page, limit)
	}

	query.Set("page", "0")
	query.Set("limit", "-5")
	page, limit = parsePagination(query, 50)
	if page != 1 || limit != 50 {
		t.Fatalf("expected invalid values to fall back, got %d/%d", page, limit)
	}

	query.Set("page", "junk")
	query.Set("limit", "junk")
	page, limit = parsePagination(query, 30)
	if page != 1 || limit != 30 {
		t.Fatalf("expected junk values to fall back, got %d/%d", page, limit)
	}
}

func TestParseDay(t *testing.T) {
	day, err := parseDay("2026-03-14")
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if day.Year() != 2026 || day.Month() != time.March || day.Day() != 14 {
		t.Fatalf("unexpected day %s", day)
	}
	if _, err := parseDay(""); err == nil {
		t.Fatalf("expected empty date to error")
	}
	if _, err := parseDay("14/03/2026"); err == nil {
		t.Fatalf("expected wrong format to error")
	}
}

func TestWriteAppErrorStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{apperr.Validation("bad input"), http.StatusBadRequest},
		{apperr.Unauthorized("no"), http.StatusUnauthorized},
		{apperr.Forbidden("no"), http.StatusForbidden},
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Conflict("dupe"), http.StatusConflict},
		{apperr.Internal("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeAppError(rec, tc.err)
		if rec.Code != tc.status {
			t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
		}
		var resp apiResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.StatusCode != tc.status {
			t.Fatalf("expected envelope status %d, got %d", tc.status, resp.StatusCode)
		}
		if resp.Data != nil {
			t.Fatalf("expected nil data on error")
		}
		if resp.Message == "" {
			t.Fatalf("expected error message")
		}
	}
}

func TestMapAttendanceResponse(t *testing.T) {
	loginAt := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	logoutAt := loginAt.Add(8 * time.Hour)
	record := model.AttendanceRecord{
		ID:         "rec-1",
		UserID:     "user-1",
		Day:        time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		LoginDone:  true,
		LoginTime:  loginAt,
		LogoutDone: true,
		LogoutTime: &logoutAt,
		CreatedAt:  loginAt,
	}

	resp := mapAttendanceResponse(record)
	if resp.Day != "2026-03-14" {
		t.Fatalf("expected day string, got %s", resp.Day)
	}
	if !resp.LoginInfo.IsDone || resp.LoginInfo.Time == nil || *resp.LoginInfo.Time != loginAt.Unix() {
		t.Fatalf("unexpected login info %+v", resp.LoginInfo)
	}
	if !resp.LogoutInfo.IsDone || resp.LogoutInfo.Time == nil || *resp.LogoutInfo.Time != logoutAt.Unix() {
		t.Fatalf("unexpected logout info %+v", resp.LogoutInfo)
	}

	record.LogoutDone = false
	record.LogoutTime = nil
	resp = mapAttendanceResponse(record)
	if resp.LogoutInfo.IsDone || resp.LogoutInfo.Time != nil {
		t.Fatalf("expected open logout info, got %+v", resp.LogoutInfo)
	}
}

func TestUserFromContextMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if user := userFromContext(req.Context()); user != nil {
		t.Fatalf("expected nil user without auth")
	}
}

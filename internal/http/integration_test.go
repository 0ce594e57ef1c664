package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"sync"
	"testing"
	"time"
)

type apiEnvelope struct {
	StatusCode int             `json:"statusCode"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
}

type tokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type userPayload struct {
	ID       string `json:"id"`
	UserName string `json:"userName"`
	UserType string `json:"userType"`
}

type loginResult struct {
	tokenPair
	User userPayload `json:"user"`
}

type attendancePayload struct {
	ID        string `json:"id"`
	CreatedBy string `json:"createdBy"`
	Day       string `json:"day"`
	LoginInfo struct {
		IsDone bool   `json:"isDone"`
		Time   *int64 `json:"time"`
	} `json:"loginInfo"`
	LogoutInfo struct {
		IsDone bool   `json:"isDone"`
		Time   *int64 `json:"time"`
	} `json:"logoutInfo"`
}

type recordList struct {
	List       []json.RawMessage `json:"list"`
	TotalCount int               `json:"totalCount"`
}

func baseURL(t *testing.T) string {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") != "1" {
		t.Skip("set INTEGRATION_TESTS=1 to run")
	}
	if addr := os.Getenv("SERVER_HTTP_ADDR"); addr != "" {
		return addr
	}
	return "http://127.0.0.1:8000"
}

func doJSON(t *testing.T, method, url, token string, payload interface{}) (int, apiEnvelope) {
	t.Helper()
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var envelope apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	return resp.StatusCode, envelope
}

func registerUser(t *testing.T, base, userType string) (map[string]string, loginResult) {
	t.Helper()
	suffix := fmt.Sprintf("%d", time.Now().UnixNano())
	creds := map[string]string{
		"userName":   userType + suffix,
		"firstName":  "Test",
		"lastName":   "User",
		"userType":   userType,
		"jobProfile": "engineer",
		"email":      userType + suffix + "@example.com",
		"password":   "dev-password",
	}
	status, _ := doJSON(t, http.MethodPost, base+"/api/v1/users/register", "", creds)
	if status != http.StatusCreated {
		t.Fatalf("register status %d", status)
	}
	return creds, loginUser(t, base, creds["userName"], creds["password"])
}

func loginUser(t *testing.T, base, userName, password string) loginResult {
	t.Helper()
	status, envelope := doJSON(t, http.MethodPost, base+"/api/v1/users/login", "", map[string]string{
		"userName": userName,
		"password": password,
	})
	if status != http.StatusOK {
		t.Fatalf("login status %d: %s", status, envelope.Message)
	}
	var result loginResult
	if err := json.Unmarshal(envelope.Data, &result); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatalf("missing tokens")
	}
	return result
}

func TestRegisterLoginAndDuplicates(t *testing.T) {
	base := baseURL(t)

	creds, session := registerUser(t, base, "user")
	if session.User.UserType != "user" {
		t.Fatalf("expected user type user, got %s", session.User.UserType)
	}

	// Same username again must conflict.
	status, _ := doJSON(t, http.MethodPost, base+"/api/v1/users/register", "", creds)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate register, got %d", status)
	}

	// Wrong password is rejected with a generic message.
	status, envelope := doJSON(t, http.MethodPost, base+"/api/v1/users/login", "", map[string]string{
		"userName": creds["userName"],
		"password": "wrong-password",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 on bad password, got %d", status)
	}
	if envelope.Message != "invalid credentials" {
		t.Fatalf("expected generic message, got %q", envelope.Message)
	}
}

func TestRegisterValidation(t *testing.T) {
	base := baseURL(t)

	// Plain users must carry a job profile.
	status, _ := doJSON(t, http.MethodPost, base+"/api/v1/users/register", "", map[string]string{
		"userName":  fmt.Sprintf("noprofile%d", time.Now().UnixNano()),
		"firstName": "No",
		"lastName":  "Profile",
		"userType":  "user",
		"email":     fmt.Sprintf("noprofile%d@example.com", time.Now().UnixNano()),
		"password":  "dev-password",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 without job profile, got %d", status)
	}
}

func TestAttendanceLifecycle(t *testing.T) {
	base := baseURL(t)
	_, session := registerUser(t, base, "user")
	token := session.AccessToken

	// Logout before any login has nothing to close.
	status, _ := doJSON(t, http.MethodPost, base+"/api/v1/attendance/logout-update", token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 logout without login, got %d", status)
	}

	status, envelope := doJSON(t, http.MethodPost, base+"/api/v1/attendance/create", token, nil)
	if status != http.StatusCreated {
		t.Fatalf("expected 201 on login, got %d: %s", status, envelope.Message)
	}
	var record attendancePayload
	if err := json.Unmarshal(envelope.Data, &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if !record.LoginInfo.IsDone || record.LoginInfo.Time == nil {
		t.Fatalf("expected login marked done")
	}
	if record.LogoutInfo.IsDone {
		t.Fatalf("expected logout still open")
	}

	// Second login on the same day conflicts.
	status, _ = doJSON(t, http.MethodPost, base+"/api/v1/attendance/create", token, nil)
	if status != http.StatusConflict {
		t.Fatalf("expected 409 on second login, got %d", status)
	}

	// Today now reports the open record.
	status, envelope = doJSON(t, http.MethodGet, base+"/api/v1/attendance/today", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on today, got %d", status)
	}
	if string(envelope.Data) == "null" {
		t.Fatalf("expected today record, got null")
	}

	status, envelope = doJSON(t, http.MethodPost, base+"/api/v1/attendance/logout-update", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d: %s", status, envelope.Message)
	}
	if err := json.Unmarshal(envelope.Data, &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	if !record.LogoutInfo.IsDone || record.LogoutInfo.Time == nil {
		t.Fatalf("expected logout marked done")
	}

	// A second logout finds no open record.
	status, _ = doJSON(t, http.MethodPost, base+"/api/v1/attendance/logout-update", token, nil)
	if status != http.StatusNotFound {
		t.Fatalf("expected 404 on second logout, got %d", status)
	}
}

func TestAttendanceTodayEmpty(t *testing.T) {
	base := baseURL(t)
	_, session := registerUser(t, base, "user")

	status, envelope := doJSON(t, http.MethodGet, base+"/api/v1/attendance/today", session.AccessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 with no record, got %d", status)
	}
	if string(envelope.Data) != "null" {
		t.Fatalf("expected null data, got %s", envelope.Data)
	}
}

func TestConcurrentLoginSingleWinner(t *testing.T) {
	base := baseURL(t)
	_, session := registerUser(t, base, "user")
	token := session.AccessToken

	const attempts = 5
	statuses := make([]int, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(slot int) {
			defer wg.Done()
			req, err := http.NewRequest(http.MethodPost, base+"/api/v1/attendance/create", nil)
			if err != nil {
				return
			}
			req.Header.Set("Authorization", "Bearer "+token)
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return
			}
			resp.Body.Close()
			statuses[slot] = resp.StatusCode
		}(i)
	}
	wg.Wait()

	created := 0
	for _, status := range statuses {
		switch status {
		case http.StatusCreated:
			created++
		case http.StatusConflict:
		default:
			t.Fatalf("unexpected status %d", status)
		}
	}
	if created != 1 {
		t.Fatalf("expected exactly one created record, got %d", created)
	}
}

func TestRefreshRotationSingleUse(t *testing.T) {
	base := baseURL(t)
	_, session := registerUser(t, base, "user")

	status, envelope := doJSON(t, http.MethodPost, base+"/api/v1/users/refresh-token", "", map[string]string{
		"refreshToken": session.RefreshToken,
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on refresh, got %d: %s", status, envelope.Message)
	}
	var rotated loginResult
	if err := json.Unmarshal(envelope.Data, &rotated); err != nil {
		t.Fatalf("decode refresh: %v", err)
	}
	if rotated.RefreshToken == session.RefreshToken {
		t.Fatalf("expected a new refresh token")
	}

	// The consumed token must not work a second time.
	status, _ = doJSON(t, http.MethodPost, base+"/api/v1/users/refresh-token", "", map[string]string{
		"refreshToken": session.RefreshToken,
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 on replayed refresh, got %d", status)
	}

	// The rotated one still does.
	status, _ = doJSON(t, http.MethodPost, base+"/api/v1/users/refresh-token", "", map[string]string{
		"refreshToken": rotated.RefreshToken,
	})
	if status != http.StatusOK {
		t.Fatalf("expected 200 on rotated refresh, got %d", status)
	}
}

func TestSessionLogoutRevokesRefresh(t *testing.T) {
	base := baseURL(t)
	_, session := registerUser(t, base, "user")

	status, _ := doJSON(t, http.MethodPost, base+"/api/v1/users/logout", session.AccessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on logout, got %d", status)
	}

	// Logout is idempotent.
	status, _ = doJSON(t, http.MethodPost, base+"/api/v1/users/logout", session.AccessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on repeated logout, got %d", status)
	}

	status, _ = doJSON(t, http.MethodPost, base+"/api/v1/users/refresh-token", "", map[string]string{
		"refreshToken": session.RefreshToken,
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 refresh after logout, got %d", status)
	}
}

func TestOwnRecordsPagination(t *testing.T) {
	base := baseURL(t)
	_, session := registerUser(t, base, "user")
	token := session.AccessToken

	if status, _ := doJSON(t, http.MethodPost, base+"/api/v1/attendance/create", token, nil); status != http.StatusCreated {
		t.Fatalf("attendance create status %d", status)
	}

	today := time.Now().UTC().Format("2006-01-02")
	weekAgo := time.Now().UTC().AddDate(0, 0, -7).Format("2006-01-02")

	// Both dates are required.
	status, _ := doJSON(t, http.MethodGet, base+"/api/v1/attendance/records?startDate="+weekAgo, token, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 without end date, got %d", status)
	}

	status, envelope := doJSON(t, http.MethodGet, base+"/api/v1/attendance/records?startDate="+weekAgo+"&endDate="+today, token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on records, got %d", status)
	}
	var list recordList
	if err := json.Unmarshal(envelope.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.TotalCount != 1 || len(list.List) != 1 {
		t.Fatalf("expected one record, got total=%d len=%d", list.TotalCount, len(list.List))
	}

	// A page past the data is empty but keeps the count.
	status, envelope = doJSON(t, http.MethodGet, base+"/api/v1/attendance/records?startDate="+weekAgo+"&endDate="+today+"&page=5", token, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on empty page, got %d", status)
	}
	if err := json.Unmarshal(envelope.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.TotalCount != 1 || len(list.List) != 0 {
		t.Fatalf("expected empty page with count 1, got total=%d len=%d", list.TotalCount, len(list.List))
	}
}

func TestAdminReporting(t *testing.T) {
	base := baseURL(t)
	_, admin := registerUser(t, base, "admin")
	_, worker := registerUser(t, base, "user")

	if status, _ := doJSON(t, http.MethodPost, base+"/api/v1/attendance/create", admin.AccessToken, nil); status != http.StatusCreated {
		t.Fatalf("admin attendance create failed")
	}
	if status, _ := doJSON(t, http.MethodPost, base+"/api/v1/attendance/create", worker.AccessToken, nil); status != http.StatusCreated {
		t.Fatalf("worker attendance create failed")
	}

	// Admin-only routes reject plain users.
	status, _ := doJSON(t, http.MethodGet, base+"/api/v1/users/user-list", worker.AccessToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin user list, got %d", status)
	}

	today := time.Now().UTC().Format("2006-01-02")
	status, envelope := doJSON(t, http.MethodGet, base+"/api/v1/attendance/all-by-date?date="+today, admin.AccessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on all-by-date, got %d", status)
	}
	var list recordList
	if err := json.Unmarshal(envelope.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	for _, raw := range list.List {
		var entry struct {
			UserInfo userPayload `json:"userInfo"`
		}
		if err := json.Unmarshal(raw, &entry); err != nil {
			t.Fatalf("decode entry: %v", err)
		}
		if entry.UserInfo.UserType == "admin" {
			t.Fatalf("expected admins excluded from daily report")
		}
	}

	// Per-user report validates the id and defaults to a trailing window.
	status, _ = doJSON(t, http.MethodGet, base+"/api/v1/attendance/records/not-a-uuid", admin.AccessToken, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 on bad user id, got %d", status)
	}

	status, envelope = doJSON(t, http.MethodGet, base+"/api/v1/attendance/records/"+worker.User.ID, admin.AccessToken, nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 on per-user report, got %d", status)
	}
	if err := json.Unmarshal(envelope.Data, &list); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if list.TotalCount < 1 {
		t.Fatalf("expected worker record in per-user report")
	}
}

func TestAuthRequired(t *testing.T) {
	base := baseURL(t)

	status, envelope := doJSON(t, http.MethodGet, base+"/api/v1/attendance/today", "", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
	if envelope.Message != "invalid or expired token" {
		t.Fatalf("expected generic auth message, got %q", envelope.Message)
	}

	status, _ = doJSON(t, http.MethodGet, base+"/api/v1/attendance/today", "not-a-jwt", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 with garbage token, got %d", status)
	}
}

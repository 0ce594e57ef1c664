package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/souravhub/employee-login-backend/internal/apperr"
	"github.com/souravhub/employee-login-backend/internal/auth"
	"github.com/souravhub/employee-login-backend/internal/config"
	"github.com/souravhub/employee-login-backend/internal/crypto"
	"github.com/souravhub/employee-login-backend/internal/model"
	"github.com/souravhub/employee-login-backend/internal/repository"
)

const dayFormat = "2006-01-02"

type Server struct {
	cfg     config.Config
	store   *repository.Store
	redis   *redis.Client
	metrics *Metrics
	dayLoc  *time.Location
}

func NewServer(cfg config.Config, store *repository.Store, redisClient *redis.Client, metrics *Metrics) (*Server, error) {
	loc, err := time.LoadLocation(cfg.DayBoundaryTimezone)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg:     cfg,
		store:   store,
		redis:   redisClient,
		metrics: metrics,
		dayLoc:  loc,
	}, nil
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, "ok")
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.metrics.Registry(), promhttp.HandlerOpts{}))

	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/refresh-token", s.handleRefreshToken)

		r.With(s.authMiddleware).Post("/logout", s.handleLogout)
		r.With(s.authMiddleware).Put("/update-info", s.handleUpdateInfo)
		r.With(s.authMiddleware, s.requireAdmin).Get("/user-list", s.handleUserList)
	})

	r.Route("/api/v1/attendance", func(r chi.Router) {
		r.With(s.authMiddleware).Post("/create", s.handleAttendanceLogin)
		r.With(s.authMiddleware).Post("/logout-update", s.handleAttendanceLogout)
		r.With(s.authMiddleware).Get("/today", s.handleAttendanceToday)
		r.With(s.authMiddleware).Get("/records", s.handleListOwnRecords)
		r.With(s.authMiddleware, s.requireAdmin).Get("/all-by-date", s.handleListAllByDate)
		r.With(s.authMiddleware, s.requireAdmin).Get("/records/{userId}", s.handleListByUser)
	})

	return r
}

// Auth

type userKey struct{}

// authMiddleware verifies the bearer access token and then resolves the
// acting user from the store, so deletions and role changes after token
// issuance take effect immediately. Every failure mode gets the same
// generic message.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		claims, err := auth.ParseAccessToken(s.cfg.AccessTokenSecret, token)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		user, err := s.store.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			writeError(w, http.StatusUnauthorized, "invalid or expired token")
			return
		}
		user.PasswordHash = ""
		user.RefreshTokenHash = nil

		ctx := context.WithValue(r.Context(), userKey{}, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := userFromContext(r.Context())
		if user == nil || user.UserType != "admin" {
			writeError(w, http.StatusForbidden, "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userFromContext(ctx context.Context) *model.User {
	value := ctx.Value(userKey{})
	user, _ := value.(*model.User)
	return user
}

// Models

type userSummary struct {
	ID         string  `json:"id"`
	UserName   string  `json:"userName"`
	FirstName  string  `json:"firstName"`
	LastName   string  `json:"lastName"`
	UserType   string  `json:"userType"`
	JobProfile *string `json:"jobProfile,omitempty"`
	Email      string  `json:"email"`
	CreatedAt  int64   `json:"createdAt"`
}

type attendanceEvent struct {
	IsDone bool   `json:"isDone"`
	Time   *int64 `json:"time,omitempty"`
}

type attendanceResponse struct {
	ID         string          `json:"id"`
	CreatedBy  string          `json:"createdBy"`
	Day        string          `json:"day"`
	LoginInfo  attendanceEvent `json:"loginInfo"`
	LogoutInfo attendanceEvent `json:"logoutInfo"`
	CreatedAt  int64           `json:"createdAt"`
}

type attendanceWithUserResponse struct {
	attendanceResponse
	UserInfo userSummary `json:"userInfo"`
}

type listResponse struct {
	List       interface{} `json:"list"`
	TotalCount int         `json:"totalCount"`
}

func mapUserSummary(user model.User) userSummary {
	return userSummary{
		ID:         user.ID,
		UserName:   user.UserName,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		UserType:   user.UserType,
		JobProfile: user.JobProfile,
		Email:      user.Email,
		CreatedAt:  user.CreatedAt.Unix(),
	}
}

func mapAttendanceResponse(record model.AttendanceRecord) attendanceResponse {
	resp := attendanceResponse{
		ID:        record.ID,
		CreatedBy: record.UserID,
		Day:       record.Day.Format(dayFormat),
		LoginInfo: attendanceEvent{IsDone: record.LoginDone},
		CreatedAt: record.CreatedAt.Unix(),
	}
	if record.LoginDone {
		loginTime := record.LoginTime.Unix()
		resp.LoginInfo.Time = &loginTime
	}
	resp.LogoutInfo = attendanceEvent{IsDone: record.LogoutDone}
	if record.LogoutTime != nil {
		logoutTime := record.LogoutTime.Unix()
		resp.LogoutInfo.Time = &logoutTime
	}
	return resp
}

func mapAttendanceWithUser(entry model.AttendanceWithUser) attendanceWithUserResponse {
	return attendanceWithUserResponse{
		attendanceResponse: mapAttendanceResponse(entry.Record),
		UserInfo:           mapUserSummary(entry.User),
	}
}

// User handlers

type registerRequest struct {
	UserName   string `json:"userName"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	UserType   string `json:"userType"`
	JobProfile string `json:"jobProfile"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.UserName = strings.TrimSpace(strings.ToLower(req.UserName))
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.UserType = strings.TrimSpace(strings.ToLower(req.UserType))
	req.JobProfile = strings.TrimSpace(req.JobProfile)
	if req.UserType == "" {
		req.UserType = "user"
	}

	if req.UserName == "" || req.FirstName == "" || req.LastName == "" || req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}
	if req.UserType != "user" && req.UserType != "admin" {
		writeError(w, http.StatusBadRequest, "invalid user type")
		return
	}
	if req.UserType == "user" && req.JobProfile == "" {
		writeError(w, http.StatusBadRequest, "job profile is required")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	now := time.Now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		UserName:     req.UserName,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		UserType:     req.UserType,
		Email:        req.Email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.JobProfile != "" {
		user.JobProfile = &req.JobProfile
	}

	if err := s.store.CreateUser(r.Context(), user); err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapUserSummary(user), "user registered successfully")
}

type loginRequest struct {
	UserName string `json:"userName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type tokenPairResponse struct {
	User         userSummary `json:"user"`
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	handle := strings.TrimSpace(strings.ToLower(req.UserName))
	if handle == "" {
		handle = strings.TrimSpace(strings.ToLower(req.Email))
	}
	if handle == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "username or email and password are required")
		return
	}

	allowed, err := s.allowLoginAttempt(r.Context(), handle, clientIP(r))
	if err == nil && !allowed {
		writeError(w, http.StatusTooManyRequests, "too many login attempts")
		return
	}

	user, err := s.store.GetUserByHandle(r.Context(), handle)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.recordLoginFailure(r.Context(), handle, clientIP(r))
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	if err := crypto.CheckPassword(user.PasswordHash, req.Password); err != nil {
		s.recordLoginFailure(r.Context(), handle, clientIP(r))
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	accessToken, refreshToken, err := s.issueTokenPair(r.Context(), user)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	s.metrics.RecordSessionLogin()
	user.PasswordHash = ""
	user.RefreshTokenHash = nil
	writeJSON(w, http.StatusOK, tokenPairResponse{
		User:         mapUserSummary(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, "logged in successfully")
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (s *Server) handleRefreshToken(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refresh token is required")
		return
	}

	claims, err := auth.ParseRefreshToken(s.cfg.RefreshTokenSecret, req.RefreshToken)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	user, err := s.store.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired refresh token")
		return
	}

	newToken, err := auth.NewRefreshToken(s.cfg.RefreshTokenSecret, s.cfg.JWTIssuer, s.cfg.RefreshTokenTTL, user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	// Single compare-and-swap against the stored handle: a stale or reused
	// token loses the swap and is rejected without retry.
	swapped, err := s.store.RotateRefreshTokenHash(r.Context(), user.ID, crypto.HashToken(req.RefreshToken), crypto.HashToken(newToken), time.Now().UTC())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if !swapped {
		s.metrics.RecordRotationReplay()
		writeError(w, http.StatusUnauthorized, "refresh token expired or used")
		return
	}

	accessToken, err := auth.NewAccessToken(s.cfg.AccessTokenSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.AccessClaims{
		UserID:   user.ID,
		Email:    user.Email,
		UserName: user.UserName,
		UserType: user.UserType,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	user.PasswordHash = ""
	user.RefreshTokenHash = nil
	writeJSON(w, http.StatusOK, tokenPairResponse{
		User:         mapUserSummary(user),
		AccessToken:  accessToken,
		RefreshToken: newToken,
	}, "token refreshed successfully")
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	if err := s.store.ClearRefreshTokenHash(r.Context(), user.ID); err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	writeJSON(w, http.StatusOK, nil, "logged out successfully")
}

type updateInfoRequest struct {
	FirstName  *string `json:"firstName,omitempty"`
	LastName   *string `json:"lastName,omitempty"`
	JobProfile *string `json:"jobProfile,omitempty"`
	Email      *string `json:"email,omitempty"`
	Password   *string `json:"password,omitempty"`
}

func (s *Server) handleUpdateInfo(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	var req updateInfoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	update := repository.UserUpdate{}
	if req.FirstName != nil {
		first := strings.TrimSpace(*req.FirstName)
		if first != "" {
			update.FirstName = &first
		}
	}
	if req.LastName != nil {
		last := strings.TrimSpace(*req.LastName)
		if last != "" {
			update.LastName = &last
		}
	}
	if req.JobProfile != nil {
		profile := strings.TrimSpace(*req.JobProfile)
		if profile != "" {
			update.JobProfile = &profile
		}
	}
	if req.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*req.Email))
		if email != "" {
			update.Email = &email
		}
	}
	if req.Password != nil && strings.TrimSpace(*req.Password) != "" {
		hash, err := crypto.HashPassword(*req.Password)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "server error")
			return
		}
		update.PasswordHash = &hash
	}

	updated, err := s.store.UpdateUser(r.Context(), user.ID, update)
	if err != nil {
		writeAppError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, mapUserSummary(updated), "user info updated successfully")
}

func (s *Server) handleUserList(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	users, err := s.store.ListUsers(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	summaries := make([]userSummary, 0, len(users))
	for _, user := range users {
		summaries = append(summaries, mapUserSummary(user))
	}
	writeJSON(w, http.StatusOK, summaries, "user list fetched successfully")
}

// Attendance handlers

func (s *Server) handleAttendanceLogin(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	now := time.Now().UTC()
	record, err := s.store.CreateLogin(r.Context(), user.ID, now, repository.DayOf(now, s.dayLoc))
	if err != nil {
		if apperr.KindOf(err) == apperr.KindConflict {
			s.metrics.RecordAttendanceConflict()
		}
		writeAppError(w, err)
		return
	}

	s.metrics.RecordAttendanceLogin()
	writeJSON(w, http.StatusCreated, mapAttendanceResponse(record), "attendance login recorded")
}

func (s *Server) handleAttendanceLogout(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	now := time.Now().UTC()
	record, err := s.store.CompleteLogout(r.Context(), user.ID, now, repository.DayOf(now, s.dayLoc))
	if err != nil {
		writeAppError(w, err)
		return
	}

	s.metrics.RecordAttendanceLogout()
	writeJSON(w, http.StatusOK, mapAttendanceResponse(record), "attendance logout recorded")
}

func (s *Server) handleAttendanceToday(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	record, found, err := s.store.FindByDay(r.Context(), user.ID, repository.DayOf(time.Now().UTC(), s.dayLoc))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}
	if !found {
		writeJSON(w, http.StatusOK, nil, "no attendance record found for today")
		return
	}

	writeJSON(w, http.StatusOK, mapAttendanceResponse(record), "attendance record found for today")
}

func (s *Server) handleListOwnRecords(w http.ResponseWriter, r *http.Request) {
	user := userFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
		return
	}

	query := r.URL.Query()
	startDay, err := parseDay(query.Get("startDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "please provide both start and end dates")
		return
	}
	endDay, err := parseDay(query.Get("endDate"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "please provide both start and end dates")
		return
	}

	page, limit := parsePagination(query, 2)
	records, total, err := s.store.ListOwn(r.Context(), user.ID, startDay, endDay, limit, (page-1)*limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	list := make([]attendanceResponse, 0, len(records))
	for _, record := range records {
		list = append(list, mapAttendanceResponse(record))
	}
	writeJSON(w, http.StatusOK, listResponse{List: list, TotalCount: total}, "attendance records fetched")
}

func (s *Server) handleListAllByDate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	day, err := parseDay(query.Get("date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "please provide a date")
		return
	}

	page, limit := parsePagination(query, 50)
	entries, total, err := s.store.ListAllByDay(r.Context(), day, limit, (page-1)*limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	list := make([]attendanceWithUserResponse, 0, len(entries))
	for _, entry := range entries {
		list = append(list, mapAttendanceWithUser(entry))
	}
	writeJSON(w, http.StatusOK, listResponse{List: list, TotalCount: total}, "attendance records fetched")
}

func (s *Server) handleListByUser(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "userId")
	if _, err := uuid.Parse(targetID); err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	query := r.URL.Query()
	today := repository.DayOf(time.Now().UTC(), s.dayLoc)

	startDay := today.AddDate(0, 0, -30)
	if raw := query.Get("startDate"); raw != "" {
		parsed, err := parseDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid start date")
			return
		}
		startDay = parsed
	}
	endDay := today
	if raw := query.Get("endDate"); raw != "" {
		parsed, err := parseDay(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid end date")
			return
		}
		endDay = parsed
	}

	page, limit := parsePagination(query, 30)
	entries, total, err := s.store.ListByUserBetween(r.Context(), targetID, startDay, endDay, limit, (page-1)*limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "server error")
		return
	}

	list := make([]attendanceWithUserResponse, 0, len(entries))
	for _, entry := range entries {
		list = append(list, mapAttendanceWithUser(entry))
	}
	writeJSON(w, http.StatusOK, listResponse{List: list, TotalCount: total}, "attendance records fetched")
}

// Token issuance

func (s *Server) issueTokenPair(ctx context.Context, user model.User) (string, string, error) {
	accessToken, err := auth.NewAccessToken(s.cfg.AccessTokenSecret, s.cfg.JWTIssuer, s.cfg.AccessTokenTTL, auth.AccessClaims{
		UserID:   user.ID,
		Email:    user.Email,
		UserName: user.UserName,
		UserType: user.UserType,
	})
	if err != nil {
		return "", "", err
	}

	refreshToken, err := auth.NewRefreshToken(s.cfg.RefreshTokenSecret, s.cfg.JWTIssuer, s.cfg.RefreshTokenTTL, user.ID)
	if err != nil {
		return "", "", err
	}

	if err := s.store.SetRefreshTokenHash(ctx, user.ID, crypto.HashToken(refreshToken), time.Now().UTC()); err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// Helpers

func parseDay(raw string) (time.Time, error) {
	return time.Parse(dayFormat, strings.TrimSpace(raw))
}

func parsePagination(query url.Values, defaultLimit int) (int, int) {
	page := 1
	limit := defaultLimit
	if raw := query.Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed >= 1 {
			page = parsed
		}
	}
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	return page, limit
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}

func decodeJSON(r *http.Request, out interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

type apiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, nil, message)
}

func writeAppError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	message := "server error"
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		message = appErr.Message
		switch appErr.Kind {
		case apperr.KindValidation:
			status = http.StatusBadRequest
		case apperr.KindUnauthorized:
			status = http.StatusUnauthorized
		case apperr.KindForbidden:
			status = http.StatusForbidden
		case apperr.KindNotFound:
			status = http.StatusNotFound
		case apperr.KindConflict:
			status = http.StatusConflict
		default:
			status = http.StatusInternalServerError
		}
	}
	writeError(w, status, message)
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/souravhub/employee-login-backend/internal/apperr"
	"github.com/souravhub/employee-login-backend/internal/model"
)

// DayOf maps a timestamp onto its calendar day in the configured day
// boundary location. The result is a midnight-UTC date value so the
// date column receives the same day regardless of session timezone.
func DayOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}

const recordColumns = `id, user_id, day, login_done, login_time, logout_done, logout_time, created_at`

func scanRecord(row pgx.Row) (model.AttendanceRecord, error) {
	var record model.AttendanceRecord
	err := row.Scan(
		&record.ID,
		&record.UserID,
		&record.Day,
		&record.LoginDone,
		&record.LoginTime,
		&record.LogoutDone,
		&record.LogoutTime,
		&record.CreatedAt,
	)
	return record, err
}

// CreateLogin inserts the day's record in a single statement. The partial
// unique index on (user_id, day) is the only double-login check: when two
// concurrent calls race, exactly one insert lands and the other surfaces
// as a unique violation.
func (s *Store) CreateLogin(ctx context.Context, userID string, now, day time.Time) (model.AttendanceRecord, error) {
	record := model.AttendanceRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		Day:       day,
		LoginDone: true,
		LoginTime: now,
		CreatedAt: now,
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO attendance_records (id, user_id, day, login_done, login_time, logout_done, created_at)
		VALUES ($1, $2, $3, TRUE, $4, FALSE, $5)
	`, record.ID, record.UserID, record.Day, record.LoginTime, record.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.AttendanceRecord{}, apperr.Conflict("you have already logged in today")
		}
		return model.AttendanceRecord{}, err
	}
	return record, nil
}

// CompleteLogout closes the day's open record with one conditional update.
// The time predicate keeps the ordering invariant inside the same atomic
// statement; the follow-up read only classifies why nothing matched.
func (s *Store) CompleteLogout(ctx context.Context, userID string, now, day time.Time) (model.AttendanceRecord, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE attendance_records
		SET logout_done = TRUE, logout_time = $3
		WHERE user_id = $1 AND day = $2 AND login_done AND NOT logout_done AND $3 > login_time
		RETURNING `+recordColumns+`
	`, userID, day, now)
	record, err := scanRecord(row)
	if err == nil {
		return record, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return model.AttendanceRecord{}, err
	}

	existing, found, lookupErr := s.FindByDay(ctx, userID, day)
	if lookupErr != nil {
		return model.AttendanceRecord{}, lookupErr
	}
	if found && !existing.LogoutDone && !now.After(existing.LoginTime) {
		return model.AttendanceRecord{}, apperr.Validation("logout time must be after login time")
	}
	return model.AttendanceRecord{}, apperr.NotFound("no login record found for logout")
}

// FindByDay returns the user's record for the given day. A missing record
// is a normal state, reported through the bool rather than an error.
func (s *Store) FindByDay(ctx context.Context, userID string, day time.Time) (model.AttendanceRecord, bool, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE user_id = $1 AND day = $2 AND login_done
	`, userID, day)
	record, err := scanRecord(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.AttendanceRecord{}, false, nil
	}
	if err != nil {
		return model.AttendanceRecord{}, false, err
	}
	return record, true, nil
}

// ListOwn returns the caller's records within [startDay, endDay], newest
// first, with the total computed independently of the page window.
func (s *Store) ListOwn(ctx context.Context, userID string, startDay, endDay time.Time, limit, offset int) ([]model.AttendanceRecord, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+recordColumns+`
		FROM attendance_records
		WHERE user_id = $1 AND day BETWEEN $2 AND $3
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5
	`, userID, startDay, endDay, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	records := make([]model.AttendanceRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM attendance_records
		WHERE user_id = $1 AND day BETWEEN $2 AND $3
	`, userID, startDay, endDay).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

const joinedColumns = `r.id, r.user_id, r.day, r.login_done, r.login_time, r.logout_done, r.logout_time, r.created_at,
		       u.id, u.user_name, u.first_name, u.last_name, u.user_type, u.job_profile, u.email, u.created_at, u.updated_at`

func scanJoined(rows pgx.Rows) (model.AttendanceWithUser, error) {
	var entry model.AttendanceWithUser
	err := rows.Scan(
		&entry.Record.ID,
		&entry.Record.UserID,
		&entry.Record.Day,
		&entry.Record.LoginDone,
		&entry.Record.LoginTime,
		&entry.Record.LogoutDone,
		&entry.Record.LogoutTime,
		&entry.Record.CreatedAt,
		&entry.User.ID,
		&entry.User.UserName,
		&entry.User.FirstName,
		&entry.User.LastName,
		&entry.User.UserType,
		&entry.User.JobProfile,
		&entry.User.Email,
		&entry.User.CreatedAt,
		&entry.User.UpdatedAt,
	)
	return entry, err
}

// ListAllByDay returns every non-admin user's record for one day, joined
// with the owner's profile. Admin identities are excluded from reporting.
func (s *Store) ListAllByDay(ctx context.Context, day time.Time, limit, offset int) ([]model.AttendanceWithUser, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+joinedColumns+`
		FROM attendance_records r
		JOIN users u ON u.id = r.user_id
		WHERE r.day = $1 AND u.user_type <> 'admin'
		ORDER BY r.created_at DESC
		LIMIT $2 OFFSET $3
	`, day, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]model.AttendanceWithUser, 0)
	for rows.Next() {
		entry, err := scanJoined(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM attendance_records r
		JOIN users u ON u.id = r.user_id
		WHERE r.day = $1 AND u.user_type <> 'admin'
	`, day).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListByUserBetween returns one user's records within [startDay, endDay]
// joined with the owner's profile, for the admin per-user report.
func (s *Store) ListByUserBetween(ctx context.Context, userID string, startDay, endDay time.Time, limit, offset int) ([]model.AttendanceWithUser, int, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+joinedColumns+`
		FROM attendance_records r
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1 AND r.day BETWEEN $2 AND $3
		ORDER BY r.created_at DESC
		LIMIT $4 OFFSET $5
	`, userID, startDay, endDay, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	entries := make([]model.AttendanceWithUser, 0)
	for rows.Next() {
		entry, err := scanJoined(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM attendance_records
		WHERE user_id = $1 AND day BETWEEN $2 AND $3
	`, userID, startDay, endDay).Scan(&total)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

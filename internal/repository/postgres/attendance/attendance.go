package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"presence/backend/foundation/web"
	"presence/backend/internal/entity"
	"presence/backend/internal/pkg/repository/postgresql"
	"presence/backend/internal/repository/postgres"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// isUniqueViolation reports whether the error is a postgres unique constraint
// violation (one event per user per branch per work day).
func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C') == "23505"
	}
	return false
}

// ExistsForDay reports whether a committed attendance event already exists
// for (user, branch, work day).
func (r Repository) ExistsForDay(ctx context.Context, userID, branchID int, workDay string) (bool, error) {
	var exists bool

	query := `
		SELECT EXISTS(
			SELECT 1 FROM attendance_events
			WHERE deleted_at IS NULL AND user_id = ? AND branch_id = ? AND work_day = ?
		)
	`

	if err := r.QueryRowContext(ctx, query, userID, branchID, workDay).Scan(&exists); err != nil {
		return false, errors.Wrap(err, "checking existing attendance")
	}

	return exists, nil
}

// CreateClockIn inserts a "present" attendance event. A unique violation on
// (user, branch, work day) comes back as postgres.ErrAlreadyExists so the
// caller can treat the attempt as already marked.
func (r Repository) CreateClockIn(ctx context.Context, request ClockInRequest) (ClockInResponse, error) {
	response := ClockInResponse{
		UserID:             request.UserID,
		DeviceID:           request.DeviceID,
		OrganizationID:     request.OrganizationID,
		BranchID:           request.BranchID,
		WorkDay:            request.ClockIn.Format("2006-01-02"),
		ClockIn:            request.ClockIn,
		Status:             entity.AttendanceStatusPresent,
		ConfidenceScore:    request.ConfidenceScore,
		VerificationMethod: request.VerificationMethod,
		PhotoUrl:           request.PhotoUrl,
		Synced:             true,
		CreatedAt:          time.Now(),
		CreatedBy:          request.CreatedBy,
	}

	_, err := r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if isUniqueViolation(err) {
		return ClockInResponse{}, postgres.ErrAlreadyExists
	}
	if err != nil {
		return ClockInResponse{}, errors.Wrap(err, "creating attendance event")
	}

	return response, nil
}

// Deliver is the sync-queue flush path. It shares the insert with
// CreateClockIn but swallows the unique violation: a record the store already
// has counts as delivered.
func (r Repository) Deliver(ctx context.Context, request ClockInRequest) error {
	_, err := r.CreateClockIn(ctx, request)
	if errors.Is(err, postgres.ErrAlreadyExists) {
		return nil
	}
	return err
}

// ClockOut closes today's open event for the user.
func (r Repository) ClockOut(ctx context.Context, request ClockOutRequest) (ClockOutResponse, error) {
	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return ClockOutResponse{}, err
	}

	if err := r.ValidateStruct(&request, "UserID", "BranchID"); err != nil {
		return ClockOutResponse{}, err
	}

	today := time.Now().Format("2006-01-02")
	now := time.Now()

	var response ClockOutResponse
	var clockIn time.Time

	query := `
		SELECT id, clock_in FROM attendance_events
		WHERE deleted_at IS NULL AND user_id = ? AND branch_id = ? AND work_day = ? AND clock_out IS NULL
	`
	err = r.QueryRowContext(ctx, query, request.UserID, request.BranchID, today).Scan(&response.ID, &clockIn)
	if errors.Is(err, sql.ErrNoRows) {
		return ClockOutResponse{}, web.NewRequestError(errors.New("no open attendance event today"), http.StatusNotFound)
	}
	if err != nil {
		return ClockOutResponse{}, web.NewRequestError(errors.Wrap(err, "selecting open attendance"), http.StatusInternalServerError)
	}

	q := r.NewUpdate().Table("attendance_events").Where("id = ?", response.ID)
	q.Set("clock_out = ?", now)
	q.Set("updated_at = ?", now)
	q.Set("updated_by = ?", claims.UserId)

	if _, err = q.Exec(ctx); err != nil {
		return ClockOutResponse{}, web.NewRequestError(errors.Wrap(err, "updating attendance clock out"), http.StatusBadRequest)
	}

	response.UserID = request.UserID
	response.ClockOut = now

	diff := now.Sub(clockIn)
	response.TotalHours = fmt.Sprintf("%02d:%02d", int(diff.Hours()), int(diff.Minutes())%60)

	return response, nil
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, 0, err
	}

	whereQuery := `
		WHERE
			a.deleted_at IS NULL
	`

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, " ", "", -1)
		search = strings.Replace(search, "'", "''", -1)

		whereQuery += fmt.Sprintf(` AND (
		u.staff_id ilike '%s' OR u.full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	if filter.BranchID != nil {
		whereQuery += fmt.Sprintf(` AND a.branch_id = %d`, *filter.BranchID)
	}
	if filter.UserID != nil {
		whereQuery += fmt.Sprintf(` AND a.user_id = %d`, *filter.UserID)
	}
	if filter.Status != nil {
		status := strings.Replace(*filter.Status, "'", "''", -1)
		whereQuery += fmt.Sprintf(` AND a.status = '%s'`, status)
	}

	if filter.Date != nil {
		day, err := time.Parse("2006-01-02", *filter.Date)
		if err != nil {
			return []GetListResponse{}, 0, web.NewRequestError(errors.Wrap(err, "date parse"), http.StatusBadRequest)
		}
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", day.Format("2006-01-02"))
	} else {
		today := time.Now().Format("2006-01-02")
		whereQuery += fmt.Sprintf(" AND a.work_day = '%s'", today)
	}

	orderQuery := "ORDER BY a.created_at desc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery = fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}
	if filter.Offset != nil {
		offsetQuery = fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			a.id,
			a.user_id,
			u.staff_id,
			u.full_name,
			a.branch_id,
			b.name,
			a.device_id,
			a.work_day,
			a.status,
			a.confidence_score,
			a.verification_method,
			a.clock_in,
			a.clock_out
		FROM attendance_events a
		LEFT JOIN users u ON a.user_id = u.id
		LEFT JOIN branches b ON a.branch_id = b.id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting attendance"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		var workDayString string

		if err = rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.StaffID,
			&detail.FullName,
			&detail.BranchID,
			&detail.Branch,
			&detail.DeviceID,
			&workDayString,
			&detail.Status,
			&detail.ConfidenceScore,
			&detail.VerificationMethod,
			&detail.ClockIn,
			&detail.ClockOut); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance list"), http.StatusBadRequest)
		}

		workDay, err := date.ParseDate(workDayString)
		if err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusBadRequest)
		}
		detail.WorkDay = &workDay

		detail.TotalHours = totalHours(detail.ClockIn, detail.ClockOut)

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(a.id)
		FROM attendance_events a
		LEFT JOIN users u ON a.user_id = u.id
		LEFT JOIN branches b ON a.branch_id = b.id
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning attendance count"), http.StatusInternalServerError)
	}

	return list, count, nil
}

func totalHours(clockIn, clockOut *time.Time) string {
	if clockIn == nil || clockOut == nil {
		return ""
	}
	diff := clockOut.Sub(*clockIn)
	return fmt.Sprintf("%02d:%02d", int(diff.Hours()), int(diff.Minutes())%60)
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := `
		SELECT
			a.id,
			a.user_id,
			u.staff_id,
			u.full_name,
			a.branch_id,
			b.name,
			a.device_id,
			a.work_day,
			a.status,
			a.confidence_score,
			a.verification_method,
			a.photo_url,
			a.clock_in,
			a.clock_out
		FROM attendance_events a
		LEFT JOIN users u ON a.user_id = u.id
		LEFT JOIN branches b ON a.branch_id = b.id
		WHERE a.deleted_at IS NULL AND a.id = ?
	`

	var detail GetDetailByIdResponse
	var workDayString string

	err = r.QueryRowContext(ctx, query, id).Scan(
		&detail.ID,
		&detail.UserID,
		&detail.StaffID,
		&detail.FullName,
		&detail.BranchID,
		&detail.Branch,
		&detail.DeviceID,
		&workDayString,
		&detail.Status,
		&detail.ConfidenceScore,
		&detail.VerificationMethod,
		&detail.PhotoUrl,
		&detail.ClockIn,
		&detail.ClockOut,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusNotFound)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance detail"), http.StatusInternalServerError)
	}

	workDay, err := date.ParseDate(workDayString)
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusBadRequest)
	}
	detail.WorkDay = &workDay
	detail.TotalHours = totalHours(detail.ClockIn, detail.ClockOut)

	return detail, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	claims, err := r.CheckClaims(ctx)
	if err != nil {
		return err
	}

	q := r.NewUpdate().Table("attendance_events").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.ClockIn != "" {
		clockIn, err := time.Parse("15:04", request.ClockIn)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "parsing clock in"), http.StatusBadRequest)
		}
		q.Set("clock_in = ?", clockIn)
	}
	if request.ClockOut != "" {
		clockOut, err := time.Parse("15:04", request.ClockOut)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "parsing clock out"), http.StatusBadRequest)
		}
		q.Set("clock_out = ?", clockOut)
	}
	if request.Status != nil {
		q.Set("status = ?", request.Status)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	if _, err = q.Exec(ctx); err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating attendance"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "attendance_events", id)
}

func (r Repository) GetStatistics(ctx context.Context, organizationID int) (GetStatisticResponse, error) {
	var response GetStatisticResponse

	query := `
	SELECT
		(SELECT COUNT(id) FROM users WHERE deleted_at IS NULL AND organization_id = $1 AND role = 'EMPLOYEE') AS total_staff,
		(SELECT COUNT(id) FROM attendance_events WHERE deleted_at IS NULL AND organization_id = $1 AND work_day = CURRENT_DATE) AS present_today,
		(SELECT COUNT(u.id) FROM users u WHERE u.deleted_at IS NULL AND u.organization_id = $1 AND u.role = 'EMPLOYEE'
			AND NOT EXISTS (
				SELECT 1 FROM attendance_events a
				WHERE a.deleted_at IS NULL AND a.user_id = u.id AND a.work_day = CURRENT_DATE
			)) AS absent_today,
		(SELECT COUNT(id) FROM attendance_events WHERE deleted_at IS NULL AND organization_id = $1 AND work_day = CURRENT_DATE AND verification_method = 'face') AS face_verified,
		(SELECT COUNT(id) FROM attendance_events WHERE deleted_at IS NULL AND organization_id = $1 AND work_day = CURRENT_DATE AND clock_out IS NULL) AS still_in
	`

	err := r.DB.QueryRowContext(ctx, query, organizationID).Scan(
		&response.TotalStaff,
		&response.PresentToday,
		&response.AbsentToday,
		&response.FaceVerified,
		&response.StillIn,
	)
	if err != nil {
		return GetStatisticResponse{}, web.NewRequestError(errors.Wrap(err, "fetching statistics"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) GetPieChartStatistic(ctx context.Context, organizationID int) (PieChartResponse, error) {
	query := `
	WITH today AS (
		SELECT
			(SELECT COUNT(id) FROM attendance_events
				WHERE deleted_at IS NULL AND organization_id = $1 AND work_day = CURRENT_DATE) AS present_count,
			(SELECT COUNT(id) FROM users
				WHERE deleted_at IS NULL AND organization_id = $1 AND role = 'EMPLOYEE') AS total_count
	)
	SELECT
		COALESCE(ROUND(100.0 * present_count / GREATEST(1, total_count), 2), 0) AS present_percentage,
		COALESCE(ROUND(100.0 * (total_count - present_count) / GREATEST(1, total_count), 2), 0) AS absent_percentage
	FROM today
	`

	var present, absent float64
	if err := r.QueryRowContext(ctx, query, organizationID).Scan(&present, &absent); err != nil {
		return PieChartResponse{}, web.NewRequestError(errors.Wrap(err, "fetching pie chart data"), http.StatusBadRequest)
	}

	presentInt := int(present)
	absentInt := int(absent)

	return PieChartResponse{Present: &presentInt, Absent: &absentInt}, nil
}

func (r Repository) GetBarChartStatistic(ctx context.Context, organizationID int) ([]BarChartResponse, error) {
	query := `
	WITH branch_attendance AS (
		SELECT
			b.id AS branch_id,
			b.name,
			COUNT(a.id) AS present_count,
			(SELECT COUNT(u.id) FROM users u
				WHERE u.deleted_at IS NULL AND u.branch_id = b.id AND u.role = 'EMPLOYEE') AS total_count
		FROM branches b
		LEFT JOIN attendance_events a
			ON a.branch_id = b.id AND a.deleted_at IS NULL AND a.work_day = CURRENT_DATE
		WHERE b.deleted_at IS NULL AND b.organization_id = $1
		GROUP BY b.id, b.name
	)
	SELECT
		name,
		COALESCE(ROUND(100.0 * present_count / GREATEST(1, total_count), 2), 0) AS percentage
	FROM branch_attendance
	`

	rows, err := r.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "fetching bar chart data"), http.StatusBadRequest)
	}
	defer rows.Close()

	var results []BarChartResponse
	for rows.Next() {
		var result BarChartResponse
		if err := rows.Scan(&result.Branch, &result.Percentage); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning bar chart row"), http.StatusBadRequest)
		}
		results = append(results, result)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

func (r Repository) GetGraphStatistic(ctx context.Context, organizationID int, filter GraphRequest) ([]GraphResponse, error) {
	var startDay, endDay int
	switch filter.Interval {
	case 0:
		startDay, endDay = 1, 10
	case 1:
		startDay, endDay = 11, 20
	case 2:
		startDay, endDay = 21, 31
	default:
		return nil, web.NewRequestError(errors.New("invalid interval"), http.StatusBadRequest)
	}

	startDate := time.Date(filter.Month.Year(), filter.Month.Month(), startDay, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(filter.Month.Year(), filter.Month.Month(), endDay, 23, 59, 59, 999999999, time.UTC)

	query := `
	WITH daily AS (
		SELECT
			a.work_day,
			COUNT(a.id) AS present_count,
			(SELECT COUNT(id) FROM users
				WHERE deleted_at IS NULL AND organization_id = $1 AND role = 'EMPLOYEE') AS total_count
		FROM attendance_events a
		WHERE a.deleted_at IS NULL
			AND a.organization_id = $1
			AND a.work_day BETWEEN $2 AND $3
		GROUP BY a.work_day
	)
	SELECT
		work_day,
		COALESCE(ROUND(100.0 * present_count / GREATEST(1, total_count), 2), 0) AS percentage
	FROM daily
	ORDER BY work_day
	`

	rows, err := r.DB.QueryContext(ctx, query, organizationID, startDate, endDate)
	if err != nil {
		return []GraphResponse{}, web.NewRequestError(errors.Wrap(err, "selecting attendance graph"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []GraphResponse
	for rows.Next() {
		var detail GraphResponse
		var workDayString string

		if err = rows.Scan(&workDayString, &detail.Percentage); err != nil {
			return []GraphResponse{}, web.NewRequestError(errors.Wrap(err, "scanning graph response"), http.StatusBadRequest)
		}

		workDay, err := date.ParseDate(workDayString)
		if err != nil {
			return []GraphResponse{}, web.NewRequestError(errors.Wrap(err, "converting work_day to date.Date"), http.StatusBadRequest)
		}
		detail.WorkDay = &workDay
		list = append(list, detail)
	}

	return list, nil
}

// GetExportRows returns one row per event of the given day for the excel
// report.
func (r Repository) GetExportRows(ctx context.Context, organizationID int, day string) ([]ExportRow, error) {
	_, err := r.CheckClaims(ctx)
	if err != nil {
		return nil, err
	}

	query := `
		SELECT
			COALESCE(u.staff_id, ''),
			COALESCE(u.full_name, ''),
			COALESCE(b.name, ''),
			a.work_day::text,
			COALESCE(to_char(a.clock_in, 'HH24:MI'), ''),
			COALESCE(to_char(a.clock_out, 'HH24:MI'), ''),
			COALESCE(a.status, ''),
			COALESCE(a.verification_method, '')
		FROM attendance_events a
		LEFT JOIN users u ON a.user_id = u.id
		LEFT JOIN branches b ON a.branch_id = b.id
		WHERE a.deleted_at IS NULL AND a.organization_id = ? AND a.work_day = ?
		ORDER BY a.clock_in
	`

	rows, err := r.QueryContext(ctx, query, organizationID, day)
	if err != nil {
		return nil, web.NewRequestError(errors.Wrap(err, "selecting export rows"), http.StatusInternalServerError)
	}
	defer rows.Close()

	var list []ExportRow
	for rows.Next() {
		var row ExportRow
		if err = rows.Scan(
			&row.StaffID,
			&row.FullName,
			&row.Branch,
			&row.WorkDay,
			&row.ClockIn,
			&row.ClockOut,
			&row.Status,
			&row.VerificationMethod,
		); err != nil {
			return nil, web.NewRequestError(errors.Wrap(err, "scanning export row"), http.StatusBadRequest)
		}
		list = append(list, row)
	}

	return list, nil
}

package leave

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"
	"time"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/entity"
	"presence/backend/internal/pkg/repository/postgresql"
	"presence/backend/internal/repository/postgres"

	"github.com/pkg/errors"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

func (r Repository) GetList(ctx context.Context, filter Filter) ([]GetListResponse, int, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee, auth.RoleDashboard)
	if err != nil {
		return nil, 0, err
	}

	organizationID := claims.OrganizationId
	if filter.OrganizationID != nil {
		organizationID = *filter.OrganizationID
	}

	whereQuery := fmt.Sprintf(`WHERE l.deleted_at IS NULL AND l.organization_id = %d`, organizationID)

	if filter.UserID != nil {
		whereQuery += fmt.Sprintf(` AND l.user_id = %d`, *filter.UserID)
	}
	if filter.Status != nil {
		whereQuery += fmt.Sprintf(` AND l.status = '%s'`, strings.ToLower(*filter.Status))
	}

	orderQuery := "ORDER BY l.created_at desc"

	var limitQuery, offsetQuery string

	if filter.Page != nil && filter.Limit != nil {
		offset := (*filter.Page - 1) * (*filter.Limit)
		filter.Offset = &offset
	}

	if filter.Limit != nil {
		limitQuery += fmt.Sprintf(" LIMIT %d", *filter.Limit)
	}

	if filter.Offset != nil {
		offsetQuery += fmt.Sprintf(" OFFSET %d", *filter.Offset)
	}

	query := fmt.Sprintf(`
		SELECT
			l.id,
			l.user_id,
			u.full_name,
			l.leave_type,
			l.start_day,
			l.end_day,
			l.reason,
			l.status,
			l.reviewed_by,
			rv.full_name
		FROM leave_requests l
		LEFT JOIN users u ON u.id = l.user_id
		LEFT JOIN users rv ON rv.id = l.reviewed_by
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting leave requests"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.UserID,
			&detail.FullName,
			&detail.LeaveType,
			&detail.StartDay,
			&detail.EndDay,
			&detail.Reason,
			&detail.Status,
			&detail.ReviewedBy,
			&detail.Reviewer); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning leave list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(l.id)
		FROM leave_requests l
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning leave count"), http.StatusBadRequest)
	}

	return list, count, nil
}

// Create files a leave request. An employee files for themselves; an admin
// may file on behalf of any user.
func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "OrganizationID", "LeaveType", "StartDay", "EndDay"); err != nil {
		return CreateResponse{}, err
	}

	userID := claims.UserId
	if request.UserID != nil && claims.Role == auth.RoleAdmin {
		userID = *request.UserID
	}

	for _, day := range []*string{request.StartDay, request.EndDay} {
		if _, err := time.Parse("2006-01-02", *day); err != nil {
			return CreateResponse{}, web.NewRequestError(errors.New("day must be YYYY-MM-DD"), http.StatusBadRequest)
		}
	}
	if *request.EndDay < *request.StartDay {
		return CreateResponse{}, web.NewRequestError(errors.New("end_day is before start_day"), http.StatusBadRequest)
	}

	var response CreateResponse
	response.UserID = &userID
	response.OrganizationID = request.OrganizationID
	response.LeaveType = request.LeaveType
	response.StartDay = *request.StartDay
	response.EndDay = *request.EndDay
	response.Reason = request.Reason
	response.Status = entity.LeaveStatusPending
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating leave request"), http.StatusBadRequest)
	}

	return response, nil
}

// Review approves or rejects a pending request. Reviewing a request that is
// not pending is a request error.
func (r Repository) Review(ctx context.Context, request ReviewRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID", "Status"); err != nil {
		return err
	}

	status := strings.ToLower(*request.Status)
	if status != entity.LeaveStatusApproved && status != entity.LeaveStatusRejected {
		return web.NewRequestError(errors.New("status should be approved or rejected"), http.StatusBadRequest)
	}

	result, err := r.NewUpdate().
		Table("leave_requests").
		Where("deleted_at IS NULL AND id = ? AND status = ?", request.ID, entity.LeaveStatusPending).
		Set("status = ?", status).
		Set("reviewed_by = ?", claims.UserId).
		Set("updated_at = ?", time.Now()).
		Set("updated_by = ?", claims.UserId).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating leave request"), http.StatusBadRequest)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking leave review"), http.StatusBadRequest)
	}
	if affected == 0 {
		return web.NewRequestError(errors.New("leave request not found or already reviewed"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "leave_requests", id)
}

package visitor

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
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

	whereQuery := fmt.Sprintf(`WHERE v.deleted_at IS NULL AND v.organization_id = %d`, organizationID)

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "", -1)
		whereQuery += fmt.Sprintf(` AND (v.full_name ilike '%s' OR v.badge_no ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	if filter.BranchID != nil {
		whereQuery += fmt.Sprintf(` AND v.branch_id = %d`, *filter.BranchID)
	}
	if filter.Date != nil {
		whereQuery += fmt.Sprintf(` AND v.check_in::date = '%s'`, *filter.Date)
	}
	if filter.Open != nil && *filter.Open {
		whereQuery += ` AND v.check_out IS NULL`
	}

	orderQuery := "ORDER BY v.check_in desc"

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
			v.id,
			v.full_name,
			v.phone,
			v.purpose,
			v.branch_id,
			b.name,
			v.host_user_id,
			u.full_name,
			v.badge_no,
			v.check_in,
			v.check_out
		FROM visitors v
		LEFT JOIN branches b ON b.id = v.branch_id
		LEFT JOIN users u ON u.id = v.host_user_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting visitors"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.FullName,
			&detail.Phone,
			&detail.Purpose,
			&detail.BranchID,
			&detail.Branch,
			&detail.HostUserID,
			&detail.Host,
			&detail.BadgeNo,
			&detail.CheckIn,
			&detail.CheckOut); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning visitor list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(v.id)
		FROM visitors v
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning visitor count"), http.StatusBadRequest)
	}

	return list, count, nil
}

func (r Repository) GetDetailById(ctx context.Context, id int) (GetDetailByIdResponse, error) {
	_, err := r.CheckClaims(ctx, auth.RoleEmployee, auth.RoleDashboard)
	if err != nil {
		return GetDetailByIdResponse{}, err
	}

	query := fmt.Sprintf(`
		SELECT
			v.id,
			v.organization_id,
			v.branch_id,
			b.name,
			v.full_name,
			v.phone,
			v.purpose,
			v.host_user_id,
			u.full_name,
			v.badge_no,
			v.check_in,
			v.check_out
		FROM visitors v
		LEFT JOIN branches b ON b.id = v.branch_id
		LEFT JOIN users u ON u.id = v.host_user_id
		WHERE v.deleted_at IS NULL AND v.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.OrganizationID,
		&detail.BranchID,
		&detail.Branch,
		&detail.FullName,
		&detail.Phone,
		&detail.Purpose,
		&detail.HostUserID,
		&detail.Host,
		&detail.BadgeNo,
		&detail.CheckIn,
		&detail.CheckOut,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting visitor detail"), http.StatusBadRequest)
	}

	return detail, nil
}

// CheckIn registers a visitor and assigns the badge number printed on the
// visitor pass.
func (r Repository) CheckIn(ctx context.Context, request CheckInRequest) (CheckInResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee)
	if err != nil {
		return CheckInResponse{}, err
	}

	if err := r.ValidateStruct(&request, "OrganizationID", "BranchID", "FullName"); err != nil {
		return CheckInResponse{}, err
	}

	badgeNo, err := newBadgeNo()
	if err != nil {
		return CheckInResponse{}, web.NewRequestError(errors.Wrap(err, "generating badge number"), http.StatusInternalServerError)
	}

	var response CheckInResponse
	response.OrganizationID = request.OrganizationID
	response.BranchID = request.BranchID
	response.FullName = request.FullName
	response.Phone = request.Phone
	response.Purpose = request.Purpose
	response.HostUserID = request.HostUserID
	response.BadgeNo = badgeNo
	response.CheckIn = time.Now()
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CheckInResponse{}, web.NewRequestError(errors.Wrap(err, "creating visitor"), http.StatusBadRequest)
	}

	return response, nil
}

// CheckOut closes an open visit. Checking out twice is a request error.
func (r Repository) CheckOut(ctx context.Context, id int) error {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee)
	if err != nil {
		return err
	}

	result, err := r.NewUpdate().
		Table("visitors").
		Where("deleted_at IS NULL AND id = ? AND check_out IS NULL", id).
		Set("check_out = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		Set("updated_by = ?", claims.UserId).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating visitor check-out"), http.StatusBadRequest)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking visitor check-out"), http.StatusBadRequest)
	}
	if affected == 0 {
		return web.NewRequestError(errors.New("visit not found or already closed"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "visitors", id)
}

func newBadgeNo() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("V-%06d", n.Int64()), nil
}

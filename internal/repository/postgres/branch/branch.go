package branch

import (
	"context"
	"database/sql"
	"fmt"
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

	whereQuery := fmt.Sprintf(`WHERE b.deleted_at IS NULL AND b.organization_id = %d`, organizationID)

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "", -1)
		whereQuery += fmt.Sprintf(` AND b.name ilike '%s'`, "%"+search+"%")
	}

	orderQuery := "ORDER BY b.created_at desc"

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
			b.id,
			b.organization_id,
			o.name,
			b.name,
			b.address,
			b.latitude,
			b.longitude,
			b.radius,
			(SELECT count(d.id) FROM devices d WHERE d.branch_id = b.id AND d.deleted_at IS NULL)
		FROM branches b
		LEFT JOIN organizations o ON o.id = b.organization_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting branches"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.OrganizationID,
			&detail.Organization,
			&detail.Name,
			&detail.Address,
			&detail.Latitude,
			&detail.Longitude,
			&detail.Radius,
			&detail.Devices); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning branch list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(b.id)
		FROM branches b
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning branch count"), http.StatusBadRequest)
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
			b.id,
			b.organization_id,
			o.name,
			b.name,
			b.address,
			b.latitude,
			b.longitude,
			b.radius
		FROM branches b
		LEFT JOIN organizations o ON o.id = b.organization_id
		WHERE b.deleted_at IS NULL AND b.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.OrganizationID,
		&detail.Organization,
		&detail.Name,
		&detail.Address,
		&detail.Latitude,
		&detail.Longitude,
		&detail.Radius,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting branch detail"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "OrganizationID", "Name"); err != nil {
		return CreateResponse{}, err
	}

	var response CreateResponse
	response.OrganizationID = request.OrganizationID
	response.Name = request.Name
	response.Address = request.Address
	response.Latitude = request.Latitude
	response.Longitude = request.Longitude
	response.Radius = request.Radius
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating branch"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("branches").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.Name != nil {
		q.Set("name = ?", request.Name)
	}
	if request.Address != nil {
		q.Set("address = ?", request.Address)
	}
	if request.Latitude != nil {
		q.Set("latitude = ?", request.Latitude)
	}
	if request.Longitude != nil {
		q.Set("longitude = ?", request.Longitude)
	}
	if request.Radius != nil {
		q.Set("radius = ?", request.Radius)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating branch"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "branches", id)
}

package customer

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

	whereQuery := fmt.Sprintf(`WHERE c.deleted_at IS NULL AND c.organization_id = %d`, organizationID)

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "", -1)
		whereQuery += fmt.Sprintf(` AND (c.full_name ilike '%s' OR c.phone ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}

	orderQuery := "ORDER BY c.created_at desc"

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
			c.id,
			c.full_name,
			c.phone,
			c.email,
			c.notes
		FROM customers c
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting customers"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.FullName,
			&detail.Phone,
			&detail.Email,
			&detail.Notes); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning customer list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(c.id)
		FROM customers c
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning customer count"), http.StatusBadRequest)
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
			c.id,
			c.organization_id,
			c.full_name,
			c.phone,
			c.email,
			c.notes
		FROM customers c
		WHERE c.deleted_at IS NULL AND c.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.OrganizationID,
		&detail.FullName,
		&detail.Phone,
		&detail.Email,
		&detail.Notes,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting customer detail"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "OrganizationID", "FullName"); err != nil {
		return CreateResponse{}, err
	}

	var response CreateResponse
	response.OrganizationID = request.OrganizationID
	response.FullName = request.FullName
	response.Phone = request.Phone
	response.Email = request.Email
	response.Notes = request.Notes
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating customer"), http.StatusBadRequest)
	}

	return response, nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("customers").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.FullName != nil {
		q.Set("full_name = ?", request.FullName)
	}
	if request.Phone != nil {
		q.Set("phone = ?", request.Phone)
	}
	if request.Email != nil {
		q.Set("email = ?", request.Email)
	}
	if request.Notes != nil {
		q.Set("notes = ?", request.Notes)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating customer"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "customers", id)
}

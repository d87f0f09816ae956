package user

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
	"golang.org/x/crypto/bcrypt"
)

type Repository struct {
	*postgresql.Database
}

func NewRepository(database *postgresql.Database) *Repository {
	return &Repository{Database: database}
}

// GetByStaffID loads a user by staff id for sign-in. It is claims-free
// because no token exists yet.
func (r Repository) GetByStaffID(ctx context.Context, staffID string) (entity.User, error) {
	var detail entity.User

	err := r.NewSelect().Model(&detail).Where("staff_id = ? AND deleted_at IS NULL", staffID).Scan(ctx)
	if err != nil {
		return entity.User{}, &web.Error{
			Err:    errors.New("staff not found"),
			Status: http.StatusUnauthorized,
		}
	}

	return detail, nil
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

	whereQuery := fmt.Sprintf(`WHERE u.deleted_at IS NULL AND u.organization_id = %d`, organizationID)

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, " ", "", -1)
		search = strings.Replace(search, "'", "", -1)

		whereQuery += fmt.Sprintf(` AND (u.staff_id ilike '%s' OR u.full_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	if filter.BranchID != nil {
		whereQuery += fmt.Sprintf(` AND u.branch_id = %d`, *filter.BranchID)
	}
	if filter.Role != nil {
		whereQuery += fmt.Sprintf(` AND u.role = '%s'`, strings.ToUpper(*filter.Role))
	}

	orderQuery := "ORDER BY u.created_at desc"

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
			u.id,
			u.staff_id,
			u.full_name,
			u.role,
			u.organization_id,
			u.branch_id,
			b.name,
			u.phone,
			u.email,
			u.photo_url
		FROM users u
		LEFT JOIN branches b ON b.id = u.branch_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting users"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.StaffID,
			&detail.FullName,
			&detail.Role,
			&detail.OrganizationID,
			&detail.BranchID,
			&detail.Branch,
			&detail.Phone,
			&detail.Email,
			&detail.PhotoUrl); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(u.id)
		FROM users u
		%s
	`, whereQuery)

	countRows, err := r.QueryContext(ctx, countQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting users"), http.StatusBadRequest)
	}

	count := 0

	for countRows.Next() {
		if err = countRows.Scan(&count); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning user count"), http.StatusBadRequest)
		}
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
			u.id,
			u.staff_id,
			u.full_name,
			u.role,
			u.organization_id,
			o.name,
			u.branch_id,
			b.name,
			u.phone,
			u.email,
			u.photo_url,
			EXISTS(SELECT 1 FROM face_embeddings f WHERE f.user_id = u.id AND f.deleted_at IS NULL)
		FROM users u
		LEFT JOIN organizations o ON o.id = u.organization_id
		LEFT JOIN branches b ON b.id = u.branch_id
		WHERE u.deleted_at IS NULL AND u.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.StaffID,
		&detail.FullName,
		&detail.Role,
		&detail.OrganizationID,
		&detail.Organization,
		&detail.BranchID,
		&detail.Branch,
		&detail.Phone,
		&detail.Email,
		&detail.PhotoUrl,
		&detail.FaceEnrolled,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting user detail"), http.StatusBadRequest)
	}

	return detail, nil
}

func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "StaffID", "Password", "FullName", "OrganizationID"); err != nil {
		return CreateResponse{}, err
	}

	staffIdStatus := true
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT
							CASE WHEN
							(SELECT id FROM users WHERE staff_id = '%s' AND organization_id = %d AND deleted_at IS NULL) IS NOT NULL
							THEN true ELSE false END`, *request.StaffID, *request.OrganizationID)).Scan(&staffIdStatus); err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "staff_id check"), http.StatusInternalServerError)
	}
	if staffIdStatus {
		return CreateResponse{}, web.NewRequestError(errors.New("staff_id is used"), http.StatusBadRequest)
	}

	role, err := normalizeRole(*request.Role)
	if err != nil {
		return CreateResponse{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
	}
	hashedPassword := string(hash)

	var response CreateResponse
	response.Role = &role
	response.FullName = request.FullName
	response.StaffID = request.StaffID
	response.Password = &hashedPassword
	response.OrganizationID = request.OrganizationID
	response.BranchID = request.BranchID
	response.Phone = request.Phone
	response.Email = request.Email
	response.PhotoUrl = request.PhotoUrl
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating user"), http.StatusBadRequest)
	}

	response.Password = nil

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

	q := r.NewUpdate().Table("users").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.StaffID != nil {
		staffIdStatus := true
		if err := r.QueryRowContext(ctx, fmt.Sprintf("SELECT CASE WHEN (SELECT id FROM users WHERE staff_id = '%s' AND deleted_at IS NULL AND id != %d) IS NOT NULL THEN true ELSE false END", *request.StaffID, request.ID)).Scan(&staffIdStatus); err != nil {
			return web.NewRequestError(errors.Wrap(err, "staff_id check"), http.StatusInternalServerError)
		}
		if staffIdStatus {
			return web.NewRequestError(errors.New("staff_id is used"), http.StatusBadRequest)
		}
		q.Set("staff_id = ?", request.StaffID)
	}

	if request.Role != nil {
		role, err := normalizeRole(*request.Role)
		if err != nil {
			return err
		}
		q.Set("role = ?", role)
	}

	if request.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*request.Password), bcrypt.DefaultCost)
		if err != nil {
			return web.NewRequestError(errors.Wrap(err, "hashing password"), http.StatusInternalServerError)
		}
		q.Set("password = ?", string(hash))
	}

	if request.FullName != nil {
		q.Set("full_name = ?", request.FullName)
	}
	if request.BranchID != nil {
		q.Set("branch_id = ?", request.BranchID)
	}
	if request.Phone != nil {
		q.Set("phone = ?", request.Phone)
	}
	if request.Email != nil {
		q.Set("email = ?", request.Email)
	}
	if request.PhotoUrl != nil {
		q.Set("photo_url = ?", request.PhotoUrl)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating user"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "users", id)
}

func normalizeRole(raw string) (string, error) {
	role := strings.ToUpper(raw)
	switch role {
	case auth.RoleAdmin, auth.RoleEmployee, auth.RoleDashboard:
		return role, nil
	}
	return "", web.NewRequestError(errors.New("incorrect role. role should be ADMIN, EMPLOYEE or DASHBOARD"), http.StatusBadRequest)
}

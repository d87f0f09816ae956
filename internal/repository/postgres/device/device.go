package device

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
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

// GetByToken resolves a pairing token to its device. Claims-free: this is the
// device sign-in path.
func (r Repository) GetByToken(ctx context.Context, token string) (entity.Device, error) {
	var detail entity.Device

	err := r.NewSelect().Model(&detail).Where("token = ? AND active AND deleted_at IS NULL", token).Scan(ctx)
	if err != nil {
		return entity.Device{}, &web.Error{
			Err:    errors.New("device not found"),
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

	whereQuery := fmt.Sprintf(`WHERE d.deleted_at IS NULL AND d.organization_id = %d`, organizationID)

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "", -1)
		whereQuery += fmt.Sprintf(` AND d.name ilike '%s'`, "%"+search+"%")
	}
	if filter.BranchID != nil {
		whereQuery += fmt.Sprintf(` AND d.branch_id = %d`, *filter.BranchID)
	}
	if filter.Active != nil {
		whereQuery += fmt.Sprintf(` AND d.active = %t`, *filter.Active)
	}

	orderQuery := "ORDER BY d.created_at desc"

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
			d.id,
			d.organization_id,
			d.branch_id,
			b.name,
			d.name,
			d.active,
			d.last_seen_at
		FROM devices d
		LEFT JOIN branches b ON b.id = d.branch_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting devices"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.OrganizationID,
			&detail.BranchID,
			&detail.Branch,
			&detail.Name,
			&detail.Active,
			&detail.LastSeenAt); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning device list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(d.id)
		FROM devices d
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning device count"), http.StatusBadRequest)
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
			d.id,
			d.organization_id,
			o.name,
			d.branch_id,
			b.name,
			d.name,
			d.active,
			d.last_seen_at
		FROM devices d
		LEFT JOIN organizations o ON o.id = d.organization_id
		LEFT JOIN branches b ON b.id = d.branch_id
		WHERE d.deleted_at IS NULL AND d.id = %d
	`, id)

	var detail GetDetailByIdResponse

	err = r.QueryRowContext(ctx, query).Scan(
		&detail.ID,
		&detail.OrganizationID,
		&detail.Organization,
		&detail.BranchID,
		&detail.Branch,
		&detail.Name,
		&detail.Active,
		&detail.LastSeenAt,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return GetDetailByIdResponse{}, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return GetDetailByIdResponse{}, web.NewRequestError(errors.Wrap(err, "selecting device detail"), http.StatusBadRequest)
	}

	return detail, nil
}

// Create registers a kiosk and issues its pairing token. The token is shown
// once in the response; afterwards the device exchanges it for a JWT at
// sign-in.
func (r Repository) Create(ctx context.Context, request CreateRequest) (CreateResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return CreateResponse{}, err
	}

	if err := r.ValidateStruct(&request, "OrganizationID", "BranchID", "Name"); err != nil {
		return CreateResponse{}, err
	}

	token, err := newPairingToken()
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "generating pairing token"), http.StatusInternalServerError)
	}

	var response CreateResponse
	response.OrganizationID = request.OrganizationID
	response.BranchID = request.BranchID
	response.Name = request.Name
	response.Token = token
	response.Active = true
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return CreateResponse{}, web.NewRequestError(errors.Wrap(err, "creating device"), http.StatusBadRequest)
	}

	return response, nil
}

// Heartbeat stamps last_seen_at for the calling device.
func (r Repository) Heartbeat(ctx context.Context) error {
	claims, err := r.CheckClaims(ctx, auth.RoleDevice)
	if err != nil {
		return err
	}

	_, err = r.NewUpdate().
		Table("devices").
		Where("deleted_at IS NULL AND id = ?", claims.DeviceId).
		Set("last_seen_at = ?", time.Now()).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating device heartbeat"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) UpdateColumns(ctx context.Context, request UpdateRequest) error {
	claims, err := r.CheckClaims(ctx, auth.RoleAdmin)
	if err != nil {
		return err
	}

	if err := r.ValidateStruct(&request, "ID"); err != nil {
		return err
	}

	q := r.NewUpdate().Table("devices").Where("deleted_at IS NULL AND id = ?", request.ID)

	if request.BranchID != nil {
		q.Set("branch_id = ?", request.BranchID)
	}
	if request.Name != nil {
		q.Set("name = ?", request.Name)
	}
	if request.Active != nil {
		q.Set("active = ?", request.Active)
	}
	q.Set("updated_at = ?", time.Now())
	q.Set("updated_by = ?", claims.UserId)

	_, err = q.Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating device"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "devices", id)
}

func newPairingToken() (string, error) {
	raw := make([]byte, 24)
	if _, err := rand.Read(raw); err != nil {
		return "", err
	}
	return hex.EncodeToString(raw), nil
}

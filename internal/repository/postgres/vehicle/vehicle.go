package vehicle

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

	whereQuery := fmt.Sprintf(`WHERE v.deleted_at IS NULL AND v.organization_id = %d`, organizationID)

	if filter.Search != nil {
		search := strings.Replace(*filter.Search, "'", "", -1)
		whereQuery += fmt.Sprintf(` AND (v.plate_no ilike '%s' OR v.owner_name ilike '%s')`, "%"+search+"%", "%"+search+"%")
	}
	if filter.BranchID != nil {
		whereQuery += fmt.Sprintf(` AND v.branch_id = %d`, *filter.BranchID)
	}
	if filter.Inside != nil && *filter.Inside {
		whereQuery += ` AND v.exit_time IS NULL`
	}

	orderQuery := "ORDER BY v.entry_time desc"

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
			v.plate_no,
			v.owner_name,
			v.vehicle_type,
			v.branch_id,
			b.name,
			v.entry_time,
			v.exit_time
		FROM vehicles v
		LEFT JOIN branches b ON b.id = v.branch_id
		%s %s %s %s
	`, whereQuery, orderQuery, limitQuery, offsetQuery)

	rows, err := r.QueryContext(ctx, query)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, 0, web.NewRequestError(postgres.ErrNotFound, http.StatusBadRequest)
	}
	if err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "selecting vehicles"), http.StatusBadRequest)
	}

	var list []GetListResponse

	for rows.Next() {
		var detail GetListResponse
		if err = rows.Scan(
			&detail.ID,
			&detail.PlateNo,
			&detail.OwnerName,
			&detail.VehicleType,
			&detail.BranchID,
			&detail.Branch,
			&detail.EntryTime,
			&detail.ExitTime); err != nil {
			return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning vehicle list"), http.StatusBadRequest)
		}

		list = append(list, detail)
	}

	countQuery := fmt.Sprintf(`
		SELECT
			count(v.id)
		FROM vehicles v
		%s
	`, whereQuery)

	count := 0
	if err = r.QueryRowContext(ctx, countQuery).Scan(&count); err != nil {
		return nil, 0, web.NewRequestError(errors.Wrap(err, "scanning vehicle count"), http.StatusBadRequest)
	}

	return list, count, nil
}

// Entry records a vehicle passing the gate. A plate already inside is a
// request error so the guard sees the double-entry instead of silently
// opening a second visit.
func (r Repository) Entry(ctx context.Context, request EntryRequest) (EntryResponse, error) {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee)
	if err != nil {
		return EntryResponse{}, err
	}

	if err := r.ValidateStruct(&request, "OrganizationID", "BranchID", "PlateNo"); err != nil {
		return EntryResponse{}, err
	}

	inside := false
	if err := r.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM vehicles WHERE plate_no = '%s' AND organization_id = %d AND exit_time IS NULL AND deleted_at IS NULL)`,
			*request.PlateNo, *request.OrganizationID)).Scan(&inside); err != nil {
		return EntryResponse{}, web.NewRequestError(errors.Wrap(err, "plate check"), http.StatusInternalServerError)
	}
	if inside {
		return EntryResponse{}, web.NewRequestError(errors.New("vehicle is already inside"), http.StatusBadRequest)
	}

	var response EntryResponse
	response.OrganizationID = request.OrganizationID
	response.BranchID = request.BranchID
	response.PlateNo = request.PlateNo
	response.OwnerName = request.OwnerName
	response.VehicleType = request.VehicleType
	response.EntryTime = time.Now()
	response.CreatedAt = time.Now()
	response.CreatedBy = claims.UserId

	_, err = r.NewInsert().Model(&response).Returning("id").Exec(ctx, &response.ID)
	if err != nil {
		return EntryResponse{}, web.NewRequestError(errors.Wrap(err, "creating vehicle entry"), http.StatusBadRequest)
	}

	return response, nil
}

// Exit closes the open visit for the vehicle.
func (r Repository) Exit(ctx context.Context, id int) error {
	claims, err := r.CheckClaims(ctx, auth.RoleEmployee)
	if err != nil {
		return err
	}

	result, err := r.NewUpdate().
		Table("vehicles").
		Where("deleted_at IS NULL AND id = ? AND exit_time IS NULL", id).
		Set("exit_time = ?", time.Now()).
		Set("updated_at = ?", time.Now()).
		Set("updated_by = ?", claims.UserId).
		Exec(ctx)
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "updating vehicle exit"), http.StatusBadRequest)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return web.NewRequestError(errors.Wrap(err, "checking vehicle exit"), http.StatusBadRequest)
	}
	if affected == 0 {
		return web.NewRequestError(errors.New("vehicle visit not found or already closed"), http.StatusBadRequest)
	}

	return nil
}

func (r Repository) Delete(ctx context.Context, id int) error {
	return r.DeleteRow(ctx, "vehicles", id)
}

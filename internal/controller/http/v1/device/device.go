package device

import (
	"net/http"
	"path/filepath"
	"reflect"

	"presence/backend/foundation/web"
	"presence/backend/internal/repository/postgres/device"
	"presence/backend/internal/service"
)

type Controller struct {
	device Device
}

func NewController(device Device) *Controller {
	return &Controller{device}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter device.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if search, ok := c.GetQueryFunc(reflect.String, "search").(*string); ok {
		filter.Search = search
	}
	if branchId, ok := c.GetQueryFunc(reflect.Int, "branch_id").(*int); ok {
		filter.BranchID = branchId
	}
	if organizationId, ok := c.GetQueryFunc(reflect.Int, "organization_id").(*int); ok {
		filter.OrganizationID = organizationId
	}
	if active, ok := c.GetQueryFunc(reflect.Bool, "active").(*bool); ok {
		filter.Active = active
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.device.GetList(c.Ctx, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
			"count":   count,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.device.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// Create registers a kiosk device. The pairing token in the response is
// shown exactly once; afterwards it only lives in the devices table.
func (uc Controller) Create(c *web.Context) error {
	var request device.CreateRequest
	if err := c.BindFunc(&request, "OrganizationID", "BranchID", "Name"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.device.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

// PairingQR renders the freshly created device's pairing token as a QR image
// so the kiosk can be enrolled by pointing its camera at the screen.
func (uc Controller) PairingQR(c *web.Context) error {
	var request device.CreateRequest
	if err := c.BindFunc(&request, "OrganizationID", "BranchID", "Name"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.device.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	path, err := service.DevicePairingQR(response.ID, response.Token)
	if err != nil {
		return c.RespondError(err)
	}

	c.FileAttachment(path, filepath.Base(path))
	return nil
}

// Heartbeat stamps the calling device's last_seen_at.
func (uc Controller) Heartbeat(c *web.Context) error {
	err := uc.device.Heartbeat(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request device.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	err := uc.device.UpdateColumns(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.device.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

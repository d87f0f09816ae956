package visitor

import (
	"net/http"
	"path/filepath"
	"reflect"

	"presence/backend/foundation/web"
	"presence/backend/internal/repository/postgres/visitor"
	"presence/backend/internal/service"
)

type Controller struct {
	visitor Visitor
}

func NewController(visitor Visitor) *Controller {
	return &Controller{visitor}
}

func (uc Controller) GetList(c *web.Context) error {
	var filter visitor.Filter

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
	if day, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		filter.Date = day
	}
	if open, ok := c.GetQueryFunc(reflect.Bool, "open").(*bool); ok {
		filter.Open = open
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.visitor.GetList(c.Ctx, filter)
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

	response, err := uc.visitor.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) CheckIn(c *web.Context) error {
	var request visitor.CheckInRequest
	if err := c.BindFunc(&request, "BranchID", "FullName"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.visitor.CheckIn(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) CheckOut(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.visitor.CheckOut(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// Badge renders the visitor's printable badge as a pdf.
func (uc Controller) Badge(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	detail, err := uc.visitor.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	path, err := service.VisitorBadgePDF(detail)
	if err != nil {
		return c.RespondError(err)
	}

	c.FileAttachment(path, filepath.Base(path))
	return nil
}

func (uc Controller) Delete(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.visitor.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

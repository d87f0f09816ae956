package attendance

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"reflect"
	"strconv"
	"time"

	"presence/backend/foundation/web"
	"presence/backend/internal/auth"
	"presence/backend/internal/entity"
	"presence/backend/internal/pkg/cache"
	"presence/backend/internal/recorder"
	"presence/backend/internal/repository/postgres"
	"presence/backend/internal/repository/postgres/attendance"
	"presence/backend/internal/service"

	"github.com/Azure/go-autorest/autorest/date"
	"github.com/pkg/errors"
)

type Controller struct {
	attendance Attendance
	recorder   Recorder
	queue      Queue
	cache      *cache.Cache
}

func NewController(attendance Attendance, recorder Recorder, queue Queue, cache *cache.Cache) *Controller {
	return &Controller{attendance, recorder, queue, cache}
}

// MarkByFace runs one capture from a kiosk device through the recognition
// pipeline. Rejections come back as 200 with the rejection state; an event
// that could not reach the store comes back as 202 with its local id.
func (uc Controller) MarkByFace(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized))
	}

	var request MarkByFaceRequest
	if err := c.BindFunc(&request, "BranchID", "Photo"); err != nil {
		return c.RespondError(err)
	}

	file, err := request.Photo.Open()
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "opening photo"), http.StatusBadRequest))
	}
	defer file.Close()

	image, err := io.ReadAll(file)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.Wrap(err, "reading photo"), http.StatusBadRequest))
	}

	attempt := recorder.Attempt{
		Image:          image,
		DeviceID:       claims.DeviceId,
		OrganizationID: claims.OrganizationId,
		BranchID:       *request.BranchID,
		CreatedBy:      claims.UserId,
	}

	if path, uploadErr := service.Upload(request.Photo, "attendance"); uploadErr == nil {
		attempt.PhotoUrl = &path
	}

	result, err := uc.recorder.Mark(c.Ctx, attempt)
	if err != nil {
		return c.RespondError(web.NewRequestError(err, http.StatusBadGateway))
	}

	uc.cache.Invalidate(c.Ctx, statisticsKey(claims.OrganizationId))

	status := http.StatusOK
	if result.State == recorder.StateQueued {
		status = http.StatusAccepted
	}

	return c.Respond(map[string]interface{}{
		"data":   result,
		"status": result.State != recorder.StateRejected,
	}, status)
}

// ClockIn records a manual attendance event on behalf of a user, bypassing
// the face pipeline.
func (uc Controller) ClockIn(c *web.Context) error {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return c.RespondError(web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized))
	}

	var request ManualClockInRequest
	if err := c.BindFunc(&request, "UserID", "BranchID"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.CreateClockIn(c.Ctx, attendance.ClockInRequest{
		UserID:             *request.UserID,
		OrganizationID:     claims.OrganizationId,
		BranchID:           *request.BranchID,
		ClockIn:            time.Now(),
		VerificationMethod: entity.VerificationManual,
		CreatedBy:          claims.UserId,
	})
	if err != nil {
		if errors.Is(err, postgres.ErrAlreadyExists) {
			return c.RespondError(web.NewRequestError(errors.New("attendance already marked for today"), http.StatusBadRequest))
		}
		return c.RespondError(err)
	}

	uc.cache.Invalidate(c.Ctx, statisticsKey(claims.OrganizationId))

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) ClockOut(c *web.Context) error {
	var request attendance.ClockOutRequest
	if err := c.BindFunc(&request, "UserID", "BranchID"); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.ClockOut(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	if claims, ok := c.Ctx.Value(auth.Key).(auth.Claims); ok {
		uc.cache.Invalidate(c.Ctx, statisticsKey(claims.OrganizationId))
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetList(c *web.Context) error {
	var filter attendance.Filter

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
	if userId, ok := c.GetQueryFunc(reflect.Int, "user_id").(*int); ok {
		filter.UserID = userId
	}
	if status, ok := c.GetQueryFunc(reflect.String, "status").(*string); ok {
		filter.Status = status
	}
	if day, ok := c.GetQueryFunc(reflect.String, "date").(*string); ok {
		filter.Date = day
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.attendance.GetList(c.Ctx, filter)
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

	response, err := uc.attendance.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) UpdateColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request attendance.UpdateRequest

	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	err := uc.attendance.UpdateColumns(c.Ctx, request)
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

	err := uc.attendance.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// statistics

func (uc Controller) GetStatistics(c *web.Context) error {
	organizationID, err := uc.organizationID(c)
	if err != nil {
		return c.RespondError(err)
	}

	var response attendance.GetStatisticResponse
	if err := uc.cache.Get(c.Ctx, statisticsKey(organizationID), &response); err == nil {
		return c.Respond(map[string]interface{}{
			"data":   response,
			"status": true,
		}, http.StatusOK)
	}

	response, err = uc.attendance.GetStatistics(c.Ctx, organizationID)
	if err != nil {
		return c.RespondError(err)
	}

	uc.cache.Set(c.Ctx, statisticsKey(organizationID), response)

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetPieChartStatistics(c *web.Context) error {
	organizationID, err := uc.organizationID(c)
	if err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetPieChartStatistic(c.Ctx, organizationID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetBarChartStatistics(c *web.Context) error {
	organizationID, err := uc.organizationID(c)
	if err != nil {
		return c.RespondError(err)
	}

	response, err := uc.attendance.GetBarChartStatistic(c.Ctx, organizationID)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetGraphStatistic(c *web.Context) error {
	organizationID, err := uc.organizationID(c)
	if err != nil {
		return c.RespondError(err)
	}

	var filter attendance.GraphRequest

	monthStr := c.Query("month")
	if monthStr == "" {
		return c.RespondError(web.NewRequestError(errors.New("month parameter is required"), http.StatusBadRequest))
	}

	parsedMonth, err := date.ParseDate(monthStr)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.New("invalid date format"), http.StatusBadRequest))
	}
	filter.Month = parsedMonth

	intervalStr := c.Query("interval")
	if intervalStr == "" {
		return c.RespondError(web.NewRequestError(errors.New("interval parameter is required"), http.StatusBadRequest))
	}

	interval, err := strconv.Atoi(intervalStr)
	if err != nil {
		return c.RespondError(web.NewRequestError(errors.New("invalid interval format"), http.StatusBadRequest))
	}
	filter.Interval = interval

	list, err := uc.attendance.GetGraphStatistic(c.Ctx, organizationID, filter)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"results": list,
		},
		"status": true,
	}, http.StatusOK)
}

// ExportExcel writes the day's attendance into an excel file and streams it
// back as an attachment.
func (uc Controller) ExportExcel(c *web.Context) error {
	organizationID, err := uc.organizationID(c)
	if err != nil {
		return c.RespondError(err)
	}

	day := c.Query("date")
	if day == "" {
		day = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", day); err != nil {
		return c.RespondError(web.NewRequestError(errors.New("invalid date format"), http.StatusBadRequest))
	}

	rows, err := uc.attendance.GetExportRows(c.Ctx, organizationID, day)
	if err != nil {
		return c.RespondError(err)
	}

	path, err := service.AttendanceExcel(rows)
	if err != nil {
		return c.RespondError(err)
	}

	c.FileAttachment(path, filepath.Base(path))
	return nil
}

// sync

func (uc Controller) SyncStatus(c *web.Context) error {
	pendingAttendance, pendingEmbeddings, err := uc.queue.Pending(c.Ctx)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"online":             uc.queue.Online(),
			"pending_attendance": pendingAttendance,
			"pending_embeddings": pendingEmbeddings,
		},
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) TriggerSync(c *web.Context) error {
	report := uc.queue.PerformFullSync(c.Ctx)

	return c.Respond(map[string]interface{}{
		"data":   report,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) SetOnline(c *web.Context) error {
	var request SetOnlineRequest
	if err := c.BindFunc(&request, "Online"); err != nil {
		return c.RespondError(err)
	}

	uc.queue.SetOnline(*request.Online)

	return c.Respond(map[string]interface{}{
		"data": map[string]interface{}{
			"online": *request.Online,
		},
		"status": true,
	}, http.StatusOK)
}

// organizationID resolves the organization scope for dashboard endpoints: the
// caller's own organization, overridable by query for cross-organization
// admins.
func (uc Controller) organizationID(c *web.Context) (int, error) {
	claims, ok := c.Ctx.Value(auth.Key).(auth.Claims)
	if !ok {
		return 0, web.NewRequestError(errors.New("claims missing from context"), http.StatusUnauthorized)
	}

	organizationID := claims.OrganizationId
	if id, ok := c.GetQueryFunc(reflect.Int, "organization_id").(*int); ok && id != nil && claims.Role == auth.RoleAdmin {
		organizationID = *id
	}
	if err := c.ValidQuery(); err != nil {
		return 0, err
	}
	if organizationID == 0 {
		return 0, web.NewRequestError(errors.New("organization_id is required"), http.StatusBadRequest)
	}

	return organizationID, nil
}

func statisticsKey(organizationID int) string {
	return fmt.Sprintf("attendance:statistics:%d", organizationID)
}

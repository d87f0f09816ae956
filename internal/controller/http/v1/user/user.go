package user

import (
	"io"
	"net/http"
	"reflect"
	"time"

	"presence/backend/foundation/web"
	"presence/backend/internal/repository/postgres/faceembedding"
	"presence/backend/internal/repository/postgres/user"
	"presence/backend/internal/service"
	"presence/backend/internal/syncqueue"
	"presence/backend/internal/vision"

	"github.com/pkg/errors"
)

type Controller struct {
	user       User
	embeddings FaceEmbedding
	extractor  Extractor
	queue      Queue
}

func NewController(user User, embeddings FaceEmbedding, extractor Extractor, queue Queue) *Controller {
	return &Controller{user: user, embeddings: embeddings, extractor: extractor, queue: queue}
}

// user

func (uc Controller) GetUserList(c *web.Context) error {
	var filter user.Filter

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
	if role, ok := c.GetQueryFunc(reflect.String, "role").(*string); ok {
		filter.Role = role
	}
	if organizationId, ok := c.GetQueryFunc(reflect.Int, "organization_id").(*int); ok {
		filter.OrganizationID = organizationId
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.user.GetList(c.Ctx, filter)
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

func (uc Controller) GetUserDetailById(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	response, err := uc.user.GetDetailById(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) CreateUser(c *web.Context) error {
	var request user.CreateRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	if photo, err := c.FormFile("photo"); err == nil {
		path, err := service.Upload(photo, "users")
		if err != nil {
			return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
		}
		request.PhotoUrl = &path
	}

	response, err := uc.user.Create(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"created_data": response,
		"status":       true,
	}, http.StatusOK)
}

func (uc Controller) UpdateUserColumns(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request user.UpdateRequest
	if err := c.BindFunc(&request); err != nil {
		return c.RespondError(err)
	}

	request.ID = id

	err := uc.user.UpdateColumns(c.Ctx, request)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) DeleteUser(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.user.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

// face enrollment

// EnrollFace extracts a descriptor from the uploaded photo and stores it as
// the user's primary embedding. When the store is unreachable the descriptor
// is queued locally and the request is acknowledged with 202.
func (uc Controller) EnrollFace(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	var request EnrollFaceRequest
	if err := c.BindFunc(&request, "OrganizationID", "Photo"); err != nil {
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

	extraction, err := uc.extractor.Extract(c.Ctx, image)
	if err != nil {
		switch {
		case errors.Is(err, vision.ErrNoFaceDetected),
			errors.Is(err, vision.ErrMultipleFacesDetected),
			errors.Is(err, vision.ErrLowQuality):
			return c.RespondError(web.NewRequestError(err, http.StatusBadRequest))
		}
		return c.RespondError(web.NewRequestError(err, http.StatusBadGateway))
	}

	response, err := uc.embeddings.Enroll(c.Ctx, faceembedding.EnrollRequest{
		UserID:         id,
		OrganizationID: *request.OrganizationID,
		Embedding:      extraction.Embedding,
		Quality:        extraction.Quality,
	})
	if err != nil {
		if web.IsRequestError(err) {
			return c.RespondError(err)
		}

		pending := syncqueue.PendingEmbedding{
			UserID:         id,
			OrganizationID: *request.OrganizationID,
			Descriptor:     extraction.Embedding,
			Quality:        extraction.Quality,
			CapturedAt:     time.Now(),
		}
		if queueErr := uc.queue.EnqueueEmbedding(c.Ctx, &pending); queueErr != nil {
			return c.RespondError(queueErr)
		}

		return c.Respond(map[string]interface{}{
			"data": map[string]interface{}{
				"queued":  true,
				"quality": extraction.Quality,
			},
			"status": true,
		}, http.StatusAccepted)
	}

	return c.Respond(map[string]interface{}{
		"data":   response,
		"status": true,
	}, http.StatusOK)
}

func (uc Controller) GetFaceList(c *web.Context) error {
	var filter faceembedding.Filter

	if limit, ok := c.GetQueryFunc(reflect.Int, "limit").(*int); ok {
		filter.Limit = limit
	}
	if offset, ok := c.GetQueryFunc(reflect.Int, "offset").(*int); ok {
		filter.Offset = offset
	}
	if page, ok := c.GetQueryFunc(reflect.Int, "page").(*int); ok {
		filter.Page = page
	}
	if userId, ok := c.GetQueryFunc(reflect.Int, "user_id").(*int); ok {
		filter.UserID = userId
	}
	if err := c.ValidQuery(); err != nil {
		return c.RespondError(err)
	}

	list, count, err := uc.embeddings.GetList(c.Ctx, filter)
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

func (uc Controller) DeleteFace(c *web.Context) error {
	id := c.GetParam(reflect.Int, "id").(int)

	if err := c.ValidParam(); err != nil {
		return c.RespondError(err)
	}

	err := uc.embeddings.Delete(c.Ctx, id)
	if err != nil {
		return c.RespondError(err)
	}

	return c.Respond(map[string]interface{}{
		"data":   "ok!",
		"status": true,
	}, http.StatusOK)
}

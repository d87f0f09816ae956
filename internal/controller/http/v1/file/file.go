package file

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"presence/backend/foundation/web"
)

type Controller struct {
	*web.App
	fileServerBasePath string
}

func NewController(app *web.App, fileServerBasePath string) *Controller {
	return &Controller{app, fileServerBasePath}
}

// File serves an uploaded static file (user photos, attendance captures,
// reports, badges). Directory listing is disabled; a path that climbs out of
// the base directory is rejected.
func (cf Controller) File(c *gin.Context) {
	file := c.Param("filepath")

	cleaned := filepath.Clean("/" + file)
	if strings.Contains(cleaned, "..") {
		c.JSON(http.StatusBadRequest, map[string]any{
			"error":  "incorrect link",
			"status": false,
		})
		return
	}

	fs := gin.Dir(cf.fileServerBasePath, false)
	f, err := fs.Open(cleaned)
	if err != nil {
		c.JSON(http.StatusNotFound, map[string]any{
			"error":  "file not found",
			"status": false,
		})
		return
	}
	f.Close()

	http.ServeFile(c.Writer, c.Request, filepath.Join(cf.fileServerBasePath, cleaned))
}

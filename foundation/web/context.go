package web

import (
	"context"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

// Context carries the request scoped values across the handler chain. The gin
// context stays embedded so native helpers remain reachable.
type Context struct {
	*gin.Context

	Ctx     context.Context
	Request *http.Request

	queryErrs []string
	paramErrs []string
}

// GetQueryFunc reads an optional query parameter and converts it to the given
// kind. It returns a typed pointer (*int, *string, *bool, *float64) when the
// parameter is present and nil when it is absent. Conversion failures are
// collected and surfaced by ValidQuery.
func (c *Context) GetQueryFunc(kind reflect.Kind, name string) interface{} {
	value, ok := c.Context.GetQuery(name)
	if !ok || value == "" {
		return nil
	}

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Sprintf("%s must be an integer", name))
			return nil
		}
		return &v
	case reflect.String:
		return &value
	case reflect.Bool:
		v, err := strconv.ParseBool(value)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Sprintf("%s must be a boolean", name))
			return nil
		}
		return &v
	case reflect.Float64:
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			c.queryErrs = append(c.queryErrs, fmt.Sprintf("%s must be a number", name))
			return nil
		}
		return &v
	default:
		c.queryErrs = append(c.queryErrs, fmt.Sprintf("%s has unsupported type", name))
		return nil
	}
}

// GetParam reads a path parameter and converts it to the given kind. It
// returns the zero value on failure; ValidParam reports the failure.
func (c *Context) GetParam(kind reflect.Kind, name string) interface{} {
	value := c.Context.Param(name)

	switch kind {
	case reflect.Int:
		v, err := strconv.Atoi(value)
		if err != nil {
			c.paramErrs = append(c.paramErrs, fmt.Sprintf("%s must be an integer", name))
			return 0
		}
		return v
	case reflect.String:
		if value == "" {
			c.paramErrs = append(c.paramErrs, fmt.Sprintf("%s is required", name))
		}
		return value
	default:
		c.paramErrs = append(c.paramErrs, fmt.Sprintf("%s has unsupported type", name))
		return 0
	}
}

// ValidQuery reports query parameter conversion errors collected so far.
func (c *Context) ValidQuery() error {
	if len(c.queryErrs) == 0 {
		return nil
	}
	return NewRequestError(errors.New(strings.Join(c.queryErrs, "; ")), http.StatusBadRequest)
}

// ValidParam reports path parameter conversion errors collected so far.
func (c *Context) ValidParam() error {
	if len(c.paramErrs) == 0 {
		return nil
	}
	return NewRequestError(errors.New(strings.Join(c.paramErrs, "; ")), http.StatusBadRequest)
}

// BindFunc binds the request body into data and checks that the named struct
// fields were provided. Missing fields are reported per field.
func (c *Context) BindFunc(data interface{}, requiredFields ...string) error {
	if err := c.Context.ShouldBind(data); err != nil {
		return NewRequestError(errors.Wrap(err, "binding request"), http.StatusBadRequest)
	}

	fields := map[string]string{}
	v := reflect.Indirect(reflect.ValueOf(data))

	for _, name := range requiredFields {
		field := v.FieldByName(name)
		if !field.IsValid() {
			continue
		}
		if field.IsZero() {
			fields[name] = "required field"
		}
	}

	if len(fields) > 0 {
		return &Error{
			Err:    errors.New("required fields are missing"),
			Status: http.StatusBadRequest,
			Fields: fields,
		}
	}

	return nil
}

// Respond writes the data as json with the given status code.
func (c *Context) Respond(data interface{}, status int) error {
	c.Context.JSON(status, data)
	return nil
}

// RespondError writes an error response. Request errors keep their status
// code; anything else is reported as an internal error without leaking the
// cause to the client.
func (c *Context) RespondError(err error) error {
	if re := GetRequestError(err); re != nil {
		body := map[string]interface{}{
			"status": false,
			"error":  re.Err.Error(),
		}
		if len(re.Fields) > 0 {
			body["fields"] = re.Fields
		}
		c.Context.JSON(re.Status, body)
		return nil
	}

	c.Context.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status": false,
		"error":  "internal server error",
	})
	return err
}

// Package web provides a small web framework on top of gin. Handlers take a
// *Context and return an error; middleware wraps handlers.
package web

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Handler is the signature every application handler implements.
type Handler func(c *Context) error

// Middleware runs code before or after a handler.
type Middleware func(Handler) Handler

// App is the entrypoint for the web application. It embeds the gin engine so
// native gin routes can still be registered next to wrapped ones.
type App struct {
	*gin.Engine
}

func NewApp() *App {
	return &App{Engine: gin.New()}
}

func (a *App) handle(method, path string, handler Handler, mw ...Middleware) {
	handler = wrapMiddleware(mw, handler)

	a.Engine.Handle(method, path, func(c *gin.Context) {
		ctx := &Context{
			Context: c,
			Ctx:     c.Request.Context(),
			Request: c.Request,
		}

		if err := handler(ctx); err != nil {
			log.Printf("%s %s: handler error: %v", method, path, err)
		}
	})
}

func (a *App) Get(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodGet, path, handler, mw...)
}

func (a *App) Post(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPost, path, handler, mw...)
}

func (a *App) Put(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPut, path, handler, mw...)
}

func (a *App) Patch(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodPatch, path, handler, mw...)
}

func (a *App) Delete(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodDelete, path, handler, mw...)
}

func (a *App) Head(path string, handler Handler, mw ...Middleware) {
	a.handle(http.MethodHead, path, handler, mw...)
}

// wrapMiddleware wraps the handler with the middleware in the given order so
// the first middleware runs first.
func wrapMiddleware(mw []Middleware, handler Handler) Handler {
	for i := len(mw) - 1; i >= 0; i-- {
		h := mw[i]
		if h != nil {
			handler = h(handler)
		}
	}

	return handler
}

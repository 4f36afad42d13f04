// Package middleware holds the request interceptors that run ahead of the
// HTTP handlers.
package middleware

import "github.com/labstack/echo/v4"

// Interceptor inspects a request and either rejects it by returning an
// error or hands it on by calling next.
type Interceptor func(c echo.Context, next echo.HandlerFunc) error

// Pipeline is an ordered list of interceptors. Each stage runs only if every
// stage before it called next.
type Pipeline []Interceptor

// Then returns a handler that runs the pipeline in front of h.
func (p Pipeline) Then(h echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		return p.run(c, 0, h)
	}
}

// Middleware converts the pipeline into echo middleware.
func (p Pipeline) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return p.Then(next)
	}
}

// With returns a new pipeline with more stages appended.
func (p Pipeline) With(stages ...Interceptor) Pipeline {
	out := make(Pipeline, 0, len(p)+len(stages))
	out = append(out, p...)
	return append(out, stages...)
}

func (p Pipeline) run(c echo.Context, i int, h echo.HandlerFunc) error {
	if i == len(p) {
		return h(c)
	}
	return p[i](c, func(c echo.Context) error {
		return p.run(c, i+1, h)
	})
}

package main

import (
	"context"
	"net/http"

	"github.com/rhuss/pforte/pkg/box"
	"github.com/rhuss/pforte/pkg/debug"
	"github.com/rhuss/pforte/pkg/message"
	"github.com/rhuss/pforte/pkg/transport"
)

// echoReply is the JSON document returned for every non-health request.
type echoReply struct {
	Method  string   `json:"method"`
	URL     string   `json:"url"`
	Path    string   `json:"path"`
	Query   *box.Box `json:"query"`
	Form    *box.Box `json:"form"`
	JSON    *box.Box `json:"json"`
	Files   *box.Box `json:"files"`
	Cookies *box.Box `json:"cookies"`
	Headers *box.Box `json:"headers"`
}

func newEchoHandler() transport.Handler {
	return transport.HandlerFunc(func(ctx context.Context, req *message.Request) (*message.Response, error) {
		if req.Path() == "/healthz" {
			if req.Method() != http.MethodGet && req.Method() != http.MethodHead {
				return message.JSON(map[string]string{"error": "method not allowed"}, http.StatusMethodNotAllowed,
					map[string]string{"Allow": "GET, HEAD"})
			}
			return message.NewResponse("ok\n", http.StatusOK, map[string][]string{
				"Content-Type": {"text/plain; charset=utf-8"},
			})
		}

		debug.Log("request", "echo", "method", req.Method(), "path", req.Path())

		return message.JSON(echoReply{
			Method:  req.Method(),
			URL:     req.URL(),
			Path:    req.Path(),
			Query:   req.QueryParams(),
			Form:    req.FormAll(),
			JSON:    req.JSONAll(),
			Files:   req.Files(),
			Cookies: req.Cookies(),
			Headers: req.Headers(),
		}, http.StatusOK, nil)
	})
}

package middleware

import (
	"strings"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
)

// HeaderRequestID is the correlation header echoed back on every response.
const HeaderRequestID = "X-Request-ID"

// RequestID makes sure every request carries a correlation identifier,
// reusing the client-provided one when present.
func RequestID() func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(rc *fasthttp.RequestCtx) {
			id := strings.TrimSpace(string(rc.Request.Header.Peek(HeaderRequestID)))
			if id == "" {
				id = uuid.NewString()
				rc.Request.Header.Set(HeaderRequestID, id)
			}
			rc.Response.Header.Set(HeaderRequestID, id)
			next(rc)
		}
	}
}

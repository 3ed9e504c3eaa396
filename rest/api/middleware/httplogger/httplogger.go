package httplogger

import (
	"io/ioutil"
	"time"

	"github.com/buger/jsonparser"
	"github.com/kataras/iris"
	"github.com/kataras/iris/context"
	"github.com/sysdevguru/stockfolio/log"
)

type HTTPLogger struct{}

func New() iris.Handler {
	m := HTTPLogger{}
	return m.ServeHTTP
}

// fields never written to the request log
var masks = []string{
	"password",
	"apikey",
	"token",
}

func (h *HTTPLogger) ServeHTTP(ctx context.Context) {
	start := time.Now()
	ctx.Next()
	elapsed := time.Since(start)

	var body []byte

	// mask the sensitive fields
	if body, _ = ioutil.ReadAll(ctx.Request().Body); len(body) > 0 {
		for _, mask := range masks {
			if _, _, _, err := jsonparser.Get(body, mask); err == nil {
				body, _ = jsonparser.Set(body, []byte(`"xxx"`), mask)
			}
		}
	}

	log.Debug("httplog",
		"method", ctx.Method(),
		"path", ctx.Path(),
		"query", ctx.Request().URL.RawQuery,
		"status_code", ctx.GetStatusCode(),
		"elapsed", elapsed.Seconds(),
		"ip", ctx.RemoteAddr(),
		"body", string(body),
	)
}

package retroqwest

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync/atomic"
	"testing"

	"github.com/labstack/echo/v4"
)

// echoed mirrors the parts of a request the mock server reports back
type echoed struct {
	Method      string `json:"method"`
	Path        string `json:"path"`
	Query       string `json:"query"`
	Body        string `json:"body"`
	ContentType string `json:"content_type"`
	UserAgent   string `json:"user_agent"`
	Token       string `json:"token"`
}

type mockServer struct {
	*httptest.Server
	hits atomic.Int64
}

// newMockServer starts an echo server that reports every request it receives.
// /status/:code answers with the given status and a valid JSON body,
// /garbage answers 200 with a body that is not JSON and /empty answers 200
// with no body.
func newMockServer(t *testing.T) *mockServer {
	t.Helper()

	m := &mockServer{}
	e := echo.New()
	e.HideBanner = true
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			m.hits.Add(1)
			return next(c)
		}
	})

	e.Any("/status/:code", func(c echo.Context) error {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(code, map[string]string{"method": c.Request().Method})
	})
	e.GET("/garbage", func(c echo.Context) error {
		return c.String(http.StatusOK, "<html>not json</html>")
	})
	e.GET("/empty", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	e.Any("/*", func(c echo.Context) error {
		req := c.Request()
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return err
		}
		return c.JSON(http.StatusOK, echoed{
			Method:      req.Method,
			Path:        req.URL.EscapedPath(),
			Query:       req.URL.RawQuery,
			Body:        string(body),
			ContentType: req.Header.Get(echo.HeaderContentType),
			UserAgent:   req.UserAgent(),
			Token:       req.Header.Get("X-Token"),
		})
	})

	m.Server = httptest.NewServer(e)
	t.Cleanup(m.Server.Close)
	return m
}

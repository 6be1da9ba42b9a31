package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/student-threshold-api/internal/config"
)

func cacheCfg() config.CacheConfig {
	return config.CacheConfig{
		Enabled: true, Methods: map[string]bool{"GET": true}, TTL: time.Minute,
		KeyStrategy: "route_query", Prefix: "cache", MaxBodyBytes: 1 << 20,
	}
}

func TestRedisCache_MissThenHit(t *testing.T) {
	mr, rdb := newRedis(t)
	calls := 0

	e := echo.New()
	e.GET("/students/above", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, echo.Map{"count": 1, "q": c.QueryParam("threshold")})
	}, NewRedisCache(cacheCfg(), rdb, nil))

	get := func(url string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, url, nil))
		return rec
	}

	miss := get("/students/above?threshold=400")
	require.Equal(t, http.StatusOK, miss.Code)
	assert.Equal(t, "MISS", miss.Header().Get("X-Cache"))

	hit := get("/students/above?threshold=400")
	assert.Equal(t, http.StatusOK, hit.Code)
	assert.Equal(t, "HIT", hit.Header().Get("X-Cache"))
	assert.Equal(t, miss.Body.String(), hit.Body.String())
	assert.Equal(t, echo.MIMEApplicationJSON, hit.Header().Get(echo.HeaderContentType))
	assert.Equal(t, 1, calls)

	other := get("/students/above?threshold=401")
	assert.Equal(t, "MISS", other.Header().Get("X-Cache"))
	assert.Equal(t, 2, calls)
	assert.Len(t, mr.Keys(), 2)
}

func TestRedisCache_CallsHitFuncOnlyOnHit(t *testing.T) {
	_, rdb := newRedis(t)
	var hits []string

	e := echo.New()
	e.GET("/students/above", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"count": 0})
	}, NewRedisCache(cacheCfg(), rdb, func(c echo.Context, status int, body []byte) {
		assert.Equal(t, http.StatusOK, status)
		hits = append(hits, c.QueryParam("threshold")+" "+strings.TrimSpace(string(body)))
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/students/above?threshold=7", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, []string{`7 {"count":0}`, `7 {"count":0}`}, hits)
}

func TestRedisCache_SkipsErrorsAndOtherMethods(t *testing.T) {
	mr, rdb := newRedis(t)
	mw := NewRedisCache(cacheCfg(), rdb, nil)

	e := echo.New()
	e.GET("/bad", func(c echo.Context) error { return c.JSON(http.StatusBadRequest, echo.Map{"error": "x"}) }, mw)
	e.POST("/students/above", func(c echo.Context) error { return c.JSON(http.StatusOK, echo.Map{}) }, mw)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))
		assert.Equal(t, "MISS", rec.Header().Get("X-Cache"))

		rec = httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/students/above", nil))
		assert.Empty(t, rec.Header().Get("X-Cache"))
	}
	assert.Empty(t, mr.Keys())
}

func TestRedisCache_SkipsOversizedBodies(t *testing.T) {
	mr, rdb := newRedis(t)
	cfg := cacheCfg()
	cfg.MaxBodyBytes = 8

	e := echo.New()
	e.GET("/big", func(c echo.Context) error { return c.String(http.StatusOK, "0123456789abcdef") }, NewRedisCache(cfg, rdb, nil))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/big", nil))
	assert.Equal(t, "0123456789abcdef", rec.Body.String())
	assert.Empty(t, mr.Keys())
}

func TestPayloadCodec(t *testing.T) {
	hdr := http.Header{"Content-Type": {"application/json"}}
	bs, err := encodePayload(http.StatusOK, hdr, []byte(`{"count":0}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(bs)
	require.True(t, ok)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, hdr, gotHdr)
	assert.Equal(t, `{"count":0}`, string(body))

	_, _, _, ok = decodePayload(bs[:6])
	assert.False(t, ok)
	_, _, _, ok = decodePayload(append([]byte{0, 0, 0, 200, 0, 0, 1, 0}, 'x'))
	assert.False(t, ok)
}

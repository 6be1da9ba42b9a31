// Package handler exposes the HTTP handlers. The threshold routes are
// public; the roster detail and export routes sit behind JWT auth.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/student-threshold-api/internal/model"
	"github.com/iliyamo/student-threshold-api/internal/service"
)

// maxBodyBytes bounds the POST body. A threshold fits in far less.
const maxBodyBytes = 64 << 10

// StudentHandler serves queries over one immutable roster snapshot.
type StudentHandler struct {
	Roster    *model.Roster
	Publisher service.EventPublisher

	// PublishTimeout bounds each fire-and-forget publish.
	PublishTimeout time.Duration
	now            func() time.Time
}

func NewStudentHandler(r *model.Roster, p service.EventPublisher) *StudentHandler {
	if p == nil {
		p = service.NopPublisher{}
	}
	return &StudentHandler{Roster: r, Publisher: p, PublishTimeout: 5 * time.Second, now: time.Now}
}

// StudentDetail is the full record returned to teachers.
type StudentDetail struct {
	StudentID string         `json:"student_id"`
	Name      string         `json:"name"`
	Marks     map[string]int `json:"marks"`
	Total     int            `json:"total"`
}

func invalidThreshold(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": service.InvalidThresholdMessage})
}

// AboveThreshold handles POST /students/above with body {"threshold": n}.
// Bodies over maxBodyBytes are refused with 413 rather than parsed.
func (h *StudentHandler) AboveThreshold(c echo.Context) error {
	body, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "request body too large"})
		}
		return invalidThreshold(c)
	}
	q, err := service.ParseThresholdBody(body)
	if err != nil {
		return invalidThreshold(c)
	}
	return h.respond(c, q)
}

// AboveThresholdQuery handles GET /students/above?threshold=n.
func (h *StudentHandler) AboveThresholdQuery(c echo.Context) error {
	q, err := service.ParseThresholdParam(c.QueryParam("threshold"))
	if err != nil {
		return invalidThreshold(c)
	}
	return h.respond(c, q)
}

func (h *StudentHandler) respond(c echo.Context, q service.ThresholdQuery) error {
	res := service.QueryAboveThreshold(h.Roster, q.Threshold)
	h.publish(c.Response().Header().Get(echo.HeaderXRequestID), q, res)
	return c.JSON(http.StatusOK, res)
}

// CachedHit reports a GET /students/above response replayed by the response
// cache. The threshold comes from the query string and the result from the
// cached body, so the event matches what a fresh query would have sent.
func (h *StudentHandler) CachedHit(c echo.Context, status int, body []byte) {
	if status != http.StatusOK {
		return
	}
	q, err := service.ParseThresholdParam(c.QueryParam("threshold"))
	if err != nil {
		return
	}
	var res service.ThresholdResult
	if err := json.Unmarshal(body, &res); err != nil {
		log.Printf("students: cached body for threshold %v: %v", q.Threshold, err)
		return
	}
	h.publish(c.Response().Header().Get(echo.HeaderXRequestID), q, res)
}

// publish reports the query without holding up the response.
func (h *StudentHandler) publish(requestID string, q service.ThresholdQuery, res service.ThresholdResult) {
	if _, nop := h.Publisher.(service.NopPublisher); nop || h.Publisher == nil {
		return
	}
	now := h.now
	if now == nil {
		now = time.Now
	}
	ev := service.NewThresholdQueriedEvent(requestID, q, res, h.Roster.Len(), now())
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), h.PublishTimeout)
		defer cancel()
		if err := h.Publisher.PublishThresholdQueried(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("students: publish event %s: %v", ev.EventID, err)
		}
	}()
}

// GetStudent handles GET /v1/students/:id and returns the full record.
func (h *StudentHandler) GetStudent(c echo.Context) error {
	rec, ok := h.Roster.Get(c.Param("id"))
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
	}
	return c.JSON(http.StatusOK, StudentDetail(rec))
}

// ListStudents handles GET /v1/students and returns every full record in
// roster order.
func (h *StudentHandler) ListStudents(c echo.Context) error {
	recs := h.Roster.Records()
	out := make([]StudentDetail, 0, len(recs))
	for _, r := range recs {
		out = append(out, StudentDetail(r))
	}
	return c.JSON(http.StatusOK, echo.Map{"count": len(out), "students": out})
}

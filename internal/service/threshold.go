// Package service holds the request-independent logic behind the HTTP
// handlers: the threshold query over the roster and the publisher that
// reports each query to the message broker.
package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/iliyamo/student-threshold-api/internal/model"
)

// ErrInvalidThreshold is the only failure of a threshold query: the
// threshold was missing, not a number, or NaN. Handlers map it to 400
// with InvalidThresholdMessage.
var ErrInvalidThreshold = errors.New("invalid threshold")

// InvalidThresholdMessage is the client-facing text for ErrInvalidThreshold.
const InvalidThresholdMessage = "Invalid threshold. Please provide a number."

// ThresholdQuery is a validated request for students above Threshold.
type ThresholdQuery struct {
	Threshold float64
}

// StudentTotal is the projection returned for each matching student.
type StudentTotal struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// ThresholdResult is the response body of a successful query. Students is
// never nil so it always encodes as a JSON array.
type ThresholdResult struct {
	Count    int            `json:"count"`
	Students []StudentTotal `json:"students"`
}

// ParseThresholdBody validates a JSON request body of the form
// {"threshold": <number>}. Any JSON number is accepted, including
// literals too large for float64 which become ±Inf.
func ParseThresholdBody(body []byte) (ThresholdQuery, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return ThresholdQuery{}, ErrInvalidThreshold
	}
	raw, ok := fields["threshold"]
	if !ok {
		return ThresholdQuery{}, ErrInvalidThreshold
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || !(raw[0] == '-' || (raw[0] >= '0' && raw[0] <= '9')) {
		// null, strings, booleans, arrays and objects
		return ThresholdQuery{}, ErrInvalidThreshold
	}
	return parseFloat(string(raw))
}

// ParseThresholdParam validates the query-string form of the threshold.
func ParseThresholdParam(s string) (ThresholdQuery, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return ThresholdQuery{}, ErrInvalidThreshold
	}
	return parseFloat(s)
}

func parseFloat(s string) (ThresholdQuery, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		var numErr *strconv.NumError
		// out of range still yields ±Inf or ±0, which is a number
		if !errors.As(err, &numErr) || !errors.Is(numErr.Err, strconv.ErrRange) {
			return ThresholdQuery{}, ErrInvalidThreshold
		}
	}
	if math.IsNaN(v) {
		return ThresholdQuery{}, ErrInvalidThreshold
	}
	return ThresholdQuery{Threshold: v}, nil
}

// QueryAboveThreshold selects every student whose total is strictly
// greater than threshold, in roster order, projected to name and total.
// It only reads the roster and may be called concurrently.
func QueryAboveThreshold(roster *model.Roster, threshold float64) ThresholdResult {
	out := make([]StudentTotal, 0)
	roster.Range(func(s model.StudentRecord) bool {
		if float64(s.Total) > threshold {
			out = append(out, StudentTotal{Name: s.Name, Total: s.Total})
		}
		return true
	})
	return ThresholdResult{Count: len(out), Students: out}
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("GET", "/x", 200, time.Millisecond)
	m.MessagePosted("dm")
	m.ModerationRejected("chat")
	m.Toggled("reaction", true)
	m.Created("event")
}

func TestCounters(t *testing.T) {
	m := New()
	m.MessagePosted("branch")
	m.MessagePosted("branch")
	m.Toggled("upvote", false)
	m.Created("skill")

	body := scrape(t, m)
	for _, line := range []string{
		`campushub_messages_posted_total{scope="branch"} 2`,
		`campushub_toggles_total{kind="upvote",result="removed"} 1`,
		`campushub_content_created_total{kind="skill"} 1`,
	} {
		if !strings.Contains(body, line) {
			t.Errorf("exposition missing %q", line)
		}
	}
}

func TestHandlerExposesCollectors(t *testing.T) {
	m := New()
	m.ObserveRequest("POST", "/api/v1/messages", 201, 10*time.Millisecond)

	if !strings.Contains(scrape(t, m), `campushub_http_requests_total{method="POST",route="/api/v1/messages",status="201"} 1`) {
		t.Errorf("request counter missing from exposition")
	}
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	return rec.Body.String()
}

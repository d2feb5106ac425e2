package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"jasper-launcher/internal/domain/model"
)

func TestObserveCommand(t *testing.T) {
	r := NewRecorder(time.Now())

	r.ObserveCommand(model.CommandRun{Command: "up", Duration: 3 * time.Second})
	r.ObserveCommand(model.CommandRun{Command: "up", Duration: time.Second, Error: "boom"})
	r.ObserveCommand(model.CommandRun{Command: "down", Duration: time.Second})

	if got := testutil.ToFloat64(r.commandsTotal.WithLabelValues("up", "success")); got != 1 {
		t.Errorf("up success = %v", got)
	}
	if got := testutil.ToFloat64(r.commandsTotal.WithLabelValues("up", "failure")); got != 1 {
		t.Errorf("up failure = %v", got)
	}
	if got := testutil.CollectAndCount(r.commandDuration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestSetStackState(t *testing.T) {
	r := NewRecorder(time.Now())
	if got := testutil.ToFloat64(r.stackState.WithLabelValues("stopped")); got != 1 {
		t.Errorf("initial state should be stopped")
	}

	r.SetStackState(model.StackRunning)
	if got := testutil.ToFloat64(r.stackState.WithLabelValues("running")); got != 1 {
		t.Errorf("running = %v", got)
	}
	if got := testutil.ToFloat64(r.stackState.WithLabelValues("stopped")); got != 0 {
		t.Errorf("stopped = %v", got)
	}
}

func TestSettingsWritesAndHandler(t *testing.T) {
	r := NewRecorder(time.Now())
	r.ObserveSettingsWrite("save", nil)
	r.ObserveSettingsWrite("patch", errors.New("disk full"))
	r.SetEventSubscribers(2)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`jasper_launcher_settings_writes_total{kind="save",result="success"} 1`,
		`jasper_launcher_settings_writes_total{kind="patch",result="failure"} 1`,
		`jasper_launcher_event_subscribers 2`,
		`jasper_launcher_uptime_seconds`,
		`go_goroutines`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}

package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRegistry_Empty(t *testing.T) {
	report := NewRegistry("kthxbye", "1.0.0").Check(context.Background())
	if report.Status != StatusHealthy || len(report.Checks) != 0 {
		t.Errorf("report = %+v", report)
	}
	if report.Service != "kthxbye" || report.Version != "1.0.0" {
		t.Errorf("report identity = %s %s", report.Service, report.Version)
	}
}

func TestRegistry_OverallStatus(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	bad := func(ctx context.Context) error { return errors.New("down") }

	tests := []struct {
		name     string
		checks   []Checker
		expected Status
	}{
		{"all healthy", []Checker{ProbeCheck("a", StatusUnhealthy, ok), ProbeCheck("b", StatusUnhealthy, ok)}, StatusHealthy},
		{"degraded", []Checker{ProbeCheck("a", StatusDegraded, bad), ProbeCheck("b", StatusUnhealthy, ok)}, StatusDegraded},
		{"unhealthy wins", []Checker{ProbeCheck("a", StatusDegraded, bad), ProbeCheck("b", StatusUnhealthy, bad)}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry("svc", "1")
			for _, c := range tt.checks {
				r.Register(c)
			}
			report := r.CheckWithTimeout(time.Second)
			if report.Status != tt.expected {
				t.Errorf("Status = %v, want %v", report.Status, tt.expected)
			}
			if report.Healthy() != (tt.expected != StatusUnhealthy) {
				t.Errorf("Healthy() = %v", report.Healthy())
			}
		})
	}
}

func TestRegistry_ResultsSortedAndTimed(t *testing.T) {
	r := NewRegistry("svc", "1")
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.RegisterFunc(name, func(ctx context.Context) CheckResult {
			return CheckResult{Status: StatusHealthy}
		})
	}

	report := r.Check(context.Background())
	want := []string{"alpha", "mid", "zeta"}
	for i, c := range report.Checks {
		if c.Name != want[i] {
			t.Errorf("Checks[%d].Name = %q, want %q", i, c.Name, want[i])
		}
		if c.Timestamp.IsZero() {
			t.Errorf("Checks[%d] has no timestamp", i)
		}
	}
}

func TestProbeCheck_Message(t *testing.T) {
	c := ProbeCheck("history", StatusDegraded, func(ctx context.Context) error {
		return errors.New("database locked")
	})
	result := c.Check(context.Background())
	if result.Status != StatusDegraded || result.Message != "database locked" || c.Name() != "history" {
		t.Errorf("result = %+v", result)
	}
}

func TestRegister_Replaces(t *testing.T) {
	r := NewRegistry("svc", "1")
	r.Register(ProbeCheck("x", StatusUnhealthy, func(ctx context.Context) error { return errors.New("no") }))
	r.Register(ProbeCheck("x", StatusUnhealthy, func(ctx context.Context) error { return nil }))

	report := r.Check(context.Background())
	if len(report.Checks) != 1 || report.Status != StatusHealthy {
		t.Errorf("report = %+v", report)
	}
}

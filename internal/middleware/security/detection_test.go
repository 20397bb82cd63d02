package security

import (
	"net/http/httptest"
	"testing"
)

func TestDetectSuspiciousRequest(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name       string
		target     string
		userAgent  string
		method     string
		suspicious bool
	}{
		{name: "clean request", target: "/api/score", method: "GET"},
		{name: "path traversal", target: "/api/../etc/passwd", method: "GET", suspicious: true},
		{name: "env probe", target: "/.env", method: "GET", suspicious: true},
		{name: "sql injection in query", target: "/api/transactions?month=1%20union%20select", method: "GET", suspicious: true},
		{name: "encoded traversal in query", target: "/api/score?file=%2e%2e%2fetc%2fpasswd", method: "GET", suspicious: true},
		{name: "scanner agent", target: "/api/score", userAgent: "sqlmap/1.0", method: "GET", suspicious: true},
		{name: "trace method", target: "/api/score", method: "TRACE", suspicious: true},
		{name: "normal browser", target: "/api/summary", userAgent: "Mozilla/5.0", method: "GET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, nil)
			if tt.userAgent != "" {
				r.Header.Set("User-Agent", tt.userAgent)
			}
			if got := d.DetectSuspiciousRequest(r); got != tt.suspicious {
				t.Errorf("DetectSuspiciousRequest() = %v, want %v", got, tt.suspicious)
			}
		})
	}

	if d.SuspiciousRequests() == 0 {
		t.Error("suspicious counter should have incremented")
	}
}

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		xri        string
		want       string
	}{
		{name: "direct", remoteAddr: "203.0.113.9:4321", want: "203.0.113.9"},
		{name: "xff from trusted proxy", remoteAddr: "127.0.0.1:80", xff: "203.0.113.9, 10.0.0.1", want: "203.0.113.9"},
		{name: "xff from untrusted peer ignored", remoteAddr: "203.0.113.5:80", xff: "1.2.3.4", want: "203.0.113.5"},
		{name: "x-real-ip from trusted proxy", remoteAddr: "192.168.1.10:80", xri: "203.0.113.7", want: "203.0.113.7"},
		{name: "garbage xff falls back", remoteAddr: "10.0.0.2:80", xff: "not-an-ip", want: "10.0.0.2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", "/", nil)
			r.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				r.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				r.Header.Set("X-Real-IP", tt.xri)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddTrustedProxy(t *testing.T) {
	d := NewDetector()
	if err := d.AddTrustedProxy("100.64.0.0/10"); err != nil {
		t.Fatalf("AddTrustedProxy() error = %v", err)
	}
	if err := d.AddTrustedProxy("not-a-cidr"); err == nil {
		t.Error("expected error for invalid CIDR")
	}

	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "100.64.0.1:80"
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	if got := d.ExtractClientIP(r); got != "203.0.113.9" {
		t.Errorf("new proxy network not honored, got %q", got)
	}
}

package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/", "/"},
		{"/soru/123", "/soru/{id}"},
		{"/soru/123/duzenle", "/soru/{id}/duzenle"},
		{"/soru/123/sil", "/soru/{id}/sil"},
		{"/sifre_yenileme", "/sifre_yenileme"},
		{"/sifre_yenileme/eyJhbGciOiJIUzI1NiJ9.abc.def", "/sifre_yenileme/{token}"},
		{"/kullanici/alice", "/kullanici/{username}"},
		{"/static/profile_pics/a1b2c3d4e5f6a7b8.png", "/static/{file}"},
		{"/giris", "/giris"},
	}

	for _, tt := range tests {
		if got := NormalizePath(tt.in); got != tt.want {
			t.Errorf("NormalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecordRequest_NeverLabelsResetToken(t *testing.T) {
	const token = "eyJhbGciOiJIUzI1NiJ9.gizli-govde.gizli-imza"
	RecordRequest("GET", "/sifre_yenileme/"+token, 200, 0.01)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}

	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			for _, label := range m.GetLabel() {
				if strings.Contains(label.GetValue(), "gizli") {
					t.Fatalf("token leaked into %s label %s=%q",
						mf.GetName(), label.GetName(), label.GetValue())
				}
			}
		}
	}
}

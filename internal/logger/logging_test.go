package logger

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		in      string
		want    log.Formatter
		wantErr bool
	}{
		{"", log.TextFormatter, false},
		{"TEXT", log.TextFormatter, false},
		{"json", log.JSONFormatter, false},
		{"logfmt", log.LogfmtFormatter, false},
		{"xml", log.TextFormatter, true},
	}

	for _, tc := range testCases {
		got, err := ParseFormat(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
		}
		if got != tc.want {
			t.Errorf("ParseFormat(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestNewWithConfigWritesToWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithConfig(&buf, "idx", log.InfoLevel, false, false, log.LogfmtFormatter)
	l.Debug("hidden")
	l.Info("built", "words", 4)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("debug line written at info level: %q", out)
	}
	if !strings.Contains(out, "words=4") || !strings.Contains(out, "built") {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSetupRejectsBadLevel(t *testing.T) {
	if err := Setup("loud", "text", false); err == nil {
		t.Error("Setup accepted an unknown level")
	}
}

package main

import (
	"strings"
	"testing"
)

func TestPasswordResult(t *testing.T) {
	tests := []struct {
		name      string
		encrypted bool
		pass      string
		want      string
		reject    string
	}{
		{"unencrypted", false, "", "unencrypted", "Password found"},
		{"encrypted", true, "hunter2", `Password found: "hunter2"`, "unencrypted"},
		{"encrypted empty password", true, "", `Password found: ""`, "unencrypted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := passwordResult(tt.encrypted, tt.pass)
			if !strings.Contains(got, tt.want) {
				t.Errorf("expected %q in %q", tt.want, got)
			}
			if strings.Contains(got, tt.reject) {
				t.Errorf("unexpected %q in %q", tt.reject, got)
			}
		})
	}
}

package main

import "testing"

/*
TestResolveMetricsBackend pins the flag → env → default precedence: an
explicit flag always wins, the environment fills an empty flag, and with
neither set metrics are disabled.
*/
func TestResolveMetricsBackend(t *testing.T) {
	cases := []struct {
		name    string
		flagVal string
		envVal  string
		want    string
	}{
		{"flag wins over env", "pushgateway", "datadog", "pushgateway"},
		{"env fills empty flag", "", "datadog", "datadog"},
		{"explicit none beats env", "none", "pushgateway", "none"},
		{"neither set disables metrics", "", "", "none"},
	}
	for _, c := range cases {
		if got := resolveMetricsBackend(c.flagVal, c.envVal); got != c.want {
			t.Errorf("%s: got %q want %q", c.name, got, c.want)
		}
	}
}

package browser

import "testing"

func TestShouldBlock(t *testing.T) {
	blockSet := map[string]bool{"images": true, "fonts": true}

	cases := []struct {
		resType string
		want    bool
	}{
		{"Image", true},
		{"Font", true},
		{"Media", false},
		{"Stylesheet", false},
		{"Document", false},
		{"XHR", false},
	}
	for _, tc := range cases {
		if got := shouldBlock(blockSet, tc.resType); got != tc.want {
			t.Errorf("shouldBlock(%q) = %v, want %v", tc.resType, got, tc.want)
		}
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.defaults()
	if cfg.XvfbDisplay != ":99" {
		t.Errorf("XvfbDisplay = %q, want :99", cfg.XvfbDisplay)
	}
	if cfg.NavTimeout <= 0 {
		t.Error("NavTimeout not defaulted")
	}
	if cfg.Logger == nil {
		t.Error("Logger not defaulted")
	}
}

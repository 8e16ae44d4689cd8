package pagination_test

import (
	"net/url"
	"testing"

	"github.com/JaimeStill/autou/pkg/pagination"
)

func defaultConfig() pagination.Config {
	return pagination.Config{DefaultPageSize: 25, MaxPageSize: 200}
}

func TestConfigFinalize(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := pagination.Config{}
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg != defaultConfig() {
			t.Errorf("cfg = %+v, want %+v", cfg, defaultConfig())
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_PAGE_SIZE", "50")
		t.Setenv("TEST_MAX_PAGE", "500")

		cfg := pagination.Config{}
		err := cfg.Finalize(&pagination.ConfigEnv{DefaultPageSize: "TEST_PAGE_SIZE", MaxPageSize: "TEST_MAX_PAGE"})
		if err != nil {
			t.Fatalf("finalize failed: %v", err)
		}
		if cfg.DefaultPageSize != 50 || cfg.MaxPageSize != 500 {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("default above max rejected", func(t *testing.T) {
		cfg := pagination.Config{DefaultPageSize: 300, MaxPageSize: 200}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error")
		}
	})
}

func TestConfigMerge(t *testing.T) {
	cfg := defaultConfig()
	cfg.Merge(&pagination.Config{MaxPageSize: 50})

	if cfg.DefaultPageSize != 25 || cfg.MaxPageSize != 50 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestFromQuery(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantPage int
		wantSize int
		wantSort int
	}{
		{"empty", "", 1, 25, 0},
		{"explicit", "page=3&page_size=10&sort=-ts_utc,helpful", 3, 10, 2},
		{"clamped to max", "page_size=1000", 1, 200, 0},
		{"non-positive normalized", "page=0&page_size=-5", 1, 25, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, _ := url.ParseQuery(tt.query)
			req, err := pagination.FromQuery(values, defaultConfig())
			if err != nil {
				t.Fatalf("FromQuery: %v", err)
			}
			if req.Page != tt.wantPage || req.PageSize != tt.wantSize || len(req.Sort) != tt.wantSort {
				t.Errorf("req = %+v", req)
			}
		})
	}

	for _, q := range []string{"page=abc", "page_size=1.5"} {
		values, _ := url.ParseQuery(q)
		if _, err := pagination.FromQuery(values, defaultConfig()); err == nil {
			t.Errorf("FromQuery(%q) expected error", q)
		}
	}
}

func TestOffset(t *testing.T) {
	req := pagination.PageRequest{Page: 4, PageSize: 25}
	if got := req.Offset(); got != 75 {
		t.Errorf("Offset() = %d, want 75", got)
	}
}

func TestNewPageResult(t *testing.T) {
	tests := []struct {
		name      string
		data      []int
		total     int
		pageSize  int
		wantPages int
	}{
		{"exact", []int{1, 2}, 50, 25, 2},
		{"remainder", []int{1}, 51, 25, 3},
		{"empty", nil, 0, 25, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pagination.NewPageResult(tt.data, tt.total, 1, tt.pageSize)
			if got.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", got.TotalPages, tt.wantPages)
			}
			if got.Data == nil {
				t.Error("Data should never be nil")
			}
		})
	}
}

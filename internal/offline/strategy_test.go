package offline

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"khapey/internal/config"
)

func testOfflineConfig() config.OfflineConfig {
	return config.OfflineConfig{
		CacheVersion:   "test-cache-v1",
		ShellAssets:    []string{"/", "/offline", "/dashboard"},
		OfflinePath:    "/offline",
		APIPathSegment: "/api/",
		SyncTagPrefix:  "khapey-sync:",
		IgnoreSchemes:  []string{"chrome-extension://", "moz-extension://"},
	}
}

func TestDecideStrategy(t *testing.T) {
	cfg := testOfflineConfig()

	tests := []struct {
		name string
		req  *Request
		want Strategy
	}{
		{
			name: "mutation passes through",
			req:  &Request{Method: http.MethodPost, URL: "/api/discounts"},
			want: StrategyPassThrough,
		},
		{
			name: "delete passes through",
			req:  &Request{Method: http.MethodDelete, URL: "/api/discounts?id=1"},
			want: StrategyPassThrough,
		},
		{
			name: "extension scheme ignored",
			req:  &Request{Method: http.MethodGet, URL: "chrome-extension://abc/page.js"},
			want: StrategyIgnore,
		},
		{
			name: "api read is network first",
			req:  &Request{Method: http.MethodGet, URL: "/api/discounts"},
			want: StrategyNetworkFirst,
		},
		{
			name: "api read beats navigation",
			req:  &Request{Method: http.MethodGet, URL: "/api/discounts", Navigate: true},
			want: StrategyNetworkFirst,
		},
		{
			name: "navigation falls back to offline page",
			req:  &Request{Method: http.MethodGet, URL: "/dashboard", Navigate: true},
			want: StrategyNavigation,
		},
		{
			name: "static asset is cache first",
			req:  &Request{Method: http.MethodGet, URL: "/assets/logo.png"},
			want: StrategyCacheFirst,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DecideStrategy(tt.req, cfg))
		})
	}
}

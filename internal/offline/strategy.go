package offline

import (
	"net/http"
	"strings"

	"khapey/internal/config"
)

type Strategy int

const (
	// StrategyPassThrough sends the request straight to the network.
	StrategyPassThrough Strategy = iota
	// StrategyIgnore leaves the request to default handling entirely.
	StrategyIgnore
	// StrategyNetworkFirst tries the network, falling back to cache.
	StrategyNetworkFirst
	// StrategyNavigation tries the network, falling back to the offline page.
	StrategyNavigation
	// StrategyCacheFirst serves from cache, fetching only on a miss.
	StrategyCacheFirst
)

func (s Strategy) String() string {
	switch s {
	case StrategyPassThrough:
		return "pass-through"
	case StrategyIgnore:
		return "ignore"
	case StrategyNetworkFirst:
		return "network-first"
	case StrategyNavigation:
		return "navigation"
	case StrategyCacheFirst:
		return "cache-first"
	}
	return "unknown"
}

// DecideStrategy classifies one intercepted request. It is a pure
// function of the request and the engine config.
func DecideStrategy(req *Request, cfg config.OfflineConfig) Strategy {
	if req.Method != http.MethodGet {
		return StrategyPassThrough
	}

	for _, scheme := range cfg.IgnoreSchemes {
		if strings.HasPrefix(req.URL, scheme) {
			return StrategyIgnore
		}
	}

	if strings.Contains(req.URL, cfg.APIPathSegment) {
		return StrategyNetworkFirst
	}

	if req.Navigate {
		return StrategyNavigation
	}

	return StrategyCacheFirst
}

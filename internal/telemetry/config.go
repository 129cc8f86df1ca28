package telemetry

import (
	"strconv"
	"strings"
	"time"
)

const (
	envPrefix      = "PICKTERM_TRACE_OTEL_"
	envEndpoint    = envPrefix + "ENDPOINT"
	envInsecure    = envPrefix + "INSECURE"
	envHeaders     = envPrefix + "HEADERS"
	envService     = envPrefix + "SERVICE"
	envDialTimeout = envPrefix + "TIMEOUT"
	envSampleRatio = envPrefix + "SAMPLE_RATIO"
)

type Config struct {
	Endpoint    string
	Insecure    bool
	Headers     map[string]string
	ServiceName string
	Version     string
	DialTimeout time.Duration
	SampleRatio float64
}

// Default returns the baseline telemetry config used when no overrides exist.
func Default() Config {
	return Config{
		ServiceName: "pickterm",
		DialTimeout: 5 * time.Second,
		SampleRatio: 1,
	}
}

// Enabled reports whether an exporter endpoint is configured.
func (c Config) Enabled() bool {
	return strings.TrimSpace(c.Endpoint) != ""
}

// ConfigFromEnv overlays PICKTERM_TRACE_OTEL_* variables on Default. Invalid
// values are ignored.
func ConfigFromEnv(getenv func(string) string) Config {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	cfg := Default()
	get := func(key string) string { return strings.TrimSpace(getenv(key)) }

	if val := get(envEndpoint); val != "" {
		cfg.Endpoint = val
	}
	if val := get(envInsecure); val != "" {
		if parsed, ok := parseBool(val); ok {
			cfg.Insecure = parsed
		}
	}
	if val := get(envService); val != "" {
		cfg.ServiceName = val
	}
	if val := get(envDialTimeout); val != "" {
		if dur, err := time.ParseDuration(val); err == nil && dur > 0 {
			cfg.DialTimeout = dur
		}
	}
	if val := get(envSampleRatio); val != "" {
		if ratio, err := strconv.ParseFloat(val, 64); err == nil && ratio >= 0 && ratio <= 1 {
			cfg.SampleRatio = ratio
		}
	}
	if val := get(envHeaders); val != "" {
		cfg.Headers = ParseHeaders(val)
	}
	return cfg
}

// ParseHeaders converts comma separated key=value pairs into a header map.
func ParseHeaders(spec string) map[string]string {
	headers := make(map[string]string)
	for _, entry := range strings.Split(spec, ",") {
		key, value, _ := strings.Cut(strings.TrimSpace(entry), "=")
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		headers[key] = strings.TrimSpace(value)
	}
	if len(headers) == 0 {
		return nil
	}
	return headers
}

func parseBool(value string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "y", "on":
		return true, true
	case "0", "false", "no", "n", "off":
		return false, true
	default:
		return false, false
	}
}

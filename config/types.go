package config

import "time"

const (
	ConfigFileEnvVar     = "SRVINV_CONFIG"
	DefaultAPIVersion    = "v1"
	DefaultTimeout       = 30 * time.Second
	DefaultCacheDuration = 300

	CacheBackendMemory = "memory"
	CacheBackendFile   = "file"

	// PathPlaceholder is replaced by the pluralized collection name in
	// Cache.PathTemplate.
	PathPlaceholder     = "{}"
	DefaultPathTemplate = "/tmp/srvinv-{}.json"
)

// DefaultSearchPaths are read in order; keys set by a later file override
// those of an earlier one.
var DefaultSearchPaths = []string{
	"/etc/srvinv/srvinv.yaml",
	"/opt/srvinv/srvinv.yaml",
	"~/.config/srvinv.yaml",
	"./srvinv.yaml",
}

type Config struct {
	Server    Server    `yaml:"server"`
	Cache     Cache     `yaml:"cache,omitempty"`
	Identity  Identity  `yaml:"identity,omitempty"`
	Telemetry Telemetry `yaml:"telemetry,omitempty"`
}

type Server struct {
	BaseURL           string            `yaml:"base-url"`
	APIVersion        string            `yaml:"api-version,omitempty"`
	Timeout           time.Duration     `yaml:"timeout,omitempty"`
	RequestsPerSecond float64           `yaml:"requests-per-second,omitempty"`
	Burst             int               `yaml:"burst,omitempty"`
	DefaultHeaders    map[string]string `yaml:"default-headers,omitempty"`
	Auth              *HTTPAuth         `yaml:"auth,omitempty"`
	TLS               *TLS              `yaml:"tls,omitempty"`
}

type HTTPAuth struct {
	BasicAuth    *BasicAuth       `yaml:"basic-auth,omitempty"`
	BearerToken  *BearerTokenAuth `yaml:"bearer-token,omitempty"`
	CustomHeader *HeaderTokenAuth `yaml:"custom-header,omitempty"`
}

type BasicAuth struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

type BearerTokenAuth struct {
	Token string `yaml:"token"`
}

type HeaderTokenAuth struct {
	Header string `yaml:"header"`
	Token  string `yaml:"token"`
}

type TLS struct {
	CACertFile         string `yaml:"ca-cert-file,omitempty"`
	ClientCertFile     string `yaml:"client-cert-file,omitempty"`
	ClientKeyFile      string `yaml:"client-key-file,omitempty"`
	InsecureSkipVerify bool   `yaml:"insecure-skip-verify,omitempty"`
}

type Cache struct {
	Backend         string `yaml:"backend,omitempty"`
	PathTemplate    string `yaml:"path-template,omitempty"`
	DurationSeconds int    `yaml:"duration-seconds,omitempty"`
}

func (c Cache) Duration() time.Duration {
	return time.Duration(c.DurationSeconds) * time.Second
}

type Identity struct {
	// PrivateIP pins the address used to derive the self server id instead
	// of enumerating local interfaces.
	PrivateIP string `yaml:"private-ip,omitempty"`
}

type Telemetry struct {
	OTelEndpoint string `yaml:"otel-endpoint,omitempty"`
}

// EnvOverrides are applied on top of the merged files.
type EnvOverrides struct {
	BaseURL              string `env:"SRVINV_BASE_URL"`
	APIVersion           string `env:"SRVINV_API_VERSION"`
	CacheBackend         string `env:"SRVINV_CACHE_BACKEND"`
	CachePathTemplate    string `env:"SRVINV_CACHE_PATH_TEMPLATE"`
	CacheDurationSeconds *int   `env:"SRVINV_CACHE_DURATION_SECONDS"`
	PrivateIP            string `env:"SRVINV_PRIVATE_IP"`
	OTelEndpoint         string `env:"SRVINV_OTEL_ENDPOINT"`
}

func (o EnvOverrides) Apply(cfg *Config) {
	if o.BaseURL != "" {
		cfg.Server.BaseURL = o.BaseURL
	}
	if o.APIVersion != "" {
		cfg.Server.APIVersion = o.APIVersion
	}
	if o.CacheBackend != "" {
		cfg.Cache.Backend = o.CacheBackend
	}
	if o.CachePathTemplate != "" {
		cfg.Cache.PathTemplate = o.CachePathTemplate
	}
	if o.CacheDurationSeconds != nil {
		cfg.Cache.DurationSeconds = *o.CacheDurationSeconds
	}
	if o.PrivateIP != "" {
		cfg.Identity.PrivateIP = o.PrivateIP
	}
	if o.OTelEndpoint != "" {
		cfg.Telemetry.OTelEndpoint = o.OTelEndpoint
	}
}

package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every setting of the load-shedding guard.
type Config struct {
	// Area selects the load-shedding area and the calendar used to read its schedule.
	Area AreaConfig `yaml:"area"`
	// SePush holds the EskomSePush API credentials.
	SePush SePushConfig `yaml:"sepush"`
	// Tuya holds the Tuya Cloud credentials and the controlled device.
	Tuya TuyaConfig `yaml:"tuya"`
	// Guard tunes the control loop.
	Guard GuardConfig `yaml:"guard"`
	// Status configures the HTTP status server.
	Status ListenConfig `yaml:"status"`
	// GRPC configures the gRPC health server.
	GRPC ListenConfig `yaml:"grpc"`
	// StateFile is the path of the JSON file recording the last shutdown.
	StateFile string `yaml:"state_file"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`
	// LogFormat is either console or json.
	LogFormat string `yaml:"log_format"`
}

// AreaConfig identifies the load-shedding area.
type AreaConfig struct {
	// ID is the EskomSePush area identifier, e.g. "eskde-10-fourwaysext10cityofjohannesburggauteng".
	ID string `yaml:"id"`
	// Test requests synthetic data from the API ("current" or "future"); empty means live data.
	Test string `yaml:"test"`
	// StatusRegion picks the national stage feed: eskom, capetown or none.
	StatusRegion string `yaml:"status_region"`
	// Timezone is the IANA zone that schedule dates and times are expressed in.
	Timezone string `yaml:"timezone"`
}

// SePushConfig holds EskomSePush API access settings.
type SePushConfig struct {
	// Token is the license key sent in the "token" header.
	Token string `yaml:"token"`
	// BaseURL overrides the API endpoint.
	BaseURL string `yaml:"base_url"`
	// Timeout bounds a single API request.
	Timeout time.Duration `yaml:"timeout"`
}

// TuyaConfig holds Tuya Cloud API access settings.
type TuyaConfig struct {
	// ClientID is the cloud project access id.
	ClientID string `yaml:"client_id"`
	// Secret is the cloud project access secret.
	Secret string `yaml:"secret"`
	// Region is the data center: eu, us, cn or in.
	Region string `yaml:"region"`
	// BaseURL overrides the endpoint derived from Region.
	BaseURL string `yaml:"base_url"`
	// DeviceID is the air conditioner's device id.
	DeviceID string `yaml:"device_id"`
	// SwitchCode is the data point that powers the device.
	SwitchCode string `yaml:"switch_code"`
	// Timeout bounds a single API request.
	Timeout time.Duration `yaml:"timeout"`
	// RateLimit is the maximum number of requests per second.
	RateLimit float64 `yaml:"rate_limit"`
}

// GuardConfig tunes the control loop.
type GuardConfig struct {
	// LeadTime is how long before the outage the device is switched off.
	LeadTime time.Duration `yaml:"lead_time"`
	// ScheduleRefresh is the interval between area schedule fetches.
	ScheduleRefresh time.Duration `yaml:"schedule_refresh"`
	// StageRefresh is the interval between national stage fetches.
	StageRefresh time.Duration `yaml:"stage_refresh"`
	// DeviceCheck is the interval between device state checks.
	DeviceCheck time.Duration `yaml:"device_check"`
	// CommandTimeout bounds the switch-off command.
	CommandTimeout time.Duration `yaml:"command_timeout"`
	// DryRun logs the switch-off instead of sending it.
	DryRun bool `yaml:"dry_run"`
}

// ListenConfig configures a listening server. An empty address disables it.
type ListenConfig struct {
	// Address is host:port to listen on.
	Address string `yaml:"listen"`
}

const (
	// DefaultConfigFilename is the default filename for guard settings.
	DefaultConfigFilename = "loadshed-guard.yaml"

	// DefaultStateFilename is the default filename for the shutdown record.
	DefaultStateFilename = "loadshed-guard-state.json"

	// DefaultTimezone is the zone EskomSePush publishes schedules in.
	DefaultTimezone = "Africa/Johannesburg"

	// DefaultStatusRegion is the national stage feed used when none is configured.
	DefaultStatusRegion = "eskom"

	// StatusRegionNone disables the national stage feed.
	StatusRegionNone = "none"

	// DefaultTuyaRegion matches the data center most South African accounts land in.
	DefaultTuyaRegion = "eu"

	// DefaultSwitchCode is the power data point of Tuya air conditioners.
	DefaultSwitchCode = "switch"

	// DefaultTimeout is the default duration for API requests.
	DefaultTimeout = 10 * time.Second

	// DefaultRateLimit is the default Tuya request rate per second.
	DefaultRateLimit = 2.0

	// DefaultLeadTime is how long before an outage the device is switched off.
	DefaultLeadTime = 5 * time.Minute

	// DefaultScheduleRefresh is the default area schedule fetch interval.
	DefaultScheduleRefresh = 3 * time.Hour

	// DefaultStageRefresh is the default national stage fetch interval.
	DefaultStageRefresh = time.Hour

	// DefaultDeviceCheck is the default device state check interval.
	DefaultDeviceCheck = time.Minute

	// DefaultCommandTimeout bounds the switch-off command.
	DefaultCommandTimeout = 10 * time.Second

	// DefaultLogLevel is the default logging level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log encoding.
	DefaultLogFormat = "console"

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// maxLeadTime caps LeadTime: schedules only describe a day at a time.
	maxLeadTime = 24 * time.Hour
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errAreaRequired is returned when the area id is missing.
	errAreaRequired = errors.New("area id must be provided")
	// errTokenRequired is returned when the EskomSePush token is missing.
	errTokenRequired = errors.New("sepush token must be provided")
	// errTuyaCredentials is returned when the Tuya client id or secret is missing.
	errTuyaCredentials = errors.New("tuya client_id and secret must be provided")
	// errDeviceRequired is returned when the device id is missing.
	errDeviceRequired = errors.New("tuya device_id must be provided")
	// errNonPositiveDuration is returned for zero or negative intervals.
	errNonPositiveDuration = errors.New("duration must be positive")
	// errLeadTimeTooLong is returned when the lead time exceeds a day.
	errLeadTimeTooLong = errors.New("guard lead_time must not exceed 24h")
	// errUnknownStatusRegion is returned for unsupported stage feeds.
	errUnknownStatusRegion = errors.New("area status_region must be eskom, capetown or none")
	// errUnknownLogFormat is returned for unsupported log encodings.
	errUnknownLogFormat = errors.New("log_format must be console or json")

	// envPattern matches ${VAR} and ${VAR:default}.
	envPattern = regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)
)

// Load reads configuration from the provided path, expands environment
// variables, applies defaults and validates the result.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	return Parse(contents)
}

// Parse decodes YAML settings, expands environment variables and validates them.
func Parse(contents []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal([]byte(ExpandEnv(string(contents))), &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes Settings to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Credentials live here, so restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// ExpandEnv replaces ${VAR} and ${VAR:default} references with environment values.
// Unset or empty variables resolve to the default, or to an empty string.
func ExpandEnv(input string) string {
	return envPattern.ReplaceAllStringFunc(input, func(match string) string {
		parts := envPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		if val := os.Getenv(parts[1]); val != "" {
			return val
		}

		if len(parts) >= 3 {
			return parts[2]
		}

		return ""
	})
}

// Location loads the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Area.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Area.Timezone, err)
	}

	return loc, nil
}

// StageFeedEnabled reports whether the national stage should be polled.
func (c *Config) StageFeedEnabled() bool {
	return c.Area.StatusRegion != StatusRegionNone
}

// Validate applies defaults and checks the provided settings for required fields and formatting.
//
//nolint:cyclop,funlen // Flat list of field checks.
func Validate(settings *Config) error {
	if settings == nil {
		return errConfigIsNotSet
	}

	applyDefaults(settings)

	if strings.TrimSpace(settings.Area.ID) == "" {
		return errAreaRequired
	}

	switch settings.Area.StatusRegion {
	case "eskom", "capetown", StatusRegionNone:
	default:
		return fmt.Errorf("%w: %q", errUnknownStatusRegion, settings.Area.StatusRegion)
	}

	if _, err := settings.Location(); err != nil {
		return err
	}

	if settings.SePush.Token == "" {
		return errTokenRequired
	}

	if settings.Tuya.ClientID == "" || settings.Tuya.Secret == "" {
		return errTuyaCredentials
	}

	if settings.Tuya.DeviceID == "" {
		return errDeviceRequired
	}

	for _, u := range []string{settings.SePush.BaseURL, settings.Tuya.BaseURL} {
		if u == "" {
			continue
		}

		if _, err := url.ParseRequestURI(u); err != nil {
			return fmt.Errorf("invalid base url: %w", err)
		}
	}

	durations := map[string]time.Duration{
		"guard.lead_time":        settings.Guard.LeadTime,
		"guard.schedule_refresh": settings.Guard.ScheduleRefresh,
		"guard.stage_refresh":    settings.Guard.StageRefresh,
		"guard.device_check":     settings.Guard.DeviceCheck,
		"guard.command_timeout":  settings.Guard.CommandTimeout,
	}
	for name, d := range durations {
		if d <= 0 {
			return fmt.Errorf("%s: %w", name, errNonPositiveDuration)
		}
	}

	if settings.Guard.LeadTime > maxLeadTime {
		return errLeadTimeTooLong
	}

	for _, addr := range []string{settings.Status.Address, settings.GRPC.Address} {
		if addr == "" {
			continue
		}

		if _, err := net.ResolveTCPAddr("tcp", addr); err != nil {
			return fmt.Errorf("invalid listen address: %w", err)
		}
	}

	switch settings.LogFormat {
	case "console", "json":
	default:
		return fmt.Errorf("%w: %q", errUnknownLogFormat, settings.LogFormat)
	}

	return nil
}

//nolint:cyclop // One branch per defaulted field.
func applyDefaults(settings *Config) {
	if settings.Area.Timezone == "" {
		settings.Area.Timezone = DefaultTimezone
	}

	if settings.Area.StatusRegion == "" {
		settings.Area.StatusRegion = DefaultStatusRegion
	}

	if settings.SePush.Timeout <= 0 {
		settings.SePush.Timeout = DefaultTimeout
	}

	if settings.Tuya.Region == "" {
		settings.Tuya.Region = DefaultTuyaRegion
	}

	if settings.Tuya.SwitchCode == "" {
		settings.Tuya.SwitchCode = DefaultSwitchCode
	}

	if settings.Tuya.Timeout <= 0 {
		settings.Tuya.Timeout = DefaultTimeout
	}

	if settings.Tuya.RateLimit <= 0 {
		settings.Tuya.RateLimit = DefaultRateLimit
	}

	if settings.Guard.LeadTime == 0 {
		settings.Guard.LeadTime = DefaultLeadTime
	}

	if settings.Guard.ScheduleRefresh == 0 {
		settings.Guard.ScheduleRefresh = DefaultScheduleRefresh
	}

	if settings.Guard.StageRefresh == 0 {
		settings.Guard.StageRefresh = DefaultStageRefresh
	}

	if settings.Guard.DeviceCheck == 0 {
		settings.Guard.DeviceCheck = DefaultDeviceCheck
	}

	if settings.Guard.CommandTimeout == 0 {
		settings.Guard.CommandTimeout = DefaultCommandTimeout
	}

	if settings.StateFile == "" {
		settings.StateFile = DefaultStateFilename
	}

	if settings.LogLevel == "" {
		settings.LogLevel = DefaultLogLevel
	}

	if settings.LogFormat == "" {
		settings.LogFormat = DefaultLogFormat
	}
}

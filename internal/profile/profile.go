// Package profile turns a resolved configuration into a typed install
// profile and validates field syntax before an installer consumes it.
package profile

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-viper/mapstructure/v2"

	"github.com/isoforge/archconf/internal/catalog"
	"github.com/isoforge/archconf/internal/conf"
)

// Profile is the typed view of a resolved configuration. Field tags
// name the configuration keys.
type Profile struct {
	Device          string   `conf:"DEVICE"`
	FileSystemType  string   `conf:"FILE_SYSTEM_TYPE"`
	PartitionScheme string   `conf:"PARTITION_SCHEME"`
	BootSize        string   `conf:"BOOT_SIZE"`
	RootSize        string   `conf:"ROOT_SIZE"`
	SwapSize        string   `conf:"SWAP_SIZE"`
	MountOpts       string   `conf:"MOUNT_OPTS"`
	Bootloader      string   `conf:"BOOTLOADER"`
	Kernels         []string `conf:"KERNELS"`
	Hostname        string   `conf:"HOSTNAME"`
	Timezone        string   `conf:"TIMEZONE"`
	EnableNTP       bool     `conf:"ENABLE_NTP"`
	UserName        string   `conf:"USER_NAME"`
	UserShell       string   `conf:"USER_SHELL"`
	AdditionalUsers []string `conf:"ADDITIONAL_USERS"`
	Locales         []string `conf:"LOCALE"`
	Keymap          string   `conf:"KEYMAP"`
	MirrorRegions   []string `conf:"MIRROR_REGIONS"`
	UseReflector    bool     `conf:"USE_REFLECTOR"`
	ExtraPackages   []string `conf:"EXTRA_PACKAGES"`
}

// ValidationError reports a field whose value does not fit its rule.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s (got %q)", e.Field, e.Reason, e.Value)
}

// Decode maps a resolved configuration onto a Profile. Single-choice
// and scalar keys become strings, multi-value keys string slices, and
// yes/no style scalars booleans.
func Decode(cfg *conf.Config) (*Profile, error) {
	values := make(map[string]any, cfg.Len())
	for _, name := range cfg.Keys() {
		v, _ := cfg.Get(name)
		switch v.Kind {
		case conf.Collection, conf.CandidateMultiple:
			values[name] = v.List()
		default:
			values[name] = v.Scalar()
		}
	}

	var p Profile
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:    "conf",
		Result:     &p,
		DecodeHook: boolHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(values); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &p, nil
}

// boolHookFunc converts yes/no style configuration scalars to bools.
// An empty string means the feature is off.
func boolHookFunc() mapstructure.DecodeHookFuncType {
	return func(f, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Bool {
			return data, nil
		}
		return parseBool(data.(string))
	}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "no", "false", "off", "0", "n":
		return false, nil
	case "yes", "true", "on", "1", "y":
		return true, nil
	}
	return false, fmt.Errorf("not a boolean: %q", s)
}

var (
	// devicePathRegex matches block device paths such as /dev/sda and
	// /dev/nvme0n1, including by-id style subdirectories.
	devicePathRegex = regexp.MustCompile(`^/dev/[A-Za-z0-9._/-]+$`)

	// hostnameRegex is an RFC 1123 label.
	hostnameRegex = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,62}$`)

	// userNameRegex follows useradd's portable name rules.
	userNameRegex = regexp.MustCompile(`^[a-z_][a-z0-9_-]{0,31}$`)

	// sizeRegex matches partition sizes: 512M, 30G, 100%.
	sizeRegex = regexp.MustCompile(`^([0-9]+[KMGT]?|[0-9]{1,3}%)$`)

	// timezoneRegex matches Area/City zone names with optional deeper
	// components (America/Argentina/Ushuaia).
	timezoneRegex = regexp.MustCompile(`^[A-Za-z_+-]+(/[A-Za-z0-9._+-]+)+$`)
)

// ValidHostname reports whether s is a usable machine hostname.
func ValidHostname(s string) bool { return hostnameRegex.MatchString(s) }

// ValidUserName reports whether s fits useradd's portable name rules.
func ValidUserName(s string) bool { return userNameRegex.MatchString(s) }

// ValidSize reports whether s is a partition size (512M, 30G, 100%).
func ValidSize(s string) bool { return sizeRegex.MatchString(s) }

// ValidTimezone reports whether s names a zoneinfo entry.
func ValidTimezone(s string) bool {
	return s == "UTC" || timezoneRegex.MatchString(s)
}

// ValidDevicePath reports whether s looks like a block device path.
func ValidDevicePath(s string) bool { return devicePathRegex.MatchString(s) }

// Validate checks every set field against its syntax rule and the
// catalog's allowed values. Empty fields are skipped; required-key
// enforcement is the caller's concern.
func (p *Profile) Validate(cat *catalog.Catalog) error {
	if p.Device != "" && !ValidDevicePath(p.Device) {
		return &ValidationError{Field: "DEVICE", Value: p.Device, Reason: "not a /dev path"}
	}
	if err := p.checkEnum(cat, "FILE_SYSTEM_TYPE", p.FileSystemType); err != nil {
		return err
	}
	if err := p.checkEnum(cat, "PARTITION_SCHEME", p.PartitionScheme); err != nil {
		return err
	}
	if err := p.checkEnum(cat, "BOOTLOADER", p.Bootloader); err != nil {
		return err
	}
	if err := p.checkEnum(cat, "USER_SHELL", p.UserShell); err != nil {
		return err
	}

	for _, f := range []struct{ name, value string }{
		{"BOOT_SIZE", p.BootSize},
		{"ROOT_SIZE", p.RootSize},
		{"SWAP_SIZE", p.SwapSize},
	} {
		if f.value != "" && !ValidSize(f.value) {
			return &ValidationError{Field: f.name, Value: f.value, Reason: "not a size (512M, 30G, 100%)"}
		}
	}

	if p.Hostname != "" && !ValidHostname(p.Hostname) {
		return &ValidationError{Field: "HOSTNAME", Value: p.Hostname, Reason: "not a valid hostname"}
	}
	if p.UserName != "" && !ValidUserName(p.UserName) {
		return &ValidationError{Field: "USER_NAME", Value: p.UserName, Reason: "not a valid user name"}
	}
	for _, u := range p.AdditionalUsers {
		if !ValidUserName(u) {
			return &ValidationError{Field: "ADDITIONAL_USERS", Value: u, Reason: "not a valid user name"}
		}
	}
	if p.Timezone != "" && !ValidTimezone(p.Timezone) {
		return &ValidationError{Field: "TIMEZONE", Value: p.Timezone, Reason: "not an Area/City zone"}
	}

	return nil
}

func (p *Profile) checkEnum(cat *catalog.Catalog, key, value string) error {
	if value == "" || cat.AllowedValue(key, value) {
		return nil
	}
	k, _ := cat.Get(key)
	return &ValidationError{
		Field:  key,
		Value:  value,
		Reason: "must be one of " + strings.Join(k.Values, ", "),
	}
}

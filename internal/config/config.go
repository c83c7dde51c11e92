// Package config merges the command line, environment, and the optional
// YAML file into the settings for one run.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables recognized during resolution.
const (
	EnvUser  = "ZONEEDIT_USER"
	EnvToken = "ZONEEDIT_TOKEN"
	EnvHosts = "ZONEEDIT_HOSTS" // comma-separated list
)

// Flags carries the raw command-line values before merging.
type Flags struct {
	User           string
	Token          string
	Hosts          []string
	IP             string
	ConfigPath     string
	TimeoutSeconds float64
	NoDetect       bool
	Verbose        bool
	Quiet          bool
	Provider       string
	APIURL         string
	IPServices     []string
	Interfaces     []string
}

// Settings is the fully merged configuration for one run.
// It is constructed once by Resolve and not modified afterwards.
type Settings struct {
	User       string
	Token      string
	Hosts      []string
	IP         string
	Timeout    time.Duration
	NoDetect   bool
	Verbose    bool
	Quiet      bool
	Provider   string
	APIURL     string
	IPServices []string
	Interfaces []string
}

// Resolve merges flag, environment, and file sources into Settings.
//
// Scalars take the first non-empty value in flag > env > file order.
// The host list is a union instead: flag repeats, then the ZONEEDIT_HOSTS
// comma list, then the file list, deduplicated keeping the first occurrence.
// The env lookup is a parameter so tests can supply their own environment.
func Resolve(flags Flags, getenv func(string) string) Settings {
	file := loadFile(flags.ConfigPath)

	s := Settings{
		User:       firstNonEmpty(flags.User, getenv(EnvUser), file.user),
		Token:      firstNonEmpty(flags.Token, getenv(EnvToken), file.token),
		IP:         strings.TrimSpace(flags.IP),
		NoDetect:   flags.NoDetect,
		Verbose:    flags.Verbose,
		Quiet:      flags.Quiet,
		Provider:   flags.Provider,
		APIURL:     flags.APIURL,
		IPServices: flags.IPServices,
		Interfaces: flags.Interfaces,
	}

	var hosts []string
	hosts = append(hosts, flags.Hosts...)
	hosts = append(hosts, splitHosts(getenv(EnvHosts))...)
	hosts = append(hosts, file.hosts...)
	s.Hosts = dedup(hosts)

	secs := flags.TimeoutSeconds
	if secs <= 0 {
		secs = 10.0
	}
	s.Timeout = time.Duration(secs * float64(time.Second))

	return s
}

// DefaultPath returns the config file location used when --config is not
// given: a config/ directory next to the executable.
func DefaultPath() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join("config", "ZoneEdit.yaml")
	}
	return filepath.Join(filepath.Dir(exe), "config", "ZoneEdit.yaml")
}

type fileValues struct {
	user  string
	token string
	hosts []string
}

// loadFile reads the optional YAML config file with keys user, token, hosts.
//
// Resolution must never abort because of the file: a missing or unreadable
// file, or a document that is not a mapping, degrades to empty values, and
// a malformed hosts entry cannot poison user or token.
func loadFile(path string) (fv fileValues) {
	if path == "" {
		path = DefaultPath()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fv
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fv
	}

	fv.user = stringValue(raw["user"])
	fv.token = stringValue(raw["token"])
	if list, ok := raw["hosts"].([]any); ok {
		for _, h := range list {
			if s := stringValue(h); s != "" {
				fv.hosts = append(fv.hosts, s)
			}
		}
	}
	return fv
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}

func splitHosts(list string) (hosts []string) {
	for _, h := range strings.Split(list, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// dedup removes duplicates keeping the first occurrence of each host.
func dedup(hosts []string) (unique []string) {
	seen := make(map[string]bool, len(hosts))
	for _, h := range hosts {
		h = strings.TrimSpace(h)
		if h == "" || seen[h] {
			continue
		}
		seen[h] = true
		unique = append(unique, h)
	}
	return unique
}

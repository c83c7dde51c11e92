package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func fakeEnv(vars map[string]string) func(string) string {
	return func(key string) string { return vars[key] }
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ZoneEdit.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing config file: %s", err)
	}
	return path
}

// missingConfig returns a path that does not exist, so resolution cannot
// accidentally pick up a real config file next to the test binary.
func missingConfig(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "missing.yaml")
}

func TestScalarPrecedence(t *testing.T) {
	fileWithBoth := writeConfig(t, "user: fileuser\ntoken: filetoken\n")

	tests := []struct {
		name      string
		flags     Flags
		env       map[string]string
		wantUser  string
		wantToken string
	}{
		{
			name:      "flag wins over env and file",
			flags:     Flags{User: "flaguser", Token: "flagtoken", ConfigPath: fileWithBoth},
			env:       map[string]string{EnvUser: "envuser", EnvToken: "envtoken"},
			wantUser:  "flaguser",
			wantToken: "flagtoken",
		},
		{
			name:      "env wins over file",
			flags:     Flags{ConfigPath: fileWithBoth},
			env:       map[string]string{EnvUser: "envuser", EnvToken: "envtoken"},
			wantUser:  "envuser",
			wantToken: "envtoken",
		},
		{
			name:      "file used when flag and env are empty",
			flags:     Flags{ConfigPath: fileWithBoth},
			env:       map[string]string{},
			wantUser:  "fileuser",
			wantToken: "filetoken",
		},
		{
			name:      "empty everywhere",
			flags:     Flags{ConfigPath: missingConfig(t)},
			env:       map[string]string{},
			wantUser:  "",
			wantToken: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Resolve(tt.flags, fakeEnv(tt.env))
			if s.User != tt.wantUser {
				t.Errorf("User = %q, want %q", s.User, tt.wantUser)
			}
			if s.Token != tt.wantToken {
				t.Errorf("Token = %q, want %q", s.Token, tt.wantToken)
			}
		})
	}
}

func TestHostUnionOrder(t *testing.T) {
	path := writeConfig(t, "hosts:\n  - c.example.com\n  - d.example.com\n")
	flags := Flags{
		Hosts:      []string{"a.example.com", "b.example.com"},
		ConfigPath: path,
	}
	env := map[string]string{EnvHosts: " b.example.com , c.example.com ,"}

	s := Resolve(flags, fakeEnv(env))
	want := []string{"a.example.com", "b.example.com", "c.example.com", "d.example.com"}
	if !reflect.DeepEqual(s.Hosts, want) {
		t.Fatalf("Hosts = %v, want %v", s.Hosts, want)
	}
}

func TestHostsFromSingleSource(t *testing.T) {
	flags := Flags{ConfigPath: missingConfig(t)}
	env := map[string]string{EnvHosts: "only.example.com"}

	s := Resolve(flags, fakeEnv(env))
	want := []string{"only.example.com"}
	if !reflect.DeepEqual(s.Hosts, want) {
		t.Fatalf("Hosts = %v, want %v", s.Hosts, want)
	}
}

func TestMalformedFileDegradesToEmpty(t *testing.T) {
	path := writeConfig(t, "this is just some arbitrary text, not a mapping\n")
	s := Resolve(Flags{ConfigPath: path}, fakeEnv(nil))

	if s.User != "" || s.Token != "" || len(s.Hosts) != 0 {
		t.Fatalf("expected empty settings from malformed file, got %+v", s)
	}
}

func TestMissingFileDegradesToEmpty(t *testing.T) {
	s := Resolve(Flags{ConfigPath: missingConfig(t)}, fakeEnv(nil))
	if s.User != "" || s.Token != "" || len(s.Hosts) != 0 {
		t.Fatalf("expected empty settings from missing file, got %+v", s)
	}
}

func TestBadHostsValueKeepsCredentials(t *testing.T) {
	path := writeConfig(t, "user: fileuser\ntoken: filetoken\nhosts: oops-not-a-list\n")
	s := Resolve(Flags{ConfigPath: path}, fakeEnv(nil))

	if s.User != "fileuser" || s.Token != "filetoken" {
		t.Fatalf("expected credentials to survive bad hosts value, got user=%q token=%q", s.User, s.Token)
	}
	if len(s.Hosts) != 0 {
		t.Fatalf("expected no hosts, got %v", s.Hosts)
	}
}

func TestFileHostsAreCoercedAndTrimmed(t *testing.T) {
	path := writeConfig(t, "hosts:\n  - \"  x.example.com \"\n  - 42\n")
	s := Resolve(Flags{ConfigPath: path}, fakeEnv(nil))

	want := []string{"x.example.com", "42"}
	if !reflect.DeepEqual(s.Hosts, want) {
		t.Fatalf("Hosts = %v, want %v", s.Hosts, want)
	}
}

func TestTimeout(t *testing.T) {
	tests := []struct {
		name    string
		seconds float64
		want    time.Duration
	}{
		{"default when unset", 0, 10 * time.Second},
		{"fractional seconds", 2.5, 2500 * time.Millisecond},
		{"negative falls back to default", -1, 10 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Resolve(Flags{TimeoutSeconds: tt.seconds, ConfigPath: missingConfig(t)}, fakeEnv(nil))
			if s.Timeout != tt.want {
				t.Errorf("Timeout = %s, want %s", s.Timeout, tt.want)
			}
		})
	}
}

func TestIPComesOnlyFromFlags(t *testing.T) {
	s := Resolve(Flags{IP: " 203.0.113.10 ", ConfigPath: missingConfig(t)}, fakeEnv(nil))
	if s.IP != "203.0.113.10" {
		t.Fatalf("IP = %q, want %q", s.IP, "203.0.113.10")
	}
}

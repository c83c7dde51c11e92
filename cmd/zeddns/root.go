package main

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"zeddns"
	"zeddns/internal/config"
)

// Exit codes.
const (
	exitOK      = 0 // every host updated successfully
	exitPartial = 1 // at least one host update failed
	exitConfig  = 2 // configuration/validation error, including detection failure
)

// exitError carries the process exit code alongside the message printed to stderr.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func execute(cmd *cobra.Command) int {
	if err := cmd.Execute(); err != nil {
		var ee *exitError
		if errors.As(err, &ee) {
			return ee.code
		}
		return exitConfig
	}
	return exitOK
}

func newRootCmd() *cobra.Command {
	var flags config.Flags

	cmd := &cobra.Command{
		Use:   "zeddns",
		Short: "Update ZoneEdit Dynamic DNS records for one or more hosts",
		Long: `zeddns resolves the caller's public IPv4 address and pushes it to
ZoneEdit's dynamic DNS endpoint for each configured hostname.

Credentials are the ZoneEdit username and dynamic DNS token (NOT the
account password). Configuration merges CLI flags, the ZONEEDIT_USER,
ZONEEDIT_TOKEN, and ZONEEDIT_HOSTS environment variables, and an optional
YAML config file, in that order of precedence.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, config.Resolve(flags, os.Getenv))
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.User, "user", "", "ZoneEdit username")
	f.StringVar(&flags.Token, "token", "", "ZoneEdit dynamic DNS token")
	f.StringArrayVar(&flags.Hosts, "host", nil, "hostname to update (repeat for multiple)")
	f.StringVar(&flags.IP, "ip", "", "use this IP instead of auto-detecting")
	f.StringVar(&flags.ConfigPath, "config", "", "path to YAML config file (default: config/ZoneEdit.yaml beside the binary)")
	f.Float64Var(&flags.TimeoutSeconds, "timeout", 10.0, "HTTP timeout in seconds")
	f.BoolVar(&flags.NoDetect, "no-detect", false, "do not auto-detect the IP if --ip is missing (error instead)")
	f.BoolVarP(&flags.Verbose, "verbose", "v", false, "verbose output")
	f.BoolVarP(&flags.Quiet, "quiet", "q", false, "suppress non-error output")
	f.StringVar(&flags.Provider, "provider", "zoneedit", "DNS provider to update (zoneedit or cloudflare)")
	f.StringVar(&flags.APIURL, "api-url", zeddns.DefaultUpdateURL, "override the ZoneEdit update endpoint")
	f.StringArrayVar(&flags.IPServices, "ip-service", nil, "override the public IP lookup services (repeat for multiple)")
	f.StringArrayVar(&flags.Interfaces, "iface", nil, "take the IP from a local interface instead of web detection (repeat for multiple)")

	cmd.AddCommand(newSetupCmd())
	return cmd
}

func runUpdate(cmd *cobra.Command, settings config.Settings) error {
	logger := newLogger(cmd.ErrOrStderr(), settings.Verbose)

	switch settings.Provider {
	case "zoneedit":
		if settings.User == "" || settings.Token == "" {
			return &exitError{exitConfig, "ZoneEdit user/token required (via CLI, env, or config)"}
		}
	case "cloudflare":
		if settings.Token == "" {
			return &exitError{exitConfig, "Cloudflare API token required (via CLI, env, or config)"}
		}
	default:
		return &exitError{exitConfig, fmt.Sprintf("unknown provider %q", settings.Provider)}
	}
	if len(settings.Hosts) == 0 {
		return &exitError{exitConfig, "at least one --host (or hosts in env/config) is required"}
	}
	if settings.IP == "" && settings.NoDetect && len(settings.Interfaces) == 0 {
		return &exitError{exitConfig, "--ip not provided and --no-detect set"}
	}

	client, err := newClient(settings, logger)
	if err != nil {
		return &exitError{exitConfig, err.Error()}
	}

	ctx := cmd.Context()
	var ip netip.Addr
	if settings.IP != "" {
		ip, err = netip.ParseAddr(settings.IP)
		if err != nil {
			return &exitError{exitConfig, fmt.Sprintf("invalid --ip value %q: %s", settings.IP, err)}
		}
	} else {
		ip, err = client.Resolve(ctx)
		if err != nil {
			return &exitError{exitConfig, fmt.Sprintf("failed to auto-detect public IPv4: %s", err)}
		}
		if settings.Verbose && !settings.Quiet {
			fmt.Fprintf(cmd.OutOrStdout(), "Detected public IP: %s\n", ip)
		}
	}

	// Hosts are updated sequentially in resolved order; a failure on one
	// host never aborts the remaining hosts.
	failed := 0
	for _, host := range settings.Hosts {
		res := client.Update(ctx, host, ip)
		if !res.Success {
			failed++
		}
		if !settings.Quiet {
			tag := "OK"
			if !res.Success {
				tag = "FAIL"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] host=%s ip=%s http=%d body=%s\n",
				tag, res.Host, ip, res.StatusCode, strings.TrimSpace(res.Body))
		}
	}
	if failed > 0 {
		return &exitError{exitPartial, fmt.Sprintf("%d of %d host updates failed", failed, len(settings.Hosts))}
	}
	return nil
}

func newClient(settings config.Settings, logger zerolog.Logger) (*zeddns.Client, error) {
	opts := []zeddns.Option{
		zeddns.WithTimeout(settings.Timeout),
		zeddns.WithLogger(logger),
	}

	switch settings.Provider {
	case "cloudflare":
		opts = append(opts, zeddns.UsingCloudflare(settings.Token))
	default:
		ze := zeddns.NewZoneEdit(settings.User, settings.Token)
		if settings.APIURL != "" {
			ze.URL = settings.APIURL
		}
		opts = append(opts, zeddns.UsingProvider(ze))
	}

	switch {
	case len(settings.Interfaces) > 0:
		opts = append(opts, zeddns.UsingResolver(zeddns.InterfaceResolver(settings.Interfaces...)))
	case len(settings.IPServices) > 0:
		opts = append(opts, zeddns.UsingWebResolver(settings.IPServices...))
	}

	return zeddns.New(opts...)
}

func newLogger(w io.Writer, verbose bool) zerolog.Logger {
	logger := zerolog.New(w).With().Timestamp().Logger()
	if !verbose {
		logger = logger.Level(zerolog.WarnLevel)
	}
	return logger
}

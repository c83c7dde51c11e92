package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"zeddns/internal/config"
)

func newSetupCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Interactively create the YAML config file",
		Long: `setup prompts for the ZoneEdit username and dynamic DNS token and
writes them to the config file with mode 0600. An existing file is never
overwritten.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = config.DefaultPath()
			}
			return runSetup(cmd, path)
		},
	}
	cmd.Flags().StringVar(&path, "config", "", "where to write the config file (default: config/ZoneEdit.yaml beside the binary)")
	return cmd
}

func runSetup(cmd *cobra.Command, path string) error {
	out := cmd.OutOrStdout()
	reader := bufio.NewReader(cmd.InOrStdin())

	fmt.Fprint(out, "ZoneEdit username: ")
	user, err := readLine(reader)
	if err != nil {
		return fmt.Errorf("error reading from stdin: %w", err)
	}

	fmt.Fprint(out, "ZoneEdit dynamic DNS token: ")
	token, err := readSecret(reader)
	if err != nil {
		return fmt.Errorf("error reading token from stdin: %w", err)
	}
	fmt.Fprintln(out)

	fmt.Fprint(out, "Hostnames (comma separated, optional): ")
	hostsLine, err := readLine(reader)
	if err != nil {
		return fmt.Errorf("error reading from stdin: %w", err)
	}

	doc := struct {
		User  string   `yaml:"user"`
		Token string   `yaml:"token"`
		Hosts []string `yaml:"hosts,omitempty"`
	}{User: user, Token: token}
	for _, h := range strings.Split(hostsLine, ",") {
		if h = strings.TrimSpace(h); h != "" {
			doc.Hosts = append(doc.Hosts, h)
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("unable to create %q: %w", dir, err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("unable to create %q: %w", path, err)
	}
	defer f.Close()

	enc := yaml.NewEncoder(f)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("error writing config: %w", err)
	}

	fmt.Fprintf(out, "Config written to %s\n", path)
	return nil
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// readSecret avoids echoing the token when stdin is a terminal.
func readSecret(reader *bufio.Reader) (string, error) {
	if term.IsTerminal(int(syscall.Stdin)) {
		b, err := term.ReadPassword(int(syscall.Stdin))
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(string(b)), nil
	}
	return readLine(reader)
}

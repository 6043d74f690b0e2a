// Package register adds headerstamp's MCP server entry to a client
// configuration file.
package register

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/natefinch/atomic"
)

// ServeCommand is the subcommand that starts the MCP server.
const ServeCommand = "serve"

// Scopes accepted by Run.
const (
	ScopeProject = "project"
	ScopeUser    = "user"
)

type mcpServerEntry struct {
	Command string   `json:"command"`
	Args    []string `json:"args,omitempty"`
}

// Options selects where the entry is written and what the server is started with.
type Options struct {
	Scope string
	// Directory holding .mcp.json, for the project scope.
	Directory string
	// ServerArgs are passed to the serve subcommand.
	ServerArgs []string
}

// ParseArgs builds Options from the positional arguments of the register
// command. dashAt is the number of arguments before a "--" separator, or
// -1 when there is none; everything after it is forwarded to the server.
func ParseArgs(args []string, dashAt int) (Options, error) {
	var opts Options
	positional := args
	if dashAt >= 0 && dashAt <= len(args) {
		positional = args[:dashAt]
		opts.ServerArgs = args[dashAt:]
	}
	if len(positional) == 0 {
		return opts, fmt.Errorf("missing scope (must be %q or %q)", ScopeProject, ScopeUser)
	}

	opts.Scope = positional[0]
	switch opts.Scope {
	case ScopeProject:
		opts.Directory = "."
		if len(positional) > 1 {
			opts.Directory = positional[1]
		}
		if len(positional) > 2 {
			return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(positional[2:], " "))
		}
	case ScopeUser:
		if len(positional) > 1 {
			return opts, fmt.Errorf("unexpected arguments: %s", strings.Join(positional[1:], " "))
		}
	default:
		return opts, fmt.Errorf("unknown scope %q (must be %q or %q)", opts.Scope, ScopeProject, ScopeUser)
	}

	if len(opts.ServerArgs) == 0 {
		opts.ServerArgs = nil
	}
	return opts, nil
}

// Run writes the server entry described by opts and returns the path of the
// updated configuration file.
func Run(serverName string, opts Options) (string, error) {
	binaryPath, err := detectBinaryPath()
	if err != nil {
		return "", fmt.Errorf("detecting binary path: %w", err)
	}

	configPath, err := resolveConfigPath(opts.Scope, opts.Directory)
	if err != nil {
		return "", fmt.Errorf("resolving config path: %w", err)
	}

	entry := buildEntry(binaryPath, opts.ServerArgs)
	if err := writeConfig(configPath, serverName, entry); err != nil {
		return "", fmt.Errorf("writing config: %w", err)
	}
	return configPath, nil
}

// DeriveServerName extracts a server name from a binary path by stripping .exe and -mcp suffixes.
func DeriveServerName(binaryPath string) string {
	name := filepath.Base(binaryPath)
	name = strings.TrimSuffix(name, ".exe")
	name = strings.TrimSuffix(name, "-mcp")
	return name
}

func detectBinaryPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("getting executable path: %w", err)
	}
	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("resolving symlinks for %s: %w", exe, err)
	}
	return resolved, nil
}

func resolveConfigPath(scope string, directory string) (string, error) {
	if scope == ScopeProject {
		absDir, err := filepath.Abs(directory)
		if err != nil {
			return "", fmt.Errorf("resolving directory %s: %w", directory, err)
		}
		return filepath.Join(absDir, ".mcp.json"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(homeDir, ".claude.json"), nil
}

// buildEntry starts the binary with the serve subcommand followed by serverArgs.
func buildEntry(binaryPath string, serverArgs []string) mcpServerEntry {
	args := append([]string{ServeCommand}, serverArgs...)
	if runtime.GOOS == "windows" {
		return mcpServerEntry{
			Command: "cmd",
			Args:    append([]string{"/C", binaryPath}, args...),
		}
	}
	return mcpServerEntry{
		Command: binaryPath,
		Args:    args,
	}
}

func writeConfig(configPath string, serverName string, entry mcpServerEntry) error {
	config := map[string]interface{}{
		"mcpServers": map[string]interface{}{},
	}

	data, err := os.ReadFile(configPath)
	if err == nil {
		if err := json.Unmarshal(data, &config); err != nil {
			return fmt.Errorf("parsing existing config %s: %w", configPath, err)
		}
	}

	servers, ok := config["mcpServers"]
	if !ok {
		servers = map[string]interface{}{}
		config["mcpServers"] = servers
	}

	serversMap, ok := servers.(map[string]interface{})
	if !ok {
		return fmt.Errorf("mcpServers in %s is not an object", configPath)
	}

	serversMap[serverName] = entry

	output, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	output = append(output, '\n')

	if err := atomic.WriteFile(configPath, bytes.NewReader(output)); err != nil {
		return fmt.Errorf("replacing %s: %w", configPath, err)
	}
	return nil
}

package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
)

// Environment variables passed to extensions, so that they share the
// global flags of pfd.
const (
	EnvConfig    = "PFD_CONFIG"
	EnvOutputDir = "PFD_OUTPUT_DIR"
	EnvLogLevel  = "PFD_LOG_LEVEL"
)

// ExtensionPrefix prefixes the name of external subcommand binaries.
const ExtensionPrefix = "pfd-"

// RunExtension attempts to find and execute an external pfd-<subcommand> binary.
// It returns (true, exitCode) if an extension was found and executed,
// and (false, 0) if no extension was found.
func RunExtension(subcommand string, args []string) (bool, int) {
	name := ExtensionPrefix + subcommand

	lp, err := exec.LookPath(name)
	if err != nil {
		return false, 0
	}

	cmd := exec.Command(lp, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = extensionEnv(os.Environ())

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return true, exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing external command %q: %v\n", name, err)
		return true, 1
	}
	return true, 0
}

// extensionEnv appends the global flags that were set to env. Unset flags
// leave any inherited value alone.
func extensionEnv(env []string) []string {
	for k, v := range map[string]string{
		EnvConfig:    *configFile,
		EnvOutputDir: *outDir,
		EnvLogLevel:  *logLevel,
	} {
		if v != "" {
			env = append(env, k+"="+v)
		}
	}
	return env
}

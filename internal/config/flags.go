package config

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "querybench",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Target and matrix flags
	flags.String("base-url", "", "Base URL of the backend under test")
	flags.StringSlice("category", nil, "Scenario category to benchmark (repeatable)")
	flags.StringSlice("variant", nil, "Restrict to specific variants (default: all variants per category)")
	flags.IntSlice("limit", nil, "Restrict to specific record limits (default: the configured record limit)")
	flags.IntP("record-limit", "l", 50, "Default record limit per request")

	// Measurement flags
	flags.IntP("iterations", "n", 3, "Timed attempts per style for single-resource units")
	flags.Duration("settle", 500*time.Millisecond, "Settling delay between attempts (excluded from measurement)")
	flags.Duration("timeout", 30*time.Second, "Per-request timeout")

	// Auth flags
	flags.String("auth-mode", string(AuthModeCredential), "Authentication mode: credential or token")
	flags.StringP("username", "u", "", "Username for credential mode")
	flags.StringP("password", "p", "", "Password for credential mode")
	flags.String("token", "", "Static bearer token for token mode")
	flags.String("token-url", "", "Token endpoint used to refresh expired tokens")
	flags.String("client-id", "", "Client ID for token refresh")
	flags.String("client-secret", "", "Client secret for token refresh")

	// Output flags
	flags.Bool("json-output", false, "Emit JSON formatted output")
	flags.Bool("log-errors", false, "Log each failed unit to stderr")
	flags.String("export", "", "Write the full result log as JSON to the specified file path")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Tracing flags
	flags.String("otlp-endpoint", "", "OTLP collector endpoint (enables tracing)")
	flags.String("otlp-protocol", "", "OTLP transport protocol: grpc or http")
	flags.Float64("trace-sample-rate", 1.0, "Trace sampling rate between 0.0 and 1.0")

	flags.BoolP("help", "h", false, "Show help message")
}

func displayHelp(cmd *cobra.Command) {
	fmt.Fprintln(cmd.OutOrStdout(), "querybench - comparative benchmark for direct-fetch vs structured-query styles")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), "Usage:")
	fmt.Fprintln(cmd.OutOrStdout(), "  querybench --base-url <url> --category <name> [flags]")
	fmt.Fprintln(cmd.OutOrStdout())
	fmt.Fprintln(cmd.OutOrStdout(), "Flags:")
	fmt.Fprintln(cmd.OutOrStdout(), cmd.Flags().FlagUsages())
}

// Command predict-price estimates a product's market price from its name,
// category, rating and rating count. It writes exactly one JSON object to
// stdout; logs go to stderr.
//
// Usage:
//
//	predict-price [--diagnostics] [--config file] [--] <name> <category> <rating> <rating_count>
//
// Only --diagnostics, --config, --help, --version and -- are read as flags,
// and only before the first input; every later argument is an input even
// when it starts with "-". --help and --version print to stderr and still
// write the "Not enough inputs" object to stdout.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marketmind/backend/config"
	"github.com/marketmind/backend/internal/app"
	"github.com/marketmind/backend/internal/domain"
	"github.com/marketmind/backend/internal/usecase"
)

var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// execute runs one invocation and returns the process exit status
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	var result domain.PredictionResult
	cmd := newRootCmd(stderr, &result)
	cmd.SetArgs(args)

	if err := cmd.ExecuteContext(ctx); err != nil {
		result = domain.ErrorResult(err.Error())
	}

	if err := writeResult(stdout, result); err != nil {
		fmt.Fprintf(stderr, "error: writing result: %v\n", err)
		return 1
	}
	if result.IsError() {
		return 1
	}
	return 0
}

func newRootCmd(stderr io.Writer, result *domain.PredictionResult) *cobra.Command {
	var (
		configFile  string
		diagnostics bool
	)

	// Product names are free text, so cobra parses no flags itself; RunE
	// splits the leading ones off.
	cmd := &cobra.Command{
		Use:                "predict-price <name> <category> <rating> <rating_count>",
		Short:              "Estimate a product's market price from historical listings",
		Version:            version,
		Args:               cobra.ArbitraryArgs,
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			n := leadingFlags(args)
			if err := cmd.Flags().Parse(args[:n]); err != nil {
				return err
			}
			args = args[n:]

			if help, _ := cmd.Flags().GetBool("help"); help {
				*result = domain.NotEnoughInputsResult()
				return cmd.Help()
			}
			if v, _ := cmd.Flags().GetBool("version"); v {
				*result = domain.NotEnoughInputsResult()
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", cmd.Name(), cmd.Version)
				return nil
			}

			if len(args) < usecase.RequiredInputs {
				*result = domain.NotEnoughInputsResult()
				return nil
			}

			cfg, err := config.Load(configFile)
			if err != nil {
				*result = domain.ErrorResult("Configuration error: " + err.Error())
				return nil
			}

			slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
				Level: cfg.LogLevel(slog.LevelWarn),
			})))

			// Every invocation retrains; the CLI never reuses an estimator.
			service := app.NewPricingService(cfg, app.Options{
				Diagnostics:  diagnostics,
				DisableCache: true,
			})

			res, err := service.EstimateArgs(cmd.Context(), args)
			if err != nil {
				slog.Error("estimation failed", "error", err)
				*result = usecase.RenderError(err)
				return nil
			}
			*result = res
			return nil
		},
	}

	cmd.SetOut(stderr)
	cmd.SetErr(stderr)
	cmd.Flags().StringVar(&configFile, "config", "", "config file (default: ./config.yaml, ./config/config.yaml, /etc/marketmind/config.yaml)")
	cmd.Flags().BoolVar(&diagnostics, "diagnostics", false, "include data source provenance in the result")
	cmd.Flags().Bool("help", false, "help for predict-price")
	cmd.Flags().Bool("version", false, "version for predict-price")

	return cmd
}

// leadingFlags returns how many arguments at the front of args are flags,
// counting a "--config" value and a closing "--".
func leadingFlags(args []string) int {
	i := 0
	for i < len(args) {
		arg := args[i]
		if arg == "--" {
			return i + 1
		}
		if !strings.HasPrefix(arg, "--") {
			return i
		}
		name, _, hasValue := strings.Cut(arg[2:], "=")
		switch name {
		case "config":
			if hasValue {
				i++
			} else {
				i += 2
			}
		case "diagnostics", "help", "version":
			i++
		default:
			return i
		}
	}
	return min(i, len(args))
}

func writeResult(w io.Writer, result domain.PredictionResult) error {
	b, err := json.Marshal(result)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", b)
	return err
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the sauron CLI, which finds the
// researchers at an institution and reconciles them against INSPIRE-HEP.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wevbarker/sauron/internal/finder"
	"github.com/wevbarker/sauron/internal/logging"
	"github.com/wevbarker/sauron/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// envFiles are loaded before configuration is read. Later files do not
// override variables already set.
var envFiles = []string{".env", ".env.local"}

// app carries state shared by subcommands once the root pre-run has
// finished.
type app struct {
	v       *viper.Viper
	logger  zerolog.Logger
	secrets map[string]string

	// secretsDir and getenv are replaced in tests.
	secretsDir string
	getenv     func(string) string
}

func newApp() *app {
	v := viper.New()
	setDefaults(v)
	return &app{
		v:          v,
		logger:     zerolog.Nop(),
		secretsDir: ".secrets",
		getenv:     os.Getenv,
	}
}

// newRootCmd builds the command tree around a.
func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "sauron",
		Short: "Find the researchers at an institution via INSPIRE-HEP",
		Long: `sauron builds a list of the researchers at an institution. A discovery
backend (a search-enabled AI model, or a file of names) proposes candidate
names; each name is matched against INSPIRE-HEP, and the matched researchers'
current affiliations are expanded into full membership lists. The result is
written as a Markdown table under output/<Institution_Name>/.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().String("config", "", "config file (default: ./sauron.yaml or ~/.config/sauron/sauron.yaml)")
	root.PersistentFlags().String("log-level", "warn", "log level: debug, info, warn, error, disabled")
	root.PersistentFlags().String("log-format", "auto", "log format: auto, console, json")
	root.PersistentFlags().String("log-output", "stderr", "log destination: stderr, stdout, discard, or a file path")

	root.AddCommand(newFindCmd(a), newCacheCmd(a), newVersionCmd())
	return root
}

// init loads environment files, configuration, the logger, and secrets.
func (a *app) init(cmd *cobra.Command) error {
	for _, f := range envFiles {
		_ = godotenv.Load(f)
	}

	bindFlags(a.v, cmd.Flags(), flagKeys)

	cfgFile, _ := cmd.Flags().GetString("config")
	if err := initConfig(a.v, cfgFile); err != nil {
		return err
	}

	a.logger = logging.New(logging.Config{
		Level:   a.v.GetString("log.level"),
		Format:  a.v.GetString("log.format"),
		Output:  a.v.GetString("log.output"),
		NoColor: a.getenv("NO_COLOR") != "",
	})
	if used := a.v.ConfigFileUsed(); used != "" {
		a.logger.Info().Str("file", used).Msg("using config file")
	}

	s, err := secrets.Load(a.secretsDir, a.logger)
	if err != nil {
		return err
	}
	a.secrets = s
	if len(s) > 0 {
		keys := make([]string, 0, len(s))
		for k := range s {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		a.logger.Info().Strs("keys", keys).Msg("loaded secrets")
	}

	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))
	return nil
}

// initConfig points v at the config file and the SAURON_ environment. A
// missing default config file is not an error; a missing explicit one is.
func initConfig(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("sauron")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "sauron"))
		}
	}

	v.SetEnvPrefix("SAURON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) && cfgFile == "" {
			return nil
		}
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

// run executes the command tree with args and returns the process exit
// code. A cancelled ctx fails the run without writing a report.
func run(ctx context.Context, a *app, args []string, stdout, stderr io.Writer) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, finder.ErrNoResearchers) {
			fmt.Fprintln(stderr, "No researchers found.")
		} else {
			fmt.Fprintln(stderr, "Error:", err)
		}
		return 1
	}
	return 0
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, newApp(), os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

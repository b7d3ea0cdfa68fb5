// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wevbarker/sauron/internal/cache"
	"github.com/wevbarker/sauron/internal/discovery"
	"github.com/wevbarker/sauron/internal/finder"
	"github.com/wevbarker/sauron/internal/inspire"
	"github.com/wevbarker/sauron/internal/metrics"
	"github.com/wevbarker/sauron/internal/report"
	"github.com/wevbarker/sauron/internal/secrets"
	"github.com/wevbarker/sauron/pkg/types"
)

func newFindCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find <institution>",
		Short: "Discover and reconcile the researchers at an institution",
		Long: `Find asks the discovery backend for researcher names at the institution,
keeps the lines that look like person names, and matches each against
INSPIRE-HEP. The current affiliations of matched researchers are resolved
to INSPIRE institutions whose names share a keyword with the institution,
and every current member of those institutions is listed. The combined,
deduplicated list is written to output/<Institution_Name>/researchers.md
unless --output says otherwise.

The command exits with status 1 when no researchers are found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runFind(cmd, strings.Join(args, " "))
		},
	}

	f := cmd.Flags()
	d := types.DefaultFinderConfig()
	f.String("format", "markdown", "report format: markdown, yaml, json, or table")
	f.StringP("output", "o", "", "report path, or - for stdout (default: <output-dir>/<Institution_Name>/researchers.<ext>)")
	f.String("output-dir", "output", "directory holding per-institution reports")
	f.String("discovery", string(d.Discovery.Backend), "discovery backend: openai, anthropic, gemini, openalex, or file")
	f.String("email", "", "contact address sent to OpenAlex (polite pool)")
	f.String("model", "", "discovery model (default depends on the backend)")
	f.String("names-file", "", "names file for the file backend, or - for stdin")
	f.Duration("discovery-timeout", d.Discovery.Timeout, "deadline for the discovery call")
	f.String("registry-url", d.Registry.BaseURL, "INSPIRE REST API root")
	f.Duration("lookup-timeout", d.Registry.LookupTimeout, "deadline for single-record registry lookups")
	f.Duration("members-timeout", d.Registry.MembersTimeout, "deadline for institution membership queries")
	f.Int("max-members", d.Expansion.MaxMembers, "page size of each institution membership query")
	f.Duration("delay", d.Expansion.ProfileDelay, "pause between consecutive registry calls in expansion")
	f.Int("max-researchers", 0, "truncate the final list to this many researchers (0 keeps all)")
	f.String("cache", string(d.Cache.Backend), "lookup cache: sqlite, redis, memory, or none")
	f.String("cache-dir", d.Cache.Dir, "directory for the sqlite lookup cache")
	f.String("redis-url", "", "redis URL for the redis lookup cache")
	f.Duration("cache-ttl", d.Cache.TTL, "how long cached lookups stay valid")
	f.String("metrics-file", "", "write Prometheus textfile metrics to this path")

	return cmd
}

func (a *app) runFind(cmd *cobra.Command, institution string) error {
	ctx := cmd.Context()

	cfg, err := loadFinderConfig(a.v)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("delay") {
		delay, _ := cmd.Flags().GetDuration("delay")
		cfg.Expansion.ProfileDelay = delay
		cfg.Expansion.InstitutionDelay = delay
		cfg.Expansion.MemberDelay = delay
	}

	format, err := report.ParseFormat(a.v.GetString("format"))
	if err != nil {
		return err
	}

	apiKey, err := secrets.Resolve(cfg.Discovery.Backend, cfg.Discovery.APIKey, a.secrets, a.getenv)
	if err != nil {
		return err
	}

	m := metrics.New()
	httpClient := &http.Client{Timeout: cfg.Registry.Timeout}

	var registry finder.Registry = inspire.NewClient(httpClient, cfg.Registry, m)
	store, err := cache.Open(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		registry = cache.NewRegistry(registry, store, cfg.Cache.TTL, m)
	}

	source, err := discovery.New(ctx, cfg.Discovery, apiKey, nil)
	if err != nil {
		return err
	}

	// Progress moves to stderr when the report itself goes to stdout.
	out := cmd.OutOrStdout()
	path := a.v.GetString("output")
	progress := out
	if path == "-" {
		progress = cmd.ErrOrStderr()
	}

	f := &finder.Finder{
		Source:   source,
		Registry: registry,
		Config:   cfg.Expansion,
		Limit:    cfg.MaxResearchers,
		Metrics:  m,
		Progress: progress,
	}
	res, err := f.Find(ctx, institution)
	if err != nil {
		return err
	}

	if mf := a.v.GetString("metrics_file"); mf != "" {
		if err := m.WriteTextfile(mf); err != nil {
			a.logger.Warn().Err(err).Msg("metrics not written")
		}
	}

	if res.Empty() {
		return finder.ErrNoResearchers
	}

	if path == "-" {
		return report.Write(out, format, res)
	}
	if path == "" {
		path = report.DefaultPath(a.v.GetString("output_dir"), res.Institution, format)
	}
	if err := report.WriteFile(path, format, res); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nFound %d researchers in %s\n", len(res.Researchers), res.Duration.Round(time.Millisecond))
	fmt.Fprintf(out, "Results saved to %s\n", path)
	return nil
}

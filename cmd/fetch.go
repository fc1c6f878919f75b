package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/barmania-cli/internal/cliplist"
	"github.com/sells-group/barmania-cli/internal/config"
	"github.com/sells-group/barmania-cli/internal/cookies"
	"github.com/sells-group/barmania-cli/internal/export"
	"github.com/sells-group/barmania-cli/internal/metrics"
	"github.com/sells-group/barmania-cli/pkg/barmania"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Download every clip from the clip list and save it as JSON",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.Validate("fetch"); err != nil {
			return err
		}

		_, err := runFetch(ctx, cfg)
		return err
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
}

// runFetch loads the session cookies, walks the clip list and writes the
// collection. Pagination failures end the walk early; the partial
// collection is still written.
func runFetch(ctx context.Context, c *config.Config) (*cliplist.Result, error) {
	jar, err := cookies.Load(c.Cookies.Path)
	if err != nil {
		return nil, eris.Wrap(err, "fetch: load cookies")
	}
	zap.L().Info("loaded cookies", zap.Int("count", len(jar)), zap.Strings("names", jar.Names()))

	client := barmania.NewClient(jar.HTTPCookies(),
		barmania.WithBaseURL(c.Fetch.BaseURL),
		barmania.WithTimeout(c.Fetch.Timeout()),
		barmania.WithRateLimit(c.Fetch.RateLimit),
		barmania.WithUserAgent(c.Fetch.UserAgent),
	)

	m := metrics.NewFetch()
	res := cliplist.New(client, cliplist.Options{
		Count:    c.Fetch.Count,
		Category: c.Fetch.Category,
		Sort:     c.Fetch.Sort,
		Delay:    c.Fetch.Delay(),
		Metrics:  m,
	}).Run(ctx)

	if err := export.WriteClips(c.Output.Path, res.Clips); err != nil {
		return res, eris.Wrap(err, "fetch: write clips")
	}

	if err := m.WriteTextfile(c.Metrics.Textfile); err != nil {
		zap.L().Warn("failed to write metrics textfile", zap.String("path", c.Metrics.Textfile), zap.Error(err))
	}

	zap.L().Info("fetch complete",
		zap.Int("clips", len(res.Clips)),
		zap.Int("expected", res.Total),
		zap.Int("chunks", res.Chunks),
		zap.String("reason", string(res.Reason)),
		zap.String("output", c.Output.Path),
	)
	return res, nil
}

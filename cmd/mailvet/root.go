package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/quentale/mailvet"
	"github.com/quentale/mailvet/cache"
	"github.com/quentale/mailvet/dns"
	"github.com/quentale/mailvet/whois"
)

const redisScheme = "redis://"

func newRootCmd() *cobra.Command {
	var (
		inputPath   string
		outputPath  string
		cacheTarget string
		nameservers []string
		timeout     time.Duration
		debug       bool
	)

	cmd := &cobra.Command{
		Use:          "mailvet --input emails.csv",
		Short:        "mailvet — batch email validation by domain liveness",
		Long: "mailvet reads a batch of email addresses, checks each domain's\n" +
			"registration (WHOIS) and mail-exchange records (MX), and writes one\n" +
			"classified row per valid address. Domain facts are cached across runs.",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if debug {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			}))

			ctx := cmd.Context()

			store, err := openStore(ctx, cacheTarget)
			if err != nil {
				return err
			}
			if closer, ok := store.(interface{ Close() error }); ok {
				defer func() { _ = closer.Close() }()
			}

			checker := whois.NewChecker(
				whois.NewClient(timeout),
				whois.WithLogger(logger),
			)
			resolver := dns.NewResolver(dns.ResolverConfig{
				Nameservers: nameservers,
				Timeout:     timeout,
			})

			verifier := mailvet.NewVerifier(checker, resolver, mailvet.WithLogger(logger))
			batch := mailvet.NewBatch(verifier, store, mailvet.WithBatchLogger(logger))

			summary, err := batch.Run(ctx, inputPath, outputPath)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d rows (%d skipped, %d domains cached) to %s\n",
				summary.Rows, summary.Skipped, summary.Domains, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "input file with addresses (.csv or .txt)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "output/results.csv", "output file for classified rows")
	cmd.Flags().StringVar(&cacheTarget, "cache", defaultCacheTarget(), "domain cache: a snapshot path (.csv or .msgpack), redis://host:port, or empty to disable")
	cmd.Flags().StringSliceVar(&nameservers, "nameserver", nil, "DNS server to query (repeatable; system resolvers by default)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "per-query timeout for WHOIS and DNS lookups")
	cmd.Flags().BoolVar(&debug, "debug", false, "enable debug logging")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// defaultCacheTarget resolves the cache location from the environment so
// the flag stays optional.
func defaultCacheTarget() string {
	if target := os.Getenv("MAILVET_CACHE"); target != "" {
		return target
	}
	return "cache/domains.csv"
}

// openStore builds the snapshot backend for the given target: a Redis URL,
// a file path, or nothing.
func openStore(ctx context.Context, target string) (cache.Store, error) {
	if target == "" {
		return cache.NewFileStore(""), nil
	}

	if strings.HasPrefix(target, redisScheme) {
		addr := strings.TrimPrefix(target, redisScheme)
		store, err := cache.NewRedisStore(ctx, addr, os.Getenv("MAILVET_REDIS_PASSWORD"), os.Getenv("MAILVET_REDIS_KEY"))
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	return cache.NewFileStore(target), nil
}

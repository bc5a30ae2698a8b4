package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"wanderplan/acquire"
)

var probeCity string

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "Check which acquisition paths are usable",
	Long: `Checks the remote server's health endpoint and whether a Gemini credential
is configured. With --city, also runs one direct generation.`,
	RunE: runProbe,
}

func init() {
	probeCmd.Flags().StringVar(&probeCity, "city", "", "Run a direct generation for this city")
}

func runProbe(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	out := cmd.OutOrStdout()

	mode, err := acquire.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "mode:   %s\n", mode)

	if base := strings.TrimSpace(cfg.Remote.BaseURL); base == "" {
		fmt.Fprintln(out, "remote: not configured")
	} else if err := acquire.NewRemoteClient(base, 5*time.Second).Health(ctx); err != nil {
		fmt.Fprintf(out, "remote: %s unreachable (%v)\n", base, err)
	} else {
		fmt.Fprintf(out, "remote: %s ok\n", base)
	}

	client, err := acquire.DirectClient(ctx, cfg, logger)
	if err != nil {
		fmt.Fprintf(out, "direct: unavailable (%v)\n", err)
		return nil
	}
	fmt.Fprintf(out, "direct: credential set, model %s\n", cfg.Gemini.Model)

	if probeCity == "" {
		return nil
	}
	start := time.Now()
	pkg, err := client.GeneratePackage(ctx, probeCity)
	if err != nil {
		return fmt.Errorf("direct generation failed: %w", err)
	}
	fmt.Fprintf(out, "direct: %s, %d places, %d days in %s\n",
		pkg.City, len(pkg.Places), len(pkg.Itinerary), time.Since(start).Round(time.Millisecond))
	return nil
}

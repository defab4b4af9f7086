package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/rta2map/internal/config"
	"github.com/sells-group/rta2map/internal/pipeline"
	"github.com/sells-group/rta2map/internal/rental"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "rta2map [config]",
	Short: "Render tourist rental registry records as a Leaflet map",
	Long: "Reads a JSON config and a registry dataset, keeps the records whose province and " +
		"municipality match the configured expressions, projects their UTM coordinates to " +
		"WGS84 and writes an HTML map with one circle marker per rental.",
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := loadConfig(args); err != nil {
			return err
		}

		p, err := pipeline.New(cfg)
		if err != nil {
			return err
		}

		summary, err := p.Run(ctx)
		if err != nil {
			return err
		}

		printSummary(cmd.OutOrStdout(), summary)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// configPath returns the positional config path, or the default derived
// from the executable name.
func configPath(args []string) string {
	if len(args) > 0 && args[0] != "" {
		return args[0]
	}
	return config.DefaultPath(os.Args[0])
}

// loadConfig reads the config and installs its logger. Validation is left to
// pipeline.New.
func loadConfig(args []string) error {
	c, err := config.Load(configPath(args))
	if err != nil {
		return eris.Wrap(err, "load config")
	}

	if err := config.InitLogger(c.Log); err != nil {
		return eris.Wrap(err, "init logger")
	}

	cfg = c
	return nil
}

func printSummary(w io.Writer, s *pipeline.Summary) {
	fmt.Fprintf(w, "run %s\n", s.RunID)
	fmt.Fprintf(w, "  records:  %d\n", s.Total)
	fmt.Fprintf(w, "  accepted: %d\n", s.Accepted)
	fmt.Fprintf(w, "  rejected: %d\n", s.Rejected)

	reasons := make([]string, 0, len(s.Rejections))
	for r := range s.Rejections {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		fmt.Fprintf(w, "    %-13s %d\n", r+":", s.Rejections[rental.Rejection(r)])
	}

	fmt.Fprintf(w, "  skipped:  %d\n", s.Skipped)
	fmt.Fprintf(w, "  hidden:   %d\n", s.Hidden)
	fmt.Fprintf(w, "  rendered: %d\n", s.Rendered)
	fmt.Fprintf(w, "map saved to %s\n", s.Output)
	if s.Shapefile != "" {
		fmt.Fprintf(w, "shapefile saved to %s\n", s.Shapefile)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

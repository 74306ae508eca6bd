package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/brewstack/brewstack/cli/internal/config"
	"github.com/brewstack/brewstack/cli/internal/mcptools"
	"github.com/brewstack/brewstack/cli/internal/remote"
	"github.com/brewstack/brewstack/cli/internal/render"
	"github.com/brewstack/brewstack/pkg/flavor"
	"github.com/brewstack/brewstack/pkg/types"
)

// Version is stamped at build time with -ldflags "-X main.Version=...".
var Version = "dev"

// exitInvalid is the exit status for rejected brewing parameters.
const exitInvalid = 2

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	envFile string
	server  string
	apiKey  string
	locale  string
	output  string
	verbose bool
}

func main() {
	root := newRootCmd(os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		if errors.Is(err, types.ErrInvalidParameter) || remote.IsInvalidArgument(err) {
			os.Exit(exitInvalid)
		}
		os.Exit(1)
	}
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	g := &globals{}

	rootCmd := &cobra.Command{
		Use:   "brewsim",
		Short: "Pour-over coffee flavor simulator",
		Long: "brewsim predicts the acidity, sweetness, bitterness and body of a pour-over coffee\n" +
			"from its brewing parameters, with tasting notes and adjustment tips.",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelInfo
			if g.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})))
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.envFile, "env-file", config.DefaultEnvFile, "dotenv file with BREWSIM_* settings")
	pf.StringVar(&g.server, "server", "", "brewstack-server gRPC host:port (default: simulate locally, or $"+config.EnvServer+")")
	pf.StringVar(&g.apiKey, "api-key", "", "API key for --server (default: $"+config.EnvAPIKey+")")
	pf.StringVar(&g.locale, "locale", "", "text language: en | zh-TW (default: $"+config.EnvLocale+", else the server's locale, else en)")
	pf.StringVarP(&g.output, "output", "o", "", "output format: text | json | markdown (default: $"+config.EnvOutput+" or text)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable debug logging on stderr")

	rootCmd.AddCommand(simulateCmd(g))
	rootCmd.AddCommand(defaultsCmd(g))
	rootCmd.AddCommand(guideCmd(g))
	rootCmd.AddCommand(mcpCmd(g))

	return rootCmd
}

// settings merges the environment with the persistent flags.
func (g *globals) settings() (config.Config, render.Format, error) {
	cfg, err := config.Load(g.envFile)
	if err != nil {
		return config.Config{}, "", err
	}
	if g.server != "" {
		cfg.Server = g.server
	}
	if g.apiKey != "" {
		cfg.APIKey = g.apiKey
	}
	if g.locale != "" {
		cfg.Locale = g.locale
	}
	if g.output != "" {
		cfg.Output = g.output
	}
	format, err := render.ParseFormat(cfg.Output)
	if err != nil {
		return config.Config{}, "", err
	}
	return cfg, format, nil
}

// simulator returns the backend for cfg and a cleanup func.
func simulator(ctx context.Context, cfg config.Config) (mcptools.Simulator, func(), error) {
	if !cfg.Remote() {
		return newLocal(), func() {}, nil
	}
	c, err := remote.Dial(ctx, remote.Options{
		Endpoint: cfg.Server,
		APIKey:   cfg.APIKey,
		Header:   cfg.APIHeader,
		Timeout:  cfg.Timeout,
	})
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("brewsim: using remote simulator", "server", cfg.Server)
	return c, func() { c.Close() }, nil
}

func simulateCmd(g *globals) *cobra.Command {
	d := types.Defaults()
	var (
		p                     = d
		grind, process, roast string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Predict the flavor of one brew",
		Example: "  brewsim simulate --temperature 94 --grind fine\n" +
			"  brewsim simulate --process natural --roast light -o markdown\n" +
			"  brewsim simulate --server localhost:50051 --locale zh-TW",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := g.settings()
			if err != nil {
				return err
			}
			patch, err := patchFromFlags(cmd, p, grind, process, roast)
			if err != nil {
				return err
			}

			sim, cleanup, err := simulator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := sim.Simulate(cmd.Context(), patch, cfg.Locale)
			if err != nil {
				return err
			}
			return render.Simulation(cmd.OutOrStdout(), res, format)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&p.Ratio, "ratio", d.Ratio, "water to coffee ratio, 1:x (10-20)")
	f.IntVar(&p.BrewTime, "brew-time", d.BrewTime, "total brew time in seconds (60-240)")
	f.IntVar(&p.Temperature, "temperature", d.Temperature, "water temperature in °C (80-100)")
	f.StringVar(&grind, "grind", string(d.GrindSize), "grind size: coarse | medium | fine")
	f.StringVar(&process, "process", string(d.ProcessMethod), "processing method: washed | natural | honey")
	f.StringVar(&roast, "roast", string(d.RoastLevel), "roast level: light | medium | dark")
	f.IntVar(&p.BloomTime, "bloom-time", d.BloomTime, "bloom time in seconds, 0 skips the bloom (0-60)")
	f.Float64Var(&p.BloomRatio, "bloom-ratio", d.BloomRatio, "bloom water as a multiple of the coffee weight (1.5-3.5)")
	f.IntVar(&p.PourCount, "pours", d.PourCount, "number of pulse pours after the bloom (0-5)")
	return cmd
}

// patchFromFlags keeps only the flags the user set, so a remote server's own
// defaults fill the rest.
func patchFromFlags(cmd *cobra.Command, p types.BrewParameters, grind, process, roast string) (types.ParamPatch, error) {
	var pp types.ParamPatch
	changed := cmd.Flags().Changed

	if changed("ratio") {
		pp.Ratio = &p.Ratio
	}
	if changed("brew-time") {
		pp.BrewTime = &p.BrewTime
	}
	if changed("temperature") {
		pp.Temperature = &p.Temperature
	}
	if changed("bloom-time") {
		pp.BloomTime = &p.BloomTime
	}
	if changed("bloom-ratio") {
		pp.BloomRatio = &p.BloomRatio
	}
	if changed("pours") {
		pp.PourCount = &p.PourCount
	}
	if changed("grind") {
		v, err := types.ParseGrindSize(grind)
		if err != nil {
			return pp, err
		}
		pp.GrindSize = &v
	}
	if changed("process") {
		v, err := types.ParseProcessMethod(process)
		if err != nil {
			return pp, err
		}
		pp.ProcessMethod = &v
	}
	if changed("roast") {
		v, err := types.ParseRoastLevel(roast)
		if err != nil {
			return pp, err
		}
		pp.RoastLevel = &v
	}
	return pp, nil
}

func defaultsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "defaults",
		Short: "Show the default brewing parameters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := g.settings()
			if err != nil {
				return err
			}
			sim, cleanup, err := simulator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			p, err := sim.Defaults(cmd.Context())
			if err != nil {
				return err
			}
			return render.Params(cmd.OutOrStdout(), p, format)
		},
	}
}

func guideCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "guide [topic]",
		Short: "Brewing basics: variables, bloom, pours, process, roast",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, format, err := g.settings()
			if err != nil {
				return err
			}
			loc := flavor.ParseLocale(cfg.Locale)

			topics := flavor.Guide(loc)
			if len(args) == 1 {
				tp, ok := flavor.FindTopic(loc, args[0])
				if !ok {
					return fmt.Errorf("unknown topic %q", args[0])
				}
				topics = []flavor.Topic{tp}
			}
			return render.Topics(cmd.OutOrStdout(), loc, topics, format)
		},
	}
}

func mcpCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the simulator as MCP tools over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.settings()
			if err != nil {
				return err
			}
			sim, cleanup, err := simulator(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			slog.Info("brewsim: MCP server starting", "version", Version, "remote", cfg.Remote())
			return server.ServeStdio(mcptools.NewServer(sim, Version))
		},
	}
}

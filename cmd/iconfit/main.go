package main

import (
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ironsheep/iconfit/internal/config"
	"github.com/ironsheep/iconfit/internal/hog"
	"github.com/ironsheep/iconfit/internal/imaging"
	"github.com/ironsheep/iconfit/internal/locate"
	"github.com/ironsheep/iconfit/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Configure logging to stderr (stdout is for MCP protocol and results)
	log.SetOutput(os.Stderr)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "iconfit",
		Short: "iconfit - locate icons inside screenshots",
		Long: `iconfit finds where a small icon image appears inside a larger image.

Both images are described by dense gradient-orientation histograms and every
icon patch is matched against the target with randomized nearest-neighbour
search. The matches vote for the icon position.

Environment variables:
  ICONFIT_SEED=N            Fixed random seed (0 picks one from the clock)
  ICONFIT_LOG_LEVEL=debug   Enable debug logging`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "iconfit %s\n", Version)
			fmt.Fprintf(out, "  Build time: %s\n", BuildTime)
			fmt.Fprintf(out, "  Git commit: %s\n", GitCommit)
		},
	})

	// Serve command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Long: `Run the MCP (Model Context Protocol) server over stdio.
Configure it in your MCP client (e.g., Claude Desktop).`,
		RunE: runServe,
	})

	// Locate command
	locateCmd := &cobra.Command{
		Use:   "locate",
		Short: "Find an icon inside a target image",
		RunE:  runLocate,
	}
	locateCmd.Flags().String("icon", "", "Icon image file")
	locateCmd.Flags().String("target", "", "Target image file to search")
	locateCmd.Flags().Uint64("seed", 0, "Random seed (overrides config and ICONFIT_SEED)")
	locateCmd.Flags().String("field-out", "", "Write the compressed displacement field to this file")
	locateCmd.Flags().String("overlay-out", "", "Write the target with the match box drawn as PNG")
	locateCmd.Flags().String("flow-out", "", "Write the displacement field rendered as PNG")
	_ = locateCmd.MarkFlagRequired("icon")
	_ = locateCmd.MarkFlagRequired("target")
	rootCmd.AddCommand(locateCmd)

	// Describe command
	describeCmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the orientation histogram of one pixel",
		RunE:  runDescribe,
	}
	describeCmd.Flags().String("image", "", "Image file")
	describeCmd.Flags().Int("x", 0, "X coordinate (0-based)")
	describeCmd.Flags().Int("y", 0, "Y coordinate (0-based)")
	_ = describeCmd.MarkFlagRequired("image")
	rootCmd.AddCommand(describeCmd)

	return rootCmd
}

// loadConfig resolves the configuration from file, environment and flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if f := cmd.Flags().Lookup("seed"); f != nil && f.Changed {
		cfg.Solver.Seed, _ = cmd.Flags().GetUint64("seed")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.Debug() {
		log.Printf("iconfit MCP server v%s (built %s, commit %s)", Version, BuildTime, GitCommit)
	}

	server.Version = Version
	srv := server.New(cfg)
	if err := srv.Run(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func runLocate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	locator, err := cfg.Locator(log.Default())
	if err != nil {
		return err
	}

	iconPath, _ := cmd.Flags().GetString("icon")
	targetPath, _ := cmd.Flags().GetString("target")
	cache := imaging.NewImageCache()
	icon, err := cache.Load(iconPath)
	if err != nil {
		return fmt.Errorf("icon: %w", err)
	}
	target, err := cache.Load(targetPath)
	if err != nil {
		return fmt.Errorf("target: %w", err)
	}

	res, err := locator.Locate(cmd.Context(), icon, target)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("field-out"); path != "" {
		if err := writeField(path, res); err != nil {
			return err
		}
	}
	if path, _ := cmd.Flags().GetString("overlay-out"); path != "" {
		box := res.Placement.Box().Add(target.Bounds().Min)
		if err := writePNG(path, imaging.DrawMatchBox(target, box, "#00FF00", "")); err != nil {
			return err
		}
	}
	if path, _ := cmd.Flags().GetString("flow-out"); path != "" {
		if err := writePNG(path, imaging.RenderFlow(res.Field, 0)); err != nil {
			return err
		}
	}

	return printJSON(cmd, res)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	locator, err := cfg.Locator(nil)
	if err != nil {
		return err
	}

	path, _ := cmd.Flags().GetString("image")
	x, _ := cmd.Flags().GetInt("x")
	y, _ := cmd.Flags().GetInt("y")

	img, err := imaging.NewImageCache().Load(path)
	if err != nil {
		return err
	}
	features, err := locator.Features(cmd.Context(), img)
	if err != nil {
		return err
	}
	vec, err := hog.Describe(features, y, x)
	if err != nil {
		return err
	}

	return printJSON(cmd, map[string]interface{}{
		"x":      x,
		"y":      y,
		"bins":   features.Depth,
		"vector": vec,
	})
}

func writeField(path string, res *locate.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create field file: %w", err)
	}
	if err := res.Field.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

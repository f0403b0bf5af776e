package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lnashier/viper"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cobra"
	"gocloud.dev/blob"

	"github.com/ctessum/flowmg/advect"
	"github.com/ctessum/flowmg/checkpoint"
	"github.com/ctessum/flowmg/flow"
	internalconfig "github.com/ctessum/flowmg/internal/config"
	"github.com/ctessum/flowmg/problem"
	"github.com/ctessum/flowmg/viz"
)

// version is set at build time via -ldflags "-X main.version=...". It
// defaults to "dev" for a locally built binary.
var version = "dev"

var configFile string
var openFinalFrame bool

// Root is the flowmg command tree.
var Root = &cobra.Command{
	Use:   "flowmg",
	Short: "A 2D incompressible-flow multigrid solver.",
	Long: `flowmg runs a MAC-staggered projection-method time integrator, using a
geometric multigrid Helmholtz solver for each pressure projection.

Configuration is read from a TOML/YAML/JSON file named by --config.`,
	DisableAutoGenTag: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("flowmg v%s\n", version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a flow simulation to completion.",
	Long: `run loads the scenario named by the configuration key problem.name,
preevolves and evolves the flow state until driver.t_end (or driver.max_steps,
if positive) is reached, periodically checkpointing and rendering heatmap
frames per the checkpoint.interval and viz.interval configuration keys.`,
	RunE:              runMain,
	DisableAutoGenTag: true,
}

func init() {
	Root.AddCommand(versionCmd, runCmd)
	Root.PersistentFlags().StringVar(&configFile, "config", "", "path to a TOML/YAML/JSON configuration file")
	runCmd.Flags().BoolVar(&openFinalFrame, "open", false, "open the final rendered frame after the run completes")
}

// loadConfig reads configFile and fills in the optional keys a bare
// flow.TimeStepper configuration doesn't require, mirroring the teacher's
// setConfig/viper wiring in inmaputil/cmd.go.
func loadConfig() (*viper.Viper, error) {
	if configFile == "" {
		return nil, fmt.Errorf("flowmg: --config is required")
	}
	v := viper.New()
	v.SetConfigFile(configFile)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("flowmg: reading config file %s: %w", configFile, err)
	}
	v.SetDefault("driver.max_steps", 0)
	v.SetDefault("checkpoint.interval", 0)
	v.SetDefault("checkpoint.bucket_url", "")
	v.SetDefault("viz.interval", 0)
	v.SetDefault("viz.output_dir", ".")
	return v, nil
}

func runMain(cmd *cobra.Command, args []string) error {
	v, err := loadConfig()
	if err != nil {
		return err
	}
	lookup := internalconfig.New(v)

	problemName, err := lookup.String("problem.name")
	if err != nil {
		return err
	}
	prob, err := problem.Lookup(problemName)
	if err != nil {
		return err
	}

	ts := flow.NewTimeStepper(lookup, prob, advect.UpwindAdvector{})
	if err := ts.Initialize(); err != nil {
		return fmt.Errorf("flowmg: initializing: %w", err)
	}
	if err := ts.Preevolve(); err != nil {
		return fmt.Errorf("flowmg: preevolving: %w", err)
	}

	tEnd, err := lookup.Float("driver.t_end")
	if err != nil {
		return err
	}
	maxSteps := v.GetInt("driver.max_steps")

	ctx := context.Background()
	bucket, err := openCheckpointBucket(ctx, v)
	if err != nil {
		return err
	}
	if bucket != nil {
		defer bucket.Close()
	}
	ckptInterval := v.GetInt("checkpoint.interval")
	vizInterval := v.GetInt("viz.interval")
	vizDir := v.GetString("viz.output_dir")
	renderer := &viz.Renderer{}

	for ts.State.T < tEnd && (maxSteps <= 0 || ts.State.N < maxSteps) {
		dt := ts.Timestep()
		if ts.State.T+dt > tEnd {
			dt = tEnd - ts.State.T
		}
		if err := ts.Evolve(dt); err != nil {
			return fmt.Errorf("flowmg: evolving step %d: %w", ts.State.N, err)
		}

		if bucket != nil && ckptInterval > 0 && ts.State.N%ckptInterval == 0 {
			if err := checkpoint.Save(ctx, bucket, checkpointKey(ts.State.N), ts.State); err != nil {
				return fmt.Errorf("flowmg: checkpointing step %d: %w", ts.State.N, err)
			}
		}
		if vizInterval > 0 && ts.State.N%vizInterval == 0 {
			if _, err := renderFrame(renderer, ts.State, vizDir); err != nil {
				return fmt.Errorf("flowmg: rendering step %d: %w", ts.State.N, err)
			}
		}
	}

	prob.Finalize(ts.State)

	framePath, err := renderFrame(renderer, ts.State, vizDir)
	if err != nil {
		return fmt.Errorf("flowmg: rendering final frame: %w", err)
	}
	cmd.Printf("flowmg: completed %d steps, t=%.6g\n", ts.State.N, ts.State.T)

	if openFinalFrame {
		if err := open.Run(framePath); err != nil {
			return fmt.Errorf("flowmg: opening %s: %w", framePath, err)
		}
	}
	return nil
}

func openCheckpointBucket(ctx context.Context, v *viper.Viper) (*blob.Bucket, error) {
	url := v.GetString("checkpoint.bucket_url")
	if url == "" {
		return nil, nil
	}
	b, err := checkpoint.OpenBucket(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("flowmg: opening checkpoint bucket %s: %w", url, err)
	}
	return b, nil
}

func checkpointKey(step int) string {
	return fmt.Sprintf("checkpoint-%06d.gob", step)
}

func renderFrame(r *viz.Renderer, s *flow.State, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("frame-%06d.png", s.N))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	if err := r.Render(f, s.U, s.V, s.Grid, s.T); err != nil {
		return "", err
	}
	return path, nil
}

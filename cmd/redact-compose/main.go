package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/vsariola/redact"
	"github.com/vsariola/redact/demo"
	"github.com/vsariola/redact/oto"
	"github.com/vsariola/redact/version"
)

var (
	configPath string
	flags      config
	outPath    string
	play       bool
	printTree  bool
	pcm16      bool
	verbose    bool

	rootCmd = &cobra.Command{
		Use:   "redact-compose",
		Short: "Compose a demo song and save, play or list it",
		Long: `redact-compose renders a demo song (a chord progression with chord,
melody and drum parts) from a seed. The same seed and options always give the
same song. The output format is picked from the extension of --out: .yml,
.yaml and .json save the composition tree, .mid a MIDI file and .wav audio.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE:          runCompose,
		Version:       version.VersionOrHash,
		SilenceErrors: true,
	}

	renderCmd = &cobra.Command{
		Use:   "render [composition file...]",
		Short: "Convert, play or list previously saved compositions",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runRender,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.VersionOrHash)
		},
	}
)

func init() {
	f := rootCmd.Flags()
	f.StringVar(&configPath, "config", "", "YAML file with default values for the options below")
	f.Uint64Var(&flags.Seed, "seed", 0, "seed of the first composition")
	f.IntVar(&flags.Count, "count", 1, "number of compositions, with consecutive seeds")
	f.IntVar(&flags.Beats, "beats", 32, "length of the song in beats")
	f.IntVar(&flags.TicksPerBeat, "ticks-per-beat", redact.StandardBeatLength, "timing resolution")
	f.IntVar(&flags.BPM, "bpm", 0, "tempo; 0 picks one at random")
	for _, c := range []*cobra.Command{rootCmd, renderCmd} {
		p := c.Flags()
		p.StringVarP(&outPath, "out", "o", "", "output file (.yml, .yaml, .json, .mid or .wav)")
		p.BoolVarP(&play, "play", "p", false, "play the composition")
		p.BoolVarP(&printTree, "report", "r", false, "print the composition tree")
		p.BoolVar(&pcm16, "pcm16", false, "write 16-bit integer instead of float .wav files")
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug messages")
	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	}
	rootCmd.AddCommand(renderCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if audioContext != nil {
		audioContext.Close()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "redact-compose: %v\n", err)
		os.Exit(1)
	}
}

func runCompose(cmd *cobra.Command, args []string) error {
	cfg := flags
	if configPath != "" {
		file, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = file.merge(flags, cmd.Flags().Changed)
	}
	if err := cfg.validate(); err != nil {
		return err
	}
	composer := redact.NewComposer(demo.Renderers(), redact.WithOptions(redact.Options{TicksPerBeat: cfg.TicksPerBeat}))
	root := redact.Over(demo.Song{Chords: cfg.Chords, BPM: cfg.BPM}, 0, cfg.Beats*cfg.TicksPerBeat)
	jobs := make([]redact.Job, cfg.Count)
	for i := range jobs {
		jobs[i] = redact.Job{Root: root, Seed: cfg.Seed + uint64(i)}
	}
	comps, err := composer.ComposeAll(cmd.Context(), jobs)
	if err != nil {
		return err
	}
	return emit(cmd.Context(), comps)
}

func runRender(cmd *cobra.Command, args []string) error {
	comps := make([]*redact.Composition, 0, len(args))
	for _, path := range args {
		comp, err := loadComposition(path)
		if err != nil {
			return err
		}
		comps = append(comps, comp)
	}
	return emit(cmd.Context(), comps)
}

// emit writes, lists and plays the compositions in order. Without any output
// requested, it plays them.
func emit(ctx context.Context, comps []*redact.Composition) error {
	if outPath == "" && !printTree {
		play = true
	}
	for i, comp := range comps {
		if outPath != "" {
			path := outputPath(outPath, comp.Seed, len(comps) > 1)
			if err := save(path, comp, pcm16); err != nil {
				return err
			}
			slog.Info("saved composition", "path", path, "seed", comp.Seed, "segments", comp.Len())
		}
		if printTree {
			if err := writeReport(os.Stdout, comp); err != nil {
				return err
			}
		}
		if play {
			if err := playComposition(ctx, comp); err != nil {
				return fmt.Errorf("composition %d: %w", i, err)
			}
		}
	}
	return nil
}

var audioContext *oto.OtoContext

func playComposition(ctx context.Context, comp *redact.Composition) error {
	buffer, err := synthesize(comp)
	if err != nil {
		return err
	}
	if audioContext == nil {
		if audioContext, err = oto.NewContext(); err != nil {
			return fmt.Errorf("could not acquire oto AudioContext: %w", err)
		}
	}
	slog.Info("playing composition", "seed", comp.Seed, "seconds", float64(len(buffer)/2)/redact.SampleRate)
	return redact.Play(ctx, audioContext, buffer)
}

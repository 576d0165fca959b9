// Package main is the entry point for the basstab CLI
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/james-see/basstab/pkg/api"
	"github.com/james-see/basstab/pkg/config"
	"github.com/james-see/basstab/pkg/converter"
	"github.com/james-see/basstab/pkg/render"
	"github.com/james-see/basstab/pkg/session"
	"github.com/james-see/basstab/pkg/sheet"
	"github.com/james-see/basstab/pkg/tab"
	"github.com/james-see/basstab/pkg/tui"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	configPath string
	verbose    bool
	tuningName string
	outputFile string
	markdown   bool
	noteTokens string
	title      string
	artist     string
	tempo      float64
	serverPort int
)

var (
	cfg    = config.Default()
	logger = slog.Default()
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "basstab",
	Short: "Write, render and convert four-string bass tablature",
	Long: `basstab builds bass tablature from notes and renders it as ASCII tab.

Notes fill 16-slot measures; a note longer than the space left is split
across measures. Sheets are YAML files and can be converted to MIDI and back.

Examples:
  basstab render riff.yaml
  basstab render --notes "E:0:q A:2:q D:2:h r:w"
  basstab convert riff.yaml -o riff.mid
  basstab import riff.mid -o riff.yaml
  basstab tui riff.yaml
  basstab serve --port 8080`,
	Version:           fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

var renderCmd = &cobra.Command{
	Use:   "render [sheet]",
	Short: "Render a sheet as ASCII tablature",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRender,
}

var convertCmd = &cobra.Command{
	Use:   "convert <input>",
	Short: "Auto-detect and convert between formats",
	Long:  `Automatically detects input format and converts to the output format based on file extension.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

var midiCmd = &cobra.Command{
	Use:   "midi <sheet>",
	Short: "Export a sheet as a MIDI file",
	Args:  cobra.ExactArgs(1),
	RunE:  runMIDI,
}

var importCmd = &cobra.Command{
	Use:   "import <input.mid>",
	Short: "Import a monophonic MIDI line as a sheet",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

var tuiCmd = &cobra.Command{
	Use:   "tui [sheet]",
	Short: "Launch interactive terminal editor",
	Long:  `Opens the editor. When a sheet path is given it is loaded if it exists and ctrl+s saves to it.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the API server",
	RunE:  runServe,
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&tuningName, "tuning", "t", "", "Tuning for MIDI (standard, drop-d, half-step-down)")

	// render command
	renderCmd.Flags().BoolVarP(&markdown, "markdown", "m", false, "Wrap the tab in a markdown code block")
	renderCmd.Flags().StringVarP(&noteTokens, "notes", "n", "", `Notes as tokens, e.g. "E:3:q A:5:e r:h"`)
	renderCmd.Flags().StringVar(&title, "title", "", "Title when rendering --notes")
	renderCmd.Flags().StringVar(&artist, "artist", "", "Artist when rendering --notes")

	// convert command
	convertCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (required)")
	_ = convertCmd.MarkFlagRequired("output")

	// midi command
	midiCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .mid file path")
	midiCmd.Flags().Float64Var(&tempo, "tempo", 120, "Tempo in BPM")

	// import command
	importCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output .yaml file path")

	// serve command
	serveCmd.Flags().IntVarP(&serverPort, "port", "p", 0, "Server port (default from config, 8080)")

	// Add commands
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(midiCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(serveCmd)
}

// setup loads the config, applies flag overrides and installs the logger
func setup(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg = loaded
	if tuningName != "" {
		cfg.Tuning = tuningName
	}

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if verbose {
		level = slog.LevelDebug
	}
	initLogger(level)
	return nil
}

// initLogger configures the shared slog logger and makes it the default
func initLogger(level slog.Level) {
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

func newConverter() (*converter.Converter, error) {
	tuning, err := converter.LookupTuning(cfg.Tuning)
	if err != nil {
		return nil, err
	}
	return converter.New(tuning), nil
}

func getOutputPath(input, defaultExt string) string {
	if outputFile != "" {
		return outputFile
	}
	base := strings.TrimSuffix(input, filepath.Ext(input))
	return base + defaultExt
}

func runRender(cmd *cobra.Command, args []string) error {
	var sh *sheet.Sheet
	switch {
	case noteTokens != "":
		entries, err := sheet.ParseTokens(noteTokens)
		if err != nil {
			return err
		}
		sh = &sheet.Sheet{Title: title, Artist: artist, TimeSignature: cfg.TimeSignature, Notes: entries}
	case len(args) == 1:
		loaded, err := sheet.Load(args[0])
		if err != nil {
			return err
		}
		sh = loaded
	default:
		return errors.New("render needs a sheet file or --notes")
	}

	t, err := sh.Build()
	if err != nil {
		return err
	}
	logger.Debug("rendering", "measures", t.MeasureCount(), "notes", len(t.Notes()))

	if markdown {
		fmt.Print(render.Markdown(sh.Title, sh.Artist, t))
	} else {
		fmt.Print(render.Preview(sh.Title, sh.Artist, t))
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	input := args[0]
	conv, err := newConverter()
	if err != nil {
		return err
	}

	fmt.Printf("Converting %s -> %s\n", input, outputFile)
	if err := conv.ConvertFile(input, outputFile); err != nil {
		return err
	}
	fmt.Println("Conversion complete!")
	return nil
}

func runMIDI(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, ".mid")

	conv, err := newConverter()
	if err != nil {
		return err
	}
	conv.MIDI().SetTempo(tempo)

	sh, err := sheet.Load(input)
	if err != nil {
		return err
	}
	t, err := sh.Build()
	if err != nil {
		return err
	}

	if err := conv.MIDI().WriteMIDIFile(t, output); err != nil {
		return err
	}

	fmt.Printf("Converted %s -> %s\n", input, output)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	input := args[0]
	output := getOutputPath(input, ".yaml")

	conv, err := newConverter()
	if err != nil {
		return err
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}

	result, err := conv.MIDI().ParseMIDI(data)
	if err != nil {
		return err
	}
	if result.Skipped > 0 {
		logger.Warn("notes outside the tuning's range became rests", "count", result.Skipped, "tuning", cfg.Tuning)
	}
	logger.Debug("imported", "name", result.Name, "tempo", result.Tempo, "measures", result.Tablature.MeasureCount())

	name := result.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	if err := sheet.FromTablature(name, "", result.Tablature).Save(output); err != nil {
		return err
	}

	fmt.Printf("Converted %s -> %s\n", input, output)
	return nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	d, err := cfg.Duration()
	if err != nil {
		return err
	}
	ts, err := cfg.TimeSig()
	if err != nil {
		return err
	}

	opts := tui.Options{
		String:   cfg.DefaultString,
		Fret:     cfg.DefaultFret,
		Duration: d,
		Logger:   logger,
	}

	t := tab.NewWithTimeSignature(ts)
	var sheetTitle, sheetArtist string
	if len(args) == 1 {
		opts.SavePath = args[0]
		sh, err := sheet.Load(args[0])
		switch {
		case err == nil:
			if t, err = sh.Build(); err != nil {
				return err
			}
			sheetTitle, sheetArtist = sh.Title, sh.Artist
		case errors.Is(err, fs.ErrNotExist):
			logger.Debug("starting new sheet", "path", args[0])
		default:
			return err
		}
	}

	return tui.Run(session.New(sheetTitle, sheetArtist, t), opts)
}

func runServe(cmd *cobra.Command, args []string) error {
	port := cfg.Server.Port
	if serverPort != 0 {
		port = serverPort
	}
	ts, err := cfg.TimeSig()
	if err != nil {
		return err
	}
	conv, err := newConverter()
	if err != nil {
		return err
	}

	gin.SetMode(cfg.Server.Mode)
	fmt.Printf("Starting API server on port %d...\n", port)
	srv := api.NewServer(session.NewStore(logger), conv, ts, logger)
	return srv.Start(port)
}

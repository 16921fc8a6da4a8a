package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"canvas-student-export/internal/canvas"
	"canvas-student-export/internal/exporter"
	"canvas-student-export/internal/manifest"
	"canvas-student-export/internal/run"
	"canvas-student-export/internal/snapshot"
	"canvas-student-export/lib/restyutil"
	"canvas-student-export/lib/telemetry"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const version = "1.0"

const serviceName = "canvas-export"

type flags struct {
	config     string
	output     string
	singlefile bool
	verbose    bool
	dumpHTTP   string
	index      string
	yes        bool
}

var opts flags

var rootCmd = &cobra.Command{
	Use:     "canvas-export",
	Short:   "Export nearly all of a student's Canvas LMS data.",
	Version: version,
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		code := export(cmd.Context(), opts)
		if code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&opts.config, "config", "c", "credentials.yaml", "Path to the YAML (or json5) credentials file.")
	f.StringVarP(&opts.output, "output", "o", "./output", "Directory to store exported data.")
	f.BoolVar(&opts.singlefile, "singlefile", false, "Enable HTML snapshot capture with SingleFile.")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose output for debugging.")
	f.StringVar(&opts.dumpHTTP, "dump-http", "", "Write every Canvas API request and response to this directory.")
	f.StringVar(&opts.index, "index", "", "Record every exported file in this sqlite database (or libsql url).")
	f.BoolVar(&opts.yes, "yes", false, "Do not ask to confirm that the browser cookies are fresh.")

	rootCmd.SetVersionTemplate("Canvas Student Data Export Tool {{.Version}}\n")
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("Canvas Student Data Export Tool %s\n", version)
	},
}

func ExecuteContext(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func interactive() bool {
	return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
}

func confirmCookies() {
	fmt.Println("Note: --singlefile is enabled. Please ensure your browser cookies")
	fmt.Println("      are fresh by logging into Canvas and then re-exporting")
	fmt.Println("      them using the chrome extension right before running this script.")
	fmt.Println()
	fmt.Print("Press Enter to continue...")
	bufio.NewReader(os.Stdin).ReadString('\n')
}

// export runs the whole tool and returns the process exit code.
func export(ctx context.Context, opts flags) int {
	fmt.Println("Welcome to the Canvas Student Data Export Tool")
	fmt.Println()

	telemetry.InitSlog(opts.verbose)

	creds, err := loadCredentials(opts.config)
	if err != nil {
		fatal("Error: could not read %s: %v", opts.config, err)
		return 1
	}

	if opts.singlefile && !opts.yes && interactive() {
		confirmCookies()
	}

	missing := creds.missing(opts.singlefile)
	if len(missing) > 0 {
		fatal("Error: %s is missing required field(s): %s.", opts.config, strings.Join(missing, ", "))
		fmt.Println("Please create the YAML file with the following structure:")
		fmt.Println()
		fmt.Print(credentialsTemplate)
		return 1
	}

	cfg, err := creds.runConfig(opts.output, opts.singlefile, opts.verbose)
	if err != nil {
		fatal("Error: %v", err)
		return 1
	}

	tel, err := telemetry.SetupFromEnv(ctx, serviceName)
	if err != nil {
		fatal("failed to setup telemetry: %v", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()
		tel.Shutdown(shutdownCtx)
	}()
	telemetry.InstrumentPerfStats(ctx, time.Second*15)

	clientOpts := canvas.Options{
		BaseURL:           cfg.APIURL,
		Token:             cfg.APIKey,
		RequestsPerSecond: creds.RequestsPerSecond,
		CloudflareBypass:  creds.CloudflareBypass,
	}
	if opts.dumpHTTP != "" {
		dump, err := restyutil.NewFilesystemOutput(opts.dumpHTTP)
		if err != nil {
			fatal("Error: could not create %s: %v", opts.dumpHTTP, err)
			return 1
		}
		clientOpts.DumpOutput = dump
	}
	client, err := canvas.NewClient(clientOpts)
	if err != nil {
		fatal("Error: %v", err)
		return 1
	}

	var recorder run.Recorder
	index := opts.index
	if index == "" {
		index = creds.Index
	}
	if index != "" {
		m, err := manifest.Open(ctx, index, creds.IndexAuthToken)
		if err != nil {
			fatal("Error: could not open index %s: %v", index, err)
			return 1
		}
		defer m.Close()
		recorder = m
	}

	rc := run.NewContext(cfg, newCLILogger(), recorder)

	var capturer snapshot.Capturer
	if opts.singlefile {
		capturer = snapshot.SingleFile{
			Binary:      creds.SingleFilePath,
			CookiesPath: cfg.CookiesPath,
			BrowserPath: creds.ChromePath,
		}
	}

	_, err = exporter.New(client, rc, capturer).Run(ctx)
	var fatalErr *exporter.FatalError
	if errors.As(err, &fatalErr) {
		fatal("FATAL: %s", fatalErr.Message)
		return 1
	}
	if err != nil {
		fatal("Error: %v", err)
		return 1
	}

	fmt.Println()
	fmt.Println("Process complete. All canvas data exported!")
	renderSummary(os.Stdout, rc.Stats, cfg.OutputDir, cfg.Snapshots)
	return 0
}

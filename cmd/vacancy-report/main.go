package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"vacancycli/internal/app"
	"vacancycli/internal/config"
	"vacancycli/internal/infrastructure"
	"vacancycli/pkg/contracts"
)

// cliOptions holds the parsed command line
type cliOptions struct {
	file       string
	profession string
	format     string
	outXLSX    string
	outPNG     string
	outCSV     string
	version    bool

	// set records which flags were given explicitly
	set map[string]bool
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run is main without the process exit, returning the exit code
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if opts.version {
		fmt.Fprintln(stdout, contracts.GetFullVersionString())
		return 0
	}

	if err := promptMissing(opts, stdin, stdout); err != nil {
		fmt.Fprintf(stderr, "failed to read input: %v\n", err)
		return 1
	}

	application, err := app.NewApplication(stdout)
	if err != nil {
		slog.Error("Failed to initialize application", "error", err)
		return 1
	}

	ctx = infrastructure.EnsureTraceID(ctx)
	_, runErr := application.Run(ctx, opts.runOptions())

	if err := application.Stop(ctx); err != nil && runErr == nil {
		runErr = err
	}
	if runErr != nil {
		infrastructure.WithError(application.Logger, runErr).ErrorContext(ctx, "Report generation failed")
		return 1
	}
	return 0
}

// parseFlags parses args into cliOptions. Usage and parse errors go to stderr.
func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	fs := flag.NewFlagSet("vacancy-report", flag.ContinueOnError)
	fs.SetOutput(stderr)

	opts := &cliOptions{set: make(map[string]bool)}
	fs.StringVar(&opts.file, "file", "", "input vacancies CSV file (prompted for when omitted)")
	fs.StringVar(&opts.profession, "profession", "", "profession substring to filter on (prompted for when omitted)")
	fs.StringVar(&opts.format, "format", "", "output format: xlsx | png | csv | all (defaults to config)")
	fs.StringVar(&opts.outXLSX, "out-xlsx", "", "spreadsheet destination (default "+config.DefaultSpreadsheetFile+")")
	fs.StringVar(&opts.outPNG, "out-png", "", "chart destination, .png or .jpg (default "+config.DefaultChartFile+")")
	fs.StringVar(&opts.outCSV, "out-csv", "", "CSV destination (default "+config.DefaultCSVFile+")")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// promptMissing asks for the input file and profession when no flag supplied them
func promptMissing(opts *cliOptions, stdin io.Reader, stdout io.Writer) error {
	reader := bufio.NewReader(stdin)

	questions := []struct {
		flag   string
		prompt string
		target *string
	}{
		{"file", "Enter file name: ", &opts.file},
		{"profession", "Enter profession name: ", &opts.profession},
	}
	for _, q := range questions {
		if opts.set[q.flag] {
			continue
		}
		fmt.Fprint(stdout, q.prompt)
		answer, err := readLine(reader)
		if err != nil {
			return fmt.Errorf("%s: %w", q.flag, err)
		}
		*q.target = answer
	}
	return nil
}

// readLine returns one line without its terminator. A final line without a newline is accepted.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(err == io.EOF && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (o *cliOptions) runOptions() app.Options {
	outputs := make(map[string]string)
	if o.outXLSX != "" {
		outputs[config.FormatSpreadsheet] = o.outXLSX
	}
	if o.outPNG != "" {
		outputs[config.FormatChart] = o.outPNG
	}
	if o.outCSV != "" {
		outputs[config.FormatCSV] = o.outCSV
	}
	return app.Options{
		InputFile:  o.file,
		Profession: o.profession,
		Format:     o.format,
		Outputs:    outputs,
	}
}

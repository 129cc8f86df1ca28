package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/muesli/termenv"

	"github.com/unkn0wn-root/pickterm/internal/config"
	"github.com/unkn0wn-root/pickterm/internal/directory"
	"github.com/unkn0wn-root/pickterm/internal/errdef"
	"github.com/unkn0wn-root/pickterm/internal/httpclient"
	"github.com/unkn0wn-root/pickterm/internal/loader"
	"github.com/unkn0wn-root/pickterm/internal/logging"
	"github.com/unkn0wn-root/pickterm/internal/output"
	"github.com/unkn0wn-root/pickterm/internal/search"
	"github.com/unkn0wn-root/pickterm/internal/sources"
	"github.com/unkn0wn-root/pickterm/internal/telemetry"
	"github.com/unkn0wn-root/pickterm/internal/theme"
	"github.com/unkn0wn-root/pickterm/internal/ui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

const (
	exitOK     = 0
	exitFailed = 1
	exitUsage  = 2

	shutdownTimeout = 3 * time.Second
)

func main() {
	handled, err := handleInitSubcommand(os.Args[1:])
	if handled {
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(exitUsage)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cliOptions struct {
	settingsPath string
	url          string
	title        string
	name         string
	placeholder  string
	primary      string
	secondary    string
	link         string
	proxy        string
	query        string
	spaces       string
	logLevel     string
	logFile      string
	timeout      time.Duration
	insecure     bool
	jsonOut      bool
	list         bool
	showVersion  bool

	// set holds the names of flags given on the command line.
	set map[string]bool
}

func newFlagSet(opts *cliOptions, stderr io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("pickterm", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, heredoc.Doc(`
			Usage: pickterm [flags]
			       pickterm init [flags] [dir]

			Search a JSON:API directory by name or initials and pick one record.
			The picked record is printed as JSON when confirmed with ctrl+s.
			With -list, or when stdout is not a terminal, matches for -query
			are printed without starting the picker.

			Flags:
		`))
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.settingsPath, "settings", "", "Path to a settings.toml or settings.yaml file")
	fs.StringVar(&opts.url, "url", "", "Directory data URL")
	fs.StringVar(&opts.title, "title", "", "Field title")
	fs.StringVar(&opts.name, "name", "", "Field name")
	fs.StringVar(&opts.placeholder, "placeholder", "", "Placeholder shown once data is loaded")
	fs.StringVar(&opts.primary, "primary", "", "Resource type of selectable records")
	fs.StringVar(&opts.secondary, "secondary", "", "Resource type joined for emails")
	fs.StringVar(&opts.link, "link", "", "Relationship name pointing at the secondary resource")
	fs.DurationVar(&opts.timeout, "timeout", 0, "Request timeout (default from settings, 30s)")
	fs.BoolVar(&opts.insecure, "insecure", false, "Skip TLS certificate verification")
	fs.StringVar(&opts.proxy, "proxy", "", "HTTP proxy URL")
	fs.StringVar(&opts.query, "query", "", "Initial query")
	fs.StringVar(&opts.spaces, "spaces", "", "Space handling when matching: all or first")
	fs.BoolVar(&opts.list, "list", false, "Print matches for -query instead of starting the picker")
	fs.BoolVar(&opts.jsonOut, "json", false, "Print matches as JSON instead of a table")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error or off")
	fs.StringVar(&opts.logFile, "log-file", "", "Log file path (default in the config dir)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show pickterm version")
	return fs
}

func parseArgs(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	fs := newFlagSet(&opts, stderr)
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 0 {
		return opts, fmt.Errorf("unexpected args: %s", strings.Join(fs.Args(), " "))
	}
	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

// apply overlays explicitly given flags on settings.
func (o cliOptions) apply(s *config.Settings) {
	str := func(name, value string, dst *string) {
		if o.set[name] {
			*dst = value
		}
	}
	str("url", o.url, &s.Field.DataURL)
	str("title", o.title, &s.Field.Title)
	str("name", o.name, &s.Field.Name)
	str("placeholder", o.placeholder, &s.Field.Placeholder)
	str("primary", o.primary, &s.Schema.PrimaryType)
	str("secondary", o.secondary, &s.Schema.SecondaryType)
	str("link", o.link, &s.Schema.Link)
	str("proxy", o.proxy, &s.HTTP.Proxy)
	str("spaces", o.spaces, &s.Match.Spaces)
	str("log-level", o.logLevel, &s.Log.Level)
	str("log-file", o.logFile, &s.Log.File)
	if o.set["timeout"] {
		s.HTTP.Timeout = o.timeout.String()
	}
	if o.set["insecure"] {
		s.HTTP.Insecure = o.insecure
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	if opts.showVersion {
		fmt.Fprintf(stdout, "pickterm %s\n", version)
		fmt.Fprintf(stdout, "  commit: %s\n", commit)
		fmt.Fprintf(stdout, "  built:  %s\n", date)
		return exitOK
	}

	settings, handle, err := config.LoadSettings(opts.settingsPath)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	settings.ApplyEnv(os.Getenv)
	opts.apply(&settings)

	httpOpts, err := settings.HTTPOptions()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	mode, err := settings.SpaceMode()
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}

	logPath := settings.Log.File
	if logPath == "" {
		logPath = config.LogPath()
	}
	logger, logCloser, err := logging.Open(logPath, settings.Log.Level)
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitUsage
	}
	defer logCloser.Close()
	logger.Info("starting", "version", version, "settings", handle.Path, "settings_found", handle.Found)

	tcfg := telemetry.ConfigFromEnv(os.Getenv)
	tcfg.Version = version
	provider, err := telemetry.Setup(ctx, tcfg)
	if err != nil {
		logger.Warn("tracing disabled", "error", err)
		provider, _ = telemetry.Setup(ctx, telemetry.Default())
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(sctx); err != nil {
			logger.Warn("tracer shutdown failed", "error", err)
		}
	}()

	var history ui.SourceHistory
	store, err := sources.Open(config.SourcesPath())
	if err != nil {
		logger.Warn("source history unavailable", "error", err)
	} else {
		defer store.Close()
		history = store
	}

	ld := loader.New(httpclient.NewClient(provider.Tracer("httpclient")), loader.Options{
		Schema: settings.DirectorySchema(),
		HTTP:   httpOpts,
		Logger: logger,
		Tracer: provider.Tracer("loader"),
	})

	out, tty := stdout.(*os.File)
	tty = tty && output.IsTerminal(out)
	color := tty && os.Getenv("NO_COLOR") == ""
	if !color {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	if opts.list || !tty {
		h := headless{
			loader:  ld,
			history: history,
			logger:  logger,
			mode:    mode,
			json:    opts.jsonOut,
			color:   color,
			width:   terminalWidth(out, tty),
		}
		return h.run(ctx, settings.Field.DataURL, opts.query, stdout, stderr)
	}

	th := theme.DefaultTheme()
	model := ui.New(ui.Config{
		Title:        settings.Field.Title,
		Name:         settings.Field.Name,
		Placeholder:  settings.Field.Placeholder,
		Source:       settings.Field.DataURL,
		InitialQuery: opts.query,
		Mode:         mode,
		Loader:       ld,
		Sources:      history,
		Theme:        &th,
		Logger:       logger,
		Context:      ctx,
	})

	if lvl, _ := logging.ParseLevel(settings.Log.Level); lvl <= slog.LevelDebug {
		if f, err := tea.LogToFile(logPath, "bubbletea"); err == nil {
			defer f.Close()
		}
	}

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := program.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailed
	}
	picked, ok := final.(ui.Model)
	if !ok || !picked.Confirmed() {
		return exitFailed
	}
	rec, ok := picked.Selected()
	if !ok {
		return exitFailed
	}
	if err := output.JSON(stdout, rec, color); err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailed
	}
	return exitOK
}

func terminalWidth(f *os.File, tty bool) int {
	if !tty {
		return 0
	}
	w, _, err := term.GetSize(f.Fd())
	if err != nil {
		return 0
	}
	return w
}

// headless loads once and prints the matches for a query.
type headless struct {
	loader  ui.Loader
	history ui.SourceHistory
	logger  *slog.Logger
	mode    search.SpaceMode
	json    bool
	color   bool
	width   int
}

func (h headless) run(ctx context.Context, url, query string, stdout, stderr io.Writer) int {
	res := h.loader.Load(ctx, 1, url)
	if h.history != nil {
		status := sources.StatusOK
		if res.Err != nil {
			status = string(errdef.CodeOf(res.Err))
		}
		if err := h.history.Touch(ctx, url, status); err != nil {
			h.logger.Warn("record source failed", "url", url, "error", err)
		}
	}
	if !res.OK() {
		fmt.Fprintln(stderr, res.Status)
		return exitFailed
	}

	matches := search.Filter(res.Records, query, h.mode)
	if matches == nil {
		matches = []directory.Record{}
	}
	if h.json {
		if err := output.JSON(stdout, matches, h.color); err != nil {
			fmt.Fprintf(stderr, "error: %v\n", err)
			return exitFailed
		}
		return exitOK
	}

	err := output.Table(stdout, matches, output.Options{
		Theme: theme.DefaultTheme(),
		Color: h.color,
		Width: h.width,
	})
	if err == nil {
		_, err = fmt.Fprintln(stderr, output.Summary(len(matches), len(res.Records), url))
	}
	if err != nil {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return exitFailed
	}
	return exitOK
}

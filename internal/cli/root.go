// Package cli wires the command line to the comparison engine.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sdejongh/diffnorris/internal/platform"
	"github.com/sdejongh/diffnorris/pkg/compare"
	"github.com/sdejongh/diffnorris/pkg/config"
	"github.com/sdejongh/diffnorris/pkg/diffcore"
	"github.com/sdejongh/diffnorris/pkg/logging"
	"github.com/sdejongh/diffnorris/pkg/output"
)

const programName = "diffnorris"

// Run parses the arguments, performs the comparisons, and returns the
// process exit code: 0 when all pairs are identical, 1 when any pair
// differs, 2 when trouble prevented a comparison.
func Run(args []string, stdout, stderr io.Writer) int {
	flags := &CompareFlags{}
	oContext, args := extractLegacyContext(args)

	exit := 0
	cmd := newRootCommand(flags, oContext, stdout, stderr, &exit)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		return 2
	}
	return exit
}

func newRootCommand(f *CompareFlags, oContext int, stdout, stderr io.Writer, exit *int) *cobra.Command {
	cmd := &cobra.Command{
		Use:   programName + " [options] from-file to-file",
		Short: "Compare files line by line",
		Long: `diffnorris compares files line by line, or directories entry by entry,
and prints the differences in the selected output style. Exit status is
0 if the inputs are identical, 1 if they differ, 2 if trouble.`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			code, err := runCompare(f, oContext, args, stdout, stderr)
			if err != nil {
				return err
			}
			*exit = code
			return nil
		},
	}

	addCompareFlags(cmd, f)
	cmd.AddCommand(NewVersionCommand())
	cmd.AddCommand(NewConfigCommand())
	return cmd
}

// extractLegacyContext pulls the historical "-NUM" context count out of
// the argument list before the regular parser sees it. Arguments after
// "--" are operands and stay untouched.
func extractLegacyContext(args []string) (int, []string) {
	context := -1
	kept := make([]string, 0, len(args))
	literal := false
	for _, arg := range args {
		if literal {
			kept = append(kept, arg)
			continue
		}
		if arg == "--" {
			literal = true
			kept = append(kept, arg)
			continue
		}
		if n, ok := parseLegacyDigits(arg); ok {
			context = n
			continue
		}
		kept = append(kept, arg)
	}
	return context, kept
}

func parseLegacyDigits(arg string) (int, bool) {
	if len(arg) < 2 || arg[0] != '-' {
		return 0, false
	}
	n := 0
	for _, c := range arg[1:] {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

func runCompare(f *CompareFlags, oContext int, operands []string, stdout, stderr io.Writer) (int, error) {
	fileCfg, err := loadDefaults(f)
	if err != nil {
		return 0, err
	}

	cfg, err := buildConfig(f, fileCfg, oContext)
	if err != nil {
		return 0, err
	}

	pairs, err := buildPairs(f, operands)
	if err != nil {
		return 0, err
	}

	logger, err := newLogger(f, fileCfg)
	if err != nil {
		return 0, err
	}
	defer logger.Close()

	q := output.NewQueue(stdout, stderr, programName)
	engine := compare.New(cfg, diffcore.New(cfg, q), q, logger)

	logger.Info("comparison started", logging.Fields{
		"pairs": len(pairs),
		"style": cfg.Style.String(),
	})

	verdict := compare.Success
	for _, pair := range pairs {
		v, err := engine.Compare(pair[0], pair[1])
		if err != nil {
			q.Drain()
			return 0, err
		}
		verdict = verdict.Worse(v)
	}

	if err := q.Drain(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", programName, err)
		verdict = verdict.Worse(compare.Trouble)
	}

	logger.Info("comparison finished", logging.Fields{"verdict": verdict.String()})
	return verdict.ExitCode(), nil
}

// buildPairs resolves the operand list into comparison pairs, honoring
// the --from-file and --to-file substitutions.
func buildPairs(f *CompareFlags, operands []string) ([][2]string, error) {
	switch {
	case f.FromFile != "" && f.ToFile != "":
		return nil, fmt.Errorf("--from-file and --to-file both specified")

	case f.FromFile != "":
		if len(operands) == 0 {
			return nil, fmt.Errorf("missing operand after '--from-file=%s'", f.FromFile)
		}
		pairs := make([][2]string, 0, len(operands))
		for _, op := range operands {
			pairs = append(pairs, [2]string{f.FromFile, op})
		}
		return pairs, nil

	case f.ToFile != "":
		if len(operands) == 0 {
			return nil, fmt.Errorf("missing operand after '--to-file=%s'", f.ToFile)
		}
		pairs := make([][2]string, 0, len(operands))
		for _, op := range operands {
			pairs = append(pairs, [2]string{op, f.ToFile})
		}
		return pairs, nil

	default:
		switch {
		case len(operands) == 0:
			return nil, fmt.Errorf("missing operand")
		case len(operands) == 1:
			return nil, fmt.Errorf("missing operand after '%s'", operands[0])
		case len(operands) > 2:
			return nil, fmt.Errorf("extra operand '%s'", operands[2])
		}
		return [][2]string{{operands[0], operands[1]}}, nil
	}
}

func loadDefaults(f *CompareFlags) (*config.FileConfig, error) {
	if f.ConfigFile != "" {
		return config.LoadFromFile(f.ConfigFile)
	}
	return config.LoadDefault()
}

// buildConfig feeds the flag values through the conflict-checking
// builder. Command-line options always win over the defaults file.
func buildConfig(f *CompareFlags, fileCfg *config.FileConfig, oContext int) (*config.Config, error) {
	b := config.NewBuilder()

	if err := applyStyleFlags(b, f); err != nil {
		return nil, err
	}
	if oContext >= 0 {
		b.SetOutputContext(oContext)
	}

	for _, label := range f.Labels {
		if err := b.AddLabel(label); err != nil {
			return nil, err
		}
	}
	if f.Width > 0 {
		if err := b.SetWidth(f.Width); err != nil {
			return nil, err
		}
	}
	if f.TabSize > 0 {
		if err := b.SetTabSize(f.TabSize); err != nil {
			return nil, err
		}
	}
	if f.StartingFile != "" {
		if err := b.SetStartingFile(f.StartingFile); err != nil {
			return nil, err
		}
	}

	if f.IgnoreTrailingSpace {
		b.RequestWhitespace(config.IgnoreTrailingSpace)
	}
	if f.IgnoreTabExpansion {
		b.RequestWhitespace(config.IgnoreTabExpansion)
	}
	if f.IgnoreSpaceChange {
		b.RequestWhitespace(config.IgnoreSpaceChange)
	}
	if f.IgnoreAllSpace {
		b.RequestWhitespace(config.IgnoreAllSpace)
	}

	b.ShowCFunction = f.ShowCFunction

	excludes, err := collectExcludes(f, fileCfg)
	if err != nil {
		return nil, err
	}

	var patternErr error
	b.Set(func(c *config.Config) {
		addPattern := func(list interface{ Add(string) error }, pattern string) {
			if err := list.Add(pattern); err != nil && patternErr == nil {
				patternErr = err
			}
		}
		if f.ShowCFunction {
			addPattern(c.FunctionRegexps, "^[[:alpha:]$_]")
		}
		for _, p := range f.FunctionPatterns {
			addPattern(c.FunctionRegexps, p)
		}
		for _, p := range f.IgnorePatterns {
			addPattern(c.IgnoreRegexps, p)
		}

		c.Brief = f.Brief
		c.ReportIdentical = f.ReportIdentical
		c.Recursive = f.Recursive
		c.NewFile = f.NewFile
		c.UnidirectionalNewFile = f.UnidirectionalNewFile
		c.NoDereference = f.NoDereference
		c.Text = f.Text

		c.IgnoreCase = f.IgnoreCase
		c.IgnoreBlankLines = f.IgnoreBlankLines
		c.StripTrailingCR = f.StripTrailingCR

		c.IgnoreFileNameCase = f.IgnoreFileNameCase || fileCfg.Compare.IgnoreFileNameCase
		c.Exclude = excludes

		c.ExpandTabs = f.ExpandTabs
		c.InitialTab = f.InitialTab
		c.LeftColumn = f.LeftColumn
		c.SuppressCommonLines = f.SuppressCommonLines
		c.SuppressBlankEmpty = f.SuppressBlankEmpty

		c.Minimal = f.Minimal
		c.SpeedLargeFiles = f.SpeedLargeFiles
		c.HorizonLines = f.HorizonLines
	})
	if patternErr != nil {
		return nil, patternErr
	}

	colorMode := f.Color
	if colorMode == "" {
		colorMode = fileCfg.Output.Color
	}
	if colorMode != "" {
		if err := b.SetColorMode(config.ColorMode(colorMode)); err != nil {
			return nil, err
		}
	}
	b.Set(func(c *config.Config) {
		switch c.ColorMode {
		case config.ColorAlways:
			c.UseColor = true
		case config.ColorAuto:
			c.UseColor = isatty.IsTerminal(os.Stdout.Fd()) ||
				isatty.IsCygwinTerminal(os.Stdout.Fd())
		}
	})

	// Defaults file fills whatever the command line left unset.
	b.DefaultStyle(fileCfg.StyleValue())
	b.DefaultWidth(fileCfg.Output.Width)
	b.DefaultTabSize(fileCfg.Output.TabSize)

	return b.Finalize()
}

func applyStyleFlags(b *config.Builder, f *CompareFlags) error {
	if f.Normal {
		if err := b.SetStyle(config.StyleNormal); err != nil {
			return err
		}
	}
	if f.Context {
		if err := b.SetStyle(config.StyleContext); err != nil {
			return err
		}
		b.RequestContext(3, false)
	}
	if f.ContextLines >= 0 {
		if err := b.SetStyle(config.StyleContext); err != nil {
			return err
		}
		b.RequestContext(f.ContextLines, true)
	}
	if f.Unified {
		if err := b.SetStyle(config.StyleUnified); err != nil {
			return err
		}
		b.RequestContext(3, false)
	}
	if f.UnifiedLines >= 0 {
		if err := b.SetStyle(config.StyleUnified); err != nil {
			return err
		}
		b.RequestContext(f.UnifiedLines, true)
	}
	if f.Ed {
		if err := b.SetStyle(config.StyleEd); err != nil {
			return err
		}
	}
	if f.ForwardEd {
		if err := b.SetStyle(config.StyleForwardEd); err != nil {
			return err
		}
	}
	if f.RCS {
		if err := b.SetStyle(config.StyleRCS); err != nil {
			return err
		}
	}
	if f.SideBySide {
		if err := b.SetStyle(config.StyleSideBySide); err != nil {
			return err
		}
	}
	if f.Ifdef != "" {
		if err := b.SetIfdefName(f.Ifdef); err != nil {
			return err
		}
	}
	return nil
}

// collectExcludes merges the defaults file patterns, the -x patterns,
// and the contents of the -X pattern file.
func collectExcludes(f *CompareFlags, fileCfg *config.FileConfig) ([]string, error) {
	excludes := make([]string, 0, len(fileCfg.Exclude)+len(f.Exclude))
	excludes = append(excludes, fileCfg.Exclude...)
	excludes = append(excludes, f.Exclude...)

	if f.ExcludeFrom != "" {
		data, err := os.ReadFile(f.ExcludeFrom)
		if err != nil {
			return nil, fmt.Errorf("failed to read exclude patterns: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimRight(line, "\r"); line != "" {
				excludes = append(excludes, line)
			}
		}
	}
	return excludes, nil
}

// newLogger builds the run logger: the command line wins, the defaults
// file can enable logging on its own, and silence means a null logger.
func newLogger(f *CompareFlags, fileCfg *config.FileConfig) (logging.Logger, error) {
	path := f.LogFile
	format := f.LogFormat
	level := f.LogLevel

	if path == "" && fileCfg.Logging.Enabled {
		path = fileCfg.Logging.File
		if path == "" {
			path = platform.DefaultLogPath()
		}
		if fileCfg.Logging.Format != "" {
			format = fileCfg.Logging.Format
		}
		if fileCfg.Logging.Level != "" {
			level = fileCfg.Logging.Level
		}
	}
	if path == "" {
		return logging.NewNull(), nil
	}

	var logFormat logging.Format
	switch format {
	case "json":
		logFormat = logging.FormatJSON
	default:
		logFormat = logging.FormatText
	}

	base, err := logging.NewFileLogger(logging.FileLoggerConfig{
		Path:       path,
		Format:     logFormat,
		Level:      logging.ParseLevel(level),
		MaxSize:    10 * 1024 * 1024, // 10 MB
		MaxBackups: 5,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	// Every run gets its own identifier so interleaved runs can be told
	// apart in a shared log file.
	return base.WithFields(logging.Fields{"run_id": uuid.New().String()}), nil
}

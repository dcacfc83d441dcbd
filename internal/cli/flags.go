package cli

import (
	"github.com/spf13/cobra"
)

// CompareFlags holds every option of the comparison command
type CompareFlags struct {
	// Output style selection
	Normal       bool
	Context      bool
	ContextLines int
	Unified      bool
	UnifiedLines int
	Ed           bool
	ForwardEd    bool
	RCS          bool
	SideBySide   bool
	Ifdef        string

	Brief           bool
	ReportIdentical bool

	Recursive             bool
	NewFile               bool
	UnidirectionalNewFile bool
	NoDereference         bool
	Text                  bool

	IgnoreCase          bool
	IgnoreBlankLines    bool
	StripTrailingCR     bool
	IgnoreAllSpace      bool
	IgnoreSpaceChange   bool
	IgnoreTrailingSpace bool
	IgnoreTabExpansion  bool

	IgnorePatterns   []string
	FunctionPatterns []string
	ShowCFunction    bool

	Exclude            []string
	ExcludeFrom        string
	StartingFile       string
	IgnoreFileNameCase bool

	Labels     []string
	Width      int
	TabSize    int
	ExpandTabs bool
	InitialTab bool

	LeftColumn          bool
	SuppressCommonLines bool
	SuppressBlankEmpty  bool

	Minimal         bool
	SpeedLargeFiles bool
	HorizonLines    int

	Color string

	FromFile string
	ToFile   string

	// Config and logging flags
	ConfigFile string
	LogFile    string
	LogFormat  string
	LogLevel   string
}

// addCompareFlags registers the whole option surface on the root command
func addCompareFlags(cmd *cobra.Command, f *CompareFlags) {
	fl := cmd.Flags()

	// Output style
	fl.BoolVar(&f.Normal, "normal", false, "output a normal diff (the default)")
	fl.BoolVarP(&f.Context, "context", "c", false, "output 3 lines of copied context")
	fl.IntVarP(&f.ContextLines, "copied-context", "C", -1, "output NUM lines of copied context")
	fl.BoolVarP(&f.Unified, "unified", "u", false, "output 3 lines of unified context")
	fl.IntVarP(&f.UnifiedLines, "unified-context", "U", -1, "output NUM lines of unified context")
	fl.BoolVarP(&f.Ed, "ed", "e", false, "output an ed script")
	fl.BoolVarP(&f.ForwardEd, "forward-ed", "f", false, "output like an ed script, in forward order")
	fl.BoolVarP(&f.RCS, "rcs", "n", false, "output an RCS format diff")
	fl.BoolVarP(&f.SideBySide, "side-by-side", "y", false, "output in two columns")
	fl.StringVarP(&f.Ifdef, "ifdef", "D", "", "output merged file with #ifdef NAME diffs")

	fl.BoolVarP(&f.Brief, "brief", "q", false, "report only when files differ")
	fl.BoolVarP(&f.ReportIdentical, "report-identical-files", "s", false, "report when two files are the same")

	// Comparison scope
	fl.BoolVarP(&f.Recursive, "recursive", "r", false, "recursively compare subdirectories")
	fl.BoolVarP(&f.NewFile, "new-file", "N", false, "treat absent files as empty")
	fl.BoolVarP(&f.UnidirectionalNewFile, "unidirectional-new-file", "P", false, "treat absent first files as empty")
	fl.BoolVar(&f.NoDereference, "no-dereference", false, "compare symbolic links instead of their targets")
	fl.BoolVarP(&f.Text, "text", "a", false, "treat all files as text")

	// Ignore policies
	fl.BoolVarP(&f.IgnoreCase, "ignore-case", "i", false, "ignore case differences in file contents")
	fl.BoolVarP(&f.IgnoreBlankLines, "ignore-blank-lines", "B", false, "ignore changes where lines are all blank")
	fl.BoolVar(&f.StripTrailingCR, "strip-trailing-cr", false, "strip trailing carriage return on input")
	fl.BoolVarP(&f.IgnoreAllSpace, "ignore-all-space", "w", false, "ignore all white space")
	fl.BoolVarP(&f.IgnoreSpaceChange, "ignore-space-change", "b", false, "ignore changes in the amount of white space")
	fl.BoolVarP(&f.IgnoreTrailingSpace, "ignore-trailing-space", "Z", false, "ignore white space at line end")
	fl.BoolVarP(&f.IgnoreTabExpansion, "ignore-tab-expansion", "E", false, "ignore changes due to tab expansion")
	fl.StringArrayVarP(&f.IgnorePatterns, "ignore-matching-lines", "I", nil, "ignore changes where all lines match RE")

	// Context decoration
	fl.StringArrayVarP(&f.FunctionPatterns, "show-function-line", "F", nil, "show the most recent line matching RE")
	fl.BoolVarP(&f.ShowCFunction, "show-c-function", "p", false, "show which C function each change is in")

	// Directory comparison
	fl.StringArrayVarP(&f.Exclude, "exclude", "x", nil, "exclude files matching PAT")
	fl.StringVarP(&f.ExcludeFrom, "exclude-from", "X", "", "exclude files matching any pattern in FILE")
	fl.StringVarP(&f.StartingFile, "starting-file", "S", "", "start with FILE when comparing directories")
	fl.BoolVar(&f.IgnoreFileNameCase, "ignore-file-name-case", false, "ignore case when comparing file names")

	// Presentation
	fl.StringArrayVarP(&f.Labels, "label", "L", nil, "use LABEL instead of the file name (may be repeated)")
	fl.IntVarP(&f.Width, "width", "W", 0, "output at most NUM print columns")
	fl.IntVar(&f.TabSize, "tabsize", 0, "tab stops every NUM print columns")
	fl.BoolVarP(&f.ExpandTabs, "expand-tabs", "t", false, "expand tabs to spaces in output")
	fl.BoolVarP(&f.InitialTab, "initial-tab", "T", false, "make tabs line up by prepending a tab")
	fl.BoolVar(&f.LeftColumn, "left-column", false, "output only the left column of common lines")
	fl.BoolVar(&f.SuppressCommonLines, "suppress-common-lines", false, "do not output common lines")
	fl.BoolVar(&f.SuppressBlankEmpty, "suppress-blank-empty", false, "suppress space or tab before empty output lines")
	fl.StringVar(&f.Color, "color", "", "colorize the output: never, always, auto")
	fl.Lookup("color").NoOptDefVal = "auto"

	// Algorithm tuning
	fl.BoolVarP(&f.Minimal, "minimal", "d", false, "try hard to find a smaller set of changes")
	fl.BoolVar(&f.SpeedLargeFiles, "speed-large-files", false, "assume large files and many scattered small changes")
	fl.IntVar(&f.HorizonLines, "horizon-lines", 0, "keep NUM lines of the common prefix and suffix")

	// Operand substitution
	fl.StringVar(&f.FromFile, "from-file", "", "compare FILE1 to all operands")
	fl.StringVar(&f.ToFile, "to-file", "", "compare all operands to FILE2")

	// Config and logging
	fl.StringVar(&f.ConfigFile, "config", "", "config file (default is $HOME/.config/diffnorris/config.yaml)")
	fl.StringVar(&f.LogFile, "log-file", "", "write logs to file (enables logging)")
	fl.StringVar(&f.LogFormat, "log-format", "text", "log format: text, json")
	fl.StringVar(&f.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
}

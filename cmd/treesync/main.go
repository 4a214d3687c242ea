// cmd/treesync/main.go
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bethropolis/treesync/internal/buffer"
	"github.com/bethropolis/treesync/internal/config"
	"github.com/bethropolis/treesync/internal/lang"
	"github.com/bethropolis/treesync/internal/logger"
	"github.com/bethropolis/treesync/internal/tracker"
)

var (
	configPath  string
	logFilePath string
	logLevel    string

	editSpecs []string
	langName  string
	atOffset  int

	cfg *config.Config
)

func main() {
	root := &cobra.Command{
		Use:   "treesync",
		Short: "Incremental syntax-tree synchronization for text files",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to TOML config file")
	root.PersistentFlags().StringVar(&logFilePath, "logfile", "", "path to write log file")
	root.PersistentFlags().StringVar(&logLevel, "loglevel", "", "log level (debug, info, warn, error)")

	parseCmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Parse a file, optionally apply edits incrementally, and print the tree",
		Args:  cobra.ExactArgs(1),
		RunE:  runParse,
	}
	parseCmd.Flags().StringArrayVar(&editSpecs, "edit", nil, "edit to apply as BEG:END:TEXT (character offsets), repeatable")
	parseCmd.Flags().StringVar(&langName, "language", "", "grammar to use instead of file-based detection")
	parseCmd.Flags().IntVar(&atOffset, "at", -1, "print the node covering this character offset")

	languagesCmd := &cobra.Command{
		Use:   "languages",
		Short: "List registered grammars",
		Run: func(cmd *cobra.Command, args []string) {
			for _, l := range lang.GetAll() {
				fmt.Printf("%-12s %s\n", l.Name, strings.Join(l.Extensions, " "))
			}
		},
	}

	root.AddCommand(parseCmd, languagesCmd)
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() error {
	var err error
	cfg, err = config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.Logger.LogLevel
	if logLevel != "" {
		level = logLevel
	}
	path := cfg.Logger.LogFilePath
	if logFilePath != "" {
		path = logFilePath
	}

	var out io.Writer
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return fmt.Errorf("failed to open log file '%s': %w", path, err)
		}
		out = f
	}
	logger.Init(logger.ParseLevel(level), out)

	lang.RegisterDefaults()
	return nil
}

func runParse(cmd *cobra.Command, args []string) error {
	buf := buffer.NewTextBuffer()
	if err := buf.Load(args[0]); err != nil {
		return err
	}

	tr := tracker.New(buf)
	if langName != "" {
		l := lang.GetByName(langName)
		if l == nil {
			return fmt.Errorf("unknown language %q", langName)
		}
		tr.SetLanguage(l)
	}
	if err := tr.Enable(); err != nil {
		return err
	}
	defer tr.Disable()

	if !cfg.AllowsLanguage(tr.LanguageName()) {
		return fmt.Errorf("language %q is disabled by configuration", tr.LanguageName())
	}

	for _, spec := range editSpecs {
		beg, end, text, err := parseEditSpec(spec)
		if err != nil {
			return err
		}
		if err := buf.Replace(beg, end, []byte(text)); err != nil {
			return fmt.Errorf("edit %q: %w", spec, err)
		}
	}

	fmt.Printf("language: %s\n", tr.LanguageName())
	fmt.Printf("parses:   %d\n", tr.Reparses())
	fmt.Println(tr.Tree().RootNode().String())

	if atOffset >= 0 {
		if node := tr.NodeAt(atOffset); node != nil {
			fmt.Printf("node at %d: %s [%d-%d]\n", atOffset, node.Type(), node.StartByte(), node.EndByte())
		}
	}
	return nil
}

// parseEditSpec splits BEG:END:TEXT. TEXT may itself contain colons.
func parseEditSpec(spec string) (int, int, string, error) {
	parts := strings.SplitN(spec, ":", 3)
	if len(parts) != 3 {
		return 0, 0, "", fmt.Errorf("invalid edit %q: want BEG:END:TEXT", spec)
	}
	beg, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, "", fmt.Errorf("invalid edit start in %q: %w", spec, err)
	}
	end, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, "", fmt.Errorf("invalid edit end in %q: %w", spec, err)
	}
	return beg, end, parts[2], nil
}

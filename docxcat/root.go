package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hanpama/docxtext"
)

// config keys, shared by flags, environment (DOCXCAT_*) and docxcat.yaml
const (
	keyOutput    = "output"
	keyPreview   = "preview"
	keyLayout    = "layout"
	keyEncoding  = "encoding"
	keyLogLevel  = "log-level"
	keyLogFormat = "log-format"
	keyNoColor   = "no-color"
	keyQuiet     = "quiet"
)

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "docxcat <document.docx> [output.txt]",
		Short: "Extract the text of a Word document to a plain-text file",
		Long: `docxcat writes every paragraph of a Word document on its own line,
followed by one line per table row with cells joined by " | ".

The output path defaults to the document path with a .txt extension. A
summary with the paragraph and table counts and a preview of the text is
printed to standard output.`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfgFile, _ := cmd.Flags().GetString("config")
			if err := loadConfig(v, cfgFile); err != nil {
				return err
			}
			if v.GetBool(keyNoColor) {
				color.NoColor = true
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, v, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("config", "", "config file (default: ./docxcat.yaml or ~/.config/docxcat/docxcat.yaml)")
	flags.String(keyLogLevel, "warn", "log level: debug, info, warn, error")
	flags.String(keyLogFormat, "console", "log format: console or json")
	flags.Bool(keyNoColor, false, "disable colored output")

	cmd.Flags().StringP(keyOutput, "o", "", "output text file (default: <document>.txt)")
	cmd.Flags().Int(keyPreview, docxtext.DefaultPreviewLength, "number of characters shown in the preview (0 uses the default; -q hides it)")
	cmd.Flags().String(keyLayout, string(docxtext.LayoutPipe), "table layout: pipe or grid")
	cmd.Flags().String(keyEncoding, "utf-8", "output encoding (WHATWG label, e.g. windows-1252)")
	cmd.Flags().BoolP(keyQuiet, "q", false, "do not print the summary")

	_ = v.BindPFlags(flags)
	_ = v.BindPFlags(cmd.Flags())

	cmd.AddCommand(newInspectCmd(v))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func runExtract(cmd *cobra.Command, v *viper.Viper, args []string) error {
	logger, err := newLogger(v.GetString(keyLogLevel), v.GetString(keyLogFormat), cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	preview := v.GetInt(keyPreview)
	if preview < 0 {
		return fmt.Errorf("invalid preview length %d: must not be negative", preview)
	}

	src := args[0]
	dst := v.GetString(keyOutput)
	if len(args) > 1 {
		dst = args[1]
	}
	if dst == "" {
		dst = defaultOutputPath(src)
	}

	opts := docxtext.Options{
		Layout:        docxtext.Layout(v.GetString(keyLayout)),
		Encoding:      v.GetString(keyEncoding),
		PreviewLength: preview,
		Logger:        &logger,
	}
	if !v.GetBool(keyQuiet) {
		opts.Console = cmd.OutOrStdout()
	}

	if _, err := docxtext.Extract(cmd.Context(), src, dst, opts); err != nil {
		return fmt.Errorf("extract %s: %w", src, err)
	}
	return nil
}

// defaultOutputPath replaces the document extension with .txt.
func defaultOutputPath(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ".txt"
}

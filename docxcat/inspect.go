package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hanpama/docxtext"
)

func newInspectCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <document.docx>",
		Short: "Show document properties and table structure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(v.GetString(keyLogLevel), v.GetString(keyLogFormat), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			doc, err := docxtext.Open(args[0])
			if err != nil {
				return fmt.Errorf("inspect %s: %w", args[0], err)
			}
			logger.Debug().Str("source", args[0]).Msg("document loaded")

			printInspect(cmd, doc)
			return nil
		},
	}
}

func printInspect(cmd *cobra.Command, doc *docxtext.Document) {
	out := cmd.OutOrStdout()

	props := table.NewWriter()
	props.SetOutputMirror(out)
	props.SetStyle(table.StyleLight)
	props.AppendRows([]table.Row{
		{"Title", doc.Properties.Title},
		{"Subject", doc.Properties.Subject},
		{"Author", doc.Properties.Creator},
		{"Last modified by", doc.Properties.LastModifiedBy},
		{"Created", doc.Properties.Created},
		{"Modified", doc.Properties.Modified},
		{"Paragraphs", len(doc.Paragraphs)},
		{"Tables", len(doc.Tables)},
		{"Table rows", doc.RowCount()},
	})
	props.Render()

	if len(doc.Tables) == 0 {
		return
	}

	tables := table.NewWriter()
	tables.SetOutputMirror(out)
	tables.SetStyle(table.StyleLight)
	tables.AppendHeader(table.Row{"#", "Rows", "Columns", "First row"})
	for i, t := range doc.Tables {
		first := ""
		if len(t.Rows) > 0 {
			first = strings.Join(t.Rows[0].Texts(), " | ")
		}
		tables.AppendRow(table.Row{i + 1, len(t.Rows), t.MaxCells(), first})
	}
	tables.AppendFooter(table.Row{"", doc.RowCount(), "", ""})
	tables.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, WidthMax: 48},
	})
	tables.Render()
}

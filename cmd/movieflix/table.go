package main

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"movieflix/internal/textutil"
)

type columnSpec struct {
	header   string
	maxWidth int
	right    bool
}

func renderTable(columns []columnSpec, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	for i, col := range columns {
		header[i] = col.header
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i, col := range columns {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			if col.maxWidth > 0 {
				cell = textutil.Truncate(cell, col.maxWidth)
			}
			r[i] = textutil.OrDash(cell)
		}
		tw.AppendRow(r)
	}

	configs := make([]table.ColumnConfig, 0, len(columns))
	for i, col := range columns {
		align := text.AlignLeft
		if col.right {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

// renderKeyValues lines up label/value pairs, skipping empty values.
func renderKeyValues(pairs [][2]string) string {
	width := 0
	for _, kv := range pairs {
		width = max(width, len(kv[0]))
	}
	var b strings.Builder
	for _, kv := range pairs {
		if strings.TrimSpace(kv[1]) == "" {
			continue
		}
		fmt.Fprintf(&b, "%-*s  %s\n", width+1, kv[0]+":", kv[1])
	}
	return b.String()
}

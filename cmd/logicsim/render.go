// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	ls "github.com/db47h/logicsim"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	onStyle     = cellStyle.Foreground(lipgloss.Color("#00FF00")).Bold(true)
	offStyle    = cellStyle.Foreground(lipgloss.Color("#666666"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
)

func digit(v bool) string {
	if v {
		return "1"
	}
	return "0"
}

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// renderValues renders the value of every node, in storage order.
func renderValues(nodes []ls.Node, v ls.Values) string {
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{n.Kind.Name(), n.ID, n.Label, digit(v[n.ID])})
	}
	return newTable("TYPE", "ID", "LABEL", "VALUE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 {
				if rows[row][3] == "1" {
					return onStyle
				}
				return offStyle
			}
			return cellStyle
		}).
		Rows(rows...).
		String()
}

// renderTruthTable renders tt with one column per input followed by one
// column per output.
func renderTruthTable(tt *ls.TruthTable) string {
	headers := make([]string, 0, len(tt.Inputs)+len(tt.Outputs))
	for _, n := range tt.Inputs {
		headers = append(headers, n.Label)
	}
	for _, n := range tt.Outputs {
		headers = append(headers, n.Label)
	}
	rows := make([][]string, 0, len(tt.Rows))
	for _, r := range tt.Rows {
		row := make([]string, 0, len(headers))
		for _, b := range r.Inputs {
			row = append(row, strconv.Itoa(b))
		}
		for _, b := range r.Outputs {
			row = append(row, strconv.Itoa(b))
		}
		rows = append(rows, row)
	}
	nIn := len(tt.Inputs)
	return newTable(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= nIn && rows[row][col] == "1":
				return onStyle
			case col >= nIn:
				return offStyle
			}
			return cellStyle
		}).
		Rows(rows...).
		String()
}

// settleStatus describes the outcome of a propagation run.
func settleStatus(r ls.Result) string {
	if r.Stable {
		return "settled after " + strconv.Itoa(r.Passes) + " passes"
	}
	return "did not settle after " + strconv.Itoa(r.Passes) + " passes"
}

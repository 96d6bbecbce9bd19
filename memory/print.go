package memory

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
)

// PrintChunks writes a description of every chunk to w in insertion order:
// name, attribute contents, creation time, reference count, and the
// reinforcement times. When pretty is false the same rows are written as
// CSV instead of an aligned table. Intended as a debugging aid.
func (m *Memory) PrintChunks(w io.Writer, pretty bool) error {
	if len(m.order) == 0 {
		return nil
	}
	header := []string{"chunk name", "chunk contents", "chunk created at", "chunk references", "reference times"}
	rows := make([][]string, 0, len(m.order))
	for _, c := range m.order {
		times := make([]string, len(c.references))
		for i, ref := range c.references {
			times[i] = strconv.FormatFloat(ref, 'g', -1, 64)
		}
		rows = append(rows, []string{
			c.name,
			c.contents(),
			strconv.FormatFloat(c.creation, 'g', -1, 64),
			strconv.Itoa(len(c.references)),
			strings.Join(times, " "),
		})
	}

	if !pretty {
		cw := csv.NewWriter(w)
		if err := cw.Write(header); err != nil {
			return fmt.Errorf("print chunks: %w", err)
		}
		for _, row := range rows {
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("print chunks: %w", err)
			}
		}
		cw.Flush()
		return cw.Error()
	}

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

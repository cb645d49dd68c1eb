package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/yourusername/yt-transfer/internal/domain"
)

const (
	maxVideoFormats = 5
	maxAudioFormats = 3
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// printFormats renders the best video and audio formats. yt-dlp lists
// formats worst first, so both lists are read from the end.
func printFormats(w io.Writer, formats *domain.FormatSet) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Video formats:")
	if video := bestFirst(formats.Video, maxVideoFormats); len(video) > 0 {
		rows := make([][]string, 0, len(video))
		for _, f := range video {
			rows = append(rows, []string{f.FormatID, f.Container, resolution(f), fileSize(f), f.Note})
		}
		fmt.Fprintln(w, renderTable(
			[]string{"ID", "Ext", "Resolution", "Size", "Note"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft},
		))
	} else {
		fmt.Fprintln(w, "  none")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Audio formats:")
	if audio := bestFirst(formats.Audio, maxAudioFormats); len(audio) > 0 {
		rows := make([][]string, 0, len(audio))
		for _, f := range audio {
			rows = append(rows, []string{f.FormatID, f.Container, bitrate(f), fileSize(f)})
		}
		fmt.Fprintln(w, renderTable(
			[]string{"ID", "Ext", "Bitrate", "Size"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight},
		))
	} else {
		fmt.Fprintln(w, "  none")
	}
}

func bestFirst(formats []domain.FormatDescriptor, limit int) []domain.FormatDescriptor {
	out := make([]domain.FormatDescriptor, 0, limit)
	for i := len(formats) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, formats[i])
	}
	return out
}

func resolution(f domain.FormatDescriptor) string {
	if f.Height == nil {
		return "-"
	}
	return strconv.Itoa(*f.Height) + "p"
}

func bitrate(f domain.FormatDescriptor) string {
	if f.AudioBitrate == nil {
		return "-"
	}
	return fmt.Sprintf("%.0fk", *f.AudioBitrate)
}

func fileSize(f domain.FormatDescriptor) string {
	if f.ApproxFileSize == nil || *f.ApproxFileSize <= 0 {
		return "-"
	}
	return humanize.Bytes(uint64(*f.ApproxFileSize))
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

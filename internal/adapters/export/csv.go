// Package export renders every partition's ranking as a CSV document.
package export

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/okian/gamemash/internal/domain/types"
)

// Export defaults.
const (
	DefaultTopN    = 100
	filenamePrefix = "gamemash_export_"
	header         = "Segment,Context,Item,Rating"
)

// Section is one partition's labelled ranking.
type Section struct {
	SegmentLabel string
	ContextLabel string
	Entries      []types.Entry
}

// Document is a rendered export ready for download.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

// CSV renders sections as
//
//	Segment,Context,Item,Rating
//	"<segment label>","<context label>","<item>",<rating to one decimal>
//
// Text fields are always quoted with embedded quotes doubled. Records end
// with "\n".
func CSV(sections []Section, at time.Time) Document {
	var buf bytes.Buffer
	buf.WriteString(header)
	buf.WriteByte('\n')

	rows := 0
	for _, s := range sections {
		seg := quote(s.SegmentLabel)
		ctx := quote(s.ContextLabel)
		for _, e := range s.Entries {
			buf.WriteString(seg)
			buf.WriteByte(',')
			buf.WriteString(ctx)
			buf.WriteByte(',')
			buf.WriteString(quote(e.Item))
			buf.WriteByte(',')
			buf.WriteString(strconv.FormatFloat(e.Rating, 'f', 1, 64))
			buf.WriteByte('\n')
			rows++
		}
	}

	return Document{
		Filename:    Filename(at),
		ContentType: "text/csv; charset=utf-8",
		Data:        buf.Bytes(),
		Rows:        rows,
	}
}

// Filename returns the timestamp-qualified download name.
func Filename(at time.Time) string {
	return fmt.Sprintf("%s%d.csv", filenamePrefix, at.UnixMilli())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

package export_test

import (
	"testing"
	"time"

	"github.com/okian/gamemash/internal/adapters/export"
	"github.com/okian/gamemash/internal/domain/types"
	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	at := time.UnixMilli(1_700_000_000_123)

	doc := export.CSV([]export.Section{
		{
			SegmentLabel: "Jugador casual",
			ContextLabel: "¿Cuál es más divertido?",
			Entries: []types.Entry{
				{Rank: 1, Item: "Minecraft", Rating: 1016},
				{Rank: 2, Item: `The "Best" Game`, Rating: 999.96},
			},
		},
		{
			SegmentLabel: `Quote "Seg"`,
			ContextLabel: "Story",
			Entries:      []types.Entry{{Rank: 1, Item: "Elden Ring", Rating: 983.04}},
		},
		{SegmentLabel: "Empty", ContextLabel: "Nothing"},
	}, at)

	want := "Segment,Context,Item,Rating\n" +
		`"Jugador casual","¿Cuál es más divertido?","Minecraft",1016.0` + "\n" +
		`"Jugador casual","¿Cuál es más divertido?","The ""Best"" Game",1000.0` + "\n" +
		`"Quote ""Seg""","Story","Elden Ring",983.0` + "\n"

	assert.Equal(t, want, string(doc.Data))
	assert.Equal(t, 3, doc.Rows)
	assert.Equal(t, "gamemash_export_1700000000123.csv", doc.Filename)
	assert.Equal(t, "text/csv; charset=utf-8", doc.ContentType)
}

func TestCSV_Empty(t *testing.T) {
	doc := export.CSV(nil, time.Unix(0, 0))
	assert.Equal(t, "Segment,Context,Item,Rating\n", string(doc.Data))
	assert.Zero(t, doc.Rows)
	assert.Equal(t, "gamemash_export_0.csv", doc.Filename)
}

func TestCSV_NegativeRatings(t *testing.T) {
	doc := export.CSV([]export.Section{{
		SegmentLabel: "S",
		ContextLabel: "C",
		Entries:      []types.Entry{{Rank: 1, Item: "X", Rating: -12.34}},
	}}, time.Unix(1, 0))
	assert.Equal(t, "Segment,Context,Item,Rating\n\"S\",\"C\",\"X\",-12.3\n", string(doc.Data))
}

package citation

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDropBlank(t *testing.T) {
	entries := []Entry{{}, {Cites: "a"}, {Pinpoint: " "}, {ParagraphNo: 2}}

	kept := DropBlank(entries)

	assert.Equal(t, []Entry{{Cites: "a"}, {ParagraphNo: 2}}, kept)
}

func TestCollection_SaveOrder(t *testing.T) {
	c := NewCollection("Expert Report")

	c.SavePage(2, []Entry{{Cites: "p2-a"}})
	c.SavePage(1, []Entry{{Cites: "p1-a"}, {Cites: "p1-b"}})
	c.SavePage(2, []Entry{{Cites: "p2-b"}})

	var cites []string
	for _, e := range c.Entries() {
		cites = append(cites, e.Cites)
	}
	assert.Equal(t, []string{"p2-a", "p1-a", "p1-b", "p2-b"}, cites, "rows keep save order across pages")
	assert.Equal(t, 4, c.Len())
	assert.Equal(t, "Expert Report", c.Report())

	rows := c.Entries()
	rows[0].Cites = "changed"
	assert.Equal(t, "p2-a", c.Entries()[0].Cites)
}

func TestCollection_Concurrent(t *testing.T) {
	c := NewCollection("r")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			c.SavePage(page, []Entry{{Cites: fmt.Sprintf("c%d", page)}})
			_ = c.Entries()
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 20, c.Len())
}

func TestWriteCSV(t *testing.T) {
	entries := []Entry{
		{Depositions: "Vashi, Prashant", BatesBegin: "TOT001", ReportName: "R", ParagraphNo: 7},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, Columns, records[0])
	assert.Equal(t, []string{"", "Vashi, Prashant", "", "", "TOT001", "", "", "", "R", "7"}, records[1])
}

func TestWriteCSV_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

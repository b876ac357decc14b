package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name   string `csv:"name"`
	Sets   int    `csv:"sets"`
	Amount string `csv:"amount"`
}

func sampleRows() []row {
	return []row{
		{Name: "Jane Doe", Sets: 1, Amount: "37.00"},
		{Name: "Adam, Jr.", Sets: 0, Amount: "12.50"},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,sets,amount", lines[0])
	assert.Equal(t, "Jane Doe,1,37.00", lines[1])
	assert.Equal(t, `"Adam, Jr.",0,12.50`, lines[2])
}

func TestCSVRoundTripThroughReader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleRows()))

	var got []row
	require.NoError(t, ReadCSV(&buf, &got))
	assert.Equal(t, sampleRows(), got)
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "Batch", sampleRows()))
	assert.NotZero(t, buf.Len())

	var got []row
	require.NoError(t, ReadXLSX(&buf, &got))
	assert.Equal(t, sampleRows(), got)
}

func TestReadCSVRejectsGarbage(t *testing.T) {
	var got []row
	err := ReadCSV(strings.NewReader("name,sets\nJane,notanumber\n"), &got)
	assert.Error(t, err)
}

package encoding_test

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"

	"github.com/MrJamesThe3rd/lensflow/internal/encoding"
)

func decode(t *testing.T, input []byte) string {
	t.Helper()

	r, err := encoding.NewUTF8Reader(bytes.NewReader(input))
	require.NoError(t, err)

	got, err := io.ReadAll(r)
	require.NoError(t, err)

	return string(got)
}

const sheet = "النوع,الاسم,الكمية\nكاميرات,Canon R5,2\n"

func TestNewUTF8Reader_UTF8Passthrough(t *testing.T) {
	assert.Equal(t, sheet, decode(t, []byte(sheet)))
}

func TestNewUTF8Reader_UTF8BOMStripped(t *testing.T) {
	input := append([]byte{0xEF, 0xBB, 0xBF}, sheet...)
	assert.Equal(t, sheet, decode(t, input))
}

func TestNewUTF8Reader_UTF16LE(t *testing.T) {
	input, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte(sheet))
	require.NoError(t, err)

	assert.Equal(t, sheet, decode(t, input))
}

func TestNewUTF8Reader_Windows1256(t *testing.T) {
	// Enough text for the detector to recognize the language.
	long := strings.Repeat("معدات التصوير والعدسات الاحترافية في الاستوديو\n", 40)

	input, err := charmap.Windows1256.NewEncoder().Bytes([]byte(long))
	require.NoError(t, err)

	assert.Equal(t, long, decode(t, input))
}

func TestNewUTF8Reader_RuneAcrossSniffWindow(t *testing.T) {
	// Pad so a two-byte Arabic letter straddles the sniff boundary.
	input := strings.Repeat("a", 8191) + "ك"
	assert.Equal(t, input, decode(t, []byte(input)))
}

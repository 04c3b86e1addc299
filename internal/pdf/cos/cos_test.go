package cos_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/rechnung/internal/pdf/cos"
)

const minimalPDF = `%PDF-1.7
1 0 obj
<< /Type /Catalog /Pages 2 0 R >>
endobj
2 0 obj
<< /Type /Pages /Kids [] /Count 0 >>
endobj
trailer
<< /Size 3 /Root 1 0 R >>
startxref
9
%%EOF
`

func TestInspectFindsRootAndSize(t *testing.T) {
	info, err := cos.Inspect([]byte(minimalPDF))
	require.NoError(t, err)
	assert.Equal(t, 1, info.RootNum)
	assert.Equal(t, 0, info.RootGen)
	assert.Equal(t, 3, info.NextFree)
}

func TestFindObjectBody(t *testing.T) {
	body, ok := cos.FindObjectBody([]byte(minimalPDF), 2)
	require.True(t, ok)
	assert.Contains(t, string(body), "/Type /Pages")
}

func TestParseDictEntries(t *testing.T) {
	entries := cos.ParseDictEntries([]byte("<< /Type /Catalog /Pages 2 0 R /Count 5 >>"))
	assert.Equal(t, "/Catalog", entries["Type"])
	assert.Equal(t, "2 0 R", entries["Pages"])
	assert.Equal(t, "5", entries["Count"])
}

func TestAppendUpdateAddsObjectsAndTrailer(t *testing.T) {
	info, err := cos.Inspect([]byte(minimalPDF))
	require.NoError(t, err)

	updated := cos.AppendUpdate([]byte(minimalPDF), []cos.Object{
		{Ref: cos.Ref{Num: 3}, Value: cos.Dict{"Foo": cos.Name("Bar")}},
	}, info)

	out := string(updated)
	assert.True(t, strings.HasPrefix(out, minimalPDF))
	assert.Contains(t, out, "3 0 obj")
	assert.Contains(t, out, "/Foo /Bar")
	assert.Contains(t, out, "startxref")
	assert.Contains(t, out, "%%EOF")

	body, ok := cos.FindObjectBody(updated, 3)
	require.True(t, ok)
	assert.Contains(t, string(body), "/Foo /Bar")
}

func TestEncodeStreamSetsLength(t *testing.T) {
	out := cos.Encode(cos.Object{
		Ref: cos.Ref{Num: 5},
		Value: cos.Stream{
			Dict: cos.Dict{"Type": cos.Name("Metadata")},
			Data: []byte("hello"),
		},
	})
	s := string(out)
	assert.Contains(t, s, "/Length 5")
	assert.Contains(t, s, "stream\nhello\nendstream")
}

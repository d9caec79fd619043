package manifest

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeString(t *testing.T, s string) (*DataFetch, error) {
	t.Helper()
	return NewCodec().Decode(strings.NewReader(s), "test.xml")
}

func TestCodec_ReadFile(t *testing.T) {
	doc, err := NewCodec().ReadFile(filepath.Join("testdata", "xmlparsing.xml"))
	require.NoError(t, err)

	want := &DataFetch{Items: []DataItem{
		NewDataItem("tenantA/securitykey/k1", "tenantA", DefaultProperties()),
		NewDataItem("tenantB/otherkey/k2", "tenantB", []Property{NewProperty("isValid", "false")}),
	}}
	assert.True(t, want.Equal(doc), "decoded: %+v", doc)
}

func TestCodec_DecodeTolerance(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []DataItem
	}{
		{
			name:  "case-insensitive names",
			input: `<data_fetch><Data_Item Tenant="t1"><resource>t1/securitykey/a</resource><properties><property NAME="isValid" Value="true"/></properties></Data_Item></data_fetch>`,
			want:  []DataItem{NewDataItem("t1/securitykey/a", "t1", []Property{NewProperty("isValid", "true")})},
		},
		{
			name:  "unknown elements and attributes ignored",
			input: `<DATA_FETCH version="2"><META/><DATA_ITEM tenant="t1" region="eu"><RESOURCE>t1/otherkey/b</RESOURCE><COMMENT>x</COMMENT><PROPERTIES><PROPERTY name="consume" value="false" note="n"/><OTHER/></PROPERTIES></DATA_ITEM></DATA_FETCH>`,
			want:  []DataItem{NewDataItem("t1/otherkey/b", "t1", []Property{NewProperty("consume", "false")})},
		},
		{
			name:  "missing properties block",
			input: `<DATA_FETCH><DATA_ITEM tenant="t1"><RESOURCE>t1/otherkey/b</RESOURCE></DATA_ITEM></DATA_FETCH>`,
			want:  []DataItem{NewDataItem("t1/otherkey/b", "t1", nil)},
		},
		{
			name:  "resource text kept verbatim",
			input: "<DATA_FETCH><DATA_ITEM tenant=\"t1\"><RESOURCE> t1/otherkey/b </RESOURCE></DATA_ITEM></DATA_FETCH>",
			want:  []DataItem{NewDataItem(" t1/otherkey/b ", "t1", nil)},
		},
		{
			name:  "whitespace and comments around the root",
			input: "<?xml version=\"1.0\"?>\n<!-- generated -->\n<DATA_FETCH/>\n\n",
			want:  nil,
		},
		{
			name:  "no items",
			input: `<DATA_FETCH/>`,
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := decodeString(t, tt.input)
			require.NoError(t, err)
			assert.True(t, (&DataFetch{Items: tt.want}).Equal(doc), "decoded: %+v", doc)
		})
	}
}

func TestCodec_DecodeErrors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		sentinel error
	}{
		{name: "not xml", input: `this is not xml <`, sentinel: ErrMalformed},
		{name: "plain text", input: `hello world`, sentinel: ErrMalformed},
		{name: "second root element", input: `<DATA_FETCH/><DATA_FETCH><DATA_ITEM tenant="t"><RESOURCE>t/securitykey/a</RESOURCE></DATA_ITEM></DATA_FETCH>`, sentinel: ErrMalformed},
		{name: "text after root", input: `<DATA_FETCH></DATA_FETCH>trailing junk`, sentinel: ErrMalformed},
		{name: "text before root", input: `junk<DATA_FETCH/>`, sentinel: ErrMalformed},
		{name: "unquoted attribute", input: `<DATA_FETCH><DATA_ITEM tenant=t></DATA_ITEM></DATA_FETCH>`, sentinel: ErrMalformed},
		{name: "wrong root", input: `<INVENTORY/>`, sentinel: ErrSchema},
		{name: "missing tenant", input: `<DATA_FETCH><DATA_ITEM><RESOURCE>a/securitykey/b</RESOURCE></DATA_ITEM></DATA_FETCH>`, sentinel: ErrSchema},
		{name: "missing resource", input: `<DATA_FETCH><DATA_ITEM tenant="t"/></DATA_FETCH>`, sentinel: ErrSchema},
		{name: "property without value", input: `<DATA_FETCH><DATA_ITEM tenant="t"><RESOURCE>r</RESOURCE><PROPERTIES><PROPERTY name="x"/></PROPERTIES></DATA_ITEM></DATA_FETCH>`, sentinel: ErrSchema},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := decodeString(t, tt.input)
			require.Error(t, err)
			assert.Nil(t, doc)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.Contains(t, err.Error(), "test.xml")
		})
	}
}

func TestCodec_DecodeEmptyDocument(t *testing.T) {
	doc, err := decodeString(t, "")
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestCodec_SchemaErrorNamesItem(t *testing.T) {
	_, err := decodeString(t, `<DATA_FETCH><DATA_ITEM tenant="t"><RESOURCE>r</RESOURCE></DATA_ITEM><DATA_ITEM/></DATA_FETCH>`)
	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, 1, serr.Item)
}

func TestCodec_ReadFileUnreadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.xml")
	_, err := NewCodec().ReadFile(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnreadable)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), path)
}

func TestCodec_Encode(t *testing.T) {
	doc := &DataFetch{Items: []DataItem{
		NewDataItem("tenantA/securitykey/k1", "tenantA", DefaultProperties()),
	}}

	var buf bytes.Buffer
	require.NoError(t, NewCodec().Encode(&buf, doc))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0" encoding="UTF-8"?>`), out)
	assert.Contains(t, out, "\n  <DATA_ITEM tenant=\"tenantA\">")
	assert.Contains(t, out, "\n    <RESOURCE>tenantA/securitykey/k1</RESOURCE>")
	assert.Contains(t, out, "\n      <PROPERTY name=\"isValid\" value=\"true\"/>")
	assert.Contains(t, out, "\n      <PROPERTY name=\"consume\" value=\"false\"/>")
}

func TestCodec_EncodeNil(t *testing.T) {
	assert.Error(t, NewCodec().Encode(&bytes.Buffer{}, nil))
}

func TestCodec_RoundTrip(t *testing.T) {
	docs := []*DataFetch{
		{},
		{Items: []DataItem{
			NewDataItem("tenantA/securitykey/k1", "tenantA", DefaultProperties()),
			NewDataItem("tenantB/otherkey/k2", "tenantB", nil),
			NewDataItem("t&c/otherkey/<odd>", "t\"q", []Property{NewProperty("dup", "1"), NewProperty("dup", "1")}),
			NewDataItem("  a/securitykey/b ", "t", DefaultProperties()),
		}},
	}

	codec := NewCodec()
	for _, doc := range docs {
		var buf bytes.Buffer
		require.NoError(t, codec.Encode(&buf, doc))

		back, err := codec.Decode(&buf, "roundtrip")
		require.NoError(t, err)
		assert.True(t, doc.Equal(back), "round trip mismatch: %+v", back)
	}
}

func TestCodec_WriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xml")
	doc := &DataFetch{Items: []DataItem{NewDataItem("t/otherkey/k", "t", DefaultProperties())}}

	codec := NewCodec()
	require.NoError(t, codec.WriteFile(path, doc))

	back, err := codec.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, doc.Equal(back))
}

package xmlsource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyInput(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, os.WriteFile(tmp, []byte("<properties/>"), 0o644))

	cases := []struct {
		input string
		want  InputKind
	}{
		{"https://example.com/feed.xml", InputURL},
		{"http://example.com/export?format=xml", InputURL},
		{tmp, InputFile},
		{"<?xml version=\"1.0\"?><properties/>", InputRaw},
		{"<properties><property/></properties>", InputRaw},
		{"feeds/missing-export.xml", InputFile},
		{"data/exports/latest", InputFile},
		{"just some text", InputRaw},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyInput(tc.input), "input %q", tc.input)
	}
}

func TestLoadInputFromFile(t *testing.T) {
	tmp := filepath.Join(t.TempDir(), "feed.xml")
	require.NoError(t, os.WriteFile(tmp, []byte("<properties><property/></properties>"), 0o644))

	text, err := LoadInput(context.Background(), tmp)
	require.NoError(t, err)
	assert.Equal(t, "<properties><property/></properties>", text)
}

func TestLoadInputFromURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte("<Rows><Row><id>1</id></Row></Rows>"))
	}))
	defer server.Close()

	text, err := LoadInput(context.Background(), server.URL+"/export.xml")
	require.NoError(t, err)
	assert.Contains(t, text, "<Row>")
}

func TestLoadInputURLErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	_, err := LoadInput(context.Background(), server.URL)
	assert.ErrorContains(t, err, "status 403")
}

func TestParseDocumentRejectsMalformed(t *testing.T) {
	_, err := ParseDocument("<properties><property></properties>")
	assert.Error(t, err)
}

func TestFindRecordsKnownContainer(t *testing.T) {
	doc, err := ParseDocument("<feed><property><id>1</id></property><property><id>2</id></property></feed>")
	require.NoError(t, err)
	assert.Len(t, FindRecords(doc), 2)
}

func TestFindRecordsRowContainer(t *testing.T) {
	doc, err := ParseDocument("<Rows><Row><id>1</id></Row></Rows>")
	require.NoError(t, err)
	assert.Len(t, FindRecords(doc), 1)
}

func TestFindRecordsFallsBackToRootChildren(t *testing.T) {
	doc, err := ParseDocument("<export><entry><id>1</id></entry><entry><id>2</id></entry><entry><id>3</id></entry></export>")
	require.NoError(t, err)
	assert.Len(t, FindRecords(doc), 3)
}

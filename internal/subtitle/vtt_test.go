package subtitle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVTT_HeaderAndCues(t *testing.T) {
	content := "WEBVTT\nKind: captions\nLanguage: en\n\n" +
		"intro\n00:00:01.000 --> 00:00:02.000\nHello\n\n" +
		"00:02.500 --> 00:03.000\nWorld\n"

	doc := ParseVTT(content)
	assert.Equal(t, "en", doc.Meta.Language)
	require.Len(t, doc.Entries, 2)

	assert.Equal(t, time.Second, doc.Entries[0].Start)
	assert.Equal(t, "Hello", doc.Entries[0].Text)
	assert.Equal(t, 2500*time.Millisecond, doc.Entries[1].Start)
	assert.Equal(t, "World", doc.Entries[1].Text)
}

func TestParseVTT_NoHeader(t *testing.T) {
	doc := ParseVTT("00:00:01.000 --> 00:00:02.000\nHi\n")
	require.Len(t, doc.Entries, 1)
	assert.Empty(t, doc.Meta.Language)
}

func TestParseVTT_MissingTimestampSkipsLineAndContinues(t *testing.T) {
	content := "WEBVTT\n\n" +
		"NOTE this is a note\nnot a cue either\n\n" +
		"00:00:05.000 --> 00:00:06.000\nStill parsed\n"

	doc := ParseVTT(content)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "Still parsed", doc.Entries[0].Text)
}

func TestSerializeVTT_LanguageHeader(t *testing.T) {
	doc := &Document{
		Format: FormatVTT,
		Meta:   Metadata{Language: "it"},
		Entries: []Entry{
			{Start: time.Second, End: 2 * time.Second, Text: "Ciao"},
		},
	}

	want := "WEBVTT\nLanguage: it\n\n00:00:01.000 --> 00:00:02.000\nCiao"
	assert.Equal(t, want, SerializeVTT(doc))
}

func TestVTT_RoundTrip(t *testing.T) {
	doc := &Document{
		Format: FormatVTT,
		Meta:   Metadata{Language: "en"},
		Entries: []Entry{
			{Start: 1250 * time.Millisecond, End: 2 * time.Second, Text: "one\ntwo"},
			{Start: time.Hour, End: time.Hour + 500*time.Millisecond, Text: "late cue"},
		},
	}

	reparsed := ParseVTT(SerializeVTT(doc))
	assert.Equal(t, "en", reparsed.Meta.Language)
	require.Len(t, reparsed.Entries, len(doc.Entries))
	for i := range doc.Entries {
		assert.Equal(t, doc.Entries[i].Start, reparsed.Entries[i].Start)
		assert.Equal(t, doc.Entries[i].End, reparsed.Entries[i].End)
		assert.Equal(t, doc.Entries[i].Text, reparsed.Entries[i].Text)
	}
}

func TestSerializeVTT_TranslatedTextSubstituted(t *testing.T) {
	doc := &Document{
		Format: FormatVTT,
		Entries: []Entry{
			{Start: time.Second, End: 2 * time.Second, Text: "Hello", TranslatedText: "Ciao"},
			{Start: 3 * time.Second, End: 4 * time.Second, Text: "World"},
		},
	}

	out := SerializeVTT(doc)
	assert.Contains(t, out, "Ciao")
	assert.NotContains(t, out, "Hello")
	assert.Contains(t, out, "World")
}

package subtitle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSRT_Basic(t *testing.T) {
	content := "1\n00:00:01,000 --> 00:00:02,000\nHello\nthere\n\n2\n00:00:02,500 --> 00:00:03,000\nWorld\n"

	doc := ParseSRT(content)
	require.Len(t, doc.Entries, 2)

	assert.Equal(t, 1, doc.Entries[0].Index)
	assert.Equal(t, time.Second, doc.Entries[0].Start)
	assert.Equal(t, 2*time.Second, doc.Entries[0].End)
	assert.Equal(t, "Hello\nthere", doc.Entries[0].Text)

	assert.Equal(t, 2500*time.Millisecond, doc.Entries[1].Start)
	assert.Equal(t, "World", doc.Entries[1].Text)
}

func TestParseSRT_MalformedBlocksSkippedSilently(t *testing.T) {
	content := "not-a-number\n00:00:01,000 --> 00:00:02,000\nSkipped\n\n" +
		"2\nnot a timestamp\nAlso skipped\n\n" +
		"3\n00:00:05,000 --> 00:00:06,000\nKept\n\n" +
		"4\n00:00:07,000 --> 00:00:08,000\n"

	doc := ParseSRT(content)
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "Kept", doc.Entries[0].Text)
}

func TestParseSRT_CRLFAndGarbage(t *testing.T) {
	doc := ParseSRT("1\r\n00:00:01,000 --> 00:00:02,000\r\nHi\r\n")
	require.Len(t, doc.Entries, 1)
	assert.Equal(t, "Hi", doc.Entries[0].Text)

	// wrong-format input yields an empty document, not a panic
	assert.Empty(t, ParseSRT("WEBVTT\n\nwhatever").Entries)
	assert.Empty(t, ParseSRT("").Entries)
}

func TestSerializeSRT_TranslationScenario(t *testing.T) {
	input := "1\n00:00:01,000 --> 00:00:02,000\nHello\n\n2\n00:00:02,500 --> 00:00:03,000\nWorld"

	doc := ParseSRT(input)
	require.Len(t, doc.Entries, 2)
	doc.Entries[0].TranslatedText = "Ciao"

	want := "1\n00:00:01,000 --> 00:00:02,000\nCiao\n\n2\n00:00:02,500 --> 00:00:03,000\nWorld"
	assert.Equal(t, want, SerializeSRT(doc))
}

func TestSerializeSRT_Renumbers(t *testing.T) {
	doc := &Document{
		Format: FormatSRT,
		Entries: []Entry{
			{Index: 17, Start: time.Second, End: 2 * time.Second, Text: "a"},
			{Index: 3, Start: 3 * time.Second, End: 4 * time.Second, Text: "b"},
		},
	}

	reparsed := ParseSRT(SerializeSRT(doc))
	require.Len(t, reparsed.Entries, 2)
	assert.Equal(t, 1, reparsed.Entries[0].Index)
	assert.Equal(t, 2, reparsed.Entries[1].Index)
}

func TestSRT_RoundTrip(t *testing.T) {
	doc := &Document{
		Format: FormatSRT,
		Entries: []Entry{
			{Start: 1500 * time.Millisecond, End: 2750 * time.Millisecond, Text: "first\nline"},
			{Start: time.Hour + 3*time.Millisecond, End: time.Hour + time.Second, Text: "second"},
		},
	}

	reparsed := ParseSRT(SerializeSRT(doc))
	require.Len(t, reparsed.Entries, len(doc.Entries))
	for i := range doc.Entries {
		assert.Equal(t, doc.Entries[i].Start, reparsed.Entries[i].Start)
		assert.Equal(t, doc.Entries[i].End, reparsed.Entries[i].End)
		assert.Equal(t, doc.Entries[i].Text, reparsed.Entries[i].Text)
	}
}

func TestDocument_ValidateFlagsInvertedTimes(t *testing.T) {
	doc := &Document{
		Format: FormatSRT,
		Entries: []Entry{
			{Start: 2 * time.Second, End: time.Second, Text: "backwards"},
			{Start: time.Second, End: 2 * time.Second, Text: "fine"},
		},
	}

	issues := doc.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, 0, issues[0].EntryIndex)
	// entries are flagged, never auto-fixed
	assert.Equal(t, 2*time.Second, doc.Entries[0].Start)
}

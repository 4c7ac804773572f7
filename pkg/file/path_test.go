package file

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceExt(t *testing.T) {
	assert.Equal(t, filepath.Join("/a", "b.vtt"), ReplaceExt("/a/b.srt", "vtt"))
	assert.Equal(t, filepath.Join("/a", "b.vtt"), ReplaceExt("/a/b.srt", ".vtt"))
	assert.Equal(t, filepath.Join("/a", "b.srt"), ReplaceExt("/a/b", "srt"))
	assert.Equal(t, "", ReplaceExt("", "srt"))
}

func TestWithLangSuffix(t *testing.T) {
	assert.Equal(t, filepath.Join("/sub", "movie.it.srt"), WithLangSuffix("/sub/movie.srt", "it"))
	assert.Equal(t, "movie.ja.srt", WithLangSuffix("movie.srt", "ja"))
	assert.Equal(t, filepath.Join("/sub", "notes.it"), WithLangSuffix("/sub/notes", "it"))
	// missing lang leaves the path alone
	assert.Equal(t, "/sub/movie.srt", WithLangSuffix("/sub/movie.srt", ""))

	// the suffixed path never collides with the source
	src := "/sub/movie.srt"
	assert.NotEqual(t, src, WithLangSuffix(src, "it"))
}

func TestMirror(t *testing.T) {
	assert.Equal(t, filepath.Join("/out", "sub", "a.srt"), Mirror("/src", "/src/sub/a.srt", "/out"))
	assert.Equal(t, filepath.Join("/out", "a.srt"), Mirror("/src", "/src/a.srt", "/out"))
	// paths outside the root fall back to the bare file name
	assert.Equal(t, filepath.Join("/out", "a.srt"), Mirror("/src", "/elsewhere/a.srt", "/out"))
}

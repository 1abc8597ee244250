package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeFilename(t *testing.T) {
	cases := map[string]string{
		"Sapiens (2011).pdf":     "Sapiens--2011-.pdf",
		"../../etc/passwd":       "passwd",
		`C:\books\cover art.png`: "cover-art.png",
		"tiểu thuyết.epub":       "ti-u-thuy-t.epub",
		"":                       "file",
		"...":                    "file",
	}
	for in, want := range cases {
		assert.Equal(t, want, SanitizeFilename(in), in)
	}
}

func TestObjectKey(t *testing.T) {
	now := time.UnixMilli(1700000000123)

	assert.Equal(t, "pdfs/1700000000123-my-book.pdf", ObjectKey(FolderDocuments, "my book.pdf", now))
	assert.Equal(t, "covers/1700000000123-c.png", ObjectKey(FolderCovers, "c.png", now))
}

func TestDeriveObjectRef(t *testing.T) {
	ref, ok := DeriveObjectRef("https://cdn.example.com/inkdrop/pdfs/1700-sapiens.pdf?v=2")
	assert.True(t, ok)
	assert.Equal(t, "pdfs/1700-sapiens", ref.Key)
	assert.Equal(t, KindRaw, ref.Kind)
	assert.False(t, ref.Exact)

	ref, ok = DeriveObjectRef("/uploads/covers/1700-cover.jpeg")
	assert.True(t, ok)
	assert.Equal(t, "covers/1700-cover", ref.Key)
	assert.Equal(t, KindImage, ref.Kind)

	for _, raw := range []string{
		"https://example.com/files/book.pdf",
		"https://example.com/pdfs/",
		"/images/default-book-cover.jpg",
		"::not a url",
	} {
		_, ok := DeriveObjectRef(raw)
		assert.False(t, ok, raw)
	}
}

func TestMatchesRef(t *testing.T) {
	derived := ObjectRef{Key: "pdfs/1700-sapiens"}
	assert.True(t, matchesRef("pdfs/1700-sapiens.pdf", derived))
	assert.False(t, matchesRef("pdfs/1700-sapiens-2.pdf", derived))

	exact := ExactRef("pdfs/1700-sapiens.pdf", KindRaw)
	assert.True(t, matchesRef("pdfs/1700-sapiens.pdf", exact))
	assert.False(t, matchesRef("pdfs/1700-sapiens.epub", exact))
}

func TestURLExtension(t *testing.T) {
	assert.Equal(t, ".pdf", URLExtension("https://x.test/a/B.PDF?token=1"))
	assert.Equal(t, ".epub", URLExtension("/uploads/pdfs/a.epub"))
	assert.Equal(t, "", URLExtension("https://x.test/download?id=3"))
}

func TestKeyUnder(t *testing.T) {
	key, ok := keyUnder("http://minio:9000/inkdrop", "http://minio:9000/inkdrop/covers/a%20b.png?x=1")
	assert.True(t, ok)
	assert.Equal(t, "covers/a b.png", key)

	_, ok = keyUnder("http://minio:9000/inkdrop", "http://minio:9000/inkdrop-other/covers/a.png")
	assert.False(t, ok)
}

func TestThumbnailKey(t *testing.T) {
	assert.Equal(t, "covers/thumbs/1700-sapiens.jpg", ThumbnailKey("covers/1700-sapiens.png"))
	assert.Equal(t, "thumbs/a.jpg", ThumbnailKey("a.webp"))
}

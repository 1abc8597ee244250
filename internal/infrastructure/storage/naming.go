package storage

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// SanitizeFilename keeps the base name and replaces every character outside
// [a-zA-Z0-9.] with '-'.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}
	name = unsafeNameChars.ReplaceAllString(name, "-")
	if strings.Trim(name, ".-") == "" {
		return "file"
	}
	return name
}

// ObjectKey builds "<folder>/<unix-millis>-<sanitized name>".
func ObjectKey(folder Folder, originalName string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s", folder, now.UnixMilli(), SanitizeFilename(originalName))
}

// DeriveObjectRef recovers an object identifier from an asset URL by taking
// the path from the first "pdfs" or "covers" segment and stripping the
// extension. ok is false when no folder marker is present.
func DeriveObjectRef(rawURL string) (ObjectRef, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ObjectRef{}, false
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, seg := range segments {
		folder := Folder(seg)
		if folder != FolderDocuments && folder != FolderCovers {
			continue
		}
		if i == len(segments)-1 {
			return ObjectRef{}, false
		}
		rest := strings.Join(segments[i:], "/")
		id := strings.TrimSuffix(rest, path.Ext(rest))
		if strings.HasSuffix(id, "/") {
			return ObjectRef{}, false
		}
		return ObjectRef{Key: id, Kind: folder.Kind()}, true
	}
	return ObjectRef{}, false
}

// ExactRef builds a reference for a key recorded at upload time.
func ExactRef(key string, kind ResourceKind) ObjectRef {
	return ObjectRef{Key: key, Kind: kind, Exact: true}
}

// matchesRef reports whether an object key is targeted by ref.
func matchesRef(key string, ref ObjectRef) bool {
	if ref.Exact {
		return key == ref.Key
	}
	return strings.TrimSuffix(key, path.Ext(key)) == ref.Key
}

// listPrefix is the listing prefix that covers every key matchesRef accepts.
func listPrefix(ref ObjectRef) string {
	return ref.Key
}

// URLExtension returns the lower-cased extension of a URL's path, ignoring
// query string and fragment.
func URLExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}

func joinURL(base, key string) string {
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}

// keyUnder returns rawURL's remainder after base, when rawURL lives under base.
func keyUnder(base, rawURL string) (string, bool) {
	prefix := strings.TrimSuffix(base, "/") + "/"
	if !strings.HasPrefix(rawURL, prefix) {
		return "", false
	}
	key := strings.TrimPrefix(rawURL, prefix)
	if i := strings.IndexAny(key, "?#"); i >= 0 {
		key = key[:i]
	}
	if unescaped, err := url.PathUnescape(key); err == nil {
		key = unescaped
	}
	return key, key != ""
}

// internal/common/storage/textbooks.go
package storage

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"path"
	"strings"

	"sahachari/internal/common/errors"

	gcs "cloud.google.com/go/storage"
)

// Object is a fetched stored file.
type Object struct {
	Name        string
	ContentType string
	Data        []byte
}

// objectReader reads one object by its full path within the bucket.
type objectReader interface {
	Read(ctx context.Context, objectPath string) (*Object, error)
}

// TextbookStore serves worksheet source pages kept under a fixed prefix.
type TextbookStore struct {
	reader   objectReader
	prefix   string
	maxBytes int64
}

// NewTextbookStore reads from bucket. maxBytes caps a single page.
func NewTextbookStore(bucket *gcs.BucketHandle, prefix string, maxBytes int64) *TextbookStore {
	return newTextbookStore(&bucketReader{bucket: bucket, maxBytes: maxBytes}, prefix, maxBytes)
}

func newTextbookStore(reader objectReader, prefix string, maxBytes int64) *TextbookStore {
	if prefix == "" {
		prefix = "textbooks/"
	}
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &TextbookStore{reader: reader, prefix: prefix, maxBytes: maxBytes}
}

// Fetch loads the textbook page named by ref. ref may be a Firebase Storage
// download URL, a gs:// URL or a bare file name; only its base name is used.
func (s *TextbookStore) Fetch(ctx context.Context, ref string) (*Object, error) {
	name, err := TextbookName(ref)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid image URL.", err.Error())
	}

	objectPath := s.prefix + name
	obj, err := s.reader.Read(ctx, objectPath)
	if err != nil {
		if stderrors.Is(err, gcs.ErrObjectNotExist) {
			return nil, errors.NewNotFoundError("Textbook page", name)
		}
		return nil, errors.NewObjectFetchError(objectPath, err)
	}

	if obj.ContentType == "" || obj.ContentType == "application/octet-stream" {
		obj.ContentType = contentTypeFor(name)
	}
	return obj, nil
}

// TextbookName extracts the object base name from a storage reference.
// Firebase download URLs escape the object path into one segment
// (".../o/textbooks%2Fpage.png?alt=media"), so the path is unescaped first.
func TextbookName(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("empty reference")
	}

	p := ref
	if u, err := url.Parse(ref); err == nil && u.Scheme != "" {
		p = u.Path
	} else if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}

	if unescaped, err := url.PathUnescape(p); err == nil {
		p = unescaped
	}

	name := path.Base(p)
	if name == "." || name == "/" || name == "" || name == ".." {
		return "", fmt.Errorf("no file name in %q", ref)
	}
	return name, nil
}

func contentTypeFor(name string) string {
	if t := mime.TypeByExtension(strings.ToLower(path.Ext(name))); t != "" {
		return t
	}
	return "image/jpeg"
}

// bucketReader reads objects from a Cloud Storage bucket.
type bucketReader struct {
	bucket   *gcs.BucketHandle
	maxBytes int64
}

func (b *bucketReader) Read(ctx context.Context, objectPath string) (*Object, error) {
	r, err := b.bucket.Object(objectPath).NewReader(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	var src io.Reader = r
	if b.maxBytes > 0 {
		src = io.LimitReader(r, b.maxBytes+1)
	}
	data, err := io.ReadAll(src)
	if err != nil {
		return nil, err
	}
	if b.maxBytes > 0 && int64(len(data)) > b.maxBytes {
		return nil, fmt.Errorf("object %s exceeds %d bytes", objectPath, b.maxBytes)
	}

	return &Object{
		Name:        path.Base(objectPath),
		ContentType: r.Attrs.ContentType,
		Data:        data,
	}, nil
}

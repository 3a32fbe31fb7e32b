package media

import (
	"bytes"
	"io"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// FileInput - загружаемый файл независимо от источника (multipart, байты, сиды)
type FileInput struct {
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

func FromMultipart(fh *multipart.FileHeader) FileInput {
	return FileInput{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}
}

func FromBytes(name, contentType string, data []byte) FileInput {
	return FileInput{
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileName строит имя "{02-jan-2006}-{unix}-{original}" в нижнем регистре.
// От исходного имени остаётся только базовое имя из [a-z0-9._-].
func FileName(original string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(original, "\\", "/"))
	base = strings.ToLower(strings.ReplaceAll(base, " ", "-"))

	var b strings.Builder
	for _, r := range base {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			b.WriteRune(r)
		}
	}
	clean := strings.TrimLeft(b.String(), ".")
	if clean == "" {
		clean = "file"
	}

	return strings.ToLower(now.Format("02-Jan-2006")) + "-" + strconv.FormatInt(now.Unix(), 10) + "-" + clean
}

// StoragePath - "{collection}/{owner_id}/{filename}"
func StoragePath(collection, ownerID, fileName string) string {
	if collection == "" {
		collection = DefaultCollection
	}
	return collection + "/" + ownerID + "/" + fileName
}

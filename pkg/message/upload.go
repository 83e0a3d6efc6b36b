package message

import (
	"errors"
	"io"
	"mime/multipart"
	"os"
)

// UploadError describes the outcome of a single file upload.
type UploadError int

const (
	UploadErrOK      UploadError = 0 // upload completed
	UploadErrSize    UploadError = 1 // file exceeds the configured size limit
	UploadErrPartial UploadError = 3 // file was only partially received
	UploadErrNoFile  UploadError = 4 // field present but no file was sent
)

// String returns a short description of the upload outcome.
func (e UploadError) String() string {
	switch e {
	case UploadErrOK:
		return "ok"
	case UploadErrSize:
		return "file too large"
	case UploadErrPartial:
		return "partial upload"
	case UploadErrNoFile:
		return "no file"
	default:
		return "unknown upload error"
	}
}

// UploadedFile is the metadata of one uploaded file.
type UploadedFile struct {
	Name    string      `json:"name"`     // client-supplied file name
	Type    string      `json:"type"`     // client-supplied media type
	Size    int64       `json:"size"`     // size in bytes
	TmpName string      `json:"tmp_name"` // temporary storage path, when the host provides one
	Error   UploadError `json:"error"`

	header *multipart.FileHeader
}

// ErrNoUploadStorage is returned by Open when the file has neither a
// multipart handle nor a temporary path.
var ErrNoUploadStorage = errors.New("uploaded file has no storage handle")

// Open returns a reader for the file contents. The caller must close it.
func (f UploadedFile) Open() (io.ReadCloser, error) {
	if f.Error != UploadErrOK {
		return nil, errors.New("cannot open upload: " + f.Error.String())
	}
	if f.header != nil {
		return f.header.Open()
	}
	if f.TmpName != "" {
		return os.Open(f.TmpName)
	}
	return nil, ErrNoUploadStorage
}

func uploadFromHeader(fh *multipart.FileHeader, maxSize int64) UploadedFile {
	f := UploadedFile{
		Name:   fh.Filename,
		Type:   fh.Header.Get("Content-Type"),
		Size:   fh.Size,
		header: fh,
	}
	switch {
	case fh.Filename == "" && fh.Size == 0:
		f.Error = UploadErrNoFile
	case maxSize > 0 && fh.Size > maxSize:
		f.Error = UploadErrSize
	}
	return f
}

package object

import (
	"context"
	"errors"
	"io"
	"path"

	"loanfile-backend/internal/shared/util"
)

// ErrAlreadyExists is returned by Put when an object already occupies the key.
// Stores never overwrite silently.
var ErrAlreadyExists = errors.New("object already exists")

// Store defines the contract for a single durable bucket of binary objects.
type Store interface {
	// Put writes the reader to key and returns a publicly resolvable URL.
	// It fails with ErrAlreadyExists rather than replacing an existing object.
	Put(ctx context.Context, key string, contentType string, r io.Reader) (url string, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Unassigned is the path segment used when an upload has no condition scope.
const Unassigned = "unassigned"

// PrimaryKey builds the documents-bucket key for a stored asset.
func PrimaryKey(loanID, conditionID, fileName string) string {
	scope := conditionID
	if scope == "" {
		scope = Unassigned
	}
	return path.Join(loanID, scope, fileName)
}

// ThumbnailKey mirrors a primary key with a thumb_ prefix and a .jpg
// extension, since thumbnails are always encoded as JPEG.
func ThumbnailKey(primaryKey string) string {
	dir, file := path.Split(primaryKey)
	return dir + "thumb_" + util.ReplaceExt(file, ".jpg")
}

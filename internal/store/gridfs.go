package store

import (
	"context"
	"errors"
	"io"

	"minilibrary/internal/book"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GridFS implements book.BlobStore on a GridFS bucket. File references are
// the hex form of the bucket-assigned ObjectID; the content type travels in
// the file metadata.
type GridFS struct {
	bucket *gridfs.Bucket
}

func NewGridFS(c *Client) *GridFS {
	return &GridFS{bucket: c.Bucket()}
}

// Put streams r into the bucket and returns the assigned reference once the
// bucket has acknowledged the write. The gridfs API is deadline-based, so a
// context deadline is forwarded to the bucket.
func (g *GridFS) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetWriteDeadline(deadline); err != nil {
			return "", err
		}
	}
	id, err := g.bucket.UploadFromStream(name, r,
		options.GridFSUpload().SetMetadata(bson.D{{Key: "contentType", Value: contentType}}))
	if err != nil {
		return "", err
	}
	return id.Hex(), nil
}

// Open returns a download stream for ref. book.ErrBlobNotFound covers both a
// malformed reference and an absent file so callers can branch on one error;
// the HTTP layer distinguishes malformed ids before calling in.
func (g *GridFS) Open(ctx context.Context, ref string) (*book.Blob, error) {
	oid, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return nil, book.ErrBlobNotFound
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
	}
	ds, err := g.bucket.OpenDownloadStream(oid)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, book.ErrBlobNotFound
		}
		return nil, err
	}

	file := ds.GetFile()
	blob := &book.Blob{
		ReadCloser:  ds,
		Name:        file.Name,
		ContentType: "application/octet-stream",
		Size:        file.Length,
	}
	if len(file.Metadata) > 0 {
		if v, err := file.Metadata.LookupErr("contentType"); err == nil {
			if ct, ok := v.StringValueOK(); ok {
				blob.ContentType = ct
			}
		}
	}
	return blob, nil
}

// Remove deletes a stored file. Unused by the request path today; deletes do
// not cascade to blobs.
func (g *GridFS) Remove(ctx context.Context, ref string) error {
	oid, err := primitive.ObjectIDFromHex(ref)
	if err != nil {
		return book.ErrBlobNotFound
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := g.bucket.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}
	if err := g.bucket.Delete(oid); err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return book.ErrBlobNotFound
		}
		return err
	}
	return nil
}

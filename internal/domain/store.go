package domain

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
)

// MaxInValues is the largest ID list a single GetIn call accepts.
const MaxInValues = 30

// ErrTooManyIDs is returned by GetIn when more than MaxInValues ids are given.
var ErrTooManyIDs = errors.New("too many ids in one query")

// Store is the document store behind the handlers. Documents are addressed by
// (collection, id) and exchanged as BSON; the id is the document's _id.
type Store interface {
	// Get returns the document or ErrNotFound.
	Get(ctx context.Context, collection, id string) (bson.Raw, error)

	// Set writes doc under id, replacing any existing document.
	Set(ctx context.Context, collection, id string, doc any) error

	// Delete removes the document. Deleting a missing document is not an error.
	Delete(ctx context.Context, collection, id string) error

	// ListIDs enumerates every document ID in the collection.
	ListIDs(ctx context.Context, collection string) ([]string, error)

	// GetIn returns the documents whose IDs are in ids. Missing IDs are left
	// out of the result. At most MaxInValues ids may be given.
	GetIn(ctx context.Context, collection string, ids []string) ([]bson.Raw, error)
}

// DocumentID extracts _id from a raw document.
func DocumentID(raw bson.Raw) (string, bool) {
	v, err := raw.LookupErr("_id")
	if err != nil {
		return "", false
	}
	return v.StringValueOK()
}

// EncodeDocument marshals doc to BSON. A bson.Raw is returned unchanged.
func EncodeDocument(doc any) (bson.Raw, error) {
	if raw, ok := doc.(bson.Raw); ok {
		return raw, nil
	}
	data, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal document: %w", err)
	}
	return bson.Raw(data), nil
}

// CheckInValues returns ErrTooManyIDs when ids exceeds the GetIn cap.
func CheckInValues(ids []string) error {
	if len(ids) > MaxInValues {
		return fmt.Errorf("%w: %d > %d", ErrTooManyIDs, len(ids), MaxInValues)
	}
	return nil
}

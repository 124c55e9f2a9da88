package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jonathan/interview-feedback/internal/snapshot"
)

// Save stores snap on the backend.
func (c *Client) Save(ctx context.Context, snap *snapshot.Snapshot) (*snapshot.Snapshot, error) {
	var out snapshot.Snapshot
	if err := c.doJSON(ctx, "save snapshot", http.MethodPost, "/snapshots", nil, snap, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Latest returns the current snapshot of a file.
func (c *Client) Latest(ctx context.Context, fileID, userID string) (*snapshot.Snapshot, error) {
	var out snapshot.Snapshot
	q := url.Values{"file_id": {fileID}, "user_id": {userID}}
	if err := c.doJSON(ctx, "load snapshot", http.MethodGet, "/snapshots/latest", q, nil, &out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// Get returns one snapshot by id.
func (c *Client) Get(ctx context.Context, id string) (*snapshot.Snapshot, error) {
	var out snapshot.Snapshot
	if err := c.doJSON(ctx, "load snapshot", http.MethodGet, "/snapshots/"+url.PathEscape(id), nil, nil, &out); err != nil {
		return nil, notFound(err)
	}
	return &out, nil
}

// History lists a file's snapshots, newest first.
func (c *Client) History(ctx context.Context, fileID, userID string) ([]snapshot.Summary, error) {
	var resp struct {
		Snapshots []snapshot.Summary `json:"snapshots"`
	}
	q := url.Values{"file_id": {fileID}, "user_id": {userID}}
	if err := c.doJSON(ctx, "load snapshot history", http.MethodGet, "/snapshots", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Snapshots, nil
}

// SetCurrent marks a snapshot as its file's current one.
func (c *Client) SetCurrent(ctx context.Context, id string) error {
	err := c.doJSON(ctx, "restore snapshot", http.MethodPut, "/snapshots/"+url.PathEscape(id)+"/current", nil, nil, nil)
	return notFound(err)
}

// Delete removes a snapshot.
func (c *Client) Delete(ctx context.Context, id string) error {
	err := c.doJSON(ctx, "delete snapshot", http.MethodDelete, "/snapshots/"+url.PathEscape(id), nil, nil, nil)
	return notFound(err)
}

// notFound maps a backend 404 onto snapshot.ErrNotFound, keeping the
// original error in the chain.
func notFound(err error) error {
	if IsNotFound(err) {
		return &notFoundError{cause: err}
	}
	return err
}

type notFoundError struct {
	cause error
}

func (e *notFoundError) Error() string { return e.cause.Error() }

func (e *notFoundError) Is(target error) bool { return target == snapshot.ErrNotFound }

func (e *notFoundError) Unwrap() error { return e.cause }

var _ snapshot.Store = (*Client)(nil)

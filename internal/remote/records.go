package remote

import (
	"context"
	"net/http"
	"net/url"
)

// Row API access. Rows are addressed by table name and primary-key equality;
// single-object requests return ErrNoRows when nothing matches.

const singleObject = "application/vnd.pgrst.object+json"

// SelectByID fetches the row with the given id into dest.
func (c *Client) SelectByID(ctx context.Context, table, id string, dest interface{}) error {
	path := "/rest/v1/" + url.PathEscape(table) + "?id=eq." + url.QueryEscape(id) + "&select=*"
	headers := map[string]string{"Accept": singleObject}
	return c.do(ctx, http.MethodGet, path, headers, nil, dest)
}

// UpsertRow inserts row, merging on primary-key conflict so a duplicate keyed
// insert lands as an update instead of an error. The stored row is decoded
// into dest when non-nil.
func (c *Client) UpsertRow(ctx context.Context, table string, row, dest interface{}) error {
	path := "/rest/v1/" + url.PathEscape(table)
	headers := map[string]string{
		"Accept": singleObject,
		"Prefer": "return=representation,resolution=merge-duplicates",
	}
	return c.do(ctx, http.MethodPost, path, headers, row, dest)
}

// UpdateByID patches the row with the given id and decodes the updated row
// into dest when non-nil.
func (c *Client) UpdateByID(ctx context.Context, table, id string, patch, dest interface{}) error {
	path := "/rest/v1/" + url.PathEscape(table) + "?id=eq." + url.QueryEscape(id)
	headers := map[string]string{
		"Accept": singleObject,
		"Prefer": "return=representation",
	}
	return c.do(ctx, http.MethodPatch, path, headers, patch, dest)
}

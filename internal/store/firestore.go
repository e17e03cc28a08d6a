package store

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"google.golang.org/api/option"
)

// Client is the Firestore-backed Store implementation.
type Client struct {
	fs *firestore.Client
}

// NewClient connects to Firestore using a service-account credentials file.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*Client, error) {
	return newClient(ctx, projectID, option.WithCredentialsFile(credentialsFile))
}

// NewClientFromBase64 connects using base64-encoded credentials. This is
// useful for cloud deployments (Railway, Fly.io, Render) where you can't
// upload files easily.
func NewClientFromBase64(ctx context.Context, projectID, credentialsBase64 string) (*Client, error) {
	credentialsJSON, err := base64.StdEncoding.DecodeString(credentialsBase64)
	if err != nil {
		return nil, fmt.Errorf("error decoding base64 credentials: %w", err)
	}
	return newClient(ctx, projectID, option.WithCredentialsJSON(credentialsJSON))
}

func newClient(ctx context.Context, projectID string, opt option.ClientOption) (*Client, error) {
	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting Firestore client: %w", err)
	}

	return &Client{fs: fs}, nil
}

// Close releases the underlying Firestore connection.
func (c *Client) Close() error {
	return c.fs.Close()
}

func (c *Client) Get(ctx context.Context, collection, id string) (Document, error) {
	snap, err := c.fs.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		return Document{}, fmt.Errorf("get %s/%s: %w", collection, id, mapError(err))
	}
	return Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (c *Client) Add(ctx context.Context, collection string, data interface{}) (string, error) {
	m, err := toMap(data)
	if err != nil {
		return "", err
	}
	ref, _, err := c.fs.Collection(collection).Add(ctx, m)
	if err != nil {
		return "", fmt.Errorf("add to %s: %w", collection, mapError(err))
	}
	return ref.ID, nil
}

func (c *Client) Set(ctx context.Context, collection, id string, data interface{}) error {
	m, err := toMap(data)
	if err != nil {
		return err
	}
	if _, err := c.fs.Collection(collection).Doc(id).Set(ctx, m); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, mapError(err))
	}
	return nil
}

func (c *Client) Update(ctx context.Context, collection, id string, updates map[string]interface{}) error {
	// Values pass through the same JSON normalization as whole-document
	// writes so updated fields keep the documents' key and type shape.
	fields := make([]firestore.Update, 0, len(updates))
	for k, v := range updates {
		normalized, err := toValue(v)
		if err != nil {
			return err
		}
		fields = append(fields, firestore.Update{Path: k, Value: normalized})
	}
	if _, err := c.fs.Collection(collection).Doc(id).Update(ctx, fields); err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, mapError(err))
	}
	return nil
}

func (c *Client) Query(ctx context.Context, collection string, spec QuerySpec) ([]Document, error) {
	q := c.fs.Collection(collection).Query
	for _, f := range spec.Filters {
		q = q.Where(f.Field, f.Op, f.Value)
	}
	if spec.OrderBy != "" {
		dir := firestore.Asc
		if spec.Desc {
			dir = firestore.Desc
		}
		q = q.OrderBy(spec.OrderBy, dir)
	}
	if spec.Limit > 0 {
		q = q.Limit(spec.Limit)
	}

	snaps, err := q.Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, mapError(err))
	}

	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

func (c *Client) GetAll(ctx context.Context, collection string, ids []string) ([]Document, error) {
	refs := make([]*firestore.DocumentRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, c.fs.Collection(collection).Doc(id))
	}

	snaps, err := c.fs.GetAll(ctx, refs)
	if err != nil {
		return nil, fmt.Errorf("get all from %s: %w", collection, mapError(err))
	}

	docs := make([]Document, 0, len(snaps))
	for _, snap := range snaps {
		if !snap.Exists() {
			continue
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return docs, nil
}

// BatchAdd writes every document inside one transaction so a single bad
// record persists nothing.
func (c *Client) BatchAdd(ctx context.Context, collection string, docs []interface{}) error {
	maps := make([]map[string]interface{}, 0, len(docs))
	for _, d := range docs {
		m, err := toMap(d)
		if err != nil {
			return err
		}
		maps = append(maps, m)
	}

	err := c.fs.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		for _, m := range maps {
			if err := tx.Create(c.fs.Collection(collection).NewDoc(), m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("batch add to %s: %w", collection, mapError(err))
	}
	return nil
}

// Ping writes a probe document to the test collection. Used by the
// connection-test endpoint and at startup.
func (c *Client) Ping(ctx context.Context) error {
	probe := map[string]interface{}{
		"timestamp": time.Now(),
		"message":   "Connection test successful",
	}
	if _, err := c.fs.Collection(CollectionTest).Doc("connection-test").Set(ctx, probe); err != nil {
		log.Printf("❌ Firestore connection test failed: %v", err)
		return fmt.Errorf("connection test: %w", mapError(err))
	}
	return nil
}

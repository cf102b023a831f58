package graph

import (
	"context"
	"errors"
)

// Client defines the minimal contract the repositories require from the
// underlying graph database: single parameterized queries plus a
// transaction-scoped variant that commits or rolls back a group of
// statements atomically.
type Client interface {
	ExecuteWrite(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteRead(ctx context.Context, cypher string, params map[string]any) (Result, error)
	ExecuteWriteTx(ctx context.Context, work func(ctx context.Context, tx Tx) error) error
	VerifyConnectivity(ctx context.Context) error
	Close(ctx context.Context) error
}

// Tx runs statements inside a single write transaction. Returning an error
// from the work function passed to ExecuteWriteTx rolls every statement back.
type Tx interface {
	Run(ctx context.Context, cypher string, params map[string]any) (Result, error)
}

// Result is a simplified representation of a query response.
type Result struct {
	Records []Record
}

// Record groups key-value pairs returned from the graph engine.
type Record map[string]any

// Options configures a graph client implementation.
type Options struct {
	URI            string
	Database       string
	Username       string
	Password       string
	MaxConnections int
}

// ErrMissingURI indicates the graph URI is not provided.
var ErrMissingURI = errors.New("graph URI is required")

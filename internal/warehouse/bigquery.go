// Berry Analytics - Product analytics API over the Firebase BigQuery export
// Copyright 2026 Berry Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/berrylabs/berry-analytics

package warehouse

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"github.com/goccy/go-json"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// Credentials identifies the warehouse project and the service account used
// to query it. PrivateKey must contain real newlines (config.Load unescapes
// the env-var form).
type Credentials struct {
	ProjectID   string
	ClientEmail string
	PrivateKey  string
}

// BigQueryClient implements Client on top of cloud.google.com/go/bigquery.
// It is constructed once in main and injected everywhere it is needed;
// nothing in this codebase holds it as package-level state.
type BigQueryClient struct {
	client *bigquery.Client
}

// NewBigQueryClient builds a BigQuery-backed warehouse client from
// service-account credentials.
func NewBigQueryClient(ctx context.Context, creds Credentials) (*BigQueryClient, error) {
	keyJSON, err := serviceAccountJSON(creds)
	if err != nil {
		return nil, fmt.Errorf("failed to assemble service account key: %w", err)
	}

	client, err := bigquery.NewClient(ctx, creds.ProjectID, option.WithCredentialsJSON(keyJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to create BigQuery client: %w", err)
	}

	return &BigQueryClient{client: client}, nil
}

// serviceAccountJSON assembles the minimal service-account key document the
// Google auth stack accepts from the individually supplied email and key.
func serviceAccountJSON(creds Credentials) ([]byte, error) {
	return json.Marshal(map[string]string{
		"type":         "service_account",
		"project_id":   creds.ProjectID,
		"client_email": creds.ClientEmail,
		"private_key":  creds.PrivateKey,
		"token_uri":    "https://oauth2.googleapis.com/token",
	})
}

// Query executes one parameterized statement and drains the full result set.
func (c *BigQueryClient) Query(ctx context.Context, q Query) ([]Row, error) {
	job := c.client.Query(q.SQL)
	if len(q.Parameters) > 0 {
		params := make([]bigquery.QueryParameter, 0, len(q.Parameters))
		for _, p := range q.Parameters {
			params = append(params, bigquery.QueryParameter{Name: p.Name, Value: p.Value})
		}
		job.Parameters = params
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, err
	}

	rows := make([]Row, 0)
	for {
		var values map[string]bigquery.Value
		err := it.Next(&values)
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}

		row := make(Row, len(values))
		for col, v := range values {
			row[col] = normalizeValue(v)
		}
		rows = append(rows, row)
	}

	return rows, nil
}

// Close releases the underlying client.
func (c *BigQueryClient) Close() error {
	return c.client.Close()
}

// normalizeValue collapses BigQuery's value types down to the scalar set the
// engine understands: int64, float64, string, nil. DATE columns arrive as
// civil.Date, NUMERIC as *big.Rat.
func normalizeValue(v bigquery.Value) interface{} {
	switch val := v.(type) {
	case civil.Date:
		return val.String()
	case *big.Rat:
		f, _ := val.Float64()
		return f
	default:
		return val
	}
}

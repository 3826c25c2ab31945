package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"
	"go.uber.org/zap"

	"recruitpath/athlete-portal/athlete-portal-backend/internal/accounts"
)

// Indexer mirrors public athlete profiles into Elasticsearch so recruiters
// can search the directory. It satisfies accounts.ProfileIndexer.
type Indexer struct {
	client *elasticsearch.Client
	index  string
	logger *zap.Logger
}

// NewIndexer creates an Elasticsearch-backed profile indexer.
func NewIndexer(client *elasticsearch.Client, index string, logger *zap.Logger) *Indexer {
	return &Indexer{client: client, index: index, logger: logger}
}

// IndexProfile upserts the profile document keyed by account id.
func (i *Indexer) IndexProfile(ctx context.Context, profile *accounts.PublicProfile) error {
	body, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile document: %w", err)
	}

	res, err := i.client.Index(
		i.index,
		bytes.NewReader(body),
		i.client.Index.WithDocumentID(profile.ID.String()),
		i.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("failed to index profile: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("failed to index profile: %s", res.String())
	}

	i.logger.Debug("profile indexed", zap.String("account_id", profile.ID.String()))
	return nil
}

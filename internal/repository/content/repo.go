// Package content persists ContentItems and their embeddings per user. It
// owns both sides of the embedding persistence boundary: vectors are written
// at capture time and looked up in bulk at search time.
package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/synapse-kb/synapse/internal/db"
	"github.com/synapse-kb/synapse/internal/domain"
	"github.com/synapse-kb/synapse/internal/repository/embcache"
)

// Store is the consumer storage interface for the content repository.
type Store interface {
	db.KVStore
	db.SetStore
}

// Repo stores content items as JSON values and embeddings as packed float32
// bytes, with a per-user set index for listing.
type Repo struct {
	store Store
}

// New creates a content repository.
func New(store Store) *Repo {
	return &Repo{store: store}
}

func itemKey(userID, id string) string {
	return fmt.Sprintf("%scontent:%s:%s", domain.KeyPrefix, userID, id)
}

func indexKey(userID string) string {
	return fmt.Sprintf("%scontent_ids:%s", domain.KeyPrefix, userID)
}

func vectorKey(userID, id string) string {
	return fmt.Sprintf("%svec:%s:%s", domain.KeyPrefix, userID, id)
}

// Create persists a new content item and adds it to the user's index.
func (r *Repo) Create(ctx context.Context, userID string, item domain.ContentItem) error {
	data, err := json.Marshal(toDTO(item))
	if err != nil {
		return fmt.Errorf("marshal content item: %w", err)
	}
	if err := r.store.Set(ctx, itemKey(userID, item.ID()), data); err != nil {
		return fmt.Errorf("store content item: %w", err)
	}
	if err := r.store.SAdd(ctx, indexKey(userID), item.ID()); err != nil {
		return fmt.Errorf("index content item: %w", err)
	}
	return nil
}

// Get retrieves one content item.
func (r *Repo) Get(ctx context.Context, userID, id string) (domain.ContentItem, error) {
	data, err := r.store.Get(ctx, itemKey(userID, id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domain.ContentItem{}, domain.ErrNotFound
		}
		return domain.ContentItem{}, fmt.Errorf("get content item: %w", err)
	}

	var dto itemDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domain.ContentItem{}, fmt.Errorf("unmarshal content item %s: %w", id, err)
	}
	return fromDTO(dto), nil
}

// List returns all of a user's content items. Items whose stored form no
// longer parses are skipped, not fatal.
func (r *Repo) List(ctx context.Context, userID string) ([]domain.ContentItem, error) {
	ids, err := r.store.SMembers(ctx, indexKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list content ids: %w", err)
	}

	items := make([]domain.ContentItem, 0, len(ids))
	for _, id := range ids {
		item, err := r.Get(ctx, userID, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue // index can briefly outlive a deleted item
			}
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Delete removes a content item, its index entry, and its embedding.
func (r *Repo) Delete(ctx context.Context, userID, id string) error {
	if _, err := r.Get(ctx, userID, id); err != nil {
		return err
	}
	if err := r.store.Del(ctx, itemKey(userID, id), vectorKey(userID, id)); err != nil {
		return fmt.Errorf("delete content item: %w", err)
	}
	if err := r.store.SRem(ctx, indexKey(userID), id); err != nil {
		return fmt.Errorf("unindex content item: %w", err)
	}
	return nil
}

// SaveEmbedding persists a content item's embedding vector.
func (r *Repo) SaveEmbedding(ctx context.Context, userID, id string, vec []float32) error {
	if err := r.store.Set(ctx, vectorKey(userID, id), embcache.VectorToBytes(vec)); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}
	return nil
}

// GetEmbedding returns a content item's embedding, or nil when none is stored.
func (r *Repo) GetEmbedding(ctx context.Context, userID, id string) ([]float32, error) {
	data, err := r.store.Get(ctx, vectorKey(userID, id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get embedding: %w", err)
	}
	vec, err := embcache.BytesToVector(data)
	if err != nil {
		return nil, fmt.Errorf("decode embedding %s: %w", id, err)
	}
	return vec, nil
}

// GetEmbeddings bulk-loads embeddings for the given items. Items with no
// stored vector are simply absent from the map; they stay eligible for
// ranking with zero similarity.
func (r *Repo) GetEmbeddings(ctx context.Context, userID string, ids []string) (map[string][]float32, error) {
	out := make(map[string][]float32, len(ids))
	for _, id := range ids {
		vec, err := r.GetEmbedding(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		if vec != nil {
			out[id] = vec
		}
	}
	return out, nil
}

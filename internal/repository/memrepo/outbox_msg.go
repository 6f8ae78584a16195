package memrepo

import (
	"context"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/graphql-crm/internal/repository"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
)

var _ repository.OutboxMsgRepository = (*OutboxMsgRepository)(nil)

type OutboxMsgRepository struct {
	store *Store
}

func NewOutboxMsgRepository(store *Store) *OutboxMsgRepository {
	return &OutboxMsgRepository{store: store}
}

func (r *OutboxMsgRepository) WithDB(db.DB) repository.OutboxMsgRepository {
	return r
}

func (r *OutboxMsgRepository) CreateOutboxMsg(_ context.Context, params repository.CreateOutboxMsgParams) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate uuid v7: %w", err)
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.outbox = append(r.store.outbox, OutboxMsg{
		ID:           id,
		Topic:        params.Topic,
		Headers:      maps.Clone(params.Headers),
		Payload:      params.Payload,
		PartitionKey: params.PartitionKey,
	})
	return nil
}

func (r *OutboxMsgRepository) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var results []repository.ListUnprocessedOutboxMsgsResult
	for _, msg := range r.store.outbox {
		if len(results) == int(params.BatchSize) {
			break
		}
		if msg.Processed {
			continue
		}
		results = append(results, repository.ListUnprocessedOutboxMsgsResult{
			ID:           msg.ID,
			Topic:        msg.Topic,
			Headers:      maps.Clone(msg.Headers),
			Payload:      msg.Payload,
			PartitionKey: msg.PartitionKey,
		})
	}
	return results, nil
}

func (r *OutboxMsgRepository) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, item := range params.Items {
		for i := range r.store.outbox {
			if r.store.outbox[i].ID == item.ID {
				r.store.outbox[i].Processed = true
				r.store.outbox[i].Error = item.Error
			}
		}
	}
	return nil
}

// Package memrepo implements the repositories over process memory for tests.
// Transactions snapshot the whole store and restore it on failure, which
// gives nested transactions savepoint semantics.
package memrepo

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/tuanvumaihuynh/graphql-crm/internal/model"
	"github.com/tuanvumaihuynh/graphql-crm/internal/storage/db"
)

type OutboxMsg struct {
	ID           uuid.UUID
	Topic        string
	Headers      map[string]string
	Payload      json.RawMessage
	PartitionKey *string
	Processed    bool
	Error        *string
}

type storedOrder struct {
	model.Order
	productIDs []uuid.UUID
}

type Store struct {
	mu        sync.Mutex
	customers []model.Customer
	products  []model.Product
	orders    []storedOrder
	outbox    []OutboxMsg
}

func NewStore() *Store {
	return &Store{}
}

type snapshot struct {
	customers []model.Customer
	products  []model.Product
	orders    []storedOrder
	outbox    []OutboxMsg
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{
		customers: slices.Clone(s.customers),
		products:  slices.Clone(s.products),
		orders:    slices.Clone(s.orders),
		outbox:    slices.Clone(s.outbox),
	}
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customers = snap.customers
	s.products = snap.products
	s.orders = snap.orders
	s.outbox = snap.outbox
}

// Customers returns the stored customers in insertion order.
func (s *Store) Customers() []model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.customers)
}

// Products returns the stored products in insertion order.
func (s *Store) Products() []model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// OutboxMsgs returns the stored outbox messages in insertion order.
func (s *Store) OutboxMsgs() []OutboxMsg {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.outbox)
}

// DB satisfies db.DB for code that only opens transactions. Query methods
// are not implemented and panic.
type DB struct {
	db.DB
	store *Store
}

func NewDB(store *Store) *DB {
	return &DB{store: store}
}

func (d *DB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	snap := d.store.snapshot()
	if err := txFunc(d); err != nil {
		d.store.restore(snap)
		return err
	}
	return nil
}

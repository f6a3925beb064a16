package assetstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/wayfarelabs/travel-planner-api/internal/ports/out/assetstore"
)

// Store is an in-memory implementation of assetstore.Store. It backs local
// development and doubles as the recording fake the orchestrator tests use:
// every upload, delete and namespace delete is kept for assertions, and any
// operation can be forced to fail.
type Store struct {
	mu sync.Mutex

	// objects maps provider ID to stored bytes.
	objects map[string][]byte
	// nsByID maps provider ID to the namespace it was uploaded under.
	nsByID map[string]string

	uploads           []string // namespaces, in call order
	deletes           []string // refs, in call order
	namespacesDeleted []string

	FailUploads          bool
	FailDeletes          bool
	FailNamespaceDeletes bool
}

func NewStore() *Store {
	return &Store{
		objects: make(map[string][]byte),
		nsByID:  make(map[string]string),
	}
}

func (s *Store) Upload(ctx context.Context, data []byte, namespace string) (assetstore.Asset, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.uploads = append(s.uploads, namespace)
	if s.FailUploads {
		return assetstore.Asset{}, errors.New("upload rejected")
	}

	id := namespace + "/" + uuid.NewString()
	s.objects[id] = append([]byte(nil), data...)
	s.nsByID[id] = namespace
	return assetstore.Asset{
		URL:        fmt.Sprintf("https://assets.local/%s", id),
		ProviderID: id,
	}, nil
}

func (s *Store) Delete(ctx context.Context, ref string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.deletes = append(s.deletes, ref)
	if s.FailDeletes {
		return errors.New("delete rejected")
	}

	id := strings.TrimPrefix(ref, "https://assets.local/")
	delete(s.objects, id)
	delete(s.nsByID, id)
	return nil
}

func (s *Store) DeleteNamespace(ctx context.Context, namespace string) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()

	s.namespacesDeleted = append(s.namespacesDeleted, namespace)
	if s.FailNamespaceDeletes {
		return errors.New("namespace delete rejected")
	}

	for id, ns := range s.nsByID {
		if ns == namespace {
			delete(s.objects, id)
			delete(s.nsByID, id)
		}
	}
	return nil
}

// ObjectCount reports how many objects the store currently holds.
func (s *Store) ObjectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// UploadCalls returns the namespaces passed to Upload, in call order.
func (s *Store) UploadCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.uploads...)
}

// DeleteCalls returns the refs passed to Delete, in call order.
func (s *Store) DeleteCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deletes...)
}

// NamespaceDeleteCalls returns the namespaces passed to DeleteNamespace.
func (s *Store) NamespaceDeleteCalls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.namespacesDeleted...)
}

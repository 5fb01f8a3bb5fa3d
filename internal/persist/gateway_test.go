package persist

import (
	"context"
	"fmt"
	"testing"

	"github.com/elio-bot/elio/pkg/models"
)

// fakeStore is an in-memory RecordStore.
type fakeStore struct {
	rows       map[string]*models.ContentRecord
	existsErr  error
	insertErr  error
	conflict   bool // simulate losing the unique-constraint race
	insertions int
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]*models.ContentRecord)}
}

func (f *fakeStore) Exists(ctx context.Context, url string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	_, ok := f.rows[url]
	return ok, nil
}

func (f *fakeStore) Insert(ctx context.Context, record *models.ContentRecord) (bool, error) {
	if f.insertErr != nil {
		return false, f.insertErr
	}
	if f.conflict {
		return false, nil
	}
	if _, ok := f.rows[record.URL]; ok {
		return false, nil
	}
	f.rows[record.URL] = record
	f.insertions++
	return true, nil
}

// fakeIndex is an in-memory SemanticIndex.
type fakeIndex struct {
	docs   map[string]string
	addErr error
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{docs: make(map[string]string)}
}

func (f *fakeIndex) Add(ctx context.Context, record *models.ContentRecord) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.docs[record.URL] = record.EmbedText()
	return nil
}

func validRecord(url string) *models.ContentRecord {
	return &models.ContentRecord{
		URL:       url,
		Summary:   "Overview of AI",
		MediaType: models.MediaLink,
		Metadata:  map[string]string{models.MetadataSource: "test"},
	}
}

func TestGateway_Persist_Indexed(t *testing.T) {
	store := newFakeStore()
	index := newFakeIndex()
	g := New(store, index, nil)

	status := g.Persist(t.Context(), validRecord("https://example.com/ai"))
	if status.Code != StatusIndexed {
		t.Fatalf("Persist() = %v, want StatusIndexed", status)
	}
	if store.insertions != 1 {
		t.Errorf("insertions = %d, want 1", store.insertions)
	}
	if index.docs["https://example.com/ai"] != "Overview of AI" {
		t.Errorf("index should hold the embed text, got %q", index.docs["https://example.com/ai"])
	}
}

func TestGateway_Persist_Idempotent(t *testing.T) {
	store := newFakeStore()
	index := newFakeIndex()
	g := New(store, index, nil)

	record := validRecord("https://example.com/ai")
	if status := g.Persist(t.Context(), record); status.Code != StatusIndexed {
		t.Fatalf("first Persist() = %v, want StatusIndexed", status)
	}

	indexWrites := len(index.docs)
	status := g.Persist(t.Context(), record)
	if status.Code != StatusAlreadyIndexed {
		t.Fatalf("second Persist() = %v, want StatusAlreadyIndexed", status)
	}
	if store.insertions != 1 {
		t.Errorf("relational store should hold exactly one row, insertions = %d", store.insertions)
	}
	if len(index.docs) != indexWrites {
		t.Error("duplicate capture must not write to the vector store either")
	}
}

func TestGateway_Persist_ValidationBlocksAllWrites(t *testing.T) {
	store := newFakeStore()
	index := newFakeIndex()
	g := New(store, index, nil)

	empty := &models.ContentRecord{URL: "https://example.com/empty", MediaType: models.MediaLink}
	status := g.Persist(t.Context(), empty)
	if status.Code != StatusInvalid {
		t.Fatalf("Persist() = %v, want StatusInvalid", status)
	}
	if status.Err == nil {
		t.Error("StatusInvalid should carry the validation error")
	}
	if store.insertions != 0 || len(index.docs) != 0 {
		t.Error("invalid record must touch neither store")
	}
}

func TestGateway_Persist_VectorFailureIsSwallowed(t *testing.T) {
	store := newFakeStore()
	index := newFakeIndex()
	index.addErr = fmt.Errorf("embedding service down")
	g := New(store, index, nil)

	status := g.Persist(t.Context(), validRecord("https://example.com/ai"))
	if status.Code != StatusIndexed {
		t.Fatalf("Persist() = %v, want StatusIndexed despite vector failure", status)
	}
	if store.insertions != 1 {
		t.Error("relational row must stand when the vector write fails")
	}
}

func TestGateway_Persist_RelationalFailure(t *testing.T) {
	store := newFakeStore()
	store.insertErr = fmt.Errorf("connection reset")
	index := newFakeIndex()
	g := New(store, index, nil)

	status := g.Persist(t.Context(), validRecord("https://example.com/ai"))
	if status.Code != StatusFailed {
		t.Fatalf("Persist() = %v, want StatusFailed", status)
	}
	if status.Err == nil {
		t.Error("StatusFailed should carry the cause")
	}
	if len(index.docs) != 0 {
		t.Error("vector store must not be written when the canonical write fails")
	}
}

func TestGateway_Persist_LostRaceReportsAlreadyIndexed(t *testing.T) {
	store := newFakeStore()
	index := newFakeIndex()
	g := New(store, index, nil)

	// Another writer sneaks the row in between the existence check and the
	// insert; the unique constraint turns that into a silent no-op insert.
	store.conflict = true

	status := g.Persist(t.Context(), validRecord("https://example.com/race"))
	if status.Code != StatusAlreadyIndexed {
		t.Fatalf("Persist() = %v, want StatusAlreadyIndexed", status)
	}
}

type fakeArchiver struct {
	stored []string
	err    error
}

func (f *fakeArchiver) Store(ctx context.Context, record *models.ContentRecord) error {
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, record.URL)
	return nil
}

func TestGateway_Persist_ArchiveIsBestEffort(t *testing.T) {
	store := newFakeStore()
	g := New(store, newFakeIndex(), &fakeArchiver{err: fmt.Errorf("bucket missing")})

	status := g.Persist(t.Context(), validRecord("https://example.com/ai"))
	if status.Code != StatusIndexed {
		t.Fatalf("Persist() = %v, want StatusIndexed despite archive failure", status)
	}
}

func TestStatus_String(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{Status{Code: StatusIndexed}, "indexed"},
		{Status{Code: StatusAlreadyIndexed}, "already indexed"},
		{Status{Code: StatusFailed, Err: fmt.Errorf("boom")}, "persistence failed: boom"},
	}
	for _, tt := range tests {
		if got := tt.status.String(); got != tt.want {
			t.Errorf("Status.String() = %q, want %q", got, tt.want)
		}
	}
}

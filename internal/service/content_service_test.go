package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/vidhi-1412/Realestate/internal/domain"
	"github.com/vidhi-1412/Realestate/internal/repository"
)

// failingSigner fails to sign the listed paths and delegates the rest.
type failingSigner struct {
	*repository.MemoryObjectStore
	fail map[string]bool
}

func (f *failingSigner) Sign(ctx context.Context, path string, ttl time.Duration) (string, error) {
	if f.fail[path] {
		return "", errors.New("signing backend unavailable")
	}
	return f.MemoryObjectStore.Sign(ctx, path, ttl)
}

// brokenStore fails reads or writes for selected collections.
type brokenStore struct {
	*repository.MemoryRecordStore
	failGet map[string]bool
	failSet map[string]bool
}

func (b *brokenStore) Get(ctx context.Context, collection string) ([]json.RawMessage, error) {
	if b.failGet[collection] {
		return nil, errors.New("connection refused")
	}
	return b.MemoryRecordStore.Get(ctx, collection)
}

func (b *brokenStore) Set(ctx context.Context, collection string, records []json.RawMessage) error {
	if b.failSet[collection] {
		return errors.New("disk full")
	}
	return b.MemoryRecordStore.Set(ctx, collection, records)
}

func newTestService(t *testing.T, serialize bool) (ContentService, *repository.MemoryRecordStore, *repository.MemoryObjectStore) {
	t.Helper()
	records := repository.NewMemoryRecordStore()
	objects := repository.NewMemoryObjectStore("images")
	svc := NewContentService(records, objects, Options{SerializeWrites: serialize}, zap.NewNop())
	return svc, records, objects
}

// storeImage uploads a placeholder object and returns its storage path.
func storeImage(t *testing.T, objects *repository.MemoryObjectStore, name string) string {
	t.Helper()
	path, err := objects.Put(context.Background(), name, []byte("jpeg"), "image/jpeg")
	require.NoError(t, err)
	return path
}

func TestAddProjectThenList(t *testing.T) {
	ctx := context.Background()
	svc, _, objects := newTestService(t, true)
	p1 := storeImage(t, objects, "p1")

	created, err := svc.AddProject(ctx, domain.ProjectInput{Name: "A", Description: "d", ImagePath: p1})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Empty(t, created.ImageURL, "append never returns a URL")

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)

	p := projects[0]
	assert.Equal(t, created.ID, p.ID)
	assert.Equal(t, "A", p.Name)
	assert.Equal(t, "d", p.Description)
	assert.Equal(t, p1, p.ImagePath)
	assert.True(t, strings.HasPrefix(p.ImageURL, "memory://images/"+p1+"?expires="), p.ImageURL)
}

func TestListOmitsURLForMissingObject(t *testing.T) {
	ctx := context.Background()
	svc, _, objects := newTestService(t, true)
	stored := storeImage(t, objects, "kept.jpg")

	_, err := svc.AddProject(ctx, domain.ProjectInput{Name: "dangling", ImagePath: "never-uploaded.jpg"})
	require.NoError(t, err)
	_, err = svc.AddProject(ctx, domain.ProjectInput{Name: "stored", ImagePath: stored})
	require.NoError(t, err)

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 2)
	assert.Equal(t, "never-uploaded.jpg", projects[0].ImagePath)
	assert.Empty(t, projects[0].ImageURL)
	assert.Contains(t, projects[1].ImageURL, stored)
}

func TestListNeverPersistsURLs(t *testing.T) {
	ctx := context.Background()
	svc, records, objects := newTestService(t, true)

	_, err := svc.AddClient(ctx, domain.ClientInput{Name: "Jane", Designation: "CEO", Description: "great", ImagePath: storeImage(t, objects, "c1")})
	require.NoError(t, err)
	clients, err := svc.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.NotEmpty(t, clients[0].ImageURL)

	raws, err := records.Get(ctx, domain.CollectionClients)
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.NotContains(t, string(raws[0]), "imageUrl")
}

func TestListWithoutImagePathPassesThrough(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, true)

	_, err := svc.AddClient(ctx, domain.ClientInput{Name: "No Photo"})
	require.NoError(t, err)

	clients, err := svc.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Empty(t, clients[0].ImageURL)
}

func TestListDegradesSingleSigningFailure(t *testing.T) {
	ctx := context.Background()
	records := repository.NewMemoryRecordStore()
	memory := repository.NewMemoryObjectStore("images")
	bad := storeImage(t, memory, "bad")
	objects := &failingSigner{
		MemoryObjectStore: memory,
		fail:              map[string]bool{bad: true},
	}
	svc := NewContentService(records, objects, Options{}, zap.NewNop())

	for _, name := range []string{"good1", "bad", "good2"} {
		path := bad
		if name != "bad" {
			path = storeImage(t, memory, name)
		}
		_, err := svc.AddProject(ctx, domain.ProjectInput{Name: name, ImagePath: path})
		require.NoError(t, err)
	}

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 3)

	assert.Equal(t, "good1", projects[0].Name)
	assert.NotEmpty(t, projects[0].ImageURL)
	assert.Equal(t, "bad", projects[1].Name)
	assert.Empty(t, projects[1].ImageURL)
	assert.NotEmpty(t, projects[2].ImageURL)
}

func TestListPreservesInsertionOrder(t *testing.T) {
	ctx := context.Background()
	svc, _, objects := newTestService(t, true)

	for i := 0; i < 20; i++ {
		path := storeImage(t, objects, fmt.Sprintf("path-%02d", i))
		_, err := svc.AddProject(ctx, domain.ProjectInput{Name: fmt.Sprintf("p%02d", i), ImagePath: path})
		require.NoError(t, err)
	}

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 20)
	for i, p := range projects {
		assert.Equal(t, fmt.Sprintf("p%02d", i), p.Name)
		assert.Contains(t, p.ImageURL, fmt.Sprintf("path-%02d", i))
	}
}

func TestIDsAreUnique(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, true)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		p, err := svc.AddProject(ctx, domain.ProjectInput{Name: "x"})
		require.NoError(t, err)
		assert.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}

func TestSubmitContactTimestamp(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, true)

	before := time.Now()
	sub, err := svc.SubmitContact(ctx, domain.ContactInput{FullName: "Ann", Email: "ann@example.com", Mobile: "123", City: "Pune"})
	after := time.Now()
	require.NoError(t, err)

	assert.NotEmpty(t, sub.ID)
	assert.False(t, sub.SubmittedAt.Before(before), "timestamp earlier than call start")
	assert.False(t, sub.SubmittedAt.After(after), "timestamp later than call end")

	list, err := svc.ListContactSubmissions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Ann", list[0].FullName)
	assert.True(t, sub.SubmittedAt.Equal(list[0].SubmittedAt))
}

func TestSubscribeDeduplicatesEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, true)

	created, err := svc.Subscribe(ctx, domain.NewsletterInput{Email: "reader@example.com"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Subscribe(ctx, domain.NewsletterInput{Email: "reader@example.com"})
	require.NoError(t, err)
	assert.False(t, created)

	created, err = svc.Subscribe(ctx, domain.NewsletterInput{Email: "  Reader@Example.com "})
	require.NoError(t, err)
	assert.False(t, created)

	subs, err := svc.ListNewsletterSubscriptions(ctx)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "reader@example.com", subs[0].Email)
	assert.False(t, subs[0].SubscribedAt.IsZero())
}

func TestConcurrentAppendsAreSerialized(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService(t, true)

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddProject(ctx, domain.ProjectInput{Name: fmt.Sprintf("p%d", i)})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	projects, err := svc.ListProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, n)
}

// barrierStore holds every Get until `parties` readers have arrived, which
// forces two appends to read the same snapshot.
type barrierStore struct {
	*repository.MemoryRecordStore
	parties int
	mu      sync.Mutex
	arrived int
	release chan struct{}
}

func (b *barrierStore) Get(ctx context.Context, collection string) ([]json.RawMessage, error) {
	raws, err := b.MemoryRecordStore.Get(ctx, collection)
	b.mu.Lock()
	b.arrived++
	if b.arrived == b.parties {
		close(b.release)
	}
	b.mu.Unlock()
	<-b.release
	return raws, err
}

func TestUnserializedAppendsCanLoseUpdates(t *testing.T) {
	ctx := context.Background()
	store := &barrierStore{
		MemoryRecordStore: repository.NewMemoryRecordStore(),
		parties:           2,
		release:           make(chan struct{}),
	}
	svc := NewContentService(store, repository.NewMemoryObjectStore("images"), Options{SerializeWrites: false}, zap.NewNop())

	var wg sync.WaitGroup
	for _, name := range []string{"first", "second"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.AddProject(ctx, domain.ProjectInput{Name: name})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	raws, err := store.MemoryRecordStore.Get(ctx, domain.CollectionProjects)
	require.NoError(t, err)
	assert.Len(t, raws, 1, "both appends read an empty snapshot; last write wins")
}

func TestStoreFailuresAreClassified(t *testing.T) {
	ctx := context.Background()
	store := &brokenStore{
		MemoryRecordStore: repository.NewMemoryRecordStore(),
		failGet:           map[string]bool{domain.CollectionContacts: true},
		failSet:           map[string]bool{domain.CollectionProjects: true},
	}
	svc := NewContentService(store, repository.NewMemoryObjectStore("images"), Options{SerializeWrites: true}, zap.NewNop())

	_, err := svc.ListContactSubmissions(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreRead)

	_, err = svc.SubmitContact(ctx, domain.ContactInput{FullName: "x"})
	assert.ErrorIs(t, err, domain.ErrStoreRead)

	_, err = svc.AddProject(ctx, domain.ProjectInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrStoreWrite)

	// Other collections keep working.
	_, err = svc.AddClient(ctx, domain.ClientInput{Name: "ok"})
	require.NoError(t, err)
	clients, err := svc.ListClients(ctx)
	require.NoError(t, err)
	assert.Len(t, clients, 1)
}

func TestStoreFailuresKeepCause(t *testing.T) {
	svc, _, _ := newTestService(t, true)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := svc.ListProjects(ctx)
	assert.ErrorIs(t, err, domain.ErrStoreRead)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = svc.AddClient(ctx, domain.ClientInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrStoreRead)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = svc.Subscribe(ctx, domain.NewsletterInput{Email: "a@b.co"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAppendKeepsExistingRecordsVerbatim(t *testing.T) {
	ctx := context.Background()
	svc, records, _ := newTestService(t, true)

	legacy := json.RawMessage(`{"id":"legacy","name":"Old","description":"d","imagePath":"p0","featured":true}`)
	require.NoError(t, records.Set(ctx, domain.CollectionProjects, []json.RawMessage{legacy}))

	_, err := svc.AddProject(ctx, domain.ProjectInput{Name: "New"})
	require.NoError(t, err)

	raws, err := records.Get(ctx, domain.CollectionProjects)
	require.NoError(t, err)
	require.Len(t, raws, 2)
	assert.JSONEq(t, string(legacy), string(raws[0]))
}

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/vidhi-1412/Realestate/internal/domain"
	"github.com/vidhi-1412/Realestate/internal/metrics"
	"github.com/vidhi-1412/Realestate/internal/repository"
)

const (
	DefaultSignedURLTTL = time.Hour
	signConcurrency     = 8
)

type ContentService interface {
	ListProjects(ctx context.Context) ([]domain.Project, error)
	AddProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error)
	ListClients(ctx context.Context) ([]domain.Client, error)
	AddClient(ctx context.Context, in domain.ClientInput) (*domain.Client, error)
	ListContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error)
	SubmitContact(ctx context.Context, in domain.ContactInput) (*domain.ContactSubmission, error)
	ListNewsletterSubscriptions(ctx context.Context) ([]domain.NewsletterSubscription, error)
	// Subscribe reports whether a new subscription was stored; a known
	// email is not an error.
	Subscribe(ctx context.Context, in domain.NewsletterInput) (bool, error)
	UploadImage(ctx context.Context, filename, contentType string, data []byte) (string, error)
}

type Options struct {
	SignedURLTTL time.Duration
	// SerializeWrites guards each collection's read-modify-write cycle with
	// an in-process mutex. Without it concurrent appends can lose records.
	SerializeWrites bool
	Metrics         *metrics.Metrics
}

type contentService struct {
	records repository.RecordStore
	objects repository.ObjectStore
	log     *zap.Logger
	metrics *metrics.Metrics
	ttl     time.Duration
	locks   *collectionLocks

	now   func() time.Time
	newID func() string
}

func NewContentService(records repository.RecordStore, objects repository.ObjectStore, opts Options, log *zap.Logger) ContentService {
	s := &contentService{
		records: records,
		objects: objects,
		log:     log,
		metrics: opts.Metrics,
		ttl:     opts.SignedURLTTL,
		now:     time.Now,
		newID:   uuid.NewString,
	}
	if s.ttl <= 0 {
		s.ttl = DefaultSignedURLTTL
	}
	if opts.SerializeWrites {
		s.locks = newCollectionLocks()
	}
	return s
}

func (s *contentService) ListProjects(ctx context.Context) ([]domain.Project, error) {
	projects, err := load[domain.Project](ctx, s.records, domain.CollectionProjects)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(projects))
	for i := range projects {
		paths[i] = projects[i].ImagePath
	}
	for i, u := range s.signAll(ctx, paths) {
		projects[i].ImageURL = u
	}
	return projects, nil
}

func (s *contentService) AddProject(ctx context.Context, in domain.ProjectInput) (*domain.Project, error) {
	project := &domain.Project{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		ImagePath:   in.ImagePath,
	}
	if err := s.appendRecord(ctx, domain.CollectionProjects, project); err != nil {
		return nil, err
	}

	s.log.Info("Project added", zap.String("id", project.ID), zap.String("image_path", project.ImagePath))
	return project, nil
}

func (s *contentService) ListClients(ctx context.Context) ([]domain.Client, error) {
	clients, err := load[domain.Client](ctx, s.records, domain.CollectionClients)
	if err != nil {
		return nil, err
	}

	paths := make([]string, len(clients))
	for i := range clients {
		paths[i] = clients[i].ImagePath
	}
	for i, u := range s.signAll(ctx, paths) {
		clients[i].ImageURL = u
	}
	return clients, nil
}

func (s *contentService) AddClient(ctx context.Context, in domain.ClientInput) (*domain.Client, error) {
	client := &domain.Client{
		ID:          s.newID(),
		Name:        in.Name,
		Designation: in.Designation,
		Description: in.Description,
		ImagePath:   in.ImagePath,
	}
	if err := s.appendRecord(ctx, domain.CollectionClients, client); err != nil {
		return nil, err
	}

	s.log.Info("Client added", zap.String("id", client.ID), zap.String("image_path", client.ImagePath))
	return client, nil
}

func (s *contentService) ListContactSubmissions(ctx context.Context) ([]domain.ContactSubmission, error) {
	return load[domain.ContactSubmission](ctx, s.records, domain.CollectionContacts)
}

func (s *contentService) SubmitContact(ctx context.Context, in domain.ContactInput) (*domain.ContactSubmission, error) {
	submission := &domain.ContactSubmission{
		ID:          s.newID(),
		FullName:    in.FullName,
		Email:       in.Email,
		Mobile:      in.Mobile,
		City:        in.City,
		SubmittedAt: s.now().UTC(),
	}
	if err := s.appendRecord(ctx, domain.CollectionContacts, submission); err != nil {
		return nil, err
	}

	s.log.Info("Contact submission received", zap.String("id", submission.ID))
	return submission, nil
}

func (s *contentService) ListNewsletterSubscriptions(ctx context.Context) ([]domain.NewsletterSubscription, error) {
	return load[domain.NewsletterSubscription](ctx, s.records, domain.CollectionNewsletters)
}

func (s *contentService) Subscribe(ctx context.Context, in domain.NewsletterInput) (bool, error) {
	email := normalizeEmail(in.Email)
	created := false

	err := s.withCollection(domain.CollectionNewsletters, func() error {
		raws, err := s.records.Get(ctx, domain.CollectionNewsletters)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrStoreRead, domain.CollectionNewsletters, err)
		}
		for _, r := range raws {
			var sub domain.NewsletterSubscription
			if json.Unmarshal(r, &sub) == nil && normalizeEmail(sub.Email) == email {
				return nil
			}
		}

		sub := domain.NewsletterSubscription{Email: email, SubscribedAt: s.now().UTC()}
		raw, err := json.Marshal(sub)
		if err != nil {
			return fmt.Errorf("%w: %w", domain.ErrStoreWrite, err)
		}
		if err := s.records.Set(ctx, domain.CollectionNewsletters, append(raws, raw)); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrStoreWrite, domain.CollectionNewsletters, err)
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if created {
		s.metrics.RecordAppended(domain.CollectionNewsletters)
		s.log.Info("Newsletter subscription added")
	} else {
		s.log.Debug("Newsletter subscription already present")
	}
	return created, nil
}

// appendRecord reads the whole collection, appends rec and writes it back.
// Existing entries are kept byte for byte.
func (s *contentService) appendRecord(ctx context.Context, collection string, rec any) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrStoreWrite, err)
	}

	err = s.withCollection(collection, func() error {
		raws, err := s.records.Get(ctx, collection)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrStoreRead, collection, err)
		}
		if err := s.records.Set(ctx, collection, append(raws, raw)); err != nil {
			return fmt.Errorf("%w: %s: %w", domain.ErrStoreWrite, collection, err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.metrics.RecordAppended(collection)
	return nil
}

func (s *contentService) withCollection(collection string, fn func() error) error {
	if s.locks != nil {
		unlock := s.locks.lock(collection)
		defer unlock()
	}
	return fn()
}

// signAll resolves storage paths to signed URLs. A failed signature or a
// missing object leaves that slot empty instead of failing the whole list.
func (s *contentService) signAll(ctx context.Context, paths []string) []string {
	urls := make([]string, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(signConcurrency)

	for i, path := range paths {
		if path == "" {
			continue
		}
		g.Go(func() error {
			u, err := s.objects.Sign(gctx, path, s.ttl)
			if errors.Is(err, repository.ErrObjectNotFound) {
				s.log.Info("Image path has no stored object", zap.String("path", path))
				return nil
			}
			if err != nil {
				s.metrics.SignFailed()
				s.log.Warn("Failed to sign image path",
					zap.String("path", path),
					zap.Error(err))
				return nil
			}
			urls[i] = u
			return nil
		})
	}
	_ = g.Wait()

	return urls
}

func load[T any](ctx context.Context, store repository.RecordStore, collection string) ([]T, error) {
	raws, err := store.Get(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrStoreRead, collection, err)
	}

	items := make([]T, 0, len(raws))
	for i, r := range raws {
		var item T
		if err := json.Unmarshal(r, &item); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", domain.ErrStoreRead, collection, i, err)
		}
		items = append(items, item)
	}
	return items, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type collectionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newCollectionLocks() *collectionLocks {
	return &collectionLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *collectionLocks) lock(collection string) func() {
	l.mu.Lock()
	m, ok := l.locks[collection]
	if !ok {
		m = &sync.Mutex{}
		l.locks[collection] = m
	}
	l.mu.Unlock()

	m.Lock()
	return m.Unlock
}

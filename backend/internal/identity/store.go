package identity

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"socialnet/backend/pkg/errors"
	"socialnet/backend/pkg/logger"
)

// Store handles all identity record operations against Postgres. Every
// operation is single-record; there are no multi-record transactions. List
// updates use guarded array_append/array_remove so they are set-semantic and
// safe to retry.
type Store struct {
	db     *gorm.DB
	cache  *PersonCache
	logger *zap.Logger
}

// NewStore creates a new identity store. cache may be nil, in which case
// every lookup goes to the database.
func NewStore(db *gorm.DB, cache *PersonCache) *Store {
	return &Store{
		db:     db,
		cache:  cache,
		logger: logger.Get(),
	}
}

// Migrate creates or updates the backing tables
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.db.WithContext(ctx).AutoMigrate(&Person{}, &Post{}); err != nil {
		return errors.NewIdentityStoreUnavailable(err)
	}
	return nil
}

// Create inserts a new person record. Fails with ErrDuplicateIdentity when
// an account with the same email already exists.
func (s *Store) Create(ctx context.Context, person *Person) (string, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&Person{}).Where("email = ?", person.Email).Count(&count).Error; err != nil {
		return "", errors.NewIdentityStoreUnavailable(err)
	}
	if count > 0 {
		return "", errors.NewDuplicateIdentity(person.Email)
	}

	if person.ID == "" {
		person.ID = uuid.NewString()
	}
	if person.Interests == nil {
		person.Interests = []string{}
	}
	person.Subscribers = []string{}
	person.Following = []string{}

	if err := s.db.WithContext(ctx).Create(person).Error; err != nil {
		// The unique index closes the race the pre-check leaves open
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return "", errors.NewDuplicateIdentity(person.Email)
		}
		return "", errors.NewIdentityStoreUnavailable(err)
	}

	s.logger.Info("Person created",
		zap.String("person_id", person.ID),
		zap.String("name", person.DisplayName()),
	)
	return person.ID, nil
}

// FindByID looks up a person by its opaque identifier
func (s *Store) FindByID(ctx context.Context, id string) (*Person, error) {
	if p, ok := s.cache.get(ctx, id); ok {
		return p, nil
	}

	var person Person
	if err := s.db.WithContext(ctx).First(&person, "id = ?", id).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewPersonNotFound(id)
		}
		return nil, errors.NewIdentityStoreUnavailable(err)
	}

	s.cache.set(ctx, &person)
	return &person, nil
}

// FindByCredentials looks up a person by email and credential. The
// credential is opaque to this layer and compared verbatim.
func (s *Store) FindByCredentials(ctx context.Context, email, password string) (*Person, error) {
	var person Person
	err := s.db.WithContext(ctx).First(&person, "email = ? AND password = ?", email, password).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewPersonNotFound(email)
		}
		return nil, errors.NewIdentityStoreUnavailable(err)
	}
	return &person, nil
}

// FindByFullName looks up a person by first and last name
func (s *Store) FindByFullName(ctx context.Context, firstName, lastName string) (*Person, error) {
	var person Person
	err := s.db.WithContext(ctx).First(&person, "first_name = ? AND last_name = ?", firstName, lastName).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewPersonNotFound(fmt.Sprintf("%s %s", firstName, lastName))
		}
		return nil, errors.NewIdentityStoreUnavailable(err)
	}
	return &person, nil
}

// FindByFirstName looks up a person by first name only
func (s *Store) FindByFirstName(ctx context.Context, firstName string) (*Person, error) {
	var person Person
	err := s.db.WithContext(ctx).First(&person, "first_name = ?", firstName).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NewPersonNotFound(firstName)
		}
		return nil, errors.NewIdentityStoreUnavailable(err)
	}
	return &person, nil
}

// ListAll returns every person record. Used by the reconciler to re-derive
// the graph edge set.
func (s *Store) ListAll(ctx context.Context) ([]Person, error) {
	var persons []Person
	if err := s.db.WithContext(ctx).Find(&persons).Error; err != nil {
		return nil, errors.NewIdentityStoreUnavailable(err)
	}
	return persons, nil
}

// Delete removes a person record. Fails with ErrPersonNotFound when the
// record is absent. It does not clean stale list references on other
// records; the reconciler repairs those.
func (s *Store) Delete(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&Person{}, "id = ?", id)
	if res.Error != nil {
		return errors.NewIdentityStoreUnavailable(res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.NewPersonNotFound(id)
	}

	s.cache.invalidate(ctx, id)
	s.logger.Info("Person deleted", zap.String("person_id", id))
	return nil
}

// AddFollowing appends targetID to the person's following list unless it is
// already present
func (s *Store) AddFollowing(ctx context.Context, id, targetID string) error {
	return s.appendToList(ctx, id, "following", targetID)
}

// RemoveFollowing removes targetID from the person's following list; no-op
// when absent
func (s *Store) RemoveFollowing(ctx context.Context, id, targetID string) error {
	return s.removeFromList(ctx, id, "following", targetID)
}

// AddSubscriber appends sourceID to the person's subscribers list unless it
// is already present
func (s *Store) AddSubscriber(ctx context.Context, id, sourceID string) error {
	return s.appendToList(ctx, id, "subscribers", sourceID)
}

// RemoveSubscriber removes sourceID from the person's subscribers list;
// no-op when absent
func (s *Store) RemoveSubscriber(ctx context.Context, id, sourceID string) error {
	return s.removeFromList(ctx, id, "subscribers", sourceID)
}

func (s *Store) appendToList(ctx context.Context, id, column, value string) error {
	// The membership guard makes duplicate pushes collapse
	res := s.db.WithContext(ctx).Model(&Person{}).
		Where(fmt.Sprintf("id = ? AND NOT (? = ANY(%s))", column), id, value).
		Update(column, gorm.Expr(fmt.Sprintf("array_append(%s, ?)", column), value))
	if res.Error != nil {
		return errors.NewIdentityStoreUnavailable(res.Error)
	}

	s.cache.invalidate(ctx, id)
	return nil
}

func (s *Store) removeFromList(ctx context.Context, id, column, value string) error {
	res := s.db.WithContext(ctx).Model(&Person{}).
		Where("id = ?", id).
		Update(column, gorm.Expr(fmt.Sprintf("array_remove(%s, ?)", column), value))
	if res.Error != nil {
		return errors.NewIdentityStoreUnavailable(res.Error)
	}

	s.cache.invalidate(ctx, id)
	return nil
}

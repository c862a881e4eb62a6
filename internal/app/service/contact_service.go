package service

import (
	"context"
	"time"

	"github.com/valeriy167/paint-store/internal/app/model"
	"github.com/valeriy167/paint-store/internal/app/repository"
	"github.com/valeriy167/paint-store/pkg/logger"
)

const contactCacheKey = "contact_info"

// ContactCache is the subset of the Redis store the contact service needs.
type ContactCache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type ContactService interface {
	Get(ctx context.Context) (*model.ContactInfo, error)
	Update(ctx context.Context, info *model.ContactInfo) error
}

type contactService struct {
	repo  repository.ContactRepository
	cache ContactCache
	ttl   time.Duration
}

// NewContactService accepts a nil cache, in which case every read hits the database.
func NewContactService(repo repository.ContactRepository, cache ContactCache, ttl time.Duration) ContactService {
	return &contactService{repo: repo, cache: cache, ttl: ttl}
}

func (s *contactService) Get(ctx context.Context) (*model.ContactInfo, error) {
	if s.cache != nil {
		var cached model.ContactInfo
		found, err := s.cache.GetJSON(ctx, contactCacheKey, &cached)
		if err != nil {
			logger.Warn("Contact cache read failed", map[string]interface{}{
				"error": err.Error(),
			})
		} else if found {
			cached.ID = model.ContactInfoID
			return &cached, nil
		}
	}

	info, err := s.repo.Get()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, contactCacheKey, info, s.ttl); err != nil {
			logger.Warn("Contact cache write failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	return info, nil
}

// Update stores the singleton and drops the cached copy.
func (s *contactService) Update(ctx context.Context, info *model.ContactInfo) error {
	if err := s.repo.Save(info); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, contactCacheKey); err != nil {
			logger.Warn("Contact cache invalidation failed", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	logger.Info("Contact info updated")
	return nil
}

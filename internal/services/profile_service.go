package services

import (
	"context"

	"github.com/wizardsoflight-studio/studioWebsite/internal/model"
)

type ProfileStore interface {
	GetByID(ctx context.Context, id string) (*model.Profile, error)
	Update(ctx context.Context, id string, fullName *string, nsfwEnabled, newsletterSubscribed *bool) (*model.Profile, error)
}

// ProfileUpdate carries the account-editable fields; nil leaves a field as is.
type ProfileUpdate struct {
	FullName             *string `json:"full_name"`
	NSFWEnabled          *bool   `json:"nsfw_enabled"`
	NewsletterSubscribed *bool   `json:"newsletter_subscribed"`
}

type ProfileService struct {
	Profiles ProfileStore
}

func NewProfileService(profiles ProfileStore) *ProfileService {
	return &ProfileService{Profiles: profiles}
}

func (s *ProfileService) Get(ctx context.Context, userID string) (*model.Profile, error) {
	return s.Profiles.GetByID(ctx, userID)
}

func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileUpdate) (*model.Profile, error) {
	return s.Profiles.Update(ctx, userID, in.FullName, in.NSFWEnabled, in.NewsletterSubscribed)
}

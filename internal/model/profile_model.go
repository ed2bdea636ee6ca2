package model

import "time"

// Profile mirrors the auth platform's user row one-to-one. The role drives
// admin route authorization; everything else is account display state.
type Profile struct {
	ID                   string    `json:"id"`
	Email                string    `json:"email"`
	FullName             *string   `json:"full_name,omitempty"`
	AvatarURL            *string   `json:"avatar_url,omitempty"`
	Role                 string    `json:"role"`
	NSFWEnabled          bool      `json:"nsfw_enabled"`
	NewsletterSubscribed bool      `json:"newsletter_subscribed"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

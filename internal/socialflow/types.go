// Package socialflow schedules, publishes and measures social media posts
// through per-network adapters.
package socialflow

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/humanosaude/portal/internal/store"
)

const (
	Instagram = "instagram"
	Facebook  = "facebook"
	Twitter   = "twitter"
	LinkedIn  = "linkedin"
	YouTube   = "youtube"
	TikTok    = "tiktok"
	Pinterest = "pinterest"
)

type NetworkConfig struct {
	ID               string
	Name             string
	PostTypes        []string
	MaxHashtags      int
	MaxCaptionLength int
	OAuthScopes      []string
	Enabled          bool
}

var networks = map[string]NetworkConfig{
	Instagram: {
		ID:               Instagram,
		Name:             "Instagram",
		PostTypes:        []string{"feed", "carousel", "reel", "story"},
		MaxHashtags:      30,
		MaxCaptionLength: 2200,
		OAuthScopes: []string{
			"instagram_basic",
			"instagram_content_publish",
			"instagram_manage_insights",
			"pages_show_list",
			"pages_read_engagement",
			"business_management",
		},
		Enabled: true,
	},
	Facebook:  {ID: Facebook, Name: "Facebook", PostTypes: []string{"post", "reel", "story", "link"}, MaxHashtags: 30, MaxCaptionLength: 63206},
	Twitter:   {ID: Twitter, Name: "X (Twitter)", PostTypes: []string{"tweet", "thread"}, MaxHashtags: 10, MaxCaptionLength: 280},
	LinkedIn:  {ID: LinkedIn, Name: "LinkedIn", PostTypes: []string{"post", "article", "document"}, MaxHashtags: 5, MaxCaptionLength: 3000},
	YouTube:   {ID: YouTube, Name: "YouTube", PostTypes: []string{"video", "shorts"}, MaxHashtags: 500, MaxCaptionLength: 5000},
	TikTok:    {ID: TikTok, Name: "TikTok", PostTypes: []string{"video"}, MaxHashtags: 10, MaxCaptionLength: 2200},
	Pinterest: {ID: Pinterest, Name: "Pinterest", PostTypes: []string{"pin", "idea_pin"}, MaxHashtags: 20, MaxCaptionLength: 500},
}

// Network returns the configuration of a known network.
func Network(id string) (NetworkConfig, bool) {
	cfg, ok := networks[id]
	return cfg, ok
}

// MediaItem is one entry of a post's media list.
type MediaItem struct {
	URL  string `json:"url"`
	Type string `json:"type"`
}

func (m MediaItem) IsVideo() bool { return m.Type == "video" }

// PostMedia decodes the media list stored on a post.
func PostMedia(p store.SocialPost) ([]MediaItem, error) {
	if len(p.Media) == 0 || string(p.Media) == "null" {
		return nil, nil
	}
	var items []MediaItem
	if err := json.Unmarshal(p.Media, &items); err != nil {
		return nil, fmt.Errorf("invalid media for post %s: %w", p.ID, err)
	}
	return items, nil
}

type PublishResult struct {
	PlatformPostID string
	Permalink      string
}

type TokenRefresh struct {
	AccessToken string
	ExpiresAt   *time.Time
}

// Adapter talks to one social network on behalf of a connected account.
type Adapter interface {
	Network() string
	Publish(ctx context.Context, account store.SocialAccount, post store.SocialPost, media []MediaItem) (PublishResult, error)
	PostMetrics(ctx context.Context, account store.SocialAccount, platformPostID string) (store.PostMetrics, error)
	AccountMetrics(ctx context.Context, account store.SocialAccount) (store.AccountProfile, error)
	RefreshToken(ctx context.Context, account store.SocialAccount) (TokenRefresh, error)
	ValidateToken(ctx context.Context, account store.SocialAccount) (bool, error)
}

// Adapters is a registry keyed by network, filled at startup.
type Adapters struct {
	byNetwork map[string]Adapter
}

func NewAdapters(adapters ...Adapter) *Adapters {
	r := &Adapters{byNetwork: make(map[string]Adapter, len(adapters))}
	for _, a := range adapters {
		r.Register(a)
	}
	return r
}

func (r *Adapters) Register(a Adapter) {
	r.byNetwork[a.Network()] = a
}

func (r *Adapters) Get(network string) (Adapter, bool) {
	a, ok := r.byNetwork[network]
	return a, ok
}

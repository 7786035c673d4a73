package instagram

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/humanosaude/portal/internal/logger"
	"github.com/humanosaude/portal/internal/socialflow"
	"github.com/humanosaude/portal/internal/store"
)

var (
	ErrProcessing        = errors.New("Erro no processamento do vídeo")
	ErrProcessingTimeout = errors.New("Timeout no processamento do vídeo")
	ErrNoMedia           = errors.New("post sem mídia")
)

// Adapter publishes to and reads from an Instagram business account.
type Adapter struct {
	graph *graphClient
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewAdapter(cfg Config, log *logger.Logger) *Adapter {
	return &Adapter{
		graph: &graphClient{cfg: cfg.withDefaults(), log: log},
		now:   time.Now,
		sleep: sleepCtx,
	}
}

func (a *Adapter) Network() string { return socialflow.Instagram }

// BuildCaption appends the hashtags to the text, adding a leading # where
// missing.
func BuildCaption(content string, hashtags []string) string {
	tags := make([]string, 0, len(hashtags))
	for _, t := range hashtags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, "#") {
			t = "#" + t
		}
		tags = append(tags, t)
	}
	if len(tags) == 0 {
		return content
	}
	return content + "\n\n" + strings.Join(tags, " ")
}

func (a *Adapter) Publish(ctx context.Context, account store.SocialAccount, post store.SocialPost, media []socialflow.MediaItem) (socialflow.PublishResult, error) {
	if len(media) == 0 {
		return socialflow.PublishResult{}, ErrNoMedia
	}

	content := ""
	if post.Content != nil {
		content = *post.Content
	}
	caption := BuildCaption(content, post.Hashtags)

	var (
		containerID string
		err         error
	)
	switch post.PostType {
	case "carousel":
		containerID, err = a.carouselContainer(ctx, account, media, caption)
	case "reel":
		containerID, err = a.reelContainer(ctx, account, media, caption)
	case "story":
		containerID, err = a.storyContainer(ctx, account, media[0])
	default:
		if media[0].IsVideo() {
			containerID, err = a.reelContainer(ctx, account, media, caption)
		} else {
			containerID, err = a.createContainer(ctx, account, url.Values{
				"image_url": {media[0].URL},
				"caption":   {caption},
			})
		}
	}
	if err != nil {
		return socialflow.PublishResult{}, err
	}

	var published struct {
		ID string `json:"id"`
	}
	err = a.graph.post(ctx, "/"+account.PlatformAccountID+"/media_publish", url.Values{
		"creation_id":  {containerID},
		"access_token": {account.AccessToken},
	}, &published)
	if err != nil {
		return socialflow.PublishResult{}, fmt.Errorf("failed to publish media: %w", err)
	}

	res := socialflow.PublishResult{PlatformPostID: published.ID}
	var link struct {
		Permalink string `json:"permalink"`
	}
	// A post without permalink is still published.
	if err := a.graph.get(ctx, "/"+published.ID, url.Values{
		"fields":       {"permalink"},
		"access_token": {account.AccessToken},
	}, &link); err == nil {
		res.Permalink = link.Permalink
	}
	return res, nil
}

func (a *Adapter) createContainer(ctx context.Context, account store.SocialAccount, params url.Values) (string, error) {
	params.Set("access_token", account.AccessToken)
	var out struct {
		ID string `json:"id"`
	}
	if err := a.graph.post(ctx, "/"+account.PlatformAccountID+"/media", params, &out); err != nil {
		return "", fmt.Errorf("failed to create media container: %w", err)
	}
	return out.ID, nil
}

func (a *Adapter) carouselContainer(ctx context.Context, account store.SocialAccount, media []socialflow.MediaItem, caption string) (string, error) {
	children := make([]string, 0, len(media))
	for _, m := range media {
		params := url.Values{"is_carousel_item": {"true"}}
		if m.IsVideo() {
			params.Set("media_type", "VIDEO")
			params.Set("video_url", m.URL)
		} else {
			params.Set("image_url", m.URL)
		}
		id, err := a.createContainer(ctx, account, params)
		if err != nil {
			return "", err
		}
		if m.IsVideo() {
			if err := a.waitForProcessing(ctx, account, id); err != nil {
				return "", err
			}
		}
		children = append(children, id)
	}

	return a.createContainer(ctx, account, url.Values{
		"media_type": {"CAROUSEL"},
		"children":   {strings.Join(children, ",")},
		"caption":    {caption},
	})
}

func (a *Adapter) reelContainer(ctx context.Context, account store.SocialAccount, media []socialflow.MediaItem, caption string) (string, error) {
	var video, cover string
	for _, m := range media {
		if m.IsVideo() && video == "" {
			video = m.URL
		} else if !m.IsVideo() && cover == "" {
			cover = m.URL
		}
	}
	if video == "" {
		return "", fmt.Errorf("reel sem vídeo")
	}

	params := url.Values{
		"media_type":    {"REELS"},
		"video_url":     {video},
		"caption":       {caption},
		"share_to_feed": {"true"},
	}
	if cover != "" {
		params.Set("cover_url", cover)
	}
	id, err := a.createContainer(ctx, account, params)
	if err != nil {
		return "", err
	}
	return id, a.waitForProcessing(ctx, account, id)
}

func (a *Adapter) storyContainer(ctx context.Context, account store.SocialAccount, m socialflow.MediaItem) (string, error) {
	params := url.Values{"media_type": {"STORIES"}}
	if m.IsVideo() {
		params.Set("video_url", m.URL)
	} else {
		params.Set("image_url", m.URL)
	}
	id, err := a.createContainer(ctx, account, params)
	if err != nil {
		return "", err
	}
	if m.IsVideo() {
		return id, a.waitForProcessing(ctx, account, id)
	}
	return id, nil
}

// waitForProcessing polls a video container until it is FINISHED.
func (a *Adapter) waitForProcessing(ctx context.Context, account store.SocialAccount, containerID string) error {
	cfg := a.graph.cfg
	for i := 0; i < cfg.MaxPolls; i++ {
		var status struct {
			StatusCode string `json:"status_code"`
		}
		err := a.graph.get(ctx, "/"+containerID, url.Values{
			"fields":       {"status_code"},
			"access_token": {account.AccessToken},
		}, &status)
		if err != nil {
			return err
		}

		switch status.StatusCode {
		case "FINISHED":
			return nil
		case "ERROR":
			return ErrProcessing
		}

		if err := a.sleep(ctx, cfg.PollInterval); err != nil {
			return err
		}
	}
	return ErrProcessingTimeout
}

type insight struct {
	Name   string `json:"name"`
	Values []struct {
		Value int64 `json:"value"`
	} `json:"values"`
}

func (a *Adapter) PostMetrics(ctx context.Context, account store.SocialAccount, platformPostID string) (store.PostMetrics, error) {
	var resp struct {
		Data []insight `json:"data"`
	}
	err := a.graph.get(ctx, "/"+platformPostID+"/insights", url.Values{
		"metric":       {"impressions,reach,saved,likes,comments,shares"},
		"access_token": {account.AccessToken},
	}, &resp)
	if err != nil {
		return store.PostMetrics{}, fmt.Errorf("failed to fetch insights: %w", err)
	}

	var m store.PostMetrics
	for _, in := range resp.Data {
		if len(in.Values) == 0 {
			continue
		}
		v := in.Values[0].Value
		switch in.Name {
		case "impressions":
			m.Impressions = v
		case "reach":
			m.Reach = v
		case "saved":
			m.Saves = v
		case "likes":
			m.Likes = v
		case "comments":
			m.Comments = v
		case "shares":
			m.Shares = v
		}
	}
	m.Engagement = m.Likes + m.Comments + m.Shares + m.Saves
	m.EngagementRate = socialflow.EngagementRate(m)
	return m, nil
}

func (a *Adapter) AccountMetrics(ctx context.Context, account store.SocialAccount) (store.AccountProfile, error) {
	var resp struct {
		FollowersCount int `json:"followers_count"`
		FollowsCount   int `json:"follows_count"`
		MediaCount     int `json:"media_count"`
	}
	err := a.graph.get(ctx, "/"+account.PlatformAccountID, url.Values{
		"fields":       {"followers_count,follows_count,media_count"},
		"access_token": {account.AccessToken},
	}, &resp)
	if err != nil {
		return store.AccountProfile{}, fmt.Errorf("failed to fetch account metrics: %w", err)
	}
	return store.AccountProfile{Followers: resp.FollowersCount, Following: resp.FollowsCount, Posts: resp.MediaCount}, nil
}

func (a *Adapter) RefreshToken(ctx context.Context, account store.SocialAccount) (socialflow.TokenRefresh, error) {
	tok, err := a.graph.exchangeLongLived(ctx, account.AccessToken)
	if err != nil {
		return socialflow.TokenRefresh{}, err
	}
	return socialflow.TokenRefresh{AccessToken: tok.AccessToken, ExpiresAt: tok.expiresAt(a.now())}, nil
}

// ValidateToken reports false when the Graph API rejects the token itself.
// Rate limits, permission and transient errors are returned as errors.
func (a *Adapter) ValidateToken(ctx context.Context, account store.SocialAccount) (bool, error) {
	err := a.graph.get(ctx, "/me", url.Values{"access_token": {account.AccessToken}}, nil)
	var gerr *GraphError
	if errors.As(err, &gerr) && gerr.tokenRejected() {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx/types"

	"github.com/humanosaude/portal/internal/logger"
	"github.com/humanosaude/portal/internal/socialflow"
	"github.com/humanosaude/portal/internal/store"
)

var (
	ErrAppNotConfigured  = errors.New("META_APP_ID não configurado")
	ErrNoBusinessAccount = errors.New("nenhuma conta comercial do Instagram vinculada às páginas")
)

// Connector runs the Facebook Login flow that links an Instagram business
// account.
type Connector struct {
	graph *graphClient
	now   func() time.Time
}

func NewConnector(cfg Config, log *logger.Logger) *Connector {
	return &Connector{graph: &graphClient{cfg: cfg.withDefaults(), log: log}, now: time.Now}
}

func (c *Connector) Network() string { return socialflow.Instagram }

func (c *Connector) redirectURI() string {
	return c.graph.cfg.AppURL + "/api/social-flow/callback"
}

func (c *Connector) AuthURL(state string) (string, error) {
	cfg := c.graph.cfg
	if cfg.AppID == "" {
		return "", ErrAppNotConfigured
	}
	network, _ := socialflow.Network(socialflow.Instagram)

	q := url.Values{
		"client_id":     {cfg.AppID},
		"redirect_uri":  {c.redirectURI()},
		"scope":         {strings.Join(network.OAuthScopes, ",")},
		"state":         {state},
		"response_type": {"code"},
	}
	return cfg.DialogURL + "?" + q.Encode(), nil
}

type page struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	AccessToken string `json:"access_token"`
}

type businessAccount struct {
	ID                string `json:"id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	ProfilePictureURL string `json:"profile_picture_url"`
	FollowersCount    int    `json:"followers_count"`
	FollowsCount      int    `json:"follows_count"`
	MediaCount        int    `json:"media_count"`
}

// Complete exchanges the code for a long-lived token and returns the first
// Instagram business account linked to the user's pages.
func (c *Connector) Complete(ctx context.Context, code string) (*store.SocialAccount, error) {
	cfg := c.graph.cfg
	if cfg.AppID == "" {
		return nil, ErrAppNotConfigured
	}

	var short tokenResponse
	err := c.graph.get(ctx, "/oauth/access_token", url.Values{
		"client_id":     {cfg.AppID},
		"client_secret": {cfg.AppSecret},
		"redirect_uri":  {c.redirectURI()},
		"code":          {code},
	}, &short)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange code: %w", err)
	}

	long, err := c.graph.exchangeLongLived(ctx, short.AccessToken)
	if err != nil {
		return nil, err
	}

	var pages struct {
		Data []page `json:"data"`
	}
	err = c.graph.get(ctx, "/me/accounts", url.Values{
		"fields":       {"id,name,access_token"},
		"access_token": {long.AccessToken},
	}, &pages)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}

	for _, p := range pages.Data {
		var linked struct {
			Account *businessAccount `json:"instagram_business_account"`
		}
		err := c.graph.get(ctx, "/"+p.ID, url.Values{
			"fields":       {"instagram_business_account{id,username,name,profile_picture_url,followers_count,follows_count,media_count}"},
			"access_token": {p.AccessToken},
		}, &linked)
		if err != nil {
			return nil, fmt.Errorf("failed to read page %s: %w", p.ID, err)
		}
		if linked.Account == nil {
			continue
		}

		ig := linked.Account
		aux, err := json.Marshal(map[string]string{"page_id": p.ID, "page_name": p.Name})
		if err != nil {
			return nil, err
		}
		account := &store.SocialAccount{
			PlatformAccountID: ig.ID,
			Username:          ig.Username,
			AccessToken:       long.AccessToken,
			TokenExpiresAt:    long.expiresAt(c.now()),
			AuxiliaryIDs:      types.JSONText(aux),
			FollowersCount:    ig.FollowersCount,
			FollowingCount:    ig.FollowsCount,
			PostsCount:        ig.MediaCount,
			ConnectionStatus:  store.ConnectionConnected,
		}
		if ig.Name != "" {
			account.DisplayName = &ig.Name
		}
		if ig.ProfilePictureURL != "" {
			account.ProfilePictureURL = &ig.ProfilePictureURL
		}
		return account, nil
	}

	return nil, ErrNoBusinessAccount
}

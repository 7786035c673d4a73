package socialflow

import (
	"context"
	"fmt"

	"github.com/humanosaude/portal/internal/logger"
	"github.com/humanosaude/portal/internal/store"
)

const component = "SocialFlow"

// UnsupportedNetworkError is returned for networks without a connector.
type UnsupportedNetworkError struct {
	Network string
}

func (e *UnsupportedNetworkError) Error() string {
	return fmt.Sprintf("Rede %s ainda não suportada", e.Network)
}

// Connector runs the OAuth dance for one network.
type Connector interface {
	Network() string
	AuthURL(state string) (string, error)
	// Complete exchanges the authorization code for a connected account.
	Complete(ctx context.Context, code string) (*store.SocialAccount, error)
}

type OAuth struct {
	connectors map[string]Connector
	states     StateStore
	log        *logger.Logger
}

func NewOAuth(states StateStore, log *logger.Logger, connectors ...Connector) *OAuth {
	o := &OAuth{connectors: make(map[string]Connector, len(connectors)), states: states, log: log}
	for _, c := range connectors {
		o.connectors[c.Network()] = c
	}
	return o
}

// Begin issues a state for the caller and returns the network's
// authorization URL.
func (o *OAuth) Begin(ctx context.Context, network, userID string) (string, error) {
	c, ok := o.connectors[network]
	if !ok {
		return "", &UnsupportedNetworkError{Network: network}
	}

	state, err := NewState(userID, network)
	if err != nil {
		return "", err
	}
	url, err := c.AuthURL(state)
	if err != nil {
		return "", err
	}
	if err := o.states.Save(ctx, state, StateTTL); err != nil {
		return "", err
	}

	o.log.Info(component, "oauth started: network=%s user=%s", network, userID)
	return url, nil
}

// Complete validates and consumes the state, then finishes the exchange.
// The returned account carries the user and network taken from the state.
func (o *OAuth) Complete(ctx context.Context, code, state string) (*store.SocialAccount, error) {
	userID, network, err := ParseState(state)
	if err != nil {
		return nil, err
	}
	ok, err := o.states.Consume(ctx, state)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidState
	}

	c, found := o.connectors[network]
	if !found {
		return nil, &UnsupportedNetworkError{Network: network}
	}
	if code == "" {
		return nil, fmt.Errorf("código de autorização ausente")
	}

	account, err := c.Complete(ctx, code)
	if err != nil {
		return nil, err
	}
	account.UserID = userID
	account.Network = network

	o.log.Info(component, "oauth completed: network=%s user=%s account=%s", network, userID, account.Username)
	return account, nil
}

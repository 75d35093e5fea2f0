package client

import (
	"context"
	"errors"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/naveenspark/uitam/pkg/domain"
)

const (
	loginPath      = "/auth/login"
	introspectPath = "/auth/test-token"
)

// ExchangeCredentials trades a username and password for a bearer token.
// The body is form-encoded as an OAuth2 password grant.
func (c *Client) ExchangeCredentials(ctx context.Context, username, password string) (string, error) {
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + loginPath,
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	tok, err := conf.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var re *oauth2.RetrieveError
		if errors.As(err, &re) && re.Response != nil {
			return "", c.newError(OpLogin, re.Response.StatusCode, re.Body, err)
		}
		return "", c.newError(OpLogin, 0, nil, err)
	}
	if tok.AccessToken == "" {
		return "", c.newError(OpLogin, 0, nil, errors.New("empty access token"))
	}
	c.logger.Debug().Str("token_type", tok.TokenType).Msg("credentials exchanged")
	return tok.AccessToken, nil
}

// Introspect asks the server who token belongs to. The token is sent
// explicitly, independent of the client's TokenSource. A 2xx response without
// a user (empty, null or id 0) is an error.
func (c *Client) Introspect(ctx context.Context, token string) (*domain.User, error) {
	header := http.Header{}
	header.Set("Authorization", "Bearer "+token)

	var u *domain.User
	if err := c.doRequest(ctx, OpIntrospect, http.MethodGet, introspectPath, header, nil, &u); err != nil {
		return nil, err
	}
	if u == nil || u.ID == 0 {
		return nil, c.newError(OpIntrospect, 0, nil, errors.New("response carries no user"))
	}
	return u, nil
}

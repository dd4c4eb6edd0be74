package fedex

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/render"
	"github.com/relay-resources/shipbulk/core"
)

type accessToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Authenticate exchanges the configured client credentials for a bearer
// token. The token is valid for about an hour, which outlives any batch;
// nothing here refreshes it. Any failure is fatal at the caller: no order
// can be shipped without a token.
func (c *Client) Authenticate(ctx context.Context) (string, error) {
	reqData := url.Values{}
	reqData.Set("grant_type", "client_credentials")
	reqData.Set("client_id", c.apiKey)
	reqData.Set("client_secret", c.apiSecret)

	tokenReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/oauth/token",
		strings.NewReader(reqData.Encode()),
	)
	if err != nil {
		return "", fmt.Errorf("%w: failed to create token request: %w", core.ErrAuthentication, err)
	}
	tokenReq.Header.Add("Content-Type", "application/x-www-form-urlencoded")
	tokenReq.Header.Add("Accept", "application/json")

	tokenResp, err := c.http.Do(tokenReq)
	if err != nil {
		return "", fmt.Errorf("%w: failed to retrieve token data: %w", core.ErrAuthentication, err)
	}
	defer tokenResp.Body.Close()

	if tokenResp.StatusCode < 200 || tokenResp.StatusCode > 299 {
		return "", fmt.Errorf(
			"%w: token endpoint returned status %d",
			core.ErrAuthentication,
			tokenResp.StatusCode,
		)
	}

	tokenData := accessToken{}
	err = render.DecodeJSON(tokenResp.Body, &tokenData)
	if err != nil {
		return "", fmt.Errorf("%w: cannot decode token response: %w", core.ErrAuthentication, err)
	}
	if len(tokenData.AccessToken) == 0 {
		return "", fmt.Errorf("%w: token response contained no access token", core.ErrAuthentication)
	}

	slog.Debug("Token request complete", "token_type", tokenData.TokenType, "expires_in", tokenData.ExpiresIn)

	return tokenData.AccessToken, nil
}

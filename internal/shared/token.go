package shared

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// ParseAccessToken extracts an implicit-grant token from a redirect URL or its fragment.
//
// Accepts a full callback URL ("https://host/Sortify/callback#access_token=..."), a bare
// fragment ("#access_token=...") or the fragment body itself. expires_in, when present,
// is resolved against now.
func ParseAccessToken(raw string, now time.Time) (*oauth2.Token, error) {
	fragment := strings.TrimSpace(raw)
	if idx := strings.Index(fragment, "#"); idx >= 0 {
		fragment = fragment[idx+1:]
	}

	values, err := url.ParseQuery(fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: malformed fragment: %v", ErrInvalidInput, err)
	}

	accessToken := values.Get("access_token")
	if accessToken == "" {
		return nil, ErrNoAccessToken
	}

	token := &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   values.Get("token_type"),
	}

	if exp := values.Get("expires_in"); exp != "" {
		secs, err := strconv.Atoi(exp)
		if err != nil || secs < 0 {
			return nil, fmt.Errorf("%w: expires_in must be a non-negative integer", ErrInvalidInput)
		}
		token.Expiry = now.Add(time.Duration(secs) * time.Second)
	}

	return token, nil
}

package backend

import (
	"github.com/ticketzen/go-web-gateway/token"
	"golang.org/x/oauth2"
)

// pairToken maps a backend token pair onto an oauth2.Token, reading the
// expiry out of the access token's claims so callers can see how long the
// credential is good for without another round trip.
func pairToken(access, refresh string) *oauth2.Token {
	return &oauth2.Token{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		Expiry:       token.Expiry(access),
	}
}

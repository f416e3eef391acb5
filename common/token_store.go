package common

// Slot names the token pair is persisted under.
const (
	SlotAccessToken  = "access_token"
	SlotRefreshToken = "refresh_token"
)

// TokenStore is the credential accessor shared by the gateway and the session.
// It does not decide when tokens are created or destroyed; that belongs to the caller.
//
// Implementations must replace both tokens together: after SetTokens returns nil,
// AccessToken and RefreshToken report the new pair, and after it returns an error
// they still report the old one.
type TokenStore interface {
	AccessToken() (string, bool)
	RefreshToken() (string, bool)
	SetTokens(access, refresh string) error
	Clear() error
}

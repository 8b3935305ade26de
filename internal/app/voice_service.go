package app

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

// VoiceService signs short-lived access tokens for a room's voice channel.
// Token shape follows the Vivox access-token format so stock game clients can
// hand them straight to the voice SDK.
type VoiceService struct {
	secret string
	issuer string
	domain string
	expiry time.Duration
}

const (
	VoiceTokenActionLogin = "login"
	VoiceTokenActionJoin  = "join"
)

// NewVoiceService constructs a VoiceService for the given signing
// credentials. expiry bounds token lifetime; zero means one hour.
func NewVoiceService(secret, issuer, domain string, expiry time.Duration) *VoiceService {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &VoiceService{secret: secret, issuer: issuer, domain: domain, expiry: expiry}
}

// GenerateToken signs a token allowing user to perform action; join tokens
// are scoped to the room's channel.
func (s *VoiceService) GenerateToken(user, action, roomCode string) (string, error) {
	if s == nil {
		return "", fmt.Errorf("voice service is nil")
	}
	if user == "" {
		return "", fmt.Errorf("user is required")
	}
	if s.secret == "" || s.issuer == "" || s.domain == "" {
		return "", fmt.Errorf("voice config is incomplete")
	}

	userURI := s.userURI(user)
	targetURI, err := s.targetURI(action, roomCode, userURI)
	if err != nil {
		return "", err
	}

	claims := jwt.MapClaims{
		"iss": s.issuer,
		"sub": user,
		"exp": time.Now().Add(s.expiry).Unix(),
		"vxa": action,
		"vxi": fmt.Sprintf("%d-%d", time.Now().UnixNano(), rand.Int63()),
		"f":   userURI,
		"t":   targetURI,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.secret))
}

func (s *VoiceService) userURI(user string) string {
	return "sip:." + s.issuer + "." + user + ".@" + s.domain
}

func (s *VoiceService) channelURI(roomCode string) string {
	return "sip:confctl-g-" + roomCode + "@" + s.domain
}

func (s *VoiceService) targetURI(action, roomCode, userURI string) (string, error) {
	switch action {
	case VoiceTokenActionLogin:
		return userURI, nil
	case VoiceTokenActionJoin:
		if roomCode == "" {
			return "", fmt.Errorf("room code is required for join tokens")
		}
		return s.channelURI(roomCode), nil
	default:
		return "", fmt.Errorf("unsupported voice action: %s", action)
	}
}

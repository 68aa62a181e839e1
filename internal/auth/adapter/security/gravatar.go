package security

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
)

const gravatarBaseURL = "https://www.gravatar.com/avatar/"

// Gravatar builds avatar URLs following the gravatar.com hashing convention.
type Gravatar struct {
	size     int
	rating   string
	fallback string
}

// NewGravatar creates a resolver with the given size, rating and default image.
func NewGravatar(size int, rating, fallback string) *Gravatar {
	return &Gravatar{size: size, rating: rating, fallback: fallback}
}

// AvatarURL returns the avatar URL for email.
func (g *Gravatar) AvatarURL(email string) string {
	sum := md5.Sum([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("%s%s?s=%d&r=%s&d=%s",
		gravatarBaseURL,
		hex.EncodeToString(sum[:]),
		g.size,
		url.QueryEscape(g.rating),
		url.QueryEscape(g.fallback),
	)
}

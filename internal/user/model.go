package user

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

type Subscription string

const (
	SubscriptionStarter  Subscription = "starter"
	SubscriptionPro      Subscription = "pro"
	SubscriptionBusiness Subscription = "business"
)

type User struct {
	ID                string       `json:"id"`
	Email             string       `json:"email"`
	PasswordHash      string       `json:"-"` // never return
	Subscription      Subscription `json:"subscription"`
	Token             *string      `json:"-"`
	AvatarURL         string       `json:"avatarURL"`
	VerificationToken *string      `json:"-"`
	Verify            bool         `json:"verify"`
	CreatedAt         time.Time    `json:"createdAt"`
}

// Public is the part of a user echoed back by the API.
type Public struct {
	Email        string       `json:"email"`
	Subscription Subscription `json:"subscription"`
}

func (u *User) Public() Public {
	return Public{Email: u.Email, Subscription: u.Subscription}
}

// HasToken reports whether token is the user's current bearer token.
func (u *User) HasToken(token string) bool {
	return u.Token != nil && token != "" && *u.Token == token
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// LocalPart returns the part of the address before '@'.
func LocalPart(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// GravatarURL is the default avatar for an address.
func GravatarURL(email string, size int) string {
	sum := md5.Sum([]byte(NormalizeEmail(email)))
	return fmt.Sprintf("https://www.gravatar.com/avatar/%s?s=%d&d=identicon", hex.EncodeToString(sum[:]), size)
}

package httpserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/coder/quartz"
	"github.com/golang-jwt/jwt/v5"

	"github.com/robalobadob/letterwheel/internal/letters"
)

const shareIssuer = "letterwheel"

var errInvalidShare = errors.New("invalid share code")

// shareCodec signs layouts into HS256 share codes so a puzzle can be
// replayed by another player without exposing its answers.
type shareCodec struct {
	secret []byte
	clock  quartz.Clock
}

func (c shareCodec) Sign(l letters.Layout) (string, error) {
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"iss":     shareIssuer,
		"iat":     c.clock.Now().Unix(),
		"letters": l.String(),
	})
	return t.SignedString(c.secret)
}

func (c shareCodec) Parse(code string) (letters.Layout, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(code, claims, func(t *jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(shareIssuer),
		jwt.WithTimeFunc(func() time.Time { return c.clock.Now() }),
	)
	if err != nil {
		return letters.Layout{}, fmt.Errorf("%w: %w", errInvalidShare, err)
	}
	s, _ := claims["letters"].(string)
	l, err := letters.ParseLayout(s)
	if err != nil {
		return letters.Layout{}, fmt.Errorf("%w: %w", errInvalidShare, err)
	}
	return l, nil
}

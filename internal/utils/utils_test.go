package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	tok, err := NewAccessToken("s", 17, "ADMIN", 10)
	if err != nil {
		t.Fatal(err)
	}
	id, role, err := ParseAccessToken("s", tok.Token)
	if err != nil || id != 17 || role != "ADMIN" {
		t.Fatalf("parsed %d %q %v", id, role, err)
	}
	if _, _, err := ParseAccessToken("other", tok.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: %v", err)
	}
}

func TestRefreshTokenHashing(t *testing.T) {
	a, err := NewRefreshToken(7)
	if err != nil {
		t.Fatal(err)
	}
	b, _ := NewRefreshToken(7)
	if a.Raw == b.Raw || len(a.Raw) != 96 {
		t.Fatalf("weak tokens %q %q", a.Raw, b.Raw)
	}
	if HashRefreshRaw(a.Raw) != HashRefreshRaw(a.Raw) || HashRefreshRaw(a.Raw) == HashRefreshRaw(b.Raw) {
		t.Fatal("hash not deterministic per token")
	}
}

func TestPassword(t *testing.T) {
	h, err := HashPassword("correct horse", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	if !VerifyPassword(h, "correct horse") || VerifyPassword(h, "wrong") {
		t.Fatal("verify mismatch")
	}
}

type hotelForm struct {
	Name    string  `json:"name" validate:"required"`
	Website *string `json:"website_url" validate:"omitempty,httpurl"`
	Rating  int     `json:"rating" validate:"min=1,max=5"`
}

func TestRequestValidatorMessages(t *testing.T) {
	v := NewRequestValidator()
	ftp := "ftp://x.example"
	err := v.Validate(&hotelForm{Website: &ftp, Rating: 9})
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("got %T", err)
	}
	msg, _ := he.Message.(string)
	for _, want := range []string{"name is required", "website_url must be an http(s) URL", "rating must be at most 5"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q lacks %q", msg, want)
		}
	}
	ok := "https://x.example/path"
	if err := v.Validate(&hotelForm{Name: "a", Website: &ok, Rating: 3}); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
}

package jwt

import (
	"errors"
	"testing"
	"time"

	"github.com/Anish-2005/Exam-Syllabus-Tracker-sub000/config"
)

func newTestManager() *Manager {
	return NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		Issuer:         "syllabus-tracker",
		AccessTokenTTL: 15 * time.Minute,
	})
}

func TestGenerateAndParseAccessToken(t *testing.T) {
	m := newTestManager()

	token, err := m.GenerateAccessToken("uid-1", "student@college.edu", "Student", "https://img/1.png")
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}

	claims, err := m.ParseToken(token)
	if err != nil {
		t.Fatalf("ParseToken 失败: %v", err)
	}

	if claims.UID != "uid-1" {
		t.Errorf("期望 UID=uid-1，实际=%s", claims.UID)
	}
	if claims.Email != "student@college.edu" {
		t.Errorf("期望 Email=student@college.edu，实际=%s", claims.Email)
	}
	if claims.DisplayName != "Student" || claims.PhotoURL != "https://img/1.png" {
		t.Errorf("DisplayName/PhotoURL 未保留: %+v", claims)
	}
	if claims.Issuer != "syllabus-tracker" {
		t.Errorf("期望 Issuer=syllabus-tracker，实际=%s", claims.Issuer)
	}
	if claims.ID == "" {
		t.Error("JTI 不应为空")
	}
}

func TestParseToken_Expired(t *testing.T) {
	m := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		Issuer:         "syllabus-tracker",
		AccessTokenTTL: -time.Minute,
	})

	token, err := m.GenerateAccessToken("uid-1", "a@b.c", "", "")
	if err != nil {
		t.Fatalf("GenerateAccessToken 失败: %v", err)
	}
	if _, err := m.ParseToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("期望 ErrTokenExpired，实际: %v", err)
	}
}

func TestParseToken_WrongSecret(t *testing.T) {
	token, _ := newTestManager().GenerateAccessToken("uid-1", "a@b.c", "", "")

	other := NewManager(&config.AuthConfig{
		JWTSecret:      "another-secret-key-for-testing-2026",
		Issuer:         "syllabus-tracker",
		AccessTokenTTL: time.Minute,
	})
	if _, err := other.ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_WrongIssuer(t *testing.T) {
	foreign := NewManager(&config.AuthConfig{
		JWTSecret:      "test-secret-key-for-unit-testing-2026",
		Issuer:         "someone-else",
		AccessTokenTTL: time.Minute,
	})
	token, _ := foreign.GenerateAccessToken("uid-1", "a@b.c", "", "")

	if _, err := newTestManager().ParseToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("签发方不符应为 ErrTokenInvalid，实际: %v", err)
	}
}

func TestParseToken_Garbage(t *testing.T) {
	if _, err := newTestManager().ParseToken("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("期望 ErrTokenInvalid，实际: %v", err)
	}
}

package identity_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prasannakumar9i/blockChain-Attedence-app-main/internal/identity"
)

func newTestTokenIssuer(t *testing.T) *identity.TokenIssuer {
	t.Helper()
	return identity.NewTokenIssuer([]byte("test-signing-secret"), "http://ledger.test", time.Hour)
}

func TestTokenIssuer_Issue(t *testing.T) {
	ti := newTestTokenIssuer(t)

	token, err := ti.Issue(identity.ScopeOperator)
	if err != nil {
		t.Fatalf("Issue() error: %v", err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Errorf("expected 3-part JWT, got %d parts", len(parts))
	}
}

func TestTokenIssuer_Verify_valid(t *testing.T) {
	ti := newTestTokenIssuer(t)

	token, err := ti.Issue(identity.ScopeOperator)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ti.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error: %v", err)
	}
	if claims.Scope != identity.ScopeOperator {
		t.Errorf("Scope: got %q, want %q", claims.Scope, identity.ScopeOperator)
	}
	if claims.Subject != "operator" {
		t.Errorf("Subject: got %q, want %q", claims.Subject, "operator")
	}
	if claims.Issuer != "http://ledger.test" {
		t.Errorf("Issuer: got %q, want %q", claims.Issuer, "http://ledger.test")
	}
}

func TestTokenIssuer_Verify_expired(t *testing.T) {
	// A 1-nanosecond TTL is expired by the time Verify runs.
	ti := identity.NewTokenIssuer([]byte("test-signing-secret"), "http://ledger.test", time.Nanosecond)

	token, err := ti.Issue(identity.ScopeOperator)
	if err != nil {
		t.Fatal(err)
	}

	time.Sleep(2 * time.Millisecond)

	if _, err := ti.Verify(token); err == nil {
		t.Error("expected error for expired token, got nil")
	}
}

func TestTokenIssuer_Verify_wrongSecret(t *testing.T) {
	a := identity.NewTokenIssuer([]byte("secret-a"), "http://ledger.test", time.Hour)
	b := identity.NewTokenIssuer([]byte("secret-b"), "http://ledger.test", time.Hour)

	token, err := a.Issue(identity.ScopeOperator)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Verify(token); err == nil {
		t.Error("expected error for token signed with another secret, got nil")
	}
}

func TestTokenIssuer_Verify_wrongIssuer(t *testing.T) {
	a := identity.NewTokenIssuer([]byte("test-signing-secret"), "http://ledger-a.test", time.Hour)
	b := identity.NewTokenIssuer([]byte("test-signing-secret"), "http://ledger-b.test", time.Hour)

	token, err := a.Issue(identity.ScopeOperator)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Verify(token); err == nil {
		t.Error("expected error for wrong issuer, got nil")
	}
}

func newGuardedRouter(ti *identity.TokenIssuer) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/guarded", identity.RequireOperator(ti), func(c *gin.Context) {
		if identity.OperatorFromCtx(c) == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "claims missing from context"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return r
}

func TestRequireOperator(t *testing.T) {
	ti := newTestTokenIssuer(t)
	r := newGuardedRouter(ti)

	cases := []struct {
		name       string
		authHeader string
		wantStatus int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not.a.jwt", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tc.wantStatus {
				t.Errorf("status: got %d, want %d", w.Code, tc.wantStatus)
			}
		})
	}

	t.Run("wrong scope", func(t *testing.T) {
		token, err := ti.Issue("something:else")
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusForbidden {
			t.Errorf("status: got %d, want %d", w.Code, http.StatusForbidden)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := ti.Issue(identity.ScopeOperator)
		if err != nil {
			t.Fatal(err)
		}
		req := httptest.NewRequest(http.MethodPost, "/guarded", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
		}
	})
}

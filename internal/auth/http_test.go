package auth_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"TrailStore/internal/auth"
)

const tokenTTLForTest = 15 * time.Minute

func newAuthTS(t *testing.T) *httptest.Server {
	t.Helper()

	s := &auth.Server{
		Log:   zap.NewNop(),
		Store: auth.NewMemStore(),
		JWT:   auth.NewTokenMaker("test-secret"),
	}
	h := auth.NewHandler(s, auth.HTTPDeps{Log: zap.NewNop(), Service: "auth"})

	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url string, body any) (*http.Response, []byte) {
	t.Helper()

	b, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	resp, err := http.Post(url, "application/json", bytes.NewReader(b))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, raw
}

func TestAuth_RegisterLoginWhoami(t *testing.T) {
	ts := newAuthTS(t)

	resp, raw := postJSON(t, ts.URL+"/auth/register", map[string]string{
		"username": "Alice", "password": "correct horse",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status=%d body=%s", resp.StatusCode, raw)
	}

	// Username match is case-insensitive on login.
	resp, raw = postJSON(t, ts.URL+"/auth/login", map[string]string{
		"username": "alice", "password": "correct horse",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login status=%d body=%s", resp.StatusCode, raw)
	}

	var login struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(raw, &login); err != nil {
		t.Fatalf("unmarshal login: %v", err)
	}
	if login.AccessToken == "" {
		t.Fatal("no access token")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/auth/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	wresp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	defer wresp.Body.Close()

	if wresp.StatusCode != http.StatusOK {
		t.Fatalf("whoami status=%d", wresp.StatusCode)
	}
	var who struct {
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(wresp.Body).Decode(&who); err != nil {
		t.Fatalf("decode whoami: %v", err)
	}
	if who.Username != "alice" || who.Role != auth.RoleUser {
		t.Fatalf("whoami = %+v", who)
	}
}

func TestAuth_RegisterDuplicate(t *testing.T) {
	ts := newAuthTS(t)

	creds := map[string]string{"username": "bob", "password": "longenough"}
	if resp, raw := postJSON(t, ts.URL+"/auth/register", creds); resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register status=%d body=%s", resp.StatusCode, raw)
	}

	resp, _ := postJSON(t, ts.URL+"/auth/register", creds)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate status=%d, want 409", resp.StatusCode)
	}
}

func TestAuth_RegisterShortPassword(t *testing.T) {
	ts := newAuthTS(t)

	resp, _ := postJSON(t, ts.URL+"/auth/register", map[string]string{
		"username": "carol", "password": "short",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", resp.StatusCode)
	}
}

func TestAuth_LoginBadCredentials(t *testing.T) {
	ts := newAuthTS(t)

	postJSON(t, ts.URL+"/auth/register", map[string]string{
		"username": "dave", "password": "longenough",
	})

	resp, _ := postJSON(t, ts.URL+"/auth/login", map[string]string{
		"username": "dave", "password": "wrongwrong",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("wrong password: status=%d, want 401", resp.StatusCode)
	}

	resp, _ = postJSON(t, ts.URL+"/auth/login", map[string]string{
		"username": "nobody", "password": "whatever12",
	})
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unknown user: status=%d, want 401", resp.StatusCode)
	}
}

func TestAuth_WhoamiRejectsGarbage(t *testing.T) {
	ts := newAuthTS(t)

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/auth/whoami", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", resp.StatusCode)
	}
}

func TestTokenMaker_RoundTrip(t *testing.T) {
	jwt := auth.NewTokenMaker("test-secret")

	tok, err := jwt.New("u_1", "alice", auth.RoleAdmin, tokenTTLForTest)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}

	claims, err := jwt.Parse(tok)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if claims.UserID != "u_1" || claims.Role != auth.RoleAdmin {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := auth.NewTokenMaker("other-secret").Parse(tok); err == nil {
		t.Fatal("token accepted with wrong secret")
	}
}

func TestTokenMaker_Expired(t *testing.T) {
	jwt := auth.NewTokenMaker("test-secret")

	tok, err := jwt.New("u_1", "alice", auth.RoleUser, -tokenTTLForTest)
	if err != nil {
		t.Fatalf("new token: %v", err)
	}
	if _, err := jwt.Parse(tok); err == nil {
		t.Fatal("expired token accepted")
	}
}

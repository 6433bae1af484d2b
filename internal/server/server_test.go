package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ghaggin/eduarchive/internal/account"
	"github.com/ghaggin/eduarchive/internal/auth"
	"github.com/ghaggin/eduarchive/internal/config"
	"github.com/ghaggin/eduarchive/internal/metrics"
	"github.com/ghaggin/eduarchive/internal/middleware"
	"github.com/ghaggin/eduarchive/internal/payment"
	"github.com/ghaggin/eduarchive/internal/repository"
	"github.com/ghaggin/eduarchive/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T, opts ...func(*config.Config)) http.Handler {
	t.Helper()
	require := require.New(t)

	dir := t.TempDir()
	cfg := &config.Config{
		Env:        config.EnvDevelopment,
		Server:     config.Server{Addr: "localhost:0", AuthRateLimit: 1000},
		Auth:       config.Auth{JWTSecret: testSecret, Issuer: "eduarchive"},
		Repository: config.Repository{Driver: "json", Path: filepath.Join(dir, "users.json")},
		Storage:    config.Storage{Driver: "local", Dir: filepath.Join(dir, "uploads")},
		Seed: []config.SeedUser{
			{Email: "user@example.com", Name: "Regular User", Password: "password", Role: "user", Subscription: "free"},
			{Email: "admin@example.com", Name: "Admin User", Password: "password", Role: "admin", Subscription: "premium"},
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}
	log := zap.NewNop()

	repo, err := repository.New(repository.Params{LC: fxtest.NewLifecycle(t), Config: cfg, Log: log})
	require.Nil(err)

	accounts, err := account.NewController(account.ControllerParams{Logger: log, Repo: repo})
	require.Nil(err)
	require.Nil(accounts.Seed(context.Background(), cfg.Seed))

	issuer, err := auth.NewIssuerFromConfig(auth.Params{Config: cfg, Log: log})
	require.Nil(err)
	binder := auth.NewBinderFromConfig(cfg)

	store, err := storage.New(cfg)
	require.Nil(err)

	checkout, err := middleware.NewSessionManager(cfg)
	require.Nil(err)

	m := metrics.New()
	s, err := New(Params{
		Log:      log,
		Config:   cfg,
		Issuer:   issuer,
		Binder:   binder,
		Accounts: accounts,
		Payments: payment.NewGateway(cfg, log),
		Store:    store,
		Metrics:  m,
		Gate:     middleware.NewGate(m, log),
		Authn:    middleware.NewAuthn(issuer, binder, log),
		Checkout: checkout,
	})
	require.Nil(err)

	return s.server.Handler
}

// jar keeps the cookies a browser would send back.
type jar map[string]*http.Cookie

func (j jar) update(rr *httptest.ResponseRecorder) {
	for _, c := range rr.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(j, c.Name)
			continue
		}
		j[c.Name] = c
	}
}

func (j jar) apply(r *http.Request) {
	for _, c := range j {
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
}

func serve(h http.Handler, r *http.Request, j jar) *httptest.ResponseRecorder {
	r.RemoteAddr = "192.0.2.1:1234"
	if j != nil {
		j.apply(r)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, r)
	if j != nil {
		j.update(rr)
	}
	return rr
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.Nil(t, json.NewEncoder(&buf).Encode(body))
	}
	r, err := http.NewRequest(method, path, &buf)
	require.Nil(t, err)
	r.Header.Set("Content-Type", "application/json")
	return r
}

func login(t *testing.T, h http.Handler, email string) jar {
	t.Helper()

	j := jar{}
	rr := serve(h, jsonRequest(t, "POST", "/login", map[string]string{"email": email, "password": "password"}), j)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	return j
}

type userBody struct {
	User struct {
		ID           string `json:"id"`
		Email        string `json:"email"`
		Name         string `json:"name"`
		Role         string `json:"role"`
		Subscription string `json:"subscription"`
	} `json:"user"`
}

func decodeUser(t *testing.T, rr *httptest.ResponseRecorder) userBody {
	t.Helper()

	var body userBody
	require.Nil(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestLogin(t *testing.T) {
	h := newTestHandler(t)

	t.Run("missing fields", func(t *testing.T) {
		assert := assert.New(t)

		rr := serve(h, jsonRequest(t, "POST", "/login", map[string]string{"email": "user@example.com"}), nil)
		assert.Equal(http.StatusBadRequest, rr.Code)
		assert.JSONEq(`{"error":"Email and password are required"}`, rr.Body.String())
	})

	t.Run("wrong password", func(t *testing.T) {
		assert := assert.New(t)

		rr := serve(h, jsonRequest(t, "POST", "/login", map[string]string{"email": "user@example.com", "password": "nope"}), nil)
		assert.Equal(http.StatusUnauthorized, rr.Code)
		assert.JSONEq(`{"error":"Invalid email or password"}`, rr.Body.String())
		assert.Empty(rr.Result().Cookies())
	})

	t.Run("unknown email", func(t *testing.T) {
		rr := serve(h, jsonRequest(t, "POST", "/login", map[string]string{"email": "ghost@example.com", "password": "password"}), nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})

	t.Run("success", func(t *testing.T) {
		assert := assert.New(t)

		j := jar{}
		rr := serve(h, jsonRequest(t, "POST", "/login", map[string]string{"email": "user@example.com", "password": "password"}), j)
		assert.Equal(http.StatusOK, rr.Code)

		body := decodeUser(t, rr)
		assert.Equal("user@example.com", body.User.Email)
		assert.Equal("user", body.User.Role)
		assert.Equal("free", body.User.Subscription)

		require.Contains(t, j, auth.TokenCookie)
		require.Contains(t, j, auth.RoleCookie)
		assert.Equal("user", j[auth.RoleCookie].Value)
		assert.True(j[auth.TokenCookie].HttpOnly)
		assert.Equal(604800, j[auth.TokenCookie].MaxAge)
	})

	t.Run("form post redirects admin", func(t *testing.T) {
		assert := assert.New(t)

		form := url.Values{"email": {"admin@example.com"}, "password": {"password"}}
		r, err := http.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
		require.Nil(t, err)
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := serve(h, r, nil)
		assert.Equal(http.StatusSeeOther, rr.Code)
		assert.Equal("/admin/dashboard", rr.Result().Header.Get("Location"))
	})

	t.Run("form post failure renders page", func(t *testing.T) {
		assert := assert.New(t)

		form := url.Values{"email": {"admin@example.com"}, "password": {"wrong"}}
		r, err := http.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
		require.Nil(t, err)
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		rr := serve(h, r, nil)
		assert.Equal(http.StatusUnauthorized, rr.Code)
		assert.Contains(rr.Body.String(), "Invalid email or password")
	})
}

func TestRegister(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	h := newTestHandler(t)
	req := map[string]string{"name": "New Student", "email": "new@example.com", "password": "longenough"}

	j := jar{}
	rr := serve(h, jsonRequest(t, "POST", "/register", req), j)
	require.Equal(http.StatusCreated, rr.Code, rr.Body.String())
	body := decodeUser(t, rr)
	assert.Equal("New Student", body.User.Name)
	assert.Equal("user", body.User.Role)
	assert.Equal("free", body.User.Subscription)
	assert.Contains(j, auth.TokenCookie)

	rr = serve(h, jsonRequest(t, "POST", "/register", req), nil)
	assert.Equal(http.StatusConflict, rr.Code)
	assert.JSONEq(`{"error":"User with this email already exists"}`, rr.Body.String())

	rr = serve(h, jsonRequest(t, "POST", "/register", map[string]string{"email": "x@example.com"}), nil)
	assert.Equal(http.StatusBadRequest, rr.Code)

	rr = serve(h, jsonRequest(t, "POST", "/register", map[string]string{"name": "x", "email": "x@example.com", "password": "short"}), nil)
	assert.Equal(http.StatusBadRequest, rr.Code)
	assert.JSONEq(`{"error":"Password must be at least 8 characters"}`, rr.Body.String())

	// The new account can sign in.
	login(t, h, "new@example.com")
}

func TestMe(t *testing.T) {
	h := newTestHandler(t)

	t.Run("no token is stopped by the gate", func(t *testing.T) {
		assert := assert.New(t)

		rr := serve(h, jsonRequest(t, "GET", "/api/auth/me", nil), nil)
		assert.Equal(http.StatusTemporaryRedirect, rr.Code)
		assert.Equal("/login", rr.Result().Header.Get("Location"))
	})

	t.Run("invalid token", func(t *testing.T) {
		assert := assert.New(t)

		j := jar{
			auth.TokenCookie: {Name: auth.TokenCookie, Value: "forged"},
			auth.RoleCookie:  {Name: auth.RoleCookie, Value: "admin"},
		}
		rr := serve(h, jsonRequest(t, "GET", "/api/auth/me", nil), j)
		assert.Equal(http.StatusUnauthorized, rr.Code)
		assert.JSONEq(`{"error":"Not authenticated"}`, rr.Body.String())
		assert.Empty(j)
	})

	t.Run("valid token", func(t *testing.T) {
		assert := assert.New(t)

		j := login(t, h, "admin@example.com")
		rr := serve(h, jsonRequest(t, "GET", "/api/auth/me", nil), j)
		assert.Equal(http.StatusOK, rr.Code)
		body := decodeUser(t, rr)
		assert.Equal("admin", body.User.Role)
		assert.Equal("premium", body.User.Subscription)
	})
}

func TestLogout(t *testing.T) {
	assert := assert.New(t)

	h := newTestHandler(t)
	j := login(t, h, "user@example.com")

	rr := serve(h, jsonRequest(t, "POST", "/api/auth/logout", nil), j)
	assert.Equal(http.StatusOK, rr.Code)
	assert.JSONEq(`{"message":"Logged out successfully"}`, rr.Body.String())
	assert.Empty(j)

	for _, v := range rr.Result().Header.Values("Set-Cookie") {
		assert.Contains(v, "Max-Age=0")
	}
}

func TestPages(t *testing.T) {
	h := newTestHandler(t)
	user := login(t, h, "user@example.com")
	admin := login(t, h, "admin@example.com")

	// forged carries a real user token with a role cookie claiming admin.
	forged := jar{
		auth.TokenCookie: user[auth.TokenCookie],
		auth.RoleCookie:  {Name: auth.RoleCookie, Value: "admin"},
	}

	tests := []struct {
		name     string
		path     string
		jar      jar
		status   int
		location string
	}{
		{"home anonymous", "/", nil, http.StatusOK, ""},
		{"contact anonymous", "/contact", nil, http.StatusOK, ""},
		{"dashboard anonymous", "/dashboard", nil, http.StatusTemporaryRedirect, "/login"},
		{"dashboard user", "/dashboard", user, http.StatusOK, ""},
		{"admin dashboard user", "/admin/dashboard", user, http.StatusTemporaryRedirect, "/dashboard"},
		{"admin dashboard forged role", "/admin/dashboard", forged, http.StatusSeeOther, "/dashboard"},
		{"admin dashboard admin", "/admin/dashboard", admin, http.StatusOK, ""},
		{"login as admin", "/login", admin, http.StatusTemporaryRedirect, "/admin/dashboard"},
		{"register as user", "/register", user, http.StatusTemporaryRedirect, "/dashboard"},
		{"healthz anonymous", "/api/public/healthz", nil, http.StatusOK, ""},
		{"metrics anonymous", "/api/public/metrics", nil, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert := assert.New(t)

			r, err := http.NewRequest("GET", tt.path, nil)
			require.Nil(t, err)
			rr := serve(h, r, tt.jar)
			assert.Equal(tt.status, rr.Code)
			if tt.location != "" {
				assert.Equal(tt.location, rr.Result().Header.Get("Location"))
			}
		})
	}
}

func TestUpdateProfileReissuesToken(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	h := newTestHandler(t)
	j := login(t, h, "user@example.com")
	before := j[auth.TokenCookie].Value

	rr := serve(h, jsonRequest(t, "PUT", "/api/user/profile", map[string]string{"name": "Renamed"}), j)
	require.Equal(http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal("Renamed", decodeUser(t, rr).User.Name)
	assert.NotEqual(before, j[auth.TokenCookie].Value)

	rr = serve(h, jsonRequest(t, "GET", "/api/auth/me", nil), j)
	assert.Equal("Renamed", decodeUser(t, rr).User.Name)

	rr = serve(h, jsonRequest(t, "PUT", "/api/user/profile", map[string]string{"email": "admin@example.com"}), j)
	assert.Equal(http.StatusConflict, rr.Code)

	rr = serve(h, jsonRequest(t, "PUT", "/api/user/profile", map[string]string{}), j)
	assert.Equal(http.StatusBadRequest, rr.Code)
}

func TestUpdateSubscription(t *testing.T) {
	assert := assert.New(t)

	h := newTestHandler(t)
	j := login(t, h, "user@example.com")

	rr := serve(h, jsonRequest(t, "PUT", "/api/user/subscription", map[string]string{"plan": "platinum"}), j)
	assert.Equal(http.StatusBadRequest, rr.Code)
	assert.JSONEq(`{"error":"Invalid subscription plan"}`, rr.Body.String())

	rr = serve(h, jsonRequest(t, "PUT", "/api/user/subscription", map[string]string{"plan": "basic"}), j)
	assert.Equal(http.StatusOK, rr.Code)
	assert.Equal("basic", decodeUser(t, rr).User.Subscription)
	// Role hint is rewritten together with the token.
	assert.Equal("user", j[auth.RoleCookie].Value)
}

func TestCheckoutFlow(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	h := newTestHandler(t)
	j := login(t, h, "user@example.com")

	rr := serve(h, jsonRequest(t, "GET", "/api/razorpay/config", nil), j)
	assert.Equal(http.StatusOK, rr.Code)
	assert.JSONEq(`{"key":"rzp_test_demo_key_for_development","demoMode":true}`, rr.Body.String())

	rr = serve(h, jsonRequest(t, "POST", "/api/razorpay/create-order", map[string]any{}), j)
	assert.Equal(http.StatusBadRequest, rr.Code)
	assert.JSONEq(`{"error":"Amount is required"}`, rr.Body.String())

	rr = serve(h, jsonRequest(t, "POST", "/api/razorpay/create-order", map[string]any{"amount": 14390, "receipt": "r-1"}), j)
	require.Equal(http.StatusOK, rr.Code, rr.Body.String())
	var created struct {
		Order struct {
			ID       string `json:"id"`
			Amount   int64  `json:"amount"`
			Currency string `json:"currency"`
			Status   string `json:"status"`
		} `json:"order"`
	}
	require.Nil(json.Unmarshal(rr.Body.Bytes(), &created))
	assert.True(strings.HasPrefix(created.Order.ID, "order_demo_"))
	assert.Equal("INR", created.Order.Currency)
	assert.Equal("created", created.Order.Status)

	verify := map[string]string{
		"razorpay_order_id":   created.Order.ID,
		"razorpay_payment_id": "pay_demo_1",
		"razorpay_signature":  "demo",
	}

	// A different browser, same user, has no pending order.
	other := jar{auth.TokenCookie: j[auth.TokenCookie], auth.RoleCookie: j[auth.RoleCookie]}
	rr = serve(h, jsonRequest(t, "POST", "/api/razorpay/verify-payment", verify), other)
	assert.Equal(http.StatusBadRequest, rr.Code)

	rr = serve(h, jsonRequest(t, "POST", "/api/razorpay/verify-payment", map[string]string{"razorpay_order_id": created.Order.ID}), j)
	assert.Equal(http.StatusBadRequest, rr.Code)
	assert.JSONEq(`{"error":"Missing required parameters"}`, rr.Body.String())

	rr = serve(h, jsonRequest(t, "POST", "/api/razorpay/verify-payment", verify), j)
	assert.Equal(http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(rr.Body.String(), "Demo Mode")

	// The pending order is consumed.
	rr = serve(h, jsonRequest(t, "POST", "/api/razorpay/verify-payment", verify), j)
	assert.Equal(http.StatusBadRequest, rr.Code)

	rr = serve(h, jsonRequest(t, "POST", "/api/subscription/update", map[string]string{"planId": "premium", "billingPeriod": "yearly"}), j)
	require.Equal(http.StatusOK, rr.Code, rr.Body.String())
	var updated struct {
		User struct {
			Subscription       string `json:"subscription"`
			SubscriptionExpiry string `json:"subscriptionExpiry"`
		} `json:"user"`
		Receipt struct {
			Amount        int64  `json:"amount"`
			Plan          string `json:"plan"`
			BillingPeriod string `json:"billingPeriod"`
		} `json:"receipt"`
	}
	require.Nil(json.Unmarshal(rr.Body.Bytes(), &updated))
	assert.Equal("premium", updated.User.Subscription)
	assert.NotEmpty(updated.User.SubscriptionExpiry)
	assert.Equal(int64(14390), updated.Receipt.Amount)
	assert.Equal("yearly", updated.Receipt.BillingPeriod)

	rr = serve(h, jsonRequest(t, "GET", "/api/auth/me", nil), j)
	assert.Equal("premium", decodeUser(t, rr).User.Subscription)

	rr = serve(h, jsonRequest(t, "GET", "/api/subscription/receipt/rcpt_42", nil), j)
	assert.Equal(http.StatusOK, rr.Code)
	assert.Contains(rr.Body.String(), `"id":"rcpt_42"`)
	assert.Contains(rr.Body.String(), `"amount":1499`)

	rr = serve(h, jsonRequest(t, "POST", "/api/subscription/update", map[string]string{"planId": "gold"}), j)
	assert.Equal(http.StatusBadRequest, rr.Code)
}

func TestVerifyDemoOrderWithLiveKeys(t *testing.T) {
	require := require.New(t)
	assert := assert.New(t)

	h := newTestHandler(t, func(cfg *config.Config) {
		cfg.Payment = config.Payment{KeyID: "rzp_live_abc", KeySecret: "s3cr3t"}
	})
	j := login(t, h, "user@example.com")

	rr := serve(h, jsonRequest(t, "GET", "/api/razorpay/config", nil), j)
	assert.JSONEq(`{"key":"rzp_live_abc","demoMode":false}`, rr.Body.String())

	rr = serve(h, jsonRequest(t, "POST", "/api/razorpay/create-order", map[string]any{"amount": 799}), j)
	require.Equal(http.StatusOK, rr.Code, rr.Body.String())
	var created struct {
		Order struct {
			ID string `json:"id"`
		} `json:"order"`
	}
	require.Nil(json.Unmarshal(rr.Body.Bytes(), &created))

	rr = serve(h, jsonRequest(t, "POST", "/api/razorpay/verify-payment", map[string]string{
		"razorpay_order_id":   created.Order.ID,
		"razorpay_payment_id": "pay_1",
		"razorpay_signature":  "unsigned",
	}), j)
	assert.Equal(http.StatusOK, rr.Code)
	assert.Contains(rr.Body.String(), "(Demo Mode)")
}

func multipartUpload(t *testing.T, filename, contentType string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.Nil(t, mw.WriteField(k, v))
	}

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	hdr.Set("Content-Type", contentType)
	part, err := mw.CreatePart(hdr)
	require.Nil(t, err)
	_, err = part.Write(content)
	require.Nil(t, err)
	require.Nil(t, mw.Close())

	r, err := http.NewRequest("POST", "/api/papers", &buf)
	require.Nil(t, err)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

func TestUploadPaper(t *testing.T) {
	h := newTestHandler(t)
	admin := login(t, h, "admin@example.com")
	user := login(t, h, "user@example.com")

	fields := map[string]string{
		"title":       "Data Structures Midterm",
		"department":  "Computer Science",
		"year":        "2023",
		"semester":    "Fall",
		"examType":    "Midterm",
		"professor":   "Dr. Rao",
		"description": "Trees and heaps",
		"pages":       "4",
		"isPremium":   "true",
		"keywords":    "trees, heaps",
	}

	t.Run("pdf with generic mime", func(t *testing.T) {
		require := require.New(t)
		assert := assert.New(t)

		rr := serve(h, multipartUpload(t, "midterm paper.pdf", "application/octet-stream", []byte("%PDF-1.4"), fields), admin)
		require.Equal(http.StatusCreated, rr.Code, rr.Body.String())

		var body struct {
			File struct {
				Filename string `json:"filename"`
				URL      string `json:"url"`
				Size     int64  `json:"size"`
			} `json:"file"`
			Paper struct {
				Keywords []string `json:"keywords"`
			} `json:"paper"`
		}
		require.Nil(json.Unmarshal(rr.Body.Bytes(), &body))
		assert.True(strings.HasPrefix(body.File.Filename, "papers/"))
		assert.True(strings.HasSuffix(body.File.Filename, "-midterm_paper.pdf"))
		assert.Equal(int64(8), body.File.Size)
		assert.Equal([]string{"trees", "heaps"}, body.Paper.Keywords)

		// Stored files are served back to signed-in users.
		r, err := http.NewRequest("GET", body.File.URL, nil)
		require.Nil(err)
		rr = serve(h, r, user)
		assert.Equal(http.StatusOK, rr.Code)
		assert.Equal("%PDF-1.4", rr.Body.String())
	})

	t.Run("directories are not listed", func(t *testing.T) {
		assert := assert.New(t)

		for _, path := range []string{"/uploads/", "/uploads/papers/", "/uploads/papers"} {
			r, err := http.NewRequest("GET", path, nil)
			require.Nil(t, err)
			rr := serve(h, r, user)
			assert.Equal(http.StatusNotFound, rr.Code, path)
			assert.NotContains(rr.Body.String(), "midterm_paper.pdf", path)
		}
	})

	t.Run("too large", func(t *testing.T) {
		assert := assert.New(t)

		big := bytes.Repeat([]byte("a"), 11<<20)
		rr := serve(h, multipartUpload(t, "big.pdf", "application/pdf", big, fields), admin)
		assert.Equal(http.StatusBadRequest, rr.Code)
		assert.Contains(rr.Body.String(), "exceeds the 10MB limit")
	})

	t.Run("wrong type", func(t *testing.T) {
		assert := assert.New(t)

		rr := serve(h, multipartUpload(t, "notes.txt", "text/plain", []byte("hi"), fields), admin)
		assert.Equal(http.StatusBadRequest, rr.Code)
		assert.Contains(rr.Body.String(), "Only PDF and Word documents are allowed")
	})

	t.Run("missing metadata", func(t *testing.T) {
		rr := serve(h, multipartUpload(t, "a.pdf", "application/pdf", []byte("x"), map[string]string{"title": "only"}), admin)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("non admin", func(t *testing.T) {
		rr := serve(h, multipartUpload(t, "a.pdf", "application/pdf", []byte("x"), fields), user)
		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

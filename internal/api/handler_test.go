package api

import (
	"context"
	"crypto/ecdsa"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/0gfoundation/0g-payroll-funder/internal/auth"
	"github.com/0gfoundation/0g-payroll-funder/internal/funding"
	"github.com/0gfoundation/0g-payroll-funder/internal/outbox"
	"github.com/0gfoundation/0g-payroll-funder/internal/price"
	"github.com/0gfoundation/0g-payroll-funder/internal/runner"
)

func init() { gin.SetMode(gin.TestMode) }

// ── helpers ───────────────────────────────────────────────────────────────────

var (
	testContract = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
	testPolicy   = funding.Policy{
		PayrollContract: testContract,
		TopUpAmountFiat: decimal.RequireFromString("500"),
		ThresholdFiat:   decimal.RequireFromString("1500"),
	}
)

type stubBalance struct {
	raw *big.Int
	err error
}

func (s stubBalance) TotalFunds(context.Context, common.Address) (*big.Int, error) { return s.raw, s.err }

type testEnv struct {
	router   *gin.Engine
	store    *outbox.Store
	operator *ecdsa.PrivateKey
}

func newTestEnv(t *testing.T, bal stubBalance) *testEnv {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := outbox.NewStore(rdb, testContract)

	engine := funding.NewEngine(
		price.Static{Currency: "usd", FiatPerUnit: decimal.RequireFromString("2000")},
		bal, "ethereum", funding.DefaultDecimals, zap.NewNop(),
	)
	run := runner.New(engine, store, testPolicy, big.NewInt(16602), zap.NewNop())

	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatal(err)
	}
	verifier := auth.NewVerifier(rdb, []common.Address{crypto.PubkeyToAddress(key.PublicKey)}, zap.NewNop())

	h := NewHandler(run, store, zap.NewNop())
	return &testEnv{router: NewRouter(h, verifier.Require(ActionEvaluate)), store: store, operator: key}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func signedEvaluate(t *testing.T, key *ecdsa.PrivateKey, nonce string) *http.Request {
	t.Helper()
	msg, _ := json.Marshal(auth.OperatorRequest{
		Action:    ActionEvaluate,
		ExpiresAt: time.Now().Add(time.Minute).Unix(),
		Nonce:     nonce,
	})
	sig, err := crypto.Sign(accounts.TextHash(msg), key)
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, "/api/evaluate", nil)
	req.Header.Set(auth.HeaderAddress, crypto.PubkeyToAddress(key.PublicKey).Hex())
	req.Header.Set(auth.HeaderMessage, base64.StdEncoding.EncodeToString(msg))
	req.Header.Set(auth.HeaderSignature, hex.EncodeToString(sig))
	return req
}

// ── ops routes ────────────────────────────────────────────────────────────────

func TestHealthz(t *testing.T) {
	env := newTestEnv(t, stubBalance{raw: big.NewInt(0)})
	w := env.do(httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestMetrics(t *testing.T) {
	env := newTestEnv(t, stubBalance{raw: big.NewInt(5e17)})
	env.do(signedEvaluate(t, env.operator, "n-metrics"))

	w := env.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "payroll_decisions_total") {
		t.Error("metrics output missing payroll_decisions_total")
	}
}

// ── POST /api/evaluate ────────────────────────────────────────────────────────

func TestEvaluate_Executes(t *testing.T) {
	env := newTestEnv(t, stubBalance{raw: big.NewInt(5e17)})

	w := env.do(signedEvaluate(t, env.operator, "n-exec"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	var rec outbox.Record
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !rec.Decision.ShouldExecute || rec.Decision.Instruction.Value.Cmp(big.NewInt(25e16)) != 0 {
		t.Errorf("decision: %+v", rec.Decision)
	}
	if n, _ := env.store.Pending(context.Background()); n != 1 {
		t.Errorf("pending: got %d want 1", n)
	}
}

func TestEvaluate_RequiresSignature(t *testing.T) {
	env := newTestEnv(t, stubBalance{raw: big.NewInt(5e17)})

	w := env.do(httptest.NewRequest(http.MethodPost, "/api/evaluate", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if n, _ := env.store.Pending(context.Background()); n != 0 {
		t.Errorf("unauthenticated request must not publish, pending %d", n)
	}
}

func TestEvaluate_NonOperatorForbidden(t *testing.T) {
	env := newTestEnv(t, stubBalance{raw: big.NewInt(5e17)})
	stranger, _ := crypto.GenerateKey()

	w := env.do(signedEvaluate(t, stranger, "n-stranger"))
	if w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}
}

func TestEvaluate_ReadErrorIs502(t *testing.T) {
	env := newTestEnv(t, stubBalance{err: errors.New("rpc down")})

	w := env.do(signedEvaluate(t, env.operator, "n-502"))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", w.Code, w.Body.String())
	}
}

type fakeTrigger struct {
	rec outbox.Record
	err error
}

func (f fakeTrigger) RunOnce(context.Context) (outbox.Record, error) { return f.rec, f.err }

func allow(c *gin.Context) { c.Next() }

func TestEvaluate_PublishFailureIs503(t *testing.T) {
	rec := outbox.Record{EvaluatedAt: time.Now()}
	h := NewHandler(fakeTrigger{rec: rec, err: errors.New("redis down")}, nil, zap.NewNop())
	r := NewRouter(h, allow)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/evaluate", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
}

func TestEvaluate_PolicyErrorIs500(t *testing.T) {
	h := NewHandler(fakeTrigger{err: &funding.PolicyError{Field: "threshold_fiat", Reason: "must not be negative"}}, nil, zap.NewNop())
	r := NewRouter(h, allow)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/evaluate", nil))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
}

// ── read routes ───────────────────────────────────────────────────────────────

func TestLast_NotFoundThenFound(t *testing.T) {
	env := newTestEnv(t, stubBalance{raw: big.NewInt(1e18)})

	if w := env.do(httptest.NewRequest(http.MethodGet, "/api/decisions/last", nil)); w.Code != http.StatusNotFound {
		t.Fatalf("empty store: expected 404, got %d", w.Code)
	}

	env.do(signedEvaluate(t, env.operator, "n-last"))
	w := env.do(httptest.NewRequest(http.MethodGet, "/api/decisions/last", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var rec outbox.Record
	_ = json.Unmarshal(w.Body.Bytes(), &rec)
	if rec.Decision.ShouldExecute || rec.Decision.Reason != funding.ReasonAboveThreshold {
		t.Errorf("last decision: %+v", rec.Decision)
	}
}

func TestHistory(t *testing.T) {
	env := newTestEnv(t, stubBalance{raw: big.NewInt(5e17)})
	for _, n := range []string{"n-h1", "n-h2", "n-h3"} {
		if w := env.do(signedEvaluate(t, env.operator, n)); w.Code != http.StatusOK {
			t.Fatalf("evaluate %s: %d", n, w.Code)
		}
	}

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/decisions?limit=2", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var body struct {
		Decisions []outbox.Record `json:"decisions"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Decisions) != 2 {
		t.Errorf("limit=2: got %d records", len(body.Decisions))
	}

	for _, bad := range []string{"0", "-3", "abc"} {
		w := env.do(httptest.NewRequest(http.MethodGet, "/api/decisions?limit="+bad, nil))
		if w.Code != http.StatusBadRequest {
			t.Errorf("limit=%s: expected 400, got %d", bad, w.Code)
		}
	}
}

func TestQueue(t *testing.T) {
	env := newTestEnv(t, stubBalance{raw: big.NewInt(5e17)})
	env.do(signedEvaluate(t, env.operator, "n-q1"))
	env.do(signedEvaluate(t, env.operator, "n-q2"))

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/queue", nil))
	var body map[string]int64
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["pending"] != 2 {
		t.Errorf("pending: got %d want 2", body["pending"])
	}
}

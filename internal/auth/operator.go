// Package auth guards operator-only HTTP routes with wallet signatures.
//
// A request carries three headers:
//
//	X-Wallet-Address    the operator's address
//	X-Signed-Message    base64 of the JSON OperatorRequest
//	X-Wallet-Signature  hex personal_sign signature over the decoded message
//
// The signer must be in the allow-list, the request must be for the route's
// action, expire within five minutes, and carry a nonce not seen before.
package auth

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	HeaderAddress   = "X-Wallet-Address"
	HeaderMessage   = "X-Signed-Message"
	HeaderSignature = "X-Wallet-Signature"

	// ContextOperator is the gin context key holding the verified operator address.
	ContextOperator = "operator"

	// NonceKeyFmt is the Redis key marking a nonce as used; %s = operator, nonce.
	NonceKeyFmt = "funding:nonce:%s:%s"

	maxFutureWindow = 5 * time.Minute
)

// OperatorRequest is the JSON payload inside X-Signed-Message.
type OperatorRequest struct {
	Action    string `json:"action"`
	ExpiresAt int64  `json:"expires_at"`
	Nonce     string `json:"nonce"`
}

type Verifier struct {
	rdb       *redis.Client
	operators map[common.Address]struct{}
	log       *zap.Logger
	now       func() time.Time
}

func NewVerifier(rdb *redis.Client, operators []common.Address, log *zap.Logger) *Verifier {
	set := make(map[common.Address]struct{}, len(operators))
	for _, op := range operators {
		set[op] = struct{}{}
	}
	return &Verifier{rdb: rdb, operators: set, log: log, now: time.Now}
}

// Require returns a handler admitting only operator requests signed for action.
func (v *Verifier) Require(action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		addrHdr := c.GetHeader(HeaderAddress)
		msgB64 := c.GetHeader(HeaderMessage)
		sigHex := c.GetHeader(HeaderSignature)
		if addrHdr == "" || msgB64 == "" || sigHex == "" {
			deny(c, http.StatusUnauthorized, "missing auth headers")
			return
		}
		if !common.IsHexAddress(addrHdr) {
			deny(c, http.StatusUnauthorized, "invalid wallet address")
			return
		}
		claimed := common.HexToAddress(addrHdr)

		msg, err := base64.StdEncoding.DecodeString(msgB64)
		if err != nil {
			deny(c, http.StatusUnauthorized, "invalid X-Signed-Message encoding")
			return
		}
		var req OperatorRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			deny(c, http.StatusUnauthorized, "invalid signed message JSON")
			return
		}
		if req.Action != action {
			deny(c, http.StatusUnauthorized, "action mismatch")
			return
		}
		if strings.TrimSpace(req.Nonce) == "" {
			deny(c, http.StatusUnauthorized, "missing nonce")
			return
		}

		now := v.now().Unix()
		if req.ExpiresAt <= now {
			deny(c, http.StatusUnauthorized, "request expired")
			return
		}
		if req.ExpiresAt > now+int64(maxFutureWindow.Seconds()) {
			deny(c, http.StatusUnauthorized, "expires_at too far in future")
			return
		}

		signer, err := RecoverSigner(msg, sigHex)
		if err != nil || signer != claimed {
			deny(c, http.StatusUnauthorized, "invalid signature")
			return
		}
		if _, ok := v.operators[signer]; !ok {
			v.log.Warn("auth: rejected non-operator", zap.String("address", signer.Hex()), zap.String("action", action))
			deny(c, http.StatusForbidden, "not an operator")
			return
		}

		// Nonce is burned only once every other check has passed.
		key := fmt.Sprintf(NonceKeyFmt, signer.Hex(), req.Nonce)
		ttl := time.Duration(req.ExpiresAt-now) * time.Second
		fresh, err := v.rdb.SetNX(c.Request.Context(), key, 1, ttl).Result()
		if err != nil {
			v.log.Error("auth: nonce setnx", zap.Error(err))
			deny(c, http.StatusInternalServerError, "internal error")
			return
		}
		if !fresh {
			deny(c, http.StatusUnauthorized, "nonce already used")
			return
		}

		c.Set(ContextOperator, signer.Hex())
		c.Next()
	}
}

func deny(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

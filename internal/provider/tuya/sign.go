package tuya

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// emptyBodyHash is the SHA-256 of an empty body.
const emptyBodyHash = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"

// stringToSign builds the canonical request: method, body hash, headers (none signed) and URL.
func stringToSign(method, pathWithQuery string, body []byte) string {
	bodyHash := emptyBodyHash
	if len(body) > 0 {
		sum := sha256.Sum256(body)
		bodyHash = hex.EncodeToString(sum[:])
	}

	return method + "\n" + bodyHash + "\n\n" + pathWithQuery
}

// sign returns the upper-case hex HMAC-SHA256 of the request.
// accessToken is empty for token requests.
func sign(clientID, secret, accessToken, timestamp, nonce, canonical string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(clientID + accessToken + timestamp + nonce + canonical))

	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

package payment

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"strconv"
	"strings"
)

// validationData builds the string the merchant API verifies. The trailing
// comma is part of the format.
func validationData(amount, merchantCode string, prn int64, remarks1, remarks2 string) string {
	var b strings.Builder
	for _, part := range []string{amount, merchantCode, strconv.FormatInt(prn, 10), remarks1, remarks2} {
		b.WriteString(part)
		b.WriteByte(',')
	}
	return b.String()
}

// Sign returns the lowercase hex HMAC-SHA512 of data keyed by secret.
func Sign(secret, data string) string {
	mac := hmac.New(sha512.New, []byte(secret))
	mac.Write([]byte(data))
	return hex.EncodeToString(mac.Sum(nil))
}

package test

import (
	"math/rand"
	"sync"
	"time"
)

const (
	loginAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	pinAlphabet   = "0123456789"
	pinLength     = 5
)

var (
	rngMu sync.Mutex
	rng   = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// RandomLogin returns a pseudo-random lowercase login between minLen and maxLen characters.
func RandomLogin(minLen, maxLen int) string {
	if minLen <= 0 {
		minLen = 1
	}
	if maxLen < minLen {
		maxLen = minLen
	}
	length := minLen
	if maxLen > minLen {
		length += randomIntn(maxLen - minLen + 1)
	}
	return randomString(loginAlphabet, length)
}

// RandomPin returns a well-formed five digit PIN.
func RandomPin() string {
	return randomString(pinAlphabet, pinLength)
}

func randomString(alphabet string, length int) string {
	buf := make([]byte, length)
	for i := range buf {
		buf[i] = alphabet[randomIntn(len(alphabet))]
	}
	return string(buf)
}

func randomIntn(n int) int {
	rngMu.Lock()
	defer rngMu.Unlock()
	return rng.Intn(n)
}

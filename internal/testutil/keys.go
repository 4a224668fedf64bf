// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"sync"
	"testing"
	"time"
)

const keyBits = 2048

var (
	keyOnce sync.Once
	key     *rsa.PrivateKey
	keyErr  error
)

// RSAKey returns a process-wide RSA key, generated on first use.
func RSAKey(t testing.TB) *rsa.PrivateKey {
	t.Helper()

	keyOnce.Do(func() {
		key, keyErr = rsa.GenerateKey(rand.Reader, keyBits)
	})

	if keyErr != nil {
		t.Fatalf("generating RSA key: %v", keyErr)
	}

	return key
}

// PrivateKeyPEM returns RSAKey encoded as a PKCS#8 PEM block.
func PrivateKeyPEM(t testing.TB) string {
	t.Helper()

	der, err := x509.MarshalPKCS8PrivateKey(RSAKey(t))
	if err != nil {
		t.Fatalf("encoding RSA key: %v", err)
	}

	return string(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
}

// FakeClock is a settable vonage.Clock.
type FakeClock struct {
	mutex sync.Mutex
	now   time.Time
}

// NewFakeClock starts the clock at now.
func NewFakeClock(now time.Time) *FakeClock {
	return &FakeClock{now: now}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return c.now
}

// Set moves the clock to now.
func (c *FakeClock) Set(now time.Time) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.now = now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.now = c.now.Add(d)
}

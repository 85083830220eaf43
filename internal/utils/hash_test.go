// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package utils

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"testing"
)

const testHashKey = "test-secret-key"

func TestHasher_HMAC(t *testing.T) {
	h := NewHasher(testHashKey)
	data := []byte("test-data")

	sum1 := h.Hash(data)
	sum2 := h.Hash(data)

	if len(sum1) == 0 {
		t.Fatal("hash result is empty")
	}
	if !bytes.Equal(sum1, sum2) {
		t.Fatal("hash must be deterministic for the same input")
	}

	// verify against direct HMAC computation
	mac := hmac.New(sha256.New, []byte(testHashKey))
	mac.Write(data)
	expected := mac.Sum(nil)

	if !bytes.Equal(sum1, expected) {
		t.Fatalf("unexpected hash value\nwant: %x\ngot:  %x", expected, sum1)
	}
}

func TestHasher_NoKeyIsSHA256(t *testing.T) {
	h := NewHasher("")

	want := sha256.Sum256([]byte("token"))
	if got := h.HashString("token"); got != hex.EncodeToString(want[:]) {
		t.Fatalf("want %x, got %s", want, got)
	}
}

func TestHasher_DifferentKeys(t *testing.T) {
	a := NewHasher("key-a").HashString("data")
	b := NewHasher("key-b").HashString("data")

	if a == b {
		t.Fatal("different keys must produce different digests")
	}
}

func TestHasher_DifferentInputs(t *testing.T) {
	h := NewHasher(testHashKey)

	if h.HashString("one") == h.HashString("two") {
		t.Fatal("different inputs must produce different digests")
	}
}

func TestHasher_Concurrent(t *testing.T) {
	h := NewHasher(testHashKey)
	want := h.HashString("payload")

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if got := h.HashString("payload"); got != want {
					t.Errorf("concurrent hash mismatch: %s != %s", got, want)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestEqual(t *testing.T) {
	if !Equal("abc", "abc") {
		t.Fatal("equal strings reported unequal")
	}
	if Equal("abc", "abd") || Equal("abc", "ab") {
		t.Fatal("unequal strings reported equal")
	}
}

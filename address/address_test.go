// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package address

import (
	"bytes"
	"encoding/hex"
	"testing"
)

// TestWIFDecodeFixture pins a known testnet WIF/key/address triple.
func TestWIFDecodeFixture(t *testing.T) {
	const wif = "cMoBjaYS6EraKLNqrNN8DvN93Nnt6pJNfWkYM8pUufYQB5EVZ7SR"
	const wantHex = "066C2068A5B9D650698828A8E39F94A784E2DDD25C0236AB7F1A014D4F9B4B49"
	const wantAddr = "mnEvYsxexfDEkCx2YLEfzhjrwKKcyAhMqV"

	priv, err := WIFDecode(wif)
	if err != nil {
		t.Fatalf("WIFDecode: %v", err)
	}
	got := hex.EncodeToString(priv)
	want, _ := hex.DecodeString(wantHex)
	if !bytes.EqualFold([]byte(got), []byte(hex.EncodeToString(want))) {
		t.Fatalf("private key = %s, want %s", got, wantHex)
	}

	addr, err := AddressFromPrivKey(priv)
	if err != nil {
		t.Fatalf("AddressFromPrivKey: %v", err)
	}
	if addr != wantAddr {
		t.Fatalf("address = %s, want %s", addr, wantAddr)
	}
}

func TestWIFDecodeBadLength(t *testing.T) {
	if _, err := WIFDecode("short"); err == nil {
		t.Fatal("expected error for malformed WIF")
	}
}

func TestValidateAddress(t *testing.T) {
	if err := ValidateAddress("mnEvYsxexfDEkCx2YLEfzhjrwKKcyAhMqV"); err != nil {
		t.Fatalf("expected valid address, got %v", err)
	}
	if err := ValidateAddress("tooshort"); err == nil {
		t.Fatal("expected error for short address")
	}
}

func TestPubKeyHashFromAddressLength(t *testing.T) {
	const addr = "mnEvYsxexfDEkCx2YLEfzhjrwKKcyAhMqV"
	hash, err := PubKeyHashFromAddress(addr)
	if err != nil {
		t.Fatalf("PubKeyHashFromAddress: %v", err)
	}
	if len(hash) != 20 {
		t.Fatalf("pubkey hash length = %d, want 20", len(hash))
	}
}

func TestWIFEncodeRoundTrip(t *testing.T) {
	const wif = "cMoBjaYS6EraKLNqrNN8DvN93Nnt6pJNfWkYM8pUufYQB5EVZ7SR"
	priv, err := WIFDecode(wif)
	if err != nil {
		t.Fatalf("WIFDecode: %v", err)
	}
	got, err := WIFEncode(priv)
	if err != nil {
		t.Fatalf("WIFEncode: %v", err)
	}
	if got != wif {
		t.Fatalf("WIFEncode = %s, want %s", got, wif)
	}
}

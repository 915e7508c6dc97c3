// Copyright (c) 2014-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chaincfg

import "testing"

func TestTestNet3GenesisHash(t *testing.T) {
	params := TestNet3Params()
	const want = "000000000933ea01ad0ee984209779baaec3ced90fa3f408719526f8d77f4943"
	if got := params.GenesisHash.String(); got != want {
		t.Fatalf("genesis hash = %s, want %s", got, want)
	}
	if params.Net != 0x0709110b {
		t.Fatalf("magic = %x, want 0x0709110b (wire bytes 0b 11 09 07)", params.Net)
	}
	if params.DefaultPort != "18333" {
		t.Fatalf("default port = %s, want 18333", params.DefaultPort)
	}
}

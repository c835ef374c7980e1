package solana

import "testing"

func TestValidAddress(t *testing.T) {
	valid := []string{
		TokenProgramID,
		WSOLMint,
		SystemProgramID,
		"6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P",
	}
	for _, addr := range valid {
		if !ValidAddress(addr) {
			t.Errorf("expected %s to be valid", addr)
		}
	}

	invalid := []string{
		"",
		"short",
		"0x0000000000000000000000000000000000000000",           // EVM address
		"So1111111111111111111111111111111111111111la0OIl+/==", // bad charset
	}
	for _, addr := range invalid {
		if ValidAddress(addr) {
			t.Errorf("expected %s to be invalid", addr)
		}
	}
}

func TestDeriveAssociatedTokenAddress(t *testing.T) {
	owner := "6EF8rrecthR5Dkzon8Nwu78hRvfCKubJ14M5uBEwF6P"
	mint := WSOLMint

	ata := DeriveAssociatedTokenAddress(owner, mint)
	if ata == "" {
		t.Fatal("expected non-empty ATA")
	}
	if !ValidAddress(ata) {
		t.Errorf("derived ATA is not a valid address: %s", ata)
	}
	// PDAs must land off-curve by construction.
	if ata == owner || ata == mint {
		t.Error("ATA must differ from its seeds")
	}

	// Deterministic
	if again := DeriveAssociatedTokenAddress(owner, mint); again != ata {
		t.Errorf("derivation not deterministic: %s vs %s", again, ata)
	}
}

func TestDeriveAssociatedTokenAddress_BadInput(t *testing.T) {
	if ata := DeriveAssociatedTokenAddress("not-base58!", WSOLMint); ata != "" {
		t.Errorf("expected empty ATA for bad owner, got %s", ata)
	}
}

package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("hunter2")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := Verify("hunter2", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatalf("expected matching password to verify")
	}

	ok, err = Verify("wrong", hash)
	if err != nil {
		t.Fatalf("verify wrong: %v", err)
	}
	if ok {
		t.Fatalf("expected mismatched password to fail")
	}
}

func TestVerifyRejectsMalformedHash(t *testing.T) {
	if _, err := Verify("x", "not-a-hash"); err == nil {
		t.Fatalf("expected error for malformed hash")
	}
}

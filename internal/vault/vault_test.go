package vault

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEncryptDecryptRoundTrip(t *testing.T) {
	plaintext := []byte("api_token=s3cret\n")

	var sealed bytes.Buffer
	if err := Encrypt(&sealed, bytes.NewReader(plaintext), "hunter2", false); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if bytes.Contains(sealed.Bytes(), []byte("s3cret")) {
		t.Fatal("ciphertext contains the plaintext")
	}

	var opened bytes.Buffer
	if err := Decrypt(&opened, &sealed, "hunter2"); err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if !bytes.Equal(opened.Bytes(), plaintext) {
		t.Errorf("round trip = %q, want %q", opened.Bytes(), plaintext)
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	var sealed bytes.Buffer
	if err := Encrypt(&sealed, strings.NewReader("secret"), "right", false); err != nil {
		t.Fatal(err)
	}

	var opened bytes.Buffer
	if err := Decrypt(&opened, &sealed, "wrong"); err == nil {
		t.Error("Decrypt() with the wrong passphrase should fail")
	}
}

func TestArmoredOutput(t *testing.T) {
	var sealed bytes.Buffer
	if err := Encrypt(&sealed, strings.NewReader("secret"), "pw", true); err != nil {
		t.Fatalf("Encrypt() error = %v", err)
	}
	if !strings.HasPrefix(sealed.String(), "-----BEGIN AGE ENCRYPTED FILE-----") {
		t.Errorf("armored output missing header:\n%s", sealed.String())
	}

	// Decrypt sniffs the armor header on its own.
	var opened bytes.Buffer
	if err := Decrypt(&opened, &sealed, "pw"); err != nil {
		t.Fatalf("Decrypt() error = %v", err)
	}
	if opened.String() != "secret" {
		t.Errorf("round trip = %q", opened.String())
	}
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "creds.env")
	sealed := filepath.Join(dir, "creds.env.age")
	out := filepath.Join(dir, "creds.out")

	if err := os.WriteFile(src, []byte("key=value\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if err := EncryptFile(src, sealed, "pw", false); err != nil {
		t.Fatalf("EncryptFile() error = %v", err)
	}
	if err := DecryptFile(sealed, out, "pw"); err != nil {
		t.Fatalf("DecryptFile() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "key=value\n" {
		t.Errorf("round trip = %q", data)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("plaintext perms = %v, want 0600", info.Mode().Perm())
	}
}

func TestDecryptFileBadInputRemovesOutput(t *testing.T) {
	dir := t.TempDir()
	sealed := filepath.Join(dir, "garbage.age")
	out := filepath.Join(dir, "out")

	if err := os.WriteFile(sealed, []byte("not an age file"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := DecryptFile(sealed, out, "pw"); err == nil {
		t.Fatal("DecryptFile() on garbage should fail")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("failed decrypt must not leave a partial output file")
	}
}

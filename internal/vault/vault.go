// Package vault encrypts and decrypts credential files with a
// passphrase. It wraps filippo.io/age's scrypt mode for the two
// operations deskmux needs: seal a file, open a file. The cryptography
// is entirely age's; this package only handles files, armor framing,
// and the terminal passphrase prompt.
package vault

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"filippo.io/age"
	"filippo.io/age/armor"
	"golang.org/x/term"

	"github.com/deskmux/deskmux/internal/errors"
)

// Encrypt seals src into dst with a passphrase. With armored set the
// output is PEM-style text, safe to paste or mail; otherwise it is the
// binary age format.
func Encrypt(dst io.Writer, src io.Reader, passphrase string, armored bool) error {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return fmt.Errorf("deriving key from passphrase: %w", err)
	}

	out := dst
	var armorWriter io.WriteCloser
	if armored {
		armorWriter = armor.NewWriter(dst)
		out = armorWriter
	}

	w, err := age.Encrypt(out, recipient)
	if err != nil {
		return fmt.Errorf("creating encryptor: %w", err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("encrypting: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finalizing encryption: %w", err)
	}
	if armorWriter != nil {
		if err := armorWriter.Close(); err != nil {
			return fmt.Errorf("finalizing armor: %w", err)
		}
	}
	return nil
}

// Decrypt opens a sealed stream into dst. Armored and binary inputs are
// both accepted; the armor header is sniffed, never required.
func Decrypt(dst io.Writer, src io.Reader, passphrase string) error {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return fmt.Errorf("deriving key from passphrase: %w", err)
	}

	buffered := bufio.NewReader(src)
	in := io.Reader(buffered)
	if peek, err := buffered.Peek(len(armor.Header)); err == nil && bytes.HasPrefix(peek, []byte(armor.Header)) {
		in = armor.NewReader(buffered)
	}

	r, err := age.Decrypt(in, identity)
	if err != nil {
		return fmt.Errorf("decrypting: %w", err)
	}
	if _, err := io.Copy(dst, r); err != nil {
		return fmt.Errorf("reading plaintext: %w", err)
	}
	return nil
}

// EncryptFile seals the file at path into outPath.
func EncryptFile(path, outPath, passphrase string, armored bool) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer dst.Close()

	if err := Encrypt(dst, src, passphrase, armored); err != nil {
		os.Remove(outPath)
		return err
	}
	return dst.Close()
}

// DecryptFile opens the sealed file at path into outPath. The plaintext
// file is created with owner-only permissions.
func DecryptFile(path, outPath, passphrase string) error {
	src, err := os.Open(path)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.OpenFile(outPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}
	defer dst.Close()

	if err := Decrypt(dst, src, passphrase); err != nil {
		os.Remove(outPath)
		return err
	}
	return dst.Close()
}

// ReadPassphrase prompts on the terminal without echo. With confirm set
// the passphrase is asked twice and must match, for encryption; a
// mismatch or empty passphrase is a user-input error.
func ReadPassphrase(confirm bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		// Piped input: one line, no prompt.
		data, err := io.ReadAll(io.LimitReader(os.Stdin, 4096))
		if err != nil {
			return "", err
		}
		pass := strings.TrimRight(string(data), "\r\n")
		if pass == "" {
			return "", errors.New("empty passphrase")
		}
		return pass, nil
	}

	fmt.Fprint(os.Stderr, "passphrase: ")
	first, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	if len(first) == 0 {
		return "", errors.New("empty passphrase")
	}

	if confirm {
		fmt.Fprint(os.Stderr, "confirm passphrase: ")
		second, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", err
		}
		if !bytes.Equal(first, second) {
			return "", errors.New("passphrases do not match")
		}
	}
	return string(first), nil
}

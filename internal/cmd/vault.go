package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deskmux/deskmux/internal/config"
	"github.com/deskmux/deskmux/internal/vault"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Encrypt and decrypt credential files",
	Long: `Encrypt credential files with a passphrase (age scrypt format).
The passphrase is read from the terminal, never from arguments.`,
}

var vaultEncryptCmd = &cobra.Command{
	Use:   "encrypt <file>",
	Short: "Encrypt a file",
	Long:  `Encrypt a file. The output is written next to the input with an .age suffix unless --output is given.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultEncrypt,
}

var vaultDecryptCmd = &cobra.Command{
	Use:   "decrypt <file>",
	Short: "Decrypt a file",
	Long:  `Decrypt a file. Without --output, an .age suffix is stripped from the input name.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultDecrypt,
}

var (
	vaultOutput string
	vaultArmor  bool
)

func init() {
	rootCmd.AddCommand(vaultCmd)
	vaultCmd.AddCommand(vaultEncryptCmd)
	vaultCmd.AddCommand(vaultDecryptCmd)

	vaultCmd.PersistentFlags().StringVarP(&vaultOutput, "output", "o", "", "output file")
	vaultEncryptCmd.Flags().BoolVar(&vaultArmor, "armor", false, "write ASCII-armored output")
}

func runVaultEncrypt(cmd *cobra.Command, args []string) error {
	cfg := config.Get()

	out := vaultOutput
	if out == "" {
		out = args[0] + ".age"
	}

	passphrase, err := vault.ReadPassphrase(true)
	if err != nil {
		return err
	}

	if err := vault.EncryptFile(args[0], out, passphrase, vaultArmor || cfg.Vault.Armor); err != nil {
		return err
	}
	fmt.Printf("encrypted %s -> %s\n", args[0], out)
	return nil
}

func runVaultDecrypt(cmd *cobra.Command, args []string) error {
	out := vaultOutput
	if out == "" {
		if !strings.HasSuffix(args[0], ".age") {
			return fmt.Errorf("cannot derive an output name from %q, pass --output", args[0])
		}
		out = strings.TrimSuffix(args[0], ".age")
	}

	passphrase, err := vault.ReadPassphrase(false)
	if err != nil {
		return err
	}

	if err := vault.DecryptFile(args[0], out, passphrase); err != nil {
		return err
	}
	fmt.Printf("decrypted %s -> %s\n", args[0], out)
	return nil
}

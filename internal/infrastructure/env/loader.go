// Package env loads environment variables from dotenv files and
// Ansible Vault encrypted files before the configuration is read.
package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	"github.com/godeploy/godeploy/internal/config"
)

// Loader defines the interface for loading environment variables.
type Loader interface {
	Load(path, vaultPassword string) error
}

// DefaultLoader implements the Loader interface using godotenv.
type DefaultLoader struct {
	vaultDecrypter config.VaultDecrypter
}

// NewLoader creates a new environment loader with default implementations.
func NewLoader() Loader {
	return &DefaultLoader{
		vaultDecrypter: config.NewVaultDecrypter(),
	}
}

// Load loads environment variables from a file. Files with a .vault
// suffix are treated as Ansible Vault encrypted dotenv files.
func (l *DefaultLoader) Load(path, vaultPassword string) error {
	if path == "" {
		return nil
	}

	if strings.HasSuffix(path, ".vault") {
		return l.loadVaultFile(path, vaultPassword)
	}

	return godotenv.Load(path)
}

// loadVaultFile loads environment variables from an Ansible Vault
// encrypted file.
func (l *DefaultLoader) loadVaultFile(path, password string) error {
	password, err := resolveVaultPassword(password)
	if err != nil {
		return err
	}

	decrypted, err := config.LoadVaultFile(path, password, l.vaultDecrypter)
	if err != nil {
		return err
	}

	return setEnvironmentVariables(decrypted)
}

// resolveVaultPassword determines the password to use for decryption:
// the explicit flag first, then VAULT_PASSWORD, then an interactive
// prompt.
func resolveVaultPassword(password string) (string, error) {
	if password != "" {
		return password, nil
	}

	if envPwd := os.Getenv("VAULT_PASSWORD"); envPwd != "" {
		return envPwd, nil
	}

	promptedPwd, err := promptVaultPassword()
	if err != nil {
		return "", fmt.Errorf("failed to get vault password: %w", err)
	}
	return promptedPwd, nil
}

// setEnvironmentVariables parses decrypted dotenv content and exports it.
func setEnvironmentVariables(decrypted string) error {
	envMap, err := godotenv.Unmarshal(decrypted)
	if err != nil {
		return fmt.Errorf("environment unmarshaling failed: %w", err)
	}

	for k, v := range envMap {
		if err := os.Setenv(k, v); err != nil {
			return fmt.Errorf("failed to set environment variable %s: %w", k, err)
		}
	}

	return nil
}

// promptVaultPassword prompts the user for a vault password.
func promptVaultPassword() (string, error) {
	fmt.Print("Enter vault password: ")

	if password, err := term.ReadPassword(int(syscall.Stdin)); err == nil {
		fmt.Println()
		return string(password), nil
	}

	// term.ReadPassword fails when stdin is not a terminal
	reader := bufio.NewReader(os.Stdin)
	password, err := reader.ReadBytes('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}

	return strings.TrimSpace(string(password)), nil
}

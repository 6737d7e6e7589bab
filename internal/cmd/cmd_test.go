package cmd

import (
	"testing"
)

func TestRootCommandWiring(t *testing.T) {
	if rootCmd == nil {
		t.Fatal("rootCmd is nil")
	}
	if rootCmd.Use != "deskmux" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "deskmux")
	}

	// Check for expected subcommands (compare by Name(), not Use which includes args)
	expectedCmds := []string{"sessions", "snapshot", "config", "sync", "mount", "vault", "bootstrap"}
	cmdMap := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, expected := range expectedCmds {
		if !cmdMap[expected] {
			t.Errorf("expected subcommand %q not found", expected)
		}
	}
}

func TestSessionsSubcommands(t *testing.T) {
	expected := []string{"list", "create", "delete", "rename", "attach"}
	cmdMap := make(map[string]bool)
	for _, cmd := range sessionsCmd.Commands() {
		cmdMap[cmd.Name()] = true
	}
	for _, name := range expected {
		if !cmdMap[name] {
			t.Errorf("sessions is missing subcommand %q", name)
		}
	}
}

func TestBackendFlagRegistered(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("backend")
	if flag == nil {
		t.Fatal("--backend persistent flag not registered")
	}
	if flag.Shorthand != "b" {
		t.Errorf("backend shorthand = %q, want b", flag.Shorthand)
	}
}

func TestRootRunsWithoutArgs(t *testing.T) {
	// The bare root command launches the interactive menu; it must have
	// a RunE rather than falling through to help.
	if rootCmd.RunE == nil {
		t.Error("root command has no RunE")
	}
}

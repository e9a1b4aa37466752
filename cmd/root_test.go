package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRootCommandRegistration(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{"import", "build", "indicators", "evaluate", "status", "serve"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}

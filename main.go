// parley TUI - A terminal client for a remote chat service.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/parley-tui/internal/config"
	"github.com/jeranaias/parley-tui/internal/ui"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version", "--version", "-v":
			fmt.Printf("parley %s (%s, built %s)\n", Version, GitCommit, BuildDate)
			return
		case "help", "--help", "-h":
			printUsage()
			return
		}
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}

	// The TUI owns the terminal, so logs go to a file.
	if closeLog, err := setupLogging(); err == nil {
		defer closeLog()
	} else {
		log.SetOutput(io.Discard)
	}
	log.Printf("parley %s starting (server %s)", Version, cfg.Server.BaseURL)

	p := tea.NewProgram(
		ui.NewApp(cfg),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "parley: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging redirects the standard logger to ~/.parley/parley.log.
func setupLogging() (func(), error) {
	if err := config.EnsureConfigDir(); err != nil {
		return nil, err
	}
	path, err := config.LogPath()
	if err != nil {
		return nil, err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0600)
	if err != nil {
		return nil, err
	}
	log.SetOutput(f)
	return func() { f.Close() }, nil
}

func printUsage() {
	fmt.Println(`parley - terminal client for a chat service

Usage:
  parley            start the TUI
  parley version    print version information

Configuration:
  ~/.parley/config.toml  (see the ServerConfig and UIConfig fields)
  PARLEY_SERVER_URL      override the chat service base URL
  PARLEY_TIMEOUT_SECS    override the request timeout
  PARLEY_THEME           "dark" or "light"`)
}

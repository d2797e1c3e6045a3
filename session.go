package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/agnivade/levenshtein"
	"go.uber.org/zap"
)

const promptText = ">0 for tower health\n0 for exit\n-1 for settings\ninput: "

type inputKind int

const (
	inputSkip inputKind = iota
	inputTarget
	inputExit
	inputSettings
)

var commandAliases = map[string]inputKind{
	"exit":     inputExit,
	"quit":     inputExit,
	"settings": inputSettings,
	"config":   inputSettings,
}

// parseInput classifies one line typed at the prompt.
func parseInput(line string) (inputKind, int) {
	in := strings.ToLower(strings.TrimSpace(line))
	if n, err := strconv.Atoi(in); err == nil {
		switch n {
		case 0:
			return inputExit, 0
		case -1:
			return inputSettings, 0
		}
		return inputTarget, n
	}
	if len(in) < 3 {
		return inputSkip, 0
	}

	best, bestDist := inputSkip, -1
	for alias, kind := range commandAliases {
		dist := levenshtein.ComputeDistance(in, alias)
		if dist > levenshteinLimit(len(alias)) {
			continue
		}
		if bestDist < 0 || dist < bestDist {
			best, bestDist = kind, dist
		}
	}
	return best, 0
}

func levenshteinLimit(length int) int {
	switch {
	case length <= 4:
		return 1
	case length <= 8:
		return 2
	default:
		return 3
	}
}

// Session is the interactive prompt loop. The config file is re-read
// before every query so edits made from the settings command apply
// immediately.
type Session struct {
	ConfigPath string
	In         io.Reader
	Out        io.Writer
	// Prompt controls whether the prompt text is printed.
	Prompt bool
	// JSON prints each result as a SolveResponse instead of a report.
	JSON    bool
	Log     *zap.Logger
	Metrics *Metrics
	// Open opens the config file for editing; defaults to openFile.
	Open func(path string) error
}

// Run reads targets until the user exits, input ends, or ctx is done.
func (s *Session) Run(ctx context.Context) error {
	log := s.Log
	if log == nil {
		log = zap.NewNop()
	}
	open := s.Open
	if open == nil {
		open = openFile
	}
	sc := bufio.NewScanner(s.In)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		cfg, err := EnsureConfig(s.ConfigPath, log)
		if err != nil {
			return err
		}
		solver, err := NewSolver(cfg, log, s.Metrics)
		if errors.Is(err, ErrEmptyCatalog) {
			fmt.Fprintln(s.Out, "Error: No spells are enabled in config!")
			return fmt.Errorf("%s: %w", s.ConfigPath, err)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", s.ConfigPath, err)
		}

		if s.Prompt {
			fmt.Fprint(s.Out, promptText)
		}
		if !sc.Scan() {
			return sc.Err()
		}

		kind, target := parseInput(sc.Text())
		switch kind {
		case inputExit:
			return nil
		case inputSkip:
			log.Debug("skipping input", zap.String("input", sc.Text()))
		case inputSettings:
			if err := open(s.ConfigPath); err != nil {
				log.Warn("could not open config", zap.String("path", s.ConfigPath), zap.Error(err))
				fmt.Fprintln(s.Out, "Error: Could not open file!")
				continue
			}
			fmt.Fprintln(s.Out, "Opened config file!")
			if s.Prompt {
				fmt.Fprint(s.Out, "Press Enter to continue... (ignore output of the text editor if present)")
			}
			if !sc.Scan() {
				return sc.Err()
			}
		case inputTarget:
			if err := s.solve(solver, target); err != nil {
				return err
			}
		}
	}
}

func (s *Session) solve(solver *Solver, target int) error {
	res, report, err := solver.Solve(target)
	if errors.Is(err, ErrTargetRange) {
		fmt.Fprintf(s.Out, "Error: Tower health must be at most %d!\n", maxMagnitude)
		return nil
	}
	if err != nil {
		return err
	}
	if s.JSON {
		enc := json.NewEncoder(s.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(SolveResponse{Target: target, Resolution: res, Report: report})
	}
	WriteResolution(s.Out, res, report)
	fmt.Fprintln(s.Out)
	return nil
}

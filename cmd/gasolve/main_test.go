package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gookit/color"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return color.ClearCode(out.String()), err
}

func TestSetupLogging_WarnByDefault(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := setupLogging(false, &buf, "")
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	if closer != nil {
		t.Error("Expected no closer without a log file")
	}

	logger.Debug("hidden")
	logger.Warn("shown")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("Debug record leaked without --debug")
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Error("Expected warning in output")
	}
}

func TestSetupLogging_DebugToFile(t *testing.T) {
	var buf bytes.Buffer
	logPath := filepath.Join(t.TempDir(), "logs", "gasolve.log")

	logger, closer, err := setupLogging(true, &buf, logPath)
	if err != nil {
		t.Fatalf("setupLogging: %v", err)
	}
	if closer == nil {
		t.Fatal("Expected a closer for the log file")
	}
	logger.Debug("generation", "n", 1)
	closer.Close()

	if buf.Len() != 0 {
		t.Errorf("Expected nothing on the writer, got %q", buf.String())
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "generation") {
		t.Errorf("Expected debug record in log file, got %q", data)
	}
}

func TestHimmelblauCommand(t *testing.T) {
	out, err := runCLI(t, "himmelblau", "--seed", "5", "--population", "10", "--generations", "3")
	if err != nil {
		t.Fatalf("himmelblau: %v\n%s", err, out)
	}
	for _, want := range []string{"G:0 -> fitness:", "G:3 -> fitness:", "himmelblau best fitness", "seed 5"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in output:\n%s", want, out)
		}
	}
}

func TestKnapsackCommand_RecordsAndLists(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	save := filepath.Join(dir, "snapshots")
	plot := filepath.Join(dir, "knapsack.png")

	out, err := runCLI(t, "knapsack", "--seed", "8", "--generations", "5", "--quiet",
		"--capacity", "2", "--db", db, "--save", save, "--plot", plot)
	if err != nil {
		t.Fatalf("knapsack: %v\n%s", err, out)
	}
	if strings.Contains(out, "G:1 ->") {
		t.Error("Expected no generation lines with --quiet")
	}
	if !strings.Contains(out, "used space") {
		t.Errorf("Expected load report:\n%s", out)
	}
	if _, err := os.Stat(plot); err != nil {
		t.Errorf("Expected plot file: %v", err)
	}
	snapshots, err := filepath.Glob(filepath.Join(save, "*.yaml"))
	if err != nil || len(snapshots) != 1 {
		t.Errorf("Expected one snapshot, got %v (%v)", snapshots, err)
	}

	out, err = runCLI(t, "history", "--db", db)
	if err != nil {
		t.Fatalf("history: %v\n%s", err, out)
	}
	if !strings.Contains(out, "knapsack") {
		t.Errorf("Expected stored knapsack run:\n%s", out)
	}
}

func TestTeamCommand_Tournament(t *testing.T) {
	out, err := runCLI(t, "team", "--seed", "3", "--generations", "4", "--quiet",
		"--selection", "tournament", "--tournament-size", "3")
	if err != nil {
		t.Fatalf("team: %v\n%s", err, out)
	}
	if !strings.Contains(out, "opponent [") || !strings.Contains(out, "vs opponents") {
		t.Errorf("Expected opponent and member report:\n%s", out)
	}
}

func TestTeamCommand_NamedOpponent(t *testing.T) {
	out, err := runCLI(t, "team", "--seed", "2", "--generations", "2", "--quiet",
		"--opponent", "pikachu,eevee,squirtle,bulbasaur,charmander,snorlax")
	if err != nil {
		t.Fatalf("team: %v\n%s", err, out)
	}
	for _, want := range []string{"Pikachu(electric)  hp", "Snorlax(normal)  hp"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected %q in opponent report:\n%s", want, out)
		}
	}

	if _, err := runCLI(t, "team", "--opponent", "pikachu,eevee"); err == nil {
		t.Error("Expected error for a short opponent lineup")
	}
}

func TestTeamCommand_RejectsOversizedTournament(t *testing.T) {
	_, err := runCLI(t, "team", "--population", "4", "--selection", "tournament", "--tournament-size", "5")
	if err == nil {
		t.Fatal("Expected configuration error")
	}
}

func TestConfigFileWithFlagOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	body := "run:\n  population: 6\n  generations: 2\n  seed: 21\n"
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, "himmelblau", "--config", path, "--seed", "22")
	if err != nil {
		t.Fatalf("himmelblau: %v\n%s", err, out)
	}
	if !strings.Contains(out, "seed 22") {
		t.Errorf("Expected flag seed to win over file:\n%s", out)
	}
	if strings.Contains(out, "G:3 ->") {
		t.Errorf("Expected file generations to apply:\n%s", out)
	}
}

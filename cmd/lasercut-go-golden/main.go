package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"liblasercut-go-migration/pkg/config"
	"liblasercut-go-migration/pkg/driver"
	"liblasercut-go-migration/pkg/job"
	"liblasercut-go-migration/pkg/normalize"
	"liblasercut-go-migration/pkg/transport"
)

// runCase serializes one case directory's job and returns the G-code
// text. The case's driver.cfg selects the profile in its [golden]
// section and may overlay [driver] options.
func runCase(caseDir string) (string, error) {
	cfg, err := config.Load(filepath.Join(caseDir, "driver.cfg"))
	if err != nil {
		return "", err
	}

	profileName := driver.DefaultProfile
	if sec := cfg.GetSectionOptional("golden"); sec != nil {
		profileName, err = sec.Get("profile", driver.DefaultProfile)
		if err != nil {
			return "", err
		}
	}
	p, err := driver.Lookup(profileName)
	if err != nil {
		return "", err
	}
	if sec := cfg.GetSectionOptional("driver"); sec != nil {
		if err := p.Config.ApplySection(sec); err != nil {
			return "", err
		}
	}
	if err := p.Config.Validate(); err != nil {
		return "", err
	}

	j, err := job.LoadScript(filepath.Join(caseDir, "job.txt"))
	if err != nil {
		return "", err
	}
	if err := j.Validate(p.Config.SupportedResolutions); err != nil {
		return "", err
	}

	var buf bytes.Buffer
	stream := transport.NewStream(&buf, p.Config.LineEnding)
	if err := driver.New(p).WriteJob(stream, j); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func main() {
	var (
		casedir = flag.String("casedir", "testdata/golden", "golden case directory")
		only    = flag.String("only", "", "only run a single case")
		update  = flag.Bool("update", false, "rewrite expected.gcode from actual output")
	)
	flag.Parse()

	entries, err := os.ReadDir(*casedir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(2)
	}

	ran := 0
	failed := 0
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := e.Name()
		if *only != "" && *only != name {
			continue
		}
		ran++

		caseDir := filepath.Join(*casedir, name)
		actual, err := runCase(caseDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s: %v\n", name, err)
			os.Exit(2)
		}

		if err := os.WriteFile(filepath.Join(caseDir, "actual.gcode"), []byte(actual), 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(2)
		}

		expectedPath := filepath.Join(caseDir, "expected.gcode")
		if *update {
			if err := os.WriteFile(expectedPath, []byte(actual), 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
				os.Exit(2)
			}
			fmt.Printf("UPDATE %s\n", name)
			continue
		}

		expected, err := os.ReadFile(expectedPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(2)
		}

		if diff := normalize.CompareText(string(expected), actual); diff != nil {
			fmt.Printf("FAIL %s: %s\n", name, diff)
			failed++
			continue
		}
		fmt.Printf("PASS %s\n", name)
	}

	if ran == 0 {
		fmt.Fprintf(os.Stderr, "ERROR: no cases found in %s\n", *casedir)
		os.Exit(2)
	}
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d cases failed\n", failed, ran)
		os.Exit(1)
	}
}

// lasercut-go converts laser job scripts into G-code for Grbl-style
// controllers. It loads a device profile, serializes the job's rapid
// and cut moves into incremental or absolute G-code, and reports a
// run summary.
//
// Usage:
//
//	lasercut-go -job cut.job [options]
//
// Options:
//
//	-job string      Job script file (required)
//	-profile string  Device profile name (default "grbl-compact")
//	-config string   Driver configuration file (INI)
//	-o string        Output G-code file (default: stdout)
//	-history string  SQLite job history database
//	-stats           Dump metrics text to stderr after the run
//	-trace           Enable debug tracing
//	-logfile string  Log file path (default: stderr)
//
// Examples:
//
//	# Serialize with the default profile to stdout
//	lasercut-go -job bracket.job
//
//	# Absolute G-code with a config overlay, written to a file
//	lasercut-go -job bracket.job -profile grbl -config laser.cfg -o bracket.gcode
//
//	# Record the run in a history database
//	lasercut-go -job bracket.job -history jobs.db
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	_ "modernc.org/sqlite"

	"liblasercut-go-migration/pkg/config"
	"liblasercut-go-migration/pkg/driver"
	"liblasercut-go-migration/pkg/estimate"
	"liblasercut-go-migration/pkg/history"
	"liblasercut-go-migration/pkg/job"
	"liblasercut-go-migration/pkg/log"
	"liblasercut-go-migration/pkg/metrics"
	"liblasercut-go-migration/pkg/transport"
	"liblasercut-go-migration/pkg/units"
)

func main() {
	// Command line flags
	jobFile := flag.String("job", "", "Job script file (required)")
	profileName := flag.String("profile", driver.DefaultProfile, "Device profile name")
	configFile := flag.String("config", "", "Driver configuration file (INI)")
	outFile := flag.String("o", "", "Output G-code file (default: stdout)")
	historyDB := flag.String("history", "", "SQLite job history database")
	stats := flag.Bool("stats", false, "Dump metrics text to stderr after the run")
	trace := flag.Bool("trace", false, "Enable debug tracing")
	logFile := flag.String("logfile", "", "Log file path (default: stderr)")

	flag.Parse()

	// Validate required flags
	if *jobFile == "" {
		fmt.Fprintf(os.Stderr, "Error: -job is required\n")
		flag.Usage()
		os.Exit(1)
	}

	// Set up logging
	logger := log.New("lasercut")
	log.ConfigureFromEnv(logger)
	if *trace {
		logger.SetLevel(log.DEBUG)
	}
	if *logFile != "" {
		w, err := log.NewRotatingFileWriter(log.RotationConfig{Filename: *logFile})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer w.Close()
		logger.SetWriter(w)
		logger.SetColorize(false)
	}

	started := time.Now()

	// Load the device profile, with config overlays when given
	var cfg *config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fatalf(logger, "Error loading config: %v", err)
		}
	}

	profile, err := resolveProfile(cfg, *profileName)
	if err != nil {
		fatalf(logger, "Error resolving profile: %v", err)
	}
	if cfg != nil {
		if sec := cfg.GetSectionOptional("driver"); sec != nil {
			if err := profile.Config.ApplySection(sec); err != nil {
				fatalf(logger, "Error applying [driver] config: %v", err)
			}
		}
	}
	if err := profile.Config.Validate(); err != nil {
		fatalf(logger, "Invalid driver configuration: %v", err)
	}

	// Parse and validate the job script
	laserJob, err := job.LoadScript(*jobFile)
	if err != nil {
		fatalf(logger, "Error loading job script: %v", err)
	}
	if err := laserJob.Validate(profile.Config.SupportedResolutions); err != nil {
		fatalf(logger, "Invalid job: %v", err)
	}

	logger.Info("job: %s (%d commands, %d parts)", laserJob.Name, laserJob.CommandCount(), len(laserJob.Parts))
	logger.Info("profile: %s", profile.Name)

	// Open the output
	var out io.Writer = os.Stdout
	var outF *os.File
	if *outFile != "" {
		outF, err = os.Create(*outFile)
		if err != nil {
			fatalf(logger, "Error creating output file: %v", err)
		}
		out = outF
		logger.Info("output: %s", *outFile)
	}
	stream := transport.NewStream(out, profile.Config.LineEnding)

	// Optional history ledger
	var store *history.Store
	var record *history.JobRecord
	if *historyDB != "" {
		db, err := sql.Open("sqlite", *historyDB)
		if err != nil {
			fatalf(logger, "Error opening history database: %v", err)
		}
		defer db.Close()

		store, err = history.New(db)
		if err != nil {
			fatalf(logger, "Error initializing history: %v", err)
		}
		record, err = store.StartJob(filepath.Base(*jobFile), profile.Name)
		if err != nil {
			fatalf(logger, "Error recording job start: %v", err)
		}
	}

	// Wire up the serializer
	estimator := estimate.New(profile.Config.MaxSpeed, profile.Config.TravelSpeed)
	driverMetrics := metrics.NewDriverMetrics()

	serializer := driver.New(profile)
	serializer.SetLogger(logger)
	serializer.SetEstimator(estimator)
	serializer.SetMetrics(driverMetrics)

	err = serializer.WriteJob(stream, laserJob)
	driverMetrics.AddBytes(uint64(stream.Bytes()))
	status := estimator.GetStatus()

	if store != nil && record != nil {
		jobStatus := history.StatusCompleted
		if err != nil {
			jobStatus = history.StatusError
		}
		result := history.JobResult{
			Lines:            stream.Lines(),
			Bytes:            stream.Bytes(),
			EstimatedSeconds: status.TotalSeconds,
			CutMM:            status.CutMM,
			TravelMM:         status.TravelMM,
		}
		if herr := store.FinishJob(record.JobID, jobStatus, result); herr != nil {
			logger.Warn("could not record job result: %v", herr)
		}
	}
	if err != nil {
		fatalf(logger, "Serialization failed: %v", err)
	}

	if outF != nil {
		if err := outF.Close(); err != nil {
			fatalf(logger, "Error closing output file: %v", err)
		}
	}

	// Run summary
	logger.Info("wrote %s lines (%s) in %s",
		humanize.Comma(stream.Lines()),
		humanize.Bytes(uint64(stream.Bytes())),
		time.Since(started).Round(time.Millisecond))
	logger.Info("estimated run time %.1fs (cut %.1f mm, travel %.1f mm)",
		status.TotalSeconds, status.CutMM, status.TravelMM)
	if box, ok := jobBoundsMM(laserJob); ok {
		logger.Info("bounding box %.2f x %.2f mm at (%.2f, %.2f)",
			box.MaxX-box.MinX, box.MaxY-box.MinY, box.MinX, box.MinY)
	}
	if record != nil {
		logger.Info("history job %s recorded", record.JobID)
	}

	if *stats {
		fmt.Fprint(os.Stderr, driverMetrics.Gather())
	}
}

// fatalf logs the message at ERROR level and exits nonzero.
func fatalf(logger *log.Logger, format string, args ...interface{}) {
	logger.Error(format, args...)
	os.Exit(1)
}

// resolveProfile looks the named profile up among the config file's
// [profile <name>] sections before falling back to the built-ins. A
// custom section starts from its "base" profile (default grbl-compact)
// and overlays its own options.
func resolveProfile(cfg *config.Config, name string) (*driver.Profile, error) {
	if cfg != nil {
		for _, sec := range cfg.GetPrefixSections("profile ") {
			custom := strings.TrimSpace(strings.TrimPrefix(sec.GetName(), "profile "))
			if custom != name {
				continue
			}
			base, err := sec.Get("base", driver.DefaultProfile)
			if err != nil {
				return nil, err
			}
			p, err := driver.Lookup(base)
			if err != nil {
				return nil, err
			}
			p.Name = custom
			if err := p.Config.ApplySection(sec); err != nil {
				return nil, err
			}
			return p, nil
		}
	}
	return driver.Lookup(name)
}

// jobBoundsMM merges the per-part pixel bounds into one box in mm.
func jobBoundsMM(j *job.LaserJob) (job.Box, bool) {
	var box job.Box
	found := false
	for _, part := range j.Parts {
		pb, ok := part.Bounds()
		if !ok {
			continue
		}
		mm := job.Box{
			MinX: units.PxToMM(pb.MinX, part.Resolution),
			MinY: units.PxToMM(pb.MinY, part.Resolution),
			MaxX: units.PxToMM(pb.MaxX, part.Resolution),
			MaxY: units.PxToMM(pb.MaxY, part.Resolution),
		}
		if !found {
			box = mm
			found = true
			continue
		}
		if mm.MinX < box.MinX {
			box.MinX = mm.MinX
		}
		if mm.MinY < box.MinY {
			box.MinY = mm.MinY
		}
		if mm.MaxX > box.MaxX {
			box.MaxX = mm.MaxX
		}
		if mm.MaxY > box.MaxY {
			box.MaxY = mm.MaxY
		}
	}
	return box, found
}

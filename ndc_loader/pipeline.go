package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"ndcduns/dailymed"
	"ndcduns/spl"
)

const totalSteps = 8

// Options configures one pipeline run. Exactly one source is used: XMLDir
// when set, else ZipPath, else the release at URL.
type Options struct {
	URL     string
	ZipPath string
	XMLDir  string

	// WorkDir holds the download and the unpacked release. Empty means a
	// temporary directory removed after the run.
	WorkDir string
	Keep    bool

	Extract spl.Config
	Workers int

	// EstablishmentsFile is a JSON registry joined to the new mappings.
	EstablishmentsFile string

	Download dailymed.DownloadOptions
}

// Result reports what a run produced.
type Result struct {
	Run      Run
	Mappings []spl.Mapping
	Written  map[string]int
	Matched  int64
}

func step(n int, format string, args ...any) {
	log.Printf("[STEP %d/%d] %s", n, totalSteps, fmt.Sprintf(format, args...))
}

// runPipeline acquires the SPL documents, extracts mappings and hands them
// to every sink. With no sinks it is a dry run.
func runPipeline(ctx context.Context, opts Options, sinks []MappingSink) (*Result, error) {
	start := time.Now()

	ex, err := spl.NewExtractor(opts.Extract)
	if err != nil {
		return nil, err
	}

	var establishments []Establishment
	var matcher EstablishmentMatcher
	if opts.EstablishmentsFile != "" {
		for _, s := range sinks {
			if m, ok := s.(EstablishmentMatcher); ok {
				matcher = m
				break
			}
		}
		if matcher == nil {
			return nil, errors.New("establishment matching requires a postgres destination")
		}
		establishments, err = LoadEstablishments(opts.EstablishmentsFile)
		if err != nil {
			return nil, err
		}
	}

	work, cleanup, err := prepareWorkDir(opts)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	xmlDir, source, err := acquire(ctx, opts, work)
	if err != nil {
		return nil, err
	}

	step(5, "Extracting mappings (%s mode, %d workers)", opts.Extract.Mode, opts.Workers)
	paths, err := dailymed.ListXML(xmlDir)
	if err != nil {
		return nil, fmt.Errorf("list XML files: %w", err)
	}
	mappings, stats, err := extractAll(ctx, ex, paths, opts.Workers)
	if err != nil {
		return nil, err
	}

	run := newRun(opts.Extract.Mode, source)
	run.Stats = stats
	res := &Result{Run: run, Mappings: mappings, Written: make(map[string]int)}

	if len(sinks) == 0 {
		step(6, "Dry run, nothing written")
	} else {
		step(6, "Replacing %d destination(s) with %d mappings", len(sinks), len(mappings))
		for _, s := range sinks {
			n, err := s.Replace(ctx, run, mappings)
			if err != nil {
				return res, fmt.Errorf("replace %s: %w", s.Name(), err)
			}
			res.Written[s.Name()] = n
			log.Printf("  %s: %d mappings", s.Name(), n)
		}
	}

	if matcher != nil {
		step(7, "Matching %d establishments", len(establishments))
		res.Matched, err = matcher.MatchEstablishments(ctx, establishments)
		if err != nil {
			return res, err
		}
		log.Printf("  %d NDC/establishment rows", res.Matched)
	} else {
		step(7, "No establishment registry, skipping match")
	}

	if opts.Keep {
		step(8, "Keeping work directory %s", work)
	} else {
		step(8, "Cleaning up %s", work)
	}

	printSummary(res, time.Since(start))
	return res, nil
}

// prepareWorkDir returns the work directory and the cleanup to run when the
// pipeline ends.
func prepareWorkDir(opts Options) (string, func(), error) {
	if opts.WorkDir == "" {
		dir, err := os.MkdirTemp("", "ndc_loader-*")
		if err != nil {
			return "", nil, fmt.Errorf("create work dir: %w", err)
		}
		return dir, func() {
			if !opts.Keep {
				os.RemoveAll(dir)
			}
		}, nil
	}

	if err := os.MkdirAll(opts.WorkDir, 0755); err != nil {
		return "", nil, fmt.Errorf("create work dir: %w", err)
	}
	// A caller-provided directory keeps the download for the next run.
	return opts.WorkDir, func() {
		if !opts.Keep {
			os.RemoveAll(filepath.Join(opts.WorkDir, "release"))
			os.RemoveAll(filepath.Join(opts.WorkDir, "xml"))
		}
	}, nil
}

// acquire runs steps 1 to 4 and returns the directory of SPL XML files and
// a description of where they came from.
func acquire(ctx context.Context, opts Options, work string) (string, string, error) {
	if opts.XMLDir != "" {
		for n := 1; n <= 4; n++ {
			step(n, "Skipped, reading XML from %s", opts.XMLDir)
		}
		return opts.XMLDir, opts.XMLDir, nil
	}

	zipPath, source := opts.ZipPath, opts.ZipPath
	if zipPath == "" {
		source = opts.URL
		zipPath = filepath.Join(work, filepath.Base(opts.URL))
		step(1, "Downloading %s", opts.URL)
		dl := opts.Download
		dl.Reuse = dl.Reuse || opts.WorkDir != ""
		if _, err := dailymed.Download(ctx, opts.URL, zipPath, dl); err != nil {
			return "", "", err
		}
	} else {
		step(1, "Using local release %s", zipPath)
	}

	releaseDir := filepath.Join(work, "release")
	step(2, "Unpacking %s", filepath.Base(zipPath))
	n, err := dailymed.ExtractArchive(zipPath, releaseDir)
	if err != nil {
		return "", "", err
	}
	log.Printf("  %d files", n)

	step(3, "Locating %s directory", dailymed.PrescriptionDir)
	rxDir, err := dailymed.FindDir(releaseDir, dailymed.PrescriptionDir)
	if err != nil {
		return "", "", err
	}

	xmlDir := filepath.Join(work, "xml")
	step(4, "Collecting XML from %s", rxDir)
	if _, err := dailymed.CollectXML(rxDir, xmlDir); err != nil {
		return "", "", err
	}
	return xmlDir, source, nil
}

func printSummary(res *Result, elapsed time.Duration) {
	s := res.Run.Stats
	fmt.Println()
	fmt.Printf("Done in %s (run %s)\n", elapsed.Round(time.Millisecond), res.Run.ID)
	fmt.Printf("  Mode:              %s\n", res.Run.Mode)
	fmt.Printf("  Documents:         %d (%d failed)\n", s.Documents, s.Failed)
	fmt.Printf("  With mappings:     %d\n", s.WithMappings)
	fmt.Printf("  Without mappings:  %d\n", s.WithoutMappings)
	fmt.Printf("  Records:           %d\n", s.Records)
	fmt.Printf("    NDC and DUNS:    %d\n", s.Both)
	fmt.Printf("    NDC only:        %d\n", s.NDCOnly)
	fmt.Printf("    DUNS only:       %d\n", s.DUNSOnly)
	fmt.Printf("  Mappings:          %d\n", s.Mappings)
	for name, n := range res.Written {
		fmt.Printf("  Written (%s): %d\n", name, n)
	}
	if res.Matched > 0 {
		fmt.Printf("  Establishment matches: %d\n", res.Matched)
	}
}

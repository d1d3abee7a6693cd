// Command ckks-roundtrip encodes, encrypts, decrypts and decodes a seeded
// random vector with CKKS and measures the approximation error of the round
// trip.
//
// Usage:
//
//	ckks-roundtrip [-runs n] [-tol x] [-csv file] [-v] [logN logQ logP gapShift min max seed]
package main

import (
	"encoding/csv"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/tuneinsight/ckks-roundtrip-precision/operations"
	"github.com/tuneinsight/ckks-roundtrip-precision/params"
	"github.com/tuneinsight/ckks-roundtrip-precision/roundtrip"
	"github.com/tuneinsight/ckks-roundtrip-precision/sampler"
	"github.com/tuneinsight/ckks-roundtrip-precision/stats"
)

// ErrToleranceExceeded is returned when a round trip is less precise than
// the tolerance given with -tol.
var ErrToleranceExceeded = errors.New("tolerance exceeded")

var (
	info = color.New(color.FgCyan)
	fail = color.New(color.FgRed)
)

type config struct {
	args    params.Arguments
	runs    int     // Number of recorded round trips
	tol     float64 // Maximum RMS error, 0 to only report it
	csvPath string
	verbose bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if err := execute(args, stdout, stderr); err != nil {
		fail.Fprintf(stderr, "Error: %s\n", err)
		return 1
	}
	return 0
}

func parseConfig(args []string, stderr io.Writer) (cfg config, err error) {

	fs := flag.NewFlagSet("ckks-roundtrip", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&cfg.runs, "runs", 1, "number of round trips, run i uses seed+i (fresh key, seeded vector and encryption)")
	fs.Float64Var(&cfg.tol, "tol", 0, "fail if the RMS error of a round trip exceeds this value (0 disables the check)")
	fs.StringVar(&cfg.csvPath, "csv", "", "write the precision statistics to this CSV file")
	fs.BoolVar(&cfg.verbose, "v", false, "print the error of each round trip")

	if err = fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("%w: %w", params.ErrInvalidParameter, err)
	}

	if cfg.runs < 1 {
		return cfg, fmt.Errorf("%w: runs=%d must be positive", params.ErrInvalidParameter, cfg.runs)
	}

	if cfg.tol < 0 {
		return cfg, fmt.Errorf("%w: tol=%f must be non-negative", params.ErrInvalidParameter, cfg.tol)
	}

	cfg.args, err = params.ParseArguments(fs.Args())

	return
}

func execute(args []string, stdout, stderr io.Writer) (err error) {

	var cfg config
	if cfg, err = parseConfig(args, stderr); err != nil {
		return
	}

	var p params.ScaleParameters
	if p, err = params.Derive(cfg.args); err != nil {
		return
	}

	fmt.Fprintln(stdout, p.String())

	eng := operations.NewCKKS()
	prec := stats.NewPrecisionStats()

	for i := 0; i < cfg.runs; i++ {

		seed := cfg.args.Seed + int64(i)

		// The engine validates the ring before the vector is allocated.
		var inst *roundtrip.Instance
		if inst, err = roundtrip.NewInstance(eng, p); err != nil {
			return
		}

		var v sampler.SampleVector
		if v, err = sampler.Generate(seed, p.Slots, float64(cfg.args.Min), float64(cfg.args.Max)); err != nil {
			return
		}

		var res roundtrip.Result
		if res, err = inst.Run(v, seed); err != nil {
			return
		}

		prec.Update(res.RMS)

		if cfg.verbose {
			info.Fprintf(stdout, "run: %d seed: %d rms: %.5e prec: %.5f digest: %s\n", i, seed, res.RMS, res.Precision(), v.Digest())
		}

		if cfg.tol > 0 && res.RMS > cfg.tol {
			return fmt.Errorf("%w: run %d (seed %d): rms %.5e > %.5e", ErrToleranceExceeded, i, seed, res.RMS, cfg.tol)
		}
	}

	if err = prec.Finalize(); err != nil {
		return
	}

	if cfg.verbose {
		info.Fprintln(stdout, prec.String())
	}

	if cfg.csvPath != "" {
		return writeCSV(cfg.csvPath, prec)
	}

	return nil
}

func writeCSV(path string, prec *stats.PrecisionStats) (err error) {

	f, err := os.Create(path)
	if err != nil {
		return err
	}

	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)

	if err = w.Write(stats.Header); err != nil {
		return
	}

	if err = w.Write(prec.ToCSV()); err != nil {
		return
	}

	w.Flush()

	return w.Error()
}

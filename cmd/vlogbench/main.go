// Copyright 2024 The vlog Authors
// This file is part of the vlog library.
//
// The vlog library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The vlog library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the vlog library. If not, see <http://www.gnu.org/licenses/>.

// vlogbench runs the reference workload against an Engine and reports
// storage and timing statistics.
package main

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/urfave/cli.v1"

	"github.com/vlogdb/vlog/config"
	"github.com/vlogdb/vlog/log"
	"github.com/vlogdb/vlog/sysinfo"
	"github.com/vlogdb/vlog/workload"
)

var (
	roundsFlag = cli.Uint64Flag{
		Name:  "rounds",
		Usage: "number of mutation rounds to run",
		Value: 1 << 20,
	}
	stateSizeFlag = cli.Uint64Flag{
		Name:  "state-size",
		Usage: "number of elements in the versioned vector",
		Value: 1 << 16,
	}
	maxStepFlag = cli.Uint64Flag{
		Name:  "max-step",
		Usage: "exclusive upper bound on the number of updates per round (each round draws 0..max-step-1)",
		Value: 8,
	}
	seedFlag = cli.Int64Flag{
		Name:  "seed",
		Usage: "PRNG seed driving the workload",
		Value: 0,
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a TOML workload config, overridden by any flag set explicitly",
	}
	noVerifyFlag = cli.BoolFlag{
		Name:  "no-verify",
		Usage: "skip the O(rounds) recovery verification pass",
	}
)

func main() {
	app := cli.NewApp()
	app.Name = "vlogbench"
	app.Usage = "drive and verify the versioned-state snapshot engine's reference workload"
	app.Flags = []cli.Flag{roundsFlag, stateSizeFlag, maxStepFlag, seedFlag, configFlag, noVerifyFlag}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		log.Crit("vlogbench failed", "err", err)
	}
}

func run(ctx *cli.Context) error {
	cfg := config.Defaults()
	if path := ctx.String(configFlag.Name); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return fmt.Errorf("loading config %s: %w", path, err)
		}
		cfg = loaded
	}
	if ctx.IsSet(roundsFlag.Name) {
		cfg.Rounds = uint32(ctx.Uint64(roundsFlag.Name))
	}
	if ctx.IsSet(stateSizeFlag.Name) {
		cfg.StateSize = uint32(ctx.Uint64(stateSizeFlag.Name))
	}
	if ctx.IsSet(maxStepFlag.Name) {
		cfg.MaxStep = uint32(ctx.Uint64(maxStepFlag.Name))
	}
	if ctx.IsSet(seedFlag.Name) {
		cfg.Seed = ctx.Int64(seedFlag.Name)
	}
	if ctx.Bool(noVerifyFlag.Name) {
		cfg.Verify = false
	}

	res, err := workload.Run(cfg)
	if err != nil {
		return err
	}
	printReport(res)
	return nil
}

func printReport(res workload.Result) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"metric", "value"})
	table.Append([]string{"rounds", fmt.Sprint(res.Rounds)})
	table.Append([]string{"state size", fmt.Sprint(res.StateSize)})
	table.Append([]string{"generation time", res.Duration.String()})
	if res.VerifyTime > 0 {
		table.Append([]string{"verification time", res.VerifyTime.String()})
		table.Append([]string{"verified", fmt.Sprint(res.Verified)})
		table.Append([]string{"mismatches", fmt.Sprint(res.Mismatches)})
	}
	table.Append([]string{"sparse bytes", fmt.Sprint(res.Stats.SparseBytes)})
	table.Append([]string{"full snapshot bytes", fmt.Sprint(res.Stats.FullBytes)})
	table.Append([]string{"forward-only sparse bytes", fmt.Sprint(res.Stats.ForwardOnlyBytes)})
	table.Append([]string{"compressed sparse bytes", fmt.Sprint(res.Stats.CompressedBytes)})

	if rss, err := sysinfo.PeakRSSBytes(); err == nil && rss > 0 {
		table.Append([]string{"peak RSS bytes", fmt.Sprint(rss)})
	}
	table.Render()
}

package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"mcnbt/convert"
	"mcnbt/nbt"
	"mcnbt/region"
	"mcnbt/snbt"
	"mcnbt/state"
)

// inspectFile prints the tag tree of a single world data file to stdout.
func inspectFile(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("inspect")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}

	depth := int(cmd.Int("depth"))
	if depth == 0 && env.Cfg != nil {
		depth = env.Cfg.Processing.InspectDepth
	}

	data, err := os.ReadFile(src)
	if err != nil {
		return fmt.Errorf("unable to read input file: %w", err)
	}

	kind := convert.DetectKind(data)
	log.Debug("Input detected", zap.String("file", src), zap.Stringer("kind", kind))

	switch kind {
	case convert.KindRegion:
		a, err := region.Load(ctx, data)
		if err != nil {
			return err
		}
		for _, d := range a.Diagnostics() {
			log.Warn("Bad chunk", zap.String("problem", d.String()))
		}
		for _, e := range a.AllChunks() {
			fmt.Fprintf(os.Stdout, "chunk (%d,%d), modified %d:\n", e.X, e.Z, a.Timestamp(e.X, e.Z))
			fmt.Fprint(os.Stdout, nbt.Inspect(e.Doc, depth))
		}
		return nil
	case convert.KindSNBT:
		doc, err := snbt.ParseDocument(string(data))
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, nbt.Inspect(doc, depth))
		return nil
	case convert.KindJSON:
		doc, err := nbt.FromJSON(data)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, nbt.Inspect(doc, depth))
		return nil
	case convert.KindNBT, convert.KindNBTGzip, convert.KindNBTZlib:
		doc, err := nbt.ReadAuto(data)
		if err != nil {
			return err
		}
		fmt.Fprint(os.Stdout, nbt.Inspect(doc, depth))
		return nil
	default:
		return fmt.Errorf("input was not recognized as world data (%s)", src)
	}
}

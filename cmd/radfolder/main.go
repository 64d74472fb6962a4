// radfolder is a CLI utility for compiling building models into radiance
// scene folders.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/zha/honeybee-radiance/internal/config"
	"github.com/zha/honeybee-radiance/internal/folder"
	"github.com/zha/honeybee-radiance/internal/logger"
	"github.com/zha/honeybee-radiance/internal/postprocess"
	"github.com/zha/honeybee-radiance/internal/writer"
	"github.com/zha/honeybee-radiance/pkg/model"
	"github.com/zha/honeybee-radiance/pkg/sky"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "compile":
		cmdCompile(args)
	case "rad":
		cmdRad(args)
	case "sky":
		cmdSky(args)
	case "metrics":
		cmdMetrics(args)
	case "glare":
		cmdGlare(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`radfolder - radiance scene folder compiler

Usage:
  radfolder <command> [options] <args>

Commands:
  compile [-o dir] [-minimal] [-workers n] <model.json>  Compile a model into a radiance folder
  rad [-blk] [-minimal] <model.json>                     Print the model as a radiance string
  sky [-g refl] [-u] <irradiance|illuminance> <value>    Print a certain-irradiance sky
  metrics [-out dir] [-grid name] <results.ill|folder>   Compute annual daylight metrics
  glare [-gt dgp] <results.dgp|folder>                   Compute annual glare autonomy
  config init [path]                                     Write the default config file

Examples:
  radfolder compile -o ./office_radiance office.json
  radfolder rad -minimal office.json
  radfolder sky -g 0.3 illuminance 100000
  radfolder metrics -out metrics results/office.ill
  radfolder glare results`)
}

func fatal(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func cmdCompile(args []string) {
	rest := config.ParseFlags(args)

	cfg, err := config.Load()
	if err != nil {
		fatal("%v", err)
	}
	if len(rest) < 1 {
		fatal("Usage: radfolder compile [-o dir] <model.json>")
	}
	modelPath := rest[0]

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fatal("initializing logger: %v", err)
	}
	defer logger.Sync()

	m, err := model.Load(modelPath)
	if err != nil {
		fatal("%v", err)
	}
	root := cfg.Output.Folder
	if root == "" {
		root = filepath.Join(filepath.Dir(modelPath), "radiance")
	}
	fld := folder.New(root, cfg.Folder.Names)
	opts := writer.Options{Minimal: cfg.Output.Minimal, Workers: cfg.Output.Workers}
	if err := writer.Compile(m, fld, opts); err != nil {
		fatal("%v", err)
	}
	fmt.Println(root)
}

func cmdRad(args []string) {
	fs := flag.NewFlagSet("rad", flag.ExitOnError)
	blk := fs.Bool("blk", false, "Output the blacked-out representation")
	minimal := fs.Bool("minimal", false, "Write radiance strings in minimal single-line form")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fatal("Usage: radfolder rad <model.json>")
	}
	m, err := model.Load(fs.Arg(0))
	if err != nil {
		fatal("%v", err)
	}
	geometry, modifiers := writer.ModelToRad(m, *blk, *minimal)
	fmt.Println(modifiers)
	fmt.Println()
	fmt.Println(geometry)
}

func cmdSky(args []string) {
	fs := flag.NewFlagSet("sky", flag.ExitOnError)
	ground := fs.Float64("g", 0.2, "Ground reflectance")
	uniform := fs.Bool("u", false, "Uniform sky instead of cloudy")
	fs.Parse(args)

	if fs.NArg() < 2 {
		fatal("Usage: radfolder sky <irradiance|illuminance> <value>")
	}
	value, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		fatal("invalid value %q: %v", fs.Arg(1), err)
	}

	var s sky.CertainIrradiance
	switch fs.Arg(0) {
	case "irradiance":
		s = sky.NewCertainIrradiance(value)
	case "illuminance":
		s = sky.FromIlluminance(value)
	default:
		fatal("unknown sky kind %q, want irradiance or illuminance", fs.Arg(0))
	}
	s.GroundReflectance = *ground
	s.Uniform = *uniform
	fmt.Print(s.ToRadiance())
}

func cmdMetrics(args []string) {
	fs := flag.NewFlagSet("metrics", flag.ExitOnError)
	out := fs.String("out", "metrics", "Output folder for the metric files")
	grid := fs.String("grid", "", "Grid name for the output files")
	threshold := fs.Float64("t", 300, "Daylight autonomy threshold in lux")
	udiMin := fs.Float64("lt", 100, "Lower useful daylight illuminance bound in lux")
	udiMax := fs.Float64("ut", 3000, "Upper useful daylight illuminance bound in lux")
	hours := fs.Int("hours", 0, "Total occupied hours (0: derive from the sun-up columns)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fatal("Usage: radfolder metrics [-out dir] <results.ill|folder>")
	}
	target := fs.Arg(0)
	th := postprocess.Thresholds{DA: *threshold, UDIMin: *udiMin, UDIMax: *udiMax}

	if st, err := os.Stat(target); err == nil && st.IsDir() {
		dest, err := postprocess.MetricsToFolder(target, nil, th, *out)
		if err != nil {
			fatal("%v", err)
		}
		fmt.Println(dest)
		return
	}
	// single file: every column is an occupied sun-up hour
	if err := postprocess.MetricsToFiles(target, nil, *out, th, *grid, *hours); err != nil {
		fatal("%v", err)
	}
	fmt.Println(*out)
}

func cmdGlare(args []string) {
	fs := flag.NewFlagSet("glare", flag.ExitOnError)
	out := fs.String("out", "metrics", "Output folder for the glare autonomy files")
	grid := fs.String("grid", "", "Grid name for the output file")
	threshold := fs.Float64("gt", postprocess.DefaultGlareThreshold,
		"DGP above which an hour counts as glary")
	hours := fs.Int("hours", 0, "Total occupied hours (0: derive from the sun-up columns)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fatal("Usage: radfolder glare [-gt dgp] <results.dgp|folder>")
	}
	target := fs.Arg(0)

	if st, err := os.Stat(target); err == nil && st.IsDir() {
		dest, err := postprocess.GlareAutonomyToFolder(target, nil, *threshold, *out)
		if err != nil {
			fatal("%v", err)
		}
		fmt.Println(dest)
		return
	}
	if err := postprocess.GlareAutonomyToFiles(target, nil, *out, *threshold, *grid, *hours); err != nil {
		fatal("%v", err)
	}
	fmt.Println(*out)
}

func cmdConfig(args []string) {
	if len(args) < 1 || args[0] != "init" {
		fatal("Usage: radfolder config init [path]")
	}
	cfg := config.Default()
	if len(args) > 1 {
		if err := cfg.SaveTo(args[1]); err != nil {
			fatal("%v", err)
		}
		fmt.Println(args[1])
		return
	}
	if err := cfg.Save(); err != nil {
		fatal("%v", err)
	}
	fmt.Println(filepath.Join(config.ConfigDir(), "config.yaml"))
}

package relief

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"os/signal"
	"path"
	"time"

	"github.com/gruppe-adler/rrim-utils/internal/composite"
	"github.com/gruppe-adler/rrim-utils/internal/dem"
	"github.com/gruppe-adler/rrim-utils/internal/rrim"
	"github.com/gruppe-adler/rrim-utils/internal/terrainrgb"
	"github.com/gruppe-adler/rrim-utils/internal/utils"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {

	var timer time.Time
	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output directory")
	inputPtr := flagSet.String("in", "", "Path to ESRI ASCII DEM (.asc or .asc.gz)")
	rawPtr := flagSet.Bool("raw", false, "Also write slope and openness as lossless Terrain-RGB pngs")
	printConfigPtr := flagSet.Bool("print-config", false, "Print the effective config as YAML")
	configFlags := rrim.RegisterConfigFlags(flagSet)

	flagSet.Parse(os.Args[2:])

	// make sure both flags are present
	if *outputPtr == "" || *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	if !utils.IsFile(*inputPtr) {
		log.Fatal(errors.New("Input DEM doesn't exist"))
	}

	if err := utils.EnsureDirectory(*outputPtr); err != nil {
		log.Fatal(err)
	}

	cfg, err := configFlags.Load(flagSet)
	if err != nil {
		log.Fatal(err)
	}
	if *printConfigPtr {
		fmt.Print(cfg.AsYaml())
	}

	// load DEM
	timer = time.Now()
	fmt.Println("▶️  Loading DEM")
	_, elevation, err := dem.ReadElevation(*inputPtr)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Loaded DEM in", time.Since(timer).String())
	fmt.Printf("ℹ️  DEM is %dx%d cells of %gx%g\n", elevation.Cols, elevation.Rows, elevation.CellSizeX, elevation.CellSizeY)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// calculate RRIM
	fmt.Println("▶️  Calculating red relief image map")
	res, err := rrim.Run(ctx, elevation, cfg, rrim.WithStageHook(func(stage string, elapsed time.Duration) {
		fmt.Printf("    ✔️  Finished %s in %s\n", stage, elapsed.String())
	}))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("ℹ️  Slope:", res.Slope.Stats())
	fmt.Println("ℹ️  Differential openness:", res.Differential.Stats())

	// write images
	timer = time.Now()
	fmt.Println("▶️  Writing images")
	if err := writeImages(*outputPtr, res, cfg, *rawPtr); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Wrote images in", time.Since(timer).String())

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

type output struct {
	name   string
	render func() image.Image
}

func writeImages(outputDirectory string, res *rrim.Result, cfg rrim.Config, raw bool) error {
	r := res.Composite.Openness.Range

	outputs := []output{
		{"rrim.png", func() image.Image { return res.Composite.Image() }},
		// flat is white, slope_max_degrees and steeper black
		{"slope.png", func() image.Image { return composite.GrayImage(res.Slope, cfg.SlopeMaxDegrees, 0) }},
		{"openness.png", func() image.Image { return composite.GrayImage(res.Differential, -r, r) }},
	}

	if raw {
		outputs = append(outputs,
			output{"slope.rgb.png", func() image.Image { return terrainrgb.Degrees.Encode(res.Slope) }},
			output{"positive_openness.rgb.png", func() image.Image { return terrainrgb.Degrees.Encode(res.Positive) }},
			output{"negative_openness.rgb.png", func() image.Image { return terrainrgb.Degrees.Encode(res.Negative) }},
			output{"differential_openness.rgb.png", func() image.Image { return terrainrgb.Degrees.Encode(res.Differential) }},
		)
	}

	for _, o := range outputs {
		if err := utils.SavePNG(path.Join(outputDirectory, o.name), o.render()); err != nil {
			return fmt.Errorf("%s: %w", o.name, err)
		}
		fmt.Println("    ✔️  Wrote", o.name)
	}

	return nil
}

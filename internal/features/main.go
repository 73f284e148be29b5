package features

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gruppe-adler/rrim-utils/internal/dem"
	"github.com/gruppe-adler/rrim-utils/internal/rrim"
	"github.com/gruppe-adler/rrim-utils/internal/utils"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {

	var timer time.Time
	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output GeoJSON file")
	inputPtr := flagSet.String("in", "", "Path to ESRI ASCII DEM (.asc or .asc.gz)")
	minOpennessPtr := flagSet.Float64("min-openness", 0, "Minimum absolute differential openness of a feature")
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

	cfg, err := configFlags.Load(flagSet)
	if err != nil {
		log.Fatal(err)
	}

	// load DEM
	timer = time.Now()
	fmt.Println("▶️  Loading DEM")
	raster, elevation, err := dem.ReadElevation(*inputPtr)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Loaded DEM in", time.Since(timer).String())

	timer = time.Now()
	fmt.Println("▶️  Calculating openness and slope")
	res, err := rrim.Run(context.Background(), elevation, cfg)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Calculated openness and slope in", time.Since(timer).String())

	// build mounts
	timer = time.Now()
	fmt.Println("▶️  Building peaks and pits")
	fc := BuildMounts(&raster, elevation, res, Options{MinDifferentialOpenness: *minOpennessPtr})
	fmt.Printf("✔️  Built %d features in %s\n", len(fc.Features), time.Since(timer).String())

	bytes, err := fc.MarshalJSON()
	if err != nil {
		log.Fatal(err)
	}
	if err := os.WriteFile(*outputPtr, bytes, 0644); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

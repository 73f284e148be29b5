package tiles

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gruppe-adler/rrim-utils/internal/tilejson"
	"github.com/gruppe-adler/rrim-utils/internal/utils"
)

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {

	var timer time.Time
	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output directory")
	inputPtr := flagSet.String("in", "", "Path to RRIM png (output of the relief subcommand)")
	namePtr := flagSet.String("name", "RRIM", "Name of the tile set in tile.json")

	flagSet.Parse(os.Args[2:])

	// make sure both flags are present
	if *outputPtr == "" || *inputPtr == "" {
		flagSet.PrintDefaults()
		os.Exit(1)
	}

	// make sure given output directory is a valid directory
	if !utils.IsDirectory(*outputPtr) {
		log.Fatal(errors.New("Output directory doesn't exist"))
	}

	timer = time.Now()
	fmt.Println("▶️  Loading image")
	img, err := utils.LoadImage(*inputPtr)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Loaded image in", time.Since(timer).String())

	// calculate max LOD
	maxLod := CalcMaxLod(img)
	fmt.Println("ℹ️  Calculated max lod:", maxLod)

	// build tiles
	timer = time.Now()
	fmt.Println("▶️  Building tiles")
	for lod := uint8(0); lod <= maxLod; lod++ {
		timer2 := time.Now()
		if err := BuildTileSet(context.Background(), lod, img, *outputPtr); err != nil {
			log.Fatal(err)
		}
		fmt.Println("    ✔️  Finished tiles for LOD", lod, "in", time.Since(timer2).String())
	}
	fmt.Println("✔️  Built RRIM tiles in", time.Since(timer).String())

	// write tile.json
	timer = time.Now()
	fmt.Println("▶️  Creating tile.json")
	obj := tilejson.New(*namePtr, fmt.Sprintf("%s Red Relief Image Map tiles", *namePtr), maxLod, TileSize)
	if err := tilejson.Write(*outputPtr, obj); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Created tile.json in", time.Since(timer).String())

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

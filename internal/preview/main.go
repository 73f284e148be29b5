package preview

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"log"
	"os"
	"path"
	"time"

	"github.com/nfnt/resize"

	"github.com/gruppe-adler/rrim-utils/internal/utils"
)

var sizes = []uint{128, 256, 512, 1024}

// Run is the program's entrypoint
func Run(flagSet *flag.FlagSet) {

	var timer time.Time
	start := time.Now()

	outputPtr := flagSet.String("out", "", "Path to output directory")
	inputPtr := flagSet.String("in", "", "Path to RRIM png (output of the relief subcommand)")

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
	fmt.Println("▶️  Loading RRIM image")
	previewImage, err := utils.LoadImage(*inputPtr)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Loaded RRIM image in", time.Since(timer).String())

	timer = time.Now()
	fmt.Println("▶️  Writing original image to output")
	if err := utils.SavePNG(path.Join(*outputPtr, "preview.png"), previewImage); err != nil {
		log.Fatal(err)
	}
	fmt.Println("✔️  Wrote original image in", time.Since(timer).String())

	for _, size := range sizes {
		timer = time.Now()
		fmt.Printf("▶️  Building x%d image\n", size)

		img := Resize(previewImage, size)
		if err := utils.SavePNG(path.Join(*outputPtr, fmt.Sprintf("preview_%d.png", size)), img); err != nil {
			log.Fatal(err)
		}

		fmt.Printf("✔️  Built x%d in %s\n", size, time.Since(timer).String())
	}

	fmt.Printf("\n    🎉  Finished in %s\n", time.Since(start).String())
}

// Resize scales img to the given height, keeping its aspect ratio
func Resize(img image.Image, height uint) image.Image {
	factor := float64(height) / float64(img.Bounds().Dy())
	width := uint(float64(img.Bounds().Dx())*factor + 0.5)

	return resize.Resize(max(width, 1), height, img, resize.MitchellNetravali)
}

// Command rrim-utils builds Red Relief Image Maps and their web tiles from ESRI ASCII DEMs.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gruppe-adler/rrim-utils/internal/features"
	"github.com/gruppe-adler/rrim-utils/internal/preview"
	"github.com/gruppe-adler/rrim-utils/internal/relief"
	"github.com/gruppe-adler/rrim-utils/internal/tiles"
)

type command struct {
	name        string
	description string
	run         func(*flag.FlagSet)
}

var subCommands []command

func init() {
	subCommands = []command{
		{"relief", "Build a Red Relief Image Map from an ESRI ASCII DEM.", relief.Run},
		{"tiles", "Build xyz raster tiles from a RRIM image.", tiles.Run},
		{"preview", "Build resolutions for preview image.", preview.Run},
		{"features", "Extract peaks and pits with openness as GeoJSON.", features.Run},
		{"help", "Print this message.", func(s *flag.FlagSet) { printUsage() }},
	}
}

func printUsage() {
	fmt.Printf("USAGE:\n    %s [SUBCOMMAND] [SUBCOMMAND FLAGS]\n\n", os.Args[0])
	fmt.Print("SUBCOMMANDS: \n")

	for i := 0; i < len(subCommands); i++ {
		name := subCommands[i].name

		fmt.Printf("%12s    %s\n", name, subCommands[i].description)
	}

	fmt.Printf("\nUse -h as SUBCOMMAND FLAG to print help for each subcommand.\n\n")
}

func main() {

	if len(os.Args) < 2 {
		fmt.Printf("\nERROR: No subcommand was provided.\n\n")
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]

	for i := 0; i < len(subCommands); i++ {
		if subCommands[i].name == cmd {
			set := flag.NewFlagSet(cmd, flag.ExitOnError)
			subCommands[i].run(set)
			return
		}
	}

	fmt.Printf("\nERROR: Subcommand '%s' was not found.\n\n", cmd)
	printUsage()
	os.Exit(1)
}

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
)

var compressionLevels = []lz4.CompressionLevel{
	lz4.Fast, lz4.Level1, lz4.Level2, lz4.Level3, lz4.Level4,
	lz4.Level5, lz4.Level6, lz4.Level7, lz4.Level8, lz4.Level9,
}

func main() {
	var args struct {
		in       string
		out      string
		name     string
		compress int
		quiet    bool
	}
	flag.StringVar(&args.in, "in", "", "the .gltf or .glb file to convert")
	flag.StringVar(&args.out, "out", "", "the asset pack directory, defaults to the working directory")
	flag.StringVar(&args.out, "o", "", "shorthand for out")
	flag.StringVar(&args.name, "name", "", "the model name, defaults to the input file name")
	flag.IntVar(&args.compress, "compress", 0, "the lz4 compression level from 0 (fast) to 9 (high)")
	flag.IntVar(&args.compress, "c", 0, "shorthand for compress")
	flag.BoolVar(&args.quiet, "quiet", false, "disables informational logging")
	flag.BoolVar(&args.quiet, "q", false, "shorthand for quiet")
	flag.Parse()

	if args.in == "" {
		fmt.Fprintf(os.Stderr, "Usage: %s -in model.glb [arguments]\n\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
		os.Exit(1)
	}
	if args.compress < 0 || args.compress >= len(compressionLevels) {
		log.Fatalf("compression level %d is out of range", args.compress)
	}
	if args.out == "" {
		var err error
		args.out, err = os.Getwd()
		if err != nil {
			log.Fatal(err)
		}
	}
	if args.name == "" {
		args.name, _, _ = strings.Cut(filepath.Base(args.in), ".")
	}

	conv := &converter{
		out:   args.out,
		name:  args.name,
		level: compressionLevels[args.compress],
	}
	written, err := conv.Convert(args.in)
	if err != nil {
		log.Fatal(err)
	}
	if !args.quiet {
		for _, file := range written {
			log.Printf("Wrote %v\n", file)
		}
	}
}

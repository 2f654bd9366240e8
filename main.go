package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/paulmach/osm/osmpbf"

	"ttdrail/osmrail"
	"ttdrail/rail"
	"ttdrail/signal"
	"ttdrail/ttd"
)

var (
	configFile = flag.String("config", "", "YAML file with import settings")
	title      = flag.String("title", "", "Title stored in the map dump, defaults to INFILE")
	verbose    = flag.Bool("v", false, "Log signal engine diagnostics")
)

func main() {
	flag.Parse()
	if flag.NArg() != 4 {
		panic("Usage: ttdrail [--config=rail.yaml] [--title=TITLE] INFILE OUTFILE LATITUDE LONGITUDE")
	}
	inFilename := flag.Arg(0)
	outFilename := flag.Arg(1)
	lat, err := strconv.ParseFloat(flag.Arg(2), 64)
	if err != nil {
		panic(err)
	}
	lon, err := strconv.ParseFloat(flag.Arg(3), 64)
	if err != nil {
		panic(err)
	}

	cfg := osmrail.DefaultConfig()
	if *configFile != "" {
		cfg, err = osmrail.LoadConfig(*configFile)
		if err != nil {
			panic(err)
		}
	}

	m, err := ttd.NewMap(cfg.MapSize, cfg.MapSize)
	if err != nil {
		panic(err)
	}
	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "ttdrail: ", log.LstdFlags)
	}
	engine := signal.NewEngine(m, ttd.NewTrains(), logger)
	im, err := osmrail.New(cfg, rail.New(m, engine, nil), lat, lon, logger)
	if err != nil {
		panic(err)
	}

	in, err := os.Open(inFilename)
	if err != nil {
		panic(err)
	}
	defer in.Close()

	scanner := osmpbf.New(context.Background(), in, 3)
	scanner.SkipRelations = true
	defer scanner.Close()

	for scanner.Scan() {
		im.Add(scanner.Object())
	}
	if err := scanner.Err(); err != nil {
		panic(err)
	}

	stats := im.Build()
	fmt.Printf("Imported %v\n", stats)
	if !engine.IsBufferEmpty() {
		fmt.Printf("Final signal update: %v\n", engine.UpdateBuffer())
	}

	if *title == "" {
		*title = inFilename
	}
	if len(*title) > 47 {
		*title = (*title)[:47]
	}
	s := ttd.Savegame{Title: *title, Map: m}

	f, err := os.Create(outFilename)
	if err != nil {
		panic(err)
	}
	defer f.Close()
	if err := save(&s, f, strings.HasSuffix(outFilename, ".zst")); err != nil {
		panic(err)
	}
}

func save(s *ttd.Savegame, f io.Writer, compress bool) error {
	if !compress {
		return s.Save(f)
	}
	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	if err := s.Save(enc); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

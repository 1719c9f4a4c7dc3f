package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/faanross/simulacra_lsb/internal/config"
	"github.com/faanross/simulacra_lsb/internal/decoder"
	"github.com/faanross/simulacra_lsb/internal/imgutil"
	"github.com/faanross/simulacra_lsb/internal/labels"
	"github.com/faanross/simulacra_lsb/internal/plugin"
	"github.com/faanross/simulacra_lsb/internal/plugin/randlsb"
	"github.com/faanross/simulacra_lsb/internal/scrypto"
	"github.com/faanross/simulacra_lsb/internal/spec"
)

func main() {
	lbl := labels.Default()

	// Command line arguments
	inputFile := flag.String("input", "", "Path to message file")
	coverFile := flag.String("cover", "", "Cover image (random noise if not provided)")
	outputFile := flag.String("output", "stego.png", "Output image (.png or .bmp)")
	algorithm := flag.String("plugin", randlsb.Name, "Steganography plugin")
	bits := flag.Int("bits", spec.DEFAULT_BITS_PER_CHANNEL, "Bits used per colour channel (1-8)")
	compress := flag.Bool("compress", true, "Enable compression")
	encrypt := flag.Bool("encrypt", false, "Encrypt the message")
	cipher := flag.String("algorithm", scrypto.DES.String(), "Cipher: DES, AES128 or AES256")
	password := flag.String("password", "", "Password (prompt if not provided)")
	capacity := flag.Bool("capacity", false, "Report cover capacity and exit")
	analyze := flag.Bool("analyze", false, "Show security analysis of the output")
	verbose := flag.Bool("verbose", false, "Show embedding details")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s -input <file> [options]\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\n%s\n", lbl.Get(randlsb.Name, "plugin.usage", spec.DEFAULT_BITS_PER_CHANNEL))
	}
	flag.Parse()

	fmt.Println("\n🔐 " + lbl.Get("cli", "embed.banner"))
	fmt.Println("=" + strings.Repeat("=", 40))

	options := map[string]string{
		config.KeyBitsPerChannel:  strconv.Itoa(*bits),
		config.KeyUseCompression:  strconv.FormatBool(*compress),
		config.KeyUseEncryption:   strconv.FormatBool(*encrypt),
		config.KeyCryptoAlgorithm: *cipher,
	}

	var cover []byte
	if *coverFile != "" {
		var err error
		cover, err = os.ReadFile(*coverFile)
		if err != nil {
			log.Fatalf("❌ Error reading cover: %v", err)
		}
		fmt.Printf("\n📸 Cover: %s (%s)\n", *coverFile, humanize.Bytes(uint64(len(cover))))
	}

	// Capacity mode
	if *capacity {
		if cover == nil {
			log.Fatal("❌ -capacity needs a -cover image")
		}
		cfg, err := config.FromOptions(options)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		n, err := randlsb.Capacity(cover, cfg)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		fmt.Printf("   Capacity at %d bits per channel: %s (%s bytes)\n",
			*bits, humanize.IBytes(uint64(n)), humanize.Comma(int64(n)))
		return
	}

	// Validate input
	if *inputFile == "" {
		log.Fatal("❌ Please provide input file with -input flag")
	}
	message, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("❌ Error reading file: %v", err)
	}
	fmt.Printf("\n📄 Input file: %s (%s)\n", *inputFile, humanize.Bytes(uint64(len(message))))

	// Get password
	if *encrypt {
		pass := *password
		if pass == "" {
			pass, err = scrypto.ReadPassword("\n🔑 " + lbl.Get("cli", "password.enter"))
			if err != nil {
				log.Fatalf("❌ Password error: %v", err)
			}
			confirm, err := scrypto.ReadPassword("🔑 " + lbl.Get("cli", "password.again"))
			if err != nil {
				log.Fatalf("❌ Password error: %v", err)
			}
			if pass != confirm {
				log.Fatalf("❌ %s", lbl.Get("cli", "password.diff"))
			}
		}
		options[config.KeyPassword] = pass
	}

	cfg, err := config.FromOptions(options)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "", 0)
	}

	registry := plugin.NewRegistry()
	if err := randlsb.Register(registry); err != nil {
		log.Fatalf("❌ %v", err)
	}
	p, err := registry.New(*algorithm, cfg, lbl, logger)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	stego, err := p.Embed(message, *inputFile, cover, *coverFile, *outputFile)
	if err != nil {
		log.Fatalf("❌ Embedding failed: %v", err)
	}

	if *analyze {
		g, _, err := imgutil.Decode(stego)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		decoder.AnalyzeSecurity(os.Stdout, g)
	}

	if err := os.WriteFile(*outputFile, stego, 0644); err != nil {
		log.Fatalf("❌ Cannot write output file: %v", err)
	}

	fmt.Printf("\n✅ Steganography complete!\n")
	fmt.Printf("   Output: %s (%s)\n", *outputFile, humanize.Bytes(uint64(len(stego))))
	fmt.Printf("   Plugin: %s, %d bits per channel\n", p.Name(), cfg.MaxBitsUsedPerChannel())
	if cfg.UsesEncryption() {
		fmt.Printf("   Encryption: %s\n", cfg.CryptoAlgorithm())
	}
	fmt.Printf("\n🔓 To extract: stego-extract -input %s\n", *outputFile)
}

package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/faanross/simulacra_lsb/internal/config"
	"github.com/faanross/simulacra_lsb/internal/decoder"
	"github.com/faanross/simulacra_lsb/internal/imgutil"
	"github.com/faanross/simulacra_lsb/internal/labels"
	"github.com/faanross/simulacra_lsb/internal/plugin"
	"github.com/faanross/simulacra_lsb/internal/plugin/randlsb"
	"github.com/faanross/simulacra_lsb/internal/scrypto"
	"github.com/faanross/simulacra_lsb/internal/stegerr"
)

func main() {
	lbl := labels.Default()

	// Command line arguments
	inputFile := flag.String("input", "", "Path to stego image")
	outputDir := flag.String("outdir", ".", "Directory for the extracted file")
	algorithm := flag.String("plugin", randlsb.Name, "Steganography plugin")
	password := flag.String("password", "", "Password (prompt if the message is encrypted)")
	analyze := flag.Bool("analyze", false, "Perform security analysis only")
	tryList := flag.String("trylist", "", "Comma-separated passwords to try")
	verbose := flag.Bool("verbose", false, "Show extraction details and the full message")

	flag.Parse()

	// Validate input
	if *inputFile == "" {
		log.Fatal("❌ Please provide input image with -input flag")
	}

	fmt.Println("\n🔓 " + lbl.Get("cli", "extract.banner"))
	fmt.Println("=" + strings.Repeat("=", 40))

	stego, err := os.ReadFile(*inputFile)
	if err != nil {
		log.Fatalf("❌ Error reading file: %v", err)
	}

	grid, format, err := imgutil.Decode(stego)
	if err != nil {
		log.Fatalf("❌ Error decoding image: %v", err)
	}

	fmt.Printf("\n📷 Image loaded:\n")
	fmt.Printf("   File: %s (%s)\n", *inputFile, humanize.Bytes(uint64(len(stego))))
	fmt.Printf("   Format: %s\n", format)
	fmt.Printf("   Dimensions: %s\n", grid)

	// Security analysis mode
	if *analyze {
		decoder.AnalyzeSecurity(os.Stdout, grid)
		return
	}

	logger := log.New(io.Discard, "", 0)
	if *verbose {
		logger = log.New(os.Stderr, "", 0)
	}

	// The header is never encrypted, so only ask for a password when needed
	x, err := decoder.NewExtractor(grid, nil)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	hdr := x.Header()
	x.Close()

	// Try multiple passwords mode
	if *tryList != "" {
		if hdr.Encrypted {
			fmt.Printf("\n🔑 Trying passwords...\n")
		}
		pass, message, err := decoder.TryPasswords(grid, strings.Split(*tryList, ","), log.New(os.Stdout, "", 0))
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		fmt.Println("\n" + passwordResult(hdr.Encrypted, pass))
		showMessage(message, *verbose)
		return
	}

	options := map[string]string{}
	if hdr.Encrypted {
		pass := *password
		if pass == "" {
			pass, err = scrypto.ReadPassword("\n🔑 " + lbl.Get("cli", "password.enter"))
			if err != nil {
				log.Fatalf("❌ Password error: %v", err)
			}
		}
		options[config.KeyPassword] = pass
	}
	cfg, err := config.FromOptions(options)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	registry := plugin.NewRegistry()
	if err := randlsb.Register(registry); err != nil {
		log.Fatalf("❌ %v", err)
	}
	p, err := registry.New(*algorithm, cfg, lbl, logger)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	name, err := p.ExtractFileName(stego, *inputFile)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	message, err := p.ExtractData(stego, *inputFile)
	if stegerr.CodeOf(err) == stegerr.CodeInvalidPassword {
		log.Fatalf("❌ Wrong password: %v", err)
	}
	if err != nil {
		log.Fatalf("❌ Extraction failed: %v", err)
	}

	fmt.Printf("\n✅ MESSAGE SUCCESSFULLY EXTRACTED\n")
	fmt.Println("=" + strings.Repeat("=", 40))

	fmt.Printf("\n📊 Extraction Statistics:\n")
	fmt.Printf("   Stored size: %s\n", humanize.Bytes(uint64(hdr.PayloadLength)))
	fmt.Printf("   Message size: %s\n", humanize.Bytes(uint64(len(message))))
	fmt.Printf("   Bits per channel: %d\n", hdr.BitsPerChannel)
	fmt.Printf("   Compression: %v\n", hdr.Compressed)
	if hdr.Encrypted {
		fmt.Printf("   Encryption: %s\n", hdr.Algorithm)
	} else {
		fmt.Printf("   Encryption: none\n")
	}

	if name == "" {
		showMessage(message, *verbose)
		return
	}

	// Only the base name is honoured
	outPath := filepath.Join(*outputDir, filepath.Base(name))
	if err := os.WriteFile(outPath, message, 0644); err != nil {
		log.Fatalf("❌ Error saving output: %v", err)
	}
	fmt.Printf("\n💾 Message saved to: %s\n", outPath)
	fmt.Println("\n✅ Extraction complete!")
}

// passwordResult describes the outcome of a trylist run.
func passwordResult(encrypted bool, pass string) string {
	if !encrypted {
		return "ℹ️  Payload is unencrypted, no password needed"
	}
	return fmt.Sprintf("✅ Password found: %q", pass)
}

// showMessage prints the message, or a preview of long ones.
func showMessage(message []byte, verbose bool) {
	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("📝 EXTRACTED MESSAGE:")
	fmt.Println(strings.Repeat("=", 60))

	text := string(message)
	if verbose || len(text) <= 500 {
		fmt.Println(text)
	} else {
		fmt.Printf("%s\n... [%d more characters] ...\n%s\n",
			text[:200],
			len(text)-400,
			text[len(text)-200:])
		fmt.Printf("\n(Use -verbose flag to see full message)\n")
	}

	fmt.Println(strings.Repeat("=", 60))
}

// Command admin runs the operator's console against a collection server.
//
// One run fetches every stored envelope, decrypts it with the operator's
// secret key, applies the curation list, prints the statistics tables and
// writes the rendered map as a standalone SVG file.
//
// The decryption secret never reaches the server: the console downloads
// ciphertexts and opens them locally.
//
// # Curation File
//
// A plain text file with one flagged captcha answer per line. Records whose
// answer matches a line (case-insensitively) are excluded from statistics
// and the map, but the underlying submissions are untouched.
//
// # Usage
//
//	go run ./cmd/admin --server=http://localhost:8080 \
//	    --admin-key=secret --secret-key=<hex> --out=map.svg
//	go run ./cmd/admin --server=... --admin-key=... --export-file=backup.b64
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/miniBill/sdc-map/cmd/common"
	"github.com/miniBill/sdc-map/curation"
	"github.com/miniBill/sdc-map/dashboard"
	"github.com/miniBill/sdc-map/geo"
	"github.com/miniBill/sdc-map/mapping"
)

func main() {
	var (
		serverURL    = flag.String("server", "http://localhost:8080", "Collection server URL")
		adminKey     = flag.String("admin-key", "", "Shared key for the answers fetch")
		secretKeyHex = flag.String("secret-key", "", "X25519 decryption key (hex, generates a fresh pair if empty)")
		geoBaseURL   = flag.String("geo-url", "", "Boundary dataset base URL (defaults to <server>/geo)")
		curationPath = flag.String("curation", "", "File of flagged captcha answers, one per line")
		outPath      = flag.String("out", "map.svg", "Output SVG path")
		exportPath   = flag.String("export-file", "", "Write the raw ciphertext store to this file and exit")
		importPath   = flag.String("import-file", "", "Restore a previously exported file into the server and exit")
	)
	flag.Parse()

	if err := run(*serverURL, *adminKey, *secretKeyHex, *geoBaseURL,
		*curationPath, *outPath, *exportPath, *importPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(serverURL, adminKey, secretKeyHex, geoBaseURL, curationPath, outPath, exportPath, importPath string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	client := dashboard.NewClient(serverURL)

	if exportPath != "" {
		return exportStore(ctx, client, adminKey, exportPath)
	}
	if importPath != "" {
		return importStore(ctx, client, importPath)
	}

	secretKey, err := common.LoadOrGenerateKey(secretKeyHex)
	if err != nil {
		return fmt.Errorf("secret key: %w", err)
	}
	if secretKeyHex == "" {
		pub, err := secretKey.PublicKey()
		if err != nil {
			return err
		}
		fmt.Printf("Generated key pair. Respondents encrypt to: %s\n", pub)
		fmt.Printf("Keep the secret key safe: %s\n", secretKey)
	}

	flagged, err := loadCuration(curationPath)
	if err != nil {
		return err
	}

	flow := dashboard.NewFlow(client, log)
	if err := flow.Decrypt(ctx, adminKey, secretKey); err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}

	records := flow.Records()
	fmt.Printf("Recovered %d records\n\n", len(records))

	printCaptchaTable(dashboard.CaptchaFrequency(records), flagged)

	valid := dashboard.Valid(records, flagged)
	printCountryTable(dashboard.CountsByCountry(valid))

	if geoBaseURL == "" {
		geoBaseURL = strings.TrimSuffix(serverURL, "/") + "/geo"
	}
	loader := geo.NewLoader(geoBaseURL, log)
	if err := loader.LoadIndex(ctx); err != nil {
		return fmt.Errorf("geo index: %w", err)
	}
	if err := loader.LoadCapitals(ctx); err != nil {
		return fmt.Errorf("geo capitals: %w", err)
	}
	dashboard.LoadGeoData(ctx, loader, valid)

	model, unresolved := dashboard.BuildModel(loader, records, flagged)
	for _, u := range unresolved {
		log.Warn("could not place respondent",
			"name", u.Record.Name, "country", u.Record.Country, "reason", u.Reason)
	}

	if err := mapping.WriteSVG(outPath, model); err != nil {
		return err
	}
	fmt.Printf("\nMap written to %s\n", outPath)
	return nil
}

func exportStore(ctx context.Context, client *dashboard.Client, adminKey, path string) error {
	answers, netErr := client.FetchAnswers(ctx, adminKey)
	if netErr != nil {
		return netErr
	}
	blob, err := dashboard.ExportAnswers(answers)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(blob), 0o600); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Printf("Exported %d submissions to %s\n", len(answers), path)
	return nil
}

func importStore(ctx context.Context, client *dashboard.Client, path string) error {
	blob, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}
	answers, err := dashboard.ImportAnswers(strings.TrimSpace(string(blob)))
	if err != nil {
		return err
	}
	if netErr := client.Restore(ctx, answers); netErr != nil {
		return netErr
	}
	fmt.Printf("Restored %d submissions\n", len(answers))
	return nil
}

func loadCuration(path string) (curation.Set, error) {
	set := curation.NewSet()
	if path == "" {
		return set, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return set, fmt.Errorf("open curation file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		answer := strings.TrimSpace(scanner.Text())
		if answer == "" {
			continue
		}
		set = set.Toggle(answer)
	}
	if err := scanner.Err(); err != nil {
		return set, fmt.Errorf("read curation file: %w", err)
	}
	return set, nil
}

func printCaptchaTable(frequency map[string]int, flagged curation.Set) {
	answers := make([]string, 0, len(frequency))
	for answer := range frequency {
		answers = append(answers, answer)
	}
	sort.Slice(answers, func(i, j int) bool {
		if frequency[answers[i]] != frequency[answers[j]] {
			return frequency[answers[i]] > frequency[answers[j]]
		}
		return answers[i] < answers[j]
	})

	fmt.Println("Captcha answers:")
	for _, answer := range answers {
		mark := " "
		if flagged.IsInvalid(answer) {
			mark = "x"
		}
		fmt.Printf("  [%s] %5d  %s\n", mark, frequency[answer], answer)
	}
	fmt.Println()
}

func printCountryTable(counts []dashboard.CountryCount) {
	fmt.Println("Respondents by country:")
	for _, row := range counts {
		fmt.Printf("  %5d  %s\n", row.Count, row.Country)
	}
}

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/use-agent/simprint/simhash"
)

// CLI flags
var (
	docs    = flag.Int("docs", 1000, "Number of documents in the synthetic corpus")
	words   = flag.Int("words", 200, "Words per document")
	width   = flag.Int("width", 3, "Shingle width")
	mode    = flag.String("mode", "words", "Tokenization mode: words or chars")
	runs    = flag.Int("runs", 3, "Number of timed runs per digest for averaging")
	digests = flag.String("digests", "md5,sha1,sha256,fnv64a,fnv128a", "Comma-separated digest names to benchmark")
	output  = flag.String("output", "benchmark-results.json", "JSON output file path")
)

// --- Benchmark result types ---

type runResult struct {
	Run          int     `json:"run"`
	TotalMs      float64 `json:"total_ms"`
	DocsPerSec   float64 `json:"docs_per_sec"`
	MicrosPerDoc float64 `json:"micros_per_doc"`
}

type digestAverages struct {
	TotalMs      float64 `json:"total_ms"`
	DocsPerSec   float64 `json:"docs_per_sec"`
	MicrosPerDoc float64 `json:"micros_per_doc"`
}

type digestResult struct {
	Digest      string          `json:"digest"`
	Bits        int             `json:"bits"`
	AvgDistance float64         `json:"avg_distance"`
	Runs        []runResult     `json:"runs"`
	Averages    *digestAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp     string         `json:"timestamp"`
	Docs          int            `json:"docs"`
	WordsPerDoc   int            `json:"words_per_doc"`
	Mode          string         `json:"mode"`
	ShingleWidth  int            `json:"shingle_width"`
	RunsPerDigest int            `json:"runs_per_digest"`
	Results       []digestResult `json:"results"`
}

func main() {
	flag.Parse()

	names := strings.Split(*digests, ",")
	for i, n := range names {
		names[i] = strings.TrimSpace(n)
	}

	fmt.Println("=== Simprint Benchmark Suite ===")
	fmt.Printf("Corpus:   %d docs x %d words\n", *docs, *words)
	fmt.Printf("Mode:     %s, width %d\n", *mode, *width)
	fmt.Printf("Runs:     %d\n", *runs)
	fmt.Printf("Digests:  %s\n", strings.Join(names, ", "))
	fmt.Printf("Output:   %s\n", *output)
	fmt.Println()

	// Validate flags before building the corpus.
	if *width < 1 {
		fmt.Fprintf(os.Stderr, "Error: width must be at least 1\n")
		os.Exit(1)
	}
	if *mode != "words" && *mode != "chars" {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q (want words or chars)\n", *mode)
		os.Exit(1)
	}
	fns := make([]simhash.DigestFunc, len(names))
	for i, n := range names {
		fn, err := simhash.LookupDigest(n)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v (known digests: %s)\n", err, strings.Join(simhash.DigestNames(), ", "))
			os.Exit(1)
		}
		fns[i] = fn
	}

	corpus := buildCorpus(*docs, *words)

	fingerprint := simhash.FingerprintWords
	if *mode == "chars" {
		fingerprint = simhash.FingerprintChars
	}

	report := benchmarkReport{
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Docs:          *docs,
		WordsPerDoc:   *words,
		Mode:          *mode,
		ShingleWidth:  *width,
		RunsPerDigest: *runs,
	}

	for i, name := range names {
		fmt.Printf("Benchmarking [%s] ...\n", name)
		dr, err := benchmarkDigest(name, fns[i], fingerprint, corpus, *width, *runs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", name, err)
			os.Exit(1)
		}
		report.Results = append(report.Results, dr)
		fmt.Println()
	}

	// Print summary table.
	printTable(report.Results)

	// Write JSON report.
	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

// --- Corpus generation ---

// buildVocabulary returns a deterministic list of pronounceable pseudo-words.
func buildVocabulary() []string {
	consonants := []string{"b", "d", "f", "g", "h", "k", "l", "m", "n", "p", "r", "s", "t", "v", "w", "z"}
	vowels := []string{"a", "e", "i", "o", "u"}

	vocab := make([]string, 0, len(consonants)*len(vowels)*len(consonants))
	for _, c1 := range consonants {
		for _, v := range vowels {
			for _, c2 := range consonants {
				vocab = append(vocab, c1+v+c2+v)
			}
		}
	}
	return vocab
}

// buildCorpus generates docs random documents from the vocabulary. The seed
// is fixed so every invocation hashes the same corpus and timings stay
// comparable across machines and code changes.
func buildCorpus(docs, words int) []string {
	rng := rand.New(rand.NewSource(42))
	vocab := buildVocabulary()

	corpus := make([]string, docs)
	var sb strings.Builder
	for i := range corpus {
		sb.Reset()
		for w := 0; w < words; w++ {
			if w > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(vocab[rng.Intn(len(vocab))])
		}
		corpus[i] = sb.String()
	}
	return corpus
}

// --- Measurement ---

func benchmarkDigest(name string, fn simhash.DigestFunc, fingerprint func(string, ...simhash.Option) ([]byte, error), corpus []string, width, runs int) (digestResult, error) {
	dr := digestResult{Digest: name}
	opts := []simhash.Option{
		simhash.WithShingleWidth(width),
		simhash.WithDigest(fn),
	}

	// Warm-up pass. Keeps the fingerprints so the distance stats come free.
	fps := make([][]byte, len(corpus))
	for i, doc := range corpus {
		fp, err := fingerprint(doc, opts...)
		if err != nil {
			return dr, err
		}
		fps[i] = fp
	}
	dr.Bits = len(fps[0]) * 8

	// Average pairwise distance between neighbouring unrelated documents.
	// A healthy fingerprint lands near half the bits here.
	var total int
	for i := 1; i < len(fps); i++ {
		d, err := simhash.Distance(fps[i-1], fps[i])
		if err != nil {
			return dr, err
		}
		total += d
	}
	if len(fps) > 1 {
		dr.AvgDistance = float64(total) / float64(len(fps)-1)
	}

	for r := 1; r <= runs; r++ {
		fmt.Printf("  Run %d/%d ... ", r, runs)

		start := time.Now()
		for _, doc := range corpus {
			if _, err := fingerprint(doc, opts...); err != nil {
				return dr, err
			}
		}
		elapsed := time.Since(start)

		rr := runResult{
			Run:          r,
			TotalMs:      float64(elapsed.Nanoseconds()) / 1e6,
			DocsPerSec:   float64(len(corpus)) / elapsed.Seconds(),
			MicrosPerDoc: float64(elapsed.Microseconds()) / float64(len(corpus)),
		}
		fmt.Printf("%.0fms  %s docs/sec\n", rr.TotalMs, formatInt(int(rr.DocsPerSec)))
		dr.Runs = append(dr.Runs, rr)
	}

	dr.Averages = computeAverages(dr.Runs)
	return dr, nil
}

func computeAverages(runs []runResult) *digestAverages {
	if len(runs) == 0 {
		return nil
	}

	var avg digestAverages
	for _, r := range runs {
		avg.TotalMs += r.TotalMs
		avg.DocsPerSec += r.DocsPerSec
		avg.MicrosPerDoc += r.MicrosPerDoc
	}

	n := float64(len(runs))
	avg.TotalMs /= n
	avg.DocsPerSec /= n
	avg.MicrosPerDoc /= n
	return &avg
}

// --- Output ---

func printTable(results []digestResult) {
	fmt.Println(strings.Repeat("─", 70))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Digest\tBits\tAvg Run\tDocs/sec\tµs/doc\tAvg Dist\n")
	fmt.Fprintf(w, "──────\t────\t───────\t────────\t──────\t────────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\t%d\tFAILED\t-\t-\t-\n", r.Digest, r.Bits)
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%.0fms\t%s\t%.1f\t%.1f\n",
			r.Digest,
			r.Bits,
			r.Averages.TotalMs,
			formatInt(int(r.Averages.DocsPerSec)),
			r.Averages.MicrosPerDoc,
			r.AvgDistance,
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 70))
}

func formatInt(n int) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var result []byte
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			result = append(result, ',')
		}
		result = append(result, byte(c))
	}
	return string(result)
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

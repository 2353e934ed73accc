package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/use-agent/corpreg/models"
)

// CLI flags
var (
	apiURL  = flag.String("api-url", "http://localhost:8080", "corpreg API base URL")
	apiKey  = flag.String("api-key", "", "API key for authenticated requests")
	runs    = flag.Int("runs", 3, "Number of runs per query for averaging")
	output  = flag.String("output", "benchmark-results.json", "JSON output file path")
	queries = flag.String("queries", "Acme,Mountaineer,Appalachian Power", "Comma-separated organization names to search")
)

// --- Benchmark result types ---

type runResult struct {
	Run       int    `json:"run"`
	SearchMs  int64  `json:"search_ms"`
	DetailsMs int64  `json:"details_ms"`
	Matches   int    `json:"matches"`
	Officers  int    `json:"officers"`
	HasStatus bool   `json:"has_status"`
	Success   bool   `json:"success"`
	Error     string `json:"error,omitempty"`
}

type queryAverages struct {
	SearchMs  float64 `json:"search_ms"`
	DetailsMs float64 `json:"details_ms"`
	Matches   float64 `json:"matches"`
}

type queryResult struct {
	Query    string         `json:"query"`
	Runs     []runResult    `json:"runs"`
	Averages *queryAverages `json:"averages,omitempty"`
}

type benchmarkReport struct {
	Timestamp    string        `json:"timestamp"`
	APIURL       string        `json:"api_url"`
	RunsPerQuery int           `json:"runs_per_query"`
	Results      []queryResult `json:"results"`
}

var client = &http.Client{Timeout: 90 * time.Second}

func main() {
	flag.Parse()

	fmt.Println("=== corpreg Benchmark Suite ===")
	fmt.Printf("API URL:    %s\n", *apiURL)
	fmt.Printf("Runs/query: %d\n", *runs)
	fmt.Printf("Output:     %s\n", *output)
	fmt.Println()

	// Quick connectivity check.
	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Make sure corpreg is running (e.g. go run ./cmd/corpreg)\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
		APIURL:       *apiURL,
		RunsPerQuery: *runs,
	}

	for _, q := range strings.Split(*queries, ",") {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		fmt.Printf("Benchmarking %q ...\n", q)
		qr := queryResult{Query: q}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkQuery(q, i)
			if rr.Success {
				fmt.Printf("OK  search %dms  details %dms  %d matches\n", rr.SearchMs, rr.DetailsMs, rr.Matches)
			} else {
				fmt.Printf("FAILED: %s\n", rr.Error)
			}
			qr.Runs = append(qr.Runs, rr)
		}

		qr.Averages = computeAverages(qr.Runs)
		report.Results = append(report.Results, qr)
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// getJSON issues an authenticated GET and decodes the body into v.
func getJSON(path string, query url.Values, v any) error {
	req, err := http.NewRequest(http.MethodGet, *apiURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return fmt.Errorf("request error: %w", err)
	}
	if *apiKey != "" {
		req.Header.Set("X-API-Key", *apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode error: %w", err)
	}
	return nil
}

// benchmarkQuery searches for q and then fetches details for the first match.
func benchmarkQuery(q string, run int) runResult {
	rr := runResult{Run: run}

	var sr models.SearchResponse
	if err := getJSON("/api/v1/search", url.Values{"q": {q}}, &sr); err != nil {
		rr.Error = err.Error()
		return rr
	}
	if sr.Error != nil {
		rr.Error = sr.Error.Message
		return rr
	}
	rr.SearchMs = sr.Timing.TotalMs
	rr.Matches = len(sr.Results)
	if rr.Matches == 0 {
		rr.Success = sr.Success
		return rr
	}

	var dr models.DetailsResponse
	if err := getJSON("/api/v1/details", url.Values{"url": {sr.Results[0].URL}}, &dr); err != nil {
		rr.Error = err.Error()
		return rr
	}
	if dr.Error != nil {
		rr.Error = dr.Error.Message
		return rr
	}
	rr.Success = dr.Success
	rr.DetailsMs = dr.Timing.TotalMs
	if dr.Record != nil {
		rr.Officers = len(dr.Record.Officers)
		rr.HasStatus = dr.Record.Status != nil
	}
	return rr
}

func computeAverages(runs []runResult) *queryAverages {
	var successCount int
	var avg queryAverages

	for _, r := range runs {
		if !r.Success {
			continue
		}
		successCount++
		avg.SearchMs += float64(r.SearchMs)
		avg.DetailsMs += float64(r.DetailsMs)
		avg.Matches += float64(r.Matches)
	}

	if successCount == 0 {
		return nil
	}

	n := float64(successCount)
	avg.SearchMs /= n
	avg.DetailsMs /= n
	avg.Matches /= n
	return &avg
}

func printTable(results []queryResult) {
	fmt.Println(strings.Repeat("─", 70))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Query\tAvg Search\tAvg Details\tMatches\n")
	fmt.Fprintf(w, "─────\t──────────\t───────────\t───────\n")

	for _, r := range results {
		if r.Averages == nil {
			fmt.Fprintf(w, "%s\tFAILED\t-\t-\n", truncate(r.Query, 30))
			continue
		}
		fmt.Fprintf(w, "%s\t%dms\t%dms\t%.1f\n",
			truncate(r.Query, 30),
			int64(r.Averages.SearchMs),
			int64(r.Averages.DetailsMs),
			r.Averages.Matches,
		)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 70))
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

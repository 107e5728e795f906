//go:build ignore

// probe-ledger.go checks a fleet of attendance ledger deployments for
// liveness and chain integrity.
//
// Run with: go run scripts/probe-ledger.go
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Ledger instances to probe. Edit this list to match your deployment —
// one base URL per classroom or campus instance.
var ledgers = []string{
	// Local development
	"http://localhost:8080",
	"http://localhost:8081",

	// District campuses
	"https://attendance-north.district42.example.org",
	"https://attendance-south.district42.example.org",
	"https://attendance-east.district42.example.org",
	"https://attendance-west.district42.example.org",

	// Pilot schools (2026 rollout)
	"https://ledger.lincoln-high.example.edu",
	"https://ledger.roosevelt-middle.example.edu",
}

type result struct {
	base    string
	up      bool
	version string
	valid   bool
	entries int
	problem string // first violation, when the chain is broken
	err     string
	latency time.Duration
}

func probe(base string, client *http.Client) result {
	start := time.Now()

	r := result{base: base}

	// Liveness first; a down instance gets no integrity check.
	resp, err := client.Get(base + "/healthz")
	r.latency = time.Since(start)
	if err != nil {
		msg := err.Error()
		if len(msg) > 60 {
			msg = msg[:60] + "..."
		}
		r.err = msg
		return r
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		r.err = fmt.Sprintf("healthz returned %d", resp.StatusCode)
		return r
	}
	var health struct {
		Version string `json:"version"`
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	_ = json.Unmarshal(body, &health)
	r.up = true
	r.version = health.Version

	vr, err := client.Get(base + "/api/v1/attendance/verify")
	r.latency = time.Since(start)
	if err != nil {
		r.err = "verify: " + err.Error()
		return r
	}
	defer vr.Body.Close()

	var verify struct {
		Valid     bool `json:"valid"`
		Entries   int  `json:"entries"`
		Violation *struct {
			Index  int    `json:"index"`
			Reason string `json:"reason"`
		} `json:"violation"`
	}
	vbody, _ := io.ReadAll(io.LimitReader(vr.Body, 1<<16))
	if err := json.Unmarshal(vbody, &verify); err != nil {
		r.err = "verify: " + err.Error()
		return r
	}

	r.valid = verify.Valid
	r.entries = verify.Entries
	if verify.Violation != nil {
		r.problem = fmt.Sprintf("index %d: %s", verify.Violation.Index, verify.Violation.Reason)
	}
	return r
}

func main() {
	httpClient := &http.Client{Timeout: 8 * time.Second}

	jobs := make(chan string, len(ledgers))
	results := make(chan result, len(ledgers))

	// Worker pool — 8 concurrent probes
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for base := range jobs {
				results <- probe(base, httpClient)
			}
		}()
	}

	for _, base := range ledgers {
		jobs <- base
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(results)
	}()

	var all []result
	for r := range results {
		all = append(all, r)
		fmt.Printf("\r  probing... %d/%d", len(all), len(ledgers))
	}
	fmt.Printf("\r  done — %d instances probed\n\n", len(ledgers))

	sort.Slice(all, func(i, j int) bool { return all[i].base < all[j].base })

	// ── Report ────────────────────────────────────────────────────────────────
	fmt.Printf("══════════════════════════════════════════════════════\n")
	fmt.Printf("  Attendance Ledger Fleet Probe\n")
	fmt.Printf("  Instances checked: %d\n", len(ledgers))
	fmt.Printf("══════════════════════════════════════════════════════\n\n")

	var up, intact, violated int
	for _, r := range all {
		switch {
		case !r.up:
			fmt.Printf("  ✗ %-48s  unreachable: %s\n", r.base, r.err)
		case r.err != "":
			up++
			fmt.Printf("  ✗ %-48s  %-8s  %s\n", r.base, ver(r.version), r.err)
		case !r.valid:
			up++
			violated++
			fmt.Printf("  ✗ %-48s  %-8s  VIOLATED at %s  (%dms)\n",
				r.base, ver(r.version), r.problem, r.latency.Milliseconds())
		default:
			up++
			intact++
			fmt.Printf("  ✓ %-48s  %-8s  intact, %d entries  (%dms)\n",
				r.base, ver(r.version), r.entries, r.latency.Milliseconds())
		}
	}

	fmt.Printf("\n  up: %d/%d   intact: %d   violated: %d\n", up, len(ledgers), intact, violated)
	if violated > 0 {
		fmt.Println("\n  One or more chains failed verification. A violated chain still")
		fmt.Println("  serves reads; inspect it with `attd verify --server <url>`.")
	}
	fmt.Println("══════════════════════════════════════════════════════")
}

func ver(v string) string {
	if v == "" {
		return "?"
	}
	return "v" + v
}

// Package client is the attendance ledger Go SDK.
//
// It provides everything a caller needs to work with a ledger server:
// recording daily entries, walking the fingerprint-linked chain, pulling the
// eligibility summary, and running integrity checks — all in one coherent API.
//
// # Recording attendance
//
// RecordAttendance appends one entry for a subject on a calendar day. The
// server enforces one entry per (subject, date); a repeat comes back as a
// *DuplicateError carrying the record that is already on the chain:
//
//	c, err := client.New("http://localhost:8080")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	rec, err := c.RecordAttendance(ctx, "student-042", "present", "2026-03-02")
//	var dup *client.DuplicateError
//	if errors.As(err, &dup) {
//	    fmt.Println("already recorded:", dup.Existing.Fingerprint)
//	}
//
// # Reading the chain
//
// GetChain returns every record including the genesis entry at index 0;
// GetRecord fetches a single link by index and reports a missing index as
// ErrNotFound:
//
//	records, _ := c.GetChain(ctx)
//	rec, err := c.GetRecord(ctx, 3)
//	if errors.Is(err, client.ErrNotFound) {
//	    // index past the tip
//	}
//
// # Summary and eligibility
//
// GetSummary returns the aggregate report (day counts, rounded percentage,
// eligibility verdict). Add WithCacheTTL to serve repeated reads from memory;
// the cache is dropped automatically after a local write:
//
//	c, _ := client.New(serverURL, client.WithCacheTTL(30*time.Second))
//	s, _ := c.GetSummary(ctx)
//	fmt.Printf("%.2f%% — %s\n", s.AttendancePercentage, s.Eligibility)
//
// # Verifying integrity
//
// Verify asks the server to recompute every fingerprint and link. The call
// itself succeeds either way; a broken chain is reported in the result:
//
//	res, _ := c.Verify(ctx)
//	if !res.Valid {
//	    fmt.Printf("violation at index %d: %s\n", res.Violation.Index, res.Violation.Reason)
//	}
//
// # Privileged operations
//
// Reset wipes the chain back to a fresh genesis record and requires operator
// credentials. Configure WithOperatorSecret and the client exchanges it for a
// short-lived JWT automatically, refreshing 60 seconds before expiry; or
// supply a pre-obtained token with WithBearerToken:
//
//	c, _ := client.New(serverURL, client.WithOperatorSecret(os.Getenv("LEDGER_SECRET")))
//	if err := c.Reset(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
// For manual token control:
//
//	token, err := c.FetchToken(ctx) // exchanges the secret for a JWT
package client

// Package mailvet validates batches of email addresses and classifies each
// by domain liveness: syntactic validity, whether the domain's registration
// is alive (WHOIS), and whether the domain can receive mail (MX records).
//
// # Resolution
//
// The Verifier resolves one domain at a time against a durable fact cache:
//
//	checker := whois.NewChecker(whois.NewClient(30 * time.Second))
//	resolver := dns.NewResolver(dns.ResolverConfig{})
//	verifier := mailvet.NewVerifier(checker, resolver)
//
//	facts := cache.New()
//	fact := verifier.Resolve(ctx, "example.com", facts)
//
// A cache hit returns the stored fact without any network traffic. On a
// miss the registration is checked first; the MX lookup only runs when the
// registration is alive, and both lookups fail closed — any failure is
// recorded as a negative fact rather than an error.
//
// # Batches
//
// The Batch driver reads addresses from a .csv or .txt file, writes one
// output row per syntactically valid address, and snapshots the domain
// cache around the run:
//
//	store := cache.NewFileStore("cache/domains.csv")
//	batch := mailvet.NewBatch(verifier, store)
//	summary, err := batch.Run(ctx, "input.csv", "output/results.csv")
//
// Syntactically invalid addresses are skipped silently; per-domain lookup
// problems degrade classification accuracy instead of aborting the batch.
package mailvet

// Package targets moves content records between the formats upstream
// producers emit and the per-source corpus files the loader reads.
//
// A Source yields Targets one at a time; Drain collects them. CSVSource reads
// scraper spreadsheets and old exports, Dump and Load persist targets as YAML,
// and ConvertLegacy with WriteCorpus turns tagged targets into corpus CSVs.
package targets

// Package extract turns the seminar calendar into reconcile events.
//
// A PageSource obtains the page HTML (headless Chromium through chromedp, a
// plain HTTP GET, or a saved file) and Parse reads it with goquery. The
// CSVExtractor imports the "day,time,count" exports produced by earlier
// tooling.
//
// # Extraction Rule
//
// The first .mb30 element holds one table per slot. In each table the last two
// .fw-b elements are the slot line "M/D(曜) HH:MM｜..." and the participant
// count. Full-width digits and punctuation are folded before matching. The
// page carries no year; callers supply it through ReferenceYear.
//
// # Usage
//
//	src, _ := extract.NewSource(cfg.Extract)
//	ex := extract.NewPageExtractor(src, extract.ReferenceYear(0, loc), logger)
//	events, err := ex.Extract(ctx)
package extract

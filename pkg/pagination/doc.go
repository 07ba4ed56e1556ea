// Package pagination provides sequential offset/limit paging for tesseract
// endpoints.
//
// Tesseract pages with a "limit=<size>,<offset>" parameter and reports the
// size of the full result set in page.total. The paginator requests one page
// at a time and stops once the accumulated row count reaches that total.
//
// Example usage:
//
//	p := pagination.NewPaginator[population.Record](source, pagination.DefaultConfig())
//	records, err := p.FetchAll(ctx)
//
// The paginator:
//   - Keeps exactly one request in flight
//   - Advances the offset by the rows actually received, so short pages are safe
//   - Bounds every page with its own timeout
//   - Fails fast on the first error, returning no partial data
package pagination
